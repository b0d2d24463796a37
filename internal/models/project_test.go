package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decodeProject(t *testing.T, document string) Project {
	t.Helper()
	var p Project
	require.NoError(t, json.Unmarshal([]byte(document), &p))
	return p
}

func TestProject_JSON(t *testing.T) {
	t.Run("new project writes fields in order", func(t *testing.T) {
		p := NewProject(StringID("p1"))
		p.SetText(KeyTitle, strPtr("Demo <1>"))
		p.SetText(KeyImage, nil)
		p.SetTec(nil)
		p.SetFeatured(true)

		data, err := Marshal(p)
		require.NoError(t, err)
		assert.Equal(t, `{"id":"p1","title":"Demo <1>","image":null,"tec":[],"featured":true}`, string(data))
	})

	t.Run("keeps stored records verbatim", func(t *testing.T) {
		documents := []string{
			`{"order":3,"id":"p1","title":"Demo","tec":["go"],"featured":true,"links":{"docs":"x"}}`,
			`{"id":1,"title":42,"tec":"go","featured":"yes","description":null}`,
			`{"id":"a","title":null,"tec":[],"featured":false}`,
			`"not an object"`,
			`null`,
		}
		for _, document := range documents {
			data, err := Marshal(decodeProject(t, document))
			require.NoError(t, err)
			assert.Equal(t, document, string(data))
		}
	})

	t.Run("repeated keys keep the last value", func(t *testing.T) {
		data, err := Marshal(decodeProject(t, `{"id":"a","title":"one","id":"b"}`))
		require.NoError(t, err)
		assert.Equal(t, `{"id":"b","title":"one"}`, string(data))
	})
}

func TestProject_Overwrite(t *testing.T) {
	existing := decodeProject(t, `{"order":1,"id":"p1","title":"Old","description":"kept?","tec":["js"],"featured":true}`)

	changes := NewProject(StringID("ignored"))
	changes.SetText(KeyTitle, strPtr("New"))
	changes.SetText(KeyWebsite, nil)
	changes.SetTec([]string{})
	changes.SetFeatured(false)
	existing.Overwrite(changes)

	data, err := Marshal(existing)
	require.NoError(t, err)
	assert.Equal(t, `{"order":1,"id":"p1","title":"New","tec":[],"featured":false,"website":null}`, string(data))
}

func TestProject_DisplayTitle(t *testing.T) {
	testCases := map[string]string{
		`{"title":"Demo"}`: "Demo",
		`{"title":null}`:   "",
		`{}`:               "",
		`{"title":42}`:     "42",
		`"text"`:           "",
	}
	for document, want := range testCases {
		assert.Equal(t, want, decodeProject(t, document).DisplayTitle(), document)
	}
}

func TestID(t *testing.T) {
	parse := func(raw string) ID {
		id, err := ParseID(json.RawMessage(raw))
		require.NoError(t, err)
		return id
	}

	t.Run("parse", func(t *testing.T) {
		for _, raw := range []string{`"p1"`, `""`, `7`, `1.5`} {
			_, err := ParseID(json.RawMessage(raw))
			assert.NoError(t, err, raw)
		}
		for _, raw := range []string{`null`, `true`, `{}`, `[]`} {
			_, err := ParseID(json.RawMessage(raw))
			assert.ErrorIs(t, err, ErrInvalidID, raw)
		}
	})

	t.Run("equal compares type and value", func(t *testing.T) {
		assert.True(t, parse(`1`).Equal(parse(`1.0`)))
		assert.True(t, parse(`"a"`).Equal(StringID("a")))
		assert.False(t, parse(`1`).Equal(StringID("1")))
		assert.False(t, ID{}.Equal(ID{}))
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "p1", StringID("p1").String())
		assert.Equal(t, "", StringID("").String())
		assert.Equal(t, "7", parse(`7.0`).String())
		assert.Equal(t, "1.5", parse(`1.5`).String())
	})
}

func TestCatalog_JSON(t *testing.T) {
	t.Run("requires projects", func(t *testing.T) {
		var c Catalog
		assert.ErrorIs(t, json.Unmarshal([]byte(`{}`), &c), ErrMissingProjects)
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"projects":null}`), &c), ErrMissingProjects)
	})

	t.Run("rejects non-array projects", func(t *testing.T) {
		var c Catalog
		assert.Error(t, json.Unmarshal([]byte(`{"projects":"nope"}`), &c))
	})

	t.Run("nil projects marshal as empty array", func(t *testing.T) {
		data, err := Marshal(Catalog{})
		require.NoError(t, err)
		assert.Equal(t, `{"projects":[]}`, string(data))
	})

	t.Run("keeps top-level keys in order", func(t *testing.T) {
		input := `{"version":2,"projects":[{"id":"a"}],"meta":{"z":1,"a":2}}`

		var c Catalog
		require.NoError(t, json.Unmarshal([]byte(input), &c))

		data, err := Marshal(c)
		require.NoError(t, err)
		assert.Equal(t, input, string(data))
	})
}

func TestCatalog_FindIndex(t *testing.T) {
	var c Catalog
	require.NoError(t, json.Unmarshal([]byte(`{"projects":[{"id":"a"},{"id":1},{"id":"a"},"x",{}]}`), &c))

	assert.Equal(t, 0, c.FindIndex(StringID("a")))
	assert.Equal(t, -1, c.FindIndex(StringID("1")))
	one, err := ParseID(json.RawMessage(`1`))
	require.NoError(t, err)
	assert.Equal(t, 1, c.FindIndex(one))
	assert.Equal(t, -1, c.FindIndex(StringID("c")))
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(map[string]string{"url": "a&b<c>"})
	require.NoError(t, err)
	assert.Equal(t, `{"url":"a&b<c>"}`, string(data))
}
