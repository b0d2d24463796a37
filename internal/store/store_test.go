package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dconn.dev/portfolio-api/internal/models"
)

func strPtr(s string) *string { return &s }

func newProject(id, title string) models.Project {
	p := models.NewProject(models.StringID(id))
	p.SetText(models.KeyTitle, &title)
	p.SetTec(nil)
	p.SetFeatured(false)
	return p
}

func projectIDs(t *testing.T, catalog *models.Catalog) []string {
	t.Helper()
	ids := make([]string, 0, len(catalog.Projects))
	for _, p := range catalog.Projects {
		id, ok := p.ID()
		require.True(t, ok)
		ids = append(ids, id.String())
	}
	return ids
}

func TestEncode(t *testing.T) {
	t.Run("pretty prints with two spaces", func(t *testing.T) {
		p := models.NewProject(models.StringID("p1"))
		p.SetText(models.KeyTitle, strPtr("Demo"))
		p.SetTec([]string{"go"})
		p.SetFeatured(false)

		data, err := Encode(&models.Catalog{Projects: []models.Project{p}})
		require.NoError(t, err)

		want := "{\n  \"projects\": [\n    {\n      \"id\": \"p1\",\n      \"title\": \"Demo\",\n" +
			"      \"tec\": [\n        \"go\"\n      ],\n      \"featured\": false\n    }\n  ]\n}"
		assert.Equal(t, want, string(data))
	})

	t.Run("nil catalog becomes an empty projects array", func(t *testing.T) {
		data, err := Encode(nil)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"projects\": []\n}", string(data))
	})

	t.Run("does not escape html characters", func(t *testing.T) {
		p := models.NewProject(models.StringID("p1"))
		p.SetText(models.KeyWebsite, strPtr("https://example.com/?a=1&b=<2>"))

		data, err := Encode(&models.Catalog{Projects: []models.Project{p}})
		require.NoError(t, err)
		assert.Contains(t, string(data), "https://example.com/?a=1&b=<2>")
	})
}

func TestDecode(t *testing.T) {
	t.Run("rejects invalid json", func(t *testing.T) {
		_, err := Decode([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("rejects documents without projects", func(t *testing.T) {
		_, err := Decode([]byte(`{"items": []}`))
		assert.ErrorIs(t, err, models.ErrMissingProjects)
	})

	t.Run("empty projects array", func(t *testing.T) {
		catalog, err := Decode([]byte(`{"projects": []}`))
		require.NoError(t, err)
		assert.NotNil(t, catalog.Projects)
		assert.Empty(t, catalog.Projects)
	})
}

func TestRoundTrip(t *testing.T) {
	document := `{
  "updatedBy": "admin",
  "projects": [
    {
      "id": "p1",
      "title": "Demo",
      "shortDescription": "short",
      "description": "long",
      "website": "https://example.com/?a=1&b=<2>",
      "github": "https://github.com/example/demo",
      "image": "demo.png",
      "tec": [
        "go",
        "sqlite"
      ],
      "duration": "3 months",
      "featured": true,
      "order": 4
    },
    {
      "id": "a",
      "title": null,
      "description": null,
      "tec": [],
      "featured": false
    },
    {
      "zeta": {},
      "id": 7,
      "title": 42,
      "tec": "go",
      "featured": "yes"
    },
    "loose entry"
  ]
}`

	catalog, err := Decode([]byte(document))
	require.NoError(t, err)

	data, err := Encode(catalog)
	require.NoError(t, err)
	assert.Equal(t, document, string(data))
}

func TestLooseCatalog(t *testing.T) {
	ctx := context.Background()
	document := `{"projects":[{"id":1,"title":"One","featured":"yes"},{"id":"1","tec":"go"},{"id":2,"title":42}]}`
	s := NewMemoryStoreFromDocument([]byte(document))

	catalog, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1", "2"}, projectIDs(t, catalog))

	one, err := models.ParseID([]byte(`1`))
	require.NoError(t, err)
	idx := FindIndex(catalog, one)
	require.Equal(t, 0, idx)
	catalog.Projects[idx].Overwrite(newProject("ignored", "Uno"))
	require.NoError(t, s.Save(ctx, catalog))

	catalog, err = s.Load(ctx)
	require.NoError(t, err)
	two, err := models.ParseID([]byte(`2`))
	require.NoError(t, err)
	idx = FindIndex(catalog, two)
	require.Equal(t, 2, idx)
	catalog.Projects = append(catalog.Projects[:idx], catalog.Projects[idx+1:]...)
	require.NoError(t, s.Save(ctx, catalog))

	assert.JSONEq(t, `{"projects":[{"id":1,"title":"Uno","tec":[],"featured":false},{"id":"1","tec":"go"}]}`, string(s.Document()))
}

func TestFindIndex(t *testing.T) {
	catalog := &models.Catalog{Projects: []models.Project{
		newProject("a", "A"), newProject("b", "B1"), newProject("b", "B2"),
	}}

	assert.Equal(t, 0, FindIndex(catalog, models.StringID("a")))
	assert.Equal(t, 1, FindIndex(catalog, models.StringID("b")), "first match wins")
	assert.Equal(t, -1, FindIndex(catalog, models.StringID("missing")))
	assert.Equal(t, -1, FindIndex(nil, models.StringID("a")))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("file driver", func(t *testing.T) {
		s, err := Open(ctx, DriverFile, "catalog.json")
		require.NoError(t, err)
		assert.IsType(t, &FileStore{}, s)
	})

	t.Run("memory driver", func(t *testing.T) {
		s, err := Open(ctx, "MEMORY", "")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sqlite driver", func(t *testing.T) {
		s, err := Open(ctx, DriverSQLite, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, "redis", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage driver")
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("loads are independent copies", func(t *testing.T) {
		s := NewMemoryStore(nil)

		first, err := s.Load(ctx)
		require.NoError(t, err)
		first.Projects = append(first.Projects, newProject("p1", "Demo"))

		second, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, second.Projects)
	})

	t.Run("save then load", func(t *testing.T) {
		s := NewMemoryStore(nil)
		require.NoError(t, s.Save(ctx, &models.Catalog{Projects: []models.Project{newProject("p1", "Demo")}}))

		catalog, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, projectIDs(t, catalog))
	})

	t.Run("missing document is a storage error", func(t *testing.T) {
		s := NewMemoryStoreFromDocument(nil)

		_, err := s.Load(ctx)
		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, OpLoad, storageErr.Op)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewMemoryStore(nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := s.Save(cctx, EmptyCatalog())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
