package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMissingProjects is returned when a catalog document has no projects array
var ErrMissingProjects = errors.New("catalog document has no projects array")

// Project field names
const (
	KeyID               = "id"
	KeyTitle            = "title"
	KeyShortDescription = "shortDescription"
	KeyDescription      = "description"
	KeyWebsite          = "website"
	KeyGitHub           = "github"
	KeyImage            = "image"
	KeyTec              = "tec"
	KeyDuration         = "duration"
	KeyFeatured         = "featured"
)

// EditableKeys lists the fields an edit overwrites, in the order a new project writes them after id
var EditableKeys = []string{
	KeyTitle, KeyShortDescription, KeyDescription, KeyWebsite,
	KeyGitHub, KeyImage, KeyTec, KeyDuration, KeyFeatured,
}

// Project is one entry of the catalog.
// Stored values are not validated: every member keeps its position and raw JSON,
// so a record written back without edits is unchanged.
type Project struct {
	fields object

	// other holds an entry of the projects array that is not a JSON object
	other json.RawMessage
}

// NewProject starts a project record with the given id
func NewProject(id ID) Project {
	var p Project
	p.fields.set(KeyID, id.raw)
	return p
}

// ID returns the stored id, if the record has one
func (p Project) ID() (ID, bool) {
	raw, ok := p.fields.get(KeyID)
	if !ok {
		return ID{}, false
	}
	return ID{raw: raw}, true
}

// HasID reports whether the stored id strictly equals id
func (p Project) HasID(id ID) bool {
	stored, ok := p.ID()
	return ok && stored.Equal(id)
}

// SetText writes a text field; nil writes null
func (p *Project) SetText(key string, value *string) {
	if value == nil {
		p.fields.set(key, json.RawMessage("null"))
		return
	}
	raw, _ := Marshal(*value)
	p.fields.set(key, raw)
}

// SetTec writes the technology list; nil writes an empty array
func (p *Project) SetTec(tec []string) {
	if tec == nil {
		tec = []string{}
	}
	raw, _ := Marshal(tec)
	p.fields.set(KeyTec, raw)
}

// SetFeatured writes the featured flag
func (p *Project) SetFeatured(featured bool) {
	raw, _ := Marshal(featured)
	p.fields.set(KeyFeatured, raw)
}

// Overwrite copies every editable field from src.
// A field src does not carry is removed; id, unknown keys and key order are kept.
func (p *Project) Overwrite(src Project) {
	p.fields = p.fields.clone()
	for _, key := range EditableKeys {
		if value, ok := src.fields.get(key); ok {
			p.fields.set(key, value)
		} else {
			p.fields.remove(key)
		}
	}
}

// DisplayTitle returns the title for messages; a missing or null title yields ""
func (p Project) DisplayTitle() string {
	raw, ok := p.fields.get(KeyTitle)
	if !ok || isNull(raw) {
		return ""
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return string(compact(raw))
	}
	return title
}

// UnmarshalJSON keeps the record as read; entries that are not objects are kept verbatim
func (p *Project) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*p = Project{other: append(json.RawMessage(nil), trimmed...)}
		return nil
	}
	fields, err := decodeObject(trimmed)
	if err != nil {
		return err
	}
	*p = Project{fields: fields}
	return nil
}

// MarshalJSON writes the members in their stored order
func (p Project) MarshalJSON() ([]byte, error) {
	if p.other != nil {
		return p.other, nil
	}
	return p.fields.encode()
}

// Catalog is the persisted document holding every project
type Catalog struct {
	Projects []Project

	// fields keeps the top-level members in document order; the projects value comes from Projects
	fields object
}

// UnmarshalJSON decodes a catalog, rejecting documents without a projects array
func (c *Catalog) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	raw, ok := fields.get("projects")
	if !ok || isNull(raw) {
		return ErrMissingProjects
	}

	var projects []Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return err
	}
	if projects == nil {
		projects = []Project{}
	}
	*c = Catalog{Projects: projects, fields: fields}
	return nil
}

// MarshalJSON encodes the catalog, always emitting a projects array
func (c Catalog) MarshalJSON() ([]byte, error) {
	projects := c.Projects
	if projects == nil {
		projects = []Project{}
	}
	raw, err := Marshal(projects)
	if err != nil {
		return nil, err
	}

	fields := c.fields.clone()
	if fields.index("projects") == -1 {
		fields = append(object{{key: "projects"}}, fields...)
	}
	fields.set("projects", raw)
	return fields.encode()
}

// FindIndex returns the index of the first project with the given id, or -1
func (c *Catalog) FindIndex(id ID) int {
	for i := range c.Projects {
		if c.Projects[i].HasID(id) {
			return i
		}
	}
	return -1
}

// Marshal encodes v as JSON without escaping HTML characters
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
