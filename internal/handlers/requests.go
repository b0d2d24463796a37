package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dconn.dev/portfolio-api/internal/models"
)

// maxBodyBytes bounds request bodies; project payloads are small.
const maxBodyBytes = 1 << 20

var errInvalidRequest = errors.New("invalid request body")

// projectBody is a decoded JSON object whose fields are parsed on demand
type projectBody map[string]json.RawMessage

// decodeBody reads the request body as a JSON object
func decodeBody(w http.ResponseWriter, r *http.Request) (projectBody, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var body projectBody
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", errInvalidRequest)
		}
		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", errInvalidRequest)
	}
	return body, nil
}

// id returns the required project id; strings, including "", and numbers are accepted
func (b projectBody) id() (models.ID, error) {
	raw, ok := b["id"]
	if !ok || isNull(raw) {
		return models.ID{}, fmt.Errorf("%w: id is required", errInvalidRequest)
	}
	id, err := models.ParseID(raw)
	if err != nil {
		return models.ID{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return id, nil
}

// text returns an optional string field. present is false when the key is absent;
// a null value is present with a nil string.
func (b projectBody) text(key string) (value *string, present bool, err error) {
	raw, ok := b[key]
	if !ok {
		return nil, false, nil
	}
	if isNull(raw) {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("%w: %s must be a string", errInvalidRequest, key)
	}
	return &s, true, nil
}

// tec returns the technology list, or an empty list when tec is not an array
func (b projectBody) tec() ([]string, error) {
	raw, ok := b["tec"]
	trimmed := bytes.TrimSpace(raw)
	if !ok || len(trimmed) == 0 || trimmed[0] != '[' {
		return []string{}, nil
	}
	var tec []string
	if err := json.Unmarshal(trimmed, &tec); err != nil {
		return nil, fmt.Errorf("%w: tec must contain only strings", errInvalidRequest)
	}
	return tec, nil
}

// featured applies JavaScript truthiness to the featured field
func (b projectBody) featured() bool {
	raw, ok := b["featured"]
	if !ok {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value != ""
	default:
		// arrays and objects are truthy even when empty
		return true
	}
}

// secret returns a string field used as a password; any other type yields ""
func (b projectBody) secret(key string) string {
	var s string
	if raw, ok := b[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// project builds a Project from the body in the order new records are written
func (b projectBody) project() (models.Project, error) {
	id, err := b.id()
	if err != nil {
		return models.Project{}, err
	}

	p := models.NewProject(id)
	for _, key := range models.EditableKeys {
		switch key {
		case models.KeyTec:
			tec, err := b.tec()
			if err != nil {
				return models.Project{}, err
			}
			p.SetTec(tec)
		case models.KeyFeatured:
			p.SetFeatured(b.featured())
		default:
			value, present, err := b.text(key)
			if err != nil {
				return models.Project{}, err
			}
			if present {
				p.SetText(key, value)
			}
		}
	}
	return p, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
