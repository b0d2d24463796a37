package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrInvalidID is returned when an id is neither a JSON string nor a number
var ErrInvalidID = errors.New("id must be a string or a number")

// ID identifies a project. It keeps the JSON form of the id, so a string
// "1" and a number 1 are different ids, as they are in the stored document.
type ID struct {
	raw json.RawMessage
}

// StringID returns the id for a string value
func StringID(s string) ID {
	raw, _ := Marshal(s)
	return ID{raw: raw}
}

// ParseID accepts a JSON string or number
func ParseID(raw json.RawMessage) (ID, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ID{}, err
	}
	switch v.(type) {
	case string, float64:
		return ID{raw: compact(raw)}, nil
	default:
		return ID{}, ErrInvalidID
	}
}

// Equal compares ids by JSON type and value. Objects and arrays never match.
func (id ID) Equal(other ID) bool {
	if len(id.raw) == 0 || len(other.raw) == 0 {
		return false
	}
	var a, b any
	if json.Unmarshal(id.raw, &a) != nil || json.Unmarshal(other.raw, &b) != nil {
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

// String renders the id for messages: strings unquoted, numbers in shortest form
func (id ID) String() string {
	var v any
	if err := json.Unmarshal(id.raw, &v); err != nil {
		return string(id.raw)
	}
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return string(compact(id.raw))
	}
}

func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
