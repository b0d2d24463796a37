package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNotObject = errors.New("value is not a JSON object")

type member struct {
	key   string
	value json.RawMessage
}

// object is a JSON object whose members keep their document order and raw values
type object []member

func decodeObject(data []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	obj := object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		// a repeated key keeps its first position and its last value
		obj.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (o object) index(key string) int {
	for i := range o {
		if o[i].key == key {
			return i
		}
	}
	return -1
}

func (o object) get(key string) (json.RawMessage, bool) {
	if i := o.index(key); i != -1 {
		return o[i].value, true
	}
	return nil, false
}

// set replaces the value in place, or appends the key when it is new
func (o *object) set(key string, value json.RawMessage) {
	if i := o.index(key); i != -1 {
		(*o)[i].value = value
		return
	}
	*o = append(*o, member{key: key, value: value})
}

func (o *object) remove(key string) {
	if i := o.index(key); i != -1 {
		*o = append((*o)[:i], (*o)[i+1:]...)
	}
}

func (o object) clone() object {
	if o == nil {
		return nil
	}
	out := make(object, len(o))
	copy(out, o)
	return out
}

func (o object) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
