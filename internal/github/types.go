package github

import (
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

func init() {
	gob.Register([]json.RawMessage{})
}

// Repo is one repository object exactly as returned by the list endpoints.
// Only the handful of keys used for filtering are ever decoded; the raw bytes
// are kept so JSON output can pass the object through unmodified.
type Repo struct {
	raw json.RawMessage
}

// NewRepo wraps raw JSON object bytes.
func NewRepo(raw []byte) Repo {
	return Repo{raw: raw}
}

// Raw returns the object bytes as received.
func (r Repo) Raw() json.RawMessage {
	return r.raw
}

// ShapeError reports a repository object that lacks a consumed key or holds
// a value of an unexpected type.
type ShapeError struct {
	Key  string
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("repository field %q: expected %s, got %s", e.Key, e.Want, e.Got)
}

func (r Repo) get(key string) gjson.Result {
	return gjson.GetBytes(r.raw, key)
}

// FullName returns the "owner/name" form.
func (r Repo) FullName() (string, error) {
	v := r.get("full_name")
	if v.Type != gjson.String {
		return "", &ShapeError{Key: "full_name", Want: "string", Got: typeName(v)}
	}
	return v.Str, nil
}

// Bool returns the boolean stored under key.
func (r Repo) Bool(key string) (bool, error) {
	v := r.get(key)
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, &ShapeError{Key: key, Want: "boolean", Got: typeName(v)}
	}
	return v.Bool(), nil
}

// Archived reports whether the repository is archived.
func (r Repo) Archived() (bool, error) {
	return r.Bool("archived")
}

// Fork reports whether the repository is a fork.
func (r Repo) Fork() (bool, error) {
	return r.Bool("fork")
}

// Language returns the primary language. ok is false when GitHub detected no
// language (a JSON null).
func (r Repo) Language() (lang string, ok bool, err error) {
	v := r.get("language")
	switch v.Type {
	case gjson.String:
		return v.Str, true, nil
	case gjson.Null:
		if v.Exists() {
			return "", false, nil
		}
	}
	return "", false, &ShapeError{Key: "language", Want: "string or null", Got: typeName(v)}
}

// Topics returns the repository topics in API order.
func (r Repo) Topics() ([]string, error) {
	v := r.get("topics")
	if !v.IsArray() {
		return nil, &ShapeError{Key: "topics", Want: "array of strings", Got: typeName(v)}
	}
	items := v.Array()
	topics := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, &ShapeError{Key: "topics", Want: "array of strings", Got: "array containing " + typeName(item)}
		}
		topics = append(topics, item.Str)
	}
	return topics, nil
}

func typeName(v gjson.Result) string {
	if !v.Exists() {
		return "nothing (key missing)"
	}
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}
