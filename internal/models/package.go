package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Entry is one distributable extension package in the catalog
type Entry struct {
	Name         string   `json:"name"`
	Pkg          string   `json:"pkg"`
	Apk          string   `json:"apk"`
	Lang         string   `json:"lang"`
	Code         int      `json:"code"`
	Version      string   `json:"version"`
	NSFW         int      `json:"nsfw"`
	HasReadme    *int     `json:"hasReadme,omitempty"`
	HasChangelog *int     `json:"hasChangelog,omitempty"`
	Size         int64    `json:"size"`
	SHA256       string   `json:"sha256"`
	Icon         string   `json:"icon,omitempty"`
	Sig          string   `json:"sig"`
	Sources      []Source `json:"sources,omitempty"`

	// Extra holds keys without a field above, written back unchanged after them.
	Extra map[string]json.RawMessage `json:"-"`
}

type entryFields Entry

var entryKeys = []string{
	"name", "pkg", "apk", "lang", "code", "version", "nsfw", "hasReadme",
	"hasChangelog", "size", "sha256", "icon", "sig", "sources",
}

// UnmarshalJSON decodes the known fields and keeps everything else in Extra.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields entryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := unknownKeys(data, entryKeys, nil)
	if err != nil {
		return err
	}
	fields.Extra = extra
	*e = Entry(fields)
	return nil
}

// MarshalJSON writes the known fields followed by Extra in key order. An
// explicit empty sources list survives.
func (e Entry) MarshalJSON() ([]byte, error) {
	extra := e.Extra
	if e.Sources != nil && len(e.Sources) == 0 {
		extra = withKey(extra, "sources", json.RawMessage("[]"))
	}
	return marshalWithExtra(entryFields(e), extra)
}

// Source is a logical source bundled inside an extension package.
// Older inspector output also carries a versionId, which is dropped on decode.
type Source struct {
	Name    string    `json:"name"`
	Lang    string    `json:"lang"`
	ID      *SourceID `json:"id,omitempty"`
	BaseURL string    `json:"baseUrl,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type sourceFields Source

var (
	sourceKeys    = []string{"name", "lang", "id", "baseUrl"}
	droppedSource = []string{"versionId"}
)

// UnmarshalJSON decodes the known fields and keeps everything else in Extra.
// A null id is kept as null.
func (s *Source) UnmarshalJSON(data []byte) error {
	var fields sourceFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := unknownKeys(data, sourceKeys, droppedSource)
	if err != nil {
		return err
	}
	fields.Extra = extra
	*s = Source(fields)
	return nil
}

// MarshalJSON writes the known fields followed by Extra in key order.
func (s Source) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(sourceFields(s), s.Extra)
}

// NewSourceID returns a pointer to id
func NewSourceID(id string) *SourceID {
	v := SourceID(id)
	return &v
}

// SourceID is a source identifier. Inspector output writes it as a number,
// published catalogs as a string; it is always emitted as a string.
type SourceID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *SourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SourceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("source id must be a string or number: %w", err)
	}
	*id = SourceID(n.String())
	return nil
}

// MarshalJSON always writes the identifier as a JSON string.
func (id SourceID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// unknownKeys returns the members of the object in data that match none of
// known or dropped. A known member whose value decodes to an omitted field,
// such as a null id or an empty icon, is kept so it is written back as is.
func unknownKeys(data []byte, known, dropped []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var extra map[string]json.RawMessage
	for key, value := range raw {
		if matchesKey(key, dropped) {
			continue
		}
		if matchesKey(key, known) && !omittedOnOutput(key, value) {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = value
	}
	return extra, nil
}

// Values that decode into a field left out on output.
var omittedValues = map[string][]string{
	"id":           {"null"},
	"hasReadme":    {"null"},
	"hasChangelog": {"null"},
	"sources":      {"null"},
	"icon":         {"null", `""`},
	"baseUrl":      {"null", `""`},
}

func omittedOnOutput(key string, value json.RawMessage) bool {
	value = bytes.TrimSpace(value)
	for _, v := range omittedValues[key] {
		if string(value) == v {
			return true
		}
	}
	return false
}

// matchesKey follows encoding/json, which matches field names case-insensitively.
func matchesKey(key string, keys []string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func withKey(extra map[string]json.RawMessage, key string, value json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(extra)+1)
	for k, v := range extra {
		out[k] = v
	}
	out[key] = value
	return out
}

// marshalWithExtra encodes v as an object and appends the extra members.
// Markup characters are left unescaped to match the catalog encoder.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := append([]byte(nil), bytes.TrimSpace(buf.Bytes())...)
	if len(extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Drop the closing brace and continue the object
	out = out[:len(out)-1]
	for _, k := range keys {
		if len(out) > 1 {
			out = append(out, ',')
		}
		buf.Reset()
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		out = append(out, bytes.TrimSpace(buf.Bytes())...)
		out = append(out, ':')
		out = append(out, extra[k]...)
	}
	return append(out, '}'), nil
}
