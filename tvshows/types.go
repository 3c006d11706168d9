package tvshows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Response is the raw result of a successful backend call
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", r.URL, err)
	}
	return nil
}

// ShowRecord is a decoded show. Every field is optional; absent fields stay
// nil so callers can substitute their own defaults.
type ShowRecord struct {
	ID           json.RawMessage
	Title        *string
	Genre        *string
	TotalSeasons *int
	Rating       *float64
	Description  *string

	// Index is the record's position in the response, set by DecodeShows
	Index int

	// Raw holds the record exactly as the backend sent it
	Raw json.RawMessage
}

// HasID reports whether the record carries a usable identifier
func (s ShowRecord) HasID() bool {
	id := bytes.TrimSpace(s.ID)
	switch string(id) {
	case "", "null", `""`, "0", "false":
		return false
	}
	return true
}

// IDString returns the identifier as text, unquoting string IDs
func (s ShowRecord) IDString() string {
	if !s.HasID() {
		return ""
	}
	var str string
	if err := json.Unmarshal(s.ID, &str); err == nil {
		return str
	}
	return string(bytes.TrimSpace(s.ID))
}

// SourceKey returns the record identifier, or its position in the response
func (s ShowRecord) SourceKey() string {
	return s.Key(s.Index)
}

// Key returns the record identifier, or index when no ID is present
func (s ShowRecord) Key(index int) string {
	if s.HasID() {
		return s.IDString()
	}
	return strconv.Itoa(index)
}

// DecodeShow decodes a raw record. Fields with an unexpected type are treated
// as absent; non-object records decode to an empty ShowRecord.
func DecodeShow(raw json.RawMessage) ShowRecord {
	record := ShowRecord{Raw: raw}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return record
	}

	if id, ok := field(fields, "id"); ok {
		record.ID = id
	}
	record.Title = stringField(fields, "title")
	record.Genre = stringField(fields, "genre")
	record.Description = stringField(fields, "description")
	record.TotalSeasons = intField(fields, "total_seasons")

	record.Rating = numberField(fields, "imdb_rating")
	if record.Rating == nil {
		record.Rating = numberField(fields, "rating")
	}

	return record
}

// DecodeShows decodes every record, preserving order and source position
func DecodeShows(raws []json.RawMessage) []ShowRecord {
	records := make([]ShowRecord, 0, len(raws))
	for i, raw := range raws {
		record := DecodeShow(raw)
		record.Index = i
		records = append(records, record)
	}
	return records
}

// field returns the named value, treating JSON null as absent
func field(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	return raw, true
}

func stringField(fields map[string]json.RawMessage, name string) *string {
	raw, ok := field(fields, name)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func intField(fields map[string]json.RawMessage, name string) *int {
	f := numberField(fields, name)
	if f == nil || *f < 0 {
		return nil
	}
	n := int(*f)
	return &n
}

// numberField accepts JSON numbers and numeric strings, since decimal columns
// are commonly serialized as strings
func numberField(fields map[string]json.RawMessage, name string) *float64 {
	raw, ok := field(fields, name)
	if !ok {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// ShowInput is the payload for creating or updating a show
type ShowInput struct {
	Title        string   `json:"title,omitempty"`
	Genre        string   `json:"genre,omitempty"`
	TotalSeasons *int     `json:"total_seasons,omitempty"`
	Rating       *float64 `json:"imdb_rating,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// showEnvelope wraps create and update payloads under the resource key
type showEnvelope struct {
	TVShow any `json:"tv_show"`
}
