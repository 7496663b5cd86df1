package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Layouts the backend has been seen to send. Zoneless values are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// timestamp decodes the backend's date strings leniently: null, "" and
// unknown formats become the zero time instead of failing the whole payload.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string value
		*t = timestamp{}
		return nil
	}
	*t = timestamp(ParseTimestamp(s))
	return nil
}

func (t *timestamp) value() time.Time {
	if t == nil {
		return time.Time{}
	}
	return time.Time(*t)
}

// timePtr maps a missing or zero timestamp to nil.
func (t *timestamp) ptr() *time.Time {
	v := t.value()
	if v.IsZero() {
		return nil
	}
	return &v
}

// ParseTimestamp accepts RFC 3339, zoneless ISO 8601 and plain dates.
// Anything else yields the zero time.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v
		}
	}
	return time.Time{}
}

func (g *Gem) UnmarshalJSON(data []byte) error {
	type plain Gem
	aux := struct {
		*plain
		CreatedAt *timestamp `json:"createdAt"`
		UpdatedAt *timestamp `json:"updatedAt"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.CreatedAt = aux.CreatedAt.value()
	g.UpdatedAt = aux.UpdatedAt.ptr()
	return nil
}

func (c *City) UnmarshalJSON(data []byte) error {
	type plain City
	aux := struct {
		*plain
		CreatedAt *timestamp `json:"createdAt"`
		UpdatedAt *timestamp `json:"updatedAt"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.CreatedAt = aux.CreatedAt.ptr()
	c.UpdatedAt = aux.UpdatedAt.ptr()
	return nil
}

func (v *Vote) UnmarshalJSON(data []byte) error {
	type plain Vote
	aux := struct {
		*plain
		CreatedAt *timestamp `json:"createdAt"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.CreatedAt = aux.CreatedAt.value()
	return nil
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	type plain Comment
	aux := struct {
		*plain
		CreatedAt *timestamp `json:"createdAt"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.CreatedAt = aux.CreatedAt.value()
	return nil
}
