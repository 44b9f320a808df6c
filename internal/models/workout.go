package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Template is a reusable workout definition: a named, ordered list of
// exercises. Templates are created empty and grow as the user adds exercises.
type Template struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Exercise is a single movement within a template. MuscleGroup is optional.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
}

// Session is one dated execution of a template. At most one session exists
// per (TemplateID, Date) pair. Exercises maps exercise ID to the logged data;
// it is filled incrementally as the user logs sets, never pre-populated from
// the template. TemplateID may reference a template that has since been
// deleted — session records outlive their template.
type Session struct {
	ID         string               `json:"id"`
	TemplateID string               `json:"templateId"`
	Date       string               `json:"date"` // YYYY-MM-DD, no time component
	Exercises  map[string]SeriesLog `json:"exercises"`
}

// SeriesLog is the per-exercise record within a session: a free-form comment
// plus an ordered list of sets. Set number = slice position + 1.
type SeriesLog struct {
	Comment string        `json:"comment"`
	Series  []SeriesEntry `json:"series"`
}

// EmptySeriesLog returns the default value handed out when no data has been
// logged yet: empty comment, zero sets.
func EmptySeriesLog() SeriesLog {
	return SeriesLog{Comment: "", Series: []SeriesEntry{}}
}

// SeriesEntry is one logged set. RestSec is the rest taken after the set in
// seconds. RIR is "reps in reserve", a 0-10 proximity-to-failure rating.
// Done marks the set as completed.
type SeriesEntry struct {
	Reps    int     `json:"reps"`
	Kg      float64 `json:"kg"`
	RestSec int     `json:"repos"`
	RIR     int     `json:"rir"`
	Done    bool    `json:"fait"`
}

// seriesEntryWire mirrors SeriesEntry with raw fields so malformed input can
// be coerced instead of rejected.
type seriesEntryWire struct {
	Reps    json.RawMessage `json:"reps"`
	Kg      json.RawMessage `json:"kg"`
	RestSec json.RawMessage `json:"repos"`
	RIR     json.RawMessage `json:"rir"`
	Done    json.RawMessage `json:"fait"`
}

// UnmarshalJSON coerces missing or malformed fields to 0/false rather than
// failing. Logged data comes from free-form user input, so numbers may arrive
// as strings, empty strings, or garbage; the contract is that a set entry
// always decodes.
func (e *SeriesEntry) UnmarshalJSON(data []byte) error {
	var wire seriesEntryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		*e = SeriesEntry{}
		return nil
	}
	e.Reps = coerceInt(wire.Reps)
	e.Kg = coerceFloat(wire.Kg)
	e.RestSec = coerceInt(wire.RestSec)
	e.RIR = coerceInt(wire.RIR)
	e.Done = coerceBool(wire.Done)
	return nil
}

func coerceFloat(raw json.RawMessage) float64 {
	s := rawScalar(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func coerceInt(raw json.RawMessage) int {
	// User input like "10.0" should still land on 10.
	v := coerceFloat(raw)
	return int(v)
}

func coerceBool(raw json.RawMessage) bool {
	switch rawScalar(raw) {
	case "true", "1":
		return true
	}
	return false
}

// rawScalar strips quotes and whitespace from a raw JSON value, returning the
// bare scalar text, or "" for null/absent/non-scalar values.
func rawScalar(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return ""
		}
		return strings.TrimSpace(unquoted)
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return ""
	}
	return s
}

// Tonnage is the volume metric for one set list: sum of reps * kg.
func (l SeriesLog) Tonnage() float64 {
	var total float64
	for _, s := range l.Series {
		total += float64(s.Reps) * s.Kg
	}
	return total
}

// MaxWeight is the heaviest non-zero weight among the logged sets, 0 if none.
func (l SeriesLog) MaxWeight() float64 {
	var max float64
	for _, s := range l.Series {
		if s.Kg > max {
			max = s.Kg
		}
	}
	return max
}
