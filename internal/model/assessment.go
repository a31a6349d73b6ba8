package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// completedKey is the reserved key carrying a section's completion flag in
// the wire format; every other key is an item code.
const completedKey = "completed"

// Section is one lettered section of an assessment: a completion flag plus
// a mapping from item code to raw value. Values are whatever the upstream
// system sent: numeric text, JSON numbers, lists of codes or booleans.
type Section struct {
	Completed bool
	Items     map[string]any
}

// MarshalJSON flattens the section into a single object with the reserved
// "completed" key. encoding/json sorts map keys, so output is canonical.
func (s Section) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.Items)+1)
	for k, v := range s.Items {
		m[k] = v
	}
	m[completedKey] = s.Completed
	return json.Marshal(m)
}

// UnmarshalJSON reads the flattened wire form. A non-boolean "completed"
// value is ignored.
func (s *Section) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}
	s.Completed = false
	if c, ok := m[completedKey]; ok {
		if b, ok := c.(bool); ok {
			s.Completed = b
		}
		delete(m, completedKey)
	}
	if m == nil {
		m = make(map[string]any)
	}
	s.Items = m
	return nil
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := Section{Completed: s.Completed, Items: make(map[string]any, len(s.Items))}
	for k, v := range s.Items {
		out.Items[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		c := make([]any, len(t))
		for i := range t {
			c[i] = cloneValue(t[i])
		}
		return c
	case []string:
		return append([]string(nil), t...)
	case map[string]any:
		c := make(map[string]any, len(t))
		for k, x := range t {
			c[k] = cloneValue(x)
		}
		return c
	default:
		return v
	}
}

// Assessment is the clinical record for one resident at one assessment
// event. The assessment is authoritative; classifications are derived.
type Assessment struct {
	AssessmentID  uuid.UUID             `json:"assessment_id"`
	ResidentID    string                `json:"resident_id"`
	ReferenceDate string                `json:"reference_date,omitempty"`
	Reason        string                `json:"reason,omitempty"`
	Sections      map[SectionID]Section `json:"sections"`
}

// Section returns the named section, or ok=false when absent.
func (a Assessment) Section(id SectionID) (Section, bool) {
	s, ok := a.Sections[id]
	return s, ok
}

// Clone returns a deep copy so that a snapshot can be handed to the engine
// without sharing maps with the caller.
func (a Assessment) Clone() Assessment {
	out := a
	out.Sections = make(map[SectionID]Section, len(a.Sections))
	for id, s := range a.Sections {
		out.Sections[id] = s.Clone()
	}
	return out
}
