package scoring

import (
	"strings"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
)

// ConditionMatcher decides whether an assessment documents a complex medical
// condition. Implementations must be pure and safe for concurrent use.
type ConditionMatcher interface {
	HasComplexCondition(a model.Assessment) bool
}

// ConditionMatcherFunc adapts a plain function to ConditionMatcher.
type ConditionMatcherFunc func(a model.Assessment) bool

func (f ConditionMatcherFunc) HasComplexCondition(a model.Assessment) bool { return f(a) }

// ComplexMedical evaluates m against a. A nil matcher never matches.
func ComplexMedical(a model.Assessment, m ConditionMatcher) bool {
	if m == nil {
		return false
	}
	return m.HasComplexCondition(a)
}

// AllowList matches a fixed set of condition identifiers in Sections I and J.
// An identifier counts when it appears as an item with a truthy value or as
// an entry of the active diagnoses list. Missing data never matches.
type AllowList struct {
	ids map[string]struct{}
}

// NewAllowList builds a matcher over the given identifiers.
func NewAllowList(ids ...string) *AllowList {
	l := &AllowList{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if code := normalize.ItemCode(id); code != "" {
			l.ids[code] = struct{}{}
		}
	}
	return l
}

// DefaultAllowList matches model.ComplexConditions.
func DefaultAllowList() *AllowList {
	return NewAllowList(model.ComplexConditions...)
}

// Identifiers returns the identifiers the list matches, unordered.
func (l *AllowList) Identifiers() []string {
	out := make([]string, 0, len(l.ids))
	for id := range l.ids {
		out = append(out, id)
	}
	return out
}

func (l *AllowList) HasComplexCondition(a model.Assessment) bool {
	for _, id := range []model.SectionID{model.SectionI, model.SectionJ} {
		s, ok := a.Sections[id]
		if !ok {
			continue
		}
		for code, v := range s.Items {
			if _, listed := l.ids[normalize.ItemCode(code)]; listed && normalize.Truthy(v) {
				return true
			}
		}
		if l.anyListed(s.Items[model.ActiveDiagnosesItem]) {
			return true
		}
	}
	return false
}

func (l *AllowList) anyListed(v any) bool {
	var entries []string
	switch t := v.(type) {
	case []string:
		entries = t
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				entries = append(entries, s)
			}
		}
	case string:
		entries = strings.Split(t, ",")
	}
	for _, e := range entries {
		if _, ok := l.ids[normalize.ItemCode(e)]; ok {
			return true
		}
	}
	return false
}
