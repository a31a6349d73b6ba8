package normalize

import (
	"strings"
	"time"
)

// Assessment reference dates arrive in the MDS submission format (YYYYMMDD)
// or whatever the upstream EHR exported.
var dateFormats = []string{
	"20060102",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ParseDate attempts to parse an assessment reference date.
// Returns nil if the input is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
