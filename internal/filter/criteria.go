package filter

import (
	"strings"
	"time"
)

// TimeMatch selects how a criteria time range is compared with an entity's active period.
type TimeMatch string

const (
	// TimeMatchEndpoint passes an entity when either criteria endpoint falls inside its period.
	TimeMatchEndpoint TimeMatch = "endpoint"
	// TimeMatchOverlap passes an entity when the two periods share at least one instant.
	TimeMatchOverlap TimeMatch = "overlap"
)

// TimeRange is an optional closed time window. Nil bounds are unset.
type TimeRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsSet reports whether at least one bound is present.
func (r TimeRange) IsSet() bool {
	return r.From != nil || r.To != nil
}

// Criteria is the user-selected filter configuration.
// Every empty field matches all entities.
type Criteria struct {
	Priority  string    `json:"priority,omitempty"`
	Status    string    `json:"status,omitempty"`
	Country   string    `json:"country,omitempty"`
	Exposure  string    `json:"exposure,omitempty"`
	Phenomena []string  `json:"phenomena,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	TimeRange TimeRange `json:"time_range"`
	TimeMatch TimeMatch `json:"time_match,omitempty"`
}

// IsEmpty reports whether the criteria restrict nothing.
func (c Criteria) IsEmpty() bool {
	return blank(c.Priority) && blank(c.Status) && blank(c.Country) && blank(c.Exposure) &&
		len(c.Phenomena) == 0 && len(c.Tags) == 0 && !c.TimeRange.IsSet()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
