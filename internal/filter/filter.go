// Package filter implements the map's predicate chain over devices and campaigns.
package filter

import (
	"slices"

	"github.com/opensensemap/osem-map/internal/model"
	"github.com/samber/lo"
)

// Projector is implemented by anything that can be filtered as an entity.
type Projector interface {
	Entity() model.Entity
}

// Match reports whether e passes every predicate of c.
func Match(e model.Entity, c Criteria) bool {
	matchTime := MatchTimeRange
	if c.TimeMatch == TimeMatchOverlap {
		matchTime = MatchTimeOverlap
	}

	return MatchPriority(e.Priority, c.Priority) &&
		MatchStatus(e.Status, c.Status) &&
		MatchCountry(e.Countries, c.Country) &&
		MatchExposure(e.Exposure, c.Exposure) &&
		matchTime(e.StartDate, e.EndDate, c.TimeRange) &&
		MatchPhenomena(e.Phenomena, c.Phenomena) &&
		MatchTags(e.Tags, c.Tags)
}

// Entities returns the items that pass c, preserving input order.
// The input slice is never modified.
func Entities[T Projector](items []T, c Criteria) []T {
	if c.IsEmpty() {
		return slices.Clone(items)
	}
	return lo.Filter(items, func(item T, _ int) bool {
		return Match(item.Entity(), c)
	})
}
