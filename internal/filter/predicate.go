package filter

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// MatchPriority is a case-insensitive equality check; an empty criterion matches everything.
func MatchPriority(priority, criterion string) bool {
	return matchFold(priority, criterion)
}

// MatchExposure is a case-insensitive equality check; an empty criterion matches everything.
func MatchExposure(exposure, criterion string) bool {
	return matchFold(exposure, criterion)
}

// MatchStatus is a case-insensitive equality check; an empty criterion matches everything.
func MatchStatus(status, criterion string) bool {
	return matchFold(status, criterion)
}

func matchFold(value, criterion string) bool {
	criterion = strings.TrimSpace(criterion)
	if criterion == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(value), criterion)
}

// MatchCountry passes when the criterion is empty, when the entity has no countries,
// or when any entity country equals the criterion case-insensitively.
func MatchCountry(countries []string, criterion string) bool {
	criterion = strings.TrimSpace(criterion)
	if criterion == "" || len(countries) == 0 {
		return true
	}
	return lo.ContainsBy(countries, func(c string) bool {
		return strings.EqualFold(strings.TrimSpace(c), criterion)
	})
}

// MatchPhenomena passes when the criterion list is empty or shares at least one
// phenomenon with the entity.
func MatchPhenomena(phenomena, criterion []string) bool {
	return intersects(phenomena, criterion)
}

// MatchTags passes when the criterion list is empty or shares at least one tag with the entity.
func MatchTags(tags, criterion []string) bool {
	return intersects(tags, criterion)
}

func intersects(values, criterion []string) bool {
	if len(criterion) == 0 {
		return true
	}
	return lo.Some(values, criterion)
}

// MatchTimeRange passes when the range is unset, or when either set endpoint of the range
// lies within [start, end] inclusive. A nil start or end leaves that side of the
// entity's period open.
func MatchTimeRange(start, end *time.Time, r TimeRange) bool {
	if !r.IsSet() {
		return true
	}
	inside := func(t time.Time) bool {
		return (start == nil || !t.Before(*start)) && (end == nil || !t.After(*end))
	}
	return (r.From != nil && inside(*r.From)) || (r.To != nil && inside(*r.To))
}

// MatchTimeOverlap passes when the range is unset or when it shares at least one
// instant with [start, end]. Nil bounds on either side are open.
func MatchTimeOverlap(start, end *time.Time, r TimeRange) bool {
	if !r.IsSet() {
		return true
	}
	if r.From != nil && end != nil && end.Before(*r.From) {
		return false
	}
	if r.To != nil && start != nil && start.After(*r.To) {
		return false
	}
	return true
}
