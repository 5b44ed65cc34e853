package filter

import (
	"testing"
	"time"

	"github.com/opensensemap/osem-map/internal/model"
	"github.com/stretchr/testify/assert"
)

type item struct{ e model.Entity }

func (i item) Entity() model.Entity { return i.e }

func items(es ...model.Entity) []item {
	out := make([]item, len(es))
	for i, e := range es {
		out[i] = item{e: e}
	}
	return out
}

func sample() []item {
	return items(
		model.Entity{ID: "1", Priority: "urgent", Exposure: "outdoor", Countries: []string{"DE"},
			Phenomena: []string{"Temperatur", "Luftfeuchte"}, Tags: []string{"Hitze"},
			StartDate: date(2024, time.June, 1), EndDate: date(2024, time.June, 30)},
		model.Entity{ID: "2", Priority: "low", Exposure: "indoor", Countries: []string{"AT"},
			Phenomena: []string{"PM10"}},
		model.Entity{ID: "3", Priority: "high", Exposure: "outdoor"},
		model.Entity{ID: "4", Status: "active", Exposure: "mobile", Phenomena: []string{"PM2.5"},
			Tags: []string{"Fahrrad", "Hitze"}},
		model.Entity{ID: "5", Priority: "Urgent", Exposure: "OUTDOOR", Countries: []string{"de", "ch"},
			StartDate: date(2023, time.January, 1), EndDate: date(2023, time.December, 31)},
	)
}

func ids(in []item) []string {
	out := make([]string, len(in))
	for i, it := range in {
		out[i] = it.e.ID
	}
	return out
}

func TestEntities_PriorityScenario(t *testing.T) {
	in := items(
		model.Entity{ID: "a", Priority: "urgent"},
		model.Entity{ID: "b", Priority: "low"},
	)

	got := Entities(in, Criteria{Priority: "urgent"})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestEntities_PhenomenaScenario(t *testing.T) {
	in := items(model.Entity{ID: "a", Phenomena: []string{"Temperatur", "Luftfeuchte"}})

	got := Entities(in, Criteria{Phenomena: []string{"Luftfeuchte"}})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestEntities_UnsetTimeRange(t *testing.T) {
	in := sample()

	got := Entities(in, Criteria{TimeRange: TimeRange{}})
	assert.Equal(t, ids(in), ids(got))
}

func TestEntities_EmptyCriteriaIsIdentity(t *testing.T) {
	in := sample()

	got := Entities(in, Criteria{})
	assert.Equal(t, in, got)

	assert.Nil(t, Entities([]item(nil), Criteria{}))
	assert.Equal(t, []item{}, Entities([]item{}, Criteria{}))
}

func TestEntities_DoesNotModifyInput(t *testing.T) {
	in := sample()
	before := ids(in)

	_ = Entities(in, Criteria{Exposure: "outdoor"})
	_ = Entities(in, Criteria{})
	assert.Equal(t, before, ids(in))
}

func TestEntities_PreservesOrder(t *testing.T) {
	got := Entities(sample(), Criteria{Exposure: "outdoor"})
	assert.Equal(t, []string{"1", "3", "5"}, ids(got))
}

func TestEntities_CombinedCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"priority ignores case", Criteria{Priority: "URGENT"}, []string{"1", "5"}},
		{"country keeps entities without countries", Criteria{Country: "de"}, []string{"1", "3", "4", "5"}},
		{"tags", Criteria{Tags: []string{"Hitze"}}, []string{"1", "4"}},
		{"status", Criteria{Status: "active"}, []string{"4"}},
		{"time range endpoint", Criteria{TimeRange: TimeRange{From: date(2024, time.June, 15)}}, []string{"1", "2", "3", "4"}},
		{
			"time range overlap",
			Criteria{
				TimeRange: TimeRange{From: date(2023, time.June, 1), To: date(2024, time.December, 1)},
				TimeMatch: TimeMatchOverlap,
			},
			[]string{"1", "2", "3", "4", "5"},
		},
		{"priority and exposure", Criteria{Priority: "urgent", Exposure: "outdoor", Country: "CH"}, []string{"5"}},
		{"nothing matches", Criteria{Phenomena: []string{"Lautstärke"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Entities(sample(), tt.criteria)))
		})
	}
}

func TestEntities_Idempotent(t *testing.T) {
	criteria := []Criteria{
		{},
		{Exposure: "outdoor"},
		{Country: "DE", Phenomena: []string{"Temperatur", "PM10"}},
		{TimeRange: TimeRange{To: date(2024, time.June, 2)}},
	}

	for _, c := range criteria {
		once := Entities(sample(), c)
		twice := Entities(once, c)
		assert.Equal(t, ids(once), ids(twice))
	}
}

func TestEntities_AddingFieldNarrows(t *testing.T) {
	base := Criteria{Exposure: "outdoor"}
	narrowed := []Criteria{
		{Exposure: "outdoor", Priority: "urgent"},
		{Exposure: "outdoor", Country: "CH"},
		{Exposure: "outdoor", Tags: []string{"Hitze"}},
		{Exposure: "outdoor", TimeRange: TimeRange{From: date(2023, time.March, 1)}},
	}

	wide := ids(Entities(sample(), base))
	for _, c := range narrowed {
		got := ids(Entities(sample(), c))
		assert.Subset(t, wide, got)
	}
}

func TestCriteria_IsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{Priority: " ", TimeMatch: TimeMatchOverlap}.IsEmpty())
	assert.False(t, Criteria{Tags: []string{"x"}}.IsEmpty())
	assert.False(t, Criteria{TimeRange: TimeRange{To: date(2024, time.January, 1)}}.IsEmpty())
}
