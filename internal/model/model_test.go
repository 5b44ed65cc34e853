package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnums(t *testing.T) {
	e, ok := ParseExposure("Outdoor")
	assert.True(t, ok)
	assert.Equal(t, ExposureOutdoor, e)

	_, ok = ParseExposure("underwater")
	assert.False(t, ok)

	p, ok := ParsePriority("URGENT")
	assert.True(t, ok)
	assert.Equal(t, PriorityUrgent, p)

	st, ok := ParseStatus("old")
	assert.True(t, ok)
	assert.Equal(t, StatusOld, st)
}

func TestEntity_Point(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		wantOK bool
	}{
		{"nil centerpoint", Entity{}, false},
		{"finite point", Entity{Centerpoint: &Point{Lon: 7.6, Lat: 51.9}}, true},
		{"NaN longitude", Entity{Centerpoint: &Point{Lon: math.NaN(), Lat: 51.9}}, false},
		{"infinite latitude", Entity{Centerpoint: &Point{Lon: 7.6, Lat: math.Inf(1)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.entity.Point()
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDevice_Entity(t *testing.T) {
	d := Device{
		ID:       "d1",
		Name:     "Balkon",
		Exposure: ExposureOutdoor,
		Status:   StatusActive,
		Country:  "DE",
		Tags:     []string{"Münster"},
		Location: &Point{Lon: 7.6, Lat: 51.9},
		Sensors: []Sensor{
			{Title: "Temperatur", Phenomenon: "Temperatur"},
			{Title: "rel. Luftfeuchte", Phenomenon: "Luftfeuchte"},
			{Title: "unlabelled"},
		},
	}

	e := d.Entity()
	assert.Equal(t, "outdoor", e.Exposure)
	assert.Equal(t, "active", e.Status)
	assert.Equal(t, []string{"DE"}, e.Countries)
	assert.Equal(t, []string{"Temperatur", "Luftfeuchte"}, e.Phenomena)
	assert.Empty(t, e.Priority)

	p, ok := d.Point()
	assert.True(t, ok)
	assert.Equal(t, Point{Lon: 7.6, Lat: 51.9}, p)

	noCountry := Device{ID: "d2"}.Entity()
	assert.Nil(t, noCountry.Countries)
}

func TestCampaign_Entity(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := Campaign{
		ID:        "c1",
		Title:     "Hitzesommer",
		Priority:  PriorityHigh,
		Countries: []string{"DE", "AT"},
		StartDate: &start,
	}

	e := c.Entity()
	assert.Equal(t, "Hitzesommer", e.Name)
	assert.Equal(t, "high", e.Priority)
	assert.Equal(t, []string{"DE", "AT"}, e.Countries)
	assert.Equal(t, &start, e.StartDate)
	assert.Nil(t, e.EndDate)
}
