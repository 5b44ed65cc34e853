// Package chart turns raw sensor measurements into time series datasets for the dashboard graph.
package chart

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/opensensemap/osem-map/internal/model"
	"github.com/shopspring/decimal"
)

// Series is the raw input for one sensor.
type Series struct {
	DeviceID     string
	DeviceName   string
	Sensor       model.Sensor
	Measurements []model.Measurement
}

// Options control dataset labelling.
type Options struct {
	// Compare prefixes labels with the device name so several devices can share one graph.
	Compare bool
}

// Point is one plotted value.
type Point struct {
	Time  time.Time       `json:"x"`
	Value decimal.Decimal `json:"y"`
}

// Dataset is one line in the graph.
type Dataset struct {
	DeviceID string           `json:"device_id"`
	SensorID string           `json:"sensor_id"`
	Label    string           `json:"label"`
	Unit     string           `json:"unit"`
	Points   []Point          `json:"points"`
	Min      *decimal.Decimal `json:"min,omitempty"`
	Max      *decimal.Decimal `json:"max,omitempty"`
	Dropped  int              `json:"dropped"`
}

// Build returns one dataset per series, in input order. Points are sorted by time;
// values that do not parse as numbers are counted in Dropped and left out.
func Build(series []Series, opts Options) []Dataset {
	out := make([]Dataset, 0, len(series))
	for _, s := range series {
		out = append(out, build(s, opts))
	}
	return out
}

func build(s Series, opts Options) Dataset {
	ds := Dataset{
		DeviceID: s.DeviceID,
		SensorID: s.Sensor.ID,
		Label:    Label(s.DeviceName, s.Sensor, opts.Compare),
		Unit:     s.Sensor.Unit,
		Points:   make([]Point, 0, len(s.Measurements)),
	}

	for _, m := range s.Measurements {
		v, err := decimal.NewFromString(strings.TrimSpace(m.Value))
		if err != nil {
			ds.Dropped++
			continue
		}
		ds.Points = append(ds.Points, Point{Time: m.CreatedAt, Value: v})
	}

	slices.SortStableFunc(ds.Points, func(a, b Point) int {
		return a.Time.Compare(b.Time)
	})

	if len(ds.Points) > 0 {
		lo, hi := ds.Points[0].Value, ds.Points[0].Value
		for _, p := range ds.Points[1:] {
			lo = decimal.Min(lo, p.Value)
			hi = decimal.Max(hi, p.Value)
		}
		ds.Min, ds.Max = &lo, &hi
	}
	return ds
}

// Label formats "title (unit)", prefixed with the device name in compare mode.
func Label(deviceName string, sensor model.Sensor, compare bool) string {
	label := sensor.Title
	if sensor.Unit != "" {
		label = fmt.Sprintf("%s (%s)", sensor.Title, sensor.Unit)
	}
	if compare && deviceName != "" {
		label = deviceName + ": " + label
	}
	return label
}
