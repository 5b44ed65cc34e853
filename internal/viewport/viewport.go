// Package viewport narrows entities to the visible map rectangle.
package viewport

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/samber/lo"
)

// ErrMalformedBBox is returned when a bbox string is not four comma-separated numbers.
var ErrMalformedBBox = errors.New("bbox must be minLon,minLat,maxLon,maxLat")

// Bounds is an axis-aligned lon/lat rectangle. The antimeridian is not wrapped.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Locator is implemented by anything with an optional map position.
type Locator interface {
	Point() (model.Point, bool)
}

// Valid reports whether all edges are finite and the rectangle is not inverted.
func (b Bounds) Valid() bool {
	for _, v := range []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	r := b.rect()
	return !r.X.IsEmpty() && !r.Y.IsEmpty()
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p model.Point) bool {
	return b.rect().ContainsPoint(r2.Point{X: p.Lon, Y: p.Lat})
}

func (b Bounds) rect() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: b.MinLon, Hi: b.MaxLon},
		Y: r1.Interval{Lo: b.MinLat, Hi: b.MaxLat},
	}
}

// Intersect returns the items positioned inside b, preserving input order.
// Items without a usable position are dropped. Invalid bounds apply no restriction
// and the input is returned as a copy.
func Intersect[T Locator](items []T, b Bounds) []T {
	if !b.Valid() {
		return slices.Clone(items)
	}
	return lo.Filter(items, func(item T, _ int) bool {
		p, ok := item.Point()
		return ok && b.Contains(p)
	})
}

// ParseBBox parses "minLon,minLat,maxLon,maxLat". The result is not checked with Valid.
func ParseBBox(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, ErrMalformedBBox
	}

	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("%w: %q", ErrMalformedBBox, part)
		}
		v[i] = f
	}

	return Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}, nil
}
