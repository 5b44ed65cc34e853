// Package catalog lists the device models a new device can be based on.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

//go:embed catalog.toml
var defaultCatalog []byte

// SensorTemplate is a sensor a model ships with.
type SensorTemplate struct {
	ID         string `toml:"id" json:"id"`
	Title      string `toml:"title" json:"title"`
	Unit       string `toml:"unit" json:"unit"`
	SensorType string `toml:"sensor_type" json:"sensor_type"`
	Phenomenon string `toml:"phenomenon" json:"phenomenon"`
}

// Model is a selectable device model.
type Model struct {
	ID         string           `toml:"id" json:"id"`
	Name       string           `toml:"name" json:"name"`
	Connection string           `toml:"connection" json:"connection"`
	Custom     bool             `toml:"custom" json:"custom"`
	Sensors    []SensorTemplate `toml:"sensors" json:"sensors"`
}

// Sensor returns the template with the given id.
func (m Model) Sensor(id string) (SensorTemplate, bool) {
	return lo.Find(m.Sensors, func(s SensorTemplate) bool { return s.ID == id })
}

// Catalog is an immutable set of device models.
type Catalog struct {
	models []Model
	byID   map[string]Model
}

// Load parses the catalog embedded in the binary.
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a TOML catalog and checks model and sensor ids are unique.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Models []Model `toml:"models"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Models) == 0 {
		return nil, errors.New("catalog has no models")
	}

	byID := make(map[string]Model, len(doc.Models))
	for _, m := range doc.Models {
		if m.ID == "" {
			return nil, fmt.Errorf("model %q has no id", m.Name)
		}
		if _, dup := byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		if dups := lo.FindDuplicatesBy(m.Sensors, func(s SensorTemplate) string { return s.ID }); len(dups) > 0 {
			return nil, fmt.Errorf("model %q has duplicate sensor id %q", m.ID, dups[0].ID)
		}
		byID[m.ID] = m
	}

	return &Catalog{models: doc.Models, byID: byID}, nil
}

// Models returns all models in catalog order.
func (c *Catalog) Models() []Model {
	return append([]Model(nil), c.models...)
}

// Lookup returns the model with the given id.
func (c *Catalog) Lookup(id string) (Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// IDs returns all model ids in catalog order.
func (c *Catalog) IDs() []string {
	return lo.Map(c.models, func(m Model, _ int) string { return m.ID })
}
