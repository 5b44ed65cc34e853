package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Contains(t, c.IDs(), "homeV2Wifi")
	assert.Contains(t, c.IDs(), "custom")

	home, ok := c.Lookup("homeV2Wifi")
	require.True(t, ok)
	assert.False(t, home.Custom)
	assert.NotEmpty(t, home.Sensors)

	pm, ok := home.Sensor("sds011-pm25")
	require.True(t, ok)
	assert.Equal(t, "PM2.5", pm.Phenomenon)
	assert.Equal(t, "µg/m³", pm.Unit)

	_, ok = home.Sensor("geiger")
	assert.False(t, ok)

	custom, ok := c.Lookup("custom")
	require.True(t, ok)
	assert.True(t, custom.Custom)
	assert.Empty(t, custom.Sensors)

	_, ok = c.Lookup("toaster")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"invalid toml", `[[models]`, "decode catalog"},
		{"no models", ``, "no models"},
		{"missing id", "[[models]]\nname = \"x\"", "has no id"},
		{"duplicate model", "[[models]]\nid = \"a\"\n[[models]]\nid = \"a\"", "duplicate model id"},
		{
			"duplicate sensor",
			"[[models]]\nid = \"a\"\n[[models.sensors]]\nid = \"s\"\n[[models.sensors]]\nid = \"s\"",
			"duplicate sensor id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestModels_ReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	models := c.Models()
	models[0].Name = "changed"
	assert.NotEqual(t, "changed", c.Models()[0].Name)
}
