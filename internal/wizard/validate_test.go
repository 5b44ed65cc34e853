package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sensorRow struct {
	Title string `json:"title" validate:"required"`
	Unit  string `json:"unit" validate:"required,max=10"`
}

type sensors struct {
	Model   string      `json:"model"`
	Sensors []sensorRow `json:"sensors" validate:"min=1,dive"`
}

func (sensors) StepID() StepID { return "sensor-selection" }

func parseErr(t *testing.T, s Schema, input string, acc Accumulator) *ValidationError {
	t.Helper()
	_, err := s.Parse(raw(input), acc)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr
}

func TestStructSchema_Messages(t *testing.T) {
	v := NewValidator()
	info := ForStruct[generalInfo](v)
	list := ForStruct[sensors](v)

	tests := []struct {
		name      string
		schema    Schema
		input     string
		wantField string
		wantMsg   string
	}{
		{"required", info, `{}`, "name", "name is required"},
		{"empty input treated as object", info, ``, "name", "name is required"},
		{"min length", info, `{"name":"ab"}`, "name", "name must be at least 3 characters"},
		{"oneof", info, `{"name":"Balkon","exposure":"space"}`, "exposure", "exposure must be one of: indoor, outdoor, mobile"},
		{"wrong type", info, `{"name":7}`, "name", "name has the wrong type"},
		{"unknown field", info, `{"name":"Balkon","colour":"red"}`, "colour", "colour is not a known field"},
		{"malformed", info, `{"name":`, "", "input is not valid JSON"},
		{"trailing value", info, `{"name":"Balkon"} {"name":"x"}`, "", "input is not valid JSON"},
		{"trailing garbage", info, `{"name":"Balkon"} not json at all`, "", "input is not valid JSON"},
		{"empty slice", list, `{"sensors":[]}`, "sensors", "sensors needs at least 1 entries"},
		{"nested field", list, `{"sensors":[{"title":"PM10","unit":"µg/m³"},{"unit":"°C"}]}`, "sensors[1].title", "sensors[1].title is required"},
		{"nested max", list, `{"sensors":[{"title":"PM10","unit":"microgram per cubic meter"}]}`, "sensors[0].unit", "sensors[0].unit must be at most 10 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vErr := parseErr(t, tt.schema, tt.input, nil)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantMsg, vErr.Message)
		})
	}
}

func TestStructSchema_AllowsTrailingWhitespace(t *testing.T) {
	data, err := ForStruct[generalInfo](NewValidator()).Parse(raw("{\"name\":\"Balkon\"}\n\t "), nil)
	require.NoError(t, err)
	assert.Equal(t, generalInfo{Name: "Balkon"}, data)
}

func TestStructSchema_Checks(t *testing.T) {
	v := NewValidator()
	requireModel := func(s sensors, acc Accumulator) error {
		if _, ok := acc["device-selection"]; !ok {
			return &ValidationError{Field: "model", Message: "select a device first"}
		}
		return nil
	}
	plain := func(sensors, Accumulator) error { return errors.New("catalog unavailable") }

	schema := ForStruct[sensors](v, requireModel)
	vErr := parseErr(t, schema, `{"sensors":[{"title":"PM10","unit":"µg/m³"}]}`, Accumulator{})
	assert.Equal(t, StepID("sensor-selection"), vErr.Step)
	assert.Equal(t, "select a device first", vErr.Message)

	data, err := schema.Parse(raw(`{"sensors":[{"title":"PM10","unit":"µg/m³"}]}`),
		Accumulator{"device-selection": generalInfo{Name: "home"}})
	require.NoError(t, err)
	assert.Equal(t, StepID("sensor-selection"), data.StepID())

	_, err = ForStruct[sensors](v, plain).Parse(raw(`{"sensors":[{"title":"a","unit":"b"}]}`), nil)
	assert.EqualError(t, err, "catalog unavailable")
}

func TestGet(t *testing.T) {
	acc := Accumulator{"general-info": generalInfo{Name: "Balkon"}}

	info, ok := Get[generalInfo](acc, "general-info")
	assert.True(t, ok)
	assert.Equal(t, "Balkon", info.Name)

	_, ok = Get[location](acc, "general-info")
	assert.False(t, ok, "wrong type")

	_, ok = Get[location](acc, "location")
	assert.False(t, ok, "missing")

	_, ok = Get[location](nil, "location")
	assert.False(t, ok)
}
