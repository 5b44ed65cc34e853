package onboarding

import (
	"testing"

	"github.com/opensensemap/osem-map/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaFor(t *testing.T, id wizard.StepID) wizard.Schema {
	t.Helper()
	for _, s := range Steps(loadCatalog(t), wizard.NewValidator()) {
		if s.ID == id {
			return s.Schema
		}
	}
	t.Fatalf("no step %q", id)
	return nil
}

func TestSteps_Order(t *testing.T) {
	steps := Steps(loadCatalog(t), wizard.NewValidator())
	ids := make([]wizard.StepID, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
		assert.Equal(t, i, s.Index)
	}
	assert.Equal(t, []wizard.StepID{
		"general-info", "location", "device-selection", "sensor-selection", "advanced", "summary",
	}, ids)
}

func TestStepSchemas(t *testing.T) {
	withHome := wizard.Accumulator{StepDeviceSelection: DeviceSelection{Model: "homeV2Wifi"}}
	withCustom := wizard.Accumulator{StepDeviceSelection: DeviceSelection{Model: "custom"}}

	tests := []struct {
		name      string
		step      wizard.StepID
		input     string
		acc       wizard.Accumulator
		wantField string // empty means valid
	}{
		{"general info valid", StepGeneralInfo, `{"name":"Garten","exposure":"indoor"}`, nil, ""},
		{"general info bad exposure", StepGeneralInfo, `{"name":"Garten","exposure":"orbit"}`, nil, "exposure"},
		{"general info empty tag", StepGeneralInfo, `{"name":"Garten","exposure":"indoor","tags":[""]}`, nil, "tags[0]"},
		{"location zero is valid", StepLocation, `{"latitude":0,"longitude":0}`, nil, ""},
		{"location missing longitude", StepLocation, `{"latitude":51}`, nil, "longitude"},
		{"location out of range", StepLocation, `{"latitude":91,"longitude":0}`, nil, "latitude"},
		{"device known", StepDeviceSelection, `{"model":"luftdaten_sds011_dht22"}`, nil, ""},
		{"device unknown", StepDeviceSelection, `{"model":"toaster"}`, nil, "model"},
		{"sensors need a model", StepSensorSelection, `{"sensors":[{"id":"sds011-pm10"}]}`, wizard.Accumulator{}, "model"},
		{"sensors from model", StepSensorSelection, `{"sensors":[{"id":"sds011-pm10"}]}`, withHome, ""},
		{"sensor not in model", StepSensorSelection, `{"sensors":[{"id":"geiger"}]}`, withHome, "sensors[0].id"},
		{"sensor twice", StepSensorSelection, `{"sensors":[{"id":"sds011-pm10"},{"id":"sds011-pm10"}]}`, withHome, "sensors"},
		{"catalog model needs ids", StepSensorSelection, `{"sensors":[{"title":"T","unit":"°C","sensor_type":"X"}]}`, withHome, "sensors[0].id"},
		{"custom sensor", StepSensorSelection, `{"sensors":[{"title":"Radon","unit":"Bq/m³","sensor_type":"RD200M"}]}`, withCustom, ""},
		{"custom sensor incomplete", StepSensorSelection, `{"sensors":[{"title":"Radon"}]}`, withCustom, "sensors[0].unit"},
		{"custom with catalog id", StepSensorSelection, `{"sensors":[{"id":"sds011-pm10"}]}`, withCustom, "sensors[0].id"},
		{"no sensors", StepSensorSelection, `{"sensors":[]}`, withHome, "sensors"},
		{"advanced defaults", StepAdvanced, `{}`, nil, ""},
		{"mqtt needs url", StepAdvanced, `{"mqtt":{"enabled":true,"topic":"osem/box"}}`, nil, "mqtt.url"},
		{"mqtt bad url", StepAdvanced, `{"mqtt":{"enabled":true,"url":"not a url","topic":"t"}}`, nil, "mqtt.url"},
		{"mqtt valid", StepAdvanced, `{"mqtt":{"enabled":true,"url":"mqtt://broker.example.org:1883","topic":"t","message_type":"json"}}`, nil, ""},
		{"ttn needs ids", StepAdvanced, `{"ttn":{"enabled":true,"app_id":"app"}}`, nil, "ttn.device_id"},
		{"mqtt and ttn", StepAdvanced, `{"mqtt":{"enabled":true,"url":"mqtt://b","topic":"t"},"ttn":{"enabled":true,"app_id":"a","device_id":"d"}}`, nil, "ttn.enabled"},
		{"summary needs terms", StepSummary, `{"accept_terms":false}`, nil, "accept_terms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schemaFor(t, tt.step).Parse(raw(tt.input), tt.acc)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *wizard.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field, vErr.Message)
		})
	}
}

func TestBuildDraft(t *testing.T) {
	cat := loadCatalog(t)
	lat, lon, height := 51.96, 7.62, 60.0
	acc := wizard.Accumulator{
		StepGeneralInfo:     GeneralInfo{Name: "Balkon", Exposure: "outdoor", Tags: []string{"Hitze"}},
		StepLocation:        Location{Latitude: &lat, Longitude: &lon, Height: &height},
		StepDeviceSelection: DeviceSelection{Model: "homeV2Wifi"},
		StepSensorSelection: SensorSelection{Sensors: []SensorChoice{{ID: "bmp280-pressure"}}},
		StepAdvanced:        Advanced{TTN: TTNSettings{Enabled: true, AppID: "a", DeviceID: "d"}},
	}

	draft, err := BuildDraft(acc, cat)
	require.NoError(t, err)
	assert.Equal(t, "Balkon", draft.Name)
	assert.Equal(t, "outdoor", string(draft.Exposure))
	assert.InDelta(t, 7.62, draft.Location.Lon, 1e-9)
	assert.InDelta(t, 51.96, draft.Location.Lat, 1e-9)
	require.Len(t, draft.Sensors, 1)
	assert.Equal(t, "Luftdruck", draft.Sensors[0].Title)
	assert.Equal(t, "hPa", draft.Sensors[0].Unit)
	assert.True(t, draft.TTN.Enabled)

	delete(acc, StepLocation)
	_, err = BuildDraft(acc, cat)
	assert.ErrorContains(t, err, "location")
}
