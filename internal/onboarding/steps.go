// Package onboarding runs the new-device wizard: general info, location, device model,
// sensors, advanced connectivity settings and a final summary.
package onboarding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/opensensemap/osem-map/internal/catalog"
	"github.com/opensensemap/osem-map/internal/wizard"
	"github.com/samber/lo"
)

const (
	StepGeneralInfo     wizard.StepID = "general-info"
	StepLocation        wizard.StepID = "location"
	StepDeviceSelection wizard.StepID = "device-selection"
	StepSensorSelection wizard.StepID = "sensor-selection"
	StepAdvanced        wizard.StepID = "advanced"
	StepSummary         wizard.StepID = "summary"
)

// GeneralInfo names the device and says where it is mounted.
type GeneralInfo struct {
	Name     string   `json:"name" validate:"required,min=3,max=50"`
	Exposure string   `json:"exposure" validate:"required,oneof=indoor outdoor mobile unknown"`
	GroupTag string   `json:"group_tag,omitempty" validate:"max=50"`
	Tags     []string `json:"tags,omitempty" validate:"max=10,dive,required,max=30"`
}

func (GeneralInfo) StepID() wizard.StepID { return StepGeneralInfo }

// Location places the device. Pointers distinguish a missing coordinate from zero.
type Location struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Height    *float64 `json:"height,omitempty" validate:"omitempty,gte=-500,lte=9000"`
}

func (Location) StepID() wizard.StepID { return StepLocation }

// DeviceSelection picks a catalog model.
type DeviceSelection struct {
	Model string `json:"model" validate:"required"`
}

func (DeviceSelection) StepID() wizard.StepID { return StepDeviceSelection }

// SensorChoice references a catalog sensor by id, or describes a custom sensor.
type SensorChoice struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title,omitempty" validate:"required_without=ID,max=40"`
	Unit       string `json:"unit,omitempty" validate:"required_without=ID,max=20"`
	SensorType string `json:"sensor_type,omitempty" validate:"required_without=ID,max=40"`
	Phenomenon string `json:"phenomenon,omitempty" validate:"max=40"`
}

// SensorSelection lists the sensors of the device.
type SensorSelection struct {
	Sensors []SensorChoice `json:"sensors" validate:"required,min=1,max=20,dive"`
}

func (SensorSelection) StepID() wizard.StepID { return StepSensorSelection }

// MQTTSettings configures ingestion from an MQTT broker.
type MQTTSettings struct {
	Enabled     bool   `json:"enabled"`
	URL         string `json:"url,omitempty" validate:"required_if=Enabled true,omitempty,url"`
	Topic       string `json:"topic,omitempty" validate:"required_if=Enabled true,max=200"`
	MessageType string `json:"message_type,omitempty" validate:"omitempty,oneof=json csv"`
}

// TTNSettings configures ingestion from The Things Network.
type TTNSettings struct {
	Enabled  bool   `json:"enabled"`
	AppID    string `json:"app_id,omitempty" validate:"required_if=Enabled true,max=36"`
	DeviceID string `json:"device_id,omitempty" validate:"required_if=Enabled true,max=36"`
	Profile  string `json:"profile,omitempty" validate:"omitempty,oneof=sensebox/home lora-serialization json cayenne-lpp debug"`
}

// Advanced holds optional connectivity settings.
type Advanced struct {
	MQTT MQTTSettings `json:"mqtt"`
	TTN  TTNSettings  `json:"ttn"`
}

func (Advanced) StepID() wizard.StepID { return StepAdvanced }

// Summary is the confirmation on the last step.
type Summary struct {
	AcceptTerms bool `json:"accept_terms" validate:"eq=true"`
}

func (Summary) StepID() wizard.StepID { return StepSummary }

// Steps returns the onboarding steps in order.
func Steps(cat *catalog.Catalog, v *validator.Validate) []wizard.Step {
	return []wizard.Step{
		{ID: StepGeneralInfo, Index: 0, Schema: wizard.ForStruct[GeneralInfo](v)},
		{ID: StepLocation, Index: 1, Schema: wizard.ForStruct[Location](v)},
		{ID: StepDeviceSelection, Index: 2, Schema: wizard.ForStruct[DeviceSelection](v, knownModel(cat))},
		{ID: StepSensorSelection, Index: 3, Schema: wizard.ForStruct[SensorSelection](v, sensorsFitModel(cat))},
		{ID: StepAdvanced, Index: 4, Schema: wizard.ForStruct[Advanced](v, singleIngestion)},
		{ID: StepSummary, Index: 5, Schema: wizard.ForStruct[Summary](v, previousStepsDone, sensorsStillFit(cat))},
	}
}

func knownModel(cat *catalog.Catalog) wizard.CheckFunc[DeviceSelection] {
	return func(d DeviceSelection, _ wizard.Accumulator) error {
		if _, ok := cat.Lookup(d.Model); !ok {
			return &wizard.ValidationError{
				Field:   "model",
				Message: fmt.Sprintf("model must be one of: %s", strings.Join(cat.IDs(), ", ")),
			}
		}
		return nil
	}
}

func sensorsFitModel(cat *catalog.Catalog) wizard.CheckFunc[SensorSelection] {
	return func(s SensorSelection, acc wizard.Accumulator) error {
		selection, ok := wizard.Get[DeviceSelection](acc, StepDeviceSelection)
		if !ok {
			return &wizard.ValidationError{Field: "model", Message: "select a device model first"}
		}
		m, ok := cat.Lookup(selection.Model)
		if !ok {
			return &wizard.ValidationError{Field: "model", Message: "selected device model is no longer available"}
		}

		for i, choice := range s.Sensors {
			field := fmt.Sprintf("sensors[%d].id", i)
			if m.Custom {
				if choice.ID != "" {
					return &wizard.ValidationError{Field: field, Message: "custom devices describe sensors by title, unit and sensor_type"}
				}
				continue
			}
			if choice.ID == "" {
				return &wizard.ValidationError{Field: field, Message: fmt.Sprintf("%s is required for model %s", field, m.ID)}
			}
			if _, ok := m.Sensor(choice.ID); !ok {
				return &wizard.ValidationError{Field: field, Message: fmt.Sprintf("%s: %q is not a sensor of %s", field, choice.ID, m.ID)}
			}
		}

		if dups := lo.FindDuplicatesBy(lo.Filter(s.Sensors, func(c SensorChoice, _ int) bool { return c.ID != "" }),
			func(c SensorChoice) string { return c.ID }); len(dups) > 0 {
			return &wizard.ValidationError{Field: "sensors", Message: fmt.Sprintf("sensor %q is selected twice", dups[0].ID)}
		}
		return nil
	}
}

func singleIngestion(a Advanced, _ wizard.Accumulator) error {
	if a.MQTT.Enabled && a.TTN.Enabled {
		return &wizard.ValidationError{Field: "ttn.enabled", Message: "enable either MQTT or TTN, not both"}
	}
	return nil
}

func previousStepsDone(_ Summary, acc wizard.Accumulator) error {
	for _, id := range []wizard.StepID{StepGeneralInfo, StepLocation, StepDeviceSelection, StepSensorSelection, StepAdvanced} {
		if _, ok := acc[id]; !ok {
			return &wizard.ValidationError{Field: string(id), Message: fmt.Sprintf("complete the %s step first", id)}
		}
	}
	return nil
}

// sensorsStillFit reruns the sensor rule at submit time, since GoTo allows the
// device model to change after sensors were chosen.
func sensorsStillFit(cat *catalog.Catalog) wizard.CheckFunc[Summary] {
	fit := sensorsFitModel(cat)
	return func(_ Summary, acc wizard.Accumulator) error {
		sensors, ok := wizard.Get[SensorSelection](acc, StepSensorSelection)
		if !ok {
			return &wizard.ValidationError{Step: StepSensorSelection, Field: string(StepSensorSelection), Message: "complete the sensor-selection step first"}
		}
		err := fit(sensors, acc)
		var vErr *wizard.ValidationError
		if errors.As(err, &vErr) {
			vErr.Step = StepSensorSelection
		}
		return err
	}
}
