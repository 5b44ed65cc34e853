package onboarding

import (
	"fmt"

	"github.com/opensensemap/osem-map/internal/catalog"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/opensensemap/osem-map/internal/wizard"
)

// BuildDraft assembles the device described by a completed accumulator.
// Catalog sensor references are resolved to their templates.
func BuildDraft(acc wizard.Accumulator, cat *catalog.Catalog) (model.DeviceDraft, error) {
	info, ok := wizard.Get[GeneralInfo](acc, StepGeneralInfo)
	if !ok {
		return model.DeviceDraft{}, missingStep(StepGeneralInfo)
	}
	loc, ok := wizard.Get[Location](acc, StepLocation)
	if !ok || loc.Latitude == nil || loc.Longitude == nil {
		return model.DeviceDraft{}, missingStep(StepLocation)
	}
	selection, ok := wizard.Get[DeviceSelection](acc, StepDeviceSelection)
	if !ok {
		return model.DeviceDraft{}, missingStep(StepDeviceSelection)
	}
	sensors, ok := wizard.Get[SensorSelection](acc, StepSensorSelection)
	if !ok {
		return model.DeviceDraft{}, missingStep(StepSensorSelection)
	}
	advanced, _ := wizard.Get[Advanced](acc, StepAdvanced)

	m, ok := cat.Lookup(selection.Model)
	if !ok {
		return model.DeviceDraft{}, fmt.Errorf("unknown device model %q", selection.Model)
	}

	exposure, ok := model.ParseExposure(info.Exposure)
	if !ok {
		exposure = model.ExposureUnknown
	}

	draft := model.DeviceDraft{
		Name:     info.Name,
		Exposure: exposure,
		GroupTag: info.GroupTag,
		Tags:     info.Tags,
		Location: model.Point{Lon: *loc.Longitude, Lat: *loc.Latitude},
		Height:   loc.Height,
		Model:    m.ID,
		MQTT: model.MQTTConfig{
			Enabled:     advanced.MQTT.Enabled,
			URL:         advanced.MQTT.URL,
			Topic:       advanced.MQTT.Topic,
			MessageType: advanced.MQTT.MessageType,
		},
		TTN: model.TTNConfig{
			Enabled:     advanced.TTN.Enabled,
			AppID:       advanced.TTN.AppID,
			DeviceID:    advanced.TTN.DeviceID,
			ProfileName: advanced.TTN.Profile,
		},
	}

	for _, choice := range sensors.Sensors {
		if choice.ID == "" {
			draft.Sensors = append(draft.Sensors, model.Sensor{
				Title:      choice.Title,
				Unit:       choice.Unit,
				SensorType: choice.SensorType,
				Phenomenon: choice.Phenomenon,
			})
			continue
		}
		tpl, ok := m.Sensor(choice.ID)
		if !ok {
			return model.DeviceDraft{}, fmt.Errorf("sensor %q is not part of model %q", choice.ID, m.ID)
		}
		draft.Sensors = append(draft.Sensors, model.Sensor{
			Title:      tpl.Title,
			Unit:       tpl.Unit,
			SensorType: tpl.SensorType,
			Phenomenon: tpl.Phenomenon,
		})
	}

	return draft, nil
}

func missingStep(id wizard.StepID) error {
	return fmt.Errorf("step %q has not been completed", id)
}
