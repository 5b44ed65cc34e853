package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opensensemap/osem-map/internal/model"
	"github.com/opensensemap/osem-map/internal/onboarding"
	"github.com/opensensemap/osem-map/internal/wizard"
)

// deviceQuerier defines the device data access needed by the API.
type deviceQuerier interface {
	ListDevices(ctx context.Context) ([]model.Device, error)
	GetDevice(ctx context.Context, id string) (*model.Device, error)
}

// campaignQuerier defines the campaign data access needed by the API.
type campaignQuerier interface {
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
}

// measurementQuerier defines the measurement data access needed by the API.
type measurementQuerier interface {
	ListMeasurements(ctx context.Context, deviceID string, from, to time.Time) ([]model.Measurement, error)
}

// onboardingRunner drives onboarding sessions.
type onboardingRunner interface {
	Start() (onboarding.State, error)
	Get(id string) (onboarding.State, error)
	Next(id string, input json.RawMessage) (onboarding.State, error)
	Back(id string) (onboarding.State, error)
	GoTo(id string, step wizard.StepID) (onboarding.State, error)
	Submit(ctx context.Context, id string, input json.RawMessage) (onboarding.State, error)
}
