package api

import (
	"time"

	"github.com/opensensemap/osem-map/internal/chart"
	"github.com/opensensemap/osem-map/internal/filter"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/opensensemap/osem-map/internal/viewport"
	"github.com/opensensemap/osem-map/internal/wizard"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// ValidationErrorResponse reports the first invalid field of an onboarding step.
type ValidationErrorResponse struct {
	Error string        `json:"error"`
	Code  int           `json:"code"`
	Step  wizard.StepID `json:"step,omitempty"`
	Field string        `json:"field,omitempty"`
}

// Counts summarizes how many entities survive each stage.
type Counts struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Visible  int `json:"visible"`
}

// ListResponse wraps the visible entities of a list endpoint.
type ListResponse struct {
	Data     any              `json:"data"`
	Counts   Counts           `json:"counts"`
	Criteria filter.Criteria  `json:"criteria"`
	BBox     *viewport.Bounds `json:"bbox,omitempty"`
}

// MapResponse holds devices and campaigns for the map in one reply.
type MapResponse struct {
	Devices        []DeviceResponse   `json:"devices"`
	Campaigns      []CampaignResponse `json:"campaigns"`
	DeviceCounts   Counts             `json:"device_counts"`
	CampaignCounts Counts             `json:"campaign_counts"`
	Criteria       filter.Criteria    `json:"criteria"`
	BBox           *viewport.Bounds   `json:"bbox,omitempty"`
}

// DeviceResponse represents a device.
type DeviceResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Exposure  model.Exposure `json:"exposure"`
	Status    model.Status   `json:"status"`
	Model     string         `json:"model,omitempty"`
	Country   string         `json:"country,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Location  *model.Point   `json:"location,omitempty"`
	Sensors   []model.Sensor `json:"sensors,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// CampaignResponse represents a campaign. DescriptionHTML is sanitized.
type CampaignResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	DescriptionHTML string         `json:"description_html,omitempty"`
	Priority        model.Priority `json:"priority"`
	Exposure        model.Exposure `json:"exposure"`
	Countries       []string       `json:"countries,omitempty"`
	Phenomena       []string       `json:"phenomena,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	Centerpoint     *model.Point   `json:"centerpoint,omitempty"`
	StartDate       *time.Time     `json:"start_date,omitempty"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// MeasurementsResponse holds chart datasets for one or more devices.
type MeasurementsResponse struct {
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Compare  bool            `json:"compare"`
	Datasets []chart.Dataset `json:"datasets"`
}

// CatalogResponse lists the device models offered during onboarding.
type CatalogResponse struct {
	Models any `json:"models"`
}
