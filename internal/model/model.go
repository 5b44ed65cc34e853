package model

import (
	"math"
	"strings"
	"time"
)

// Exposure describes where a device is mounted.
type Exposure string

const (
	ExposureIndoor  Exposure = "indoor"
	ExposureOutdoor Exposure = "outdoor"
	ExposureMobile  Exposure = "mobile"
	ExposureUnknown Exposure = "unknown"
)

// Priority ranks campaigns.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Status is the liveness state of a device.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOld      Status = "old"
)

// Exposures lists all valid exposure values.
var Exposures = []Exposure{ExposureIndoor, ExposureOutdoor, ExposureMobile, ExposureUnknown}

// Priorities lists all valid priority values, most pressing first.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Statuses lists all valid device status values.
var Statuses = []Status{StatusActive, StatusInactive, StatusOld}

// ParseExposure returns the exposure matching s case-insensitively.
func ParseExposure(s string) (Exposure, bool) {
	for _, e := range Exposures {
		if strings.EqualFold(string(e), s) {
			return e, true
		}
	}
	return "", false
}

// ParsePriority returns the priority matching s case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return "", false
}

// ParseStatus returns the status matching s case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Point is a WGS 84 coordinate.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0) &&
		!math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0)
}

// Entity is the filterable projection shared by devices and campaigns.
// Fields that do not apply to a kind stay empty.
type Entity struct {
	ID          string
	Name        string
	Exposure    string
	Priority    string // campaigns only
	Status      string // devices only
	Countries   []string
	Phenomena   []string
	Tags        []string
	Centerpoint *Point
	StartDate   *time.Time // campaigns only
	EndDate     *time.Time // campaigns only
}

// Point returns the centerpoint when it is present and finite.
func (e Entity) Point() (Point, bool) {
	return usable(e.Centerpoint)
}

func usable(p *Point) (Point, bool) {
	if p == nil || !p.Finite() {
		return Point{}, false
	}
	return *p, true
}

// Sensor is a single measuring channel of a device.
type Sensor struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Unit       string `json:"unit"`
	SensorType string `json:"sensor_type"`
	Phenomenon string `json:"phenomenon"`
}

// Device is a registered senseBox or compatible station.
type Device struct {
	ID        string
	Name      string
	Exposure  Exposure
	Status    Status
	Model     string
	Country   string
	Tags      []string
	Location  *Point
	Sensors   []Sensor
	CreatedAt time.Time
}

// Entity projects the device for filtering.
func (d Device) Entity() Entity {
	e := Entity{
		ID:          d.ID,
		Name:        d.Name,
		Exposure:    string(d.Exposure),
		Status:      string(d.Status),
		Tags:        d.Tags,
		Centerpoint: d.Location,
	}
	if d.Country != "" {
		e.Countries = []string{d.Country}
	}
	for _, s := range d.Sensors {
		if s.Phenomenon != "" {
			e.Phenomena = append(e.Phenomena, s.Phenomenon)
		}
	}
	return e
}

// Point returns the device location when it is present and finite.
func (d Device) Point() (Point, bool) {
	return usable(d.Location)
}

// Campaign is a community measuring campaign.
type Campaign struct {
	ID          string
	Title       string
	Description string // markdown
	Priority    Priority
	Exposure    Exposure
	Countries   []string
	Phenomena   []string
	Tags        []string
	Centerpoint *Point
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// Entity projects the campaign for filtering.
func (c Campaign) Entity() Entity {
	return Entity{
		ID:          c.ID,
		Name:        c.Title,
		Exposure:    string(c.Exposure),
		Priority:    string(c.Priority),
		Countries:   c.Countries,
		Phenomena:   c.Phenomena,
		Tags:        c.Tags,
		Centerpoint: c.Centerpoint,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
	}
}

// Point returns the campaign centerpoint when it is present and finite.
func (c Campaign) Point() (Point, bool) {
	return usable(c.Centerpoint)
}

// Measurement is one raw sensor reading. Values are stored as submitted.
type Measurement struct {
	SensorID  string
	Value     string
	CreatedAt time.Time
}

// MQTTConfig holds the optional MQTT ingestion settings of a new device.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	URL         string `json:"url,omitempty"`
	Topic       string `json:"topic,omitempty"`
	MessageType string `json:"message_type,omitempty"` // "json" or "csv"
}

// TTNConfig holds the optional The Things Network settings of a new device.
type TTNConfig struct {
	Enabled     bool   `json:"enabled"`
	AppID       string `json:"app_id,omitempty"`
	DeviceID    string `json:"device_id,omitempty"`
	ProfileName string `json:"profile,omitempty"`
}

// DeviceDraft is a device assembled by the onboarding wizard, not yet persisted.
type DeviceDraft struct {
	Name     string
	Exposure Exposure
	GroupTag string
	Tags     []string
	Location Point
	Height   *float64
	Model    string
	Sensors  []Sensor
	MQTT     MQTTConfig
	TTN      TTNConfig
}
