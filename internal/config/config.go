package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultRateLimit is the default requests per minute per IP address.
	DefaultRateLimit = 300

	// DefaultWriteRateLimit is the default POST requests per minute per IP address.
	DefaultWriteRateLimit = 60

	// DefaultSessionTTL is how long an idle onboarding session is kept in memory.
	DefaultSessionTTL = 2 * time.Hour

	// CompletedSessionRetention is how long a submitted session stays readable so the
	// client can fetch the new device id.
	CompletedSessionRetention = 5 * time.Minute

	// DefaultMeasurementWindow is the chart window used when no time range is requested.
	DefaultMeasurementWindow = 24 * time.Hour

	// MaxMeasurementWindow caps the chart window a single request may ask for.
	MaxMeasurementWindow = 31 * 24 * time.Hour

	// MaxMeasurementsPerSensor bounds how many rows a chart request loads per sensor.
	MaxMeasurementsPerSensor = 10000
)
