package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/opensensemap/osem-map/internal/config"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositories(t *testing.T) {
	t.Run("device repository nil pool returns error", func(t *testing.T) {
		repo, err := NewDeviceRepository(nil)
		assert.Nil(t, repo)
		assert.ErrorContains(t, err, "database pool is required")
	})

	t.Run("campaign repository nil pool returns error", func(t *testing.T) {
		repo, err := NewCampaignRepository(nil)
		assert.Nil(t, repo)
		assert.ErrorContains(t, err, "database pool is required")
	})

	t.Run("measurement repository nil pool returns error", func(t *testing.T) {
		repo, err := NewMeasurementRepository(nil)
		assert.Nil(t, repo)
		assert.ErrorContains(t, err, "database pool is required")
	})
}

func TestSensorsQuery(t *testing.T) {
	query, args, err := sensorsQuery([]string{"a", "b"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT device_id, id, title, unit, sensor_type, phenomenon FROM sensors WHERE device_id IN ($1,$2) ORDER BY device_id, position", query)
	assert.Equal(t, []any{"a", "b"}, args)
}

func TestInsertDeviceQuery(t *testing.T) {
	height := 12.5
	draft := model.DeviceDraft{
		Name:     "Balkon",
		Exposure: model.ExposureOutdoor,
		Location: model.Point{Lon: 7.62, Lat: 51.96},
		Height:   &height,
		Model:    "homeV2Wifi",
	}

	query, args, err := insertDeviceQuery("dev-1", draft).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO devices (id,name,exposure,model,group_tag,tags,longitude,latitude,height,mqtt,ttn)")
	assert.Contains(t, query, "$11")
	require.Len(t, args, 11)
	assert.Equal(t, "dev-1", args[0])
	assert.Equal(t, "outdoor", args[2])
	assert.Equal(t, []string{}, args[5])
	assert.Equal(t, 7.62, args[6])
	assert.Equal(t, 51.96, args[7])
}

func TestInsertSensorsQuery(t *testing.T) {
	sensors := []model.Sensor{
		{Title: "Temperatur", Unit: "°C", SensorType: "HDC1080", Phenomenon: "Temperatur"},
		{Title: "PM10", Unit: "µg/m³", SensorType: "SDS 011", Phenomenon: "PM10"},
	}
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}

	query, args, err := insertSensorsQuery("dev-1", sensors, newID).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO sensors (id,device_id,position,title,unit,sensor_type,phenomenon)")
	require.Len(t, args, 14)
	assert.Equal(t, []any{"s1", "dev-1", 0, "Temperatur", "°C", "HDC1080", "Temperatur"}, args[:7])
	assert.Equal(t, []any{"s2", "dev-1", 1, "PM10", "µg/m³", "SDS 011", "PM10"}, args[7:])
}

func TestMeasurementsQuery(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	query, args, err := measurementsQuery("dev-1", from, to).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "PARTITION BY m.sensor_id")
	assert.Contains(t, query, "s.device_id = $1")
	assert.Contains(t, query, "m.created_at >= $2")
	assert.Contains(t, query, "m.created_at < $3")
	assert.Contains(t, query, "rn <= $4")
	assert.Contains(t, query, "ORDER BY sensor_id, created_at")
	assert.Equal(t, []any{"dev-1", from, to, config.MaxMeasurementsPerSensor}, args)
}

func TestPoint(t *testing.T) {
	lon, lat := 7.6, 51.9
	assert.Nil(t, point(nil, &lat))
	assert.Nil(t, point(&lon, nil))
	assert.Equal(t, &model.Point{Lon: 7.6, Lat: 51.9}, point(&lon, &lat))
}
