package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opensensemap/osem-map/internal/database"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/samber/lo"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

var deviceColumns = []string{
	"d.id", "d.name", "d.exposure", "d.status", "d.model", "d.country",
	"d.tags", "d.longitude", "d.latitude", "d.created_at",
}

// DeviceRepository handles device and sensor data access.
type DeviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository creates a new device repository.
// Returns error if pool is nil.
func NewDeviceRepository(pool *pgxpool.Pool) (*DeviceRepository, error) {
	if pool == nil {
		return nil, errors.New("database pool is required")
	}
	return &DeviceRepository{pool: pool}, nil
}

// ListDevices returns all devices with their sensors, ordered by creation time.
func (r *DeviceRepository) ListDevices(ctx context.Context) ([]model.Device, error) {
	query, args, err := database.QB.
		Select(deviceColumns...).
		From("devices d").
		OrderBy("d.created_at", "d.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build devices query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices rows: %w", err)
	}

	if len(devices) == 0 {
		return devices, nil
	}

	sensors, err := r.sensors(ctx, lo.Map(devices, func(d model.Device, _ int) string { return d.ID }))
	if err != nil {
		return nil, err
	}
	for i := range devices {
		devices[i].Sensors = sensors[devices[i].ID]
	}
	return devices, nil
}

// GetDevice returns a single device with its sensors, or ErrNotFound.
func (r *DeviceRepository) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	query, args, err := database.QB.
		Select(deviceColumns...).
		From("devices d").
		Where(sq.Eq{"d.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build device query: %w", err)
	}

	d, err := scanDevice(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("device %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	sensors, err := r.sensors(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	d.Sensors = sensors[id]
	return &d, nil
}

// CreateDevice stores a new device and its sensors in one transaction and returns the device id.
func (r *DeviceRepository) CreateDevice(ctx context.Context, draft model.DeviceDraft) (string, error) {
	deviceID := uuid.NewString()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query, args, err := insertDeviceQuery(deviceID, draft).ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert device query: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert device: %w", err)
	}

	if len(draft.Sensors) > 0 {
		query, args, err = insertSensorsQuery(deviceID, draft.Sensors, uuid.NewString).ToSql()
		if err != nil {
			return "", fmt.Errorf("build insert sensors query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return "", fmt.Errorf("insert sensors: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return deviceID, nil
}

func (r *DeviceRepository) sensors(ctx context.Context, deviceIDs []string) (map[string][]model.Sensor, error) {
	query, args, err := sensorsQuery(deviceIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sensors query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sensors: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]model.Sensor)
	for rows.Next() {
		var deviceID string
		var s model.Sensor
		if err := rows.Scan(&deviceID, &s.ID, &s.Title, &s.Unit, &s.SensorType, &s.Phenomenon); err != nil {
			return nil, fmt.Errorf("scan sensor: %w", err)
		}
		result[deviceID] = append(result[deviceID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensors rows: %w", err)
	}
	return result, nil
}

func sensorsQuery(deviceIDs []string) sq.SelectBuilder {
	return database.QB.
		Select("device_id", "id", "title", "unit", "sensor_type", "phenomenon").
		From("sensors").
		Where(sq.Eq{"device_id": deviceIDs}).
		OrderBy("device_id", "position")
}

func insertDeviceQuery(id string, draft model.DeviceDraft) sq.InsertBuilder {
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	return database.QB.
		Insert("devices").
		Columns("id", "name", "exposure", "model", "group_tag", "tags", "longitude", "latitude", "height", "mqtt", "ttn").
		Values(id, draft.Name, string(draft.Exposure), draft.Model, draft.GroupTag, tags,
			draft.Location.Lon, draft.Location.Lat, draft.Height, draft.MQTT, draft.TTN)
}

func insertSensorsQuery(deviceID string, sensors []model.Sensor, newID func() string) sq.InsertBuilder {
	q := database.QB.
		Insert("sensors").
		Columns("id", "device_id", "position", "title", "unit", "sensor_type", "phenomenon")
	for i, s := range sensors {
		q = q.Values(newID(), deviceID, i, s.Title, s.Unit, s.SensorType, s.Phenomenon)
	}
	return q
}

func scanDevice(row pgx.Row) (model.Device, error) {
	var d model.Device
	var exposure, status string
	var lon, lat *float64
	if err := row.Scan(&d.ID, &d.Name, &exposure, &status, &d.Model, &d.Country,
		&d.Tags, &lon, &lat, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return d, err
		}
		return d, fmt.Errorf("scan device: %w", err)
	}
	d.Exposure = model.Exposure(exposure)
	d.Status = model.Status(status)
	d.Location = point(lon, lat)
	return d, nil
}

func point(lon, lat *float64) *model.Point {
	if lon == nil || lat == nil {
		return nil
	}
	return &model.Point{Lon: *lon, Lat: *lat}
}
