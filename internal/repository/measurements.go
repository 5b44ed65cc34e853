package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opensensemap/osem-map/internal/config"
	"github.com/opensensemap/osem-map/internal/database"
	"github.com/opensensemap/osem-map/internal/model"
)

// MeasurementRepository handles measurement data access.
type MeasurementRepository struct {
	pool *pgxpool.Pool
}

// NewMeasurementRepository creates a new measurement repository.
// Returns error if pool is nil.
func NewMeasurementRepository(pool *pgxpool.Pool) (*MeasurementRepository, error) {
	if pool == nil {
		return nil, errors.New("database pool is required")
	}
	return &MeasurementRepository{pool: pool}, nil
}

// ListMeasurements returns the readings of all sensors of a device in [from, to), ordered by
// sensor and time. Each sensor contributes at most its newest MaxMeasurementsPerSensor readings.
func (r *MeasurementRepository) ListMeasurements(ctx context.Context, deviceID string, from, to time.Time) ([]model.Measurement, error) {
	query, args, err := measurementsQuery(deviceID, from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build measurements query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	var measurements []model.Measurement
	for rows.Next() {
		var m model.Measurement
		if err := rows.Scan(&m.SensorID, &m.Value, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements rows: %w", err)
	}
	return measurements, nil
}

func measurementsQuery(deviceID string, from, to time.Time) sq.SelectBuilder {
	ranked := sq.
		Select("m.sensor_id", "m.value", "m.created_at",
			"ROW_NUMBER() OVER (PARTITION BY m.sensor_id ORDER BY m.created_at DESC) AS rn").
		From("measurements m").
		Join("sensors s ON s.id = m.sensor_id").
		Where(sq.Eq{"s.device_id": deviceID}).
		Where(sq.GtOrEq{"m.created_at": from}).
		Where(sq.Lt{"m.created_at": to})

	return database.QB.
		Select("sensor_id", "value", "created_at").
		FromSelect(ranked, "t").
		Where(sq.LtOrEq{"rn": config.MaxMeasurementsPerSensor}).
		OrderBy("sensor_id", "created_at")
}
