package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opensensemap/osem-map/internal/database"
	"github.com/opensensemap/osem-map/internal/model"
)

// CampaignRepository handles campaign data access.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new campaign repository.
// Returns error if pool is nil.
func NewCampaignRepository(pool *pgxpool.Pool) (*CampaignRepository, error) {
	if pool == nil {
		return nil, errors.New("database pool is required")
	}
	return &CampaignRepository{pool: pool}, nil
}

// ListCampaigns returns all campaigns, newest first.
func (r *CampaignRepository) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	query, args, err := database.QB.
		Select(
			"id", "title", "description", "priority", "exposure",
			"countries", "phenomena", "tags", "longitude", "latitude",
			"start_date", "end_date", "created_at",
		).
		From("campaigns").
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build campaigns query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		var c model.Campaign
		var priority, exposure string
		var lon, lat *float64
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &priority, &exposure,
			&c.Countries, &c.Phenomena, &c.Tags, &lon, &lat,
			&c.StartDate, &c.EndDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		c.Priority = model.Priority(priority)
		c.Exposure = model.Exposure(exposure)
		c.Centerpoint = point(lon, lat)
		campaigns = append(campaigns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns rows: %w", err)
	}
	return campaigns, nil
}
