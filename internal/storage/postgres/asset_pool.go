package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// AssetPool reads the entity catalog and answers availability against the
// league's pick history in one query.
type AssetPool struct {
	db *sql.DB
}

func NewAssetPool(db *sql.DB) *AssetPool {
	return &AssetPool{db: db}
}

// CreateAsset adds an entity to the catalog.
func (p *AssetPool) CreateAsset(ctx context.Context, asset models.Asset) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO assets (id, category, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET category = EXCLUDED.category, name = EXCLUDED.name`,
		asset.ID, string(asset.Category), asset.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert asset: %w", err)
	}
	return nil
}

func (p *AssetPool) GetAsset(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	var (
		asset    models.Asset
		category string
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT id, category, name FROM assets WHERE id = $1`, id).
		Scan(&asset.ID, &category, &asset.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no asset %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	cat, err := models.ParseAssetCategory(category)
	if err != nil {
		return nil, err
	}
	asset.Category = cat
	return &asset, nil
}

func (p *AssetPool) ListAvailableAssets(ctx context.Context, leagueID uuid.UUID, category models.AssetCategory) ([]models.Asset, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT a.id, a.category, a.name
		FROM assets a
		WHERE a.category = $2
		  AND NOT EXISTS (
			SELECT 1 FROM draft_picks dp
			WHERE dp.league_id = $1 AND dp.category = a.category AND dp.asset_id = a.id
		  )
		ORDER BY a.name`, leagueID, string(category))
	if err != nil {
		return nil, fmt.Errorf("list available assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var (
			asset models.Asset
			cat   string
		)
		if err := rows.Scan(&asset.ID, &cat, &asset.Name); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		parsed, err := models.ParseAssetCategory(cat)
		if err != nil {
			return nil, err
		}
		asset.Category = parsed
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}
