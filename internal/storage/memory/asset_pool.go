package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// AssetPool answers availability questions against a seeded entity catalog
// and the league's pick history.
type AssetPool struct {
	mu         sync.RWMutex
	assets     map[uuid.UUID]models.Asset
	byCategory map[models.AssetCategory][]uuid.UUID
	picks      *PickStore
}

func NewAssetPool(picks *PickStore) *AssetPool {
	return &AssetPool{
		assets:     make(map[uuid.UUID]models.Asset),
		byCategory: make(map[models.AssetCategory][]uuid.UUID),
		picks:      picks,
	}
}

// Seed adds an entity to the catalog.
func (p *AssetPool) Seed(asset models.Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.assets[asset.ID]; !ok {
		p.byCategory[asset.Category] = append(p.byCategory[asset.Category], asset.ID)
	}
	p.assets[asset.ID] = asset
}

func (p *AssetPool) GetAsset(_ context.Context, id uuid.UUID) (*models.Asset, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	asset, ok := p.assets[id]
	if !ok {
		return nil, fmt.Errorf("no asset %s", id)
	}
	out := asset
	return &out, nil
}

func (p *AssetPool) ListAvailableAssets(ctx context.Context, leagueID uuid.UUID, category models.AssetCategory) ([]models.Asset, error) {
	p.mu.RLock()
	ids := append([]uuid.UUID(nil), p.byCategory[category]...)
	assets := make([]models.Asset, 0, len(ids))
	for _, id := range ids {
		assets = append(assets, p.assets[id])
	}
	p.mu.RUnlock()

	out := assets[:0]
	for _, asset := range assets {
		taken, err := p.picks.AssetDrafted(ctx, leagueID, asset.Category, asset.ID)
		if err != nil {
			return nil, err
		}
		if !taken {
			out = append(out, asset)
		}
	}
	return out, nil
}
