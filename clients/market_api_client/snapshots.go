package market_api_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Snapshot is the provider's per-entity metrics row for one day.
type Snapshot struct {
	EntityID       uuid.UUID `json:"entity_id"`
	Category       string    `json:"category"`
	OrderCount     int       `json:"order_count"`
	Day1Volume     int       `json:"day1_volume"`
	Day7Volume     int       `json:"day7_volume"`
	Day14Volume    int       `json:"day14_volume"`
	Day30Volume    int       `json:"day30_volume"`
	CurrentRank    int       `json:"current_rank"`
	PreviousRank   int       `json:"previous_rank"`
	StreakDays     int       `json:"streak_days"`
	MarketSharePct float64   `json:"market_share_pct"`
	DailyVolumes   []int     `json:"daily_volumes"`
}

type SnapshotsResponse struct {
	Period   string     `json:"period"`
	Results  int        `json:"results"`
	Errors   any        `json:"errors"`
	Response []Snapshot `json:"response"`
}

// GetSnapshots fetches all entity snapshots for one scoring day.
func (c *MarketApiClient) GetSnapshots(ctx context.Context, period string) ([]Snapshot, error) {
	return c.GetSnapshotsByCategory(ctx, period, "")
}

func (c *MarketApiClient) GetSnapshotsByCategory(ctx context.Context, period, category string) ([]Snapshot, error) {
	endpoint := fmt.Sprintf("%s?period=%s", SnapshotsEndpoint, period)
	if category != "" {
		endpoint += "&category=" + category
	}
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}

	var response SnapshotsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	if response.Errors != nil {
		if errMap, ok := response.Errors.(map[string]any); ok && len(errMap) > 0 {
			return nil, fmt.Errorf("API returned errors: %v", response.Errors)
		}
	}

	return response.Response, nil
}
