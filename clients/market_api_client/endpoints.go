package market_api_client

const (
	// Base URL
	DefaultBaseURL = "https://api.trendforge.dev/v1"

	// API Endpoints
	SnapshotsEndpoint = "/snapshots"
	EntitiesEndpoint  = "/entities"
	RankingsEndpoint  = "/rankings"

	// Headers
	APIKeyHeader = "X-Api-Key"
)
