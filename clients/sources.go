package clients

// ExternalSource represents different market data providers
type ExternalSource string

const (
	// ExternalSourceMarketAPI represents the current market metrics API client
	ExternalSourceMarketAPI ExternalSource = "marketapi"

	// ExternalSourceOrdersFeed represents the raw wholesale orders feed
	ExternalSourceOrdersFeed ExternalSource = "ordersfeed"

	// ExternalSourceManual represents manually entered metrics
	ExternalSourceManual ExternalSource = "manual"
)

// ExternalSourceConfig holds configuration for external sources
type ExternalSourceConfig struct {
	Source      ExternalSource `json:"source"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Priority    int            `json:"priority"` // Higher priority sources override lower ones
	Active      bool           `json:"active"`
}

// GetExternalSources returns all configured external sources
func GetExternalSources() map[ExternalSource]ExternalSourceConfig {
	return map[ExternalSource]ExternalSourceConfig{
		ExternalSourceMarketAPI: {
			Source:      ExternalSourceMarketAPI,
			Name:        "Market API",
			Description: "Aggregated trend metrics API",
			Priority:    100,
			Active:      true,
		},
		ExternalSourceOrdersFeed: {
			Source:      ExternalSourceOrdersFeed,
			Name:        "Orders Feed",
			Description: "Raw wholesale order event feed",
			Priority:    90,
			Active:      false,
		},
		ExternalSourceManual: {
			Source:      ExternalSourceManual,
			Name:        "Manual Entry",
			Description: "Manually entered trend metrics",
			Priority:    10,
			Active:      true,
		},
	}
}

// ValidateExternalSource checks if the source is valid
func ValidateExternalSource(source ExternalSource) bool {
	sources := GetExternalSources()
	_, exists := sources[source]
	return exists
}

// GetActiveExternalSources returns only active external sources
func GetActiveExternalSources() map[ExternalSource]ExternalSourceConfig {
	all := GetExternalSources()
	active := make(map[ExternalSource]ExternalSourceConfig)

	for source, config := range all {
		if config.Active {
			active[source] = config
		}
	}

	return active
}

// GetHighestPrioritySource returns the external source with highest priority
func GetHighestPrioritySource() ExternalSource {
	sources := GetActiveExternalSources()
	var highest ExternalSource
	var highestPriority int

	for source, config := range sources {
		if config.Priority > highestPriority {
			highest = source
			highestPriority = config.Priority
		}
	}

	return highest
}
