package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighestPrioritySourceIsMarketAPI(t *testing.T) {
	assert.Equal(t, ExternalSourceMarketAPI, GetHighestPrioritySource())
}

func TestValidateExternalSource(t *testing.T) {
	assert.True(t, ValidateExternalSource(ExternalSourceMarketAPI))
	assert.True(t, ValidateExternalSource(ExternalSourceManual))
	assert.False(t, ValidateExternalSource(ExternalSource("espn")))
}

func TestActiveSourcesExcludeInactive(t *testing.T) {
	active := GetActiveExternalSources()
	assert.Contains(t, active, ExternalSourceMarketAPI)
	assert.NotContains(t, active, ExternalSourceOrdersFeed)
}
