package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryConfig(t *testing.T) {
	config := summaryConfig(120, 40)

	require.NotNil(t, config.Temperature)
	assert.Zero(t, *config.Temperature)
	assert.Equal(t, int32(summaryMaxTokens), config.MaxOutputTokens)

	require.NotNil(t, config.ThinkingConfig)
	require.NotNil(t, config.ThinkingConfig.ThinkingBudget)
	assert.Zero(t, *config.ThinkingConfig.ThinkingBudget)

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "between 40 and 120 words")
}
