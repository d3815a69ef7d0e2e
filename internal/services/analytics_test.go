package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
	"tenderhub/insight-api/internal/testhelpers"
)

func TestAnalytics(t *testing.T) {
	tenders := repositories.NewTenderRepository(testhelpers.NewTestDB(t), repositories.NoRetry())
	summaries := testhelpers.NewSummaryStore()
	results := testhelpers.NewReadinessStore()
	svc := NewAnalyticsService(tenders, summaries, results)
	ctx := context.Background()

	budget := 1000.0
	scored := &models.Tender{Title: "scored", Buyer: "Transport", Budget: &budget}
	bare := &models.Tender{Title: "bare", Buyer: "Health"}
	require.NoError(t, tenders.Create(ctx, scored))
	require.NoError(t, tenders.Create(ctx, bare))
	require.NoError(t, summaries.Save(ctx, &models.TenderSummary{TenderID: scored.ID.String(), Summary: "roads"}))
	require.NoError(t, results.Upsert(ctx, &models.ReadinessResult{TenderID: scored.ID.String(), Score: 64}))

	spend, err := svc.SpendByBuyer(ctx)
	require.NoError(t, err)
	require.Len(t, spend, 2)
	assert.Equal(t, "Transport", spend[0].Buyer)

	enriched, err := svc.EnrichedReleases(ctx)
	require.NoError(t, err)
	require.Len(t, enriched, 2)

	byTitle := map[string]models.EnrichedRelease{}
	for _, e := range enriched {
		byTitle[e.Metadata.Title] = e
	}
	assert.Equal(t, "roads", byTitle["scored"].Summary)
	assert.Equal(t, 64, byTitle["scored"].Score)
	assert.Empty(t, byTitle["bare"].Summary)
	assert.Zero(t, byTitle["bare"].Score)
}
