package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
	"tenderhub/insight-api/internal/testhelpers"
)

type readinessFixture struct {
	tenders   repositories.TenderRepository
	summaries *testhelpers.SummaryStore
	results   *testhelpers.ReadinessStore
	service   ReadinessService
}

func newReadinessFixture(t *testing.T) *readinessFixture {
	t.Helper()

	f := &readinessFixture{
		tenders:   repositories.NewTenderRepository(testhelpers.NewTestDB(t), repositories.NoRetry()),
		summaries: testhelpers.NewSummaryStore(),
		results:   testhelpers.NewReadinessStore(),
	}
	engine := NewScoringEngine(ScoringOptions{Threshold: 70, CertificationMarker: "CIDB"})
	f.service = NewReadinessService(f.tenders, NewReadinessGateway(f.summaries, f.results), f.results, engine, nil)
	return f
}

func (f *readinessFixture) seed(t *testing.T, province, summary string) uuid.UUID {
	t.Helper()
	tender := &models.Tender{Title: "Roads", Province: province}
	require.NoError(t, f.tenders.Create(context.Background(), tender))
	if summary != "" {
		require.NoError(t, f.summaries.Save(context.Background(), &models.TenderSummary{TenderID: tender.ID.String(), Summary: summary}))
	}
	return tender.ID
}

var gautengBuilder = models.CompanyProfile{
	Services:       "road construction",
	Certifications: "CIDB Grade 6",
	Coverage:       "Gauteng",
}

func TestReadinessCheckStoresResult(t *testing.T) {
	f := newReadinessFixture(t)
	id := f.seed(t, "Gauteng", "Road construction in Gauteng for a CIDB graded contractor.")

	result, err := f.service.Check(context.Background(), id, gautengBuilder)
	require.NoError(t, err)
	assert.Equal(t, id.String(), result.TenderID)
	assert.True(t, result.Checklist[CheckCertification])
	assert.True(t, result.Checklist[CheckProvince])
	assert.Greater(t, result.Score, 0)

	stored, err := f.service.Latest(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, result.Score, stored.Score)
}

func TestReadinessCheckIsIdempotent(t *testing.T) {
	f := newReadinessFixture(t)
	id := f.seed(t, "Gauteng", "Road construction in Gauteng.")

	first, err := f.service.Check(context.Background(), id, gautengBuilder)
	require.NoError(t, err)
	second, err := f.service.Check(context.Background(), id, gautengBuilder)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Checklist, second.Checklist)
	assert.Equal(t, first.Recommendation, second.Recommendation)
	assert.Equal(t, 1, f.results.Len())
	assert.Equal(t, 2, f.results.Upserts)
}

func TestReadinessCheckMissingTender(t *testing.T) {
	f := newReadinessFixture(t)

	_, err := f.service.Check(context.Background(), uuid.New(), gautengBuilder)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Zero(t, f.results.Len())
}

func TestReadinessCheckMissingSummary(t *testing.T) {
	f := newReadinessFixture(t)
	id := f.seed(t, "Gauteng", "")

	_, err := f.service.Check(context.Background(), id, gautengBuilder)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Zero(t, f.results.Len())
}

func TestReadinessLatestMissing(t *testing.T) {
	f := newReadinessFixture(t)

	_, err := f.service.Latest(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
