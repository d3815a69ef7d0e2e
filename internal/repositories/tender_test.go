package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/testhelpers"
)

func seedTender(t *testing.T, repo TenderRepository, title, province string) *models.Tender {
	t.Helper()
	tender := &models.Tender{Title: title, Province: province, Buyer: "Dept. of Public Works", FileName: title + ".pdf"}
	require.NoError(t, repo.Create(context.Background(), tender))
	return tender
}

func TestTenderRepositoryCreateAndFind(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	tender := seedTender(t, repo, "Road maintenance", "Gauteng")
	assert.NotEqual(t, uuid.Nil, tender.ID)
	assert.False(t, tender.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, tender.ID)
	require.NoError(t, err)
	assert.Equal(t, "Road maintenance", found.Title)
	assert.Equal(t, "Gauteng", found.Province)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestTenderRepositoryFindByContentHash(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	tender := &models.Tender{Title: "Water pipes", ContentHash: "abc123"}
	require.NoError(t, repo.Create(ctx, tender))

	found, err := repo.FindByContentHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, tender.ID, found.ID)

	_, err = repo.FindByContentHash(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestTenderRepositoryListNewestFirst(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		tender := &models.Tender{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, tender))
	}

	tenders, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, tenders, 3)
	assert.Equal(t, "third", tenders[0].Title)
	assert.Equal(t, "first", tenders[2].Title)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Title)
}

func TestTenderRepositorySearch(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	seedTender(t, repo, "Construction of school hall", "Limpopo")
	seedTender(t, repo, "IT support services", "Gauteng")
	seedTender(t, repo, "Bridge CONSTRUCTION", "Western Cape")

	hits, err := repo.Search(ctx, []string{"construction"}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = repo.Search(ctx, []string{"gauteng", "limpopo"}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = repo.Search(ctx, []string{"  "}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTenderRepositorySearchTreatsWildcardsLiterally(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	seedTender(t, repo, "Roads phase_2", "Gauteng")
	seedTender(t, repo, "Roads phase22", "Gauteng")

	for _, kw := range []string{"%", `\`, "zzz"} {
		hits, err := repo.Search(ctx, []string{kw}, 10)
		require.NoError(t, err)
		assert.Empty(t, hits, kw)
	}

	hits, err := repo.Search(ctx, []string{"phase_2"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Roads phase_2", hits[0].Title)

	hits, err = repo.Search(ctx, []string{"_"}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestTenderRepositoryCounts(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	old := &models.Tender{Title: "old", CreatedAt: time.Now().UTC().Add(-72 * time.Hour)}
	require.NoError(t, repo.Create(ctx, old))
	seedTender(t, repo, "new", "")

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	recent, err := repo.CountSince(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), recent)
}

func TestTenderRepositoryFindByIDs(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	a := seedTender(t, repo, "a", "")
	b := seedTender(t, repo, "b", "")
	seedTender(t, repo, "c", "")

	tenders, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, tenders, 2)

	tenders, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, tenders)
}

func TestTenderRepositorySpendByBuyer(t *testing.T) {
	repo := NewTenderRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()

	budget := func(v float64) *float64 { return &v }
	require.NoError(t, repo.Create(ctx, &models.Tender{Title: "a", Buyer: "Transport", Budget: budget(100)}))
	require.NoError(t, repo.Create(ctx, &models.Tender{Title: "b", Buyer: "Transport", Budget: budget(250)}))
	require.NoError(t, repo.Create(ctx, &models.Tender{Title: "c", Buyer: "Health", Budget: budget(50)}))
	require.NoError(t, repo.Create(ctx, &models.Tender{Title: "d", Buyer: "Health"}))

	rows, err := repo.SpendByBuyer(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Transport", rows[0].Buyer)
	assert.InDelta(t, 350.0, rows[0].TotalSpend, 0.001)
	assert.Equal(t, int64(2), rows[0].Tenders)
	assert.Equal(t, int64(2), rows[1].Tenders)
}
