package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/testhelpers"
)

func TestWorkspaceRepositoryUpsertAndList(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	tenders := NewTenderRepository(db, NoRetry())
	repo := NewWorkspaceRepository(db, NoRetry())
	ctx := context.Background()
	teamID := uuid.New()

	a := seedTender(t, tenders, "School renovation", "Limpopo")
	b := seedTender(t, tenders, "Clinic cleaning", "Gauteng")

	require.NoError(t, repo.UpsertStatus(ctx, &models.WorkspaceRecord{
		TeamID: teamID, TenderID: a.ID, Status: models.StatusPending, UpdatedBy: "ana@example.com",
	}))
	require.NoError(t, repo.UpsertStatus(ctx, &models.WorkspaceRecord{
		TeamID: teamID, TenderID: b.ID, Status: models.StatusInterested, UpdatedBy: "ana@example.com",
	}))
	require.NoError(t, repo.UpsertStatus(ctx, &models.WorkspaceRecord{
		TeamID: teamID, TenderID: a.ID, Status: models.StatusSubmitted, UpdatedBy: "ben@example.com",
	}))

	all, err := repo.ListByTeam(ctx, teamID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	submitted, err := repo.ListByTeam(ctx, teamID, models.StatusSubmitted)
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.Equal(t, a.ID, submitted[0].TenderID)
	assert.Equal(t, "School renovation", submitted[0].Tender.Title)
	assert.Equal(t, "ben@example.com", submitted[0].UpdatedBy)

	other, err := repo.ListByTeam(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestWorkspaceRepositoryFind(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	tenders := NewTenderRepository(db, NoRetry())
	repo := NewWorkspaceRepository(db, NoRetry())
	ctx := context.Background()
	teamID := uuid.New()

	tender := seedTender(t, tenders, "Fencing", "")
	require.NoError(t, repo.UpsertStatus(ctx, &models.WorkspaceRecord{
		TeamID: teamID, TenderID: tender.ID, Status: models.StatusNotEligible,
	}))

	record, err := repo.Find(ctx, teamID, tender.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotEligible, record.Status)

	_, err = repo.Find(ctx, uuid.New(), tender.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
