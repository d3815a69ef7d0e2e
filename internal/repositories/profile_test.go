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

func TestProfileRepositoryUpsertReplaces(t *testing.T) {
	repo := NewProfileRepository(testhelpers.NewTestDB(t), NoRetry())
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, &models.CompanyProfile{
		UserID:         userID,
		Services:       "plumbing",
		Certifications: "none",
	}))
	require.NoError(t, repo.Upsert(ctx, &models.CompanyProfile{
		UserID:          userID,
		Services:        "construction and road works",
		Certifications:  "CIDB Grade 7",
		Coverage:        "Gauteng",
		YearsExperience: 12,
	}))

	profile, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "construction and road works", profile.Services)
	assert.Equal(t, "CIDB Grade 7", profile.Certifications)
	assert.Equal(t, 12, profile.YearsExperience)

	_, err = repo.FindByUserID(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
