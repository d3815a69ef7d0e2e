package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *models.CompanyProfile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error)
}

type profileRepository struct {
	db    *gorm.DB
	retry *Retrier
}

func NewProfileRepository(db *gorm.DB, retry *Retrier) ProfileRepository {
	return &profileRepository{db: db, retry: retry}
}

// Upsert stores the profile, replacing any profile the user saved before.
func (r *profileRepository) Upsert(ctx context.Context, profile *models.CompanyProfile) error {
	err := r.retry.Do(ctx, "save profile", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sector", "services", "certifications", "coverage",
				"years_experience", "contact", "updated_at",
			}),
		}).Create(profile).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// FindByUserID implements ProfileRepository.
func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	err := r.retry.Do(ctx, "find profile", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile for user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}
