package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

type UserRepository interface {
	CreateWithTeam(ctx context.Context, user *models.User, team *models.Team) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	db    *gorm.DB
	retry *Retrier
}

func NewUserRepository(db *gorm.DB, retry *Retrier) UserRepository {
	return &userRepository{db: db, retry: retry}
}

// CreateWithTeam inserts the team and its first member in one transaction.
func (r *userRepository) CreateWithTeam(ctx context.Context, user *models.User, team *models.Team) error {
	user.Email = normalizeEmail(user.Email)

	err := r.retry.Do(ctx, "create user", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing int64
			if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return fmt.Errorf("email %s already registered: %w", user.Email, apperrors.ErrConflict)
			}

			if err := tx.Create(team).Error; err != nil {
				return err
			}
			user.TeamID = team.ID
			return tx.Omit("Team").Create(user).Error
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.Team = *team
	return nil
}

// FindByEmail implements UserRepository.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.retry.Do(ctx, "find user", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Preload("Team").Where("email = ?", normalizeEmail(email)).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindByID implements UserRepository.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.retry.Do(ctx, "find user", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Preload("Team").Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
