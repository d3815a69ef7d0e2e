package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

type WorkspaceRepository interface {
	UpsertStatus(ctx context.Context, record *models.WorkspaceRecord) error
	Find(ctx context.Context, teamID, tenderID uuid.UUID) (*models.WorkspaceRecord, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, status models.WorkspaceStatus) ([]models.WorkspaceRecord, error)
}

type workspaceRepository struct {
	db    *gorm.DB
	retry *Retrier
}

func NewWorkspaceRepository(db *gorm.DB, retry *Retrier) WorkspaceRepository {
	return &workspaceRepository{db: db, retry: retry}
}

// UpsertStatus creates the team's record for the tender or moves it to the new status.
func (r *workspaceRepository) UpsertStatus(ctx context.Context, record *models.WorkspaceRecord) error {
	record.UpdatedAt = time.Now().UTC()

	err := r.retry.Do(ctx, "save workspace status", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Omit("Tender").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "tender_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_by", "updated_at"}),
		}).Create(record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save workspace status: %w", err)
	}
	return nil
}

// Find implements WorkspaceRepository.
func (r *workspaceRepository) Find(ctx context.Context, teamID, tenderID uuid.UUID) (*models.WorkspaceRecord, error) {
	var record models.WorkspaceRecord
	err := r.retry.Do(ctx, "find workspace record", func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Where("team_id = ? AND tender_id = ?", teamID, tenderID).
			First(&record).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workspace record for tender %s: %w", tenderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find workspace record: %w", err)
	}

	return &record, nil
}

// ListByTeam returns the team's tracked tenders, optionally narrowed to one status.
func (r *workspaceRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, status models.WorkspaceStatus) ([]models.WorkspaceRecord, error) {
	var records []models.WorkspaceRecord
	err := r.retry.Do(ctx, "list workspace", func(ctx context.Context) error {
		q := r.db.WithContext(ctx).Preload("Tender").Where("team_id = ?", teamID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q.Order("updated_at DESC").Find(&records).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace: %w", err)
	}

	return records, nil
}
