package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

type TenderRepository interface {
	Create(ctx context.Context, tender *models.Tender) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tender, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tender, error)
	FindByContentHash(ctx context.Context, hash string) (*models.Tender, error)
	List(ctx context.Context, limit, offset int) ([]models.Tender, error)
	Search(ctx context.Context, keywords []string, limit int) ([]models.Tender, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	SpendByBuyer(ctx context.Context) ([]models.BuyerSpend, error)
}

// likeEscaper makes keyword wildcards match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type tenderRepository struct {
	db    *gorm.DB
	retry *Retrier
}

func NewTenderRepository(db *gorm.DB, retry *Retrier) TenderRepository {
	return &tenderRepository{db: db, retry: retry}
}

// Create implements TenderRepository.
func (r *tenderRepository) Create(ctx context.Context, tender *models.Tender) error {
	return r.retry.Do(ctx, "create tender", func(ctx context.Context) error {
		if err := r.db.WithContext(ctx).Create(tender).Error; err != nil {
			return fmt.Errorf("failed to create tender: %w", err)
		}
		return nil
	})
}

// FindByID implements TenderRepository.
func (r *tenderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tender, error) {
	var tender models.Tender
	err := r.retry.Do(ctx, "find tender", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&tender).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tender %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find tender: %w", err)
	}

	return &tender, nil
}

// FindByIDs implements TenderRepository.
func (r *tenderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tender, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var tenders []models.Tender
	err := r.retry.Do(ctx, "find tenders", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tenders).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find tenders: %w", err)
	}

	return tenders, nil
}

// FindByContentHash implements TenderRepository.
func (r *tenderRepository) FindByContentHash(ctx context.Context, hash string) (*models.Tender, error) {
	var tender models.Tender
	err := r.retry.Do(ctx, "find tender by hash", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("content_hash = ?", hash).Order("created_at ASC").First(&tender).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tender with hash %s: %w", hash, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find tender: %w", err)
	}

	return &tender, nil
}

// List implements TenderRepository. Newest uploads come first.
func (r *tenderRepository) List(ctx context.Context, limit, offset int) ([]models.Tender, error) {
	var tenders []models.Tender
	err := r.retry.Do(ctx, "list tenders", func(ctx context.Context) error {
		q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset)
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&tenders).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tenders: %w", err)
	}

	return tenders, nil
}

// Search implements TenderRepository. A tender matches when any keyword appears
// in its title, buyer or province, case-insensitively.
func (r *tenderRepository) Search(ctx context.Context, keywords []string, limit int) ([]models.Tender, error) {
	var conditions []string
	var params []interface{}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		pattern := "%" + likeEscaper.Replace(kw) + "%"
		conditions = append(conditions,
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(buyer) LIKE ? ESCAPE '\' OR LOWER(province) LIKE ? ESCAPE '\'`)
		params = append(params, pattern, pattern, pattern)
	}

	if len(conditions) == 0 {
		return nil, nil
	}

	var tenders []models.Tender
	err := r.retry.Do(ctx, "search tenders", func(ctx context.Context) error {
		q := r.db.WithContext(ctx).
			Where("("+strings.Join(conditions, ") OR (")+")", params...).
			Order("created_at DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&tenders).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search tenders: %w", err)
	}

	return tenders, nil
}

// Count implements TenderRepository.
func (r *tenderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.retry.Do(ctx, "count tenders", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Model(&models.Tender{}).Count(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count tenders: %w", err)
	}
	return count, nil
}

// CountSince implements TenderRepository.
func (r *tenderRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.retry.Do(ctx, "count recent tenders", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Model(&models.Tender{}).Where("created_at >= ?", since).Count(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count tenders: %w", err)
	}
	return count, nil
}

// SpendByBuyer totals tender budgets per buyer, largest first. Tenders without a budget count as zero.
func (r *tenderRepository) SpendByBuyer(ctx context.Context) ([]models.BuyerSpend, error) {
	var rows []models.BuyerSpend
	err := r.retry.Do(ctx, "spend by buyer", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Model(&models.Tender{}).
			Select("buyer, COALESCE(SUM(budget), 0) AS total_spend, COUNT(*) AS tenders").
			Group("buyer").
			Order("total_spend DESC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spend: %w", err)
	}
	return rows, nil
}
