package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

type ReadinessRepository interface {
	Upsert(ctx context.Context, result *models.ReadinessResult) error
	FindByTenderID(ctx context.Context, tenderID string) (*models.ReadinessResult, error)
	FindByTenderIDs(ctx context.Context, tenderIDs []string) (map[string]models.ReadinessResult, error)
}

type readinessRepository struct {
	coll  *mongo.Collection
	retry *Retrier
}

func NewReadinessRepository(db *mongo.Database, retry *Retrier) ReadinessRepository {
	return &readinessRepository{coll: db.Collection(ReadinessCollection), retry: retry}
}

// Upsert replaces the stored result for the tender. Concurrent checks are last-writer-wins.
func (r *readinessRepository) Upsert(ctx context.Context, result *models.ReadinessResult) error {
	opts := options.Replace().SetUpsert(true)

	err := r.retry.Do(ctx, "save readiness", func(ctx context.Context) error {
		_, err := r.coll.ReplaceOne(ctx, bson.M{"tender_id": result.TenderID}, result, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save readiness result: %w", err)
	}
	return nil
}

// FindByTenderID implements ReadinessRepository.
func (r *readinessRepository) FindByTenderID(ctx context.Context, tenderID string) (*models.ReadinessResult, error) {
	var result models.ReadinessResult
	err := r.retry.Do(ctx, "find readiness", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.M{"tender_id": tenderID}).Decode(&result)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("readiness result for tender %s: %w", tenderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find readiness result: %w", err)
	}

	return &result, nil
}

// FindByTenderIDs implements ReadinessRepository.
func (r *readinessRepository) FindByTenderIDs(ctx context.Context, tenderIDs []string) (map[string]models.ReadinessResult, error) {
	out := make(map[string]models.ReadinessResult, len(tenderIDs))
	if len(tenderIDs) == 0 {
		return out, nil
	}

	err := r.retry.Do(ctx, "find readiness results", func(ctx context.Context) error {
		cursor, err := r.coll.Find(ctx, bson.M{"tender_id": bson.M{"$in": tenderIDs}})
		if err != nil {
			return err
		}

		var results []models.ReadinessResult
		if err := cursor.All(ctx, &results); err != nil {
			return err
		}
		for _, res := range results {
			out[res.TenderID] = res
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find readiness results: %w", err)
	}

	return out, nil
}
