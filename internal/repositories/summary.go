package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

const (
	SummaryCollection   = "summaries"
	ReadinessCollection = "readiness_results"
	NoteCollection      = "workspace_notes"
)

type SummaryRepository interface {
	Save(ctx context.Context, summary *models.TenderSummary) error
	FindByTenderID(ctx context.Context, tenderID string) (*models.TenderSummary, error)
	FindByTenderIDs(ctx context.Context, tenderIDs []string) (map[string]models.TenderSummary, error)
}

type summaryRepository struct {
	coll  *mongo.Collection
	retry *Retrier
}

func NewSummaryRepository(db *mongo.Database, retry *Retrier) SummaryRepository {
	return &summaryRepository{coll: db.Collection(SummaryCollection), retry: retry}
}

// EnsureIndexes creates the unique tender_id indexes the document collections rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "tender_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	for _, name := range []string{SummaryCollection, ReadinessCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, unique); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}

	notes := mongo.IndexModel{
		Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "tender_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := db.Collection(NoteCollection).Indexes().CreateOne(ctx, notes); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", NoteCollection, err)
	}

	return nil
}

// Save inserts the tender's summary. Summaries are write-once.
func (r *summaryRepository) Save(ctx context.Context, summary *models.TenderSummary) error {
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}

	err := r.retry.Do(ctx, "save summary", func(ctx context.Context) error {
		_, err := r.coll.InsertOne(ctx, summary)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("summary for tender %s: %w", summary.TenderID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

// FindByTenderID implements SummaryRepository.
func (r *summaryRepository) FindByTenderID(ctx context.Context, tenderID string) (*models.TenderSummary, error) {
	var summary models.TenderSummary
	err := r.retry.Do(ctx, "find summary", func(ctx context.Context) error {
		return r.coll.FindOne(ctx, bson.M{"tender_id": tenderID}).Decode(&summary)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("summary for tender %s: %w", tenderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find summary: %w", err)
	}

	return &summary, nil
}

// FindByTenderIDs returns the summaries that exist for the given tenders, keyed by tender id.
func (r *summaryRepository) FindByTenderIDs(ctx context.Context, tenderIDs []string) (map[string]models.TenderSummary, error) {
	result := make(map[string]models.TenderSummary, len(tenderIDs))
	if len(tenderIDs) == 0 {
		return result, nil
	}

	opts := options.Find().SetProjection(bson.M{"text": 0})

	err := r.retry.Do(ctx, "find summaries", func(ctx context.Context) error {
		cursor, err := r.coll.Find(ctx, bson.M{"tender_id": bson.M{"$in": tenderIDs}}, opts)
		if err != nil {
			return err
		}

		var summaries []models.TenderSummary
		if err := cursor.All(ctx, &summaries); err != nil {
			return err
		}
		for _, s := range summaries {
			result[s.TenderID] = s
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find summaries: %w", err)
	}

	return result, nil
}
