package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tenderhub/insight-api/internal/models"
)

type NoteRepository interface {
	Add(ctx context.Context, note *models.WorkspaceNote) error
	List(ctx context.Context, teamID, tenderID string) ([]models.WorkspaceNote, error)
}

type noteRepository struct {
	coll  *mongo.Collection
	retry *Retrier
}

func NewNoteRepository(db *mongo.Database, retry *Retrier) NoteRepository {
	return &noteRepository{coll: db.Collection(NoteCollection), retry: retry}
}

// Add implements NoteRepository.
func (r *noteRepository) Add(ctx context.Context, note *models.WorkspaceNote) error {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	err := r.retry.Do(ctx, "add note", func(ctx context.Context) error {
		_, err := r.coll.InsertOne(ctx, note)
		if mongo.IsDuplicateKeyError(err) {
			// an earlier attempt landed before the connection dropped
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	return nil
}

// List returns the team's notes on a tender, newest first.
func (r *noteRepository) List(ctx context.Context, teamID, tenderID string) ([]models.WorkspaceNote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var notes []models.WorkspaceNote
	err := r.retry.Do(ctx, "list notes", func(ctx context.Context) error {
		cursor, err := r.coll.Find(ctx, bson.M{"team_id": teamID, "tender_id": tenderID}, opts)
		if err != nil {
			return err
		}
		notes = notes[:0]
		return cursor.All(ctx, &notes)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}
