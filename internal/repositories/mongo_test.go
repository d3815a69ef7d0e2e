package repositories

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

// testMongoDB connects to MONGO_TEST_URL and returns a throwaway database.
func testMongoDB(t *testing.T) *mongo.Database {
	t.Helper()

	url := os.Getenv("MONGO_TEST_URL")
	if url == "" {
		t.Skip("MONGO_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("tenderhub_test_" + uuid.NewString()[:8])
	require.NoError(t, EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestSummaryRepositoryMongo(t *testing.T) {
	db := testMongoDB(t)
	repo := NewSummaryRepository(db, NoRetry())
	ctx := context.Background()

	summary := &models.TenderSummary{TenderID: "t-1", Title: "Roads", Text: "full text", Summary: "short", Method: models.SummaryMethodModel}
	require.NoError(t, repo.Save(ctx, summary))

	err := repo.Save(ctx, &models.TenderSummary{TenderID: "t-1", Summary: "again"})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	found, err := repo.FindByTenderID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "short", found.Summary)

	_, err = repo.FindByTenderID(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	many, err := repo.FindByTenderIDs(ctx, []string{"t-1", "missing"})
	require.NoError(t, err)
	assert.Len(t, many, 1)
	assert.Empty(t, many["t-1"].Text)
}

func TestReadinessRepositoryMongoUpsertReplaces(t *testing.T) {
	db := testMongoDB(t)
	repo := NewReadinessRepository(db, NoRetry())
	ctx := context.Background()

	first := &models.ReadinessResult{TenderID: "t-1", Score: 10, Checklist: map[string]bool{"a": false}, Recommendation: "Not Suitable"}
	second := &models.ReadinessResult{TenderID: "t-1", Score: 80, Checklist: map[string]bool{"a": true}, Recommendation: "Suitable"}
	require.NoError(t, repo.Upsert(ctx, first))
	require.NoError(t, repo.Upsert(ctx, second))

	count, err := db.Collection(ReadinessCollection).CountDocuments(ctx, map[string]string{"tender_id": "t-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByTenderID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 80, found.Score)
}

func TestNoteRepositoryMongo(t *testing.T) {
	db := testMongoDB(t)
	repo := NewNoteRepository(db, NoRetry())
	ctx := context.Background()

	older := &models.WorkspaceNote{TeamID: "team", TenderID: "t-1", Body: "first", CreatedAt: time.Now().UTC().Add(-time.Minute)}
	newer := &models.WorkspaceNote{TeamID: "team", TenderID: "t-1", Body: "second"}
	require.NoError(t, repo.Add(ctx, older))
	require.NoError(t, repo.Add(ctx, newer))
	require.NoError(t, repo.Add(ctx, &models.WorkspaceNote{TeamID: "other", TenderID: "t-1", Body: "hidden"}))

	notes, err := repo.List(ctx, "team", "t-1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Body)
}
