package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
	"tenderhub/insight-api/internal/testhelpers"
)

type workspaceFixture struct {
	tenders   repositories.TenderRepository
	summaries *testhelpers.SummaryStore
	results   *testhelpers.ReadinessStore
	notes     *testhelpers.NoteStore
	service   WorkspaceService
	who       *Principal
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	f := &workspaceFixture{
		tenders:   repositories.NewTenderRepository(db, repositories.NoRetry()),
		summaries: testhelpers.NewSummaryStore(),
		results:   testhelpers.NewReadinessStore(),
		notes:     testhelpers.NewNoteStore(),
		who:       &Principal{UserID: uuid.New(), TeamID: uuid.New(), Email: "ana@acme.co.za", Plan: models.PlanBasic},
	}
	f.service = NewWorkspaceService(f.tenders, repositories.NewWorkspaceRepository(db, repositories.NoRetry()),
		f.summaries, f.results, f.notes, nil)
	return f
}

func (f *workspaceFixture) tender(t *testing.T, title string, score *int) uuid.UUID {
	t.Helper()
	tender := &models.Tender{Title: title}
	require.NoError(t, f.tenders.Create(context.Background(), tender))
	if score != nil {
		require.NoError(t, f.results.Upsert(context.Background(), &models.ReadinessResult{TenderID: tender.ID.String(), Score: *score}))
	}
	return tender.ID
}

func intPtr(v int) *int { return &v }

func TestWorkspaceListSortedByScore(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	low := f.tender(t, "low", intPtr(20))
	high := f.tender(t, "high", intPtr(90))
	unscored := f.tender(t, "unscored", nil)

	for _, id := range []uuid.UUID{low, unscored, high} {
		_, err := f.service.UpdateStatus(ctx, f.who, id, models.StatusInterested)
		require.NoError(t, err)
	}

	items, err := f.service.List(ctx, f.who.TeamID, "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "high", items[0].Title)
	assert.Equal(t, "low", items[1].Title)
	assert.Equal(t, "unscored", items[2].Title)
	assert.Nil(t, items[2].Score)
	assert.Equal(t, NoSummaryAvailable, items[0].Summary)
	assert.Equal(t, "ana@acme.co.za", items[0].UpdatedBy)
}

func TestWorkspaceStatusFilterAndValidation(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	a := f.tender(t, "a", nil)
	b := f.tender(t, "b", nil)
	_, err := f.service.UpdateStatus(ctx, f.who, a, models.StatusSubmitted)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, f.who, b, models.StatusNotEligible)
	require.NoError(t, err)

	items, err := f.service.List(ctx, f.who.TeamID, models.StatusSubmitted)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.String(), items[0].TenderID)

	_, err = f.service.List(ctx, f.who.TeamID, "Archived")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = f.service.UpdateStatus(ctx, f.who, a, "Won")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = f.service.UpdateStatus(ctx, f.who, uuid.New(), models.StatusInterested)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestWorkspaceNotes(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	id := f.tender(t, "a", nil)

	_, err := f.service.UpdateStatus(ctx, f.who, id, models.StatusInterested)
	require.NoError(t, err)
	note, err := f.service.AddNote(ctx, f.who, id, "  Site visit booked  ")
	require.NoError(t, err)
	assert.Equal(t, "Site visit booked", note.Body)

	notes, err := f.service.Notes(ctx, f.who.TeamID, id)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	kinds := []string{notes[0].Kind, notes[1].Kind}
	assert.ElementsMatch(t, []string{models.NoteKindComment, models.NoteKindStatusChange}, kinds)

	_, err = f.service.AddNote(ctx, f.who, id, "   ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	empty, err := f.service.Notes(ctx, uuid.New(), id)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
