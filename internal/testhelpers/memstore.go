package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
)

// SummaryStore is an in-memory stand-in for the Mongo summary repository.
type SummaryStore struct {
	mu      sync.Mutex
	byID    map[string]models.TenderSummary
	SaveErr error
}

func NewSummaryStore() *SummaryStore {
	return &SummaryStore{byID: make(map[string]models.TenderSummary)}
}

func (s *SummaryStore) Save(_ context.Context, summary *models.TenderSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	if _, ok := s.byID[summary.TenderID]; ok {
		return fmt.Errorf("summary for tender %s: %w", summary.TenderID, apperrors.ErrConflict)
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}
	s.byID[summary.TenderID] = *summary
	return nil
}

func (s *SummaryStore) FindByTenderID(_ context.Context, tenderID string) (*models.TenderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.byID[tenderID]
	if !ok {
		return nil, fmt.Errorf("summary for tender %s: %w", tenderID, apperrors.ErrNotFound)
	}
	return &summary, nil
}

func (s *SummaryStore) FindByTenderIDs(_ context.Context, tenderIDs []string) (map[string]models.TenderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.TenderSummary)
	for _, id := range tenderIDs {
		if summary, ok := s.byID[id]; ok {
			out[id] = summary
		}
	}
	return out, nil
}

func (s *SummaryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// ReadinessStore is an in-memory stand-in for the Mongo readiness repository.
type ReadinessStore struct {
	mu      sync.Mutex
	byID    map[string]models.ReadinessResult
	Upserts int
}

func NewReadinessStore() *ReadinessStore {
	return &ReadinessStore{byID: make(map[string]models.ReadinessResult)}
}

func (s *ReadinessStore) Upsert(_ context.Context, result *models.ReadinessResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[result.TenderID] = *result
	s.Upserts++
	return nil
}

func (s *ReadinessStore) FindByTenderID(_ context.Context, tenderID string) (*models.ReadinessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.byID[tenderID]
	if !ok {
		return nil, fmt.Errorf("readiness result for tender %s: %w", tenderID, apperrors.ErrNotFound)
	}
	return &result, nil
}

func (s *ReadinessStore) FindByTenderIDs(_ context.Context, tenderIDs []string) (map[string]models.ReadinessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.ReadinessResult)
	for _, id := range tenderIDs {
		if result, ok := s.byID[id]; ok {
			out[id] = result
		}
	}
	return out, nil
}

func (s *ReadinessStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// NoteStore is an in-memory stand-in for the Mongo note repository.
type NoteStore struct {
	mu    sync.Mutex
	notes []models.WorkspaceNote
}

func NewNoteStore() *NoteStore {
	return &NoteStore{}
}

func (s *NoteStore) Add(_ context.Context, note *models.WorkspaceNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	s.notes = append(s.notes, *note)
	return nil
}

func (s *NoteStore) List(_ context.Context, teamID, tenderID string) ([]models.WorkspaceNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.WorkspaceNote
	for _, n := range s.notes {
		if n.TeamID == teamID && n.TenderID == tenderID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
