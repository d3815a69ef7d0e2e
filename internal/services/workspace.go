package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/logger"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
)

const maxNoteLength = 4000

// WorkspaceService tracks a team's progress on tenders.
type WorkspaceService interface {
	List(ctx context.Context, teamID uuid.UUID, status models.WorkspaceStatus) ([]models.WorkspaceItem, error)
	UpdateStatus(ctx context.Context, who *Principal, tenderID uuid.UUID, status models.WorkspaceStatus) (*models.WorkspaceRecord, error)
	AddNote(ctx context.Context, who *Principal, tenderID uuid.UUID, body string) (*models.WorkspaceNote, error)
	Notes(ctx context.Context, teamID, tenderID uuid.UUID) ([]models.WorkspaceNote, error)
}

type workspaceService struct {
	tenders   repositories.TenderRepository
	records   repositories.WorkspaceRepository
	summaries repositories.SummaryRepository
	results   repositories.ReadinessRepository
	notes     repositories.NoteRepository
	log       *zap.Logger
}

func NewWorkspaceService(
	tenders repositories.TenderRepository,
	records repositories.WorkspaceRepository,
	summaries repositories.SummaryRepository,
	results repositories.ReadinessRepository,
	notes repositories.NoteRepository,
	log *zap.Logger,
) WorkspaceService {
	return &workspaceService{
		tenders:   tenders,
		records:   records,
		summaries: summaries,
		results:   results,
		notes:     notes,
		log:       logger.OrNop(log),
	}
}

// List returns the team's tracked tenders, best readiness score first.
func (s *workspaceService) List(ctx context.Context, teamID uuid.UUID, status models.WorkspaceStatus) ([]models.WorkspaceItem, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, apperrors.ErrInvalidInput)
	}

	records, err := s.records.ListByTeam(ctx, teamID, status)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.TenderID.String()
	}

	summaries, err := s.summaries.FindByTenderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	results, err := s.results.FindByTenderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.WorkspaceItem, 0, len(records))
	for _, r := range records {
		id := r.TenderID.String()
		item := models.WorkspaceItem{
			TenderID:  id,
			Title:     r.Tender.Title,
			Deadline:  r.Tender.Deadline,
			Summary:   NoSummaryAvailable,
			Status:    r.Status,
			UpdatedBy: r.UpdatedBy,
		}
		if summary, ok := summaries[id]; ok {
			item.Summary = summary.Summary
		}
		if result, ok := results[id]; ok {
			score := result.Score
			item.Score = &score
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return scoreOf(items[i]) > scoreOf(items[j])
	})
	return items, nil
}

func scoreOf(item models.WorkspaceItem) int {
	if item.Score == nil {
		return -1
	}
	return *item.Score
}

// UpdateStatus moves the tender to a new status for the caller's team and logs the change.
func (s *workspaceService) UpdateStatus(ctx context.Context, who *Principal, tenderID uuid.UUID, status models.WorkspaceStatus) (*models.WorkspaceRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, apperrors.ErrInvalidInput)
	}

	if _, err := s.tenders.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}

	record := &models.WorkspaceRecord{
		TeamID:    who.TeamID,
		TenderID:  tenderID,
		Status:    status,
		UpdatedBy: who.Email,
	}
	if err := s.records.UpsertStatus(ctx, record); err != nil {
		return nil, err
	}

	activity := &models.WorkspaceNote{
		TeamID:   who.TeamID.String(),
		TenderID: tenderID.String(),
		Author:   who.Email,
		Kind:     models.NoteKindStatusChange,
		Body:     fmt.Sprintf("Status changed to %s", status),
	}
	if err := s.notes.Add(ctx, activity); err != nil {
		s.log.Warn("failed to record status change", zap.String("tender_id", tenderID.String()), zap.Error(err))
	}

	return record, nil
}

// AddNote implements WorkspaceService.
func (s *workspaceService) AddNote(ctx context.Context, who *Principal, tenderID uuid.UUID, body string) (*models.WorkspaceNote, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("note is empty: %w", apperrors.ErrInvalidInput)
	}
	if len(body) > maxNoteLength {
		return nil, fmt.Errorf("note is longer than %d characters: %w", maxNoteLength, apperrors.ErrInvalidInput)
	}

	if _, err := s.tenders.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}

	note := &models.WorkspaceNote{
		TeamID:   who.TeamID.String(),
		TenderID: tenderID.String(),
		Author:   who.Email,
		Kind:     models.NoteKindComment,
		Body:     body,
	}
	if err := s.notes.Add(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Notes implements WorkspaceService.
func (s *workspaceService) Notes(ctx context.Context, teamID, tenderID uuid.UUID) ([]models.WorkspaceNote, error) {
	notes, err := s.notes.List(ctx, teamID.String(), tenderID.String())
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.WorkspaceNote{}
	}
	return notes, nil
}
