package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/logger"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
)

// ReadinessGateway is the document-store boundary the readiness check depends on.
type ReadinessGateway interface {
	GetSummary(ctx context.Context, tenderID string) (string, bool, error)
	UpsertResult(ctx context.Context, result *models.ReadinessResult) error
}

type readinessGateway struct {
	summaries repositories.SummaryRepository
	results   repositories.ReadinessRepository
}

func NewReadinessGateway(summaries repositories.SummaryRepository, results repositories.ReadinessRepository) ReadinessGateway {
	return &readinessGateway{summaries: summaries, results: results}
}

func (g *readinessGateway) GetSummary(ctx context.Context, tenderID string) (string, bool, error) {
	summary, err := g.summaries.FindByTenderID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return summary.Summary, true, nil
}

func (g *readinessGateway) UpsertResult(ctx context.Context, result *models.ReadinessResult) error {
	return g.results.Upsert(ctx, result)
}

type ReadinessService interface {
	Check(ctx context.Context, tenderID uuid.UUID, profile models.CompanyProfile) (*models.ReadinessResult, error)
	Latest(ctx context.Context, tenderID uuid.UUID) (*models.ReadinessResult, error)
}

type readinessService struct {
	tenders repositories.TenderRepository
	gateway ReadinessGateway
	results repositories.ReadinessRepository
	engine  *ScoringEngine
	log     *zap.Logger
}

func NewReadinessService(
	tenders repositories.TenderRepository,
	gateway ReadinessGateway,
	results repositories.ReadinessRepository,
	engine *ScoringEngine,
	log *zap.Logger,
) ReadinessService {
	return &readinessService{
		tenders: tenders,
		gateway: gateway,
		results: results,
		engine:  engine,
		log:     logger.OrNop(log),
	}
}

// Check scores the profile against the tender's stored summary and replaces the
// tender's previous result. Re-running it with the same inputs stores the same result.
func (s *readinessService) Check(ctx context.Context, tenderID uuid.UUID, profile models.CompanyProfile) (*models.ReadinessResult, error) {
	tender, err := s.tenders.FindByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	summary, ok, err := s.gateway.GetSummary(ctx, tenderID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("summary for tender %s: %w", tenderID, apperrors.ErrNotFound)
	}

	result := s.engine.Score(summary, tender.Province, profile)
	result.TenderID = tenderID.String()

	if err := s.gateway.UpsertResult(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to store readiness result: %w", err)
	}

	s.log.Info("readiness checked",
		zap.String("tender_id", result.TenderID),
		zap.Int("score", result.Score),
		zap.String("recommendation", result.Recommendation),
	)

	return &result, nil
}

// Latest returns the last stored result for the tender.
func (s *readinessService) Latest(ctx context.Context, tenderID uuid.UUID) (*models.ReadinessResult, error) {
	return s.results.FindByTenderID(ctx, tenderID.String())
}
