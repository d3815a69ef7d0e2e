package services

import (
	"context"

	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
)

type AnalyticsService interface {
	SpendByBuyer(ctx context.Context) ([]models.BuyerSpend, error)
	EnrichedReleases(ctx context.Context) ([]models.EnrichedRelease, error)
}

type analyticsService struct {
	tenders   repositories.TenderRepository
	summaries repositories.SummaryRepository
	results   repositories.ReadinessRepository
}

func NewAnalyticsService(
	tenders repositories.TenderRepository,
	summaries repositories.SummaryRepository,
	results repositories.ReadinessRepository,
) AnalyticsService {
	return &analyticsService{tenders: tenders, summaries: summaries, results: results}
}

func (s *analyticsService) SpendByBuyer(ctx context.Context) ([]models.BuyerSpend, error) {
	rows, err := s.tenders.SpendByBuyer(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.BuyerSpend{}
	}
	return rows, nil
}

// EnrichedReleases pairs every tender with its summary and last readiness score
// (empty and 0 when missing).
func (s *analyticsService) EnrichedReleases(ctx context.Context) ([]models.EnrichedRelease, error) {
	tenders, err := s.tenders.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(tenders))
	for i, t := range tenders {
		ids[i] = t.ID.String()
	}

	summaries, err := s.summaries.FindByTenderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	results, err := s.results.FindByTenderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.EnrichedRelease, 0, len(tenders))
	for _, t := range tenders {
		id := t.ID.String()
		out = append(out, models.EnrichedRelease{
			Metadata: t,
			Summary:  summaries[id].Summary,
			Score:    results[id].Score,
		})
	}
	return out, nil
}
