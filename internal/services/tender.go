package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/logger"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
)

const (
	NoSummaryAvailable = "No summary available"

	maxStoredTextChars = 20000
	defaultSearchLimit = 20
)

type IngestRequest struct {
	FileName   string
	Data       []byte
	Title      string
	Buyer      string
	Province   string
	Budget     *float64
	Deadline   *time.Time
	UploadedBy *uuid.UUID
}

type IngestResult struct {
	Tender    *models.Tender
	Summary   Summary
	Duplicate bool
}

type TenderService interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
	List(ctx context.Context, limit, offset int) ([]models.TenderListItem, error)
	Summary(ctx context.Context, tenderID uuid.UUID) (*models.SummaryResponse, error)
	Stats(ctx context.Context, now time.Time) (*models.StatsResponse, error)
	Search(ctx context.Context, keywords string, limit int) ([]models.SearchHit, error)
}

type TenderServiceOptions struct {
	DedupeUploads bool
}

type tenderService struct {
	tenders    repositories.TenderRepository
	summaries  repositories.SummaryRepository
	extractor  PDFExtractor
	summarizer Summarizer
	archive    ArchiveService
	index      SearchIndex
	opts       TenderServiceOptions
	log        *zap.Logger
}

// NewTenderService builds the upload pipeline. archive and index may be nil.
func NewTenderService(
	tenders repositories.TenderRepository,
	summaries repositories.SummaryRepository,
	extractor PDFExtractor,
	summarizer Summarizer,
	archive ArchiveService,
	index SearchIndex,
	opts TenderServiceOptions,
	log *zap.Logger,
) TenderService {
	return &tenderService{
		tenders:    tenders,
		summaries:  summaries,
		extractor:  extractor,
		summarizer: summarizer,
		archive:    archive,
		index:      index,
		opts:       opts,
		log:        logger.OrNop(log),
	}
}

// Ingest validates, extracts, summarizes and stores one uploaded tender PDF.
// The relational write decides success; later document-store, archive and
// index failures are logged and tolerated.
func (s *tenderService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if strings.ToLower(filepath.Ext(req.FileName)) != ".pdf" {
		return nil, fmt.Errorf("only PDF files are accepted: %w", apperrors.ErrInvalidInput)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("uploaded file is empty: %w", apperrors.ErrInvalidInput)
	}

	hash, err := ContentHash(req.Data)
	if err != nil {
		return nil, err
	}

	if s.opts.DedupeUploads {
		existing, err := s.findDuplicate(ctx, hash)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	content, err := s.extractor.Extract(req.Data)
	if err != nil {
		return nil, err
	}

	summary := s.summarizer.Summarize(ctx, content.Text)

	metadata, err := json.Marshal(models.TenderMetadata{
		PagesRead:      content.PagesRead,
		PagesSkipped:   content.PagesSkipped,
		TextLength:     len(content.Text),
		SummaryMethod:  summary.Method,
		SummaryModel:   summary.Model,
		OriginalSizeKB: int64(len(req.Data)) / 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tender metadata: %w", err)
	}

	tender := &models.Tender{
		ID:          uuid.New(),
		Title:       tenderTitle(req),
		Buyer:       strings.TrimSpace(req.Buyer),
		Province:    strings.TrimSpace(req.Province),
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		FileName:    filepath.Base(req.FileName),
		ContentHash: hash,
		PageCount:   content.PageCount,
		Metadata:    datatypes.JSON(metadata),
		UploadedBy:  req.UploadedBy,
	}

	if s.archive != nil && s.archive.Enabled() {
		archiveURL, err := s.archive.Save(ctx, tender.ID.String(), tender.FileName, req.Data)
		if err != nil {
			s.log.Warn("failed to archive upload", zap.String("tender_id", tender.ID.String()), zap.Error(err))
		}
		tender.ArchiveURL = archiveURL
	}

	if err := s.tenders.Create(ctx, tender); err != nil {
		s.discardArchive(ctx, tender)
		return nil, err
	}

	stored := &models.TenderSummary{
		TenderID: tender.ID.String(),
		Title:    tender.Title,
		Text:     truncateText(content.Text, maxStoredTextChars),
		Summary:  summary.Text,
		Method:   summary.Method,
		Model:    summary.Model,
	}
	if err := s.summaries.Save(ctx, stored); err != nil {
		s.log.Error("tender stored without summary",
			zap.String("tender_id", tender.ID.String()),
			zap.Error(err),
		)
	}

	if s.index != nil {
		if err := s.index.Index(ctx, tender.ID.String(), tender.Title, summary.Text); err != nil {
			s.log.Warn("failed to index summary", zap.String("tender_id", tender.ID.String()), zap.Error(err))
		}
	}

	s.log.Info("tender ingested",
		zap.String("tender_id", tender.ID.String()),
		zap.String("file", tender.FileName),
		zap.Int("pages", content.PageCount),
		zap.String("summary_method", summary.Method),
	)

	return &IngestResult{Tender: tender, Summary: summary}, nil
}

// discardArchive removes an archived upload whose tender row was never written.
func (s *tenderService) discardArchive(ctx context.Context, tender *models.Tender) {
	if s.archive == nil || tender.ArchiveURL == "" {
		return
	}
	if err := s.archive.Delete(ctx, tender.ArchiveURL); err != nil {
		s.log.Warn("failed to remove orphaned archive",
			zap.String("tender_id", tender.ID.String()),
			zap.String("archive_url", tender.ArchiveURL),
			zap.Error(err),
		)
	}
}

func (s *tenderService) findDuplicate(ctx context.Context, hash string) (*IngestResult, error) {
	tender, err := s.tenders.FindByContentHash(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	result := &IngestResult{
		Tender:    tender,
		Summary:   Summary{Text: NoSummaryAvailable},
		Duplicate: true,
	}

	stored, err := s.summaries.FindByTenderID(ctx, tender.ID.String())
	switch {
	case err == nil:
		result.Summary = Summary{Text: stored.Summary, Method: stored.Method, Model: stored.Model}
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	s.log.Info("duplicate upload", zap.String("tender_id", tender.ID.String()))
	return result, nil
}

// List implements TenderService.
func (s *tenderService) List(ctx context.Context, limit, offset int) ([]models.TenderListItem, error) {
	tenders, err := s.tenders.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.withSummaries(ctx, tenders)
}

func (s *tenderService) withSummaries(ctx context.Context, tenders []models.Tender) ([]models.TenderListItem, error) {
	ids := make([]string, len(tenders))
	for i, t := range tenders {
		ids[i] = t.ID.String()
	}

	summaries, err := s.summaries.FindByTenderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.TenderListItem, 0, len(tenders))
	for _, t := range tenders {
		summary := NoSummaryAvailable
		if stored, ok := summaries[t.ID.String()]; ok {
			summary = stored.Summary
		}
		items = append(items, models.TenderListItem{
			ID:         t.ID.String(),
			Title:      t.Title,
			Buyer:      t.Buyer,
			Province:   t.Province,
			Budget:     t.Budget,
			Deadline:   t.Deadline,
			UploadedAt: t.CreatedAt,
			Summary:    summary,
		})
	}
	return items, nil
}

// Summary implements TenderService.
func (s *tenderService) Summary(ctx context.Context, tenderID uuid.UUID) (*models.SummaryResponse, error) {
	stored, err := s.summaries.FindByTenderID(ctx, tenderID.String())
	if err != nil {
		return nil, err
	}
	return &models.SummaryResponse{TenderID: stored.TenderID, Summary: stored.Summary}, nil
}

// Stats counts all tenders and those uploaded since the start of now's UTC day.
func (s *tenderService) Stats(ctx context.Context, now time.Time) (*models.StatsResponse, error) {
	total, err := s.tenders.Count(ctx)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	recent, err := s.tenders.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{TotalTenders: total, RecentTenders: recent}, nil
}

// Search matches keywords against tender fields and, when a search index is
// configured, adds semantic matches on the summaries.
func (s *tenderService) Search(ctx context.Context, keywords string, limit int) ([]models.SearchHit, error) {
	terms := strings.FieldsFunc(keywords, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(terms) == 0 {
		return nil, fmt.Errorf("keywords are required: %w", apperrors.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	tenders, err := s.tenders.Search(ctx, terms, limit)
	if err != nil {
		return nil, err
	}

	items, err := s.withSummaries(ctx, tenders)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(items))
	hits := make([]models.SearchHit, 0, len(items))
	for _, item := range items {
		seen[item.ID] = true
		hits = append(hits, models.SearchHit{
			TenderID: item.ID,
			Title:    item.Title,
			Summary:  item.Summary,
			Score:    1,
			Source:   "keyword",
		})
	}

	if s.index != nil {
		semantic, err := s.index.Search(ctx, strings.Join(terms, " "), limit)
		if err != nil {
			s.log.Warn("semantic search failed", zap.Error(err))
		}
		for _, r := range semantic {
			if r.TenderID == "" || seen[r.TenderID] {
				continue
			}
			seen[r.TenderID] = true
			hits = append(hits, models.SearchHit{
				TenderID: r.TenderID,
				Title:    r.Title,
				Summary:  r.Summary,
				Score:    r.Score,
				Source:   "semantic",
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func tenderTitle(req IngestRequest) string {
	if title := strings.TrimSpace(req.Title); title != "" {
		return title
	}
	base := filepath.Base(req.FileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
