package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/logger"
	"tenderhub/insight-api/internal/models"
)

const (
	defaultOCDSLimit = 20
	maxOCDSLimit     = 100
)

// OCDSService lists open-contracting releases from a public feed.
type OCDSService interface {
	Releases(ctx context.Context, keyword string, limit int) ([]models.OCDSRelease, error)
}

type ocdsPackage struct {
	Releases []ocdsRelease `json:"releases"`
}

type ocdsRelease struct {
	OCID  string `json:"ocid"`
	Buyer struct {
		Name string `json:"name"`
	} `json:"buyer"`
	Tender struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Province    string `json:"province"`
		Value       struct {
			Amount   *float64 `json:"amount"`
			Currency string   `json:"currency"`
		} `json:"value"`
		TenderPeriod struct {
			EndDate string `json:"endDate"`
		} `json:"tenderPeriod"`
	} `json:"tender"`
}

type ocdsService struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

// NewOCDSService reads releases from baseURL. With an empty base URL it serves
// a small built-in sample so the endpoint works in development.
func NewOCDSService(baseURL string, timeout time.Duration, log *zap.Logger) OCDSService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ocdsService{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSpace(baseURL),
		log:     logger.OrNop(log),
	}
}

func (s *ocdsService) Releases(ctx context.Context, keyword string, limit int) ([]models.OCDSRelease, error) {
	if limit <= 0 {
		limit = defaultOCDSLimit
	}
	if limit > maxOCDSLimit {
		limit = maxOCDSLimit
	}

	var releases []models.OCDSRelease
	if s.baseURL == "" {
		releases = sampleReleases()
	} else {
		pageSize := limit
		if strings.TrimSpace(keyword) != "" {
			// Filtering happens locally, so read a full page before trimming.
			pageSize = maxOCDSLimit
		}
		fetched, err := s.fetch(ctx, pageSize)
		if err != nil {
			return nil, err
		}
		releases = fetched
	}

	filtered := filterReleases(releases, keyword)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (s *ocdsService) fetch(ctx context.Context, limit int) ([]models.OCDSRelease, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid OCDS base URL: %w", err)
	}
	q := u.Query()
	q.Set("PageSize", strconv.Itoa(limit))
	q.Set("PageNumber", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build OCDS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.log.Debug("calling OCDS feed", zap.String("url", u.String()))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCDS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCDS response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("OCDS upstream error: %s: %s", resp.Status, logger.TruncateForLog(string(body), 200))
	}

	var pkg ocdsPackage
	if err := json.Unmarshal(body, &pkg); err != nil {
		return nil, fmt.Errorf("failed to decode OCDS response: %w", err)
	}

	out := make([]models.OCDSRelease, 0, len(pkg.Releases))
	for _, r := range pkg.Releases {
		out = append(out, models.OCDSRelease{
			OCID:        r.OCID,
			Title:       flattenHTML(r.Tender.Title),
			Description: flattenHTML(r.Tender.Description),
			Buyer:       r.Buyer.Name,
			Province:    r.Tender.Province,
			Amount:      r.Tender.Value.Amount,
			Currency:    r.Tender.Value.Currency,
			CloseDate:   r.Tender.TenderPeriod.EndDate,
			Status:      r.Tender.Status,
		})
	}
	return out, nil
}

// flattenHTML strips markup some publishers embed in tender text.
func flattenHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return Clean(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return Clean(s)
	}
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, li, div").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return Clean(strings.ReplaceAll(doc.Text(), "\u00a0", " "))
}

// filterReleases keeps releases whose title or description mentions any keyword.
func filterReleases(releases []models.OCDSRelease, keyword string) []models.OCDSRelease {
	terms := strings.Fields(strings.ToLower(keyword))
	if len(terms) == 0 {
		return releases
	}

	out := make([]models.OCDSRelease, 0, len(releases))
	for _, r := range releases {
		haystack := strings.ToLower(r.Title + " " + r.Description)
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func sampleReleases() []models.OCDSRelease {
	roads, security := 1000000.0, 500000.0
	return []models.OCDSRelease{
		{
			OCID:        "ocds-sample-0001",
			Title:       "Road Construction",
			Description: "Build roads in Gauteng",
			Buyer:       "Dept of Transport",
			Province:    "Gauteng",
			Amount:      &roads,
			Currency:    "ZAR",
			CloseDate:   "2025-12-31",
			Status:      "active",
		},
		{
			OCID:        "ocds-sample-0002",
			Title:       "Security Services",
			Description: "Provide security in Western Cape",
			Buyer:       "Dept of Safety",
			Province:    "Western Cape",
			Amount:      &security,
			Currency:    "ZAR",
			CloseDate:   "2025-11-15",
			Status:      "active",
		},
	}
}
