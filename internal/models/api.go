package models

import "time"

type UploadResponse struct {
	TenderID  string `json:"tender_id"`
	Summary   string `json:"summary"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

type TenderListItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Buyer      string     `json:"buyer,omitempty"`
	Province   string     `json:"province,omitempty"`
	Budget     *float64   `json:"budget,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
	Summary    string     `json:"summary"`
}

type SummaryResponse struct {
	TenderID string `json:"tender_id"`
	Summary  string `json:"summary"`
}

type ReadinessRequest struct {
	TenderID string          `json:"tender_id"`
	Profile  *CompanyProfile `json:"profile,omitempty"`
}

type ReadinessResponse struct {
	Score          int             `json:"score"`
	Checklist      map[string]bool `json:"checklist"`
	Recommendation string          `json:"recommendation"`
}

type StatsResponse struct {
	TotalTenders  int64 `json:"total_tenders"`
	RecentTenders int64 `json:"recent_tenders"`
}

type SearchRequest struct {
	Keywords string `json:"keywords"`
	Limit    int    `json:"limit,omitempty"`
}

type SearchHit struct {
	TenderID string  `json:"tender_id"`
	Title    string  `json:"title"`
	Summary  string  `json:"summary,omitempty"`
	Score    float32 `json:"score"`
	Source   string  `json:"source"`
}

type WorkspaceItem struct {
	TenderID  string          `json:"tender_id"`
	Title     string          `json:"title"`
	Deadline  *time.Time      `json:"deadline,omitempty"`
	Summary   string          `json:"summary"`
	Score     *int            `json:"score,omitempty"`
	Status    WorkspaceStatus `json:"status"`
	UpdatedBy string          `json:"updated_by,omitempty"`
}

type StatusUpdateRequest struct {
	Status WorkspaceStatus `json:"status"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TeamName string `json:"team_name"`
	Plan     Plan   `json:"plan"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type HealthResponse struct {
	Status      string            `json:"status"`
	ModelLoaded bool              `json:"model_loaded"`
	Model       string            `json:"model"`
	Stores      map[string]string `json:"stores"`
	Time        time.Time         `json:"time"`
}

// OCDSRelease is the trimmed view of an open-contracting release served by /ocds/releases.
type OCDSRelease struct {
	OCID        string   `json:"ocid"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Buyer       string   `json:"buyer"`
	Province    string   `json:"province,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	CloseDate   string   `json:"close_date,omitempty"`
	Status      string   `json:"status,omitempty"`
}

type BuyerSpend struct {
	Buyer      string  `json:"buyer"`
	TotalSpend float64 `json:"total_spend"`
	Tenders    int64   `json:"tenders"`
}

// EnrichedRelease joins a tender's metadata with its summary and latest readiness score.
type EnrichedRelease struct {
	Metadata Tender `json:"metadata"`
	Summary  string `json:"summary"`
	Score    int    `json:"score"`
}
