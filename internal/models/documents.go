package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Summary tiers reported by the summarizer.
const (
	SummaryMethodModel      = "model"
	SummaryMethodExtractive = "extractive"
	SummaryMethodTruncation = "truncation"
	SummaryMethodEmpty      = "empty"
)

// TenderSummary lives in the summaries collection, one per tender.
type TenderSummary struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TenderID  string             `bson:"tender_id" json:"tender_id"`
	Title     string             `bson:"title" json:"title"`
	Text      string             `bson:"text" json:"-"`
	Summary   string             `bson:"summary" json:"summary"`
	Method    string             `bson:"method" json:"method"`
	Model     string             `bson:"model,omitempty" json:"model,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ReadinessResult is recomputed on every check and replaces the previous one for the tender.
type ReadinessResult struct {
	TenderID       string          `bson:"tender_id" json:"tender_id"`
	Score          int             `bson:"score" json:"score"`
	Checklist      map[string]bool `bson:"checklist" json:"checklist"`
	Recommendation string          `bson:"recommendation" json:"recommendation"`
	Profile        CompanyProfile  `bson:"profile" json:"-"`
	CheckedAt      time.Time       `bson:"checked_at" json:"checked_at"`
}

// WorkspaceNote is a free-form note or activity entry on a tender, scoped to a team.
type WorkspaceNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID    string             `bson:"team_id" json:"team_id"`
	TenderID  string             `bson:"tender_id" json:"tender_id"`
	Author    string             `bson:"author" json:"author"`
	Kind      string             `bson:"kind" json:"kind"`
	Body      string             `bson:"body" json:"body"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

const (
	NoteKindComment      = "comment"
	NoteKindStatusChange = "status_change"
)
