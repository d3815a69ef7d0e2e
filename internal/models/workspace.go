package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceStatus string

const (
	StatusPending     WorkspaceStatus = "Pending Status"
	StatusInterested  WorkspaceStatus = "Interested"
	StatusNotEligible WorkspaceStatus = "Not Eligible"
	StatusSubmitted   WorkspaceStatus = "Submitted"
)

func (s WorkspaceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInterested, StatusNotEligible, StatusSubmitted:
		return true
	}
	return false
}

// WorkspaceRecord tracks one team's progress on one tender.
type WorkspaceRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_team_tender" json:"team_id"`
	TenderID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_team_tender" json:"tender_id"`
	Status    WorkspaceStatus `gorm:"type:text;not null" json:"status"`
	UpdatedBy string          `gorm:"type:text" json:"updated_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Tender Tender `gorm:"foreignKey:TenderID" json:"-"`
}

func (WorkspaceRecord) TableName() string {
	return "workspace_records"
}

func (w *WorkspaceRecord) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
