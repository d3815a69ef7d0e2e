package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Tender struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Buyer       string         `gorm:"type:text" json:"buyer,omitempty"`
	Province    string         `gorm:"type:text;index" json:"province,omitempty"`
	Budget      *float64       `json:"budget,omitempty"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	FileName    string         `gorm:"type:text" json:"file_name"`
	ContentHash string         `gorm:"type:text;index" json:"content_hash"`
	PageCount   int            `json:"page_count"`
	ArchiveURL  string         `gorm:"type:text" json:"archive_url,omitempty"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	UploadedBy  *uuid.UUID     `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"uploaded_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Tender) TableName() string {
	return "tenders"
}

func (t *Tender) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TenderMetadata is the shape stored in Tender.Metadata.
type TenderMetadata struct {
	PagesRead      int    `json:"pages_read"`
	PagesSkipped   int    `json:"pages_skipped"`
	TextLength     int    `json:"text_length"`
	SummaryMethod  string `json:"summary_method"`
	SummaryModel   string `json:"summary_model,omitempty"`
	OriginalSizeKB int64  `json:"original_size_kb"`
}
