package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyProfile is the attribute bag a readiness check scores against.
// It is persisted per user but can also be supplied inline with a check.
type CompanyProfile struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"-" bson:"-"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"-" bson:"-"`
	Sector          string    `gorm:"type:text" json:"sector" bson:"sector"`
	Services        string    `gorm:"type:text" json:"services" bson:"services"`
	Certifications  string    `gorm:"type:text" json:"certifications" bson:"certifications"`
	Coverage        string    `gorm:"type:text" json:"coverage" bson:"coverage"`
	YearsExperience int       `json:"years_experience" bson:"years_experience"`
	Contact         string    `gorm:"type:text" json:"contact" bson:"contact"`
	CreatedAt       time.Time `json:"-" bson:"-"`
	UpdatedAt       time.Time `json:"-" bson:"-"`
}

func (CompanyProfile) TableName() string {
	return "company_profiles"
}

func (p *CompanyProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MatchText is the profile side of the similarity comparison.
func (p CompanyProfile) MatchText() string {
	return strings.Join([]string{p.Services, p.Certifications, p.Coverage}, " ")
}
