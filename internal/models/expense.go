package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spending record on a calendar date.
type Expense struct {
	Base
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
}

// DateOnly truncates t to midnight UTC of its calendar day. Every stored
// expense date goes through it so range filters compare like with like.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
