package database

import (
	"time"

	"gorm.io/gorm"
)

// SlotRecord is one processed slot's decode outcome: the Run Recorder's
// (A4) ledger row, mirroring the teacher's Transmission record shape but
// over decode results instead of DMR call records.
type SlotRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RunID      string    `gorm:"index;not null" json:"run_id"`
	SlotIndex  int       `gorm:"index;not null" json:"slot_index"`
	CoderType  int       `gorm:"not null" json:"coder_type"`
	Stolen     bool      `gorm:"not null" json:"stolen"`
	BFI1       int       `gorm:"not null" json:"bfi1"`
	BFI2       int       `gorm:"not null" json:"bfi2"`
	BFI3       int       `gorm:"not null" json:"bfi3"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for SlotRecord.
func (SlotRecord) TableName() string {
	return "slot_records"
}

// BeforeCreate hook ensures CreatedAt is always populated.
func (s *SlotRecord) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}
