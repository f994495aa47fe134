package database

import "gorm.io/gorm"

// SlotRepository handles slot-record database operations for the Run
// Recorder (A4): an optional, additive ledger of per-slot decode outcomes.
type SlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository creates a new slot-record repository.
func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Create adds a new slot record.
func (r *SlotRepository) Create(rec *SlotRecord) error {
	return r.db.Create(rec).Error
}

// GetRecent retrieves the most recent N slot records for a run, most
// recent first.
func (r *SlotRepository) GetRecent(runID string, limit int) ([]SlotRecord, error) {
	var records []SlotRecord
	err := r.db.Where("run_id = ?", runID).
		Order("slot_index DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountBFI counts how many slot records in a run had at least one BFI
// frame.
func (r *SlotRepository) CountBFI(runID string) (int64, error) {
	var count int64
	err := r.db.Model(&SlotRecord{}).
		Where("run_id = ? AND (bfi1 != 0 OR bfi2 != 0 OR bfi3 != 0)", runID).
		Count(&count).Error
	return count, err
}

// CountStolen counts how many slot records in a run had frame stealing
// applied.
func (r *SlotRepository) CountStolen(runID string) (int64, error) {
	var count int64
	err := r.db.Model(&SlotRecord{}).
		Where("run_id = ? AND stolen = ?", runID, true).
		Count(&count).Error
	return count, err
}
