package database

import (
	"os"
	"testing"

	"github.com/dbehnke/cdecoder/pkg/logger"
)

func TestNewDB(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	dbPath := "/tmp/test_cdecoder.db"
	defer func() { _ = os.Remove(dbPath) }()

	cfg := Config{Path: dbPath}
	db, err := NewDB(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.db == nil {
		t.Error("Expected non-nil database connection")
	}
}

func TestNewDB_DefaultPath(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	defer func() { _ = os.Remove("cdecoder.db") }()

	cfg := Config{}
	db, err := NewDB(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create database with default path: %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.db == nil {
		t.Error("Expected non-nil database connection")
	}
}

func TestSlotRecord_BeforeCreate(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	dbPath := "/tmp/test_slot_create.db"
	defer func() { _ = os.Remove(dbPath) }()

	cfg := Config{Path: dbPath}
	db, err := NewDB(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rec := &SlotRecord{
		RunID:     "run-1",
		SlotIndex: 0,
		CoderType: 0,
	}

	repo := NewSlotRepository(db.GetDB())
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Failed to create slot record: %v", err)
	}

	if rec.ID == 0 {
		t.Error("Expected non-zero ID after creation")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set by hook")
	}
}

func TestSlotRepository_GetRecent(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	dbPath := "/tmp/test_slot_recent.db"
	defer func() { _ = os.Remove(dbPath) }()

	cfg := Config{Path: dbPath}
	db, err := NewDB(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewSlotRepository(db.GetDB())

	for i := 0; i < 5; i++ {
		rec := &SlotRecord{
			RunID:     "run-1",
			SlotIndex: i,
			CoderType: 0,
		}
		if err := repo.Create(rec); err != nil {
			t.Fatalf("Failed to create slot record %d: %v", i, err)
		}
	}

	records, err := repo.GetRecent("run-1", 3)
	if err != nil {
		t.Fatalf("Failed to get recent slot records: %v", err)
	}

	if len(records) != 3 {
		t.Errorf("Expected 3 slot records, got %d", len(records))
	}

	if len(records) >= 2 {
		if records[0].SlotIndex < records[1].SlotIndex {
			t.Error("Expected slot records ordered by slot_index DESC")
		}
	}
}

func TestSlotRepository_CountBFI(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	dbPath := "/tmp/test_slot_bfi.db"
	defer func() { _ = os.Remove(dbPath) }()

	cfg := Config{Path: dbPath}
	db, err := NewDB(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewSlotRepository(db.GetDB())

	clean := &SlotRecord{RunID: "run-1", SlotIndex: 0, CoderType: 0}
	bad := &SlotRecord{RunID: "run-1", SlotIndex: 1, CoderType: 0, BFI1: 1}
	if err := repo.Create(clean); err != nil {
		t.Fatalf("Failed to create clean record: %v", err)
	}
	if err := repo.Create(bad); err != nil {
		t.Fatalf("Failed to create bad record: %v", err)
	}

	count, err := repo.CountBFI("run-1")
	if err != nil {
		t.Fatalf("Failed to count BFI records: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 BFI record, got %d", count)
	}
}

func TestSlotRepository_CountStolen(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	dbPath := "/tmp/test_slot_stolen.db"
	defer func() { _ = os.Remove(dbPath) }()

	cfg := Config{Path: dbPath}
	db, err := NewDB(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewSlotRepository(db.GetDB())

	normal := &SlotRecord{RunID: "run-1", SlotIndex: 0, CoderType: 0}
	stolen := &SlotRecord{RunID: "run-1", SlotIndex: 1, CoderType: 0, Stolen: true}
	if err := repo.Create(normal); err != nil {
		t.Fatalf("Failed to create normal record: %v", err)
	}
	if err := repo.Create(stolen); err != nil {
		t.Fatalf("Failed to create stolen record: %v", err)
	}

	count, err := repo.CountStolen("run-1")
	if err != nil {
		t.Fatalf("Failed to count stolen records: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stolen record, got %d", count)
	}
}
