package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
)

// ProcessedFileStore is the append-mostly ledger of processing attempts. Rows
// are created as PROCESSING and finalized exactly once; a terminal status is
// never reverted or overwritten.
type ProcessedFileStore struct {
	db *gorm.DB
}

func NewProcessedFileStore(db *gorm.DB) *ProcessedFileStore {
	return &ProcessedFileStore{db: db}
}

// Create inserts a fresh PROCESSING row for one attempt.
func (s *ProcessedFileStore) Create(file *models.ProcessedFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if file.Status == "" {
		file.Status = models.StatusProcessing
	}
	if file.ProcessedAt.IsZero() {
		file.ProcessedAt = time.Now().UTC()
	}
	return s.db.Create(file).Error
}

// FinalizeSuccess moves a PROCESSING row to SUCCESS with the detected
// interface and its extracted record. The guarded UPDATE makes the transition
// atomic to concurrent readers and refuses to touch a row already in a
// terminal state.
func (s *ProcessedFileStore) FinalizeSuccess(id uuid.UUID, interfaceID *uuid.UUID, data models.JSONMap) error {
	return s.finalize(id, interfaceID, models.StatusSuccess, "", data)
}

// FinalizeError moves a PROCESSING row to ERROR with a human-readable message.
// interfaceID is nil when the failure happened before or during detection.
func (s *ProcessedFileStore) FinalizeError(id uuid.UUID, interfaceID *uuid.UUID, errMsg string) error {
	return s.finalize(id, interfaceID, models.StatusError, errMsg, nil)
}

func (s *ProcessedFileStore) finalize(id uuid.UUID, interfaceID *uuid.UUID, status, errMsg string, data models.JSONMap) error {
	updates := map[string]interface{}{
		"status":         status,
		"error_message":  errMsg,
		"processed_data": data,
		"processed_at":   time.Now().UTC(),
	}
	if interfaceID != nil {
		updates["interface_id"] = *interfaceID
	}
	res := s.db.Model(&models.ProcessedFile{}).
		Where("id = ? AND status = ?", id, models.StatusProcessing).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("processed file %s is not in PROCESSING state", id)
	}
	return nil
}

func (s *ProcessedFileStore) GetByID(id uuid.UUID) (*models.ProcessedFile, error) {
	var file models.ProcessedFile
	if err := s.db.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// Query filters ledger rows. All filters are optional and combine with AND.
type Query struct {
	ClientID    *uuid.UUID
	InterfaceID *uuid.UUID
	Status      string
	FileName    string
	From        *time.Time
	To          *time.Time
}

// List returns ledger rows matching the query, newest first.
func (s *ProcessedFileStore) List(q Query) ([]models.ProcessedFile, error) {
	db := s.db.Model(&models.ProcessedFile{})
	if q.ClientID != nil {
		db = db.Where("client_id = ?", *q.ClientID)
	}
	if q.InterfaceID != nil {
		db = db.Where("interface_id = ?", *q.InterfaceID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.FileName != "" {
		db = db.Where("file_name LIKE ?", "%"+q.FileName+"%")
	}
	if q.From != nil {
		db = db.Where("processed_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("processed_at <= ?", *q.To)
	}
	var files []models.ProcessedFile
	if err := db.Order("processed_at desc, id desc").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
