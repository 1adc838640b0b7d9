package store

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
)

// ClientStore persists tenant records. The pipeline only reads clients;
// create/update/delete is admin surface.
type ClientStore struct {
	db *gorm.DB
}

func NewClientStore(db *gorm.DB) *ClientStore {
	return &ClientStore{db: db}
}

func (s *ClientStore) Create(client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	if client.Status == "" {
		client.Status = "ACTIVE"
	}
	return s.db.Create(client).Error
}

func (s *ClientStore) GetByID(id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *ClientStore) GetByName(name string) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *ClientStore) List() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("created_at asc").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *ClientStore) Update(client *models.Client) error {
	return s.db.Save(client).Error
}

// Delete removes a client together with its interfaces and mapping rules.
// Ledger rows survive with their client reference cleared.
func (s *ClientStore) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProcessedFile{}).
			Where("client_id = ?", id).
			Update("client_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach processed files for client %s: %w", id, err)
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.MappingRule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Interface{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Client{}, "id = ?", id).Error
	})
}
