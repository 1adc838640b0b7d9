package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
)

// InterfaceStore is the interface registry: per-client document-type
// definitions with their detection hints. Detection reads through
// ListActiveByClient and never writes.
type InterfaceStore struct {
	db *gorm.DB
}

func NewInterfaceStore(db *gorm.DB) *InterfaceStore {
	return &InterfaceStore{db: db}
}

func (s *InterfaceStore) Create(iface *models.Interface) error {
	if iface.ID == uuid.Nil {
		iface.ID = uuid.New()
	}
	return s.db.Create(iface).Error
}

func (s *InterfaceStore) GetByID(clientID, id uuid.UUID) (*models.Interface, error) {
	var iface models.Interface
	if err := s.db.First(&iface, "id = ? AND client_id = ?", id, clientID).Error; err != nil {
		return nil, err
	}
	return &iface, nil
}

func (s *InterfaceStore) GetByName(clientID uuid.UUID, name string) (*models.Interface, error) {
	var iface models.Interface
	if err := s.db.First(&iface, "client_id = ? AND name = ?", clientID, name).Error; err != nil {
		return nil, err
	}
	return &iface, nil
}

func (s *InterfaceStore) ListByClient(clientID uuid.UUID) ([]models.Interface, error) {
	var ifaces []models.Interface
	if err := s.db.Where("client_id = ?", clientID).
		Order("created_at asc, id asc").
		Find(&ifaces).Error; err != nil {
		return nil, err
	}
	return ifaces, nil
}

// ListActiveByClient returns the detection candidate set in registry iteration
// order: creation order, id as tie-break. Interface priority deliberately does
// not participate in the ordering.
func (s *InterfaceStore) ListActiveByClient(clientID uuid.UUID) ([]models.Interface, error) {
	var ifaces []models.Interface
	if err := s.db.Where("client_id = ? AND is_active = ?", clientID, true).
		Order("created_at asc, id asc").
		Find(&ifaces).Error; err != nil {
		return nil, err
	}
	return ifaces, nil
}

// Search filters a client's interfaces by name substring, type tag or active
// flag; empty filters are ignored.
func (s *InterfaceStore) Search(clientID uuid.UUID, name, ifaceType string, isActive *bool) ([]models.Interface, error) {
	q := s.db.Where("client_id = ?", clientID)
	if name != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if ifaceType != "" {
		q = q.Where("type = ?", ifaceType)
	}
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	var ifaces []models.Interface
	if err := q.Order("created_at asc, id asc").Find(&ifaces).Error; err != nil {
		return nil, err
	}
	return ifaces, nil
}

func (s *InterfaceStore) Update(iface *models.Interface) error {
	return s.db.Save(iface).Error
}

// Delete removes an interface and its mapping rules. Ledger rows that
// reference the interface keep existing with the reference cleared, so the
// audit trail never points at a nonexistent interface.
func (s *InterfaceStore) Delete(clientID, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND client_id = ?", id, clientID).Delete(&models.Interface{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("interface_id = ?", id).Delete(&models.MappingRule{}).Error; err != nil {
			return fmt.Errorf("failed to delete mapping rules for interface %s: %w", id, err)
		}
		return tx.Model(&models.ProcessedFile{}).
			Where("interface_id = ?", id).
			Update("interface_id", nil).Error
	})
}
