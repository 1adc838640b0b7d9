package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
)

// MappingRuleStore persists the per-interface field-mapping rules. The
// extraction engine reads a rule set once per processing run; rules are never
// mutated during processing.
type MappingRuleStore struct {
	db *gorm.DB
}

func NewMappingRuleStore(db *gorm.DB) *MappingRuleStore {
	return &MappingRuleStore{db: db}
}

func (s *MappingRuleStore) Create(rule *models.MappingRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	return s.db.Create(rule).Error
}

// CreateBatch saves a set of rules in one transaction, used by onboarding to
// apply default rules atomically.
func (s *MappingRuleStore) CreateBatch(rules []models.MappingRule) error {
	if len(rules) == 0 {
		return nil
	}
	for i := range rules {
		if rules[i].ID == uuid.Nil {
			rules[i].ID = uuid.New()
		}
	}
	return s.db.Create(&rules).Error
}

func (s *MappingRuleStore) GetByID(clientID, id uuid.UUID) (*models.MappingRule, error) {
	var rule models.MappingRule
	if err := s.db.First(&rule, "id = ? AND client_id = ?", id, clientID).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *MappingRuleStore) ListByClient(clientID uuid.UUID) ([]models.MappingRule, error) {
	var rules []models.MappingRule
	if err := s.db.Where("client_id = ?", clientID).
		Order("priority asc, id asc").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *MappingRuleStore) ListByInterface(interfaceID uuid.UUID) ([]models.MappingRule, error) {
	var rules []models.MappingRule
	if err := s.db.Where("interface_id = ?", interfaceID).
		Order("priority asc, id asc").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ListActiveByInterface returns the rule set the extraction engine applies:
// active rules ordered by priority ascending, id ascending for equal priority.
// The single query gives one extraction run a consistent snapshot.
func (s *MappingRuleStore) ListActiveByInterface(interfaceID uuid.UUID) ([]models.MappingRule, error) {
	var rules []models.MappingRule
	if err := s.db.Where("interface_id = ? AND is_active = ?", interfaceID, true).
		Order("priority asc, id asc").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *MappingRuleStore) Update(rule *models.MappingRule) error {
	return s.db.Save(rule).Error
}

func (s *MappingRuleStore) Delete(clientID, id uuid.UUID) error {
	res := s.db.Where("id = ? AND client_id = ?", id, clientID).Delete(&models.MappingRule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *MappingRuleStore) DeleteByInterface(interfaceID uuid.UUID) error {
	return s.db.Where("interface_id = ?", interfaceID).Delete(&models.MappingRule{}).Error
}
