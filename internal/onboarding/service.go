// Package onboarding creates new clients together with their starting
// configuration, either from explicit defaults or by cloning another client.
package onboarding

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"xmlprocessor/internal/models"
)

// zeroTime clears copied timestamps so gorm's auto-managed fields restamp
// cloned rows.
var zeroTime time.Time

// Service onboards clients inside one transaction so a half-created
// configuration is never visible.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// OnboardClient creates a client, optionally one interface, and the default
// mapping rules attached to that interface.
func (s *Service) OnboardClient(req models.OnboardClientRequest) (*models.Client, error) {
	if len(req.DefaultRules) > 0 && req.Interface == nil {
		return nil, fmt.Errorf("default rules require an interface to attach to")
	}

	client := &models.Client{
		ID:     uuid.New(),
		Name:   req.Client.Name,
		Code:   req.Client.Code,
		Status: req.Client.Status,
	}
	if client.Status == "" {
		client.Status = "ACTIVE"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		if req.Interface == nil {
			return nil
		}

		iface := interfaceFromRequest(client.ID, *req.Interface)
		if err := tx.Create(iface).Error; err != nil {
			return err
		}

		for _, ruleReq := range req.DefaultRules {
			rule := ruleFromRequest(client.ID, iface.ID, ruleReq)
			if err := tx.Create(rule).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CloneClientConfiguration creates a new client and copies every interface
// and mapping rule of the source client onto it.
func (s *Service) CloneClientConfiguration(req models.CloneClientRequest) (*models.Client, error) {
	var source models.Client
	if err := s.db.First(&source, "id = ?", req.SourceClientID).Error; err != nil {
		return nil, fmt.Errorf("source client not found: %w", err)
	}

	client := &models.Client{
		ID:     uuid.New(),
		Name:   req.Client.Name,
		Code:   req.Client.Code,
		Status: req.Client.Status,
	}
	if client.Status == "" {
		client.Status = "ACTIVE"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}

		var ifaces []models.Interface
		if err := tx.Where("client_id = ?", source.ID).
			Order("created_at asc, id asc").
			Find(&ifaces).Error; err != nil {
			return err
		}

		for _, src := range ifaces {
			newIface := src
			newIface.ID = uuid.New()
			newIface.ClientID = client.ID
			newIface.CreatedAt = zeroTime
			newIface.UpdatedAt = zeroTime
			newIface.MappingRules = nil
			if err := tx.Create(&newIface).Error; err != nil {
				return err
			}

			var rules []models.MappingRule
			if err := tx.Where("interface_id = ?", src.ID).
				Order("priority asc, id asc").
				Find(&rules).Error; err != nil {
				return err
			}
			for _, srcRule := range rules {
				newRule := srcRule
				newRule.ID = uuid.New()
				newRule.ClientID = client.ID
				newRule.InterfaceID = newIface.ID
				newRule.CreatedAt = zeroTime
				newRule.UpdatedAt = zeroTime
				if err := tx.Create(&newRule).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func interfaceFromRequest(clientID uuid.UUID, req models.CreateInterfaceRequest) *models.Interface {
	iface := &models.Interface{
		ID:          uuid.New(),
		ClientID:    clientID,
		Name:        req.Name,
		Type:        req.Type,
		RootElement: req.RootElement,
		Namespace:   req.Namespace,
		SchemaPath:  req.SchemaPath,
		IsActive:    true,
		Priority:    req.Priority,
		Description: req.Description,
	}
	if req.IsActive != nil {
		iface.IsActive = *req.IsActive
	}
	return iface
}

func ruleFromRequest(clientID, interfaceID uuid.UUID, req models.CreateMappingRuleRequest) *models.MappingRule {
	rule := &models.MappingRule{
		ID:             uuid.New(),
		ClientID:       clientID,
		InterfaceID:    interfaceID,
		Name:           req.Name,
		XMLPath:        req.XMLPath,
		TargetField:    req.TargetField,
		TableName:      req.TableName,
		DataType:       req.DataType,
		Transformation: req.Transformation,
		ValidationRule: req.ValidationRule,
		DefaultValue:   req.DefaultValue,
		Priority:       req.Priority,
		IsActive:       true,
		Description:    req.Description,
	}
	if req.IsAttribute != nil {
		rule.IsAttribute = *req.IsAttribute
	}
	if req.Required != nil {
		rule.Required = *req.Required
	}
	return rule
}
