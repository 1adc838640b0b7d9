package models

import (
	"time"

	"github.com/google/uuid"
)

// ValidDataTypes defines the allowed declared data types for mapping rules.
var ValidDataTypes = map[string]bool{
	"STRING":   true,
	"TEXT":     true, // For longer text
	"INTEGER":  true,
	"FLOAT":    true,
	"BOOLEAN":  true,
	"DATETIME": true,
}

// ProcessedFile status values. A row is created as PROCESSING and moves exactly
// once to SUCCESS or ERROR.
const (
	StatusProcessing = "PROCESSING"
	StatusSuccess    = "SUCCESS"
	StatusError      = "ERROR"
)

// Client represents a tenant. All lower entities carry a ClientID and are never
// visible from another client's context.
// @Description Client represents an isolated tenant owning interfaces, mapping rules and processed files.
type Client struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" binding:"required,min=1,max=255" gorm:"type:varchar(255);not null;unique"`
	Code      string    `json:"code" binding:"required,min=1,max=64" gorm:"type:varchar(64);not null;unique"`
	Status    string    `json:"status" gorm:"type:varchar(32);default:ACTIVE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Interfaces []Interface `json:"interfaces,omitempty" gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Interface is a document-type definition a client registers to recognize a
// class of incoming XML documents.
// @Description Interface is a named document-type definition with detection hints (root element, namespace).
type Interface struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ClientID    uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_client_iface_name"`
	Name        string    `json:"name" binding:"required,min=1,max=255" gorm:"type:varchar(255);not null;uniqueIndex:idx_client_iface_name"`
	Type        string    `json:"type" gorm:"type:varchar(64)"`
	RootElement string    `json:"root_element" binding:"required,min=1,max=255" gorm:"type:varchar(255);not null"`
	Namespace   *string   `json:"namespace,omitempty" gorm:"type:varchar(512)"`
	SchemaPath  *string   `json:"schema_path,omitempty" gorm:"type:varchar(512)"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	Priority    int       `json:"priority" gorm:"default:0"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	MappingRules []MappingRule `json:"mapping_rules,omitempty" gorm:"foreignKey:InterfaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// MappingRule is a single field-extraction instruction belonging to one
// interface: source XPath -> target field, with optional transformation and
// validation. Priority orders rule evaluation, ascending.
// @Description MappingRule maps an XML source path to a target field with type, transformation and validation.
type MappingRule struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ClientID       uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index"`
	InterfaceID    uuid.UUID `json:"interface_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_iface_rule_name"`
	Name           string    `json:"name" binding:"required,min=1,max=255" gorm:"type:varchar(255);not null;uniqueIndex:idx_iface_rule_name"`
	XMLPath        string    `json:"xml_path" binding:"required,min=1" gorm:"type:varchar(512);not null"`
	TargetField    string    `json:"target_field" binding:"required,min=1,max=255" gorm:"type:varchar(255);not null"`
	TableName      string    `json:"table_name,omitempty" gorm:"type:varchar(255)"`
	DataType       string    `json:"data_type" binding:"required,oneof=STRING TEXT INTEGER FLOAT BOOLEAN DATETIME" gorm:"type:varchar(50);not null"`
	IsAttribute    bool      `json:"is_attribute" gorm:"default:false"`
	Transformation string    `json:"transformation,omitempty" gorm:"type:varchar(255)"`
	ValidationRule string    `json:"validation_rule,omitempty" gorm:"type:varchar(512)"`
	Required       bool      `json:"required" gorm:"default:false"`
	DefaultValue   *string   `json:"default_value,omitempty" gorm:"type:varchar(512)"`
	Priority       int       `json:"priority" gorm:"default:0"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	Description    string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ProcessedFile is the persisted outcome of one document-processing attempt.
// ClientID is nullable only on the degraded path where no tenant context could
// be resolved; InterfaceID becomes null when the interface is later deleted.
// @Description ProcessedFile records the outcome of one XML processing attempt.
type ProcessedFile struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	ClientID      *uuid.UUID `json:"client_id,omitempty" gorm:"type:uuid;index"`
	InterfaceID   *uuid.UUID `json:"interface_id,omitempty" gorm:"type:uuid;index;constraint:OnDelete:SET NULL"`
	FileName      string     `json:"file_name" gorm:"type:varchar(512);not null"`
	Status        string     `json:"status" gorm:"type:varchar(32);not null;index"`
	ErrorMessage  string     `json:"error_message,omitempty" gorm:"type:text"`
	ProcessedData JSONMap    `json:"processed_data,omitempty" gorm:"type:text;serializer:json"`
	ProcessedAt   time.Time  `json:"processed_at" gorm:"index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// JSONMap is the extracted record stored on a ProcessedFile row, serialized as
// JSON text by gorm.
type JSONMap map[string]interface{}

// CreateClientRequest defines the request payload for creating a client.
type CreateClientRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=255"`
	Code   string `json:"code" binding:"required,min=1,max=64"`
	Status string `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// CreateInterfaceRequest defines the request payload for registering an interface.
type CreateInterfaceRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Type        string  `json:"type,omitempty" binding:"max=64"`
	RootElement string  `json:"root_element" binding:"required,min=1,max=255"`
	Namespace   *string `json:"namespace,omitempty" binding:"omitempty,max=512"`
	SchemaPath  *string `json:"schema_path,omitempty" binding:"omitempty,max=512"`
	IsActive    *bool   `json:"is_active,omitempty"` // Pointer to distinguish between false and not provided
	Priority    int     `json:"priority,omitempty"`
	Description string  `json:"description,omitempty" binding:"max=1000"`
}

// UpdateInterfaceRequest defines the request payload for updating an interface.
type UpdateInterfaceRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Type        *string `json:"type,omitempty" binding:"omitempty,max=64"`
	RootElement *string `json:"root_element,omitempty" binding:"omitempty,min=1,max=255"`
	Namespace   *string `json:"namespace,omitempty" binding:"omitempty,max=512"`
	SchemaPath  *string `json:"schema_path,omitempty" binding:"omitempty,max=512"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=1000"`
}

// CreateMappingRuleRequest defines the request payload for creating a mapping rule.
type CreateMappingRuleRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=255"`
	XMLPath        string  `json:"xml_path" binding:"required,min=1,max=512"`
	TargetField    string  `json:"target_field" binding:"required,min=1,max=255"`
	TableName      string  `json:"table_name,omitempty" binding:"max=255"`
	DataType       string  `json:"data_type" binding:"required,oneof=STRING TEXT INTEGER FLOAT BOOLEAN DATETIME"`
	IsAttribute    *bool   `json:"is_attribute,omitempty"`
	Transformation string  `json:"transformation,omitempty" binding:"max=255"`
	ValidationRule string  `json:"validation_rule,omitempty" binding:"max=512"`
	Required       *bool   `json:"required,omitempty"`
	DefaultValue   *string `json:"default_value,omitempty" binding:"omitempty,max=512"`
	Priority       int     `json:"priority,omitempty"`
	Description    string  `json:"description,omitempty" binding:"max=1000"`
}

// UpdateMappingRuleRequest defines the request payload for updating a mapping rule.
type UpdateMappingRuleRequest struct {
	Name           *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	XMLPath        *string `json:"xml_path,omitempty" binding:"omitempty,min=1,max=512"`
	TargetField    *string `json:"target_field,omitempty" binding:"omitempty,min=1,max=255"`
	TableName      *string `json:"table_name,omitempty" binding:"omitempty,max=255"`
	DataType       *string `json:"data_type,omitempty" binding:"omitempty,oneof=STRING TEXT INTEGER FLOAT BOOLEAN DATETIME"`
	IsAttribute    *bool   `json:"is_attribute,omitempty"`
	Transformation *string `json:"transformation,omitempty" binding:"omitempty,max=255"`
	ValidationRule *string `json:"validation_rule,omitempty" binding:"omitempty,max=512"`
	Required       *bool   `json:"required,omitempty"`
	DefaultValue   *string `json:"default_value,omitempty" binding:"omitempty,max=512"`
	Priority       *int    `json:"priority,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
	Description    *string `json:"description,omitempty" binding:"omitempty,max=1000"`
}

// OnboardClientRequest defines the payload for onboarding a new client with a
// set of default mapping rules applied to one of its interfaces.
type OnboardClientRequest struct {
	Client       CreateClientRequest        `json:"client" binding:"required"`
	Interface    *CreateInterfaceRequest    `json:"interface,omitempty"`
	DefaultRules []CreateMappingRuleRequest `json:"default_rules,omitempty"`
}

// CloneClientRequest defines the payload for cloning an existing client's
// interfaces and mapping rules onto a new client.
type CloneClientRequest struct {
	SourceClientID uuid.UUID           `json:"source_client_id" binding:"required"`
	Client         CreateClientRequest `json:"client" binding:"required"`
}
