// Package mapping applies an interface's field-mapping rules to a parsed XML
// document and produces a structured record.
package mapping

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"xmlprocessor/internal/models"
	"xmlprocessor/internal/store"
	"xmlprocessor/internal/xmldoc"
)

// Engine loads an interface's active mapping rules and applies them in
// priority order. It never mutates the rule store.
type Engine struct {
	rules      *store.MappingRuleStore
	interfaces *store.InterfaceStore
	strategies *StrategyRegistry
}

func NewEngine(rules *store.MappingRuleStore, interfaces *store.InterfaceStore) *Engine {
	e := &Engine{rules: rules, interfaces: interfaces, strategies: NewStrategyRegistry()}
	return e
}

// Strategies exposes the engine's per-interface-type strategy registry so
// specialized extraction behaviors can be registered at startup.
func (e *Engine) Strategies() *StrategyRegistry {
	return e.strategies
}

// Extract loads the interface's active rules and applies them via the
// strategy registered for the interface type. The result is a structured
// record, or an ExtractionError listing every failed rule.
func (e *Engine) Extract(doc *xmldoc.Document, iface *models.Interface) (models.JSONMap, error) {
	rules, err := e.rules.ListActiveByInterface(iface.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping rules for interface %s: %w", iface.ID, err)
	}
	if len(rules) == 0 {
		// An empty set is legitimate for an interface registered without
		// rules, but it is also what a configuration deleted between
		// detection and extraction looks like: deleting an interface
		// removes its rules. Re-check before extracting against nothing.
		if _, err := e.interfaces.GetByID(iface.ClientID, iface.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrConfigurationNotFound
			}
			return nil, fmt.Errorf("failed to verify interface %s: %w", iface.ID, err)
		}
	}
	strategy := e.strategies.For(iface.Type)
	return strategy.Extract(doc, iface, rules)
}

// Apply runs the rule set against the document, accumulating field-level
// errors without short-circuiting, so one attempt reports every invalid
// field at once. The rules are expected in evaluation order: priority
// ascending, id ascending.
func Apply(doc *xmldoc.Document, rules []models.MappingRule) (models.JSONMap, error) {
	record := models.JSONMap{}
	var fieldErrors []models.FieldError

	fail := func(rule *models.MappingRule, reason string) {
		fieldErrors = append(fieldErrors, models.FieldError{
			RuleID:   rule.ID.String(),
			RuleName: rule.Name,
			Field:    rule.TargetField,
			Reason:   reason,
		})
	}

	for i := range rules {
		rule := &rules[i]

		raw, found, err := resolve(doc, rule)
		if err != nil {
			fail(rule, err.Error())
			continue
		}

		if !found {
			if rule.Required {
				fail(rule, "missing required field")
				continue
			}
			if rule.DefaultValue == nil {
				continue
			}
			raw = *rule.DefaultValue
		}

		transformed := applyTransformation(raw, rule.Transformation)

		if rule.ValidationRule != "" {
			if err := applyValidation(transformed, rule.ValidationRule); err != nil {
				fail(rule, fmt.Sprintf("validation failed: %v", err))
				continue
			}
		}

		coerced, err := coerceValue(transformed, rule.DataType)
		if err != nil {
			fail(rule, err.Error())
			continue
		}

		setField(record, rule, coerced)
	}

	if len(fieldErrors) > 0 {
		log.Printf("Extraction produced %d field error(s)", len(fieldErrors))
		return nil, &models.ExtractionError{FieldErrors: fieldErrors}
	}
	return record, nil
}

// resolve evaluates a rule's source path against the document. A rule flagged
// as attribute reads the named attribute of the element the path locates: the
// last path segment is the attribute name unless the path already selects an
// attribute with '@'.
func resolve(doc *xmldoc.Document, rule *models.MappingRule) (string, bool, error) {
	path := rule.XMLPath
	if !rule.IsAttribute || strings.Contains(path, "@") {
		return doc.Value(path)
	}
	i := strings.LastIndex(path, "/")
	if i < 0 || i == len(path)-1 {
		return "", false, fmt.Errorf("invalid attribute path %q", path)
	}
	return doc.AttributeValue(path[:i], path[i+1:])
}

// setField stores the coerced value in the record. Rules with a table name
// target a nested record, keeping multi-record extractions grouped.
func setField(record models.JSONMap, rule *models.MappingRule, value interface{}) {
	if rule.TableName == "" {
		record[rule.TargetField] = value
		return
	}
	bucket, ok := record[rule.TableName].(map[string]interface{})
	if !ok {
		bucket = map[string]interface{}{}
		record[rule.TableName] = bucket
	}
	bucket[rule.TargetField] = value
}
