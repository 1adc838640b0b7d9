package mapping

import (
	"sync"

	"xmlprocessor/internal/models"
	"xmlprocessor/internal/xmldoc"
)

// Strategy extracts a record from a document using an interface's rule set.
// Implementations are keyed by the interface's type tag; the standard
// strategy serves any type without a specialized registration.
type Strategy interface {
	Extract(doc *xmldoc.Document, iface *models.Interface, rules []models.MappingRule) (models.JSONMap, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(doc *xmldoc.Document, iface *models.Interface, rules []models.MappingRule) (models.JSONMap, error)

func (f StrategyFunc) Extract(doc *xmldoc.Document, iface *models.Interface, rules []models.MappingRule) (models.JSONMap, error) {
	return f(doc, iface, rules)
}

// StrategyRegistry is a lookup table of extraction strategies keyed by
// interface type string. Lookups during processing are concurrent;
// registrations happen at startup.
type StrategyRegistry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	fallback   Strategy
}

func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		strategies: make(map[string]Strategy),
		fallback:   standardStrategy(),
	}
}

// Register binds a strategy to an interface type tag, replacing any previous
// registration for that type.
func (r *StrategyRegistry) Register(ifaceType string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[ifaceType] = s
}

// For returns the strategy registered for the given interface type, or the
// standard rule-application strategy when none is registered.
func (r *StrategyRegistry) For(ifaceType string) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.strategies[ifaceType]; ok {
		return s
	}
	return r.fallback
}

func standardStrategy() Strategy {
	return StrategyFunc(func(doc *xmldoc.Document, _ *models.Interface, rules []models.MappingRule) (models.JSONMap, error) {
		return Apply(doc, rules)
	})
}
