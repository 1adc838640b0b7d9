// Package detect classifies an incoming XML document against a client's
// registered interfaces.
package detect

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"xmlprocessor/internal/models"
	"xmlprocessor/internal/store"
	"xmlprocessor/internal/xmldoc"
)

// Detector selects the interface a document belongs to. It reads the registry
// and never mutates it.
type Detector struct {
	interfaces *store.InterfaceStore
}

func NewDetector(interfaces *store.InterfaceStore) *Detector {
	return &Detector{interfaces: interfaces}
}

// Detect matches the document's root element against the client's active
// interfaces in three tiers of decreasing precision. Each tier scans the
// candidates in registry iteration order and the first hit wins; there is no
// scoring across tiers. Interface priority is not consulted.
func (d *Detector) Detect(doc *xmldoc.Document, clientID uuid.UUID) (*models.Interface, error) {
	candidates, err := d.interfaces.ListActiveByClient(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active interfaces for client %s: %w", clientID, err)
	}
	return Match(doc, candidates)
}

// Match runs the tiered matching against an explicit candidate set. It is a
// pure function of the document and the candidates.
func Match(doc *xmldoc.Document, candidates []models.Interface) (*models.Interface, error) {
	rootElement := doc.RootName()
	namespace := doc.RootNamespace()

	log.Printf("Detecting interface for root element: %s, namespace: %q", rootElement, namespace)

	// Tier 1: exact match on root element and namespace. A document without a
	// namespace matches any candidate on root element alone.
	for i := range candidates {
		iface := &candidates[i]
		if rootElement == iface.RootElement && namespaceMatches(namespace, iface.Namespace) {
			log.Printf("Found exact match for interface: %s", iface.Name)
			return iface, nil
		}
	}

	// Tier 2: root element only, namespace ignored.
	for i := range candidates {
		iface := &candidates[i]
		if rootElement == iface.RootElement {
			log.Printf("Found root element match for interface: %s", iface.Name)
			return iface, nil
		}
	}

	// Tier 3: registered root element contained in the document root element.
	// One-directional on purpose.
	for i := range candidates {
		iface := &candidates[i]
		if iface.RootElement != "" && strings.Contains(rootElement, iface.RootElement) {
			log.Printf("Found partial match for interface: %s", iface.Name)
			return iface, nil
		}
	}

	log.Printf("No matching interface found for root element: %s", rootElement)
	return nil, models.ErrInterfaceNotFound
}

func namespaceMatches(docNamespace string, ifaceNamespace *string) bool {
	if docNamespace == "" {
		return true
	}
	return ifaceNamespace != nil && docNamespace == *ifaceNamespace
}
