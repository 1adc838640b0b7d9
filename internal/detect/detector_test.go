package detect

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlprocessor/internal/models"
	"xmlprocessor/internal/xmldoc"
)

func mustParse(t *testing.T, xml string) *xmldoc.Document {
	t.Helper()
	doc, err := xmldoc.Parse([]byte(xml))
	require.NoError(t, err)
	return doc
}

func iface(name, rootElement string, namespace *string) models.Interface {
	return models.Interface{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		Name:        name,
		RootElement: rootElement,
		Namespace:   namespace,
		IsActive:    true,
	}
}

func strPtr(s string) *string { return &s }

func TestMatch_ExactMatchWins(t *testing.T) {
	doc := mustParse(t, `<Order><Id>1</Id></Order>`)
	candidates := []models.Interface{
		iface("order-v1", "Order", nil),
	}

	matched, err := Match(doc, candidates)
	assert.NoError(t, err)
	assert.Equal(t, "order-v1", matched.Name)
}

func TestMatch_ExactBeatsRootOnly(t *testing.T) {
	// A namespaced document: the candidate with the matching namespace must
	// win over an earlier candidate that only matches the root element.
	doc := mustParse(t, `<Order xmlns="urn:acme:orders"><Id>1</Id></Order>`)
	candidates := []models.Interface{
		iface("order-plain", "Order", nil),
		iface("order-ns", "Order", strPtr("urn:acme:orders")),
	}

	matched, err := Match(doc, candidates)
	assert.NoError(t, err)
	assert.Equal(t, "order-ns", matched.Name)
}

func TestMatch_RootOnlyTierIgnoresNamespace(t *testing.T) {
	doc := mustParse(t, `<Order xmlns="urn:other"><Id>1</Id></Order>`)
	candidates := []models.Interface{
		iface("order-v1", "Order", strPtr("urn:acme:orders")),
	}

	matched, err := Match(doc, candidates)
	assert.NoError(t, err)
	assert.Equal(t, "order-v1", matched.Name)
}

func TestMatch_ExactBeforePartialRegardlessOfOrder(t *testing.T) {
	// Acme scenario: "Order" is a substring of "OrderHeader", but the exact
	// tier must resolve "OrderHeader" before the partial tier ever runs.
	doc := mustParse(t, `<OrderHeader><Id>1</Id></OrderHeader>`)
	candidates := []models.Interface{
		iface("order", "Order", nil),
		iface("order-header", "OrderHeader", nil),
	}

	matched, err := Match(doc, candidates)
	assert.NoError(t, err)
	assert.Equal(t, "order-header", matched.Name)

	// Same result with reversed registration order.
	reversed := []models.Interface{candidates[1], candidates[0]}
	matched, err = Match(doc, reversed)
	assert.NoError(t, err)
	assert.Equal(t, "order-header", matched.Name)
}

func TestMatch_PartialMatch(t *testing.T) {
	doc := mustParse(t, `<PurchaseOrderV2><Id>1</Id></PurchaseOrderV2>`)
	candidates := []models.Interface{
		iface("purchase-order", "PurchaseOrder", nil),
	}

	matched, err := Match(doc, candidates)
	assert.NoError(t, err)
	assert.Equal(t, "purchase-order", matched.Name)
}

func TestMatch_PartialMatchIsOneDirectional(t *testing.T) {
	// Registered root "PurchaseOrderV2" is not contained in document root
	// "PurchaseOrder"; the reverse direction must not match.
	doc := mustParse(t, `<PurchaseOrder><Id>1</Id></PurchaseOrder>`)
	candidates := []models.Interface{
		iface("purchase-order-v2", "PurchaseOrderV2", nil),
	}

	_, err := Match(doc, candidates)
	assert.ErrorIs(t, err, models.ErrInterfaceNotFound)
}

func TestMatch_NoCandidates(t *testing.T) {
	doc := mustParse(t, `<Order/>`)
	_, err := Match(doc, nil)
	assert.ErrorIs(t, err, models.ErrInterfaceNotFound)
}

func TestMatch_FirstHitPerTierWins(t *testing.T) {
	doc := mustParse(t, `<Order/>`)
	candidates := []models.Interface{
		iface("first", "Order", nil),
		iface("second", "Order", nil),
	}

	matched, err := Match(doc, candidates)
	assert.NoError(t, err)
	assert.Equal(t, "first", matched.Name)
}

func TestMatch_DoesNotMutateCandidates(t *testing.T) {
	doc := mustParse(t, `<Order/>`)
	candidates := []models.Interface{
		iface("order", "Order", nil),
		iface("other", "Invoice", nil),
	}
	before := make([]models.Interface, len(candidates))
	copy(before, candidates)

	_, err := Match(doc, candidates)
	assert.NoError(t, err)
	assert.Equal(t, before, candidates)
}
