package pipeline

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"xmlprocessor/internal/database"
	"xmlprocessor/internal/detect"
	"xmlprocessor/internal/mapping"
	"xmlprocessor/internal/metrics"
	"xmlprocessor/internal/models"
	"xmlprocessor/internal/store"
	"xmlprocessor/internal/tenant"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("Failed to migrate test database schema: %v", err)
	}
	os.Exit(m.Run())
}

type fixture struct {
	processor  *Processor
	aggregator *metrics.Aggregator
	ledger     *store.ProcessedFileStore
	interfaces *store.InterfaceStore
	rules      *store.MappingRuleStore
	client     *models.Client
}

// newFixture wires a processor against the shared test database with a fresh
// client, one active interface for <Order> documents and a small rule set.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	clients := store.NewClientStore(testDB)
	interfaces := store.NewInterfaceStore(testDB)
	rules := store.NewMappingRuleStore(testDB)
	ledger := store.NewProcessedFileStore(testDB)
	aggregator := metrics.NewAggregator()

	suffix := uuid.New().String()[:8]
	client := &models.Client{
		Name: "Pipeline Test Client " + suffix,
		Code: "PIPE-" + suffix,
	}
	require.NoError(t, clients.Create(client))

	iface := &models.Interface{
		ClientID:    client.ID,
		Name:        "orders",
		Type:        "ORDER",
		RootElement: "Order",
		IsActive:    true,
	}
	require.NoError(t, interfaces.Create(iface))

	require.NoError(t, rules.Create(&models.MappingRule{
		ClientID:    client.ID,
		InterfaceID: iface.ID,
		Name:        "order-number",
		XMLPath:     "/Order/Number",
		TargetField: "orderNumber",
		DataType:    "STRING",
		Required:    true,
		IsActive:    true,
	}))
	require.NoError(t, rules.Create(&models.MappingRule{
		ClientID:    client.ID,
		InterfaceID: iface.ID,
		Name:        "total",
		XMLPath:     "/Order/Total",
		TargetField: "total",
		DataType:    "FLOAT",
		IsActive:    true,
	}))

	processor := NewProcessor(
		detect.NewDetector(interfaces),
		mapping.NewEngine(rules, interfaces),
		ledger,
		aggregator,
		nil,
	)
	return &fixture{
		processor:  processor,
		aggregator: aggregator,
		ledger:     ledger,
		interfaces: interfaces,
		rules:      rules,
		client:     client,
	}
}

func (f *fixture) ctx() context.Context {
	return tenant.WithClient(context.Background(), f.client)
}

func TestProcess_Success(t *testing.T) {
	f := newFixture(t)

	file, err := f.processor.Process(f.ctx(), "order-1.xml",
		[]byte(`<Order><Number>PO-1</Number><Total>12.50</Total></Order>`))
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, models.StatusSuccess, file.Status)
	assert.Equal(t, "order-1.xml", file.FileName)
	require.NotNil(t, file.ClientID)
	assert.Equal(t, f.client.ID, *file.ClientID)
	require.NotNil(t, file.InterfaceID)
	assert.Equal(t, "PO-1", file.ProcessedData["orderNumber"])
	assert.Equal(t, 12.50, file.ProcessedData["total"])
	assert.Empty(t, file.ErrorMessage)

	report := f.aggregator.Snapshot()[f.client.ID]
	assert.Equal(t, int64(1), report.TotalRequests)
	assert.Equal(t, 0.0, report.ErrorRatePct)
}

func TestProcess_MalformedDocumentRecordsError(t *testing.T) {
	f := newFixture(t)

	file, err := f.processor.Process(f.ctx(), "broken.xml", []byte(`<Order><Number>`))
	require.NoError(t, err, "an unparsable document is an ERROR row, not a fault")
	require.NotNil(t, file)

	assert.Equal(t, models.StatusError, file.Status)
	assert.Contains(t, file.ErrorMessage, "malformed XML document")
	assert.Nil(t, file.InterfaceID)

	report := f.aggregator.Snapshot()[f.client.ID]
	assert.Equal(t, int64(1), report.TotalRequests)
	assert.Equal(t, 100.0, report.ErrorRatePct)
}

func TestProcess_NoMatchingInterfaceRecordsError(t *testing.T) {
	f := newFixture(t)

	file, err := f.processor.Process(f.ctx(), "invoice.xml",
		[]byte(`<Invoice><Number>INV-1</Number></Invoice>`))
	require.NoError(t, err)

	assert.Equal(t, models.StatusError, file.Status)
	assert.Contains(t, file.ErrorMessage, "could not detect interface")
	assert.Nil(t, file.InterfaceID)
}

func TestProcess_MissingRequiredFieldRecordsError(t *testing.T) {
	f := newFixture(t)

	file, err := f.processor.Process(f.ctx(), "order-2.xml",
		[]byte(`<Order><Total>8.00</Total></Order>`))
	require.NoError(t, err)

	assert.Equal(t, models.StatusError, file.Status)
	// the failed rule is named in the ledger row
	assert.Contains(t, file.ErrorMessage, "order-number")
	assert.Contains(t, file.ErrorMessage, "missing required field")
	require.NotNil(t, file.InterfaceID, "detection succeeded, the interface is stamped")
}

func TestProcess_TerminalRowIsNeverReverted(t *testing.T) {
	f := newFixture(t)

	file, err := f.processor.Process(f.ctx(), "order-3.xml",
		[]byte(`<Order><Number>PO-3</Number></Order>`))
	require.NoError(t, err)
	require.Equal(t, models.StatusSuccess, file.Status)

	err = f.ledger.FinalizeError(file.ID, nil, "late failure")
	require.Error(t, err, "a finalized row must refuse a second transition")

	reloaded, err := f.ledger.GetByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, reloaded.Status)
	assert.Empty(t, reloaded.ErrorMessage)
}

func TestProcess_EachAttemptGetsItsOwnRow(t *testing.T) {
	f := newFixture(t)
	payload := []byte(`<Order><Number>PO-4</Number></Order>`)

	first, err := f.processor.Process(f.ctx(), "order-4.xml", payload)
	require.NoError(t, err)
	second, err := f.processor.Process(f.ctx(), "order-4.xml", payload)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	rows, err := f.ledger.List(store.Query{ClientID: &f.client.ID, FileName: "order-4.xml"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestProcess_NoClientContextDegradedPath(t *testing.T) {
	f := newFixture(t)

	file, err := f.processor.Process(context.Background(), "orphan.xml",
		[]byte(`<Order><Number>PO-5</Number></Order>`))
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, models.StatusError, file.Status)
	assert.Nil(t, file.ClientID, "degraded rows carry no client reference")
	assert.Contains(t, file.ErrorMessage, "client context not available")

	// no metrics attribution without a client
	assert.Empty(t, f.aggregator.Snapshot())
}

func TestProcess_CancelledBeforeRowExists(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(f.ctx())
	cancel()

	before, err := f.ledger.List(store.Query{ClientID: &f.client.ID})
	require.NoError(t, err)

	file, err := f.processor.Process(ctx, "cancelled.xml",
		[]byte(`<Order><Number>PO-6</Number></Order>`))
	require.Error(t, err)
	require.ErrorIs(t, err, models.ErrCancelled)
	assert.Nil(t, file)

	after, err := f.ledger.List(store.Query{ClientID: &f.client.ID})
	require.NoError(t, err)
	assert.Len(t, after, len(before), "no ledger row before the first persistence point")
}

// trippedContext reports cancellation only from the nth Err check onward, so
// a test can land the cancellation between specific pipeline phases.
type trippedContext struct {
	context.Context
	checksLeft int
}

func (c *trippedContext) Err() error {
	if c.checksLeft > 0 {
		c.checksLeft--
		return nil
	}
	return context.Canceled
}

func TestProcess_CancelledAfterRowFinalizesError(t *testing.T) {
	f := newFixture(t)
	// first check passes, so the ledger row is created before the
	// cancellation lands at the post-parse check
	ctx := &trippedContext{Context: f.ctx(), checksLeft: 1}

	file, err := f.processor.Process(ctx, "late-cancel.xml",
		[]byte(`<Order><Number>PO-8</Number></Order>`))
	require.NoError(t, err, "cancellation after the row exists is recorded, not propagated")
	require.NotNil(t, file)

	assert.Equal(t, models.StatusError, file.Status)
	assert.Equal(t, "processing cancelled", file.ErrorMessage)
	assert.Nil(t, file.InterfaceID, "detection never ran")
}

func TestProcess_CancelledAfterDetectionStampsInterface(t *testing.T) {
	f := newFixture(t)
	ctx := &trippedContext{Context: f.ctx(), checksLeft: 2}

	file, err := f.processor.Process(ctx, "later-cancel.xml",
		[]byte(`<Order><Number>PO-9</Number></Order>`))
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, models.StatusError, file.Status)
	assert.Equal(t, "processing cancelled", file.ErrorMessage)
	require.NotNil(t, file.InterfaceID, "detection finished before the cancellation landed")

	report := f.aggregator.Snapshot()[f.client.ID]
	assert.Equal(t, int64(1), report.TotalRequests)
	assert.Equal(t, 100.0, report.ErrorRatePct)
}

func TestProcess_FinalizeFailurePropagates(t *testing.T) {
	f := newFixture(t)

	row := &models.ProcessedFile{ClientID: &f.client.ID, FileName: "stale.xml"}
	require.NoError(t, f.ledger.Create(row))
	require.NoError(t, f.ledger.FinalizeSuccess(row.ID, nil, models.JSONMap{}))

	// the row is already terminal, so the success transition cannot persist
	_, _, err := f.processor.run(f.ctx(), row.ID, f.client.ID,
		[]byte(`<Order><Number>PO-10</Number></Order>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to finalize processed file")
}

func TestProcess_InactiveInterfaceIsInvisible(t *testing.T) {
	f := newFixture(t)

	ifaces, err := f.interfaces.ListByClient(f.client.ID)
	require.NoError(t, err)
	require.Len(t, ifaces, 1)
	ifaces[0].IsActive = false
	require.NoError(t, f.interfaces.Update(&ifaces[0]))

	file, err := f.processor.Process(f.ctx(), "order-7.xml",
		[]byte(`<Order><Number>PO-7</Number></Order>`))
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, file.Status)
	assert.Contains(t, file.ErrorMessage, "could not detect interface")
}
