// Package pipeline ties detection, extraction, the ledger and the aggregator
// into one document-processing entry point.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"xmlprocessor/internal/detect"
	"xmlprocessor/internal/events"
	"xmlprocessor/internal/mapping"
	"xmlprocessor/internal/metrics"
	"xmlprocessor/internal/models"
	"xmlprocessor/internal/store"
	"xmlprocessor/internal/tenant"
	"xmlprocessor/internal/xmldoc"
)

// Processor runs one processing attempt per call. Every attempt yields
// exactly one ledger row finalized exactly once; expected failures (bad
// document, no matching interface, failed extraction) become ERROR rows, not
// returned errors. The returned error is non-nil only for infrastructure
// faults (persistence unavailable) or cancellation before a row exists.
type Processor struct {
	detector   *detect.Detector
	engine     *mapping.Engine
	ledger     *store.ProcessedFileStore
	aggregator *metrics.Aggregator
	publisher  *events.Publisher
}

func NewProcessor(detector *detect.Detector, engine *mapping.Engine, ledger *store.ProcessedFileStore, aggregator *metrics.Aggregator, publisher *events.Publisher) *Processor {
	return &Processor{
		detector:   detector,
		engine:     engine,
		ledger:     ledger,
		aggregator: aggregator,
		publisher:  publisher,
	}
}

// Process parses, classifies and extracts one XML document on behalf of the
// client carried by ctx. Cancellation is checked between phases: before the
// ledger row exists it aborts without a write, afterwards it finalizes the
// row as ERROR "processing cancelled".
func (p *Processor) Process(ctx context.Context, fileName string, data []byte) (*models.ProcessedFile, error) {
	start := time.Now()

	client, ok := tenant.FromContext(ctx)
	if !ok {
		// Degraded path: no resolvable client. The attempt is still recorded,
		// with no client reference and no metrics attribution.
		log.Printf("Processing %s with no client context", fileName)
		return p.recordOrphan(fileName)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCancelled, err)
	}

	row := &models.ProcessedFile{
		ClientID: &client.ID,
		FileName: fileName,
		Status:   models.StatusProcessing,
	}
	if err := p.ledger.Create(row); err != nil {
		return nil, fmt.Errorf("failed to create processed file record: %w", err)
	}

	file, failed, err := p.run(ctx, row.ID, client.ID, data)
	if err != nil {
		return nil, err
	}

	latency := time.Since(start)
	p.aggregator.RecordRequest(client.ID, latency)
	if failed {
		p.aggregator.RecordError(client.ID)
	}
	if file != nil {
		p.publisher.PublishProcessed(file)
	}
	return file, nil
}

// run executes parse/detect/extract and finalizes the row. It reports whether
// the attempt ended in ERROR. A non-nil error means the terminal state could
// not be persisted; it propagates to the caller as an infrastructure fault.
func (p *Processor) run(ctx context.Context, rowID, clientID uuid.UUID, data []byte) (*models.ProcessedFile, bool, error) {
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return p.finalizeError(rowID, nil, err)
	}
	if err := ctx.Err(); err != nil {
		return p.finalizeError(rowID, nil, models.ErrCancelled)
	}

	iface, err := p.detector.Detect(doc, clientID)
	if err != nil {
		return p.finalizeError(rowID, nil, err)
	}
	if err := ctx.Err(); err != nil {
		return p.finalizeError(rowID, &iface.ID, models.ErrCancelled)
	}

	record, err := p.engine.Extract(doc, iface)
	if err != nil {
		if errors.Is(err, models.ErrConfigurationNotFound) {
			// the interface vanished mid-flight, never stamp a reference
			// to a row nothing can resolve anymore
			return p.finalizeError(rowID, nil, err)
		}
		return p.finalizeError(rowID, &iface.ID, err)
	}

	if err := p.ledger.FinalizeSuccess(rowID, &iface.ID, record); err != nil {
		return nil, true, fmt.Errorf("failed to finalize processed file %s: %w", rowID, err)
	}
	return p.reload(rowID), false, nil
}

func (p *Processor) finalizeError(rowID uuid.UUID, interfaceID *uuid.UUID, cause error) (*models.ProcessedFile, bool, error) {
	msg := cause.Error()
	if errors.Is(cause, models.ErrCancelled) {
		msg = "processing cancelled"
	}
	if err := p.ledger.FinalizeError(rowID, interfaceID, msg); err != nil {
		log.Printf("Failed to finalize processed file %s as error: %v", rowID, err)
	}
	return p.reload(rowID), true, nil
}

// recordOrphan writes the degraded-mode ERROR row for an attempt with no
// client context.
func (p *Processor) recordOrphan(fileName string) (*models.ProcessedFile, error) {
	row := &models.ProcessedFile{
		FileName: fileName,
		Status:   models.StatusProcessing,
	}
	if err := p.ledger.Create(row); err != nil {
		return nil, fmt.Errorf("failed to create processed file record: %w", err)
	}
	if err := p.ledger.FinalizeError(row.ID, nil, models.ErrTenantContextMissing.Error()); err != nil {
		log.Printf("Failed to finalize orphan processed file %s: %v", row.ID, err)
	}
	file := p.reload(row.ID)
	p.publisher.PublishProcessed(file)
	return file, nil
}

func (p *Processor) reload(rowID uuid.UUID) *models.ProcessedFile {
	file, err := p.ledger.GetByID(rowID)
	if err != nil {
		log.Printf("Failed to reload processed file %s: %v", rowID, err)
		return &models.ProcessedFile{ID: rowID}
	}
	return file
}
