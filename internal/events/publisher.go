// Package events publishes processing outcomes to NATS so downstream
// consumers (notifiers, downstream loaders) can react to finished files.
package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"xmlprocessor/internal/models"
)

// SubjectFileProcessed is the subject processing outcomes are published on.
const SubjectFileProcessed = "files.processed"

// FileProcessedEvent is the wire payload for one finished processing attempt.
type FileProcessedEvent struct {
	ProcessedFileID string `json:"processed_file_id"`
	ClientID        string `json:"client_id,omitempty"`
	InterfaceID     string `json:"interface_id,omitempty"`
	FileName        string `json:"file_name"`
	Status          string `json:"status"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

// Publisher sends processing outcomes to NATS. A nil Publisher is valid and
// publishes nothing, so the pipeline runs without a broker configured.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the NATS server at natsURL.
func Connect(natsURL string) (*Publisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS at %s: %w", natsURL, err)
	}
	log.Printf("Connected to NATS server: %s", natsURL)
	return &Publisher{conn: nc}, nil
}

func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}

// PublishProcessed emits one FileProcessedEvent for a finalized ledger row.
// Publish failures are logged, not propagated: the ledger row is the source
// of truth and the event is best-effort.
func (p *Publisher) PublishProcessed(file *models.ProcessedFile) {
	if p == nil || p.conn == nil {
		return
	}
	event := FileProcessedEvent{
		ProcessedFileID: file.ID.String(),
		FileName:        file.FileName,
		Status:          file.Status,
		ErrorMessage:    file.ErrorMessage,
	}
	if file.ClientID != nil {
		event.ClientID = file.ClientID.String()
	}
	if file.InterfaceID != nil {
		event.InterfaceID = file.InterfaceID.String()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal file processed event for %s: %v", file.ID, err)
		return
	}
	if err := p.conn.Publish(SubjectFileProcessed, payload); err != nil {
		log.Printf("Failed to publish file processed event for %s: %v", file.ID, err)
	}
}
