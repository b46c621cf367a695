package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Document lifecycle events
	EventDocumentUploaded            = "document.uploaded"
	EventDocumentProcessingCompleted = "document.processing.completed"
	EventDocumentProcessingFailed    = "document.processing.failed"
)

// Exchange names
const (
	ExchangeDocumentEvents = "document.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// GenerateEventID creates a unique event identifier
func GenerateEventID() string {
	return uuid.New().String()
}

// DocumentUploadedEvent is published when a document enters the pipeline
type DocumentUploadedEvent struct {
	DocumentID       string `json:"document_id"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
}

// DocumentProcessedEvent is published when a processing run reaches a terminal state
type DocumentProcessedEvent struct {
	DocumentID   string   `json:"document_id"`
	DocumentType string   `json:"document_type,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	Status       string   `json:"status"`
}

// DocumentFailedEvent is published when a processing run ends in failure
type DocumentFailedEvent struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}
