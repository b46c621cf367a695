package events

import (
	"context"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/pkg/logger"
	"github.com/fundflow/fundflow-backend/pkg/messaging"
)

// DocumentEventPublisher publishes document lifecycle events.
// Publish failures are logged and swallowed; event delivery is best-effort
// and never blocks or fails the pipeline.
type DocumentEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewDocumentEventPublisher creates a publisher bound to the document events exchange
func NewDocumentEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*DocumentEventPublisher, error) {
	pub, err := messaging.NewPublisher(rmq, messaging.ExchangeDocumentEvents, "document-service", log)
	if err != nil {
		return nil, err
	}

	return &DocumentEventPublisher{
		publisher: pub,
		logger:    log.WithComponent("events"),
	}, nil
}

// PublishDocumentUploaded announces that a document entered the pipeline
func (p *DocumentEventPublisher) PublishDocumentUploaded(ctx context.Context, doc *domain.Document) {
	event := messaging.DocumentUploadedEvent{
		DocumentID:       doc.ID,
		OriginalFilename: doc.OriginalFilename,
		FileSize:         doc.FileSize,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDocumentUploaded, event); err != nil {
		p.logger.Error().Err(err).Str("document_id", doc.ID).Msg("failed to publish document uploaded event")
	}
}

// PublishProcessingCompleted announces a successful processing run
func (p *DocumentEventPublisher) PublishProcessingCompleted(ctx context.Context, documentID string, docType domain.DocumentType, confidence *float64) {
	event := messaging.DocumentProcessedEvent{
		DocumentID:   documentID,
		DocumentType: string(docType),
		Confidence:   confidence,
		Status:       string(domain.StatusCompleted),
	}

	if err := p.publisher.Publish(ctx, messaging.EventDocumentProcessingCompleted, event); err != nil {
		p.logger.Error().Err(err).Str("document_id", documentID).Msg("failed to publish processing completed event")
	}
}

// PublishProcessingFailed announces a failed processing run
func (p *DocumentEventPublisher) PublishProcessingFailed(ctx context.Context, documentID, reason string) {
	event := messaging.DocumentFailedEvent{
		DocumentID: documentID,
		Reason:     reason,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDocumentProcessingFailed, event); err != nil {
		p.logger.Error().Err(err).Str("document_id", documentID).Msg("failed to publish processing failed event")
	}
}
