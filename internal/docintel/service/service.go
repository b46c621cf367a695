package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/internal/docintel/events"
	"github.com/fundflow/fundflow-backend/internal/docintel/pipeline"
	"github.com/fundflow/fundflow-backend/internal/docintel/repository"
	"github.com/fundflow/fundflow-backend/internal/docintel/storage"
	"github.com/fundflow/fundflow-backend/pkg/database"
	apperrors "github.com/fundflow/fundflow-backend/pkg/errors"
	"github.com/fundflow/fundflow-backend/pkg/httputil"
	"github.com/fundflow/fundflow-backend/pkg/logger"
	"github.com/fundflow/fundflow-backend/pkg/messaging"
)

// Service coordinates document intake, background processing, and queries
type Service struct {
	docs         *repository.DocumentRepository
	records      *repository.RecordRepository
	texts        *storage.TextStore
	orchestrator *pipeline.Orchestrator
	events       *events.DocumentEventPublisher
	maxTextSize  int64
	log          *logger.Logger
}

// New creates the document service
func New(
	docs *repository.DocumentRepository,
	records *repository.RecordRepository,
	texts *storage.TextStore,
	orchestrator *pipeline.Orchestrator,
	publisher *events.DocumentEventPublisher,
	maxTextSize int64,
	log *logger.Logger,
) *Service {
	return &Service{
		docs:         docs,
		records:      records,
		texts:        texts,
		orchestrator: orchestrator,
		events:       publisher,
		maxTextSize:  maxTextSize,
		log:          log.WithComponent("service"),
	}
}

// Ingest registers a new document and launches processing in the background.
// The returned document is in pending state; processing outcome is observed
// through the document status and the processing log.
func (s *Service) Ingest(ctx context.Context, filename, text string) (*domain.Document, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, apperrors.BadRequest("filename is required")
	}
	if int64(len(text)) > s.maxTextSize {
		return nil, apperrors.BadRequest(fmt.Sprintf("document text exceeds maximum size of %d bytes", s.maxTextSize))
	}

	hash := sha256.Sum256([]byte(text))
	contentHash := hex.EncodeToString(hash[:])

	doc := &domain.Document{
		OriginalFilename: filename,
		FileSize:         int64(len(text)),
		ContentHash:      &contentHash,
		ProcessingStatus: domain.StatusPending,
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		s.log.Error().Err(err).Str("filename", filename).Msg("failed to create document")
		return nil, apperrors.Internal("failed to create document")
	}

	s.texts.Put(doc.ID, text)

	if s.events != nil {
		// correlate the uploaded event with the originating request
		eventCtx := messaging.WithCorrelationID(ctx, httputil.GetRequestID(ctx))
		s.events.PublishDocumentUploaded(eventCtx, doc)
	}

	s.log.Info().
		Str("document_id", doc.ID).
		Str("filename", filename).
		Int64("file_size", doc.FileSize).
		Msg("document ingested")

	go s.processAsync(doc.ID)

	return doc, nil
}

// Reprocess relaunches the pipeline for an existing document. The run appends
// to the existing processing log rather than replacing it, and fails at the
// text intake stage when the stored text has expired.
func (s *Service) Reprocess(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperrors.NotFound("document")
		}
		return nil, apperrors.Internal("failed to load document")
	}

	s.log.Info().Str("document_id", documentID).Msg("document reprocessing requested")

	go s.processAsync(documentID)

	return doc, nil
}

// processAsync runs the pipeline on a detached context so the run outlives
// the originating HTTP request
func (s *Service) processAsync(documentID string) {
	ctx := context.Background()

	if err := s.orchestrator.ProcessDocument(ctx, documentID); err != nil {
		if s.events != nil {
			s.events.PublishProcessingFailed(ctx, documentID, err.Error())
		}
		return
	}

	if s.events == nil {
		return
	}

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		s.log.WithDocumentID(documentID).Error().Err(err).Msg("failed to load document after processing")
		return
	}

	docType := domain.DocumentTypeUnknown
	if doc.DocumentType != nil {
		docType = *doc.DocumentType
	}
	s.events.PublishProcessingCompleted(ctx, documentID, docType, doc.ClassificationConfidence)
}

// DocumentWithData pairs a document with its extracted record, when one exists
type DocumentWithData struct {
	*domain.Document
	ExtractedData interface{} `json:"extracted_data,omitempty"`
}

// GetDocument returns a document along with the typed record extracted from it
func (s *Service) GetDocument(ctx context.Context, documentID string) (*DocumentWithData, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperrors.NotFound("document")
		}
		return nil, apperrors.Internal("failed to load document")
	}

	result := &DocumentWithData{Document: doc}
	if doc.DocumentType == nil {
		return result, nil
	}

	switch *doc.DocumentType {
	case domain.DocumentTypeCapitalCall:
		call, err := s.records.GetCapitalCallByDocument(ctx, documentID)
		if err != nil {
			return nil, apperrors.Internal("failed to load capital call record")
		}
		if call != nil {
			result.ExtractedData = call
		}
	case domain.DocumentTypeDistribution:
		dist, err := s.records.GetDistributionByDocument(ctx, documentID)
		if err != nil {
			return nil, apperrors.Internal("failed to load distribution record")
		}
		if dist != nil {
			result.ExtractedData = dist
		}
	case domain.DocumentTypeValuation:
		val, err := s.records.GetValuationByDocument(ctx, documentID)
		if err != nil {
			return nil, apperrors.Internal("failed to load valuation record")
		}
		if val != nil {
			result.ExtractedData = val
		}
	}

	return result, nil
}

// ListDocuments lists documents with optional type and status filtering
func (s *Service) ListDocuments(ctx context.Context, filter *repository.ListFilter, limit, offset int) ([]*domain.Document, error) {
	docs, err := s.docs.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("failed to list documents")
	}
	return docs, nil
}

// ListLogs returns the processing log for a document
func (s *Service) ListLogs(ctx context.Context, documentID string) ([]*domain.ProcessingLogEntry, error) {
	if _, err := s.docs.GetByID(ctx, documentID); err != nil {
		if database.IsNotFound(err) {
			return nil, apperrors.NotFound("document")
		}
		return nil, apperrors.Internal("failed to load document")
	}

	logs, err := s.records.ListLogs(ctx, documentID)
	if err != nil {
		return nil, apperrors.Internal("failed to list processing logs")
	}
	return logs, nil
}

// ListCapitalCalls lists capital call records with optional fund and date filtering
func (s *Service) ListCapitalCalls(ctx context.Context, filter *repository.RecordFilter, limit, offset int) ([]*domain.CapitalCall, error) {
	calls, err := s.records.ListCapitalCalls(ctx, filter, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("failed to list capital calls")
	}
	return calls, nil
}

// ListDistributions lists distribution records with optional fund and date filtering
func (s *Service) ListDistributions(ctx context.Context, filter *repository.RecordFilter, limit, offset int) ([]*domain.Distribution, error) {
	dists, err := s.records.ListDistributions(ctx, filter, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("failed to list distributions")
	}
	return dists, nil
}

// DashboardAnalytics returns document and fund aggregates for the dashboard
func (s *Service) DashboardAnalytics(ctx context.Context) (*repository.DashboardAnalytics, error) {
	analytics, err := s.docs.DashboardAnalytics(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load analytics")
	}
	return analytics, nil
}
