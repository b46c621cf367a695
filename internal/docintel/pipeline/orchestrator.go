package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fundflow/fundflow-backend/internal/docintel/classifier"
	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/internal/docintel/extractor"
	"github.com/fundflow/fundflow-backend/pkg/logger"
)

// ErrTextUnavailable indicates that the text intake returned nothing for a
// document. Fatal for the run.
var ErrTextUnavailable = errors.New("no text could be extracted from document")

// TextSource provides the full text content for a document identifier.
// An empty result is treated as a stage failure by the orchestrator.
type TextSource interface {
	Text(ctx context.Context, documentID string) (string, error)
}

// RecordStore persists document status, classification results, typed
// extracted records, and processing log entries. Each call is an individually
// atomic single-record write; the multi-step run as a whole is not
// transactional.
type RecordStore interface {
	SetStatus(ctx context.Context, documentID string, status domain.ProcessingStatus) error
	SetClassification(ctx context.Context, documentID string, docType domain.DocumentType, confidence float64) error
	AppendCapitalCall(ctx context.Context, documentID string, fields domain.CapitalCallFields) error
	AppendDistribution(ctx context.Context, documentID string, fields domain.DistributionFields) error
	AppendValuation(ctx context.Context, documentID string, fields domain.ValuationFields) error
	AppendLog(ctx context.Context, documentID, stage string, status domain.ProcessingStatus, message string, executionTimeMs *int64) error
}

// Orchestrator drives a single document through the pipeline:
// text intake → classification → conditional field extraction → persistence.
// It holds no state across runs; each run is independent and reentrant.
type Orchestrator struct {
	classifier *classifier.Classifier
	extractor  *extractor.Extractor
	store      RecordStore
	texts      TextSource
	log        *logger.Logger
}

// NewOrchestrator creates a processing orchestrator
func NewOrchestrator(cls *classifier.Classifier, ext *extractor.Extractor, store RecordStore, texts TextSource, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		classifier: cls,
		extractor:  ext,
		store:      store,
		texts:      texts,
		log:        log.WithComponent("pipeline"),
	}
}

// ProcessDocument runs one processing pass for the document. Any failure in
// the run is caught once here: the document is marked failed, an error log
// entry is appended, and the run terminates with no retry and no rollback of
// already-persisted writes. The returned error reports the terminal outcome
// to the hosting layer; callers otherwise observe the run only through the
// document status and the processing log.
func (o *Orchestrator) ProcessDocument(ctx context.Context, documentID string) error {
	start := time.Now()

	if err := o.run(ctx, documentID, start); err != nil {
		o.log.Error().Err(err).Str("document_id", documentID).Msg("document processing failed")

		if serr := o.store.SetStatus(ctx, documentID, domain.StatusFailed); serr != nil {
			o.log.Error().Err(serr).Str("document_id", documentID).Msg("failed to mark document failed")
		}
		message := fmt.Sprintf("error during processing: %v", err)
		if lerr := o.store.AppendLog(ctx, documentID, domain.StageError, domain.StatusFailed, message, nil); lerr != nil {
			o.log.Error().Err(lerr).Str("document_id", documentID).Msg("failed to append error log entry")
		}
		return err
	}

	return nil
}

func (o *Orchestrator) run(ctx context.Context, documentID string, start time.Time) error {
	if err := o.store.AppendLog(ctx, documentID, domain.StageStart, domain.StatusProcessing, "starting document processing", nil); err != nil {
		return fmt.Errorf("log start stage: %w", err)
	}
	if err := o.store.SetStatus(ctx, documentID, domain.StatusProcessing); err != nil {
		return fmt.Errorf("set processing status: %w", err)
	}

	text, err := o.texts.Text(ctx, documentID)
	if err != nil {
		return fmt.Errorf("text intake: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return ErrTextUnavailable
	}
	message := fmt.Sprintf("extracted %d characters", len(text))
	if err := o.store.AppendLog(ctx, documentID, domain.StageTextExtraction, domain.StatusCompleted, message, nil); err != nil {
		return fmt.Errorf("log text extraction stage: %w", err)
	}

	docType, confidence := o.classifier.Classify(text)
	o.log.Debug().
		Str("document_id", documentID).
		Str("document_type", string(docType)).
		Float64("confidence", confidence).
		Msg("document classified")

	message = fmt.Sprintf("classified as %s with confidence %s", docType, strconv.FormatFloat(confidence, 'g', -1, 64))
	if err := o.store.AppendLog(ctx, documentID, domain.StageClassification, domain.StatusCompleted, message, nil); err != nil {
		return fmt.Errorf("log classification stage: %w", err)
	}
	if err := o.store.SetClassification(ctx, documentID, docType, confidence); err != nil {
		return fmt.Errorf("persist classification: %w", err)
	}

	// Field extraction only runs for categories with an extraction routine.
	// quarterly_update and unknown are skipped without error.
	fieldCount := 0
	switch docType {
	case domain.DocumentTypeCapitalCall:
		fields := o.extractor.ExtractCapitalCall(text)
		if err := o.store.AppendCapitalCall(ctx, documentID, fields); err != nil {
			return fmt.Errorf("persist capital call: %w", err)
		}
		fieldCount = fields.FieldCount()

	case domain.DocumentTypeDistribution:
		fields := o.extractor.ExtractDistribution(text)
		if err := o.store.AppendDistribution(ctx, documentID, fields); err != nil {
			return fmt.Errorf("persist distribution: %w", err)
		}
		fieldCount = fields.FieldCount()

	case domain.DocumentTypeValuation:
		fields := o.extractor.ExtractValuation(text)
		if err := o.store.AppendValuation(ctx, documentID, fields); err != nil {
			return fmt.Errorf("persist valuation: %w", err)
		}
		fieldCount = fields.FieldCount()
	}

	if fieldCount > 0 {
		message = fmt.Sprintf("extracted %d fields", fieldCount)
		if err := o.store.AppendLog(ctx, documentID, domain.StageFieldExtraction, domain.StatusCompleted, message, nil); err != nil {
			return fmt.Errorf("log field extraction stage: %w", err)
		}
	}

	if err := o.store.SetStatus(ctx, documentID, domain.StatusCompleted); err != nil {
		return fmt.Errorf("set completed status: %w", err)
	}

	elapsed := time.Since(start).Milliseconds()
	if err := o.store.AppendLog(ctx, documentID, domain.StageComplete, domain.StatusCompleted, "document processing completed successfully", &elapsed); err != nil {
		return fmt.Errorf("log complete stage: %w", err)
	}

	o.log.Info().
		Str("document_id", documentID).
		Str("document_type", string(docType)).
		Int64("duration_ms", elapsed).
		Msg("document processing completed")

	return nil
}
