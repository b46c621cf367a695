package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/pkg/database"
)

// RecordRepository persists pipeline outcomes: document status transitions,
// classification results, typed extracted records, and the processing log.
// It satisfies the orchestrator's record store contract.
type RecordRepository struct {
	db *database.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *database.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// SetStatus updates the processing status of a document
func (r *RecordRepository) SetStatus(ctx context.Context, documentID string, status domain.ProcessingStatus) error {
	query := `
		UPDATE documents
		SET processing_status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, documentID, status)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("document %s not found", documentID)
	}
	return nil
}

// SetClassification records the classification result on the document
func (r *RecordRepository) SetClassification(ctx context.Context, documentID string, docType domain.DocumentType, confidence float64) error {
	query := `
		UPDATE documents
		SET document_type = $2, classification_confidence = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, documentID, docType, confidence); err != nil {
		return fmt.Errorf("update document classification: %w", err)
	}
	return nil
}

// AppendCapitalCall inserts a capital call record for the document
func (r *RecordRepository) AppendCapitalCall(ctx context.Context, documentID string, fields domain.CapitalCallFields) error {
	query := `
		INSERT INTO capital_calls (id, document_id, fund_id, call_date, lp_id, call_amount, currency, call_number, extraction_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		documentID,
		fields.FundID,
		fields.CallDate,
		fields.LPID,
		fields.CallAmount,
		fields.Currency,
		fields.CallNumber,
		fields.ExtractionConfidence,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert capital call: %w", err)
	}
	return nil
}

// AppendDistribution inserts a distribution record for the document
func (r *RecordRepository) AppendDistribution(ctx context.Context, documentID string, fields domain.DistributionFields) error {
	query := `
		INSERT INTO distributions (id, document_id, fund_id, distribution_date, lp_id, distribution_amount, distribution_type, currency, extraction_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		documentID,
		fields.FundID,
		fields.DistributionDate,
		fields.LPID,
		fields.DistributionAmount,
		fields.DistributionType,
		fields.Currency,
		fields.ExtractionConfidence,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert distribution: %w", err)
	}
	return nil
}

// AppendValuation inserts a valuation record for the document
func (r *RecordRepository) AppendValuation(ctx context.Context, documentID string, fields domain.ValuationFields) error {
	multiples, err := json.Marshal(fields.Multiples)
	if err != nil {
		return fmt.Errorf("marshal valuation multiples: %w", err)
	}

	// nil pointer must reach the driver as SQL NULL, not a typed nil
	var discountRate interface{}
	if fields.DiscountRate != nil {
		discountRate = *fields.DiscountRate
	}

	query := `
		INSERT INTO valuations (id, document_id, valuation_date, methodology, discount_rate, multiples, final_valuation, currency, extraction_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		uuid.New().String(),
		documentID,
		fields.ValuationDate,
		fields.Methodology,
		discountRate,
		multiples,
		fields.FinalValuation,
		fields.Currency,
		fields.ExtractionConfidence,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert valuation: %w", err)
	}
	return nil
}

// AppendLog appends a processing log entry for the document
func (r *RecordRepository) AppendLog(ctx context.Context, documentID, stage string, status domain.ProcessingStatus, message string, executionTimeMs *int64) error {
	query := `
		INSERT INTO processing_logs (document_id, stage, status, message, execution_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.ExecContext(ctx, query, documentID, stage, status, message, executionTimeMs); err != nil {
		return fmt.Errorf("insert processing log: %w", err)
	}
	return nil
}

// ListLogs returns the processing log entries for a document in append order
func (r *RecordRepository) ListLogs(ctx context.Context, documentID string) ([]*domain.ProcessingLogEntry, error) {
	query := `
		SELECT id, document_id, stage, status, message, execution_time_ms, created_at
		FROM processing_logs
		WHERE document_id = $1
		ORDER BY created_at, id
	`

	logs := []*domain.ProcessingLogEntry{}
	if err := r.db.SelectContext(ctx, &logs, query, documentID); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetCapitalCallByDocument returns the capital call record extracted from a
// document, or nil when none exists
func (r *RecordRepository) GetCapitalCallByDocument(ctx context.Context, documentID string) (*domain.CapitalCall, error) {
	query := `
		SELECT id, document_id, fund_id, call_date, lp_id, call_amount, currency, call_number, extraction_confidence, created_at
		FROM capital_calls
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var call domain.CapitalCall
	if err := r.db.GetContext(ctx, &call, query, documentID); err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &call, nil
}

// GetDistributionByDocument returns the distribution record extracted from a
// document, or nil when none exists
func (r *RecordRepository) GetDistributionByDocument(ctx context.Context, documentID string) (*domain.Distribution, error) {
	query := `
		SELECT id, document_id, fund_id, distribution_date, lp_id, distribution_amount, distribution_type, currency, extraction_confidence, created_at
		FROM distributions
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var dist domain.Distribution
	if err := r.db.GetContext(ctx, &dist, query, documentID); err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &dist, nil
}

// GetValuationByDocument returns the valuation record extracted from a
// document, or nil when none exists
func (r *RecordRepository) GetValuationByDocument(ctx context.Context, documentID string) (*domain.Valuation, error) {
	query := `
		SELECT id, document_id, valuation_date, methodology, discount_rate, multiples, final_valuation, currency, extraction_confidence, created_at
		FROM valuations
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var val domain.Valuation
	if err := r.db.GetContext(ctx, &val, query, documentID); err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &val, nil
}

// RecordFilter contains filter options for record listings
type RecordFilter struct {
	FundID    string
	StartDate string
	EndDate   string
}

// ListCapitalCalls lists capital call records with optional fund and date filtering
func (r *RecordRepository) ListCapitalCalls(ctx context.Context, filter *RecordFilter, limit, offset int) ([]*domain.CapitalCall, error) {
	query := `
		SELECT id, document_id, fund_id, call_date, lp_id, call_amount, currency, call_number, extraction_confidence, created_at
		FROM capital_calls
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil {
		if filter.FundID != "" {
			args = append(args, filter.FundID)
			query += fmt.Sprintf(" AND fund_id = $%d", len(args))
		}
		if filter.StartDate != "" {
			args = append(args, filter.StartDate)
			query += fmt.Sprintf(" AND call_date >= $%d::date", len(args))
		}
		if filter.EndDate != "" {
			args = append(args, filter.EndDate)
			query += fmt.Sprintf(" AND call_date <= $%d::date", len(args))
		}
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY call_date DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	calls := []*domain.CapitalCall{}
	if err := r.db.SelectContext(ctx, &calls, query, args...); err != nil {
		return nil, err
	}
	return calls, nil
}

// ListDistributions lists distribution records with optional fund and date filtering
func (r *RecordRepository) ListDistributions(ctx context.Context, filter *RecordFilter, limit, offset int) ([]*domain.Distribution, error) {
	query := `
		SELECT id, document_id, fund_id, distribution_date, lp_id, distribution_amount, distribution_type, currency, extraction_confidence, created_at
		FROM distributions
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil {
		if filter.FundID != "" {
			args = append(args, filter.FundID)
			query += fmt.Sprintf(" AND fund_id = $%d", len(args))
		}
		if filter.StartDate != "" {
			args = append(args, filter.StartDate)
			query += fmt.Sprintf(" AND distribution_date >= $%d::date", len(args))
		}
		if filter.EndDate != "" {
			args = append(args, filter.EndDate)
			query += fmt.Sprintf(" AND distribution_date <= $%d::date", len(args))
		}
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY distribution_date DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	dists := []*domain.Distribution{}
	if err := r.db.SelectContext(ctx, &dists, query, args...); err != nil {
		return nil, err
	}
	return dists, nil
}
