package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/pkg/database"
)

// DocumentRepository handles document persistence
type DocumentRepository struct {
	db *database.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new document record in pending state
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.ProcessingStatus == "" {
		doc.ProcessingStatus = domain.StatusPending
	}

	query := `
		INSERT INTO documents (id, original_filename, file_size, content_hash, processing_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		doc.ID,
		doc.OriginalFilename,
		doc.FileSize,
		doc.ContentHash,
		doc.ProcessingStatus,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
}

// GetByID returns a document by its identifier
func (r *DocumentRepository) GetByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `
		SELECT id, original_filename, file_size, content_hash, document_type,
		       classification_confidence, processing_status, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	if err := r.db.GetContext(ctx, &doc, query, documentID); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListFilter contains filter options for document listing
type ListFilter struct {
	DocumentType string
	Status       string
}

// List lists documents with optional filtering, newest first
func (r *DocumentRepository) List(ctx context.Context, filter *ListFilter, limit, offset int) ([]*domain.Document, error) {
	query := `
		SELECT id, original_filename, file_size, content_hash, document_type,
		       classification_confidence, processing_status, created_at, updated_at
		FROM documents
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil {
		if filter.DocumentType != "" {
			args = append(args, filter.DocumentType)
			query += fmt.Sprintf(" AND document_type = $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			query += fmt.Sprintf(" AND processing_status = $%d", len(args))
		}
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	docs := []*domain.Document{}
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, err
	}
	return docs, nil
}

// TypeCount is a per-category document count
type TypeCount struct {
	DocumentType string `db:"document_type" json:"document_type"`
	Count        int64  `db:"count" json:"count"`
}

// StatusCount is a per-status document count
type StatusCount struct {
	ProcessingStatus string `db:"processing_status" json:"processing_status"`
	Count            int64  `db:"count" json:"count"`
}

// FundSummary aggregates capital call totals per fund
type FundSummary struct {
	FundID     string          `db:"fund_id" json:"fund_id"`
	TotalCalls decimal.Decimal `db:"total_calls" json:"total_calls"`
	CallCount  int64           `db:"call_count" json:"call_count"`
}

// DashboardAnalytics holds the dashboard aggregates
type DashboardAnalytics struct {
	DocumentTypes    []TypeCount   `json:"document_types"`
	ProcessingStatus []StatusCount `json:"processing_status"`
	RecentDocuments  int64         `json:"recent_documents"`
	FundSummary      []FundSummary `json:"fund_summary"`
}

// DashboardAnalytics returns document and fund aggregates for the dashboard
func (r *DocumentRepository) DashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error) {
	analytics := &DashboardAnalytics{
		DocumentTypes:    []TypeCount{},
		ProcessingStatus: []StatusCount{},
		FundSummary:      []FundSummary{},
	}

	typeQuery := `
		SELECT document_type, COUNT(*) as count
		FROM documents
		WHERE document_type IS NOT NULL
		GROUP BY document_type
	`
	if err := r.db.SelectContext(ctx, &analytics.DocumentTypes, typeQuery); err != nil {
		return nil, err
	}

	statusQuery := `
		SELECT processing_status, COUNT(*) as count
		FROM documents
		GROUP BY processing_status
	`
	if err := r.db.SelectContext(ctx, &analytics.ProcessingStatus, statusQuery); err != nil {
		return nil, err
	}

	recentQuery := `
		SELECT COUNT(*)
		FROM documents
		WHERE created_at >= NOW() - INTERVAL '24 hours'
	`
	if err := r.db.GetContext(ctx, &analytics.RecentDocuments, recentQuery); err != nil {
		return nil, err
	}

	fundQuery := `
		SELECT cc.fund_id, SUM(cc.call_amount) as total_calls, COUNT(cc.id) as call_count
		FROM capital_calls cc
		GROUP BY cc.fund_id
		ORDER BY total_calls DESC
		LIMIT 10
	`
	if err := r.db.SelectContext(ctx, &analytics.FundSummary, fundQuery); err != nil {
		return nil, err
	}

	return analytics, nil
}
