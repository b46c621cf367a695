package domain

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// DocumentType represents the category of an investment document
type DocumentType string

const (
	DocumentTypeCapitalCall     DocumentType = "capital_call"
	DocumentTypeDistribution    DocumentType = "distribution"
	DocumentTypeValuation       DocumentType = "valuation"
	DocumentTypeQuarterlyUpdate DocumentType = "quarterly_update"
	DocumentTypeUnknown         DocumentType = "unknown"
)

// ProcessingStatus represents the processing state of a document
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Pipeline stage names, part of the processing log contract
const (
	StageStart           = "start"
	StageTextExtraction  = "text_extraction"
	StageClassification  = "classification"
	StageFieldExtraction = "field_extraction"
	StageComplete        = "complete"
	StageError           = "error"
)

// DistributionType distinguishes return of capital from capital income
type DistributionType string

const (
	DistributionTypeROC DistributionType = "ROC"
	DistributionTypeCI  DistributionType = "CI"
)

// Document is the persisted record tracking a document through the pipeline.
// DocumentType and ClassificationConfidence stay nil until the classification
// stage sets them; they are written exactly once per run.
type Document struct {
	ID                       string           `db:"id" json:"id"`
	OriginalFilename         string           `db:"original_filename" json:"original_filename"`
	FileSize                 int64            `db:"file_size" json:"file_size"`
	ContentHash              *string          `db:"content_hash" json:"content_hash,omitempty"`
	DocumentType             *DocumentType    `db:"document_type" json:"document_type,omitempty"`
	ClassificationConfidence *float64         `db:"classification_confidence" json:"classification_confidence,omitempty"`
	ProcessingStatus         ProcessingStatus `db:"processing_status" json:"processing_status"`
	CreatedAt                time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time        `db:"updated_at" json:"updated_at"`
}

// CapitalCallFields holds the structured fields extracted from a capital call notice.
// Every field carries a fallback default, so none is ever absent.
type CapitalCallFields struct {
	FundID               string          `json:"fund_id"`
	CallDate             time.Time       `json:"call_date"`
	LPID                 string          `json:"lp_id"`
	CallAmount           decimal.Decimal `json:"call_amount"`
	Currency             string          `json:"currency"`
	CallNumber           int             `json:"call_number"`
	ExtractionConfidence float64         `json:"extraction_confidence"`
}

// FieldCount returns the number of fields in the extraction output
func (f CapitalCallFields) FieldCount() int { return 7 }

// DistributionFields holds the structured fields extracted from a distribution notice
type DistributionFields struct {
	FundID               string           `json:"fund_id"`
	DistributionDate     time.Time        `json:"distribution_date"`
	LPID                 string           `json:"lp_id"`
	DistributionAmount   decimal.Decimal  `json:"distribution_amount"`
	DistributionType     DistributionType `json:"distribution_type"`
	Currency             string           `json:"currency"`
	ExtractionConfidence float64          `json:"extraction_confidence"`
}

// FieldCount returns the number of fields in the extraction output
func (f DistributionFields) FieldCount() int { return 7 }

// ValuationFields holds the structured fields extracted from a valuation report
type ValuationFields struct {
	ValuationDate        time.Time         `json:"valuation_date"`
	Methodology          string            `json:"methodology"`
	DiscountRate         *decimal.Decimal  `json:"discount_rate,omitempty"`
	Multiples            map[string]string `json:"multiples"`
	FinalValuation       decimal.Decimal   `json:"final_valuation"`
	Currency             string            `json:"currency"`
	ExtractionConfidence float64           `json:"extraction_confidence"`
}

// FieldCount returns the number of fields in the extraction output
func (f ValuationFields) FieldCount() int { return 7 }

// CapitalCall is a persisted capital call record
type CapitalCall struct {
	ID                   string          `db:"id" json:"id"`
	DocumentID           string          `db:"document_id" json:"document_id"`
	FundID               string          `db:"fund_id" json:"fund_id"`
	CallDate             time.Time       `db:"call_date" json:"call_date"`
	LPID                 string          `db:"lp_id" json:"lp_id"`
	CallAmount           decimal.Decimal `db:"call_amount" json:"call_amount"`
	Currency             string          `db:"currency" json:"currency"`
	CallNumber           *int            `db:"call_number" json:"call_number,omitempty"`
	ExtractionConfidence *float64        `db:"extraction_confidence" json:"extraction_confidence,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}

// Distribution is a persisted distribution record
type Distribution struct {
	ID                   string           `db:"id" json:"id"`
	DocumentID           string           `db:"document_id" json:"document_id"`
	FundID               string           `db:"fund_id" json:"fund_id"`
	DistributionDate     time.Time        `db:"distribution_date" json:"distribution_date"`
	LPID                 string           `db:"lp_id" json:"lp_id"`
	DistributionAmount   decimal.Decimal  `db:"distribution_amount" json:"distribution_amount"`
	DistributionType     DistributionType `db:"distribution_type" json:"distribution_type"`
	Currency             string           `db:"currency" json:"currency"`
	ExtractionConfidence *float64         `db:"extraction_confidence" json:"extraction_confidence,omitempty"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
}

// Valuation is a persisted valuation record
type Valuation struct {
	ID                   string           `db:"id" json:"id"`
	DocumentID           string           `db:"document_id" json:"document_id"`
	ValuationDate        time.Time        `db:"valuation_date" json:"valuation_date"`
	Methodology          *string          `db:"methodology" json:"methodology,omitempty"`
	DiscountRate         *decimal.Decimal `db:"discount_rate" json:"discount_rate,omitempty"`
	Multiples            types.JSONText   `db:"multiples" json:"multiples,omitempty"`
	FinalValuation       *decimal.Decimal `db:"final_valuation" json:"final_valuation,omitempty"`
	Currency             string           `db:"currency" json:"currency"`
	ExtractionConfidence *float64         `db:"extraction_confidence" json:"extraction_confidence,omitempty"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
}

// ProcessingLogEntry records a single pipeline stage outcome for a document.
// Entries are append-only and ordered by creation time.
type ProcessingLogEntry struct {
	ID              int64            `db:"id" json:"id"`
	DocumentID      string           `db:"document_id" json:"document_id"`
	Stage           string           `db:"stage" json:"stage"`
	Status          ProcessingStatus `db:"status" json:"status"`
	Message         string           `db:"message" json:"message"`
	ExecutionTimeMs *int64           `db:"execution_time_ms" json:"execution_time_ms,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}
