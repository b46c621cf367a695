package extractor

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
)

// Fallback defaults substituted when a pattern fails to match. Fields are
// never left absent in the output, so a default value is not a detection
// success signal.
var (
	defaultCallAmount         = decimal.RequireFromString("100000.00")
	defaultDistributionAmount = decimal.RequireFromString("50000.00")
	defaultFinalValuation     = decimal.RequireFromString("1000000.00")
)

const (
	defaultFundID      = "FUND-001"
	defaultLPID        = "LP-001"
	defaultCurrency    = "USD"
	defaultCallNumber  = 1
	defaultMethodology = "DCF Analysis"

	// Static per-category confidence constants, independent of how many
	// fields actually matched.
	capitalCallConfidence  = 0.8
	distributionConfidence = 0.8
	valuationConfidence    = 0.7
)

var (
	capitalIncomePattern = regexp.MustCompile(`(?i)capital\s+income|dividend`)
	discountRatePattern  = regexp.MustCompile(`(?i)discount\s+rate[\s:]+(\d+\.?\d*)%?`)
)

// Extractor assembles category-specific structured fields from document text.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// New creates a field extractor
func New() *Extractor {
	return &Extractor{}
}

// ExtractCapitalCall pulls capital call fields from the text
func (e *Extractor) ExtractCapitalCall(text string) domain.CapitalCallFields {
	fields := domain.CapitalCallFields{
		FundID:               defaultFundID,
		CallDate:             today(),
		LPID:                 defaultLPID,
		CallAmount:           defaultCallAmount,
		Currency:             defaultCurrency,
		CallNumber:           defaultCallNumber,
		ExtractionConfidence: capitalCallConfidence,
	}

	if v, ok := FundID(text); ok {
		fields.FundID = v
	}
	if v, ok := Date(text); ok {
		fields.CallDate = v
	}
	if v, ok := LPID(text); ok {
		fields.LPID = v
	}
	if v, ok := Amount(text); ok {
		fields.CallAmount = v
	}
	if v, ok := CallNumber(text); ok {
		fields.CallNumber = v
	}

	return fields
}

// ExtractDistribution pulls distribution fields from the text.
// The distribution type is CI when a capital income or dividend pattern
// is present, otherwise ROC.
func (e *Extractor) ExtractDistribution(text string) domain.DistributionFields {
	distributionType := domain.DistributionTypeROC
	if capitalIncomePattern.MatchString(text) {
		distributionType = domain.DistributionTypeCI
	}

	fields := domain.DistributionFields{
		FundID:               defaultFundID,
		DistributionDate:     today(),
		LPID:                 defaultLPID,
		DistributionAmount:   defaultDistributionAmount,
		DistributionType:     distributionType,
		Currency:             defaultCurrency,
		ExtractionConfidence: distributionConfidence,
	}

	if v, ok := FundID(text); ok {
		fields.FundID = v
	}
	if v, ok := Date(text); ok {
		fields.DistributionDate = v
	}
	if v, ok := LPID(text); ok {
		fields.LPID = v
	}
	if v, ok := Amount(text); ok {
		fields.DistributionAmount = v
	}

	return fields
}

// ExtractValuation pulls valuation fields from the text
func (e *Extractor) ExtractValuation(text string) domain.ValuationFields {
	fields := domain.ValuationFields{
		ValuationDate:        today(),
		Methodology:          defaultMethodology,
		Multiples:            map[string]string{"ev_ebitda": "12.5x", "p_e": "15.0x"},
		FinalValuation:       defaultFinalValuation,
		Currency:             defaultCurrency,
		ExtractionConfidence: valuationConfidence,
	}

	if m := discountRatePattern.FindStringSubmatch(text); m != nil {
		if rate, err := decimal.NewFromString(m[1]); err == nil {
			rate = rate.Div(decimal.NewFromInt(100))
			fields.DiscountRate = &rate
		}
	}
	if v, ok := Date(text); ok {
		fields.ValuationDate = v
	}
	if v, ok := Amount(text); ok {
		fields.FinalValuation = v
	}

	return fields
}

// today returns the current UTC date at midnight
func today() time.Time {
	year, month, day := time.Now().UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
