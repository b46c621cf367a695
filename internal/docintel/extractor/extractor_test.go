package extractor_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/internal/docintel/extractor"
)

const capitalCallText = `CAPITAL CALL NOTICE
Fund ID: ABC-III
LP: LP-001
Amount Due: $500,000
Due Date: 10/15/2023
Call Number: 5`

func TestExtractor_ExtractCapitalCall(t *testing.T) {
	e := extractor.New()

	fields := e.ExtractCapitalCall(capitalCallText)

	if fields.FundID != "ABC-III" {
		t.Errorf("FundID = %q, want ABC-III", fields.FundID)
	}
	if fields.LPID != "LP-001" {
		t.Errorf("LPID = %q, want LP-001", fields.LPID)
	}
	if want := decimal.RequireFromString("500000"); !fields.CallAmount.Equal(want) {
		t.Errorf("CallAmount = %s, want %s", fields.CallAmount, want)
	}
	if want := date(2023, 10, 15); !fields.CallDate.Equal(want) {
		t.Errorf("CallDate = %s, want %s", fields.CallDate, want)
	}
	if fields.CallNumber != 5 {
		t.Errorf("CallNumber = %d, want 5", fields.CallNumber)
	}
	if fields.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", fields.Currency)
	}
	if fields.ExtractionConfidence != 0.8 {
		t.Errorf("ExtractionConfidence = %v, want 0.8", fields.ExtractionConfidence)
	}
	if fields.FieldCount() != 7 {
		t.Errorf("FieldCount() = %d, want 7", fields.FieldCount())
	}
}

func TestExtractor_ExtractCapitalCall_Defaults(t *testing.T) {
	e := extractor.New()

	fields := e.ExtractCapitalCall("nothing of interest in here")

	if fields.FundID != "FUND-001" {
		t.Errorf("FundID = %q, want FUND-001", fields.FundID)
	}
	if fields.LPID != "LP-001" {
		t.Errorf("LPID = %q, want LP-001", fields.LPID)
	}
	if want := decimal.RequireFromString("100000.00"); !fields.CallAmount.Equal(want) {
		t.Errorf("CallAmount = %s, want %s", fields.CallAmount, want)
	}
	if fields.CallNumber != 1 {
		t.Errorf("CallNumber = %d, want 1", fields.CallNumber)
	}
	if fields.CallDate.IsZero() {
		t.Error("CallDate should default to today, got zero value")
	}
}

func TestExtractor_ExtractDistribution(t *testing.T) {
	e := extractor.New()

	tests := []struct {
		name     string
		text     string
		wantType domain.DistributionType
	}{
		{
			name:     "capital income keyword yields CI",
			text:     "Distribution Notice: capital income payment of $75,000.25 from Fund ID: GROWTH-II to LP: LP-009 on 11/30/2023",
			wantType: domain.DistributionTypeCI,
		},
		{
			name:     "dividend keyword yields CI",
			text:     "Dividend distribution of $10,000 payable to LP: LP-002",
			wantType: domain.DistributionTypeCI,
		},
		{
			name:     "no keyword defaults to ROC",
			text:     "Distribution Notice: return of capital $75,000.25 from Fund ID: GROWTH-II to LP: LP-009 on 11/30/2023",
			wantType: domain.DistributionTypeROC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := e.ExtractDistribution(tt.text)
			if fields.DistributionType != tt.wantType {
				t.Errorf("DistributionType = %v, want %v", fields.DistributionType, tt.wantType)
			}
		})
	}
}

func TestExtractor_ExtractDistribution_Fields(t *testing.T) {
	e := extractor.New()

	fields := e.ExtractDistribution("Distribution Notice: return of capital $75,000.25 from Fund ID: GROWTH-II to LP: LP-009 on 11/30/2023")

	if fields.FundID != "GROWTH-II" {
		t.Errorf("FundID = %q, want GROWTH-II", fields.FundID)
	}
	if fields.LPID != "LP-009" {
		t.Errorf("LPID = %q, want LP-009", fields.LPID)
	}
	if want := decimal.RequireFromString("75000.25"); !fields.DistributionAmount.Equal(want) {
		t.Errorf("DistributionAmount = %s, want %s", fields.DistributionAmount, want)
	}
	if want := date(2023, 11, 30); !fields.DistributionDate.Equal(want) {
		t.Errorf("DistributionDate = %s, want %s", fields.DistributionDate, want)
	}
	if fields.ExtractionConfidence != 0.8 {
		t.Errorf("ExtractionConfidence = %v, want 0.8", fields.ExtractionConfidence)
	}
}

func TestExtractor_ExtractDistribution_DefaultAmount(t *testing.T) {
	e := extractor.New()

	fields := e.ExtractDistribution("distribution notice with no figures")

	if want := decimal.RequireFromString("50000.00"); !fields.DistributionAmount.Equal(want) {
		t.Errorf("DistributionAmount = %s, want %s", fields.DistributionAmount, want)
	}
	if fields.DistributionType != domain.DistributionTypeROC {
		t.Errorf("DistributionType = %v, want ROC", fields.DistributionType)
	}
}

func TestExtractor_ExtractValuation(t *testing.T) {
	e := extractor.New()

	fields := e.ExtractValuation("Valuation Report as of 2023-12-31. Fair value $2,500,000.00. Discount Rate: 12.5%")

	if want := decimal.RequireFromString("2500000.00"); !fields.FinalValuation.Equal(want) {
		t.Errorf("FinalValuation = %s, want %s", fields.FinalValuation, want)
	}
	if want := date(2023, 12, 31); !fields.ValuationDate.Equal(want) {
		t.Errorf("ValuationDate = %s, want %s", fields.ValuationDate, want)
	}
	if fields.DiscountRate == nil {
		t.Fatal("DiscountRate should be set")
	}
	if want := decimal.RequireFromString("0.125"); !fields.DiscountRate.Equal(want) {
		t.Errorf("DiscountRate = %s, want %s", fields.DiscountRate, want)
	}
	if fields.Methodology != "DCF Analysis" {
		t.Errorf("Methodology = %q, want DCF Analysis", fields.Methodology)
	}
	if fields.Multiples["ev_ebitda"] != "12.5x" || fields.Multiples["p_e"] != "15.0x" {
		t.Errorf("Multiples = %v, want default ev_ebitda and p_e entries", fields.Multiples)
	}
	if fields.ExtractionConfidence != 0.7 {
		t.Errorf("ExtractionConfidence = %v, want 0.7", fields.ExtractionConfidence)
	}
}

func TestExtractor_ExtractValuation_Defaults(t *testing.T) {
	e := extractor.New()

	fields := e.ExtractValuation("valuation commentary with no figures")

	if want := decimal.RequireFromString("1000000.00"); !fields.FinalValuation.Equal(want) {
		t.Errorf("FinalValuation = %s, want %s", fields.FinalValuation, want)
	}
	if fields.DiscountRate != nil {
		t.Errorf("DiscountRate = %s, want nil", fields.DiscountRate)
	}
	if fields.ValuationDate.IsZero() {
		t.Error("ValuationDate should default to today, got zero value")
	}
}
