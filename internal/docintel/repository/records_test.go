package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/internal/docintel/repository"
	"github.com/fundflow/fundflow-backend/pkg/testutil"
)

func TestRecordRepository_SetStatus(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE documents").
		WithArgs("doc-1", domain.StatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.SetStatus(context.Background(), "doc-1", domain.StatusProcessing)
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_SetStatus_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE documents").
		WithArgs("missing", domain.StatusFailed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.SetStatus(context.Background(), "missing", domain.StatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_SetClassification(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE documents").
		WithArgs("doc-1", domain.DocumentTypeCapitalCall, 0.5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.SetClassification(context.Background(), "doc-1", domain.DocumentTypeCapitalCall, 0.5)
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_AppendCapitalCall(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	callDate := time.Date(2023, 10, 15, 0, 0, 0, 0, time.UTC)
	fields := domain.CapitalCallFields{
		FundID:               "ABC-III",
		CallDate:             callDate,
		LPID:                 "LP-001",
		CallAmount:           decimal.RequireFromString("500000"),
		Currency:             "USD",
		CallNumber:           5,
		ExtractionConfidence: 0.8,
	}

	mockDB.ExpectExec("INSERT INTO capital_calls").
		WithArgs(sqlmock.AnyArg(), "doc-1", "ABC-III", callDate, "LP-001", sqlmock.AnyArg(), "USD", 5, 0.8).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.AppendCapitalCall(context.Background(), "doc-1", fields)
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_AppendDistribution(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	distDate := time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)
	fields := domain.DistributionFields{
		FundID:               "GROWTH-II",
		DistributionDate:     distDate,
		LPID:                 "LP-009",
		DistributionAmount:   decimal.RequireFromString("75000.25"),
		DistributionType:     domain.DistributionTypeROC,
		Currency:             "USD",
		ExtractionConfidence: 0.8,
	}

	mockDB.ExpectExec("INSERT INTO distributions").
		WithArgs(sqlmock.AnyArg(), "doc-2", "GROWTH-II", distDate, "LP-009", sqlmock.AnyArg(), domain.DistributionTypeROC, "USD", 0.8).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.AppendDistribution(context.Background(), "doc-2", fields)
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_AppendValuation(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	valDate := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("0.125")
	fields := domain.ValuationFields{
		ValuationDate:        valDate,
		Methodology:          "DCF Analysis",
		DiscountRate:         &rate,
		Multiples:            map[string]string{"ev_ebitda": "12.5x", "p_e": "15.0x"},
		FinalValuation:       decimal.RequireFromString("2500000.00"),
		Currency:             "USD",
		ExtractionConfidence: 0.7,
	}

	mockDB.ExpectExec("INSERT INTO valuations").
		WithArgs(sqlmock.AnyArg(), "doc-3", valDate, "DCF Analysis", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "USD", 0.7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.AppendValuation(context.Background(), "doc-3", fields)
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_AppendLog(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectExec("INSERT INTO processing_logs").
		WithArgs("doc-1", domain.StageStart, domain.StatusProcessing, "starting document processing", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.AppendLog(context.Background(), "doc-1", domain.StageStart, domain.StatusProcessing, "starting document processing", nil)
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_AppendLog_WithExecutionTime(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	elapsed := int64(42)
	mockDB.ExpectExec("INSERT INTO processing_logs").
		WithArgs("doc-1", domain.StageComplete, domain.StatusCompleted, "document processing completed successfully", &elapsed).
		WillReturnResult(sqlmock.NewResult(2, 1))

	repo := repository.NewRecordRepository(mockDB.DB)
	err := repo.AppendLog(context.Background(), "doc-1", domain.StageComplete, domain.StatusCompleted, "document processing completed successfully", &elapsed)
	require.NoError(t, err)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_ListLogs(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "document_id", "stage", "status", "message", "execution_time_ms", "created_at"}).
		AddRow(int64(1), "doc-1", domain.StageStart, domain.StatusProcessing, "starting document processing", nil, now).
		AddRow(int64(2), "doc-1", domain.StageComplete, domain.StatusCompleted, "document processing completed successfully", int64(42), now)

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM processing_logs").
		WithArgs("doc-1").
		WillReturnRows(rows)

	repo := repository.NewRecordRepository(mockDB.DB)
	logs, err := repo.ListLogs(context.Background(), "doc-1")
	require.NoError(t, err)

	require.Len(t, logs, 2)
	assert.Equal(t, domain.StageStart, logs[0].Stage)
	assert.Nil(t, logs[0].ExecutionTimeMs)
	assert.Equal(t, domain.StageComplete, logs[1].Stage)
	require.NotNil(t, logs[1].ExecutionTimeMs)
	assert.Equal(t, int64(42), *logs[1].ExecutionTimeMs)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_GetCapitalCallByDocument_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM capital_calls").
		WithArgs("doc-1").
		WillReturnError(sql.ErrNoRows)

	repo := repository.NewRecordRepository(mockDB.DB)
	call, err := repo.GetCapitalCallByDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Nil(t, call)

	mockDB.AssertExpectations(t)
}

func TestRecordRepository_ListCapitalCalls_Filtered(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "document_id", "fund_id", "call_date", "lp_id", "call_amount", "currency", "call_number", "extraction_confidence", "created_at"}).
		AddRow("cc-1", "doc-1", "ABC-III", now, "LP-001", "500000", "USD", 5, 0.8, now)

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM capital_calls").
		WithArgs("ABC-III", "2023-01-01", "2023-12-31", 50, 0).
		WillReturnRows(rows)

	repo := repository.NewRecordRepository(mockDB.DB)
	filter := &repository.RecordFilter{FundID: "ABC-III", StartDate: "2023-01-01", EndDate: "2023-12-31"}
	calls, err := repo.ListCapitalCalls(context.Background(), filter, 50, 0)
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "ABC-III", calls[0].FundID)
	assert.True(t, calls[0].CallAmount.Equal(decimal.RequireFromString("500000")))

	mockDB.AssertExpectations(t)
}
