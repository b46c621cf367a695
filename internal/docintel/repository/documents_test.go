package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundflow/fundflow-backend/internal/docintel/domain"
	"github.com/fundflow/fundflow-backend/internal/docintel/repository"
	"github.com/fundflow/fundflow-backend/pkg/database"
	"github.com/fundflow/fundflow-backend/pkg/testutil"
)

func TestDocumentRepository_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now()
	hash := "abc123"
	doc := &domain.Document{
		OriginalFilename: "call_notice.txt",
		FileSize:         1024,
		ContentHash:      &hash,
	}

	mockDB.Mock.ExpectQuery("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "call_notice.txt", int64(1024), &hash, domain.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := repository.NewDocumentRepository(mockDB.DB)
	err := repo.Create(context.Background(), doc)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, domain.StatusPending, doc.ProcessingStatus)
	assert.Equal(t, now, doc.CreatedAt)

	mockDB.AssertExpectations(t)
}

func TestDocumentRepository_GetByID(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "original_filename", "file_size", "content_hash", "document_type",
		"classification_confidence", "processing_status", "created_at", "updated_at",
	}).AddRow("doc-1", "call_notice.txt", int64(1024), "abc123", "capital_call", 0.5, "completed", now, now)

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("doc-1").
		WillReturnRows(rows)

	repo := repository.NewDocumentRepository(mockDB.DB)
	doc, err := repo.GetByID(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "call_notice.txt", doc.OriginalFilename)
	require.NotNil(t, doc.DocumentType)
	assert.Equal(t, domain.DocumentTypeCapitalCall, *doc.DocumentType)
	require.NotNil(t, doc.ClassificationConfidence)
	assert.Equal(t, 0.5, *doc.ClassificationConfidence)
	assert.Equal(t, domain.StatusCompleted, doc.ProcessingStatus)

	mockDB.AssertExpectations(t)
}

func TestDocumentRepository_GetByID_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := repository.NewDocumentRepository(mockDB.DB)
	doc, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))
	assert.Nil(t, doc)

	mockDB.AssertExpectations(t)
}

func TestDocumentRepository_List_Filtered(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "original_filename", "file_size", "content_hash", "document_type",
		"classification_confidence", "processing_status", "created_at", "updated_at",
	}).AddRow("doc-1", "a.txt", int64(10), nil, "capital_call", 0.5, "completed", now, now)

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("capital_call", "completed", 50, 0).
		WillReturnRows(rows)

	repo := repository.NewDocumentRepository(mockDB.DB)
	filter := &repository.ListFilter{DocumentType: "capital_call", Status: "completed"}
	docs, err := repo.List(context.Background(), filter, 50, 0)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Nil(t, docs[0].ContentHash)

	mockDB.AssertExpectations(t)
}

func TestDocumentRepository_List_NoFilter(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{
		"id", "original_filename", "file_size", "content_hash", "document_type",
		"classification_confidence", "processing_status", "created_at", "updated_at",
	})

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs(50, 0).
		WillReturnRows(rows)

	repo := repository.NewDocumentRepository(mockDB.DB)
	docs, err := repo.List(context.Background(), nil, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)

	mockDB.AssertExpectations(t)
}

func TestDocumentRepository_DashboardAnalytics(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery("SELECT document_type, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"document_type", "count"}).
			AddRow("capital_call", int64(3)).
			AddRow("distribution", int64(1)))

	mockDB.Mock.ExpectQuery("SELECT processing_status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"processing_status", "count"}).
			AddRow("completed", int64(4)))

	mockDB.Mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	mockDB.Mock.ExpectQuery("SELECT cc.fund_id, SUM").
		WillReturnRows(sqlmock.NewRows([]string{"fund_id", "total_calls", "call_count"}).
			AddRow("ABC-III", "1500000", int64(3)))

	repo := repository.NewDocumentRepository(mockDB.DB)
	analytics, err := repo.DashboardAnalytics(context.Background())
	require.NoError(t, err)

	require.Len(t, analytics.DocumentTypes, 2)
	assert.Equal(t, "capital_call", analytics.DocumentTypes[0].DocumentType)
	assert.Equal(t, int64(3), analytics.DocumentTypes[0].Count)

	require.Len(t, analytics.ProcessingStatus, 1)
	assert.Equal(t, int64(2), analytics.RecentDocuments)

	require.Len(t, analytics.FundSummary, 1)
	assert.Equal(t, "ABC-III", analytics.FundSummary[0].FundID)

	mockDB.AssertExpectations(t)
}
