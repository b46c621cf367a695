package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fundflow/fundflow-backend/internal/docintel/repository"
	"github.com/fundflow/fundflow-backend/internal/docintel/service"
	"github.com/fundflow/fundflow-backend/pkg/httputil"
	"github.com/fundflow/fundflow-backend/pkg/logger"
)

// Handler exposes the document processing HTTP API
type Handler struct {
	service *service.Service
	logger  *logger.Logger
}

// NewHandler creates a new document handler
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  log.WithComponent("handler"),
	}
}

// Routes registers the document API routes
func (h *Handler) Routes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", h.IngestDocument)
		r.Get("/", h.ListDocuments)
		r.Route("/{documentID}", func(r chi.Router) {
			r.Get("/", h.GetDocument)
			r.Post("/reprocess", h.ReprocessDocument)
			r.Get("/logs", h.ListProcessingLogs)
		})
	})
	r.Get("/capital-calls", h.ListCapitalCalls)
	r.Get("/distributions", h.ListDistributions)
	r.Get("/analytics/dashboard", h.DashboardAnalytics)
}

// IngestDocumentRequest is the payload for document intake
type IngestDocumentRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Text     string `json:"text" validate:"required"`
}

// IngestDocument accepts a document and starts background processing
func (h *Handler) IngestDocument(w http.ResponseWriter, r *http.Request) {
	var req IngestDocumentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	doc, err := h.service.Ingest(r.Context(), req.Filename, req.Text)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Accepted(w, doc)
}

// GetDocument returns a document along with its extracted record
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.service.GetDocument(r.Context(), documentID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, doc)
}

// ListDocuments lists documents with optional type and status filtering
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	filter := &repository.ListFilter{
		DocumentType: r.URL.Query().Get("document_type"),
		Status:       r.URL.Query().Get("status"),
	}

	docs, err := h.service.ListDocuments(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, docs, &httputil.Meta{Limit: limit, Offset: offset})
}

// ReprocessDocument relaunches processing for an existing document
func (h *Handler) ReprocessDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.service.Reprocess(r.Context(), documentID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Accepted(w, doc)
}

// ListProcessingLogs returns the processing log entries for a document
func (h *Handler) ListProcessingLogs(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	logs, err := h.service.ListLogs(r.Context(), documentID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, logs)
}

// ListCapitalCalls lists capital call records with optional fund and date filtering
func (h *Handler) ListCapitalCalls(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	filter := &repository.RecordFilter{
		FundID:    r.URL.Query().Get("fund_id"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	calls, err := h.service.ListCapitalCalls(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, calls, &httputil.Meta{Limit: limit, Offset: offset})
}

// ListDistributions lists distribution records with optional fund and date filtering
func (h *Handler) ListDistributions(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	filter := &repository.RecordFilter{
		FundID:    r.URL.Query().Get("fund_id"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	dists, err := h.service.ListDistributions(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, dists, &httputil.Meta{Limit: limit, Offset: offset})
}

// DashboardAnalytics returns document and fund aggregates
func (h *Handler) DashboardAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.service.DashboardAnalytics(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, analytics)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
