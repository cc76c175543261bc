package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	domain "github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/economic"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/news"
	analysissvc "github.com/tenured-master-chef-607/Reflash-sub001/internal/services/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 4 << 20

// AnalysisService is what the HTTP layer needs from the analysis service
type AnalysisService interface {
	Financial(ctx context.Context, req *financial.AnalysisRequest) domain.Result
	Economic(ctx context.Context, req *economic.AnalysisRequest) domain.Result
	News(ctx context.Context, req *news.AnalysisRequest) domain.Result
	Comprehensive(ctx context.Context, fin *financial.AnalysisRequest, eco *economic.AnalysisRequest, nws *news.AnalysisRequest) domain.ComprehensiveResult
	AnalyzeCompany(ctx context.Context, req analysissvc.CompanyAnalysisRequest) (domain.Result, error)
}

// AnalysisHandler serves the analysis endpoints. Analysis failures are
// reported in the body with status 200; only bad input and missing data are HTTP errors.
type AnalysisHandler struct {
	service AnalysisService
	log     *logger.Logger
}

// NewAnalysisHandler creates the analysis endpoints handler
func NewAnalysisHandler(service AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		log:     logger.Get().With("component", "analysis_handler"),
	}
}

// ComprehensiveRequest carries one request per agent
type ComprehensiveRequest struct {
	Financial *financial.AnalysisRequest `json:"financial"`
	Economic  *economic.AnalysisRequest  `json:"economic"`
	News      *news.AnalysisRequest      `json:"news"`
}

// CompanyAnalysisBody optionally narrows a stored-statements analysis
type CompanyAnalysisBody struct {
	AsOf                  string `json:"asOf,omitempty"`
	TransactionWindowDays int    `json:"transactionWindowDays,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleAgent runs a single agent selected by the {type} path segment
func (h *AnalysisHandler) HandleAgent(w http.ResponseWriter, r *http.Request) {
	t := domain.AgentType(r.PathValue("type"))
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, errors.Wrapf(errors.ErrUnknownAgentType, "%q", t))
		return
	}

	var result domain.Result
	switch t {
	case domain.AgentFinancial:
		var req financial.AnalysisRequest
		if !h.decode(w, r, &req) {
			return
		}
		result = h.service.Financial(r.Context(), &req)
	case domain.AgentEconomic:
		var req economic.AnalysisRequest
		if !h.decode(w, r, &req) {
			return
		}
		result = h.service.Economic(r.Context(), &req)
	case domain.AgentNews:
		var req news.AnalysisRequest
		if !h.decode(w, r, &req) {
			return
		}
		result = h.service.News(r.Context(), &req)
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleComprehensive runs all three agents
func (h *AnalysisHandler) HandleComprehensive(w http.ResponseWriter, r *http.Request) {
	var req ComprehensiveRequest
	if !h.decode(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, h.service.Comprehensive(r.Context(), req.Financial, req.Economic, req.News))
}

// HandleCompany runs a financial analysis on the stored statements of {id}
func (h *AnalysisHandler) HandleCompany(w http.ResponseWriter, r *http.Request) {
	var body CompanyAnalysisBody
	if r.ContentLength != 0 && !h.decode(w, r, &body) {
		return
	}

	req := analysissvc.CompanyAnalysisRequest{
		CompanyID:         r.PathValue("id"),
		TransactionWindow: time.Duration(body.TransactionWindowDays) * 24 * time.Hour,
	}
	if body.AsOf != "" {
		asOf, err := time.Parse("2006-01-02", body.AsOf)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.NewValidationError("asOf", "must be YYYY-MM-DD", body.AsOf))
			return
		}
		req.AsOf = asOf
	}

	result, err := h.service.AnalyzeCompany(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		h.log.Debugw("Rejected request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrInvalidInput, "invalid JSON body"))
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidInput), errors.Is(err, errors.ErrUnknownAgentType):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
