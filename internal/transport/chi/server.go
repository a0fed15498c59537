package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain"
	dombatch "github.com/kailas-cloud/cvdex/internal/domain/batch"
	"github.com/kailas-cloud/cvdex/internal/domain/candidate"
	"github.com/kailas-cloud/cvdex/internal/domain/document"
	"github.com/kailas-cloud/cvdex/internal/export"
	"github.com/kailas-cloud/cvdex/internal/logger"
	gen "github.com/kailas-cloud/cvdex/internal/transport/api"
	healthuc "github.com/kailas-cloud/cvdex/internal/usecase/health"
)

// maxConcurrency caps the per-request concurrency override.
const maxConcurrency = 32

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements api.ServerInterface.
type Server struct {
	gen.Unimplemented
	index         Indexer
	batch         Orchestrator
	session       ResultStore
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	index Indexer,
	batch Orchestrator,
	session ResultStore,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		index:   index,
		batch:   batch,
		session: session,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFileName, http.StatusBadRequest, gen.ErrorResponseCodeInvalidFileName),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, gen.ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrNoDocuments, http.StatusUnprocessableEntity, gen.ErrorResponseCodeNoDocuments),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, gen.ErrorResponseCodeStoreUnavailable),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, gen.ErrorResponseCodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, gen.ErrorResponseCodeProviderError),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, gen.ErrorResponseCodeProviderError),
		sentinelHandler(domain.ErrAnalysis, http.StatusBadGateway, gen.ErrorResponseCodeAnalysisFailed),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListFiles handles GET /api/v1/files.
func (s *Server) ListFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.index.FileNames(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, gen.FileListResponse{Items: names, Total: len(names)})
}

// EnsureIndex handles POST /api/v1/index.
func (s *Server) EnsureIndex(w http.ResponseWriter, r *http.Request, params gen.EnsureIndexParams) {
	ensure := s.index.Ensure
	if derefBool(params.Rebuild) {
		ensure = s.index.Rebuild
	}

	out, err := ensure(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	names := out.FileNames
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, gen.IndexResponse{
		Loaded:    out.Loaded,
		Built:     out.Built,
		Documents: out.Documents,
		Chunks:    out.Chunks,
		FileNames: names,
	})
}

// StartAnalysisRun handles POST /api/v1/analysis/runs.
func (s *Server) StartAnalysisRun(w http.ResponseWriter, r *http.Request, params gen.StartAnalysisRunParams) {
	concurrency := derefInt(params.Concurrency)
	if concurrency < 0 || concurrency > maxConcurrency {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest,
			fmt.Sprintf("concurrency must be between 0 and %d", maxConcurrency))
		return
	}

	run, err := s.batch.RunAll(r.Context(), concurrency)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.session.Replace(run)
	writeJSON(w, http.StatusOK, runToGen(run))
}

// GetLastAnalysis handles GET /api/v1/analysis.
func (s *Server) GetLastAnalysis(w http.ResponseWriter, r *http.Request) {
	run, ok := s.session.Last()
	if !ok {
		s.handleDomainError(w, r, fmt.Errorf("analysis run: %w", domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, runToGen(run))
}

// ExportAnalysis handles GET /api/v1/analysis/export.xlsx.
func (s *Server) ExportAnalysis(w http.ResponseWriter, r *http.Request) {
	run, ok := s.session.Last()
	if !ok {
		s.handleDomainError(w, r, fmt.Errorf("analysis run: %w", domain.ErrNotFound))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, run); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cv-analysis-%s.xlsx"`, run.ID()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// GetFileAnalysis handles GET /api/v1/analysis/{file_name}.
func (s *Server) GetFileAnalysis(w http.ResponseWriter, r *http.Request, fileName gen.FileName) {
	res, err := s.session.Find(fileName)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	resp := resultToGen(res)
	if run, ok := s.session.Last(); ok {
		id := run.ID()
		resp.RunId = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

// AnalyzeFile handles POST /api/v1/analysis/{file_name}.
func (s *Server) AnalyzeFile(w http.ResponseWriter, r *http.Request, fileName gen.FileName) {
	if err := document.ValidateFileName(fileName); err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidFileName, err))
		return
	}
	writeJSON(w, http.StatusOK, resultToGen(s.batch.Analyze(r.Context(), fileName)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidFileName,
		domain.ErrNotFound,
		domain.ErrNoDocuments,
		domain.ErrStoreUnavailable,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrLLMProviderError,
		domain.ErrAnalysis,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func runToGen(run *dombatch.Run) gen.AnalysisRunResponse {
	results := run.Results()
	resp := gen.AnalysisRunResponse{
		RunId:      run.ID(),
		StartedAt:  run.StartedAt().UTC(),
		FinishedAt: run.FinishedAt().UTC(),
		Data:       make([]gen.CandidateRecord, len(results)),
		Statuses:   make([]gen.FileStatus, len(results)),
	}
	for i, res := range results {
		resp.Data[i] = recordToGen(res.Record())
		resp.Statuses[i] = statusToGen(res)
	}
	return resp
}

func resultToGen(res dombatch.Result) gen.FileAnalysisResponse {
	st := statusToGen(res)
	return gen.FileAnalysisResponse{
		FileName: st.FileName,
		Status:   st.Status,
		Error:    st.Error,
		Record:   recordToGen(res.Record()),
	}
}

func statusToGen(res dombatch.Result) gen.FileStatus {
	st := gen.FileStatus{
		FileName: res.FileName(),
		Status:   gen.FileStatusStatus(res.Status()),
	}
	if res.Err() != nil {
		msg := res.Reason()
		st.Error = &msg
	}
	return st
}

func recordToGen(rec candidate.Record) gen.CandidateRecord {
	if rec.IsEmpty() {
		return gen.CandidateRecord{}
	}
	profession := rec.Profession()
	years := rec.Years()
	summary := rec.Summary()
	skills := rec.StrongestSkills()
	challenges := rec.Challenges()
	return gen.CandidateRecord{
		Profession:      &profession,
		Years:           &years,
		Summary:         &summary,
		StrongestSkills: &skills,
		Challenges:      &challenges,
	}
}
