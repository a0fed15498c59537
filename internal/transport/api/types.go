// Package api holds the HTTP API types and the chi router bindings of the
// cvdex service: one ServerInterface method per operation, parameters bound
// with oapi-codegen/runtime.
package api

import "time"

// ErrorResponseCode is a machine readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeInvalidFileName  ErrorResponseCode = "invalid_file_name"
	ErrorResponseCodeNoDocuments      ErrorResponseCode = "no_documents"
	ErrorResponseCodeStoreUnavailable ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeRateLimited      ErrorResponseCode = "rate_limited"
	ErrorResponseCodeProviderError    ErrorResponseCode = "provider_error"
	ErrorResponseCodeAnalysisFailed   ErrorResponseCode = "analysis_failed"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// HealthResponseStatus is the aggregated health.
type HealthResponseStatus string

// HealthResponseChecks is a single component check result.
type HealthResponseChecks string

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}

// FileListResponse is returned by GET /api/v1/files.
type FileListResponse struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

// IndexResponse is returned by POST /api/v1/index.
type IndexResponse struct {
	Loaded    bool     `json:"loaded"`
	Built     bool     `json:"built"`
	Documents int      `json:"documents"`
	Chunks    int      `json:"chunks"`
	FileNames []string `json:"file_names"`
}

// CandidateRecord is one structured CV summary. The empty record has no keys.
type CandidateRecord struct {
	Profession      *string   `json:"profession,omitempty"`
	Years           *int      `json:"years,omitempty"`
	Summary         *string   `json:"summary,omitempty"`
	StrongestSkills *[]string `json:"strongest_skills,omitempty"`
	Challenges      *[]string `json:"challenges,omitempty"`
}

// FileStatusStatus is the per-file outcome.
type FileStatusStatus string

// Per-file outcomes.
const (
	FileStatusStatusOk    FileStatusStatus = "ok"
	FileStatusStatusEmpty FileStatusStatus = "empty"
	FileStatusStatusError FileStatusStatus = "error"
)

// FileStatus reports how a single file was processed.
type FileStatus struct {
	FileName string           `json:"file_name"`
	Status   FileStatusStatus `json:"status"`
	Error    *string          `json:"error,omitempty"`
}

// AnalysisRunResponse is the envelope of a whole run plus per-file statuses.
type AnalysisRunResponse struct {
	RunId      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Data       []CandidateRecord `json:"data"`
	Statuses   []FileStatus      `json:"statuses"`
}

// FileAnalysisResponse is the detailed view of one file.
type FileAnalysisResponse struct {
	RunId    *string          `json:"run_id,omitempty"`
	FileName string           `json:"file_name"`
	Status   FileStatusStatus `json:"status"`
	Error    *string          `json:"error,omitempty"`
	Record   CandidateRecord  `json:"record"`
}

// FileName is the file_name path parameter.
type FileName = string

// EnsureIndexParams are the query parameters of POST /api/v1/index.
type EnsureIndexParams struct {
	Rebuild *bool `form:"rebuild,omitempty" json:"rebuild,omitempty"`
}

// StartAnalysisRunParams are the query parameters of POST /api/v1/analysis/runs.
type StartAnalysisRunParams struct {
	Concurrency *int `form:"concurrency,omitempty" json:"concurrency,omitempty"`
}
