package batch

import "github.com/kailas-cloud/cvdex/internal/domain/candidate"

// ItemStatus is the processing outcome of a single file in an analysis run.
type ItemStatus string

// Batch item status values.
const (
	// StatusOK means the model output parsed into a record.
	StatusOK ItemStatus = "ok"
	// StatusEmpty means the model answered but the output was unparsable.
	StatusEmpty ItemStatus = "empty"
	// StatusError means retrieval or the model call failed.
	StatusError ItemStatus = "error"
)

// Result is the outcome of analysing one file. It always carries a record;
// failed and unparsable items carry the empty placeholder.
type Result struct {
	fileName string
	status   ItemStatus
	record   candidate.Record
	err      error
}

// NewOK creates a successful result.
func NewOK(fileName string, rec candidate.Record) Result {
	return Result{fileName: fileName, status: StatusOK, record: rec}
}

// NewEmpty creates a result for model output that held no usable JSON object.
func NewEmpty(fileName string) Result {
	return Result{fileName: fileName, status: StatusEmpty, record: candidate.Empty()}
}

// NewError creates a failed result.
func NewError(fileName string, err error) Result {
	return Result{fileName: fileName, status: StatusError, record: candidate.Empty(), err: err}
}

// FileName returns the source file the result belongs to.
func (r Result) FileName() string { return r.fileName }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Record returns the candidate record (empty unless Status is StatusOK).
func (r Result) Record() candidate.Record { return r.record }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Reason returns the error text for failed items and "" otherwise.
func (r Result) Reason() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}
