package analyzer

import (
	"fmt"

	"github.com/kailas-cloud/cvdex/internal/domain"
)

// FileError is a recoverable analysis failure of a single file.
type FileError struct {
	FileName string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("analyze %s: %v", e.FileName, e.Err)
}

// Unwrap exposes both domain.ErrAnalysis and the cause to errors.Is.
func (e *FileError) Unwrap() []error {
	return []error{domain.ErrAnalysis, e.Err}
}

func fileError(fileName string, err error) error {
	return &FileError{FileName: fileName, Err: err}
}
