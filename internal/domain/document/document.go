package document

import (
	"fmt"
	"strings"
)

// MaxFileNameLength bounds the file_name tag value.
const MaxFileNameLength = 512

// Document is a source CV read from the ingestion directory (immutable value object).
type Document struct {
	fileName string
	text     string
}

// New validates and creates a Document.
// FileName: non-empty base name without path separators, max 512 bytes. Text: non-blank.
func New(fileName, text string) (Document, error) {
	if err := ValidateFileName(fileName); err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("document %q has no text", fileName)
	}
	return Document{fileName: fileName, text: text}, nil
}

// ValidateFileName checks that name can be used as a file_name metadata value.
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("file name is required")
	}
	if len(name) > MaxFileNameLength {
		return fmt.Errorf("file name too long (max %d)", MaxFileNameLength)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("file name %q must not contain path separators", name)
	}
	return nil
}

// FileName returns the base name of the source file.
func (d Document) FileName() string { return d.fileName }

// Text returns the extracted document text.
func (d Document) Text() string { return d.text }
