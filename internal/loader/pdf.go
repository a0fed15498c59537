package loader

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// minPDFTextLength filters out scans and broken PDFs that yield only whitespace and page breaks.
const minPDFTextLength = 50

// PDFReader extracts the text layer of a PDF in process. It is the default .pdf extractor.
type PDFReader struct{}

// Extract concatenates the plain text of every page. Pages that fail to decode are skipped.
func (PDFReader) Extract(ctx context.Context, path string) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse %s: %v", filepath.Base(path), r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pt)
		sb.WriteString("\n")
	}
	return checkPDFText(sb.String(), path)
}

// PDFToText extracts text with the poppler pdftotext binary.
// Register it with WithExtractor(".pdf", PDFToText{}) to prefer poppler's layout mode.
type PDFToText struct {
	// Binary overrides the executable name; empty means "pdftotext".
	Binary string
}

// Extract runs `pdftotext -layout <path> -` and returns stdout.
func (p PDFToText) Extract(ctx context.Context, path string) (string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdftotext"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("pdf extraction requires %s (install poppler-utils): %w", bin, err)
	}

	out, err := exec.CommandContext(ctx, bin, "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", bin, filepath.Base(path), err)
	}
	return checkPDFText(string(out), path)
}

func checkPDFText(text, path string) (string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minPDFTextLength {
		return "", fmt.Errorf("extracted text too short from %s (scanned pdf?)", filepath.Base(path))
	}
	return text, nil
}
