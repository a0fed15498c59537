// Package loader reads source documents from a directory.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain/document"
)

// ErrUnsupported marks a file extension the loader cannot read.
var ErrUnsupported = errors.New("unsupported file type")

// Extractor turns a file into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Loader walks a directory and returns one Document per readable file.
type Loader struct {
	dir        string
	maxFiles   int
	extractors map[string]Extractor
	logger     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxFiles caps how many files are read; zero means no cap.
func WithMaxFiles(n int) Option {
	return func(l *Loader) { l.maxFiles = n }
}

// WithExtractor registers an extractor for an extension such as ".pdf".
func WithExtractor(ext string, e Extractor) Option {
	return func(l *Loader) { l.extractors[strings.ToLower(ext)] = e }
}

// New creates a loader for dir with plain text, markdown and PDF extractors.
func New(dir string, logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		dir:    dir,
		logger: logger,
		extractors: map[string]Extractor{
			".txt": ExtractorFunc(readPlain),
			".md":  ExtractorFunc(readPlain),
			".pdf": PDFReader{},
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the directory (non-recursive) in name order.
// Unsupported, empty and unreadable files are skipped with a warning.
func (l *Loader) Load(ctx context.Context) ([]document.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read source dir %s: %w", l.dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	docs := make([]document.Document, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if l.maxFiles > 0 && len(docs) >= l.maxFiles {
			l.logger.Info("Source file limit reached", zap.Int("max_files", l.maxFiles))
			break
		}

		doc, err := l.loadFile(ctx, e.Name())
		if err != nil {
			l.logger.Warn("Skipping source file", zap.String("file_name", e.Name()), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *Loader) loadFile(ctx context.Context, name string) (document.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	extractor, ok := l.extractors[ext]
	if !ok {
		return document.Document{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	text, err := extractor.Extract(ctx, filepath.Join(l.dir, name))
	if err != nil {
		return document.Document{}, fmt.Errorf("extract: %w", err)
	}
	return document.New(name, text)
}

func readPlain(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8", filepath.Base(path))
	}
	return string(data), nil
}
