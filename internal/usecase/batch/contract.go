package batch

import "context"

// Analyzer returns the raw model answer for one stored file.
type Analyzer interface {
	Analyze(ctx context.Context, fileName string) (string, error)
}

// FileLister lists the files held by the chunk store.
type FileLister interface {
	FileNames(ctx context.Context) ([]string, error)
}
