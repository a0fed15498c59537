package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	dombatch "github.com/kailas-cloud/cvdex/internal/domain/batch"
	"github.com/kailas-cloud/cvdex/internal/logger"
	"github.com/kailas-cloud/cvdex/internal/metrics"
	"github.com/kailas-cloud/cvdex/internal/normalizer"
)

// DefaultConcurrency analyses files one at a time.
const DefaultConcurrency = 1

// Service runs the analyzer over many files and collects one result per file.
type Service struct {
	analyzer    Analyzer
	files       FileLister
	concurrency int
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// New creates a batch orchestrator.
func New(analyzer Analyzer, files FileLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		analyzer:    analyzer,
		files:       files,
		concurrency: DefaultConcurrency,
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      logger,
	}
}

// WithConcurrency bounds how many files are analysed at once.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Concurrency returns the configured bound.
func (s *Service) Concurrency() int { return s.concurrency }

// RunAll analyses every file in the chunk store. concurrency <= 0 uses the
// configured bound.
func (s *Service) RunAll(ctx context.Context, concurrency int) (*dombatch.Run, error) {
	names, err := s.files.FileNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if concurrency <= 0 {
		concurrency = s.concurrency
	}
	return s.run(ctx, names, concurrency), nil
}

// Run analyses fileNames and returns exactly one result per name, in input order.
// Per-file failures never abort the run. Files not started before ctx is done
// get an error result.
func (s *Service) Run(ctx context.Context, fileNames []string) *dombatch.Run {
	return s.run(ctx, fileNames, s.concurrency)
}

func (s *Service) run(ctx context.Context, fileNames []string, concurrency int) *dombatch.Run {
	started := s.now()
	runID := s.newID()
	ctx = logger.WithFields(ctx, s.logger, zap.String("run_id", runID))
	results := make([]dombatch.Result, len(fileNames))
	filled := make([]bool, len(fileNames))

	sem := semaphore.NewWeighted(int64(concurrency))
	for i, name := range fileNames {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		filled[i] = true
		go func() {
			defer sem.Release(1)
			results[i] = s.analyzeOne(ctx, name)
		}()
	}
	// Wait for in-flight files. Background ctx keeps the wait itself uncancellable.
	_ = sem.Acquire(context.Background(), int64(concurrency))

	for i, name := range fileNames {
		if !filled[i] {
			results[i] = dombatch.NewError(name, fmt.Errorf("not started: %w", ctx.Err()))
			metrics.AnalysisResultsTotal.WithLabelValues(string(dombatch.StatusError)).Inc()
		}
	}

	run := dombatch.NewRun(runID, started, s.now(), results)
	metrics.AnalysisRunsTotal.Inc()
	logger.FromContextOr(ctx, s.logger).Info("Analysis completed.",
		zap.Int("files", run.Len()),
		zap.Int("ok", run.Count(dombatch.StatusOK)),
		zap.Int("empty", run.Count(dombatch.StatusEmpty)),
		zap.Int("error", run.Count(dombatch.StatusError)),
		zap.Int("concurrency", concurrency),
		zap.Duration("duration", run.Duration()),
	)
	return run
}

// Analyze runs a single file through the analyzer and the normalizer.
func (s *Service) Analyze(ctx context.Context, fileName string) dombatch.Result {
	return s.analyzeOne(ctx, fileName)
}

func (s *Service) analyzeOne(ctx context.Context, fileName string) dombatch.Result {
	start := time.Now()
	res := s.process(ctx, fileName)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.AnalysisResultsTotal.WithLabelValues(string(res.Status())).Inc()
	return res
}

func (s *Service) process(ctx context.Context, fileName string) (res dombatch.Result) {
	log := logger.FromContextOr(ctx, s.logger).With(zap.String("file_name", fileName))
	defer func() {
		if p := recover(); p != nil {
			log.Error("Analysis panicked", zap.Any("panic", p))
			res = dombatch.NewError(fileName, fmt.Errorf("analysis panicked: %v", p))
		}
	}()

	raw, err := s.analyzer.Analyze(ctx, fileName)
	if err != nil {
		log.Warn("Analysis failed", zap.Error(err))
		return dombatch.NewError(fileName, err)
	}

	out := normalizer.Normalize(raw)
	if !out.Parsed {
		log.Warn("Model output is not a JSON object", zap.Int("length", len(raw)))
		return dombatch.NewEmpty(fileName)
	}
	return dombatch.NewOK(fileName, out.Record)
}
