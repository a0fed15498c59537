package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/domain"
	dombatch "github.com/kailas-cloud/cvdex/internal/domain/batch"
	"github.com/kailas-cloud/cvdex/internal/domain/document"
	"github.com/kailas-cloud/cvdex/internal/envelope"
	"github.com/kailas-cloud/cvdex/internal/export"
	"github.com/kailas-cloud/cvdex/internal/metrics"
	gen "github.com/kailas-cloud/cvdex/internal/transport/api"
	chiTransport "github.com/kailas-cloud/cvdex/internal/transport/chi"
	"github.com/kailas-cloud/cvdex/internal/tui"
	"github.com/kailas-cloud/cvdex/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cvdex",
		Short:        "Retrieval-augmented CV analysis",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newIndexCmd(),
		newFilesCmd(),
		newAnalyzeCmd(),
		newUICmd(),
		newVersionCmd(),
	)
	return root
}

type runFunc func(ctx context.Context, a *app, cmd *cobra.Command) error

// withApp builds the composition root for the duration of one command.
func withApp(run runFunc) func(*cobra.Command, []string) error {
	return withAppLevel("", run)
}

// withAppLevel is withApp with a log level override ("" keeps the configured one).
func withAppLevel(level string, run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, level)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(ctx, a, cmd)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  withApp(runServe),
	}
}

func runServe(ctx context.Context, a *app, _ *cobra.Command) error {
	logger := a.logger
	logger.Info("Starting cvdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", a.cfg.HTTP.Port),
		zap.Strings("db_addrs", a.cfg.Database.Addrs),
	)

	// Load or build the index before accepting requests.
	// An empty source directory is not fatal: POST /api/v1/index can build later.
	if _, err := a.ensureIndex(ctx, false); err != nil {
		if !errors.Is(err, domain.ErrNoDocuments) {
			return fmt.Errorf("ensure index: %w", err)
		}
		logger.Warn("No source documents, serving an empty index", zap.String("source_dir", a.cfg.Index.SourceDir))
	}

	server := chiTransport.NewServer(a.index, a.batch, a.session, a.health, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(a.cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: paramErrorHandler,
	})

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func newIndexCmd() *cobra.Command {
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Load the persisted index or build it from the source directory",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			out, err := a.ensureIndex(ctx, rebuild)
			if err != nil {
				return err
			}
			switch {
			case out.Loaded:
				cmd.Printf("Loaded existing index: %d files\n", len(out.FileNames))
			default:
				cmd.Printf("Built index: %d documents, %d chunks\n", out.Documents, out.Chunks)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "drop the stored chunks and rebuild from the source directory")
	return cmd
}

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the file names held by the chunk store",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			names, err := a.index.FileNames(ctx)
			if err != nil {
				return err
			}
			for _, n := range names {
				cmd.Println(n)
			}
			return nil
		}),
	}
}

type analyzeFlags struct {
	file        string
	concurrency int
	xlsx        string
	verbose     bool
}

func newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse every indexed CV and print the JSON envelope",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command) error {
			return runAnalyze(ctx, a, cmd, f)
		}),
	}
	cmd.Flags().StringVar(&f.file, "file", "", "analyse a single file instead of the whole index")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "files analysed in parallel (0 = configured default)")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "also write the results to this Excel workbook")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "include per-file statuses in the output")
	return cmd
}

func runAnalyze(ctx context.Context, a *app, cmd *cobra.Command, f analyzeFlags) error {
	if f.concurrency < 0 {
		return fmt.Errorf("--concurrency must not be negative")
	}
	if _, err := a.ensureIndex(ctx, false); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	var run *dombatch.Run
	if f.file != "" {
		if err := document.ValidateFileName(f.file); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidFileName, err)
		}
		start := time.Now()
		res := a.batch.Analyze(ctx, f.file)
		run = dombatch.NewRun(uuid.NewString(), start, time.Now(), []dombatch.Result{res})
	} else {
		var err error
		if run, err = a.batch.RunAll(ctx, f.concurrency); err != nil {
			return err
		}
	}

	data, err := envelope.EncodeRun(run, f.verbose)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	cmd.Println(string(data))

	if f.xlsx != "" {
		path, err := export.Save(f.xlsx, run)
		if err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		cmd.PrintErrf("Wrote %s\n", path)
	}
	return nil
}

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		// logs share the terminal with the alternate screen
		RunE: withAppLevel("error", func(ctx context.Context, a *app, _ *cobra.Command) error {
			if _, err := a.ensureIndex(ctx, false); err != nil {
				return fmt.Errorf("ensure index: %w", err)
			}
			return tui.Run(ctx, a.batch, a.session)
		}),
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	}
}
