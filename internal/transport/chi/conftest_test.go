package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	dombatch "github.com/kailas-cloud/cvdex/internal/domain/batch"
	"github.com/kailas-cloud/cvdex/internal/session"
	gen "github.com/kailas-cloud/cvdex/internal/transport/api"
	healthuc "github.com/kailas-cloud/cvdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/cvdex/internal/usecase/index"
)

// --- Mocks ---

type mockIndexer struct {
	ensureFn    func(ctx context.Context) (indexuc.Outcome, error)
	rebuildFn   func(ctx context.Context) (indexuc.Outcome, error)
	fileNamesFn func(ctx context.Context) ([]string, error)
}

func (m *mockIndexer) Ensure(ctx context.Context) (indexuc.Outcome, error) {
	if m.ensureFn != nil {
		return m.ensureFn(ctx)
	}
	return indexuc.Outcome{Loaded: true}, nil
}

func (m *mockIndexer) Rebuild(ctx context.Context) (indexuc.Outcome, error) {
	if m.rebuildFn != nil {
		return m.rebuildFn(ctx)
	}
	return indexuc.Outcome{Built: true}, nil
}

func (m *mockIndexer) FileNames(ctx context.Context) ([]string, error) {
	if m.fileNamesFn != nil {
		return m.fileNamesFn(ctx)
	}
	return nil, nil
}

type mockOrchestrator struct {
	runAllFn  func(ctx context.Context, concurrency int) (*dombatch.Run, error)
	analyzeFn func(ctx context.Context, fileName string) dombatch.Result
}

func (m *mockOrchestrator) RunAll(ctx context.Context, concurrency int) (*dombatch.Run, error) {
	if m.runAllFn != nil {
		return m.runAllFn(ctx, concurrency)
	}
	return dombatch.NewRun("run-0", time.Now(), time.Now(), nil), nil
}

func (m *mockOrchestrator) Analyze(ctx context.Context, fileName string) dombatch.Result {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, fileName)
	}
	return dombatch.NewEmpty(fileName)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type testEnv struct {
	index   *mockIndexer
	batch   *mockOrchestrator
	session *session.Session
	health  *mockHealth
	handler http.Handler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		index:   &mockIndexer{},
		batch:   &mockOrchestrator{},
		session: session.New(),
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
	srv := NewServer(env.index, env.batch, env.session, env.health, nil)
	env.handler = gen.HandlerWithOptions(srv, gen.ChiServerOptions{
		BaseRouter: chi.NewRouter(),
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, err.Error())
		},
	})
	return env
}

func decodeBody[T any](body []byte) (T, error) {
	var v T
	err := json.Unmarshal(body, &v)
	return v, err
}
