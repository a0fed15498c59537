package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
	// GET /api/v1/files
	ListFiles(w http.ResponseWriter, r *http.Request)
	// POST /api/v1/index
	EnsureIndex(w http.ResponseWriter, r *http.Request, params EnsureIndexParams)
	// POST /api/v1/analysis/runs
	StartAnalysisRun(w http.ResponseWriter, r *http.Request, params StartAnalysisRunParams)
	// GET /api/v1/analysis
	GetLastAnalysis(w http.ResponseWriter, r *http.Request)
	// GET /api/v1/analysis/export.xlsx
	ExportAnalysis(w http.ResponseWriter, r *http.Request)
	// GET /api/v1/analysis/{file_name}
	GetFileAnalysis(w http.ResponseWriter, r *http.Request, fileName FileName)
	// POST /api/v1/analysis/{file_name}
	AnalyzeFile(w http.ResponseWriter, r *http.Request, fileName FileName)
}

// Unimplemented answers 501 for every operation. Embed it to satisfy
// ServerInterface partially.
type Unimplemented struct{}

func (Unimplemented) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) Metrics(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) ListFiles(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) EnsureIndex(w http.ResponseWriter, _ *http.Request, _ EnsureIndexParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) StartAnalysisRun(w http.ResponseWriter, _ *http.Request, _ StartAnalysisRunParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) GetLastAnalysis(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) ExportAnalysis(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) GetFileAnalysis(w http.ResponseWriter, _ *http.Request, _ FileName) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) AnalyzeFile(w http.ResponseWriter, _ *http.Request, _ FileName) {
	w.WriteHeader(http.StatusNotImplemented)
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts raw requests into typed handler calls.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.Handler) {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	h.ServeHTTP(w, r)
}

// HealthCheck operation middleware.
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.HealthCheck))
}

// Metrics operation middleware.
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.Metrics))
}

// ListFiles operation middleware.
func (siw *ServerInterfaceWrapper) ListFiles(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.ListFiles))
}

// EnsureIndex operation middleware.
func (siw *ServerInterfaceWrapper) EnsureIndex(w http.ResponseWriter, r *http.Request) {
	var params EnsureIndexParams

	err := runtime.BindQueryParameter("form", true, false, "rebuild", r.URL.Query(), &params.Rebuild)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "rebuild", Err: err})
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.EnsureIndex(w, r, params)
	}))
}

// StartAnalysisRun operation middleware.
func (siw *ServerInterfaceWrapper) StartAnalysisRun(w http.ResponseWriter, r *http.Request) {
	var params StartAnalysisRunParams

	err := runtime.BindQueryParameter("form", true, false, "concurrency", r.URL.Query(), &params.Concurrency)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "concurrency", Err: err})
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.StartAnalysisRun(w, r, params)
	}))
}

// GetLastAnalysis operation middleware.
func (siw *ServerInterfaceWrapper) GetLastAnalysis(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.GetLastAnalysis))
}

// ExportAnalysis operation middleware.
func (siw *ServerInterfaceWrapper) ExportAnalysis(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.ExportAnalysis))
}

// GetFileAnalysis operation middleware.
func (siw *ServerInterfaceWrapper) GetFileAnalysis(w http.ResponseWriter, r *http.Request) {
	fileName, ok := siw.bindFileName(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetFileAnalysis(w, r, fileName)
	}))
}

// AnalyzeFile operation middleware.
func (siw *ServerInterfaceWrapper) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	fileName, ok := siw.bindFileName(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.AnalyzeFile(w, r, fileName)
	}))
}

func (siw *ServerInterfaceWrapper) bindFileName(w http.ResponseWriter, r *http.Request) (FileName, bool) {
	var fileName FileName
	err := runtime.BindStyledParameterWithOptions("simple", "file_name", chi.URLParam(r, "file_name"), &fileName,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "file_name", Err: err})
		return "", false
	}
	return fileName, true
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL
	r.Get(base+"/health", wrapper.HealthCheck)
	r.Get(base+"/metrics", wrapper.Metrics)
	r.Get(base+"/api/v1/files", wrapper.ListFiles)
	r.Post(base+"/api/v1/index", wrapper.EnsureIndex)
	r.Post(base+"/api/v1/analysis/runs", wrapper.StartAnalysisRun)
	r.Get(base+"/api/v1/analysis", wrapper.GetLastAnalysis)
	r.Get(base+"/api/v1/analysis/export.xlsx", wrapper.ExportAnalysis)
	r.Get(base+"/api/v1/analysis/{file_name}", wrapper.GetFileAnalysis)
	r.Post(base+"/api/v1/analysis/{file_name}", wrapper.AnalyzeFile)

	return r
}
