// Package api serves the tracker over a local JSON HTTP API, the same
// operations the CLI and the Discord bot use.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/metrics"
	"github.com/chris/standup/internal/store"
	"github.com/chris/standup/internal/tracker"
)

// Tracker is the core service the API exposes.
type Tracker interface {
	Today() string
	Record(ctx context.Context, text string, at time.Time) (store.Entry, error)
	Entries(ctx context.Context, day string) ([]store.Entry, error)
	Days(ctx context.Context) ([]tracker.Day, error)
	UpdateEntry(ctx context.Context, day string, index int, text string) error
	DeleteEntry(ctx context.Context, day string, index int) error
	SummarizeDay(ctx context.Context, day, job string) (tracker.Outcome, error)
	Summaries(ctx context.Context) ([]store.Summary, error)
	Summary(ctx context.Context, day string) (string, bool, error)
	UpdateSummary(ctx context.Context, day, content string) error
	DeleteSummary(ctx context.Context, day string) error
	Providers(ctx context.Context) ([]tracker.ProviderChoice, error)
	SetProvider(ctx context.Context, id string) error
	BaseDir(ctx context.Context) string
	SetBaseDir(ctx context.Context, dir string) error
	Runs(ctx context.Context, limit int) ([]db.Run, error)
}

// Router creates and configures the HTTP router.
type Router struct {
	tracker  Tracker
	metrics  *metrics.Collector
	log      *zap.SugaredLogger
	validate *validator.Validate
}

func NewRouter(t Tracker, m *metrics.Collector, log *zap.SugaredLogger) *Router {
	return &Router{tracker: t, metrics: m, log: log, validate: newValidator()}
}

// Handler configures all routes and middleware.
func (rt *Router) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(rt.observe)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.health)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", rt.createEntry)
			r.Get("/today", rt.todayEntries)
		})
		r.Route("/days", func(r chi.Router) {
			r.Get("/", rt.listDays)
			r.Get("/{day}/entries", rt.dayEntries)
			r.Put("/{day}/entries/{index}", rt.updateEntry)
			r.Delete("/{day}/entries/{index}", rt.deleteEntry)
			r.Post("/{day}/summary", rt.summarizeDay)
		})
		r.Post("/summarize", rt.summarizeToday)
		r.Route("/summaries", func(r chi.Router) {
			r.Get("/", rt.listSummaries)
			r.Get("/{day}", rt.getSummary)
			r.Put("/{day}", rt.updateSummary)
			r.Delete("/{day}", rt.deleteSummary)
		})
		r.Get("/providers", rt.listProviders)
		r.Put("/provider", rt.setProvider)
		r.Get("/settings/dir", rt.getDir)
		r.Put("/settings/dir", rt.setDir)
		r.Get("/runs", rt.listRuns)
	})

	return router
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// observe logs each request and records it against its route pattern.
func (rt *Router) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		took := time.Since(start)
		rt.metrics.ObserveRequest(r.Method, route, strconv.Itoa(status), took)
		rt.log.Debugw("api: request",
			"method", r.Method,
			"route", route,
			"status", status,
			"took", took,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
