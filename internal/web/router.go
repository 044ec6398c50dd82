package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vita/internal/api"
	"vita/internal/assessment"
	"vita/internal/i18n"
	"vita/internal/i18n/i18nhttp"
)

type Deps struct {
	Service      assessment.Service
	Reports      api.ReportRenderer
	Catalog      *i18n.Catalog
	SecureCookie bool
	Log          *slog.Logger
}

// NewRouter wires the pages and the JSON API behind the shared middleware.
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	cat := d.Catalog
	if cat == nil {
		cat = i18n.DefaultCatalog()
	}

	pages := NewPages(d.Service, d.Reports, log)
	handler := api.NewHandler(d.Service, d.Reports, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log.With("component", "http")))
	r.Use(middleware.Recoverer)
	r.Use(i18nhttp.Middleware(cat, i18nhttp.Options{SecureCookie: d.SecureCookie}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/risk-check", http.StatusFound)
	})
	r.Get("/risk-check", pages.Start)
	r.Get("/risk-check/{id}", pages.Show)
	r.Post("/risk-check/{id}", pages.Submit)
	r.Get("/risk-check/{id}/report.pdf", pages.Report)
	r.Post("/language", pages.SetLanguage)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors)
		api.RegisterRoutes(r, handler)
	})
	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"latency", time.Since(start),
				"bytes", ww.BytesWritten(),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				args = append(args, "request_id", id)
			}

			switch {
			case status >= 500:
				log.Error("HTTP request completed with server error", args...)
			case status >= 400:
				log.Warn("HTTP request completed with client error", args...)
			default:
				log.Debug("HTTP request completed", args...)
			}
		})
	}
}

// CORS for API clients served from another origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
