package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rialms/scottspence.me/internal/portfolio"
)

// CardLister exposes the cards of the last build.
type CardLister interface {
	Cards() []portfolio.Card
}

type Options struct {
	Logger    *slog.Logger
	OutputDir string
	Cards     CardLister
	Gatherer  prometheus.Gatherer
}

// NewRouter serves the built site together with a small JSON API for the
// project cards and the build metrics.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, opts.Logger, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/projects", func(w http.ResponseWriter, _ *http.Request) {
			cards := opts.Cards.Cards()
			if cards == nil {
				cards = []portfolio.Card{}
			}

			respondJSON(w, opts.Logger, http.StatusOK, cards)
		})

		r.Get("/projects/{key}", func(w http.ResponseWriter, r *http.Request) {
			key := chi.URLParam(r, "key")

			for _, card := range opts.Cards.Cards() {
				if card.Key == key {
					respondJSON(w, opts.Logger, http.StatusOK, card)

					return
				}
			}

			respondJSON(w, opts.Logger, http.StatusNotFound,
				map[string]string{"error": "project not found"})
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	r.Handle("/*", siteHandler(opts.OutputDir))

	return r
}

// siteHandler serves the output directory without directory listings and
// with caching disabled.
func siteHandler(outputDir string) http.Handler {
	fs := http.FileServer(http.Dir(outputDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			_, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(r.URL.Path), "index.html"))
			if os.IsNotExist(err) {
				http.NotFound(w, r)

				return
			}
		}

		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		fs.ServeHTTP(w, r)
	})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status())
		})
	}
}

func respondJSON(w http.ResponseWriter, log *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("error encoding JSON", "err", err)
	}
}
