// Package api exposes the aggregation views over a small JSON API. It is the
// boundary the external presentation layer talks to; no rendering happens
// here.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/colstats/mortality/pkg/mortality"
)

// allValue is the sentinel the presentation layer sends for "no filter". It
// is translated into mortality.All at this boundary and never reaches the
// aggregation engine as a string.
const allValue = "ALL"

// Server serves the seven views plus filter options and a dataset summary.
type Server struct {
	builder *mortality.Builder
	log     *zap.Logger
	metrics *metrics
}

// NewServer wires the dataset builder into the HTTP layer.
func NewServer(builder *mortality.Builder, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{builder: builder, log: log, metrics: newMetrics()}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/summary", s.handleSummary)
		r.Get("/views/{view}", s.handleView)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	s.respond(w, http.StatusOK, ds.FilterOptions())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	s.respond(w, http.StatusOK, ds.Summarize())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}

	q := r.URL.Query()
	filters := mortality.Filters{
		Sex:        parseFilter(q.Get("sexo")),
		Department: parseFilter(q.Get("departamento")),
		AgeBracket: parseFilter(q.Get("categoria_edad")),
	}

	view := chi.URLParam(r, "view")
	var rows interface{}
	switch view {
	case "mapa-departamentos":
		rows = ds.DeathsByDepartment(filters, parseFilter(q.Get("manera_muerte")))
	case "serie-mensual":
		rows = ds.MonthlySeries(filters)
	case "top-ciudades-violentas":
		rows = ds.TopViolentCities(filters)
	case "bottom-ciudades":
		rows = ds.LowestMortalityCities(filters)
	case "top-causas":
		rows = ds.TopCauses(filters)
	case "barras-sexo":
		rows = ds.DeathsBySex(filters)
	case "histograma-edad":
		rows = ds.AgeHistogram(filters)
	default:
		s.respond(w, http.StatusNotFound, map[string]string{"error": "unknown view: " + view})
		return
	}

	s.metrics.viewRequests.WithLabelValues(view).Inc()
	s.respond(w, http.StatusOK, map[string]interface{}{
		"vista": view,
		"filas": rows,
	})
}

// dataset hands out the memoized snapshot, building it on first use. A failed
// build answers 503 so an orchestrator can restart the process once the
// sources are in place.
func (s *Server) dataset(w http.ResponseWriter) (*mortality.Dataset, bool) {
	start := time.Now()
	ds, err := s.builder.Dataset()
	if err != nil {
		s.metrics.viewErrors.Inc()
		s.log.Error("dataset unavailable", zap.Error(err))
		s.respond(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return nil, false
	}
	if elapsed := time.Since(start); elapsed > time.Millisecond {
		// Only the first call actually builds; memoized hits are instant.
		s.metrics.buildSeconds.Set(elapsed.Seconds())
	}
	s.metrics.datasetRows.Set(float64(len(ds.Records)))
	return ds, true
}

func parseFilter(v string) mortality.Filter {
	if v == "" || v == allValue {
		return mortality.All()
	}
	return mortality.Match(v)
}

func (s *Server) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("write response", zap.Error(err))
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
