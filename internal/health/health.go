package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/jusunglee/josa"
)

// Probe is a selection with a known answer, run on every health check.
type Probe struct {
	Noun     string
	Category josa.Category
	Want     string
}

var defaultProbes = []Probe{
	{Noun: "고양이", Category: josa.IGa, Want: "가"},
	{Noun: "사냥꾼", Category: josa.EunNeun, Want: "은"},
	{Noun: "물", Category: josa.I, Want: "이"},
}

type Server struct {
	httpServer *http.Server
	selector   *josa.Selector
	probes     []Probe
}

func New(port int, selector *josa.Selector) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		selector: selector,
		probes:   slices.Clone(defaultProbes),
	}
	mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) check() error {
	for _, p := range s.probes {
		got, err := s.selector.Select(p.Noun, p.Category)
		if err != nil {
			return fmt.Errorf("probe %s+%s: %w", p.Noun, p.Category, err)
		}
		if got != p.Want {
			return fmt.Errorf("probe %s+%s: got %q, want %q", p.Noun, p.Category, got, p.Want)
		}
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.check(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
