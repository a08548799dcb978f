package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danielpatrickdp/modeshift/internal/engine"
	"github.com/danielpatrickdp/modeshift/internal/journal"
	"github.com/danielpatrickdp/modeshift/internal/metrics"
	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/scoring"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region server-struct

// Server exposes one engine over HTTP. The engine is not concurrency-safe,
// so every handler that touches it takes the mutex.
type Server struct {
	mu      sync.Mutex
	eng     *engine.Engine
	jnl     *journal.Journal // nil disables persistence
	lastID  string
	maxBody int64
}

// NewServer wraps an engine, optionally journaling every decision.
func NewServer(eng *engine.Engine, jnl *journal.Journal) *Server {
	return &Server{eng: eng, jnl: jnl, maxBody: 1 << 16}
}

// Router builds the chi route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/state", s.handleState)
	r.Get("/v1/transitions", s.handleTransitions)
	r.Get("/v1/stats", s.handleStats)
	r.Post("/v1/tick", s.handleTick)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

// #endregion server-struct

// #region wire-types

type tickRequest struct {
	Scup    float64       `json:"scup"`
	Entropy float64       `json:"entropy"`
	Heat    float64       `json:"heat"`
	At      string        `json:"at,omitempty"`
	Hint    *scoring.Hint `json:"hint,omitempty"`
	Recent  []string      `json:"recent,omitempty"`
}

type tickResponse struct {
	Mode         string      `json:"mode"`
	InTransition bool        `json:"in_transition"`
	IsEmergency  bool        `json:"is_emergency"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	Fraction     float64     `json:"fraction"`
	Blended      mode.Vector `json:"blended"`
	Momentum     float64     `json:"momentum"`
	Inertia      float64     `json:"inertia"`
}

type stateResponse struct {
	Mode         string  `json:"mode"`
	TimeInModeMs int64   `json:"time_in_mode_ms"`
	InTransition bool    `json:"in_transition"`
	Progress     float64 `json:"progress"`
	Momentum     float64 `json:"momentum"`
	Inertia      float64 `json:"inertia"`
}

type transitionResponse struct {
	ID          string  `json:"id"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	At          string  `json:"at"`
	DurationMs  int64   `json:"duration_ms"`
	Reason      string  `json:"reason"`
	Probability float64 `json:"probability"`
	Momentum    float64 `json:"momentum"`
	Inertia     float64 `json:"inertia"`
	IsEmergency bool    `json:"is_emergency"`
}

// #endregion wire-types

// #region handlers

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "modes": modeNames()})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	info := s.eng.Info()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, stateResponse{
		Mode:         info.Mode.String(),
		TimeInModeMs: info.TimeInMode.Milliseconds(),
		InTransition: info.InTransition,
		Progress:     info.Progress,
		Momentum:     info.Momentum,
		Inertia:      info.Inertia,
	})
}

func (s *Server) handleTransitions(w http.ResponseWriter, req *http.Request) {
	limit := 20
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	s.mu.Lock()
	records := s.eng.RecentTransitions(limit)
	s.mu.Unlock()

	out := make([]transitionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, transitionResponse{
			ID:          rec.ID,
			From:        rec.From.String(),
			To:          rec.To.String(),
			At:          rec.At.UTC().Format(time.RFC3339Nano),
			DurationMs:  rec.Duration.Milliseconds(),
			Reason:      string(rec.Reason),
			Probability: rec.Probability,
			Momentum:    rec.Momentum,
			Inertia:     rec.Inertia,
			IsEmergency: rec.IsEmergency,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"transitions": out})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	stats := s.eng.Stats()
	s.mu.Unlock()

	avgMs := make(map[string]int64, len(stats.AvgDurationByFrom))
	for m, d := range stats.AvgDurationByFrom {
		avgMs[m.String()] = d.Milliseconds()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_transitions":   stats.TotalTransitions,
		"emergencies":         stats.Emergencies,
		"counts_by_pair":      stats.CountsByPair,
		"avg_duration_ms":     avgMs,
		"momentum":            stats.Momentum,
		"inertia":             stats.Inertia,
	})
}

func (s *Server) handleTick(w http.ResponseWriter, req *http.Request) {
	var in tickRequest
	if err := decodeJSONBody(w, req, s.maxBody, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	frame := signals.Frame{Scup: in.Scup, Entropy: in.Entropy, Heat: in.Heat}
	if in.At != "" {
		at, err := time.Parse(time.RFC3339Nano, in.At)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "at must be RFC3339"})
			return
		}
		frame.At = at
	}

	recent := make([]mode.Mode, 0, len(in.Recent))
	for _, name := range in.Recent {
		m, ok := mode.Parse(name)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown mode " + name})
			return
		}
		recent = append(recent, m)
	}

	decided, prog, info := s.Tick(frame, recent, in.Hint)

	writeJSON(w, http.StatusOK, tickResponse{
		Mode:         decided.String(),
		InTransition: prog.InTransition,
		IsEmergency:  prog.IsEmergency,
		From:         prog.From.String(),
		To:           prog.To.String(),
		Fraction:     prog.Fraction,
		Blended:      prog.Blended,
		Momentum:     info.Momentum,
		Inertia:      info.Inertia,
	})
}

// #endregion handlers

// #region tick

// Tick runs one decision through the engine and records it in the journal
// and the metrics. Both the HTTP handler and the demo generator go through
// here so recorded sessions look the same either way.
func (s *Server) Tick(frame signals.Frame, recent []mode.Mode, hint *scoring.Hint) (mode.Mode, engine.Progress, engine.Info) {
	// Stamp here, not just inside Decide: the journal sees this frame too,
	// and replay offsets are computed from the journaled timestamps.
	if frame.At.IsZero() {
		frame.At = time.Now()
	}

	s.mu.Lock()
	decided, prog := s.eng.Decide(frame, recent, hint)
	info := s.eng.Info()
	var committed *engine.Record
	if recs := s.eng.RecentTransitions(1); len(recs) == 1 && recs[0].ID != s.lastID {
		committed = &recs[0]
		s.lastID = recs[0].ID
	}
	s.mu.Unlock()

	metrics.UpdateEngine(info)
	if committed != nil {
		metrics.RecordTransition(*committed)
	}

	if s.jnl != nil {
		if err := s.jnl.RecordFrame(frame, decided, prog.InTransition); err != nil {
			log.Printf("[HTTP] journal frame: %v", err)
		}
		if committed != nil {
			if err := s.jnl.RecordTransition(*committed); err != nil {
				log.Printf("[HTTP] journal transition: %v", err)
			}
		}
	}
	return decided, prog, info
}

// #endregion tick

// #region helpers

func modeNames() []string {
	names := make([]string, 0, len(mode.All()))
	for _, m := range mode.All() {
		names = append(names, m.String())
	}
	return names
}

func decodeJSONBody(w http.ResponseWriter, req *http.Request, maxBytes int64, out any) error {
	defer req.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// #endregion helpers
