package engine

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/scoring"
)

// #region history

// History holds the bounded rings of committed transitions: the full journal
// ring and the short momentum ring. Oldest entries drop silently on overflow.
type History struct {
	records     []Record
	momentum    []Record
	maxRecords  int
	maxMomentum int
}

func newHistory(historySize, momentumSize int) *History {
	return &History{maxRecords: historySize, maxMomentum: momentumSize}
}

// Append adds a record to both rings.
func (h *History) Append(r Record) {
	h.records = append(h.records, r)
	if len(h.records) > h.maxRecords {
		h.records = h.records[1:]
	}
	h.momentum = append(h.momentum, r)
	if len(h.momentum) > h.maxMomentum {
		h.momentum = h.momentum[1:]
	}
}

// Len returns the number of transitions currently retained.
func (h *History) Len() int {
	return len(h.records)
}

// Recent returns up to limit most recent records, oldest first.
func (h *History) Recent(limit int) []Record {
	if limit <= 0 || len(h.records) == 0 {
		return nil
	}
	if limit > len(h.records) {
		limit = len(h.records)
	}
	out := make([]Record, limit)
	copy(out, h.records[len(h.records)-limit:])
	return out
}

// Events projects the momentum ring into the shape the momentum calculation
// consumes. Momentum samples are derived at query time, never stored.
func (h *History) Events() []scoring.TransitionEvent {
	events := make([]scoring.TransitionEvent, 0, len(h.momentum))
	for _, r := range h.momentum {
		events = append(events, scoring.TransitionEvent{From: r.From, To: r.To, At: r.At})
	}
	return events
}

// #endregion history

// #region stats

// stats aggregates the retained records.
func (h *History) stats() (pairs map[string]int, avgByFrom map[mode.Mode]time.Duration, emergencies int) {
	pairs = make(map[string]int)
	sums := make(map[mode.Mode]time.Duration)
	counts := make(map[mode.Mode]int)

	for _, r := range h.records {
		pairs[fmt.Sprintf("%s→%s", r.From, r.To)]++
		sums[r.From] += r.Duration
		counts[r.From]++
		if r.IsEmergency {
			emergencies++
		}
	}

	avgByFrom = make(map[mode.Mode]time.Duration, len(sums))
	for m, total := range sums {
		avgByFrom[m] = total / time.Duration(counts[m])
	}
	return pairs, avgByFrom, emergencies
}

// #endregion stats
