package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/modeshift/internal/engine"
	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS transitions (
	id            TEXT PRIMARY KEY,
	from_mode     TEXT NOT NULL,
	to_mode       TEXT NOT NULL,
	at            TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	reason        TEXT NOT NULL,
	scup          REAL NOT NULL,
	entropy       REAL NOT NULL,
	heat          REAL NOT NULL,
	probability   REAL NOT NULL,
	momentum      REAL NOT NULL,
	inertia       REAL NOT NULL,
	pattern_bias  REAL NOT NULL,
	is_emergency  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_transitions_at ON transitions(at);

CREATE TABLE IF NOT EXISTS frames (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	at            TEXT NOT NULL,
	scup          REAL NOT NULL,
	entropy       REAL NOT NULL,
	heat          REAL NOT NULL,
	decided_mode  TEXT NOT NULL,
	in_transition INTEGER NOT NULL DEFAULT 0
);
`

// #endregion schema

// #region journal-struct

// Journal persists the engine's transition records and the raw frames it
// decided on. The engine itself never touches this; callers write here after
// each Decide so recorded sessions can be inspected and replayed.
type Journal struct {
	db *sql.DB
}

// #endregion journal-struct

// #region constructor

// Open opens a SQLite journal and runs migrations.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// DB returns the underlying *sql.DB for ad hoc queries (inspect tooling).
func (j *Journal) DB() *sql.DB {
	return j.db
}

// #endregion constructor

// #region transitions

// RecordTransition appends one committed transition.
func (j *Journal) RecordTransition(rec engine.Record) error {
	_, err := j.db.Exec(
		`INSERT INTO transitions
		 (id, from_mode, to_mode, at, duration_ms, reason, scup, entropy, heat,
		  probability, momentum, inertia, pattern_bias, is_emergency)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.From.String(), rec.To.String(),
		rec.At.UTC().Format(time.RFC3339Nano), rec.Duration.Milliseconds(),
		string(rec.Reason), rec.Frame.Scup, rec.Frame.Entropy, rec.Frame.Heat,
		rec.Probability, rec.Momentum, rec.Inertia, rec.PatternBias,
		boolToInt(rec.IsEmergency),
	)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// RecentTransitions returns up to limit most recent transitions, oldest first.
func (j *Journal) RecentTransitions(limit int) ([]engine.Record, error) {
	rows, err := j.db.Query(
		`SELECT id, from_mode, to_mode, at, duration_ms, reason, scup, entropy, heat,
		        probability, momentum, inertia, pattern_bias, is_emergency
		 FROM (SELECT * FROM transitions ORDER BY at DESC LIMIT ?)
		 ORDER BY at ASC`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var records []engine.Record
	for rows.Next() {
		var rec engine.Record
		var fromStr, toStr, atStr, reasonStr string
		var durMs int64
		var emergency int

		if err := rows.Scan(&rec.ID, &fromStr, &toStr, &atStr, &durMs, &reasonStr,
			&rec.Frame.Scup, &rec.Frame.Entropy, &rec.Frame.Heat,
			&rec.Probability, &rec.Momentum, &rec.Inertia, &rec.PatternBias,
			&emergency); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}

		rec.From, _ = mode.Parse(fromStr)
		rec.To, _ = mode.Parse(toStr)
		rec.At, _ = time.Parse(time.RFC3339Nano, atStr)
		rec.Duration = time.Duration(durMs) * time.Millisecond
		rec.Reason = engine.Reason(reasonStr)
		rec.IsEmergency = emergency != 0
		rec.Frame.At = rec.At
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion transitions

// #region frames

// FrameRow pairs a recorded input frame with the decision it produced.
type FrameRow struct {
	Frame        signals.Frame
	Decided      mode.Mode
	InTransition bool
}

// RecordFrame appends one decided frame.
func (j *Journal) RecordFrame(f signals.Frame, decided mode.Mode, inTransition bool) error {
	_, err := j.db.Exec(
		`INSERT INTO frames (at, scup, entropy, heat, decided_mode, in_transition)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.At.UTC().Format(time.RFC3339Nano), f.Scup, f.Entropy, f.Heat,
		decided.String(), boolToInt(inTransition),
	)
	if err != nil {
		return fmt.Errorf("insert frame: %w", err)
	}
	return nil
}

// Frames returns every recorded frame in arrival order.
func (j *Journal) Frames() ([]FrameRow, error) {
	rows, err := j.db.Query(
		`SELECT at, scup, entropy, heat, decided_mode, in_transition
		 FROM frames ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	var frames []FrameRow
	for rows.Next() {
		var fr FrameRow
		var atStr, decidedStr string
		var inTransition int

		if err := rows.Scan(&atStr, &fr.Frame.Scup, &fr.Frame.Entropy, &fr.Frame.Heat,
			&decidedStr, &inTransition); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		fr.Frame.At, _ = time.Parse(time.RFC3339Nano, atStr)
		fr.Decided, _ = mode.Parse(decidedStr)
		fr.InTransition = inTransition != 0
		frames = append(frames, fr)
	}
	return frames, rows.Err()
}

// #endregion frames

// #region stats

// PairCount is one from→to transition count.
type PairCount struct {
	From  string
	To    string
	Count int
}

// Stats summarizes the persisted journal.
type Stats struct {
	TotalTransitions int
	Emergencies      int
	TotalFrames      int
	Pairs            []PairCount
}

// Stats aggregates the journal tables.
func (j *Journal) Stats() (Stats, error) {
	var s Stats

	err := j.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(is_emergency), 0) FROM transitions`,
	).Scan(&s.TotalTransitions, &s.Emergencies)
	if err != nil {
		return Stats{}, fmt.Errorf("count transitions: %w", err)
	}

	if err := j.db.QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&s.TotalFrames); err != nil {
		return Stats{}, fmt.Errorf("count frames: %w", err)
	}

	rows, err := j.db.Query(
		`SELECT from_mode, to_mode, COUNT(*) AS n FROM transitions
		 GROUP BY from_mode, to_mode ORDER BY n DESC`,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("group transitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pc PairCount
		if err := rows.Scan(&pc.From, &pc.To, &pc.Count); err != nil {
			return Stats{}, fmt.Errorf("scan pair: %w", err)
		}
		s.Pairs = append(s.Pairs, pc)
	}
	return s, rows.Err()
}

// #endregion stats

// #region helpers

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
