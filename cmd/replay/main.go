package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/modeshift/internal/journal"
	"github.com/danielpatrickdp/modeshift/internal/mode"
	"github.com/danielpatrickdp/modeshift/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to modeshift.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	initial := flag.String("initial", "neutral", "initial mode for DB replays")
	seed := flag.Int64("seed", 0, "sampler seed for DB replays")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/modeshift.db [--initial MODE] [--seed N]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *initial, *seed)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-mode

// runDBMode rebuilds a fixture from the journal's frame log and replays it.
// The recorded decided modes become the expectations, so divergence means
// the engine's behavior changed since the session was captured.
func runDBMode(dbPath, initial string, seed int64) int {
	if _, ok := mode.Parse(initial); !ok {
		fmt.Fprintf(os.Stderr, "unknown initial mode %q\n", initial)
		return 2
	}

	jnl, err := journal.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open journal: %v\n", err)
		return 2
	}
	defer jnl.Close()

	frames, err := jnl.Frames()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read frames: %v\n", err)
		return 2
	}
	if len(frames) == 0 {
		fmt.Fprintln(os.Stderr, "no frames recorded in journal")
		return 2
	}

	f := &replay.Fixture{
		Description: fmt.Sprintf("journal replay of %s", dbPath),
		InitialMode: initial,
		Seed:        seed,
	}
	base := frames[0].Frame.At
	for i, row := range frames {
		f.Frames = append(f.Frames, replay.FixtureFrame{
			OffsetMs: row.Frame.At.Sub(base).Milliseconds(),
			Scup:     row.Frame.Scup,
			Entropy:  row.Frame.Entropy,
			Heat:     row.Frame.Heat,
		})
		f.Expected = append(f.Expected, replay.Expectation{
			Index:        i,
			Mode:         row.Decided.String(),
			InTransition: row.InTransition,
		})
	}

	return runAndCompare(f)
}

// #endregion db-mode

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	return runAndCompare(f)
}

// #endregion fixture-mode

// #region output

// runAndCompare replays a fixture and prints a per-frame comparison table.
// Exit code 0 on full match, 1 on divergence.
func runAndCompare(f *replay.Fixture) int {
	results, summary, err := replay.Run(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	mismatchAt := make(map[int]replay.Mismatch, len(f.Expected))
	for _, m := range replay.Compare(f, results) {
		mismatchAt[m.Index] = m
	}
	expectedAt := make(map[int]replay.Expectation, len(f.Expected))
	for _, e := range f.Expected {
		expectedAt[e.Index] = e
	}

	fmt.Printf("%-8s| %-10s| %-14s| %-14s| %s\n", "Frame", "Offset", "Expected", "Replayed", "Match")
	fmt.Printf("%-8s+%-11s+%-15s+%-15s+%s\n",
		"--------", "-----------", "---------------", "---------------", "------")

	diverge := 0
	for _, r := range results {
		exp, pinned := expectedAt[r.Index]
		expLabel := "-"
		match := "OK"
		if pinned {
			expLabel = exp.Mode
			if _, bad := mismatchAt[r.Index]; bad {
				match = "DIFF"
				diverge++
			}
		}
		fmt.Printf("%-8d| %-10s| %-14s| %-14s| %s\n",
			r.Index, fmt.Sprintf("%dms", r.OffsetMs), expLabel, r.Mode, match)
	}

	fmt.Printf("\nSummary: %d frames, %d transitions (%d emergency), final mode %s, %d diverge\n",
		summary.TotalFrames, summary.Transitions, summary.Emergencies, summary.FinalMode, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion output
