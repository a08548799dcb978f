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
	dbPath := flag.String("db", "", "path to modeshift.db")
	last := flag.Int("last", 0, "export only the N most recent frames (0 = all)")
	outPath := flag.String("out", "", "output fixture JSON path")
	initial := flag.String("initial", "neutral", "initial mode recorded in the fixture")
	seed := flag.Int64("seed", 0, "sampler seed recorded in the fixture")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/modeshift.db --out path/to/fixture.json [--last N] [--initial MODE] [--seed N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *outPath, *last, *initial, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run extracts recorded frames from the journal and writes them as a replay
// fixture. The decisions captured alongside each frame become the fixture's
// expectations, pinning the session as a regression case.
func run(dbPath, outPath string, last int, initial string, seed int64) error {
	if _, ok := mode.Parse(initial); !ok {
		return fmt.Errorf("unknown initial mode %q", initial)
	}

	jnl, err := journal.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	rows, err := jnl.Frames()
	if err != nil {
		return fmt.Errorf("read frames: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no frames recorded in journal")
	}
	if last > 0 && last < len(rows) {
		rows = rows[len(rows)-last:]
	}

	f := &replay.Fixture{
		Description: fmt.Sprintf("exported from %s (%d frames)", dbPath, len(rows)),
		InitialMode: initial,
		Seed:        seed,
	}
	base := rows[0].Frame.At
	for i, row := range rows {
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

	if err := replay.SaveFixture(outPath, f); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(f.Frames), outPath)
	return nil
}

// #endregion export
