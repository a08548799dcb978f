package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/danielpatrickdp/modeshift/internal/engine"
	"github.com/danielpatrickdp/modeshift/internal/journal"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to modeshift.db")
	last := flag.Int("last", 20, "show N most recent transitions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of tables")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/modeshift.db [--last N] [--json]")
		os.Exit(2)
	}

	jnl, err := journal.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open journal: %v\n", err)
		os.Exit(1)
	}
	defer jnl.Close()

	if err := run(jnl, *last, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region output

func run(jnl *journal.Journal, last int, jsonOut bool) error {
	stats, err := jnl.Stats()
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	records, err := jnl.RecentTransitions(last)
	if err != nil {
		return fmt.Errorf("transitions: %w", err)
	}

	if jsonOut {
		out := map[string]any{
			"stats":       stats,
			"transitions": records,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printStats(stats)
	printTransitions(records)
	return nil
}

func printStats(stats journal.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("JOURNAL SUMMARY")
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Frames", stats.TotalFrames},
		{"Transitions", stats.TotalTransitions},
		{"Emergencies", stats.Emergencies},
	})
	t.Render()
	fmt.Println()

	if len(stats.Pairs) == 0 {
		return
	}
	p := table.NewWriter()
	p.SetOutputMirror(os.Stdout)
	p.SetTitle("TRANSITIONS BY PAIR")
	p.SetStyle(table.StyleRounded)
	p.AppendHeader(table.Row{"From", "To", "Count"})
	for _, pc := range stats.Pairs {
		p.AppendRow(table.Row{pc.From, pc.To, pc.Count})
	}
	p.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	p.Render()
	fmt.Println()
}

func printTransitions(records []engine.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("RECENT TRANSITIONS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"At", "From", "To", "Reason", "Duration", "P", "Emergency"})
	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.At.UTC().Format(time.RFC3339),
			rec.From.String(),
			rec.To.String(),
			string(rec.Reason),
			rec.Duration.String(),
			fmt.Sprintf("%.3f", rec.Probability),
			rec.IsEmergency,
		})
	}
	t.Render()
}

// #endregion output
