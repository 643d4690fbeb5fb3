package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/beans/pkg/cli"
	"mercator-hq/beans/pkg/journal"
)

var historyFlags struct {
	limit  int
	status string
	since  time.Duration
	prune  bool
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded loads from the journal",
	Long: `Show loads recorded in the journal, newest first.

History survives across runs only with the sqlite journal backend.

Examples:
  # Last 20 loads
  beans history --limit 20

  # Failed loads in the last day
  beans history --status failure --since 24h

  # Apply retention now
  beans history --prune`,
	RunE: showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "filter by status: success, failure")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only entries newer than this duration")
	historyCmd.Flags().BoolVar(&historyFlags.prune, "prune", false, "apply retention before listing")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
}

func showHistory(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(historyFlags.format))
	if err != nil {
		return err
	}

	query := &journal.Query{Limit: historyFlags.limit}
	switch journal.Status(historyFlags.status) {
	case "":
	case journal.StatusSuccess, journal.StatusFailure:
		query.Status = journal.Status(historyFlags.status)
	default:
		return fmt.Errorf("invalid status %q (want success or failure)", historyFlags.status)
	}
	if historyFlags.since > 0 {
		query.Since = time.Now().Add(-historyFlags.since)
	}

	cfg, err := readConfig(nil)
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return fmt.Errorf("journal is disabled in configuration")
	}

	a, err := newApp(cfg, errWriter(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	out := outWriter(cmd)

	if historyFlags.prune {
		pruner := journal.NewPruner(a.journal, journal.PrunerConfigFrom(cfg.Journal),
			journal.WithPrunerLogger(a.logger),
			journal.WithPrunerMetrics(a.metrics),
		)
		deleted, err := pruner.Prune(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(errWriter(cmd), "Pruned %d entries\n", deleted)
	}

	entries, err := a.journal.List(ctx, query)
	if err != nil {
		return err
	}

	if cli.OutputFormat(historyFlags.format) == cli.FormatJSON {
		if entries == nil {
			entries = []*journal.Entry{}
		}
		return formatter.FormatTo(out, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No loads recorded")
		return nil
	}
	table := cli.NewTable(out, "TIME", "TRIGGER", "STATUS", "DEFINITIONS", "OVERRIDES", "DURATION", "ERROR")
	for _, e := range entries {
		table.Row(
			e.Time.Local().Format(time.DateTime),
			e.Trigger,
			string(e.Status),
			strconv.Itoa(e.Definitions),
			strconv.Itoa(e.Overrides),
			e.Duration.Round(time.Microsecond).String(),
			firstLine(e.Error),
		)
	}
	return table.Flush()
}

// firstLine shortens multi-line error messages for the table.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
