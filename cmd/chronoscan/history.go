package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/chronoscan/internal/config"
	"github.com/nao1215/chronoscan/internal/database"
	"github.com/nao1215/chronoscan/internal/model"
	"github.com/nao1215/chronoscan/internal/report"
	"github.com/nao1215/chronoscan/internal/target"
)

// historyTimeLayout is used for run timestamps in listings.
const historyTimeLayout = "2006-01-02 15:04:05"

// errHistoryTarget is returned when a subcommand needs a domain argument.
var errHistoryTarget = errors.New("domain is required (use --list-targets to see recorded domains)")

// NewHistoryCmd creates the history command.
// It reads the runs recorded by previous scans.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "Review and compare previous scans",
		Long: `History shows the scans recorded in the local database.

Every scan stores its target, time, outcome and findings unless --no-db was
given. This command lists those runs, prints a stored report again, or shows
which findings appeared or disappeared between two runs.

Examples:
  # List recorded domains
  chronoscan history --list-targets

  # List runs for a domain, newest first
  chronoscan history example.com

  # Print a stored run as Markdown
  chronoscan history --show 3 --format markdown

  # Compare the latest two runs of a domain
  chronoscan history --diff example.com

  # Compare two specific runs
  chronoscan history --diff --base 2 --head 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-targets", "L", false,
		"List all domains with recorded runs")
	cmd.Flags().Int64P("show", "s", 0,
		"Print the stored report of the run with this ID")
	cmd.Flags().Bool("diff", false,
		"Show findings added and removed between two runs")
	cmd.Flags().Int64("base", 0,
		"Older run ID for --diff (default: second latest run of the domain)")
	cmd.Flags().Int64("head", 0,
		"Newer run ID for --diff (default: latest run of the domain)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format for --show and --diff: text, json or markdown")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	domain      string
	listTargets bool
	showID      int64
	diff        bool
	baseID      int64
	headID      int64
	format      report.Format
	dbDir       string
}

// parseHistoryOptions reads and validates the history flags before the
// database is opened.
func parseHistoryOptions(cmd *cobra.Command, args []string) (*historyOptions, error) {
	opts := &historyOptions{}
	flags := cmd.Flags()

	var err error
	if opts.listTargets, err = flags.GetBool("list-targets"); err != nil {
		return nil, err
	}
	if opts.showID, err = flags.GetInt64("show"); err != nil {
		return nil, err
	}
	if opts.diff, err = flags.GetBool("diff"); err != nil {
		return nil, err
	}
	if opts.baseID, err = flags.GetInt64("base"); err != nil {
		return nil, err
	}
	if opts.headID, err = flags.GetInt64("head"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	formatName, err := flags.GetString("format")
	if err != nil {
		return nil, err
	}
	if opts.format, err = report.ParseFormat(formatName); err != nil {
		return nil, err
	}
	if opts.format == report.FormatXLSX {
		return nil, errors.New("xlsx output cannot be written to the terminal; use text, json or markdown")
	}

	if len(args) > 0 {
		opts.domain = target.Normalize(args[0])
	}

	explicitPair := opts.baseID > 0 && opts.headID > 0
	switch {
	case opts.listTargets, opts.showID > 0:
	case opts.diff && explicitPair:
	case opts.domain == "":
		return nil, errHistoryTarget
	}
	if !opts.diff && (opts.baseID > 0 || opts.headID > 0) {
		return nil, errors.New("--base and --head require --diff")
	}

	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryOptions(cmd, args)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case opts.listTargets:
		return listTargets(ctx, out, db)
	case opts.showID > 0:
		return showRun(ctx, out, db, opts.showID, opts.format)
	case opts.diff:
		return diffRuns(ctx, out, db, opts)
	default:
		return listRuns(ctx, out, db, opts.domain)
	}
}

// listTargets prints every domain with recorded runs.
func listTargets(ctx context.Context, w io.Writer, db *database.HistoryDB) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w, "\nUse 'chronoscan -d <domain>' to scan a domain.")
		return nil
	}

	fmt.Fprintf(w, "Recorded domains (%d):\n\n", len(targets))
	for _, t := range targets {
		fmt.Fprintf(w, "  • %s\n", t)
	}
	fmt.Fprintln(w, "\nUse 'chronoscan history <domain>' to see its runs.")
	return nil
}

// listRuns prints the runs of domain, newest first.
func listRuns(ctx context.Context, w io.Writer, db *database.HistoryDB, domain string) error {
	runs, err := db.ListRuns(ctx, domain)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintf(w, "No runs recorded for %s\n", domain)
		return nil
	}

	fmt.Fprintf(w, "Runs for %s (%d):\n\n", domain, len(runs))
	fmt.Fprintf(w, "  %-6s  %-19s  %-11s  %9s  %s\n", "ID", "Date (UTC)", "Outcome", "Snapshots", "Findings")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 64))
	for _, run := range runs {
		fmt.Fprintf(w, "  %-6d  %-19s  %-11s  %9d  %s\n",
			run.ID,
			run.Timestamp.Format(historyTimeLayout),
			run.Outcome,
			run.SnapshotCount,
			formatSeveritySummary(run.SeveritySummary),
		)
	}

	fmt.Fprintln(w, "\nUse 'chronoscan history --show <id>' to print a run.")
	fmt.Fprintln(w, "Use 'chronoscan history --diff <domain>' to compare the latest two runs.")
	return nil
}

// formatSeveritySummary renders counts as "C:n S:n I:n", or "-" when empty.
func formatSeveritySummary(summary map[string]int) string {
	var parts []string
	if v := summary["critical"]; v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := summary["sensitive"]; v > 0 {
		parts = append(parts, fmt.Sprintf("S:%d", v))
	}
	if v := summary["info"]; v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// showRun prints a stored run with a report writer.
func showRun(ctx context.Context, w io.Writer, db *database.HistoryDB, id int64, format report.Format) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	if !run.HasFindings() && format == report.FormatText {
		fmt.Fprintf(w, "Run %d for %s: %s (%d snapshots)\n", id, run.Target, run.Outcome, run.SnapshotCount)
		if run.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", run.Error)
		}
		return nil
	}

	writer, err := report.NewWriter(format, w, report.WithToolVersion(getVersion()))
	if err != nil {
		return err
	}
	_, err = writer.Write(run)
	return err
}

// diffRuns resolves the two runs to compare and prints their difference.
func diffRuns(ctx context.Context, w io.Writer, db *database.HistoryDB, opts *historyOptions) error {
	baseID, headID := opts.baseID, opts.headID
	if baseID == 0 || headID == 0 {
		runs, err := db.ListRuns(ctx, opts.domain)
		if err != nil {
			return err
		}
		if len(runs) < 2 {
			return fmt.Errorf("at least 2 runs are required for comparison (found %d for %s)", len(runs), opts.domain)
		}
		if baseID, headID, err = resolveDiffRuns(runs, baseID, headID); err != nil {
			return err
		}
	}

	diff, err := db.CompareRuns(ctx, baseID, headID)
	if err != nil {
		return err
	}

	if opts.format == report.FormatJSON {
		return writeDiffJSON(w, diff)
	}
	writeDiffText(w, diff)
	return nil
}

// resolveDiffRuns fills in a missing base or head from runs, which are
// newest first. A missing head is the latest run. A missing base is the
// latest run older than head.
func resolveDiffRuns(runs []database.RunMetadata, baseID, headID int64) (int64, int64, error) {
	if headID == 0 {
		headID = runs[0].ID
	}
	if baseID != 0 {
		return baseID, headID, nil
	}

	for i, run := range runs {
		if run.ID != headID {
			continue
		}
		if i+1 == len(runs) {
			return 0, 0, fmt.Errorf("no run older than %d to compare against", headID)
		}
		return runs[i+1].ID, headID, nil
	}
	return 0, 0, fmt.Errorf("%w: %d", database.ErrRunNotFound, headID)
}

// diffJSON is the JSON form of a run diff.
type diffJSON struct {
	BaseID  int64           `json:"base_id"`
	HeadID  int64           `json:"head_id"`
	Added   []model.Finding `json:"added"`
	Removed []model.Finding `json:"removed"`
}

// writeDiffJSON writes diff as indented JSON.
func writeDiffJSON(w io.Writer, diff *database.RunDiff) error {
	out := diffJSON{
		BaseID:  diff.BaseID,
		HeadID:  diff.HeadID,
		Added:   diff.Added,
		Removed: diff.Removed,
	}
	if out.Added == nil {
		out.Added = []model.Finding{}
	}
	if out.Removed == nil {
		out.Removed = []model.Finding{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeDiffText writes diff as "+"/"-" lines.
func writeDiffText(w io.Writer, diff *database.RunDiff) {
	fmt.Fprintf(w, "Comparing run %d with run %d\n\n", diff.BaseID, diff.HeadID)
	if !diff.HasChanges() {
		fmt.Fprintln(w, "No changes.")
		return
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "New findings (%d):\n", len(diff.Added))
		for _, f := range diff.Added {
			fmt.Fprintf(w, "  + [%s] %s: %s\n", f.SeverityText, f.Category, f.URL)
		}
	}
	if len(diff.Removed) > 0 {
		if len(diff.Added) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Gone since run %d (%d):\n", diff.BaseID, len(diff.Removed))
		for _, f := range diff.Removed {
			fmt.Fprintf(w, "  - [%s] %s: %s\n", f.SeverityText, f.Category, f.URL)
		}
	}
}
