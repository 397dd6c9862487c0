package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/chronoscan/internal/archive"
	"github.com/nao1215/chronoscan/internal/classify"
	"github.com/nao1215/chronoscan/internal/config"
	"github.com/nao1215/chronoscan/internal/database"
	"github.com/nao1215/chronoscan/internal/log"
	"github.com/nao1215/chronoscan/internal/model"
	"github.com/nao1215/chronoscan/internal/pipeline"
	"github.com/nao1215/chronoscan/internal/report"
	"github.com/nao1215/chronoscan/internal/target"
)

// runScanCmd builds the configuration from flags and runs the scan.
func runScanCmd(cmd *cobra.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	jsonLog, err := cmd.Flags().GetBool("json-log")
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, jsonLog)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cmd.OutOrStdout(), cfg, logger)
}

// getPersistentBool retrieves a boolean flag from the command or its root.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig creates a Config from defaults, the config file and the
// flags the user changed, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.UserAgent = config.DefaultUserAgent(getVersion())
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist. The default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if cfg.ConfigFilePath != "" && configPath == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := file.Apply(cfg); err != nil {
			return nil, err
		}
	}

	if flags.Changed("endpoint") {
		if cfg.Endpoint, err = flags.GetString("endpoint"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("retries") {
		if cfg.Retries, err = flags.GetInt("retries"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}

	if cfg.RetryBackoff, err = flags.GetDuration("retry-backoff"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.Verbose = getPersistentBool(cmd, "verbose")
	cfg.NoColor = getPersistentBool(cmd, "no-color")

	var raws []string
	domain, err := flags.GetString("domain")
	if err != nil {
		return nil, err
	}
	if domain != "" {
		raws = append(raws, domain)
	}

	if cfg.ListFile, err = flags.GetString("list"); err != nil {
		return nil, err
	}
	if cfg.ListFile != "" {
		listed, err := readTargetList(cfg.ListFile)
		if err != nil {
			return nil, err
		}
		raws = append(raws, listed...)
	}
	cfg.Targets = target.NormalizeAll(raws)

	return cfg, nil
}

// readTargetList reads one target per line. Blank lines and lines starting
// with '#' are skipped.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	return parseTargetList(f)
}

// parseTargetList splits r into targets.
func parseTargetList(r io.Reader) ([]string, error) {
	var targets []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}

// setupLogger creates the diagnostic logger. Console progress goes through
// the Reporter; slog only carries debug and warning details.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return log.NewSecureJSONLogger(w, verbose)
	}
	return log.NewSecureLogger(w, verbose)
}

// runScan executes a scan over every target in cfg.
func runScan(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	reporter := log.NewConsoleReporter(out, log.WithNoColor(cfg.NoColor))

	if !cfg.Quiet {
		printBanner(out, cfg.NoColor)
	}
	checkPrivilege(reporter, os.Geteuid)

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	httpClient, err := archive.NewHTTPClient(cfg.Timeout, cfg.ProxyAddress)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}
	client := archive.NewClient(
		archive.WithHTTPClient(httpClient),
		archive.WithEndpoint(cfg.Endpoint),
		archive.WithTimeout(cfg.Timeout),
		archive.WithUserAgent(cfg.UserAgent),
		archive.WithRetries(cfg.Retries, cfg.RetryBackoff),
		archive.WithReporter(reporter),
		archive.WithLogger(logger),
	)

	logger.Debug("starting scan",
		"targets", len(cfg.Targets),
		"endpoint", cfg.Endpoint,
		"timeout", cfg.Timeout,
		"retries", cfg.Retries,
		"proxy", cfg.ProxyAddress != "",
		"format", cfg.Format,
	)

	settings := pipeline.ScanSettings{
		Fetcher:    client,
		Classifier: classify.New(),
		Reporter:   reporter,
		Format:     format,
		OutputFile: cfg.ReportFile,
		Version:    getVersion(),
		Logger:     logger,
	}

	// History is a convenience. A database that cannot be opened must not
	// prevent the scan.
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("run history disabled", "dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			settings.Store = db
			logger.Debug("history database opened", "path", db.Path())
		}
	}

	if cfg.IsBatch() {
		err = runBatchScan(ctx, cfg, settings, reporter, logger)
	} else {
		_, err = pipeline.Scan(ctx, pipeline.NewScanPipeline(settings), cfg.Targets[0])
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("scan interrupted: %w", ctxErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		// Fetch and report failures were already shown to the user and
		// recorded in the report.
		logger.Debug("scan finished with error", "error", err)
	}

	if !cfg.Quiet {
		printCompletion(out, cfg.NoColor)
	}
	return nil
}

// runBatchScan scans all targets with bounded concurrency and prints a
// one-line outcome per target.
func runBatchScan(ctx context.Context, cfg *config.Config, settings pipeline.ScanSettings, reporter log.Reporter, logger *slog.Logger) error {
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline { return pipeline.NewScanPipeline(settings) },
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Targets)
	for _, r := range reports {
		if r == nil {
			continue
		}
		reporter.Info(batchSummaryLine(r))
	}
	return err
}

// batchSummaryLine describes the outcome of one batch target.
func batchSummaryLine(r *model.ScanReport) string {
	switch {
	case r.Error != "":
		return fmt.Sprintf("%s: failed (%s)", r.Target, r.Error)
	case r.Outcome == model.OutcomeFindings:
		return fmt.Sprintf("%s: %d artifacts in %d snapshots, report %s",
			r.Target, len(r.Findings), r.SnapshotCount, r.ReportPath)
	default:
		return fmt.Sprintf("%s: %s", r.Target, r.Outcome)
	}
}
