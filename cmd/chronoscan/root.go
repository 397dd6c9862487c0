package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/chronoscan/internal/config"
)

// errNoDomain is returned after printing usage when no target was given.
var errNoDomain = errors.New(`required flag "domain" not set (or use --list)`)

// NewRootCmd creates the root command for chronoscan.
// Running it with --domain performs a scan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chronoscan",
		Short: "Find sensitive files in the Wayback Machine archive of a domain",
		Long: `chronoscan asks the Wayback Machine CDX index for every URL it has archived
under a domain and its subdomains, and flags the ones that look sensitive:

  Configuration   .env .yml .ini .xml .json .bak ...   CRITICAL
  Database        .sql .db .sqlite .dump .log ...      CRITICAL
  Source Code     .git .php .py .sh .jsp ...           SENSITIVE
  Documents       .pdf .doc .xlsx .csv .txt ...        INFO
  Keys/Secrets    api_key, token, password, id_rsa ... CRITICAL

Static assets (images, fonts, stylesheets, media) are ignored. Findings are
grouped by category and written to chronos_report_<domain>.txt unless another
format or path is chosen. Each run is recorded so it can be reviewed later
with 'chronoscan history'.

Examples:
  # Scan a domain
  chronoscan -d example.com

  # Write a Markdown report to a custom path
  chronoscan -d https://example.com/ --format markdown -o reports/example.md

  # Scan a list of domains, four at a time
  chronoscan -l targets.txt -b 4

  # Retry an overloaded index twice and route through Tor
  chronoscan -d example.com --retries 2 --proxy 127.0.0.1:9050`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Target flags
	cmd.Flags().StringP("domain", "d", "",
		"Target domain (e.g., example.com); scheme and path are stripped")
	cmd.Flags().StringP("list", "l", "",
		"File with one target per line ('#' starts a comment)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans with --list")

	// Archive query flags
	cmd.Flags().StringP("endpoint", "e", config.DefaultEndpoint,
		"CDX search endpoint")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each archive request")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries,
		"Extra attempts after a timeout or 5xx response")
	cmd.Flags().Duration("retry-backoff", config.DefaultRetryBackoff,
		"Base delay between retries (multiplied by the attempt number)")
	cmd.Flags().StringP("user-agent", "u", "",
		"User-Agent header (default: chronoscan/<version>)")
	cmd.Flags().StringP("proxy", "p", "",
		"SOCKS5 proxy address for archive requests (e.g., 127.0.0.1:9050)")

	// Report flags
	cmd.Flags().StringP("output", "o", "",
		"Report file path (default: chronos_report_<domain>.<ext>)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: text, json, markdown or xlsx")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not print the banner and completion line")
	cmd.Flags().Bool("json-log", false,
		"Write diagnostic logs as JSON")

	// Configuration and history
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .chronoscan in current or home directory)")
	cmd.Flags().Bool("no-db", false,
		"Do not record this run in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// runRootCmd prints usage when no target is given, otherwise runs a scan.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	domain, err := cmd.Flags().GetString("domain")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetString("list")
	if err != nil {
		return err
	}

	if domain == "" && list == "" {
		cmd.SetOut(cmd.ErrOrStderr())
		_ = cmd.Help() //nolint:errcheck // usage output is best effort
		return errNoDomain
	}

	return runScanCmd(cmd)
}

// formatFlagValues lists the accepted --format values for completion.
func formatFlagValues() []string {
	return config.Formats()
}

// Execute runs the root command.
func Execute() {
	cmd := NewRootCmd()
	_ = cmd.RegisterFlagCompletionFunc("format", //nolint:errcheck // flag is defined above
		func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return formatFlagValues(), cobra.ShellCompDirectiveNoFileComp
		})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
