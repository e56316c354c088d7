//goreport reads the step-by-step output of simulation runs and summarizes it:
//aggregates of report observables, cumulative integrals, blue moon and
//thermodynamic integration of VASP constrained MD, and blocking analysis.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	report "github.com/rmera/goreport"
	"github.com/rmera/goreport/internal/config"
	"github.com/rmera/goreport/internal/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "goreport:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "goreport",
		Short: "Summarize simulation reports",
		Long: `goreport parses the per-step reports written by simulation runs and
summarizes them. Reports can be plain text or compressed (.gz, .zst, .s2).

Settings are read from ./goreport.yaml (or the file given with --config) and
from GOREPORT_* environment variables. Flags override both.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ./goreport.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringSlice("fields", nil, "Field declaration to use instead of the one in the reports, e.g. step,time,energy")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject report lines with more columns than declared")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAggregateCmd(),
		newProfileCmd(),
		newBlueMoonCmd(),
		newThfoCmd(),
		newTICmd(),
		newBlockCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if s.json {
				return s.printJSON(map[string]interface{}{"version": version, "format": report.FormatVersion})
			}
			fmt.Fprintf(s.out, "goreport version %s (report format %d)\n", version, report.FormatVersion)
			return nil
		},
	}
}

//settings gathers what every command needs: the configuration, with the global
//flags applied, the logger and the parse options.
type settings struct {
	cfg  *config.Config
	log  *slog.Logger
	json bool
	out  io.Writer
	opts []report.ParseOption
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		cfg.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	s := &settings{
		cfg: cfg,
		log: logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
		out: cmd.OutOrStdout(),
	}
	s.json, _ = cmd.Flags().GetBool("json")
	s.opts = []report.ParseOption{report.WithLogger(s.log), report.WithDefaultFields(cfg.Fields...)}
	if fields, _ := cmd.Flags().GetStringSlice("fields"); len(fields) > 0 {
		s.opts = append(s.opts, report.WithFields(fields...))
	}
	if cfg.Strict {
		s.opts = append(s.opts, report.WithStrictColumns())
	}
	return s, nil
}

func (s *settings) printJSON(v interface{}) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

//intFlag returns the value of the flag name if it was given, def otherwise.
func intFlag(cmd *cobra.Command, name string, def int) int {
	if !cmd.Flags().Changed(name) {
		return def
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

//mergedReports parses the report files in order and merges them into one series.
func (s *settings) mergedReports(paths []string) (*report.Series, error) {
	series, err := report.ParseFiles(paths, s.opts...)
	if err != nil {
		return nil, err
	}
	M, err := report.Merge(series)
	if err != nil {
		return nil, err
	}
	s.log.Debug("merged reports", "files", len(paths), "records", M.Len())
	return M, nil
}
