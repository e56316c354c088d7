package main

import (
	"errors"
	"fmt"

	report "github.com/rmera/goreport"
	"github.com/rmera/goreport/repstat"
	"github.com/spf13/cobra"
)

type blockSummary struct {
	Source     string               `json:"source"`
	Observable string               `json:"observable"`
	N          int                  `json:"n"`
	Levels     []repstat.BlockLevel `json:"levels"`
	Optimal    int                  `json:"optimal"`
	CorrTime   *float64             `json:"corr_time"`
}

func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block FILE...",
		Short: "Blocking analysis of the error of an observable's mean",
		Long: `Parses and joins the report files, discards the first --drop records and runs
the Flyvbjerg-Petersen blocking analysis on the observable. The optimal block level
is marked with a *. The integrated autocorrelation time is also printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			obs := s.cfg.Observable
			if cmd.Flags().Changed("observable") {
				obs, _ = cmd.Flags().GetString("observable")
			}
			drop := intFlag(cmd, "drop", s.cfg.Drop)
			M, err := s.mergedReports(args)
			if err != nil {
				return err
			}
			data, _ := M.Column(obs)
			if len(data) == 0 {
				return report.NewError(report.ErrUnknownObservable, M.Source(), 0, fmt.Sprintf("%q is not present in any record", obs))
			}
			if drop >= len(data) {
				return report.NewError(report.ErrEmptyInput, M.Source(), 0, fmt.Sprintf("all %d records were dropped", len(data)))
			}
			data = data[drop:]
			levels, err := repstat.Reblock(data)
			if err != nil {
				return err
			}
			sum := blockSummary{Source: M.Source(), Observable: obs, N: len(data), Levels: levels, Optimal: repstat.OptimalBlock(levels, len(data))}
			tau, err := repstat.CorrTime(data)
			switch {
			case errors.Is(err, repstat.ErrZeroVariance):
				s.log.Warn("constant data, no correlation time", "observable", obs)
			case err != nil:
				return err
			default:
				sum.CorrTime = &tau
			}
			if s.json {
				return s.printJSON(sum)
			}
			fmt.Fprintf(s.out, "# %s in %s, %d records\n", obs, sum.Source, sum.N)
			fmt.Fprintf(s.out, "# %3s %8s %8s %14s %14s %14s\n", "lvl", "size", "blocks", "mean", "std_err", "std_err_err")
			for i, l := range levels {
				mark := ""
				if i == sum.Optimal {
					mark = " *"
				}
				fmt.Fprintf(s.out, "  %s%s\n", l, mark)
			}
			if sum.Optimal < 0 {
				fmt.Fprintln(s.out, "# no optimal block: the series is too short for a reliable error estimate")
			}
			if sum.CorrTime != nil {
				fmt.Fprintf(s.out, "# correlation time: %.3f steps\n", *sum.CorrTime)
			}
			return nil
		},
	}
	cmd.Flags().StringP("observable", "o", "", "Observable to analyze (default from the configuration, energy)")
	cmd.Flags().Int("drop", 0, "Records discarded as equilibration (default from the configuration)")
	return cmd
}
