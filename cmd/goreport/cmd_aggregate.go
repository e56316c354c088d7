package main

import (
	"fmt"

	report "github.com/rmera/goreport"
	"github.com/spf13/cobra"
)

func newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate FILE...",
		Short: "Mean, deviation, range and integral of an observable",
		Long: `Parses the report files, joins them in the given order (renumbering the
steps of later files if needed) and summarizes one observable: mean, population
standard deviation, minimum, maximum and trapezoidal integral over time (or over
the step index, if some record lacks a time).`,
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
			M, err := s.mergedReports(args)
			if err != nil {
				return err
			}
			res, err := report.Aggregate(M, obs)
			if err != nil {
				return err
			}
			if s.json {
				return s.printJSON(res)
			}
			fmt.Fprintf(s.out, "source:     %s\n", res.Source)
			fmt.Fprintf(s.out, "observable: %s\n", res.Observable)
			fmt.Fprintf(s.out, "records:    %d\n", res.N)
			fmt.Fprintf(s.out, "mean:       %.6f\n", res.Mean)
			fmt.Fprintf(s.out, "stddev:     %.6f\n", res.StdDev)
			fmt.Fprintf(s.out, "min:        %.6f\n", res.Min)
			fmt.Fprintf(s.out, "max:        %.6f\n", res.Max)
			fmt.Fprintf(s.out, "integral:   %.6f (over %s %g to %g)\n", res.Integral, res.Axis, res.From, res.To)
			return nil
		},
	}
	cmd.Flags().StringP("observable", "o", "", "Observable to aggregate (default from the configuration, energy)")
	return cmd
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile FILE...",
		Short: "Running integral of an observable",
		Long: `Parses and joins the report files as aggregate does, and writes a table with
the observable and its cumulative trapezoidal integral at every step that has it.`,
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
			M, err := s.mergedReports(args)
			if err != nil {
				return err
			}
			P, axis, err := cumulativeSeries(M, obs)
			if err != nil {
				return err
			}
			if s.json {
				x, cum, _, _ := report.Cumulative(M, obs)
				return s.printJSON(map[string]interface{}{"observable": obs, "axis": axis, "x": x, "integral": cum})
			}
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				if err := report.WriteDatFile(out, P); err != nil {
					return err
				}
				s.log.Info("wrote profile", "file", out, "records", P.Len())
				return nil
			}
			return report.WriteDat(s.out, P)
		},
	}
	cmd.Flags().StringP("observable", "o", "", "Observable to integrate (default from the configuration, energy)")
	cmd.Flags().String("out", "", "Write the table to this file instead of stdout (compressed according to its extension)")
	return cmd
}

//cumulativeSeries returns a series with, for each record of M that has obs, the
//value of obs and its running integral, named obs and obs_integral.
func cumulativeSeries(M *report.Series, obs string) (*report.Series, string, error) {
	_, cum, axis, err := report.Cumulative(M, obs)
	if err != nil {
		return nil, "", err
	}
	vals, idx := M.Column(obs)
	names := []string{obs, obs + "_integral"}
	recs := make([]report.StepRecord, 0, len(idx))
	for i, j := range idx {
		r := M.Record(j)
		var opts []report.RecordOption
		if t, ok := r.Time(); ok && axis == report.AxisTime {
			opts = append(opts, report.AtTime(t))
		}
		rec, err := report.NewStepRecord(r.Step(), names, []float64{vals[i], cum[i]}, opts...)
		if err != nil {
			return nil, "", err
		}
		recs = append(recs, rec)
	}
	P, err := report.NewSeries(M.Source(), recs)
	return P, axis, err
}
