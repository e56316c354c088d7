package main

import (
	"fmt"
	"path/filepath"

	report "github.com/rmera/goreport"
	"github.com/rmera/goreport/vasp"
	"github.com/spf13/cobra"
)

func addVaspFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("ncons", "n", 0, "Number of constraints (0: detect from the first step)")
	cmd.Flags().Int("max-steps", 0, "Read at most this many MD steps (0: all)")
	cmd.Flags().String("dat-dir", ".", "Directory for the per-constraint tables")
	cmd.Flags().String("ext", ".dat", "Extension of the tables, .dat.gz or .dat.zst compress them")
}

func vaspOptions(cmd *cobra.Command, s *settings) vasp.Options {
	n, _ := cmd.Flags().GetInt("ncons")
	m, _ := cmd.Flags().GetInt("max-steps")
	return vasp.Options{NCons: n, MaxSteps: m, Logger: s.log}
}

func tablePath(cmd *cobra.Command, prefix string, i int) string {
	dir, _ := cmd.Flags().GetString("dat-dir")
	ext, _ := cmd.Flags().GetString("ext")
	return filepath.Join(dir, fmt.Sprintf("%s-%d%s", prefix, i, ext))
}

type gradientSummary struct {
	Constraint  int                     `json:"constraint"`
	File        string                  `json:"file"`
	Convergence []vasp.ConvergencePoint `json:"convergence"`
}

func newBlueMoonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bluemoon REPORT",
		Short: "Extract blue moon data from a VASP REPORT file",
		Long: `Reads the constrained MD information of a VASP REPORT file and writes, for each
constraint i, the table BM-i.dat with the collective variable, lambda, |z|^(-1/2),
|z|^(-1/2)*(lambda+GkT) and the free energy gradient at every MD step. It then prints
the blue moon estimate of the free energy gradient, discarding the first --drop steps,
every --interval steps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			S, err := vasp.ReadReportFile(args[0], vaspOptions(cmd, s))
			if err != nil {
				return err
			}
			drop := intFlag(cmd, "drop", s.cfg.Drop)
			interval := intFlag(cmd, "interval", s.cfg.Interval)
			var summaries []gradientSummary
			for i := 1; i <= vasp.NConstraints(S); i++ {
				path := tablePath(cmd, "BM", i)
				if err := report.WriteDatFile(path, S, vasp.BlueMoonColumns(S, i)...); err != nil {
					return err
				}
				s.log.Info("wrote blue moon table", "file", path, "steps", S.Len())
				conv, err := vasp.GradientConvergence(S, i, drop, interval)
				if err != nil {
					return err
				}
				summaries = append(summaries, gradientSummary{Constraint: i, File: path, Convergence: conv})
			}
			if s.json {
				return s.printJSON(summaries)
			}
			for _, g := range summaries {
				fmt.Fprintf(s.out, "# constraint %d (%s)\n# %8s %14s %14s\n", g.Constraint, g.File, "steps", "gradient", "lambda_std")
				for _, c := range g.Convergence {
					fmt.Fprintf(s.out, "%10d %14.6f %14.6f\n", c.Steps, c.Gradient, c.StdDev)
				}
			}
			return nil
		},
	}
	addVaspFlags(cmd)
	cmd.Flags().Int("drop", 0, "Steps discarded as equilibration (default from the configuration)")
	cmd.Flags().Int("interval", 0, "Steps between running estimates, 0 for only the final one (default from the configuration)")
	return cmd
}

func newThfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thfo TFILOG",
		Short: "Extract thermodynamic forces from a VASP TFILOG file",
		Long: `Reads the reaction coordinates and free energy gradients from a VASP TFILOG file
and writes, for each constraint i, the table THFO-i.dat with both at every MD step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			S, err := vasp.ReadTFILOGFile(args[0], vaspOptions(cmd, s))
			if err != nil {
				return err
			}
			var files []string
			for i := 1; S.Has(vasp.FEG(i)); i++ {
				cols := []string{vasp.FEG(i)}
				if S.Has(vasp.RC(i)) {
					cols = append([]string{vasp.RC(i)}, cols...)
				}
				path := tablePath(cmd, "THFO", i)
				if err := report.WriteDatFile(path, S, cols...); err != nil {
					return err
				}
				s.log.Info("wrote thermodynamic force table", "file", path, "steps", S.Len())
				files = append(files, path)
			}
			if s.json {
				return s.printJSON(map[string]interface{}{"source": S.Source(), "steps": S.Len(), "files": files})
			}
			for _, f := range files {
				fmt.Fprintln(s.out, f)
			}
			return nil
		},
	}
	addVaspFlags(cmd)
	return cmd
}
