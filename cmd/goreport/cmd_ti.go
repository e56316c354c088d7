package main

import (
	"fmt"

	report "github.com/rmera/goreport"
	"github.com/rmera/goreport/ti"
	"github.com/spf13/cobra"
)

func newTICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ti TABLE",
		Short: "Thermodynamic integration of a free energy gradient",
		Long: `Integrates a free energy gradient over a collective variable, both read from a
table (such as the BM-i.dat and THFO-i.dat written by the bluemoon and thfo commands).
By default the gradient is integrated step by step. With --bin or --region the samples
are first averaged in bins of the collective variable, and empty bins are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			S, err := report.ParseFile(args[0], s.opts...)
			if err != nil {
				return err
			}
			coord, _ := cmd.Flags().GetString("coord")
			grad, _ := cmd.Flags().GetString("grad")
			nframes, _ := cmd.Flags().GetInt("nframes")
			region, _ := cmd.Flags().GetFloat64Slice("region")
			var P *ti.Profile
			if cmd.Flags().Changed("bin") || len(region) > 0 {
				o := ti.BinOptions{Width: s.cfg.BinWidth, NFrames: nframes}
				if cmd.Flags().Changed("bin") {
					o.Width, _ = cmd.Flags().GetFloat64("bin")
				}
				if len(region) > 0 {
					if len(region) != 2 {
						return fmt.Errorf("--region takes two values, low,high, got %v", region)
					}
					o.Low, o.High, o.HasRegion = region[0], region[1], true
				}
				P, err = ti.Binned(S, coord, grad, o)
			} else {
				P, err = ti.Integrate(S, coord, grad, nframes)
			}
			if err != nil {
				return err
			}
			ext, energy := P.Extreme()
			s.log.Debug("integrated", "source", S.Source(), "points", P.Len(), "extreme", P.Coord[ext], "energy", energy)
			if s.json {
				return s.printJSON(map[string]interface{}{
					"profile": P,
					"extreme": map[string]interface{}{"index": ext, "coord": P.Coord[ext], "energy": energy},
				})
			}
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				if err := ti.WriteProfileFile(out, P); err != nil {
					return err
				}
				s.log.Info("wrote free energy profile", "file", out, "points", P.Len())
			} else if err := ti.WriteProfile(s.out, P); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "# extreme: coord %.4f energy %.4f\n", P.Coord[ext], energy)
			return nil
		},
	}
	cmd.Flags().String("coord", "cv_1", "Observable with the collective variable")
	cmd.Flags().String("grad", "grad_1", "Observable with the free energy gradient")
	cmd.Flags().Int("nframes", 0, "Use only the first nframes records (0: all)")
	cmd.Flags().Float64("bin", 0, "Bin width for the collective variable (default from the configuration, 0.1)")
	cmd.Flags().Float64Slice("region", nil, "Integrate only the bins with centers in (low,high)")
	cmd.Flags().String("out", "", "Write the profile to this file instead of stdout")
	return cmd
}
