package main

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crillab/bn2cnf/bn"
)

func newGenerateCmd() *cobra.Command {
	var (
		cfg  bn.GenerateConfig
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "generate output.bif",
		Short: "Generate a random two-layer disease/symptom network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath := args[0]
			if !strings.HasSuffix(outPath, ".bif") {
				return errors.Errorf("output file %q must end with .bif", outPath)
			}
			cfg.Seed = seed
			if seed < 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			net, err := bn.Generate(cfg)
			if err != nil {
				return err
			}
			out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return errors.Wrapf(err, "could not create %q", outPath)
			}
			if err := bn.Write(out, net); err != nil {
				out.Close()
				os.Remove(outPath)
				return err
			}
			if err := out.Close(); err != nil {
				os.Remove(outPath)
				return errors.Wrapf(err, "could not finalize %q", outPath)
			}
			log := logrus.StandardLogger().WithFields(logrus.Fields{
				"network": net.Name,
				"edges":   len(net.Edges()),
				"output":  outPath,
			})
			if cfg.Density != 100 {
				log = log.WithField("seed", cfg.Seed)
			}
			log.Info("network written")
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.TopLayerSize, "top-layer-size", 5, "number of disease variables (at least 2)")
	cmd.Flags().IntVar(&cfg.BottomLayerSize, "bottom-layer-size", 5, "number of symptom variables (at least 2)")
	cmd.Flags().IntVar(&cfg.DomainSize, "domain-size", 2, "domain size of every variable (at least 2)")
	cmd.Flags().IntVar(&cfg.Density, "density", 100, "percentage of diseases each symptom depends on (0, 100]")
	cmd.Flags().Int64Var(&seed, "seed", -1, "sampling seed; negative picks one from the clock (ignored at density 100)")
	return cmd
}
