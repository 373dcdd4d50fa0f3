package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crillab/bn2cnf/bn"
	"github.com/crillab/bn2cnf/encoder"
)

func newEncodeCmd() *cobra.Command {
	var (
		circuitType string
		determinism bool
		csi         bool
		selector    string
	)
	cmd := &cobra.Command{
		Use:   "encode input.bif output.cnf",
		Short: "Encode a BIF network as a DIMACS CNF formula",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outPath := args[0], args[1]
			if !strings.HasSuffix(inPath, ".bif") {
				return errors.Errorf("input file %q must end with .bif", inPath)
			}
			ct, err := encoder.ParseCircuitType(circuitType)
			if err != nil {
				return err
			}
			sel, err := encoder.ParseSelectorStrategy(selector)
			if err != nil {
				return err
			}
			opts := ct.Options()
			opts.Determinism = determinism
			opts.CSI = csi
			opts.Selector = sel

			in, err := os.Open(inPath)
			if err != nil {
				return errors.Wrapf(err, "could not open %q", inPath)
			}
			defer in.Close()
			net, err := bn.Parse(in)
			if err != nil {
				return errors.Wrapf(err, "could not parse %q", inPath)
			}
			log := logrus.StandardLogger()
			log.WithFields(logrus.Fields{
				"network":   net.Name,
				"variables": len(net.Variables),
				"circuit":   ct.String(),
				"selector":  sel.String(),
			}).Info("network parsed")

			enc, err := encoder.New(net, opts, log)
			if err != nil {
				return err
			}
			// the output file must not already exist
			out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return errors.Wrapf(err, "could not create %q", outPath)
			}
			if err := enc.Encode(out); err != nil {
				out.Close()
				os.Remove(outPath)
				return err
			}
			if err := out.Close(); err != nil {
				os.Remove(outPath)
				return errors.Wrapf(err, "could not finalize %q", outPath)
			}
			stats := enc.Stats()
			log.WithFields(logrus.Fields{
				"variables": stats.Variables,
				"clauses":   stats.Clauses,
				"output":    outPath,
			}).Info("CNF written")
			return nil
		},
	}
	cmd.Flags().StringVar(&circuitType, "circuit-type", encoder.NWDNNF.String(), "target circuit type (nwDNNF, dDNNF or sdDNNF)")
	cmd.Flags().BoolVar(&determinism, "determinism", false, "elide probability-1 rows and harden probability-0 rows")
	cmd.Flags().BoolVar(&csi, "csi", false, "shrink clauses using context-specific independence")
	cmd.Flags().StringVar(&selector, "selector", encoder.SelectorNone.String(), "selector strategy for hard clauses (NONE, ONE or NEW)")
	return cmd
}
