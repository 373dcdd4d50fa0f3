package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool
	root := &cobra.Command{
		Use:           "bn2cnf",
		Short:         "Encode discrete Bayesian networks as weighted CNF formulas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newEncodeCmd(), newGenerateCmd(), newCheckCmd())
	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
