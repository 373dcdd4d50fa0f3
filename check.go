package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crillab/bn2cnf/verify"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check file.cnf",
		Short: "Verify the header counts and satisfiability of a CNF artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := verify.File(args[0])
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"variables":   res.HeaderVars,
				"clauses":     res.HeaderClauses,
				"satisfiable": res.Satisfiable,
			}).Info("artifact checked")
			if !res.Satisfiable {
				return errors.Errorf("%s is unsatisfiable", args[0])
			}
			return nil
		},
	}
}
