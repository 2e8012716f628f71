package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pseudonym/internal/dataset"
	"pseudonym/internal/validate"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Audit the output tree for leaked attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger()
			if err != nil {
				return err
			}

			validator, err := validate.New(cfg, log, dataset.MsgpackCodec{})
			if err != nil {
				return err
			}
			report, err := validator.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.OK() {
				fmt.Fprintf(out, "Checked %d files: output tree is clean\n", report.Checked)
				return nil
			}

			rows := make([][]string, 0, len(report.Violations))
			for _, v := range report.Violations {
				rows = append(rows, []string{v.File, v.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Violation"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return fmt.Errorf("validation failed: %d violations in %d files checked", len(report.Violations), report.Checked)
		},
	}
}
