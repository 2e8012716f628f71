package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pseudonym/internal/index"
	"pseudonym/internal/preflight"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show store contents and environment readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cfg) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out)

			store, err := index.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			markerState := "absent"
			if marker, err := index.ReadMarker(index.MarkerPath(cfg)); err == nil && marker != nil {
				markerState = "built by run " + marker.RunID
				if !marker.Written.IsZero() {
					markerState += " at " + marker.Written.Format("2006-01-02 15:04:05")
				}
			}

			for _, line := range renderSectionHeader("Identity store", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Accessions", "Assigned", "Fingerprints", "Index marker"},
				[][]string{{
					fmt.Sprintf("%d", counts.Accessions),
					fmt.Sprintf("%d", counts.Assigned),
					fmt.Sprintf("%d", counts.Fingerprints),
					markerState,
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
