package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pseudonym/internal/dataset"
	"pseudonym/internal/index"
	"pseudonym/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var reindex bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Pseudonymize the input tree into the output tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger()
			if err != nil {
				return err
			}

			store, err := index.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := pipeline.NewRunner(cfg, log, store, dataset.MsgpackCodec{})
			if err != nil {
				return err
			}
			if reindex {
				if err := runner.Reindex(); err != nil {
					return err
				}
			}

			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Discovered", "Processed", "Quarantined", "Duplicates"},
				[][]string{{
					fmt.Sprintf("%d", summary.Discovered),
					fmt.Sprintf("%d", summary.Processed),
					fmt.Sprintf("%d", summary.Quarantined),
					fmt.Sprintf("%d", summary.Duplicates),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reindex, "reindex", false, "Rebuild the identity index before processing")
	return cmd
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var reindex bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the identity index without processing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger()
			if err != nil {
				return err
			}

			store, err := index.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := pipeline.NewRunner(cfg, log, store, dataset.MsgpackCodec{})
			if err != nil {
				return err
			}
			if reindex {
				if err := runner.Reindex(); err != nil {
					return err
				}
			}

			files, err := runner.Index(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files\n", files)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reindex, "reindex", false, "Discard the existing index marker first")
	return cmd
}
