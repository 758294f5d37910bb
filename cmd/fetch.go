package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/matchcast/infra/dataset"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "fetch team...",
		Short: "Download scouting data for teams into a local file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			svc, _, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeService(svc)
			ds, err := svc.LoadDataset(cmd.Context(), teamArgs(args))
			if err != nil {
				return err
			}
			if err := dataset.WriteFile(out, ds); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			teams, matches := dataset.Summary(ds)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d teams (%d matches) to %s\n", teams, matches, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "fetched_data.json", "destination file")
	return cmd
}
