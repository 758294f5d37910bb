package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/pkg/export"
)

func newAveragesCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "averages [team...]",
		Short: "Average fuel per phase for each team",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeService(svc)
			avgs, err := svc.Averages(cmd.Context(), teamArgs(args))
			if err != nil {
				return err
			}
			switch format {
			case "csv":
				return export.WriteAveragesCSV(cmd.OutOrStdout(), avgs)
			case "json":
				return export.WriteJSON(cmd.OutOrStdout(), avgs)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "csv", "output format: csv or json")
	return cmd
}

func newRowsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rows [team...]",
		Short: "Flatten scouted matches into CSV rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeService(svc)
			rows, err := svc.Rows(cmd.Context(), teamArgs(args))
			if err != nil {
				return err
			}
			return export.WriteRowsCSV(cmd.OutOrStdout(), rows)
		},
	}
}

// teamArgs accepts identifiers as separate arguments or comma lists.
func teamArgs(args []string) []model.TeamID {
	var ids []model.TeamID
	for _, a := range args {
		ids = append(ids, model.ParseTeamIDs(a)...)
	}
	return ids
}
