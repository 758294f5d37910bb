package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/pkg/export"
)

func newDiagCmd(root *rootOptions) *cobra.Command {
	var (
		q     diagnostics.Query
		since time.Duration
	)
	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Query stored diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeService(svc)
			if since > 0 {
				q.Start = time.Now().Add(-since)
			}
			entries, err := svc.Diagnostics(cmd.Context(), q)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []diagnostics.Entry{}
			}
			return export.WriteJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&q.RequestID, "request-id", "", "only entries of this request")
	cmd.Flags().StringVar(&q.Team, "team", "", "only entries about this team")
	cmd.Flags().StringVar(&q.Component, "component", "", "only entries raised by this component")
	cmd.Flags().DurationVar(&since, "since", 0, "only entries newer than this duration")
	return cmd
}
