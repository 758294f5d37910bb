package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/matchcast/app"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/pkg/export"
)

func newPredictCmd(root *rootOptions) *cobra.Command {
	var (
		red, blue     string
		format        string
		factorDefense bool
		varianceScale float64
	)
	cmd := &cobra.Command{
		Use:   "predict --red a,b,c --blue d,e,f",
		Short: "Forecast one match between two alliances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			redRoster, err := model.NewRoster(model.ParseTeamIDs(red))
			if err != nil {
				return fmt.Errorf("red: %w", err)
			}
			blueRoster, err := model.NewRoster(model.ParseTeamIDs(blue))
			if err != nil {
				return fmt.Errorf("blue: %w", err)
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("factor-defense") {
				cfg.Engine.FactorDefense = factorDefense
			}
			if cmd.Flags().Changed("variance-scale") {
				cfg.Engine.VarianceScale = varianceScale
				if err := cfg.Engine.Validate(); err != nil {
					return err
				}
			}
			svc, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeService(svc)

			rep, err := svc.Predict(cmd.Context(), redRoster, blueRoster)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return export.WriteJSON(cmd.OutOrStdout(), rep)
			case "text":
				return export.WriteText(cmd.OutOrStdout(), rep)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&red, "red", "", "red alliance team identifiers, comma separated")
	cmd.Flags().StringVar(&blue, "blue", "", "blue alliance team identifiers, comma separated")
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&factorDefense, "factor-defense", false, "discount shifts played on defense")
	cmd.Flags().Float64Var(&varianceScale, "variance-scale", 1, "multiplier applied to the score uncertainty")
	_ = cmd.MarkFlagRequired("red")
	_ = cmd.MarkFlagRequired("blue")
	return cmd
}
