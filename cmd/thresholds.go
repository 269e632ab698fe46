package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var thresholdsFile string

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Print the effective scoring thresholds as YAML",
	Long: `Prints the thresholds a classify run would use: defaults, overridden by
config.yaml and DEBTRISK_SCORING_* environment variables, and finally by
--thresholds. The output is a valid --thresholds file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scoringConfig(cfg.Scoring, thresholdsFile)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(sc); err != nil {
			return eris.Wrap(err, "thresholds: encode")
		}
		return eris.Wrap(enc.Close(), "thresholds: flush")
	},
}

func init() {
	thresholdsCmd.Flags().StringVar(&thresholdsFile, "thresholds", "", "YAML file overriding the scoring thresholds")
	rootCmd.AddCommand(thresholdsCmd)
}
