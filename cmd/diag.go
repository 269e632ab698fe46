package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/debtrisk-cli/internal/report"
)

var diagColumns []string

var diagCmd = &cobra.Command{
	Use:   "diag FILE",
	Short: "Show the detected column mapping and zero-payment customers",
	Long: `Explains a file before classifying it: which column was detected for
each role, which roles are missing, and which customers have an average
payment of 0 (they score 0 risk points).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newColumnResolver(cfg.Ingest, diagColumns)
		if err != nil {
			return err
		}

		ds, err := resolver.loadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "diag: load")
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(report.Diagnose(ds)); err != nil {
			return eris.Wrap(err, "diag: encode")
		}
		return eris.Wrap(enc.Close(), "diag: flush")
	},
}

func init() {
	diagCmd.Flags().StringArrayVar(&diagColumns, "column", nil, "explicit column mapping as role=column (repeatable)")
	rootCmd.AddCommand(diagCmd)
}
