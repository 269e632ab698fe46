package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/export"
	"github.com/sells-group/debtrisk-cli/internal/report"
)

var (
	classifyFormat      string
	classifyLayout      string
	classifyLanguage    string
	classifyOutput      string
	classifyThresholds  string
	classifyColumns     []string
	classifyConcurrency int
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE...",
	Short: "Classify customers and export the results",
	Long: `Reads one or more CSV/XLSX files, scores every customer, builds the
treatment plan and writes the classification, trend, returns and
representative turnover tables.

Examples:
  # One workbook, Arabic sheets next to the input
  debtrisk classify customers.xlsx

  # Single merged sheet in English
  debtrisk classify customers.xlsx --layout unified --lang en -o out.xlsx

  # Several branches at once into a directory of SQLite files
  debtrisk classify branch_*.csv --format sqlite -o results/ --concurrency 4

  # Explicit column mapping and custom thresholds
  debtrisk classify data.csv --column debt="Balance" --column avg="Avg Q" --thresholds strict.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		applyExportFlags(cmd, &cfg.Export)
		if err := cfg.Validate("classify"); err != nil {
			return err
		}

		sc, err := scoringConfig(cfg.Scoring, classifyThresholds)
		if err != nil {
			return err
		}
		resolver, err := newColumnResolver(cfg.Ingest, classifyColumns)
		if err != nil {
			return err
		}

		opts := export.Options{
			Format:   cfg.Export.Format,
			Layout:   cfg.Export.Layout,
			Language: cfg.Export.Language,
		}

		outs, err := planOutputs(args, classifyOutput, cfg.Export)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if len(args) > 1 {
			bar = progressbar.Default(int64(len(args)), "classifying")
		}

		var done atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(1, classifyConcurrency))
		for i, in := range args {
			out := outs[i]
			g.Go(func() error {
				if err := classifyFile(gctx, resolver, sc, in, out, opts); err != nil {
					return eris.Wrapf(err, "classify %s", in)
				}
				done.Add(1)
				if bar != nil {
					_ = bar.Add(1)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
		zap.L().Info("classify: complete", zap.Int64("files", done.Load()))
		return nil
	},
}

func classifyFile(ctx context.Context, resolver *columnResolver, sc config.ScoringConfig, in, out string, opts export.Options) error {
	ds, err := resolver.loadFile(in)
	if err != nil {
		return err
	}

	rep, err := report.Build(ds, sc, filepath.Base(in))
	if err != nil {
		return err
	}

	if err := export.Write(ctx, rep, out, opts); err != nil {
		return err
	}

	zap.L().Info("classify: exported",
		zap.String("run_id", rep.RunID),
		zap.String("input", in),
		zap.String("output", out),
		zap.String("format", opts.Format),
		zap.Int("rows", ds.Len()),
	)
	return nil
}

// outputPath decides where the results for in are written. A single input
// with --output writes exactly there; otherwise --output (or export.dir) is
// a directory and the file is named after the input.
func outputPath(in, output string, ec config.ExportConfig, inputs int) string {
	if output != "" && inputs == 1 && !isDir(output) {
		return output
	}

	dir := ec.Dir
	if output != "" {
		dir = output
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(dir, base+"_results"+export.Extension(ec.Format))
}

// planOutputs resolves the output path of every input and rejects inputs
// that would write to the same file.
func planOutputs(inputs []string, output string, ec config.ExportConfig) ([]string, error) {
	outs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		out := filepath.Clean(outputPath(in, output, ec, len(inputs)))
		if prev, ok := seen[out]; ok {
			return nil, eris.Errorf("classify: %s and %s both write to %s", prev, in, out)
		}
		seen[out] = in
		outs[i] = out
	}
	return outs, nil
}

func isDir(path string) bool {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// applyExportFlags copies explicitly set export flags over the config.
func applyExportFlags(cmd *cobra.Command, ec *config.ExportConfig) {
	if cmd.Flags().Changed("format") {
		ec.Format = classifyFormat
	}
	if cmd.Flags().Changed("layout") {
		ec.Layout = classifyLayout
	}
	if cmd.Flags().Changed("lang") {
		ec.Language = classifyLanguage
	}
}

func init() {
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "xlsx", "output format: xlsx, csv, json or sqlite")
	classifyCmd.Flags().StringVar(&classifyLayout, "layout", "sheets", "table layout: sheets (one per table) or unified")
	classifyCmd.Flags().StringVar(&classifyLanguage, "lang", "ar", "header and label language: ar or en")
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "", "output file (single input) or directory")
	classifyCmd.Flags().StringVar(&classifyThresholds, "thresholds", "", "YAML file overriding the scoring thresholds")
	classifyCmd.Flags().StringArrayVar(&classifyColumns, "column", nil, "explicit column mapping as role=column (repeatable)")
	classifyCmd.Flags().IntVar(&classifyConcurrency, "concurrency", 2, "files classified in parallel")
	rootCmd.AddCommand(classifyCmd)
}
