package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/debtrisk-cli/internal/config"
	"github.com/sells-group/debtrisk-cli/internal/ingest"
	"github.com/sells-group/debtrisk-cli/internal/model"
	"github.com/sells-group/debtrisk-cli/internal/scoring"
)

// columnResolver holds the alias table and explicit column overrides used
// to map input headers onto roles.
type columnResolver struct {
	sheet     string
	aliases   map[model.Role][]string
	overrides map[model.Role]string
}

// newColumnResolver merges the configured aliases and column overrides with
// role=column flag values. Flags win over config.
func newColumnResolver(ic config.IngestConfig, flags []string) (*columnResolver, error) {
	aliases, err := ingest.MergeAliases(ic.Aliases)
	if err != nil {
		return nil, eris.Wrap(err, "ingest aliases")
	}

	cols := make(map[string]string, len(ic.Columns)+len(flags))
	for k, v := range ic.Columns {
		cols[k] = v
	}
	for _, f := range flags {
		role, col, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, eris.Errorf("invalid --column %q (want role=column)", f)
		}
		cols[strings.TrimSpace(role)] = strings.TrimSpace(col)
	}

	overrides, err := ingest.ParseOverrides(cols)
	if err != nil {
		return nil, eris.Wrap(err, "column overrides")
	}
	return &columnResolver{sheet: ic.Sheet, aliases: aliases, overrides: overrides}, nil
}

// load resolves the columns of a parsed sheet into a dataset.
func (c *columnResolver) load(sheet *ingest.Sheet) (*model.Dataset, error) {
	return ingest.Load(sheet, c.aliases, c.overrides)
}

// loadFile reads path and resolves it into a dataset.
func (c *columnResolver) loadFile(path string) (*model.Dataset, error) {
	sheet, err := ingest.ReadFile(path, ingest.Options{SheetName: c.sheet})
	if err != nil {
		return nil, err
	}
	return c.load(sheet)
}

// scoringConfig returns the effective thresholds: the configured ones,
// overlaid by the YAML file at path when given, then validated.
func scoringConfig(base config.ScoringConfig, path string) (config.ScoringConfig, error) {
	sc := base
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return sc, eris.Wrapf(err, "read thresholds %s", path)
		}
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return sc, eris.Wrapf(err, "parse thresholds %s", path)
		}
	}
	if err := scoring.ValidateConfig(sc); err != nil {
		return sc, err
	}
	return sc, nil
}
