package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/debtrisk-cli/internal/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, ValidateConfig(config.DefaultScoringConfig()))
}

func TestValidateConfig_Ladders(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.ScoringConfig)
		wantErr string
	}{
		{"purchase power out of order", func(c *config.ScoringConfig) { c.PurchasePower.Score8 = 60 }, "purchase_power thresholds"},
		{"negative purchase power floor", func(c *config.ScoringConfig) { c.PurchasePower.Score1 = -1 }, "purchase_power.score_1"},
		{"debt age out of order", func(c *config.ScoringConfig) { c.DebtAge.Score4 = 10 }, "debt_age thresholds"},
		{"risk out of order", func(c *config.ScoringConfig) { c.Risk.Score0 = 0.5 }, "risk thresholds"},
		{"delta decimals too large", func(c *config.ScoringConfig) { c.Delta.DecimalsPct = 5 }, "decimals_pct"},
		{"returns out of order", func(c *config.ScoringConfig) { c.Returns.Elevated = 1.2 }, "returns multiples"},
		{"final out of order", func(c *config.ScoringConfig) { c.Final.Good = 20 }, "final thresholds"},
		{"reduce below near-final", func(c *config.ScoringConfig) { c.Final.RescheduleReduce = 7 }, "reschedule_reduce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultScoringConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
