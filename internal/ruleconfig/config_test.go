package ruleconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	rules, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "stockbot_default", rules.Meta.RulesID)
	require.Len(t, rules.Risk.SectorPenalties, 1)
	assert.Equal(t, SectorPenalty{Keyword: "paints", Label: "Geo Political", Points: -5}, rules.Risk.SectorPenalties[0])
	assert.Equal(t, 4.0, rules.Risk.DebtToEquityMax)
	assert.Equal(t, -3, rules.Risk.DebtPenalty)
	assert.Equal(t, -2, rules.Risk.GrowthPenalty)

	assert.Equal(t, Alias{Key: "asian", Name: "Asian Paints Limited"}, rules.Resolution.Abbreviations[0])
	assert.Len(t, rules.Resolution.Aliases, 3)
	assert.Equal(t, 0.5, rules.Resolution.SuggestThreshold)
	assert.Equal(t, 3, rules.Resolution.SuggestLimit)

	assert.Equal(t, int64(10000), rules.Forensic.BlockTradeShares)
	assert.Equal(t, 100, rules.Forensic.ExcerptLength)
	assert.Contains(t, rules.Forensic.AuditorKeywords, "material misstatement")
	assert.Contains(t, rules.Forensic.RelatedPartyKeywords, "non-arm")
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	rules, data, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "stockbot_default", rules.Meta.RulesID)
	assert.NotEmpty(t, data)
}

func TestLoad_File(t *testing.T) {
	custom := strings.Replace(string(defaultYAML), "keyword: paints", "keyword: CEMENT", 1)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	rules, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cement", rules.Risk.SectorPenalties[0].Keyword, "keywords are lowercased")
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_UnknownField(t *testing.T) {
	data := string(defaultYAML) + "\nunknown_section: true\n"
	_, err := Parse([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_section")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *Rules)
		wantField string
	}{
		{"missing rules id", func(r *Rules) { r.Meta.RulesID = "" }, "meta.rules_id"},
		{"positive sector penalty", func(r *Rules) { r.Risk.SectorPenalties[0].Points = 5 }, "risk.sector_penalties[0].points"},
		{"empty sector keyword", func(r *Rules) { r.Risk.SectorPenalties[0].Keyword = "" }, "risk.sector_penalties[0].keyword"},
		{"zero debt ceiling", func(r *Rules) { r.Risk.DebtToEquityMax = 0 }, "risk.debt_to_equity_max"},
		{"duplicate abbreviation", func(r *Rules) {
			r.Resolution.Abbreviations = append(r.Resolution.Abbreviations, Alias{Key: "itc", Name: "ITC Hotels"})
		}, "resolution.abbreviations[6]"},
		{"threshold out of range", func(r *Rules) { r.Resolution.SuggestThreshold = 1.5 }, "resolution.suggest_threshold"},
		{"sell ratio out of range", func(r *Rules) { r.Forensic.SellRatioMax = 0 }, "forensic.sell_ratio_max"},
		{"inverted receivable days", func(r *Rules) { r.Forensic.ReceivableDaysLow = 120 }, "forensic.receivable_days_low"},
		{"no auditor keywords", func(r *Rules) { r.Forensic.AuditorKeywords = nil }, "forensic.auditor_keywords"},
		{"zero excerpt", func(r *Rules) { r.Forensic.ExcerptLength = 0 }, "forensic.excerpt_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := Default()
			require.NoError(t, err)
			tt.mutate(rules)

			err = Validate(rules)
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestHash(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)

	hashA, err := Hash(a)
	require.NoError(t, err)
	assert.Len(t, hashA, 64)

	hashB, _ := Hash(b)
	assert.Equal(t, hashA, hashB, "same rules, same hash")

	b.Risk.DebtPenalty = -4
	hashC, _ := Hash(b)
	assert.NotEqual(t, hashA, hashC)
}
