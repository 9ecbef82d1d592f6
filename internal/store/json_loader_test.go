package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/pkg/logger"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestJSONDirLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_list.json", `[
		{"Stock": "ITC Limited", "Ticker": "ITC", "years": {"2023-24": {"RevenueGrowth": 9}}},
		{"Stock": "Coal India Limited", "years": {}}
	]`)
	writeFile(t, dir, "b_single.json", `{"Stock": "Axis Bank Limited", "Ticker": "AXISBANK", "years": {}}`)
	writeFile(t, dir, "c_broken.json", `{"Stock": `)
	writeFile(t, dir, "d_scalar.json", `42`)
	writeFile(t, dir, "notes.txt", `ignored`)

	stocks, err := NewJSONDirLoader(dir, logger.Nop()).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, stocks, 3)
	assert.Equal(t, "ITC Limited", stocks[0].Name)
	assert.Equal(t, "Coal India Limited", stocks[1].Name)
	assert.Equal(t, "Axis Bank Limited", stocks[2].Name)
	assert.Equal(t, 9.0, stocks[0].Years["2023-24"].Float("RevenueGrowth"))
}

func TestJSONDirLoader_NoFiles(t *testing.T) {
	_, err := NewJSONDirLoader(t.TempDir(), logger.Nop()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON files found")
}

func TestJSONDirLoader_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJSONDirLoader(dir, logger.Nop()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
