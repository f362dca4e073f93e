package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("pontos_{type}_{date}", map[string]string{"type": "pedidos"})
	assert.Regexp(t, regexp.MustCompile(`^pontos_pedidos_\d{8}\.xlsx$`), name)

	name = GenerateOutputFileName("{uuid}.csv", nil)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}\.csv$`), name)

	name = GenerateOutputFileName("pontos_{timestamp}.xlsx", nil)
	assert.Regexp(t, regexp.MustCompile(`^pontos_\d{8}_\d{6}\.xlsx$`), name)
}

func TestEnsureDirAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(""))

	assert.False(t, FileExists(dir))

	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}

func TestWriteSummaryLog(t *testing.T) {
	start := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	dir := filepath.Join(t.TempDir(), "output")

	path, err := WriteSummaryLog(RunSummary{
		RunID:      "0123456789abcdef",
		StartTime:  start,
		EndTime:    start.Add(1500 * time.Millisecond),
		OrdersFile: "pedidos.csv",
		CostsFile:  "custos.xlsx",
		OrderRows:  10,
		CostRows:   4,
		LineItems:  8,
		Orders:     3,
		Dropped:    map[string]int{"missing_cost": 2},
		Parameters: [][2]string{{"Multiplier", "3x"}},
		ExportFile: "out.xlsx",
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run_summary_20240105_100000_01234567.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Run ID:         0123456789abcdef")
	assert.Contains(t, out, "Duration:       1.5s")
	assert.Contains(t, out, "pedidos.csv (10 rows)")
	assert.Contains(t, out, "missing_cost:")
	assert.Contains(t, out, "Multiplier:")
	assert.Contains(t, out, "out.xlsx")
}
