package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/points-calculator/internal/config"
)

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"pedidos.csv":       FormatCSV,
		"PEDIDOS.XLSX":      FormatXLSX,
		"dir/custos.xls":    FormatXLS,
		"custos.backup.csv": FormatCSV,
	}
	for name, want := range tests {
		got, err := DetectFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"pedidos.json", "pedidos", "custos.ods"} {
		_, err := DetectFormat(name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedidos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Order;Reference Code\n1001;A\n"), 0o644))

	ds, err := Load(path, config.Default().Input)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, ds.Format)
	assert.Equal(t, ';', ds.Delimiter)
	assert.Equal(t, []string{"Order", "Reference Code"}, ds.Columns())
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "A", ds.Records[0]["Reference Code"])
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"SKU", "CUSTO PRODUTO"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"A", 12.5}))
	path := filepath.Join(t.TempDir(), "custos.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := Load(path, config.Default().Input)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, ds.Format)
	assert.Equal(t, "Sheet1", ds.Sheet)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, 12.5, ds.Records[0]["CUSTO PRODUTO"])
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("pedidos.txt", config.Default().Input)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), config.Default().Input)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}
