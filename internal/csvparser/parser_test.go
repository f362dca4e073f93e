package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/points-calculator/internal/config"
	"github.com/ginjaninja78/points-calculator/internal/types"
)

func defaultInput() config.InputConfig {
	return config.Default().Input
}

func TestParseReaderSemicolonExport(t *testing.T) {
	in := "Order;Reference Code;SKU Selling Price;Quantity_SKU\n" +
		"1001;A;1.234,56;2\n" +
		"\n" +
		"1002;B;19,90;1\n"

	data, err := ParseReader(strings.NewReader(in), defaultInput())
	require.NoError(t, err)

	assert.Equal(t, ';', data.Delimiter)
	assert.Equal(t, "UTF-8", data.Encoding)
	assert.Equal(t, []string{"Order", "Reference Code", "SKU Selling Price", "Quantity_SKU"}, data.Headers)
	assert.Equal(t, 2, data.RowCount)
	assert.Equal(t, 4, data.ColumnCount)
	assert.Equal(t, types.RawRecord{
		"Order":             "1001",
		"Reference Code":    "A",
		"SKU Selling Price": "1.234,56",
		"Quantity_SKU":      "2",
	}, data.Records[0])
}

func TestParseReaderCommaWithQuotedDecimals(t *testing.T) {
	in := "SKU,CUSTO PRODUTO\n\"A\",\"12,50\"\nB,\"7,00\"\n"

	data, err := ParseReader(strings.NewReader(in), defaultInput())
	require.NoError(t, err)

	assert.Equal(t, ',', data.Delimiter)
	require.Len(t, data.Records, 2)
	assert.Equal(t, "12,50", data.Records[0]["CUSTO PRODUTO"])
	assert.Equal(t, "7,00", data.Records[1]["CUSTO PRODUTO"])
}

func TestParseReaderTabSeparated(t *testing.T) {
	in := "SKU\tCUSTO PRODUTO\nA\t10\n"

	data, err := ParseReader(strings.NewReader(in), defaultInput())
	require.NoError(t, err)
	assert.Equal(t, '\t', data.Delimiter)
	assert.Equal(t, "10", data.Records[0]["CUSTO PRODUTO"])
}

func TestParseReaderStripsBOM(t *testing.T) {
	in := "\xef\xbb\xbfOrder;SKU Selling Price\n1;10\n"

	data, err := ParseReader(strings.NewReader(in), defaultInput())
	require.NoError(t, err)
	assert.Equal(t, "Order", data.Headers[0])
	assert.Equal(t, "1", data.Records[0]["Order"])
}

func TestParseReaderLatin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("SKU;Descrição\nA;Sabão\n")
	require.NoError(t, err)

	settings := defaultInput()
	settings.Encoding = "ISO-8859-1"
	data, err := ParseReader(strings.NewReader(encoded), settings)
	require.NoError(t, err)
	assert.Equal(t, "Sabão", data.Records[0]["Descrição"])
}

func TestParseReaderFallsBackToWindows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("SKU;Nome\nA;Açúcar\n")
	require.NoError(t, err)

	data, err := ParseReader(strings.NewReader(encoded), defaultInput())
	require.NoError(t, err)
	assert.Equal(t, "WINDOWS-1252", data.Encoding)
	assert.Equal(t, "Açúcar", data.Records[0]["Nome"])
}

func TestParseReaderRaggedRows(t *testing.T) {
	in := "Order,Reference Code,Total Value\n1,A\n2,B,30,extra\n"

	data, err := ParseReader(strings.NewReader(in), defaultInput())
	require.NoError(t, err)
	require.Len(t, data.Records, 2)

	_, ok := data.Records[0]["Total Value"]
	assert.False(t, ok)
	assert.Equal(t, "30", data.Records[1]["Total Value"])
	assert.Len(t, data.Records[1], 3)
}

func TestParseReaderEmpty(t *testing.T) {
	_, err := ParseReader(strings.NewReader("\n\n"), defaultInput())
	assert.Error(t, err)

	data, err := ParseReader(strings.NewReader("SKU,CUSTO PRODUTO\n"), defaultInput())
	require.NoError(t, err)
	assert.Empty(t, data.Records)
}

func TestCleanHeaders(t *testing.T) {
	got := cleanHeaders([]string{" Order ", "", "SKU", "SKU"})
	assert.Equal(t, []string{"Order", "Column_2", "SKU", "SKU_2"}, got)
}

func TestCleanHeadersNeverRepeatALabel(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []string
	}{
		{"suffix already present", []string{"A", "A", "A_2"}, []string{"A", "A_2", "A_2_2"}},
		{"suffix listed first", []string{"A_2", "A", "A"}, []string{"A_2", "A", "A_3"}},
		{"triple", []string{"A", "A", "A"}, []string{"A", "A_2", "A_3"}},
		{"empty header collides", []string{"Column_2", ""}, []string{"Column_2", "Column_2_2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanHeaders(tt.headers)
			assert.Equal(t, tt.want, got)

			seen := make(map[string]bool, len(got))
			for _, h := range got {
				assert.False(t, seen[h], "duplicate header %q", h)
				seen[h] = true
			}
		})
	}
}

func TestGuessDelimiter(t *testing.T) {
	candidates := []rune{',', ';', '\t'}

	assert.Equal(t, ';', GuessDelimiter("a;b;c\n1,5;2;3", candidates))
	assert.Equal(t, ',', GuessDelimiter("a,b\n", candidates))
	assert.Equal(t, ',', GuessDelimiter("single\n", candidates))
	assert.Equal(t, '\t', GuessDelimiter("\n\na\tb\tc", candidates))
	assert.Equal(t, ',', GuessDelimiter("a;b", nil))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custos.csv")
	require.NoError(t, os.WriteFile(path, []byte("SKU;CUSTO PRODUTO\nA;10\n"), 0o644))

	data, err := Parse(path, defaultInput())
	require.NoError(t, err)
	assert.Equal(t, path, data.SourceFile)
	assert.Equal(t, 1, data.RowCount)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), defaultInput())
	assert.Error(t, err)
}
