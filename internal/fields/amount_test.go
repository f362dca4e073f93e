package fields

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"nil", nil, 0},
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"native float", 42.0, 42},
		{"native int", 42, 42},
		{"brazilian thousands and decimals", "1.234,56", 1234.56},
		{"brazilian millions", "1.234.567,89", 1234567.89},
		{"comma decimal only", "12,5", 12.5},
		{"dot decimal", "1234.56", 1234.56},
		{"plain integer", "1234", 1234},
		{"surrounding spaces", " 10,00 ", 10},
		{"garbage", "abc", 0},
		{"currency prefix", "R$ 10,00", 0},
		{"nan text", "NaN", 0},
		{"infinity text", "Inf", 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.raw), 1e-9)
		})
	}
}

func TestParseAmountIdempotentOnNumbers(t *testing.T) {
	for _, v := range []float64{0, -3.5, 1234.56, 1e9} {
		assert.Equal(t, v, ParseAmount(ParseAmount(v)))
	}
	assert.True(t, math.IsNaN(ParseAmount(math.NaN())))
}

func TestDatePart(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"iso timestamp", "2024-01-05T10:22:31.000Z", "2024-01-05"},
		{"date only", "2024-02-10", "2024-02-10"},
		{"empty", "", ""},
		{"nil", nil, ""},
		{"time value", time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), "2024-03-01"},
		{"serial date", 45296.0, "2024-01-05"},
		{"non positive serial", 0.0, ""},
		{"serial as text", "45296.5", "2024-01-05"},
		{"infinite serial", "Inf", ""},
		{"space separated timestamp", "2024-02-10 14:33:12", "2024-02-10"},
		{"space separated without seconds", "2024-02-10 14:33", "2024-02-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DatePart(tt.raw))
		})
	}
}
