package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", ""},
		{"0.004", ""},
		{"0.005", "0.01"},
		{"100", "100"},
		{"100.00", "100"},
		{"50.5", "50.5"},
		{"1.234", "1.23"},
		{"1.235", "1.24"},
		{"2.675", "2.68"},
		{"123456789.999", "123456790"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(d(tt.amount)))
		})
	}
}

func TestRowHint(t *testing.T) {
	assert.Equal(t, ZeroHint, Row{}.Hint())
	assert.Equal(t, "", Row{Display: "1"}.Hint())
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("12.5").Equal(d("12.5")))
	assert.True(t, ParseAmount(".5").Equal(d("0.5")))
	assert.True(t, ParseAmount("12.").Equal(d("12")))
	assert.True(t, ParseAmount("x").IsZero())
	assert.True(t, ParseAmount("-1").IsZero())
}

func TestUpdateKindString(t *testing.T) {
	assert.Equal(t, "full", FullUpdate.String())
	assert.Equal(t, "amounts", AmountsUpdate.String())
	assert.Equal(t, "order", OrderUpdate.String())
	assert.Equal(t, "unknown", UpdateKind(9).String())
}
