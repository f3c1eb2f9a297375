package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newAmountField() *Field {
	return NewField(NumericOnly(), MaxTotalDigits(9), MaxDecimalDigits(2))
}

func TestMaxTotalDigits(t *testing.T) {
	filter := MaxTotalDigits(9)

	tests := []struct {
		name     string
		dest     string
		position int
		accepted bool
	}{
		{"Empty field", "", 0, true},
		{"Eight characters", "12345678", 8, true},
		{"Nine characters appended", "123456789", 9, false},
		{"Nine characters prepended", "123456789", 0, false},
		{"Decimal point counts as a character", "1234567.8", 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := filter(tt.dest, tt.position, tt.position, "1")
			assert.Equal(t, tt.accepted, ok)
		})
	}
}

func TestMaxDecimalDigits(t *testing.T) {
	filter := MaxDecimalDigits(2)

	tests := []struct {
		name     string
		dest     string
		position int
		accepted bool
	}{
		{"No decimal point", "12345", 5, true},
		{"One decimal digit", "123.4", 5, true},
		{"Two decimal digits after the point", "123.45", 6, false},
		{"Two decimal digits between digits", "123.45", 5, false},
		{"Two decimal digits before the point", "123.45", 2, true},
		{"Right at the point", "123.45", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := filter(tt.dest, tt.position, tt.position, "1")
			assert.Equal(t, tt.accepted, ok)
		})
	}
}

func TestNumericOnly(t *testing.T) {
	filter := NumericOnly()

	accepted, ok := filter("12", 2, 2, "a3.4.")
	assert.True(t, ok)
	assert.Equal(t, "3.4", accepted)

	_, ok = filter("1.2", 3, 3, ".")
	assert.False(t, ok)

	accepted, ok = filter("1.2", 1, 3, ".5")
	assert.True(t, ok, "the replaced range contains the only point")
	assert.Equal(t, ".5", accepted)

	_, ok = filter("", 0, 0, "x")
	assert.False(t, ok)
}

func TestStripLeadingZeroes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"0", "0"},
		{"00", "0"},
		{"0.", "0."},
		{"00.5", "0.5"},
		{"001001", "1001"},
		{"0001", "1"},
		{"100", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripLeadingZeroes(tt.input))
		})
	}
}

func TestFieldMaximumDigitsIsNine(t *testing.T) {
	field := newAmountField()

	pos := field.Insert(0, "123456789")
	field.Insert(pos, "1")

	assert.Equal(t, "123456789", field.Text())
}

func TestFieldMaximumDecimalDigitsIsTwo(t *testing.T) {
	field := newAmountField()

	field.Insert(0, "123.451")

	assert.Equal(t, "123.45", field.Text())
}

func TestFieldTypingLeadingZeroesIsIgnored(t *testing.T) {
	field := newAmountField()

	pos := field.Insert(0, "001001")

	assert.Equal(t, "1001", field.Text())
	assert.Equal(t, 4, pos)
}

func TestFieldDeletingExposesLeadingZeroes(t *testing.T) {
	field := newAmountField()
	pos := field.Insert(0, "001001")

	// курсор на три символа влево и backspace
	pos -= 3
	field.Delete(pos-1, pos)

	assert.Equal(t, "1", field.Text())
}

func TestFieldInputIsRestrictedToNumericDigits(t *testing.T) {
	field := newAmountField()

	field.Insert(0, "ab1cd2ef3")

	assert.Equal(t, "123", field.Text())
}

func TestFieldKeepsZeroBeforePoint(t *testing.T) {
	field := newAmountField()

	field.Insert(0, "0.5")
	assert.Equal(t, "0.5", field.Text())

	field.Delete(0, 1)
	assert.Equal(t, ".5", field.Text())
}

func TestFieldReplaceIsSanitized(t *testing.T) {
	field := newAmountField()
	field.SetText("42")

	field.Replace("0012.3456")

	assert.Equal(t, "12.34", field.Text())
}

func TestFieldClampsPositions(t *testing.T) {
	field := newAmountField()

	pos := field.Insert(100, "12")
	assert.Equal(t, 2, pos)

	pos = field.Delete(-5, 100)
	assert.Equal(t, 0, pos)
	assert.Equal(t, "", field.Text())
}
