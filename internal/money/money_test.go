package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1", "1", true},
		{"12.34", "12.34", true},
		{"-20.00", "-20", true},
		{"+5.5", "5.5", true},
		{" 2.50 ", "2.5", true},
		{"12,34", "12.34", true},
		{"", "0", false},
		{"abc", "0", false},
		{"1.2.3", "0", false},
		{"1e3", "0", false},
		{"1,000.50", "0", false},
		{"1,000", "0", false},
		{"1,000,000", "0", false},
		{"-3,5", "-3.5", true},
		{"5,", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestParseOrZero(t *testing.T) {
	assert.True(t, ParseOrZero("not money").IsZero())
	assert.True(t, ParseOrZero("").IsZero())
	assert.Equal(t, "-3.25", ParseOrZero("-3.25").String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "50.00", Format(decimal.NewFromInt(50)))
	assert.Equal(t, "-20.00", Format(decimal.NewFromInt(-20)))
	assert.Equal(t, "0.00", Format(decimal.Zero))
	assert.Equal(t, "1.01", Format(decimal.RequireFromString("1.005")))
	assert.Equal(t, "33.33", Format(decimal.NewFromInt(100).Div(decimal.NewFromInt(3))))
}

func TestNormalizeAndAdd(t *testing.T) {
	assert.Equal(t, "12.50", Normalize("12.5"))
	assert.Equal(t, "0.00", Normalize("garbage"))
	assert.Equal(t, "7.50", Format(Add("5", "2.5", "oops")))
}
