package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_DosDecimales(t *testing.T) {
	assert.Equal(t, "$150.00", Format(decimal.NewFromInt(150)))
	assert.Equal(t, "$12.50", Format(decimal.RequireFromString("12.5")))
}

func TestFormat_Redondeo(t *testing.T) {
	assert.Equal(t, "$0.13", Format(decimal.RequireFromString("0.125")))
}

func TestParse(t *testing.T) {
	for raw, want := range map[string]string{
		"$1,250.50": "1250.5",
		" 45 ":      "45",
		"$ 12.5":    "12.5",
		"0.125":     "0.125",
	} {
		got, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got.String(), raw)
	}
}

func TestParse_Invalido(t *testing.T) {
	for _, raw := range []string{"", "$", "doce", "1.2.3"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestCents(t *testing.T) {
	v, ok := Cents(decimal.RequireFromString("12.500"))
	assert.True(t, ok)
	assert.Equal(t, "12.50", v.StringFixed(2))

	v, ok = Cents(decimal.RequireFromString("49.995"))
	assert.False(t, ok)
	assert.Equal(t, "50.00", v.StringFixed(2))

	_, ok = Cents(decimal.NewFromInt(-3))
	assert.True(t, ok)
}
