package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		currency  string
		wantMinor int64
	}{
		{
			name:      "plain dot decimal",
			raw:       "-95.80",
			currency:  "PLN",
			wantMinor: -9580,
		},
		{
			name:      "plain comma decimal",
			raw:       "-95,80",
			currency:  "PLN",
			wantMinor: -9580,
		},
		{
			name:      "leading plus",
			raw:       "+2641.40",
			currency:  "PLN",
			wantMinor: 264140,
		},
		{
			name:      "EU grouping with comma decimal",
			raw:       "16.948,96",
			currency:  "PLN",
			wantMinor: 1694896,
		},
		{
			name:      "no grouping comma decimal",
			raw:       "16948,96",
			currency:  "PLN",
			wantMinor: 1694896,
		},
		{
			name:      "embedded spaces",
			raw:       " 1 234,56 ",
			currency:  "PLN",
			wantMinor: 123456,
		},
		{
			name:      "integer only",
			raw:       "200",
			currency:  "PLN",
			wantMinor: 20000,
		},
		{
			// Last separator wins, so the final "." reads as the decimal
			// point. Same accepted ambiguity as the "1.234" case.
			name:      "grouping only no decimal",
			raw:       "1.234.567",
			currency:  "PLN",
			wantMinor: 123456,
		},
		{
			name:      "currency suffix ignored",
			raw:       "126,95 PLN",
			currency:  "PLN",
			wantMinor: 12695,
		},
		{
			name:      "one fraction digit padded",
			raw:       "5,1",
			currency:  "PLN",
			wantMinor: 510,
		},
		{
			name:      "excess fraction digits truncated",
			raw:       "5,129",
			currency:  "PLN",
			wantMinor: 512,
		},
		{
			name:      "zero decimal currency",
			raw:       "1500",
			currency:  "JPY",
			wantMinor: 1500,
		},
		{
			name:      "garbage salvages nothing",
			raw:       "n/a",
			currency:  "PLN",
			wantMinor: 0,
		},
		{
			name:      "empty input",
			raw:       "",
			currency:  "PLN",
			wantMinor: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, tt.currency)
			assert.Equal(t, tt.wantMinor, got.Minor())
			assert.Equal(t, tt.currency, got.Currency())
		})
	}
}

// The last-separator-wins policy makes "." the decimal separator even when
// it is the only separator present. "1.234" is therefore 1.234 major units,
// not a grouped 1234. This is an accepted ambiguity inherited from real
// statement data; do not "fix" it.
func TestParseSingleDotAmbiguity(t *testing.T) {
	got := Parse("1.234", "PLN")
	assert.Equal(t, int64(123), got.Minor())
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{"-95.80", "+2641.40", "16.948,96", "0,01", "200", "-0,50"}
	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			first := Parse(raw, "PLN")
			again := Parse(first.Format(false), "PLN")
			assert.Equal(t, first.Minor(), again.Minor())
		})
	}
}

func TestAdd(t *testing.T) {
	a := FromMinor(100, "PLN")
	b := FromMinor(50, "PLN")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(150), sum.Minor())

	_, err = a.Add(FromMinor(50, "EUR"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestSub(t *testing.T) {
	a := FromMinor(100, "PLN")

	diff, err := a.Sub(FromMinor(30, "PLN"))
	require.NoError(t, err)
	assert.Equal(t, int64(70), diff.Minor())

	_, err = a.Sub(FromMinor(30, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name         string
		m            Money
		withCurrency bool
		want         string
	}{
		{"negative with currency", FromMinor(-9580, "PLN"), true, "-95.80 PLN"},
		{"positive without currency", FromMinor(264140, "PLN"), false, "2641.40"},
		{"zero", Zero("PLN"), false, "0.00"},
		{"sub-unit", FromMinor(-5, "PLN"), false, "-0.05"},
		{"zero decimal currency", FromMinor(1500, "JPY"), true, "1500 JPY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Format(tt.withCurrency))
		})
	}
}

func TestAbsNeg(t *testing.T) {
	m := FromMinor(-9580, "PLN")
	assert.Equal(t, int64(9580), m.Abs().Minor())
	assert.Equal(t, int64(9580), m.Neg().Minor())
	assert.True(t, m.IsNegative())
	assert.False(t, m.Abs().IsNegative())
	assert.True(t, Zero("PLN").IsZero())
}

func TestFloat64(t *testing.T) {
	assert.InDelta(t, -95.80, FromMinor(-9580, "PLN").Float64(), 0.0001)
}
