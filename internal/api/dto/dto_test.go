package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestTicksToDecimalRoundTrip(t *testing.T) {
	old := TickScale
	TickScale = 100
	defer func() { TickScale = old }()

	d := TicksToDecimal(10050)
	assert.True(t, mustDecimal(t, "100.5").Equal(d), "got %s", d)

	back := DecimalToTicks(d)
	assert.Equal(t, int64(10050), back)
}

func TestDecimalToTicksRoundsToNearestTick(t *testing.T) {
	old := TickScale
	TickScale = 100
	defer func() { TickScale = old }()

	assert.Equal(t, int64(101), DecimalToTicks(mustDecimal(t, "1.005")))
	assert.Equal(t, int64(100), DecimalToTicks(mustDecimal(t, "1.004")))
}

func TestTickScaleAffectsConversion(t *testing.T) {
	old := TickScale
	TickScale = 1000
	defer func() { TickScale = old }()

	d := TicksToDecimal(1500)
	assert.True(t, mustDecimal(t, "1.5").Equal(d), "got %s", d)
}
