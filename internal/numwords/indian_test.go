package numwords_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"billgen/internal/numwords"
)

func TestIndian_Words(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Zero"},
		{1, "One"},
		{7, "Seven"},
		{15, "Fifteen"},
		{20, "Twenty"},
		{23, "Twenty-Three"},
		{100, "One Hundred"},
		{101, "One Hundred And One"},
		{999, "Nine Hundred And Ninety-Nine"},
		{1000, "One Thousand"},
		{1005, "One Thousand And Five"},
		{15750, "Fifteen Thousand, Seven Hundred And Fifty"},
		{90000, "Ninety Thousand"},
		{100005, "One Lakh And Five"},
		{123456, "One Lakh, Twenty-Three Thousand, Four Hundred And Fifty-Six"},
		{150000, "One Lakh, Fifty Thousand"},
		{10000000, "One Crore"},
		{25000000, "Two Crore, Fifty Lakh"},
		{1000000000, "One Hundred Crore"},
		{14962.9, "Fourteen Thousand, Nine Hundred And Sixty-Two"},
		{-250, "Minus Two Hundred And Fifty"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, numwords.Indian{}.Words(tt.amount), "amount %v", tt.amount)
	}
}

func TestIndian_Fallback(t *testing.T) {
	assert.Equal(t, "10000000000", numwords.Indian{}.Words(1e10))
	assert.Equal(t, "-12345678901", numwords.Indian{}.Words(-12345678901))
	assert.Equal(t, "NaN", numwords.Indian{}.Words(math.NaN()))
	assert.Equal(t, "+Inf", numwords.Indian{}.Words(math.Inf(1)))
}

func TestSpell(t *testing.T) {
	assert.Equal(t, "forty-two", numwords.Spell(42))
	assert.Equal(t, "three lakh, twenty thousand and one", numwords.Spell(320001))
	assert.Equal(t, "minus five", numwords.Spell(-5))
}

func TestRupees(t *testing.T) {
	assert.Equal(t, "Rupees Ninety Thousand Only", numwords.Rupees(numwords.Indian{}.Words(90000)))
}
