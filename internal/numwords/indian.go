package numwords

import (
	"math"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxValue is the first amount that can no longer be spelled with crore as
// the largest unit.
const maxValue = 10_000_000_000

type card struct {
	value int64
	word  string
}

// cards are ordered from the largest unit down to zero.
var cards = []card{
	{10_000_000, "crore"},
	{100_000, "lakh"},
	{1000, "thousand"},
	{100, "hundred"},
	{90, "ninety"}, {80, "eighty"}, {70, "seventy"}, {60, "sixty"},
	{50, "fifty"}, {40, "forty"}, {30, "thirty"}, {20, "twenty"},
	{19, "nineteen"}, {18, "eighteen"}, {17, "seventeen"}, {16, "sixteen"},
	{15, "fifteen"}, {14, "fourteen"}, {13, "thirteen"}, {12, "twelve"},
	{11, "eleven"}, {10, "ten"}, {9, "nine"}, {8, "eight"}, {7, "seven"},
	{6, "six"}, {5, "five"}, {4, "four"}, {3, "three"}, {2, "two"},
	{1, "one"}, {0, "zero"},
}

// Indian spells amounts in English using lakh and crore grouping, title
// cased, e.g. 123456 becomes "One Lakh, Twenty-Three Thousand, Four Hundred
// And Fifty-Six". Fractions are truncated. Amounts that cannot be spelled
// fall back to their digits.
type Indian struct{}

func (Indian) Words(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	n := math.Trunc(amount)
	if math.Abs(n) >= maxValue {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return title(Spell(int64(n)))
}

// Spell returns the lower-case words for n. The caller must keep |n| below 10^10.
func Spell(n int64) string {
	if n < 0 {
		return "minus " + Spell(-n)
	}
	text, _ := spell(n)
	return text
}

func spell(n int64) (string, int64) {
	var c card
	for _, c = range cards {
		if c.value <= n {
			break
		}
	}
	div, mod := int64(1), int64(0)
	if n != 0 {
		div, mod = n/c.value, n%c.value
	}

	ltext, lnum := "one", int64(1)
	if div != 1 {
		ltext, lnum = spell(div)
	}
	text, num := merge(ltext, lnum, c.word, c.value)
	if mod != 0 {
		rtext, rnum := spell(mod)
		text, num = merge(text, num, rtext, rnum)
	}
	return text, num
}

// merge joins two spelled parts: hyphens inside tens, "and" after hundreds,
// juxtaposition for multipliers and commas between groups.
func merge(ltext string, lnum int64, rtext string, rnum int64) (string, int64) {
	switch {
	case lnum == 1 && rnum < 100:
		return rtext, rnum
	case lnum < 100 && lnum > rnum:
		return ltext + "-" + rtext, lnum + rnum
	case lnum >= 100 && rnum < 100:
		return ltext + " and " + rtext, lnum + rnum
	case rnum > lnum:
		return ltext + " " + rtext, lnum * rnum
	}
	return ltext + ", " + rtext, lnum + rnum
}

func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Rupees wraps spelled words in the certificate phrasing.
func Rupees(words string) string {
	return "Rupees " + words + " Only"
}
