// Package format renders game numbers the way the overview shows them:
// grouped digits below a threshold, short suffixes above it.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var suffixes = []string{"", "k", "m", "b", "t", "q", "Q", "s", "S", "o", "n"}

var ramUnits = []string{"GB", "TB", "PB", "EB"}

// Number formats n with fractionalDigits decimals. Values whose magnitude is at
// least suffixStart are shortened with a suffix (1.234k, 5.600m, ...).
func Number(n float64, fractionalDigits int, suffixStart float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "∞"
	case math.IsInf(n, -1):
		return "-∞"
	}
	if fractionalDigits < 0 {
		fractionalDigits = 0
	}
	if suffixStart < 1000 {
		suffixStart = 1000
	}

	abs := math.Abs(n)
	if abs < suffixStart {
		return NumberNoSuffix(n, fractionalDigits)
	}

	i := 0
	for abs >= 1000 && i < len(suffixes)-1 {
		abs /= 1000
		i++
	}
	// Rounding can carry 999.9995k over to 1000.000k.
	if rounded := roundTo(abs, fractionalDigits); rounded >= 1000 && i < len(suffixes)-1 {
		abs /= 1000
		i++
	}
	if abs >= 1000 {
		return exponential(n, fractionalDigits)
	}

	sign := ""
	if n < 0 {
		sign = "-"
	}
	digits := fractionalDigits
	if digits == 0 {
		digits = 3
	}
	return fmt.Sprintf("%s%.*f%s", sign, digits, abs, suffixes[i])
}

// NumberNoSuffix formats n with grouped thousands and fixed decimals.
func NumberNoSuffix(n float64, fractionalDigits int) string {
	if fractionalDigits < 0 {
		fractionalDigits = 0
	}
	out := printer.Sprintf("%.*f", fractionalDigits, n)
	if strings.HasPrefix(out, "-") && roundTo(n, fractionalDigits) == 0 {
		out = out[1:]
	}
	return out
}

// Money formats an amount of money: $1.234m.
func Money(n float64) string {
	s := Number(n, 3, 1000)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// Skill formats a skill level. Levels keep full digits up to 1e15.
func Skill(n int) string {
	return Number(float64(n), 0, 1e15)
}

// HP formats hit points. Values keep full digits up to 1e6.
func HP(n float64) string {
	return Number(n, 0, 1e6)
}

// Hashes formats a hash amount.
func Hashes(n float64) string {
	return Number(n, 3, 1000)
}

// Reputation formats faction or company reputation.
func Reputation(n float64) string {
	return Number(n, 3, 1000)
}

// Ram formats an amount of RAM given in GB: 64.00GB, 1.02TB.
func Ram(gb float64) string {
	if math.IsInf(gb, 0) || math.IsNaN(gb) {
		return Number(gb, 2, 1000) + "GB"
	}
	i := 0
	for math.Abs(gb) >= 1000 && i < len(ramUnits)-1 {
		gb /= 1000
		i++
	}
	return fmt.Sprintf("%s%s", NumberNoSuffix(gb, 2), ramUnits[i])
}

// TimeElapsed renders a millisecond duration as "1 day 2 hours 3 minutes 4 seconds",
// omitting leading zero units.
func TimeElapsed(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	total := int64(ms / 1000)
	days := total / 86400
	total %= 86400
	hours := total / 3600
	total %= 3600
	minutes := total / 60
	seconds := total % 60

	var b strings.Builder
	unit := func(v int64, name string) {
		fmt.Fprintf(&b, "%d %s", v, name)
		if v != 1 {
			b.WriteByte('s')
		}
	}
	if days > 0 {
		unit(days, "day")
		b.WriteByte(' ')
	}
	if hours > 0 {
		unit(hours, "hour")
		b.WriteByte(' ')
	}
	if minutes > 0 {
		unit(minutes, "minute")
		b.WriteByte(' ')
	}
	unit(seconds, "second")
	return b.String()
}

func exponential(n float64, fractionalDigits int) string {
	return strings.Replace(fmt.Sprintf("%.*e", fractionalDigits, n), "e+", "e", 1)
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
