package rollup

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is rendered for null values.
const NotAvailable = "N/A"

// FormatRule renders a number as value/Divisor with a fixed number of
// decimals followed by Suffix. Compact rules ignore the other fields and pick
// a k/M/B/T suffix from the magnitude.
type FormatRule struct {
	Divisor  decimal.Decimal
	Suffix   string
	Decimals int32
	Compact  bool
}

var (
	FormatInteger   = FormatRule{Divisor: decimal.NewFromInt(1)}
	FormatThousands = FormatRule{Divisor: decimal.NewFromInt(1_000), Suffix: "k", Decimals: 1}
	FormatPercent   = FormatRule{Divisor: decimal.NewFromInt(1), Suffix: "%", Decimals: 1}
	FormatTrillions = FormatRule{Divisor: decimal.New(1, 12), Suffix: "T", Decimals: 2}
	FormatCompact   = FormatRule{Compact: true}
)

func (r FormatRule) Format(v decimal.NullDecimal) string {
	if !v.Valid {
		return NotAvailable
	}
	if r.Compact {
		return formatCompact(v.Decimal)
	}

	div := r.Divisor
	if div.IsZero() {
		div = one
	}
	return v.Decimal.Div(div).StringFixed(r.Decimals) + r.Suffix
}

type compactStep struct {
	below   decimal.Decimal
	divisor float64
	suffix  string
}

// Values below the first threshold are printed as whole numbers. Each step
// covers [previous.below, below); the last step is open ended.
var (
	compactWhole = decimal.NewFromInt(1_000)
	compactSteps = []compactStep{
		{below: decimal.New(1, 5), divisor: 1e3, suffix: "k"},
		{below: decimal.New(1, 8), divisor: 1e6, suffix: "M"},
		{below: decimal.New(1, 11), divisor: 1e9, suffix: "B"},
		{divisor: 1e12, suffix: "T"},
	}
)

// formatCompact rounds in float64 so ties follow the binary value: 1050
// scales to 1.05000000000000004 and prints 1.1k, 1150 scales to
// 1.14999999999999991 and prints 1.1k. The step is still chosen on the
// exact decimal.
func formatCompact(v decimal.Decimal) string {
	f, _ := v.Float64()
	abs := v.Abs()
	if abs.LessThan(compactWhole) {
		return strconv.FormatInt(int64(math.RoundToEven(f)), 10)
	}

	for i, step := range compactSteps {
		if i < len(compactSteps)-1 && !abs.LessThan(step.below) {
			continue
		}
		scaled := f / step.divisor
		places := 1
		if scaled < 1 {
			places = 2
		}
		s := strconv.FormatFloat(scaled, 'f', places, 64)
		s = strings.TrimSuffix(s, "."+strings.Repeat("0", places))
		return s + step.suffix
	}

	return v.String()
}

var parseMultipliers = map[byte]decimal.Decimal{
	'k': decimal.New(1, 3), 'K': decimal.New(1, 3),
	'm': decimal.New(1, 6), 'M': decimal.New(1, 6),
	'b': decimal.New(1, 9), 'B': decimal.New(1, 9),
	't': decimal.New(1, 12), 'T': decimal.New(1, 12),
}

// ParseValue reads back a value produced by a FormatRule, for display-side
// scaling only. Unparseable input yields a null.
func ParseValue(s string) decimal.NullDecimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == NotAvailable {
		return decimal.NullDecimal{}
	}

	mult := one
	last := s[len(s)-1]
	if last == '%' {
		s = s[:len(s)-1]
	} else if m, ok := parseMultipliers[last]; ok {
		mult = m
		s = s[:len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Mul(mult))
}
