package rollup

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// PeriodDelta computes the period-over-period change between previous and
// current.
//
// The sign is inverted relative to a growth rate: a drop from 100 to 80 is
// +20. When previous is null or zero the delta is null, except that a null or
// zero current is reported as 100. Both rules are part of the reporting
// contract and consumers rely on them.
func PeriodDelta(previous, current decimal.NullDecimal) decimal.NullDecimal {
	if !previous.Valid || previous.Decimal.IsZero() {
		if !current.Valid || current.Decimal.IsZero() {
			return decimal.NewNullDecimal(hundred)
		}
		return decimal.NullDecimal{}
	}
	if !current.Valid {
		return decimal.NullDecimal{}
	}

	ratio := current.Decimal.Div(previous.Decimal)
	return decimal.NewNullDecimal(one.Sub(ratio).Mul(hundred))
}

const (
	TrendUp   = "▲"
	TrendDown = "▼"
	TrendFlat = "→"
)

// Trend compares current against previous. Missing values are flat.
func Trend(previous, current decimal.NullDecimal) string {
	if !previous.Valid || !current.Valid {
		return TrendFlat
	}
	switch current.Decimal.Cmp(previous.Decimal) {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	default:
		return TrendFlat
	}
}

// Ratio is numerator / denominator x 100. It is null when either side is
// null or the denominator is zero.
func Ratio(numerator, denominator decimal.NullDecimal) decimal.NullDecimal {
	if !numerator.Valid || !denominator.Valid || denominator.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(numerator.Decimal.Div(denominator.Decimal).Mul(hundred))
}
