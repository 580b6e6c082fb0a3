// Package money holds the integer money representation shared by the
// allocation and settlement engines. All arithmetic is done on signed
// 64-bit minor currency units; floating point is never used.
package money

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Amount is a monetary value in minor currency units. It is signed so it
// can also carry net balances (paid minus owed).
type Amount int64

// BasisPointsTotal is the number of basis points in a whole: 10000 = 100%.
const BasisPointsTotal = 10000

// Format renders an amount with digit grouping, e.g. 122500 -> "122,500".
func Format(a Amount) string {
	return humanize.Comma(int64(a))
}

// FormatBasisPoints renders basis points as a percentage with two decimal
// places, e.g. 3929 -> "39.29%".
func FormatBasisPoints(bp int64) string {
	sign := ""
	if bp < 0 {
		sign = "-"
		bp = -bp
	}
	return fmt.Sprintf("%s%d.%02d%%", sign, bp/100, bp%100)
}

// Abs returns the magnitude of an amount.
func Abs(a Amount) Amount {
	if a < 0 {
		return -a
	}
	return a
}
