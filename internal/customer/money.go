package customer

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the ISO code shown next to every amount.
const Currency = "CAD"

var cadPrinter = message.NewPrinter(language.MustParse("en-CA"))

// FormatCAD renders amount as Canadian dollars with two decimals and digit
// grouping: 1000 -> "$1,000.00", -270 -> "-$270.00".
func FormatCAD(amount float64) string {
	sign := ""
	if amount < 0 && math.Round(amount*100) != 0 {
		sign = "-"
	}
	return sign + "$" + cadPrinter.Sprintf("%.2f", math.Abs(amount))
}
