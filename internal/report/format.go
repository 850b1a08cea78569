package report

import (
	"math"
	"strconv"
	"strings"
)

// Round rounds v half away from zero to d decimals.
func Round(v float64, d int) float64 {
	m := math.Pow(10, float64(d))
	return math.Round(v*m) / m
}

// Number renders v rounded to d decimals without trailing zeros.
func Number(v float64, d int) string {
	r := Round(v, d)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Amount formats a value with its unit. Percentages and kcal are whole
// numbers; everything else keeps one decimal.
func Amount(v float64, unit string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	d := 1
	if strings.Contains(unit, "%") || unit == "kcal" {
		d = 0
	}
	return Number(v, d) + " " + unit
}
