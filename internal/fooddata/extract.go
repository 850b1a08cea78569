package fooddata

import (
	"strings"

	"mealcheck/internal/nutrients"
)

const gramsPerOunce = 28.3495

// bulkRule matches a bulk nutrient tuple to a key: by stable identifier,
// or by lower-cased name (and unit) when the identifier does not match.
type bulkRule struct {
	key    nutrients.Key
	number string
	byName func(name, unit string) bool
}

var bulkRules = []bulkRule{
	{nutrients.Energy, "208", func(n, u string) bool { return strings.Contains(n, "energy") && u == "kcal" }},
	{nutrients.Protein, "203", func(n, _ string) bool { return n == "protein" }},
	{nutrients.Carbohydrate, "205", func(n, _ string) bool { return strings.Contains(n, "carbohydrate") }},
	{nutrients.Fat, "204", func(n, _ string) bool { return strings.Contains(n, "total lipid") || n == "total fat" }},
	{nutrients.SatFat, "606", func(n, _ string) bool { return strings.Contains(n, "fatty acids, total saturated") }},
	{nutrients.Sugars, "269", func(n, _ string) bool { return strings.Contains(n, "sugars, total") }},
	{nutrients.VitaminA, "320", func(n, u string) bool { return strings.Contains(n, "vitamin a") && strings.Contains(u, "ug") }},
	{nutrients.VitaminD, "328", func(n, _ string) bool { return strings.Contains(n, "vitamin d") }},
	{nutrients.Calcium, "301", func(n, _ string) bool { return n == "calcium, ca" }},
	{nutrients.Iron, "303", func(n, _ string) bool { return n == "iron, fe" }},
	{nutrients.Zinc, "309", func(n, _ string) bool { return n == "zinc, zn" }},
	{nutrients.Sodium, "307", func(n, _ string) bool { return n == "sodium, na" }},
}

// Extract returns the nutrients contributed by grams of the food.
// Records with a label declaration use it exclusively; otherwise the bulk
// per-100 g tuples are used.
func Extract(rec Record, grams float64) nutrients.Vector {
	grams = Num(grams)
	switch rec.Basis {
	case LabelBasis, BothBases:
		factor := grams / 100
		if serving := ServingGrams(rec); serving > 0 {
			factor = grams / serving
		}
		return rec.Label.Scale(factor)
	case BulkBasis:
		return ResolveBulk(rec.Bulk).Scale(grams / 100)
	default:
		return nutrients.Vector{}
	}
}

// ResolveBulk maps bulk tuples onto the nutrient keys, unscaled.
// When several tuples match one key the larger amount is kept; a zero
// amount never replaces an earlier match.
func ResolveBulk(entries []BulkNutrient) nutrients.Vector {
	var out nutrients.Vector
	var seen [len(out)]bool

	for _, e := range entries {
		name := strings.ToLower(e.Name)
		unit := strings.ToLower(e.Unit)
		for _, rule := range bulkRules {
			if e.Number != rule.number && !rule.byName(name, unit) {
				continue
			}
			switch {
			case !seen[rule.key]:
				out[rule.key] = e.Amount
				seen[rule.key] = true
			case e.Amount != 0 && e.Amount > out[rule.key]:
				out[rule.key] = e.Amount
			}
		}
	}
	return out
}

// ServingGrams converts the record's declared serving size to grams.
// Millilitres count as grams. It returns 0 when the unit is unknown.
func ServingGrams(rec Record) float64 {
	size := Num(rec.ServingSize)
	if size == 0 {
		return 0
	}
	switch strings.ToLower(strings.TrimSpace(rec.ServingSizeUnit)) {
	case "g", "gram", "grams":
		return size
	case "ml", "milliliter", "milliliters":
		return size
	case "oz", "ounce", "ounces":
		return size * gramsPerOunce
	default:
		return 0
	}
}
