package fooddata

import "fmt"

// LabelServing is the label of the synthetic portion derived from the
// record's declared serving size.
const LabelServing = "Label serving"

// Portions lists the selectable portions for a record. The label serving,
// when its gram weight is known, comes first; later entries with the same
// label and weight are dropped.
func Portions(rec Record) []Portion {
	var out []Portion
	if g := ServingGrams(rec); g > 0 {
		out = append(out, Portion{Label: LabelServing, GramWeight: g})
	}
	out = append(out, rec.Portions...)

	type portionKey struct {
		label string
		grams float64
	}
	seen := make(map[portionKey]bool, len(out))
	deduped := out[:0]
	for _, p := range out {
		k := portionKey{p.Label, p.GramWeight}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// GramsForPortion returns the grams for count servings of the portion at
// index idx of Portions(rec). A portion without a weight falls back to the
// serving-size guess.
func GramsForPortion(rec Record, idx int, count float64) (float64, error) {
	portions := Portions(rec)
	if idx < 0 || idx >= len(portions) {
		return 0, fmt.Errorf("portion %d out of range (food has %d)", idx, len(portions))
	}
	weight := portions[idx].GramWeight
	if weight == 0 {
		weight = ServingGrams(rec)
	}
	return weight * Num(count), nil
}
