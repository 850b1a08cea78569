package intake

import (
	"sort"

	"mealcheck/internal/fooddata"
	"mealcheck/internal/mealplan"
	"mealcheck/internal/nutrients"
)

// Totals is the summed intake for one plan evaluation.
type Totals struct {
	nutrients.Vector
	WaterML float64
}

// Aggregate sums the nutrients of every resolved food item plus all water.
// Food items without a cache entry contribute nothing.
func Aggregate(plan mealplan.Plan, cache map[string]fooddata.Record) Totals {
	var t Totals
	for _, slot := range mealplan.Slots {
		for _, it := range plan[slot] {
			switch it.Kind {
			case mealplan.KindWater:
				t.WaterML += fooddata.Num(it.ML)
			case mealplan.KindFood:
				rec, ok := cache[it.FoodID]
				if !ok {
					continue
				}
				t.Vector = t.Vector.Add(fooddata.Extract(rec, it.Grams))
			}
		}
	}
	return t
}

// MissingFoods lists food ids referenced by the plan but absent from cache.
func MissingFoods(plan mealplan.Plan, cache map[string]fooddata.Record) []string {
	var missing []string
	for _, id := range plan.FoodIDs() {
		if _, ok := cache[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

// SlotGrams sums the grams of the food items in one meal. Water is excluded.
func SlotGrams(items []mealplan.Item) float64 {
	total := 0.0
	for _, it := range items {
		if it.Kind == mealplan.KindFood {
			total += fooddata.Num(it.Grams)
		}
	}
	return total
}
