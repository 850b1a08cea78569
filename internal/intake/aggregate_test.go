package intake

import (
	"math"
	"testing"

	"mealcheck/internal/fooddata"
	"mealcheck/internal/mealplan"
	"mealcheck/internal/nutrients"
)

func testCache() map[string]fooddata.Record {
	return map[string]fooddata.Record{
		"1": {
			ID:    "1",
			Basis: fooddata.BulkBasis,
			Bulk: []fooddata.BulkNutrient{
				{Number: "208", Name: "Energy", Unit: "kcal", Amount: 200},
				{Number: "303", Name: "Iron, Fe", Unit: "mg", Amount: 2.5},
			},
		},
		"2": {
			ID:              "2",
			Basis:           fooddata.LabelBasis,
			Label:           labelVector(nutrients.Energy, 150, nutrients.Sodium, 300),
			LabelFields:     2,
			ServingSize:     30,
			ServingSizeUnit: "g",
		},
	}
}

func labelVector(pairs ...any) nutrients.Vector {
	var v nutrients.Vector
	for i := 0; i < len(pairs); i += 2 {
		v[pairs[i].(nutrients.Key)] = float64(pairs[i+1].(int))
	}
	return v
}

func mustAdd(t *testing.T, p *mealplan.Plan, slot mealplan.MealSlot, it mealplan.Item, err error) mealplan.Item {
	t.Helper()
	if err != nil {
		t.Fatalf("build item: %v", err)
	}
	added, err := p.Add(slot, it)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return added
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate(t *testing.T) {
	p := mealplan.New()
	it, err := mealplan.FoodItem("1", "Oats", "", 50)
	mustAdd(t, &p, mealplan.Breakfast, it, err)
	it, err = mealplan.FoodItem("2", "Cereal", "", 60)
	mustAdd(t, &p, mealplan.Lunch, it, err)
	it, err = mealplan.WaterItem(250)
	mustAdd(t, &p, mealplan.Snacks, it, err)
	it, err = mealplan.FoodItem("404", "Unresolved", "", 500)
	mustAdd(t, &p, mealplan.Dinner, it, err)

	got := Aggregate(p, testCache())
	if !closeTo(got.Get(nutrients.Energy), 100+300) {
		t.Fatalf("energy = %v, want 400", got.Get(nutrients.Energy))
	}
	if !closeTo(got.Get(nutrients.Sodium), 600) {
		t.Fatalf("sodium = %v, want 600", got.Get(nutrients.Sodium))
	}
	if !closeTo(got.Get(nutrients.Iron), 1.25) {
		t.Fatalf("iron = %v, want 1.25", got.Get(nutrients.Iron))
	}
	if got.WaterML != 250 {
		t.Fatalf("water = %v, want 250", got.WaterML)
	}

	missing := MissingFoods(p, testCache())
	if len(missing) != 1 || missing[0] != "404" {
		t.Fatalf("missing = %v, want [404]", missing)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	type entry struct {
		slot  mealplan.MealSlot
		id    string
		grams float64
	}
	entries := []entry{
		{mealplan.Breakfast, "1", 30},
		{mealplan.Lunch, "2", 45},
		{mealplan.Dinner, "1", 120},
	}
	build := func(order []int, slots []mealplan.MealSlot) mealplan.Plan {
		p := mealplan.New()
		for i, idx := range order {
			e := entries[idx]
			it, err := mealplan.FoodItem(e.id, "", "", e.grams)
			mustAdd(t, &p, slots[i], it, err)
		}
		return p
	}

	a := Aggregate(build([]int{0, 1, 2}, []mealplan.MealSlot{mealplan.Breakfast, mealplan.Lunch, mealplan.Dinner}), testCache())
	b := Aggregate(build([]int{2, 0, 1}, []mealplan.MealSlot{mealplan.Snacks, mealplan.Snacks, mealplan.Breakfast}), testCache())
	for _, k := range nutrients.Keys {
		if !closeTo(a.Get(k), b.Get(k)) {
			t.Fatalf("%s: %v != %v", k, a.Get(k), b.Get(k))
		}
	}
}

func TestAggregateAddThenRemoveIsEmpty(t *testing.T) {
	p := mealplan.New()
	it, err := mealplan.FoodItem("1", "Oats", "", 80)
	mustAdd(t, &p, mealplan.Lunch, it, err)
	it, err = mealplan.WaterItem(300)
	mustAdd(t, &p, mealplan.Lunch, it, err)

	for p.Len() > 0 {
		if _, err := p.Remove(mealplan.Lunch, 0); err != nil {
			t.Fatalf("Remove: %v", err)
		}
	}
	if got, want := Aggregate(p, testCache()), Aggregate(mealplan.New(), nil); got != want {
		t.Fatalf("totals = %#v, want %#v", got, want)
	}
	if got := Aggregate(p, testCache()); !got.IsZero() || got.WaterML != 0 {
		t.Fatalf("totals not zero: %#v", got)
	}
}

func TestSlotGrams(t *testing.T) {
	items := []mealplan.Item{
		{Kind: mealplan.KindFood, FoodID: "1", Grams: 40},
		{Kind: mealplan.KindWater, ML: 250},
		{Kind: mealplan.KindFood, FoodID: "2", Grams: 12.5},
	}
	if got := SlotGrams(items); got != 52.5 {
		t.Fatalf("SlotGrams = %v, want 52.5", got)
	}
}
