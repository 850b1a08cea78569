package fooddata

import (
	"math"
	"testing"

	"mealcheck/internal/nutrients"
)

const bulkApple = `{
  "fdcId": 171688,
  "description": "Apples, raw, with skin",
  "dataType": "SR Legacy",
  "foodCategory": {"description": "Fruits and Fruit Juices"},
  "foodNutrients": [
    {"nutrient": {"number": "208", "name": "Energy", "unitName": "kcal"}, "amount": 52},
    {"nutrient": {"number": "268", "name": "Energy", "unitName": "kJ"}, "amount": 218},
    {"nutrient": {"number": "203", "name": "Protein", "unitName": "g"}, "amount": 0.26},
    {"nutrient": {"number": "205", "name": "Carbohydrate, by difference", "unitName": "g"}, "amount": 13.8},
    {"nutrient": {"number": "303", "name": "Iron, Fe", "unitName": "mg"}, "amount": 0.12},
    {"nutrient": {"name": "Calcium, Ca", "unitName": "mg"}, "amount": "6"}
  ],
  "foodPortions": [
    {"gramWeight": 182, "portionDescription": "1 medium"},
    {"gramWeight": 0, "portionDescription": "ignored"},
    {"gramWeight": 125, "modifier": "cup, sliced"},
    {"gramWeight": 182, "portionDescription": "1 medium"}
  ]
}`

const labelCereal = `{
  "fdcId": "2041155",
  "description": "CEREAL",
  "dataType": "Branded",
  "brandOwner": "Acme",
  "foodCategory": "Cereal",
  "servingSize": 30,
  "servingSizeUnit": "g",
  "labelNutrients": {
    "calories": {"value": 120},
    "sugars": {"value": 9},
    "sodium": {"value": 150},
    "fiber": {"value": 2}
  },
  "foodNutrients": [
    {"nutrient": {"number": "208", "name": "Energy", "unitName": "kcal"}, "amount": 400}
  ]
}`

func decode(t *testing.T, doc string) Record {
	t.Helper()
	rec, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return rec
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDecodeClassifiesBasis(t *testing.T) {
	apple := decode(t, bulkApple)
	if apple.Basis != BulkBasis {
		t.Fatalf("apple basis = %v, want bulk", apple.Basis)
	}
	if apple.ID != "171688" {
		t.Fatalf("apple id = %q", apple.ID)
	}
	if apple.Category != "Fruits and Fruit Juices" {
		t.Fatalf("apple category = %q", apple.Category)
	}

	cereal := decode(t, labelCereal)
	if cereal.Basis != BothBases {
		t.Fatalf("cereal basis = %v, want label+bulk", cereal.Basis)
	}
	if cereal.LabelFields != 4 {
		t.Fatalf("label fields = %d, want 4", cereal.LabelFields)
	}

	empty := decode(t, `{"fdcId": 1, "description": "nothing"}`)
	if empty.Basis != NoBasis {
		t.Fatalf("empty basis = %v, want none", empty.Basis)
	}
	if !Extract(empty, 100).IsZero() {
		t.Fatalf("record without nutrients should extract to zero")
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestExtractBulkIdentityAt100g(t *testing.T) {
	apple := decode(t, bulkApple)
	got := Extract(apple, 100)
	if got.Get(nutrients.Energy) != 52 {
		t.Fatalf("energy = %v, want 52", got.Get(nutrients.Energy))
	}
	if got.Get(nutrients.Calcium) != 6 {
		t.Fatalf("calcium by name = %v, want 6", got.Get(nutrients.Calcium))
	}
}

func TestExtractBulkHalfPortion(t *testing.T) {
	rec := Record{
		Basis: BulkBasis,
		Bulk:  []BulkNutrient{{Number: "208", Name: "Energy", Unit: "kcal", Amount: 200}},
	}
	if got := Extract(rec, 50).Get(nutrients.Energy); got != 100 {
		t.Fatalf("energy = %v, want 100", got)
	}
}

func TestExtractIsLinear(t *testing.T) {
	apple := decode(t, bulkApple)
	cereal := decode(t, labelCereal)
	for _, rec := range []Record{apple, cereal} {
		base := Extract(rec, 40)
		tripled := Extract(rec, 120)
		for _, k := range nutrients.Keys {
			if !almostEqual(tripled.Get(k), base.Get(k)*3) {
				t.Fatalf("%s %s: %v != 3 * %v", rec.Description, k, tripled.Get(k), base.Get(k))
			}
		}
	}
}

func TestExtractLabelBranches(t *testing.T) {
	cereal := decode(t, labelCereal)

	withServing := Extract(cereal, 60)
	if got := withServing.Get(nutrients.Energy); !almostEqual(got, 240) {
		t.Fatalf("energy with serving = %v, want 240", got)
	}
	if got := withServing.Get(nutrients.Iron); got != 0 {
		t.Fatalf("label basis should not populate iron, got %v", got)
	}

	noServing := cereal
	noServing.ServingSizeUnit = "cup"
	if got := Extract(noServing, 60).Get(nutrients.Energy); !almostEqual(got, 72) {
		t.Fatalf("energy without serving = %v, want 72", got)
	}
}

func TestResolveBulkDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    float64
	}{
		{"larger first", []float64{5, 3}, 5},
		{"larger second", []float64{3, 5}, 5},
		{"zero does not replace", []float64{4, 0}, 4},
		{"first zero taken as-is", []float64{0, 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []BulkNutrient
			for _, a := range tt.amounts {
				entries = append(entries, BulkNutrient{Number: "303", Name: "Iron, Fe", Unit: "mg", Amount: a})
			}
			if got := ResolveBulk(entries).Get(nutrients.Iron); got != tt.want {
				t.Fatalf("iron = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveBulkUnitConstraints(t *testing.T) {
	entries := []BulkNutrient{
		{Name: "Energy", Unit: "kJ", Amount: 900},
		{Name: "Vitamin A, IU", Unit: "IU", Amount: 500},
		{Name: "Vitamin A, RAE", Unit: "UG", Amount: 40},
	}
	got := ResolveBulk(entries)
	if got.Get(nutrients.Energy) != 0 {
		t.Fatalf("kJ energy should not match, got %v", got.Get(nutrients.Energy))
	}
	if got.Get(nutrients.VitaminA) != 40 {
		t.Fatalf("vitamin A = %v, want 40", got.Get(nutrients.VitaminA))
	}
}

func TestServingGrams(t *testing.T) {
	tests := []struct {
		size float64
		unit string
		want float64
	}{
		{30, "g", 30},
		{30, "GRM", 0},
		{240, "mL", 240},
		{2, "oz", 2 * gramsPerOunce},
		{1, "", 0},
		{0, "g", 0},
	}
	for _, tt := range tests {
		got := ServingGrams(Record{ServingSize: tt.size, ServingSizeUnit: tt.unit})
		if !almostEqual(got, tt.want) {
			t.Fatalf("ServingGrams(%v %q) = %v, want %v", tt.size, tt.unit, got, tt.want)
		}
	}
}

func TestPortions(t *testing.T) {
	apple := decode(t, bulkApple)
	got := Portions(apple)
	want := []Portion{{"1 medium", 182}, {"cup, sliced", 125}}
	if len(got) != len(want) {
		t.Fatalf("portions = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("portion[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}

	cereal := decode(t, labelCereal)
	portions := Portions(cereal)
	if len(portions) != 1 || portions[0].Label != LabelServing || portions[0].GramWeight != 30 {
		t.Fatalf("cereal portions = %#v", portions)
	}
}

func TestGramsForPortion(t *testing.T) {
	apple := decode(t, bulkApple)
	got, err := GramsForPortion(apple, 1, 2)
	if err != nil {
		t.Fatalf("GramsForPortion: %v", err)
	}
	if got != 250 {
		t.Fatalf("grams = %v, want 250", got)
	}
	if _, err := GramsForPortion(apple, 5, 1); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{"12.5", 12.5},
		{"abc", 0},
		{"NaN", 0},
		{math.Inf(1), 0},
		{float64(3), 3},
		{7, 7},
		{true, 1},
		{[]any{1}, 0},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Fatalf("Num(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
