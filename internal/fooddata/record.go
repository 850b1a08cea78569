package fooddata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"mealcheck/internal/nutrients"
)

// Basis tags which nutrient declarations a record carries.
type Basis int

const (
	// NoBasis records carry neither label nor bulk nutrients; they extract to zero.
	NoBasis Basis = iota
	// LabelBasis records carry only per-serving label nutrients.
	LabelBasis
	// BulkBasis records carry only per-100 g nutrient tuples.
	BulkBasis
	// BothBases records carry both; extraction uses the label set.
	BothBases
)

func (b Basis) String() string {
	switch b {
	case LabelBasis:
		return "label"
	case BulkBasis:
		return "bulk"
	case BothBases:
		return "label+bulk"
	default:
		return "none"
	}
}

// BulkNutrient is one (identifier, name, unit, amount) tuple, per 100 g.
type BulkNutrient struct {
	Number string
	Name   string
	Unit   string
	Amount float64
}

// Portion is a named serving size with a known gram weight.
type Portion struct {
	Label      string  `json:"label"`
	GramWeight float64 `json:"gram_weight"`
}

// Record is a food record decoded once at the system boundary.
type Record struct {
	ID          string
	Description string
	DataType    string
	BrandOwner  string
	Category    string

	Basis Basis

	// Label holds per-serving values for the seven label nutrients.
	// LabelFields counts every entry the source declared, including ones
	// outside the seven, so a non-empty declaration still selects the label basis.
	Label       nutrients.Vector
	LabelFields int

	Bulk []BulkNutrient

	ServingSize     float64
	ServingSizeUnit string

	// Portions are the explicit portions from the source, gram weight > 0 only.
	Portions []Portion
}

type rawRecord struct {
	FdcID           any                 `json:"fdcId"`
	Description     string              `json:"description"`
	DataType        string              `json:"dataType"`
	BrandOwner      string              `json:"brandOwner"`
	FoodCategory    any                 `json:"foodCategory"`
	ServingSize     any                 `json:"servingSize"`
	ServingSizeUnit string              `json:"servingSizeUnit"`
	LabelNutrients  map[string]rawLabel `json:"labelNutrients"`
	FoodNutrients   []rawFoodNutrient   `json:"foodNutrients"`
	FoodPortions    []rawPortion        `json:"foodPortions"`
}

type rawLabel struct {
	Value any `json:"value"`
}

type rawFoodNutrient struct {
	Nutrient rawNutrient `json:"nutrient"`
	Amount   any         `json:"amount"`
}

type rawNutrient struct {
	Number   any    `json:"number"`
	Name     string `json:"name"`
	UnitName string `json:"unitName"`
}

type rawPortion struct {
	GramWeight         any    `json:"gramWeight"`
	PortionDescription string `json:"portionDescription"`
	Modifier           string `json:"modifier"`
	MeasureUnit        struct {
		Name string `json:"name"`
	} `json:"measureUnit"`
}

var labelKeys = map[string]nutrients.Key{
	"calories":      nutrients.Energy,
	"protein":       nutrients.Protein,
	"carbohydrates": nutrients.Carbohydrate,
	"fat":           nutrients.Fat,
	"saturatedFat":  nutrients.SatFat,
	"sugars":        nutrients.Sugars,
	"sodium":        nutrients.Sodium,
}

// Decode parses a FoodData Central food detail document into a Record.
func Decode(data []byte) (Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("decode food record: %w", err)
	}

	rec := Record{
		ID:              Str(raw.FdcID),
		Description:     raw.Description,
		DataType:        raw.DataType,
		BrandOwner:      raw.BrandOwner,
		Category:        categoryName(raw.FoodCategory),
		ServingSize:     Num(raw.ServingSize),
		ServingSizeUnit: raw.ServingSizeUnit,
		LabelFields:     len(raw.LabelNutrients),
	}

	for name, ln := range raw.LabelNutrients {
		if key, ok := labelKeys[name]; ok {
			rec.Label[key] = Num(ln.Value)
		}
	}

	for _, fn := range raw.FoodNutrients {
		rec.Bulk = append(rec.Bulk, BulkNutrient{
			Number: Str(fn.Nutrient.Number),
			Name:   fn.Nutrient.Name,
			Unit:   fn.Nutrient.UnitName,
			Amount: Num(fn.Amount),
		})
	}

	for _, p := range raw.FoodPortions {
		grams := Num(p.GramWeight)
		if grams == 0 {
			continue
		}
		rec.Portions = append(rec.Portions, Portion{
			Label:      firstNonEmpty(p.PortionDescription, p.Modifier, p.MeasureUnit.Name, "Serving"),
			GramWeight: grams,
		})
	}

	rec.Basis = classify(rec.LabelFields > 0, len(rec.Bulk) > 0)
	return rec, nil
}

func classify(hasLabel, hasBulk bool) Basis {
	switch {
	case hasLabel && hasBulk:
		return BothBases
	case hasLabel:
		return LabelBasis
	case hasBulk:
		return BulkBasis
	default:
		return NoBasis
	}
}

// Num coerces any decoded JSON scalar to a finite float64.
// Missing, malformed and non-finite values become 0.
func Num(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Str renders a decoded JSON scalar as a string; numbers lose trailing zeros.
func Str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func categoryName(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case map[string]any:
		if d, ok := x["description"].(string); ok {
			return d
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
