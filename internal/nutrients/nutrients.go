package nutrients

// Key identifies one of the tracked nutrients.
type Key int

const (
	Energy Key = iota
	Protein
	Carbohydrate
	Fat
	SatFat
	Sugars
	VitaminA
	VitaminD
	Calcium
	Iron
	Zinc
	Sodium

	numKeys
)

// Keys lists every tracked nutrient in canonical order.
var Keys = []Key{
	Energy, Protein, Carbohydrate, Fat, SatFat, Sugars,
	VitaminA, VitaminD, Calcium, Iron, Zinc, Sodium,
}

var names = [numKeys]string{
	Energy:       "energy",
	Protein:      "protein",
	Carbohydrate: "carbohydrate",
	Fat:          "fat",
	SatFat:       "saturated_fat",
	Sugars:       "sugars",
	VitaminA:     "vitamin_a",
	VitaminD:     "vitamin_d",
	Calcium:      "calcium",
	Iron:         "iron",
	Zinc:         "zinc",
	Sodium:       "sodium",
}

var units = [numKeys]string{
	Energy:       "kcal",
	Protein:      "g",
	Carbohydrate: "g",
	Fat:          "g",
	SatFat:       "g",
	Sugars:       "g",
	VitaminA:     "µg RAE",
	VitaminD:     "µg",
	Calcium:      "mg",
	Iron:         "mg",
	Zinc:         "mg",
	Sodium:       "mg",
}

// String returns the snake_case name of the key.
func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return "unknown"
	}
	return names[k]
}

// Unit returns the native unit for the key.
func (k Key) Unit() string {
	if k < 0 || k >= numKeys {
		return ""
	}
	return units[k]
}

// Vector holds one amount per nutrient key, in each key's native unit.
// The zero value is the all-zero vector.
type Vector [numKeys]float64

// Get returns the amount for k.
func (v Vector) Get(k Key) float64 {
	if k < 0 || k >= numKeys {
		return 0
	}
	return v[k]
}

// Add returns the element-wise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Scale returns v with every amount multiplied by factor.
func (v Vector) Scale(factor float64) Vector {
	for i := range v {
		v[i] *= factor
	}
	return v
}

// IsZero reports whether every amount is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Map returns the vector keyed by nutrient name, for JSON output.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, numKeys)
	for _, k := range Keys {
		out[k.String()] = v[k]
	}
	return out
}
