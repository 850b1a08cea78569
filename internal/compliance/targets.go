package compliance

import (
	"fmt"
	"math"
	"strings"
)

// TargetID names a user-settable daily goal.
type TargetID string

const (
	TargetEnergy   TargetID = "energy"
	TargetWater    TargetID = "water"
	TargetProtein  TargetID = "protein"
	TargetCarbs    TargetID = "carbs"
	TargetFat      TargetID = "fat"
	TargetVitaminA TargetID = "vitamin_a"
	TargetVitaminD TargetID = "vitamin_d"
	TargetCalcium  TargetID = "calcium"
	TargetIron     TargetID = "iron"
	TargetZinc     TargetID = "zinc"
	TargetSodium   TargetID = "sodium"
)

// TargetIDs lists every target in display order.
var TargetIDs = []TargetID{
	TargetEnergy, TargetWater, TargetProtein, TargetCarbs, TargetFat,
	TargetVitaminA, TargetVitaminD, TargetCalcium, TargetIron, TargetZinc, TargetSodium,
}

// RequiredTargets must all be set before foods or water can be added.
var RequiredTargets = []TargetID{
	TargetWater, TargetVitaminA, TargetVitaminD, TargetCalcium, TargetIron, TargetZinc, TargetSodium,
}

var targetUnits = map[TargetID]string{
	TargetEnergy:   "kcal",
	TargetWater:    "mL",
	TargetProtein:  "g",
	TargetCarbs:    "g",
	TargetFat:      "g",
	TargetVitaminA: "µg RAE",
	TargetVitaminD: "µg",
	TargetCalcium:  "mg",
	TargetIron:     "mg",
	TargetZinc:     "mg",
	TargetSodium:   "mg",
}

// Unit returns the unit a target is expressed in.
func (id TargetID) Unit() string {
	return targetUnits[id]
}

// ParseTargetID accepts snake_case or kebab-case target names.
func ParseTargetID(name string) (TargetID, error) {
	norm := TargetID(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if _, ok := targetUnits[norm]; ok {
		return norm, nil
	}
	return "", fmt.Errorf("unknown target %q", name)
}

// Targets maps target ids to positive daily goals. Absent ids are unset.
type Targets map[TargetID]float64

// Set stores a goal after checking it is a positive finite number.
func (t Targets) Set(id TargetID, value float64) error {
	if _, ok := targetUnits[id]; !ok {
		return fmt.Errorf("unknown target %q", id)
	}
	if !usable(value) {
		return fmt.Errorf("target %s: value %v must be greater than 0", id, value)
	}
	t[id] = value
	return nil
}

// Get returns the goal for id, or nil when it is unset.
func (t Targets) Get(id TargetID) *float64 {
	v, ok := t[id]
	if !ok {
		return nil
	}
	return &v
}

// TargetsComplete reports whether every required target holds a usable value.
func TargetsComplete(t Targets) bool {
	return len(MissingTargets(t)) == 0
}

// MissingTargets lists required targets that are unset or unusable.
func MissingTargets(t Targets) []TargetID {
	var missing []TargetID
	for _, id := range RequiredTargets {
		if !usable(t[id]) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Clone copies the targets, dropping unknown ids.
func (t Targets) Clone() Targets {
	out := make(Targets, len(t))
	for id, v := range t {
		if _, ok := targetUnits[id]; ok {
			out[id] = v
		}
	}
	return out
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
