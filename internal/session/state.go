package session

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"mealcheck/internal/compliance"
	"mealcheck/internal/fooddata"
	"mealcheck/internal/intake"
	"mealcheck/internal/mealplan"
)

// ErrTargetsIncomplete is returned when a required target is missing.
var ErrTargetsIncomplete = errors.New("required targets are not set")

// State is everything the user has entered plus the food cache.
// Cache entries are raw FDC detail documents keyed by food id.
type State struct {
	Targets compliance.Targets         `json:"targets"`
	Plan    mealplan.Plan              `json:"plan"`
	Cache   map[string]json.RawMessage `json:"cache"`
}

// NewState returns an empty state.
func NewState() State {
	return State{
		Targets: compliance.Targets{},
		Plan:    mealplan.New(),
		Cache:   map[string]json.RawMessage{},
	}
}

func (s State) normalize() State {
	if s.Targets == nil {
		s.Targets = compliance.Targets{}
	} else {
		s.Targets = s.Targets.Clone()
	}
	s.Plan = s.Plan.Normalize()
	if s.Cache == nil {
		s.Cache = map[string]json.RawMessage{}
	}
	return s
}

// RequireTargets fails with ErrTargetsIncomplete naming what is missing.
func (s State) RequireTargets() error {
	missing := compliance.MissingTargets(s.Targets)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing %v", ErrTargetsIncomplete, missing)
}

// AddItem adds a food or water item once the required targets are set.
func (s *State) AddItem(slot mealplan.MealSlot, item mealplan.Item) (mealplan.Item, error) {
	if err := s.RequireTargets(); err != nil {
		return mealplan.Item{}, err
	}
	return s.Plan.Add(slot, item)
}

// PutFood stores a raw detail document after checking it decodes.
func (s *State) PutFood(id string, raw []byte) (fooddata.Record, error) {
	rec, err := fooddata.Decode(raw)
	if err != nil {
		return fooddata.Record{}, err
	}
	if id == "" {
		id = rec.ID
	}
	if id == "" {
		return fooddata.Record{}, fmt.Errorf("food record has no fdcId")
	}
	if s.Cache == nil {
		s.Cache = map[string]json.RawMessage{}
	}
	s.Cache[id] = append(json.RawMessage(nil), raw...)
	return rec, nil
}

// Food decodes the cached record for id.
func (s State) Food(id string) (fooddata.Record, bool) {
	raw, ok := s.Cache[id]
	if !ok {
		return fooddata.Record{}, false
	}
	rec, err := fooddata.Decode(raw)
	if err != nil {
		return fooddata.Record{}, false
	}
	return rec, true
}

// Records decodes the whole cache. Entries that fail to decode are left
// out so they count as unresolved.
func (s State) Records() map[string]fooddata.Record {
	out := make(map[string]fooddata.Record, len(s.Cache))
	for id := range s.Cache {
		if rec, ok := s.Food(id); ok {
			out[id] = rec
		}
	}
	return out
}

// Totals aggregates the plan against the cache.
func (s State) Totals() intake.Totals {
	return intake.Aggregate(s.Plan, s.Records())
}

// Evaluate aggregates and classifies the plan.
func (s State) Evaluate(limits compliance.Limits) (intake.Totals, []compliance.Row) {
	totals := s.Totals()
	return totals, compliance.Evaluate(totals, s.Targets, limits)
}
