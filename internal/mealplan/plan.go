package mealplan

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount is returned for non-positive or non-finite grams/mL.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrUnknownSlot is returned for a meal name outside the fixed slots.
	ErrUnknownSlot = errors.New("unknown meal")
	// ErrItemNotFound is returned when a removal target does not exist.
	ErrItemNotFound = errors.New("plan item not found")
)

// DefaultWaterML is the amount used when a water entry gives none.
const DefaultWaterML = 250

// MealSlot names one of the fixed meals of the day.
type MealSlot string

const (
	Breakfast MealSlot = "Breakfast"
	Lunch     MealSlot = "Lunch"
	Dinner    MealSlot = "Dinner"
	Snacks    MealSlot = "Snacks"
)

// Slots lists the meal slots in display order.
var Slots = []MealSlot{Breakfast, Lunch, Dinner, Snacks}

// ParseSlot resolves a meal name case-insensitively.
func ParseSlot(name string) (MealSlot, error) {
	name = strings.TrimSpace(name)
	for _, s := range Slots {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownSlot, name, slotList())
}

func slotList() string {
	names := make([]string, len(Slots))
	for i, s := range Slots {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Kind distinguishes food items from water entries.
type Kind string

const (
	KindFood  Kind = "food"
	KindWater Kind = "water"
)

// Item is one entry in a meal. Food items carry Grams; water items carry ML.
type Item struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"type"`
	FoodID string  `json:"fdcId,omitempty"`
	Name   string  `json:"name"`
	Meta   string  `json:"meta,omitempty"`
	Grams  float64 `json:"grams,omitempty"`
	ML     float64 `json:"ml,omitempty"`
}

// FoodItem builds a food entry.
func FoodItem(foodID, name, meta string, grams float64) (Item, error) {
	if strings.TrimSpace(foodID) == "" {
		return Item{}, fmt.Errorf("food id is required")
	}
	if !positive(grams) {
		return Item{}, fmt.Errorf("grams %v: %w", grams, ErrInvalidAmount)
	}
	if name == "" {
		name = "Food " + foodID
	}
	return Item{Kind: KindFood, FoodID: foodID, Name: name, Meta: meta, Grams: grams}, nil
}

// WaterItem builds a water entry.
func WaterItem(ml float64) (Item, error) {
	if !positive(ml) {
		return Item{}, fmt.Errorf("ml %v: %w", ml, ErrInvalidAmount)
	}
	return Item{Kind: KindWater, Name: "Water", ML: ml}, nil
}

// Amount returns the item's quantity and its unit.
func (it Item) Amount() (float64, string) {
	if it.Kind == KindWater {
		return it.ML, "mL"
	}
	return it.Grams, "g"
}

func (it Item) validate() error {
	switch it.Kind {
	case KindFood:
		if it.FoodID == "" {
			return fmt.Errorf("food id is required")
		}
		if !positive(it.Grams) {
			return fmt.Errorf("grams %v: %w", it.Grams, ErrInvalidAmount)
		}
	case KindWater:
		if !positive(it.ML) {
			return fmt.Errorf("ml %v: %w", it.ML, ErrInvalidAmount)
		}
	default:
		return fmt.Errorf("unknown item type %q", it.Kind)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Plan maps each meal slot to its items, in insertion order.
type Plan map[MealSlot][]Item

// New returns a plan with every slot present and empty.
func New() Plan {
	p := make(Plan, len(Slots))
	for _, s := range Slots {
		p[s] = []Item{}
	}
	return p
}

// Add appends item to slot and returns it with its assigned id.
func (p *Plan) Add(slot MealSlot, item Item) (Item, error) {
	if _, err := ParseSlot(string(slot)); err != nil {
		return Item{}, err
	}
	if err := item.validate(); err != nil {
		return Item{}, err
	}
	if *p == nil {
		*p = New()
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	items := (*p)[slot]
	next := make([]Item, len(items), len(items)+1)
	copy(next, items)
	(*p)[slot] = append(next, item)
	return item, nil
}

// Remove deletes the item at index in slot.
func (p Plan) Remove(slot MealSlot, index int) (Item, error) {
	items := p[slot]
	if index < 0 || index >= len(items) {
		return Item{}, fmt.Errorf("%s[%d]: %w", slot, index, ErrItemNotFound)
	}
	removed := items[index]
	next := make([]Item, 0, len(items)-1)
	next = append(next, items[:index]...)
	next = append(next, items[index+1:]...)
	p[slot] = next
	return removed, nil
}

// RemoveByID deletes the item with the given id from whichever slot holds it.
func (p Plan) RemoveByID(id string) (MealSlot, Item, error) {
	for _, s := range Slots {
		for i, it := range p[s] {
			if it.ID == id {
				removed, err := p.Remove(s, i)
				return s, removed, err
			}
		}
	}
	return "", Item{}, fmt.Errorf("id %s: %w", id, ErrItemNotFound)
}

// Items returns a copy of the items in slot.
func (p Plan) Items(slot MealSlot) []Item {
	return append([]Item(nil), p[slot]...)
}

// Len counts items across all slots.
func (p Plan) Len() int {
	n := 0
	for _, s := range Slots {
		n += len(p[s])
	}
	return n
}

// FoodIDs returns the distinct food ids in plan order.
func (p Plan) FoodIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range Slots {
		for _, it := range p[s] {
			if it.Kind != KindFood || seen[it.FoodID] {
				continue
			}
			seen[it.FoodID] = true
			ids = append(ids, it.FoodID)
		}
	}
	return ids
}

// Normalize fills missing slots after loading a persisted plan.
func (p Plan) Normalize() Plan {
	out := New()
	for _, s := range Slots {
		out[s] = append(out[s], p[s]...)
	}
	return out
}
