package compliance

import (
	"mealcheck/internal/intake"
	"mealcheck/internal/nutrients"
)

// Kind selects which checks apply to a row.
type Kind string

const (
	// KindTarget rows are judged against a goal; a cap still overrides.
	KindTarget Kind = "target"
	// KindLimit rows are percent-of-energy limits.
	KindLimit Kind = "limit"
	// KindUL rows are judged against an upper intake level only.
	KindUL Kind = "ul"
)

// Status classes.
const (
	ClassOK   = "ok"
	ClassWarn = "warn"
	ClassBad  = "bad"
)

// Status texts.
const (
	TextOK    = "OK"
	TextSafe  = "Safe"
	TextClose = "Close"
	TextOver  = "Over"
	TextMeets = "Meets"
	TextLow   = "Low"
)

const (
	capCloseRatio    = 0.8
	targetMeetsRatio = 0.9
	targetCloseRatio = 0.7

	fatKcalPerGram   = 9
	sugarKcalPerGram = 4

	pctEnergyUnit = "% of energy"
)

// Row is the classified result for one nutrient.
type Row struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	Intake      float64  `json:"intake"`
	Unit        string   `json:"unit"`
	Target      *float64 `json:"target,omitempty"`
	Cap         *float64 `json:"cap,omitempty"`
	CapLabel    string   `json:"cap_label,omitempty"`
	StatusClass string   `json:"status_class"`
	StatusText  string   `json:"status"`
}

// Evaluate classifies the totals against targets and limits.
// Rows come back in a fixed order.
func Evaluate(t intake.Totals, targets Targets, limits Limits) []Row {
	kcal := t.Get(nutrients.Energy)
	satPct := PctEnergy(t.Get(nutrients.SatFat), fatKcalPerGram, kcal)
	sugarPct := PctEnergy(t.Get(nutrients.Sugars), sugarKcalPerGram, kcal)

	return []Row{
		makeRow("Energy", KindTarget, kcal, "kcal", targets.Get(TargetEnergy), nil, ""),
		makeRow("Water", KindTarget, t.WaterML, "mL", targets.Get(TargetWater), nil, ""),
		makeRow("Protein", KindTarget, t.Get(nutrients.Protein), "g", targets.Get(TargetProtein), nil, ""),
		makeRow("Carbs", KindTarget, t.Get(nutrients.Carbohydrate), "g", targets.Get(TargetCarbs), nil, ""),
		makeRow("Total fat", KindTarget, t.Get(nutrients.Fat), "g", targets.Get(TargetFat), nil, ""),

		makeRow("Saturated fat (Limit)", KindLimit, satPct, pctEnergyUnit, nil, ptr(limits.Limits.SatFatPctEnergy), "Limit"),
		makeRow("Total sugars (Limit)", KindLimit, sugarPct, pctEnergyUnit, nil, ptr(limits.Limits.SugarPctEnergy), "Limit"),

		makeRow("Vitamin A", KindUL, t.Get(nutrients.VitaminA), nutrients.VitaminA.Unit(), targets.Get(TargetVitaminA), ptr(limits.UL.VitaminA), "UL"),
		makeRow("Vitamin D", KindUL, t.Get(nutrients.VitaminD), nutrients.VitaminD.Unit(), targets.Get(TargetVitaminD), ptr(limits.UL.VitaminD), "UL"),
		makeRow("Calcium", KindUL, t.Get(nutrients.Calcium), "mg", targets.Get(TargetCalcium), ptr(limits.UL.Calcium), "UL"),
		makeRow("Iron", KindUL, t.Get(nutrients.Iron), "mg", targets.Get(TargetIron), ptr(limits.UL.Iron), "UL"),
		makeRow("Zinc", KindUL, t.Get(nutrients.Zinc), "mg", targets.Get(TargetZinc), ptr(limits.UL.Zinc), "UL"),
		makeRow("Sodium (Cap)", KindUL, t.Get(nutrients.Sodium), "mg", targets.Get(TargetSodium), ptr(limits.UL.Sodium), "Cap"),
	}
}

func makeRow(name string, kind Kind, intake float64, unit string, target, upper *float64, capLabel string) Row {
	class, text := Classify(kind, intake, target, upper)
	return Row{
		Name:        name,
		Kind:        kind,
		Intake:      intake,
		Unit:        unit,
		Target:      target,
		Cap:         upper,
		CapLabel:    capLabel,
		StatusClass: class,
		StatusText:  text,
	}
}

// Classify applies the cap check, then the target check for target rows,
// then forces Over whenever intake has reached the cap.
// Rows with neither check configured are OK.
func Classify(kind Kind, intake float64, target, upper *float64) (class, text string) {
	class, text = ClassOK, TextOK

	if upper != nil {
		r := ratio(intake, *upper)
		switch {
		case r >= 1:
			class, text = ClassBad, TextOver
		case r >= capCloseRatio:
			class, text = ClassWarn, TextClose
		default:
			class, text = ClassOK, TextSafe
		}
	}

	if kind == KindTarget && target != nil {
		r := ratio(intake, *target)
		switch {
		case r >= targetMeetsRatio:
			class, text = ClassOK, TextMeets
		case r >= targetCloseRatio:
			class, text = ClassWarn, TextClose
		default:
			class, text = ClassWarn, TextLow
		}
	}

	if upper != nil && intake >= *upper {
		class, text = ClassBad, TextOver
	}
	return class, text
}

// PctEnergy is the share of totalKcal supplied by grams of a macro.
// It is 0 when totalKcal is 0.
func PctEnergy(grams, kcalPerGram, totalKcal float64) float64 {
	if totalKcal == 0 {
		return 0
	}
	return grams * kcalPerGram / totalKcal * 100
}

func ratio(v, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return v / denom
}

func ptr(v float64) *float64 {
	return &v
}

// Summary counts rows per status class.
type Summary struct {
	OK   int      `json:"ok"`
	Warn int      `json:"warn"`
	Bad  int      `json:"bad"`
	Over []string `json:"over,omitempty"`
}

// Summarize tallies rows and names the ones that are Over.
func Summarize(rows []Row) Summary {
	var s Summary
	for _, r := range rows {
		switch r.StatusClass {
		case ClassBad:
			s.Bad++
		case ClassWarn:
			s.Warn++
		default:
			s.OK++
		}
		if r.StatusText == TextOver {
			s.Over = append(s.Over, r.Name)
		}
	}
	return s
}
