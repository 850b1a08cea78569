package report

import (
	"fmt"
	"strings"

	"mealcheck/internal/compliance"
	"mealcheck/internal/intake"
	"mealcheck/internal/mealplan"
	"mealcheck/internal/nutrients"
)

const summaryTitle = "GRADE 4 – 1‑DAY MEAL PLAN SUMMARY"

// ReflectionPrompts close every exported summary.
var ReflectionPrompts = []string{
	"1) What was ONE nutrient that was hard to balance? Why?",
	"2) If something was over a limit, what food change could fix it?",
	"3) Name one healthy choice you are proud of in your plan.",
}

// Summary builds the plain-text export of a checked plan.
func Summary(plan mealplan.Plan, totals intake.Totals, rows []compliance.Row) string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	lines = append(lines, summaryTitle, "")

	lines = append(lines, "TOTALS")
	add("Energy: %s kcal", Number(totals.Get(nutrients.Energy), 0))
	add("Protein: %s g", Number(totals.Get(nutrients.Protein), 1))
	add("Carbs: %s g", Number(totals.Get(nutrients.Carbohydrate), 1))
	add("Total fat: %s g", Number(totals.Get(nutrients.Fat), 1))
	lines = append(lines, "")

	lines = append(lines, "MEALS")
	for _, slot := range mealplan.Slots {
		items := plan[slot]
		add("%s (%d items, %s g)", slot, len(items), Number(intake.SlotGrams(items), 0))
		if len(items) == 0 {
			lines = append(lines, "  - No foods added yet.")
			continue
		}
		for _, it := range items {
			add("  - %s (%s)", it.Name, ItemAmount(it))
		}
	}
	lines = append(lines, "")

	lines = append(lines, "SAFETY & TARGET CHECK")
	for _, r := range rows {
		add("%s: %s | Status: %s", r.Name, Amount(r.Intake, r.Unit), r.StatusText)
	}
	lines = append(lines, "")

	lines = append(lines, "REFLECTION (answer in sentences)")
	lines = append(lines, ReflectionPrompts...)
	return strings.Join(lines, "\n")
}

// ItemAmount renders an item's quantity as whole grams or millilitres.
func ItemAmount(it mealplan.Item) string {
	amount, unit := it.Amount()
	return Number(amount, 0) + " " + unit
}
