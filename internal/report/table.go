package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"mealcheck/internal/compliance"
	"mealcheck/internal/intake"
	"mealcheck/internal/mealplan"
)

const dash = "—"

// WriteCheckTable renders rows as an aligned table.
func WriteCheckTable(w io.Writer, rows []compliance.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Nutrient\tIntake\tTarget\tUL/Limit\tStatus")
	for _, r := range rows {
		target := dash
		if r.Target != nil {
			target = Amount(*r.Target, r.Unit)
		}
		limit := dash
		if r.Cap != nil {
			limit = Amount(*r.Cap, r.Unit)
			if r.CapLabel != "" {
				limit += " (" + r.CapLabel + ")"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, Amount(r.Intake, r.Unit), target, limit, r.StatusText)
	}
	return tw.Flush()
}

// WritePlan lists each meal with its item count, gram total and items.
// Items are numbered from 0 so the index can be passed to plan remove.
func WritePlan(w io.Writer, plan mealplan.Plan) error {
	for _, slot := range mealplan.Slots {
		items := plan[slot]
		if _, err := fmt.Fprintf(w, "%s  [%d items] [%s g]\n", slot, len(items), Number(intake.SlotGrams(items), 0)); err != nil {
			return err
		}
		if len(items) == 0 {
			if _, err := fmt.Fprintln(w, "  No foods added yet."); err != nil {
				return err
			}
			continue
		}
		for i, it := range items {
			if _, err := fmt.Fprintf(w, "  %d. %s (%s)  id=%s\n", i, it.Name, ItemAmount(it), it.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
