package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"mealcheck/internal/fooddata"
	"mealcheck/internal/mealplan"
	"mealcheck/internal/report"
	"mealcheck/internal/session"
)

func runPlan(args []string, workspacePath string) error {
	return subcommand("plan", args, map[string]func([]string, string) error{
		"add":    runPlanAdd,
		"water":  runPlanWater,
		"remove": runPlanRemove,
		"show":   runPlanShow,
		"clear":  runPlanClear,
	}, workspacePath)
}

func slotUsage() string {
	names := make([]string, 0, len(mealplan.Slots))
	for _, s := range mealplan.Slots {
		names = append(names, string(s))
	}
	return "Meal: " + strings.Join(names, ", ")
}

func runPlanAdd(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("plan add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	meal := fs.String("meal", "", slotUsage())
	foodID := fs.String("food", "", "FoodData Central id")
	grams := fs.Float64("grams", 0, "Amount in grams")
	portion := fs.Int("portion", -1, "Portion index from food show")
	count := fs.Float64("count", 1, "Number of portions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	slot, err := mealplan.ParseSlot(*meal)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*foodID) == "" {
		return fmt.Errorf("plan add: --food is required")
	}
	if (*grams != 0) == (*portion >= 0) {
		return fmt.Errorf("plan add: give exactly one of --grams or --portion")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("plan_add", map[string]any{"meal": string(slot), "food_id": *foodID})
	var added mealplan.Item
	defer func() { finish(err, map[string]any{"item_id": added.ID, "grams": added.Grams}) }()

	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if err = st.RequireTargets(); err != nil {
		return err
	}
	rec, _, err := session.LookupFood(ctx, a.provider, &st, *foodID)
	if err != nil {
		return err
	}

	amount := *grams
	if *portion >= 0 {
		amount, err = fooddata.GramsForPortion(rec, *portion, *count)
		if err != nil {
			return err
		}
	}
	item, err := mealplan.FoodItem(*foodID, rec.Description, foodMeta(rec), amount)
	if err != nil {
		return err
	}
	added, err = st.AddItem(slot, item)
	if err != nil {
		return err
	}
	if err = a.store.Save(ctx, st); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added %s (%s) to %s  id=%s\n", added.Name, report.ItemAmount(added), slot, added.ID)
	return nil
}

func runPlanWater(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("plan water", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	meal := fs.String("meal", "", slotUsage())
	ml := fs.Float64("ml", mealplan.DefaultWaterML, "Amount in millilitres")
	if err := fs.Parse(args); err != nil {
		return err
	}
	slot, err := mealplan.ParseSlot(*meal)
	if err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("plan_water", map[string]any{"meal": string(slot), "ml": *ml})
	var added mealplan.Item
	defer func() { finish(err, map[string]any{"item_id": added.ID}) }()

	item, err := mealplan.WaterItem(*ml)
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	added, err = st.AddItem(slot, item)
	if err != nil {
		return err
	}
	if err = a.store.Save(ctx, st); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added Water (%s) to %s  id=%s\n", report.ItemAmount(added), slot, added.ID)
	return nil
}

func runPlanRemove(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("plan remove", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	meal := fs.String("meal", "", slotUsage()+" (with --index)")
	index := fs.Int("index", -1, "Item index from plan show")
	id := fs.String("id", "", "Item id from plan show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*id != "") == (*index >= 0) {
		return fmt.Errorf("plan remove: give exactly one of --index or --id")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("plan_remove", map[string]any{"meal": *meal, "index": *index, "id": *id})
	var removed mealplan.Item
	defer func() { finish(err, map[string]any{"item_id": removed.ID}) }()

	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	var slot mealplan.MealSlot
	if *id != "" {
		slot, removed, err = st.Plan.RemoveByID(*id)
	} else {
		slot, err = mealplan.ParseSlot(*meal)
		if err != nil {
			return err
		}
		removed, err = st.Plan.Remove(slot, *index)
	}
	if err != nil {
		return err
	}
	if err = a.store.Save(ctx, st); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Removed %s (%s) from %s\n", removed.Name, report.ItemAmount(removed), slot)
	return nil
}

func runPlanShow(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("plan show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("plan_show", nil)
	defer func() { finish(err, nil) }()

	st, err := a.store.Load(context.Background())
	if err != nil {
		return err
	}
	return report.WritePlan(os.Stdout, st.Plan)
}

func runPlanClear(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("plan clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("plan_clear", nil)
	var cleared int
	defer func() { finish(err, map[string]any{"items": cleared}) }()

	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	cleared = st.Plan.Len()
	st.Plan = mealplan.New()
	if err = a.store.Save(ctx, st); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Cleared %d items from the plan.\n", cleared)
	return nil
}
