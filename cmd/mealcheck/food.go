package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"mealcheck/internal/fdc"
	"mealcheck/internal/fooddata"
	"mealcheck/internal/report"
	"mealcheck/internal/session"
)

func runSearch(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return fmt.Errorf("search: query is required")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()

	finish := a.track("search", map[string]any{"query": query})
	var results []fdc.SearchResult
	defer func() { finish(err, map[string]any{"results": len(results)}) }()

	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if err = st.RequireTargets(); err != nil {
		return err
	}
	if err = a.requireProvider(); err != nil {
		return err
	}

	results, err = a.provider.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No foods found.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%s  %s\n", r.ID, r.Description)
		if meta := r.Meta(); meta != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", meta)
		}
	}
	return nil
}

func runFood(args []string, workspacePath string) error {
	return subcommand("food", args, map[string]func([]string, string) error{
		"show":   runFoodShow,
		"import": runFoodImport,
	}, workspacePath)
}

func runFoodShow(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("food show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("food show: exactly one food id is required")
	}
	id := fs.Arg(0)

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("food_show", map[string]any{"food_id": id})
	defer func() { finish(err, nil) }()

	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	rec, changed, err := session.LookupFood(ctx, a.provider, &st, id)
	if err != nil {
		return err
	}
	if changed {
		if err = a.store.Save(ctx, st); err != nil {
			return err
		}
	}
	writeFood(rec)
	return nil
}

func runFoodImport(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("food import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Food id to store the record under (default: the record's fdcId)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("food import: exactly one JSON file is required")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()

	path, err := a.ws.ResolvePath(fs.Arg(0))
	if err != nil {
		return err
	}
	finish := a.track("food_import", map[string]any{"path": path})
	var rec fooddata.Record
	defer func() { finish(err, map[string]any{"food_id": rec.ID}) }()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read food record: %w", err)
	}
	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	rec, err = st.PutFood(*id, raw)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if *id != "" {
		rec.ID = *id
	}
	if err = a.store.Save(ctx, st); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported food %s: %s\n", rec.ID, rec.Description)
	return nil
}

func foodMeta(rec fooddata.Record) string {
	return fdc.SearchResult{DataType: rec.DataType, BrandOwner: rec.BrandOwner, Category: rec.Category}.Meta()
}

func writeFood(rec fooddata.Record) {
	fmt.Fprintf(os.Stdout, "%s  %s\n", rec.ID, rec.Description)
	if meta := foodMeta(rec); meta != "" {
		fmt.Fprintf(os.Stdout, "    %s\n", meta)
	}
	fmt.Fprintf(os.Stdout, "Basis: %s\n", rec.Basis)
	if g := fooddata.ServingGrams(rec); g > 0 {
		fmt.Fprintf(os.Stdout, "Serving: %s %s (%s g)\n", report.Number(rec.ServingSize, 1), rec.ServingSizeUnit, report.Number(g, 1))
	}
	portions := fooddata.Portions(rec)
	if len(portions) == 0 {
		fmt.Fprintln(os.Stdout, "Portions: none, use --grams")
		return
	}
	fmt.Fprintln(os.Stdout, "Portions:")
	for i, p := range portions {
		fmt.Fprintf(os.Stdout, "  %d. %s (%s g)\n", i, p.Label, report.Number(p.GramWeight, 1))
	}
}
