package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"mealcheck/internal/compliance"
	"mealcheck/internal/report"
)

func runTargets(args []string, workspacePath string) error {
	return subcommand("targets", args, map[string]func([]string, string) error{
		"set":  runTargetsSet,
		"show": runTargetsShow,
	}, workspacePath)
}

func targetFlag(id compliance.TargetID) string {
	return strings.ReplaceAll(string(id), "_", "-")
}

func runTargetsSet(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("targets set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	values := make(map[compliance.TargetID]*float64, len(compliance.TargetIDs))
	for _, id := range compliance.TargetIDs {
		values[id] = fs.Float64(targetFlag(id), 0, fmt.Sprintf("Daily %s target (%s)", strings.ReplaceAll(string(id), "_", " "), id.Unit()))
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	updates := map[compliance.TargetID]float64{}
	fs.Visit(func(f *flag.Flag) {
		id, perr := compliance.ParseTargetID(f.Name)
		if perr == nil {
			updates[id] = *values[id]
		}
	})
	if len(updates) == 0 {
		return fmt.Errorf("targets set: no targets given")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()

	payload := make(map[string]any, len(updates))
	for id, v := range updates {
		payload[string(id)] = v
	}
	finish := a.track("targets_set", payload)
	defer func() { finish(err, nil) }()

	ctx := context.Background()
	st, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	for _, id := range compliance.TargetIDs {
		v, ok := updates[id]
		if !ok {
			continue
		}
		if err = st.Targets.Set(id, v); err != nil {
			return err
		}
	}
	if err = a.store.Save(ctx, st); err != nil {
		return err
	}
	return writeTargets(st.Targets)
}

func runTargetsShow(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("targets show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("targets_show", nil)
	defer func() { finish(err, nil) }()

	st, err := a.store.Load(context.Background())
	if err != nil {
		return err
	}
	return writeTargets(st.Targets)
}

func writeTargets(targets compliance.Targets) error {
	required := map[compliance.TargetID]bool{}
	for _, id := range compliance.RequiredTargets {
		required[id] = true
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Target\tValue\tRequired")
	for _, id := range compliance.TargetIDs {
		value := "—"
		if v := targets.Get(id); v != nil {
			value = report.Number(*v, 1) + " " + id.Unit()
		}
		req := ""
		if required[id] {
			req = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", targetFlag(id), value, req)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if missing := compliance.MissingTargets(targets); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, id := range missing {
			names = append(names, targetFlag(id))
		}
		fmt.Fprintf(os.Stdout, "\nMissing required targets: %s\n", strings.Join(names, ", "))
		return nil
	}
	fmt.Fprintln(os.Stdout, "\nAll required targets are set.")
	return nil
}
