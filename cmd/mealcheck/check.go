package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"mealcheck/internal/compliance"
	"mealcheck/internal/intake"
	"mealcheck/internal/logging"
	"mealcheck/internal/notify"
	"mealcheck/internal/report"
	"mealcheck/internal/session"
)

// checked is one evaluation of the stored plan.
type checked struct {
	state   session.State
	totals  intake.Totals
	rows    []compliance.Row
	missing []string
}

// evaluate resolves missing food details, saves any new ones and evaluates the plan.
func (a *app) evaluate(ctx context.Context) (checked, error) {
	st, err := a.store.Load(ctx)
	if err != nil {
		return checked{}, err
	}
	fetch := session.EnsureFoodDetails(ctx, a.provider, &st)
	if len(fetch.Fetched) > 0 {
		if err := a.store.Save(ctx, st); err != nil {
			return checked{}, err
		}
	}
	totals, rows := st.Evaluate(a.limits)
	missing := intake.MissingFoods(st.Plan, st.Records())
	for _, id := range missing {
		fmt.Fprintf(os.Stderr, "warning: food %s has no details yet and counts as zero\n", id)
	}
	return checked{state: st, totals: totals, rows: rows, missing: missing}, nil
}

func runCheck(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the check as JSON")
	notifyFlag := fs.Bool("notify", false, "Send a desktop notification when something needs attention")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("check", map[string]any{"json": *asJSON})
	var summary compliance.Summary
	defer func() {
		finish(err, map[string]any{"ok": summary.OK, "warn": summary.Warn, "bad": summary.Bad, "over": summary.Over})
	}()

	ctx := context.Background()
	res, err := a.evaluate(ctx)
	if err != nil {
		return err
	}
	summary = compliance.Summarize(res.rows)

	if *asJSON {
		err = report.WriteJSON(os.Stdout, report.NewCheckReport(time.Now().UTC(), res.totals, res.rows, res.missing))
	} else {
		err = report.WriteCheckTable(os.Stdout, res.rows)
	}
	if err != nil {
		return err
	}

	notifier := &notify.Notifier{Enabled: *notifyFlag || a.cfg.Notify.Enabled}
	if title, msg, ok := notify.FormatCheck(summary); ok {
		if nerr := notifier.Send(title, msg); nerr != nil {
			logging.Warn().Err(nerr).Msg("notification failed")
		}
	}
	return nil
}

func runExport(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	output := fs.String("output", "", "Write the summary to this file instead of stdout")
	showDiff := fs.Bool("diff", false, "Show changes since the previous export")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()

	outPath, err := a.ws.ResolvePath(*output)
	if err != nil {
		return fmt.Errorf("resolve --output: %w", err)
	}
	finish := a.track("export", map[string]any{"output": outPath, "diff": *showDiff})
	defer func() { finish(err, nil) }()

	ctx := context.Background()
	res, err := a.evaluate(ctx)
	if err != nil {
		return err
	}
	text := report.Summary(res.state.Plan, res.totals, res.rows)

	previous, err := a.store.GetKV(ctx, session.LastExportKey)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err = report.WriteFile(outPath, []byte(text+"\n")); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote summary: %s\n", outPath)
	} else if !*showDiff {
		fmt.Fprintln(os.Stdout, text)
	}

	if *showDiff {
		diff, derr := report.Diff(previous, text)
		if derr != nil {
			err = derr
			return err
		}
		switch {
		case previous == "":
			fmt.Fprintln(os.Stdout, "No previous export to compare against.")
		case diff == "":
			fmt.Fprintln(os.Stdout, "No changes since the previous export.")
		default:
			fmt.Fprint(os.Stdout, diff)
		}
	}

	return a.store.SetKV(ctx, session.LastExportKey, text)
}

func runClear(args []string, workspacePath string) (err error) {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	yes := fs.Bool("yes", false, "Confirm wiping targets, plan and food cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("clear: this wipes targets, plan and food cache; pass --yes to confirm")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()
	finish := a.track("clear", nil)
	defer func() { finish(err, nil) }()

	if err = a.store.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "Cleared targets, plan and food cache.")
	return nil
}

func runHistory(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 20, "Number of events to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.audit.Recent(*limit)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintf(os.Stdout, "%s  %-24s %s\n", ev.TS.Local().Format(time.DateTime), ev.Type, ev.Payload)
	}
	return nil
}
