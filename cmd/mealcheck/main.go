package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const appName = "mealcheck"

// envWorkspace supplies the workspace when --workspace is not given.
const envWorkspace = "MEALCHECK_WORKSPACE"

func main() {
	flag.String("workspace", "", "Path to workspace root (or $"+envWorkspace+")")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: one-day meal plan nutrient checker\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  init     Initialize a new workspace")
		fmt.Fprintln(os.Stderr, "  targets  Set or show daily targets")
		fmt.Fprintln(os.Stderr, "  search   Search FoodData Central")
		fmt.Fprintln(os.Stderr, "  food     Show or import food details")
		fmt.Fprintln(os.Stderr, "  plan     Manage the meal plan")
		fmt.Fprintln(os.Stderr, "  check    Check totals against targets and safety limits")
		fmt.Fprintln(os.Stderr, "  export   Write the plain-text summary")
		fmt.Fprintln(os.Stderr, "  clear    Wipe targets, plan and food cache")
		fmt.Fprintln(os.Stderr, "  history  Show recent audit events")
		fmt.Fprintln(os.Stderr, "  help     Show this help")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	workspacePath, remaining, err := extractWorkspaceFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if workspacePath == "" {
		workspacePath = os.Getenv(envWorkspace)
	}

	args := remaining
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	commands := map[string]func([]string, string) error{
		"init":    runInit,
		"targets": runTargets,
		"search":  runSearch,
		"food":    runFood,
		"plan":    runPlan,
		"check":   runCheck,
		"export":  runExport,
		"clear":   runClear,
		"history": runHistory,
	}
	run, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[1:], workspacePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractWorkspaceFlag(args []string) (string, []string, error) {
	var workspacePath string
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--workspace" {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--workspace requires a value")
			}
			workspacePath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--workspace=") {
			workspacePath = strings.TrimPrefix(arg, "--workspace=")
			continue
		}
		remaining = append(remaining, arg)
	}
	return workspacePath, remaining, nil
}

func subcommand(group string, args []string, subs map[string]func([]string, string) error, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s %s: missing subcommand", appName, group)
	}
	run, ok := subs[args[0]]
	if !ok {
		return fmt.Errorf("%s %s: unknown subcommand %q", appName, group, args[0])
	}
	return run(args[1:], workspacePath)
}
