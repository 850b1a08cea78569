package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mealcheck/internal/audit"
	"mealcheck/internal/compliance"
	"mealcheck/internal/session"
	"mealcheck/internal/workspace"
)

func runInit(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(workspacePath) == "" {
		return fmt.Errorf("--workspace is required")
	}

	ws, err := workspace.New(workspacePath)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}

	logger := audit.NewLogger(ws.AuditDBPath)
	if err := logger.LogEvent("cli", "workspace_init_started", map[string]any{"workspace": ws.Root}); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}
	var finishErr error
	defer func() {
		finishPayload := map[string]any{"workspace": ws.Root}
		if finishErr != nil {
			finishPayload["error"] = finishErr.Error()
		}
		_ = logger.LogEvent("cli", "workspace_init_finished", finishPayload)
	}()

	if err := writeFileIfMissing(ws.ConfigPath, configTemplate); err != nil {
		finishErr = err
		return finishErr
	}
	limitsYAML, err := limitsTemplate()
	if err != nil {
		finishErr = err
		return finishErr
	}
	if err := writeFileIfMissing(ws.LimitsPath, limitsYAML); err != nil {
		finishErr = err
		return finishErr
	}

	store, err := session.Open(ws.StateDBPath)
	if err != nil {
		finishErr = err
		return finishErr
	}
	if err := store.Close(); err != nil {
		finishErr = fmt.Errorf("close state db: %w", err)
		return finishErr
	}

	fmt.Fprintf(os.Stdout, "Initialized workspace: %s\n", ws.Root)
	fmt.Fprintln(os.Stdout, "Next steps:")
	fmt.Fprintf(os.Stdout, "  %s targets set --workspace %s --water 1600 --vitamin-a 600 --vitamin-d 15 --calcium 1300 --iron 8 --zinc 8 --sodium 1800\n", appName, ws.Root)
	fmt.Fprintf(os.Stdout, "  %s search --workspace %s apple\n", appName, ws.Root)
	fmt.Fprintf(os.Stdout, "  %s check --workspace %s\n", appName, ws.Root)
	return nil
}

func writeFileIfMissing(path string, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure dir for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

func limitsTemplate() (string, error) {
	data, err := yaml.Marshal(compliance.DefaultLimits())
	if err != nil {
		return "", fmt.Errorf("marshal default limits: %w", err)
	}
	return limitsHeader + string(data), nil
}

const limitsHeader = `# Safety limits for ages 9-13.
# ul: tolerable upper intake levels; limits: percent of total energy.
`

const configTemplate = `# mealcheck configuration. Every key can be overridden with MEALCHECK_<SECTION>_<KEY>.
fdc:
  # api_key: your FoodData Central key (or MEALCHECK_FDC_API_KEY)
  base_url: https://api.nal.usda.gov/fdc
  timeout: 15s
  page_size: 25
  requests_per_second: 2
  max_retries: 3
log:
  level: warn
  format: console
limits:
  path: limits.yml
notify:
  enabled: false
`
