package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"mealcheck/internal/audit"
	"mealcheck/internal/compliance"
	"mealcheck/internal/config"
	"mealcheck/internal/fdc"
	"mealcheck/internal/logging"
	"mealcheck/internal/session"
	"mealcheck/internal/workspace"
)

// app holds what every command needs once the workspace is resolved.
type app struct {
	ws       *workspace.Workspace
	cfg      *config.Config
	store    *session.Store
	audit    *audit.Logger
	limits   compliance.Limits
	provider session.FoodProvider
}

func openApp(workspacePath string) (*app, error) {
	if strings.TrimSpace(workspacePath) == "" {
		return nil, fmt.Errorf("--workspace is required")
	}
	ws, err := workspace.Resolve(workspacePath)
	if err != nil {
		return nil, err
	}
	if err := ws.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(ws.Root)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	limits, err := loadLimits(ws, cfg)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(ws.StateDBPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		ws:     ws,
		cfg:    cfg,
		store:  store,
		audit:  audit.NewLogger(ws.AuditDBPath),
		limits: limits,
	}
	if cfg.FDC.APIKey != "" {
		client, err := fdc.New(cfg.FDCClientConfig())
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		a.provider = client
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logging.Warn().Err(err).Msg("close state db")
	}
}

func loadLimits(ws *workspace.Workspace, cfg *config.Config) (compliance.Limits, error) {
	path, err := ws.ResolvePath(cfg.Limits.Path)
	if err != nil {
		return compliance.Limits{}, fmt.Errorf("resolve limits path: %w", err)
	}
	if path == "" {
		return compliance.DefaultLimits(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logging.Debug().Str("path", path).Msg("no limits file, using defaults")
		return compliance.DefaultLimits(), nil
	}
	return compliance.LoadLimits(path)
}

// track records <op>_started now and returns a func that records
// <op>_finished with the outcome.
func (a *app) track(op string, payload map[string]any) func(err error, result map[string]any) {
	startPayload := map[string]any{"workspace": a.ws.Root}
	for k, v := range payload {
		startPayload[k] = v
	}
	if err := a.audit.LogEvent("cli", op+"_started", startPayload); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}
	return func(err error, result map[string]any) {
		finishPayload := map[string]any{}
		for k, v := range result {
			finishPayload[k] = v
		}
		if err != nil {
			finishPayload["error"] = err.Error()
		}
		_ = a.audit.LogEvent("cli", op+"_finished", finishPayload)
	}
}

func (a *app) requireProvider() error {
	if a.provider == nil {
		return fmt.Errorf("no FoodData Central API key: set fdc.api_key in %s or %sFDC_API_KEY", a.ws.ConfigPath, config.EnvPrefix)
	}
	return nil
}
