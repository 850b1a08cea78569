package harness

import (
	"bytes"
	"os"
	"os/exec"
	"sort"
	"strings"
	"testing"
)

// Result is the outcome of one CLI invocation.
type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// Output returns stdout and stderr together for failure messages.
func (r Result) Output() string {
	return "stdout:\n" + r.Stdout + "\nstderr:\n" + r.Stderr
}

// Runner invokes the CLI against one workspace.
type Runner struct {
	Bin       string
	Workspace string
	// Env overrides the inherited environment. Offline runners clear the API key.
	Env map[string]string
}

// NewRunner returns a runner with no FoodData Central API key so tests never touch the network.
func NewRunner(bin, workspace string) *Runner {
	return &Runner{
		Bin:       bin,
		Workspace: workspace,
		Env: map[string]string{
			"MEALCHECK_FDC_API_KEY": "",
			"MEALCHECK_AUDIT_DB":    "",
			"MEALCHECK_WORKSPACE":   "",
		},
	}
}

// Run executes the CLI with --workspace prepended.
func (r *Runner) Run(t *testing.T, args ...string) Result {
	t.Helper()
	full := append([]string{"--workspace", r.Workspace}, args...)
	return Exec(t, r.Bin, t.TempDir(), full, r.Env)
}

// MustRun executes the CLI and fails the test on a non-zero exit.
func (r *Runner) MustRun(t *testing.T, args ...string) Result {
	t.Helper()
	res := r.Run(t, args...)
	if res.Code != 0 {
		t.Fatalf("mealcheck %s exit code %d\n%s", strings.Join(args, " "), res.Code, res.Output())
	}
	return res
}

// Exec runs binPath in workDir with environment overrides.
func Exec(t *testing.T, binPath, workDir string, args []string, env map[string]string) Result {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Dir = workDir
	if len(env) > 0 {
		cmd.Env = mergeEnv(env)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{}
	if err := cmd.Run(); err != nil {
		ee, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("run %s: %v", binPath, err)
		}
		res.Code = ee.ExitCode()
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}

func mergeEnv(overrides map[string]string) []string {
	env := make(map[string]string, len(overrides))
	for _, entry := range os.Environ() {
		key, val, _ := strings.Cut(entry, "=")
		env[key] = val
	}
	for k, v := range overrides {
		env[k] = v
	}

	merged := make([]string, 0, len(env))
	for k, v := range env {
		merged = append(merged, k+"="+v)
	}
	sort.Strings(merged)
	return merged
}
