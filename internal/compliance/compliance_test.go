package compliance

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mealcheck/internal/intake"
	"mealcheck/internal/nutrients"
)

func f(v float64) *float64 { return &v }

func requiredTargets() Targets {
	return Targets{
		TargetWater:    1600,
		TargetVitaminA: 900,
		TargetVitaminD: 15,
		TargetCalcium:  1300,
		TargetIron:     8,
		TargetZinc:     8,
		TargetSodium:   1500,
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		intake    float64
		target    *float64
		cap       *float64
		wantClass string
		wantText  string
	}{
		{"nothing configured", KindTarget, 10, nil, nil, ClassOK, TextOK},
		{"cap ratio exactly 1", KindUL, 100, nil, f(100), ClassBad, TextOver},
		{"cap ratio exactly 0.8", KindUL, 80, nil, f(100), ClassWarn, TextClose},
		{"cap ratio below 0.8", KindUL, 79.9, nil, f(100), ClassOK, TextSafe},
		{"target ratio exactly 0.9", KindTarget, 90, f(100), nil, ClassOK, TextMeets},
		{"target ratio exactly 0.7", KindTarget, 70, f(100), nil, ClassWarn, TextClose},
		{"target ratio below 0.7", KindTarget, 69, f(100), nil, ClassWarn, TextLow},
		{"ul row ignores target", KindUL, 10, f(100), f(1000), ClassOK, TextSafe},
		{"target meets but cap reached", KindTarget, 50, f(40), f(50), ClassBad, TextOver},
		{"target low overrides close cap", KindTarget, 45, f(100), f(50), ClassWarn, TextLow},
		{"zero target", KindTarget, 10, f(0), nil, ClassWarn, TextLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, text := Classify(tt.kind, tt.intake, tt.target, tt.cap)
			if class != tt.wantClass || text != tt.wantText {
				t.Fatalf("Classify = (%s, %s), want (%s, %s)", class, text, tt.wantClass, tt.wantText)
			}
		})
	}
}

func TestClassifyCapAlwaysWins(t *testing.T) {
	for _, target := range []float64{1, 50, 100, 10000} {
		for _, intake := range []float64{100, 150, 1e6} {
			class, text := Classify(KindTarget, intake, f(target), f(100))
			if class != ClassBad || text != TextOver {
				t.Fatalf("intake %v target %v: got (%s, %s), want Over", intake, target, class, text)
			}
		}
	}
}

func TestEvaluateRowOrder(t *testing.T) {
	rows := Evaluate(intake.Totals{}, Targets{}, DefaultLimits())
	want := []string{
		"Energy", "Water", "Protein", "Carbs", "Total fat",
		"Saturated fat (Limit)", "Total sugars (Limit)",
		"Vitamin A", "Vitamin D", "Calcium", "Iron", "Zinc", "Sodium (Cap)",
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, name := range want {
		if rows[i].Name != name {
			t.Fatalf("row[%d] = %q, want %q", i, rows[i].Name, name)
		}
	}
	if rows[12].CapLabel != "Cap" || rows[7].CapLabel != "UL" || rows[5].CapLabel != "Limit" {
		t.Fatalf("cap labels = %q %q %q", rows[12].CapLabel, rows[7].CapLabel, rows[5].CapLabel)
	}
	if rows[5].Unit != "% of energy" {
		t.Fatalf("limit unit = %q", rows[5].Unit)
	}
}

func TestEvaluateEmptyPlan(t *testing.T) {
	targets := requiredTargets()
	targets[TargetEnergy] = 1800
	rows := Evaluate(intake.Totals{}, targets, DefaultLimits())
	for _, r := range rows {
		switch {
		case r.Cap != nil:
			if r.StatusText != TextSafe {
				t.Fatalf("%s = %s, want Safe", r.Name, r.StatusText)
			}
		case r.Target != nil:
			if r.StatusText != TextLow {
				t.Fatalf("%s = %s, want Low", r.Name, r.StatusText)
			}
		default:
			if r.StatusText != TextOK {
				t.Fatalf("%s = %s, want OK", r.Name, r.StatusText)
			}
		}
	}
}

func TestEvaluateSodiumAtCap(t *testing.T) {
	var totals intake.Totals
	totals.Vector[nutrients.Sodium] = 2300
	rows := Evaluate(totals, requiredTargets(), DefaultLimits())
	sodium := rows[len(rows)-1]
	if sodium.StatusText != TextOver || sodium.StatusClass != ClassBad {
		t.Fatalf("sodium = (%s, %s), want Over", sodium.StatusClass, sodium.StatusText)
	}
	if s := Summarize(rows); s.Bad != 1 || len(s.Over) != 1 || s.Over[0] != "Sodium (Cap)" {
		t.Fatalf("summary = %#v", s)
	}
}

func TestEvaluatePercentOfEnergy(t *testing.T) {
	var totals intake.Totals
	totals.Vector[nutrients.Energy] = 1800
	totals.Vector[nutrients.SatFat] = 30
	totals.Vector[nutrients.Sugars] = 36
	rows := Evaluate(totals, Targets{}, DefaultLimits())

	sat, sugar := rows[5], rows[6]
	if math.Abs(sat.Intake-15) > 1e-9 || sat.StatusText != TextOver {
		t.Fatalf("sat fat = %v %s, want 15 Over", sat.Intake, sat.StatusText)
	}
	if math.Abs(sugar.Intake-8) > 1e-9 || sugar.StatusText != TextClose {
		t.Fatalf("sugar = %v %s, want 8 Close", sugar.Intake, sugar.StatusText)
	}
}

func TestPctEnergyZeroEnergy(t *testing.T) {
	if got := PctEnergy(30, 9, 0); got != 0 {
		t.Fatalf("PctEnergy = %v, want 0", got)
	}
	if got := ratio(5, 0); got != 0 {
		t.Fatalf("ratio = %v, want 0", got)
	}
}

func TestTargetsComplete(t *testing.T) {
	targets := requiredTargets()
	if !TargetsComplete(targets) {
		t.Fatalf("required targets should be complete, missing %v", MissingTargets(targets))
	}
	delete(targets, TargetZinc)
	if TargetsComplete(targets) {
		t.Fatalf("targets without zinc should be incomplete")
	}
	if got := MissingTargets(targets); len(got) != 1 || got[0] != TargetZinc {
		t.Fatalf("missing = %v", got)
	}
	if TargetsComplete(Targets{}) {
		t.Fatalf("empty targets should be incomplete")
	}
}

func TestTargetsSet(t *testing.T) {
	targets := Targets{}
	if err := targets.Set(TargetIron, 0); err == nil {
		t.Fatalf("expected error for zero target")
	}
	if err := targets.Set(TargetID("fiber"), 10); err == nil {
		t.Fatalf("expected error for unknown target")
	}
	if err := targets.Set(TargetIron, 8); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := targets.Get(TargetIron); got == nil || *got != 8 {
		t.Fatalf("Get = %v", got)
	}
	if targets.Get(TargetZinc) != nil {
		t.Fatalf("unset target should be nil")
	}
	id, err := ParseTargetID("Vitamin-A")
	if err != nil || id != TargetVitaminA {
		t.Fatalf("ParseTargetID = %q, %v", id, err)
	}
}

func TestParseLimitsOverridesDefaults(t *testing.T) {
	doc := []byte("ul:\n  sodium_mg: 1800\nlimits:\n  sugar_pct_energy: 5\n")
	limits, err := ParseLimits(doc, "limits.yml")
	if err != nil {
		t.Fatalf("ParseLimits: %v", err)
	}
	if limits.UL.Sodium != 1800 || limits.Limits.SugarPctEnergy != 5 {
		t.Fatalf("limits = %#v", limits)
	}
	if limits.UL.Iron != 40 {
		t.Fatalf("iron default lost: %v", limits.UL.Iron)
	}

	empty, err := ParseLimits(nil, "empty.yml")
	if err != nil {
		t.Fatalf("ParseLimits(empty): %v", err)
	}
	if empty != DefaultLimits() {
		t.Fatalf("empty document should yield defaults")
	}
}

func TestParseLimitsValidation(t *testing.T) {
	doc := []byte("ul:\n  iron_mg: -1\n  zinc_mg: 0\nlimits:\n  saturated_fat_pct_energy: 120\n")
	_, err := ParseLimits(doc, "limits.yml")
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	if len(verrs) != 3 {
		t.Fatalf("errors = %d, want 3: %v", len(verrs), verrs)
	}
	msg := verrs.Error()
	for _, field := range []string{"ul.iron_mg", "ul.zinc_mg", "limits.saturated_fat_pct_energy"} {
		if !strings.Contains(msg, field) {
			t.Fatalf("error %q missing field %s", msg, field)
		}
	}

	_, err = ParseLimits([]byte("ul:\n  potassium_mg: 10\n"), "limits.yml")
	if !errors.As(err, &verrs) || verrs[0].Field != "yaml" {
		t.Fatalf("unknown key err = %v", err)
	}
}

func TestLoadLimitsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yml")
	if err := os.WriteFile(path, []byte("ul:\n  vitamin_d_ug: 50\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	limits, err := LoadLimits(path)
	if err != nil {
		t.Fatalf("LoadLimits: %v", err)
	}
	if limits.UL.VitaminD != 50 {
		t.Fatalf("vitamin D = %v, want 50", limits.UL.VitaminD)
	}
	if _, err := LoadLimits(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
