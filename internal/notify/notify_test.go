package notify

import (
	"strings"
	"testing"

	"mealcheck/internal/compliance"
)

func TestFormatCheck(t *testing.T) {
	tests := []struct {
		name    string
		summary compliance.Summary
		wantOK  bool
		want    string
	}{
		{"over", compliance.Summary{Bad: 2, Over: []string{"Sodium (Cap)", "Iron"}}, true, "Over: Sodium (Cap), Iron"},
		{"warn", compliance.Summary{OK: 10, Warn: 3}, true, "3 nutrients"},
		{"clean", compliance.Summary{OK: 13}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, msg, ok := FormatCheck(tt.summary)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (title == "" || !strings.Contains(msg, tt.want)) {
				t.Fatalf("title = %q msg = %q, want %q", title, msg, tt.want)
			}
		})
	}
}

func TestSendDisabled(t *testing.T) {
	var n *Notifier
	if err := n.Send("t", "m"); err != nil {
		t.Fatalf("nil notifier: %v", err)
	}
	if err := (&Notifier{}).Send("t", "m"); err != nil {
		t.Fatalf("disabled notifier: %v", err)
	}
}

func TestScriptEscapesQuotes(t *testing.T) {
	got := script(`a "b"`, `c "d"`)
	want := `display notification "c \"d\"" with title "a \"b\""`
	if got != want {
		t.Fatalf("script = %q, want %q", got, want)
	}
}
