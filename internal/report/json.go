package report

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"mealcheck/internal/compliance"
	"mealcheck/internal/intake"
)

// CheckReport is the machine-readable form of a check.
type CheckReport struct {
	GeneratedAt  time.Time          `json:"generated_at"`
	Totals       map[string]float64 `json:"totals"`
	WaterML      float64            `json:"water_ml"`
	Rows         []compliance.Row   `json:"rows"`
	Summary      compliance.Summary `json:"summary"`
	MissingFoods []string           `json:"missing_foods,omitempty"`
}

// NewCheckReport assembles a report from evaluated rows.
func NewCheckReport(now time.Time, totals intake.Totals, rows []compliance.Row, missing []string) CheckReport {
	return CheckReport{
		GeneratedAt:  now.UTC(),
		Totals:       totals.Map(),
		WaterML:      totals.WaterML,
		Rows:         rows,
		Summary:      compliance.Summarize(rows),
		MissingFoods: missing,
	}
}

// WriteJSON writes r as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r CheckReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
