package compliance

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ULs are tolerable upper intake levels in each nutrient's native unit.
type ULs struct {
	VitaminA float64 `yaml:"vitamin_a_ug_rae" json:"vitamin_a_ug_rae" validate:"gt=0"`
	VitaminD float64 `yaml:"vitamin_d_ug" json:"vitamin_d_ug" validate:"gt=0"`
	Calcium  float64 `yaml:"calcium_mg" json:"calcium_mg" validate:"gt=0"`
	Iron     float64 `yaml:"iron_mg" json:"iron_mg" validate:"gt=0"`
	Zinc     float64 `yaml:"zinc_mg" json:"zinc_mg" validate:"gt=0"`
	Sodium   float64 `yaml:"sodium_mg" json:"sodium_mg" validate:"gt=0"`
}

// EnergyLimits cap the share of energy from saturated fat and sugar.
type EnergyLimits struct {
	SatFatPctEnergy float64 `yaml:"saturated_fat_pct_energy" json:"saturated_fat_pct_energy" validate:"gt=0,lte=100"`
	SugarPctEnergy  float64 `yaml:"sugar_pct_energy" json:"sugar_pct_energy" validate:"gt=0,lte=100"`
}

// Limits is the read-only safety table used by Evaluate.
type Limits struct {
	UL     ULs          `yaml:"ul" json:"ul"`
	Limits EnergyLimits `yaml:"limits" json:"limits"`
}

// DefaultLimits returns the table for ages 9 to 13.
func DefaultLimits() Limits {
	return Limits{
		UL: ULs{
			VitaminA: 1700,
			VitaminD: 100,
			Calcium:  3000,
			Iron:     40,
			Zinc:     23,
			Sodium:   2300,
		},
		Limits: EnergyLimits{
			SatFatPctEnergy: 10,
			SugarPctEnergy:  10,
		},
	}
}

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// LoadLimits reads a limits file. Keys it omits keep their default value.
func LoadLimits(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("read limits: %w", err)
	}
	return ParseLimits(data, path)
}

// ParseLimits decodes a YAML limits document on top of DefaultLimits.
func ParseLimits(data []byte, source string) (Limits, error) {
	limits := DefaultLimits()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&limits); err != nil && !errors.Is(err, io.EOF) {
		return Limits{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}

	if err := validate.Struct(limits); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Limits{}, fmt.Errorf("validate limits: %w", err)
		}
		errs := make(ValidationErrors, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   yamlPath(fe.Namespace()),
				Message: describe(fe),
			})
		}
		return Limits{}, errs
	}
	return limits, nil
}

// yamlPath turns "Limits.ul.iron_mg" into "ul.iron_mg".
func yamlPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
