package validator

import (
	"errors"
	"strings"
	"testing"

	"spotmap/pkg/e"
)

type sample struct {
	Title    string  `json:"title" validate:"required,notblank"`
	Severity int     `json:"severity" validate:"required,min=1,max=5"`
	Radius   float64 `json:"radius_km" validate:"omitempty,radius_km"`
}

func TestValidateStruct_OK(t *testing.T) {
	t.Parallel()

	if err := ValidateStruct(sample{Title: "Café X", Severity: 3, Radius: 50}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateStruct_ReportsJSONFieldNames(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(sample{Title: "   ", Severity: 6, Radius: -1})
	if !errors.Is(err, e.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	for _, want := range []string{"title: notblank", "severity: max=5", "radius_km: radius_km"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestValidateVar_RadiusKM(t *testing.T) {
	t.Parallel()

	if err := ValidateVar(5.0, "radius_km"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, r := range []float64{0, -3, 20038} {
		if err := ValidateVar(r, "radius_km"); !errors.Is(err, e.ErrValidation) {
			t.Fatalf("radius %v: expected ErrValidation, got %v", r, err)
		}
	}
}
