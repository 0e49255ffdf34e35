package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestAnalyze(t *testing.T) {
	result, err := Analyze(testProfile())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(result.Zones) != 5 {
		t.Errorf("len(Zones) = %d, want 5", len(result.Zones))
	}

	// Scenario: zone 4 is [165, 180.5), zone 5 is [180.5, 190]
	z4, z5 := result.Zones[3], result.Zones[4]
	if z4.Lower != 165 || math.Abs(z4.Upper-180.5) > 1e-9 {
		t.Errorf("zone 4 = [%v, %v], want [165, 180.5]", z4.Lower, z4.Upper)
	}
	if math.Abs(z5.Lower-180.5) > 1e-9 || z5.Upper != 190 {
		t.Errorf("zone 5 = [%v, %v], want [180.5, 190]", z5.Lower, z5.Upper)
	}

	if result.Lactate.Len() != LactateSamples {
		t.Errorf("lactate samples = %d, want %d", result.Lactate.Len(), LactateSamples)
	}
	if len(result.VO2.Time) != 60 {
		t.Errorf("vo2 samples = %d, want 60", len(result.VO2.Time))
	}
	if len(result.Fuel.Intensity) != FuelSamples {
		t.Errorf("fuel samples = %d, want %d", len(result.Fuel.Intensity), FuelSamples)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a, err := Analyze(testProfile())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	b, err := Analyze(testProfile())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	for i := range a.Lactate.Y {
		if a.Lactate.Y[i] != b.Lactate.Y[i] {
			t.Fatalf("lactate differs at %d: %v vs %v", i, a.Lactate.Y[i], b.Lactate.Y[i])
		}
	}
	for i := range a.VO2.Uptake {
		if a.VO2.Uptake[i] != b.VO2.Uptake[i] {
			t.Fatalf("uptake differs at %d", i)
		}
	}

	// Results must not alias each other
	a.Zones[0].Upper = -1
	if b.Zones[0].Upper == -1 {
		t.Error("results share zone storage")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name    string
		profile AthleteProfile
		kind    error
		field   string
	}{
		{
			name:    "inverted thresholds",
			profile: AthleteProfile{VO2max: 50, LT1HR: 165, LT2HR: 140, MaxHR: 190, SprintPower: 800},
			kind:    ErrInvalidProfile,
			field:   "lt1_hr",
		},
		{
			name:    "lt2 above max",
			profile: AthleteProfile{VO2max: 50, LT1HR: 140, LT2HR: 195, MaxHR: 190, SprintPower: 800},
			kind:    ErrInvalidProfile,
			field:   "lt2_hr",
		},
		{
			name:    "negative vo2max",
			profile: AthleteProfile{VO2max: -3, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 800},
			kind:    ErrInvalidProfile,
			field:   "vo2max",
		},
		{
			name:    "zero sprint power",
			profile: AthleteProfile{VO2max: 50, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 0},
			kind:    ErrInvalidInput,
			field:   "sprint_power",
		},
		{
			name:    "empty profile",
			profile: AthleteProfile{},
			kind:    ErrInvalidProfile,
			field:   "vo2max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Analyze(tt.profile)
			if result != nil {
				t.Errorf("Analyze() returned a partial result: %+v", result)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Analyze() error = %v, want %v", err, tt.kind)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not a *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := AthleteProfile{VO2max: 50, LT1HR: 165, LT2HR: 140, MaxHR: 190, SprintPower: 800}.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want error")
	}

	want := "invalid athlete profile: lt1_hr (165) must be less than lt2_hr (140)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
