package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProfile is returned when a profile field is non-positive or the
// heart-rate thresholds are out of order
var ErrInvalidProfile = errors.New("invalid athlete profile")

// ErrInvalidInput is returned when a curve generator gets a non-positive scalar
var ErrInvalidInput = errors.New("invalid input")

// ErrLT2InZone5 marks a profile whose LT2 is ordered below max HR but at or
// above the zone 5 boundary. It is reported with ErrInvalidProfile.
var ErrLT2InZone5 = errors.New("lt2_hr at or above the zone 5 boundary")

// ValidationError reports which field failed validation.
// It unwraps to ErrInvalidProfile or ErrInvalidInput, and to Reason when set.
type ValidationError struct {
	Kind    error
	Reason  error
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	if e.Reason == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Reason}
}

// AthleteProfile holds one athlete's physiological test values
type AthleteProfile struct {
	VO2max      float64 `json:"vo2max"`       // ml/kg/min
	LT1HR       int     `json:"lt1_hr"`       // aerobic threshold, bpm
	LT2HR       int     `json:"lt2_hr"`       // anaerobic threshold, bpm
	MaxHR       int     `json:"max_hr"`       // bpm
	SprintPower float64 `json:"sprint_power"` // 5s peak power, watts
}

// Validate checks every field of the profile. The four heart-rate and VO2max
// fields fail with ErrInvalidProfile, sprint power with ErrInvalidInput.
func (p AthleteProfile) Validate() error {
	if err := p.checkProfile(); err != nil {
		return err
	}
	return checkPositive("sprint_power", p.SprintPower)
}

// checkProfile enforces 0 < LT1 < LT2 < 0.95*MaxHR < MaxHR and VO2max > 0
func (p AthleteProfile) checkProfile() error {
	if !isPositive(p.VO2max) {
		return invalidProfile("vo2max", fmt.Sprintf("vo2max must be positive, got %v", p.VO2max))
	}
	if p.LT1HR <= 0 {
		return invalidProfile("lt1_hr", fmt.Sprintf("lt1_hr must be positive, got %d", p.LT1HR))
	}
	if p.LT2HR <= 0 {
		return invalidProfile("lt2_hr", fmt.Sprintf("lt2_hr must be positive, got %d", p.LT2HR))
	}
	if p.MaxHR <= 0 {
		return invalidProfile("max_hr", fmt.Sprintf("max_hr must be positive, got %d", p.MaxHR))
	}
	if p.LT1HR >= p.LT2HR {
		return invalidProfile("lt1_hr", fmt.Sprintf("lt1_hr (%d) must be less than lt2_hr (%d)", p.LT1HR, p.LT2HR))
	}
	if p.LT2HR >= p.MaxHR {
		return invalidProfile("lt2_hr", fmt.Sprintf("lt2_hr (%d) must be less than max_hr (%d)", p.LT2HR, p.MaxHR))
	}
	// Zone 4 runs from LT2 to 95% of max HR and must not be inverted
	if zone5 := Zone5Fraction * float64(p.MaxHR); float64(p.LT2HR) >= zone5 {
		return &ValidationError{
			Kind:    ErrInvalidProfile,
			Reason:  ErrLT2InZone5,
			Field:   "lt2_hr",
			Message: fmt.Sprintf("lt2_hr (%d) must be below %.0f%% of max_hr (%.1f bpm)", p.LT2HR, Zone5Fraction*100, zone5),
		}
	}
	return nil
}

func invalidProfile(field, msg string) error {
	return &ValidationError{Kind: ErrInvalidProfile, Field: field, Message: msg}
}

func checkPositive(field string, v float64) error {
	if isPositive(v) {
		return nil
	}
	return &ValidationError{
		Kind:    ErrInvalidInput,
		Field:   field,
		Message: fmt.Sprintf("%s must be positive, got %v", field, v),
	}
}

// isPositive rejects zero, negatives, NaN and +Inf
func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
