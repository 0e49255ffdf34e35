package analysis

import "math"

// VO2 kinetics model constants
const (
	VO2SteadyFraction = 0.85 // steady-state VO2 as a share of VO2max
	VO2TimeConstant   = 40.0 // seconds to reach ~63% of steady state
	VO2WindowSeconds  = 300
	VO2StepSeconds    = 5
)

// VO2Curve is oxygen uptake at the onset of a constant-intensity bout.
// Demand is the flat O2 requirement, Uptake the exponential response.
type VO2Curve struct {
	Time   []float64 `json:"time"`   // seconds
	Demand []float64 `json:"demand"` // ml/kg/min
	Uptake []float64 `json:"uptake"` // ml/kg/min
}

// DemandCurve pairs the O2 demand series with time
func (c VO2Curve) DemandCurve() Curve {
	return Curve{X: c.Time, Y: c.Demand}
}

// UptakeCurve pairs the VO2 uptake series with time
func (c VO2Curve) UptakeCurve() Curve {
	return Curve{X: c.Time, Y: c.Uptake}
}

// VO2Kinetics samples uptake every 5s over the first 5 minutes of exercise.
// VO2(t) = 0.85*VO2max*(1 - e^(-t/40))
func VO2Kinetics(vo2max float64) (VO2Curve, error) {
	if err := checkPositive("vo2max", vo2max); err != nil {
		return VO2Curve{}, err
	}

	steady := VO2SteadyFraction * vo2max
	n := VO2WindowSeconds / VO2StepSeconds

	curve := VO2Curve{
		Time:   make([]float64, n),
		Demand: make([]float64, n),
		Uptake: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		t := float64(i * VO2StepSeconds)
		curve.Time[i] = t
		curve.Demand[i] = steady
		curve.Uptake[i] = VO2UptakeAt(t, vo2max)
	}
	return curve, nil
}

// VO2UptakeAt returns modelled uptake t seconds after exercise onset
func VO2UptakeAt(t, vo2max float64) float64 {
	return VO2SteadyFraction * vo2max * (1 - math.Exp(-t/VO2TimeConstant))
}
