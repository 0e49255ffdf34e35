package analysis

// Lactate model constants, as fractions of sprint power
const (
	LactateSamples   = 15
	LactateLowEnd    = 0.4
	LactateHighEnd   = 1.1
	LT1PowerFraction = 0.6
	LT2PowerFraction = 0.9
)

// Curve is a sampled function: Y[i] is the value at X[i]
type Curve struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len returns the number of samples
func (c Curve) Len() int {
	return len(c.X)
}

// LactateCurve is blood lactate (mmol/L) against power (W).
//
// LT1Power and LT2Power are markers on the power axis derived only from
// sprint power. They are not the heart-rate thresholds of AthleteProfile and
// the two are intentionally left unlinked.
type LactateCurve struct {
	Curve
	LT1Power float64 `json:"lt1_power"`
	LT2Power float64 `json:"lt2_power"`
}

// LactateProfile samples the three-segment lactate model over 40% to 110% of
// sprint power.
func LactateProfile(sprintPower float64) (LactateCurve, error) {
	if err := checkPositive("sprint_power", sprintPower); err != nil {
		return LactateCurve{}, err
	}

	intensities := linspace(LactateLowEnd*sprintPower, LactateHighEnd*sprintPower, LactateSamples)
	lactate := make([]float64, len(intensities))
	for i, p := range intensities {
		lactate[i] = LactateAt(p, sprintPower)
	}

	return LactateCurve{
		Curve:    Curve{X: intensities, Y: lactate},
		LT1Power: LT1PowerFraction * sprintPower,
		LT2Power: LT2PowerFraction * sprintPower,
	}, nil
}

// LactateAt evaluates the piecewise lactate model at power p.
// Slow rise below LT1, moderate between LT1 and LT2, sharp above LT2.
func LactateAt(p, sprintPower float64) float64 {
	switch {
	case p < LT1PowerFraction*sprintPower:
		return lactateEasy(p, sprintPower)
	case p < LT2PowerFraction*sprintPower:
		return lactateModerate(p, sprintPower)
	default:
		return lactateSevere(p, sprintPower)
	}
}

func lactateEasy(p, s float64) float64 {
	return 1 + 0.5*(p/(0.6*s))
}

func lactateModerate(p, s float64) float64 {
	return 1.5 + 2*((p-0.6*s)/(0.3*s))
}

func lactateSevere(p, s float64) float64 {
	return 3.5 + 5*((p-0.9*s)/(0.2*s))
}

// linspace returns n evenly spaced values from start to stop inclusive
func linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
