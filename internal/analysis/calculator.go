package analysis

// AnalysisResult holds everything derived from one AthleteProfile
type AnalysisResult struct {
	Zones   []HRZone     `json:"zones"`
	Lactate LactateCurve `json:"lactate"`
	VO2     VO2Curve     `json:"vo2"`
	Fuel    FuelCurve    `json:"fuel"`
}

// Analyze validates the profile and computes zones and all three curves.
// It never returns a partial result: on error the result is nil.
func Analyze(p AthleteProfile) (*AnalysisResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	zones, err := DeriveZones(p)
	if err != nil {
		return nil, err
	}

	lactate, err := LactateProfile(p.SprintPower)
	if err != nil {
		return nil, err
	}

	vo2, err := VO2Kinetics(p.VO2max)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		Zones:   zones,
		Lactate: lactate,
		VO2:     vo2,
		Fuel:    FuelSplit(),
	}, nil
}

// LactateBand describes a blood lactate reading relative to the model's
// threshold values (1.5 and 3.5 mmol/L)
func LactateBand(mmol float64) string {
	switch {
	case mmol < 1.5:
		return "Below LT1 - aerobic"
	case mmol < 3.5:
		return "Between LT1 and LT2 - threshold"
	default:
		return "Above LT2 - severe"
	}
}
