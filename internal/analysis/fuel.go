package analysis

// Fuel split model constants. The model is illustrative: it does not depend
// on the athlete.
const (
	FuelSamples        = 11
	FuelMinIntensity   = 50.0  // % intensity
	FuelMaxIntensity   = 100.0 // % intensity
	FuelMaxFatPct      = 80.0  // fat share at 50% intensity
	FuelBaseKcalPerMin = 10.0  // total burn at 50% intensity
)

// FuelCurve is the fat/carbohydrate energy split across intensity
type FuelCurve struct {
	Intensity []float64 `json:"intensity"` // % intensity
	FatPct    []float64 `json:"fat_pct"`
	CarbPct   []float64 `json:"carb_pct"`
	TotalKcal []float64 `json:"total_kcal"` // kcal/min
	FatKcal   []float64 `json:"fat_kcal"`   // kcal/min
	CarbKcal  []float64 `json:"carb_kcal"`  // kcal/min
}

// FatCurve pairs fat kcal/min with intensity
func (c FuelCurve) FatCurve() Curve {
	return Curve{X: c.Intensity, Y: c.FatKcal}
}

// CarbCurve pairs carbohydrate kcal/min with intensity
func (c FuelCurve) CarbCurve() Curve {
	return Curve{X: c.Intensity, Y: c.CarbKcal}
}

// FuelSplit computes the energy split from 50% to 100% intensity.
// Fat falls linearly from 80% to 0%; total burn scales with intensity.
func FuelSplit() FuelCurve {
	intensities := linspace(FuelMinIntensity, FuelMaxIntensity, FuelSamples)
	n := len(intensities)

	curve := FuelCurve{
		Intensity: intensities,
		FatPct:    make([]float64, n),
		CarbPct:   make([]float64, n),
		TotalKcal: make([]float64, n),
		FatKcal:   make([]float64, n),
		CarbKcal:  make([]float64, n),
	}

	for i, intensity := range intensities {
		fat := clamp(FuelMaxFatPct-8*(intensity-FuelMinIntensity)/5, 0, FuelMaxFatPct)
		carb := 100 - fat
		total := FuelBaseKcalPerMin * (intensity / FuelMinIntensity)

		curve.FatPct[i] = fat
		curve.CarbPct[i] = carb
		curve.TotalKcal[i] = total
		curve.FatKcal[i] = total * fat / 100
		curve.CarbKcal[i] = total * carb / 100
	}
	return curve
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
