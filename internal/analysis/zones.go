package analysis

// Zone5Fraction is the share of max HR where zone 5 begins
const Zone5Fraction = 0.95

// ZoneLabels are the five zone names in prescription order
var ZoneLabels = [5]string{
	"Zone 1 (Easy/Recovery)",
	"Zone 2 (Endurance)",
	"Zone 3 (Threshold)",
	"Zone 4 (Interval)",
	"Zone 5 (Max Effort)",
}

// HRZone is a heart-rate range in bpm. Lower is inclusive; Upper is exclusive
// except for the last zone, which ends at max HR.
type HRZone struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// DeriveZones splits [0, MaxHR] into the five training zones.
// Zones 2 and 3 meet at the midpoint of LT1 and LT2.
func DeriveZones(p AthleteProfile) ([]HRZone, error) {
	if err := p.checkProfile(); err != nil {
		return nil, err
	}

	lt1 := float64(p.LT1HR)
	lt2 := float64(p.LT2HR)
	maxHR := float64(p.MaxHR)
	mid := (lt1 + lt2) / 2
	zone5 := Zone5Fraction * maxHR

	bounds := [6]float64{0, lt1, mid, lt2, zone5, maxHR}

	zones := make([]HRZone, len(ZoneLabels))
	for i, label := range ZoneLabels {
		zones[i] = HRZone{
			Label: label,
			Lower: bounds[i],
			Upper: bounds[i+1],
		}
	}
	return zones, nil
}

// ZoneFor returns the index of the zone containing hr, or -1 when hr is
// negative or above the top of the last zone
func ZoneFor(zones []HRZone, hr float64) int {
	for i, z := range zones {
		last := i == len(zones)-1
		if hr >= z.Lower && (hr < z.Upper || (last && hr <= z.Upper)) {
			return i
		}
	}
	return -1
}
