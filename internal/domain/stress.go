package domain

// EffectiveStress derives the hourly stress value for one observation.
// Total over its domain: a missing gust reading falls back to the sustained
// wind speed, and out-of-range inputs (negative speeds, gust below wind) are
// passed through untouched; range validation belongs to the input supplier.
func EffectiveStress(obs HourlyObservation, p Params) float64 {
	if obs.GustSpeed == nil {
		return obs.WindSpeed
	}
	switch p.Formula {
	case FormulaFullGust:
		return obs.WindSpeed + p.GustWeight*(*obs.GustSpeed)
	default:
		return obs.WindSpeed + p.GustWeight*(*obs.GustSpeed-obs.WindSpeed)
	}
}

// ComputeHourlyStress maps observations to their derived stress series,
// preserving order and timestamps.
func ComputeHourlyStress(obs []HourlyObservation, p Params) []HourlyStress {
	out := make([]HourlyStress, len(obs))
	for i, o := range obs {
		out[i] = HourlyStress{
			Timestamp:       o.Timestamp,
			EffectiveStress: EffectiveStress(o, p),
		}
	}
	return out
}
