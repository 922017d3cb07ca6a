// Package sample generates deterministic synthetic wind scenarios for demos
// and tests. Each generator seeds its own PCG source, so repeated calls
// always produce identical series.
package sample

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

// Scenario lengths in days.
const (
	CycloneDays     = 8
	FireWeatherDays = 7
)

var sampleStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// Cyclone models a tropical cyclone passage: calm lead-in, a two-day peak
// with violent gusts, then a slow ramp-down. Eight days of hourly data.
func Cyclone() []domain.HourlyObservation {
	rng := rand.New(rand.NewPCG(11, 2024))
	obs := make([]domain.HourlyObservation, 0, CycloneDays*24)

	for h := 0; h < CycloneDays*24; h++ {
		day := float64(h) / 24

		// Storm intensity envelope peaking around day 3.5.
		envelope := math.Exp(-math.Pow(day-3.5, 2) / 2.2)
		wind := 12 + 38*envelope + rng.Float64()*4
		gust := wind * (1.3 + 0.5*envelope + rng.Float64()*0.15)

		obs = append(obs, observation(h, wind, gust, rng))
	}
	return obs
}

// FireWeather models a persistent fire-weather pattern: strong afternoon
// winds every day and nights that never drop low enough to recover. Seven
// days of hourly data.
func FireWeather() []domain.HourlyObservation {
	rng := rand.New(rand.NewPCG(29, 2024))
	obs := make([]domain.HourlyObservation, 0, FireWeatherDays*24)

	for h := 0; h < FireWeatherDays*24; h++ {
		hourOfDay := h % 24

		// Diurnal cycle peaking mid-afternoon, floored overnight so the
		// recovery window still accumulates excess.
		diurnal := math.Sin(math.Pi * float64(hourOfDay-6) / 12)
		wind := 22 + 14*math.Max(diurnal, 0) + rng.Float64()*3
		if hourOfDay >= 22 || hourOfDay < 6 {
			wind = 16 + rng.Float64()*4
		}
		gust := wind*1.25 + rng.Float64()*3

		obs = append(obs, observation(h, wind, gust, rng))
	}
	return obs
}

// FuturePlus is the cyclone scenario with wind and gust speeds scaled up
// ten percent, the conventional near-term climate uplift.
func FuturePlus() []domain.HourlyObservation {
	base := Cyclone()
	scaled := make([]domain.HourlyObservation, len(base))
	for i, o := range base {
		o.WindSpeed *= 1.1
		if o.GustSpeed != nil {
			g := *o.GustSpeed * 1.1
			o.GustSpeed = &g
		}
		scaled[i] = o
	}
	return scaled
}

func observation(hour int, wind, gust float64, rng *rand.Rand) domain.HourlyObservation {
	rain := math.Max(0, rng.Float64()*2-1.2)
	dryness := 40 + rng.Float64()*40
	vuln := 0.5 + rng.Float64()*0.4

	return domain.HourlyObservation{
		Timestamp:     sampleStart.Add(time.Duration(hour) * time.Hour),
		WindSpeed:     round1(wind),
		GustSpeed:     ptr(round1(gust)),
		Rainfall:      ptr(round1(rain)),
		FuelDryness:   ptr(round1(dryness)),
		Vulnerability: ptr(math.Round(vuln*100) / 100),
	}
}

func ptr(v float64) *float64 { return &v }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// WriteCSV writes observations to path in the ingest schema.
func WriteCSV(path string, obs []domain.HourlyObservation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"timestamp", "wind_speed_ms", "gust_ms",
		"rainfall_mm", "fuel_dryness_index", "infrastructure_vulnerability",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, o := range obs {
		row := []string{
			o.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(o.WindSpeed),
			formatOptional(o.GustSpeed),
			formatOptional(o.Rainfall),
			formatOptional(o.FuelDryness),
			formatOptional(o.Vulnerability),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush sample csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
