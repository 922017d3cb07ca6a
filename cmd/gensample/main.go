// Command gensample writes the built-in wind scenarios as CSV fixtures for
// development and for feeding windrisk -csv. The generators are seeded, so
// re-running produces identical files.
//
// Usage:
//
//	go run ./cmd/gensample -out testdata/samples
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
	"github.com/couchcryptid/wind-risk-pipeline/internal/sample"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the sample CSV files")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	scenarios := []struct {
		name     string
		generate func() []domain.HourlyObservation
	}{
		{"cyclone", sample.Cyclone},
		{"fire_weather", sample.FireWeather},
		{"future_plus", sample.FuturePlus},
	}

	for _, s := range scenarios {
		path := filepath.Join(*out, s.name+".csv")
		obs := s.generate()
		if err := sample.WriteCSV(path, obs); err != nil {
			return fmt.Errorf("writing %s: %w", s.name, err)
		}
		log.Printf("%s: %d rows -> %s", s.name, len(obs), path)
	}
	return nil
}
