// Command seed loads a JSON catalog of locations, challenges and hints into
// the database. It stands in for an admin screen during setup:
//
//	go run ./cmd/seed -file catalog.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/JosueZ99/treasure-hunt-app/internal/config"
	"github.com/JosueZ99/treasure-hunt-app/internal/database"
)

type catalog struct {
	Locations []catalogLocation `json:"locations"`
}

type catalogLocation struct {
	Name        string            `json:"name"`
	QRCode      string            `json:"qr_code"`
	Description string            `json:"description"`
	Challenge   *catalogChallenge `json:"challenge"`
	Hints       []string          `json:"hints"`
}

type catalogChallenge struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Points   int      `json:"points"`
	Options  []string `json:"options"`
}

func main() {
	file := flag.String("file", "catalog.json", "path to the catalog JSON file")
	flag.Parse()

	cat, err := loadCatalog(*file)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	for _, loc := range cat.Locations {
		locationID, err := db.CreateLocation(loc.Name, loc.QRCode, loc.Description)
		if err != nil {
			log.Fatalf("Failed to create location %q: %v", loc.Name, err)
		}

		if loc.Challenge != nil {
			err := db.CreateChallenge(locationID, loc.Challenge.Question,
				loc.Challenge.Answer, loc.Challenge.Points, loc.Challenge.Options)
			if err != nil {
				log.Fatalf("Failed to create challenge for %q: %v", loc.Name, err)
			}
		}

		// Hints are ordered by their position in the array, so orders are
		// always the gapless sequence 1..N.
		for i, text := range loc.Hints {
			if err := db.CreateHint(locationID, i+1, text); err != nil {
				log.Fatalf("Failed to create hint %d for %q: %v", i+1, loc.Name, err)
			}
		}

		log.Printf("Seeded location %q (%d hints)", loc.Name, len(loc.Hints))
	}
}

func loadCatalog(path string) (*catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cat catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, err
	}

	if err := validateCatalog(&cat); err != nil {
		return nil, err
	}

	return &cat, nil
}

func validateCatalog(cat *catalog) error {
	for _, loc := range cat.Locations {
		if loc.Name == "" {
			return fmt.Errorf("location with empty name")
		}
		if loc.QRCode == "" {
			return fmt.Errorf("location %q has no qr_code", loc.Name)
		}
		if loc.Challenge != nil {
			if loc.Challenge.Question == "" || loc.Challenge.Answer == "" {
				return fmt.Errorf("location %q has an incomplete challenge", loc.Name)
			}
			if loc.Challenge.Points <= 0 {
				return fmt.Errorf("location %q challenge points must be positive", loc.Name)
			}
		}
		for i, text := range loc.Hints {
			if text == "" {
				return fmt.Errorf("location %q hint %d is empty", loc.Name, i+1)
			}
		}
	}
	return nil
}
