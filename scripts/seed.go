// scripts/seed.go
package main

import (
	"flag"
	"log"

	"github.com/steve-ongera/Muranga-University-ERP-System/config"
	"github.com/steve-ongera/Muranga-University-ERP-System/database"
)

func main() {
	clearAll := flag.Bool("clear", false, "delete all existing data before seeding")
	minimal := flag.Bool("minimal", false, "seed admin + 2 students only (no marks)")
	flag.Parse()

	cfg := config.Load()
	database.Connect(cfg)

	if err := database.Seed(database.DB, database.SeedOptions{Clear: *clearAll, Minimal: *minimal}); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
