package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"

	"lms/config"
	"lms/database"
	"lms/services"
)

// Seeds course categories, either the defaults or the first column of a CSV.
func main() {
	csvPath := flag.String("csv", "", "CSV file with one category name per row, header first")
	flag.Parse()

	config.LoadConfig()
	database.ConnectDb()

	names := services.DefaultCategories
	if *csvPath != "" {
		file, err := os.Open(*csvPath)
		if err != nil {
			log.Fatalf("Failed to open CSV file: %v", err)
		}
		defer file.Close()

		records, err := csv.NewReader(file).ReadAll()
		if err != nil {
			log.Fatalf("Failed to read CSV: %v", err)
		}
		if len(records) < 2 {
			log.Fatal("CSV file is empty or has only headers")
		}
		names = names[:0:0]
		for _, row := range records[1:] {
			if len(row) > 0 {
				names = append(names, row[0])
			}
		}
	}

	inserted, err := services.SeedCategories(database.Database.Db, names)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d new categories (%d requested)", inserted, len(names))
}
