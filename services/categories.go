package services

import (
	"fmt"
	"strings"

	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCategories seeds an empty catalogue.
var DefaultCategories = []string{
	"Computer Science",
	"Music",
	"Fitness",
	"Photography",
	"Accounting",
	"Engineering",
	"Filming",
}

// SeedCategories inserts the names not yet present and returns how many were
// added. Blank names are skipped.
func SeedCategories(db *gorm.DB, names []string) (int64, error) {
	rows := make([]models.Category, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			rows = append(rows, models.Category{Name: name})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("seed categories: %w", res.Error)
	}
	return res.RowsAffected, nil
}
