package services

import (
	"fmt"

	"lms/models"

	"gorm.io/gorm"
)

// GetProgress returns the percentage of the course's published chapters that
// userID has completed, or 0 when nothing is published.
func GetProgress(db *gorm.DB, userID string, courseID uint) (float64, error) {
	var publishedIDs []uint
	if err := db.Model(&models.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Pluck("id", &publishedIDs).Error; err != nil {
		return 0, fmt.Errorf("load published chapters: %w", err)
	}
	if len(publishedIDs) == 0 {
		return 0, nil
	}

	var completed int64
	if err := db.Model(&models.UserProgress{}).
		Where("user_id = ? AND chapter_id IN ? AND is_completed = ?", userID, publishedIDs, true).
		Count(&completed).Error; err != nil {
		return 0, fmt.Errorf("count completed chapters: %w", err)
	}
	return float64(completed) / float64(len(publishedIDs)) * 100, nil
}
