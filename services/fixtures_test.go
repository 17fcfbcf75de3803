package services

import (
	"testing"

	"lms/database"
	"lms/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	owner   = "user_owner"
	student = "user_student"
)

func strPtr(s string) *string { return &s }

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	return database.OpenTestDb(t)
}

// seedCourse creates a course owned by owner with one chapter per entry of
// published, at positions 1..n.
func seedCourse(t *testing.T, db *gorm.DB, coursePublished bool, published ...bool) (*models.Course, []models.Chapter) {
	t.Helper()
	course := models.Course{UserID: owner, Title: "Go in Practice", IsPublished: coursePublished}
	require.NoError(t, db.Create(&course).Error)

	chapters := make([]models.Chapter, len(published))
	for i, p := range published {
		chapters[i] = models.Chapter{
			Title:       "Chapter",
			Position:    i + 1,
			IsPublished: p,
			CourseID:    course.ID,
		}
		require.NoError(t, db.Create(&chapters[i]).Error)
	}
	return &course, chapters
}

func purchase(t *testing.T, db *gorm.DB, userID string, courseID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Purchase{UserID: userID, CourseID: courseID}).Error)
}

func complete(t *testing.T, db *gorm.DB, userID string, chapterID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserProgress{UserID: userID, ChapterID: chapterID, IsCompleted: true}).Error)
}

func notificationsFor(t *testing.T, db *gorm.DB, userID string) []models.Notification {
	t.Helper()
	var list []models.Notification
	require.NoError(t, db.Where("user_id = ?", userID).Order("id asc").Find(&list).Error)
	return list
}
