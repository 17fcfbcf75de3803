package services

import (
	"lms/logger"
	"lms/models"

	"gorm.io/gorm"
)

// CourseWithProgress is a course annotated with the caller's progress. A nil
// Progress means unknown or not enrolled.
type CourseWithProgress struct {
	models.Course
	Progress *float64 `json:"progress"`
}

// DashboardCourses splits a user's purchased courses by completion.
type DashboardCourses struct {
	CompletedCourses  []CourseWithProgress `json:"completedCourses"`
	CoursesInProgress []CourseWithProgress `json:"coursesInProgress"`
}

// GetDashboardCourses never fails: any error yields two empty lists.
func GetDashboardCourses(db *gorm.DB, userID string) DashboardCourses {
	empty := DashboardCourses{
		CompletedCourses:  []CourseWithProgress{},
		CoursesInProgress: []CourseWithProgress{},
	}

	var purchases []models.Purchase
	err := db.Where("user_id = ?", userID).
		Preload("Course").
		Preload("Course.Category").
		Preload("Course.Chapters", "is_published = ?", true).
		Order("created_at desc").
		Find(&purchases).Error
	if err != nil {
		logger.Log.Error("dashboard: load purchases", "userId", userID, "error", err)
		return empty
	}

	out := empty
	for _, p := range purchases {
		if p.Course == nil {
			continue
		}
		progress, err := GetProgress(db, userID, p.CourseID)
		if err != nil {
			logger.Log.Error("dashboard: progress", "userId", userID, "courseId", p.CourseID, "error", err)
			return empty
		}
		item := CourseWithProgress{Course: *p.Course, Progress: &progress}
		if progress == 100 {
			out.CompletedCourses = append(out.CompletedCourses, item)
		} else {
			out.CoursesInProgress = append(out.CoursesInProgress, item)
		}
	}
	return out
}
