package services

import (
	"errors"
	"fmt"
	"strings"

	"lms/logger"
	"lms/models"

	"gorm.io/gorm"
)

// SearchFilter narrows the published course catalogue.
type SearchFilter struct {
	Title      string `query:"title"`
	CategoryID uint   `query:"categoryId"`
}

// CatalogCourse is a published course as a student sees it in search results.
type CatalogCourse struct {
	models.Course
	PublishedChapters int      `json:"publishedChapters"`
	Progress          *float64 `json:"progress"`
}

// SearchCourses lists published courses with the caller's progress on the
// ones they purchased. Progress failures degrade to nil.
func SearchCourses(db *gorm.DB, userID string, filter SearchFilter) ([]CatalogCourse, error) {
	q := db.Model(&models.Course{}).Where("is_published = ?", true)
	if title := strings.TrimSpace(filter.Title); title != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	var courses []models.Course
	err := q.Preload("Category").
		Preload("Chapters", "is_published = ?", true).
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	purchased := map[uint]bool{}
	if userID != "" && len(courses) > 0 {
		var ids []uint
		if err := db.Model(&models.Purchase{}).Where("user_id = ?", userID).Pluck("course_id", &ids).Error; err != nil {
			return nil, fmt.Errorf("load purchases: %w", err)
		}
		for _, id := range ids {
			purchased[id] = true
		}
	}

	out := make([]CatalogCourse, 0, len(courses))
	for _, c := range courses {
		item := CatalogCourse{Course: c, PublishedChapters: len(c.Chapters)}
		item.Chapters = nil
		if purchased[c.ID] {
			if p, err := GetProgress(db, userID, c.ID); err != nil {
				logger.Log.Warn("search: progress unknown", "userId", userID, "courseId", c.ID, "error", err)
			} else {
				item.Progress = &p
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// PurchaseCourse enrolls userID in a published course.
func PurchaseCourse(db *gorm.DB, userID string, courseID uint) (*models.Purchase, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	var purchase models.Purchase
	err := db.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
			return notFoundOr(err, "course")
		}
		exists, err := hasPurchase(tx, userID, courseID)
		if err != nil {
			return err
		}
		if exists {
			return ErrConflict
		}
		purchase = models.Purchase{UserID: userID, CourseID: courseID}
		if err := tx.Create(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("create purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// CourseProgress returns the caller's progress in a purchased course.
func CourseProgress(db *gorm.DB, userID string, courseID uint) (float64, error) {
	if userID == "" {
		return 0, ErrUnauthenticated
	}
	purchased, err := hasPurchase(db, userID, courseID)
	if err != nil {
		return 0, err
	}
	if !purchased {
		return 0, ErrNotFound
	}
	return GetProgress(db, userID, courseID)
}

// ChapterView is everything the player page needs for one chapter.
type ChapterView struct {
	Chapter      models.Chapter       `json:"chapter"`
	Course       models.Course        `json:"course"`
	Attachments  []models.Attachment  `json:"attachments"`
	NextChapter  *models.Chapter      `json:"nextChapter"`
	UserProgress *models.UserProgress `json:"userProgress"`
	Purchase     *models.Purchase     `json:"purchase"`
}

// GetChapterView loads a published chapter of a published course. The video
// reference and attachments are withheld unless the chapter is free or the
// caller purchased the course.
func GetChapterView(db *gorm.DB, userID string, courseID, chapterID uint) (*ChapterView, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	var view ChapterView
	if err := db.Where("id = ? AND is_published = ?", courseID, true).First(&view.Course).Error; err != nil {
		return nil, notFoundOr(err, "course")
	}
	if err := db.Where("id = ? AND course_id = ? AND is_published = ?", chapterID, courseID, true).
		First(&view.Chapter).Error; err != nil {
		return nil, notFoundOr(err, "chapter")
	}

	var purchases []models.Purchase
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).Limit(1).Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("load purchase: %w", err)
	}
	if len(purchases) > 0 {
		view.Purchase = &purchases[0]
	}
	owner := view.Course.UserID == userID

	view.Attachments = []models.Attachment{}
	if view.Purchase != nil || owner {
		if err := db.Where("course_id = ?", courseID).Order("created_at desc").Find(&view.Attachments).Error; err != nil {
			return nil, fmt.Errorf("load attachments: %w", err)
		}
	}
	if view.Purchase == nil && !owner && !view.Chapter.IsFree {
		view.Chapter.VideoURL = nil
	}

	var next []models.Chapter
	if err := db.Where("course_id = ? AND is_published = ? AND position > ?", courseID, true, view.Chapter.Position).
		Order("position asc").Limit(1).Find(&next).Error; err != nil {
		return nil, fmt.Errorf("load next chapter: %w", err)
	}
	if len(next) > 0 {
		view.NextChapter = &next[0]
	}

	var progress []models.UserProgress
	if err := db.Where("user_id = ? AND chapter_id = ?", userID, chapterID).Limit(1).Find(&progress).Error; err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if len(progress) > 0 {
		view.UserProgress = &progress[0]
	}
	return &view, nil
}
