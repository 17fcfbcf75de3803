package services

import (
	"fmt"
	"regexp"
	"strings"

	"lms/config"
	"lms/models"

	"gorm.io/gorm"
)

// Accepts youtube.com/watch?v=<id> and youtu.be/<id> with an 11 character id.
var videoURLPattern = regexp.MustCompile(
	`^(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})(?:[?&#].*)?$`,
)

// IsValidVideoURL reports whether s is a recognised video-hosting link.
func IsValidVideoURL(s string) bool {
	return videoURLPattern.MatchString(strings.TrimSpace(s))
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// ValidateCourse checks course against policy. publishedChapters is the number
// of chapters of the course that are already published.
func ValidateCourse(policy config.PublishPolicy, course *models.Course, publishedChapters int64) error {
	verr := &ValidationError{}
	if strings.TrimSpace(course.Title) == "" {
		verr.add("title", "Title is required!")
	}
	if policy.RequireDescription && blank(course.Description) {
		verr.add("description", "Description is required!")
	}
	if policy.RequireImage && blank(course.ImageURL) {
		verr.add("imageUrl", "Image is required!")
	}
	if policy.RequirePublishedChapter && publishedChapters == 0 {
		verr.add("chapters", "At least one published chapter is required!")
	}
	return verr.orNil()
}

// ValidateChapter checks chapter against policy. For chapters the image
// requirement is met by the video reference. A present video reference must
// always be a recognised link, whatever the policy.
func ValidateChapter(policy config.PublishPolicy, chapter *models.Chapter) error {
	verr := &ValidationError{}
	if strings.TrimSpace(chapter.Title) == "" {
		verr.add("title", "Title is required!")
	}
	if policy.RequireDescription && blank(chapter.Description) {
		verr.add("description", "Description is required!")
	}
	if blank(chapter.VideoURL) {
		if policy.RequireImage {
			verr.add("videoUrl", "Video is required!")
		}
	} else if !IsValidVideoURL(*chapter.VideoURL) {
		verr.add("videoUrl", "Video must be a youtube.com/watch?v= or youtu.be link!")
	}
	return verr.orNil()
}

// PublishCourse validates the owned course and marks it published.
func PublishCourse(db *gorm.DB, policy config.PublishPolicy, ownerID string, courseID uint) (*models.Course, error) {
	var course *models.Course
	err := db.Transaction(func(tx *gorm.DB) error {
		c, err := findOwnedCourse(tx, ownerID, courseID, true)
		if err != nil {
			return err
		}
		var published int64
		if err := tx.Model(&models.Chapter{}).
			Where("course_id = ? AND is_published = ?", courseID, true).
			Count(&published).Error; err != nil {
			return fmt.Errorf("count published chapters: %w", err)
		}
		if err := ValidateCourse(policy, c, published); err != nil {
			return err
		}
		if err := tx.Model(c).Update("is_published", true).Error; err != nil {
			return fmt.Errorf("publish course: %w", err)
		}
		c.IsPublished = true
		course = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// UnpublishCourse hides the owned course.
func UnpublishCourse(db *gorm.DB, ownerID string, courseID uint) (*models.Course, error) {
	course, err := findOwnedCourse(db, ownerID, courseID, false)
	if err != nil {
		return nil, err
	}
	if err := db.Model(course).Update("is_published", false).Error; err != nil {
		return nil, fmt.Errorf("unpublish course: %w", err)
	}
	course.IsPublished = false
	return course, nil
}

// PublishChapter validates a chapter of an owned course and marks it published.
func PublishChapter(db *gorm.DB, policy config.PublishPolicy, ownerID string, courseID, chapterID uint) (*models.Chapter, error) {
	var chapter *models.Chapter
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedCourse(tx, ownerID, courseID, true); err != nil {
			return err
		}
		ch, err := findChapter(tx, courseID, chapterID)
		if err != nil {
			return err
		}
		if err := ValidateChapter(policy, ch); err != nil {
			return err
		}
		if err := tx.Model(ch).Update("is_published", true).Error; err != nil {
			return fmt.Errorf("publish chapter: %w", err)
		}
		ch.IsPublished = true
		chapter = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

// UnpublishChapter hides a chapter. A course left without published chapters
// is unpublished as well.
func UnpublishChapter(db *gorm.DB, ownerID string, courseID, chapterID uint) (*models.Chapter, error) {
	var chapter *models.Chapter
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedCourse(tx, ownerID, courseID, true); err != nil {
			return err
		}
		ch, err := findChapter(tx, courseID, chapterID)
		if err != nil {
			return err
		}
		if err := tx.Model(ch).Update("is_published", false).Error; err != nil {
			return fmt.Errorf("unpublish chapter: %w", err)
		}
		ch.IsPublished = false
		var remaining int64
		if err := tx.Model(&models.Chapter{}).
			Where("course_id = ? AND is_published = ?", courseID, true).
			Count(&remaining).Error; err != nil {
			return fmt.Errorf("count published chapters: %w", err)
		}
		if remaining == 0 {
			if err := tx.Model(&models.Course{}).Where("id = ?", courseID).
				Update("is_published", false).Error; err != nil {
				return fmt.Errorf("unpublish course: %w", err)
			}
		}
		chapter = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chapter, nil
}
