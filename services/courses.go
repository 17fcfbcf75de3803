package services

import (
	"errors"
	"fmt"
	"strings"

	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseUpdate carries the fields an owner may change. Nil means unchanged.
type CourseUpdate struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	CategoryID  *uint    `json:"categoryId"`
}

// ChapterUpdate carries the fields an owner may change on a chapter. A zero
// PensumTopicID detaches the chapter from its topic.
type ChapterUpdate struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	VideoURL      *string `json:"videoUrl"`
	IsFree        *bool   `json:"isFree"`
	PensumTopicID *uint   `json:"pensumTopicId"`
}

// PensumTopicUpdate carries the editable fields of a pensum topic.
type PensumTopicUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	IsPublished *bool   `json:"isPublished"`
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// findOwnedCourse loads a course only when ownerID owns it. With lock the row
// is selected FOR UPDATE where the driver supports it.
func findOwnedCourse(tx *gorm.DB, ownerID string, courseID uint, lock bool) (*models.Course, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	q := tx.Where("id = ? AND user_id = ?", courseID, ownerID)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var course models.Course
	if err := q.First(&course).Error; err != nil {
		return nil, notFoundOr(err, "course")
	}
	return &course, nil
}

func findChapter(tx *gorm.DB, courseID, chapterID uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := tx.Where("id = ? AND course_id = ?", chapterID, courseID).First(&chapter).Error; err != nil {
		return nil, notFoundOr(err, "chapter")
	}
	return &chapter, nil
}

func findPensumTopic(tx *gorm.DB, courseID, topicID uint) (*models.PensumTopic, error) {
	var topic models.PensumTopic
	if err := tx.Where("id = ? AND course_id = ?", topicID, courseID).First(&topic).Error; err != nil {
		return nil, notFoundOr(err, "pensum topic")
	}
	return &topic, nil
}

// CreateCourse starts a draft course with only a title.
func CreateCourse(db *gorm.DB, ownerID, title string) (*models.Course, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		verr := &ValidationError{}
		verr.add("title", "Title is required!")
		return nil, verr
	}
	course := models.Course{UserID: ownerID, Title: title}
	if err := db.Create(&course).Error; err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &course, nil
}

// GetOwnedCourse returns an owned course with its children in position order.
func GetOwnedCourse(db *gorm.DB, ownerID string, courseID uint) (*models.Course, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	var course models.Course
	err := db.Where("id = ? AND user_id = ?", courseID, ownerID).
		Preload("Category").
		Preload("Chapters", func(q *gorm.DB) *gorm.DB { return q.Order("position asc") }).
		Preload("PensumTopics", func(q *gorm.DB) *gorm.DB { return q.Order("position asc") }).
		Preload("Attachments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at desc") }).
		First(&course).Error
	if err != nil {
		return nil, notFoundOr(err, "course")
	}
	return &course, nil
}

// ListOwnedCourses lists the caller's courses, newest first.
func ListOwnedCourses(db *gorm.DB, ownerID string) ([]models.Course, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	var courses []models.Course
	if err := db.Where("user_id = ?", ownerID).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse applies the non-nil fields of upd to an owned course.
func UpdateCourse(db *gorm.DB, ownerID string, courseID uint, upd CourseUpdate) (*models.Course, error) {
	course, err := findOwnedCourse(db, ownerID, courseID, false)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			verr := &ValidationError{}
			verr.add("title", "Title cannot be empty!")
			return nil, verr
		}
		changes["title"] = title
	}
	if upd.Description != nil {
		changes["description"] = *upd.Description
	}
	if upd.ImageURL != nil {
		changes["image_url"] = *upd.ImageURL
	}
	if upd.Price != nil {
		changes["price"] = *upd.Price
	}
	if upd.CategoryID != nil {
		var count int64
		if err := db.Model(&models.Category{}).Where("id = ?", *upd.CategoryID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if count == 0 {
			verr := &ValidationError{}
			verr.add("categoryId", "Category does not exist!")
			return nil, verr
		}
		changes["category_id"] = *upd.CategoryID
	}
	if len(changes) == 0 {
		return course, nil
	}
	if err := db.Model(course).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return findOwnedCourse(db, ownerID, courseID, false)
}

// DeleteCourse removes an owned course with its chapters, pensum topics and
// attachments. Purchases and progress rows are left untouched.
func DeleteCourse(db *gorm.DB, ownerID string, courseID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		course, err := findOwnedCourse(tx, ownerID, courseID, true)
		if err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Chapter{}).Error; err != nil {
			return fmt.Errorf("delete chapters: %w", err)
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.PensumTopic{}).Error; err != nil {
			return fmt.Errorf("delete pensum topics: %w", err)
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Attachment{}).Error; err != nil {
			return fmt.Errorf("delete attachments: %w", err)
		}
		if err := tx.Delete(course).Error; err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		return nil
	})
}

// AddAttachment stores a resource link on an owned course.
func AddAttachment(db *gorm.DB, ownerID string, courseID uint, name, url string) (*models.Attachment, error) {
	if _, err := findOwnedCourse(db, ownerID, courseID, false); err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	if strings.TrimSpace(url) == "" {
		verr.add("url", "URL is required!")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = url[strings.LastIndex(url, "/")+1:]
	}
	attachment := models.Attachment{Name: name, URL: url, CourseID: courseID}
	if err := db.Create(&attachment).Error; err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return &attachment, nil
}

// DeleteAttachment removes an attachment from an owned course.
func DeleteAttachment(db *gorm.DB, ownerID string, courseID, attachmentID uint) error {
	if _, err := findOwnedCourse(db, ownerID, courseID, false); err != nil {
		return err
	}
	res := db.Where("id = ? AND course_id = ?", attachmentID, courseID).Delete(&models.Attachment{})
	if res.Error != nil {
		return fmt.Errorf("delete attachment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateChapter applies the non-nil fields of upd to a chapter of an owned course.
func UpdateChapter(db *gorm.DB, ownerID string, courseID, chapterID uint, upd ChapterUpdate) (*models.Chapter, error) {
	if _, err := findOwnedCourse(db, ownerID, courseID, false); err != nil {
		return nil, err
	}
	chapter, err := findChapter(db, courseID, chapterID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	changes := map[string]interface{}{}
	if upd.Title != nil {
		if title := strings.TrimSpace(*upd.Title); title == "" {
			verr.add("title", "Title cannot be empty!")
		} else {
			changes["title"] = title
		}
	}
	if upd.Description != nil {
		changes["description"] = *upd.Description
	}
	if upd.VideoURL != nil {
		if v := strings.TrimSpace(*upd.VideoURL); v != "" && !IsValidVideoURL(v) {
			verr.add("videoUrl", "Video must be a youtube.com/watch?v= or youtu.be link!")
		} else {
			changes["video_url"] = v
		}
	}
	if upd.IsFree != nil {
		changes["is_free"] = *upd.IsFree
	}
	if upd.PensumTopicID != nil {
		if *upd.PensumTopicID == 0 {
			changes["pensum_topic_id"] = nil
		} else if _, err := findPensumTopic(db, courseID, *upd.PensumTopicID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			verr.add("pensumTopicId", "Pensum topic does not belong to this course!")
		} else {
			changes["pensum_topic_id"] = *upd.PensumTopicID
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return chapter, nil
	}
	if err := db.Model(chapter).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update chapter: %w", err)
	}
	return findChapter(db, courseID, chapterID)
}

// DeleteChapter removes a chapter. A course left without published chapters
// is unpublished.
func DeleteChapter(db *gorm.DB, ownerID string, courseID, chapterID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedCourse(tx, ownerID, courseID, true); err != nil {
			return err
		}
		chapter, err := findChapter(tx, courseID, chapterID)
		if err != nil {
			return err
		}
		if err := tx.Delete(chapter).Error; err != nil {
			return fmt.Errorf("delete chapter: %w", err)
		}
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
		return nil
	})
}

// UpdatePensumTopic changes the title or published flag of a topic.
func UpdatePensumTopic(db *gorm.DB, ownerID string, courseID, topicID uint, upd PensumTopicUpdate) (*models.PensumTopic, error) {
	if _, err := findOwnedCourse(db, ownerID, courseID, false); err != nil {
		return nil, err
	}
	topic, err := findPensumTopic(db, courseID, topicID)
	if err != nil {
		return nil, err
	}
	changes := map[string]interface{}{}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			verr := &ValidationError{}
			verr.add("title", "Title cannot be empty!")
			return nil, verr
		}
		changes["title"] = title
	}
	if upd.IsPublished != nil {
		changes["is_published"] = *upd.IsPublished
	}
	if len(changes) == 0 {
		return topic, nil
	}
	if err := db.Model(topic).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update pensum topic: %w", err)
	}
	return findPensumTopic(db, courseID, topicID)
}

// DeletePensumTopic removes a topic and detaches its chapters.
func DeletePensumTopic(db *gorm.DB, ownerID string, courseID, topicID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedCourse(tx, ownerID, courseID, true); err != nil {
			return err
		}
		topic, err := findPensumTopic(tx, courseID, topicID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Chapter{}).Where("pensum_topic_id = ?", topicID).
			Update("pensum_topic_id", nil).Error; err != nil {
			return fmt.Errorf("detach chapters: %w", err)
		}
		if err := tx.Delete(topic).Error; err != nil {
			return fmt.Errorf("delete pensum topic: %w", err)
		}
		return nil
	})
}

// ListCategories returns every category by name.
func ListCategories(db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	if err := db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
