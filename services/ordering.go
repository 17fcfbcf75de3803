package services

import (
	"fmt"
	"strings"

	"lms/models"

	"gorm.io/gorm"
)

// PositionUpdate assigns Position to the child with ID.
type PositionUpdate struct {
	ID       uint `json:"id" validate:"required"`
	Position int  `json:"position" validate:"gte=0"`
}

// NextPosition returns max(position)+1 among the course's children of model's
// table, or 1 when there are none. Call it inside the transaction that inserts.
func NextPosition(tx *gorm.DB, model interface{}, courseID uint) (int, error) {
	var maxPos int
	if err := tx.Model(model).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error; err != nil {
		return 0, fmt.Errorf("read max position: %w", err)
	}
	return maxPos + 1, nil
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		verr := &ValidationError{}
		verr.add("title", "Title is required!")
		return "", verr
	}
	return title, nil
}

// CreateChapter appends a chapter to an owned course. The course row is locked
// while the next position is read so concurrent appends do not collide.
func CreateChapter(db *gorm.DB, ownerID string, courseID uint, title string) (*models.Chapter, error) {
	title, err := requireTitle(title)
	if err != nil {
		return nil, err
	}
	var chapter models.Chapter
	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedCourse(tx, ownerID, courseID, true); err != nil {
			return err
		}
		pos, err := NextPosition(tx, &models.Chapter{}, courseID)
		if err != nil {
			return err
		}
		chapter = models.Chapter{Title: title, CourseID: courseID, Position: pos}
		if err := tx.Create(&chapter).Error; err != nil {
			return fmt.Errorf("create chapter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// CreatePensumTopic appends a pensum topic to an owned course.
func CreatePensumTopic(db *gorm.DB, ownerID string, courseID uint, title string) (*models.PensumTopic, error) {
	title, err := requireTitle(title)
	if err != nil {
		return nil, err
	}
	var topic models.PensumTopic
	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedCourse(tx, ownerID, courseID, true); err != nil {
			return err
		}
		pos, err := NextPosition(tx, &models.PensumTopic{}, courseID)
		if err != nil {
			return err
		}
		topic = models.PensumTopic{Title: title, CourseID: courseID, Position: pos}
		if err := tx.Create(&topic).Error; err != nil {
			return fmt.Errorf("create pensum topic: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// ReorderChapters applies every assignment in one transaction. Contiguity and
// uniqueness of the target positions are the caller's responsibility.
func ReorderChapters(db *gorm.DB, ownerID string, courseID uint, list []PositionUpdate) error {
	return reorder(db, &models.Chapter{}, ownerID, courseID, list)
}

// ReorderPensumTopics is ReorderChapters for pensum topics.
func ReorderPensumTopics(db *gorm.DB, ownerID string, courseID uint, list []PositionUpdate) error {
	return reorder(db, &models.PensumTopic{}, ownerID, courseID, list)
}

func reorder(db *gorm.DB, model interface{}, ownerID string, courseID uint, list []PositionUpdate) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedCourse(tx, ownerID, courseID, true); err != nil {
			return err
		}
		for _, item := range list {
			res := tx.Model(model).
				Where("id = ? AND course_id = ?", item.ID, courseID).
				Update("position", item.Position)
			if res.Error != nil {
				return fmt.Errorf("update position of %d: %w", item.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("reorder item %d: %w", item.ID, ErrNotFound)
			}
		}
		return nil
	})
}
