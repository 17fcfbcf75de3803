package services

import (
	"context"
	"fmt"
	"time"

	"lms/logger"
	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertProgress records whether userID completed a published chapter. When
// emitter is set, a fresh completion stages an owner notification in the
// same transaction and dispatches it after commit. Notification failures are
// logged and never fail the upsert.
func UpsertProgress(ctx context.Context, db *gorm.DB, emitter *Emitter, userID string, courseID, chapterID uint, completed bool) (*models.UserProgress, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var progress models.UserProgress
	var outboxID uint
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
			return notFoundOr(err, "course")
		}
		var chapter models.Chapter
		if err := tx.Where("id = ? AND course_id = ? AND is_published = ?", chapterID, courseID, true).
			First(&chapter).Error; err != nil {
			return notFoundOr(err, "chapter")
		}
		if !chapter.IsFree && course.UserID != userID {
			purchased, err := hasPurchase(tx, userID, courseID)
			if err != nil {
				return err
			}
			if !purchased {
				return ErrForbidden
			}
		}

		var existing []models.UserProgress
		if err := tx.Where("user_id = ? AND chapter_id = ?", userID, chapterID).
			Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		var prev *models.UserProgress
		if len(existing) > 0 {
			prev = &existing[0]
		}

		if emitter != nil {
			outboxID = emitter.stage(tx, userID, &chapter, prev, completed)
		}

		row := models.UserProgress{UserID: userID, ChapterID: chapterID, IsCompleted: completed}
		if outboxID != 0 {
			now := time.Now()
			row.NotifiedAt = &now
		} else if prev != nil {
			row.NotifiedAt = prev.NotifiedAt
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "notified_at", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert progress: %w", err)
		}
		if err := tx.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&progress).Error; err != nil {
			return fmt.Errorf("reload progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outboxID != 0 {
		if err := emitter.Dispatch(ctx, db, outboxID); err != nil {
			logger.Log.Warn("notification: dispatch after commit failed, left for retry", "outboxId", outboxID, "error", err)
		}
	}
	return &progress, nil
}

func hasPurchase(tx *gorm.DB, userID string, courseID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return count > 0, nil
}
