package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lms/config"
	"lms/logger"
	"lms/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMaxAttempts = 5

// Mailer delivers a plain text e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailResolver maps an identity-provider user id to an e-mail address.
type EmailResolver interface {
	LookupEmail(ctx context.Context, userID string) (string, error)
}

// Emitter turns chapter completions into notifications for the course owner.
// Notifications are planned inside the progress transaction as outbox rows and
// materialised after commit by Dispatch or, failing that, by DrainOutbox.
type Emitter struct {
	Policy      config.NotificationPolicy
	Mailer      Mailer
	Resolver    EmailResolver
	MaxAttempts int
}

type notificationDraft struct {
	UserID    string                  `json:"userId"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	CourseID  uint                    `json:"courseId"`
	ChapterID uint                    `json:"chapterId"`
}

func (d notificationDraft) notification() models.Notification {
	courseID, chapterID := d.CourseID, d.ChapterID
	return models.Notification{
		UserID:    d.UserID,
		Title:     d.Title,
		Message:   d.Message,
		Type:      d.Type,
		CourseID:  &courseID,
		ChapterID: &chapterID,
	}
}

// plan decides whether marking chapter complete for userID notifies the course
// owner and with which kind of notification. prev is the existing progress row
// or nil.
func (e *Emitter) plan(tx *gorm.DB, userID string, chapter *models.Chapter, prev *models.UserProgress, completed bool) (*notificationDraft, error) {
	if !completed {
		return nil, nil
	}
	prevCompleted := prev != nil && prev.IsCompleted
	if prevCompleted {
		return nil, nil
	}
	if !e.Policy.NotifyOnRecompletion && prev != nil && prev.NotifiedAt != nil {
		return nil, nil
	}

	var course models.Course
	err := tx.Preload("Chapters", "is_published = ?", true).
		Preload("Chapters.UserProgress", "user_id = ?", userID).
		First(&course, chapter.CourseID).Error
	if err != nil {
		return nil, fmt.Errorf("load course for notification: %w", err)
	}

	total := len(course.Chapters)
	done := 0
	for _, ch := range course.Chapters {
		for _, p := range ch.UserProgress {
			if p.IsCompleted {
				done++
				break
			}
		}
	}
	if chapter.IsPublished {
		done++
	}

	draft := &notificationDraft{
		UserID:    course.UserID,
		CourseID:  course.ID,
		ChapterID: chapter.ID,
	}
	if total > 0 && done >= total {
		draft.Type = models.NotificationCourseCompletion
		draft.Title = "Course completed"
		draft.Message = fmt.Sprintf("Congratulations! Student %s has completed every chapter of %q.", userID, course.Title)
	} else {
		draft.Type = models.NotificationChapterCompletion
		draft.Title = "Chapter completed"
		draft.Message = fmt.Sprintf("Student %s completed the chapter %q of %q.", userID, chapter.Title, course.Title)
	}
	return draft, nil
}

func (e *Emitter) enqueue(tx *gorm.DB, draft *notificationDraft) (uint, error) {
	raw, err := json.Marshal(draft)
	if err != nil {
		return 0, fmt.Errorf("encode notification: %w", err)
	}
	box := models.NotificationOutbox{Payload: datatypes.JSON(raw), Status: models.OutboxPending}
	if err := tx.Create(&box).Error; err != nil {
		return 0, fmt.Errorf("write outbox: %w", err)
	}
	return box.ID, nil
}

// stage plans and enqueues inside a savepoint of tx. It returns the outbox id,
// or 0 when nothing was staged. Failures are logged and never abort tx.
func (e *Emitter) stage(tx *gorm.DB, userID string, chapter *models.Chapter, prev *models.UserProgress, completed bool) uint {
	var outboxID uint
	err := tx.Transaction(func(inner *gorm.DB) error {
		draft, err := e.plan(inner, userID, chapter, prev, completed)
		if err != nil || draft == nil {
			return err
		}
		outboxID, err = e.enqueue(inner, draft)
		return err
	})
	if err != nil {
		logger.Log.Warn("notification: staging failed", "userId", userID, "chapterId", chapter.ID, "error", err)
		return 0
	}
	return outboxID
}

func (e *Emitter) maxAttempts() int {
	if e.MaxAttempts > 0 {
		return e.MaxAttempts
	}
	return defaultMaxAttempts
}

// Dispatch materialises one pending outbox row.
func (e *Emitter) Dispatch(ctx context.Context, db *gorm.DB, outboxID uint) error {
	var box models.NotificationOutbox
	err := db.WithContext(ctx).Where("id = ? AND status = ?", outboxID, models.OutboxPending).First(&box).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load outbox %d: %w", outboxID, err)
	}
	return e.process(ctx, db, &box)
}

// DrainOutbox retries up to limit pending rows and returns how many were
// delivered.
func (e *Emitter) DrainOutbox(ctx context.Context, db *gorm.DB, limit int) (int, error) {
	var pending []models.NotificationOutbox
	if err := db.WithContext(ctx).Where("status = ?", models.OutboxPending).
		Order("id asc").Limit(limit).Find(&pending).Error; err != nil {
		return 0, fmt.Errorf("load pending outbox: %w", err)
	}
	delivered := 0
	for i := range pending {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if err := e.process(ctx, db, &pending[i]); err == nil {
			delivered++
		}
	}
	return delivered, nil
}

func (e *Emitter) process(ctx context.Context, db *gorm.DB, box *models.NotificationOutbox) error {
	var created models.Notification
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.NotificationOutbox
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", box.ID, models.OutboxPending).
			First(&locked).Error; err != nil {
			return err
		}
		var draft notificationDraft
		if err := json.Unmarshal(locked.Payload, &draft); err != nil {
			return fmt.Errorf("decode outbox %d: %w", locked.ID, err)
		}
		created = draft.notification()
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		now := time.Now()
		return tx.Model(&locked).Updates(map[string]interface{}{
			"status":       models.OutboxDone,
			"attempts":     locked.Attempts + 1,
			"processed_at": &now,
			"last_error":   "",
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// another worker got there first
		return nil
	}
	if err != nil {
		e.recordFailure(ctx, db, box, err)
		return err
	}

	if e.Mailer != nil && e.Resolver != nil {
		go e.deliver(context.WithoutCancel(ctx), created)
	}
	return nil
}

func (e *Emitter) recordFailure(ctx context.Context, db *gorm.DB, box *models.NotificationOutbox, cause error) {
	attempts := box.Attempts + 1
	status := models.OutboxPending
	if attempts >= e.maxAttempts() {
		status = models.OutboxFailed
	}
	logger.Log.Error("notification: dispatch failed", "outboxId", box.ID, "attempts", attempts, "error", cause)
	if err := db.WithContext(ctx).Model(&models.NotificationOutbox{}).Where("id = ?", box.ID).
		Updates(map[string]interface{}{
			"attempts":   attempts,
			"status":     status,
			"last_error": cause.Error(),
		}).Error; err != nil {
		logger.Log.Error("notification: record failure", "outboxId", box.ID, "error", err)
	}
}

func (e *Emitter) deliver(ctx context.Context, n models.Notification) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	to, err := e.Resolver.LookupEmail(ctx, n.UserID)
	if err != nil {
		logger.Log.Warn("notification: resolve owner email", "userId", n.UserID, "error", err)
		return
	}
	if err := e.Mailer.Send(ctx, to, n.Title, n.Message); err != nil {
		logger.Log.Warn("notification: send email", "userId", n.UserID, "error", err)
	}
}
