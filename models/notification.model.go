package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationChapterCompletion NotificationType = "chapter_completion"
	NotificationCourseCompletion  NotificationType = "course_completion"
)

// Notification is addressed to a course owner. Only its read flag changes
// after creation.
type Notification struct {
	gorm.Model
	UserID    string           `json:"userId" gorm:"index;not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	Type      NotificationType `json:"type" gorm:"type:varchar(32);not null"`
	CourseID  *uint            `json:"courseId"`
	ChapterID *uint            `json:"chapterId"`
	IsRead    bool             `json:"isRead" gorm:"default:false;index"`
}

const (
	OutboxPending = "PENDING"
	OutboxDone    = "DONE"
	OutboxFailed  = "FAILED"
)

// NotificationOutbox holds a planned notification written in the same
// transaction as the progress change that caused it.
type NotificationOutbox struct {
	gorm.Model
	Payload     datatypes.JSON `json:"payload"`
	Status      string         `json:"status" gorm:"type:varchar(16);default:'PENDING';index"`
	Attempts    int            `json:"attempts" gorm:"default:0"`
	LastError   string         `json:"lastError" gorm:"type:text"`
	ProcessedAt *time.Time     `json:"processedAt"`
}
