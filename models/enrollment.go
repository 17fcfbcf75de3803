package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase enrolls a user in a course. At most one per (user, course).
type Purchase struct {
	gorm.Model
	UserID   string  `json:"userId" gorm:"not null;uniqueIndex:idx_purchase_user_course"`
	CourseID uint    `json:"courseId" gorm:"not null;uniqueIndex:idx_purchase_user_course"`
	Course   *Course `json:"course,omitempty"`
}

// UserProgress records whether a user completed a chapter. Unique per
// (user, chapter) and always written through an upsert.
type UserProgress struct {
	gorm.Model
	UserID      string     `json:"userId" gorm:"not null;uniqueIndex:idx_progress_user_chapter"`
	ChapterID   uint       `json:"chapterId" gorm:"not null;uniqueIndex:idx_progress_user_chapter"`
	IsCompleted bool       `json:"isCompleted" gorm:"default:false"`
	NotifiedAt  *time.Time `json:"-"`
}
