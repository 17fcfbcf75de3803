package models

import "gorm.io/gorm"

// Chapter is an ordered unit of content within a course. Position is dense
// per course and assigned by append or bulk reorder.
type Chapter struct {
	gorm.Model
	Title         string         `json:"title" gorm:"not null"`
	Description   *string        `json:"description" gorm:"type:text"`
	VideoURL      *string        `json:"videoUrl" gorm:"type:text"`
	Position      int            `json:"position" gorm:"index"`
	IsPublished   bool           `json:"isPublished" gorm:"default:false"`
	IsFree        bool           `json:"isFree" gorm:"default:false"`
	CourseID      uint           `json:"courseId" gorm:"index;not null"`
	Course        *Course        `json:"course,omitempty"`
	PensumTopicID *uint          `json:"pensumTopicId" gorm:"index"`
	UserProgress  []UserProgress `json:"userProgress,omitempty"`
}

// PensumTopic is a curriculum unit grouping chapters of one course.
type PensumTopic struct {
	gorm.Model
	Title       string    `json:"title" gorm:"not null"`
	Position    int       `json:"position" gorm:"index"`
	IsPublished bool      `json:"isPublished" gorm:"default:false"`
	CourseID    uint      `json:"courseId" gorm:"index;not null"`
	Chapters    []Chapter `json:"chapters,omitempty"`
}
