package models

import "gorm.io/gorm"

// Category groups courses for browsing.
type Category struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Course is owned by the instructor whose identity id is stored in UserID.
type Course struct {
	gorm.Model
	UserID       string        `json:"userId" gorm:"index;not null"`
	Title        string        `json:"title" gorm:"not null"`
	Description  *string       `json:"description" gorm:"type:text"`
	ImageURL     *string       `json:"imageUrl"`
	Price        *float64      `json:"price"`
	IsPublished  bool          `json:"isPublished" gorm:"default:false"`
	CategoryID   *uint         `json:"categoryId" gorm:"index"`
	Category     *Category     `json:"category,omitempty"`
	Chapters     []Chapter     `json:"chapters,omitempty"`
	PensumTopics []PensumTopic `json:"pensumTopics,omitempty"`
	Attachments  []Attachment  `json:"attachments,omitempty"`
}

// Attachment is a downloadable resource offered to purchasers of a course.
type Attachment struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	URL      string `json:"url" gorm:"type:text;not null"`
	CourseID uint   `json:"courseId" gorm:"index;not null"`
}
