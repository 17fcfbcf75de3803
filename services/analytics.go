package services

import (
	"fmt"
	"time"

	"lms/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// CourseSales is one row of the owner analytics table.
type CourseSales struct {
	CourseID uint    `json:"courseId"`
	Title    string  `json:"title"`
	Sales    int     `json:"sales"`
	Revenue  float64 `json:"revenue"`
}

// Analytics summarises the purchases of an owner's courses.
type Analytics struct {
	Courses          []CourseSales `json:"courses"`
	TotalSales       int           `json:"totalSales"`
	TotalRevenue     float64       `json:"totalRevenue"`
	RevenueThisMonth float64       `json:"revenueThisMonth"`
}

// GetAnalytics aggregates sales per owned course. at fixes the "this month"
// window.
func GetAnalytics(db *gorm.DB, ownerID string, at time.Time) (*Analytics, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	var purchases []models.Purchase
	err := db.Joins("JOIN courses ON courses.id = purchases.course_id AND courses.deleted_at IS NULL").
		Where("courses.user_id = ?", ownerID).
		Preload("Course").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	monthStart := now.With(at).BeginningOfMonth()
	monthEnd := now.With(at).EndOfMonth()

	byCourse := map[uint]*CourseSales{}
	order := []uint{}
	out := &Analytics{Courses: []CourseSales{}}
	for _, p := range purchases {
		if p.Course == nil {
			continue
		}
		row, ok := byCourse[p.CourseID]
		if !ok {
			row = &CourseSales{CourseID: p.CourseID, Title: p.Course.Title}
			byCourse[p.CourseID] = row
			order = append(order, p.CourseID)
		}
		price := 0.0
		if p.Course.Price != nil {
			price = *p.Course.Price
		}
		row.Sales++
		row.Revenue += price
		out.TotalSales++
		out.TotalRevenue += price
		if !p.CreatedAt.Before(monthStart) && !p.CreatedAt.After(monthEnd) {
			out.RevenueThisMonth += price
		}
	}
	for _, id := range order {
		out.Courses = append(out.Courses, *byCourse[id])
	}
	return out, nil
}
