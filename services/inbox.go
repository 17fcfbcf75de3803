package services

import (
	"fmt"

	"lms/models"

	"gorm.io/gorm"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(db *gorm.DB, userID string, unreadOnly bool) ([]models.Notification, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	q := db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var list []models.Notification
	if err := q.Order("created_at desc").Order("id desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// UnreadCount counts the caller's unread notifications.
func UnreadCount(db *gorm.DB, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrUnauthenticated
	}
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead flags one of the caller's notifications as read.
func MarkNotificationRead(db *gorm.DB, userID string, notificationID uint) (*models.Notification, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	var n models.Notification
	if err := db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		return nil, notFoundOr(err, "notification")
	}
	if err := db.Model(&n).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n.IsRead = true
	return &n, nil
}

// MarkAllNotificationsRead flags every unread notification of the caller and
// returns how many changed.
func MarkAllNotificationsRead(db *gorm.DB, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrUnauthenticated
	}
	res := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
