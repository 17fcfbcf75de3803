package utils

import (
	"context"
	"time"

	"lms/logger"
	"lms/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const outboxBatchSize = 100

// InitializeOutboxScheduler retries pending notification outbox rows on the cron schedule.
// The returned cron must be stopped on shutdown.
func InitializeOutboxScheduler(db *gorm.DB, emitter *services.Emitter, schedule string) (*cron.Cron, error) {
	logger.Log.Info("[OUTBOX-SCHEDULER] Initializing outbox scheduler...", "schedule", schedule)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		RetryPendingNotifications(db, emitter)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.Info("[OUTBOX-SCHEDULER] Outbox scheduler started")
	return c, nil
}

// RetryPendingNotifications drains one batch of the outbox.
func RetryPendingNotifications(db *gorm.DB, emitter *services.Emitter) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	delivered, err := emitter.DrainOutbox(ctx, db, outboxBatchSize)
	if err != nil {
		logger.Log.Error("[OUTBOX-SCHEDULER] Error draining outbox", "error", err)
		return
	}
	if delivered > 0 {
		logger.Log.Info("[OUTBOX-SCHEDULER] Delivered pending notifications", "count", delivered)
	}
}
