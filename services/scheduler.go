// services/scheduler.go
package services

import (
	"log"
	"os"

	"gtr-backend/config"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartDispatchScheduler wires a periodic dispatch pass if DISPATCH_CRON
// is set (standard cron expression, e.g. "0 9 * * *" for daily at 9 AM).
// The pass itself provides no protection against overlapping runs, so
// the schedule should leave room for a pass to finish.
func StartDispatchScheduler(db *gorm.DB) {
	spec := os.Getenv("DISPATCH_CRON")
	if spec == "" {
		return
	}

	svc := NewDispatchService(db)
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		log.Println("[DISPATCH] scheduled pass starting")
		records := svc.RunPass(config.SMTPConfigFromEnv(), false)
		log.Printf("[DISPATCH] scheduled pass completed, %d actions recorded", len(records))
	})
	if err != nil {
		log.Printf("[DISPATCH] invalid DISPATCH_CRON %q: %v", spec, err)
		return
	}

	c.Start()
	log.Printf("[DISPATCH] scheduler started with schedule %q", spec)
}
