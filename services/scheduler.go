// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSweepScheduler runs the expiration sweep on a fixed interval.
func (s *Sweeper) StartSweepScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			report, err := s.SweepExpiredRequests(time.Now())
			if err != nil {
				log.Printf("[Sweeper] DB error: %v", err)
				return
			}
			if len(report.RemovedRequests) > 0 {
				log.Printf("✅ Swept %d expired requests, freed %d adventurers",
					len(report.RemovedRequests), report.AdventurersUpdated)
			}
		}),
	)
}
