// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSweepScheduler drives the lifecycle sweep on a timer so competitions
// cross scheduled → activated → deactivated without an operator touching them.
func (r *CompetitionRegistry) StartSweepScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: re-derive statuses and run transition fan-out
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if err := r.Sweep(time.Now()); err != nil {
				log.Printf("[Sweep] completed with errors: %v", err)
			}
		}),
	)
}
