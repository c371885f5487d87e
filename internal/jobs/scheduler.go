package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"klimarechner/internal/services"
)

// Scheduler runs the periodic background jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	items     services.ItemService
}

func NewScheduler(items services.ItemService) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{scheduler: scheduler, items: items}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(s.refreshSummary),
		gocron.WithName("savings-summary-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// refreshSummary keeps the cached savings summary warm so the public
// summary endpoint rarely has to hit the database.
func (s *Scheduler) refreshSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.items.RefreshSummary(ctx); err != nil {
		log.Printf("Failed to refresh savings summary: %v", err)
	}
}

func (s *Scheduler) Start() {
	log.Printf("Starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}
