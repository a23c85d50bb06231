package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/usecase"
)

type tenderLister interface {
	ListTendersEndingBetween(ctx context.Context, fromDays, toDays int) ([]listing.Listing, error)
}

// Sweeper runs the daily tender-deadline sweep: every tender closing within
// the next week gets an ending-soon notification for its bookmarkers.
type Sweeper struct {
	listings      tenderLister
	notifications usecase.NotificationUsecase
	logger        *log.Logger
	cron          *cron.Cron
}

func NewSweeper(listings tenderLister, notifications usecase.NotificationUsecase, logger *log.Logger) *Sweeper {
	return &Sweeper{
		listings:      listings,
		notifications: notifications,
		logger:        logger,
		cron:          cron.New(),
	}
}

// Start schedules the sweep at 07:00 server time and runs one pass
// immediately so a restart never skips a day.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("0 7 * * *", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

func (s *Sweeper) Stop() {
	if s == nil || s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tenders, err := s.listings.ListTendersEndingBetween(ctx, 0, 7)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Sweeper] tender sweep failed: %v", err)
		}
		return
	}

	notified := 0
	for _, t := range tenders {
		if err := s.notifications.NotifyTenderEndingSoon(ctx, t); err != nil {
			if s.logger != nil {
				s.logger.Printf("[Sweeper] notify failed listing=%s: %v", t.ID, err)
			}
			continue
		}
		notified++
	}
	if s.logger != nil {
		s.logger.Printf("[Sweeper] tender sweep done | tenders=%d notified=%d", len(tenders), notified)
	}
}
