package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"submgmt/internal/config"
)

// SweepScheduler drives the sweeper on a ticker. Settings are re-read
// every tick so admins can toggle the sweeps without a restart.
type SweepScheduler struct {
	sweeper  SweeperService
	settings config.Provider

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweepScheduler(sweeper SweeperService, settings config.Provider) *SweepScheduler {
	return &SweepScheduler{sweeper: sweeper, settings: settings}
}

func (s *SweepScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
}

func (s *SweepScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *SweepScheduler) run(ctx context.Context) {
	defer close(s.done)

	// Tick every minute and decide per tick whether a sweep is due.
	// Cheap enough, and it picks up frequency changes promptly.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastRun time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cfg, err := s.settings.Load(ctx)
			if err != nil {
				log.Printf("scheduler: load settings: %v", err)
				continue
			}
			if !cfg.SweeperEnabled {
				continue
			}
			if !sweepDue(cfg, lastRun, now) {
				continue
			}
			lastRun = now
			s.runSweeps(ctx)
		}
	}
}

func (s *SweepScheduler) runSweeps(ctx context.Context) {
	if _, err := s.sweeper.ExpireSubscriptions(ctx); err != nil {
		log.Printf("scheduler: expire sweep failed: %v", err)
	}
	if _, err := s.sweeper.SendRenewalReminders(ctx); err != nil {
		log.Printf("scheduler: reminder sweep failed: %v", err)
	}
}

// sweepDue decides whether a sweep should fire at tick time now, given
// the last successful fire.
func sweepDue(cfg config.Settings, lastRun, now time.Time) bool {
	switch cfg.SweeperFrequency {
	case "daily":
		at, err := parseWallClock(cfg.SweeperDailyAt)
		if err != nil {
			log.Printf("scheduler: bad sweeper_daily_at %q, falling back to hourly", cfg.SweeperDailyAt)
			return lastRun.IsZero() || now.Sub(lastRun) >= time.Hour
		}
		target := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
		if now.Before(target) {
			return false
		}
		return lastRun.Before(target)
	default: // hourly
		return lastRun.IsZero() || now.Sub(lastRun) >= time.Hour
	}
}

func parseWallClock(v string) (time.Time, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse wall clock %q: %w", v, err)
	}
	return t, nil
}
