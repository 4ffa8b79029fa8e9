package jobs

import (
	"context"
	"fmt"
	"time"

	"personnel_app_go/config"
	"personnel_app_go/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduler runs the periodic jobs of the application
type Scheduler struct {
	cron     *cron.Cron
	database *gorm.DB
	location *time.Location
	observe  func(recorded int, err error)
}

// NewScheduler builds the scheduler and registers the daily situation job
// on cfg.SituationCron in cfg.Timezone
func NewScheduler(database *gorm.DB, cfg *config.Config) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		zap.L().Warn("[CRON] Unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		database: database,
		location: loc,
	}

	_, err = s.cron.AddFunc(cfg.SituationCron, func() {
		zap.L().Info("[CRON] Recording daily situations")
		recorded, err := RecordDailySituations(s.database, time.Now().In(s.location))
		if s.observe != nil {
			s.observe(recorded, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid SITUATION_CRON %q: %w", cfg.SituationCron, err)
	}

	return s, nil
}

// OnRecorded registers fn to be called after each scheduled snapshot run.
// It must be set before Start.
func (s *Scheduler) OnRecorded(fn func(recorded int, err error)) {
	s.observe = fn
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	zap.L().Info("[CRON] Scheduler started", zap.String("timezone", s.location.String()))
}

// Stop stops the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		zap.L().Info("[CRON] Scheduler stopped")
	case <-ctx.Done():
		zap.L().Warn("[CRON] Scheduler stop timed out, jobs still running")
	}
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// RecordDailySituations snapshots every unit for the day of now
func RecordDailySituations(database *gorm.DB, now time.Time) (int, error) {
	recorded, err := services.RecordAllDailySituations(database, now)
	if err != nil {
		zap.L().Error("[JOB] Daily situation snapshot finished with errors", zap.Int("recorded", recorded), zap.Error(err))
		return recorded, err
	}
	zap.L().Info("[JOB] Daily situation snapshot done", zap.Int("recorded", recorded))
	return recorded, nil
}
