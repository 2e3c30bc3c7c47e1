package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository/mongodb"
	"github.com/mamadbah2/warehouse/internal/repository/sheets"
)

// Inventory is the persistence surface the scheduled jobs use.
type Inventory interface {
	Save() error
	Backup() (string, error)
	AllRecords() []models.Item
}

// Snapshotter builds inventory snapshots.
type Snapshotter interface {
	Snapshot(threshold int, takenAt time.Time) models.InventorySnapshot
}

// Alerter sends low stock alerts.
type Alerter interface {
	NotifyLowStock(ctx context.Context) (bool, error)
}

// Deps groups the collaborators of the scheduler. Archive and Exporter are optional.
type Deps struct {
	Inventory Inventory
	Reporting Snapshotter
	Alerts    Alerter
	Archive   mongodb.Repository
	Exporter  sheets.Repository
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	deps      Deps
	cfg       config.ScheduleConfig
	threshold int
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.Config, deps Deps, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Schedule.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		deps:      deps,
		cfg:       cfg.Schedule,
		threshold: cfg.Inventory.LowStockThreshold,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start registers every job with a non-empty schedule and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	jobs := []struct {
		name     string
		schedule string
		fn       func()
	}{
		{"backup", s.cfg.Backup, s.runBackup},
		{"low_stock", s.cfg.LowStock, s.runLowStockAlert},
		{"snapshot", s.cfg.Snapshot, s.runSnapshot},
		{"autosave", s.cfg.Autosave, s.runAutosave},
	}

	for _, job := range jobs {
		if job.schedule == "" {
			s.logger.Info("job disabled", zap.String("job", job.name))
			continue
		}
		if _, err := s.cron.AddFunc(job.schedule, job.fn); err != nil {
			return fmt.Errorf("schedule %s job (%q): %w", job.name, job.schedule, err)
		}
		s.logger.Info("job scheduled", zap.String("job", job.name), zap.String("schedule", job.schedule))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) runBackup() {
	// The backup copies the file on disk, so flush pending changes first.
	if err := s.deps.Inventory.Save(); err != nil {
		s.logger.Error("save before backup failed", zap.Error(err))
		return
	}

	path, err := s.deps.Inventory.Backup()
	if err != nil {
		s.logger.Error("scheduled backup failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled backup created", zap.String("path", path))
}

func (s *Scheduler) runAutosave() {
	if err := s.deps.Inventory.Save(); err != nil {
		s.logger.Error("autosave failed", zap.Error(err))
	}
}

func (s *Scheduler) runLowStockAlert() {
	if s.deps.Alerts == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sent, err := s.deps.Alerts.NotifyLowStock(ctx)
	if err != nil {
		s.logger.Error("failed to send low stock alert", zap.Error(err))
		return
	}
	s.logger.Info("low stock check complete", zap.Bool("alert_sent", sent))
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.snapshot(ctx); err != nil {
		s.logger.Error("snapshot job failed", zap.Error(err))
	}
}

// snapshot archives and exports independently; a failure in one target does
// not stop the other.
func (s *Scheduler) snapshot(ctx context.Context) error {
	var errs []error

	if s.deps.Archive != nil {
		snap := s.deps.Reporting.Snapshot(s.threshold, s.now())
		if err := s.deps.Archive.SaveSnapshot(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("archive snapshot: %w", err))
		} else {
			s.logger.Info("snapshot archived", zap.Int("items", snap.Totals.Items))
		}
	}

	if s.deps.Exporter != nil {
		if err := s.deps.Exporter.ExportItems(ctx, s.deps.Inventory.AllRecords()); err != nil {
			errs = append(errs, fmt.Errorf("export sheet: %w", err))
		} else {
			s.logger.Info("inventory exported to sheet")
		}
	}

	return errors.Join(errs...)
}
