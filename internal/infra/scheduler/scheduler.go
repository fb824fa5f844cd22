package scheduler

import (
	"context"
	"time"

	"cycle_companion_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleScheduler drives the periodic notification routines. The routines
// themselves live in the app layer; this type only owns the cron engine.
type CycleScheduler struct {
	cronEngine             *cron.Cron
	notifService           app.NotificationService
	logger                 *logrus.Entry
	cronSpecPhaseCheck     string
	cronSpecWeeklyReminder string
}

func NewCycleScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	cronSpecPhaseCheck string, // e.g., "0 9 * * *" (daily at 9 AM)
	cronSpecWeeklyReminder string, // e.g., "0 9 * * 1" (Mondays at 9 AM)
) *CycleScheduler {
	return &CycleScheduler{
		cronEngine:             cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		notifService:           notifService,
		logger:                 logger,
		cronSpecPhaseCheck:     cronSpecPhaseCheck,
		cronSpecWeeklyReminder: cronSpecWeeklyReminder,
	}
}

func (s *CycleScheduler) Start() {
	s.logger.Info("Starting cycle scheduler...")

	// Daily sweep for phase transitions
	_, err := s.cronEngine.AddFunc(s.cronSpecPhaseCheck, func() {
		s.logger.Info("Cron job triggered: phase transition check")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.notifService.CheckPhaseTransitions(ctx); err != nil {
			s.logger.WithError(err).Error("Phase transition check failed")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add phase transition cron job")
	}

	// Weekly "enter your cycle day" reminder
	_, err = s.cronEngine.AddFunc(s.cronSpecWeeklyReminder, func() {
		s.logger.Info("Cron job triggered: weekly reminders")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.notifService.SendWeeklyReminders(ctx); err != nil {
			s.logger.WithError(err).Error("Weekly reminder sweep failed")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add weekly reminder cron job")
	}

	s.cronEngine.Start()
	s.logger.Info("Cycle scheduler started with jobs.")
}

func (s *CycleScheduler) Stop() {
	s.logger.Info("Stopping cycle scheduler...")
	ctx := s.cronEngine.Stop() // Stops scheduling, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Cycle scheduler gracefully stopped.")
}
