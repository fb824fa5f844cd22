// internal/app/notification_service.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/entry"
	"cycle_companion_bot/internal/domain/notification"
	"cycle_companion_bot/internal/domain/partner"
	domainTelegram "cycle_companion_bot/internal/domain/telegram"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// NotificationService defines the scheduled notification routines. The
// scheduler only knows this interface.
type NotificationService interface {
	// CheckPhaseTransitions sweeps all notifiable users, compares the
	// current computed cycle day against the latest stored entry and sends
	// phase-change messages to the user and their partners.
	CheckPhaseTransitions(ctx context.Context) error
	// SendWeeklyReminders asks every notifiable user to enter their cycle day.
	SendWeeklyReminders(ctx context.Context) error
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	userRepo       user.Repository
	entryRepo      entry.Repository
	partnerRepo    partner.Repository
	notifRepo      notification.Repository
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
}

func NewNotificationServiceImpl(
	ur user.Repository,
	er entry.Repository,
	pr partner.Repository,
	nr notification.Repository,
	tc domainTelegram.Client,
	logger *logrus.Entry,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		userRepo:       ur,
		entryRepo:      er,
		partnerRepo:    pr,
		notifRepo:      nr,
		telegramClient: tc,
		logger:         logger,
	}
}

// CheckPhaseTransitions runs one sweep over all notifiable users. A failure
// for one user never aborts the sweep.
func (s *NotificationServiceImpl) CheckPhaseTransitions(ctx context.Context) error {
	s.logger.Info("Starting phase transition sweep")

	users, err := s.userRepo.ListNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notifiable users: %w", err)
	}

	for _, u := range users {
		if err := s.checkUserTransition(ctx, u); err != nil {
			s.logger.WithError(err).WithField("user_id", u.ID).Error("Phase transition check failed for user")
		}
	}

	s.logger.WithField("users_checked", len(users)).Info("Phase transition sweep finished")
	return nil
}

func (s *NotificationServiceImpl) checkUserTransition(ctx context.Context, u *user.User) error {
	if !u.LastPeriodDate.Valid {
		return nil // Nothing to derive the current day from
	}

	cycleLength := u.CycleLength
	if cycleLength < 1 {
		cycleLength = cycle.DefaultCycleLength
	}

	currentDay, err := cycle.CalculateCycleDay(u.LastPeriodDate.Time, time.Now())
	if err != nil {
		// Stale or future period dates are an expected state, not a failure.
		return nil
	}

	lastEntry, err := s.entryRepo.GetLatestByUser(ctx, u.ID)
	if err != nil {
		if err == idb.ErrEntryNotFound {
			return nil // No history to compare against
		}
		return fmt.Errorf("failed to fetch latest entry: %w", err)
	}

	previousDay := lastEntry.DayNumber
	transition, err := cycle.IsPhaseTransition(currentDay, &previousDay, cycleLength)
	if err != nil {
		return fmt.Errorf("failed to check phase transition: %w", err)
	}
	if !transition {
		return nil
	}

	phaseInfo, err := cycle.GetPhaseInfo(currentDay, cycleLength)
	if err != nil {
		// The new day may be unclassifiable; there is nothing to announce.
		return nil
	}

	if err := s.sendPhaseChangeToUser(ctx, u, phaseInfo); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Error("Failed to notify user of phase change")
	}

	partners, err := s.partnerRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("failed to list partners: %w", err)
	}
	for _, p := range partners {
		if err := s.sendPhaseChangeToPartner(ctx, u, p, phaseInfo); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"user_id":    u.ID,
				"partner_id": p.ID,
			}).Error("Failed to notify partner of phase change")
		}
	}

	return nil
}

func (s *NotificationServiceImpl) sendPhaseChangeToUser(ctx context.Context, u *user.User, phaseInfo *cycle.PhaseInfo) error {
	messageText := fmt.Sprintf("🔄 *Переход в новую фазу!*\n\n%s", FormatPhaseInfo(phaseInfo))

	err := s.telegramClient.SendMessage(u.TelegramID, messageText, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err != nil {
		return fmt.Errorf("failed to send phase change message: %w", err)
	}

	record := &notification.Record{
		UserID: u.ID,
		Type:   notification.TypePhaseChange,
		SentAt: time.Now(),
	}
	if err := s.notifRepo.Create(ctx, record); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Error("Failed to record phase change notification")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": u.ID,
		"phase":   phaseInfo.Phase,
	}).Info("Phase change notification sent to user")
	return nil
}

func (s *NotificationServiceImpl) sendPhaseChangeToPartner(ctx context.Context, u *user.User, p *partner.Partner, phaseInfo *cycle.PhaseInfo) error {
	messageText, ok := FormatPartnerPhaseInfo(phaseInfo)
	if !ok {
		return nil
	}

	err := s.telegramClient.SendMessage(p.TelegramID, messageText, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	if err != nil {
		return fmt.Errorf("failed to send partner phase change message: %w", err)
	}

	record := &notification.Record{
		UserID:    u.ID,
		PartnerID: sql.NullInt64{Int64: p.ID, Valid: true},
		Type:      notification.TypePartnerPhaseChange,
		SentAt:    time.Now(),
	}
	if err := s.notifRepo.Create(ctx, record); err != nil {
		s.logger.WithError(err).WithField("partner_id", p.ID).Error("Failed to record partner notification")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    u.ID,
		"partner_id": p.ID,
		"phase":      phaseInfo.Phase,
	}).Info("Phase change notification sent to partner")
	return nil
}

// SendWeeklyReminders sends the "enter your cycle day" nudge to everyone with
// notifications enabled.
func (s *NotificationServiceImpl) SendWeeklyReminders(ctx context.Context) error {
	s.logger.Info("Starting weekly reminder sweep")

	users, err := s.userRepo.ListNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notifiable users: %w", err)
	}

	messageText := "📅 *Напоминание*\n\nНе забудьте ввести текущий день цикла, чтобы получать актуальную информацию о вашей фазе и рекомендациях."

	sent := 0
	for _, u := range users {
		if err := s.telegramClient.SendMessage(u.TelegramID, messageText, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}); err != nil {
			s.logger.WithError(err).WithField("user_id", u.ID).Error("Failed to send weekly reminder")
			continue
		}

		record := &notification.Record{
			UserID: u.ID,
			Type:   notification.TypeWeeklyReminder,
			SentAt: time.Now(),
		}
		if err := s.notifRepo.Create(ctx, record); err != nil {
			s.logger.WithError(err).WithField("user_id", u.ID).Error("Failed to record weekly reminder")
		}
		sent++
	}

	s.logger.WithFields(logrus.Fields{
		"users_total": len(users),
		"sent":        sent,
	}).Info("Weekly reminder sweep finished")
	return nil
}
