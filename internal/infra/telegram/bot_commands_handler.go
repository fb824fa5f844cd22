// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"cycle_companion_bot/internal/app"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// partnerDeepLinkPrefix marks a /start payload as a partner invitation.
const partnerDeepLinkPrefix = "partner_"

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	userRepo user.Repository,
	partnerService *app.PartnerService,
	statsService *app.StatisticsService,
	defaultCycleLength int,
	baseLogger *logrus.Entry,
) {
	commandsLogger := baseLogger.WithField("handler_group", "commands")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		payload := strings.TrimSpace(c.Message().Payload)
		if strings.HasPrefix(payload, partnerDeepLinkPrefix) {
			return handlePartnerInvite(ctx, c, partnerService, payload, logCtx)
		}

		// Register the user if this is the first contact.
		_, err := userRepo.GetByTelegramID(ctx, senderID)
		if err == idb.ErrUserNotFound {
			var username sql.NullString
			if c.Sender().Username != "" {
				username = sql.NullString{String: c.Sender().Username, Valid: true}
			}
			newUser := &user.User{
				TelegramID:           senderID,
				Username:             username,
				CycleLength:          defaultCycleLength,
				NotificationsEnabled: true,
				NotificationTime:     sql.NullString{String: "09:00", Valid: true},
			}
			if err := userRepo.Create(ctx, newUser); err != nil {
				logCtx.WithError(err).Error("Failed to register new user")
				return c.Send("Произошла ошибка при регистрации. Пожалуйста, попробуйте позже.")
			}
			logCtx.WithField("user_id", newUser.ID).Info("New user registered")
			return c.Send(
				"Привет! Я помогу отслеживать ваш цикл и фазы.\n\n" +
					"Введите текущий день цикла числом (от 1 до 35), и я определю фазу.\n" +
					"Команда /help покажет, что я ещё умею.")
		} else if err != nil {
			logCtx.WithError(err).Error("Error checking user for /start command")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		logCtx.Info("Existing user returned")
		return c.Send("С возвращением! Введите текущий день цикла числом, или используйте /help.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		commandsLogger.WithField("command", "/help").WithField("sender_id", c.Sender().ID).Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Доступные команды:\n\n")
		helpText.WriteString("Просто отправьте число от 1 до 35 — я сохраню день цикла и определю фазу.\n\n")
		helpText.WriteString("`/stats`\n - Статистика ваших циклов.\n\n")
		helpText.WriteString("`/partners`\n - Управление партнёрами, получающими уведомления о фазах.\n\n")
		helpText.WriteString("`/invite`\n - Ссылка-приглашение для партнёра.\n\n")
		helpText.WriteString("`/settings`\n - Длина цикла и уведомления.\n\n")
		helpText.WriteString("`/help`\n - Показать это справочное сообщение.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/stats", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/stats").WithField("sender_id", senderID)
		logCtx.Info("Processing /stats command")

		stats, err := statsService.GetUserStatistics(ctx, senderID)
		if err != nil {
			if err == idb.ErrUserNotFound {
				return c.Send("Пользователь не найден. Пожалуйста, используйте команду /start.")
			}
			logCtx.WithError(err).Error("Failed to compute statistics")
			return c.Send("Произошла ошибка при расчёте статистики. Пожалуйста, попробуйте позже.")
		}

		return c.Send(app.FormatStatistics(stats), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/invite", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/invite").WithField("sender_id", senderID)
		logCtx.Info("Processing /invite command")

		if _, err := userRepo.GetByTelegramID(ctx, senderID); err != nil {
			if err == idb.ErrUserNotFound {
				return c.Send("Пользователь не найден. Пожалуйста, используйте команду /start.")
			}
			logCtx.WithError(err).Error("Failed to fetch user for invite")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		link := fmt.Sprintf("https://t.me/%s?start=%s%d", b.Me.Username, partnerDeepLinkPrefix, senderID)
		return c.Send(fmt.Sprintf(
			"Отправьте эту ссылку партнёру — перейдя по ней, он начнёт получать уведомления о фазах вашего цикла:\n\n%s", link))
	})

	b.Handle("/partners", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/partners").WithField("sender_id", senderID)
		logCtx.Info("Processing /partners command")

		return sendPartnersList(ctx, c, partnerService, logCtx)
	})

	b.Handle("/settings", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/settings").WithField("sender_id", senderID)
		logCtx.Info("Processing /settings command")

		u, err := userRepo.GetByTelegramID(ctx, senderID)
		if err != nil {
			if err == idb.ErrUserNotFound {
				return c.Send("Пользователь не найден. Пожалуйста, используйте команду /start.")
			}
			logCtx.WithError(err).Error("Failed to fetch user for settings")
			return c.Send("Произошла ошибка. Пожалуйста, попробуйте позже.")
		}

		return c.Send(settingsText(u), &telebot.SendOptions{
			ParseMode:   telebot.ModeMarkdown,
			ReplyMarkup: settingsKeyboard(u),
		})
	})
}

func handlePartnerInvite(ctx context.Context, c telebot.Context, partnerService *app.PartnerService, payload string, logCtx *logrus.Entry) error {
	ownerIDStr := strings.TrimPrefix(payload, partnerDeepLinkPrefix)
	ownerTelegramID, err := strconv.ParseInt(ownerIDStr, 10, 64)
	if err != nil {
		logCtx.WithField("payload", payload).Warn("Malformed partner invite payload")
		return c.Send("Ссылка-приглашение повреждена. Попросите партнёра отправить её ещё раз.")
	}

	newPartner, err := partnerService.AddPartner(ctx, ownerTelegramID, c.Sender().ID, c.Sender().Username)
	if err != nil {
		logWithError := logCtx.WithError(err)
		switch err {
		case idb.ErrUserNotFound:
			logWithError.Warn("Inviting user not found")
			return c.Send("Пользователь, отправивший приглашение, не найден.")
		case app.ErrSelfPartner:
			logWithError.Warn("User tried to partner with themselves")
			return c.Send("Вы не можете добавить себя в качестве партнёра.")
		case app.ErrPartnerAlreadyExists:
			logWithError.Warn("Partner already registered")
			return c.Send("Вы уже добавлены в качестве партнёра.")
		default:
			logWithError.Error("Failed to add partner via invite")
			return c.Send("Не удалось принять приглашение. Пожалуйста, попробуйте позже.")
		}
	}

	logCtx.WithField("partner_id", newPartner.ID).Info("Partner added via deep link")
	return c.Send(
		"Вы успешно добавлены в качестве партнёра!\n\n" +
			"Я буду присылать вам уведомления о фазах цикла и короткие подсказки, как лучше себя вести в каждой из них.")
}

func sendPartnersList(ctx context.Context, c telebot.Context, partnerService *app.PartnerService, logCtx *logrus.Entry) error {
	partners, err := partnerService.ListPartners(ctx, c.Sender().ID)
	if err != nil {
		if err == idb.ErrUserNotFound {
			return c.Send("Пользователь не найден. Пожалуйста, используйте команду /start.")
		}
		logCtx.WithError(err).Error("Failed to list partners")
		return c.Send("Произошла ошибка при получении списка партнёров.")
	}

	if len(partners) == 0 {
		return c.Send("У вас пока нет добавленных партнёров.\n\nИспользуйте /invite, чтобы получить ссылку-приглашение.")
	}

	var text strings.Builder
	text.WriteString("Ваши партнёры:\n\n")
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for i, p := range partners {
		display := fmt.Sprintf("ID: %d", p.TelegramID)
		if p.Username.Valid && p.Username.String != "" {
			display = "@" + p.Username.String
		}
		text.WriteString(fmt.Sprintf("%d. %s | Добавлен: %s\n", i+1, display, p.CreatedAt.Format("02.01.2006")))
		btn := markup.Data(fmt.Sprintf("Удалить %s", display), fmt.Sprintf("partner_remove_%d", p.ID))
		rows = append(rows, markup.Row(btn))
	}
	markup.Inline(rows...)

	return c.Send(text.String(), &telebot.SendOptions{ReplyMarkup: markup})
}
