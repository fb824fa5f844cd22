// internal/infra/telegram/callback_handlers.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cycle_companion_bot/internal/app"
	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Maps phase-selection callback uniques to phases. "Postovulatory" is not
// offered: a user who only knows "after ovulation" is better served by PMS or
// the manual input path.
var phaseCallbacks = map[string]cycle.Phase{
	"phase_menstrual":     cycle.PhaseMenstrual,
	"phase_postmenstrual": cycle.PhasePostmenstrual,
	"phase_ovulatory":     cycle.PhaseOvulatory,
	"phase_pms":           cycle.PhasePMS,
}

// RegisterCallbackHandlers wires the single OnCallback dispatcher. Telebot
// allows one generic callback handler, so all inline-button actions are routed
// here by their data prefix.
func RegisterCallbackHandlers(
	ctx context.Context,
	b *telebot.Bot,
	userRepo user.Repository,
	entryService *app.EntryService,
	partnerService *app.PartnerService,
	baseLogger *logrus.Entry,
) {
	callbackLogger := baseLogger.WithField("handler_group", "callbacks")

	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		// Telebot prefixes data of buttons built via markup.Data with "\f".
		data := strings.TrimPrefix(c.Callback().Data, "\f")
		logCtx := callbackLogger.WithFields(logrus.Fields{
			"sender_id": c.Sender().ID,
			"data":      data,
		})

		switch {
		case data == "phase_skip":
			_ = c.Respond()
			return c.Edit("⏭ Ввод дня цикла пропущен.")

		case data == "phase_manual_input":
			_ = c.Respond()
			return c.Edit(fmt.Sprintf("📝 Введите день вашего цикла (от 1 до %d):", cycle.MaxCycleDay))

		case strings.HasPrefix(data, "phase_"):
			return handlePhaseSelection(ctx, c, userRepo, entryService, data, logCtx)

		case data == "settings_cycle_length":
			_ = c.Respond()
			return c.Edit("Выберите длину вашего цикла в днях:", cycleLengthKeyboard())

		case strings.HasPrefix(data, "cyclen_"):
			return handleCycleLengthSelection(ctx, c, userRepo, data, logCtx)

		case data == "settings_notifications_toggle":
			return handleNotificationsToggle(ctx, c, userRepo, logCtx)

		case strings.HasPrefix(data, "partner_remove_"):
			return handlePartnerRemoveRequest(ctx, c, partnerService, data, logCtx)

		case strings.HasPrefix(data, "partner_confirm_"):
			return handlePartnerRemoveConfirm(ctx, c, partnerService, data, logCtx)

		case data == "partner_cancel":
			_ = c.Respond(&telebot.CallbackResponse{Text: "Отменено"})
			return c.Edit("Удаление партнёра отменено.")
		}

		logCtx.Warn("Unhandled callback data")
		return c.Respond(&telebot.CallbackResponse{Text: "Неизвестное действие."})
	})
}

func handlePhaseSelection(ctx context.Context, c telebot.Context, userRepo user.Repository, entryService *app.EntryService, data string, logCtx *logrus.Entry) error {
	phase, ok := phaseCallbacks[data]
	if !ok {
		return c.Respond(&telebot.CallbackResponse{Text: "Неизвестная фаза."})
	}
	_ = c.Respond()

	u, err := userRepo.GetByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		if err == idb.ErrUserNotFound {
			return c.Edit("Пользователь не найден. Пожалуйста, используйте команду /start.")
		}
		logCtx.WithError(err).Error("Failed to fetch user for phase selection")
		return c.Edit("Произошла ошибка. Пожалуйста, попробуйте позже.")
	}

	cycleLength := u.CycleLength
	if cycleLength < 1 {
		cycleLength = cycle.DefaultCycleLength
	}

	// The midpoint of the chosen phase stands in for the unknown exact day.
	dayNumber, err := app.DayFromPhase(phase, cycleLength)
	if err != nil {
		logCtx.WithError(err).Error("Failed to estimate day from phase")
		return c.Edit("Произошла ошибка. Пожалуйста, попробуйте позже.")
	}

	return saveDayAndReply(ctx, c, entryService, dayNumber, logCtx.WithField("estimated_day", dayNumber))
}

func handleCycleLengthSelection(ctx context.Context, c telebot.Context, userRepo user.Repository, data string, logCtx *logrus.Entry) error {
	lengthStr := strings.TrimPrefix(data, "cyclen_")
	length, err := strconv.Atoi(lengthStr)
	if err != nil || length < minCycleLength || length > maxCycleLength {
		logCtx.Warn("Invalid cycle length callback")
		return c.Respond(&telebot.CallbackResponse{Text: "Недопустимая длина цикла."})
	}

	u, err := userRepo.GetByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		if err == idb.ErrUserNotFound {
			_ = c.Respond()
			return c.Edit("Пользователь не найден. Пожалуйста, используйте команду /start.")
		}
		logCtx.WithError(err).Error("Failed to fetch user for cycle length update")
		return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка."})
	}

	u.CycleLength = length
	if err := userRepo.Update(ctx, u); err != nil {
		logCtx.WithError(err).Error("Failed to update cycle length")
		return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка."})
	}

	logCtx.WithField("cycle_length", length).Info("Cycle length updated")
	_ = c.Respond(&telebot.CallbackResponse{Text: "Длина цикла сохранена."})
	return c.Edit(fmt.Sprintf("✅ Длина цикла установлена: %d дней.", length))
}

func handleNotificationsToggle(ctx context.Context, c telebot.Context, userRepo user.Repository, logCtx *logrus.Entry) error {
	u, err := userRepo.GetByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		if err == idb.ErrUserNotFound {
			_ = c.Respond()
			return c.Edit("Пользователь не найден. Пожалуйста, используйте команду /start.")
		}
		logCtx.WithError(err).Error("Failed to fetch user for notifications toggle")
		return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка."})
	}

	u.NotificationsEnabled = !u.NotificationsEnabled
	if err := userRepo.Update(ctx, u); err != nil {
		logCtx.WithError(err).Error("Failed to toggle notifications")
		return c.Respond(&telebot.CallbackResponse{Text: "Произошла ошибка."})
	}

	status := "выключены"
	if u.NotificationsEnabled {
		status = "включены"
	}
	logCtx.WithField("notifications_enabled", u.NotificationsEnabled).Info("Notifications toggled")
	_ = c.Respond(&telebot.CallbackResponse{Text: fmt.Sprintf("Уведомления %s", status)})
	return c.Edit(settingsText(u), &telebot.SendOptions{
		ParseMode:   telebot.ModeMarkdown,
		ReplyMarkup: settingsKeyboard(u),
	})
}

func handlePartnerRemoveRequest(ctx context.Context, c telebot.Context, partnerService *app.PartnerService, data string, logCtx *logrus.Entry) error {
	partnerID, err := strconv.ParseInt(strings.TrimPrefix(data, "partner_remove_"), 10, 64)
	if err != nil {
		logCtx.Warn("Malformed partner remove callback")
		return c.Respond(&telebot.CallbackResponse{Text: "Ошибка обработки запроса."})
	}

	_ = c.Respond()
	return c.Edit("⚠️ Вы уверены, что хотите удалить этого партнёра?", confirmRemovePartnerKeyboard(partnerID))
}

func handlePartnerRemoveConfirm(ctx context.Context, c telebot.Context, partnerService *app.PartnerService, data string, logCtx *logrus.Entry) error {
	partnerID, err := strconv.ParseInt(strings.TrimPrefix(data, "partner_confirm_"), 10, 64)
	if err != nil {
		logCtx.Warn("Malformed partner confirm callback")
		return c.Respond(&telebot.CallbackResponse{Text: "Ошибка обработки запроса."})
	}

	if err := partnerService.RemovePartner(ctx, c.Sender().ID, partnerID); err != nil {
		logWithError := logCtx.WithError(err)
		switch err {
		case idb.ErrPartnerNotFound:
			logWithError.Warn("Partner to remove not found")
			return c.Respond(&telebot.CallbackResponse{Text: "Партнёр не найден.", ShowAlert: true})
		case idb.ErrUserNotFound:
			_ = c.Respond()
			return c.Edit("Пользователь не найден. Пожалуйста, используйте команду /start.")
		default:
			logWithError.Error("Failed to remove partner")
			return c.Respond(&telebot.CallbackResponse{Text: "Не удалось удалить партнёра.", ShowAlert: true})
		}
	}

	logCtx.WithField("partner_id", partnerID).Info("Partner removed")
	_ = c.Respond(&telebot.CallbackResponse{Text: "Партнёр удалён"})
	return c.Edit("✅ Партнёр успешно удалён!")
}
