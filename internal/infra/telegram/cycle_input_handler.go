// internal/infra/telegram/cycle_input_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cycle_companion_bot/internal/app"
	"cycle_companion_bot/internal/domain/cycle"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterCycleInputHandlers wires the free-text cycle-day input: any message
// that is a bare number is treated as a day-number observation. The /day
// command offers the phase-button alternative for users who don't know their
// exact day.
func RegisterCycleInputHandlers(
	ctx context.Context,
	b *telebot.Bot,
	entryService *app.EntryService,
	baseLogger *logrus.Entry,
) {
	inputLogger := baseLogger.WithField("handler_group", "cycle_input")

	b.Handle("/day", func(c telebot.Context) error {
		inputLogger.WithField("command", "/day").WithField("sender_id", c.Sender().ID).Info("Processing /day command")
		return c.Send("Выберите текущую фазу или введите день цикла числом:", &telebot.SendOptions{
			ReplyMarkup: phaseSelectionKeyboard(),
		})
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		text := strings.TrimSpace(c.Text())
		dayNumber, err := strconv.Atoi(text)
		if err != nil {
			// Not a day-number observation; nothing else expects free text.
			return c.Send("Я понимаю только число дня цикла (от 1 до 35) и команды. Используйте /help.")
		}

		logCtx := inputLogger.WithFields(logrus.Fields{
			"sender_id":  c.Sender().ID,
			"day_number": dayNumber,
		})
		logCtx.Info("Processing day number input")

		return saveDayAndReply(ctx, c, entryService, dayNumber, logCtx)
	})
}

// saveDayAndReply runs a day number through the entry service and renders the
// outcome. Shared by the numeric input and the phase-selection callbacks.
func saveDayAndReply(ctx context.Context, c telebot.Context, entryService *app.EntryService, dayNumber int, logCtx *logrus.Entry) error {
	result, err := entryService.RecordDay(ctx, c.Sender().ID, dayNumber)
	if err != nil {
		switch {
		case errors.Is(err, idb.ErrUserNotFound):
			return c.Send("Пользователь не найден. Пожалуйста, используйте команду /start.")
		case errors.Is(err, cycle.ErrDayOutOfRange):
			return c.Send(fmt.Sprintf("День цикла должен быть от 1 до %d.", cycle.MaxCycleDay))
		case errors.Is(err, cycle.ErrUnclassifiableDay):
			return c.Send("Не удалось определить фазу для этого дня. Проверьте длину цикла в /settings.")
		default:
			logCtx.WithError(err).Error("Failed to record cycle day")
			return c.Send("Произошла ошибка при сохранении. Пожалуйста, попробуйте позже.")
		}
	}

	responseText := fmt.Sprintf("✅ День цикла сохранён!\n\n%s", app.FormatPhaseInfo(result.PhaseInfo))
	if result.Transition {
		responseText = fmt.Sprintf("🔄 Переход в новую фазу!\n\n%s", responseText)
	}

	logCtx.WithFields(logrus.Fields{
		"phase":      result.PhaseInfo.Phase,
		"transition": result.Transition,
	}).Info("Cycle day recorded")

	return c.Send(responseText, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}
