package telegram

import (
	"fmt"

	"cycle_companion_bot/internal/domain/user"

	"gopkg.in/telebot.v3"
)

// Configurable cycle lengths offered in settings.
const (
	minCycleLength = 26
	maxCycleLength = 35
)

func settingsText(u *user.User) string {
	status := "выключены"
	if u.NotificationsEnabled {
		status = "включены"
	}
	return fmt.Sprintf("⚙️ *Настройки*\n\nДлина цикла: %d дней\nУведомления: %s", u.CycleLength, status)
}

func settingsKeyboard(u *user.User) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	toggleLabel := "Включить уведомления"
	if u.NotificationsEnabled {
		toggleLabel = "Выключить уведомления"
	}

	btnLength := markup.Data("Изменить длину цикла", "settings_cycle_length")
	btnToggle := markup.Data(toggleLabel, "settings_notifications_toggle")
	markup.Inline(markup.Row(btnLength), markup.Row(btnToggle))
	return markup
}

func cycleLengthKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	var rows []telebot.Row
	var row []telebot.Btn
	for length := minCycleLength; length <= maxCycleLength; length++ {
		row = append(row, markup.Data(fmt.Sprintf("%d", length), fmt.Sprintf("cyclen_%d", length)))
		if len(row) == 5 {
			rows = append(rows, markup.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, markup.Row(row...))
	}
	markup.Inline(rows...)
	return markup
}

func phaseSelectionKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🌑 Менструация", "phase_menstrual")),
		markup.Row(markup.Data("🌱 После менструации", "phase_postmenstrual")),
		markup.Row(markup.Data("🌕 Овуляция", "phase_ovulatory")),
		markup.Row(markup.Data("🌧 ПМС", "phase_pms")),
		markup.Row(markup.Data("📝 Ввести число", "phase_manual_input")),
		markup.Row(markup.Data("⏭ Пропустить", "phase_skip")),
	)
	return markup
}

func confirmRemovePartnerKeyboard(partnerID int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Да, удалить", fmt.Sprintf("partner_confirm_%d", partnerID)),
		markup.Data("❌ Отмена", "partner_cancel"),
	))
	return markup
}
