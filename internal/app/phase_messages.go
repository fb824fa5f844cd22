package app

import (
	"fmt"
	"strings"

	"cycle_companion_bot/internal/domain/cycle"
)

// phaseTexts holds the display name, emoji and the advice blocks for one
// phase. The map keys are the stable phase labels from the cycle package.
type phaseTexts struct {
	Name          string
	Emoji         string
	Description   string
	PartnerAdvice string
}

var phaseData = map[cycle.Phase]phaseTexts{
	cycle.PhaseMenstrual: {
		Name:          "Менструальная фаза",
		Emoji:         "🌑",
		Description:   "Период менструации. Энергия снижена, организму нужен отдых и забота.",
		PartnerAdvice: "Будьте терпеливы и заботливы. Горячий чай, плед и отсутствие лишних вопросов — лучшая поддержка.",
	},
	cycle.PhasePostmenstrual: {
		Name:          "Постменструальная фаза",
		Emoji:         "🌱",
		Description:   "Энергия и настроение растут. Хорошее время для активности и новых начинаний.",
		PartnerAdvice: "Отличное время для совместных планов, прогулок и активного отдыха.",
	},
	cycle.PhaseOvulatory: {
		Name:          "Овуляторная фаза",
		Emoji:         "🌕",
		Description:   "Пик энергии и общительности. Самые фертильные дни цикла.",
		PartnerAdvice: "Лучшие дни для романтики и общения. Внимание и комплименты особенно кстати.",
	},
	cycle.PhasePostovulatory: {
		Name:          "Постовуляторная фаза",
		Emoji:         "🌖",
		Description:   "Энергия постепенно снижается, организм переходит в более спокойный режим.",
		PartnerAdvice: "Поддерживайте спокойный ритм. Уютные вечера дома подойдут лучше шумных мероприятий.",
	},
	cycle.PhasePMS: {
		Name:          "ПМС",
		Emoji:         "🌧",
		Description:   "Возможны перепады настроения и повышенная чувствительность. Скоро начало нового цикла.",
		PartnerAdvice: "Максимум понимания, минимум критики. Не принимайте резкие реакции на свой счёт.",
	},
}

// FormatPhaseInfo renders a classification for the tracking user.
func FormatPhaseInfo(info *cycle.PhaseInfo) string {
	data, ok := phaseData[info.Phase]
	if !ok {
		return fmt.Sprintf("День цикла: %d/%d", info.DayNumber, info.CycleLength)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n", data.Emoji, data.Name)
	fmt.Fprintf(&b, "📅 День %d/%d (фаза: дни %d–%d)\n\n", info.DayNumber, info.CycleLength, info.PhaseStart, info.PhaseEnd)
	b.WriteString(data.Description)
	return b.String()
}

// FormatPartnerPhaseInfo renders a phase update for a partner, including the
// behavioral advice block.
func FormatPartnerPhaseInfo(info *cycle.PhaseInfo) (string, bool) {
	data, ok := phaseData[info.Phase]
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString("🔄 *Обновление фазы цикла*\n\n")
	fmt.Fprintf(&b, "%s *%s*\n", data.Emoji, data.Name)
	fmt.Fprintf(&b, "📅 День %d/%d\n\n", info.DayNumber, info.CycleLength)
	b.WriteString("*Как себя вести партнёру:*\n")
	b.WriteString(data.PartnerAdvice)
	return b.String(), true
}

// FormatStatistics renders the aggregate statistics view. The last five
// cycles are shown, newest first.
func FormatStatistics(stats cycle.UserStatistics) string {
	var lines []string

	if stats.CurrentCycleDay != nil {
		lines = append(lines, fmt.Sprintf("📅 *Текущий день цикла:* %d", *stats.CurrentCycleDay))
		if stats.CurrentPhase != "" {
			lines = append(lines, fmt.Sprintf("🔄 *Текущая фаза:* %s", capitalize(stats.CurrentPhase)))
		}
	} else {
		lines = append(lines, "📅 У вас пока нет записей о цикле.")
	}
	lines = append(lines, "")

	if stats.TotalCycles > 0 {
		lines = append(lines, fmt.Sprintf("📊 *Завершённых циклов:* %d", stats.TotalCycles))
		if stats.AverageCycleLength != nil {
			lines = append(lines, fmt.Sprintf("📈 *Средняя длина цикла:* %.1f дней", *stats.AverageCycleLength))
		}
	} else {
		lines = append(lines, "📊 У вас пока нет завершённых циклов.")
	}
	lines = append(lines, "")

	if len(stats.CyclesHistory) > 0 {
		lines = append(lines, "📋 *История циклов:*")
		history := stats.CyclesHistory
		if len(history) > 5 {
			history = history[len(history)-5:]
		}
		for i := len(history) - 1; i >= 0; i-- {
			c := history[i]
			n := len(history) - i
			startDate := c.StartDate.Format("02.01.2006")
			if c.Length != nil {
				lines = append(lines, fmt.Sprintf("%d. %s — %d дней (%d записей)", n, startDate, *c.Length, c.EntriesCount))
			} else {
				lines = append(lines, fmt.Sprintf("%d. %s — текущий цикл (%d записей)", n, startDate, c.EntriesCount))
			}
		}
	} else {
		lines = append(lines, "📋 История циклов пуста.")
	}

	lines = append(lines, "", fmt.Sprintf("📝 *Всего записей:* %d", stats.TotalEntries))
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
