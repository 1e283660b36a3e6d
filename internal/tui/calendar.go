package tui

import (
	"fmt"
	"strings"
	"time"

	"qac/internal/quiz"
)

// scoreClass 按正确率分档 / scoreClass buckets a score by correct ratio
type scoreClass int

const (
	scoreNone scoreClass = iota
	scoreLow
	scoreMid
	scoreHigh
)

// classifyScore 正确率 >= 80% 为高档, >= 60% 为中档
// classifyScore puts >= 80% correct in the high bucket and >= 60% in the mid
// bucket
func classifyScore(correct, total int) scoreClass {
	if total <= 0 {
		return scoreNone
	}
	ratio := float64(correct) / float64(total)
	switch {
	case ratio >= 0.8:
		return scoreHigh
	case ratio >= 0.6:
		return scoreMid
	default:
		return scoreLow
	}
}

// monthGrid 生成某月的周矩阵, 周日开头, 空位为零值
// monthGrid lays out a month as rows of weeks starting on Sunday, with zero
// values for padding cells
func monthGrid(year int, month time.Month) [][]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var weeks [][]time.Time
	week := make([]time.Time, 7)
	col := int(first.Weekday())

	for day := 1; day <= daysInMonth; day++ {
		week[col] = time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]time.Time, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// dayCell 单个日历格子的渲染内容 / dayCell renders one calendar cell
func (a App) dayCell(day time.Time, today time.Time) string {
	if day.IsZero() {
		return "    "
	}

	label := fmt.Sprintf("%2d", day.Day())
	key := quiz.FormatDateKey(day)

	var rec quiz.DailyRecord
	hasRec := a.store.Get(key, &rec) && rec.Submitted

	style := a.theme.MutedStyle
	switch {
	case day.After(today):
		style = a.theme.FutureStyle
	case hasRec:
		switch classifyScore(rec.CorrectCount, rec.TotalQuestions) {
		case scoreHigh:
			style = a.theme.HighScore
		case scoreMid:
			style = a.theme.MidScore
		default:
			style = a.theme.LowScore
		}
	}
	if quiz.FormatDateKey(day) == quiz.FormatDateKey(today) {
		style = a.theme.TodayStyle
	}
	if quiz.FormatDateKey(day) == quiz.FormatDateKey(a.cursor) {
		style = a.theme.SelectedStyle
	}

	marker := " "
	if hasRec {
		marker = "•"
	}
	return style.Render(label+marker) + " "
}

func (a App) renderCalendar() string {
	var b strings.Builder

	title := fmt.Sprintf("%s  %d-%02d", a.locale.T("calendar.title"), a.viewYear, int(a.viewMonth))
	b.WriteString(a.theme.TitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(a.theme.MutedStyle.Render(" " + a.locale.T("calendar.weekdays")))
	b.WriteString("\n")

	today := a.now()
	for _, week := range monthGrid(a.viewYear, a.viewMonth) {
		for _, day := range week {
			b.WriteString(a.dayCell(day, today))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.locale.T("calendar.stats", a.completed))
	b.WriteString("\n")

	if a.lowSpace {
		b.WriteString(a.theme.ErrorStyle.Render(a.locale.T("calendar.storage", a.remainingPct)))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(a.status)
		b.WriteString("\n")
	}
	b.WriteString(a.theme.MutedStyle.Render(a.locale.T("calendar.nav_hint")))
	return b.String()
}
