package tui

import (
	"fmt"
	"strings"
	"time"

	"qac/internal/quiz"
	"qac/internal/record"

	"github.com/charmbracelet/bubbles/textinput"
)

// detailModel 单日答题详情的状态 / detailModel holds one day's quiz state
type detailModel struct {
	date      string
	day       time.Time
	rec       quiz.DailyRecord
	questions []quiz.Question
	session   *record.SessionState
	idx       int
	optCursor int
	input     textinput.Model
	feedback  string
}

func newDetail(date string, rec quiz.DailyRecord, questions []quiz.Question) detailModel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Focus()

	d := detailModel{
		date:      date,
		rec:       rec,
		questions: questions,
		session:   record.NewSessionState(),
		input:     ti,
	}
	return d
}

func (d *detailModel) current() *quiz.Question {
	if d.idx < 0 || d.idx >= len(d.questions) {
		return nil
	}
	return &d.questions[d.idx]
}

// currentAnswer 当前题的待检查答案 / currentAnswer is the answer about to be checked
func (d *detailModel) currentAnswer() string {
	q := d.current()
	if q == nil {
		return ""
	}
	if q.Type == quiz.QuestionSelect {
		if d.optCursor >= 0 && d.optCursor < len(q.Options) {
			return q.Options[d.optCursor]
		}
		return ""
	}
	return d.input.Value()
}

// moveOption 在选项间移动光标 / moveOption moves the option cursor
func (d *detailModel) moveOption(delta int) {
	q := d.current()
	if q == nil || q.Type != quiz.QuestionSelect || len(q.Options) == 0 {
		return
	}
	d.optCursor = (d.optCursor + delta + len(q.Options)) % len(q.Options)
}

// nextQuestion 切到下一题并恢复已记录的作答
// nextQuestion advances to the next question and restores any recorded answer
func (d *detailModel) nextQuestion() {
	if len(d.questions) == 0 {
		return
	}
	d.idx = (d.idx + 1) % len(d.questions)
	d.feedback = ""
	d.restoreAnswer()
}

func (d *detailModel) restoreAnswer() {
	q := d.current()
	if q == nil {
		return
	}
	recorded := d.session.Answers()[q.ID]
	if q.Type == quiz.QuestionSelect {
		d.optCursor = 0
		for i, opt := range q.Options {
			if opt == recorded {
				d.optCursor = i
				break
			}
		}
		return
	}
	d.input.SetValue(recorded)
	d.input.CursorEnd()
}

// check 记录当前答案并按两次机会规则评估
// check records the current answer and evaluates it under the two-attempt rule
func (d *detailModel) check(loc localizer) {
	q := d.current()
	if q == nil {
		return
	}
	answer := strings.TrimSpace(d.currentAnswer())
	if answer == "" {
		return
	}
	res := d.session.Check(*q, answer)
	switch {
	case res.State == record.Correct && res.Evaluated:
		d.feedback = loc.T("detail.correct")
	case res.State == record.Locked:
		d.feedback = loc.T("detail.locked", q.Answer)
	case res.State == record.Correct:
		// 已答对后的重复检查 / repeat check after a correct answer
		d.feedback = loc.T("detail.correct")
	default:
		d.feedback = loc.T("detail.wrong_hint", res.Hint)
	}
}

// localizer 让 detail 渲染不依赖具体 i18n 实例
// localizer keeps detail rendering decoupled from the concrete i18n instance
type localizer interface {
	T(key string, args ...any) string
}

func (a App) renderDetail() string {
	d := &a.detail
	var b strings.Builder

	b.WriteString(a.theme.TitleStyle.Render(d.date))
	b.WriteString("\n\n")

	if a.loading {
		b.WriteString(a.locale.T("detail.loading"))
		return b.String()
	}

	if d.rec.Simplified {
		b.WriteString(a.locale.T("detail.score", d.rec.CorrectCount, d.rec.TotalQuestions))
		b.WriteString("\n")
		b.WriteString(a.theme.MutedStyle.Render(a.locale.T("detail.submitted", d.rec.SubmitTime)))
		return b.String()
	}

	if d.rec.Submitted {
		b.WriteString(a.renderSubmitted(d))
		return b.String()
	}

	q := d.current()
	if q == nil {
		b.WriteString(a.locale.T("tasks.empty"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%d/%d  %s\n\n", d.idx+1, len(d.questions), q.Question))

	if q.Type == quiz.QuestionSelect {
		for i, opt := range q.Options {
			style := a.theme.OptionStyle
			if i == d.optCursor {
				style = a.theme.OptionSelectedStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("%c. %s", 'A'+i, opt)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(d.input.View())
		b.WriteString("\n")
	}

	if d.feedback != "" {
		b.WriteString("\n")
		state := d.session.State(q.ID)
		switch state {
		case record.Correct:
			b.WriteString(a.theme.CorrectStyle.Render(d.feedback))
		case record.Locked:
			b.WriteString(a.theme.LockedStyle.Render(d.feedback))
		default:
			b.WriteString(d.feedback)
		}
		b.WriteString("\n")
		if (state == record.Correct || state == record.Locked) && q.Thinking != "" {
			b.WriteString("\n")
			b.WriteString(a.theme.TitleStyle.Render(a.locale.T("detail.thinking")))
			b.WriteString("\n")
			b.WriteString(RenderMarkdown(q.Thinking, a.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.theme.MutedStyle.Render(a.locale.T("detail.input_hint")))
	return b.String()
}

// renderSubmitted 已提交的只读回看 / renderSubmitted is the read-only review view
func (a App) renderSubmitted(d *detailModel) string {
	var b strings.Builder
	b.WriteString(a.theme.SuccessStyle.Render(a.locale.T("detail.score", d.rec.CorrectCount, d.rec.TotalQuestions)))
	b.WriteString("\n")
	b.WriteString(a.theme.MutedStyle.Render(a.locale.T("detail.submitted", d.rec.SubmitTime)))
	b.WriteString("\n\n")

	for i, q := range d.rec.Questions {
		mark := "✗"
		style := a.theme.LockedStyle
		if ans, ok := d.rec.Answers[q.ID]; ok && ans.Correct {
			mark = "✓"
			style = a.theme.CorrectStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %d. %s", mark, i+1, q.Question)))
		b.WriteString("\n")
		if ans, ok := d.rec.Answers[q.ID]; ok && !ans.Correct {
			b.WriteString(a.theme.MutedStyle.Render(fmt.Sprintf("   %s → %s", ans.Answer, q.Answer)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.theme.MutedStyle.Render("ctrl+r " + a.locale.T("tasks.redo") + "  esc " + a.locale.T("tasks.opened")))
	return b.String()
}
