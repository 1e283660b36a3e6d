// Package tui is the terminal front end: a month calendar, a task list and a
// per-day answering view built on Bubble Tea.
package tui

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"qac/internal/extract"
	"qac/internal/i18n"
	"qac/internal/kvstore"
	"qac/internal/provider"
	"qac/internal/quiz"
	"qac/internal/record"
	"qac/internal/retention"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// viewID 当前视图 / viewID identifies the active view
type viewID int

const (
	viewCalendar viewID = iota
	viewTasks
	viewDetail
)

// Deps TUI 运行所需的外部依赖 / Deps are the collaborators the TUI drives
type Deps struct {
	Store   *kvstore.Store
	Records *record.Manager
	Engine  *retention.Engine
	// Fetch 请求模型返回题目文本; nil 表示仅用内置题库
	// Fetch asks the model for question text; nil means built-in questions only
	Fetch  func(ctx context.Context, settings quiz.Settings) (string, error)
	Parse  record.ExtractFunc
	Logger *quiz.Logger
	Locale *i18n.I18n
	Now    func() time.Time
}

// --- Tea Messages ---

// questionsLoadedMsg 某日题目就绪 / questionsLoadedMsg carries a day's questions
type questionsLoadedMsg struct {
	day       time.Time
	rec       quiz.DailyRecord
	questions []quiz.Question
	err       error
}

// taskItem 任务列表一行 / taskItem is one task list row
type taskItem struct {
	date string
	rec  quiz.DailyRecord
}

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 依赖 / Collaborators
	store   *kvstore.Store
	records *record.Manager
	engine  *retention.Engine
	fetch   func(ctx context.Context, settings quiz.Settings) (string, error)
	parse   record.ExtractFunc
	logger  *quiz.Logger
	now     func() time.Time

	// 视图状态 / View state
	view      viewID
	viewYear  int
	viewMonth time.Month
	cursor    time.Time
	tasks     []taskItem
	taskIdx   int
	detail    detailModel
	loading   bool
	status    string

	// 统计 / Stats line
	completed    int
	lowSpace     bool
	remainingPct float64

	// 配置 / Config
	theme  Theme
	keys   KeyMap
	locale *i18n.I18n
}

// NewApp 创建 TUI 应用 / NewApp creates the TUI application
func NewApp(deps Deps) App {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Locale == nil {
		deps.Locale = i18n.Global()
	}
	today := deps.Now()

	a := App{
		store:     deps.Store,
		records:   deps.Records,
		engine:    deps.Engine,
		fetch:     deps.Fetch,
		parse:     deps.Parse,
		logger:    deps.Logger,
		now:       deps.Now,
		view:      viewCalendar,
		viewYear:  today.Year(),
		viewMonth: today.Month(),
		cursor:    today,
		theme:     DarkTheme(),
		keys:      DefaultKeyMap(),
		locale:    deps.Locale,
	}
	a.refreshStats()
	return a
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case questionsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.status = a.theme.ErrorStyle.Render(describeError(msg.err, a.locale))
			a.view = viewCalendar
			return a, nil
		}
		a.detail = newDetail(quiz.FormatDateKey(msg.day), msg.rec, msg.questions)
		a.detail.day = msg.day
		a.detail.restoreAnswer()
		a.view = viewDetail
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) && a.view != viewDetail {
			return a, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.view {
		case viewCalendar:
			return a.updateCalendar(msg)
		case viewTasks:
			return a.updateTasks(msg)
		case viewDetail:
			return a.updateDetail(msg)
		}
	}
	return a, nil
}

func (a App) View() string {
	switch a.view {
	case viewTasks:
		return a.renderTasks()
	case viewDetail:
		return a.renderDetail()
	default:
		return a.renderCalendar()
	}
}

// --- 日历视图 / Calendar view ---

func (a App) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Left):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Right):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-7)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(7)
	case key.Matches(msg, a.keys.PrevMonth):
		a.shiftMonth(-1)
	case key.Matches(msg, a.keys.NextMonth):
		a.shiftMonth(1)
	case key.Matches(msg, a.keys.Today):
		today := a.now()
		a.cursor = today
		a.viewYear, a.viewMonth = today.Year(), today.Month()
	case key.Matches(msg, a.keys.Tasks):
		a.loadTasks()
		a.view = viewTasks
	case key.Matches(msg, a.keys.Open):
		return a.openDay(a.cursor)
	}
	return a, nil
}

func (a *App) moveCursor(days int) {
	a.cursor = a.cursor.AddDate(0, 0, days)
	a.viewYear, a.viewMonth = a.cursor.Year(), a.cursor.Month()
	a.status = ""
}

func (a *App) shiftMonth(offset int) {
	first := time.Date(a.viewYear, a.viewMonth, 1, 0, 0, 0, 0, time.Local)
	shifted := first.AddDate(0, offset, 0)
	a.viewYear, a.viewMonth = shifted.Year(), shifted.Month()
	a.cursor = shifted
	a.status = ""
}

// openDay 打开某天；未来日期不可进入
// openDay opens one day; future dates are not selectable
func (a App) openDay(day time.Time) (tea.Model, tea.Cmd) {
	today := a.now()
	if quiz.FormatDateKey(day) > quiz.FormatDateKey(today) {
		a.status = a.theme.MutedStyle.Render(a.locale.T("calendar.future"))
		return a, nil
	}

	a.loading = true
	a.status = ""
	a.view = viewDetail
	a.detail = detailModel{date: quiz.FormatDateKey(day), day: day}
	return a, a.loadQuestionsCmd(day)
}

func (a App) loadQuestionsCmd(day time.Time) tea.Cmd {
	records := a.records
	store := a.store
	fetch := a.fetch
	parse := a.parse
	return func() tea.Msg {
		var settings quiz.Settings
		store.Get(quiz.KeySettings, &settings)

		var fetchFn record.FetchFunc
		if fetch != nil {
			fetchFn = func(ctx context.Context) (string, error) {
				return fetch(ctx, settings)
			}
		}

		questions, err := records.QuestionsForDate(
			context.Background(), day, settings.APIConfigured(), fetchFn, parse)
		if errors.Is(err, record.ErrSimplified) {
			// 精简记录只剩成绩, 展示只读摘要 / simplified records keep only the
			// score, show the read-only summary
			rec, loadErr := records.LoadForDate(day)
			if loadErr != nil {
				return questionsLoadedMsg{day: day, err: loadErr}
			}
			return questionsLoadedMsg{day: day, rec: rec}
		}
		if err != nil {
			return questionsLoadedMsg{day: day, err: err}
		}
		rec, err := records.LoadForDate(day)
		if err != nil {
			return questionsLoadedMsg{day: day, err: err}
		}
		return questionsLoadedMsg{day: day, rec: rec, questions: questions}
	}
}

// --- 任务列表 / Task list ---

// loadTasks 汇总所有日期记录, 今天置顶, 其余按日期倒序
// loadTasks collects every dated record, today pinned first, the rest newest
// first
func (a *App) loadTasks() {
	keys, err := a.store.Keys()
	if err != nil {
		a.logger.Logf("list tasks: %v", err)
		return
	}
	todayKey := quiz.FormatDateKey(a.now())

	var items []taskItem
	for _, k := range keys {
		if _, ok := quiz.ParseDateKey(k); !ok {
			continue
		}
		var rec quiz.DailyRecord
		if !a.store.Get(k, &rec) {
			continue
		}
		items = append(items, taskItem{date: k, rec: rec})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].date == todayKey {
			return true
		}
		if items[j].date == todayKey {
			return false
		}
		return items[i].date > items[j].date
	})

	// 今天还没有记录也要出现在列表里 / today shows up even without a record yet
	if len(items) == 0 || items[0].date != todayKey {
		items = append([]taskItem{{date: todayKey, rec: quiz.NewDailyRecord()}}, items...)
	}
	a.tasks = items
	a.taskIdx = 0
}

func (a App) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.taskIdx > 0 {
			a.taskIdx--
		}
	case key.Matches(msg, a.keys.Down):
		if a.taskIdx < len(a.tasks)-1 {
			a.taskIdx++
		}
	case key.Matches(msg, a.keys.Open):
		if a.taskIdx < len(a.tasks) {
			if day, ok := quiz.ParseDateKey(a.tasks[a.taskIdx].date); ok {
				return a.openDay(day)
			}
		}
	case key.Matches(msg, a.keys.Back):
		a.view = viewCalendar
	}
	return a, nil
}

func (a App) renderTasks() string {
	var b strings.Builder
	b.WriteString(a.theme.TitleStyle.Render(a.locale.T("tasks.title")))
	b.WriteString("\n\n")

	if len(a.tasks) == 0 {
		b.WriteString(a.theme.MutedStyle.Render(a.locale.T("tasks.empty")))
		return b.String()
	}

	todayKey := quiz.FormatDateKey(a.now())
	for i, item := range a.tasks {
		line := item.date
		if item.date == todayKey {
			line += "  " + a.locale.T("tasks.today")
		}
		if item.rec.Submitted {
			line += "  " + a.locale.T("tasks.score", item.rec.CorrectCount, item.rec.TotalQuestions)
		}
		style := a.theme.OptionStyle
		if i == a.taskIdx {
			style = a.theme.OptionSelectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// --- 答题详情 / Detail view ---

func (a App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.loading {
		if key.Matches(msg, a.keys.Back) {
			a.loading = false
			a.view = viewCalendar
		}
		return a, nil
	}

	d := &a.detail

	switch {
	case key.Matches(msg, a.keys.Back):
		a.view = viewCalendar
		a.refreshStats()
		return a, nil

	case key.Matches(msg, a.keys.Redo):
		if d.rec.Submitted && !d.rec.Simplified {
			if err := a.records.Reset(d.day); err != nil {
				a.status = a.theme.ErrorStyle.Render(describeError(err, a.locale))
				a.view = viewCalendar
				return a, nil
			}
			return a.openDay(d.day)
		}
		return a, nil
	}

	if d.rec.Submitted || d.rec.Simplified {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Submit):
		return a.submitDetail()

	case key.Matches(msg, a.keys.Next):
		d.nextQuestion()
		return a, nil

	case key.Matches(msg, a.keys.Check):
		d.check(a.locale)
		return a, nil
	}

	q := d.current()
	if q != nil && q.Type == quiz.QuestionSelect {
		switch {
		case key.Matches(msg, a.keys.Up):
			d.moveOption(-1)
		case key.Matches(msg, a.keys.Down):
			d.moveOption(1)
		}
		return a, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return a, cmd
}

// submitDetail 提交当天作答 / submitDetail submits the day's answers
func (a App) submitDetail() (tea.Model, tea.Cmd) {
	d := &a.detail
	rec, err := a.records.Submit(d.day, d.session.Answers(), a.now())
	if err != nil {
		var ve *record.ValidationError
		if errors.As(err, &ve) {
			d.feedback = a.locale.T("detail.missing", ve.Missing)
			return a, nil
		}
		a.status = a.theme.ErrorStyle.Render(describeError(err, a.locale))
		a.view = viewCalendar
		return a, nil
	}
	d.rec = rec
	a.refreshStats()
	return a, nil
}

// --- 公共 / Shared ---

// refreshStats 刷新完成计数和存储余量 / refreshStats refreshes the stats line
func (a *App) refreshStats() {
	if a.engine != nil {
		a.completed = a.engine.CompletedTotal()
	}
	if a.store != nil {
		info := a.store.SpaceReport()
		a.remainingPct = info.RemainingPct
		a.lowSpace = a.store.LowSpace()
	}
}

// describeError 把核心层错误翻译成用户可读文案
// describeError turns core-layer errors into user-facing text
func describeError(err error, loc localizer) string {
	var extractErr *extract.Error
	var storeErr *kvstore.StorageFailure
	switch {
	case err == nil:
		return ""
	case errors.Is(err, provider.ErrTimeout):
		return loc.T("error.timeout")
	case errors.As(err, &extractErr):
		return loc.T("error.extract")
	case errors.As(err, &storeErr):
		return loc.T("error.storage", err)
	case errors.Is(err, record.ErrSimplified):
		return loc.T("tasks.empty")
	default:
		return loc.T("error.network", err)
	}
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(deps Deps) error {
	app := NewApp(deps)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
