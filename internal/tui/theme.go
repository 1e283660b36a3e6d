package tui

import "github.com/charmbracelet/lipgloss"

// Theme 定义 TUI 主题色彩和样式
// Theme defines TUI colors and styles
type Theme struct {
	// 基础色 / Base colors
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Danger  lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	TextDim lipgloss.Color
	Border  lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	MutedStyle     lipgloss.Style

	// 日历格子 / Calendar cells
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	FutureStyle   lipgloss.Style
	HighScore     lipgloss.Style
	MidScore      lipgloss.Style
	LowScore      lipgloss.Style

	// 答题详情 / Question detail
	OptionStyle         lipgloss.Style
	OptionSelectedStyle lipgloss.Style
	CorrectStyle        lipgloss.Style
	LockedStyle         lipgloss.Style
}

// DarkTheme 暗色主题（默认）
// DarkTheme is the default dark theme
func DarkTheme() Theme {
	t := Theme{
		Primary: lipgloss.Color("#7C3AED"),
		Accent:  lipgloss.Color("#06B6D4"),
		Danger:  lipgloss.Color("#EF4444"),
		Warning: lipgloss.Color("#F59E0B"),
		Success: lipgloss.Color("#10B981"),
		Muted:   lipgloss.Color("#6B7280"),
		Text:    lipgloss.Color("#E5E7EB"),
		TextDim: lipgloss.Color("#9CA3AF"),
		Border:  lipgloss.Color("#374151"),
	}

	t.TitleStyle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.StatusBarStyle = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(lipgloss.Color("#111827"))

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Danger).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.TodayStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.SelectedStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Primary).
		Bold(true)

	t.FutureStyle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.HighScore = lipgloss.NewStyle().
		Foreground(t.Success)

	t.MidScore = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.LowScore = lipgloss.NewStyle().
		Foreground(t.Danger)

	t.OptionStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)

	t.OptionSelectedStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Primary).
		Padding(0, 1)

	t.CorrectStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	t.LockedStyle = lipgloss.NewStyle().
		Foreground(t.Danger)

	return t
}
