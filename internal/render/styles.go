package render

import "github.com/charmbracelet/lipgloss"

var (
	primary   = lipgloss.Color("#7c3aed")
	secondary = lipgloss.Color("#06b6d4")
	accent    = lipgloss.Color("#10b981")

	success = lipgloss.Color("#22c55e")
	warning = lipgloss.Color("#f59e0b")
	danger  = lipgloss.Color("#ef4444")
	info    = lipgloss.Color("#3b82f6")

	background = lipgloss.Color("#0f172a")
	border     = lipgloss.Color("#334155")
	text       = lipgloss.Color("#f1f5f9")
	textMuted  = lipgloss.Color("#94a3b8")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(text).
			Bold(true)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	selectedStyle = lipgloss.NewStyle().
			Foreground(background).
			Background(primary).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true)

	chipStyle = lipgloss.NewStyle().
			Foreground(accent).
			Padding(0, 1)

	matchChipStyle = lipgloss.NewStyle().
			Foreground(success)

	gapChipStyle = lipgloss.NewStyle().
			Foreground(warning)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(primary)
)

var alertStyles = map[Level]lipgloss.Style{
	LevelInfo:    lipgloss.NewStyle().Foreground(info),
	LevelSuccess: lipgloss.NewStyle().Foreground(success).Bold(true),
	LevelWarning: lipgloss.NewStyle().Foreground(warning).Bold(true),
	LevelError:   lipgloss.NewStyle().Foreground(danger).Bold(true),
}

// KeyHelp renders key bindings as coloured badges.
func KeyHelp(keys ...string) string {
	colors := []lipgloss.Color{primary, accent, secondary, info}

	parts := make([]string, 0, len(keys))
	for i, key := range keys {
		keyStyle := lipgloss.NewStyle().
			Foreground(colors[i%len(colors)]).
			Bold(true).
			MarginRight(1)

		parts = append(parts, keyStyle.Render(key))
	}

	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
