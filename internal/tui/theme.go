package tui

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors the screens draw with.
type Palette struct {
	Surface     lipgloss.Color
	Border      lipgloss.Color
	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color
	Accent      lipgloss.Color
	Green       lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color
	Blue        lipgloss.Color
}

// Flexoki dark, paper-inspired.
var palette = Palette{
	Surface:     lipgloss.Color("#1C1B1A"),
	Border:      lipgloss.Color("#403E3C"),
	TextDim:     lipgloss.Color("#575653"),
	TextMuted:   lipgloss.Color("#878580"),
	TextPrimary: lipgloss.Color("#FFFCF0"),
	Accent:      lipgloss.Color("#3AA99F"),
	Green:       lipgloss.Color("#879A39"),
	Orange:      lipgloss.Color("#DA702C"),
	Red:         lipgloss.Color("#D14D41"),
	Blue:        lipgloss.Color("#4385BE"),
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(palette.Accent).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(palette.TextMuted)
	valueStyle    = lipgloss.NewStyle().Foreground(palette.TextPrimary)
	dimStyle      = lipgloss.NewStyle().Foreground(palette.TextDim)
	selectedStyle = lipgloss.NewStyle().Foreground(palette.Accent).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(palette.Red)
	successStyle  = lipgloss.NewStyle().Foreground(palette.Green)
	infoStyle     = lipgloss.NewStyle().Foreground(palette.Blue)
	warnStyle     = lipgloss.NewStyle().Foreground(palette.Orange).Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Border).
			Padding(0, 1).
			Width(28)

	mainStyle = lipgloss.NewStyle().Padding(0, 2)

	pillStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Border).
			Padding(0, 2).
			MarginRight(1)

	tabStyle       = lipgloss.NewStyle().Foreground(palette.TextMuted).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(palette.TextPrimary).Background(palette.Surface).Bold(true).Padding(0, 1)
)
