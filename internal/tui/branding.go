package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/ntsearch/internal/config"
)

const AppName = "ntsearch"

// LogoLines is the canonical logo.
var LogoLines = []string{
	"█▄ █ ▀█▀ ▄▀▀ ██▀ ▄▀▄ █▀▄ ▄▀▀ █▄█",
	"█ ▀█  █  ▄██ █▄▄ █▀█ █▀▄ ▀▄▄ █ █",
}

const CompactLogo = `ntsearch ›`

var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#95E1D3"),
}

var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	SurfaceColor = lipgloss.Color("#16213E")
	TextColor    = lipgloss.Color("#EAEAEA")
	MutedColor   = lipgloss.Color("#94A3B8")

	WarnColor    = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#EF4444")
	SuccessColor = lipgloss.Color("#10B981")
)

var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	LabelStyle         lipgloss.Style
	ChipStyle          lipgloss.Style
	FieldErrorStyle    lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	CurrentPageStyle   lipgloss.Style
	DisabledStyle      lipgloss.Style
	HelpStyle          lipgloss.Style
	SeparatorStyle     lipgloss.Style
	StatusBarStyle     lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyTheme replaces the palette with configured colors. Empty entries
// keep the current color.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	LabelStyle = lipgloss.NewStyle().Foreground(TextColor).Width(11)

	ChipStyle = lipgloss.NewStyle().
		Foreground(SurfaceColor).
		Background(AccentColor).
		Padding(0, 1).
		MarginRight(1)

	FieldErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(SurfaceColor).
		Background(AccentColor).
		Bold(true)

	CurrentPageStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Underline(true)
	DisabledStyle = lipgloss.NewStyle().Foreground(MutedColor).Faint(true)
	HelpStyle = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
	SeparatorStyle = lipgloss.NewStyle().Foreground(MutedColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(MutedColor).Padding(0, 1)

	StatusInfoStyle = lipgloss.NewStyle().Foreground(MutedColor)
	StatusSuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	StatusWarnStyle = lipgloss.NewStyle().Foreground(WarnColor)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// GetWelcomeMessage is shown in place of the result list before the first search.
func GetWelcomeMessage(submitKey string) string {
	return GetCompactBanner(fmt.Sprintf("Fill in a filter and press %s to search", submitKey))
}

// ShowBanner writes the startup banner to w.
func ShowBanner(w io.Writer, version string) {
	lines := make([]string, len(LogoLines), len(LogoLines)+2)
	copy(lines, LogoLines)
	lines = append(lines, "")

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("Literature Search %s", versionTag))
	} else {
		lines = append(lines, "Literature Search")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := borderStyle.Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))
	fmt.Fprintln(w, lipgloss.NewStyle().Width(60).Align(lipgloss.Center).Render(banner))
}
