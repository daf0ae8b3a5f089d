package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints a background color under every cell of the text it
// renders, including the spaces between styled segments. Plain lipgloss
// styling resets at segment boundaries and leaves unpainted gaps there.
// See https://github.com/charmbracelet/lipgloss/discussions/78
type BgStyle struct {
	base  lipgloss.Style
	space string
}

func NewBgStyle(bgColor string) BgStyle {
	base := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))
	return BgStyle{base: base, space: base.Render(" ")}
}

// Render styles text word by word so the background survives the ANSI
// resets lipgloss emits between words.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	styled := style.Background(b.base.GetBackground())
	if !strings.Contains(text, " ") {
		return styled.Render(text)
	}
	words := strings.Split(text, " ")
	out := make([]string, len(words))
	for i, w := range words {
		if w != "" {
			out[i] = styled.Render(w)
		}
	}
	return strings.Join(out, b.space)
}

// Space returns one background-painted space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n background-painted spaces.
func (b BgStyle) Spaces(n int) string {
	return b.base.Render(strings.Repeat(" ", n))
}

// Sep paints a separator string.
func (b BgStyle) Sep(sep string) string {
	return b.base.Render(sep)
}

// Join joins parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}
