package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Score bands are fixed constants, independent of the active theme, so a
// score reads the same everywhere it appears.
const (
	scoreSuccessColor = "#22c55e" // score >= 0.8
	scoreWarningColor = "#f59e0b" // 0.5 <= score < 0.8
	scoreDangerColor  = "#ef4444" // score < 0.5
)

// scoreColor maps a judge score to its display band color.
func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 0.8:
		return lipgloss.Color(scoreSuccessColor)
	case score >= 0.5:
		return lipgloss.Color(scoreWarningColor)
	default:
		return lipgloss.Color(scoreDangerColor)
	}
}

func scoreStyle(score float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(scoreColor(score)).Bold(true)
}

// formatClock renders elapsed or remaining seconds as H:MM:SS when at
// least an hour, M:SS otherwise. Negative or non-finite input renders the
// zero placeholder.
func formatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00"
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

const (
	thinkOpenTag  = "<think>"
	thinkCloseTag = "</think>"
)

// extractThinking splits text containing one delimited thinking segment
// into the trace and the remainder with the segment removed. Unpaired tags
// count as no match: the remainder is the original text and ok is false.
func extractThinking(text string) (trace, remainder string, ok bool) {
	open := strings.Index(text, thinkOpenTag)
	if open < 0 {
		return "", text, false
	}
	rest := text[open+len(thinkOpenTag):]
	end := strings.Index(rest, thinkCloseTag)
	if end < 0 {
		return "", text, false
	}
	trace = rest[:end]
	remainder = text[:open] + rest[end+len(thinkCloseTag):]
	return trace, remainder, true
}

// formatTokens abbreviates token counts for table columns: 930, 4.2k, 1.3M.
func formatTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000)) + "k"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// percent renders a part of a whole as a whole-number percentage.
func percent(part, whole int) string {
	if whole <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(part)/float64(whole)*100)))
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// firstLine collapses a multi-line text to its first non-empty line,
// used for question previews in tables.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
