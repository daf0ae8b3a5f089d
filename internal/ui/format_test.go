package ui

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{61, "1:01"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7325, "2:02:05"},
		{-5, "0:00"},
		{-0.1, "0:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.seconds); got != tc.want {
			t.Errorf("formatClock(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestScoreColorBands(t *testing.T) {
	t.Parallel()

	high := scoreColor(0.81)
	mid := scoreColor(0.5)
	low := scoreColor(0.49)

	if high == mid || mid == low || high == low {
		t.Fatalf("expected three distinct bands, got %v %v %v", high, mid, low)
	}
	if mid != scoreColor(0.79) {
		t.Errorf("0.79 should fall in the warning band")
	}
	if high != scoreColor(0.8) {
		t.Errorf("0.8 should fall in the success band")
	}
	if low != scoreColor(0) {
		t.Errorf("0 should fall in the danger band")
	}
}

func TestExtractThinking(t *testing.T) {
	t.Parallel()

	trace, rest, ok := extractThinking("<think>x</think>y")
	if !ok || trace != "x" || rest != "y" {
		t.Fatalf("got (%q, %q, %v)", trace, rest, ok)
	}

	trace, rest, ok = extractThinking("plain answer")
	if ok || trace != "" || rest != "plain answer" {
		t.Fatalf("plain text should pass through, got (%q, %q, %v)", trace, rest, ok)
	}

	// Unpaired open tag is no match.
	_, rest, ok = extractThinking("<think>never closed")
	if ok || rest != "<think>never closed" {
		t.Fatalf("unpaired open tag should not match, got (%q, %v)", rest, ok)
	}

	// Unpaired close tag is no match.
	_, rest, ok = extractThinking("stray</think> tail")
	if ok || rest != "stray</think> tail" {
		t.Fatalf("unpaired close tag should not match, got (%q, %v)", rest, ok)
	}

	trace, rest, ok = extractThinking("prefix <think>deep</think> suffix")
	if !ok || trace != "deep" || rest != "prefix  suffix" {
		t.Fatalf("got (%q, %q, %v)", trace, rest, ok)
	}
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{930, "930"},
		{1000, "1k"},
		{1234, "1.2k"},
		{45_600, "45.6k"},
		{1_000_000, "1M"},
		{1_340_000, "1.3M"},
	}
	for _, tc := range cases {
		if got := formatTokens(tc.n); got != tc.want {
			t.Errorf("formatTokens(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	if got := percent(3, 8); got != "38%" {
		t.Errorf("percent(3, 8) = %q", got)
	}
	if got := percent(0, 0); got != "0%" {
		t.Errorf("percent(0, 0) = %q", got)
	}
	if got := percent(8, 8); got != "100%" {
		t.Errorf("percent(8, 8) = %q", got)
	}
}

func TestHumanizeDuration(t *testing.T) {
	t.Parallel()

	if got := humanizeDuration(500 * time.Millisecond); got != "now" {
		t.Errorf("got %q", got)
	}
	if got := humanizeDuration(42 * time.Second); got != "42s" {
		t.Errorf("got %q", got)
	}
	if got := humanizeDuration(5 * time.Minute); got != "5m" {
		t.Errorf("got %q", got)
	}
	if got := humanizeDuration(3 * time.Hour); got != "3h" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("a longer value", 8); got != "a longe…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("  padded  ", 20); got != "padded" {
		t.Errorf("got %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	if got := firstLine("\n\n  What is negligence?  \nmore"); got != "What is negligence?" {
		t.Errorf("got %q", got)
	}
	if got := firstLine(""); got != "" {
		t.Errorf("got %q", got)
	}
}
