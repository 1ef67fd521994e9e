package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncateEnd shortens s to at most limit terminal cells, ending in an
// ellipsis when it had to cut.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, "…")
}

// truncateMiddle keeps both ends of s and puts the ellipsis in the middle.
// Used for URLs and DOIs where the tail identifies the thing.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left

	head := runewidth.Truncate(s, left, "")
	r := []rune(s)
	var tail strings.Builder
	width := 0
	i := len(r)
	for i > 0 {
		w := runewidth.RuneWidth(r[i-1])
		if width+w > right {
			break
		}
		width += w
		i--
	}
	tail.WriteString(string(r[i:]))
	return head + "…" + tail.String()
}

// singleLine collapses whitespace so text fits a list row.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
