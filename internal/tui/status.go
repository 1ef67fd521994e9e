package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgSearching      = "Searching…"
	MsgLoadingArticle = "Loading article…"
	MsgNoResults      = "No results"
	MsgNoHistory      = "No earlier searches"
	MsgNoLink         = "Article has no link"
)

// MsgShowing describes the visible paging window, e.g. "Showing 11–20 of 25".
func MsgShowing(start, end, total int) string {
	if total <= 0 || end < start {
		return MsgNoResults
	}
	return fmt.Sprintf("Showing %d–%d of %d", start, end, total)
}

func MsgRecalled(summary string) string {
	return "Recalled: " + strings.TrimSpace(summary)
}

func MsgTagsLoaded(n int) string {
	if n == 1 {
		return "1 tag available"
	}
	return fmt.Sprintf("%d tags available", n)
}
