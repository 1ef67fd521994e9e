package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/ntsearch/internal/api"
	"github.com/pders01/ntsearch/internal/debuglog"
	"github.com/pders01/ntsearch/internal/search"
)

// fetchArticles runs req against the API. cancel is released once the
// call returns.
func (a *App) fetchArticles(ctx context.Context, cancel context.CancelFunc, req search.Request) tea.Cmd {
	source := a.source
	return func() tea.Msg {
		defer cancel()

		debuglog.WithFields(map[string]interface{}{
			"request": req.Token,
			"page":    req.Params.PageNum,
		}).Debugf("searching articles: %s", req.Params.Criteria.Summary())

		page, err := source.SearchArticles(ctx, req.Params.Values())
		if err != nil {
			return articlesFetchedMsg{token: req.Token, err: wrapErr("searching articles", err)}
		}
		return articlesFetchedMsg{token: req.Token, page: page}
	}
}

// loadTags fills the suggestion index from the tag listing.
func (a *App) loadTags() tea.Cmd {
	if a.suggester == nil || a.source == nil {
		return nil
	}
	source, suggester, timeout := a.source, a.suggester, a.config.API.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		tags, err := source.ListTags(ctx)
		if err != nil {
			return tagsLoadedMsg{err: wrapErr("listing tags", err)}
		}
		if err := suggester.Load(tags); err != nil {
			return tagsLoadedMsg{err: wrapErr("indexing tags", err)}
		}
		return tagsLoadedMsg{count: len(tags)}
	}
}

func (a *App) renderArticle(article api.Article) tea.Cmd {
	renderer, width := a.renderer, a.width
	return func() tea.Msg {
		content, err := renderer.Render(article, width)
		if err != nil {
			debuglog.Errorf("rendering article %d: %v", article.ID, err)
			content = fmt.Sprintf("Failed to render article: %v\n\n%s", err, renderer.Markdown(article))
		}
		return articleRenderedMsg{id: article.ID, content: content}
	}
}

func (a *App) recordHistory(c search.Criteria) tea.Cmd {
	if a.history == nil {
		return nil
	}
	store := a.history
	return func() tea.Msg {
		_, err := store.Record(c)
		return historyRecordedMsg{err: wrapErr("recording search", err)}
	}
}

func (a *App) recallHistory() tea.Cmd {
	if a.history == nil {
		return func() tea.Msg { return statusMsg{text: MsgNoHistory, kind: StatusWarn} }
	}
	store := a.history
	return func() tea.Msg {
		entry, err := store.Latest()
		return historyRecalledMsg{entry: entry, err: err}
	}
}

func (a *App) openLink(link string) tea.Cmd {
	if a.opener == nil {
		return nil
	}
	opener := a.opener
	return func() tea.Msg {
		if err := opener.Open(link); err != nil {
			debuglog.Warnf("opening %s: %v", link, err)
			return errorMsg{err: wrapErr("opening link", err)}
		}
		return statusMsg{text: "Opened " + link, kind: StatusSuccess}
	}
}
