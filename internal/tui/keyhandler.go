package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/ntsearch/internal/debuglog"
)

type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.app.keys.Quit) {
		return kh.app, tea.Quit
	}

	if kh.app.view == ViewReader {
		return kh.handleReaderKeys(msg)
	}
	return kh.handleSearchKeys(msg)
}

func (kh *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch {
	case key.Matches(msg, a.keys.Submit):
		return a, a.submit()
	case key.Matches(msg, a.keys.Recall):
		return a, a.recallHistory()
	case key.Matches(msg, a.keys.Back):
		return kh.navigateBack()
	case key.Matches(msg, a.keys.Next):
		if a.focus == a.focusIndex(focusTags) && kh.completeTag() {
			return a, nil
		}
		return a, a.cycleFocus(1)
	case key.Matches(msg, a.keys.Prev):
		return a, a.cycleFocus(-1)
	}

	if a.focus == a.focusIndex(focusResults) {
		return kh.handleResultsKeys(msg)
	}
	return kh.handleInputKeys(msg)
}

func (kh *KeyHandler) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "enter":
		switch a.focus {
		case a.focusIndex(focusAuthors):
			if label := strings.TrimSpace(a.authorInput.Value()); label != "" {
				a.vm.AddAuthor(label)
				a.authorInput.Reset()
				return a, nil
			}
		case a.focusIndex(focusTags):
			if label := strings.TrimSpace(a.tagInput.Value()); label != "" {
				a.vm.AddTag(label)
				a.tagInput.Reset()
				a.suggestions = nil
				return a, nil
			}
		}
		return a, a.submit()

	case "backspace":
		switch {
		case a.focus == a.focusIndex(focusAuthors) && a.authorInput.Value() == "":
			a.vm.PopAuthor()
			return a, nil
		case a.focus == a.focusIndex(focusTags) && a.tagInput.Value() == "":
			a.vm.PopTag()
			return a, nil
		}
	}

	return kh.delegateToTextInput(msg)
}

// delegateToTextInput passes the key to the focused input and copies
// the new value into the view-model.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch {
	case a.focus < len(a.inputs):
		prev := a.inputs[a.focus].Value()
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		if value := a.inputs[a.focus].Value(); value != prev {
			if err := a.vm.SetField(a.fields[a.focus].Key, value); err != nil {
				debuglog.Errorf("setting field %s: %v", a.fields[a.focus].Key, err)
			}
		}

	case a.focus == a.focusIndex(focusAuthors):
		a.authorInput, cmd = a.authorInput.Update(msg)

	case a.focus == a.focusIndex(focusTags):
		prev := a.tagInput.Value()
		a.tagInput, cmd = a.tagInput.Update(msg)
		if a.tagInput.Value() != prev {
			a.updateSuggestions()
		}
	}

	return a, cmd
}

// completeTag replaces the tag input with the best suggestion. It reports
// false when there was nothing to complete.
func (kh *KeyHandler) completeTag() bool {
	a := kh.app
	if strings.TrimSpace(a.tagInput.Value()) == "" || len(a.suggestions) == 0 {
		return false
	}
	best := a.suggestions[0]
	if strings.EqualFold(strings.TrimSpace(a.tagInput.Value()), best) {
		return false
	}
	a.tagInput.SetValue(best)
	a.tagInput.CursorEnd()
	a.updateSuggestions()
	return true
}

func (kh *KeyHandler) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch {
	case key.Matches(msg, a.keys.PageNext):
		return a, a.changePage(1)
	case key.Matches(msg, a.keys.PagePrev):
		return a, a.changePage(-1)
	case key.Matches(msg, a.keys.Open):
		if item, ok := a.resultList.SelectedItem().(articleItem); ok {
			return a, a.openReader(item.article)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.resultList, cmd = a.resultList.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch {
	case key.Matches(msg, a.keys.Back):
		return kh.navigateBack()
	case key.Matches(msg, a.keys.OpenLink):
		if a.current == nil {
			return a, nil
		}
		link, ok := a.links.Best(*a.current)
		if !ok {
			a.setStatus(MsgNoLink, StatusWarn)
			return a, nil
		}
		return a, a.openLink(link.URL)
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// navigateBack leaves the reader, then the result list, then the app.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch {
	case a.view == ViewReader:
		a.closeReader()
		return a, nil
	case a.focus == a.focusIndex(focusResults):
		return a, a.setFocus(0)
	default:
		return a, tea.Quit
	}
}

// GetHelpForCurrentView returns the bindings worth showing right now.
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.app.keys

	if kh.app.view == ViewReader {
		bindings := []key.Binding{k.Back}
		if kh.app.opener != nil {
			bindings = append(bindings, k.OpenLink)
		}
		return append(bindings, k.Quit)
	}

	if kh.app.focus == kh.app.focusIndex(focusResults) {
		bindings := []key.Binding{k.Open}
		if kh.app.vm.NumPages() > 1 {
			bindings = append(bindings, k.PagePrev, k.PageNext)
		}
		return append(bindings, k.Next, k.Back, k.Quit)
	}

	bindings := []key.Binding{k.Submit}
	if kh.app.history != nil {
		bindings = append(bindings, k.Recall)
	}
	return append(bindings, k.Next, k.Quit)
}
