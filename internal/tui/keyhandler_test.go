package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/ntsearch/internal/api"
	"github.com/pders01/ntsearch/internal/config"
)

func helpKeys(bindings []key.Binding) []string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		out[i] = b.Help().Key
	}
	return out
}

func TestKeyHandler_Quit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlQ} {
		app := newTestApp(t, Deps{})
		cmd := press(app, k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestKeyHandler_CustomModifier(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	app := NewApp(cfg, Deps{Source: &fakeSource{}})

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s"), Alt: true}, app.keys.Submit))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, app.keys.Submit))
}

func TestKeyHandler_FocusCycle(t *testing.T) {
	app := newTestApp(t, Deps{})
	n := len(app.inputs)

	for i := 1; i < n; i++ {
		press(app, tea.KeyTab)
		assert.Equal(t, i, app.focus)
		assert.True(t, app.inputs[i].Focused())
		assert.False(t, app.inputs[i-1].Focused())
	}

	press(app, tea.KeyTab)
	assert.Equal(t, app.focusIndex(focusAuthors), app.focus)
	assert.True(t, app.authorInput.Focused())

	press(app, tea.KeyTab)
	assert.Equal(t, app.focusIndex(focusTags), app.focus)

	press(app, tea.KeyTab)
	assert.Equal(t, 0, app.focus, "results are skipped while empty")

	press(app, tea.KeyShiftTab)
	assert.Equal(t, app.focusIndex(focusTags), app.focus)
}

func TestKeyHandler_FocusReachesResults(t *testing.T) {
	source := &fakeSource{pages: []*api.ArticlePage{{Results: articles("a"), Count: 1}}}
	app := newTestApp(t, Deps{Source: source})
	typeText(app, "x")
	submitAndApply(t, app)

	app.setFocus(app.focusIndex(focusTags))
	press(app, tea.KeyTab)
	assert.Equal(t, app.focusIndex(focusResults), app.focus)

	press(app, tea.KeyEsc)
	assert.Equal(t, 0, app.focus, "esc leaves the result list first")
}

func TestKeyHandler_EscQuitsFromForm(t *testing.T) {
	app := newTestApp(t, Deps{})
	cmd := press(app, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestKeyHandler_AuthorChips(t *testing.T) {
	app := newTestApp(t, Deps{})
	app.setFocus(app.focusIndex(focusAuthors))

	typeText(app, "Smith J")
	press(app, tea.KeyEnter)
	typeText(app, "smith  j")
	press(app, tea.KeyEnter)
	typeText(app, "Doe A")
	press(app, tea.KeyEnter)

	assert.Equal(t, []string{"Smith J", "Doe A"}, app.vm.Authors())
	assert.Empty(t, app.authorInput.Value())
	assert.False(t, app.vm.Status().DisableSubmit)

	press(app, tea.KeyBackspace)
	assert.Equal(t, []string{"Smith J"}, app.vm.Authors())
}

func TestKeyHandler_BackspaceEditsNonEmptyInput(t *testing.T) {
	app := newTestApp(t, Deps{})
	app.setFocus(app.focusIndex(focusTags))
	app.vm.AddTag("spm")

	typeText(app, "fs")
	press(app, tea.KeyBackspace)

	assert.Equal(t, "f", app.tagInput.Value())
	assert.Equal(t, []string{"spm"}, app.vm.Tags())
}

func TestKeyHandler_EnterOnEmptyChipInputSubmits(t *testing.T) {
	source := &fakeSource{}
	app := newTestApp(t, Deps{Source: source})
	app.setFocus(app.focusIndex(focusTags))

	typeText(app, "spm")
	press(app, tea.KeyEnter)
	require.Equal(t, []string{"spm"}, app.vm.Tags())

	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)
	collect(cmd)
	assert.Equal(t, []string{"spm"}, source.lastCall(t)["tags"])
}

func TestKeyHandler_EnterInFieldSubmits(t *testing.T) {
	source := &fakeSource{}
	app := newTestApp(t, Deps{Source: source})

	typeText(app, "cortex")
	collect(press(app, tea.KeyEnter))

	assert.Equal(t, "cortex", source.lastCall(t).Get("title"))
}

func TestKeyHandler_TagCompletion(t *testing.T) {
	sugg := &fakeSuggester{labels: []string{"smoothing", "smoothing kernel", "spm"}}
	app := newTestApp(t, Deps{Suggester: sugg})
	app.setFocus(app.focusIndex(focusTags))

	typeText(app, "smo")
	assert.Equal(t, []string{"smoothing", "smoothing kernel"}, app.suggestions)
	assert.Contains(t, app.View(), "smoothing kernel")

	press(app, tea.KeyTab)
	assert.Equal(t, "smoothing", app.tagInput.Value())
	assert.Equal(t, app.focusIndex(focusTags), app.focus, "completion keeps focus")

	press(app, tea.KeyEnter)
	assert.Equal(t, []string{"smoothing"}, app.vm.Tags())
	assert.Empty(t, app.suggestions)

	typeText(app, "smo")
	assert.Equal(t, []string{"smoothing kernel"}, app.suggestions, "selected tags are not suggested")

	app.tagInput.Reset()
	app.suggestions = nil
	press(app, tea.KeyTab)
	assert.Equal(t, 0, app.focus, "tab on an empty tag input moves on")
}

func TestKeyHandler_HelpForCurrentView(t *testing.T) {
	t.Run("form without history", func(t *testing.T) {
		app := newTestApp(t, Deps{})
		assert.Equal(t, []string{"ctrl+s", "tab", "ctrl+q"}, helpKeys(app.keyHandler.GetHelpForCurrentView()))
	})

	t.Run("form with history", func(t *testing.T) {
		app := newTestApp(t, Deps{History: &fakeHistory{}})
		assert.Equal(t, []string{"ctrl+s", "ctrl+p", "tab", "ctrl+q"}, helpKeys(app.keyHandler.GetHelpForCurrentView()))
	})

	t.Run("results with pages", func(t *testing.T) {
		source := &fakeSource{pages: []*api.ArticlePage{{Results: articles("a"), Count: 30}}}
		app := newTestApp(t, Deps{Source: source})
		typeText(app, "x")
		submitAndApply(t, app)
		app.setFocus(app.focusIndex(focusResults))

		assert.Equal(t, []string{"enter", "←/h", "→/l", "tab", "esc", "ctrl+q"}, helpKeys(app.keyHandler.GetHelpForCurrentView()))
	})

	t.Run("reader", func(t *testing.T) {
		app := newTestApp(t, Deps{Opener: &fakeOpener{}})
		app.view = ViewReader
		assert.Equal(t, []string{"esc", "ctrl+o", "ctrl+q"}, helpKeys(app.keyHandler.GetHelpForCurrentView()))
	})
}

func TestKeyHandler_ReaderScrollsViewport(t *testing.T) {
	app := newTestApp(t, Deps{})
	app.view = ViewReader
	app.current = &api.Article{ID: 1}
	app.viewport.SetContent("line\nline\nline\nline\nline\nline\nline\nline\nline\nline\n" +
		"line\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\n" +
		"line\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\n" +
		"line\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nline\nend")

	press(app, tea.KeyDown)
	assert.Equal(t, 1, app.viewport.YOffset)
	assert.Equal(t, ViewReader, app.view)
}
