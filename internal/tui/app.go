package tui

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/ntsearch/internal/api"
	"github.com/pders01/ntsearch/internal/config"
	"github.com/pders01/ntsearch/internal/debuglog"
	"github.com/pders01/ntsearch/internal/history"
	"github.com/pders01/ntsearch/internal/links"
	"github.com/pders01/ntsearch/internal/render"
	"github.com/pders01/ntsearch/internal/search"
)

// ArticleSource is the remote side of the search screen.
type ArticleSource interface {
	SearchArticles(ctx context.Context, params url.Values) (*api.ArticlePage, error)
	ListTags(ctx context.Context) ([]api.Tag, error)
}

// HistoryStore remembers submitted criteria.
type HistoryStore interface {
	Record(c search.Criteria) (*history.Entry, error)
	Latest() (*history.Entry, error)
}

// Suggester completes tag labels from a prefix.
type Suggester interface {
	Load(tags []api.Tag) error
	Suggest(prefix string, limit int) ([]string, error)
}

// LinkOpener hands a URL to the desktop.
type LinkOpener interface {
	Open(link string) error
}

// Deps are the collaborators of the App. Only Source is required; leave
// the others nil to turn their feature off. Do not store a typed nil
// pointer in an interface field.
type Deps struct {
	Source    ArticleSource
	History   HistoryStore
	Suggester Suggester
	Opener    LinkOpener
}

type App struct {
	config     *config.Config
	source     ArticleSource
	history    HistoryStore
	suggester  Suggester
	opener     LinkOpener
	renderer   *render.Renderer
	links      *links.Registry
	keys       keyMap
	keyHandler *KeyHandler

	vm          *search.ViewModel
	fields      []search.Field
	inputs      []textinput.Model
	authorInput textinput.Model
	tagInput    textinput.Model
	suggestions []string
	focus       int

	resultList list.Model
	pager      paginator.Model
	spinner    spinner.Model
	viewport   viewport.Model
	help       help.Model

	view           View
	current        *api.Article
	loadingArticle bool
	cancelFetch    context.CancelFunc
	status         string
	statusKind     StatusKind
	width          int
	height         int
}

func NewApp(cfg *config.Config, deps Deps) *App {
	fields := search.Fields()
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 200
		inputs[i] = ti
	}

	authorInput := textinput.New()
	authorInput.Placeholder = "Last First, enter to add"
	authorInput.Prompt = ""

	tagInput := textinput.New()
	tagInput.Placeholder = "tag, tab to complete"
	tagInput.Prompt = ""

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(AccentColor).
		BorderForeground(AccentColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		BorderForeground(AccentColor)

	resultList := list.New([]list.Item{}, delegate, 0, 0)
	resultList.SetShowTitle(false)
	resultList.SetShowStatusBar(false)
	resultList.SetShowHelp(false)
	resultList.SetShowPagination(false)
	resultList.SetFilteringEnabled(false)

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = lipgloss.NewStyle().Foreground(AccentColor).Render("•")
	pager.InactiveDot = lipgloss.NewStyle().Foreground(MutedColor).Render("•")
	pager.PerPage = cfg.Search.PageSize

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SecondaryColor)

	app := &App{
		config:      cfg,
		source:      deps.Source,
		history:     deps.History,
		suggester:   deps.Suggester,
		opener:      deps.Opener,
		renderer:    render.New(""),
		links:       links.Default(),
		keys:        newKeyMap(cfg),
		vm:          search.New(cfg.Search.PageSize, cfg.Search.MaxSize),
		fields:      fields,
		inputs:      inputs,
		authorInput: authorInput,
		tagInput:    tagInput,
		resultList:  resultList,
		pager:       pager,
		spinner:     sp,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		view:        ViewSearch,
	}
	app.keyHandler = NewKeyHandler(app)
	app.setFocus(0)

	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadTags(),
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.vm.Status().Loading || a.loadingArticle {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case articlesFetchedMsg:
		a.applyFetch(msg)

	case tagsLoadedMsg:
		if msg.err != nil {
			debuglog.Warnf("loading tags failed: %v", msg.err)
		} else {
			debuglog.Infof("indexed %d tags", msg.count)
			a.setStatus(MsgTagsLoaded(msg.count), StatusInfo)
		}

	case articleRenderedMsg:
		if a.view == ViewReader && a.current != nil && a.current.ID == msg.id {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
		}

	case historyRecordedMsg:
		if msg.err != nil {
			debuglog.Warnf("recording search failed: %v", msg.err)
		}

	case historyRecalledMsg:
		a.applyRecall(msg)

	case statusMsg:
		a.setStatus(msg.text, msg.kind)

	case errorMsg:
		a.setStatus(msg.err.Error(), StatusError)
	}

	if a.view == ViewReader {
		switch msg.(type) {
		case tea.WindowSizeMsg, tea.MouseMsg:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	inputWidth := max(width-20, 10)
	for i := range a.inputs {
		a.inputs[i].Width = inputWidth
	}
	a.authorInput.Width = max(inputWidth/2, 10)
	a.tagInput.Width = max(inputWidth/2, 10)

	a.resultList.SetSize(width, max(height-len(a.inputs)-16, 4))
	a.viewport.Width = width
	a.viewport.Height = height - 3
	a.help.Width = width
}

func (a *App) focusIndex(target int) int {
	return len(a.inputs) + target
}

func (a *App) focusCount() int {
	return a.focusIndex(focusResults) + 1
}

func (a *App) setFocus(i int) tea.Cmd {
	a.focus = i
	for j := range a.inputs {
		a.inputs[j].Blur()
	}
	a.authorInput.Blur()
	a.tagInput.Blur()
	if i != a.focusIndex(focusTags) {
		a.suggestions = nil
	}

	switch {
	case i < len(a.inputs):
		return a.inputs[i].Focus()
	case i == a.focusIndex(focusAuthors):
		return a.authorInput.Focus()
	case i == a.focusIndex(focusTags):
		return a.tagInput.Focus()
	}
	return nil
}

func (a *App) cycleFocus(delta int) tea.Cmd {
	n := a.focusCount()
	next := (a.focus + delta + n) % n
	if next == a.focusIndex(focusResults) && len(a.resultList.Items()) == 0 {
		next = (next + delta + n) % n
	}
	return a.setFocus(next)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

// submit starts a search from page 1 when the form allows it.
func (a *App) submit() tea.Cmd {
	if a.vm.Status().DisableSubmit {
		return nil
	}
	req, ok := a.vm.Submit()
	if !ok {
		return nil
	}
	a.setStatus("", StatusInfo)
	return tea.Batch(a.startFetch(req), a.recordHistory(req.Params.Criteria))
}

// changePage moves to a neighbouring page of the current results.
func (a *App) changePage(delta int) tea.Cmd {
	if !a.vm.Status().ShowPaging {
		return nil
	}
	target := a.vm.Paging().CurrentPage + delta
	if target < 1 || target > a.vm.NumPages() {
		return nil
	}
	req, _ := a.vm.SetPage(target)
	return a.startFetch(req)
}

// startFetch supersedes any fetch in flight with req.
func (a *App) startFetch(req search.Request) tea.Cmd {
	if a.cancelFetch != nil {
		a.cancelFetch()
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.config.API.Timeout)
	a.cancelFetch = cancel
	a.syncResults()

	return tea.Batch(a.spinner.Tick, a.fetchArticles(ctx, cancel, req))
}

func (a *App) applyFetch(msg articlesFetchedMsg) {
	logger := debuglog.WithFields(map[string]interface{}{"request": msg.token})
	if msg.err != nil {
		if a.vm.ApplyFailure(msg.token, msg.err) {
			logger.Warnf("article search failed: %v", msg.err)
		} else {
			logger.Debugf("dropping failure of superseded request")
		}
		return
	}
	if !a.vm.ApplySuccess(msg.token, msg.page) {
		logger.Debugf("dropping result of superseded request")
		return
	}
	logger.Debugf("applied page %d of %d results", a.vm.Paging().CurrentPage, msg.page.Count)
	a.syncResults()
	if a.focus == a.focusIndex(focusResults) && len(a.resultList.Items()) == 0 {
		a.setFocus(0)
	}
}

// syncResults copies the view-model's articles and paging into the widgets.
func (a *App) syncResults() {
	results := a.vm.Results()
	items := make([]list.Item, len(results.Articles))
	for i, art := range results.Articles {
		items[i] = newArticleItem(a.renderer, art)
	}
	a.resultList.SetItems(items)
	a.resultList.Select(0)

	numPages := a.vm.NumPages()
	a.pager.SetTotalPages(max(numPages, 1) * a.pager.PerPage)
	a.pager.Page = max(a.vm.Paging().CurrentPage-1, 0)
}

func (a *App) applyRecall(msg historyRecalledMsg) {
	if msg.err != nil {
		if errors.Is(msg.err, history.ErrNotFound) {
			a.setStatus(MsgNoHistory, StatusWarn)
			return
		}
		a.setStatus(msg.err.Error(), StatusError)
		return
	}
	if err := a.vm.Load(msg.entry.Criteria); err != nil {
		debuglog.Warnf("recalled search does not fit the form: %v", err)
		a.setStatus(err.Error(), StatusError)
		return
	}
	a.syncInputs()
	a.setStatus(MsgRecalled(msg.entry.Criteria.Summary()), StatusSuccess)
}

// syncInputs copies field values from the view-model into the inputs.
func (a *App) syncInputs() {
	for i, f := range a.fields {
		a.inputs[i].SetValue(a.vm.FieldValue(f.Key))
		a.inputs[i].CursorEnd()
	}
	a.authorInput.Reset()
	a.tagInput.Reset()
	a.suggestions = nil
}

func (a *App) updateSuggestions() {
	a.suggestions = nil
	prefix := strings.TrimSpace(a.tagInput.Value())
	if a.suggester == nil || prefix == "" {
		return
	}
	found, err := a.suggester.Suggest(prefix, a.config.Search.SuggestLimit+len(a.vm.Tags()))
	if err != nil {
		debuglog.Warnf("tag suggestions for %q failed: %v", prefix, err)
		return
	}
	selected := search.NewLabelSet(a.vm.Tags()...)
	for _, label := range found {
		if selected.Contains(label) {
			continue
		}
		a.suggestions = append(a.suggestions, label)
		if len(a.suggestions) == a.config.Search.SuggestLimit {
			break
		}
	}
}

func (a *App) openReader(article api.Article) tea.Cmd {
	a.current = &article
	a.view = ViewReader
	a.loadingArticle = true
	a.viewport.SetContent("")
	return tea.Batch(a.spinner.Tick, a.renderArticle(article))
}

func (a *App) closeReader() {
	a.view = ViewSearch
	a.current = nil
	a.loadingArticle = false
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewReader:
		if a.loadingArticle {
			content = renderCentered(a.width, a.height-3,
				a.spinner.View()+" "+renderMuted(MsgLoadingArticle))
		} else {
			content = a.viewport.View()
		}
	default:
		content = lipgloss.NewStyle().
			Width(a.width).
			Height(a.height - 3).
			MaxHeight(a.height - 3).
			Render(a.searchView())
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusBar())
}

func (a *App) searchView() string {
	rows := []string{
		renderHeader("› search articles", a.config.API.BaseURL, a.width),
		"",
	}

	for i, f := range a.fields {
		rows = append(rows, renderFormRow(f.Label, a.inputs[i].View(), a.focus == i, a.vm.FieldErr(f.Key)))
	}

	authors := strings.TrimSpace(renderChips(a.vm.Authors()) + " " + a.authorInput.View())
	rows = append(rows, renderFormRow("Authors", authors, a.focus == a.focusIndex(focusAuthors), nil))

	tags := strings.TrimSpace(renderChips(a.vm.Tags()) + " " + a.tagInput.View())
	if len(a.suggestions) > 0 {
		tags += "  " + renderMuted("→ "+strings.Join(a.suggestions, ", "))
	}
	rows = append(rows, renderFormRow("Tags", tags, a.focus == a.focusIndex(focusTags), nil))

	button := HeaderStyle.Render("[ search ]")
	if a.vm.Status().DisableSubmit {
		button = DisabledStyle.Render("[ search ]")
	}
	rows = append(rows, "", "  "+button+"  "+renderHelp(a.keys.Submit.Help().Key), "")

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.JoinVertical(lipgloss.Left, form, a.resultsView(a.height-3-lipgloss.Height(form)))
}

func (a *App) resultsView(height int) string {
	status := a.vm.Status()
	results := a.vm.Results()

	switch {
	case status.Loading:
		return "  " + a.spinner.View() + " " + renderMuted(MsgSearching)
	case results.NumResults == nil:
		return renderCentered(a.width, max(height, 1), GetWelcomeMessage(a.keys.Submit.Help().Key))
	case len(results.Articles) == 0 && !status.ShowPaging:
		return ""
	case *results.NumResults == 0:
		return "  " + renderMuted(MsgNoResults)
	}

	rows := []string{a.resultList.View()}
	if status.ShowPaging {
		p := a.vm.Paging()
		line := "  " + renderMuted(MsgShowing(p.PageStart, p.PageEnd, *results.NumResults))
		if pages := renderPageLinks(p, a.vm.NumPages()); pages != "" {
			line += "   " + pages
		}
		if a.vm.NumPages() > 1 {
			line += "   " + a.pager.View()
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) statusBar() string {
	line := a.help.ShortHelpView(a.keyHandler.GetHelpForCurrentView())
	if a.status != "" {
		line = a.statusKind.style().Render(truncateEnd(a.status, max(a.width/2, 10))) + "  " + line
	}
	return StatusBarStyle.Width(a.width).Render(line)
}

type articleItem struct {
	article api.Article
	title   string
	desc    string
}

func newArticleItem(r *render.Renderer, a api.Article) articleItem {
	title := singleLine(r.Clean(a.Title))
	if title == "" {
		title = "Untitled"
	}

	var parts []string
	if c := a.Citation(); c != "" {
		parts = append(parts, c)
	}
	names := a.AuthorNames()
	switch {
	case len(names) > 3:
		parts = append(parts, strings.Join(names[:3], ", ")+" et al.")
	case len(names) > 0:
		parts = append(parts, strings.Join(names, ", "))
	}
	if a.DOI != "" {
		parts = append(parts, truncateMiddle(a.DOI, 40))
	}

	return articleItem{article: a, title: title, desc: strings.Join(parts, " · ")}
}

func (i articleItem) Title() string       { return i.title }
func (i articleItem) Description() string { return i.desc }
func (i articleItem) FilterValue() string { return i.title }

type articlesFetchedMsg struct {
	token uint64
	page  *api.ArticlePage
	err   error
}

type tagsLoadedMsg struct {
	count int
	err   error
}

type articleRenderedMsg struct {
	id      int
	content string
}

type historyRecordedMsg struct {
	err error
}

type historyRecalledMsg struct {
	entry *history.Entry
	err   error
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}
