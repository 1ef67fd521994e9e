// Package search holds the state behind the article search screen: the
// filter form, author and tag selections, paging and the last result page.
// It performs no I/O. Callers turn a Request into an HTTP call and report
// the outcome back with ApplySuccess or ApplyFailure.
package search

import (
	"github.com/pders01/ntsearch/internal/api"
)

// Paging tracks the current page. PageStart and PageEnd are the 1-based
// inclusive range of results shown, valid once a fetch has succeeded.
type Paging struct {
	CurrentPage int
	PageSize    int
	MaxSize     int
	PageStart   int
	PageEnd     int
}

// Status flags are derived from the rest of the state.
type Status struct {
	Loading       bool
	DisableSubmit bool
	ShowPaging    bool
}

type Results struct {
	NumResults *int
	Articles   []api.Article
}

// Request is one fetch to perform. Token identifies it when the outcome
// is reported back.
type Request struct {
	Token  uint64
	Params Params
}

type ViewModel struct {
	form    *Form
	authors *LabelSet
	tags    *LabelSet
	paging  Paging
	status  Status
	results Results
	token   uint64
}

// New returns the initial screen state. pageSize and maxSize below 1 are
// raised to 1.
func New(pageSize, maxSize int) *ViewModel {
	vm := &ViewModel{
		form:    NewForm(),
		authors: NewLabelSet(),
		tags:    NewLabelSet(),
		paging: Paging{
			CurrentPage: 1,
			PageSize:    max(pageSize, 1),
			MaxSize:     max(maxSize, 1),
		},
		results: Results{Articles: []api.Article{}},
	}
	vm.recompute()
	return vm
}

func (vm *ViewModel) Paging() Paging   { return vm.paging }
func (vm *ViewModel) Status() Status   { return vm.status }
func (vm *ViewModel) Results() Results { return vm.results }
func (vm *ViewModel) Authors() []string {
	return vm.authors.Labels()
}
func (vm *ViewModel) Tags() []string { return vm.tags.Labels() }

func (vm *ViewModel) FieldValue(key string) string { return vm.form.Value(key) }
func (vm *ViewModel) FieldErr(key string) error    { return vm.form.Err(key) }
func (vm *ViewModel) Invalid() bool                { return vm.form.Invalid() }
func (vm *ViewModel) Pristine() bool               { return vm.form.Pristine() }

// SetField updates one filter value.
func (vm *ViewModel) SetField(key, value string) error {
	if err := vm.form.Set(key, value); err != nil {
		return err
	}
	vm.recompute()
	return nil
}

func (vm *ViewModel) AddAuthor(label string) bool {
	return vm.editLabels(vm.authors.Add(label))
}

func (vm *ViewModel) RemoveAuthor(label string) bool {
	return vm.editLabels(vm.authors.Remove(label))
}

// PopAuthor removes the last selected author.
func (vm *ViewModel) PopAuthor() (string, bool) {
	label, ok := vm.authors.Pop()
	vm.editLabels(ok)
	return label, ok
}

func (vm *ViewModel) AddTag(label string) bool {
	return vm.editLabels(vm.tags.Add(label))
}

func (vm *ViewModel) RemoveTag(label string) bool {
	return vm.editLabels(vm.tags.Remove(label))
}

// PopTag removes the last selected tag.
func (vm *ViewModel) PopTag() (string, bool) {
	label, ok := vm.tags.Pop()
	vm.editLabels(ok)
	return label, ok
}

func (vm *ViewModel) editLabels(changed bool) bool {
	if changed {
		vm.form.MarkDirty()
		vm.recompute()
	}
	return changed
}

// Load replaces the whole criteria, as when recalling an earlier search.
func (vm *ViewModel) Load(c Criteria) error {
	if err := vm.form.Load(c.Filters); err != nil {
		return err
	}
	vm.authors.Replace(c.Authors)
	vm.tags.Replace(c.Tags)
	vm.recompute()
	return nil
}

// Criteria returns the current non-empty filters and selections.
func (vm *ViewModel) Criteria() Criteria {
	return Criteria{
		Filters: vm.form.Filters(),
		Authors: vm.authors.Labels(),
		Tags:    vm.tags.Labels(),
	}
}

// Serialize builds the query record for the current state.
func (vm *ViewModel) Serialize() Params {
	return Params{
		Criteria: vm.Criteria(),
		PageNum:  vm.paging.CurrentPage,
		PageSize: vm.paging.PageSize,
	}
}

// Submit starts a new search from page 1. It does nothing while the form
// is invalid.
func (vm *ViewModel) Submit() (Request, bool) {
	if vm.form.Invalid() {
		return Request{}, false
	}
	vm.paging.CurrentPage = 1
	vm.status.ShowPaging = false
	return vm.beginFetch(), true
}

// SetPage fetches page for the current criteria without going back to
// page 1. Pages below 1 are treated as 1.
func (vm *ViewModel) SetPage(page int) (Request, bool) {
	vm.paging.CurrentPage = max(page, 1)
	return vm.beginFetch(), true
}

func (vm *ViewModel) beginFetch() Request {
	vm.token++
	vm.status.Loading = true
	vm.results.Articles = []api.Article{}
	vm.recompute()
	return Request{Token: vm.token, Params: vm.Serialize()}
}

// Current reports whether token belongs to the most recent fetch.
func (vm *ViewModel) Current(token uint64) bool {
	return token != 0 && token == vm.token
}

// ApplySuccess stores a fetched page. Outcomes of superseded fetches are
// dropped and false is returned.
func (vm *ViewModel) ApplySuccess(token uint64, page *api.ArticlePage) bool {
	if !vm.Current(token) || page == nil {
		return false
	}

	vm.form.SetPristine()
	articles := page.Results
	if articles == nil {
		articles = []api.Article{}
	}
	count := page.Count
	vm.results = Results{NumResults: &count, Articles: articles}

	vm.paging.PageStart = (vm.paging.CurrentPage-1)*vm.paging.PageSize + 1
	vm.paging.PageEnd = min(vm.paging.CurrentPage*vm.paging.PageSize, count)

	vm.status.Loading = false
	vm.status.ShowPaging = true
	vm.recompute()
	return true
}

// ApplyFailure ends a failed fetch. Only the loading flag changes; the
// article list stays cleared and the previous count is kept.
func (vm *ViewModel) ApplyFailure(token uint64, _ error) bool {
	if !vm.Current(token) {
		return false
	}
	vm.status.Loading = false
	vm.recompute()
	return true
}

// NumPages is the number of pages for the last result count.
func (vm *ViewModel) NumPages() int {
	if vm.results.NumResults == nil || *vm.results.NumResults <= 0 {
		return 0
	}
	n := *vm.results.NumResults
	return (n + vm.paging.PageSize - 1) / vm.paging.PageSize
}

// recompute refreshes derived state. Paging keys alone do not count as
// criteria, so a dirty form with every filter cleared stays disabled.
func (vm *ViewModel) recompute() {
	vm.status.DisableSubmit = vm.form.Invalid() || vm.form.Pristine() || vm.Serialize().Empty()
}

// Window returns the first and last page links to show so that at most
// MaxSize links are visible and the current page stays roughly centered.
// Both are 0 when there are no pages.
func (p Paging) Window(numPages int) (first, last int) {
	if numPages <= 0 {
		return 0, 0
	}
	size := max(p.MaxSize, 1)
	if size >= numPages {
		return 1, numPages
	}
	current := min(max(p.CurrentPage, 1), numPages)
	first = max(current-size/2, 1)
	last = first + size - 1
	if last > numPages {
		last = numPages
		first = last - size + 1
	}
	return first, last
}
