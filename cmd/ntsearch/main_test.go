package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/ntsearch/internal/api"
	"github.com/pders01/ntsearch/internal/search"
	"github.com/pders01/ntsearch/internal/tui"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

type stubSource struct {
	page   *api.ArticlePage
	err    error
	params url.Values
}

func (s *stubSource) SearchArticles(_ context.Context, params url.Values) (*api.ArticlePage, error) {
	s.params = params
	return s.page, s.err
}

func (s *stubSource) ListTags(context.Context) ([]api.Tag, error) { return nil, nil }

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "ntsearch dev")
	assert.Contains(t, out, "Literature search client")
	assert.Contains(t, out, "github.com/pders01/ntsearch")
}

func TestGenerateConfigCommand(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "generate", "--output", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated default configuration at:")

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[api]")

	_, err = execute(t, "config", "generate", "--output", configFile)
	require.Error(t, err, "existing file needs --force")
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "generate", "--output", configFile, "--force")
	require.NoError(t, err)
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "year-min", flagName("year_min"))
	assert.Equal(t, "title", flagName("title"))
}

func TestSearchFlagsCoverEveryField(t *testing.T) {
	cmd := newSearchCmd(&rootOptions{})
	for _, f := range search.Fields() {
		assert.NotNil(t, cmd.Flags().Lookup(flagName(f.Key)), "missing flag for %s", f.Key)
	}
}

func TestSearchOptions_ViewModel(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("no criteria", func(t *testing.T) {
		opts := &searchOptions{fields: map[string]*string{"title": str("")}}
		_, err := opts.viewModel(10, 10)
		assert.ErrorIs(t, err, errNoCriteria)
	})

	t.Run("invalid field", func(t *testing.T) {
		opts := &searchOptions{fields: map[string]*string{"pmid": str("abc")}}
		_, err := opts.viewModel(10, 10)
		require.ErrorIs(t, err, errInvalidFilters)
		assert.Contains(t, err.Error(), "--pmid")
	})

	t.Run("filters, authors and tags", func(t *testing.T) {
		opts := &searchOptions{
			fields:  map[string]*string{"title": str("fmri"), "year_min": str("2010")},
			authors: []string{"Smith J", "smith j"},
			tags:    []string{"spm"},
		}
		vm, err := opts.viewModel(10, 10)
		require.NoError(t, err)

		c := vm.Criteria()
		assert.Equal(t, "fmri", c.Filters["title"])
		assert.Equal(t, []string{"Smith J"}, c.Authors)
		assert.Equal(t, []string{"spm"}, c.Tags)
	})
}

func testViewModel(t *testing.T) *search.ViewModel {
	t.Helper()
	vm := search.New(10, 10)
	require.NoError(t, vm.SetField("title", "fmri"))
	return vm
}

func TestRunSearch_Table(t *testing.T) {
	source := &stubSource{page: &api.ArticlePage{
		Count: 2,
		Results: []api.Article{
			{ID: 1, Title: "Resting  state networks", Journal: "Cortex", PubYear: 2010, DOI: "10.1/a"},
			{ID: 2, Title: "Smoothing kernels", Journal: "NeuroImage", PubYear: 2012},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, runSearch(context.Background(), &buf, source, testViewModel(t), 1, false))

	out := buf.String()
	assert.Contains(t, out, "Resting state networks")
	assert.Contains(t, out, "Cortex (2010)")
	assert.Contains(t, out, "10.1/a")
	assert.Contains(t, out, tui.MsgShowing(1, 2, 2))
	assert.Equal(t, "1", source.params.Get("page_num"))
	assert.Equal(t, "fmri", source.params.Get("title"))
}

func TestRunSearch_Page(t *testing.T) {
	source := &stubSource{page: &api.ArticlePage{
		Count:   25,
		Results: []api.Article{{ID: 11, Title: "Eleventh"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, runSearch(context.Background(), &buf, source, testViewModel(t), 2, false))

	assert.Equal(t, "2", source.params.Get("page_num"))
	assert.Contains(t, buf.String(), tui.MsgShowing(11, 20, 25)+" (page 2 of 3)")
}

func TestRunSearch_NoResults(t *testing.T) {
	source := &stubSource{page: &api.ArticlePage{Results: []api.Article{}}}

	var buf bytes.Buffer
	require.NoError(t, runSearch(context.Background(), &buf, source, testViewModel(t), 1, false))
	assert.Equal(t, tui.MsgNoResults+"\n", buf.String())
}

func TestRunSearch_PageOutOfRange(t *testing.T) {
	source := &stubSource{page: &api.ArticlePage{Count: 25, Results: []api.Article{}}}

	var buf bytes.Buffer
	require.NoError(t, runSearch(context.Background(), &buf, source, testViewModel(t), 5, false))

	assert.Equal(t, "5", source.params.Get("page_num"))
	assert.Equal(t, "Page 5 is out of range (3 pages)\n", buf.String())
	assert.NotContains(t, buf.String(), "41")
}

func TestRunSearch_InvalidFilters(t *testing.T) {
	source := &stubSource{}
	vm := testViewModel(t)
	require.NoError(t, vm.SetField("pmid", "abc"))

	var buf bytes.Buffer
	err := runSearch(context.Background(), &buf, source, vm, 1, false)
	require.ErrorIs(t, err, errInvalidFilters)
	assert.NotErrorIs(t, err, errNoCriteria)
	assert.Contains(t, err.Error(), "--pmid")
	assert.Nil(t, source.params, "no request for an invalid form")
}

func TestMsgPageOutOfRange(t *testing.T) {
	assert.Equal(t, "Page 2 is out of range (1 page)", msgPageOutOfRange(2, 1))
	assert.Equal(t, "Page 9 is out of range (3 pages)", msgPageOutOfRange(9, 3))
}

func TestRunSearch_JSON(t *testing.T) {
	source := &stubSource{page: &api.ArticlePage{
		Count:   1,
		Results: []api.Article{{ID: 7, Title: "Seven"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, runSearch(context.Background(), &buf, source, testViewModel(t), 1, true))

	var page api.ArticlePage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "Seven", page.Results[0].Title)
}

func TestRunSearch_Error(t *testing.T) {
	source := &stubSource{err: api.ErrInvalidResponse}

	var buf bytes.Buffer
	err := runSearch(context.Background(), &buf, source, testViewModel(t), 1, false)
	assert.ErrorIs(t, err, api.ErrInvalidResponse)
	assert.Empty(t, buf.String())
}

func writeConfig(t *testing.T, baseURL string) (configPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "` + baseURL + `"
allow_local = true

[history]
enabled = true
path = "` + filepath.Join(dir, "history.db") + `"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func TestSearchAndHistoryCommands(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 1, "title": "fMRI of the cortex", "journal": "Cortex", "pubyear": 2010, "authors": [], "tags": [{"label": "spm"}]}]}`))
	}))
	defer server.Close()

	configPath := writeConfig(t, server.URL+"/api/")

	out, err := execute(t, "--config", configPath, "search", "--title", "fmri", "--author", "Smith J", "--tag", "spm")
	require.NoError(t, err)
	assert.Contains(t, out, "fMRI of the cortex")
	assert.Contains(t, out, tui.MsgShowing(1, 1, 1))
	assert.Equal(t, "fmri", gotQuery.Get("title"))
	assert.Equal(t, []string{"Smith J"}, gotQuery["authors"])
	assert.Equal(t, []string{"spm"}, gotQuery["tags"])

	out, err = execute(t, "--config", configPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, `title="fmri"`)
	assert.Contains(t, out, "authors=Smith J")

	out, err = execute(t, "--config", configPath, "history", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")

	out, err = execute(t, "--config", configPath, "history")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, tui.MsgNoHistory))
}

func TestSearchCommand_RequiresCriteria(t *testing.T) {
	configPath := writeConfig(t, "http://127.0.0.1:1/api/")

	_, err := execute(t, "--config", configPath, "--no-history", "search")
	assert.ErrorIs(t, err, errNoCriteria)
}

func TestHistoryCommand_Disabled(t *testing.T) {
	configPath := writeConfig(t, "http://127.0.0.1:1/api/")

	_, err := execute(t, "--config", configPath, "--no-history", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestAPIURLOverride(t *testing.T) {
	configPath := writeConfig(t, "http://127.0.0.1:1/api/")

	cfg, err := loadConfig(&rootOptions{configPath: configPath, apiURL: "http://localhost:9999/v2"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/v2/", cfg.API.BaseURL)

	_, err = loadConfig(&rootOptions{configPath: configPath, apiURL: "ftp://example.org"})
	assert.Error(t, err)
}
