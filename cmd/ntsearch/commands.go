package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/pders01/ntsearch/internal/api"
	"github.com/pders01/ntsearch/internal/debuglog"
	"github.com/pders01/ntsearch/internal/history"
	"github.com/pders01/ntsearch/internal/search"
	"github.com/pders01/ntsearch/internal/tui"
)

var (
	errNoCriteria     = errors.New("at least one filter, author or tag is required")
	errInvalidFilters = errors.New("invalid filters")
)

const searchExample = `  ntsearch search --title "resting state" --year-min 2010
  ntsearch search --author "Smith J" --tag spm --page 2`

// flagName maps a field key such as year_min to its flag, year-min.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

type searchOptions struct {
	fields  map[string]*string
	authors []string
	tags    []string
	page    int
	asJSON  bool
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{fields: make(map[string]*string)}

	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Run one search and print the results",
		Example: searchExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg); err != nil {
				return err
			}
			defer debuglog.Close()

			vm, err := opts.viewModel(cfg.Search.PageSize, cfg.Search.MaxSize)
			if err != nil {
				return err
			}

			store, err := openHistory(cfg)
			if err != nil {
				debuglog.Warnf("history disabled: %v", err)
			} else if store != nil {
				defer store.Close()
				if _, err := store.Record(vm.Criteria()); err != nil {
					debuglog.Warnf("recording search failed: %v", err)
				}
			}

			client := api.NewClient(cfg.API)
			return runSearch(cmd.Context(), cmd.OutOrStdout(), client, vm, opts.page, opts.asJSON)
		},
	}

	flags := cmd.Flags()
	for _, f := range search.Fields() {
		opts.fields[f.Key] = flags.String(flagName(f.Key), "", f.Label+" ("+f.Placeholder+")")
	}
	flags.StringArrayVarP(&opts.authors, "author", "a", nil, `Author as "Last First"; repeatable`)
	flags.StringArrayVarP(&opts.tags, "tag", "t", nil, "Tag label; repeatable")
	flags.IntVarP(&opts.page, "page", "p", 1, "Page of results to fetch")
	flags.BoolVar(&opts.asJSON, "json", false, "Print the raw result page as JSON")

	return cmd
}

// viewModel fills a fresh search state from the flags and checks it the
// way the interactive form does.
func (o *searchOptions) viewModel(pageSize, maxSize int) (*search.ViewModel, error) {
	vm := search.New(pageSize, maxSize)
	for key, value := range o.fields {
		if value == nil || *value == "" {
			continue
		}
		if err := vm.SetField(key, *value); err != nil {
			return nil, err
		}
	}
	for _, a := range o.authors {
		vm.AddAuthor(a)
	}
	for _, t := range o.tags {
		vm.AddTag(t)
	}

	if vm.Invalid() {
		return nil, invalidFilters(vm)
	}
	if vm.Criteria().Empty() {
		return nil, errNoCriteria
	}
	return vm, nil
}

// invalidFilters lists the rejected fields by flag name.
func invalidFilters(vm *search.ViewModel) error {
	var problems []string
	for _, f := range search.Fields() {
		if err := vm.FieldErr(f.Key); err != nil {
			problems = append(problems, fmt.Sprintf("--%s: %v", flagName(f.Key), err))
		}
	}
	return fmt.Errorf("%w: %s", errInvalidFilters, strings.Join(problems, "; "))
}

func runSearch(ctx context.Context, out io.Writer, source tui.ArticleSource, vm *search.ViewModel, page int, asJSON bool) error {
	req, ok := vm.Submit()
	if !ok {
		return invalidFilters(vm)
	}
	if page > 1 {
		req, _ = vm.SetPage(page)
	}

	result, err := source.SearchArticles(ctx, req.Params.Values())
	if err != nil {
		vm.ApplyFailure(req.Token, err)
		return fmt.Errorf("searching articles: %w", err)
	}
	vm.ApplySuccess(req.Token, result)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResults(out, vm)
	return nil
}

func printResults(out io.Writer, vm *search.ViewModel) {
	results := vm.Results()
	paging := vm.Paging()
	total := 0
	if results.NumResults != nil {
		total = *results.NumResults
	}

	if len(results.Articles) == 0 {
		if total > 0 && paging.PageStart > total {
			fmt.Fprintln(out, msgPageOutOfRange(paging.CurrentPage, vm.NumPages()))
			return
		}
		fmt.Fprintln(out, tui.MsgShowing(paging.PageStart, paging.PageEnd, total))
		return
	}

	rows := make([][]string, len(results.Articles))
	for i, a := range results.Articles {
		title := strings.Join(strings.Fields(a.Title), " ")
		rows[i] = []string{
			strconv.Itoa(paging.PageStart + i),
			runewidth.Truncate(title, 60, "…"),
			a.Citation(),
			a.DOI,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		Headers("#", "Title", "Journal", "DOI").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(out, t.Render())
	line := tui.MsgShowing(paging.PageStart, paging.PageEnd, total)
	if n := vm.NumPages(); n > 1 {
		line += fmt.Sprintf(" (page %d of %d)", paging.CurrentPage, n)
	}
	fmt.Fprintln(out, line)
}

func msgPageOutOfRange(page, numPages int) string {
	if numPages == 1 {
		return fmt.Sprintf("Page %d is out of range (1 page)", page)
	}
	return fmt.Sprintf("Page %d is out of range (%d pages)", page, numPages)
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		clearAll bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear earlier searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled in the configuration")
			}

			store, err := history.Open(cfg.History.Path, cfg.History.Limit)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "History cleared")
				return nil
			}

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, tui.MsgNoHistory)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n", e.At.Local().Format("2006-01-02 15:04"), e.Criteria.Summary())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove all entries")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to list; 0 lists all")
	return cmd
}
