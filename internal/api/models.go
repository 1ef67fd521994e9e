package api

import (
	"fmt"
	"strings"
)

// Author is an article author as returned by the articles endpoint.
type Author struct {
	LastName  string `json:"lastname"`
	FirstName string `json:"firstname"`
}

// Name renders the author as "Lastname F".
func (a Author) Name() string {
	last := strings.TrimSpace(a.LastName)
	first := strings.TrimSpace(a.FirstName)
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return last + " " + first
}

// Tag is a tag label attached to an article.
type Tag struct {
	Label string `json:"label"`
}

type Article struct {
	ID       int      `json:"id"`
	PMID     string   `json:"pmid"`
	DOI      string   `json:"doi"`
	Title    string   `json:"title"`
	Journal  string   `json:"journal"`
	PubYear  int      `json:"pubyear"`
	Authors  []Author `json:"authors"`
	Tags     []Tag    `json:"tags"`
	URL      string   `json:"url"`
	Abstract string   `json:"abstract"`
}

// AuthorNames returns the display names of all authors in order.
func (a Article) AuthorNames() []string {
	names := make([]string, 0, len(a.Authors))
	for _, au := range a.Authors {
		if n := au.Name(); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// TagLabels returns the labels of the article's tags in order.
func (a Article) TagLabels() []string {
	labels := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		if t.Label != "" {
			labels = append(labels, t.Label)
		}
	}
	return labels
}

// Citation is a one-line "Journal (Year)" summary.
func (a Article) Citation() string {
	switch {
	case a.Journal != "" && a.PubYear > 0:
		return fmt.Sprintf("%s (%d)", a.Journal, a.PubYear)
	case a.Journal != "":
		return a.Journal
	case a.PubYear > 0:
		return fmt.Sprintf("%d", a.PubYear)
	default:
		return ""
	}
}

// ArticlePage is one page of search results.
type ArticlePage struct {
	Results []Article `json:"results"`
	Count   int       `json:"count"`
}
