// Package render turns an article into terminal-ready markdown.
package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pders01/ntsearch/internal/api"
	"github.com/pders01/ntsearch/internal/links"
)

// Renderer caches a glamour renderer for the last wrap width. It is safe
// for concurrent use.
type Renderer struct {
	mu     sync.Mutex
	policy *bluemonday.Policy
	links  *links.Registry
	style  string
	tr     *glamour.TermRenderer
	width  int
}

// New returns a renderer using the named glamour style, or the terminal's
// auto-detected style when style is empty.
func New(style string) *Renderer {
	return &Renderer{
		policy: bluemonday.StrictPolicy(),
		links:  links.Default(),
		style:  style,
	}
}

// WrapWidth picks a readable word-wrap width for a terminal width.
func WrapWidth(termWidth int) int {
	if termWidth < 50 {
		return max(termWidth-4, 20)
	}
	return min(max((termWidth*9)/10, 40), 120)
}

// Clean strips markup from API text and collapses whitespace.
func (r *Renderer) Clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(r.policy.Sanitize(s))), " ")
}

// Markdown builds the detail document for a.
func (r *Renderer) Markdown(a api.Article) string {
	var b strings.Builder

	title := r.Clean(a.Title)
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if c := r.Clean(a.Citation()); c != "" {
		fmt.Fprintf(&b, "**%s**\n\n", c)
	}
	if names := a.AuthorNames(); len(names) > 0 {
		fmt.Fprintf(&b, "%s\n\n", r.Clean(strings.Join(names, ", ")))
	}
	if labels := a.TagLabels(); len(labels) > 0 {
		quoted := make([]string, len(labels))
		for i, l := range labels {
			quoted[i] = "`" + strings.ReplaceAll(r.Clean(l), "`", "'") + "`"
		}
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(quoted, " "))
	}

	if all := r.links.All(a); len(all) > 0 {
		for _, l := range all {
			if l.Text == l.URL {
				fmt.Fprintf(&b, "- %s: %s\n", l.Label, l.URL)
			} else {
				fmt.Fprintf(&b, "- %s: [%s](%s)\n", l.Label, l.Text, l.URL)
			}
		}
		b.WriteString("\n")
	}

	if abstract := r.Clean(a.Abstract); abstract != "" {
		fmt.Fprintf(&b, "## Abstract\n\n%s\n", abstract)
	}

	return b.String()
}

// Render renders a for a terminal of the given width.
func (r *Renderer) Render(a api.Article, termWidth int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tr, err := r.renderer(WrapWidth(termWidth))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := tr.Render(r.Markdown(a))
	if err != nil {
		return "", fmt.Errorf("rendering article: %w", err)
	}
	return out, nil
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	if r.tr != nil && r.width == width {
		return r.tr, nil
	}

	styleOpt := glamour.WithAutoStyle()
	if r.style != "" {
		styleOpt = glamour.WithStandardStyle(r.style)
	}
	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	r.tr = tr
	r.width = width
	return tr, nil
}
