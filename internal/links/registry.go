// Package links turns article identifiers into outbound URLs.
package links

import (
	"sort"

	"github.com/pders01/ntsearch/internal/api"
)

// Link is one way to reach an article on the web.
type Link struct {
	// Label names the kind of link, e.g. "DOI".
	Label string
	// Text is what to show; it equals URL for plain links.
	Text string
	URL  string
}

// Resolver builds one kind of link for an article.
type Resolver interface {
	// Name returns the resolver name for identification
	Name() string

	// CanResolve reports whether a carries the identifier this resolver uses
	CanResolve(a api.Article) bool

	// Resolve builds the link. It fails when the identifier is malformed.
	Resolve(a api.Article) (*Link, error)

	// Priority orders resolvers when several apply (higher = preferred)
	Priority() int
}

// Registry holds resolvers and picks between them.
type Registry struct {
	resolvers []Resolver
}

func NewRegistry(resolvers ...Resolver) *Registry {
	r := &Registry{resolvers: make([]Resolver, 0, len(resolvers))}
	for _, res := range resolvers {
		r.Register(res)
	}
	return r
}

// Default returns a registry with the built-in resolvers: DOI, then the
// publisher URL, then PubMed.
func Default() *Registry {
	return NewRegistry(DOIResolver{}, URLResolver{}, PubMedResolver{})
}

// Register adds a resolver to the registry
func (r *Registry) Register(res Resolver) {
	r.resolvers = append(r.resolvers, res)
	sort.SliceStable(r.resolvers, func(i, j int) bool {
		return r.resolvers[i].Priority() > r.resolvers[j].Priority()
	})
}

// FindResolver returns the highest priority resolver that applies to a,
// or nil.
func (r *Registry) FindResolver(a api.Article) Resolver {
	for _, res := range r.resolvers {
		if res.CanResolve(a) {
			return res
		}
	}
	return nil
}

// Best returns the preferred link for a. Resolvers that fail on a
// malformed identifier are skipped.
func (r *Registry) Best(a api.Article) (*Link, bool) {
	all := r.All(a)
	if len(all) == 0 {
		return nil, false
	}
	return &all[0], true
}

// All returns every link that resolves for a, preferred first.
func (r *Registry) All(a api.Article) []Link {
	var out []Link
	for _, res := range r.resolvers {
		if !res.CanResolve(a) {
			continue
		}
		link, err := res.Resolve(a)
		if err != nil || link == nil {
			continue
		}
		out = append(out, *link)
	}
	return out
}

// ListResolvers returns all registered resolvers in priority order
func (r *Registry) ListResolvers() []Resolver {
	return append([]Resolver(nil), r.resolvers...)
}
