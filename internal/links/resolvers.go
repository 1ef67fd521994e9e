package links

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pders01/ntsearch/internal/api"
)

var ErrMalformed = errors.New("malformed identifier")

// doiEscaper covers the characters that end a markdown link target.
var doiEscaper = strings.NewReplacer("(", "%28", ")", "%29", " ", "%20", "<", "%3C", ">", "%3E")

// DOIResolver links through the doi.org resolver.
type DOIResolver struct{}

func (DOIResolver) Name() string  { return "doi" }
func (DOIResolver) Priority() int { return 100 }

func (DOIResolver) CanResolve(a api.Article) bool {
	return strings.TrimSpace(a.DOI) != ""
}

func (DOIResolver) Resolve(a api.Article) (*Link, error) {
	doi := normalizeDOI(a.DOI)
	if !strings.HasPrefix(doi, "10.") || !strings.Contains(doi, "/") {
		return nil, fmt.Errorf("%w: doi %q", ErrMalformed, a.DOI)
	}
	return &Link{Label: "DOI", Text: doi, URL: "https://doi.org/" + doiEscaper.Replace(doi)}, nil
}

// normalizeDOI strips the prefixes DOIs are commonly written with.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(doi[len(prefix):])
		}
	}
	return doi
}

// URLResolver uses the article's own link.
type URLResolver struct{}

func (URLResolver) Name() string  { return "url" }
func (URLResolver) Priority() int { return 50 }

func (URLResolver) CanResolve(a api.Article) bool {
	return strings.TrimSpace(a.URL) != ""
}

func (URLResolver) Resolve(a api.Article) (*Link, error) {
	raw := strings.TrimSpace(a.URL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url %q", ErrMalformed, a.URL)
	}
	return &Link{Label: "Link", Text: raw, URL: raw}, nil
}

// PubMedResolver links to the PubMed record.
type PubMedResolver struct{}

func (PubMedResolver) Name() string  { return "pubmed" }
func (PubMedResolver) Priority() int { return 10 }

func (PubMedResolver) CanResolve(a api.Article) bool {
	return strings.TrimSpace(a.PMID) != ""
}

func (PubMedResolver) Resolve(a api.Article) (*Link, error) {
	pmid := strings.TrimSpace(a.PMID)
	for _, r := range pmid {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: pmid %q", ErrMalformed, a.PMID)
		}
	}
	return &Link{Label: "PMID", Text: pmid, URL: "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"}, nil
}
