// Package suggest completes tag labels from an in-memory bleve index.
package suggest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/ntsearch/internal/api"
)

// Index holds the known tag labels.
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
}

func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating tag index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	label := bleve.NewTextFieldMapping()
	label.Analyzer = standard.Name
	label.Store = true

	// whole label, lowercased, for prefix matches across word boundaries
	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	exact.Store = false

	dm.AddFieldMappingsAt("label", label)
	dm.AddFieldMappingsAt("exact", exact)

	im.DefaultMapping = dm
	return im
}

// Load replaces the indexed tags. Blank labels are skipped.
func (s *Index) Load(tags []api.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating tag index: %w", err)
	}

	batch := fresh.NewBatch()
	for _, t := range tags {
		label := strings.TrimSpace(t.Label)
		if label == "" {
			continue
		}
		if err := batch.Index(docID(label), map[string]any{
			"label": label,
			"exact": strings.ToLower(label),
		}); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("indexing tag %q: %w", label, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		_ = fresh.Close()
		return fmt.Errorf("indexing tags: %w", err)
	}

	old := s.idx
	s.idx = fresh
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Suggest returns up to limit labels matching prefix, best match first.
func (s *Index) Suggest(prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return []string{}, nil
	}

	var qs []bleveQuery.Query
	whole := bleve.NewPrefixQuery(prefix)
	whole.SetField("exact")
	whole.SetBoost(4.0)
	qs = append(qs, whole)

	for _, tok := range strings.Fields(prefix) {
		qm := bleve.NewMatchQuery(tok)
		qm.SetField("label")
		qm.SetBoost(2.0)
		qs = append(qs, qm)

		qp := bleve.NewPrefixQuery(tok)
		qp.SetField("label")
		qp.SetBoost(1.0)
		qs = append(qs, qp)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"label"}
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching tags: %w", err)
	}

	hits := res.Hits
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if l, ok := h.Fields["label"].(string); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// DocCount reports how many tags are indexed.
func (s *Index) DocCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, err := s.idx.DocCount()
	return int(n), err
}

func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Close()
}

func docID(label string) string { return "tag:" + strings.ToLower(label) }
