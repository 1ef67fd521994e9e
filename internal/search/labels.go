package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// LabelSet is an ordered selection of labels. Labels that differ only by
// case or Unicode composition are treated as the same label; the first
// spelling added wins.
type LabelSet struct {
	labels []string
	keys   map[string]struct{}
	fold   cases.Caser
}

func NewLabelSet(labels ...string) *LabelSet {
	s := &LabelSet{
		keys: make(map[string]struct{}),
		fold: cases.Fold(),
	}
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

func (s *LabelSet) key(label string) string {
	return s.fold.String(norm.NFC.String(label))
}

func normalizeLabel(label string) string {
	return norm.NFC.String(strings.Join(strings.Fields(label), " "))
}

// Add appends label unless it is blank or already selected.
func (s *LabelSet) Add(label string) bool {
	label = normalizeLabel(label)
	if label == "" {
		return false
	}
	k := s.key(label)
	if _, ok := s.keys[k]; ok {
		return false
	}
	s.keys[k] = struct{}{}
	s.labels = append(s.labels, label)
	return true
}

// Remove drops label if it is selected.
func (s *LabelSet) Remove(label string) bool {
	k := s.key(normalizeLabel(label))
	if _, ok := s.keys[k]; !ok {
		return false
	}
	delete(s.keys, k)
	for i, l := range s.labels {
		if s.key(l) == k {
			s.labels = append(s.labels[:i], s.labels[i+1:]...)
			break
		}
	}
	return true
}

// Pop removes and returns the most recently added label.
func (s *LabelSet) Pop() (string, bool) {
	if len(s.labels) == 0 {
		return "", false
	}
	last := s.labels[len(s.labels)-1]
	s.labels = s.labels[:len(s.labels)-1]
	delete(s.keys, s.key(last))
	return last, true
}

func (s *LabelSet) Contains(label string) bool {
	_, ok := s.keys[s.key(normalizeLabel(label))]
	return ok
}

func (s *LabelSet) Len() int { return len(s.labels) }

// Labels returns a copy of the selected labels in insertion order.
func (s *LabelSet) Labels() []string {
	if len(s.labels) == 0 {
		return nil
	}
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Replace clears the set and adds labels in order.
func (s *LabelSet) Replace(labels []string) {
	s.labels = nil
	s.keys = make(map[string]struct{})
	for _, l := range labels {
		s.Add(l)
	}
}
