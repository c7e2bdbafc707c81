// Package ranking merges recommendation candidates from multiple strategies
// into one ranked, deduplicated list.
package ranking

import "sort"

// Source identifies which strategy produced a candidate. Sources form a fixed
// total order: a lower value outranks a higher one.
type Source int

const (
	SourceGapDriven Source = iota
	SourceCollaborative
	SourceContentBased
)

func (s Source) String() string {
	switch s {
	case SourceGapDriven:
		return "gap_driven"
	case SourceCollaborative:
		return "collaborative"
	case SourceContentBased:
		return "content_based"
	}
	return "unknown"
}

// Merger accumulates candidates keyed by entity ID. A candidate seen from
// several sources keeps the best-ranked one. Insertion order of first
// appearance is the tiebreak between equally ranked candidates.
type Merger[T any] struct {
	ids  []string
	best map[string]Source
	item map[string]T
}

func NewMerger[T any]() *Merger[T] {
	return &Merger[T]{
		best: make(map[string]Source),
		item: make(map[string]T),
	}
}

func (m *Merger[T]) Add(id string, item T, src Source) {
	if id == "" {
		return
	}
	seen, ok := m.best[id]
	if !ok {
		m.ids = append(m.ids, id)
		m.best[id] = src
		m.item[id] = item
		return
	}
	if src < seen {
		m.best[id] = src
	}
}

// AddAll adds every item under the same source, using idOf to key them.
func (m *Merger[T]) AddAll(items []T, src Source, idOf func(T) string) {
	for _, item := range items {
		m.Add(idOf(item), item, src)
	}
}

func (m *Merger[T]) Len() int {
	return len(m.ids)
}

// SourceOf reports the best source recorded for an ID.
func (m *Merger[T]) SourceOf(id string) (Source, bool) {
	s, ok := m.best[id]
	return s, ok
}

// Ranked returns the unique candidates ordered by source rank, preserving
// insertion order within a rank.
func (m *Merger[T]) Ranked() []T {
	ids := make([]string, len(m.ids))
	copy(ids, m.ids)
	sort.SliceStable(ids, func(i, j int) bool {
		return m.best[ids[i]] < m.best[ids[j]]
	})
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.item[id])
	}
	return out
}
