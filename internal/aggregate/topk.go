package aggregate

import (
	"sort"

	"greenjobs/internal/domain/measures"
)

type counted struct {
	id    string
	label string
	count int
}

// topRanked turns a count table into the N most frequent items with
// normalised shares. Ties break by ascending id for reproducible output.
func topRanked(counts map[string]counted, n int) []measures.RankedItem {
	if len(counts) == 0 {
		return nil
	}
	items := make([]counted, 0, len(counts))
	total := 0
	for _, c := range counts {
		items = append(items, c)
		total += c.count
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].count == items[j].count {
			return items[i].id < items[j].id
		}
		return items[i].count > items[j].count
	})
	if len(items) > n {
		items = items[:n]
	}

	out := make([]measures.RankedItem, 0, len(items))
	for _, it := range items {
		share := 0.0
		if total > 0 {
			share = float64(it.count) / float64(total)
		}
		out = append(out, measures.RankedItem{ID: it.id, Label: it.label, Count: it.count, Share: share})
	}
	return out
}

type countTable map[string]counted

func (t countTable) add(id, label string) {
	c := t[id]
	c.id = id
	if c.label == "" {
		c.label = label
	}
	c.count++
	t[id] = c
}
