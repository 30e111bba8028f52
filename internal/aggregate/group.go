// Package aggregate derives category groupings, filters and totals from
// mirrored collections. Nothing here talks to the network.
package aggregate

import (
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
)

// Categorized is implemented by records that belong to zero or more
// categories. An empty result means uncategorized.
type Categorized interface {
	CategoryRefs() []model.CategoryRef
}

type Group[T any] struct {
	Category      model.Category
	Uncategorized bool
	Items         []T
}

func selectionKey(c model.Category) string {
	if c.ID == model.UncategorizedID {
		return model.UncategorizedID
	}
	return strings.ToLower(c.ID)
}

func refsOf[T Categorized](item T) []model.CategoryRef {
	refs := item.CategoryRefs()
	if len(refs) == 0 {
		return []model.CategoryRef{model.NoCategory()}
	}
	return refs
}

func lookup(categories []model.Category, ref model.CategoryRef) model.Category {
	if ref.Uncategorized {
		return model.NoCategory().Category
	}
	for _, c := range categories {
		if model.SameID(c.ID, ref.Category.ID) {
			return c
		}
	}
	return ref.Category
}

// GroupByCategory buckets items by category in order of first occurrence in
// items. Category metadata is taken from categories when the id is known
// there. Items without a category land in the Uncategorized group; an item
// with several categories is listed under each of them.
func GroupByCategory[T Categorized](items []T, categories []model.Category) []Group[T] {
	var groups []Group[T]
	index := map[string]int{}
	for _, item := range items {
		seen := map[string]bool{}
		for _, ref := range refsOf(item) {
			key := ref.Key()
			if seen[key] {
				continue
			}
			seen[key] = true

			gi, ok := index[key]
			if !ok {
				gi = len(groups)
				index[key] = gi
				groups = append(groups, Group[T]{
					Category:      lookup(categories, ref),
					Uncategorized: ref.Uncategorized,
				})
			}
			groups[gi].Items = append(groups[gi].Items, item)
		}
	}
	return groups
}

// GroupBySelection returns one group per selected category, in selection
// order, even when a group is empty. An empty selection falls back to
// GroupByCategory.
func GroupBySelection[T Categorized](items []T, categories, selected []model.Category) []Group[T] {
	if len(selected) == 0 {
		return GroupByCategory(items, categories)
	}
	var groups []Group[T]
	seen := map[string]bool{}
	for _, sel := range selected {
		key := selectionKey(sel)
		if seen[key] {
			continue
		}
		seen[key] = true

		uncategorized := key == model.UncategorizedID
		g := Group[T]{Uncategorized: uncategorized}
		if uncategorized {
			g.Category = model.NoCategory().Category
		} else {
			g.Category = lookup(categories, model.Some(sel))
		}
		for _, item := range items {
			if memberOf(item, key) {
				g.Items = append(g.Items, item)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// FilterByCategories keeps items with at least one membership in selected.
// An empty selection is no filter at all: every item passes.
func FilterByCategories[T Categorized](items []T, selected []model.Category) []T {
	out := make([]T, 0, len(items))
	if len(selected) == 0 {
		return append(out, items...)
	}
	keys := make([]string, len(selected))
	for i, s := range selected {
		keys[i] = selectionKey(s)
	}
	for _, item := range items {
		for _, key := range keys {
			if memberOf(item, key) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// DerivedCategories lists the categories items belong to, in first-occurrence
// order, with the Uncategorized pseudo-category when some item has none.
func DerivedCategories[T Categorized](items []T) []model.Category {
	groups := GroupByCategory(items, nil)
	out := make([]model.Category, len(groups))
	for i, g := range groups {
		out[i] = g.Category
	}
	return out
}

func memberOf[T Categorized](item T, key string) bool {
	refs := item.CategoryRefs()
	if len(refs) == 0 {
		return key == model.UncategorizedID
	}
	for _, ref := range refs {
		if ref.Key() == key {
			return true
		}
	}
	return false
}
