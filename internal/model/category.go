package model

import "strings"

const (
	// DefaultIcon is rendered for categories without an icon of their own.
	DefaultIcon = "category e574"

	// UncategorizedID is the wire value for "no category" in list rows.
	UncategorizedID   = "-1"
	UncategorizedName = "Uncategorized"
)

type Category struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

func (c Category) EntityID() string { return c.ID }

func (c Category) WithID(id string) Category {
	c.ID = id
	return c
}

func (c Category) DisplayIcon() string {
	if c.Icon == "" {
		return DefaultIcon
	}
	return c.Icon
}

// CategoryRef is either a concrete category or the uncategorized bucket.
type CategoryRef struct {
	Category      Category
	Uncategorized bool
}

func Some(c Category) CategoryRef {
	return CategoryRef{Category: c}
}

func NoCategory() CategoryRef {
	return CategoryRef{
		Category:      Category{ID: UncategorizedID, Name: UncategorizedName, Icon: DefaultIcon},
		Uncategorized: true,
	}
}

// Key returns the case-folded grouping key of the reference.
func (r CategoryRef) Key() string {
	if r.Uncategorized {
		return UncategorizedID
	}
	return strings.ToLower(r.Category.ID)
}

// SameID reports whether two assigned identifiers refer to the same entity.
// Unassigned (empty) identifiers never match.
func SameID(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}
