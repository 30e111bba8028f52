package model

type Item struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name"`
	Price        *float64       `json:"price,omitempty"`
	Comment      string         `json:"comment,omitempty"`
	ItemCategory []ItemCategory `json:"itemCategory,omitempty"`
}

// ItemCategory is the join record between an item and one category.
type ItemCategory struct {
	ID       string   `json:"id,omitempty"`
	Item     *Item    `json:"item,omitempty"`
	Category Category `json:"category"`
}

func (i Item) EntityID() string { return i.ID }

func (i Item) WithID(id string) Item {
	i.ID = id
	return i
}

func (ic ItemCategory) EntityID() string { return ic.ID }

func (ic ItemCategory) WithID(id string) ItemCategory {
	ic.ID = id
	return ic
}

func (i Item) PriceValue() float64 {
	if i.Price == nil {
		return 0
	}
	return *i.Price
}

func (i Item) Categories() []Category {
	if len(i.ItemCategory) == 0 {
		return nil
	}
	cats := make([]Category, 0, len(i.ItemCategory))
	for _, ic := range i.ItemCategory {
		cats = append(cats, ic.Category)
	}
	return cats
}

func (i Item) CategoryRefs() []CategoryRef {
	if len(i.ItemCategory) == 0 {
		return nil
	}
	refs := make([]CategoryRef, 0, len(i.ItemCategory))
	for _, ic := range i.ItemCategory {
		refs = append(refs, Some(ic.Category))
	}
	return refs
}

func (i Item) HasCategory(id string) bool {
	for _, ic := range i.ItemCategory {
		if SameID(ic.Category.ID, id) {
			return true
		}
	}
	return false
}

// FirstCategory returns the category a list row is filed under.
func (i Item) FirstCategory() CategoryRef {
	if len(i.ItemCategory) == 0 {
		return NoCategory()
	}
	return Some(i.ItemCategory[0].Category)
}

// WithCategories returns a copy of the item whose join set is cats, in order,
// without duplicate category references. Join ids of categories that were
// already attached are kept.
func (i Item) WithCategories(cats []Category) Item {
	out := i
	out.ItemCategory = make([]ItemCategory, 0, len(cats))
	for _, c := range cats {
		if out.HasCategory(c.ID) {
			continue
		}
		join := ItemCategory{Category: c}
		for _, existing := range i.ItemCategory {
			if SameID(existing.Category.ID, c.ID) {
				join.ID = existing.ID
				break
			}
		}
		out.ItemCategory = append(out.ItemCategory, join)
	}
	if len(out.ItemCategory) == 0 {
		out.ItemCategory = nil
	}
	return out
}

// NewItemCategory builds the create payload for a join record.
func NewItemCategory(itemID string, c Category) ItemCategory {
	return ItemCategory{
		Item:     &Item{ID: itemID},
		Category: Category{ID: c.ID},
	}
}
