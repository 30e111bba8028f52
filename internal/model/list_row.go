package model

// ListRow is one line of a shopping list flattened with its item and the
// item's first category, as served by the shoppingListItemsWithCategory view.
type ListRow struct {
	ListID             string   `json:"listId,omitempty"`
	ShoppingListItemID string   `json:"shoppingListItemId,omitempty"`
	ItemID             string   `json:"itemId,omitempty"`
	CategoryID         string   `json:"categoryId,omitempty"`
	ListName           string   `json:"listName,omitempty"`
	ListStatus         string   `json:"listStatus,omitempty"`
	ListComment        string   `json:"listComment,omitempty"`
	ItemName           string   `json:"itemName,omitempty"`
	ItemPrice          *float64 `json:"itemPrice,omitempty"`
	IsPurchased        bool     `json:"isPurchased"`
	Quantity           int      `json:"quantity"`
	CategoryName       string   `json:"categoryName,omitempty"`
	Icon               string   `json:"icon,omitempty"`
}

// NewListRow builds the row for an item that was just added to a list.
func NewListRow(listID, lineID string, item Item, quantity int) ListRow {
	row := ListRow{
		ListID:             listID,
		ShoppingListItemID: lineID,
		ItemID:             item.ID,
		ItemName:           item.Name,
		ItemPrice:          item.Price,
		Quantity:           quantity,
	}
	row = row.WithCategory(item.FirstCategory())
	return row
}

func (r ListRow) EntityID() string { return r.ShoppingListItemID }

func (r ListRow) WithID(id string) ListRow {
	r.ShoppingListItemID = id
	return r
}

func (r ListRow) Category() CategoryRef {
	if r.CategoryID == "" || r.CategoryID == UncategorizedID {
		return NoCategory()
	}
	return Some(Category{ID: r.CategoryID, Name: r.CategoryName, Icon: r.Icon})
}

func (r ListRow) CategoryRefs() []CategoryRef {
	return []CategoryRef{r.Category()}
}

func (r ListRow) WithCategory(ref CategoryRef) ListRow {
	if ref.Uncategorized {
		r.CategoryID = UncategorizedID
		r.CategoryName = ""
		r.Icon = ""
		return r
	}
	r.CategoryID = ref.Category.ID
	r.CategoryName = ref.Category.Name
	r.Icon = ref.Category.Icon
	return r
}

func (r ListRow) LineQuantity() int { return r.Quantity }
func (r ListRow) Purchased() bool   { return r.IsPurchased }

func (r ListRow) UnitPrice() float64 {
	if r.ItemPrice == nil {
		return 0
	}
	return *r.ItemPrice
}
