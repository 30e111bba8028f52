package remote

import "github.com/dukerupert/shoplist/internal/model"

// API bundles the typed collections of the shopping list service.
type API struct {
	Categories     *Collection[model.Category]
	Items          *Collection[model.Item]
	ItemCategories *Collection[model.ItemCategory]
	Lists          *Collection[model.ShoppingList]
	ListItems      *Collection[model.ShoppingListItem]
	ListRows       *Collection[model.ListRow]
	Todos          *Collection[model.TodoItem]
}

func NewAPI(c *Client) *API {
	return &API{
		Categories:     NewCollection[model.Category](c, ResourceCategory),
		Items:          NewCollection[model.Item](c, ResourceItem),
		ItemCategories: NewCollection[model.ItemCategory](c, ResourceItemCategory),
		Lists:          NewCollection[model.ShoppingList](c, ResourceShoppingList),
		ListItems:      NewCollection[model.ShoppingListItem](c, ResourceListItem),
		ListRows:       NewCollection[model.ListRow](c, ResourceListRows),
		Todos:          NewCollection[model.TodoItem](c, ResourceTodo),
	}
}
