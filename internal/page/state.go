package page

import (
	"github.com/dukerupert/shoplist/internal/aggregate"
	"github.com/dukerupert/shoplist/internal/mirror"
	"github.com/dukerupert/shoplist/internal/model"
)

// Action is a confirmed change applied to a page state by its reducer.
// Reducers ignore actions that do not concern their page.
type Action interface {
	action()
}

type (
	Loading    struct{}
	LoadFailed struct{}

	FilterChanged struct{ Categories []model.Category }

	CategoriesLoaded  struct{ Categories []model.Category }
	CategoriesAdded   struct{ Categories []model.Category }
	CategoryUpdated   struct{ Category model.Category }
	CategoryRemoved   struct{ ID string }
	ItemsLoaded       struct{ Items []model.Item }
	ItemAdded         struct{ Item model.Item }
	ItemUpdated       struct{ Item model.Item }
	ItemRemoved       struct{ ID string }
	ListsLoaded       struct{ Lists []model.ShoppingList }
	ListAdded         struct{ List model.ShoppingList }
	ListUpdated       struct{ List model.ShoppingList }
	ListRemoved       struct{ ID string }
	RowsLoaded        struct{ Rows []model.ListRow }
	RowAdded          struct{ Row model.ListRow }
	RowPurchasedSet   struct {
		ID        string
		Purchased bool
	}
	RowQuantitySet struct {
		ID       string
		Quantity int
	}
	RowRemoved   struct{ ID string }
	TodosLoaded  struct{ Todos []model.TodoItem }
	TodoAdded    struct{ Todo model.TodoItem }
	TodoUpdated  struct{ Todo model.TodoItem }
	TodoRemoved  struct{ ID string }
)

func (Loading) action()          {}
func (LoadFailed) action()       {}
func (FilterChanged) action()    {}
func (CategoriesLoaded) action() {}
func (CategoriesAdded) action()  {}
func (CategoryUpdated) action()  {}
func (CategoryRemoved) action()  {}
func (ItemsLoaded) action()      {}
func (ItemAdded) action()        {}
func (ItemUpdated) action()      {}
func (ItemRemoved) action()      {}
func (ListsLoaded) action()      {}
func (ListAdded) action()        {}
func (ListUpdated) action()      {}
func (ListRemoved) action()      {}
func (RowsLoaded) action()       {}
func (RowAdded) action()         {}
func (RowPurchasedSet) action()  {}
func (RowQuantitySet) action()   {}
func (RowRemoved) action()       {}
func (TodosLoaded) action()      {}
func (TodoAdded) action()        {}
func (TodoUpdated) action()      {}
func (TodoRemoved) action()      {}

// ItemsState backs the item catalogue page.
type ItemsState struct {
	Loading    bool
	Items      mirror.Mirror[model.Item]
	Categories mirror.Mirror[model.Category]
	Filter     []model.Category
}

func ReduceItems(s ItemsState, a Action) ItemsState {
	switch a := a.(type) {
	case Loading:
		s.Loading = true
	case LoadFailed:
		s.Loading = false
	case ItemsLoaded:
		s.Items = s.Items.Load(a.Items)
		s.Loading = false
	case CategoriesLoaded:
		s.Categories = s.Categories.Load(a.Categories)
	case CategoriesAdded:
		for _, c := range a.Categories {
			s.Categories = s.Categories.Append(c)
		}
	case ItemAdded:
		s.Items = s.Items.Append(a.Item)
	case ItemUpdated:
		s.Items = s.Items.Replace(a.Item.ID, a.Item)
	case ItemRemoved:
		s.Items = s.Items.RemoveByID(a.ID)
	case FilterChanged:
		s.Filter = a.Categories
	}
	return s
}

// Visible is the catalogue narrowed to the selected categories.
func (s ItemsState) Visible() []model.Item {
	return aggregate.FilterByCategories(s.Items.Items(), s.Filter)
}

func (s ItemsState) Groups() []aggregate.Group[model.Item] {
	return aggregate.GroupBySelection(s.Items.Items(), s.Categories.Items(), s.Filter)
}

// CategoriesState backs the category management page.
type CategoriesState struct {
	Loading    bool
	Categories mirror.Mirror[model.Category]
}

func ReduceCategories(s CategoriesState, a Action) CategoriesState {
	switch a := a.(type) {
	case Loading:
		s.Loading = true
	case LoadFailed:
		s.Loading = false
	case CategoriesLoaded:
		s.Categories = s.Categories.Load(a.Categories)
		s.Loading = false
	case CategoriesAdded:
		for _, c := range a.Categories {
			s.Categories = s.Categories.Append(c)
		}
	case CategoryUpdated:
		s.Categories = s.Categories.Replace(a.Category.ID, a.Category)
	case CategoryRemoved:
		s.Categories = s.Categories.RemoveByID(a.ID)
	}
	return s
}

// ListsState backs the overview of all shopping lists.
type ListsState struct {
	Loading bool
	Lists   mirror.Mirror[model.ShoppingList]
}

func ReduceLists(s ListsState, a Action) ListsState {
	switch a := a.(type) {
	case Loading:
		s.Loading = true
	case LoadFailed:
		s.Loading = false
	case ListsLoaded:
		s.Lists = s.Lists.Load(a.Lists)
		s.Loading = false
	case ListAdded:
		s.Lists = s.Lists.Append(a.List)
	case ListUpdated:
		s.Lists = s.Lists.Update(a.List.ID, func(old model.ShoppingList) model.ShoppingList {
			// Updates carry no lines; keep the ones already loaded.
			if a.List.ShoppingListItem == nil {
				a.List.ShoppingListItem = old.ShoppingListItem
			}
			return a.List
		})
	case ListRemoved:
		s.Lists = s.Lists.RemoveByID(a.ID)
	}
	return s
}

// Summary totals the lines of the list with id, if loaded.
func (s ListsState) Summary(id string) aggregate.Summary {
	l, _ := s.Lists.Find(id)
	return aggregate.SummarizeList(l)
}

// DetailState backs the page of one shopping list.
type DetailState struct {
	Loading bool
	List    model.ShoppingList
	Rows    mirror.Mirror[model.ListRow]
	// Items is the whole catalogue, used to offer items to add.
	Items  mirror.Mirror[model.Item]
	Filter []model.Category
}

func ReduceDetail(s DetailState, a Action) DetailState {
	switch a := a.(type) {
	case Loading:
		s.Loading = true
	case LoadFailed:
		s.Loading = false
	case ListUpdated:
		if s.List.ID == "" || model.SameID(s.List.ID, a.List.ID) {
			s.List = a.List
		}
	case RowsLoaded:
		s.Rows = s.Rows.Load(a.Rows)
		s.Loading = false
	case ItemsLoaded:
		s.Items = s.Items.Load(a.Items)
	case ItemAdded:
		s.Items = s.Items.Append(a.Item)
	case RowAdded:
		s.Rows = s.Rows.Append(a.Row)
	case RowPurchasedSet:
		s.Rows = s.Rows.Update(a.ID, func(r model.ListRow) model.ListRow {
			r.IsPurchased = a.Purchased
			return r
		})
	case RowQuantitySet:
		s.Rows = s.Rows.Update(a.ID, func(r model.ListRow) model.ListRow {
			r.Quantity = a.Quantity
			return r
		})
	case RowRemoved:
		s.Rows = s.Rows.RemoveByID(a.ID)
	case FilterChanged:
		s.Filter = a.Categories
	}
	return s
}

func (s DetailState) Summary() aggregate.Summary {
	return aggregate.Summarize(s.Rows.Items())
}

// Categories lists the categories present on the list.
func (s DetailState) Categories() []model.Category {
	return aggregate.DerivedCategories(s.Rows.Items())
}

// Groups returns the rows grouped for display: every category on the list
// when no filter is set, otherwise just the selected ones.
func (s DetailState) Groups() []aggregate.Group[model.ListRow] {
	rows := s.Rows.Items()
	return aggregate.GroupBySelection(rows, aggregate.DerivedCategories(rows), s.Filter)
}

func (s DetailState) onList(itemID string) bool {
	for _, r := range s.Rows.Items() {
		if model.SameID(r.ItemID, itemID) {
			return true
		}
	}
	return false
}

// Available lists catalogue items not yet on the list.
func (s DetailState) Available() []model.Item {
	return aggregate.AvailableItems(s.Items.Items(), s.Rows.Items())
}

type TodosState struct {
	Loading bool
	Todos   mirror.Mirror[model.TodoItem]
}

func ReduceTodos(s TodosState, a Action) TodosState {
	switch a := a.(type) {
	case Loading:
		s.Loading = true
	case LoadFailed:
		s.Loading = false
	case TodosLoaded:
		s.Todos = s.Todos.Load(a.Todos)
		s.Loading = false
	case TodoAdded:
		s.Todos = s.Todos.Append(a.Todo)
	case TodoUpdated:
		s.Todos = s.Todos.Replace(a.Todo.EntityID(), a.Todo)
	case TodoRemoved:
		s.Todos = s.Todos.RemoveByID(a.ID)
	}
	return s
}

// Remaining counts todos not yet complete.
func (s TodosState) Remaining() int {
	n := 0
	for _, t := range s.Todos.Items() {
		if !t.IsComplete {
			n++
		}
	}
	return n
}
