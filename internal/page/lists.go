package page

import (
	"context"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/remote"
)

// Lists drives the overview of all shopping lists.
type Lists struct {
	base
	state ListsState
}

func NewLists(d Deps) *Lists {
	return &Lists{base: newBase(d, "lists")}
}

func (p *Lists) State() ListsState { return p.state }

func (p *Lists) dispatch(a Action) { p.state = ReduceLists(p.state, a) }

func (p *Lists) Load(ctx context.Context) error {
	p.dispatch(Loading{})
	lists, err := p.backend.Lists.List(ctx, remote.Query{
		PageSize: remote.MaxPageSize,
		Include:  []string{"shoppingListItem"},
	})
	if err != nil {
		p.dispatch(LoadFailed{})
		return p.fail("load lists", err, "Error loading shopping lists")
	}
	p.dispatch(ListsLoaded{Lists: lists})
	return nil
}

// Create adds a new list; lists start active unless the form says otherwise.
func (p *Lists) Create(ctx context.Context, form ListForm) (model.ShoppingList, error) {
	l, err := form.list()
	if err != nil {
		return model.ShoppingList{}, p.fail("create list", err, "Error creating new shopping list")
	}
	ids, err := p.backend.Lists.Create(ctx, l)
	if err != nil {
		return model.ShoppingList{}, p.fail("create list", err, "Error creating new shopping list")
	}
	l.ID = ids[0]
	p.dispatch(ListAdded{List: l})
	p.ok("New shopping list created successfully")
	return l, nil
}

func (p *Lists) Delete(ctx context.Context, id string) error {
	if err := p.backend.Lists.Remove(ctx, id); err != nil {
		return p.fail("delete list", err, "Error deleting shopping list")
	}
	p.dispatch(ListRemoved{ID: id})
	p.ok("Shopping list deleted successfully")
	return nil
}
