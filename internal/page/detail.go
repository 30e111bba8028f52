package page

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/shoplist/internal/filter"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/remote"
)

// Detail drives the page of a single shopping list.
type Detail struct {
	base
	listID string
	state  DetailState
}

func NewDetail(d Deps, listID string) *Detail {
	return &Detail{base: newBase(d, "detail"), listID: listID}
}

func (p *Detail) State() DetailState { return p.state }

func (p *Detail) dispatch(a Action) { p.state = ReduceDetail(p.state, a) }

// Load fetches the list header, its rows and the item catalogue concurrently.
func (p *Detail) Load(ctx context.Context) error {
	p.dispatch(Loading{})

	var (
		list  model.ShoppingList
		rows  []model.ListRow
		items []model.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = p.backend.Lists.Get(gctx, p.listID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = p.backend.ListRows.List(gctx, remote.Query{
			PageSize: remote.MaxPageSize,
			Filter:   filter.Eq("listId", p.listID),
		})
		return err
	})
	g.Go(func() error {
		var err error
		items, err = p.backend.Items.List(gctx, includeItemCategory)
		return err
	})
	if err := g.Wait(); err != nil {
		p.dispatch(LoadFailed{})
		return p.fail("load list", err, "Error loading shopping list")
	}

	p.dispatch(ListUpdated{List: list})
	p.dispatch(ItemsLoaded{Items: items})
	p.dispatch(RowsLoaded{Rows: rows})
	return nil
}

// AddItem puts a catalogue item on the list. An item already on the list is
// refused without calling the server.
func (p *Detail) AddItem(ctx context.Context, itemID string, quantity int) (model.ListRow, error) {
	const msg = "Error adding item to shopping list"

	item, ok := p.state.Items.Find(itemID)
	if !ok {
		return model.ListRow{}, p.fail("add line", fmt.Errorf("item %s is not loaded", itemID), msg)
	}
	if p.state.onList(item.ID) {
		return model.ListRow{}, p.fail("add line", &ValidationError{Fields: map[string]string{"Item": "unique"}}, msg)
	}
	if quantity < 1 {
		quantity = 1
	}

	line := model.ShoppingListItem{
		Item:         model.Item{ID: item.ID},
		ShoppingList: &model.ShoppingList{ID: p.listID},
		Quantity:     quantity,
	}
	ids, err := p.backend.ListItems.Create(ctx, line)
	if err != nil {
		return model.ListRow{}, p.fail("add line", err, msg)
	}

	row := model.NewListRow(p.listID, ids[0], item, quantity)
	p.dispatch(RowAdded{Row: row})
	p.ok("Item added to shopping list")
	return row, nil
}

// AddNewItem creates an item that is not in the catalogue yet and puts it on
// the list.
func (p *Detail) AddNewItem(ctx context.Context, name string, quantity int) (model.ListRow, error) {
	item, err := ItemForm{Name: name}.item()
	if err != nil {
		return model.ListRow{}, p.fail("add item", err, "Error adding item")
	}
	ids, err := p.backend.Items.Create(ctx, item)
	if err != nil {
		return model.ListRow{}, p.fail("add item", err, "Error adding item")
	}
	item.ID = ids[0]
	p.dispatch(ItemAdded{Item: item})
	return p.AddItem(ctx, item.ID, quantity)
}

// SetPurchased ticks or unticks a line. The row changes only once the server
// has accepted the patch.
func (p *Detail) SetPurchased(ctx context.Context, lineID string, purchased bool) error {
	err := p.backend.ListItems.Patch(ctx, lineID, map[string]any{"isPurchased": purchased})
	if err != nil {
		return p.fail("toggle line", err, "Error updating item")
	}
	p.dispatch(RowPurchasedSet{ID: lineID, Purchased: purchased})
	p.ok("Item updated")
	return nil
}

// Toggle flips the purchased flag of a line.
func (p *Detail) Toggle(ctx context.Context, lineID string) error {
	row, ok := p.state.Rows.Find(lineID)
	if !ok {
		return p.fail("toggle line", fmt.Errorf("line %s is not loaded", lineID), "Error updating item")
	}
	return p.SetPurchased(ctx, lineID, !row.IsPurchased)
}

// SetQuantity changes the quantity of a line from raw user input; anything
// that is not a positive integer becomes 1.
func (p *Detail) SetQuantity(ctx context.Context, lineID, input string) (int, error) {
	qty := model.ClampQuantity(input)
	err := p.backend.ListItems.Patch(ctx, lineID, map[string]any{"quantity": qty})
	if err != nil {
		return 0, p.fail("set quantity", err, "Error updating quantity")
	}
	p.dispatch(RowQuantitySet{ID: lineID, Quantity: qty})
	p.ok("Quantity updated")
	return qty, nil
}

func (p *Detail) RemoveLine(ctx context.Context, lineID string) error {
	row, _ := p.state.Rows.Find(lineID)
	if err := p.backend.ListItems.Remove(ctx, lineID); err != nil {
		return p.fail("remove line", err, "Error removing item from shopping list")
	}
	p.dispatch(RowRemoved{ID: lineID})
	name := row.ItemName
	if name == "" {
		name = "Item"
	}
	p.ok(name + " removed from shopping list")
	return nil
}

// Save stores the edited name, comment and status of the list.
func (p *Detail) Save(ctx context.Context, form ListForm) (model.ShoppingList, error) {
	const msg = "Error updating shopping list"

	if form.Status == "" {
		form.Status = string(p.state.List.Status)
	}
	l, err := form.list()
	if err != nil {
		return model.ShoppingList{}, p.fail("save list", err, msg)
	}
	l.ID = p.listID
	if err := p.backend.Lists.Update(ctx, p.listID, l); err != nil {
		return model.ShoppingList{}, p.fail("save list", err, msg)
	}
	p.dispatch(ListUpdated{List: l})
	p.ok("Shopping list updated successfully")
	return l, nil
}

func (p *Detail) SetFilter(categories []model.Category) {
	p.dispatch(FilterChanged{Categories: categories})
}
