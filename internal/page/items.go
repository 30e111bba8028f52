package page

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/remote"
	"github.com/dukerupert/shoplist/internal/suggest"
)

// Items drives the item catalogue page.
type Items struct {
	base
	state ItemsState
}

func NewItems(d Deps) *Items {
	return &Items{base: newBase(d, "items")}
}

func (p *Items) State() ItemsState { return p.state }

func (p *Items) dispatch(a Action) { p.state = ReduceItems(p.state, a) }

// Load fetches the catalogue and the categories concurrently.
func (p *Items) Load(ctx context.Context) error {
	p.dispatch(Loading{})

	var items []model.Item
	var cats []model.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = p.backend.Items.List(gctx, includeItemCategory)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = p.backend.Categories.List(gctx, remote.Query{PageSize: remote.MaxPageSize})
		return err
	})
	if err := g.Wait(); err != nil {
		p.dispatch(LoadFailed{})
		return p.fail("load items", err, "An error occurred while fetching items.")
	}

	p.dispatch(CategoriesLoaded{Categories: cats})
	p.dispatch(ItemsLoaded{Items: items})
	return nil
}

// Add creates an item, any categories picked in the form that do not exist
// yet, and the join records between them.
func (p *Items) Add(ctx context.Context, form ItemForm) (model.Item, error) {
	const msg = "An error occurred while adding the item."

	item, err := form.item()
	if err != nil {
		return model.Item{}, p.fail("add item", err, msg)
	}
	cats, err := p.ensureCategories(ctx, form.Categories)
	if err != nil {
		return model.Item{}, p.fail("add item", err, msg)
	}

	ids, err := p.backend.Items.Create(ctx, item)
	if err != nil {
		return model.Item{}, p.fail("add item", err, msg)
	}
	item.ID = ids[0]
	item = item.WithCategories(cats)

	if len(item.ItemCategory) > 0 {
		joinIDs, err := p.linkCategories(ctx, item)
		if err != nil {
			// The item exists on the server even though its categories do not.
			p.dispatch(ItemAdded{Item: item.WithCategories(nil)})
			return model.Item{}, p.fail("add item categories", err, msg)
		}
		for i := range item.ItemCategory {
			item.ItemCategory[i].ID = joinIDs[i]
		}
	}

	p.dispatch(ItemAdded{Item: item})
	p.ok("Item added successfully.")
	return item, nil
}

// Update saves the edited fields and category set of the item with id. The
// server replaces the item's join records with the ones sent.
func (p *Items) Update(ctx context.Context, id string, form ItemForm) (model.Item, error) {
	const msg = "An error occurred while updating the item."

	edited, err := form.item()
	if err != nil {
		return model.Item{}, p.fail("update item", err, msg)
	}
	current, ok := p.state.Items.Find(id)
	if !ok {
		return model.Item{}, p.fail("update item", fmt.Errorf("item %s is not loaded", id), msg)
	}
	cats, err := p.ensureCategories(ctx, form.Categories)
	if err != nil {
		return model.Item{}, p.fail("update item", err, msg)
	}

	current.Name = edited.Name
	current.Comment = edited.Comment
	current.Price = edited.Price
	current = current.WithCategories(cats)
	// New joins get their id here so the mirror matches what the server stores.
	for i := range current.ItemCategory {
		if current.ItemCategory[i].ID == "" {
			current.ItemCategory[i].ID = uuid.NewString()
		}
	}

	if err := p.backend.Items.Update(ctx, current.ID, current); err != nil {
		return model.Item{}, p.fail("update item", err, msg)
	}

	p.dispatch(ItemUpdated{Item: current})
	p.ok("Item updated successfully.")
	return current, nil
}

func (p *Items) Delete(ctx context.Context, id string) error {
	if err := p.backend.Items.Remove(ctx, id); err != nil {
		return p.fail("delete item", err, "An error occurred while deleting the item.")
	}
	p.dispatch(ItemRemoved{ID: id})
	p.ok("Item deleted successfully.")
	return nil
}

// AddCategory creates a category from inside the item dialog.
func (p *Items) AddCategory(ctx context.Context, form CategoryForm) (model.Category, error) {
	const msg = "An error occurred while adding the category."

	cat, err := form.category()
	if err != nil {
		return model.Category{}, p.fail("add category", err, msg)
	}
	created, err := p.createCategories(ctx, []model.Category{cat})
	if err != nil {
		return model.Category{}, p.fail("add category", err, msg)
	}
	p.ok("Category added successfully.")
	return created[0], nil
}

func (p *Items) SetFilter(categories []model.Category) {
	p.dispatch(FilterChanged{Categories: categories})
}

// SuggestCategory guesses a loaded category for a new item name.
func (p *Items) SuggestCategory(name string) (model.Category, bool) {
	return suggest.Category(name, p.state.Categories.Items())
}

// ensureCategories returns cats with every category that has no id created
// on the server in a single batch call.
func (p *Items) ensureCategories(ctx context.Context, cats []model.Category) ([]model.Category, error) {
	var missing []model.Category
	for _, c := range cats {
		if c.ID == "" {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return cats, nil
	}
	created, err := p.createCategories(ctx, missing)
	if err != nil {
		return nil, err
	}

	out := make([]model.Category, len(cats))
	next := 0
	for i, c := range cats {
		if c.ID == "" {
			c = created[next]
			next++
		}
		out[i] = c
	}
	return out, nil
}

func (p *Items) createCategories(ctx context.Context, cats []model.Category) ([]model.Category, error) {
	ids, err := p.backend.Categories.Create(ctx, cats...)
	if err != nil {
		return nil, err
	}
	created := make([]model.Category, len(cats))
	for i, c := range cats {
		created[i] = c.WithID(ids[i])
	}
	p.dispatch(CategoriesAdded{Categories: created})
	return created, nil
}

// linkCategories creates the join records of item in one call and returns
// their ids in the order of item.ItemCategory.
func (p *Items) linkCategories(ctx context.Context, item model.Item) ([]string, error) {
	joins := make([]model.ItemCategory, len(item.ItemCategory))
	for i, ic := range item.ItemCategory {
		joins[i] = model.NewItemCategory(item.ID, ic.Category)
	}
	return p.backend.ItemCategories.Create(ctx, joins...)
}
