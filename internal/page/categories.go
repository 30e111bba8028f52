package page

import (
	"context"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/remote"
)

// Categories drives the category management page.
type Categories struct {
	base
	state CategoriesState
}

func NewCategories(d Deps) *Categories {
	return &Categories{base: newBase(d, "categories")}
}

func (p *Categories) State() CategoriesState { return p.state }

func (p *Categories) dispatch(a Action) { p.state = ReduceCategories(p.state, a) }

func (p *Categories) Load(ctx context.Context) error {
	p.dispatch(Loading{})
	cats, err := p.backend.Categories.List(ctx, remote.Query{PageSize: remote.MaxPageSize})
	if err != nil {
		p.dispatch(LoadFailed{})
		return p.fail("load categories", err, "Could not load categories.")
	}
	p.dispatch(CategoriesLoaded{Categories: cats})
	return nil
}

func (p *Categories) Add(ctx context.Context, form CategoryForm) (model.Category, error) {
	cat, err := form.category()
	if err != nil {
		return model.Category{}, p.fail("add category", err, "Could not add category.")
	}
	ids, err := p.backend.Categories.Create(ctx, cat)
	if err != nil {
		return model.Category{}, p.fail("add category", err, "Could not add category.")
	}
	cat.ID = ids[0]
	p.dispatch(CategoriesAdded{Categories: []model.Category{cat}})
	p.ok("Category added successfully.")
	return cat, nil
}

func (p *Categories) Update(ctx context.Context, id string, form CategoryForm) (model.Category, error) {
	cat, err := form.category()
	if err != nil {
		return model.Category{}, p.fail("update category", err, "Could not update category.")
	}
	cat.ID = id
	if err := p.backend.Categories.Update(ctx, id, cat); err != nil {
		return model.Category{}, p.fail("update category", err, "Could not update category.")
	}
	p.dispatch(CategoryUpdated{Category: cat})
	p.ok("Category updated successfully.")
	return cat, nil
}

// Delete removes a category. The server refuses with 409 while items still
// use it; any rejection is reported as that case.
func (p *Categories) Delete(ctx context.Context, id string) error {
	if err := p.backend.Categories.Remove(ctx, id); err != nil {
		msg := "Could not delete category."
		if remote.IsKind(err, remote.ServerRejection) {
			msg = "Could not delete category. If there are items in this category, please remove them first."
		}
		return p.fail("delete category", err, msg)
	}
	p.dispatch(CategoryRemoved{ID: id})
	p.ok("Category deleted successfully.")
	return nil
}
