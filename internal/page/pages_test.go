package page

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/notify"
	"github.com/dukerupert/shoplist/internal/remote"
)

func TestReducersIgnoreForeignActions(t *testing.T) {
	s := ItemsState{}
	assert.Equal(t, s, ReduceItems(s, RowRemoved{ID: "x"}))

	c := CategoriesState{}
	assert.Equal(t, c, ReduceCategories(c, TodoAdded{}))
}

func TestReducersArePure(t *testing.T) {
	before := ReduceCategories(CategoriesState{}, CategoriesLoaded{Categories: []model.Category{dairy}})
	after := ReduceCategories(before, CategoryRemoved{ID: "a"})

	assert.Equal(t, 1, before.Categories.Len(), "old state untouched")
	assert.Equal(t, 0, after.Categories.Len())
}

func TestListsReducerKeepsLinesOnUpdate(t *testing.T) {
	lines := []model.ShoppingListItem{{ID: "s1", Quantity: 2}}
	s := ReduceLists(ListsState{}, ListsLoaded{Lists: []model.ShoppingList{{ID: "L1", Name: "Old", ShoppingListItem: lines}}})
	s = ReduceLists(s, ListUpdated{List: model.ShoppingList{ID: "L1", Name: "New"}})

	l, ok := s.Lists.Find("L1")
	require.True(t, ok)
	assert.Equal(t, "New", l.Name)
	assert.Equal(t, lines, l.ShoppingListItem)
	assert.Equal(t, 2, s.Summary("L1").Total)
}

func TestCategoriesPage(t *testing.T) {
	f := newFakeBackend(t)
	deps, ch := testDeps(f)
	p := NewCategories(deps)

	done := runErr(func() error { return p.Load(context.Background()) })
	f.expect("list", remote.ResourceCategory).respond([]model.Category{dairy}, nil)
	require.NoError(t, <-done)

	added := run(func() (model.Category, error) {
		return p.Add(context.Background(), CategoryForm{Name: "Frozen"})
	})
	f.expect("create", remote.ResourceCategory).respond([]string{"F"}, nil)
	require.NoError(t, (<-added).err)
	assert.Equal(t, "Category added successfully.", message(t, ch).Text)

	updated := run(func() (model.Category, error) {
		return p.Update(context.Background(), "F", CategoryForm{Name: "Freezer", Icon: "ac_unit eb3b"})
	})
	put := f.expect("update", remote.ResourceCategory)
	assert.Equal(t, "F", put.id)
	put.respond(nil, nil)
	require.NoError(t, (<-updated).err)

	c, ok := p.State().Categories.Find("f")
	require.True(t, ok, "ids compare case-insensitively")
	assert.Equal(t, "Freezer", c.Name)
	assert.Equal(t, "ac_unit eb3b", c.DisplayIcon())

	removed := runErr(func() error { return p.Delete(context.Background(), "F") })
	f.expect("remove", remote.ResourceCategory).respond(nil, nil)
	require.NoError(t, <-removed)
	assert.Equal(t, 1, p.State().Categories.Len())
	assert.Equal(t, "Category deleted successfully.", message(t, ch).Text)
	f.assertDone()
}

func TestCategoriesDeleteInUse(t *testing.T) {
	f := newFakeBackend(t)
	deps, ch := testDeps(f)
	p := NewCategories(deps)
	p.state = ReduceCategories(p.state, CategoriesLoaded{Categories: []model.Category{dairy}})

	done := runErr(func() error { return p.Delete(context.Background(), "A") })
	f.expect("remove", remote.ResourceCategory).respond(nil, rejected(remote.ResourceCategory, remote.OpRemove, http.StatusConflict))
	require.Error(t, <-done)

	assert.Equal(t, 1, p.State().Categories.Len())
	msg := message(t, ch)
	assert.Equal(t, notify.Error, msg.Kind)
	assert.Equal(t, "Could not delete category. If there are items in this category, please remove them first.", msg.Text)
}

func TestListsPage(t *testing.T) {
	f := newFakeBackend(t)
	deps, ch := testDeps(f)
	p := NewLists(deps)

	done := runErr(func() error { return p.Load(context.Background()) })
	list := f.expect("list", remote.ResourceShoppingList)
	assert.Equal(t, []string{"shoppingListItem"}, list.query.Include)
	list.respond([]model.ShoppingList{{
		ID: "L1", Name: "Weekly", Status: model.StatusActive,
		ShoppingListItem: []model.ShoppingListItem{
			{ID: "s1", Item: model.Item{Price: price(2)}, Quantity: 2, IsPurchased: true},
			{ID: "s2", Item: model.Item{}, Quantity: 1},
		},
	}}, nil)
	require.NoError(t, <-done)

	sum := p.State().Summary("L1")
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Remaining)
	assert.Equal(t, "4.00", sum.Cost.StringFixed(2))

	created := run(func() (model.ShoppingList, error) {
		return p.Create(context.Background(), ListForm{Name: "Party"})
	})
	c := f.expect("create", remote.ResourceShoppingList)
	assert.Equal(t, model.StatusActive, c.payload.([]model.ShoppingList)[0].Status)
	c.respond([]string{"L2"}, nil)
	out := <-created
	require.NoError(t, out.err)
	assert.Equal(t, "L2", out.val.ID)
	assert.Equal(t, "New shopping list created successfully", message(t, ch).Text)

	removed := runErr(func() error { return p.Delete(context.Background(), "L1") })
	f.expect("remove", remote.ResourceShoppingList).respond(nil, &remote.Error{Kind: remote.NetworkFailure})
	require.Error(t, <-removed)
	assert.Equal(t, 2, p.State().Lists.Len())
	assert.Equal(t, "Error deleting shopping list", message(t, ch).Text)
	f.assertDone()
}

func TestTodosPage(t *testing.T) {
	f := newFakeBackend(t)
	deps, ch := testDeps(f)
	p := NewTodos(deps)

	existing := model.TodoItem{ID: uuid.New(), Title: "call mum"}
	done := runErr(func() error { return p.Load(context.Background()) })
	f.expect("list", remote.ResourceTodo).respond([]model.TodoItem{existing}, nil)
	require.NoError(t, <-done)
	assert.Equal(t, 1, p.State().Remaining())

	added := run(func() (model.TodoItem, error) {
		return p.Add(context.Background(), TodoForm{Title: "water plants"})
	})
	c := f.expect("create", remote.ResourceTodo)
	sent := c.payload.([]model.TodoItem)[0]
	c.respond([]string{sent.ID.String()}, nil)
	out := <-added
	require.NoError(t, out.err)
	assert.Equal(t, sent.ID, out.val.ID)
	assert.Equal(t, 2, p.State().Remaining())

	toggled := run(func() (model.TodoItem, error) {
		return p.Toggle(context.Background(), existing.ID.String())
	})
	put := f.expect("update", remote.ResourceTodo)
	assert.True(t, put.payload.(model.TodoItem).IsComplete)
	put.respond(nil, nil)
	require.NoError(t, (<-toggled).err)
	assert.Equal(t, 1, p.State().Remaining())
	assert.Equal(t, "Todo updated", message(t, ch).Text)

	renamed := run(func() (model.TodoItem, error) {
		return p.Update(context.Background(), existing.ID.String(), TodoForm{Title: " call mum back "})
	})
	put = f.expect("update", remote.ResourceTodo)
	assert.Equal(t, existing.ID.String(), put.id)
	edited := put.payload.(model.TodoItem)
	assert.Equal(t, "call mum back", edited.Title)
	assert.True(t, edited.IsComplete, "renaming keeps completion")
	put.respond(nil, nil)
	require.NoError(t, (<-renamed).err)
	got, _ := p.State().Todos.Find(existing.ID.String())
	assert.Equal(t, "call mum back", got.Title)

	_, err := p.Add(context.Background(), TodoForm{Title: ""})
	require.Error(t, err)
	_, err = p.Update(context.Background(), existing.ID.String(), TodoForm{Title: " "})
	require.Error(t, err)
	f.assertDone()
}
