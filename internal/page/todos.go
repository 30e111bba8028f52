package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/remote"
)

// Todos drives the todo page.
type Todos struct {
	base
	state TodosState
}

func NewTodos(d Deps) *Todos {
	return &Todos{base: newBase(d, "todos")}
}

func (p *Todos) State() TodosState { return p.state }

func (p *Todos) dispatch(a Action) { p.state = ReduceTodos(p.state, a) }

func (p *Todos) Load(ctx context.Context) error {
	p.dispatch(Loading{})
	todos, err := p.backend.Todos.List(ctx, remote.Query{PageSize: remote.MaxPageSize})
	if err != nil {
		p.dispatch(LoadFailed{})
		return p.fail("load todos", err, "Error loading todos")
	}
	p.dispatch(TodosLoaded{Todos: todos})
	return nil
}

// Add creates a todo. Todos carry a client-generated id, which the server
// keeps.
func (p *Todos) Add(ctx context.Context, form TodoForm) (model.TodoItem, error) {
	form.Title = strings.TrimSpace(form.Title)
	if err := check(form); err != nil {
		return model.TodoItem{}, p.fail("add todo", err, "Error adding todo")
	}
	todo := model.NewTodoItem(form.Title)
	ids, err := p.backend.Todos.Create(ctx, todo)
	if err != nil {
		return model.TodoItem{}, p.fail("add todo", err, "Error adding todo")
	}
	todo = todo.WithID(ids[0])
	p.dispatch(TodoAdded{Todo: todo})
	p.ok("Todo added")
	return todo, nil
}

// Toggle flips completion of the todo with id.
func (p *Todos) Toggle(ctx context.Context, id string) (model.TodoItem, error) {
	todo, ok := p.state.Todos.Find(id)
	if !ok {
		return model.TodoItem{}, p.fail("toggle todo", fmt.Errorf("todo %s is not loaded", id), "Error updating todo")
	}
	todo.IsComplete = !todo.IsComplete
	if err := p.backend.Todos.Update(ctx, todo.EntityID(), todo); err != nil {
		return model.TodoItem{}, p.fail("toggle todo", err, "Error updating todo")
	}
	p.dispatch(TodoUpdated{Todo: todo})
	p.ok("Todo updated")
	return todo, nil
}

// Update changes the title of the todo with id, keeping its completion.
func (p *Todos) Update(ctx context.Context, id string, form TodoForm) (model.TodoItem, error) {
	form.Title = strings.TrimSpace(form.Title)
	if err := check(form); err != nil {
		return model.TodoItem{}, p.fail("update todo", err, "Error updating todo")
	}
	todo, ok := p.state.Todos.Find(id)
	if !ok {
		return model.TodoItem{}, p.fail("update todo", fmt.Errorf("todo %s is not loaded", id), "Error updating todo")
	}
	todo.Title = form.Title
	if err := p.backend.Todos.Update(ctx, todo.EntityID(), todo); err != nil {
		return model.TodoItem{}, p.fail("update todo", err, "Error updating todo")
	}
	p.dispatch(TodoUpdated{Todo: todo})
	p.ok("Todo updated")
	return todo, nil
}

func (p *Todos) Delete(ctx context.Context, id string) error {
	if err := p.backend.Todos.Remove(ctx, id); err != nil {
		return p.fail("delete todo", err, "Error deleting todo")
	}
	p.dispatch(TodoRemoved{ID: id})
	p.ok("Todo deleted")
	return nil
}
