package model

import "github.com/google/uuid"

type TodoItem struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	IsComplete bool      `json:"isComplete"`
}

type TodoItemList struct {
	Data []TodoItem `json:"data"`
}

// NewTodoItem returns an incomplete todo with a fresh client-side id.
func NewTodoItem(title string) TodoItem {
	return TodoItem{ID: uuid.New(), Title: title}
}

func (t TodoItem) EntityID() string {
	if t.ID == uuid.Nil {
		return ""
	}
	return t.ID.String()
}

// WithID parses id as a UUID; an unparsable id leaves the todo unchanged.
func (t TodoItem) WithID(id string) TodoItem {
	if u, err := uuid.Parse(id); err == nil {
		t.ID = u
	}
	return t
}
