package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/shoplist/internal/model"
)

type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

func scanTodo(s scanner) (*model.TodoItem, error) {
	var t model.TodoItem
	var id string
	var done int
	if err := s.Scan(&id, &t.Title, &done); err != nil {
		return nil, err
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("todo id %q: %w", id, err)
	}
	t.ID = u
	t.IsComplete = done != 0
	return &t, nil
}

func (s *TodoStore) List(limit int) ([]model.TodoItem, error) {
	rows, err := s.db.Query(`SELECT id, title, is_complete FROM todos ORDER BY rowid` + limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []model.TodoItem
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func (s *TodoStore) GetByID(id string) (*model.TodoItem, error) {
	t, err := scanTodo(s.db.QueryRow(`SELECT id, title, is_complete FROM todos WHERE id = ? COLLATE NOCASE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// CreateMany keeps client-generated ids. A repeated id is a conflict.
func (s *TodoStore) CreateMany(todos []model.TodoItem) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(todos))
	for i, t := range todos {
		ids[i] = idOrNew(t.EntityID())
		if _, err := tx.Exec(`INSERT INTO todos (id, title, is_complete) VALUES (?, ?, ?)`,
			ids[i], t.Title, boolInt(t.IsComplete)); err != nil {
			return nil, constraintErr(err, "insert todo")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

func (s *TodoStore) Update(id string, t model.TodoItem) error {
	res, err := s.db.Exec(`UPDATE todos SET title = ?, is_complete = ? WHERE id = ? COLLATE NOCASE`,
		t.Title, boolInt(t.IsComplete), id)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return affected(res, "update todo")
}

func (s *TodoStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM todos WHERE id = ? COLLATE NOCASE`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return affected(res, "delete todo")
}
