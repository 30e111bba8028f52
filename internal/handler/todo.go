package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type TodoHandler struct {
	todoStore *store.TodoStore
	logger    *slog.Logger
}

func NewTodoHandler(ts *store.TodoStore, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todoStore: ts, logger: logger}
}

type todoRequest struct {
	reqRef
	ID         string `json:"id" validate:"omitempty,uuid"`
	Title      string `json:"title" validate:"required,max=500"`
	IsComplete bool   `json:"isComplete"`
}

func (req todoRequest) todo() model.TodoItem {
	t := model.TodoItem{Title: strings.TrimSpace(req.Title), IsComplete: req.IsComplete}
	if u, err := uuid.Parse(req.ID); err == nil {
		t.ID = u
	}
	return t
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	todos, err := h.todoStore.List(p.Limit)
	if err != nil {
		storeError(w, h.logger, err, "list", "todos")
		return
	}
	writeData(w, todos)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.todoStore.GetByID(r.PathValue("id"))
	if err != nil {
		storeError(w, h.logger, err, "get", "todo")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	writeOne(w, *t)
}

// Create keeps the ids clients generate for their todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqs, err := decodeBatch[todoRequest](r)
	if err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, reqs) {
		return
	}

	todos := make([]model.TodoItem, len(reqs))
	for i, req := range reqs {
		todos[i] = req.todo()
	}
	ids, err := h.todoStore.CreateMany(todos)
	if err != nil {
		storeError(w, h.logger, err, "create", "todo")
		return
	}
	writeCreated(w, reqs, ids)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := decodeOne(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, []todoRequest{req}) {
		return
	}
	if err := h.todoStore.Update(r.PathValue("id"), req.todo()); err != nil {
		storeError(w, h.logger, err, "update", "todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.todoStore.Delete(r.PathValue("id")); err != nil {
		storeError(w, h.logger, err, "delete", "todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
