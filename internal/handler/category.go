package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

// CategoryInUseMessage is returned when a category that items still reference
// is deleted.
const CategoryInUseMessage = "Could not delete category. If there are items in this category, please remove them first."

type CategoryHandler struct {
	categoryStore *store.CategoryStore
	logger        *slog.Logger
}

func NewCategoryHandler(cs *store.CategoryStore, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryStore: cs, logger: logger}
}

type categoryRequest struct {
	reqRef
	Name string `json:"name" validate:"required,max=100"`
	Icon string `json:"icon" validate:"max=100"`
}

func (req categoryRequest) category() model.Category {
	return model.Category{Name: strings.TrimSpace(req.Name), Icon: strings.TrimSpace(req.Icon)}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cats, err := h.categoryStore.List(p.Limit)
	if err != nil {
		storeError(w, h.logger, err, "list", "categories")
		return
	}
	writeData(w, cats)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.categoryStore.GetByID(r.PathValue("id"))
	if err != nil {
		storeError(w, h.logger, err, "get", "category")
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeOne(w, *c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqs, err := decodeBatch[categoryRequest](r)
	if err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, reqs) {
		return
	}

	cats := make([]model.Category, len(reqs))
	for i, req := range reqs {
		cats[i] = req.category()
	}
	ids, err := h.categoryStore.CreateMany(cats)
	if err != nil {
		storeError(w, h.logger, err, "create", "category")
		return
	}
	writeCreated(w, reqs, ids)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeOne(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, []categoryRequest{req}) {
		return
	}
	if err := h.categoryStore.Update(r.PathValue("id"), req.category()); err != nil {
		storeError(w, h.logger, err, "update", "category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.categoryStore.Delete(r.PathValue("id"))
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, CategoryInUseMessage)
		return
	}
	if err != nil {
		storeError(w, h.logger, err, "delete", "category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
