package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type ItemCategoryHandler struct {
	joinStore *store.ItemCategoryStore
	logger    *slog.Logger
}

func NewItemCategoryHandler(js *store.ItemCategoryStore, logger *slog.Logger) *ItemCategoryHandler {
	return &ItemCategoryHandler{joinStore: js, logger: logger}
}

type itemCategoryRequest struct {
	reqRef
	Item     idRef `json:"item"`
	Category idRef `json:"category"`
}

// Create links items to categories. A batch succeeds or fails as a whole.
func (h *ItemCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqs, err := decodeBatch[itemCategoryRequest](r)
	if err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, reqs) {
		return
	}

	joins := make([]model.ItemCategory, len(reqs))
	for i, req := range reqs {
		joins[i] = model.NewItemCategory(req.Item.ID, model.Category{ID: req.Category.ID})
	}
	ids, err := h.joinStore.CreateMany(joins)
	if err != nil {
		storeError(w, h.logger, err, "create", "item category")
		return
	}
	writeCreated(w, reqs, ids)
}

func (h *ItemCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.joinStore.Delete(r.PathValue("id")); err != nil {
		storeError(w, h.logger, err, "delete", "item category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
