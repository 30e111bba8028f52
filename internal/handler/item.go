package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type ItemHandler struct {
	itemStore *store.ItemStore
	logger    *slog.Logger
}

func NewItemHandler(is *store.ItemStore, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{itemStore: is, logger: logger}
}

type idRef struct {
	ID string `json:"id" validate:"required"`
}

type joinRequest struct {
	ID       string `json:"id"`
	Category idRef  `json:"category"`
}

type itemRequest struct {
	reqRef
	Name         string           `json:"name" validate:"required,max=200"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Comment      string           `json:"comment" validate:"max=1000"`
	ItemCategory []joinRequest    `json:"itemCategory" validate:"dive"`
}

func (req itemRequest) item() model.Item {
	it := model.Item{
		Name:    strings.TrimSpace(req.Name),
		Comment: req.Comment,
	}
	if req.Price != nil {
		f := req.Price.Round(2).InexactFloat64()
		it.Price = &f
	}
	for _, j := range req.ItemCategory {
		it.ItemCategory = append(it.ItemCategory, model.ItemCategory{
			ID:       j.ID,
			Category: model.Category{ID: j.Category.ID},
		})
	}
	return it
}

// List supports include=itemCategory to attach join records.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.itemStore.List(p.Limit, p.Include["itemCategory"])
	if err != nil {
		storeError(w, h.logger, err, "list", "items")
		return
	}
	writeData(w, items)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.itemStore.GetByID(r.PathValue("id"))
	if err != nil {
		storeError(w, h.logger, err, "get", "item")
		return
	}
	if it == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeOne(w, *it)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqs, err := decodeBatch[itemRequest](r)
	if err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, reqs) {
		return
	}

	items := make([]model.Item, len(reqs))
	for i, req := range reqs {
		items[i] = req.item()
	}
	ids, err := h.itemStore.CreateMany(items)
	if err != nil {
		storeError(w, h.logger, err, "create", "item")
		return
	}
	writeCreated(w, reqs, ids)
}

// Update replaces the item and its whole category set.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeOne(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, []itemRequest{req}) {
		return
	}
	if err := h.itemStore.Update(r.PathValue("id"), req.item()); err != nil {
		storeError(w, h.logger, err, "update", "item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.itemStore.Delete(r.PathValue("id")); err != nil {
		storeError(w, h.logger, err, "delete", "item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
