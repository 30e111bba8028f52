package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

type ShoppingListHandler struct {
	listStore *store.ShoppingListStore
	lineStore *store.ShoppingListItemStore
	rowStore  *store.ListRowStore
	logger    *slog.Logger
}

func NewShoppingListHandler(ls *store.ShoppingListStore, lis *store.ShoppingListItemStore, rs *store.ListRowStore, logger *slog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{listStore: ls, lineStore: lis, rowStore: rs, logger: logger}
}

type shoppingListRequest struct {
	reqRef
	Name    string `json:"name" validate:"required,max=200"`
	Status  string `json:"status" validate:"omitempty,oneof=active completed"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (req shoppingListRequest) list() model.ShoppingList {
	return model.ShoppingList{
		Name:    strings.TrimSpace(req.Name),
		Status:  model.ListStatus(req.Status),
		Comment: req.Comment,
	}
}

// List supports include=shoppingListItem to attach each list's lines.
func (h *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lists, err := h.listStore.List(p.Limit, p.Include["shoppingListItem"])
	if err != nil {
		storeError(w, h.logger, err, "list", "shopping lists")
		return
	}
	writeData(w, lists)
}

func (h *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.listStore.GetByID(r.PathValue("id"))
	if err != nil {
		storeError(w, h.logger, err, "get", "shopping list")
		return
	}
	if l == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	writeOne(w, *l)
}

func (h *ShoppingListHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqs, err := decodeBatch[shoppingListRequest](r)
	if err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, reqs) {
		return
	}

	lists := make([]model.ShoppingList, len(reqs))
	for i, req := range reqs {
		lists[i] = req.list()
	}
	ids, err := h.listStore.CreateMany(lists)
	if err != nil {
		storeError(w, h.logger, err, "create", "shopping list")
		return
	}
	writeCreated(w, reqs, ids)
}

func (h *ShoppingListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req shoppingListRequest
	if err := decodeOne(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, []shoppingListRequest{req}) {
		return
	}
	if err := h.listStore.Update(r.PathValue("id"), req.list()); err != nil {
		storeError(w, h.logger, err, "update", "shopping list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.listStore.Delete(r.PathValue("id")); err != nil {
		storeError(w, h.logger, err, "delete", "shopping list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type lineRequest struct {
	reqRef
	Item         idRef  `json:"item"`
	ShoppingList idRef  `json:"shoppingList"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	IsPurchased  bool   `json:"isPurchased"`
	Comment      string `json:"comment" validate:"max=1000"`
}

type linePatchRequest struct {
	Quantity    *int    `json:"quantity" validate:"omitempty,min=1"`
	IsPurchased *bool   `json:"isPurchased"`
	Comment     *string `json:"comment" validate:"omitempty,max=1000"`
}

// CreateLine puts items on lists. A zero quantity defaults to 1.
func (h *ShoppingListHandler) CreateLine(w http.ResponseWriter, r *http.Request) {
	reqs, err := decodeBatch[lineRequest](r)
	if err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, reqs) {
		return
	}

	lines := make([]model.ShoppingListItem, len(reqs))
	for i, req := range reqs {
		lines[i] = model.ShoppingListItem{
			Item:         model.Item{ID: req.Item.ID},
			ShoppingList: &model.ShoppingList{ID: req.ShoppingList.ID},
			Quantity:     req.Quantity,
			IsPurchased:  req.IsPurchased,
			Comment:      req.Comment,
		}
	}
	ids, err := h.lineStore.CreateMany(lines)
	if err != nil {
		storeError(w, h.logger, err, "create", "shopping list item")
		return
	}
	writeCreated(w, reqs, ids)
}

func (h *ShoppingListHandler) GetLine(w http.ResponseWriter, r *http.Request) {
	li, err := h.lineStore.GetByID(r.PathValue("id"))
	if err != nil {
		storeError(w, h.logger, err, "get", "shopping list item")
		return
	}
	if li == nil {
		writeError(w, http.StatusNotFound, "shopping list item not found")
		return
	}
	writeOne(w, *li)
}

// PatchLine changes quantity, purchased flag or comment of one line.
func (h *ShoppingListHandler) PatchLine(w http.ResponseWriter, r *http.Request) {
	var req linePatchRequest
	if err := decodeOne(r, &req); err != nil {
		invalidJSON(w, err)
		return
	}
	if !validateAll(w, []linePatchRequest{req}) {
		return
	}
	patch := store.LinePatch{Quantity: req.Quantity, IsPurchased: req.IsPurchased, Comment: req.Comment}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if err := h.lineStore.Patch(r.PathValue("id"), patch); err != nil {
		storeError(w, h.logger, err, "update", "shopping list item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingListHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	if err := h.lineStore.Delete(r.PathValue("id")); err != nil {
		storeError(w, h.logger, err, "delete", "shopping list item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRows serves the flattened line view. The only supported filter is
// listId; an empty listId matches no list.
func (h *ShoppingListHandler) ListRows(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var listID string
	for _, c := range p.Filter {
		if !strings.EqualFold(c.Field, "listId") {
			writeError(w, http.StatusBadRequest, "unsupported filter field "+c.Field)
			return
		}
		listID = c.Value
	}
	if len(p.Filter) > 0 && listID == "" {
		writeData(w, []model.ListRow{})
		return
	}
	rows, err := h.rowStore.List(listID, p.Limit)
	if err != nil {
		storeError(w, h.logger, err, "list", "shopping list rows")
		return
	}
	writeData(w, rows)
}
