package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
)

type ShoppingListItemStore struct {
	db *sql.DB
}

func NewShoppingListItemStore(db *sql.DB) *ShoppingListItemStore {
	return &ShoppingListItemStore{db: db}
}

// LinePatch holds the fields a PATCH may change. Nil fields are kept.
type LinePatch struct {
	Quantity    *int
	IsPurchased *bool
	Comment     *string
}

func (p LinePatch) Empty() bool {
	return p.Quantity == nil && p.IsPurchased == nil && p.Comment == nil
}

func (s *ShoppingListItemStore) GetByID(id string) (*model.ShoppingListItem, error) {
	var li model.ShoppingListItem
	var listID string
	var purchased int
	err := s.db.QueryRow(`
		SELECT sli.id, sli.list_id, sli.comment, sli.is_purchased, sli.quantity, sli.item_id, i.name
		FROM shopping_list_items sli
		JOIN items i ON i.id = sli.item_id
		WHERE sli.id = ? COLLATE NOCASE`, id).
		Scan(&li.ID, &listID, &li.Comment, &purchased, &li.Quantity, &li.Item.ID, &li.Item.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list item: %w", err)
	}
	li.IsPurchased = purchased != 0
	li.ShoppingList = &model.ShoppingList{ID: listID}
	return &li, nil
}

// CreateMany puts items on lists. Both the item and the list must exist.
func (s *ShoppingListItemStore) CreateMany(lines []model.ShoppingListItem) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(lines))
	for i, li := range lines {
		if li.ShoppingList == nil {
			return nil, fmt.Errorf("shopping list item %d: list: %w", i, ErrNotFound)
		}
		var listID, itemID string
		err := tx.QueryRow(`SELECT id FROM shopping_lists WHERE id = ? COLLATE NOCASE`, li.ShoppingList.ID).Scan(&listID)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("shopping list %q: %w", li.ShoppingList.ID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("lookup shopping list: %w", err)
		}
		err = tx.QueryRow(`SELECT id FROM items WHERE id = ? COLLATE NOCASE`, li.Item.ID).Scan(&itemID)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %q: %w", li.Item.ID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("lookup item: %w", err)
		}

		qty := li.Quantity
		if qty < 1 {
			qty = 1
		}
		ids[i] = newID()
		if _, err := tx.Exec(`
			INSERT INTO shopping_list_items (id, list_id, item_id, quantity, is_purchased, comment)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ids[i], listID, itemID, qty, boolInt(li.IsPurchased), li.Comment); err != nil {
			return nil, constraintErr(err, "insert shopping list item")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

// Patch updates only the fields set in p.
func (s *ShoppingListItemStore) Patch(id string, p LinePatch) error {
	var sets []string
	var args []any
	if p.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *p.Quantity)
	}
	if p.IsPurchased != nil {
		sets = append(sets, "is_purchased = ?")
		args = append(args, boolInt(*p.IsPurchased))
	}
	if p.Comment != nil {
		sets = append(sets, "comment = ?")
		args = append(args, *p.Comment)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := s.db.Exec(`UPDATE shopping_list_items SET `+strings.Join(sets, ", ")+` WHERE id = ? COLLATE NOCASE`, args...)
	if err != nil {
		return constraintErr(err, "patch shopping list item")
	}
	return affected(res, "patch shopping list item")
}

func (s *ShoppingListItemStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM shopping_list_items WHERE id = ? COLLATE NOCASE`, id)
	if err != nil {
		return fmt.Errorf("delete shopping list item: %w", err)
	}
	return affected(res, "delete shopping list item")
}
