package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

// ListRowStore reads the flattened shopping_list_items_with_category view.
type ListRowStore struct {
	db *sql.DB
}

func NewListRowStore(db *sql.DB) *ListRowStore {
	return &ListRowStore{db: db}
}

const rowCols = `list_id, shopping_list_item_id, item_id, category_id, list_name, list_status,
	list_comment, item_name, item_price, is_purchased, quantity, category_name, icon`

func scanRow(s scanner) (*model.ListRow, error) {
	var r model.ListRow
	var price sql.NullFloat64
	var purchased int
	err := s.Scan(&r.ListID, &r.ShoppingListItemID, &r.ItemID, &r.CategoryID, &r.ListName, &r.ListStatus,
		&r.ListComment, &r.ItemName, &price, &purchased, &r.Quantity, &r.CategoryName, &r.Icon)
	if err != nil {
		return nil, err
	}
	r.ItemPrice = floatPtr(price)
	r.IsPurchased = purchased != 0
	return &r, nil
}

// List returns rows in the order lines were added. An empty listID returns
// the rows of every list.
func (s *ListRowStore) List(listID string, limit int) ([]model.ListRow, error) {
	query := `SELECT ` + rowCols + ` FROM shopping_list_items_with_category`
	var args []any
	if listID != "" {
		query += ` WHERE list_id = ? COLLATE NOCASE`
		args = append(args, listID)
	}
	query += ` ORDER BY line_order` + limitClause(limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	var out []model.ListRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
