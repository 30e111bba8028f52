package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

type ShoppingListStore struct {
	db *sql.DB
}

func NewShoppingListStore(db *sql.DB) *ShoppingListStore {
	return &ShoppingListStore{db: db}
}

func scanList(s scanner) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var status string
	if err := s.Scan(&l.ID, &l.Name, &status, &l.Comment); err != nil {
		return nil, err
	}
	l.Status = model.ListStatus(status)
	return &l, nil
}

const listCols = `id, name, status, comment`

// List returns lists in creation order. withLines attaches each list's lines
// together with their items.
func (s *ShoppingListStore) List(limit int, withLines bool) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(`SELECT ` + listCols + ` FROM shopping_lists ORDER BY rowid` + limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !withLines || len(lists) == 0 {
		return lists, nil
	}

	lines, err := s.lines("")
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].ShoppingListItem = lines[lists[i].ID]
	}
	return lists, nil
}

func (s *ShoppingListStore) GetByID(id string) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM shopping_lists WHERE id = ? COLLATE NOCASE`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	lines, err := s.lines(l.ID)
	if err != nil {
		return nil, err
	}
	l.ShoppingListItem = lines[l.ID]
	return l, nil
}

// lines loads list lines keyed by list id. An empty listID loads all of them.
func (s *ShoppingListStore) lines(listID string) (map[string][]model.ShoppingListItem, error) {
	query := `
		SELECT sli.id, sli.list_id, sli.comment, sli.is_purchased, sli.quantity,
		       i.id, i.name, i.price, i.comment
		FROM shopping_list_items sli
		JOIN items i ON i.id = sli.item_id`
	var args []any
	if listID != "" {
		query += ` WHERE sli.list_id = ?`
		args = append(args, listID)
	}
	query += ` ORDER BY sli.rowid`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shopping list items: %w", err)
	}
	defer rows.Close()

	out := map[string][]model.ShoppingListItem{}
	for rows.Next() {
		var li model.ShoppingListItem
		var lid string
		var purchased int
		var price sql.NullFloat64
		if err := rows.Scan(&li.ID, &lid, &li.Comment, &purchased, &li.Quantity,
			&li.Item.ID, &li.Item.Name, &price, &li.Item.Comment); err != nil {
			return nil, fmt.Errorf("scan shopping list item: %w", err)
		}
		li.IsPurchased = purchased != 0
		li.Item.Price = floatPtr(price)
		out[lid] = append(out[lid], li)
	}
	return out, rows.Err()
}

func (s *ShoppingListStore) CreateMany(lists []model.ShoppingList) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = newID()
		if _, err := tx.Exec(`INSERT INTO shopping_lists (id, name, status, comment) VALUES (?, ?, ?, ?)`,
			ids[i], l.Name, string(statusOrActive(l.Status)), l.Comment); err != nil {
			return nil, constraintErr(err, "insert shopping list")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

// Update replaces name, status and comment. Lines are left alone.
func (s *ShoppingListStore) Update(id string, l model.ShoppingList) error {
	res, err := s.db.Exec(`UPDATE shopping_lists SET name = ?, status = ?, comment = ? WHERE id = ? COLLATE NOCASE`,
		l.Name, string(statusOrActive(l.Status)), l.Comment, id)
	if err != nil {
		return constraintErr(err, "update shopping list")
	}
	return affected(res, "update shopping list")
}

func (s *ShoppingListStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ? COLLATE NOCASE`, id)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return affected(res, "delete shopping list")
}

func statusOrActive(s model.ListStatus) model.ListStatus {
	if s == "" {
		return model.StatusActive
	}
	return s
}
