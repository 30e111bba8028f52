package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(s scanner) (*model.Item, error) {
	var it model.Item
	var price sql.NullFloat64
	if err := s.Scan(&it.ID, &it.Name, &price, &it.Comment); err != nil {
		return nil, err
	}
	it.Price = floatPtr(price)
	return &it, nil
}

const itemCols = `id, name, price, comment`

// List returns items in creation order. With withCategories set, each item
// carries its join records.
func (s *ItemStore) List(limit int, withCategories bool) ([]model.Item, error) {
	rows, err := s.db.Query(`SELECT ` + itemCols + ` FROM items ORDER BY rowid` + limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !withCategories || len(items) == 0 {
		return items, nil
	}

	joins, err := s.joins()
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ItemCategory = joins[items[i].ID]
	}
	return items, nil
}

// joins loads every join record, keyed by item id, in insertion order.
func (s *ItemStore) joins() (map[string][]model.ItemCategory, error) {
	rows, err := s.db.Query(`
		SELECT ic.id, ic.item_id, c.id, c.name, c.icon
		FROM item_categories ic
		JOIN categories c ON c.id = ic.category_id
		ORDER BY ic.rowid`)
	if err != nil {
		return nil, fmt.Errorf("list item categories: %w", err)
	}
	defer rows.Close()

	out := map[string][]model.ItemCategory{}
	for rows.Next() {
		var ic model.ItemCategory
		var itemID string
		if err := rows.Scan(&ic.ID, &itemID, &ic.Category.ID, &ic.Category.Name, &ic.Category.Icon); err != nil {
			return nil, fmt.Errorf("scan item category: %w", err)
		}
		out[itemID] = append(out[itemID], ic)
	}
	return out, rows.Err()
}

func (s *ItemStore) GetByID(id string) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ? COLLATE NOCASE`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	joins, err := s.joins()
	if err != nil {
		return nil, err
	}
	it.ItemCategory = joins[it.ID]
	return it, nil
}

// CreateMany inserts items, and any join records they carry, in one
// transaction.
func (s *ItemStore) CreateMany(items []model.Item) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = newID()
		_, err := tx.Exec(`INSERT INTO items (id, name, price, comment) VALUES (?, ?, ?, ?)`,
			ids[i], it.Name, nullFloat(it.Price), it.Comment)
		if err != nil {
			return nil, fmt.Errorf("insert item: %w", err)
		}
		if err := insertJoins(tx, ids[i], it.ItemCategory); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

// Update replaces the item's fields and its whole set of join records.
func (s *ItemStore) Update(id string, it model.Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var canonical string
	err = tx.QueryRow(`SELECT id FROM items WHERE id = ? COLLATE NOCASE`, id).Scan(&canonical)
	if err == sql.ErrNoRows {
		return fmt.Errorf("update item: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if _, err := tx.Exec(`UPDATE items SET name = ?, price = ?, comment = ? WHERE id = ?`,
		it.Name, nullFloat(it.Price), it.Comment, canonical); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM item_categories WHERE item_id = ?`, canonical); err != nil {
		return fmt.Errorf("clear item categories: %w", err)
	}
	if err := insertJoins(tx, canonical, it.ItemCategory); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *ItemStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM items WHERE id = ? COLLATE NOCASE`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return affected(res, "delete item")
}

// insertJoins links itemID to each category, skipping repeated categories.
// Join ids already set by the caller are kept.
func insertJoins(tx execer, itemID string, joins []model.ItemCategory) error {
	seen := map[string]bool{}
	for _, ic := range joins {
		catID, err := canonicalCategory(tx, ic.Category.ID)
		if err != nil {
			return err
		}
		if seen[catID] {
			continue
		}
		seen[catID] = true
		if _, err := tx.Exec(`INSERT INTO item_categories (id, item_id, category_id) VALUES (?, ?, ?)`,
			idOrNew(ic.ID), itemID, catID); err != nil {
			return constraintErr(err, "insert item category")
		}
	}
	return nil
}

func canonicalCategory(tx execer, id string) (string, error) {
	var catID string
	err := tx.QueryRow(`SELECT id FROM categories WHERE id = ? COLLATE NOCASE`, id).Scan(&catID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lookup category: %w", err)
	}
	return catID, nil
}
