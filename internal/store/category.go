package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(s scanner) (*model.Category, error) {
	var c model.Category
	if err := s.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
		return nil, err
	}
	return &c, nil
}

const categoryCols = `id, name, icon`

func (s *CategoryStore) List(limit int) ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryCols + ` FROM categories ORDER BY rowid` + limitClause(limit))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, *c)
	}
	return cats, rows.Err()
}

func (s *CategoryStore) GetByID(id string) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ? COLLATE NOCASE`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// CreateMany inserts all categories in one transaction and returns their
// ids in order.
func (s *CategoryStore) CreateMany(cats []model.Category) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = newID()
		if _, err := tx.Exec(`INSERT INTO categories (id, name, icon) VALUES (?, ?, ?)`, ids[i], c.Name, c.Icon); err != nil {
			return nil, constraintErr(err, "insert category")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

func (s *CategoryStore) Update(id string, c model.Category) error {
	res, err := s.db.Exec(`UPDATE categories SET name = ?, icon = ? WHERE id = ? COLLATE NOCASE`, c.Name, c.Icon, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return affected(res, "update category")
}

// Delete removes a category that no item references. A category still in use
// yields ErrConflict.
func (s *CategoryStore) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var used int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM item_categories WHERE category_id = ? COLLATE NOCASE`, id).Scan(&used); err != nil {
		return fmt.Errorf("count category use: %w", err)
	}
	if used > 0 {
		return fmt.Errorf("delete category: %d items: %w", used, ErrConflict)
	}

	res, err := tx.Exec(`DELETE FROM categories WHERE id = ? COLLATE NOCASE`, id)
	if err != nil {
		return constraintErr(err, "delete category")
	}
	if err := affected(res, "delete category"); err != nil {
		return err
	}
	return tx.Commit()
}
