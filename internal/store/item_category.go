package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

type ItemCategoryStore struct {
	db *sql.DB
}

func NewItemCategoryStore(db *sql.DB) *ItemCategoryStore {
	return &ItemCategoryStore{db: db}
}

// CreateMany links items to categories. The batch is all or nothing: an
// unknown item or category gives ErrNotFound, a pair that is already linked
// (or repeated in the batch) gives ErrConflict.
func (s *ItemCategoryStore) CreateMany(joins []model.ItemCategory) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(joins))
	for i, ic := range joins {
		if ic.Item == nil {
			return nil, fmt.Errorf("item category %d: item: %w", i, ErrNotFound)
		}
		var itemID string
		err := tx.QueryRow(`SELECT id FROM items WHERE id = ? COLLATE NOCASE`, ic.Item.ID).Scan(&itemID)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %q: %w", ic.Item.ID, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("lookup item: %w", err)
		}
		catID, err := canonicalCategory(tx, ic.Category.ID)
		if err != nil {
			return nil, err
		}

		ids[i] = newID()
		if _, err := tx.Exec(`INSERT INTO item_categories (id, item_id, category_id) VALUES (?, ?, ?)`,
			ids[i], itemID, catID); err != nil {
			return nil, constraintErr(err, "insert item category")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

func (s *ItemCategoryStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM item_categories WHERE id = ? COLLATE NOCASE`, id)
	if err != nil {
		return fmt.Errorf("delete item category: %w", err)
	}
	return affected(res, "delete item category")
}
