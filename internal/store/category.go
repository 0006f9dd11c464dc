package store

import (
	"database/sql"
	"fmt"

	"github.com/kalamantia/larder/internal/model"
)

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.PantryID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const categoryCols = `id, name, pantry_id, created_at`

func (s *SQLCatalog) CreateCategory(name string, pantryID int64) (*model.Category, error) {
	existing, err := s.GetCategoryByName(name, pantryID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	result, err := s.db.Exec(
		`INSERT INTO categories (name, pantry_id) VALUES (?, ?)`,
		name, pantryID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetCategory(id)
}

func (s *SQLCatalog) GetCategory(id int64) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *SQLCatalog) GetCategoryByName(name string, pantryID int64) (*model.Category, error) {
	row := s.db.QueryRow(
		`SELECT `+categoryCols+` FROM categories WHERE name = ? AND pantry_id = ?`,
		name, pantryID,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

func (s *SQLCatalog) ListCategories(pantryID int64) ([]model.Category, error) {
	rows, err := s.db.Query(
		`SELECT `+categoryCols+` FROM categories WHERE pantry_id = ? ORDER BY id ASC`,
		pantryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *SQLCatalog) UpdateCategory(id int64, name string) (*model.Category, error) {
	existing, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	sibling, err := s.GetCategoryByName(name, existing.PantryID)
	if err != nil {
		return nil, err
	}
	if sibling != nil && sibling.ID != id {
		return nil, ErrDuplicate
	}
	if _, err := s.db.Exec(`UPDATE categories SET name = ? WHERE id = ?`, name, id); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.GetCategory(id)
}

func (s *SQLCatalog) DeleteCategory(id int64) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
