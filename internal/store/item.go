package store

import (
	"database/sql"
	"fmt"

	"github.com/kalamantia/larder/internal/model"
)

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var it model.Item
	err := scanner.Scan(
		&it.ID, &it.Name, &it.Description, &it.Quantity, &it.Price,
		&it.CategoryID, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

const itemCols = `id, name, description, quantity, price, category_id, created_at`

func (s *SQLCatalog) CreateItem(name, description string, quantity int64, price float64, categoryID int64) (*model.Item, error) {
	existing, err := s.GetItemByName(name, categoryID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	result, err := s.db.Exec(
		`INSERT INTO items (name, description, quantity, price, category_id) VALUES (?, ?, ?, ?, ?)`,
		name, description, quantity, price, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(id)
}

func (s *SQLCatalog) GetItem(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *SQLCatalog) GetItemByName(name string, categoryID int64) (*model.Item, error) {
	row := s.db.QueryRow(
		`SELECT `+itemCols+` FROM items WHERE name = ? AND category_id = ?`,
		name, categoryID,
	)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by name: %w", err)
	}
	return it, nil
}

func (s *SQLCatalog) ListItems(categoryID int64) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM items WHERE category_id = ? ORDER BY id ASC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *SQLCatalog) UpdateItem(id int64, name, description string, quantity int64, price float64) (*model.Item, error) {
	existing, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	sibling, err := s.GetItemByName(name, existing.CategoryID)
	if err != nil {
		return nil, err
	}
	if sibling != nil && sibling.ID != id {
		return nil, ErrDuplicate
	}
	if _, err := s.db.Exec(
		`UPDATE items SET name = ?, description = ?, quantity = ?, price = ? WHERE id = ?`,
		name, description, quantity, price, id,
	); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetItem(id)
}

func (s *SQLCatalog) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
