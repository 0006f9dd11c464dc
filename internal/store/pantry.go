package store

import (
	"database/sql"
	"fmt"

	"github.com/kalamantia/larder/internal/model"
)

func scanPantry(scanner interface{ Scan(...any) error }) (*model.Pantry, error) {
	var p model.Pantry
	err := scanner.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const pantryCols = `id, name, owner_id, created_at`

// CreatePantry inserts the pantry and adds the owner to its access list
// in one transaction. The owner is always a member of the access list.
func (s *SQLCatalog) CreatePantry(name string, ownerID int64) (*model.Pantry, error) {
	existing, err := s.GetPantryByName(name, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO pantries (name, owner_id) VALUES (?, ?)`,
		name, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pantry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO pantry_access (pantry_id, user_id) VALUES (?, ?)`,
		id, ownerID,
	); err != nil {
		return nil, fmt.Errorf("insert owner access: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetPantry(id)
}

func (s *SQLCatalog) GetPantry(id int64) (*model.Pantry, error) {
	row := s.db.QueryRow(`SELECT `+pantryCols+` FROM pantries WHERE id = ?`, id)
	p, err := scanPantry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pantry: %w", err)
	}
	return p, nil
}

func (s *SQLCatalog) GetPantryByName(name string, ownerID int64) (*model.Pantry, error) {
	row := s.db.QueryRow(
		`SELECT `+pantryCols+` FROM pantries WHERE name = ? AND owner_id = ?`,
		name, ownerID,
	)
	p, err := scanPantry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pantry by name: %w", err)
	}
	return p, nil
}

func (s *SQLCatalog) ListPantries(ownerID int64) ([]model.Pantry, error) {
	rows, err := s.db.Query(
		`SELECT `+pantryCols+` FROM pantries WHERE owner_id = ? ORDER BY id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pantries: %w", err)
	}
	defer rows.Close()
	return collectPantries(rows)
}

func (s *SQLCatalog) UpdatePantry(id int64, name string) (*model.Pantry, error) {
	existing, err := s.GetPantry(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	sibling, err := s.GetPantryByName(name, existing.OwnerID)
	if err != nil {
		return nil, err
	}
	if sibling != nil && sibling.ID != id {
		return nil, ErrDuplicate
	}
	if _, err := s.db.Exec(`UPDATE pantries SET name = ? WHERE id = ?`, name, id); err != nil {
		return nil, fmt.Errorf("update pantry: %w", err)
	}
	return s.GetPantry(id)
}

func (s *SQLCatalog) DeletePantry(id int64) error {
	_, err := s.db.Exec(`DELETE FROM pantries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pantry: %w", err)
	}
	return nil
}

func (s *SQLCatalog) AuthorizedPantries(userID int64) ([]model.Pantry, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.name, p.owner_id, p.created_at
		 FROM pantries p
		 JOIN pantry_access pa ON p.id = pa.pantry_id
		 WHERE pa.user_id = ?
		 ORDER BY p.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("authorized pantries: %w", err)
	}
	defer rows.Close()
	return collectPantries(rows)
}

func (s *SQLCatalog) SharePantry(pantryID, userID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO pantry_access (pantry_id, user_id) VALUES (?, ?)`,
		pantryID, userID,
	)
	if err != nil {
		return fmt.Errorf("share pantry: %w", err)
	}
	return nil
}

func collectPantries(rows *sql.Rows) ([]model.Pantry, error) {
	pantries := []model.Pantry{}
	for rows.Next() {
		p, err := scanPantry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pantry: %w", err)
		}
		pantries = append(pantries, *p)
	}
	return pantries, rows.Err()
}
