package store

import (
	"database/sql"
	"fmt"

	"github.com/kalamantia/larder/internal/model"
)

func scanShareRequest(scanner interface{ Scan(...any) error }) (*model.ShareRequest, error) {
	var sr model.ShareRequest
	var viewed int
	err := scanner.Scan(
		&sr.ID, &sr.PantryID, &sr.SenderID, &sr.RecipientID, &viewed, &sr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	sr.Viewed = viewed != 0
	return &sr, nil
}

const shareRequestCols = `id, pantry_id, sender_id, recipient_id, viewed, created_at`

func (s *SQLCatalog) CreateShareRequest(pantryID, senderID, recipientID int64) (*model.ShareRequest, error) {
	result, err := s.db.Exec(
		`INSERT INTO share_requests (pantry_id, sender_id, recipient_id) VALUES (?, ?, ?)`,
		pantryID, senderID, recipientID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert share request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetShareRequest(id)
}

func (s *SQLCatalog) GetShareRequest(id int64) (*model.ShareRequest, error) {
	row := s.db.QueryRow(`SELECT `+shareRequestCols+` FROM share_requests WHERE id = ?`, id)
	sr, err := scanShareRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get share request: %w", err)
	}
	return sr, nil
}

func (s *SQLCatalog) ListShareRequests(recipientID int64) ([]model.ShareRequest, error) {
	rows, err := s.db.Query(
		`SELECT `+shareRequestCols+` FROM share_requests WHERE recipient_id = ? ORDER BY id ASC`,
		recipientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list share requests: %w", err)
	}
	defer rows.Close()

	requests := []model.ShareRequest{}
	for rows.Next() {
		sr, err := scanShareRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan share request: %w", err)
		}
		requests = append(requests, *sr)
	}
	return requests, rows.Err()
}

func (s *SQLCatalog) MarkShareRequestViewed(id int64) error {
	_, err := s.db.Exec(`UPDATE share_requests SET viewed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark share request viewed: %w", err)
	}
	return nil
}

func (s *SQLCatalog) DeleteShareRequest(id int64) error {
	_, err := s.db.Exec(`DELETE FROM share_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete share request: %w", err)
	}
	return nil
}
