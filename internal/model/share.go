package model

import "time"

// ShareRequest is an offer from one user to grant another user access
// to a pantry. Accepting it adds the recipient to the pantry's access
// list; declining deletes it.
type ShareRequest struct {
	ID          int64     `json:"id"`
	PantryID    int64     `json:"pantry_id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Viewed      bool      `json:"viewed"`
	CreatedAt   time.Time `json:"created_at"`
}
