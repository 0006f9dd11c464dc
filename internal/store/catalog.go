package store

import (
	"errors"

	"github.com/kalamantia/larder/internal/model"
)

// ErrDuplicate is returned by create and update operations when the name
// is already taken within the same sibling scope (pantry name per owner,
// category name per pantry, item name per category).
var ErrDuplicate = errors.New("duplicate name in scope")

// Catalog is the single data-access seam between request handlers and
// storage. Two implementations exist: SQLCatalog over SQLite and
// MemCatalog over plain slices. Both honor the same contract:
//
//   - Lookups return (nil, nil) when no record matches.
//   - Lists are ordered by id ascending and return an empty slice when
//     the parent has no children.
//   - Creates assign the next id, attach the record to its parent, and
//     reject a sibling-name collision with ErrDuplicate.
//   - Deletes remove the record and all its descendants. Deleting a user
//     removes the pantries it owns but not pantries merely shared with it.
type Catalog interface {
	CreateUser(name, email string) (*model.User, error)
	GetUser(id int64) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	DeleteUser(id int64) error

	CreatePantry(name string, ownerID int64) (*model.Pantry, error)
	GetPantry(id int64) (*model.Pantry, error)
	GetPantryByName(name string, ownerID int64) (*model.Pantry, error)
	ListPantries(ownerID int64) ([]model.Pantry, error)
	UpdatePantry(id int64, name string) (*model.Pantry, error)
	DeletePantry(id int64) error

	// AuthorizedPantries returns the union of pantries the user owns and
	// pantries shared with them, ordered by id.
	AuthorizedPantries(userID int64) ([]model.Pantry, error)
	// SharePantry adds the user to the pantry's access list. Adding an
	// existing member is a no-op.
	SharePantry(pantryID, userID int64) error

	CreateCategory(name string, pantryID int64) (*model.Category, error)
	GetCategory(id int64) (*model.Category, error)
	GetCategoryByName(name string, pantryID int64) (*model.Category, error)
	ListCategories(pantryID int64) ([]model.Category, error)
	UpdateCategory(id int64, name string) (*model.Category, error)
	DeleteCategory(id int64) error

	CreateItem(name, description string, quantity int64, price float64, categoryID int64) (*model.Item, error)
	GetItem(id int64) (*model.Item, error)
	GetItemByName(name string, categoryID int64) (*model.Item, error)
	ListItems(categoryID int64) ([]model.Item, error)
	UpdateItem(id int64, name, description string, quantity int64, price float64) (*model.Item, error)
	DeleteItem(id int64) error

	CreateShareRequest(pantryID, senderID, recipientID int64) (*model.ShareRequest, error)
	GetShareRequest(id int64) (*model.ShareRequest, error)
	ListShareRequests(recipientID int64) ([]model.ShareRequest, error)
	MarkShareRequestViewed(id int64) error
	DeleteShareRequest(id int64) error
}
