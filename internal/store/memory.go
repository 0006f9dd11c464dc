package store

import (
	"fmt"

	"github.com/kalamantia/larder/internal/model"
)

// MemCatalog implements Catalog over plain slices. It exists so tests
// and local iteration can run without a database, which means it must
// mirror the SQL adapter's externally observable behavior by hand:
// cascading deletes follow the model.Kind parent table, ids continue
// from the maximum assigned id, and the authorized set is the union of
// owned and shared pantries. It is single-threaded by design.
type MemCatalog struct {
	users      []model.User
	pantries   []model.Pantry
	categories []model.Category
	items      []model.Item
	shares     []model.ShareRequest

	// access maps pantry id to the user ids allowed to view it. The
	// owner is always present.
	access map[int64][]int64

	nextID map[model.Kind]int64
}

func NewMemCatalog() *MemCatalog {
	return &MemCatalog{
		access: make(map[int64][]int64),
		nextID: make(map[model.Kind]int64),
	}
}

func (c *MemCatalog) assignID(kind model.Kind) int64 {
	id := c.nextID[kind] + 1
	c.nextID[kind] = id
	return id
}

// --- Users ---

func (c *MemCatalog) CreateUser(name, email string) (*model.User, error) {
	u := model.User{ID: c.assignID(model.KindUser), Name: name, Email: email}
	c.users = append(c.users, u)
	return &u, nil
}

func (c *MemCatalog) GetUser(id int64) (*model.User, error) {
	for i := range c.users {
		if c.users[i].ID == id {
			u := c.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) GetUserByEmail(email string) (*model.User, error) {
	for i := range c.users {
		if c.users[i].Email == email {
			u := c.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) DeleteUser(id int64) error {
	c.cascade(model.KindUser, id)
	return nil
}

// --- Pantries ---

func (c *MemCatalog) CreatePantry(name string, ownerID int64) (*model.Pantry, error) {
	existing, _ := c.GetPantryByName(name, ownerID)
	if existing != nil {
		return nil, ErrDuplicate
	}
	p := model.Pantry{ID: c.assignID(model.KindPantry), Name: name, OwnerID: ownerID}
	c.pantries = append(c.pantries, p)
	c.access[p.ID] = []int64{ownerID}
	return &p, nil
}

func (c *MemCatalog) GetPantry(id int64) (*model.Pantry, error) {
	for i := range c.pantries {
		if c.pantries[i].ID == id {
			p := c.pantries[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) GetPantryByName(name string, ownerID int64) (*model.Pantry, error) {
	for i := range c.pantries {
		if c.pantries[i].Name == name && c.pantries[i].OwnerID == ownerID {
			p := c.pantries[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) ListPantries(ownerID int64) ([]model.Pantry, error) {
	pantries := []model.Pantry{}
	for _, p := range c.pantries {
		if p.OwnerID == ownerID {
			pantries = append(pantries, p)
		}
	}
	return pantries, nil
}

func (c *MemCatalog) UpdatePantry(id int64, name string) (*model.Pantry, error) {
	for i := range c.pantries {
		if c.pantries[i].ID == id {
			sibling, _ := c.GetPantryByName(name, c.pantries[i].OwnerID)
			if sibling != nil && sibling.ID != id {
				return nil, ErrDuplicate
			}
			c.pantries[i].Name = name
			p := c.pantries[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) DeletePantry(id int64) error {
	c.cascade(model.KindPantry, id)
	return nil
}

func (c *MemCatalog) AuthorizedPantries(userID int64) ([]model.Pantry, error) {
	// c.pantries stays ordered by id: appends assign increasing ids and
	// removals preserve order.
	pantries := []model.Pantry{}
	for _, p := range c.pantries {
		for _, uid := range c.access[p.ID] {
			if uid == userID {
				pantries = append(pantries, p)
				break
			}
		}
	}
	return pantries, nil
}

func (c *MemCatalog) SharePantry(pantryID, userID int64) error {
	p, _ := c.GetPantry(pantryID)
	if p == nil {
		return fmt.Errorf("share pantry: pantry %d not found", pantryID)
	}
	for _, uid := range c.access[pantryID] {
		if uid == userID {
			return nil
		}
	}
	c.access[pantryID] = append(c.access[pantryID], userID)
	return nil
}

// --- Categories ---

func (c *MemCatalog) CreateCategory(name string, pantryID int64) (*model.Category, error) {
	existing, _ := c.GetCategoryByName(name, pantryID)
	if existing != nil {
		return nil, ErrDuplicate
	}
	cat := model.Category{ID: c.assignID(model.KindCategory), Name: name, PantryID: pantryID}
	c.categories = append(c.categories, cat)
	return &cat, nil
}

func (c *MemCatalog) GetCategory(id int64) (*model.Category, error) {
	for i := range c.categories {
		if c.categories[i].ID == id {
			cat := c.categories[i]
			return &cat, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) GetCategoryByName(name string, pantryID int64) (*model.Category, error) {
	for i := range c.categories {
		if c.categories[i].Name == name && c.categories[i].PantryID == pantryID {
			cat := c.categories[i]
			return &cat, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) ListCategories(pantryID int64) ([]model.Category, error) {
	categories := []model.Category{}
	for _, cat := range c.categories {
		if cat.PantryID == pantryID {
			categories = append(categories, cat)
		}
	}
	return categories, nil
}

func (c *MemCatalog) UpdateCategory(id int64, name string) (*model.Category, error) {
	for i := range c.categories {
		if c.categories[i].ID == id {
			sibling, _ := c.GetCategoryByName(name, c.categories[i].PantryID)
			if sibling != nil && sibling.ID != id {
				return nil, ErrDuplicate
			}
			c.categories[i].Name = name
			cat := c.categories[i]
			return &cat, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) DeleteCategory(id int64) error {
	c.cascade(model.KindCategory, id)
	return nil
}

// --- Items ---

func (c *MemCatalog) CreateItem(name, description string, quantity int64, price float64, categoryID int64) (*model.Item, error) {
	existing, _ := c.GetItemByName(name, categoryID)
	if existing != nil {
		return nil, ErrDuplicate
	}
	it := model.Item{
		ID:          c.assignID(model.KindItem),
		Name:        name,
		Description: description,
		Quantity:    quantity,
		Price:       price,
		CategoryID:  categoryID,
	}
	c.items = append(c.items, it)
	return &it, nil
}

func (c *MemCatalog) GetItem(id int64) (*model.Item, error) {
	for i := range c.items {
		if c.items[i].ID == id {
			it := c.items[i]
			return &it, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) GetItemByName(name string, categoryID int64) (*model.Item, error) {
	for i := range c.items {
		if c.items[i].Name == name && c.items[i].CategoryID == categoryID {
			it := c.items[i]
			return &it, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) ListItems(categoryID int64) ([]model.Item, error) {
	items := []model.Item{}
	for _, it := range c.items {
		if it.CategoryID == categoryID {
			items = append(items, it)
		}
	}
	return items, nil
}

func (c *MemCatalog) UpdateItem(id int64, name, description string, quantity int64, price float64) (*model.Item, error) {
	for i := range c.items {
		if c.items[i].ID == id {
			sibling, _ := c.GetItemByName(name, c.items[i].CategoryID)
			if sibling != nil && sibling.ID != id {
				return nil, ErrDuplicate
			}
			c.items[i].Name = name
			c.items[i].Description = description
			c.items[i].Quantity = quantity
			c.items[i].Price = price
			it := c.items[i]
			return &it, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) DeleteItem(id int64) error {
	c.cascade(model.KindItem, id)
	return nil
}

// --- Share requests ---

func (c *MemCatalog) CreateShareRequest(pantryID, senderID, recipientID int64) (*model.ShareRequest, error) {
	sr := model.ShareRequest{
		ID:          c.assignID(model.KindShareRequest),
		PantryID:    pantryID,
		SenderID:    senderID,
		RecipientID: recipientID,
	}
	c.shares = append(c.shares, sr)
	return &sr, nil
}

func (c *MemCatalog) GetShareRequest(id int64) (*model.ShareRequest, error) {
	for i := range c.shares {
		if c.shares[i].ID == id {
			sr := c.shares[i]
			return &sr, nil
		}
	}
	return nil, nil
}

func (c *MemCatalog) ListShareRequests(recipientID int64) ([]model.ShareRequest, error) {
	requests := []model.ShareRequest{}
	for _, sr := range c.shares {
		if sr.RecipientID == recipientID {
			requests = append(requests, sr)
		}
	}
	return requests, nil
}

func (c *MemCatalog) MarkShareRequestViewed(id int64) error {
	for i := range c.shares {
		if c.shares[i].ID == id {
			c.shares[i].Viewed = true
			return nil
		}
	}
	return nil
}

func (c *MemCatalog) DeleteShareRequest(id int64) error {
	c.remove(model.KindShareRequest, id)
	return nil
}

// --- Cascade machinery ---

// cascade removes the record and, transitively, all descendant records,
// walking the Kind child table depth-first. This hand-maintained mirror
// of the SQL schema's ON DELETE CASCADE is the contract the shared
// adapter tests pin down.
func (c *MemCatalog) cascade(kind model.Kind, id int64) {
	if child, ok := kind.Child(); ok {
		for _, childID := range c.childIDs(child, id) {
			c.cascade(child, childID)
		}
	}
	c.remove(kind, id)
}

// childIDs returns the ids of records of the given kind whose parent
// link points at parentID. For pantries the parent link is ownership,
// so shared pantries do not cascade away with a user.
func (c *MemCatalog) childIDs(kind model.Kind, parentID int64) []int64 {
	var ids []int64
	switch kind {
	case model.KindPantry:
		for _, p := range c.pantries {
			if p.OwnerID == parentID {
				ids = append(ids, p.ID)
			}
		}
	case model.KindCategory:
		for _, cat := range c.categories {
			if cat.PantryID == parentID {
				ids = append(ids, cat.ID)
			}
		}
	case model.KindItem:
		for _, it := range c.items {
			if it.CategoryID == parentID {
				ids = append(ids, it.ID)
			}
		}
	}
	return ids
}

func (c *MemCatalog) remove(kind model.Kind, id int64) {
	switch kind {
	case model.KindUser:
		for i := range c.users {
			if c.users[i].ID == id {
				c.users = append(c.users[:i], c.users[i+1:]...)
				break
			}
		}
		// Drop the user from access lists of surviving pantries and
		// remove share requests they sent or received.
		for pid, uids := range c.access {
			for i, uid := range uids {
				if uid == id {
					c.access[pid] = append(uids[:i], uids[i+1:]...)
					break
				}
			}
		}
		c.shares = filterShares(c.shares, func(sr model.ShareRequest) bool {
			return sr.SenderID != id && sr.RecipientID != id
		})
	case model.KindPantry:
		for i := range c.pantries {
			if c.pantries[i].ID == id {
				c.pantries = append(c.pantries[:i], c.pantries[i+1:]...)
				break
			}
		}
		delete(c.access, id)
		c.shares = filterShares(c.shares, func(sr model.ShareRequest) bool {
			return sr.PantryID != id
		})
	case model.KindCategory:
		for i := range c.categories {
			if c.categories[i].ID == id {
				c.categories = append(c.categories[:i], c.categories[i+1:]...)
				break
			}
		}
	case model.KindItem:
		for i := range c.items {
			if c.items[i].ID == id {
				c.items = append(c.items[:i], c.items[i+1:]...)
				break
			}
		}
	case model.KindShareRequest:
		for i := range c.shares {
			if c.shares[i].ID == id {
				c.shares = append(c.shares[:i], c.shares[i+1:]...)
				break
			}
		}
	}
}

func filterShares(shares []model.ShareRequest, keep func(model.ShareRequest) bool) []model.ShareRequest {
	out := shares[:0]
	for _, sr := range shares {
		if keep(sr) {
			out = append(out, sr)
		}
	}
	return out
}
