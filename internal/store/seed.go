package store

import "fmt"

// SeedDemo populates a catalog with the demo data set: three users, four
// pantries, and a spread of categories and items. Pantry_B (owned by B)
// is shared with A, and Pantry_C (owned by C) is shared with B. Creation
// order is fixed, so ids are deterministic on a fresh catalog: users 1-3,
// pantries 1-4, categories 1-9, items 1-7.
func SeedDemo(cat Catalog) error {
	users := []struct {
		name, email string
	}{
		{"A", "A@aaa.com"},
		{"B", "B@bbb.com"},
		{"C", "C@ccc.com"},
	}
	for _, u := range users {
		if _, err := cat.CreateUser(u.name, u.email); err != nil {
			return fmt.Errorf("seed user %s: %w", u.name, err)
		}
	}

	pantries := []struct {
		name    string
		ownerID int64
	}{
		{"Pantry_A", 1},
		{"Pantry_B", 2},
		{"Pantry_C", 3},
		{"Pantry_D", 1},
	}
	for _, p := range pantries {
		if _, err := cat.CreatePantry(p.name, p.ownerID); err != nil {
			return fmt.Errorf("seed pantry %s: %w", p.name, err)
		}
	}

	categories := []struct {
		name     string
		pantryID int64
	}{
		{"vegetables", 1},
		{"starches", 1},
		{"desserts", 1},
		{"veggies", 2},
		{"snacks", 2},
		{"meat", 2},
		{"fruit", 3},
		{"meat", 3},
		{"drinks", 3},
	}
	for _, c := range categories {
		if _, err := cat.CreateCategory(c.name, c.pantryID); err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
	}

	items := []struct {
		name, description string
		quantity          int64
		price             float64
		categoryID        int64
	}{
		{"apple", "shiny and red", 5, 1.0, 1},
		{"broccoli", "small tree", 10, 0.5, 1},
		{"chips", "crispy", 4, 5.0, 5},
		{"steak", "high in protein", 1, 20.0, 8},
		{"seltzer", "fizzy", 15, 1.0, 3},
		{"cake", "moist", 1, 15.0, 3},
		{"potato", "high in carbs", 50, 0.20, 2},
	}
	for _, it := range items {
		if _, err := cat.CreateItem(it.name, it.description, it.quantity, it.price, it.categoryID); err != nil {
			return fmt.Errorf("seed item %s: %w", it.name, err)
		}
	}

	if err := cat.SharePantry(2, 1); err != nil {
		return fmt.Errorf("seed share: %w", err)
	}
	if err := cat.SharePantry(3, 2); err != nil {
		return fmt.Errorf("seed share: %w", err)
	}
	return nil
}
