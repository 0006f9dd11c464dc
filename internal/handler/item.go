package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kalamantia/larder/internal/auth"
	"github.com/kalamantia/larder/internal/flash"
	"github.com/kalamantia/larder/internal/model"
	"github.com/kalamantia/larder/internal/store"
	"github.com/kalamantia/larder/internal/sync"
)

const duplicateItemMsg = "This category already has an item with that name. Please choose another."

// itemForm carries the parsed and re-renderable item form fields.
type itemForm struct {
	Name        string
	Description string
	Quantity    int64
	Price       float64
	Error       string
}

func parseItemForm(r *http.Request) (itemForm, bool) {
	f := itemForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if f.Name == "" {
		f.Error = "Name is required"
		return f, false
	}

	var err error
	if raw := r.FormValue("quantity"); raw != "" {
		f.Quantity, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || f.Quantity < 0 {
			f.Error = "Quantity must be a whole number"
			return f, false
		}
	}
	if raw := r.FormValue("price"); raw != "" {
		f.Price, err = strconv.ParseFloat(raw, 64)
		if err != nil || f.Price < 0 {
			f.Error = "Price must be a number"
			return f, false
		}
	}
	return f, true
}

// itemFromPath resolves {item_id} and verifies it belongs to the
// category from the path, which categoryFromPath has already pinned to
// the context pantry.
func (h *Handler) itemFromPath(w http.ResponseWriter, r *http.Request, category *model.Category) (*model.Item, bool) {
	id, err := pathID(r, "item_id")
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	item, err := h.cat.GetItem(id)
	if err != nil {
		http.Error(w, "failed to load item", http.StatusInternalServerError)
		return nil, false
	}
	if item == nil || item.CategoryID != category.ID {
		http.NotFound(w, r)
		return nil, false
	}
	return item, true
}

// ItemIndex lists the items of a category.
func (h *Handler) ItemIndex(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}

	items, err := h.cat.ListItems(category.ID)
	if err != nil {
		http.Error(w, "failed to load items", http.StatusInternalServerError)
		return
	}

	h.render(w, "item_index.html", map[string]any{
		"Title":    category.Name,
		"Pantry":   pantry,
		"Category": category,
		"Items":    items,
		"Notice":   flash.Pop(w, r),
	})
}

// ItemIndexJSON mirrors a category's items as JSON.
func (h *Handler) ItemIndexJSON(w http.ResponseWriter, r *http.Request) {
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	items, err := h.cat.ListItems(category.ID)
	if err != nil {
		http.Error(w, "failed to load items", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"items":    items,
	})
}

// ItemView shows a single item.
func (h *Handler) ItemView(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromPath(w, r, category)
	if !ok {
		return
	}

	h.render(w, "item_view.html", map[string]any{
		"Title":    item.Name,
		"Pantry":   pantry,
		"Category": category,
		"Item":     item,
	})
}

// ItemJSON mirrors a single item as JSON.
func (h *Handler) ItemJSON(w http.ResponseWriter, r *http.Request) {
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromPath(w, r, category)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *Handler) ItemAddForm(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	h.render(w, "item_form.html", map[string]any{
		"Title":    "New Item",
		"Pantry":   pantry,
		"Category": category,
		"Action":   categoryPath(pantry.ID, category.ID) + "item/add/",
	})
}

func (h *Handler) ItemAdd(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	action := categoryPath(pantry.ID, category.ID) + "item/add/"
	form, valid := parseItemForm(r)
	if !valid {
		h.render(w, "item_form.html", map[string]any{
			"Title":    "New Item",
			"Pantry":   pantry,
			"Category": category,
			"Action":   action,
			"Form":     form,
			"Error":    form.Error,
		})
		return
	}

	item, err := h.cat.CreateItem(form.Name, form.Description, form.Quantity, form.Price, category.ID)
	if errors.Is(err, store.ErrDuplicate) {
		form.Error = duplicateItemMsg
		h.render(w, "item_form.html", map[string]any{
			"Title":    "New Item",
			"Pantry":   pantry,
			"Category": category,
			"Action":   action,
			"Form":     form,
			"Error":    form.Error,
		})
		return
	}
	if err != nil {
		http.Error(w, "failed to create item", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindItem, "created", item.ID, map[string]any{"pantry_id": pantry.ID, "category_id": category.ID}))
	http.Redirect(w, r, categoryPath(pantry.ID, category.ID), http.StatusSeeOther)
}

func (h *Handler) ItemEditForm(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromPath(w, r, category)
	if !ok {
		return
	}
	h.render(w, "item_form.html", map[string]any{
		"Title":    "Edit " + item.Name,
		"Pantry":   pantry,
		"Category": category,
		"Action":   itemPath(pantry.ID, category.ID, item.ID) + "edit/",
		"Form": itemForm{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		},
	})
}

func (h *Handler) ItemEdit(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromPath(w, r, category)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	action := itemPath(pantry.ID, category.ID, item.ID) + "edit/"
	form, valid := parseItemForm(r)
	if !valid {
		h.render(w, "item_form.html", map[string]any{
			"Title":    "Edit " + item.Name,
			"Pantry":   pantry,
			"Category": category,
			"Action":   action,
			"Form":     form,
			"Error":    form.Error,
		})
		return
	}

	updated, err := h.cat.UpdateItem(item.ID, form.Name, form.Description, form.Quantity, form.Price)
	if errors.Is(err, store.ErrDuplicate) {
		form.Error = duplicateItemMsg
		h.render(w, "item_form.html", map[string]any{
			"Title":    "Edit " + item.Name,
			"Pantry":   pantry,
			"Category": category,
			"Action":   action,
			"Form":     form,
			"Error":    form.Error,
		})
		return
	}
	if err != nil || updated == nil {
		http.Error(w, "failed to update item", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindItem, "updated", updated.ID, map[string]any{"pantry_id": pantry.ID, "category_id": category.ID}))
	http.Redirect(w, r, categoryPath(pantry.ID, category.ID), http.StatusSeeOther)
}

func (h *Handler) ItemDeleteForm(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromPath(w, r, category)
	if !ok {
		return
	}
	h.render(w, "confirm_delete.html", map[string]any{
		"Title":  "Delete " + item.Name,
		"Name":   item.Name,
		"Action": itemPath(pantry.ID, category.ID, item.ID) + "delete/",
		"Cancel": categoryPath(pantry.ID, category.ID),
	})
}

func (h *Handler) ItemDelete(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromPath(w, r, category)
	if !ok {
		return
	}
	if err := h.cat.DeleteItem(item.ID); err != nil {
		http.Error(w, "failed to delete item", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindItem, "deleted", item.ID, map[string]any{"pantry_id": pantry.ID, "category_id": category.ID}))
	http.Redirect(w, r, categoryPath(pantry.ID, category.ID), http.StatusSeeOther)
}
