package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kalamantia/larder/internal/auth"
	"github.com/kalamantia/larder/internal/flash"
	"github.com/kalamantia/larder/internal/model"
	"github.com/kalamantia/larder/internal/store"
	"github.com/kalamantia/larder/internal/sync"
)

const duplicateCategoryMsg = "This pantry already has a category with that name. Please choose another."

// categoryFromPath resolves {category_id} and verifies it belongs to the
// pantry the guard put in context. A category reached through the wrong
// pantry path is treated as absent.
func (h *Handler) categoryFromPath(w http.ResponseWriter, r *http.Request) (*model.Category, bool) {
	pantry, _ := auth.PantryFromContext(r.Context())

	id, err := pathID(r, "category_id")
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	category, err := h.cat.GetCategory(id)
	if err != nil {
		http.Error(w, "failed to load category", http.StatusInternalServerError)
		return nil, false
	}
	if category == nil || category.PantryID != pantry.ID {
		http.NotFound(w, r)
		return nil, false
	}
	return category, true
}

// CategoryIndex lists the categories of a pantry.
func (h *Handler) CategoryIndex(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	pantry, _ := auth.PantryFromContext(r.Context())

	categories, err := h.cat.ListCategories(pantry.ID)
	if err != nil {
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}

	h.render(w, "category_index.html", map[string]any{
		"Title":      pantry.Name,
		"Pantry":     pantry,
		"Categories": categories,
		"IsOwner":    pantry.OwnerID == ac.UserID,
		"Notice":     flash.Pop(w, r),
	})
}

// CategoryIndexJSON mirrors a pantry's categories as JSON.
func (h *Handler) CategoryIndexJSON(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())

	categories, err := h.cat.ListCategories(pantry.ID)
	if err != nil {
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"pantry":     pantry,
		"categories": categories,
	})
}

func (h *Handler) CategoryAddForm(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	h.render(w, "category_form.html", map[string]any{
		"Title":  "New Category",
		"Pantry": pantry,
		"Action": pantryPath(pantry.ID) + "category/add/",
	})
}

func (h *Handler) CategoryAdd(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.render(w, "category_form.html", map[string]any{
			"Title":  "New Category",
			"Pantry": pantry,
			"Action": pantryPath(pantry.ID) + "category/add/",
			"Error":  "Name is required",
		})
		return
	}

	category, err := h.cat.CreateCategory(name, pantry.ID)
	if errors.Is(err, store.ErrDuplicate) {
		h.render(w, "category_form.html", map[string]any{
			"Title":  "New Category",
			"Pantry": pantry,
			"Action": pantryPath(pantry.ID) + "category/add/",
			"Name":   name,
			"Error":  duplicateCategoryMsg,
		})
		return
	}
	if err != nil {
		http.Error(w, "failed to create category", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindCategory, "created", category.ID, map[string]any{"pantry_id": pantry.ID}))
	http.Redirect(w, r, pantryPath(pantry.ID), http.StatusSeeOther)
}

func (h *Handler) CategoryEditForm(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	h.render(w, "category_form.html", map[string]any{
		"Title":  "Edit " + category.Name,
		"Pantry": pantry,
		"Action": categoryPath(pantry.ID, category.ID) + "edit/",
		"Name":   category.Name,
	})
}

func (h *Handler) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.render(w, "category_form.html", map[string]any{
			"Title":  "Edit " + category.Name,
			"Pantry": pantry,
			"Action": categoryPath(pantry.ID, category.ID) + "edit/",
			"Error":  "Name is required",
		})
		return
	}

	updated, err := h.cat.UpdateCategory(category.ID, name)
	if errors.Is(err, store.ErrDuplicate) {
		h.render(w, "category_form.html", map[string]any{
			"Title":  "Edit " + category.Name,
			"Pantry": pantry,
			"Action": categoryPath(pantry.ID, category.ID) + "edit/",
			"Name":   name,
			"Error":  duplicateCategoryMsg,
		})
		return
	}
	if err != nil || updated == nil {
		http.Error(w, "failed to update category", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindCategory, "updated", updated.ID, map[string]any{"pantry_id": pantry.ID}))
	http.Redirect(w, r, pantryPath(pantry.ID), http.StatusSeeOther)
}

func (h *Handler) CategoryDeleteForm(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	h.render(w, "confirm_delete.html", map[string]any{
		"Title":  "Delete " + category.Name,
		"Name":   category.Name,
		"Action": categoryPath(pantry.ID, category.ID) + "delete/",
		"Cancel": pantryPath(pantry.ID),
	})
}

func (h *Handler) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	pantry, _ := auth.PantryFromContext(r.Context())
	category, ok := h.categoryFromPath(w, r)
	if !ok {
		return
	}
	if err := h.cat.DeleteCategory(category.ID); err != nil {
		http.Error(w, "failed to delete category", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindCategory, "deleted", category.ID, map[string]any{"pantry_id": pantry.ID}))
	http.Redirect(w, r, pantryPath(pantry.ID), http.StatusSeeOther)
}
