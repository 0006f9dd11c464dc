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

const duplicatePantryMsg = "You already have a pantry with that name. Please choose another."

// PantryIndex lists every pantry the user owns or has shared access to.
func (h *Handler) PantryIndex(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	pantries, err := h.cat.AuthorizedPantries(ac.UserID)
	if err != nil {
		http.Error(w, "failed to load pantries", http.StatusInternalServerError)
		return
	}

	pending, err := h.cat.ListShareRequests(ac.UserID)
	if err != nil {
		http.Error(w, "failed to load share requests", http.StatusInternalServerError)
		return
	}
	unseen := 0
	for _, req := range pending {
		if !req.Viewed {
			unseen++
		}
	}

	h.render(w, "pantry_index.html", map[string]any{
		"Title":    "Pantries",
		"User":     ac,
		"Pantries": pantries,
		"Unseen":   unseen,
		"Notice":   flash.Pop(w, r),
	})
}

// PantryIndexJSON mirrors the index as JSON.
func (h *Handler) PantryIndexJSON(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	pantries, err := h.cat.AuthorizedPantries(ac.UserID)
	if err != nil {
		http.Error(w, "failed to load pantries", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"pantries": pantries})
}

func (h *Handler) PantryAddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "pantry_form.html", map[string]any{
		"Title":  "New Pantry",
		"Action": "/pantry/add/",
	})
}

func (h *Handler) PantryAdd(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.render(w, "pantry_form.html", map[string]any{
			"Title":  "New Pantry",
			"Action": "/pantry/add/",
			"Error":  "Name is required",
		})
		return
	}

	pantry, err := h.cat.CreatePantry(name, ac.UserID)
	if errors.Is(err, store.ErrDuplicate) {
		h.render(w, "pantry_form.html", map[string]any{
			"Title":  "New Pantry",
			"Action": "/pantry/add/",
			"Name":   name,
			"Error":  duplicatePantryMsg,
		})
		return
	}
	if err != nil {
		http.Error(w, "failed to create pantry", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindPantry, "created", pantry.ID, nil))
	http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
}

// requireOwner enforces owner-only pantry operations (edit, delete,
// share). Shared users keep read and category/item access only.
func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) (model.Pantry, bool) {
	ac, _ := auth.FromContext(r.Context())
	pantry, _ := auth.PantryFromContext(r.Context())
	if pantry.OwnerID != ac.UserID {
		flash.Set(w, "You do not have access to that page.")
		http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
		return pantry, false
	}
	return pantry, true
}

func (h *Handler) PantryEditForm(w http.ResponseWriter, r *http.Request) {
	pantry, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	h.render(w, "pantry_form.html", map[string]any{
		"Title":  "Edit " + pantry.Name,
		"Action": pantryPath(pantry.ID) + "edit/",
		"Name":   pantry.Name,
	})
}

func (h *Handler) PantryEdit(w http.ResponseWriter, r *http.Request) {
	pantry, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.render(w, "pantry_form.html", map[string]any{
			"Title":  "Edit " + pantry.Name,
			"Action": pantryPath(pantry.ID) + "edit/",
			"Error":  "Name is required",
		})
		return
	}

	updated, err := h.cat.UpdatePantry(pantry.ID, name)
	if errors.Is(err, store.ErrDuplicate) {
		h.render(w, "pantry_form.html", map[string]any{
			"Title":  "Edit " + pantry.Name,
			"Action": pantryPath(pantry.ID) + "edit/",
			"Name":   name,
			"Error":  duplicatePantryMsg,
		})
		return
	}
	if err != nil || updated == nil {
		http.Error(w, "failed to update pantry", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindPantry, "updated", updated.ID, nil))
	http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
}

func (h *Handler) PantryDeleteForm(w http.ResponseWriter, r *http.Request) {
	pantry, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	h.render(w, "confirm_delete.html", map[string]any{
		"Title":  "Delete " + pantry.Name,
		"Name":   pantry.Name,
		"Action": pantryPath(pantry.ID) + "delete/",
		"Cancel": "/pantry/",
	})
}

func (h *Handler) PantryDelete(w http.ResponseWriter, r *http.Request) {
	pantry, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	if err := h.cat.DeletePantry(pantry.ID); err != nil {
		http.Error(w, "failed to delete pantry", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindPantry, "deleted", pantry.ID, nil))
	http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
}
