package handler

import (
	"net/http"
	"strings"

	"github.com/kalamantia/larder/internal/auth"
	"github.com/kalamantia/larder/internal/flash"
	"github.com/kalamantia/larder/internal/model"
	"github.com/kalamantia/larder/internal/sync"
)

// shareView is a ShareRequest joined with its pantry and sender for the
// shares page.
type shareView struct {
	Request model.ShareRequest
	Pantry  *model.Pantry
	Sender  *model.User
}

// ShareIndex lists the user's incoming share requests and marks them
// viewed.
func (h *Handler) ShareIndex(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	requests, err := h.cat.ListShareRequests(ac.UserID)
	if err != nil {
		http.Error(w, "failed to load share requests", http.StatusInternalServerError)
		return
	}

	views := make([]shareView, 0, len(requests))
	for _, req := range requests {
		pantry, err := h.cat.GetPantry(req.PantryID)
		if err != nil {
			http.Error(w, "failed to load share requests", http.StatusInternalServerError)
			return
		}
		sender, err := h.cat.GetUser(req.SenderID)
		if err != nil {
			http.Error(w, "failed to load share requests", http.StatusInternalServerError)
			return
		}
		views = append(views, shareView{Request: req, Pantry: pantry, Sender: sender})

		if !req.Viewed {
			if err := h.cat.MarkShareRequestViewed(req.ID); err != nil {
				h.logger.Error("mark share request viewed", "id", req.ID, "error", err)
			}
		}
	}

	h.render(w, "share_index.html", map[string]any{
		"Title":  "Share Requests",
		"Shares": views,
		"Notice": flash.Pop(w, r),
	})
}

func (h *Handler) ShareForm(w http.ResponseWriter, r *http.Request) {
	pantry, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	h.render(w, "share_form.html", map[string]any{
		"Title":  "Share " + pantry.Name,
		"Pantry": pantry,
		"Action": pantryPath(pantry.ID) + "share/",
	})
}

// ShareSend creates a share request offering the pantry to the user
// with the submitted email address.
func (h *Handler) ShareSend(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	pantry, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	action := pantryPath(pantry.ID) + "share/"
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		h.render(w, "share_form.html", map[string]any{
			"Title":  "Share " + pantry.Name,
			"Pantry": pantry,
			"Action": action,
			"Error":  "Email is required",
		})
		return
	}

	recipient, err := h.cat.GetUserByEmail(email)
	if err != nil {
		http.Error(w, "failed to look up user", http.StatusInternalServerError)
		return
	}
	if recipient == nil {
		h.render(w, "share_form.html", map[string]any{
			"Title":  "Share " + pantry.Name,
			"Pantry": pantry,
			"Action": action,
			"Email":  email,
			"Error":  "No user with that email address.",
		})
		return
	}
	if recipient.ID == ac.UserID {
		h.render(w, "share_form.html", map[string]any{
			"Title":  "Share " + pantry.Name,
			"Pantry": pantry,
			"Action": action,
			"Email":  email,
			"Error":  "You already have access to this pantry.",
		})
		return
	}

	req, err := h.cat.CreateShareRequest(pantry.ID, ac.UserID, recipient.ID)
	if err != nil {
		http.Error(w, "failed to create share request", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindShareRequest, "created", req.ID, map[string]any{"pantry_id": pantry.ID}))
	flash.Set(w, "Share request sent to "+recipient.Name+".")
	http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
}

// shareForRecipient loads the share request addressed to the current
// user, or writes the error response.
func (h *Handler) shareForRecipient(w http.ResponseWriter, r *http.Request) (*model.ShareRequest, bool) {
	ac, _ := auth.FromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	req, err := h.cat.GetShareRequest(id)
	if err != nil {
		http.Error(w, "failed to load share request", http.StatusInternalServerError)
		return nil, false
	}
	if req == nil {
		http.NotFound(w, r)
		return nil, false
	}
	if req.RecipientID != ac.UserID {
		flash.Set(w, "You do not have access to that page.")
		http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
		return nil, false
	}
	return req, true
}

// ShareAccept grants the recipient access to the offered pantry and
// removes the request.
func (h *Handler) ShareAccept(w http.ResponseWriter, r *http.Request) {
	req, ok := h.shareForRecipient(w, r)
	if !ok {
		return
	}

	pantry, err := h.cat.GetPantry(req.PantryID)
	if err != nil {
		http.Error(w, "failed to load pantry", http.StatusInternalServerError)
		return
	}
	if pantry == nil {
		// Pantry deleted since the offer; drop the stale request.
		if err := h.cat.DeleteShareRequest(req.ID); err != nil {
			h.logger.Error("delete stale share request", "id", req.ID, "error", err)
		}
		flash.Set(w, "That pantry no longer exists.")
		http.Redirect(w, r, "/shares/", http.StatusSeeOther)
		return
	}

	if err := h.cat.SharePantry(req.PantryID, req.RecipientID); err != nil {
		http.Error(w, "failed to share pantry", http.StatusInternalServerError)
		return
	}
	if err := h.cat.DeleteShareRequest(req.ID); err != nil {
		http.Error(w, "failed to remove share request", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindShareRequest, "accepted", req.ID, map[string]any{"pantry_id": req.PantryID}))
	flash.Set(w, "You now have access to "+pantry.Name+".")
	http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
}

// ShareDecline removes the request without granting access.
func (h *Handler) ShareDecline(w http.ResponseWriter, r *http.Request) {
	req, ok := h.shareForRecipient(w, r)
	if !ok {
		return
	}
	if err := h.cat.DeleteShareRequest(req.ID); err != nil {
		http.Error(w, "failed to remove share request", http.StatusInternalServerError)
		return
	}

	h.hub.Broadcast(sync.NewMessage(model.KindShareRequest, "declined", req.ID, map[string]any{"pantry_id": req.PantryID}))
	http.Redirect(w, r, "/shares/", http.StatusSeeOther)
}
