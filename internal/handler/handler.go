package handler

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kalamantia/larder/internal/oauth"
	"github.com/kalamantia/larder/internal/store"
	"github.com/kalamantia/larder/internal/sync"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler serves the HTML pages and JSON projections of the catalog.
type Handler struct {
	cat       store.Catalog
	sessions  *store.SessionStore
	google    *oauth.Client
	hub       *sync.Hub
	logger    *slog.Logger
	templates *template.Template
}

func New(cat store.Catalog, sessions *store.SessionStore, google *oauth.Client, hub *sync.Hub, logger *slog.Logger) *Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "templates/*.html"))
	return &Handler{
		cat:       cat,
		sessions:  sessions,
		google:    google,
		hub:       hub,
		logger:    logger,
		templates: tmpl,
	}
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode json", "error", err)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func pantryPath(pantryID int64) string {
	return fmt.Sprintf("/pantry/%d/", pantryID)
}

func categoryPath(pantryID, categoryID int64) string {
	return fmt.Sprintf("/pantry/%d/category/%d/", pantryID, categoryID)
}

func itemPath(pantryID, categoryID, itemID int64) string {
	return fmt.Sprintf("/pantry/%d/category/%d/item/%d/", pantryID, categoryID, itemID)
}
