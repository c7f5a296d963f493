package http

import (
	"net/http"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"go.uber.org/zap"
)

// AdminHandler serves read-only listings across all accounts. Routes are
// gated by the admin middleware.
type AdminHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewAdminHandler(storage repository.Storage, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		storage: storage,
		log:     log,
	}
}

// AdminUserInfo is the admin view of an account
type AdminUserInfo struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"is_admin"`
	LastLoginAt string `json:"last_login_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// AdminLinkInfo is the admin view of a link, expired rows included
type AdminLinkInfo struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	OriginalURL string  `json:"original_url"`
	ShortCode   string  `json:"short_code"`
	CustomAlias *string `json:"custom_alias,omitempty"`
	ClickCount  int64   `json:"click_count"`
	ExpiresAt   string  `json:"expires_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// AdminBioInfo is the admin view of a bio page
type AdminBioInfo struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

// AdminBioLinkInfo is one bio-page link entry across all pages
type AdminBioLinkInfo struct {
	ID        int64  `json:"id"`
	BioID     int64  `json:"bio_id"`
	LinkID    int64  `json:"link_id"`
	LinkTitle string `json:"link_title,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListUsers lists every registered account
//
//	@Summary		List all users
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		AdminUserInfo		"All users"
//	@Failure		403	{object}	map[string]string	"Admin access required"
//	@Router			/api/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.storage.ListAllUsers(r.Context())
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		writeError(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}

	response := make([]AdminUserInfo, len(users))
	for i, user := range users {
		info := AdminUserInfo{
			ID:        user.ID,
			Email:     user.Email,
			IsAdmin:   user.IsAdmin,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		}
		if user.LastLoginAt != nil {
			info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
		}
		response[i] = info
	}

	writeJSON(w, response, http.StatusOK)
}

// ListLinks lists every link with its click count, expired rows included
//
//	@Summary		List all links
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		AdminLinkInfo		"All links"
//	@Failure		403	{object}	map[string]string	"Admin access required"
//	@Router			/api/admin/links [get]
func (h *AdminHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.storage.ListAllLinks(r.Context())
	if err != nil {
		h.log.Error("failed to list links", zap.Error(err))
		writeError(w, "Failed to retrieve links", http.StatusInternalServerError)
		return
	}

	counts, err := h.storage.GetClickCounts(r.Context())
	if err != nil {
		h.log.Error("failed to get click counts", zap.Error(err))
		counts = make(map[int64]int64)
	}

	response := make([]AdminLinkInfo, len(links))
	for i, link := range links {
		info := AdminLinkInfo{
			ID:          link.ID,
			UserID:      link.UserID,
			Title:       link.Title,
			OriginalURL: link.OriginalURL,
			ShortCode:   link.ShortCode,
			CustomAlias: link.CustomAlias,
			ClickCount:  counts[link.ID],
			CreatedAt:   link.CreatedAt.Format(time.RFC3339),
		}
		if link.ExpiresAt != nil {
			info.ExpiresAt = link.ExpiresAt.Format(time.RFC3339)
		}
		response[i] = info
	}

	writeJSON(w, response, http.StatusOK)
}

// ListBios lists every bio page
func (h *AdminHandler) ListBios(w http.ResponseWriter, r *http.Request) {
	pages, err := h.storage.ListAllBioPages(r.Context())
	if err != nil {
		h.log.Error("failed to list bio pages", zap.Error(err))
		writeError(w, "Failed to retrieve bio pages", http.StatusInternalServerError)
		return
	}

	response := make([]AdminBioInfo, len(pages))
	for i, page := range pages {
		response[i] = AdminBioInfo{
			ID:        page.ID,
			UserID:    page.UserID,
			Title:     page.Title,
			Slug:      page.Slug,
			CreatedAt: page.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, response, http.StatusOK)
}

// ListBioLinks lists every bio-page link entry
func (h *AdminHandler) ListBioLinks(w http.ResponseWriter, r *http.Request) {
	bioLinks, err := h.storage.ListAllBioLinks(r.Context())
	if err != nil {
		h.log.Error("failed to list bio links", zap.Error(err))
		writeError(w, "Failed to retrieve bio links", http.StatusInternalServerError)
		return
	}

	response := make([]AdminBioLinkInfo, len(bioLinks))
	for i, bl := range bioLinks {
		info := AdminBioLinkInfo{
			ID:        bl.ID,
			BioID:     bl.BioID,
			LinkID:    bl.LinkID,
			CreatedAt: bl.CreatedAt.Format(time.RFC3339),
		}
		if bl.Link != nil {
			info.LinkTitle = bl.Link.Title
		}
		response[i] = info
	}

	writeJSON(w, response, http.StatusOK)
}
