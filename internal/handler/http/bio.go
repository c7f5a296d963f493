package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/auth"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"go.uber.org/zap"
)

// BioHandler serves bio-page management and the public page view
type BioHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewBioHandler(storage repository.Storage, log *zap.Logger) *BioHandler {
	return &BioHandler{
		storage: storage,
		log:     log,
	}
}

// CreateBioRequest is the bio-page creation payload
type CreateBioRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	Background  *string `json:"background,omitempty"`
}

// UpdateBioRequest is the bio-page update payload
type UpdateBioRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	Background  *string `json:"background,omitempty"`
}

// AttachLinkRequest attaches one of the owner's links to a bio page
type AttachLinkRequest struct {
	LinkID int64 `json:"link_id"`
}

// BioResponse is the owner's view of a bio page
type BioResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	Background  *string `json:"background,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// BioPageView is the public rendering of a bio page with its link cards
type BioPageView struct {
	BioResponse
	Links []BioLinkCardResponse `json:"links"`
}

// BioLinkCardResponse is one link entry on a public bio page
type BioLinkCardResponse struct {
	LinkID     int64   `json:"link_id"`
	Title      string  `json:"title"`
	ShortCode  string  `json:"short_code"`
	QRCode     *string `json:"qr_code,omitempty"`
	ProfilePic *string `json:"profile_pic,omitempty"`
	AddedAt    string  `json:"added_at"`
}

// CreateBio creates a bio page
//
//	@Summary		Create a bio page
//	@Description	Create a link-in-bio page; the slug is derived from the title
//	@Tags			Bio
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateBioRequest	true	"Bio page creation request"
//	@Success		201		{object}	BioResponse			"Bio page created"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		409		{object}	map[string]string	"Title already in use"
//	@Router			/api/bios [post]
func (h *BioHandler) CreateBio(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		writeError(w, "Title is required", http.StatusBadRequest)
		return
	}

	page := &domain.BioPage{
		UserID:      userID,
		Title:       req.Title,
		Slug:        domain.Slugify(req.Title),
		Description: req.Description,
		ProfilePic:  req.ProfilePic,
		Background:  req.Background,
	}

	if err := h.storage.CreateBioPage(r.Context(), page); err != nil {
		if errors.Is(err, repository.ErrBioTitleExists) {
			writeError(w, "A bio page with this title already exists", http.StatusConflict)
			return
		}
		h.log.Error("failed to create bio page", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, "Failed to create bio page", http.StatusInternalServerError)
		return
	}

	h.log.Info("created bio page", zap.Int64("bio_id", page.ID), zap.Int64("user_id", userID))
	writeJSON(w, toBioResponse(page), http.StatusCreated)
}

// ListBios returns the authenticated user's bio pages
func (h *BioHandler) ListBios(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	pages, err := h.storage.ListUserBioPages(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to list bio pages", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, "Failed to retrieve bio pages", http.StatusInternalServerError)
		return
	}

	response := make([]BioResponse, len(pages))
	for i, page := range pages {
		response[i] = toBioResponse(page)
	}
	writeJSON(w, response, http.StatusOK)
}

// GetBio returns one of the user's bio pages with its link cards
func (h *BioHandler) GetBio(w http.ResponseWriter, r *http.Request) {
	page, ok := h.ownedBio(w, r)
	if !ok {
		return
	}
	h.writePageView(w, r, page)
}

// ViewBio is the unauthenticated public view of a bio page
//
//	@Summary		View a bio page
//	@Description	Public rendering of a bio page with its link cards
//	@Tags			Bio
//	@Produce		json
//	@Param			id	path		int					true	"Bio page ID"
//	@Success		200	{object}	BioPageView			"Bio page"
//	@Failure		404	{object}	map[string]string	"Bio page not found"
//	@Router			/api/bios/{id}/view [get]
func (h *BioHandler) ViewBio(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, "Invalid bio page id", http.StatusBadRequest)
		return
	}

	page, err := h.storage.GetBioPage(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBioNotFound) {
			writeError(w, "Bio page not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to get bio page", zap.Int64("bio_id", id), zap.Error(err))
		writeError(w, "Failed to retrieve bio page", http.StatusInternalServerError)
		return
	}

	h.writePageView(w, r, page)
}

// UpdateBio updates a bio page's title and presentation fields
func (h *BioHandler) UpdateBio(w http.ResponseWriter, r *http.Request) {
	page, ok := h.ownedBio(w, r)
	if !ok {
		return
	}

	var req UpdateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		writeError(w, "Title is required", http.StatusBadRequest)
		return
	}

	page.Title = req.Title
	page.Slug = domain.Slugify(req.Title)
	page.Description = req.Description
	page.ProfilePic = req.ProfilePic
	page.Background = req.Background

	if err := h.storage.UpdateBioPage(r.Context(), page); err != nil {
		if errors.Is(err, repository.ErrBioTitleExists) {
			writeError(w, "A bio page with this title already exists", http.StatusConflict)
			return
		}
		h.log.Error("failed to update bio page", zap.Int64("bio_id", page.ID), zap.Error(err))
		writeError(w, "Failed to update bio page", http.StatusInternalServerError)
		return
	}

	h.log.Info("updated bio page", zap.Int64("bio_id", page.ID))
	writeJSON(w, toBioResponse(page), http.StatusOK)
}

// DeleteBio removes a bio page and its link entries. The links themselves
// are untouched.
func (h *BioHandler) DeleteBio(w http.ResponseWriter, r *http.Request) {
	page, ok := h.ownedBio(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteBioPage(r.Context(), page.ID); err != nil {
		if errors.Is(err, repository.ErrBioNotFound) {
			writeError(w, "Bio page not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete bio page", zap.Int64("bio_id", page.ID), zap.Error(err))
		writeError(w, "Failed to delete bio page", http.StatusInternalServerError)
		return
	}

	h.log.Info("deleted bio page", zap.Int64("bio_id", page.ID))
	w.WriteHeader(http.StatusNoContent)
}

// AttachLink adds one of the owner's links to a bio page
//
//	@Summary		Attach a link to a bio page
//	@Description	Add a link to a bio page; the link must belong to the page owner
//	@Tags			Bio
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int					true	"Bio page ID"
//	@Param			request	body		AttachLinkRequest	true	"Link to attach"
//	@Success		201		{object}	map[string]int64	"Link attached"
//	@Failure		403		{object}	map[string]string	"Link belongs to another user"
//	@Failure		404		{object}	map[string]string	"Bio page or link not found"
//	@Router			/api/bios/{id}/links [post]
func (h *BioHandler) AttachLink(w http.ResponseWriter, r *http.Request) {
	page, ok := h.ownedBio(w, r)
	if !ok {
		return
	}

	var req AttachLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	link, err := h.storage.GetLinkByID(r.Context(), req.LinkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to get link", zap.Int64("link_id", req.LinkID), zap.Error(err))
		writeError(w, "Failed to retrieve link", http.StatusInternalServerError)
		return
	}

	if link.UserID != page.UserID {
		writeError(w, "Access denied", http.StatusForbidden)
		return
	}

	bioLink, err := h.storage.AddBioLink(r.Context(), page.ID, link.ID)
	if err != nil {
		h.log.Error("failed to attach link",
			zap.Int64("bio_id", page.ID),
			zap.Int64("link_id", link.ID),
			zap.Error(err))
		writeError(w, "Failed to attach link", http.StatusInternalServerError)
		return
	}

	h.log.Info("attached link to bio page",
		zap.Int64("bio_id", page.ID),
		zap.Int64("link_id", link.ID))
	writeJSON(w, map[string]int64{"id": bioLink.ID}, http.StatusCreated)
}

// DetachLink removes a link entry from a bio page
func (h *BioHandler) DetachLink(w http.ResponseWriter, r *http.Request) {
	page, ok := h.ownedBio(w, r)
	if !ok {
		return
	}

	linkID, err := strconv.ParseInt(r.PathValue("linkID"), 10, 64)
	if err != nil {
		writeError(w, "Invalid link id", http.StatusBadRequest)
		return
	}

	if err := h.storage.RemoveBioLink(r.Context(), page.ID, linkID); err != nil {
		if errors.Is(err, repository.ErrBioLinkNotFound) {
			writeError(w, "Link is not on this bio page", http.StatusNotFound)
			return
		}
		h.log.Error("failed to detach link",
			zap.Int64("bio_id", page.ID),
			zap.Int64("link_id", linkID),
			zap.Error(err))
		writeError(w, "Failed to detach link", http.StatusInternalServerError)
		return
	}

	h.log.Info("detached link from bio page",
		zap.Int64("bio_id", page.ID),
		zap.Int64("link_id", linkID))
	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

// ownedBio loads the bio page from the {id} path value and enforces
// ownership. On failure it has already written the response.
func (h *BioHandler) ownedBio(w http.ResponseWriter, r *http.Request) (*domain.BioPage, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return nil, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, "Invalid bio page id", http.StatusBadRequest)
		return nil, false
	}

	page, err := h.storage.GetBioPage(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBioNotFound) {
			writeError(w, "Bio page not found", http.StatusNotFound)
			return nil, false
		}
		h.log.Error("failed to get bio page", zap.Int64("bio_id", id), zap.Error(err))
		writeError(w, "Failed to retrieve bio page", http.StatusInternalServerError)
		return nil, false
	}

	if page.UserID != userID {
		writeError(w, "Access denied", http.StatusForbidden)
		return nil, false
	}

	return page, true
}

func (h *BioHandler) writePageView(w http.ResponseWriter, r *http.Request, page *domain.BioPage) {
	cards, err := h.storage.ListBioLinkCards(r.Context(), page.ID)
	if err != nil {
		h.log.Error("failed to list bio link cards", zap.Int64("bio_id", page.ID), zap.Error(err))
		writeError(w, "Failed to retrieve bio page", http.StatusInternalServerError)
		return
	}

	view := BioPageView{
		BioResponse: toBioResponse(page),
		Links:       make([]BioLinkCardResponse, len(cards)),
	}
	for i, card := range cards {
		view.Links[i] = BioLinkCardResponse{
			LinkID:     card.LinkID,
			Title:      card.Title,
			ShortCode:  card.ShortCode,
			QRCode:     card.QRCode,
			ProfilePic: card.ProfilePic,
			AddedAt:    card.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, view, http.StatusOK)
}

func toBioResponse(page *domain.BioPage) BioResponse {
	return BioResponse{
		ID:          page.ID,
		Title:       page.Title,
		Slug:        page.Slug,
		Description: page.Description,
		ProfilePic:  page.ProfilePic,
		Background:  page.Background,
		CreatedAt:   page.CreatedAt.Format(time.RFC3339),
	}
}
