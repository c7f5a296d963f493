package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/auth"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/service"
	"go.uber.org/zap"
)

// LinksHandler serves link management and per-link analytics
type LinksHandler struct {
	storage   repository.Storage
	shortener *service.URLShortenerService
	log       *zap.Logger
}

func NewLinksHandler(storage repository.Storage, shortener *service.URLShortenerService, log *zap.Logger) *LinksHandler {
	return &LinksHandler{
		storage:   storage,
		shortener: shortener,
		log:       log,
	}
}

// CreateLinkRequest is the link creation payload
type CreateLinkRequest struct {
	Title       string  `json:"title"`
	OriginalURL string  `json:"original_url"`
	CustomAlias *string `json:"custom_alias,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	ExpiresAt   string  `json:"expires_at,omitempty"`
}

// UpdateLinkRequest is the link update payload
type UpdateLinkRequest struct {
	Title       string  `json:"title"`
	OriginalURL string  `json:"original_url"`
	CustomAlias *string `json:"custom_alias,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	ExpiresAt   string  `json:"expires_at,omitempty"`
}

// LinkResponse is the public view of a link
type LinkResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	OriginalURL string  `json:"original_url"`
	ShortCode   string  `json:"short_code"`
	ShortURL    string  `json:"short_url"`
	CustomAlias *string `json:"custom_alias,omitempty"`
	QRCode      *string `json:"qr_code,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	ExpiresAt   string  `json:"expires_at,omitempty"`
	IsTemporary bool    `json:"is_temporary"`
	CreatedAt   string  `json:"created_at"`
}

// ListLinksResponse wraps the owner's links
type ListLinksResponse struct {
	Links []LinkResponse `json:"links"`
}

// ClickResponse is one recorded click
type ClickResponse struct {
	ID        int64   `json:"id"`
	Device    string  `json:"device"`
	Country   *string `json:"country,omitempty"`
	City      *string `json:"city,omitempty"`
	Browser   *string `json:"browser,omitempty"`
	OS        *string `json:"os,omitempty"`
	Referer   *string `json:"referer,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// StatsResponse aggregates a link's click history
type StatsResponse struct {
	LinkID          int64            `json:"link_id"`
	TotalClicks     int64            `json:"total_clicks"`
	ClicksByDevice  map[string]int64 `json:"clicks_by_device"`
	ClicksByCountry map[string]int64 `json:"clicks_by_country"`
}

// CreateLink creates a new short link
//
//	@Summary		Create a short link
//	@Description	Create a new shortened URL with an optional custom alias and expiry
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateLinkRequest	true	"Link creation request"
//	@Success		201		{object}	LinkResponse		"Link created successfully"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		401		{object}	map[string]string	"Authentication required"
//	@Failure		409		{object}	map[string]string	"Title or alias already in use"
//	@Router			/api/links [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		writeError(w, "Title is required", http.StatusBadRequest)
		return
	}
	if err := validateDestination(req.OriginalURL); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CustomAlias != nil && *req.CustomAlias == "" {
		req.CustomAlias = nil
	}

	link := &domain.Link{
		UserID:      userID,
		Title:       req.Title,
		OriginalURL: req.OriginalURL,
		CustomAlias: req.CustomAlias,
		ProfilePic:  req.ProfilePic,
	}

	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeError(w, "Invalid expires_at format. Use RFC3339 format", http.StatusBadRequest)
			return
		}
		link.ExpiresAt = &expiresAt
		link.IsTemporary = true
	}

	if err := h.shortener.Shorten(r.Context(), link); err != nil {
		switch {
		case errors.Is(err, repository.ErrTitleExists):
			writeError(w, "A link with this title already exists", http.StatusConflict)
		case errors.Is(err, repository.ErrAliasExists):
			writeError(w, "Custom alias already in use", http.StatusConflict)
		default:
			h.log.Error("failed to create link", zap.Int64("user_id", userID), zap.Error(err))
			writeError(w, "Failed to create link", http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("created link",
		zap.Int64("link_id", link.ID),
		zap.String("short_code", link.ShortCode),
		zap.Int64("user_id", userID))
	writeJSON(w, h.toResponse(link), http.StatusCreated)
}

// ListLinks returns the authenticated user's links
//
//	@Summary		List links
//	@Description	List the authenticated user's non-expired links
//	@Tags			Links
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListLinksResponse	"User links"
//	@Failure		401	{object}	map[string]string	"Authentication required"
//	@Router			/api/links [get]
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	links, err := h.storage.ListUserLinks(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to list user links", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, "Failed to retrieve links", http.StatusInternalServerError)
		return
	}

	response := ListLinksResponse{Links: make([]LinkResponse, len(links))}
	for i, link := range links {
		response.Links[i] = h.toResponse(link)
	}

	writeJSON(w, response, http.StatusOK)
}

// GetLink returns one of the user's links
func (h *LinksHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedLink(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.toResponse(link), http.StatusOK)
}

// UpdateLink updates a link's title, destination, alias, or expiry
//
//	@Summary		Update a link
//	@Description	Update a link's editable fields
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int					true	"Link ID"
//	@Param			request	body		UpdateLinkRequest	true	"Link update request"
//	@Success		200		{object}	LinkResponse		"Link updated"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		403		{object}	map[string]string	"Access denied"
//	@Failure		404		{object}	map[string]string	"Link not found"
//	@Failure		409		{object}	map[string]string	"Title or alias already in use"
//	@Router			/api/links/{id} [put]
func (h *LinksHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedLink(w, r)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		writeError(w, "Title is required", http.StatusBadRequest)
		return
	}
	if err := validateDestination(req.OriginalURL); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CustomAlias != nil && *req.CustomAlias == "" {
		req.CustomAlias = nil
	}

	link.Title = req.Title
	link.OriginalURL = req.OriginalURL
	link.CustomAlias = req.CustomAlias
	link.ProfilePic = req.ProfilePic

	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeError(w, "Invalid expires_at format. Use RFC3339 format", http.StatusBadRequest)
			return
		}
		link.ExpiresAt = &expiresAt
		link.IsTemporary = true
	} else {
		link.ExpiresAt = nil
		link.IsTemporary = false
	}

	if err := h.shortener.Update(r.Context(), link); err != nil {
		switch {
		case errors.Is(err, repository.ErrTitleExists):
			writeError(w, "A link with this title already exists", http.StatusConflict)
		case errors.Is(err, repository.ErrAliasExists):
			writeError(w, "Custom alias already in use", http.StatusConflict)
		default:
			h.log.Error("failed to update link", zap.Int64("link_id", link.ID), zap.Error(err))
			writeError(w, "Failed to update link", http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("updated link", zap.Int64("link_id", link.ID))
	writeJSON(w, h.toResponse(link), http.StatusOK)
}

// DeleteLink removes a link together with its clicks and bio-page entries
//
//	@Summary		Delete a link
//	@Description	Delete a link; its click history and bio-page references go with it
//	@Tags			Links
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Link ID"
//	@Success		204	"Link deleted successfully"
//	@Failure		401	{object}	map[string]string	"Authentication required"
//	@Failure		403	{object}	map[string]string	"Access denied"
//	@Failure		404	{object}	map[string]string	"Link not found"
//	@Router			/api/links/{id} [delete]
func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedLink(w, r)
	if !ok {
		return
	}

	if err := h.shortener.Delete(r.Context(), link.ID); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete link", zap.Int64("link_id", link.ID), zap.Error(err))
		writeError(w, "Failed to delete link", http.StatusInternalServerError)
		return
	}

	h.log.Info("deleted link", zap.Int64("link_id", link.ID))
	w.WriteHeader(http.StatusNoContent)
}

// ListClicks returns the raw click log for a link, newest first
func (h *LinksHandler) ListClicks(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedLink(w, r)
	if !ok {
		return
	}

	clicks, err := h.storage.ListLinkClicks(r.Context(), link.ID)
	if err != nil {
		h.log.Error("failed to list clicks", zap.Int64("link_id", link.ID), zap.Error(err))
		writeError(w, "Failed to retrieve clicks", http.StatusInternalServerError)
		return
	}

	response := make([]ClickResponse, len(clicks))
	for i, click := range clicks {
		response[i] = ClickResponse{
			ID:        click.ID,
			Device:    click.Device,
			Country:   click.Country,
			City:      click.City,
			Browser:   click.Browser,
			OS:        click.OS,
			Referer:   click.Referer,
			CreatedAt: click.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, response, http.StatusOK)
}

// GetStats returns aggregate click statistics for a link
//
//	@Summary		Link statistics
//	@Description	Aggregate click counts by device and country
//	@Tags			Links
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int					true	"Link ID"
//	@Success		200	{object}	StatsResponse		"Link statistics"
//	@Failure		403	{object}	map[string]string	"Access denied"
//	@Failure		404	{object}	map[string]string	"Link not found"
//	@Router			/api/links/{id}/stats [get]
func (h *LinksHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedLink(w, r)
	if !ok {
		return
	}

	byDevice, err := h.storage.GetClicksByDevice(r.Context(), link.ID)
	if err != nil {
		h.log.Error("failed to get clicks by device", zap.Int64("link_id", link.ID), zap.Error(err))
		byDevice = make(map[string]int64)
	}

	byCountry, err := h.storage.GetClicksByCountry(r.Context(), link.ID)
	if err != nil {
		h.log.Error("failed to get clicks by country", zap.Int64("link_id", link.ID), zap.Error(err))
		byCountry = make(map[string]int64)
	}

	var total int64
	for _, count := range byDevice {
		total += count
	}

	writeJSON(w, StatsResponse{
		LinkID:          link.ID,
		TotalClicks:     total,
		ClicksByDevice:  byDevice,
		ClicksByCountry: byCountry,
	}, http.StatusOK)
}

// Helper methods

// ownedLink loads the link from the {id} path value and enforces ownership.
// On failure it has already written the response.
func (h *LinksHandler) ownedLink(w http.ResponseWriter, r *http.Request) (*domain.Link, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return nil, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, "Invalid link id", http.StatusBadRequest)
		return nil, false
	}

	link, err := h.storage.GetLinkByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			writeError(w, "Link not found", http.StatusNotFound)
			return nil, false
		}
		h.log.Error("failed to get link", zap.Int64("link_id", id), zap.Error(err))
		writeError(w, "Failed to retrieve link", http.StatusInternalServerError)
		return nil, false
	}

	if link.UserID != userID {
		writeError(w, "Access denied", http.StatusForbidden)
		return nil, false
	}

	return link, true
}

func (h *LinksHandler) toResponse(link *domain.Link) LinkResponse {
	resp := LinkResponse{
		ID:          link.ID,
		Title:       link.Title,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    h.shortener.ShortURL(link.ShortCode),
		CustomAlias: link.CustomAlias,
		QRCode:      link.QRCode,
		ProfilePic:  link.ProfilePic,
		IsTemporary: link.IsTemporary,
		CreatedAt:   link.CreatedAt.Format(time.RFC3339),
	}
	if link.ExpiresAt != nil {
		resp.ExpiresAt = link.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}

func validateDestination(rawURL string) error {
	if rawURL == "" {
		return errors.New("original URL is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.New("original URL must be a valid http or https URL")
	}
	return nil
}
