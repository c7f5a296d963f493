package http

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/analytics"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/service"
	"go.uber.org/zap"
)

// RedirectHandler serves the public redirect routes. Click recording is
// handed off to the analytics processor and never blocks or fails the
// redirect itself.
type RedirectHandler struct {
	shortener *service.URLShortenerService
	processor *analytics.Processor
	log       *zap.Logger
}

func NewRedirectHandler(shortener *service.URLShortenerService, processor *analytics.Processor, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		shortener: shortener,
		processor: processor,
		log:       log,
	}
}

// HandleShortCode resolves GET /{code} by exact short-code match
func (h *RedirectHandler) HandleShortCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeError(w, "Link not found", http.StatusNotFound)
		return
	}

	linkID, destination, err := h.shortener.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			h.log.Debug("short code not found", zap.String("code", code))
			writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to resolve short code", zap.String("code", code), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.recordClick(r, linkID)

	h.log.Info("redirect",
		zap.String("code", code),
		zap.Int64("link_id", linkID),
		zap.String("destination", destination))

	http.Redirect(w, r, destination, http.StatusFound)
}

// HandleIDSegment resolves GET /{id}/{segment}. The id is the link's numeric
// primary key; the trailing segment is cosmetic and not checked.
func (h *RedirectHandler) HandleIDSegment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, "Link not found", http.StatusNotFound)
		return
	}

	linkID, destination, err := h.shortener.ResolveByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			h.log.Debug("link id not found", zap.Int64("id", id))
			writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to resolve link id", zap.Int64("id", id), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.recordClick(r, linkID)

	http.Redirect(w, r, destination, http.StatusFound)
}

// recordClick submits the click for asynchronous processing. A full queue or
// stopped processor only costs the data point.
func (h *RedirectHandler) recordClick(r *http.Request, linkID int64) {
	if h.processor == nil {
		return
	}

	click := &analytics.ClickData{
		LinkID:     linkID,
		OccurredAt: time.Now(),
	}
	if ip := extractIPAddress(r); ip != "" {
		click.IPAddress = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		click.UserAgent = &ua
	}
	if referer := r.Referer(); referer != "" {
		click.Referer = &referer
	}

	if err := h.processor.SubmitClick(click); err != nil {
		h.log.Debug("click dropped", zap.Int64("link_id", linkID), zap.Error(err))
	}
}

// extractIPAddress returns the client address, preferring proxy headers
func extractIPAddress(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For may carry a comma-separated chain
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
