package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/cache"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/config"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"github.com/Nguyen-Chi-Tam/trim-url/pkg/qrcode"
	"github.com/Nguyen-Chi-Tam/trim-url/pkg/random"
	"go.uber.org/zap"
)

type URLShortenerService struct {
	storage repository.Storage
	cache   *cache.RedirectCache // nil when caching is disabled
	config  *config.URLShortener
	log     *zap.Logger
}

func NewURLShortener(storage repository.Storage, redirectCache *cache.RedirectCache, cfg *config.URLShortener, log *zap.Logger) *URLShortenerService {
	return &URLShortenerService{
		storage: storage,
		cache:   redirectCache,
		config:  cfg,
		log:     log,
	}
}

// Shorten assigns link a fresh short code, generates its QR code, and
// persists it. Code collisions are not pre-checked: the insert's uniqueness
// feedback drives regeneration, so the loop runs until a code lands or the
// context is cancelled. Custom aliases are never regenerated; an alias or
// title already taken by the same owner surfaces as a validation error.
func (s *URLShortenerService) Shorten(ctx context.Context, link *domain.Link) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		code, err := random.NewRandomString(s.config.CodeLength)
		if err != nil {
			return fmt.Errorf("failed to generate short code: %w", err)
		}
		link.ShortCode = code

		qr, err := qrcode.GenerateDataURI(s.ShortURL(code))
		if err != nil {
			return fmt.Errorf("failed to generate qr code: %w", err)
		}
		link.QRCode = &qr

		err = s.storage.CreateLink(ctx, link)
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrShortCodeExists) {
			s.log.Debug("short code collision, regenerating", zap.String("code", code))
			continue
		}
		return err
	}
}

// Update persists changes to a link and drops any cached redirect for its
// short code.
func (s *URLShortenerService) Update(ctx context.Context, link *domain.Link) error {
	if err := s.storage.UpdateLink(ctx, link); err != nil {
		return err
	}
	s.invalidate(ctx, link.ShortCode)
	return nil
}

// Delete removes a link together with its click history and bio-page
// references.
func (s *URLShortenerService) Delete(ctx context.Context, id int64) error {
	link, err := s.storage.GetLinkByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrLinkNotFound) {
		return err
	}

	if err := s.storage.DeleteLink(ctx, id); err != nil {
		return err
	}
	if link != nil {
		s.invalidate(ctx, link.ShortCode)
	}
	return nil
}

// Resolve maps a short code to the link id and destination URL, consulting
// the redirect cache first when one is configured. Expired links resolve as
// not found.
func (s *URLShortenerService) Resolve(ctx context.Context, code string) (int64, string, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, code); err == nil {
			if id, dest, ok := decodeCacheEntry(cached); ok {
				return id, dest, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("redirect cache lookup failed", zap.String("code", code), zap.Error(err))
		}
	}

	link, err := s.storage.GetLinkByShortCode(ctx, code)
	if err != nil {
		return 0, "", err
	}

	if s.cache != nil {
		if lifetime, ok := cacheLifetime(link, time.Now()); ok {
			if err := s.cache.Set(ctx, code, encodeCacheEntry(link.ID, link.OriginalURL), lifetime); err != nil {
				s.log.Warn("redirect cache store failed", zap.String("code", code), zap.Error(err))
			}
		}
	}

	return link.ID, link.OriginalURL, nil
}

// cacheLifetime returns the per-entry lifetime bound for caching a resolved
// link. Permanent links carry no bound; temporary links are bounded by their
// time to expiry so a cached redirect never outlives the link. A link already
// at or past its expiry is not cached at all.
func cacheLifetime(link *domain.Link, now time.Time) (time.Duration, bool) {
	if link.ExpiresAt == nil {
		return 0, true
	}
	remaining := link.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}

// ResolveByID maps a numeric link id to the link id and destination URL.
// The path segment after the id is cosmetic and ignored by callers.
func (s *URLShortenerService) ResolveByID(ctx context.Context, id int64) (int64, string, error) {
	link, err := s.storage.GetLinkByID(ctx, id)
	if err != nil {
		return 0, "", err
	}
	return link.ID, link.OriginalURL, nil
}

// ShortURL returns the public URL for a short code.
func (s *URLShortenerService) ShortURL(code string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + "/" + code
}

func (s *URLShortenerService) invalidate(ctx context.Context, code string) {
	if s.cache == nil || code == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, code); err != nil {
		s.log.Warn("redirect cache invalidation failed", zap.String("code", code), zap.Error(err))
	}
}

// Cache entries pack "<id>|<url>" so the click recorder still knows which
// link a cached hit belongs to.

func encodeCacheEntry(id int64, url string) string {
	return strconv.FormatInt(id, 10) + "|" + url
}

func decodeCacheEntry(entry string) (int64, string, bool) {
	idStr, url, ok := strings.Cut(entry, "|")
	if !ok {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, url, true
}
