package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/config"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var codePattern = regexp.MustCompile(`^[a-z0-9]{6}$`)

func newTestShortener(storage repository.Storage) *URLShortenerService {
	cfg := &config.URLShortener{
		CodeLength: 6,
		BaseURL:    "http://sho.rt",
	}
	return NewURLShortener(storage, nil, cfg, zap.NewNop())
}

// collidingStorage fails CreateLink with a short-code collision a fixed
// number of times before delegating to the wrapped storage.
type collidingStorage struct {
	repository.Storage
	collisions  int
	createCalls int
}

func (c *collidingStorage) CreateLink(ctx context.Context, link *domain.Link) error {
	c.createCalls++
	if c.createCalls <= c.collisions {
		return repository.ErrShortCodeExists
	}
	return c.Storage.CreateLink(ctx, link)
}

func TestShorten_GeneratesValidCode(t *testing.T) {
	svc := newTestShortener(memory.New())

	link := &domain.Link{
		UserID:      1,
		Title:       "example",
		OriginalURL: "https://example.com",
	}
	require.NoError(t, svc.Shorten(context.Background(), link))

	assert.True(t, codePattern.MatchString(link.ShortCode), "code %q", link.ShortCode)
	require.NotNil(t, link.QRCode)
	assert.True(t, strings.HasPrefix(*link.QRCode, "data:image/png;base64,"))
	assert.NotZero(t, link.ID)
}

func TestShorten_RetriesOnCollision(t *testing.T) {
	store := &collidingStorage{Storage: memory.New(), collisions: 3}
	svc := newTestShortener(store)

	link := &domain.Link{
		UserID:      1,
		Title:       "retried",
		OriginalURL: "https://example.com",
	}
	require.NoError(t, svc.Shorten(context.Background(), link))

	assert.Equal(t, 4, store.createCalls)
	assert.True(t, codePattern.MatchString(link.ShortCode))
}

func TestShorten_ContextCancelled(t *testing.T) {
	// every insert collides, so only cancellation ends the loop
	store := &collidingStorage{Storage: memory.New(), collisions: int(^uint(0) >> 1)}
	svc := newTestShortener(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	link := &domain.Link{
		UserID:      1,
		Title:       "cancelled",
		OriginalURL: "https://example.com",
	}
	err := svc.Shorten(ctx, link)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShorten_AliasConflictIsNotRetried(t *testing.T) {
	store := memory.New()
	svc := newTestShortener(store)

	alias := "promo"
	first := &domain.Link{UserID: 1, Title: "first", OriginalURL: "https://example.com/1", CustomAlias: &alias}
	require.NoError(t, svc.Shorten(context.Background(), first))

	second := &domain.Link{UserID: 1, Title: "second", OriginalURL: "https://example.com/2", CustomAlias: &alias}
	err := svc.Shorten(context.Background(), second)
	assert.ErrorIs(t, err, repository.ErrAliasExists)
}

func TestShorten_TitleConflict(t *testing.T) {
	store := memory.New()
	svc := newTestShortener(store)

	first := &domain.Link{UserID: 1, Title: "same", OriginalURL: "https://example.com/1"}
	require.NoError(t, svc.Shorten(context.Background(), first))

	second := &domain.Link{UserID: 1, Title: "same", OriginalURL: "https://example.com/2"}
	assert.ErrorIs(t, svc.Shorten(context.Background(), second), repository.ErrTitleExists)
}

func TestShorten_ConcurrentCodesDistinct(t *testing.T) {
	store := memory.New()
	svc := newTestShortener(store)

	const n = 50
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			link := &domain.Link{
				UserID:      int64(i + 1),
				Title:       "concurrent",
				OriginalURL: "https://example.com",
			}
			errCh <- svc.Shorten(context.Background(), link)
		}(i)
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errCh)
	}

	links, err := store.ListAllLinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, n)

	codes := make(map[string]bool)
	for _, link := range links {
		codes[link.ShortCode] = true
	}
	assert.Len(t, codes, n)
}

func TestResolve(t *testing.T) {
	store := memory.New()
	svc := newTestShortener(store)

	link := &domain.Link{UserID: 1, Title: "resolve", OriginalURL: "https://example.com/target"}
	require.NoError(t, svc.Shorten(context.Background(), link))

	id, dest, err := svc.Resolve(context.Background(), link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, link.ID, id)
	assert.Equal(t, "https://example.com/target", dest)

	_, _, err = svc.Resolve(context.Background(), "zzzzzz")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestResolveByID(t *testing.T) {
	store := memory.New()
	svc := newTestShortener(store)

	link := &domain.Link{UserID: 1, Title: "by-id", OriginalURL: "https://example.com/target"}
	require.NoError(t, svc.Shorten(context.Background(), link))

	id, dest, err := svc.ResolveByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, link.ID, id)
	assert.Equal(t, "https://example.com/target", dest)

	_, _, err = svc.ResolveByID(context.Background(), 9999)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestDelete_Cascades(t *testing.T) {
	store := memory.New()
	svc := newTestShortener(store)

	link := &domain.Link{UserID: 1, Title: "deleted", OriginalURL: "https://example.com"}
	require.NoError(t, svc.Shorten(context.Background(), link))
	require.NoError(t, store.RecordClick(context.Background(), &domain.Click{LinkID: link.ID, Device: "mobile"}))

	require.NoError(t, svc.Delete(context.Background(), link.ID))

	_, _, err := svc.Resolve(context.Background(), link.ShortCode)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	clicks, err := store.ListLinkClicks(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Empty(t, clicks)
}

func TestCacheEntryRoundTrip(t *testing.T) {
	entry := encodeCacheEntry(42, "https://example.com/a|b")
	id, url, ok := decodeCacheEntry(entry)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "https://example.com/a|b", url)

	_, _, ok = decodeCacheEntry("not-an-entry")
	assert.False(t, ok)
}

func TestCacheLifetime(t *testing.T) {
	now := time.Now()

	permanent := &domain.Link{}
	lifetime, ok := cacheLifetime(permanent, now)
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), lifetime)

	soon := now.Add(30 * time.Second)
	temporary := &domain.Link{ExpiresAt: &soon}
	lifetime, ok = cacheLifetime(temporary, now)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, lifetime)

	past := now.Add(-time.Second)
	expired := &domain.Link{ExpiresAt: &past}
	_, ok = cacheLifetime(expired, now)
	assert.False(t, ok)

	exactly := now
	boundary := &domain.Link{ExpiresAt: &exactly}
	_, ok = cacheLifetime(boundary, now)
	assert.False(t, ok)
}
