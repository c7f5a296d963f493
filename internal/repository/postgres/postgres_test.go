package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/database"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
)

// setupStorage starts a throwaway postgres container and returns migrated
// storage. Requires a local Docker daemon, so it only runs when
// POSTGRES_INTEGRATION_TESTS is set.
func setupStorage(t *testing.T) *PostgresStorage {
	t.Helper()

	if os.Getenv("POSTGRES_INTEGRATION_TESTS") == "" {
		t.Skip("set POSTGRES_INTEGRATION_TESTS=1 to run postgres integration tests")
	}

	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("trimurl_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	log := zap.NewNop()
	require.NoError(t, database.AutoMigrate(db, log))

	return New(db, log)
}

func mustUser(t *testing.T, storage *PostgresStorage, email string) *domain.User {
	t.Helper()
	user, err := storage.CreateUser(context.Background(), email, "hash")
	require.NoError(t, err)
	return user
}

func TestPostgres_UserUniqueness(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	mustUser(t, storage, "user@example.com")

	_, err := storage.CreateUser(ctx, "user@example.com", "other-hash")
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestPostgres_ShortCodeConstraint(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()
	user := mustUser(t, storage, "user@example.com")

	first := &domain.Link{
		UserID:      user.ID,
		Title:       "First",
		OriginalURL: "https://example.com/a",
		ShortCode:   "abc123",
	}
	require.NoError(t, storage.CreateLink(ctx, first))

	// same code again trips the unique index, not a pre-check
	dup := &domain.Link{
		UserID:      user.ID,
		Title:       "Second",
		OriginalURL: "https://example.com/b",
		ShortCode:   "abc123",
	}
	assert.ErrorIs(t, storage.CreateLink(ctx, dup), repository.ErrShortCodeExists)
}

func TestPostgres_PerOwnerTitleAndAlias(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()
	owner := mustUser(t, storage, "owner@example.com")
	other := mustUser(t, storage, "other@example.com")

	alias := "promo"
	require.NoError(t, storage.CreateLink(ctx, &domain.Link{
		UserID:      owner.ID,
		Title:       "Promo",
		OriginalURL: "https://example.com",
		ShortCode:   "code01",
		CustomAlias: &alias,
	}))

	err := storage.CreateLink(ctx, &domain.Link{
		UserID:      owner.ID,
		Title:       "Promo",
		OriginalURL: "https://example.com",
		ShortCode:   "code02",
	})
	assert.ErrorIs(t, err, repository.ErrTitleExists)

	err = storage.CreateLink(ctx, &domain.Link{
		UserID:      owner.ID,
		Title:       "Other Promo",
		OriginalURL: "https://example.com",
		ShortCode:   "code03",
		CustomAlias: &alias,
	})
	assert.ErrorIs(t, err, repository.ErrAliasExists)

	// a different owner can reuse both
	require.NoError(t, storage.CreateLink(ctx, &domain.Link{
		UserID:      other.ID,
		Title:       "Promo",
		OriginalURL: "https://example.com",
		ShortCode:   "code04",
		CustomAlias: &alias,
	}))
}

func TestPostgres_ExpiredLinksHiddenAndReaped(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()
	user := mustUser(t, storage, "user@example.com")

	expiresAt := time.Now().Add(-time.Minute)
	expired := &domain.Link{
		UserID:      user.ID,
		Title:       "Gone",
		OriginalURL: "https://example.com",
		ShortCode:   "gone01",
		ExpiresAt:   &expiresAt,
		IsTemporary: true,
	}
	require.NoError(t, storage.CreateLink(ctx, expired))

	_, err := storage.GetLinkByShortCode(ctx, "gone01")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	_, err = storage.GetLinkByID(ctx, expired.ID)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	reaped, err := storage.DeleteExpiredLinks(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"gone01"}, reaped)
}

func TestPostgres_DeleteLinkCascades(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()
	user := mustUser(t, storage, "user@example.com")

	link := &domain.Link{
		UserID:      user.ID,
		Title:       "Tracked",
		OriginalURL: "https://example.com",
		ShortCode:   "trk001",
	}
	require.NoError(t, storage.CreateLink(ctx, link))
	require.NoError(t, storage.RecordClick(ctx, &domain.Click{LinkID: link.ID, Device: "desktop"}))

	page := &domain.BioPage{UserID: user.ID, Title: "Page", Slug: "page"}
	require.NoError(t, storage.CreateBioPage(ctx, page))
	_, err := storage.AddBioLink(ctx, page.ID, link.ID)
	require.NoError(t, err)

	require.NoError(t, storage.DeleteLink(ctx, link.ID))

	clicks, err := storage.ListLinkClicks(ctx, link.ID)
	require.NoError(t, err)
	assert.Empty(t, clicks)

	cards, err := storage.ListBioLinkCards(ctx, page.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestPostgres_ClickAggregation(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()
	user := mustUser(t, storage, "user@example.com")

	link := &domain.Link{
		UserID:      user.ID,
		Title:       "Stats",
		OriginalURL: "https://example.com",
		ShortCode:   "sts001",
	}
	require.NoError(t, storage.CreateLink(ctx, link))

	country := "Germany"
	require.NoError(t, storage.RecordClick(ctx, &domain.Click{LinkID: link.ID, Device: "mobile", Country: &country}))
	require.NoError(t, storage.RecordClick(ctx, &domain.Click{LinkID: link.ID, Device: "mobile"}))
	require.NoError(t, storage.RecordClick(ctx, &domain.Click{LinkID: link.ID, Device: "desktop"}))

	byDevice, err := storage.GetClicksByDevice(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byDevice["mobile"])
	assert.Equal(t, int64(1), byDevice["desktop"])

	byCountry, err := storage.GetClicksByCountry(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byCountry["Germany"])
	assert.Equal(t, int64(2), byCountry["unknown"])
}
