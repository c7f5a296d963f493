package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/pkg/useragent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.newUser(t, "plain@example.com")

	paths := []string{
		"/api/admin/users",
		"/api/admin/links",
		"/api/admin/bios",
		"/api/admin/bio-links",
	}

	for _, path := range paths {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = env.do(t, http.MethodGet, path, userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestAdmin_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.newUser(t, "alice@example.com")
	env.newUser(t, "bob@example.com")
	adminToken := env.newAdmin(t, "admin@example.com")

	rec := env.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []AdminUserInfo
	decodeBody(t, rec, &users)
	require.Len(t, users, 3)

	emails := make(map[string]bool)
	for _, u := range users {
		emails[u.Email] = u.IsAdmin
	}
	assert.False(t, emails["alice@example.com"])
	assert.True(t, emails["admin@example.com"])
}

func TestAdmin_ListLinks_IncludesExpiredAndCounts(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")
	adminToken := env.newAdmin(t, "admin@example.com")

	live := createLink(t, env, token, CreateLinkRequest{Title: "Live", OriginalURL: "https://example.com/a"})
	expired := createLink(t, env, token, CreateLinkRequest{
		Title:       "Expired",
		OriginalURL: "https://example.com/b",
		ExpiresAt:   time.Now().Add(time.Millisecond).UTC().Format(time.RFC3339Nano),
	})

	ctx := context.Background()
	require.NoError(t, env.store.RecordClick(ctx, &domain.Click{LinkID: live.ID, Device: useragent.DeviceDesktop}))
	require.NoError(t, env.store.RecordClick(ctx, &domain.Click{LinkID: live.ID, Device: useragent.DeviceMobile}))

	time.Sleep(5 * time.Millisecond)

	rec := env.do(t, http.MethodGet, "/api/admin/links", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var links []AdminLinkInfo
	decodeBody(t, rec, &links)
	require.Len(t, links, 2)

	byID := make(map[int64]AdminLinkInfo)
	for _, l := range links {
		byID[l.ID] = l
	}
	assert.Equal(t, int64(2), byID[live.ID].ClickCount)
	assert.Equal(t, "Expired", byID[expired.ID].Title)
	assert.NotEmpty(t, byID[expired.ID].ExpiresAt)
}

func TestAdmin_ListBiosAndBioLinks(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")
	adminToken := env.newAdmin(t, "admin@example.com")

	page := createBio(t, env, token, CreateBioRequest{Title: "My Page"})
	link := createLink(t, env, token, CreateLinkRequest{Title: "My Blog", OriginalURL: "https://example.com"})

	rec := env.do(t, http.MethodPost, "/api/bios/"+itoa(page.ID)+"/links", token, AttachLinkRequest{LinkID: link.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/bios", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bios []AdminBioInfo
	decodeBody(t, rec, &bios)
	require.Len(t, bios, 1)
	assert.Equal(t, "my-page", bios[0].Slug)

	rec = env.do(t, http.MethodGet, "/api/admin/bio-links", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bioLinks []AdminBioLinkInfo
	decodeBody(t, rec, &bioLinks)
	require.Len(t, bioLinks, 1)
	assert.Equal(t, page.ID, bioLinks[0].BioID)
	assert.Equal(t, link.ID, bioLinks[0].LinkID)
	assert.Equal(t, "My Blog", bioLinks[0].LinkTitle)
}
