package http

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBio(t *testing.T, env *testEnv, token string, req CreateBioRequest) BioResponse {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/bios", token, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp BioResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestBio_Create(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")

	desc := "all my links"
	resp := createBio(t, env, token, CreateBioRequest{Title: "My Page!", Description: &desc})

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "My Page!", resp.Title)
	assert.Equal(t, "my-page", resp.Slug)
	require.NotNil(t, resp.Description)
	assert.Equal(t, desc, *resp.Description)
}

func TestBio_Create_DuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")

	createBio(t, env, token, CreateBioRequest{Title: "Links"})

	rec := env.do(t, http.MethodPost, "/api/bios", token, CreateBioRequest{Title: "Links"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// another account can reuse the title
	_, otherToken := env.newUser(t, "other@example.com")
	createBio(t, env, otherToken, CreateBioRequest{Title: "Links"})
}

func TestBio_List(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")
	_, otherToken := env.newUser(t, "other@example.com")

	createBio(t, env, token, CreateBioRequest{Title: "Mine"})
	createBio(t, env, otherToken, CreateBioRequest{Title: "Theirs"})

	rec := env.do(t, http.MethodGet, "/api/bios", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []BioResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "Mine", resp[0].Title)
}

func TestBio_Update(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")

	page := createBio(t, env, token, CreateBioRequest{Title: "Old Name"})
	path := "/api/bios/" + strconv.FormatInt(page.ID, 10)

	rec := env.do(t, http.MethodPut, path, token, UpdateBioRequest{Title: "New Name"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BioResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "New Name", resp.Title)
	assert.Equal(t, "new-name", resp.Slug)
}

func TestBio_AttachAndView(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")

	page := createBio(t, env, token, CreateBioRequest{Title: "My Page"})
	link := createLink(t, env, token, CreateLinkRequest{Title: "My Blog", OriginalURL: "https://example.com"})

	basePath := "/api/bios/" + strconv.FormatInt(page.ID, 10)

	rec := env.do(t, http.MethodPost, basePath+"/links", token, AttachLinkRequest{LinkID: link.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// the public view needs no auth
	rec = env.do(t, http.MethodGet, basePath+"/view", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view BioPageView
	decodeBody(t, rec, &view)
	assert.Equal(t, "My Page", view.Title)
	require.Len(t, view.Links, 1)
	assert.Equal(t, link.ID, view.Links[0].LinkID)
	assert.Equal(t, "My Blog", view.Links[0].Title)
	assert.Equal(t, link.ShortCode, view.Links[0].ShortCode)
}

func TestBio_AttachForeignLink(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")
	_, otherToken := env.newUser(t, "other@example.com")

	page := createBio(t, env, token, CreateBioRequest{Title: "My Page"})
	foreign := createLink(t, env, otherToken, CreateLinkRequest{Title: "Not Mine", OriginalURL: "https://example.com"})

	rec := env.do(t, http.MethodPost, "/api/bios/"+strconv.FormatInt(page.ID, 10)+"/links", token, AttachLinkRequest{LinkID: foreign.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBio_Detach(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")

	page := createBio(t, env, token, CreateBioRequest{Title: "My Page"})
	link := createLink(t, env, token, CreateLinkRequest{Title: "My Blog", OriginalURL: "https://example.com"})

	basePath := "/api/bios/" + strconv.FormatInt(page.ID, 10)
	linkPath := basePath + "/links/" + strconv.FormatInt(link.ID, 10)

	rec := env.do(t, http.MethodPost, basePath+"/links", token, AttachLinkRequest{LinkID: link.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodDelete, linkPath, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// detaching again reports not found
	rec = env.do(t, http.MethodDelete, linkPath, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, basePath+"/view", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view BioPageView
	decodeBody(t, rec, &view)
	assert.Empty(t, view.Links)
}

func TestBio_DeleteKeepsLinks(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")

	page := createBio(t, env, token, CreateBioRequest{Title: "Doomed Page"})
	link := createLink(t, env, token, CreateLinkRequest{Title: "Survivor", OriginalURL: "https://example.com"})

	basePath := "/api/bios/" + strconv.FormatInt(page.ID, 10)
	rec := env.do(t, http.MethodPost, basePath+"/links", token, AttachLinkRequest{LinkID: link.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodDelete, basePath, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, basePath+"/view", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the link itself survives the page deletion
	rec = env.do(t, http.MethodGet, "/api/links/"+strconv.FormatInt(link.ID, 10), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBio_Ownership(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "owner@example.com")
	_, otherToken := env.newUser(t, "other@example.com")

	page := createBio(t, env, token, CreateBioRequest{Title: "Private"})
	path := "/api/bios/" + strconv.FormatInt(page.ID, 10)

	rec := env.do(t, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
