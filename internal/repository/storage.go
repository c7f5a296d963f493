package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrLinkNotFound    = errors.New("link not found")
	ErrShortCodeExists = errors.New("short code already exists")
	ErrAliasExists     = errors.New("custom alias already exists")
	ErrTitleExists     = errors.New("title already exists")
	ErrBioNotFound     = errors.New("bio page not found")
	ErrBioTitleExists  = errors.New("bio title already exists")
	ErrBioLinkNotFound = errors.New("bio link not found")
)

// Storage is the persistence boundary for users, links, clicks and bio pages.
type Storage interface {
	// User methods
	CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Link methods
	//
	// CreateLink relies on store-level uniqueness constraints: it returns
	// ErrShortCodeExists when the generated code collides, ErrAliasExists
	// when the owner already uses the custom alias, ErrTitleExists when the
	// owner already uses the title.
	CreateLink(ctx context.Context, link *domain.Link) error
	GetLinkByID(ctx context.Context, id int64) (*domain.Link, error)
	GetLinkByShortCode(ctx context.Context, code string) (*domain.Link, error)
	ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error)
	UpdateLink(ctx context.Context, link *domain.Link) error
	// DeleteLink removes the link together with its click events and any
	// bio-page references to it, in one transaction.
	DeleteLink(ctx context.Context, id int64) error
	// DeleteExpiredLinks reaps every link whose expiration elapsed before
	// now, cascades included. Returns the short codes of the removed links
	// so callers can drop any cached redirects for them.
	DeleteExpiredLinks(ctx context.Context, now time.Time) ([]string, error)

	// Click methods
	RecordClick(ctx context.Context, click *domain.Click) error
	ListLinkClicks(ctx context.Context, linkID int64) ([]*domain.Click, error)
	GetClicksByDevice(ctx context.Context, linkID int64) (map[string]int64, error)
	GetClicksByCountry(ctx context.Context, linkID int64) (map[string]int64, error)
	GetClickCounts(ctx context.Context) (map[int64]int64, error)

	// Bio methods
	CreateBioPage(ctx context.Context, page *domain.BioPage) error
	GetBioPage(ctx context.Context, id int64) (*domain.BioPage, error)
	ListUserBioPages(ctx context.Context, userID int64) ([]*domain.BioPage, error)
	UpdateBioPage(ctx context.Context, page *domain.BioPage) error
	// DeleteBioPage removes the page and its join entries.
	DeleteBioPage(ctx context.Context, id int64) error
	AddBioLink(ctx context.Context, bioID, linkID int64) (*domain.BioLink, error)
	RemoveBioLink(ctx context.Context, bioID, linkID int64) error
	// ListBioLinkCards returns the page's links in join creation order with
	// the denormalized fields needed to render a card.
	ListBioLinkCards(ctx context.Context, bioID int64) ([]*domain.BioLinkCard, error)

	// Admin methods
	ListAllUsers(ctx context.Context) ([]*domain.User, error)
	ListAllLinks(ctx context.Context) ([]*domain.Link, error)
	ListAllBioPages(ctx context.Context) ([]*domain.BioPage, error)
	ListAllBioLinks(ctx context.Context) ([]*domain.BioLink, error)
}
