package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"sync"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
)

// MemStorage is an in-memory Storage implementation used in tests and local
// development. It enforces the same uniqueness rules as the PostgreSQL
// implementation, including constraint-style feedback on short-code
// collisions.
type MemStorage struct {
	mu           sync.RWMutex
	users        map[int64]*domain.User
	usersByEmail map[string]*domain.User
	links        map[int64]*domain.Link
	linksByCode  map[string]*domain.Link
	clicks       map[int64][]*domain.Click
	bioPages     map[int64]*domain.BioPage
	bioLinks     []*domain.BioLink

	userCounter    int64
	linkCounter    int64
	clickCounter   int64
	bioCounter     int64
	bioLinkCounter int64
}

func New() *MemStorage {
	return &MemStorage{
		users:        make(map[int64]*domain.User),
		usersByEmail: make(map[string]*domain.User),
		links:        make(map[int64]*domain.Link),
		linksByCode:  make(map[string]*domain.Link),
		clicks:       make(map[int64][]*domain.Click),
		bioPages:     make(map[int64]*domain.BioPage),
	}
}

// --- User Methods ---

func (s *MemStorage) CreateUser(_ context.Context, email, passwordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[strings.ToLower(email)]; exists {
		return nil, repository.ErrEmailExists
	}

	s.userCounter++
	user := &domain.User{
		ID:           s.userCounter,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	s.usersByEmail[strings.ToLower(email)] = user

	return user, nil
}

func (s *MemStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *MemStorage) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *MemStorage) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	s.users[user.ID] = user
	s.usersByEmail[strings.ToLower(user.Email)] = user
	return nil
}

// --- Link Methods ---

func (s *MemStorage) CreateLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.links {
		if existing.UserID == link.UserID && existing.Title == link.Title {
			return repository.ErrTitleExists
		}
		if link.CustomAlias != nil && existing.CustomAlias != nil &&
			existing.UserID == link.UserID && *existing.CustomAlias == *link.CustomAlias {
			return repository.ErrAliasExists
		}
	}

	if _, exists := s.linksByCode[link.ShortCode]; exists {
		return repository.ErrShortCodeExists
	}

	s.linkCounter++
	link.ID = s.linkCounter
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	s.links[link.ID] = link
	s.linksByCode[link.ShortCode] = link

	return nil
}

func (s *MemStorage) GetLinkByID(_ context.Context, id int64) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok || link.IsExpired(time.Now()) {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (s *MemStorage) GetLinkByShortCode(_ context.Context, code string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.linksByCode[code]
	if !ok || link.IsExpired(time.Now()) {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (s *MemStorage) ListUserLinks(_ context.Context, userID int64) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var userLinks []*domain.Link
	for _, link := range s.links {
		if link.UserID == userID && !link.IsExpired(now) {
			userLinks = append(userLinks, link)
		}
	}
	sort.Slice(userLinks, func(i, j int) bool {
		return userLinks[i].CreatedAt.After(userLinks[j].CreatedAt)
	})

	return userLinks, nil
}

func (s *MemStorage) UpdateLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.links[link.ID]
	if !ok {
		return repository.ErrLinkNotFound
	}

	for _, other := range s.links {
		if other.ID == link.ID {
			continue
		}
		if other.UserID == link.UserID && other.Title == link.Title {
			return repository.ErrTitleExists
		}
		if link.CustomAlias != nil && other.CustomAlias != nil &&
			other.UserID == link.UserID && *other.CustomAlias == *link.CustomAlias {
			return repository.ErrAliasExists
		}
	}

	delete(s.linksByCode, existing.ShortCode)
	s.links[link.ID] = link
	s.linksByCode[link.ShortCode] = link
	return nil
}

func (s *MemStorage) DeleteLink(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteLinkLocked(id)
}

// deleteLinkLocked cascades to click events and bio-page references.
// Caller holds the write lock.
func (s *MemStorage) deleteLinkLocked(id int64) error {
	link, ok := s.links[id]
	if !ok {
		return repository.ErrLinkNotFound
	}

	delete(s.clicks, id)

	kept := s.bioLinks[:0]
	for _, bl := range s.bioLinks {
		if bl.LinkID != id {
			kept = append(kept, bl)
		}
	}
	s.bioLinks = kept

	delete(s.linksByCode, link.ShortCode)
	delete(s.links, id)
	return nil
}

func (s *MemStorage) DeleteExpiredLinks(_ context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []int64
	var codes []string
	for id, link := range s.links {
		if link.ExpiresAt != nil && !now.Before(*link.ExpiresAt) {
			expired = append(expired, id)
			codes = append(codes, link.ShortCode)
		}
	}
	for _, id := range expired {
		_ = s.deleteLinkLocked(id)
	}

	return codes, nil
}

// --- Click Methods ---

func (s *MemStorage) RecordClick(_ context.Context, click *domain.Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clickCounter++
	click.ID = s.clickCounter
	if click.CreatedAt.IsZero() {
		click.CreatedAt = time.Now()
	}
	s.clicks[click.LinkID] = append(s.clicks[click.LinkID], click)
	return nil
}

func (s *MemStorage) ListLinkClicks(_ context.Context, linkID int64) ([]*domain.Click, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clicks := make([]*domain.Click, len(s.clicks[linkID]))
	copy(clicks, s.clicks[linkID])
	sort.Slice(clicks, func(i, j int) bool {
		return clicks[i].CreatedAt.After(clicks[j].CreatedAt)
	})
	return clicks, nil
}

func (s *MemStorage) GetClicksByDevice(_ context.Context, linkID int64) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDevice := make(map[string]int64)
	for _, click := range s.clicks[linkID] {
		byDevice[click.Device]++
	}
	return byDevice, nil
}

func (s *MemStorage) GetClicksByCountry(_ context.Context, linkID int64) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCountry := make(map[string]int64)
	for _, click := range s.clicks[linkID] {
		country := "unknown"
		if click.Country != nil {
			country = *click.Country
		}
		byCountry[country]++
	}
	return byCountry, nil
}

func (s *MemStorage) GetClickCounts(_ context.Context) (map[int64]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int64, len(s.clicks))
	for linkID, clicks := range s.clicks {
		counts[linkID] = int64(len(clicks))
	}
	return counts, nil
}

// --- Bio Methods ---

func (s *MemStorage) CreateBioPage(_ context.Context, page *domain.BioPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bioPages {
		if existing.UserID == page.UserID && existing.Title == page.Title {
			return repository.ErrBioTitleExists
		}
	}

	s.bioCounter++
	page.ID = s.bioCounter
	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now()
	}
	s.bioPages[page.ID] = page
	return nil
}

func (s *MemStorage) GetBioPage(_ context.Context, id int64) (*domain.BioPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.bioPages[id]
	if !ok {
		return nil, repository.ErrBioNotFound
	}
	return page, nil
}

func (s *MemStorage) ListUserBioPages(_ context.Context, userID int64) ([]*domain.BioPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pages []*domain.BioPage
	for _, page := range s.bioPages {
		if page.UserID == userID {
			pages = append(pages, page)
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].CreatedAt.After(pages[j].CreatedAt)
	})
	return pages, nil
}

func (s *MemStorage) UpdateBioPage(_ context.Context, page *domain.BioPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bioPages[page.ID]; !ok {
		return repository.ErrBioNotFound
	}
	for _, other := range s.bioPages {
		if other.ID != page.ID && other.UserID == page.UserID && other.Title == page.Title {
			return repository.ErrBioTitleExists
		}
	}
	s.bioPages[page.ID] = page
	return nil
}

func (s *MemStorage) DeleteBioPage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bioPages[id]; !ok {
		return repository.ErrBioNotFound
	}

	kept := s.bioLinks[:0]
	for _, bl := range s.bioLinks {
		if bl.BioID != id {
			kept = append(kept, bl)
		}
	}
	s.bioLinks = kept

	delete(s.bioPages, id)
	return nil
}

func (s *MemStorage) AddBioLink(_ context.Context, bioID, linkID int64) (*domain.BioLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bioLinkCounter++
	bioLink := &domain.BioLink{
		ID:        s.bioLinkCounter,
		BioID:     bioID,
		LinkID:    linkID,
		CreatedAt: time.Now(),
	}
	s.bioLinks = append(s.bioLinks, bioLink)
	return bioLink, nil
}

func (s *MemStorage) RemoveBioLink(_ context.Context, bioID, linkID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, bl := range s.bioLinks {
		if bl.BioID == bioID && bl.LinkID == linkID {
			s.bioLinks = append(s.bioLinks[:i], s.bioLinks[i+1:]...)
			return nil
		}
	}
	return repository.ErrBioLinkNotFound
}

func (s *MemStorage) ListBioLinkCards(_ context.Context, bioID int64) ([]*domain.BioLinkCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cards []*domain.BioLinkCard
	for _, bl := range s.bioLinks {
		if bl.BioID != bioID {
			continue
		}
		link, ok := s.links[bl.LinkID]
		if !ok {
			continue
		}
		cards = append(cards, &domain.BioLinkCard{
			LinkID:     link.ID,
			Title:      link.Title,
			ShortCode:  link.ShortCode,
			QRCode:     link.QRCode,
			ProfilePic: link.ProfilePic,
			CreatedAt:  bl.CreatedAt,
		})
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

// --- Admin Methods ---

func (s *MemStorage) ListAllUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s *MemStorage) ListAllLinks(_ context.Context) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]*domain.Link, 0, len(s.links))
	for _, link := range s.links {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (s *MemStorage) ListAllBioPages(_ context.Context) ([]*domain.BioPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := make([]*domain.BioPage, 0, len(s.bioPages))
	for _, page := range s.bioPages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].CreatedAt.After(pages[j].CreatedAt)
	})
	return pages, nil
}

func (s *MemStorage) ListAllBioLinks(_ context.Context) ([]*domain.BioLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bioLinks := make([]*domain.BioLink, 0, len(s.bioLinks))
	for _, bl := range s.bioLinks {
		copied := *bl
		if link, ok := s.links[bl.LinkID]; ok {
			copied.Link = link
		}
		bioLinks = append(bioLinks, &copied)
	}
	return bioLinks, nil
}
