package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
)

// PostgresStorage implements the Storage interface for PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a new PostgreSQL storage instance.
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// isUniqueViolation reports whether err is a unique-constraint violation
// whose constraint name contains the given fragment.
func isUniqueViolation(err error, constraintFragment string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return strings.Contains(pgErr.ConstraintName, constraintFragment)
	}
	return false
}

// --- User Methods ---

// CreateUser inserts a new account with the given email and password hash.
func (s *PostgresStorage) CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	user := domain.User{
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err, "email") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, repository.ErrEmailExists
		}
		s.log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("created new user", zap.Int64("user_id", user.ID))
	return &user, nil
}

// GetUserByEmail fetches a user by email.
func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByID fetches a user by primary key.
func (s *PostgresStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		s.log.Error("failed to get user by id", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateUser persists changes to a user record.
func (s *PostgresStorage) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		s.log.Error("failed to update user", zap.Int64("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// --- Link Methods ---

// CreateLink inserts a new link.
//
// Custom alias and title are validated against the owner's existing links
// before the write; the generated short code carries no pre-check and relies
// on the unique index, so callers retry on ErrShortCodeExists.
func (s *PostgresStorage) CreateLink(ctx context.Context, link *domain.Link) error {
	exists, err := s.titleExists(ctx, link.UserID, link.Title, 0)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrTitleExists
	}

	if link.CustomAlias != nil {
		exists, err := s.aliasExists(ctx, link.UserID, *link.CustomAlias, 0)
		if err != nil {
			return err
		}
		if exists {
			return repository.ErrAliasExists
		}
	}

	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueViolation(err, "short_code") {
			return repository.ErrShortCodeExists
		}
		if isUniqueViolation(err, "owner_alias") {
			return repository.ErrAliasExists
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrShortCodeExists
		}
		s.log.Error("failed to create link", zap.String("short_code", link.ShortCode), zap.Error(err))
		return fmt.Errorf("failed to create link: %w", err)
	}

	s.log.Info("created link",
		zap.Int64("link_id", link.ID),
		zap.String("short_code", link.ShortCode),
		zap.Int64("user_id", link.UserID))
	return nil
}

// GetLinkByID fetches a link by primary key. Expired links resolve as not
// found.
func (s *PostgresStorage) GetLinkByID(ctx context.Context, id int64) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).First(&link, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link by id", zap.Int64("link_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	if link.IsExpired(time.Now()) {
		return nil, repository.ErrLinkNotFound
	}

	return &link, nil
}

// GetLinkByShortCode fetches a link by exact short-code match. Expired links
// resolve as not found.
func (s *PostgresStorage) GetLinkByShortCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link by short code", zap.String("short_code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	if link.IsExpired(time.Now()) {
		return nil, repository.ErrLinkNotFound
	}

	return &link, nil
}

// ListUserLinks returns the user's links, newest first, excluding expired
// ones.
func (s *PostgresStorage) ListUserLinks(ctx context.Context, userID int64) ([]*domain.Link, error) {
	var links []*domain.Link

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		s.log.Error("failed to list user links", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list user links: %w", err)
	}

	return links, nil
}

// UpdateLink persists changes to a link. Title and alias uniqueness are
// re-checked against the owner's other links.
func (s *PostgresStorage) UpdateLink(ctx context.Context, link *domain.Link) error {
	exists, err := s.titleExists(ctx, link.UserID, link.Title, link.ID)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrTitleExists
	}

	if link.CustomAlias != nil {
		exists, err := s.aliasExists(ctx, link.UserID, *link.CustomAlias, link.ID)
		if err != nil {
			return err
		}
		if exists {
			return repository.ErrAliasExists
		}
	}

	if err := s.db.WithContext(ctx).Save(link).Error; err != nil {
		if isUniqueViolation(err, "owner_alias") {
			return repository.ErrAliasExists
		}
		s.log.Error("failed to update link", zap.Int64("link_id", link.ID), zap.Error(err))
		return fmt.Errorf("failed to update link: %w", err)
	}

	return nil
}

// DeleteLink removes a link with its click events and bio-page references in
// one transaction.
func (s *PostgresStorage) DeleteLink(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&domain.Click{}).Error; err != nil {
			return fmt.Errorf("failed to delete clicks: %w", err)
		}
		if err := tx.Where("link_id = ?", id).Delete(&domain.BioLink{}).Error; err != nil {
			return fmt.Errorf("failed to delete bio links: %w", err)
		}

		result := tx.Delete(&domain.Link{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete link: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrLinkNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrLinkNotFound) {
			s.log.Error("failed to delete link", zap.Int64("link_id", id), zap.Error(err))
		}
		return err
	}

	s.log.Info("deleted link", zap.Int64("link_id", id))
	return nil
}

// DeleteExpiredLinks reaps every link whose expiration elapsed before now and
// returns their short codes for cache invalidation.
func (s *PostgresStorage) DeleteExpiredLinks(ctx context.Context, now time.Time) ([]string, error) {
	var expired []domain.Link

	err := s.db.WithContext(ctx).
		Select("id", "short_code").
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Find(&expired).Error
	if err != nil {
		s.log.Error("failed to find expired links", zap.Error(err))
		return nil, fmt.Errorf("failed to find expired links: %w", err)
	}

	if len(expired) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(expired))
	codes := make([]string, len(expired))
	for i, link := range expired {
		ids[i] = link.ID
		codes[i] = link.ShortCode
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id IN ?", ids).Delete(&domain.Click{}).Error; err != nil {
			return fmt.Errorf("failed to delete clicks: %w", err)
		}
		if err := tx.Where("link_id IN ?", ids).Delete(&domain.BioLink{}).Error; err != nil {
			return fmt.Errorf("failed to delete bio links: %w", err)
		}
		if err := tx.Delete(&domain.Link{}, ids).Error; err != nil {
			return fmt.Errorf("failed to delete links: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to reap expired links", zap.Error(err))
		return nil, err
	}

	return codes, nil
}

// --- Helper Methods ---

func (s *PostgresStorage) titleExists(ctx context.Context, userID int64, title string, excludeID int64) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("user_id = ? AND title = ?", userID, title)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		s.log.Error("failed to check title existence", zap.Error(err))
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresStorage) aliasExists(ctx context.Context, userID int64, alias string, excludeID int64) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("user_id = ? AND custom_alias = ?", userID, alias)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		s.log.Error("failed to check alias existence", zap.Error(err))
		return false, fmt.Errorf("failed to check alias: %w", err)
	}
	return count > 0, nil
}
