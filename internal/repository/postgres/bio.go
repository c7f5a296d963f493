package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
)

// CreateBioPage inserts a new bio page. The title is validated against the
// owner's existing pages before the write.
func (s *PostgresStorage) CreateBioPage(ctx context.Context, page *domain.BioPage) error {
	exists, err := s.bioTitleExists(ctx, page.UserID, page.Title, 0)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrBioTitleExists
	}

	if err := s.db.WithContext(ctx).Create(page).Error; err != nil {
		if isUniqueViolation(err, "owner_title") {
			return repository.ErrBioTitleExists
		}
		s.log.Error("failed to create bio page", zap.Int64("user_id", page.UserID), zap.Error(err))
		return fmt.Errorf("failed to create bio page: %w", err)
	}

	s.log.Info("created bio page", zap.Int64("bio_id", page.ID), zap.Int64("user_id", page.UserID))
	return nil
}

// GetBioPage fetches a bio page by primary key.
func (s *PostgresStorage) GetBioPage(ctx context.Context, id int64) (*domain.BioPage, error) {
	var page domain.BioPage

	err := s.db.WithContext(ctx).First(&page, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrBioNotFound
	}
	if err != nil {
		s.log.Error("failed to get bio page", zap.Int64("bio_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get bio page: %w", err)
	}

	return &page, nil
}

// ListUserBioPages returns the user's bio pages, newest first.
func (s *PostgresStorage) ListUserBioPages(ctx context.Context, userID int64) ([]*domain.BioPage, error) {
	var pages []*domain.BioPage

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		s.log.Error("failed to list bio pages", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list bio pages: %w", err)
	}

	return pages, nil
}

// UpdateBioPage persists changes to a bio page, re-checking the owner title
// uniqueness.
func (s *PostgresStorage) UpdateBioPage(ctx context.Context, page *domain.BioPage) error {
	exists, err := s.bioTitleExists(ctx, page.UserID, page.Title, page.ID)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrBioTitleExists
	}

	if err := s.db.WithContext(ctx).Save(page).Error; err != nil {
		s.log.Error("failed to update bio page", zap.Int64("bio_id", page.ID), zap.Error(err))
		return fmt.Errorf("failed to update bio page: %w", err)
	}

	return nil
}

// DeleteBioPage removes a bio page together with its join entries.
func (s *PostgresStorage) DeleteBioPage(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bio_id = ?", id).Delete(&domain.BioLink{}).Error; err != nil {
			return fmt.Errorf("failed to delete bio links: %w", err)
		}

		result := tx.Delete(&domain.BioPage{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete bio page: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrBioNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrBioNotFound) {
			s.log.Error("failed to delete bio page", zap.Int64("bio_id", id), zap.Error(err))
		}
		return err
	}

	s.log.Info("deleted bio page", zap.Int64("bio_id", id))
	return nil
}

// AddBioLink attaches a link to a bio page. Ownership of both sides is
// verified by the caller.
func (s *PostgresStorage) AddBioLink(ctx context.Context, bioID, linkID int64) (*domain.BioLink, error) {
	bioLink := domain.BioLink{
		BioID:  bioID,
		LinkID: linkID,
	}

	if err := s.db.WithContext(ctx).Create(&bioLink).Error; err != nil {
		s.log.Error("failed to add bio link",
			zap.Int64("bio_id", bioID),
			zap.Int64("link_id", linkID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to add bio link: %w", err)
	}

	return &bioLink, nil
}

// RemoveBioLink detaches a link from a bio page.
func (s *PostgresStorage) RemoveBioLink(ctx context.Context, bioID, linkID int64) error {
	result := s.db.WithContext(ctx).
		Where("bio_id = ? AND link_id = ?", bioID, linkID).
		Delete(&domain.BioLink{})
	if result.Error != nil {
		s.log.Error("failed to remove bio link",
			zap.Int64("bio_id", bioID),
			zap.Int64("link_id", linkID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to remove bio link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBioLinkNotFound
	}

	return nil
}

// ListBioLinkCards returns the page's links in join creation order with the
// denormalized fields needed to render a card.
func (s *PostgresStorage) ListBioLinkCards(ctx context.Context, bioID int64) ([]*domain.BioLinkCard, error) {
	var cards []*domain.BioLinkCard

	err := s.db.WithContext(ctx).
		Table("bio_links").
		Select("bio_links.link_id, links.title, links.short_code, links.qr_code, links.profile_pic, bio_links.created_at").
		Joins("JOIN links ON links.id = bio_links.link_id").
		Where("bio_links.bio_id = ?", bioID).
		Order("bio_links.created_at ASC").
		Scan(&cards).Error
	if err != nil {
		s.log.Error("failed to list bio link cards", zap.Int64("bio_id", bioID), zap.Error(err))
		return nil, fmt.Errorf("failed to list bio link cards: %w", err)
	}

	return cards, nil
}

func (s *PostgresStorage) bioTitleExists(ctx context.Context, userID int64, title string, excludeID int64) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.BioPage{}).
		Where("user_id = ? AND title = ?", userID, title)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		s.log.Error("failed to check bio title existence", zap.Error(err))
		return false, fmt.Errorf("failed to check bio title: %w", err)
	}
	return count > 0, nil
}
