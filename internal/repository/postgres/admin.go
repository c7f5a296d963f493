package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
)

// ListAllUsers returns every account, newest first.
func (s *PostgresStorage) ListAllUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User

	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		s.log.Error("failed to list all users", zap.Error(err))
		return nil, fmt.Errorf("failed to list all users: %w", err)
	}

	return users, nil
}

// ListAllLinks returns every link, newest first, expired ones included so
// administrators can see unreaped rows.
func (s *PostgresStorage) ListAllLinks(ctx context.Context) ([]*domain.Link, error) {
	var links []*domain.Link

	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list all links", zap.Error(err))
		return nil, fmt.Errorf("failed to list all links: %w", err)
	}

	return links, nil
}

// ListAllBioPages returns every bio page, newest first.
func (s *PostgresStorage) ListAllBioPages(ctx context.Context) ([]*domain.BioPage, error) {
	var pages []*domain.BioPage

	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&pages).Error
	if err != nil {
		s.log.Error("failed to list all bio pages", zap.Error(err))
		return nil, fmt.Errorf("failed to list all bio pages: %w", err)
	}

	return pages, nil
}

// ListAllBioLinks returns every join entry with its link preloaded.
func (s *PostgresStorage) ListAllBioLinks(ctx context.Context) ([]*domain.BioLink, error) {
	var bioLinks []*domain.BioLink

	err := s.db.WithContext(ctx).Preload("Link").Order("created_at ASC").Find(&bioLinks).Error
	if err != nil {
		s.log.Error("failed to list all bio links", zap.Error(err))
		return nil, fmt.Errorf("failed to list all bio links: %w", err)
	}

	return bioLinks, nil
}
