package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
)

// RecordClick appends an access event for a link.
func (s *PostgresStorage) RecordClick(ctx context.Context, click *domain.Click) error {
	if err := s.db.WithContext(ctx).Create(click).Error; err != nil {
		s.log.Error("failed to record click", zap.Int64("link_id", click.LinkID), zap.Error(err))
		return fmt.Errorf("failed to record click: %w", err)
	}

	s.log.Debug("recorded click",
		zap.Int64("link_id", click.LinkID),
		zap.String("device", click.Device))
	return nil
}

// ListLinkClicks returns all click events for a link, newest first.
func (s *PostgresStorage) ListLinkClicks(ctx context.Context, linkID int64) ([]*domain.Click, error) {
	var clicks []*domain.Click

	err := s.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("created_at DESC").
		Find(&clicks).Error
	if err != nil {
		s.log.Error("failed to list clicks", zap.Int64("link_id", linkID), zap.Error(err))
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}

	return clicks, nil
}

// GetClicksByDevice returns click counts grouped by device class for a link.
func (s *PostgresStorage) GetClicksByDevice(ctx context.Context, linkID int64) (map[string]int64, error) {
	var results []struct {
		Device string `gorm:"column:device"`
		Count  int64  `gorm:"column:count"`
	}

	err := s.db.WithContext(ctx).
		Model(&domain.Click{}).
		Select("device, count(*) as count").
		Where("link_id = ?", linkID).
		Group("device").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to get clicks by device", zap.Int64("link_id", linkID), zap.Error(err))
		return nil, fmt.Errorf("failed to get clicks by device: %w", err)
	}

	clicksByDevice := make(map[string]int64, len(results))
	for _, r := range results {
		clicksByDevice[r.Device] = r.Count
	}

	return clicksByDevice, nil
}

// GetClicksByCountry returns click counts grouped by country for a link.
// Events with no geolocation fall into the "unknown" bucket.
func (s *PostgresStorage) GetClicksByCountry(ctx context.Context, linkID int64) (map[string]int64, error) {
	var results []struct {
		Country string `gorm:"column:country"`
		Count   int64  `gorm:"column:count"`
	}

	err := s.db.WithContext(ctx).
		Model(&domain.Click{}).
		Select("COALESCE(country, 'unknown') as country, count(*) as count").
		Where("link_id = ?", linkID).
		Group("COALESCE(country, 'unknown')").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to get clicks by country", zap.Int64("link_id", linkID), zap.Error(err))
		return nil, fmt.Errorf("failed to get clicks by country: %w", err)
	}

	clicksByCountry := make(map[string]int64, len(results))
	for _, r := range results {
		clicksByCountry[r.Country] = r.Count
	}

	return clicksByCountry, nil
}

// GetClickCounts returns total click counts keyed by link id across all
// links.
func (s *PostgresStorage) GetClickCounts(ctx context.Context) (map[int64]int64, error) {
	var results []struct {
		LinkID int64 `gorm:"column:link_id"`
		Count  int64 `gorm:"column:count"`
	}

	err := s.db.WithContext(ctx).
		Model(&domain.Click{}).
		Select("link_id, count(*) as count").
		Group("link_id").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to get click counts", zap.Error(err))
		return nil, fmt.Errorf("failed to get click counts: %w", err)
	}

	counts := make(map[int64]int64, len(results))
	for _, r := range results {
		counts[r.LinkID] = r.Count
	}

	return counts, nil
}
