package service

import (
	"context"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/cache"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"go.uber.org/zap"
)

// Reaper periodically deletes links whose expiry has passed, cascading to
// their click history and bio-page references, and drops any cached redirects
// for the reaped short codes. Reads already treat expired links as absent;
// the reaper reclaims the rows.
type Reaper struct {
	storage  repository.Storage
	cache    *cache.RedirectCache // nil when caching is disabled
	interval time.Duration
	log      *zap.Logger
}

func NewReaper(storage repository.Storage, redirectCache *cache.RedirectCache, interval time.Duration, log *zap.Logger) *Reaper {
	return &Reaper{
		storage:  storage,
		cache:    redirectCache,
		interval: interval,
		log:      log,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. It performs one
// sweep immediately on start.
func (r *Reaper) Run(ctx context.Context) {
	r.log.Info("expiry reaper started", zap.Duration("interval", r.interval))

	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-ctx.Done():
			r.log.Info("expiry reaper stopped")
			return
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	codes, err := r.storage.DeleteExpiredLinks(ctx, time.Now())
	if err != nil {
		r.log.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if len(codes) == 0 {
		return
	}

	if r.cache != nil {
		for _, code := range codes {
			if err := r.cache.Invalidate(ctx, code); err != nil {
				r.log.Warn("redirect cache invalidation failed", zap.String("code", code), zap.Error(err))
			}
		}
	}

	r.log.Info("expired links removed", zap.Int("count", len(codes)))
}
