package service

import (
	"context"
	"testing"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReaper_SweepsExpiredLinks(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	expired := &domain.Link{UserID: 1, Title: "expired", OriginalURL: "https://example.com", ShortCode: "aaaaaa", ExpiresAt: &past}
	require.NoError(t, store.CreateLink(ctx, expired))
	require.NoError(t, store.RecordClick(ctx, &domain.Click{LinkID: expired.ID, Device: "mobile"}))

	permanent := &domain.Link{UserID: 1, Title: "permanent", OriginalURL: "https://example.com", ShortCode: "bbbbbb"}
	require.NoError(t, store.CreateLink(ctx, permanent))

	reaper := NewReaper(store, nil, time.Hour, zap.NewNop())

	// Run sweeps once immediately; cancel before the first tick
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		reaper.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		links, err := store.ListAllLinks(ctx)
		return err == nil && len(links) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	_, err := store.GetLinkByID(ctx, permanent.ID)
	assert.NoError(t, err)

	clicks, err := store.ListLinkClicks(ctx, expired.ID)
	require.NoError(t, err)
	assert.Empty(t, clicks)
}

func TestReaper_StopsOnCancel(t *testing.T) {
	reaper := NewReaper(memory.New(), nil, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after context cancellation")
	}
}

// kept for interface completeness checks in this package's tests
var _ repository.Storage = (*memory.MemStorage)(nil)
