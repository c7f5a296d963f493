package analytics

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/geo"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository"
	"github.com/Nguyen-Chi-Tam/trim-url/pkg/useragent"
	"go.uber.org/zap"
)

// ClickData carries the raw request attributes of one redirect. Enrichment
// (device class, browser, OS, geolocation) happens in the workers, off the
// redirect path.
type ClickData struct {
	LinkID     int64
	IPAddress  *string
	UserAgent  *string
	Referer    *string
	OccurredAt time.Time
}

// ProcessorConfig holds configuration for the analytics processor
type ProcessorConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	RetryAttempts   int           // Number of retry attempts for failed jobs
	RetryDelay      time.Duration // Base delay between retries
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Processor handles asynchronous click recording with reliability guarantees.
// A failed or dropped click never affects the redirect that produced it.
type Processor struct {
	config   ProcessorConfig
	storage  repository.Storage
	geo      *geo.Resolver
	log      *zap.Logger
	jobQueue chan *ClickData
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
}

// NewProcessor creates a new analytics processor
func NewProcessor(storage repository.Storage, resolver *geo.Resolver, log *zap.Logger, config ProcessorConfig) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		storage:  storage,
		geo:      resolver,
		log:      log,
		jobQueue: make(chan *ClickData, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing click data
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("processor already started")
	}

	p.log.Info("starting analytics processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
		zap.Int("retry_attempts", p.config.RetryAttempts),
	)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop gracefully shuts down the processor
func (p *Processor) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	p.log.Info("stopping analytics processor")

	p.cancel()
	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("analytics processor stopped gracefully")
	case <-time.After(p.config.ShutdownTimeout):
		p.log.Warn("analytics processor shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}

	p.started = false
	return nil
}

// SubmitClick submits a click for asynchronous processing. It never blocks:
// when the queue is full the click is dropped and an error returned, which
// callers on the redirect path are expected to log and ignore.
func (p *Processor) SubmitClick(clickData *ClickData) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	select {
	case p.jobQueue <- clickData:
		p.log.Debug("click data submitted for processing", zap.Int64("link_id", clickData.LinkID))
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("processor is shutting down")
	default:
		p.log.Error("analytics queue is full, dropping click data",
			zap.Int64("link_id", clickData.LinkID),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		return fmt.Errorf("analytics queue is full")
	}
}

// worker processes click data with retry logic
func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Info("analytics worker started")

	for {
		select {
		case clickData := <-p.jobQueue:
			if clickData == nil {
				log.Info("analytics worker stopped")
				return
			}

			p.processClickWithRetry(log, clickData)

		case <-p.ctx.Done():
			log.Info("analytics worker received shutdown signal")
			return
		}
	}
}

// processClickWithRetry processes a single click with retry logic
func (p *Processor) processClickWithRetry(log *zap.Logger, clickData *ClickData) {
	var lastErr error

	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(p.ctx, 30*time.Second)

		err := p.processClick(ctx, log, clickData)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info("click processing succeeded after retry",
					zap.Int64("link_id", clickData.LinkID),
					zap.Int("attempt", attempt),
				)
			}
			return
		}

		lastErr = err
		log.Warn("click processing failed",
			zap.Int64("link_id", clickData.LinkID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.config.RetryAttempts),
			zap.Error(err),
		)

		if attempt == p.config.RetryAttempts {
			break
		}

		// Exponential backoff delay
		delay := p.config.RetryDelay * time.Duration(1<<(attempt-1))

		select {
		case <-time.After(delay):
		case <-p.ctx.Done():
			log.Info("worker shutdown during retry delay")
			return
		}
	}

	log.Error("click processing failed after all retries",
		zap.Int64("link_id", clickData.LinkID),
		zap.Int("attempts", p.config.RetryAttempts),
		zap.Error(lastErr),
	)
}

// processClick enriches and persists a single click event
func (p *Processor) processClick(ctx context.Context, log *zap.Logger, clickData *ClickData) error {
	click := &domain.Click{
		LinkID:    clickData.LinkID,
		Device:    useragent.DeviceUnknown,
		UserAgent: clickData.UserAgent,
		Referer:   clickData.Referer,
		CreatedAt: clickData.OccurredAt,
	}

	if clickData.UserAgent != nil {
		click.Device = useragent.ClassifyDevice(*clickData.UserAgent)

		if parser := useragent.GetGlobalParser(); parser != nil {
			info := parser.Parse(*clickData.UserAgent)
			if info.Browser != "" {
				click.Browser = &info.Browser
			}
			if info.OS != "" {
				click.OS = &info.OS
			}
		}
	}

	if clickData.IPAddress != nil {
		if ip := net.ParseIP(*clickData.IPAddress); ip != nil {
			click.IPAddress = &ip
		}
		if p.geo != nil {
			click.Country, click.City = p.geo.Resolve(*clickData.IPAddress)
		}
	}

	if err := p.storage.RecordClick(ctx, click); err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	log.Debug("click recorded",
		zap.Int64("link_id", clickData.LinkID),
		zap.String("device", click.Device),
	)

	return nil
}

// GetStats returns processor statistics
func (p *Processor) GetStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
		"retry_attempts": p.config.RetryAttempts,
	}
}
