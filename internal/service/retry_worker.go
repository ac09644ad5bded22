package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"invoicedesk/internal/port"
)

// retryActor is recorded in the review history for automatic retries.
const retryActor = "retry-worker"

// RetryConfig holds settings for the extraction retry worker.
type RetryConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	Concurrency  int
	Timeout      time.Duration
}

// RetryWorker re-runs extraction for documents that failed on a provider
// rate limit once their Retry-After has elapsed.
type RetryWorker struct {
	repo    port.ReviewDocumentRepository
	service ReviewService
	cfg     RetryConfig
	now     func() time.Time

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
	wg       sync.WaitGroup
}

// NewRetryWorker creates a new RetryWorker.
func NewRetryWorker(repo port.ReviewDocumentRepository, svc ReviewService, cfg RetryConfig) *RetryWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &RetryWorker{
		repo:     repo,
		service:  svc,
		cfg:      cfg,
		now:      time.Now,
		inFlight: make(map[uuid.UUID]struct{}),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight retries have finished.
func (w *RetryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("retryWorker: started (poll=%s, concurrency=%d, maxAttempts=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			log.Printf("retryWorker: shutting down, waiting for in-flight retries...")
			w.wg.Wait()
			log.Printf("retryWorker: shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

// poll dispatches every due document that is not already being retried.
func (w *RetryWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	docs, err := w.repo.ListRetryable(ctx, w.now().UTC(), w.cfg.MaxAttempts, available)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("retryWorker: ListRetryable error: %v", err)
		}
		return
	}

	for i := range docs {
		id := docs[i].ID
		attempt := docs[i].Attempts + 1
		if !w.claim(id) {
			continue
		}

		sem <- struct{}{}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }()
			defer w.release(id)

			// In-flight retries finish even while the poll context shuts down.
			retryCtx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
			defer cancel()

			log.Printf("retryWorker: re-extracting document %s (attempt %d)", id, attempt)
			doc, err := w.service.Reextract(retryCtx, id, retryActor)
			if err != nil {
				log.Printf("retryWorker: document %s: %v", id, err)
				return
			}
			log.Printf("retryWorker: document %s now %s", id, doc.Status)
		}()
	}
}

func (w *RetryWorker) claim(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[id]; busy {
		return false
	}
	w.inFlight[id] = struct{}{}
	return true
}

func (w *RetryWorker) release(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inFlight, id)
	w.mu.Unlock()
}

// Wait blocks until dispatched retries have finished.
func (w *RetryWorker) Wait() {
	w.wg.Wait()
}
