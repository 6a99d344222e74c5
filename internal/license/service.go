// Package license keeps the stack license current for the lifetime of one
// mounted console. A Service is an explicit handle: whoever starts it owns
// it and must Stop it on teardown.
package license

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff"

	"fleetgate/internal/api"
	"fleetgate/pkg/logging"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 30 * time.Second

const (
	defaultRetryInitial = 500 * time.Millisecond
	maxRetries          = 3
)

// Service polls the licensing endpoint in the background.
type Service struct {
	reader       api.LicenseReader
	interval     time.Duration
	retryInitial time.Duration

	mu      sync.RWMutex
	current *api.LicenseInfo
	lastErr error
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewService creates a stopped service.
func NewService(reader api.LicenseReader, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Service{reader: reader, interval: interval, retryInitial: defaultRetryInitial}
}

// Start fetches the license once and keeps polling until Stop or until ctx
// ends. Calling Start on a running service is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.poll(ctx, done)
	logging.Debug("License", "License watcher started (interval %s)", s.interval)
}

// Stop ends polling and waits for the poller to exit. It is idempotent.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	logging.Debug("License", "License watcher stopped")
}

// IsRunning reports whether the poller is active.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Current returns the last fetched license, or nil before the first success.
func (s *Service) Current() *api.LicenseInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// LastError returns the error of the most recent fetch, if it failed.
func (s *Service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Service) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Service) refresh(ctx context.Context) {
	if s.reader == nil {
		return
	}
	info, err := s.fetch(ctx)
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		logging.Warn("License", "Failed to refresh license: %v", err)
		return
	}
	if s.current == nil || s.current.Type != info.Type || s.current.Status != info.Status {
		logging.Info("License", "License is %s (%s)", info.Type, info.Status)
	}
	s.current = info
}

// fetch retries transient failures with exponential backoff, bounded to half
// the poll interval. Client errors (4xx) are not retried.
func (s *Service) fetch(ctx context.Context) (*api.LicenseInfo, error) {
	var info *api.LicenseInfo
	operation := func() error {
		var err error
		info, err = s.reader.GetLicense(ctx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = s.retryInitial
	expBackoff.MaxElapsedTime = s.interval / 2

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expBackoff, maxRetries), ctx))
	return info, err
}

func retryable(err error) bool {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode >= 500
	}
	return true
}
