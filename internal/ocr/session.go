package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Session owns the OCR engine handles for one ingestion run.
//
// Design decision: the handle lives in an explicit session object
// rather than on the ingestor, so that ownership and release are
// visible in the code: whoever opens the session defers Close, and
// cancellation paths cannot leak a handle. The session serializes all
// recognition calls because a single engine handle must not be invoked
// concurrently; callers that want parallel OCR open one session per
// worker.
type Session struct {
	// factory creates handles on first use per language.
	factory Factory

	// logger for handle lifecycle events.
	logger *slog.Logger

	// mu serializes recognition and guards the fields below.
	mu      sync.Mutex
	handles map[string]Handle
	closed  bool
}

// NewSession creates a Session that obtains engine handles from the
// given factory.
func NewSession(factory Factory, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		factory: factory,
		logger:  logger,
		handles: make(map[string]Handle),
	}
}

// Recognize runs OCR over the image using the handle for language,
// creating the handle on first use. Calls are serialized: the session
// owns its handles exclusively.
func (s *Session) Recognize(ctx context.Context, language, imagePath string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Result{}, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	handle, ok := s.handles[language]
	if !ok {
		var err error
		handle, err = s.factory(language)
		if err != nil {
			return Result{}, fmt.Errorf("failed to create ocr handle for language %q: %w", language, err)
		}
		s.handles[language] = handle
		s.logger.Debug("ocr handle created", "language", language)
	}

	return handle.Recognize(ctx, imagePath)
}

// Close releases all engine handles. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for language, handle := range s.handles {
		if err := handle.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close ocr handle for language %q: %w", language, err))
		}
	}
	s.handles = nil

	return errors.Join(errs...)
}
