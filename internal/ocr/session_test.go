package ocr

import (
	"context"
	"errors"
	"testing"
)

// fakeHandle records usage for session lifecycle tests.
type fakeHandle struct {
	language   string
	recognized int
	closed     bool
}

func (h *fakeHandle) Recognize(_ context.Context, _ string) (Result, error) {
	h.recognized++
	return Result{Text: "распознанный текст", Confidence: 91.5}, nil
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

// TestSessionLazyHandleCreation tests that one handle is created per
// language and reused across pages.
func TestSessionLazyHandleCreation(t *testing.T) {
	t.Parallel()

	created := make(map[string]*fakeHandle)
	factory := func(language string) (Handle, error) {
		h := &fakeHandle{language: language}
		created[language] = h
		return h, nil
	}

	s := NewSession(factory, nil)
	defer s.Close() //nolint:errcheck // Closed explicitly below

	ctx := context.Background()
	for range 3 {
		if _, err := s.Recognize(ctx, "rus", "page1.png"); err != nil {
			t.Fatalf("Recognize() error = %v", err)
		}
	}
	if _, err := s.Recognize(ctx, "ukr", "page2.png"); err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}

	if len(created) != 2 {
		t.Fatalf("created %d handles, expected 2", len(created))
	}
	if created["rus"].recognized != 3 {
		t.Errorf("rus handle recognized %d times, expected 3", created["rus"].recognized)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	for language, h := range created {
		if !h.closed {
			t.Errorf("handle for %q not closed", language)
		}
	}
}

// TestSessionClosed tests that a closed session rejects recognition
// and that double close is safe.
func TestSessionClosed(t *testing.T) {
	t.Parallel()

	s := NewSession(func(string) (Handle, error) { return &fakeHandle{}, nil }, nil)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	_, err := s.Recognize(context.Background(), "rus", "page.png")
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Recognize on closed session = %v, expected ErrSessionClosed", err)
	}
}

// TestSessionFactoryError tests that factory failures surface.
func TestSessionFactoryError(t *testing.T) {
	t.Parallel()

	factoryErr := errors.New("engine unavailable")
	s := NewSession(func(string) (Handle, error) { return nil, factoryErr }, nil)
	defer s.Close() //nolint:errcheck // Nothing to release

	_, err := s.Recognize(context.Background(), "rus", "page.png")
	if !errors.Is(err, factoryErr) {
		t.Errorf("Recognize() = %v, expected wrapped factory error", err)
	}
}

// TestSessionCancelledContext tests that cancellation surfaces before
// any engine call.
func TestSessionCancelledContext(t *testing.T) {
	t.Parallel()

	var factoryCalls int
	s := NewSession(func(string) (Handle, error) {
		factoryCalls++
		return &fakeHandle{}, nil
	}, nil)
	defer s.Close() //nolint:errcheck // Nothing created

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Recognize(ctx, "rus", "page.png")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Recognize() = %v, expected context.Canceled", err)
	}
	if factoryCalls != 0 {
		t.Errorf("factory called %d times after cancellation, expected 0", factoryCalls)
	}
}
