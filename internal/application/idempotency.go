package application

import "context"

// RunLock keeps two runs from writing the same export at the same time.
type RunLock interface {
	// TryAcquire returns true if key was free and is now held.
	// Returns false if another run holds it.
	TryAcquire(ctx context.Context, key string) (bool, error)
}

// NoopLock always succeeds; used when no lock backend is configured.
type NoopLock struct{}

func (NoopLock) TryAcquire(context.Context, string) (bool, error) { return true, nil }
