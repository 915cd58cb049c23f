package auth

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// HashPool bounds the number of concurrent hash computations so a burst of
// logins cannot pin every CPU. Callers that give up waiting get ctx.Err().
type HashPool struct {
	hasher Hasher
	sem    *semaphore.Weighted
}

// NewHashPool wraps hasher. workers <= 0 means runtime.NumCPU().
func NewHashPool(hasher Hasher, workers int) *HashPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &HashPool{hasher: hasher, sem: semaphore.NewWeighted(int64(workers))}
}

func (p *HashPool) Hash(ctx context.Context, password []byte) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for hash worker: %w", err)
	}
	defer p.sem.Release(1)

	return p.hasher.Hash(password)
}

func (p *HashPool) Verify(ctx context.Context, password []byte, hash string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("waiting for hash worker: %w", err)
	}
	defer p.sem.Release(1)

	return p.hasher.Verify(password, hash)
}
