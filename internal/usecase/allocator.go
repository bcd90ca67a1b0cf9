package usecase

import (
	"context"
	"fmt"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"
	"tourism-cert-service/pkg/logger"
)

// SequentialAllocator mints year-scoped certificate ids. The heavy lifting,
// the linearizable read-modify-write, lives in the counter repository; this
// layer owns the id format and the per-year contract: every successful call
// returns a distinct id and sequence numbers only go up. Gaps from aborted
// allocations are fine, the numbers are not required to be contiguous.
type SequentialAllocator struct {
	counterRepo repository.CounterRepository
	logger      logger.Logger
}

// NewSequentialAllocator creates a new sequential id allocator
func NewSequentialAllocator(counterRepo repository.CounterRepository, logger logger.Logger) *SequentialAllocator {
	return &SequentialAllocator{
		counterRepo: counterRepo,
		logger:      logger,
	}
}

// Allocate returns the next certificate id for the given year. The first
// allocation of a new year starts at 1; years never share sequences.
func (a *SequentialAllocator) Allocate(ctx context.Context, year int) (string, error) {
	seq, err := a.counterRepo.Next(ctx, year)
	if err != nil {
		return "", fmt.Errorf("allocate certificate number for %d: %w", year, err)
	}

	id := entity.FormatCertificateID(seq, year)
	a.logger.Debug("Allocated certificate number", "id", id, "year", year)
	return id, nil
}
