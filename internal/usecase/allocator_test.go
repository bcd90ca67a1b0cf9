package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"tourism-cert-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_FirstOfYearStartsAtOne(t *testing.T) {
	a := NewSequentialAllocator(newMemCounterRepo(), nopLogger{})

	id, err := a.Allocate(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "TOURISM-0001-2025", id)
}

func TestAllocate_SequentialCallsAreStrictlyIncreasing(t *testing.T) {
	a := NewSequentialAllocator(newMemCounterRepo(), nopLogger{})
	ctx := context.Background()

	prev := 0
	for i := 0; i < 20; i++ {
		id, err := a.Allocate(ctx, 2025)
		require.NoError(t, err)

		seq := numericSuffix(t, id)
		assert.Greater(t, seq, prev, "sequence must only go up")
		prev = seq
	}
}

func TestAllocate_YearsAreIndependent(t *testing.T) {
	a := NewSequentialAllocator(newMemCounterRepo(), nopLogger{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := a.Allocate(ctx, 2024)
		require.NoError(t, err)
	}

	id, err := a.Allocate(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "TOURISM-0001-2025", id, "a new year starts over at 1")
}

func TestAllocate_ConcurrentCallersGetDistinctIDs(t *testing.T) {
	const callers = 64

	a := NewSequentialAllocator(newMemCounterRepo(), nopLogger{})
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.Allocate(ctx, 2025)
			if err != nil {
				t.Error(err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, callers)
}

func TestAllocate_ConflictSurfacesAfterRetryBudget(t *testing.T) {
	repo := newMemCounterRepo()
	repo.failWith = entity.ErrAllocationConflict
	a := NewSequentialAllocator(repo, nopLogger{})

	_, err := a.Allocate(context.Background(), 2025)
	require.ErrorIs(t, err, entity.ErrAllocationConflict)
}

func numericSuffix(t *testing.T, id string) int {
	t.Helper()
	parts := strings.Split(id, "-")
	require.Len(t, parts, 3, "id %s must look like TOURISM-NNNN-YYYY", id)
	require.Equal(t, "TOURISM", parts[0])
	require.Len(t, parts[1], 4, "sequence is zero-padded to 4 digits")

	seq, err := strconv.Atoi(parts[1])
	require.NoError(t, err, fmt.Sprintf("sequence in %s is numeric", id))
	return seq
}
