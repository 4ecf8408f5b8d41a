package identity

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSequencer struct {
	mu   sync.Mutex
	next map[string]int
}

func (c *countingSequencer) NextSequence(_ context.Context, organizationID string, year int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next == nil {
		c.next = map[string]int{}
	}
	key := fmt.Sprintf("%s:%d", organizationID, year)
	c.next[key]++
	return c.next[key], nil
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "T2026-0001", FormatNumber(2026, 1))
	assert.Equal(t, "T2026-0042", FormatNumber(2026, 42))
	// The pad widens, it never truncates.
	assert.Equal(t, "T2026-12345", FormatNumber(2026, 12345))
}

func TestBarcodeRoundTrip(t *testing.T) {
	number := FormatNumber(2026, 7)
	barcode := DeriveBarcode(number)
	assert.Equal(t, "TICKET:T2026-0007", barcode)

	parsed, ok := ParseBarcode(barcode)
	require.True(t, ok)
	assert.Equal(t, number, parsed)
}

func TestParseBarcodeRejectsForeignPayloads(t *testing.T) {
	for _, payload := range []string{"", "T2026-0007", "SKU:12345", "ticket:T2026-0007", "TICKET:"} {
		_, ok := ParseBarcode(payload)
		assert.False(t, ok, payload)
	}
}

func TestAllocateSequencesPerOrganization(t *testing.T) {
	allocator := NewAllocator(&countingSequencer{})
	allocator.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	number, barcode, err := allocator.Allocate(ctx, "org-a")
	require.NoError(t, err)
	assert.Equal(t, "T2026-0001", number)
	assert.Equal(t, "TICKET:T2026-0001", barcode)

	number, _, err = allocator.Allocate(ctx, "org-a")
	require.NoError(t, err)
	assert.Equal(t, "T2026-0002", number)

	// A different organization starts its own sequence.
	number, _, err = allocator.Allocate(ctx, "org-b")
	require.NoError(t, err)
	assert.Equal(t, "T2026-0001", number)
}

func TestAllocateResetsPerYear(t *testing.T) {
	sequencer := &countingSequencer{}
	allocator := NewAllocator(sequencer)

	allocator.now = func() time.Time { return time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC) }
	number, _, err := allocator.Allocate(context.Background(), "org-a")
	require.NoError(t, err)
	assert.Equal(t, "T2025-0001", number)

	allocator.now = func() time.Time { return time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC) }
	number, _, err = allocator.Allocate(context.Background(), "org-a")
	require.NoError(t, err)
	assert.Equal(t, "T2026-0001", number)
}

func TestAllocateConcurrentNumbersAreDistinct(t *testing.T) {
	allocator := NewAllocator(&countingSequencer{})
	const workers = 32

	var wg sync.WaitGroup
	results := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, _, err := allocator.Allocate(context.Background(), "org-a")
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]struct{}{}
	for number := range results {
		_, dup := seen[number]
		assert.False(t, dup, number)
		seen[number] = struct{}{}
	}
	assert.Len(t, seen, workers)
}
