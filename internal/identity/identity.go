// Package identity produces human-readable ticket numbers and the barcode
// payloads derived from them.
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// BarcodePrefix marks a scannable payload as a ticket barcode.
const BarcodePrefix = "TICKET:"

// Sequencer hands out the next sequence value for an organization/year scope.
// Implementations must serialize concurrent calls for the same scope.
type Sequencer interface {
	NextSequence(ctx context.Context, organizationID string, year int) (int, error)
}

// Allocator assigns ticket numbers of the form T{year}-{seq:04d}, unique and
// strictly increasing within an organization and calendar year.
type Allocator struct {
	sequences Sequencer
	now       func() time.Time
}

// NewAllocator constructs an allocator backed by the given sequencer.
func NewAllocator(sequences Sequencer) *Allocator {
	return &Allocator{sequences: sequences, now: time.Now}
}

// Allocate returns the next ticket number and its barcode payload.
func (a *Allocator) Allocate(ctx context.Context, organizationID string) (string, string, error) {
	year := a.now().Year()
	seq, err := a.sequences.NextSequence(ctx, organizationID, year)
	if err != nil {
		return "", "", fmt.Errorf("allocate ticket number: %w", err)
	}
	number := FormatNumber(year, seq)
	return number, DeriveBarcode(number), nil
}

// FormatNumber renders a ticket number for the given year and sequence value.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("T%d-%04d", year, seq)
}

// DeriveBarcode is the pure mapping from ticket number to barcode payload.
func DeriveBarcode(ticketNumber string) string {
	return BarcodePrefix + ticketNumber
}

// ParseBarcode inverts DeriveBarcode. It returns the embedded ticket number
// and whether the payload was a ticket barcode at all.
func ParseBarcode(barcodeData string) (string, bool) {
	if !strings.HasPrefix(barcodeData, BarcodePrefix) {
		return "", false
	}
	number := strings.TrimPrefix(barcodeData, BarcodePrefix)
	if number == "" {
		return "", false
	}
	return number, true
}
