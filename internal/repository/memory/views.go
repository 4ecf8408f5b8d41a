package memory

import (
	"context"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/repository"
)

// The repository interfaces share method names with different signatures, so
// the per-collection views below adapt Store's uniquely named methods onto
// them. Store itself satisfies TicketRepository, SequenceRepository and
// TxManager directly.

type historyView struct{ s *Store }

// History returns the store as a TicketHistoryRepository.
func (s *Store) History() repository.TicketHistoryRepository { return historyView{s} }

func (v historyView) Create(ctx context.Context, entry *domain.TicketHistoryEntry) error {
	return v.s.CreateHistory(ctx, entry)
}

func (v historyView) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistoryEntry, error) {
	return v.s.ListHistoryByTicket(ctx, ticketID)
}

type noteView struct{ s *Store }

// Notes returns the store as a TicketNoteRepository.
func (s *Store) Notes() repository.TicketNoteRepository { return noteView{s} }

func (v noteView) Create(ctx context.Context, note *domain.TicketNote) error {
	return v.s.CreateNote(ctx, note)
}

func (v noteView) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketNote, error) {
	return v.s.ListNotesByTicket(ctx, ticketID)
}

type timeEntryView struct{ s *Store }

// TimeEntries returns the store as a TimeEntryRepository.
func (s *Store) TimeEntries() repository.TimeEntryRepository { return timeEntryView{s} }

func (v timeEntryView) Create(ctx context.Context, entry *domain.TimeEntry) error {
	return v.s.CreateTimeEntry(ctx, entry)
}

func (v timeEntryView) ListByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error) {
	return v.s.ListTimeEntriesByTicket(ctx, ticketID)
}

func (v timeEntryView) SumHoursByTicket(ctx context.Context, ticketID string) (float64, error) {
	return v.s.SumHoursByTicket(ctx, ticketID)
}

type attachmentView struct{ s *Store }

// Attachments returns the store as an AttachmentRepository.
func (s *Store) Attachments() repository.AttachmentRepository { return attachmentView{s} }

func (v attachmentView) Create(ctx context.Context, attachment *domain.AttachmentReference) error {
	return v.s.CreateAttachment(ctx, attachment)
}

func (v attachmentView) ListByTicket(ctx context.Context, ticketID string) ([]domain.AttachmentReference, error) {
	return v.s.ListAttachmentsByTicket(ctx, ticketID)
}

type locationView struct{ s *Store }

// Locations returns the store as a StorageLocationRepository.
func (s *Store) Locations() repository.StorageLocationRepository { return locationView{s} }

func (v locationView) Create(ctx context.Context, location *domain.StorageLocation) error {
	return v.s.CreateLocation(ctx, location)
}

func (v locationView) GetByID(ctx context.Context, organizationID, id string) (*domain.StorageLocation, error) {
	return v.s.GetLocationByID(ctx, organizationID, id)
}

func (v locationView) List(ctx context.Context, organizationID string) ([]domain.StorageLocation, error) {
	return v.s.ListLocations(ctx, organizationID)
}

func (v locationView) Occupy(ctx context.Context, id string) error {
	return v.s.Occupy(ctx, id)
}

func (v locationView) Release(ctx context.Context, id string) error {
	return v.s.Release(ctx, id)
}
