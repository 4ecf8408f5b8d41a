// Package memory provides an in-memory implementation of the repository
// interfaces. It backs tests and DSN-less development runs; transactions are
// emulated by snapshotting state under the store mutex and restoring it when
// the wrapped function fails.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/repository"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// Store satisfies every repository interface plus repository.TxManager.
type Store struct {
	mu    sync.Mutex
	state state
}

type state struct {
	tickets     map[string]domain.Ticket
	history     map[string][]domain.TicketHistoryEntry
	notes       map[string][]domain.TicketNote
	timeEntries map[string][]domain.TimeEntry
	attachments map[string][]domain.AttachmentReference
	locations   map[string]domain.StorageLocation
	sequences   map[string]int
}

// NewStore initializes an empty store.
func NewStore() *Store {
	return &Store{state: state{
		tickets:     map[string]domain.Ticket{},
		history:     map[string][]domain.TicketHistoryEntry{},
		notes:       map[string][]domain.TicketNote{},
		timeEntries: map[string][]domain.TimeEntry{},
		attachments: map[string][]domain.AttachmentReference{},
		locations:   map[string]domain.StorageLocation{},
		sequences:   map[string]int{},
	}}
}

var (
	_ repository.TicketRepository   = (*Store)(nil)
	_ repository.SequenceRepository = (*Store)(nil)
	_ repository.TxManager          = (*Store)(nil)
)

type txKey struct{}

// WithinTx serializes the wrapped function under the store mutex and rolls the
// whole state back when it returns an error.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// lock acquires the store mutex unless the context already runs inside
// WithinTx, which holds it for the duration of the transaction.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (st state) clone() state {
	out := state{
		tickets:     make(map[string]domain.Ticket, len(st.tickets)),
		history:     make(map[string][]domain.TicketHistoryEntry, len(st.history)),
		notes:       make(map[string][]domain.TicketNote, len(st.notes)),
		timeEntries: make(map[string][]domain.TimeEntry, len(st.timeEntries)),
		attachments: make(map[string][]domain.AttachmentReference, len(st.attachments)),
		locations:   make(map[string]domain.StorageLocation, len(st.locations)),
		sequences:   make(map[string]int, len(st.sequences)),
	}
	for k, v := range st.tickets {
		out.tickets[k] = v
	}
	for k, v := range st.history {
		out.history[k] = append([]domain.TicketHistoryEntry(nil), v...)
	}
	for k, v := range st.notes {
		out.notes[k] = append([]domain.TicketNote(nil), v...)
	}
	for k, v := range st.timeEntries {
		out.timeEntries[k] = append([]domain.TimeEntry(nil), v...)
	}
	for k, v := range st.attachments {
		out.attachments[k] = append([]domain.AttachmentReference(nil), v...)
	}
	for k, v := range st.locations {
		out.locations[k] = v
	}
	for k, v := range st.sequences {
		out.sequences[k] = v
	}
	return out
}

func copyTicket(t domain.Ticket) domain.Ticket {
	t.Tags = append([]string(nil), t.Tags...)
	return t
}

// --- TicketRepository ---

func (s *Store) Create(ctx context.Context, ticket *domain.Ticket) error {
	defer s.lock(ctx)()
	now := time.Now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	s.state.tickets[ticket.ID] = copyTicket(*ticket)
	return nil
}

func (s *Store) Update(ctx context.Context, ticket *domain.Ticket) error {
	defer s.lock(ctx)()
	existing, ok := s.state.tickets[ticket.ID]
	if !ok || existing.OrganizationID != ticket.OrganizationID {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	s.state.tickets[ticket.ID] = copyTicket(*ticket)
	return nil
}

func (s *Store) Delete(ctx context.Context, organizationID, id string) error {
	defer s.lock(ctx)()
	existing, ok := s.state.tickets[id]
	if !ok || existing.OrganizationID != organizationID {
		return pgx.ErrNoRows
	}
	delete(s.state.tickets, id)
	delete(s.state.history, id)
	delete(s.state.notes, id)
	delete(s.state.timeEntries, id)
	delete(s.state.attachments, id)
	return nil
}

func (s *Store) GetByID(ctx context.Context, organizationID, id string) (*domain.Ticket, error) {
	defer s.lock(ctx)()
	ticket, ok := s.state.tickets[id]
	if !ok || ticket.OrganizationID != organizationID {
		return nil, pgx.ErrNoRows
	}
	out := copyTicket(ticket)
	return &out, nil
}

// GetByIDForUpdate matches GetByID; the store mutex already serializes
// transactional access.
func (s *Store) GetByIDForUpdate(ctx context.Context, organizationID, id string) (*domain.Ticket, error) {
	return s.GetByID(ctx, organizationID, id)
}

func (s *Store) GetByNumber(ctx context.Context, organizationID, ticketNumber string) (*domain.Ticket, error) {
	defer s.lock(ctx)()
	for _, ticket := range s.state.tickets {
		if ticket.OrganizationID == organizationID && ticket.TicketNumber == ticketNumber {
			out := copyTicket(ticket)
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *Store) GetByBarcode(ctx context.Context, organizationID, barcodeData string) (*domain.Ticket, error) {
	defer s.lock(ctx)()
	for _, ticket := range s.state.tickets {
		if ticket.OrganizationID == organizationID && ticket.BarcodeData == barcodeData {
			out := copyTicket(ticket)
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *Store) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	defer s.lock(ctx)()
	var result []domain.Ticket
	for _, ticket := range s.state.tickets {
		if matchesFilter(ticket, filter) {
			result = append(result, copyTicket(ticket))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func matchesFilter(ticket domain.Ticket, filter repository.TicketFilter) bool {
	if ticket.OrganizationID != filter.OrganizationID {
		return false
	}
	if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
		return false
	}
	if filter.AssignedTechID != nil {
		if ticket.AssignedTechnicianID == nil || *ticket.AssignedTechnicianID != *filter.AssignedTechID {
			return false
		}
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
		return false
	}
	for _, tag := range filter.Tags {
		if !containsString(ticket.Tags, tag) {
			return false
		}
	}
	if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		haystack := strings.ToLower(strings.Join([]string{
			ticket.Title, ticket.Description, ticket.ProblemDescription, ticket.TicketNumber,
		}, "\n"))
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func containsStatus(haystack []domain.TicketStatus, needle domain.TicketStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsPriority(haystack []domain.TicketPriority, needle domain.TicketPriority) bool {
	for _, p := range haystack {
		if p == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// --- TicketHistoryRepository ---

func (s *Store) CreateHistory(ctx context.Context, entry *domain.TicketHistoryEntry) error {
	defer s.lock(ctx)()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	s.state.history[entry.TicketID] = append(s.state.history[entry.TicketID], *entry)
	return nil
}

func (s *Store) ListHistoryByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistoryEntry, error) {
	defer s.lock(ctx)()
	return append([]domain.TicketHistoryEntry(nil), s.state.history[ticketID]...), nil
}

// --- TicketNoteRepository ---

func (s *Store) CreateNote(ctx context.Context, note *domain.TicketNote) error {
	defer s.lock(ctx)()
	note.ID = uuid.NewString()
	note.CreatedAt = time.Now()
	s.state.notes[note.TicketID] = append(s.state.notes[note.TicketID], *note)
	return nil
}

func (s *Store) ListNotesByTicket(ctx context.Context, ticketID string) ([]domain.TicketNote, error) {
	defer s.lock(ctx)()
	return append([]domain.TicketNote(nil), s.state.notes[ticketID]...), nil
}

// --- TimeEntryRepository ---

func (s *Store) CreateTimeEntry(ctx context.Context, entry *domain.TimeEntry) error {
	defer s.lock(ctx)()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	s.state.timeEntries[entry.TicketID] = append(s.state.timeEntries[entry.TicketID], *entry)
	return nil
}

func (s *Store) ListTimeEntriesByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error) {
	defer s.lock(ctx)()
	return append([]domain.TimeEntry(nil), s.state.timeEntries[ticketID]...), nil
}

func (s *Store) SumHoursByTicket(ctx context.Context, ticketID string) (float64, error) {
	defer s.lock(ctx)()
	var total float64
	for _, entry := range s.state.timeEntries[ticketID] {
		total += entry.Hours
	}
	return total, nil
}

// --- AttachmentRepository ---

func (s *Store) CreateAttachment(ctx context.Context, attachment *domain.AttachmentReference) error {
	defer s.lock(ctx)()
	attachment.ID = uuid.NewString()
	attachment.CreatedAt = time.Now()
	s.state.attachments[attachment.TicketID] = append(s.state.attachments[attachment.TicketID], *attachment)
	return nil
}

func (s *Store) ListAttachmentsByTicket(ctx context.Context, ticketID string) ([]domain.AttachmentReference, error) {
	defer s.lock(ctx)()
	return append([]domain.AttachmentReference(nil), s.state.attachments[ticketID]...), nil
}

// --- StorageLocationRepository ---

func (s *Store) CreateLocation(ctx context.Context, location *domain.StorageLocation) error {
	defer s.lock(ctx)()
	now := time.Now()
	location.ID = uuid.NewString()
	location.CreatedAt = now
	location.UpdatedAt = now
	s.state.locations[location.ID] = *location
	return nil
}

func (s *Store) GetLocationByID(ctx context.Context, organizationID, id string) (*domain.StorageLocation, error) {
	defer s.lock(ctx)()
	location, ok := s.state.locations[id]
	if !ok || location.OrganizationID != organizationID {
		return nil, pgx.ErrNoRows
	}
	out := location
	return &out, nil
}

func (s *Store) ListLocations(ctx context.Context, organizationID string) ([]domain.StorageLocation, error) {
	defer s.lock(ctx)()
	var result []domain.StorageLocation
	for _, location := range s.state.locations {
		if location.OrganizationID == organizationID {
			result = append(result, location)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		if a.Shelf != b.Shelf {
			return a.Shelf < b.Shelf
		}
		return a.Bin < b.Bin
	})
	return result, nil
}

func (s *Store) Occupy(ctx context.Context, id string) error {
	defer s.lock(ctx)()
	location, ok := s.state.locations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if location.IsOccupied {
		return apperrors.NewConflict("storage location already occupied", map[string]any{"location_id": id})
	}
	location.IsOccupied = true
	location.UpdatedAt = time.Now()
	s.state.locations[id] = location
	return nil
}

func (s *Store) Release(ctx context.Context, id string) error {
	defer s.lock(ctx)()
	location, ok := s.state.locations[id]
	if !ok {
		return nil
	}
	location.IsOccupied = false
	location.UpdatedAt = time.Now()
	s.state.locations[id] = location
	return nil
}

// --- SequenceRepository ---

func (s *Store) NextSequence(ctx context.Context, organizationID string, year int) (int, error) {
	defer s.lock(ctx)()
	key := fmt.Sprintf("%s:%d", organizationID, year)
	s.state.sequences[key]++
	return s.state.sequences[key], nil
}
