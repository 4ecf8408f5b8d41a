package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/events"
	"github.com/spec-kit/repairdesk-service/internal/identity"
	"github.com/spec-kit/repairdesk-service/internal/persistence"
	"github.com/spec-kit/repairdesk-service/internal/repository"
	"github.com/spec-kit/repairdesk-service/internal/workflow"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: identity allocation, guarded
// transitions, the audit trail, ledgers and storage occupancy. A status write,
// its history entry and any occupancy change commit as one transaction.
type TicketService struct {
	tickets     repository.TicketRepository
	history     repository.TicketHistoryRepository
	notes       repository.TicketNoteRepository
	timeEntries repository.TimeEntryRepository
	attachments repository.AttachmentRepository
	storage     *StorageAllocator
	allocator   *identity.Allocator
	tx          repository.TxManager
	cache       *persistence.Redis
	cacheTTL    time.Duration
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	HistoryRepo    repository.TicketHistoryRepository
	NoteRepo       repository.TicketNoteRepository
	TimeEntryRepo  repository.TimeEntryRepository
	AttachmentRepo repository.AttachmentRepository
	SequenceRepo   repository.SequenceRepository
	Storage        *StorageAllocator
	TxManager      repository.TxManager
	Cache          *persistence.Redis
	CacheTTL       time.Duration
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		history:     deps.HistoryRepo,
		notes:       deps.NoteRepo,
		timeEntries: deps.TimeEntryRepo,
		attachments: deps.AttachmentRepo,
		storage:     deps.Storage,
		allocator:   identity.NewAllocator(deps.SequenceRepo),
		tx:          deps.TxManager,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		dispatcher:  deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID         string
	DeviceID           *string
	Title              string
	Description        string
	ProblemDescription string
	Priority           domain.TicketPriority
	Tags               []string
	SLATargetAt        *time.Time
	StorageLocationID  *string
}

// TicketUpdateInput describes a partial update. A Status change routes through
// the guarded transition, never a raw overwrite.
type TicketUpdateInput struct {
	Title                *string
	Description          *string
	ProblemDescription   *string
	Diagnosis            *string
	Priority             *domain.TicketPriority
	AssignedTechnicianID *string
	Tags                 []string
	SLATargetAt          *time.Time
	Status               *domain.TicketStatus
	StatusNote           *string
	StorageLocationID    *string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses       []domain.TicketStatus
	Priorities     []domain.TicketPriority
	CustomerID     *string
	AssignedTechID *string
	Tags           []string
	SearchTerm     *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// TicketDetail aggregates a ticket with its owned collections.
type TicketDetail struct {
	Ticket        *domain.Ticket
	Notes         []domain.TicketNote
	TimeEntries   []domain.TimeEntry
	Attachments   []domain.AttachmentReference
	History       []domain.TicketHistoryEntry
	BillableHours float64
}

// TimelineItem is one record of the unified audit timeline: either a status
// transition or a note, ordered by creation time.
type TimelineItem struct {
	Timestamp  time.Time
	Transition *domain.TicketHistoryEntry
	Note       *domain.TicketNote
}

var validPriorities = map[domain.TicketPriority]struct{}{
	domain.TicketPriorityLow:    {},
	domain.TicketPriorityMedium: {},
	domain.TicketPriorityHigh:   {},
	domain.TicketPriorityUrgent: {},
}

// CreateTicket allocates identity, persists the ticket in INTAKE and writes
// the creation history entry, all in one transaction.
func (s *TicketService) CreateTicket(ctx context.Context, organizationID, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	input.CustomerID = strings.TrimSpace(input.CustomerID)
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ProblemDescription = strings.TrimSpace(input.ProblemDescription)
	if input.CustomerID == "" || input.Title == "" || input.Description == "" || input.ProblemDescription == "" {
		return nil, apperrors.NewValidationError("customer_id, title, description, problem_description required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if _, ok := validPriorities[input.Priority]; !ok {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	number, barcode, err := s.allocator.Allocate(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		OrganizationID:     organizationID,
		TicketNumber:       number,
		BarcodeData:        barcode,
		CustomerID:         input.CustomerID,
		DeviceID:           input.DeviceID,
		Title:              input.Title,
		Description:        input.Description,
		ProblemDescription: input.ProblemDescription,
		Status:             workflow.InitialStatus,
		Priority:           input.Priority,
		Tags:               input.Tags,
		SLATargetAt:        input.SLATargetAt,
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if input.StorageLocationID != nil {
			if _, err := s.storage.Occupy(txCtx, organizationID, *input.StorageLocationID); err != nil {
				return err
			}
			ticket.StorageLocationID = input.StorageLocationID
		}
		if err := s.tickets.Create(txCtx, ticket); err != nil {
			return err
		}
		return s.appendHistory(txCtx, actorID, ticket.ID, nil, ticket.Status, strPtr("ticket created"))
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventTicketCreated,
		OrganizationID: organizationID,
		TicketID:       ticket.ID,
		ActorID:        actorID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			CustomerID:   ticket.CustomerID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	if ticket.StorageLocationID != nil {
		s.publishEvent(ctx, events.Event{
			Type:           events.EventStorageAssigned,
			OrganizationID: organizationID,
			TicketID:       ticket.ID,
			ActorID:        actorID,
			Payload:        events.StoragePayload{StorageLocationID: *ticket.StorageLocationID},
		})
	}
	return ticket, nil
}

// GetTicket fetches a ticket scoped to the caller's organization.
func (s *TicketService) GetTicket(ctx context.Context, organizationID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, organizationID, ticketID)
	if err != nil {
		return nil, ticketNotFound(err)
	}
	return ticket, nil
}

// GetTicketByNumber fetches a ticket by its human-readable number.
func (s *TicketService) GetTicketByNumber(ctx context.Context, organizationID, ticketNumber string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, organizationID, ticketNumber)
	if err != nil {
		return nil, ticketNotFound(err)
	}
	return ticket, nil
}

// LookupByBarcode resolves a scanned payload to exactly the owning ticket. An
// unknown or malformed payload is NotFound, never a fuzzy match.
func (s *TicketService) LookupByBarcode(ctx context.Context, organizationID, barcodeData string) (*domain.Ticket, error) {
	if _, ok := identity.ParseBarcode(barcodeData); !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"barcode": barcodeData})
	}

	cacheKey := barcodeCacheKey(organizationID, barcodeData)
	if id, hit, err := s.cache.CacheGet(ctx, cacheKey); err == nil && hit {
		if ticket, err := s.tickets.GetByID(ctx, organizationID, id); err == nil {
			return ticket, nil
		}
		// stale cache entry, fall through to the authoritative lookup
		_ = s.cache.CacheDelete(ctx, cacheKey)
	}

	ticket, err := s.tickets.GetByBarcode(ctx, organizationID, barcodeData)
	if err != nil {
		return nil, ticketNotFound(err)
	}
	_ = s.cache.CacheSet(ctx, cacheKey, ticket.ID, s.cacheTTL)
	return ticket, nil
}

// ListTickets returns filtered tickets, newest first.
func (s *TicketService) ListTickets(ctx context.Context, organizationID string, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: organizationID,
		CustomerID:     filter.CustomerID,
		AssignedTechID: filter.AssignedTechID,
		Statuses:       filter.Statuses,
		Priorities:     filter.Priorities,
		Tags:           filter.Tags,
		SearchTerm:     filter.SearchTerm,
		CreatedFrom:    filter.CreatedFrom,
		CreatedTo:      filter.CreatedTo,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	})
}

// TransitionTicket performs a guarded status change. On success exactly one
// history entry is appended and the lifecycle timestamps are stamped; an
// illegal transition leaves the ticket untouched.
func (s *TicketService) TransitionTicket(ctx context.Context, organizationID, actorID, ticketID string, to domain.TicketStatus, note *string, storageLocationID *string) (*domain.Ticket, error) {
	if !workflow.ValidStatus(to) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": to})
	}

	var ticket *domain.Ticket
	var fromStatus domain.TicketStatus
	var releasedLocation *string

	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := s.tickets.GetByIDForUpdate(txCtx, organizationID, ticketID)
		if err != nil {
			return ticketNotFound(err)
		}
		fromStatus = t.Status

		if storageLocationID != nil && !workflow.IsTerminal(to) {
			if err := s.assignStorage(txCtx, organizationID, t, *storageLocationID); err != nil {
				return err
			}
		}

		released, err := s.applyStatusChange(txCtx, actorID, t, to, note)
		if err != nil {
			return err
		}
		releasedLocation = released
		if err := s.tickets.Update(txCtx, t); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:           events.EventTicketStatusChanged,
		OrganizationID: organizationID,
		TicketID:       ticket.ID,
		ActorID:        actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: fromStatus,
			NewStatus: ticket.Status,
			Note:      strOrEmpty(note),
		},
	})
	if releasedLocation != nil {
		s.publishEvent(ctx, events.Event{
			Type:           events.EventStorageReleased,
			OrganizationID: organizationID,
			TicketID:       ticket.ID,
			ActorID:        actorID,
			Payload:        events.StoragePayload{StorageLocationID: *releasedLocation},
		})
	}
	return ticket, nil
}

// UpdateTicket applies a partial field update. A status field routes through
// the same guard as TransitionTicket within the same transaction.
func (s *TicketService) UpdateTicket(ctx context.Context, organizationID, actorID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.Priority != nil {
		if _, ok := validPriorities[*input.Priority]; !ok {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
	}
	if input.Status != nil && !workflow.ValidStatus(*input.Status) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
	}

	var ticket *domain.Ticket
	var fromStatus domain.TicketStatus
	var statusChanged bool
	var releasedLocation *string

	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := s.tickets.GetByIDForUpdate(txCtx, organizationID, ticketID)
		if err != nil {
			return ticketNotFound(err)
		}
		fromStatus = t.Status

		if input.Title != nil {
			t.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			t.Description = strings.TrimSpace(*input.Description)
		}
		if input.ProblemDescription != nil {
			t.ProblemDescription = strings.TrimSpace(*input.ProblemDescription)
		}
		if input.Diagnosis != nil {
			t.Diagnosis = strings.TrimSpace(*input.Diagnosis)
		}
		if input.Priority != nil {
			t.Priority = *input.Priority
		}
		if input.AssignedTechnicianID != nil {
			t.AssignedTechnicianID = input.AssignedTechnicianID
		}
		if input.Tags != nil {
			t.Tags = input.Tags
		}
		if input.SLATargetAt != nil {
			t.SLATargetAt = input.SLATargetAt
		}
		if input.StorageLocationID != nil && !workflow.IsTerminal(t.Status) {
			if err := s.assignStorage(txCtx, organizationID, t, *input.StorageLocationID); err != nil {
				return err
			}
		}

		if input.Status != nil && *input.Status != t.Status {
			released, err := s.applyStatusChange(txCtx, actorID, t, *input.Status, input.StatusNote)
			if err != nil {
				return err
			}
			releasedLocation = released
			statusChanged = true
		}

		if err := s.tickets.Update(txCtx, t); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.publishEvent(ctx, events.Event{
			Type:           events.EventTicketStatusChanged,
			OrganizationID: organizationID,
			TicketID:       ticket.ID,
			ActorID:        actorID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: fromStatus,
				NewStatus: ticket.Status,
				Note:      strOrEmpty(input.StatusNote),
			},
		})
	}
	if releasedLocation != nil {
		s.publishEvent(ctx, events.Event{
			Type:           events.EventStorageReleased,
			OrganizationID: organizationID,
			TicketID:       ticket.ID,
			ActorID:        actorID,
			Payload:        events.StoragePayload{StorageLocationID: *releasedLocation},
		})
	}
	return ticket, nil
}

// AddNote appends to the note ledger. Prior notes are never edited or removed.
func (s *TicketService) AddNote(ctx context.Context, organizationID, actorID, ticketID, content string, isInternal bool) (*domain.TicketNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}

	note := &domain.TicketNote{
		TicketID:   ticket.ID,
		AuthorID:   actorID,
		Content:    content,
		IsInternal: isInternal,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:           events.EventTicketNoteAdded,
		OrganizationID: organizationID,
		TicketID:       ticket.ID,
		ActorID:        actorID,
		Payload:        events.TicketNoteAddedPayload{NoteID: note.ID, IsInternal: note.IsInternal},
	})
	return note, nil
}

// AddTimeEntry appends billable time. Hours must be positive; the entry date
// defaults to submission time.
func (s *TicketService) AddTimeEntry(ctx context.Context, organizationID, actorID, ticketID, description string, hours float64, entryDate *time.Time) (*domain.TimeEntry, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	if hours <= 0 {
		return nil, apperrors.NewValidationError("hours must be greater than zero", map[string]any{"hours": hours})
	}
	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if entryDate != nil {
		date = *entryDate
	}
	entry := &domain.TimeEntry{
		TicketID:    ticket.ID,
		AuthorID:    actorID,
		Description: description,
		Hours:       hours,
		EntryDate:   date,
	}
	if err := s.timeEntries.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:           events.EventTicketTimeLogged,
		OrganizationID: organizationID,
		TicketID:       ticket.ID,
		ActorID:        actorID,
		Payload:        events.TicketTimeLoggedPayload{TimeEntryID: entry.ID, Hours: entry.Hours},
	})
	return entry, nil
}

// AddAttachment registers attachment metadata; the file itself is stored by an
// external collaborator.
func (s *TicketService) AddAttachment(ctx context.Context, organizationID, ticketID, storageKey, fileName, mimeType string, sizeBytes int64) (*domain.AttachmentReference, error) {
	if strings.TrimSpace(storageKey) == "" || strings.TrimSpace(fileName) == "" {
		return nil, apperrors.NewValidationError("storage_key and file_name required", nil)
	}
	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}
	attachment := &domain.AttachmentReference{
		TicketID:   ticket.ID,
		StorageKey: storageKey,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  sizeBytes,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

// DeleteTicket removes a ticket and cascades its history, notes, time entries
// and attachments. Irreversible; confirmation belongs to the calling layer.
func (s *TicketService) DeleteTicket(ctx context.Context, organizationID, actorID, ticketID string) error {
	var ticket *domain.Ticket
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := s.tickets.GetByIDForUpdate(txCtx, organizationID, ticketID)
		if err != nil {
			return ticketNotFound(err)
		}
		if t.StorageLocationID != nil {
			if err := s.storage.Release(txCtx, *t.StorageLocationID); err != nil {
				return err
			}
		}
		if err := s.tickets.Delete(txCtx, organizationID, ticketID); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.cache.CacheDelete(ctx, barcodeCacheKey(organizationID, ticket.BarcodeData))
	s.publishEvent(ctx, events.Event{
		Type:           events.EventTicketDeleted,
		OrganizationID: organizationID,
		TicketID:       ticket.ID,
		ActorID:        actorID,
		Payload:        events.TicketDeletedPayload{TicketNumber: ticket.TicketNumber},
	})
	return nil
}

// GetTicketDetail loads the ticket with all owned collections and the billable
// hour total.
func (s *TicketService) GetTicketDetail(ctx context.Context, organizationID, ticketID string) (*TicketDetail, error) {
	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	entries, err := s.timeEntries.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	hours, err := s.timeEntries.SumHoursByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return &TicketDetail{
		Ticket:        ticket,
		Notes:         notes,
		TimeEntries:   entries,
		Attachments:   attachments,
		History:       history,
		BillableHours: hours,
	}, nil
}

// ListHistory returns the audit trail in creation order.
func (s *TicketService) ListHistory(ctx context.Context, organizationID, ticketID string) ([]domain.TicketHistoryEntry, error) {
	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ctx, ticket.ID)
}

// Timeline interleaves transitions and notes by creation time.
func (s *TicketService) Timeline(ctx context.Context, organizationID, ticketID string) ([]TimelineItem, error) {
	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	items := make([]TimelineItem, 0, len(history)+len(notes))
	for i := range history {
		entry := history[i]
		items = append(items, TimelineItem{Timestamp: entry.CreatedAt, Transition: &entry})
	}
	for i := range notes {
		note := notes[i]
		items = append(items, TimelineItem{Timestamp: note.CreatedAt, Note: &note})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
	return items, nil
}

// CustomerNotes returns only customer-visible notes. Internal notes never
// cross this boundary.
func (s *TicketService) CustomerNotes(ctx context.Context, organizationID, ticketID string) ([]domain.TicketNote, error) {
	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.TicketNote, 0, len(notes))
	for _, note := range notes {
		if note.IsInternal {
			continue
		}
		visible = append(visible, note)
	}
	return visible, nil
}

// assignStorage swaps the ticket onto a new slot, releasing any prior one.
func (s *TicketService) assignStorage(ctx context.Context, organizationID string, ticket *domain.Ticket, locationID string) error {
	if ticket.StorageLocationID != nil && *ticket.StorageLocationID == locationID {
		return nil
	}
	if ticket.StorageLocationID != nil {
		if err := s.storage.Release(ctx, *ticket.StorageLocationID); err != nil {
			return err
		}
	}
	if _, err := s.storage.Occupy(ctx, organizationID, locationID); err != nil {
		return err
	}
	id := locationID
	ticket.StorageLocationID = &id
	return nil
}

// applyStatusChange enforces the transition guard, stamps lifecycle
// timestamps, frees storage on terminal entry and appends the history entry.
// The caller persists the mutated ticket.
func (s *TicketService) applyStatusChange(ctx context.Context, actorID string, ticket *domain.Ticket, to domain.TicketStatus, note *string) (*string, error) {
	if !workflow.CanTransition(ticket.Status, to) {
		return nil, apperrors.NewIllegalTransition(string(ticket.Status), string(to))
	}
	from := ticket.Status
	workflow.StampTimestamps(ticket, to, time.Now())
	ticket.Status = to

	var released *string
	if workflow.IsTerminal(to) && ticket.StorageLocationID != nil {
		if err := s.storage.Release(ctx, *ticket.StorageLocationID); err != nil {
			return nil, err
		}
		released = ticket.StorageLocationID
		ticket.StorageLocationID = nil
	}

	if err := s.appendHistory(ctx, actorID, ticket.ID, &from, to, note); err != nil {
		return nil, err
	}
	return released, nil
}

func (s *TicketService) appendHistory(ctx context.Context, actorID, ticketID string, from *domain.TicketStatus, to domain.TicketStatus, note *string) error {
	entry := &domain.TicketHistoryEntry{
		TicketID:   ticketID,
		ActorID:    actorID,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
	}
	return s.history.Create(ctx, entry)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func ticketNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", nil)
	}
	return err
}

func barcodeCacheKey(organizationID, barcodeData string) string {
	return "barcode:" + organizationID + ":" + barcodeData
}

func strPtr(s string) *string {
	return &s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
