package events

import (
	"time"

	"github.com/spec-kit/repairdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketNoteAdded     EventType = "ticket_note_added"
	EventTicketTimeLogged    EventType = "ticket_time_logged"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventStorageAssigned     EventType = "storage_assigned"
	EventStorageReleased     EventType = "storage_released"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	OrganizationID string      `json:"organization_id"`
	TicketID       string      `json:"ticket_id"`
	ActorID        string      `json:"actor_id"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	CustomerID   string                `json:"customer_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}

// TicketNoteAddedPayload payload.
type TicketNoteAddedPayload struct {
	NoteID     string `json:"note_id"`
	IsInternal bool   `json:"is_internal"`
}

// TicketTimeLoggedPayload payload.
type TicketTimeLoggedPayload struct {
	TimeEntryID string  `json:"time_entry_id"`
	Hours       float64 `json:"hours"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketNumber string `json:"ticket_number"`
}

// StoragePayload payload for assignment and release.
type StoragePayload struct {
	StorageLocationID string `json:"storage_location_id"`
}
