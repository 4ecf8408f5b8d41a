package dto

import (
	"time"

	"github.com/spec-kit/repairdesk-service/internal/domain"
)

// CreateTicketRequest is the POST /tickets payload.
type CreateTicketRequest struct {
	CustomerID         string     `json:"customer_id" validate:"required"`
	DeviceID           *string    `json:"device_id,omitempty"`
	Title              string     `json:"title" validate:"required"`
	Description        string     `json:"description" validate:"required"`
	ProblemDescription string     `json:"problem_description" validate:"required"`
	Priority           string     `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Tags               []string   `json:"tags,omitempty"`
	SLATargetAt        *time.Time `json:"sla_target_at,omitempty"`
	StorageLocationID  *string    `json:"storage_location_id,omitempty"`
}

// UpdateTicketRequest is the PATCH /tickets/:id payload.
type UpdateTicketRequest struct {
	Title                *string    `json:"title,omitempty"`
	Description          *string    `json:"description,omitempty"`
	ProblemDescription   *string    `json:"problem_description,omitempty"`
	Diagnosis            *string    `json:"diagnosis,omitempty"`
	Priority             *string    `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssignedTechnicianID *string    `json:"assigned_technician_id,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	SLATargetAt          *time.Time `json:"sla_target_at,omitempty"`
	Status               *string    `json:"status,omitempty"`
	StatusNote           *string    `json:"status_note,omitempty"`
	StorageLocationID    *string    `json:"storage_location_id,omitempty"`
}

// TransitionRequest is the PATCH /tickets/:id/status payload.
type TransitionRequest struct {
	Status            string  `json:"status" validate:"required"`
	Note              *string `json:"note,omitempty"`
	StorageLocationID *string `json:"storage_location_id,omitempty"`
}

// CreateNoteRequest is the POST /tickets/:id/notes payload.
type CreateNoteRequest struct {
	Content    string `json:"content" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

// CreateTimeEntryRequest is the POST /tickets/:id/time payload.
type CreateTimeEntryRequest struct {
	Description string     `json:"description" validate:"required"`
	Hours       float64    `json:"hours" validate:"required,gt=0"`
	Date        *time.Time `json:"date,omitempty"`
}

// CreateAttachmentRequest registers attachment metadata.
type CreateAttachmentRequest struct {
	StorageKey string `json:"storage_key" validate:"required"`
	FileName   string `json:"file_name" validate:"required"`
	MimeType   string `json:"mime_type,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty" validate:"omitempty,gte=0"`
}

// CreateStorageLocationRequest is the POST /storage-locations payload.
type CreateStorageLocationRequest struct {
	Zone  string `json:"zone,omitempty"`
	Shelf string `json:"shelf,omitempty"`
	Bin   string `json:"bin,omitempty"`
	Label string `json:"label" validate:"required"`
}

// BoardMoveRequest is the POST /board/move payload.
type BoardMoveRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
	ToStatus string `json:"to_status" validate:"required"`
}

// TicketSummary is the listing projection.
type TicketSummary struct {
	ID                   string                `json:"id"`
	TicketNumber         string                `json:"ticket_number"`
	BarcodeData          string                `json:"barcode_data"`
	CustomerID           string                `json:"customer_id"`
	DeviceID             *string               `json:"device_id,omitempty"`
	AssignedTechnicianID *string               `json:"assigned_technician_id,omitempty"`
	StorageLocationID    *string               `json:"storage_location_id,omitempty"`
	Title                string                `json:"title"`
	Status               domain.TicketStatus   `json:"status"`
	Priority             domain.TicketPriority `json:"priority"`
	Tags                 []string              `json:"tags,omitempty"`
	SLATargetAt          *time.Time            `json:"sla_target_at,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// TicketDetailResponse is the full projection with owned collections.
type TicketDetailResponse struct {
	TicketSummary
	Description        string                 `json:"description"`
	ProblemDescription string                 `json:"problem_description"`
	Diagnosis          string                 `json:"diagnosis,omitempty"`
	StartedAt          *time.Time             `json:"started_at,omitempty"`
	CompletedAt        *time.Time             `json:"completed_at,omitempty"`
	PickedUpAt         *time.Time             `json:"picked_up_at,omitempty"`
	Notes              []NoteResponse         `json:"notes"`
	TimeEntries        []TimeEntryResponse    `json:"time_entries"`
	Attachments        []AttachmentResponse   `json:"attachments"`
	History            []HistoryEntryResponse `json:"history"`
	BillableHours      float64                `json:"billable_hours"`
}

// NoteResponse projects a ticket note.
type NoteResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// TimeEntryResponse projects a billable time entry.
type TimeEntryResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Description string    `json:"description"`
	Hours       float64   `json:"hours"`
	EntryDate   time.Time `json:"entry_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentResponse projects attachment metadata.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntryResponse projects one audit entry.
type HistoryEntryResponse struct {
	ID         string               `json:"id"`
	ActorID    string               `json:"actor_id"`
	FromStatus *domain.TicketStatus `json:"from_status,omitempty"`
	ToStatus   domain.TicketStatus  `json:"to_status"`
	Note       *string              `json:"note,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// TimelineItemResponse is one record of the merged history+notes timeline.
type TimelineItemResponse struct {
	Kind       string                `json:"kind"`
	Timestamp  time.Time             `json:"timestamp"`
	Transition *HistoryEntryResponse `json:"transition,omitempty"`
	Note       *NoteResponse         `json:"note,omitempty"`
}

// StorageLocationResponse projects a bin slot.
type StorageLocationResponse struct {
	ID         string    `json:"id"`
	Zone       string    `json:"zone,omitempty"`
	Shelf      string    `json:"shelf,omitempty"`
	Bin        string    `json:"bin,omitempty"`
	Label      string    `json:"label"`
	IsOccupied bool      `json:"is_occupied"`
	CreatedAt  time.Time `json:"created_at"`
}

// BoardResponse projects the column groupings.
type BoardResponse struct {
	Columns map[domain.TicketStatus][]string `json:"columns"`
}

// PortalTicketResponse is the customer-facing projection: no technician ids,
// no diagnosis draft, and only customer-visible notes.
type PortalTicketResponse struct {
	TicketNumber string                `json:"ticket_number"`
	Title        string                `json:"title"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	CreatedAt    time.Time             `json:"created_at"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
	PickedUpAt   *time.Time            `json:"picked_up_at,omitempty"`
	Notes        []NoteResponse        `json:"notes"`
}
