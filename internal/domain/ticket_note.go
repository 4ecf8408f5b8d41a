package domain

import "time"

// TicketNote is an append-only free-text note on a ticket. Internal notes are
// staff-only and must never surface on customer-facing views.
type TicketNote struct {
	ID         string
	TicketID   string
	AuthorID   string
	Content    string
	IsInternal bool
	CreatedAt  time.Time
}

// TimeEntry records billable time against a ticket. Hours are summed by the
// invoicing collaborator; the engine only stores them.
type TimeEntry struct {
	ID          string
	TicketID    string
	AuthorID    string
	Description string
	Hours       float64
	EntryDate   time.Time
	CreatedAt   time.Time
}

// AttachmentReference holds metadata for an externally stored file.
type AttachmentReference struct {
	ID         string
	TicketID   string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
