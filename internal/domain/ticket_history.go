package domain

import "time"

// TicketHistoryEntry is an immutable audit trail record for one status
// transition. FromStatus is nil for the creation entry. Entries are never
// updated or deleted once written.
type TicketHistoryEntry struct {
	ID         string
	TicketID   string
	ActorID    string
	FromStatus *TicketStatus
	ToStatus   TicketStatus
	Note       *string
	CreatedAt  time.Time
}
