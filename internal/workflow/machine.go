// Package workflow defines the ticket lifecycle state machine: the legal
// transition table, terminal states and the lifecycle timestamps each
// transition stamps. It is pure; persistence and history recording belong to
// the service layer.
package workflow

import (
	"time"

	"github.com/spec-kit/repairdesk-service/internal/domain"
)

// allowedTransitions is the single source of truth for legal status changes.
// The only bidirectional pair is IN_REPAIR <-> WAITING_PARTS; PICKED_UP and
// CANCELLED are absorbing.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusIntake:         {domain.TicketStatusDiagnosed, domain.TicketStatusInRepair, domain.TicketStatusCancelled},
	domain.TicketStatusDiagnosed:      {domain.TicketStatusInRepair, domain.TicketStatusCancelled},
	domain.TicketStatusInRepair:       {domain.TicketStatusWaitingParts, domain.TicketStatusQA, domain.TicketStatusCancelled},
	domain.TicketStatusWaitingParts:   {domain.TicketStatusInRepair, domain.TicketStatusCancelled},
	domain.TicketStatusQA:             {domain.TicketStatusReadyForPickup, domain.TicketStatusCancelled},
	domain.TicketStatusReadyForPickup: {domain.TicketStatusPickedUp, domain.TicketStatusCancelled},
	domain.TicketStatusPickedUp:       {},
	domain.TicketStatusCancelled:      {},
}

// InitialStatus is the status every ticket is created with.
const InitialStatus = domain.TicketStatusIntake

// ValidStatus reports whether s is a known workflow state.
func ValidStatus(s domain.TicketStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether from -> to is in the legal-transition table.
func CanTransition(from, to domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal targets from the given state.
func NextStatuses(from domain.TicketStatus) []domain.TicketStatus {
	targets := allowedTransitions[from]
	out := make([]domain.TicketStatus, len(targets))
	copy(out, targets)
	return out
}

// IsTerminal reports whether no further transitions are legal from s.
func IsTerminal(s domain.TicketStatus) bool {
	return ValidStatus(s) && len(allowedTransitions[s]) == 0
}

// StampTimestamps applies the lifecycle timestamp side effects of entering
// next. Each timestamp is set at most once; re-entering a state later (for
// example IN_REPAIR after WAITING_PARTS) never overwrites an earlier stamp.
func StampTimestamps(ticket *domain.Ticket, next domain.TicketStatus, now time.Time) {
	switch next {
	case domain.TicketStatusInRepair:
		if ticket.StartedAt == nil {
			t := now
			ticket.StartedAt = &t
		}
	case domain.TicketStatusReadyForPickup:
		if ticket.CompletedAt == nil {
			t := now
			ticket.CompletedAt = &t
		}
	case domain.TicketStatusPickedUp:
		if ticket.PickedUpAt == nil {
			t := now
			ticket.PickedUpAt = &t
		}
	}
}

// AllStatuses returns the workflow states in board column order.
func AllStatuses() []domain.TicketStatus {
	return []domain.TicketStatus{
		domain.TicketStatusIntake,
		domain.TicketStatusDiagnosed,
		domain.TicketStatusInRepair,
		domain.TicketStatusWaitingParts,
		domain.TicketStatusQA,
		domain.TicketStatusReadyForPickup,
		domain.TicketStatusPickedUp,
		domain.TicketStatusCancelled,
	}
}
