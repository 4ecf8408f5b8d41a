package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repairdesk-service/internal/domain"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from domain.TicketStatus
		to   domain.TicketStatus
		want bool
	}{
		{"intake to diagnosed", domain.TicketStatusIntake, domain.TicketStatusDiagnosed, true},
		{"intake straight to repair", domain.TicketStatusIntake, domain.TicketStatusInRepair, true},
		{"diagnosed to repair", domain.TicketStatusDiagnosed, domain.TicketStatusInRepair, true},
		{"repair to waiting parts", domain.TicketStatusInRepair, domain.TicketStatusWaitingParts, true},
		{"waiting parts back to repair", domain.TicketStatusWaitingParts, domain.TicketStatusInRepair, true},
		{"repair to qa", domain.TicketStatusInRepair, domain.TicketStatusQA, true},
		{"qa to ready", domain.TicketStatusQA, domain.TicketStatusReadyForPickup, true},
		{"ready to picked up", domain.TicketStatusReadyForPickup, domain.TicketStatusPickedUp, true},
		{"intake cannot skip to qa", domain.TicketStatusIntake, domain.TicketStatusQA, false},
		{"qa cannot go back to repair", domain.TicketStatusQA, domain.TicketStatusInRepair, false},
		{"picked up is absorbing", domain.TicketStatusPickedUp, domain.TicketStatusIntake, false},
		{"cancelled is absorbing", domain.TicketStatusCancelled, domain.TicketStatusInRepair, false},
		{"no self transition", domain.TicketStatusInRepair, domain.TicketStatusInRepair, false},
		{"unknown target", domain.TicketStatusIntake, domain.TicketStatus("LOST"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestCancelReachableFromEveryNonTerminalState(t *testing.T) {
	for _, status := range AllStatuses() {
		if IsTerminal(status) {
			assert.False(t, CanTransition(status, domain.TicketStatusCancelled), string(status))
			continue
		}
		assert.True(t, CanTransition(status, domain.TicketStatusCancelled), string(status))
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(domain.TicketStatusPickedUp))
	assert.True(t, IsTerminal(domain.TicketStatusCancelled))
	assert.False(t, IsTerminal(domain.TicketStatusReadyForPickup))
	assert.False(t, IsTerminal(domain.TicketStatus("LOST")))
}

func TestValidStatus(t *testing.T) {
	for _, status := range AllStatuses() {
		assert.True(t, ValidStatus(status), string(status))
	}
	assert.False(t, ValidStatus(domain.TicketStatus("LOST")))
	assert.False(t, ValidStatus(domain.TicketStatus("")))
}

func TestStampTimestampsSetOnce(t *testing.T) {
	ticket := &domain.Ticket{Status: domain.TicketStatusDiagnosed}
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	StampTimestamps(ticket, domain.TicketStatusInRepair, first)
	require.NotNil(t, ticket.StartedAt)
	require.Equal(t, first, *ticket.StartedAt)

	// Going through WAITING_PARTS and back must not move the original stamp.
	StampTimestamps(ticket, domain.TicketStatusInRepair, later)
	assert.Equal(t, first, *ticket.StartedAt)

	StampTimestamps(ticket, domain.TicketStatusReadyForPickup, later)
	require.NotNil(t, ticket.CompletedAt)
	assert.Equal(t, later, *ticket.CompletedAt)
	assert.Nil(t, ticket.PickedUpAt)

	StampTimestamps(ticket, domain.TicketStatusPickedUp, later)
	require.NotNil(t, ticket.PickedUpAt)
	assert.Equal(t, later, *ticket.PickedUpAt)
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	first := NextStatuses(domain.TicketStatusIntake)
	require.NotEmpty(t, first)
	first[0] = domain.TicketStatus("MUTATED")

	second := NextStatuses(domain.TicketStatusIntake)
	assert.Equal(t, domain.TicketStatusDiagnosed, second[0])
}
