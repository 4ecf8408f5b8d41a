package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

func boardTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "t1", Status: domain.TicketStatusIntake},
		{ID: "t2", Status: domain.TicketStatusIntake},
		{ID: "t3", Status: domain.TicketStatusInRepair},
	}
}

func okTransition(ctx context.Context, ticketID string, to domain.TicketStatus) error {
	return nil
}

func TestCommitMoveAppliesTransition(t *testing.T) {
	var calls []string
	controller := NewController(func(_ context.Context, ticketID string, to domain.TicketStatus) error {
		calls = append(calls, ticketID+"->"+string(to))
		return nil
	})
	controller.Load(boardTickets())

	_, err := controller.BeginMove("t1")
	require.NoError(t, err)

	result, err := controller.CommitMove(context.Background(), "t1", domain.TicketStatusDiagnosed)
	require.NoError(t, err)
	assert.True(t, result.Moved)
	assert.Equal(t, []string{"t1->DIAGNOSED"}, calls)

	columns := controller.Columns()
	assert.Equal(t, []string{"t2"}, columns[domain.TicketStatusIntake])
	assert.Equal(t, []string{"t1"}, columns[domain.TicketStatusDiagnosed])
}

func TestCommitMoveRestoresSnapshotOnRejection(t *testing.T) {
	controller := NewController(func(context.Context, string, domain.TicketStatus) error {
		return apperrors.NewConflict("ticket changed underneath", nil)
	})
	controller.Load(boardTickets())

	before, err := controller.BeginMove("t3")
	require.NoError(t, err)

	_, err = controller.CommitMove(context.Background(), "t3", domain.TicketStatusQA)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// The whole pre-drag snapshot comes back, not a per-card patch.
	assert.Equal(t, before, controller.Columns())

	// The move slot is free again afterwards.
	_, err = controller.BeginMove("t3")
	require.NoError(t, err)
}

func TestCommitMoveSameColumnIsNoOp(t *testing.T) {
	called := false
	controller := NewController(func(context.Context, string, domain.TicketStatus) error {
		called = true
		return nil
	})
	controller.Load(boardTickets())

	before, err := controller.BeginMove("t1")
	require.NoError(t, err)

	result, err := controller.CommitMove(context.Background(), "t1", domain.TicketStatusIntake)
	require.NoError(t, err)
	assert.False(t, result.Moved)
	assert.False(t, called)
	assert.Equal(t, before, controller.Columns())
}

func TestCommitMoveIllegalTargetIsNoOp(t *testing.T) {
	called := false
	controller := NewController(func(context.Context, string, domain.TicketStatus) error {
		called = true
		return nil
	})
	controller.Load(boardTickets())

	_, err := controller.BeginMove("t1")
	require.NoError(t, err)

	// INTAKE has no edge to QA; the drop settles without a request.
	result, err := controller.CommitMove(context.Background(), "t1", domain.TicketStatusQA)
	require.NoError(t, err)
	assert.False(t, result.Moved)
	assert.False(t, called)
}

func TestBeginMoveSingleFlightPerTicket(t *testing.T) {
	controller := NewController(okTransition)
	controller.Load(boardTickets())

	_, err := controller.BeginMove("t1")
	require.NoError(t, err)

	_, err = controller.BeginMove("t1")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// Other tickets are not blocked.
	_, err = controller.BeginMove("t2")
	require.NoError(t, err)
}

func TestBeginMoveUnknownTicket(t *testing.T) {
	controller := NewController(okTransition)
	controller.Load(boardTickets())

	_, err := controller.BeginMove("ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCancelMoveFreesSlot(t *testing.T) {
	controller := NewController(okTransition)
	controller.Load(boardTickets())

	_, err := controller.BeginMove("t1")
	require.NoError(t, err)

	controller.CancelMove("t1")

	_, err = controller.BeginMove("t1")
	require.NoError(t, err)
}

func TestCommitMoveWithoutBegin(t *testing.T) {
	controller := NewController(okTransition)
	controller.Load(boardTickets())

	_, err := controller.CommitMove(context.Background(), "t1", domain.TicketStatusDiagnosed)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}
