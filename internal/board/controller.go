// Package board implements the kanban-side concurrency layer: a ticket is
// moved between workflow columns optimistically, the authoritative guarded
// transition runs in the background, and on failure the entire pre-drag
// snapshot is restored.
package board

import (
	"context"
	"sync"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/workflow"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// TransitionFunc issues the authoritative status change for a ticket.
type TransitionFunc func(ctx context.Context, ticketID string, to domain.TicketStatus) error

// Snapshot is a full copy of the column groupings at one point in time.
type Snapshot map[domain.TicketStatus][]string

func (s Snapshot) clone() Snapshot {
	out := make(Snapshot, len(s))
	for col, ids := range s {
		out[col] = append([]string(nil), ids...)
	}
	return out
}

// MoveResult reports the outcome of a commit.
type MoveResult struct {
	// Moved is false for no-op drops: same column, or no legal transition
	// from the ticket's current column. No request is issued for those.
	Moved bool
}

type pendingMove struct {
	snapshot Snapshot
	from     domain.TicketStatus
}

// Controller owns one board's column groupings. All mutations go through the
// two-phase BeginMove/CommitMove protocol; only one move per ticket may be in
// flight at a time.
type Controller struct {
	mu         sync.Mutex
	columns    Snapshot
	position   map[string]domain.TicketStatus
	pending    map[string]pendingMove
	transition TransitionFunc
}

// NewController builds a controller issuing transitions through fn.
func NewController(fn TransitionFunc) *Controller {
	return &Controller{
		columns:    Snapshot{},
		position:   map[string]domain.TicketStatus{},
		pending:    map[string]pendingMove{},
		transition: fn,
	}
}

// Load rebuilds the column groupings from the authoritative ticket list.
// Tickets must already be ordered the way the columns should present them.
func (c *Controller) Load(tickets []domain.Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.columns = Snapshot{}
	c.position = map[string]domain.TicketStatus{}
	for _, status := range workflow.AllStatuses() {
		c.columns[status] = []string{}
	}
	for _, ticket := range tickets {
		c.columns[ticket.Status] = append(c.columns[ticket.Status], ticket.ID)
		c.position[ticket.ID] = ticket.Status
	}
}

// Columns returns a deep copy of the current groupings.
func (c *Controller) Columns() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columns.clone()
}

// BeginMove captures the pre-drag snapshot and claims the ticket's move slot.
// A second drag on the same ticket before the first settles is rejected.
func (c *Controller) BeginMove(ticketID string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, ok := c.position[ticketID]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	if _, inFlight := c.pending[ticketID]; inFlight {
		return nil, apperrors.NewConflict("a move for this ticket is already in flight", map[string]any{"ticket_id": ticketID})
	}

	snapshot := c.columns.clone()
	c.pending[ticketID] = pendingMove{snapshot: snapshot, from: from}
	return snapshot.clone(), nil
}

// CommitMove applies the optimistic move and issues the guarded transition.
// On failure the entire pre-drag snapshot is restored, never a per-card patch.
func (c *Controller) CommitMove(ctx context.Context, ticketID string, to domain.TicketStatus) (MoveResult, error) {
	c.mu.Lock()
	move, ok := c.pending[ticketID]
	if !ok {
		c.mu.Unlock()
		return MoveResult{}, apperrors.NewConflict("no move in progress for this ticket", map[string]any{"ticket_id": ticketID})
	}

	// Same-column drop or a target with no legal transition: settle without
	// issuing a request.
	if to == move.from || !workflow.CanTransition(move.from, to) {
		delete(c.pending, ticketID)
		c.mu.Unlock()
		return MoveResult{Moved: false}, nil
	}

	c.applyLocked(ticketID, move.from, to)
	c.mu.Unlock()

	if err := c.transition(ctx, ticketID, to); err != nil {
		c.mu.Lock()
		c.columns = move.snapshot.clone()
		c.rebuildPositionsLocked()
		delete(c.pending, ticketID)
		c.mu.Unlock()
		return MoveResult{}, err
	}

	c.mu.Lock()
	delete(c.pending, ticketID)
	c.mu.Unlock()
	return MoveResult{Moved: true}, nil
}

// CancelMove abandons a pending move without touching the board.
func (c *Controller) CancelMove(ticketID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, ticketID)
}

func (c *Controller) applyLocked(ticketID string, from, to domain.TicketStatus) {
	column := c.columns[from]
	for i, id := range column {
		if id == ticketID {
			c.columns[from] = append(column[:i:i], column[i+1:]...)
			break
		}
	}
	c.columns[to] = append(c.columns[to], ticketID)
	c.position[ticketID] = to
}

func (c *Controller) rebuildPositionsLocked() {
	c.position = map[string]domain.TicketStatus{}
	for col, ids := range c.columns {
		for _, id := range ids {
			c.position[id] = col
		}
	}
}
