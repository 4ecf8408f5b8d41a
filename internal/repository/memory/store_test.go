package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/repository"
)

func seedTicket(t *testing.T, store *Store, org string, mutate func(*domain.Ticket)) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		OrganizationID:     org,
		TicketNumber:       "T2026-0001",
		BarcodeData:        "TICKET:T2026-0001",
		CustomerID:         "cust-1",
		Title:              "broken hinge",
		Description:        "lid does not close",
		ProblemDescription: "dropped",
		Status:             domain.TicketStatusIntake,
		Priority:           domain.TicketPriorityMedium,
	}
	if mutate != nil {
		mutate(ticket)
	}
	require.NoError(t, store.Create(context.Background(), ticket))
	return ticket
}

func TestListWithFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seedTicket(t, store, "org-1", nil)
	tech := "tech-7"
	seedTicket(t, store, "org-1", func(ticket *domain.Ticket) {
		ticket.TicketNumber = "T2026-0002"
		ticket.BarcodeData = "TICKET:T2026-0002"
		ticket.Title = "water damage"
		ticket.Status = domain.TicketStatusInRepair
		ticket.Priority = domain.TicketPriorityUrgent
		ticket.AssignedTechnicianID = &tech
		ticket.Tags = []string{"liquid", "warranty"}
	})
	seedTicket(t, store, "org-2", func(ticket *domain.Ticket) {
		ticket.Title = "water damage"
	})

	all, err := store.ListWithFilter(ctx, repository.TicketFilter{OrganizationID: "org-1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStatus, err := store.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: "org-1",
		Statuses:       []domain.TicketStatus{domain.TicketStatusInRepair},
	})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "water damage", byStatus[0].Title)

	byTech, err := store.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: "org-1",
		AssignedTechID: &tech,
	})
	require.NoError(t, err)
	assert.Len(t, byTech, 1)

	byTags, err := store.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: "org-1",
		Tags:           []string{"liquid", "warranty"},
	})
	require.NoError(t, err)
	assert.Len(t, byTags, 1)

	missingTag, err := store.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: "org-1",
		Tags:           []string{"liquid", "dropped"},
	})
	require.NoError(t, err)
	assert.Empty(t, missingTag)

	search, err := store.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: "org-1",
		SearchTerm:     strPtr("WATER"),
	})
	require.NoError(t, err)
	assert.Len(t, search, 1)

	// Tenancy is absolute even when everything else matches.
	foreign, err := store.ListWithFilter(ctx, repository.TicketFilter{
		OrganizationID: "org-3",
		SearchTerm:     strPtr("water"),
	})
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestListWithFilterPagination(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seedTicket(t, store, "org-1", nil)
	}

	page, err := store.ListWithFilter(ctx, repository.TicketFilter{OrganizationID: "org-1", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.ListWithFilter(ctx, repository.TicketFilter{OrganizationID: "org-1", Limit: 10, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, err := store.ListWithFilter(ctx, repository.TicketFilter{OrganizationID: "org-1", Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWithinTxRollsBackEverything(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	location := &domain.StorageLocation{OrganizationID: "org-1", Label: "A-1-1"}
	require.NoError(t, store.CreateLocation(ctx, location))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(txCtx context.Context) error {
		ticket := &domain.Ticket{
			OrganizationID: "org-1",
			TicketNumber:   "T2026-0001",
			CustomerID:     "cust-1",
			Title:          "broken hinge",
			Status:         domain.TicketStatusIntake,
			Priority:       domain.TicketPriorityMedium,
		}
		if err := store.Create(txCtx, ticket); err != nil {
			return err
		}
		if err := store.Occupy(txCtx, location.ID); err != nil {
			return err
		}
		if _, err := store.NextSequence(txCtx, "org-1", 2026); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	tickets, err := store.ListWithFilter(ctx, repository.TicketFilter{OrganizationID: "org-1"})
	require.NoError(t, err)
	assert.Empty(t, tickets)

	fresh, err := store.GetLocationByID(ctx, "org-1", location.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsOccupied)

	// The sequence restarts from 1 because the consumed value rolled back.
	seq, err := store.NextSequence(ctx, "org-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestWithinTxCommit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.WithinTx(ctx, func(txCtx context.Context) error {
		ticket := &domain.Ticket{
			OrganizationID:     "org-1",
			TicketNumber:       "T2026-0001",
			BarcodeData:        "TICKET:T2026-0001",
			CustomerID:         "cust-1",
			Title:              "x",
			Description:        "y",
			ProblemDescription: "z",
			Status:             domain.TicketStatusIntake,
			Priority:           domain.TicketPriorityLow,
		}
		return store.Create(txCtx, ticket)
	})
	require.NoError(t, err)

	tickets, err := store.ListWithFilter(ctx, repository.TicketFilter{OrganizationID: "org-1"})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func strPtr(s string) *string {
	return &s
}
