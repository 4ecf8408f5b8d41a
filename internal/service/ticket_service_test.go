package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/events"
	"github.com/spec-kit/repairdesk-service/internal/repository/memory"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

const (
	testOrg   = "org-1"
	otherOrg  = "org-2"
	testActor = "tech-1"
)

func newTestService(dispatcher events.Dispatcher) (*TicketService, *memory.Store) {
	store := memory.NewStore()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     store,
		HistoryRepo:    store.History(),
		NoteRepo:       store.Notes(),
		TimeEntryRepo:  store.TimeEntries(),
		AttachmentRepo: store.Attachments(),
		SequenceRepo:   store,
		Storage:        NewStorageAllocator(store.Locations()),
		TxManager:      store,
		Dispatcher:     dispatcher,
	})
	return svc, store
}

func createTicket(t *testing.T, svc *TicketService, org string) *domain.Ticket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), org, testActor, TicketCreateInput{
		CustomerID:         "cust-1",
		Title:              "cracked screen",
		Description:        "front glass shattered",
		ProblemDescription: "dropped on concrete",
	})
	require.NoError(t, err)
	return ticket
}

func domainCode(err error) string {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func TestCreateTicketAssignsSequentialIdentity(t *testing.T) {
	svc, _ := newTestService(nil)
	year := time.Now().Year()

	first := createTicket(t, svc, testOrg)
	assert.Equal(t, fmt.Sprintf("T%d-0001", year), first.TicketNumber)
	assert.Equal(t, fmt.Sprintf("TICKET:T%d-0001", year), first.BarcodeData)
	assert.Equal(t, domain.TicketStatusIntake, first.Status)
	assert.Equal(t, domain.TicketPriorityMedium, first.Priority)
	assert.NotEmpty(t, first.ID)

	second := createTicket(t, svc, testOrg)
	assert.Equal(t, fmt.Sprintf("T%d-0002", year), second.TicketNumber)

	// A different organization starts its own sequence.
	other := createTicket(t, svc, otherOrg)
	assert.Equal(t, fmt.Sprintf("T%d-0001", year), other.TicketNumber)
}

func TestCreateTicketWritesCreationHistory(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)

	history, err := svc.ListHistory(context.Background(), testOrg, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStatus)
	assert.Equal(t, domain.TicketStatusIntake, history[0].ToStatus)
	assert.Equal(t, testActor, history[0].ActorID)
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.CreateTicket(context.Background(), testOrg, testActor, TicketCreateInput{
		CustomerID: "cust-1",
		Title:      "   ",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))

	_, err = svc.CreateTicket(context.Background(), testOrg, testActor, TicketCreateInput{
		CustomerID:         "cust-1",
		Title:              "x",
		Description:        "y",
		ProblemDescription: "z",
		Priority:           domain.TicketPriority("WHENEVER"),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestTransitionTicketHappyPath(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	updated, err := svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusDiagnosed, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusDiagnosed, updated.Status)
	assert.Nil(t, updated.StartedAt)

	updated, err = svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusInRepair, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.StartedAt)
	firstStart := *updated.StartedAt

	// Parts detour and back must not move the original start stamp.
	_, err = svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusWaitingParts, nil, nil)
	require.NoError(t, err)
	updated, err = svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusInRepair, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, firstStart, *updated.StartedAt)

	history, err := svc.ListHistory(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, history, 5) // creation + four transitions
}

func TestTransitionTicketIllegalLeavesStateUntouched(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	_, err := svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusQA, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "ILLEGAL_TRANSITION", domainCode(err))

	current, err := svc.GetTicket(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusIntake, current.Status)

	history, err := svc.ListHistory(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTransitionTicketRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)

	_, err := svc.TransitionTicket(context.Background(), testOrg, testActor, ticket.ID, domain.TicketStatus("LOST"), nil, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestTerminalStatesAreAbsorbing(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	_, err := svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusCancelled, nil, nil)
	require.NoError(t, err)

	_, err = svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusInRepair, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "ILLEGAL_TRANSITION", domainCode(err))
}

func TestCrossOrganizationAccessIsNotFound(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	_, err := svc.GetTicket(ctx, otherOrg, ticket.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.TransitionTicket(ctx, otherOrg, testActor, ticket.ID, domain.TicketStatusDiagnosed, nil, nil)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.LookupByBarcode(ctx, otherOrg, ticket.BarcodeData)
	assert.True(t, apperrors.IsNotFound(err))

	assert.True(t, apperrors.IsNotFound(svc.DeleteTicket(ctx, otherOrg, testActor, ticket.ID)))
}

func TestLookupByBarcode(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	found, err := svc.LookupByBarcode(ctx, testOrg, ticket.BarcodeData)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, found.ID)

	_, err = svc.LookupByBarcode(ctx, testOrg, "TICKET:T2020-9999")
	assert.True(t, apperrors.IsNotFound(err))

	// Payloads without the prefix are foreign scans, never fuzzy matches.
	_, err = svc.LookupByBarcode(ctx, testOrg, ticket.TicketNumber)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCustomerNotesHideInternalOnes(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	_, err := svc.AddNote(ctx, testOrg, testActor, ticket.ID, "ordered a new panel", false)
	require.NoError(t, err)
	_, err = svc.AddNote(ctx, testOrg, testActor, ticket.ID, "customer was rude, flag account", true)
	require.NoError(t, err)

	visible, err := svc.CustomerNotes(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "ordered a new panel", visible[0].Content)

	detail, err := svc.GetTicketDetail(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Notes, 2)
}

func TestAddTimeEntrySumsBillableHours(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	_, err := svc.AddTimeEntry(ctx, testOrg, testActor, ticket.ID, "diagnosis", 0.5, nil)
	require.NoError(t, err)
	_, err = svc.AddTimeEntry(ctx, testOrg, testActor, ticket.ID, "panel swap", 1.75, nil)
	require.NoError(t, err)

	detail, err := svc.GetTicketDetail(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.25, detail.BillableHours, 1e-9)

	_, err = svc.AddTimeEntry(ctx, testOrg, testActor, ticket.ID, "negative", -1, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))

	_, err = svc.AddTimeEntry(ctx, testOrg, testActor, ticket.ID, "zero", 0, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestStorageOccupancyIsExclusive(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	allocator := NewStorageAllocator(store.Locations())
	slot, err := allocator.CreateLocation(ctx, testOrg, "A", "3", "12", "A-3-12")
	require.NoError(t, err)

	first, err := svc.CreateTicket(ctx, testOrg, testActor, TicketCreateInput{
		CustomerID:         "cust-1",
		Title:              "phone",
		Description:        "d",
		ProblemDescription: "p",
		StorageLocationID:  &slot.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, first.StorageLocationID)

	// The slot is taken; a second ticket cannot claim it and the whole
	// creation rolls back.
	_, err = svc.CreateTicket(ctx, testOrg, testActor, TicketCreateInput{
		CustomerID:         "cust-2",
		Title:              "tablet",
		Description:        "d",
		ProblemDescription: "p",
		StorageLocationID:  &slot.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	tickets, err := svc.ListTickets(ctx, testOrg, TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestTerminalTransitionReleasesStorage(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	allocator := NewStorageAllocator(store.Locations())
	slot, err := allocator.CreateLocation(ctx, testOrg, "B", "1", "4", "B-1-4")
	require.NoError(t, err)

	ticket, err := svc.CreateTicket(ctx, testOrg, testActor, TicketCreateInput{
		CustomerID:         "cust-1",
		Title:              "laptop",
		Description:        "d",
		ProblemDescription: "p",
		StorageLocationID:  &slot.ID,
	})
	require.NoError(t, err)

	updated, err := svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusCancelled, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.StorageLocationID)

	// Slot usable again.
	_, err = allocator.Occupy(ctx, testOrg, slot.ID)
	require.NoError(t, err)
}

func TestUnknownStorageLocationIsNotFound(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	ghost := "no-such-slot"

	_, err := svc.CreateTicket(ctx, testOrg, testActor, TicketCreateInput{
		CustomerID:         "cust-1",
		Title:              "phone",
		Description:        "d",
		ProblemDescription: "p",
		StorageLocationID:  &ghost,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateTicketPatchesFieldsAndGuardsStatus(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	diagnosis := "bad battery"
	tech := "tech-9"
	status := domain.TicketStatusDiagnosed
	updated, err := svc.UpdateTicket(ctx, testOrg, testActor, ticket.ID, TicketUpdateInput{
		Diagnosis:            &diagnosis,
		AssignedTechnicianID: &tech,
		Status:               &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "bad battery", updated.Diagnosis)
	require.NotNil(t, updated.AssignedTechnicianID)
	assert.Equal(t, "tech-9", *updated.AssignedTechnicianID)
	assert.Equal(t, domain.TicketStatusDiagnosed, updated.Status)

	history, err := svc.ListHistory(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// An illegal status in the patch rejects the whole update.
	title := "new title"
	bad := domain.TicketStatusPickedUp
	_, err = svc.UpdateTicket(ctx, testOrg, testActor, ticket.ID, TicketUpdateInput{
		Title:  &title,
		Status: &bad,
	})
	require.Error(t, err)
	assert.Equal(t, "ILLEGAL_TRANSITION", domainCode(err))

	current, err := svc.GetTicket(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "cracked screen", current.Title)
}

func TestDeleteTicketCascades(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	allocator := NewStorageAllocator(store.Locations())
	slot, err := allocator.CreateLocation(ctx, testOrg, "C", "2", "8", "C-2-8")
	require.NoError(t, err)

	ticket, err := svc.CreateTicket(ctx, testOrg, testActor, TicketCreateInput{
		CustomerID:         "cust-1",
		Title:              "console",
		Description:        "d",
		ProblemDescription: "p",
		StorageLocationID:  &slot.ID,
	})
	require.NoError(t, err)
	_, err = svc.AddNote(ctx, testOrg, testActor, ticket.ID, "hdmi port loose", false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTicket(ctx, testOrg, testActor, ticket.ID))

	_, err = svc.GetTicket(ctx, testOrg, ticket.ID)
	assert.True(t, apperrors.IsNotFound(err))

	// The slot frees up with the delete.
	_, err = allocator.Occupy(ctx, testOrg, slot.ID)
	require.NoError(t, err)
}

func TestTimelineInterleavesTransitionsAndNotes(t *testing.T) {
	svc, _ := newTestService(nil)
	ticket := createTicket(t, svc, testOrg)
	ctx := context.Background()

	_, err := svc.AddNote(ctx, testOrg, testActor, ticket.ID, "checked in at counter", false)
	require.NoError(t, err)
	_, err = svc.TransitionTicket(ctx, testOrg, testActor, ticket.ID, domain.TicketStatusDiagnosed, nil, nil)
	require.NoError(t, err)

	timeline, err := svc.Timeline(ctx, testOrg, ticket.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 3)

	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].Timestamp.Before(timeline[i-1].Timestamp))
	}
	transitions := 0
	notes := 0
	for _, item := range timeline {
		if item.Transition != nil {
			transitions++
		}
		if item.Note != nil {
			notes++
		}
	}
	assert.Equal(t, 2, transitions)
	assert.Equal(t, 1, notes)
}

func TestStatusChangePublishesEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc, _ := newTestService(dispatcher)

	var received []events.Event
	dispatcher.Subscribe(events.EventTicketStatusChanged, func(_ context.Context, event events.Event) error {
		received = append(received, event)
		return nil
	})

	ticket := createTicket(t, svc, testOrg)
	_, err := svc.TransitionTicket(context.Background(), testOrg, testActor, ticket.ID, domain.TicketStatusDiagnosed, nil, nil)
	require.NoError(t, err)

	require.Len(t, received, 1)
	payload, ok := received[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusIntake, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusDiagnosed, payload.NewStatus)
	assert.Equal(t, ticket.ID, received[0].TicketID)
}
