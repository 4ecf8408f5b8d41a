package domain

import "time"

// TicketStatus enumerates workflow states for repair tickets.
type TicketStatus string

const (
	TicketStatusIntake         TicketStatus = "INTAKE"
	TicketStatusDiagnosed      TicketStatus = "DIAGNOSED"
	TicketStatusInRepair       TicketStatus = "IN_REPAIR"
	TicketStatusWaitingParts   TicketStatus = "WAITING_PARTS"
	TicketStatusQA             TicketStatus = "QA"
	TicketStatusReadyForPickup TicketStatus = "READY_FOR_PICKUP"
	TicketStatusPickedUp       TicketStatus = "PICKED_UP"
	TicketStatusCancelled      TicketStatus = "CANCELLED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Ticket is the aggregate for repair jobs. TicketNumber and BarcodeData are
// assigned once at creation and never change. Customer, device and technician
// ids are opaque references owned by other systems.
type Ticket struct {
	ID                   string
	OrganizationID       string
	TicketNumber         string
	BarcodeData          string
	CustomerID           string
	DeviceID             *string
	AssignedTechnicianID *string
	StorageLocationID    *string
	Title                string
	Description          string
	ProblemDescription   string
	Diagnosis            string
	Status               TicketStatus
	Priority             TicketPriority
	Tags                 []string
	SLATargetAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	StartedAt            *time.Time
	CompletedAt          *time.Time
	PickedUpAt           *time.Time
}
