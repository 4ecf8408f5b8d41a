package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repairdesk-service/internal/api/dto"
	"github.com/spec-kit/repairdesk-service/internal/service"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// PortalHandler serves the unauthenticated customer status page. Lookups are
// by barcode payload only and the projection strips staff-only fields.
type PortalHandler struct {
	service *service.TicketService
}

// NewPortalHandler constructs handler.
func NewPortalHandler(ticketService *service.TicketService) *PortalHandler {
	return &PortalHandler{service: ticketService}
}

// GetTicketStatus GET /portal/tickets/:barcodeData. The organization comes
// from the query because the barcode payload alone does not carry tenancy.
func (h *PortalHandler) GetTicketStatus(c *fiber.Ctx) error {
	organizationID := c.Query("org")
	if organizationID == "" {
		return apperrors.NewValidationError("org query parameter is required", nil)
	}
	barcode, err := decodeParam(c, "barcodeData")
	if err != nil {
		return err
	}

	ticket, err := h.service.LookupByBarcode(c.Context(), organizationID, barcode)
	if err != nil {
		return err
	}
	notes, err := h.service.CustomerNotes(c.Context(), organizationID, ticket.ID)
	if err != nil {
		return err
	}

	noteResponses := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		noteResponses = append(noteResponses, noteResponse(&notes[i]))
	}
	return c.JSON(fiber.Map{"data": dto.PortalTicketResponse{
		TicketNumber: ticket.TicketNumber,
		Title:        ticket.Title,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		CreatedAt:    ticket.CreatedAt,
		CompletedAt:  ticket.CompletedAt,
		PickedUpAt:   ticket.PickedUpAt,
		Notes:        noteResponses,
	}})
}
