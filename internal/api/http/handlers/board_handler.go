package handlers

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repairdesk-service/internal/api/dto"
	"github.com/spec-kit/repairdesk-service/internal/auth"
	"github.com/spec-kit/repairdesk-service/internal/board"
	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/service"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// BoardHandler exposes the kanban column view and the two-phase move protocol.
// Controllers are kept per organization so boards never mix tenants.
type BoardHandler struct {
	service *service.TicketService
	boards  *boardRegistry
}

// NewBoardHandler constructs handler.
func NewBoardHandler(ticketService *service.TicketService) *BoardHandler {
	h := &BoardHandler{service: ticketService}
	h.boards = newBoardRegistry(h.transitionFor)
	return h
}

// GetBoard GET /board.
func (h *BoardHandler) GetBoard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	controller, err := h.loadBoard(c, principal.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BoardResponse{Columns: controller.Columns()}})
}

// MoveTicket POST /board/move. Runs the full BeginMove/CommitMove cycle for
// one drop: the optimistic apply, the authoritative transition, and the
// snapshot rollback when the transition is rejected.
func (h *BoardHandler) MoveTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BoardMoveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	controller, err := h.loadBoard(c, principal.OrganizationID)
	if err != nil {
		return err
	}
	if _, err := controller.BeginMove(req.TicketID); err != nil {
		return err
	}
	ctx := auth.WithPrincipal(c.Context(), principal)
	result, err := controller.CommitMove(ctx, req.TicketID, domain.TicketStatus(req.ToStatus))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"moved":   result.Moved,
		"columns": controller.Columns(),
	}})
}

func (h *BoardHandler) loadBoard(c *fiber.Ctx, organizationID string) (*board.Controller, error) {
	controller := h.boards.get(organizationID)
	tickets, err := h.service.ListTickets(c.Context(), organizationID, service.TicketListFilter{Limit: boardLoadLimit})
	if err != nil {
		return nil, err
	}
	controller.Load(tickets)
	return controller, nil
}

func (h *BoardHandler) transitionFor(organizationID string) board.TransitionFunc {
	return func(ctx context.Context, ticketID string, to domain.TicketStatus) error {
		actorID := ""
		if principal, ok := auth.PrincipalFrom(ctx); ok {
			actorID = principal.UserID
		}
		_, err := h.service.TransitionTicket(ctx, organizationID, actorID, ticketID, to, nil, nil)
		return err
	}
}

const boardLoadLimit = 500

type boardRegistry struct {
	mu          sync.Mutex
	controllers map[string]*board.Controller
	factory     func(organizationID string) board.TransitionFunc
}

func newBoardRegistry(factory func(organizationID string) board.TransitionFunc) *boardRegistry {
	return &boardRegistry{
		controllers: map[string]*board.Controller{},
		factory:     factory,
	}
}

func (r *boardRegistry) get(organizationID string) *board.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	controller, ok := r.controllers[organizationID]
	if !ok {
		controller = board.NewController(r.factory(organizationID))
		r.controllers[organizationID] = controller
	}
	return controller
}
