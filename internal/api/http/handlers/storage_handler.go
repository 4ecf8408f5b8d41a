package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repairdesk-service/internal/api/dto"
	"github.com/spec-kit/repairdesk-service/internal/auth"
	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/service"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// StorageHandler manages bin slot endpoints.
type StorageHandler struct {
	allocator *service.StorageAllocator
}

// NewStorageHandler constructs handler.
func NewStorageHandler(allocator *service.StorageAllocator) *StorageHandler {
	return &StorageHandler{allocator: allocator}
}

// ListLocations GET /storage-locations.
func (h *StorageHandler) ListLocations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	locations, err := h.allocator.ListLocations(c.Context(), principal.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]dto.StorageLocationResponse, 0, len(locations))
	for i := range locations {
		items = append(items, storageLocationResponse(&locations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateLocation POST /storage-locations.
func (h *StorageHandler) CreateLocation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateStorageLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	location, err := h.allocator.CreateLocation(c.Context(), principal.OrganizationID, req.Zone, req.Shelf, req.Bin, req.Label)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": storageLocationResponse(location)})
}

func storageLocationResponse(location *domain.StorageLocation) dto.StorageLocationResponse {
	return dto.StorageLocationResponse{
		ID:         location.ID,
		Zone:       location.Zone,
		Shelf:      location.Shelf,
		Bin:        location.Bin,
		Label:      location.Label,
		IsOccupied: location.IsOccupied,
		CreatedAt:  location.CreatedAt,
	}
}
