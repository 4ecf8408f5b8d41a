package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/repository"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// StorageAllocator binds physical bin slots to tickets. Occupancy is
// exclusive: a slot that is already taken cannot be handed to a second ticket.
type StorageAllocator struct {
	locations repository.StorageLocationRepository
}

// NewStorageAllocator constructs the allocator.
func NewStorageAllocator(locations repository.StorageLocationRepository) *StorageAllocator {
	return &StorageAllocator{locations: locations}
}

// Occupy claims a slot for the caller's organization. It fails with NotFound
// for unknown or foreign slots and with Conflict when the slot is taken.
func (a *StorageAllocator) Occupy(ctx context.Context, organizationID, locationID string) (*domain.StorageLocation, error) {
	location, err := a.locations.GetByID(ctx, organizationID, locationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("storage location", nil)
		}
		return nil, err
	}
	if err := a.locations.Occupy(ctx, location.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("storage location", nil)
		}
		return nil, err
	}
	location.IsOccupied = true
	return location, nil
}

// Release frees a slot. Releasing an already free slot is a no-op.
func (a *StorageAllocator) Release(ctx context.Context, locationID string) error {
	return a.locations.Release(ctx, locationID)
}

// CreateLocation registers a new bin slot.
func (a *StorageAllocator) CreateLocation(ctx context.Context, organizationID, zone, shelf, bin, label string) (*domain.StorageLocation, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apperrors.NewValidationError("label required", nil)
	}
	location := &domain.StorageLocation{
		OrganizationID: organizationID,
		Zone:           strings.TrimSpace(zone),
		Shelf:          strings.TrimSpace(shelf),
		Bin:            strings.TrimSpace(bin),
		Label:          label,
	}
	if err := a.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// ListLocations returns the organization's bin slots.
func (a *StorageAllocator) ListLocations(ctx context.Context, organizationID string) ([]domain.StorageLocation, error) {
	return a.locations.List(ctx, organizationID)
}
