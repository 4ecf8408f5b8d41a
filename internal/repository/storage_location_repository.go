package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repairdesk-service/internal/domain"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// StorageLocationRepository manages physical bin slots. Occupy is conditional:
// it fails with a conflict when the slot is already taken, so two tickets can
// never hold the same bin.
type StorageLocationRepository interface {
	Create(ctx context.Context, location *domain.StorageLocation) error
	GetByID(ctx context.Context, organizationID, id string) (*domain.StorageLocation, error)
	List(ctx context.Context, organizationID string) ([]domain.StorageLocation, error)
	Occupy(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
}

type storageLocationRepository struct {
	pool *pgxpool.Pool
}

// NewStorageLocationRepository builds repository.
func NewStorageLocationRepository(pool *pgxpool.Pool) StorageLocationRepository {
	return &storageLocationRepository{pool: pool}
}

func (r *storageLocationRepository) Create(ctx context.Context, location *domain.StorageLocation) error {
	const query = `
        INSERT INTO storage_locations (organization_id, zone, shelf, bin, label, is_occupied)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return queryTarget(ctx, r.pool).QueryRow(ctx, query,
		location.OrganizationID,
		location.Zone,
		location.Shelf,
		location.Bin,
		location.Label,
		location.IsOccupied,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
}

func (r *storageLocationRepository) GetByID(ctx context.Context, organizationID, id string) (*domain.StorageLocation, error) {
	const query = `
        SELECT id, organization_id, zone, shelf, bin, label, is_occupied, created_at, updated_at
        FROM storage_locations WHERE id=$1 AND organization_id=$2`
	var location domain.StorageLocation
	if err := queryTarget(ctx, r.pool).QueryRow(ctx, query, id, organizationID).Scan(
		&location.ID,
		&location.OrganizationID,
		&location.Zone,
		&location.Shelf,
		&location.Bin,
		&location.Label,
		&location.IsOccupied,
		&location.CreatedAt,
		&location.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *storageLocationRepository) List(ctx context.Context, organizationID string) ([]domain.StorageLocation, error) {
	const query = `
        SELECT id, organization_id, zone, shelf, bin, label, is_occupied, created_at, updated_at
        FROM storage_locations WHERE organization_id=$1 ORDER BY zone, shelf, bin`
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StorageLocation
	for rows.Next() {
		var location domain.StorageLocation
		if err := rows.Scan(
			&location.ID,
			&location.OrganizationID,
			&location.Zone,
			&location.Shelf,
			&location.Bin,
			&location.Label,
			&location.IsOccupied,
			&location.CreatedAt,
			&location.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, location)
	}
	return result, rows.Err()
}

func (r *storageLocationRepository) Occupy(ctx context.Context, id string) error {
	const query = `
        UPDATE storage_locations SET is_occupied=TRUE, updated_at=NOW()
        WHERE id=$1 AND is_occupied=FALSE`
	cmd, err := queryTarget(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Either the slot does not exist or it is already taken; distinguish.
		var exists bool
		if err := queryTarget(ctx, r.pool).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM storage_locations WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return apperrors.NewConflict("storage location already occupied", map[string]any{"location_id": id})
	}
	return nil
}

func (r *storageLocationRepository) Release(ctx context.Context, id string) error {
	const query = `
        UPDATE storage_locations SET is_occupied=FALSE, updated_at=NOW()
        WHERE id=$1`
	_, err := queryTarget(ctx, r.pool).Exec(ctx, query, id)
	return err
}
