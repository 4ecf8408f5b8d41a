package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository hands out monotonically increasing ticket sequence
// numbers scoped to an organization and calendar year. The upsert takes a row
// lock on the counter, which serializes concurrent allocations for a scope.
type SequenceRepository interface {
	NextSequence(ctx context.Context, organizationID string, year int) (int, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository builds repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

func (r *sequenceRepository) NextSequence(ctx context.Context, organizationID string, year int) (int, error) {
	const query = `
        INSERT INTO ticket_sequences (organization_id, year, next_seq)
        VALUES ($1, $2, 1)
        ON CONFLICT (organization_id, year)
        DO UPDATE SET next_seq = ticket_sequences.next_seq + 1
        RETURNING next_seq`
	var seq int
	if err := queryTarget(ctx, r.pool).QueryRow(ctx, query, organizationID, year).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}
