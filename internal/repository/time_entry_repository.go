package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repairdesk-service/internal/domain"
)

// TimeEntryRepository manages the append-only billable-time ledger.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error)
	SumHoursByTicket(ctx context.Context, ticketID string) (float64, error)
}

type timeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository builds repository.
func NewTimeEntryRepository(pool *pgxpool.Pool) TimeEntryRepository {
	return &timeEntryRepository{pool: pool}
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	const query = `
        INSERT INTO time_entries (ticket_id, author_id, description, hours, entry_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return queryTarget(ctx, r.pool).QueryRow(ctx, query,
		entry.TicketID,
		entry.AuthorID,
		entry.Description,
		entry.Hours,
		entry.EntryDate,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *timeEntryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error) {
	const query = `
        SELECT id, ticket_id, author_id, description, hours, entry_date, created_at
        FROM time_entries WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimeEntry
	for rows.Next() {
		var entry domain.TimeEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.AuthorID,
			&entry.Description,
			&entry.Hours,
			&entry.EntryDate,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *timeEntryRepository) SumHoursByTicket(ctx context.Context, ticketID string) (float64, error) {
	const query = `SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE ticket_id=$1`
	var total float64
	if err := queryTarget(ctx, r.pool).QueryRow(ctx, query, ticketID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
