package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/repairdesk-service/internal/domain"
)

// TicketFilter captures listing parameters. OrganizationID is mandatory; every
// query is scoped to a single organization.
type TicketFilter struct {
	OrganizationID string
	CustomerID     *string
	AssignedTechID *string
	Statuses       []domain.TicketStatus
	Priorities     []domain.TicketPriority
	Tags           []string
	SearchTerm     *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence. Lookups take the caller's
// organization id so a ticket from another organization behaves as absent.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, organizationID, id string) error
	GetByID(ctx context.Context, organizationID, id string) (*domain.Ticket, error)
	GetByIDForUpdate(ctx context.Context, organizationID, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, organizationID, ticketNumber string) (*domain.Ticket, error)
	GetByBarcode(ctx context.Context, organizationID, barcodeData string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, organization_id, ticket_number, barcode_data, customer_id, device_id,
               assigned_technician_id, storage_location_id, title, description, problem_description,
               diagnosis, status, priority, tags, sla_target_at, created_at, updated_at,
               started_at, completed_at, picked_up_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (organization_id, ticket_number, barcode_data, customer_id, device_id,
                             assigned_technician_id, storage_location_id, title, description,
                             problem_description, diagnosis, status, priority, tags, sla_target_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return queryTarget(ctx, r.pool).QueryRow(ctx, query,
		ticket.OrganizationID,
		ticket.TicketNumber,
		ticket.BarcodeData,
		ticket.CustomerID,
		ticket.DeviceID,
		ticket.AssignedTechnicianID,
		ticket.StorageLocationID,
		ticket.Title,
		ticket.Description,
		ticket.ProblemDescription,
		ticket.Diagnosis,
		ticket.Status,
		ticket.Priority,
		ticket.Tags,
		ticket.SLATargetAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET customer_id=$1, device_id=$2, assigned_technician_id=$3,
            storage_location_id=$4, title=$5, description=$6, problem_description=$7,
            diagnosis=$8, status=$9, priority=$10, tags=$11, sla_target_at=$12,
            started_at=$13, completed_at=$14, picked_up_at=$15, updated_at=NOW()
        WHERE id=$16 AND organization_id=$17`
	cmd, err := queryTarget(ctx, r.pool).Exec(ctx, query,
		ticket.CustomerID,
		ticket.DeviceID,
		ticket.AssignedTechnicianID,
		ticket.StorageLocationID,
		ticket.Title,
		ticket.Description,
		ticket.ProblemDescription,
		ticket.Diagnosis,
		ticket.Status,
		ticket.Priority,
		ticket.Tags,
		ticket.SLATargetAt,
		ticket.StartedAt,
		ticket.CompletedAt,
		ticket.PickedUpAt,
		ticket.ID,
		ticket.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, organizationID, id string) error {
	cmd, err := queryTarget(ctx, r.pool).Exec(ctx,
		`DELETE FROM tickets WHERE id=$1 AND organization_id=$2`, id, organizationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, organizationID, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 AND organization_id=$2`
	return r.fetchSingle(ctx, query, id, organizationID)
}

func (r *ticketRepository) GetByIDForUpdate(ctx context.Context, organizationID, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 AND organization_id=$2 FOR UPDATE`
	return r.fetchSingle(ctx, query, id, organizationID)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, organizationID, ticketNumber string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number=$1 AND organization_id=$2`
	return r.fetchSingle(ctx, query, ticketNumber, organizationID)
}

func (r *ticketRepository) GetByBarcode(ctx context.Context, organizationID, barcodeData string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE barcode_data=$1 AND organization_id=$2`
	return r.fetchSingle(ctx, query, barcodeData, organizationID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(queryTarget(ctx, r.pool).QueryRow(ctx, query, args...), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	args := []any{filter.OrganizationID}
	clauses := []string{"organization_id=$1"}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.AssignedTechID != nil {
		args = append(args, *filter.AssignedTechID)
		clauses = append(clauses, fmt.Sprintf("assigned_technician_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		clauses = append(clauses, fmt.Sprintf("tags @> $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(problem_description) LIKE %s OR LOWER(ticket_number) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.OrganizationID,
		&ticket.TicketNumber,
		&ticket.BarcodeData,
		&ticket.CustomerID,
		&ticket.DeviceID,
		&ticket.AssignedTechnicianID,
		&ticket.StorageLocationID,
		&ticket.Title,
		&ticket.Description,
		&ticket.ProblemDescription,
		&ticket.Diagnosis,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Tags,
		&ticket.SLATargetAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.StartedAt,
		&ticket.CompletedAt,
		&ticket.PickedUpAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
