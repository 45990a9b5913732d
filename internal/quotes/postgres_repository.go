package quotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var quotesTracer = otel.Tracer("eks.internal.quotes")

// PgxPool is the subset of pgxpool.Pool used by PostgresRepository.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores quote requests in the quote_requests table.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("quotes: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const quoteColumns = `id, contact_name, email, company_name, phone, stand_type, event_name, event_date,
	location, size_sqm, budget_range, message, status, source, ip_address, user_agent, created_at, updated_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, q *QuoteRequest) error {
	ctx, span := quotesTracer.Start(ctx, "quotes.create")
	defer span.End()

	id := uuid.New()
	query := `
		INSERT INTO quote_requests (
			id, contact_name, email, company_name, phone, stand_type, event_name, event_date,
			location, size_sqm, budget_range, message, status, source, ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		id,
		q.ContactName,
		q.Email,
		q.CompanyName,
		q.Phone,
		q.StandType,
		q.EventName,
		q.EventDate,
		q.Location,
		q.SizeSqm,
		q.BudgetRange,
		q.Message,
		q.Status,
		q.Source,
		q.IPAddress,
		q.UserAgent,
	).Scan(&q.CreatedAt, &q.UpdatedAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("quotes: insert failed: %w", err)
	}
	q.ID = id.String()
	span.SetAttributes(attribute.String("quote.id", q.ID))
	return nil
}

// GetByID fetches a single quote request.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*QuoteRequest, error) {
	query := `SELECT ` + quoteColumns + ` FROM quote_requests WHERE id = $1`
	q, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("quotes: get failed: %w", err)
	}
	return q, nil
}

// List returns requests newest first along with the unpaginated total.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*QuoteRequest, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quote_requests WHERE ($1 = '' OR status = $1)`,
		filter.Status,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("quotes: count failed: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + quoteColumns + ` FROM quote_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("quotes: list failed: %w", err)
	}
	defer rows.Close()

	out := []*QuoteRequest{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("quotes: scan failed: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("quotes: list failed: %w", err)
	}
	return out, total, nil
}

// UpdateStatus moves a request through the sales workflow.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE quote_requests SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("quotes: update status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quote_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("quotes: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

func scanQuote(row pgx.Row) (*QuoteRequest, error) {
	var q QuoteRequest
	if err := row.Scan(
		&q.ID,
		&q.ContactName,
		&q.Email,
		&q.CompanyName,
		&q.Phone,
		&q.StandType,
		&q.EventName,
		&q.EventDate,
		&q.Location,
		&q.SizeSqm,
		&q.BudgetRange,
		&q.Message,
		&q.Status,
		&q.Source,
		&q.IPAddress,
		&q.UserAgent,
		&q.CreatedAt,
		&q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*InMemoryRepository)(nil)
)
