package contacts

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

var contactsTracer = otel.Tracer("eks.internal.contacts")

// PgxPool is the subset of pgxpool.Pool used by PostgresRepository.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores contact messages in the contact_messages table.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("contacts: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const contactColumns = `id, name, email, phone, subject, message, status, ip_address, user_agent, created_at, updated_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, msg *ContactMessage) error {
	ctx, span := contactsTracer.Start(ctx, "contacts.create")
	defer span.End()

	id := uuid.New()
	query := `
		INSERT INTO contact_messages (id, name, email, phone, subject, message, status, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		id,
		msg.Name,
		msg.Email,
		msg.Phone,
		msg.Subject,
		msg.Message,
		msg.Status,
		msg.IPAddress,
		msg.UserAgent,
	).Scan(&msg.CreatedAt, &msg.UpdatedAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("contacts: insert failed: %w", err)
	}
	msg.ID = id.String()
	span.SetAttributes(attribute.String("contact.id", msg.ID))
	return nil
}

// GetByID fetches a single contact message.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages WHERE id = $1`
	msg, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("contacts: get failed: %w", err)
	}
	return msg, nil
}

// List returns messages newest first along with the unpaginated total.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*ContactMessage, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contact_messages WHERE ($1 = '' OR status = $1)`,
		filter.Status,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contacts: count failed: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + contactColumns + ` FROM contact_messages
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("contacts: list failed: %w", err)
	}
	defer rows.Close()

	messages := []*ContactMessage{}
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("contacts: scan failed: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("contacts: list failed: %w", err)
	}
	return messages, total, nil
}

// UpdateStatus moves a message through the admin workflow.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE contact_messages SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("contacts: update status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("contacts: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*ContactMessage, error) {
	var msg ContactMessage
	if err := row.Scan(
		&msg.ID,
		&msg.Name,
		&msg.Email,
		&msg.Phone,
		&msg.Subject,
		&msg.Message,
		&msg.Status,
		&msg.IPAddress,
		&msg.UserAgent,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
