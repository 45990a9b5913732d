package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Store reads and writes site content in Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	if db == nil {
		panic("catalog: database required")
	}
	return &Store{db: db}
}

// ---- stand types ----

const standTypeColumns = `id, slug, name, description, features, images, sort_order, published, created_at, updated_at`

func (s *Store) ListStandTypes(ctx context.Context, publishedOnly bool) ([]StandType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+standTypeColumns+`
		FROM stand_types
		WHERE ($1 = false OR published = true)
		ORDER BY sort_order ASC, name ASC`, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("catalog: list stand types: %w", err)
	}
	defer rows.Close()

	out := []StandType{}
	for rows.Next() {
		st, err := scanStandType(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan stand type: %w", err)
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (s *Store) GetStandType(ctx context.Context, slug string, publishedOnly bool) (*StandType, error) {
	st, err := scanStandType(s.db.QueryRowContext(ctx, `
		SELECT `+standTypeColumns+`
		FROM stand_types
		WHERE slug = $1 AND ($2 = false OR published = true)`, slug, publishedOnly))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get stand type: %w", err)
	}
	return st, nil
}

func (s *Store) CreateStandType(ctx context.Context, st *StandType) error {
	st.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO stand_types (id, slug, name, description, features, images, sort_order, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		st.ID, st.Slug, st.Name, st.Description, pq.Array(st.Features), pq.Array(st.Images), st.SortOrder, st.Published,
	).Scan(&st.CreatedAt, &st.UpdatedAt)
	return writeErr("create stand type", err)
}

func (s *Store) UpdateStandType(ctx context.Context, st *StandType) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE stand_types
		SET slug = $2, name = $3, description = $4, features = $5, images = $6, sort_order = $7, published = $8, updated_at = $9
		WHERE id = $1
		RETURNING created_at, updated_at`,
		st.ID, st.Slug, st.Name, st.Description, pq.Array(st.Features), pq.Array(st.Images), st.SortOrder, st.Published, time.Now().UTC(),
	).Scan(&st.CreatedAt, &st.UpdatedAt)
	return writeErr("update stand type", err)
}

func (s *Store) DeleteStandType(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "stand_types", id)
}

func scanStandType(row interface{ Scan(...any) error }) (*StandType, error) {
	var st StandType
	if err := row.Scan(&st.ID, &st.Slug, &st.Name, &st.Description,
		pq.Array(&st.Features), pq.Array(&st.Images), &st.SortOrder, &st.Published,
		&st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.Features = nonNil(st.Features)
	st.Images = nonNil(st.Images)
	return &st, nil
}

// ---- services ----

const serviceColumns = `id, slug, title, summary, description, icon, images, sort_order, published, created_at, updated_at`

func (s *Store) ListServices(ctx context.Context, publishedOnly bool) ([]Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE ($1 = false OR published = true)
		ORDER BY sort_order ASC, title ASC`, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	out := []Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		out = append(out, *svc)
	}
	return out, rows.Err()
}

func (s *Store) GetService(ctx context.Context, slug string, publishedOnly bool) (*Service, error) {
	svc, err := scanService(s.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE slug = $1 AND ($2 = false OR published = true)`, slug, publishedOnly))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get service: %w", err)
	}
	return svc, nil
}

func (s *Store) CreateService(ctx context.Context, svc *Service) error {
	svc.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO services (id, slug, title, summary, description, icon, images, sort_order, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		svc.ID, svc.Slug, svc.Title, svc.Summary, svc.Description, svc.Icon, pq.Array(svc.Images), svc.SortOrder, svc.Published,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	return writeErr("create service", err)
}

func (s *Store) UpdateService(ctx context.Context, svc *Service) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE services
		SET slug = $2, title = $3, summary = $4, description = $5, icon = $6, images = $7, sort_order = $8, published = $9, updated_at = $10
		WHERE id = $1
		RETURNING created_at, updated_at`,
		svc.ID, svc.Slug, svc.Title, svc.Summary, svc.Description, svc.Icon, pq.Array(svc.Images), svc.SortOrder, svc.Published, time.Now().UTC(),
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	return writeErr("update service", err)
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "services", id)
}

func scanService(row interface{ Scan(...any) error }) (*Service, error) {
	var svc Service
	if err := row.Scan(&svc.ID, &svc.Slug, &svc.Title, &svc.Summary, &svc.Description, &svc.Icon,
		pq.Array(&svc.Images), &svc.SortOrder, &svc.Published, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
		return nil, err
	}
	svc.Images = nonNil(svc.Images)
	return &svc, nil
}

// ---- projects ----

const projectColumns = `id, slug, title, client, event_name, location, year, stand_type, size_sqm,
	description, images, featured, published, sort_order, created_at, updated_at`

func (s *Store) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE ($1 = false OR published = true)
		  AND ($2 = false OR featured = true)
		  AND ($3 = '' OR stand_type = $3)
		ORDER BY sort_order ASC, created_at DESC`,
		filter.PublishedOnly, filter.FeaturedOnly, filter.StandType)
	if err != nil {
		return nil, fmt.Errorf("catalog: list projects: %w", err)
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, slug string, publishedOnly bool) (*Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE slug = $1 AND ($2 = false OR published = true)`, slug, publishedOnly))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get project: %w", err)
	}
	return p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *Project) error {
	p.ID = uuid.New().String()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, slug, title, client, event_name, location, year, stand_type, size_sqm,
		    description, images, featured, published, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		p.ID, p.Slug, p.Title, p.Client, p.EventName, p.Location, p.Year, p.StandType, p.SizeSqm,
		p.Description, pq.Array(p.Images), p.Featured, p.Published, p.SortOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return writeErr("create project", err)
}

func (s *Store) UpdateProject(ctx context.Context, p *Project) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE projects
		SET slug = $2, title = $3, client = $4, event_name = $5, location = $6, year = $7, stand_type = $8,
		    size_sqm = $9, description = $10, images = $11, featured = $12, published = $13, sort_order = $14, updated_at = $15
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.Slug, p.Title, p.Client, p.EventName, p.Location, p.Year, p.StandType,
		p.SizeSqm, p.Description, pq.Array(p.Images), p.Featured, p.Published, p.SortOrder, time.Now().UTC(),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return writeErr("update project", err)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "projects", id)
}

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	var p Project
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Client, &p.EventName, &p.Location, &p.Year,
		&p.StandType, &p.SizeSqm, &p.Description, pq.Array(&p.Images), &p.Featured, &p.Published,
		&p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Images = nonNil(p.Images)
	return &p, nil
}

// ---- shared ----

// table is always one of the package constants above, never user input.
func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: delete from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ErrSlugTaken
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrSlugTaken
	}
	return fmt.Errorf("catalog: %s: %w", op, err)
}
