package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()
	size := 500
	q := &QuoteRequest{
		ContactName: "Deniz",
		Email:       "deniz@example.com",
		SizeSqm:     &size,
		Status:      StatusNew,
		Source:      SourceWebsite,
		IPAddress:   "127.0.0.1",
	}

	mock.ExpectQuery("INSERT INTO quote_requests").
		WithArgs(
			pgxmock.AnyArg(), "Deniz", "deniz@example.com",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			&size,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
			StatusNew, SourceWebsite, "127.0.0.1", pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), q))
	assert.Len(t, q.ID, 36)
	assert.Equal(t, now, q.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()
	size := 80
	standType := "modular"
	mock.ExpectQuery("SELECT (.+) FROM quote_requests WHERE id").
		WithArgs("q-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "contact_name", "email", "company_name", "phone", "stand_type", "event_name", "event_date",
			"location", "size_sqm", "budget_range", "message", "status", "source", "ip_address", "user_agent", "created_at", "updated_at",
		}).AddRow(
			"q-1", "Deniz", "deniz@example.com", (*string)(nil), (*string)(nil), &standType, (*string)(nil), (*time.Time)(nil),
			(*string)(nil), &size, (*string)(nil), (*string)(nil), StatusNew, SourceWebsite, "127.0.0.1", (*string)(nil), now, now,
		))

	q, err := repo.GetByID(context.Background(), "q-1")
	require.NoError(t, err)
	require.NotNil(t, q.SizeSqm)
	assert.Equal(t, 80, *q.SizeSqm)
	require.NotNil(t, q.StandType)
	assert.Equal(t, "modular", *q.StandType)

	mock.ExpectQuery("SELECT (.+) FROM quote_requests WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestPostgresRepositoryUpdateStatusAndDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectExec("UPDATE quote_requests").
		WithArgs("q-1", StatusWon).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), "q-1", StatusWon))

	mock.ExpectExec("DELETE FROM quote_requests").
		WithArgs("q-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "q-9"), ErrQuoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
