package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRow(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func newDashboardHandler(t *testing.T) (*AdminDashboardHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewAdminDashboardHandler(db, logging.Default())
	h.now = func() time.Time { return time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC) }
	return h, mock
}

func TestGetDashboardOverview(t *testing.T) {
	h, mock := newDashboardHandler(t)
	weekAgo := time.Date(2026, 5, 13, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contact_messages")).WillReturnRows(countRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("FROM contact_messages WHERE status = $1")).WithArgs("unread").WillReturnRows(countRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("FROM contact_messages WHERE created_at >= $1")).WithArgs(weekAgo).WillReturnRows(countRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM quote_requests")).WillReturnRows(countRow(9))
	mock.ExpectQuery(regexp.QuoteMeta("FROM quote_requests WHERE status = $1")).WithArgs("new").WillReturnRows(countRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM quote_requests WHERE status = ANY($1)")).WithArgs(`{"new","contacted","quoted"}`).WillReturnRows(countRow(5))
	mock.ExpectQuery(regexp.QuoteMeta("FROM quote_requests WHERE status = $1")).WithArgs("won").WillReturnRows(countRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("FROM quote_requests WHERE created_at >= $1")).WithArgs(weekAgo).WillReturnRows(countRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM projects")).WillReturnRows(countRow(20))
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE published = TRUE")).WillReturnRows(countRow(17))

	rec := httptest.NewRecorder()
	h.GetDashboardOverview(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DashboardOverviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, ContactMetrics{Total: 12, Unread: 4, NewThisWeek: 3}, resp.Contacts)
	assert.Equal(t, QuoteMetrics{Total: 9, New: 2, Open: 5, Won: 3, NewThisWeek: 1}, resp.Quotes)
	assert.Equal(t, ProjectMetrics{Total: 20, Published: 17}, resp.Projects)
	require.Len(t, resp.PendingActions, 2)
	assert.Equal(t, "quote_request", resp.PendingActions[0].Type)
	assert.Equal(t, 2, resp.PendingActions[0].Count)
	assert.Equal(t, "contact", resp.PendingActions[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDashboardOverview_DatabaseError(t *testing.T) {
	h, mock := newDashboardHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contact_messages")).WillReturnError(assert.AnError)

	rec := httptest.NewRecorder()
	h.GetDashboardOverview(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingActionsEmpty(t *testing.T) {
	actions := pendingActions(DashboardOverviewResponse{})
	assert.NotNil(t, actions)
	assert.Empty(t, actions)
}

var userCols = []string{"id", "email", "full_name", "role", "created_at", "last_sign_in_at"}

func TestListUsers_Success(t *testing.T) {
	h, mock := newDashboardHandler(t)
	created := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	signedIn := time.Date(2026, 5, 19, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, email, full_name, role, created_at, last_sign_in_at FROM admin_users").
		WithArgs("{}").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "anna@eksdesign.example", "Anna Petrova", "admin", created, signedIn).
			AddRow("u-2", "ops@eksdesign.example", nil, "editor", created, nil))

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListUsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Total)
	require.NotNil(t, resp.Users[0].FullName)
	assert.Equal(t, "Anna Petrova", *resp.Users[0].FullName)
	require.NotNil(t, resp.Users[0].LastSignInAt)
	assert.Equal(t, "2026-05-19T18:00:00Z", *resp.Users[0].LastSignInAt)
	assert.Equal(t, "2026-01-15T09:30:00Z", resp.Users[1].CreatedAt)
	assert.Nil(t, resp.Users[1].FullName)
	assert.Nil(t, resp.Users[1].LastSignInAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_RoleFilter(t *testing.T) {
	h, mock := newDashboardHandler(t)
	mock.ExpectQuery("FROM admin_users").
		WithArgs(`{"admin","editor"}`).
		WillReturnRows(sqlmock.NewRows(userCols))

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/admin/users?role=admin,%20editor,", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":[],"total":0}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_DatabaseError(t *testing.T) {
	h, mock := newDashboardHandler(t)
	mock.ExpectQuery("FROM admin_users").WillReturnError(assert.AnError)

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
