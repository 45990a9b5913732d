package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eksdesign/stand-platform/internal/contacts"
	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/eksdesign/stand-platform/internal/quotes"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/lib/pq"
)

// openQuoteStatuses are quote requests still being worked by staff.
var openQuoteStatuses = []string{quotes.StatusNew, quotes.StatusContacted, quotes.StatusQuoted}

// AdminDashboardHandler serves the admin overview and the admin user list.
type AdminDashboardHandler struct {
	db     *sql.DB
	logger *logging.Logger
	now    func() time.Time
}

// NewAdminDashboardHandler creates a new admin dashboard handler.
func NewAdminDashboardHandler(db *sql.DB, logger *logging.Logger) *AdminDashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminDashboardHandler{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// DashboardOverviewResponse contains the admin dashboard counters.
type DashboardOverviewResponse struct {
	Contacts       ContactMetrics  `json:"contacts"`
	Quotes         QuoteMetrics    `json:"quotes"`
	Projects       ProjectMetrics  `json:"projects"`
	PendingActions []PendingAction `json:"pending_actions"`
}

// ContactMetrics summarizes the contact inbox.
type ContactMetrics struct {
	Total       int `json:"total"`
	Unread      int `json:"unread"`
	NewThisWeek int `json:"new_this_week"`
}

// QuoteMetrics summarizes the quote pipeline.
type QuoteMetrics struct {
	Total       int `json:"total"`
	New         int `json:"new"`
	Open        int `json:"open"`
	Won         int `json:"won"`
	NewThisWeek int `json:"new_this_week"`
}

// ProjectMetrics summarizes portfolio content.
type ProjectMetrics struct {
	Total     int `json:"total"`
	Published int `json:"published"`
}

// PendingAction represents an action requiring staff attention.
type PendingAction struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	Link        string `json:"link,omitempty"`
}

type countQuery struct {
	dst   *int
	query string
	args  []any
}

// GetDashboardOverview returns the admin dashboard counters.
// GET /admin/dashboard
func (h *AdminDashboardHandler) GetDashboardOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	weekAgo := h.now().UTC().AddDate(0, 0, -7)

	var dashboard DashboardOverviewResponse
	queries := []countQuery{
		{&dashboard.Contacts.Total, `SELECT COUNT(*) FROM contact_messages`, nil},
		{&dashboard.Contacts.Unread, `SELECT COUNT(*) FROM contact_messages WHERE status = $1`, []any{contacts.StatusUnread}},
		{&dashboard.Contacts.NewThisWeek, `SELECT COUNT(*) FROM contact_messages WHERE created_at >= $1`, []any{weekAgo}},
		{&dashboard.Quotes.Total, `SELECT COUNT(*) FROM quote_requests`, nil},
		{&dashboard.Quotes.New, `SELECT COUNT(*) FROM quote_requests WHERE status = $1`, []any{quotes.StatusNew}},
		{&dashboard.Quotes.Open, `SELECT COUNT(*) FROM quote_requests WHERE status = ANY($1)`, []any{pq.Array(openQuoteStatuses)}},
		{&dashboard.Quotes.Won, `SELECT COUNT(*) FROM quote_requests WHERE status = $1`, []any{quotes.StatusWon}},
		{&dashboard.Quotes.NewThisWeek, `SELECT COUNT(*) FROM quote_requests WHERE created_at >= $1`, []any{weekAgo}},
		{&dashboard.Projects.Total, `SELECT COUNT(*) FROM projects`, nil},
		{&dashboard.Projects.Published, `SELECT COUNT(*) FROM projects WHERE published = TRUE`, nil},
	}
	if err := h.runCounts(ctx, queries); err != nil {
		h.logger.Error("failed to load dashboard", "error", err)
		intake.WriteError(w, http.StatusInternalServerError, intake.MsgServerFailed)
		return
	}

	dashboard.PendingActions = pendingActions(dashboard)
	intake.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *AdminDashboardHandler) runCounts(ctx context.Context, queries []countQuery) error {
	for _, q := range queries {
		if err := h.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return fmt.Errorf("dashboard: count %q: %w", q.query, err)
		}
	}
	return nil
}

func pendingActions(d DashboardOverviewResponse) []PendingAction {
	actions := []PendingAction{}
	if d.Quotes.New > 0 {
		actions = append(actions, PendingAction{
			Type:        "quote_request",
			Priority:    "high",
			Description: "New quote requests awaiting first contact",
			Count:       d.Quotes.New,
			Link:        "/admin/quotes?status=" + quotes.StatusNew,
		})
	}
	if d.Contacts.Unread > 0 {
		actions = append(actions, PendingAction{
			Type:        "contact",
			Priority:    "medium",
			Description: "Unread contact messages",
			Count:       d.Contacts.Unread,
			Link:        "/admin/contacts?status=" + contacts.StatusUnread,
		})
	}
	return actions
}

// AdminUser is one row of the admin user list.
type AdminUser struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FullName     *string `json:"full_name,omitempty"`
	Role         string  `json:"role"`
	CreatedAt    string  `json:"created_at"`
	LastSignInAt *string `json:"last_sign_in_at,omitempty"`
}

// ListUsersResponse contains the admin users.
type ListUsersResponse struct {
	Users []AdminUser `json:"users"`
	Total int         `json:"total"`
}

// ListUsers returns admin panel users, optionally filtered by
// ?role=admin,editor.
// GET /admin/users
func (h *AdminDashboardHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roles := []string{}
	for _, role := range strings.Split(r.URL.Query().Get("role"), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}

	query := `
		SELECT id, email, full_name, role, created_at, last_sign_in_at
		FROM admin_users
		WHERE (cardinality($1::text[]) = 0 OR role = ANY($1))
		ORDER BY email ASC
	`
	rows, err := h.db.QueryContext(ctx, query, pq.Array(roles))
	if err != nil {
		h.logger.Error("failed to query admin users", "error", err)
		intake.WriteError(w, http.StatusInternalServerError, intake.MsgServerFailed)
		return
	}
	defer rows.Close()

	users := []AdminUser{}
	for rows.Next() {
		var (
			u          AdminUser
			fullName   sql.NullString
			createdAt  time.Time
			lastSignIn sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Email, &fullName, &u.Role, &createdAt, &lastSignIn); err != nil {
			h.logger.Error("failed to scan admin user row", "error", err)
			continue
		}
		if fullName.Valid {
			u.FullName = &fullName.String
		}
		u.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		if lastSignIn.Valid {
			ts := lastSignIn.Time.UTC().Format(time.RFC3339)
			u.LastSignInAt = &ts
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		h.logger.Error("error iterating admin user rows", "error", err)
		intake.WriteError(w, http.StatusInternalServerError, intake.MsgServerFailed)
		return
	}

	intake.WriteJSON(w, http.StatusOK, ListUsersResponse{Users: users, Total: len(users)})
}
