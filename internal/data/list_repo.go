package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/data/pgxutil"
	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// ErrListNameExists is returned when attempting to create a list with a duplicate name.
var ErrListNameExists = errors.New("list name already exists")

// ListRepo provides database operations for recipient lists.
type ListRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewListRepo creates a new ListRepo with real time provider.
func NewListRepo(db *sql.DB) *ListRepo {
	return &ListRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewListRepoWithTimeProvider creates a new ListRepo with a custom time provider (useful for tests).
func NewListRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ListRepo {
	return &ListRepo{DB: db, timeProvider: tp}
}

const listColumns = `id, name, status, recipient_count, created_at, updated_at`

// Create inserts a new list in the pending state.
func (r *ListRepo) Create(ctx context.Context, req *model.CreateListRequest) (*model.List, error) {
	if req == nil {
		return nil, errors.New("create list request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.List
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO lists (name, status, created_at)
			VALUES ($1, 'pending', $2)
			RETURNING `+listColumns,
			strings.TrimSpace(req.Name),
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.List])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrListNameExists
		}
		return nil, fmt.Errorf("create list: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a list by ID.
func (r *ListRepo) GetByID(ctx context.Context, id string) (*model.List, error) {
	var out model.List
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+listColumns+` FROM lists WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.List])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return &out, nil
}

// List retrieves lists with pagination, newest first.
func (r *ListRepo) List(ctx context.Context, limit, offset int) ([]*model.List, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.List
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+listColumns+`
			FROM lists
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.List])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}

	res := make([]*model.List, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// listTransitionSources maps a target status to the statuses it may be reached from.
// This mirrors model.ListStatus.CanTransitionTo so the guard holds under concurrency.
func listTransitionSources(next model.ListStatus) []string {
	switch next {
	case model.ListStatusBuilding:
		return []string{string(model.ListStatusPending), string(model.ListStatusActive), string(model.ListStatusFailed)}
	case model.ListStatusActive:
		return []string{string(model.ListStatusBuilding)}
	case model.ListStatusFailed:
		return []string{string(model.ListStatusPending), string(model.ListStatusBuilding)}
	default:
		return nil
	}
}

// SetStatus advances the list lifecycle. The legal-source check happens in the
// UPDATE predicate, so a stale caller sees false instead of clobbering state.
func (r *ListRepo) SetStatus(ctx context.Context, id string, status model.ListStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("invalid list status: %s", status)
	}
	sources := listTransitionSources(status)
	if len(sources) == 0 {
		return false, fmt.Errorf("list status %s is not a valid transition target", status)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE lists
		SET status = $2,
		    updated_at = $3
		WHERE id = $1 AND status = ANY($4)
	`, id, status, r.timeProvider.Now().UTC(), sources)
	if err != nil {
		return false, fmt.Errorf("set list status: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set list status rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// AppendRecipient inserts the membership row and bumps the denormalized
// recipient counter in a single statement, so the two can never diverge
// mid-build. Returns the counter value after the append.
func (r *ListRepo) AppendRecipient(ctx context.Context, params core.AppendRecipientParams) (int, error) {
	if params.ListID == "" || params.RecipientID == "" {
		return 0, errors.New("list id and recipient id are required")
	}

	const query = `
		WITH membership AS (
			INSERT INTO list_recipients (list_id, recipient_id)
			VALUES ($1, $2)
			ON CONFLICT (list_id, recipient_id) DO NOTHING
			RETURNING list_id
		)
		UPDATE lists l
		SET recipient_count = l.recipient_count + (SELECT count(*) FROM membership),
		    updated_at = $3
		WHERE l.id = $1
		RETURNING l.recipient_count`

	var count int
	err := r.DB.QueryRowContext(ctx, query, params.ListID, params.RecipientID, r.timeProvider.Now().UTC()).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrListNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, ErrListNotFound
		}
		return 0, fmt.Errorf("append recipient to list: %w", err)
	}
	return count, nil
}

// RefreshCount re-derives the recipient counter from actual membership and
// returns it. Called at build completion so any drift self-heals.
func (r *ListRepo) RefreshCount(ctx context.Context, listID string) (int, error) {
	if listID == "" {
		return 0, errors.New("list id is required")
	}

	const query = `
		UPDATE lists l
		SET recipient_count = (
			SELECT count(*) FROM list_recipients lr WHERE lr.list_id = l.id
		),
		    updated_at = $2
		WHERE l.id = $1
		RETURNING l.recipient_count`

	var count int
	err := r.DB.QueryRowContext(ctx, query, listID, r.timeProvider.Now().UTC()).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrListNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("refresh list count: %w", err)
	}
	return count, nil
}

// ListRecipients retrieves the recipients of a list in append order.
func (r *ListRepo) ListRecipients(ctx context.Context, listID string, limit, offset int) ([]*model.Recipient, error) {
	if listID == "" {
		return nil, errors.New("list id is required")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
		SELECT r.id, r.first_name, r.last_name, r.email, r.phone, r.company, r.title,
		       r.country, r.city, r.photo_url, r.linkedin_url, r.campaign_id,
		       r.created_at, r.updated_at
		FROM list_recipients lr
		JOIN recipients r ON r.id = lr.recipient_id
		WHERE lr.list_id = $1
		ORDER BY lr.added_at ASC, r.id ASC
		LIMIT $2 OFFSET $3`

	var rowsOut []model.Recipient
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, listID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Recipient])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}

	res := make([]*model.Recipient, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete removes a list and its membership rows.
func (r *ListRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete list: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete list rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
