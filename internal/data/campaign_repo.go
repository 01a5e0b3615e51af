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

// ErrCampaignParentNotFound is returned when a boost references a missing parent campaign.
var ErrCampaignParentNotFound = errors.New("parent campaign not found")

// CampaignRepo provides database operations for campaigns.
type CampaignRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCampaignRepo creates a new CampaignRepo with real time provider.
func NewCampaignRepo(db *sql.DB) *CampaignRepo {
	return &CampaignRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCampaignRepoWithTimeProvider creates a new CampaignRepo with a custom time provider (useful for tests).
func NewCampaignRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CampaignRepo {
	return &CampaignRepo{DB: db, timeProvider: tp}
}

const campaignColumns = `id, name, parent_campaign_id, status, total_recipients, budget_cents, created_at, updated_at`

// Create inserts a new campaign in the draft state.
func (r *CampaignRepo) Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if req == nil {
		return nil, errors.New("create campaign request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Campaign
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO campaigns (name, parent_campaign_id, status, budget_cents, created_at)
			VALUES ($1, $2, 'draft', $3, $4)
			RETURNING `+campaignColumns,
			strings.TrimSpace(req.Name),
			req.ParentCampaignID,
			req.BudgetCents,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Campaign])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrCampaignParentNotFound
		}
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a campaign by ID.
func (r *CampaignRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	var out model.Campaign
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Campaign])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return &out, nil
}

// List retrieves campaigns with pagination, newest first.
func (r *CampaignRepo) List(ctx context.Context, limit, offset int) ([]*model.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Campaign
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+campaignColumns+`
			FROM campaigns
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Campaign])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}

	res := make([]*model.Campaign, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update applies a partial update to a campaign.
func (r *CampaignRepo) Update(ctx context.Context, id string, req model.UpdateCampaignRequest) (*model.Campaign, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClauses := []string{}
	args := []any{id}
	argIdx := 2

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, strings.TrimSpace(*req.Name))
		argIdx++
	}
	if req.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *req.Status)
		argIdx++
	}
	if req.BudgetCents != nil {
		setClauses = append(setClauses, fmt.Sprintf("budget_cents = $%d", argIdx))
		args = append(args, *req.BudgetCents)
		argIdx++
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, r.timeProvider.Now().UTC())

	query := `
		UPDATE campaigns
		SET ` + strings.Join(setClauses, ", ") + `
		WHERE id = $1
		RETURNING ` + campaignColumns

	var out model.Campaign
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, query, args...)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		var cerr error
		out, cerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Campaign])
		return cerr
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return &out, nil
}

// Finalize applies the end-of-enrichment aggregate update in one transaction:
// the campaign's status and recipient total, plus the parent's status when the
// campaign is a boost. The parent keeps its own recipient total.
func (r *CampaignRepo) Finalize(ctx context.Context, params core.FinalizeCampaignParams) (*model.Campaign, error) {
	if params.CampaignID == "" {
		return nil, errors.New("campaign id is required")
	}
	if !params.Status.Valid() {
		return nil, fmt.Errorf("invalid campaign status: %s", params.Status)
	}
	if params.RecipientTotal < 0 {
		return nil, errors.New("recipient total must be non-negative")
	}

	currentTime := r.timeProvider.Now().UTC()

	var out model.Campaign
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			row := tx.QueryRowContext(ctx, `
				UPDATE campaigns
				SET status = $2,
				    total_recipients = $3,
				    updated_at = $4
				WHERE id = $1
				RETURNING `+campaignColumns,
				params.CampaignID, params.Status, params.RecipientTotal, currentTime)

			if scanErr := scanCampaignRow(row, &out); scanErr != nil {
				if errors.Is(scanErr, sql.ErrNoRows) {
					return ErrCampaignNotFound
				}
				return fmt.Errorf("finalize campaign: %w", scanErr)
			}

			if out.ParentCampaignID == nil || *out.ParentCampaignID == "" {
				return nil
			}

			res, execErr := tx.ExecContext(ctx, `
				UPDATE campaigns
				SET status = $2,
				    updated_at = $3
				WHERE id = $1
			`, *out.ParentCampaignID, params.Status, currentTime)
			if execErr != nil {
				return fmt.Errorf("finalize parent campaign: %w", execErr)
			}
			rowsAffected, raErr := res.RowsAffected()
			if raErr != nil {
				return fmt.Errorf("finalize parent rows affected: %w", raErr)
			}
			if rowsAffected == 0 {
				return ErrCampaignParentNotFound
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a campaign.
func (r *CampaignRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete campaign: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete campaign rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func scanCampaignRow(row *sql.Row, out *model.Campaign) error {
	var parentID sql.NullString
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&parentID,
		&out.Status,
		&out.TotalRecipients,
		&out.BudgetCents,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return err
	}
	out.ParentCampaignID = cloneNullableString(parentID)
	return nil
}
