package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/giftwell/lookalike-api/internal/core"
	"github.com/giftwell/lookalike-api/internal/data/pgxutil"
	"github.com/giftwell/lookalike-api/internal/domain/model"
)

// RecipientRepo provides database operations for recipients.
type RecipientRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRecipientRepo creates a new RecipientRepo with real time provider.
func NewRecipientRepo(db *sql.DB) *RecipientRepo {
	return &RecipientRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewRecipientRepoWithTimeProvider creates a new RecipientRepo with a custom time provider (useful for tests).
func NewRecipientRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RecipientRepo {
	return &RecipientRepo{DB: db, timeProvider: tp}
}

const recipientColumns = `id, first_name, last_name, email, phone, company, title, country, city, photo_url, linkedin_url, campaign_id, created_at, updated_at`

// Create inserts a new recipient. The full name is split into first and last
// at insert time so downstream consumers never see the raw combined form.
func (r *RecipientRepo) Create(ctx context.Context, req *model.CreateRecipientRequest) (*model.Recipient, error) {
	if req == nil {
		return nil, errors.New("create recipient request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	first, last := model.SplitFullName(req.FullName)

	var out model.Recipient
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO recipients (
				first_name, last_name, email, phone, company, title, country, city,
				photo_url, linkedin_url, campaign_id, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
			) RETURNING `+recipientColumns,
			first,
			last,
			req.Email,
			req.Phone,
			req.Company,
			req.Title,
			req.Country,
			req.City,
			req.PhotoURL,
			req.LinkedInURL,
			req.CampaignID,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Recipient])
		return err
	}); err != nil {
		return nil, fmt.Errorf("create recipient: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a recipient by ID.
func (r *RecipientRepo) GetByID(ctx context.Context, id string) (*model.Recipient, error) {
	var out model.Recipient
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+recipientColumns+` FROM recipients WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Recipient])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	return &out, nil
}

// BackfillCampaign stamps the campaign onto every recipient in the list whose
// campaign differs. IS DISTINCT FROM makes re-runs no-ops, so a redelivered
// finalize step cannot inflate the changed-row count.
func (r *RecipientRepo) BackfillCampaign(ctx context.Context, params core.BackfillCampaignParams) (int64, error) {
	if params.ListID == "" || params.CampaignID == "" {
		return 0, errors.New("list id and campaign id are required")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE recipients rec
		SET campaign_id = $2,
		    updated_at = $3
		FROM list_recipients lr
		WHERE lr.recipient_id = rec.id
		  AND lr.list_id = $1
		  AND rec.campaign_id IS DISTINCT FROM $2
	`, params.ListID, params.CampaignID, r.timeProvider.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("backfill campaign: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("backfill campaign rows affected: %w", err)
	}
	return rowsAffected, nil
}
