package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/models"
)

const fundingCallColumns = `id, title, funder, description, category, deadline, eligibility, link, created_at`

func scanFundingCall(row rowScanner, c *models.FundingCall) error {
	return row.Scan(&c.ID, &c.Title, &c.Funder, &c.Description, &c.Category, &c.Deadline, &c.Eligibility,
		&c.Link, &c.CreatedAt)
}

func CreateFundingCall(ctx context.Context, db DBTX, c *models.FundingCall) error {
	c.ID = uuid.NewString()
	query := `INSERT INTO funding_calls (id, title, funder, description, category, deadline, eligibility, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := db.QueryRowContext(ctx, query, c.ID, c.Title, c.Funder, c.Description, c.Category, c.Deadline,
		c.Eligibility, c.Link).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting funding call: %w", err)
	}
	return nil
}

func GetFundingCallByID(ctx context.Context, db DBTX, id string) (*models.FundingCall, error) {
	var c models.FundingCall
	err := scanFundingCall(db.QueryRowContext(ctx, `SELECT `+fundingCallColumns+` FROM funding_calls WHERE id = $1`, id), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting funding call by ID: %w", err)
	}
	return &c, nil
}

// ListFundingCalls returns a page of calls by deadline. today is only used
// when f.OpenOnly is set.
func ListFundingCalls(ctx context.Context, db DBTX, f models.FundingCallFilter, today models.Date, limit, offset int) ([]models.FundingCall, int, error) {
	var conditions []string
	args := []interface{}{}

	if f.Category != "" {
		args = append(args, f.Category)
		conditions = append(conditions, fmt.Sprintf(`$%d = ANY(category)`, len(args)))
	}
	if f.OpenOnly {
		args = append(args, today)
		conditions = append(conditions, fmt.Sprintf(`deadline >= $%d`, len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM funding_calls%s ORDER BY deadline LIMIT $%d OFFSET $%d`,
		fundingCallColumns, where, len(args)+1, len(args)+2)
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying funding calls page: %w", err)
	}
	defer rows.Close()

	calls := []models.FundingCall{}
	for rows.Next() {
		var c models.FundingCall
		if err := scanFundingCall(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("error scanning funding call row: %w", err)
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating through funding call rows: %w", err)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM funding_calls`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error querying total funding call count: %w", err)
	}
	return calls, total, nil
}

func UpdateFundingCall(ctx context.Context, db DBTX, c *models.FundingCall) error {
	query := `UPDATE funding_calls SET title = $1, funder = $2, description = $3, category = $4, deadline = $5,
		eligibility = $6, link = $7 WHERE id = $8`
	res, err := db.ExecContext(ctx, query, c.Title, c.Funder, c.Description, c.Category, c.Deadline, c.Eligibility,
		c.Link, c.ID)
	if err != nil {
		return fmt.Errorf("error updating funding call: %w", err)
	}
	return checkAffected(res, TableFundingCalls)
}

func DeleteFundingCall(ctx context.Context, db DBTX, id string) error {
	return DeleteRow(ctx, db, TableFundingCalls, id)
}
