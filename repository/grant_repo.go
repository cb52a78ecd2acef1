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

const grantColumns = `id, title, description, category, funding_amount, duration, status, submitter_id, funder,
	start_date, end_date, department, collaborators, student_involvement, report_submitted, agreement_signed,
	created_at, updated_at`

func scanGrant(row rowScanner, g *models.Grant) error {
	return row.Scan(&g.ID, &g.Title, &g.Description, &g.Category, &g.FundingAmount, &g.Duration, &g.Status,
		&g.SubmitterID, &g.Funder, &g.StartDate, &g.EndDate, &g.Department, &g.Collaborators,
		&g.StudentInvolvement, &g.ReportSubmitted, &g.AgreementSigned, &g.CreatedAt, &g.UpdatedAt)
}

// CreateGrant inserts a new grant and fills in its id and timestamps.
func CreateGrant(ctx context.Context, db DBTX, g *models.Grant) error {
	g.ID = uuid.NewString()
	query := `INSERT INTO grants (id, title, description, category, funding_amount, duration, status, submitter_id, funder,
		start_date, end_date, department, collaborators, student_involvement, report_submitted, agreement_signed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`
	err := db.QueryRowContext(ctx, query, g.ID, g.Title, g.Description, g.Category, g.FundingAmount, g.Duration,
		g.Status, g.SubmitterID, g.Funder, g.StartDate, g.EndDate, g.Department, g.Collaborators,
		g.StudentInvolvement, g.ReportSubmitted, g.AgreementSigned).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting grant: %w", err)
	}
	return nil
}

// GetGrantByID retrieves a single grant by its ID.
func GetGrantByID(ctx context.Context, db DBTX, id string) (*models.Grant, error) {
	var g models.Grant
	err := scanGrant(db.QueryRowContext(ctx, `SELECT `+grantColumns+` FROM grants WHERE id = $1`, id), &g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil for both when not found
		}
		return nil, fmt.Errorf("error getting grant by ID: %w", err)
	}
	return &g, nil
}

// UpdateGrant replaces every writable column of an existing grant. The
// submitter and creation time are never rewritten.
func UpdateGrant(ctx context.Context, db DBTX, g *models.Grant) error {
	query := `UPDATE grants SET title = $1, description = $2, category = $3, funding_amount = $4, duration = $5,
		status = $6, funder = $7, start_date = $8, end_date = $9, department = $10, collaborators = $11,
		student_involvement = $12, report_submitted = $13, agreement_signed = $14, updated_at = CURRENT_TIMESTAMP
		WHERE id = $15
		RETURNING submitter_id, created_at, updated_at`
	err := db.QueryRowContext(ctx, query, g.Title, g.Description, g.Category, g.FundingAmount, g.Duration, g.Status,
		g.Funder, g.StartDate, g.EndDate, g.Department, g.Collaborators, g.StudentInvolvement, g.ReportSubmitted,
		g.AgreementSigned, g.ID).Scan(&g.SubmitterID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("error updating grant: %w", err)
	}
	return nil
}

// DeleteGrant deletes a grant; its documents, reviews and other children
// cascade in the store.
func DeleteGrant(ctx context.Context, db DBTX, id string) error {
	return DeleteRow(ctx, db, TableGrants, id)
}

func grantWhere(f models.GrantFilter) (string, []interface{}) {
	var conditions []string
	args := []interface{}{}
	placeholderCount := 1

	if f.Status != nil {
		conditions = append(conditions, fmt.Sprintf(`status = $%d`, placeholderCount))
		args = append(args, *f.Status)
		placeholderCount++
	}
	if f.Category != "" {
		conditions = append(conditions, fmt.Sprintf(`category ILIKE $%d`, placeholderCount))
		args = append(args, f.Category)
		placeholderCount++
	}
	if f.SubmitterID != "" {
		conditions = append(conditions, fmt.Sprintf(`submitter_id = $%d`, placeholderCount))
		args = append(args, f.SubmitterID)
		placeholderCount++
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf(`(title ILIKE $%d OR funder ILIKE $%d)`, placeholderCount, placeholderCount))
		args = append(args, "%"+f.Search+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListGrants returns a page of grants matching f, newest first, plus the
// total number of matches.
func ListGrants(ctx context.Context, db DBTX, f models.GrantFilter, limit, offset int) ([]models.Grant, int, error) {
	where, args := grantWhere(f)

	query := fmt.Sprintf(`SELECT %s FROM grants%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		grantColumns, where, len(args)+1, len(args)+2)
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying grants page: %w", err)
	}
	defer rows.Close()

	grants := []models.Grant{}
	for rows.Next() {
		var g models.Grant
		if err := scanGrant(rows, &g); err != nil {
			return nil, 0, fmt.Errorf("error scanning grant row: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating through grant rows: %w", err)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grants`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error querying total grant count: %w", err)
	}

	return grants, total, nil
}

// GrantStatusCounts counts grants per status. Every declared status is
// present in the result. An empty submitterID counts all grants.
func GrantStatusCounts(ctx context.Context, db DBTX, submitterID string) (map[models.GrantStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM grants`
	args := []interface{}{}
	if submitterID != "" {
		query += ` WHERE submitter_id = $1`
		args = append(args, submitterID)
	}
	query += ` GROUP BY status`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting grants by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.GrantStatus]int, len(models.GrantStatuses))
	for _, s := range models.GrantStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var (
			status models.GrantStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("error scanning status count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating status counts: %w", err)
	}
	return counts, nil
}

// GrantFundingTotals sums requested funding and the approved share.
func GrantFundingTotals(ctx context.Context, db DBTX, submitterID string) (models.FundingTotals, error) {
	query := `SELECT COALESCE(SUM(funding_amount), 0),
		COALESCE(SUM(funding_amount) FILTER (WHERE status = 'approved'), 0)
		FROM grants`
	args := []interface{}{}
	if submitterID != "" {
		query += ` WHERE submitter_id = $1`
		args = append(args, submitterID)
	}

	var t models.FundingTotals
	if err := db.QueryRowContext(ctx, query, args...).Scan(&t.Requested, &t.Approved); err != nil {
		return models.FundingTotals{}, fmt.Errorf("error summing grant funding: %w", err)
	}
	return t, nil
}
