package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/models"
)

const deliverableColumns = `d.id, d.grant_id, d.title, d.description, d.due_date, d.status, d.created_at`

func scanDeliverable(row rowScanner, d *models.Deliverable) error {
	return row.Scan(&d.ID, &d.GrantID, &d.Title, &d.Description, &d.DueDate, &d.Status, &d.CreatedAt)
}

func queryDeliverables(ctx context.Context, db DBTX, query string, args ...interface{}) ([]models.Deliverable, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying deliverables: %w", err)
	}
	defer rows.Close()

	items := []models.Deliverable{}
	for rows.Next() {
		var d models.Deliverable
		if err := scanDeliverable(rows, &d); err != nil {
			return nil, fmt.Errorf("error scanning deliverable row: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating through deliverable rows: %w", err)
	}
	return items, nil
}

// CreateDeliverable inserts a deliverable owed by a grant.
func CreateDeliverable(ctx context.Context, db DBTX, d *models.Deliverable) error {
	d.ID = uuid.NewString()
	query := `INSERT INTO deliverables (id, grant_id, title, description, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := db.QueryRowContext(ctx, query, d.ID, d.GrantID, d.Title, d.Description, d.DueDate, d.Status).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting deliverable: %w", err)
	}
	return nil
}

// ListDeliverablesByGrant returns a grant's deliverables by due date.
func ListDeliverablesByGrant(ctx context.Context, db DBTX, grantID string) ([]models.Deliverable, error) {
	return queryDeliverables(ctx, db,
		`SELECT `+deliverableColumns+` FROM deliverables d WHERE d.grant_id = $1 ORDER BY d.due_date`, grantID)
}

// ListUpcomingDeliverables returns pending deliverables due within
// [from, to], soonest first. An empty submitterID spans every grant.
func ListUpcomingDeliverables(ctx context.Context, db DBTX, submitterID string, from, to models.Date, limit int) ([]models.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables d JOIN grants g ON g.id = d.grant_id
		WHERE d.status = 'pending' AND d.due_date BETWEEN $1 AND $2`
	args := []interface{}{from, to}
	if submitterID != "" {
		query += ` AND g.submitter_id = $3`
		args = append(args, submitterID)
	}
	query += fmt.Sprintf(` ORDER BY d.due_date LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return queryDeliverables(ctx, db, query, args...)
}

// UpdateDeliverable replaces a deliverable's writable fields.
func UpdateDeliverable(ctx context.Context, db DBTX, d *models.Deliverable) error {
	query := `UPDATE deliverables SET title = $1, description = $2, due_date = $3, status = $4 WHERE id = $5`
	res, err := db.ExecContext(ctx, query, d.Title, d.Description, d.DueDate, d.Status, d.ID)
	if err != nil {
		return fmt.Errorf("error updating deliverable: %w", err)
	}
	return checkAffected(res, TableDeliverables)
}

func DeleteDeliverable(ctx context.Context, db DBTX, id string) error {
	return DeleteRow(ctx, db, TableDeliverables, id)
}

// MarkOverdueDeliverables moves every pending deliverable due before today
// to overdue and returns how many rows changed.
func MarkOverdueDeliverables(ctx context.Context, db DBTX, today models.Date) (int64, error) {
	res, err := db.ExecContext(ctx, `UPDATE deliverables SET status = 'overdue' WHERE status = 'pending' AND due_date < $1`, today)
	if err != nil {
		return 0, fmt.Errorf("error marking overdue deliverables: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading overdue count: %w", err)
	}
	return n, nil
}
