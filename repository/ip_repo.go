package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/models"
)

const ipColumns = `ip.id, ip.grant_id, ip.title, ip.type, ip.status, ip.filing_date, ip.approval_date, ip.reference_number, ip.created_at`

func scanIP(row rowScanner, ip *models.IntellectualProperty, extra ...interface{}) error {
	dest := []interface{}{&ip.ID, &ip.GrantID, &ip.Title, &ip.Type, &ip.Status, &ip.FilingDate, &ip.ApprovalDate,
		&ip.ReferenceNumber, &ip.CreatedAt}
	return row.Scan(append(dest, extra...)...)
}

// CreateIntellectualProperty inserts an IP record for a grant.
func CreateIntellectualProperty(ctx context.Context, db DBTX, ip *models.IntellectualProperty) error {
	ip.ID = uuid.NewString()
	query := `INSERT INTO intellectual_property (id, grant_id, title, type, status, filing_date, approval_date, reference_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := db.QueryRowContext(ctx, query, ip.ID, ip.GrantID, ip.Title, ip.Type, ip.Status, ip.FilingDate,
		ip.ApprovalDate, ip.ReferenceNumber).Scan(&ip.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting intellectual property: %w", err)
	}
	return nil
}

// ListIntellectualPropertyByGrant returns the plain rows of one grant.
func ListIntellectualPropertyByGrant(ctx context.Context, db DBTX, grantID string) ([]models.IntellectualProperty, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+ipColumns+` FROM intellectual_property ip WHERE ip.grant_id = $1 ORDER BY ip.created_at DESC`, grantID)
	if err != nil {
		return nil, fmt.Errorf("error querying intellectual property: %w", err)
	}
	defer rows.Close()

	items := []models.IntellectualProperty{}
	for rows.Next() {
		var ip models.IntellectualProperty
		if err := scanIP(rows, &ip); err != nil {
			return nil, fmt.Errorf("error scanning intellectual property row: %w", err)
		}
		items = append(items, ip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating intellectual property rows: %w", err)
	}
	return items, nil
}

// ListIntellectualPropertyWithGrant returns IP records hydrated with the
// owning grant's title. An empty submitterID lists every grant's records.
func ListIntellectualPropertyWithGrant(ctx context.Context, db DBTX, submitterID string) ([]models.IntellectualPropertyView, error) {
	query := `SELECT ` + ipColumns + `, g.title FROM intellectual_property ip JOIN grants g ON g.id = ip.grant_id`
	args := []interface{}{}
	if submitterID != "" {
		query += ` WHERE g.submitter_id = $1`
		args = append(args, submitterID)
	}
	query += ` ORDER BY ip.created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying intellectual property with grants: %w", err)
	}
	defer rows.Close()

	items := []models.IntellectualPropertyView{}
	for rows.Next() {
		var (
			v     models.IntellectualPropertyView
			title string
		)
		if err := scanIP(rows, &v.IntellectualProperty, &title); err != nil {
			return nil, fmt.Errorf("error scanning intellectual property view: %w", err)
		}
		v.Grants = &models.GrantTitle{Title: title}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating intellectual property views: %w", err)
	}
	return items, nil
}

// UpdateIntellectualProperty replaces the writable columns of a record. It
// takes the persisted row type only; hydrated views cannot be written back.
func UpdateIntellectualProperty(ctx context.Context, db DBTX, ip *models.IntellectualProperty) error {
	query := `UPDATE intellectual_property SET title = $1, type = $2, status = $3, filing_date = $4, approval_date = $5,
		reference_number = $6 WHERE id = $7`
	res, err := db.ExecContext(ctx, query, ip.Title, ip.Type, ip.Status, ip.FilingDate, ip.ApprovalDate,
		ip.ReferenceNumber, ip.ID)
	if err != nil {
		return fmt.Errorf("error updating intellectual property: %w", err)
	}
	return checkAffected(res, TableIntellectualProperty)
}

func DeleteIntellectualProperty(ctx context.Context, db DBTX, id string) error {
	return DeleteRow(ctx, db, TableIntellectualProperty, id)
}
