package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/models"
)

// CreateCollaboration records a partner on a grant.
func CreateCollaboration(ctx context.Context, db DBTX, c *models.Collaboration) error {
	c.ID = uuid.NewString()
	query := `INSERT INTO collaborations (id, grant_id, partner_name, partner_type, contribution_type, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	err := db.QueryRowContext(ctx, query, c.ID, c.GrantID, c.PartnerName, c.PartnerType, c.ContributionType,
		c.StartDate, c.EndDate).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting collaboration: %w", err)
	}
	return nil
}

// ListCollaborationsByGrant retrieves all partners of a specific grant.
func ListCollaborationsByGrant(ctx context.Context, db DBTX, grantID string) ([]models.Collaboration, error) {
	query := `SELECT id, grant_id, partner_name, partner_type, contribution_type, start_date, end_date, created_at
		FROM collaborations WHERE grant_id = $1 ORDER BY partner_name`
	rows, err := db.QueryContext(ctx, query, grantID)
	if err != nil {
		return nil, fmt.Errorf("error querying collaborations by grant: %w", err)
	}
	defer rows.Close()

	collabs := []models.Collaboration{}
	for rows.Next() {
		var c models.Collaboration
		if err := rows.Scan(&c.ID, &c.GrantID, &c.PartnerName, &c.PartnerType, &c.ContributionType,
			&c.StartDate, &c.EndDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning collaboration row: %w", err)
		}
		collabs = append(collabs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating through collaboration rows: %w", err)
	}
	return collabs, nil
}

// UpdateCollaboration replaces an existing collaboration's writable fields.
func UpdateCollaboration(ctx context.Context, db DBTX, c *models.Collaboration) error {
	query := `UPDATE collaborations SET partner_name = $1, partner_type = $2, contribution_type = $3,
		start_date = $4, end_date = $5 WHERE id = $6`
	res, err := db.ExecContext(ctx, query, c.PartnerName, c.PartnerType, c.ContributionType, c.StartDate, c.EndDate, c.ID)
	if err != nil {
		return fmt.Errorf("error updating collaboration: %w", err)
	}
	return checkAffected(res, TableCollaborations)
}

func DeleteCollaboration(ctx context.Context, db DBTX, id string) error {
	return DeleteRow(ctx, db, TableCollaborations, id)
}
