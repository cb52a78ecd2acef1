package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/models"
)

// CreateReview stores a reviewer's assessment of a grant.
func CreateReview(ctx context.Context, db DBTX, r *models.Review) error {
	r.ID = uuid.NewString()
	query := `INSERT INTO reviews (id, grant_id, reviewer_id, rating, comments, recommendation)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := db.QueryRowContext(ctx, query, r.ID, r.GrantID, r.ReviewerID, r.Rating, r.Comments, r.Recommendation).
		Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting review: %w", err)
	}
	return nil
}

// ListReviewsByGrant returns the grant's reviews, oldest first.
func ListReviewsByGrant(ctx context.Context, db DBTX, grantID string) ([]models.Review, error) {
	query := `SELECT id, grant_id, reviewer_id, rating, comments, recommendation, created_at
		FROM reviews WHERE grant_id = $1 ORDER BY created_at`
	rows, err := db.QueryContext(ctx, query, grantID)
	if err != nil {
		return nil, fmt.Errorf("error querying reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.GrantID, &r.ReviewerID, &r.Rating, &r.Comments, &r.Recommendation, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating through review rows: %w", err)
	}
	return reviews, nil
}

// GetReviewByID returns nil when no review has that id.
func GetReviewByID(ctx context.Context, db DBTX, id string) (*models.Review, error) {
	query := `SELECT id, grant_id, reviewer_id, rating, comments, recommendation, created_at
		FROM reviews WHERE id = $1`
	var r models.Review
	err := db.QueryRowContext(ctx, query, id).
		Scan(&r.ID, &r.GrantID, &r.ReviewerID, &r.Rating, &r.Comments, &r.Recommendation, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching review: %w", err)
	}
	return &r, nil
}

func DeleteReview(ctx context.Context, db DBTX, id string) error {
	return DeleteRow(ctx, db, TableReviews, id)
}
