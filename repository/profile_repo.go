package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kelydev/apiGrants/models"
)

// CreateProfile inserts the profile for an auth identity. p.ID must already
// hold the identity's id.
func CreateProfile(ctx context.Context, db DBTX, p *models.Profile) error {
	query := `INSERT INTO profiles (id, full_name, role, institution, department)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err := db.QueryRowContext(ctx, query, p.ID, p.FullName, p.Role, p.Institution, p.Department).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting profile: %w", err)
	}
	return nil
}

// GetProfileByID retrieves a profile by its identity id.
func GetProfileByID(ctx context.Context, db DBTX, id string) (*models.Profile, error) {
	var p models.Profile
	query := `SELECT id, full_name, role, institution, department, created_at, updated_at FROM profiles WHERE id = $1`
	err := db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.FullName, &p.Role, &p.Institution, &p.Department, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil for both when not found
		}
		return nil, fmt.Errorf("error getting profile by ID: %w", err)
	}
	return &p, nil
}

// UpdateProfile replaces a profile's descriptive fields. The role is left to
// UpdateProfileRole so that a self-service update cannot escalate it.
func UpdateProfile(ctx context.Context, db DBTX, p *models.Profile) error {
	query := `UPDATE profiles SET full_name = $1, institution = $2, department = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 RETURNING role, created_at, updated_at`
	err := db.QueryRowContext(ctx, query, p.FullName, p.Institution, p.Department, p.ID).
		Scan(&p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// UpdateProfileRole changes the role of profile id.
func UpdateProfileRole(ctx context.Context, db DBTX, id string, role models.Role) error {
	res, err := db.ExecContext(ctx, `UPDATE profiles SET role = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("error updating profile role: %w", err)
	}
	return checkAffected(res, TableProfiles)
}

// ProfileStore adapts the package functions to the session package's
// profile loader.
type ProfileStore struct {
	DB DBTX
}

func (s ProfileStore) LoadProfile(ctx context.Context, id string) (*models.Profile, error) {
	return GetProfileByID(ctx, s.DB, id)
}
