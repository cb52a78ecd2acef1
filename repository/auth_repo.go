package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/models"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken is returned when an identity already uses the email.
var ErrEmailTaken = errors.New("email already registered")

// CreateAuthUser inserts a new identity after hashing the password.
func CreateAuthUser(ctx context.Context, db DBTX, u *models.AuthUser) error {
	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	u.ID = uuid.NewString()
	query := `INSERT INTO auth_users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	err = db.QueryRowContext(ctx, query, u.ID, u.Email, string(hashedPassword)).Scan(&u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("error inserting user: %w", err)
	}

	// Clear the plaintext password from the struct after successful insertion
	u.Password = ""
	return nil
}

// GetAuthUserByEmail retrieves an identity, including its password hash.
func GetAuthUserByEmail(ctx context.Context, db DBTX, email string) (*models.AuthUser, error) {
	var u models.AuthUser
	query := `SELECT id, email, password_hash, created_at FROM auth_users WHERE lower(email) = lower($1)`
	err := db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found, return nil error and nil user
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return &u, nil
}

// CheckPasswordHash compares a plaintext password with a stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil // Returns true if password matches hash
}

// Register creates the identity and its researcher profile in one
// transaction.
func Register(ctx context.Context, db *sql.DB, reg models.Registration) (*models.AuthUser, *models.Profile, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error starting registration: %w", err)
	}
	defer tx.Rollback()

	user := &models.AuthUser{Email: reg.Email, Password: reg.Password}
	if err := CreateAuthUser(ctx, tx, user); err != nil {
		return nil, nil, err
	}

	profile := &models.Profile{
		ID:          user.ID,
		FullName:    reg.FullName,
		Role:        models.RoleResearcher,
		Institution: reg.Institution,
		Department:  reg.Department,
	}
	if err := CreateProfile(ctx, tx, profile); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("error committing registration: %w", err)
	}
	return user, profile, nil
}
