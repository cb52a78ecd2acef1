package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/models"
)

const documentColumns = `id, grant_id, name, file_path, file_type, file_size, uploaded_by, document_type, created_at`

func scanDocument(row rowScanner, d *models.Document) error {
	return row.Scan(&d.ID, &d.GrantID, &d.Name, &d.FilePath, &d.FileType, &d.FileSize, &d.UploadedBy,
		&d.DocumentType, &d.CreatedAt)
}

// CreateDocument records an uploaded file against its grant.
func CreateDocument(ctx context.Context, db DBTX, d *models.Document) error {
	d.ID = uuid.NewString()
	query := `INSERT INTO documents (id, grant_id, name, file_path, file_type, file_size, uploaded_by, document_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := db.QueryRowContext(ctx, query, d.ID, d.GrantID, d.Name, d.FilePath, d.FileType, d.FileSize,
		d.UploadedBy, d.DocumentType).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting document: %w", err)
	}
	return nil
}

func GetDocumentByID(ctx context.Context, db DBTX, id string) (*models.Document, error) {
	var d models.Document
	err := scanDocument(db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting document by ID: %w", err)
	}
	return &d, nil
}

// ListDocumentsByGrant returns the grant's documents, newest first.
func ListDocumentsByGrant(ctx context.Context, db DBTX, grantID string) ([]models.Document, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE grant_id = $1 ORDER BY created_at DESC`, grantID)
	if err != nil {
		return nil, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, fmt.Errorf("error scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating through document rows: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes the row and returns the storage path it pointed
// at so the caller can remove the file.
func DeleteDocument(ctx context.Context, db DBTX, id string) (string, error) {
	var path string
	err := db.QueryRowContext(ctx, `DELETE FROM documents WHERE id = $1 RETURNING file_path`, id).Scan(&path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error deleting document: %w", err)
	}
	return path, nil
}
