package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kelydev/apiGrants/logger"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
	"go.uber.org/zap"
)

const maxUploadSize = 10 * 1024 * 1024

// storedFile describes an upload written to disk.
type storedFile struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
}

// saveUploadedFile copies the multipart file under formKey into dir. It
// returns nil when the request carries no such file.
func saveUploadedFile(r *http.Request, formKey, dir string) (*storedFile, error) {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing multipart form: %w", err)
	}

	file, handler, err := r.FormFile(formKey)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving file '%s': %w", formKey, err)
	}
	defer file.Close()

	originalFilename := filepath.Base(handler.Filename)
	ext := strings.ToLower(filepath.Ext(originalFilename))

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}

	filePath := filepath.Join(dir, uuid.NewString()+ext)
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("error creating destination file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("error copying uploaded file: %w", err)
	}

	contentType := handler.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &storedFile{
		Name:        originalFilename,
		Path:        filepath.ToSlash(filePath),
		ContentType: contentType,
		Size:        n,
	}, nil
}

func removeFile(relativePath string) error {
	if relativePath == "" {
		return nil
	}
	err := os.Remove(filepath.FromSlash(relativePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing file '%s': %w", relativePath, err)
	}
	return nil
}

// GetDocumentsHandler lists the documents attached to a grant.
func GetDocumentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, false)
		if !ok {
			return
		}

		docs, err := repository.ListDocumentsByGrant(r.Context(), db, grant.ID)
		if err != nil {
			utils.HandleError(w, r, err, "listing documents")
			return
		}
		utils.WriteJSON(w, http.StatusOK, docs)
	}
}

// UploadDocumentHandler stores the "file" part of a multipart request and
// records it against the grant. The optional "document_type" and "name"
// form values label it.
func UploadDocumentHandler(db *sql.DB, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, true)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
		stored, err := saveUploadedFile(r, "file", uploadDir)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			utils.HandleError(w, r, err, "saving upload")
			return
		}
		if stored == nil {
			utils.HandleError(w, r, &models.ValidationError{Fields: []models.FieldError{{Field: "file", Message: "is required"}}}, "saving upload")
			return
		}

		docType, err := models.ParseDocumentType(r.FormValue("document_type"))
		if err != nil {
			removeFile(stored.Path)
			utils.HandleError(w, r, err, "parsing document type")
			return
		}

		doc := models.Document{
			GrantID:      grant.ID,
			Name:         stored.Name,
			FilePath:     stored.Path,
			FileType:     stored.ContentType,
			FileSize:     stored.Size,
			UploadedBy:   sess.UserID,
			DocumentType: docType,
		}
		if name := strings.TrimSpace(r.FormValue("name")); name != "" {
			doc.Name = name
		}
		if err := models.Validate(&doc); err != nil {
			removeFile(stored.Path)
			utils.HandleError(w, r, err, "validating document")
			return
		}

		if err := repository.CreateDocument(r.Context(), db, &doc); err != nil {
			removeFile(stored.Path)
			utils.HandleError(w, r, err, "creating document")
			return
		}
		utils.WriteJSON(w, http.StatusCreated, doc)
	}
}

// DownloadDocumentHandler streams a stored file to callers who may read its
// grant.
func DownloadDocumentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, err := utils.PathID(r, "id")
		if err != nil {
			utils.HandleError(w, r, err, "parsing document id")
			return
		}

		doc, err := repository.GetDocumentByID(r.Context(), db, id)
		if err != nil {
			utils.HandleError(w, r, err, "fetching document")
			return
		}
		if doc == nil {
			utils.WriteError(w, http.StatusNotFound, "Document not found")
			return
		}
		grant, err := repository.GetGrantByID(r.Context(), db, doc.GrantID)
		if err != nil {
			utils.HandleError(w, r, err, "fetching grant")
			return
		}
		if grant == nil || !canRead(sess, grant.SubmitterID) {
			utils.WriteError(w, http.StatusNotFound, "Document not found")
			return
		}

		w.Header().Set("Content-Type", doc.FileType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
		http.ServeFile(w, r, filepath.FromSlash(doc.FilePath))
	}
}

// DeleteDocumentHandler removes a document row and its file.
func DeleteDocumentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, _, ok := childForRequest(w, r, db, sess, repository.TableDocuments)
		if !ok {
			return
		}

		path, err := repository.DeleteDocument(r.Context(), db, id)
		if err != nil {
			utils.HandleError(w, r, err, "deleting document")
			return
		}
		if err := removeFile(path); err != nil {
			logger.FromContext(r.Context()).Warn("document row deleted but file remains",
				zap.String("path", path), zap.Error(err))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
