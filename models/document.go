package models

import (
	"database/sql/driver"
	"time"
)

// DocumentType classifies an uploaded file. A document may carry no type.
type DocumentType string

const (
	DocumentProposal       DocumentType = "proposal"
	DocumentBudget         DocumentType = "budget"
	DocumentProgressReport DocumentType = "progress_report"
	DocumentFinalReport    DocumentType = "final_report"
	DocumentAgreement      DocumentType = "agreement"
	DocumentOther          DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentProposal, DocumentBudget, DocumentProgressReport,
		DocumentFinalReport, DocumentAgreement, DocumentOther:
		return true
	}
	return false
}

func (t DocumentType) Label() string {
	switch t {
	case DocumentProposal:
		return "Proposal"
	case DocumentBudget:
		return "Budget"
	case DocumentProgressReport:
		return "Progress report"
	case DocumentFinalReport:
		return "Final report"
	case DocumentAgreement:
		return "Agreement"
	case DocumentOther:
		return "Other"
	}
	return "Unknown"
}

// ParseDocumentType accepts an empty string as "no type".
func ParseDocumentType(s string) (*DocumentType, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseEnum[DocumentType]("document_type", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *DocumentType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("document_type", data, t)
}

func (t *DocumentType) Scan(src interface{}) error {
	return scanEnum("document_type", src, t)
}

func (t DocumentType) Value() (driver.Value, error) {
	return enumDriverValue("document_type", t)
}

// Document is a file attached to a grant. FilePath is unique in storage.
type Document struct {
	ID           string        `json:"id"`
	GrantID      string        `json:"grant_id" validate:"required"`
	Name         string        `json:"name" validate:"required"`
	FilePath     string        `json:"file_path" validate:"required"`
	FileType     string        `json:"file_type"`
	FileSize     int64         `json:"file_size" validate:"gte=0"`
	UploadedBy   string        `json:"uploaded_by" validate:"required"`
	DocumentType *DocumentType `json:"document_type" validate:"omitempty,enum"`
	CreatedAt    time.Time     `json:"created_at"`
}
