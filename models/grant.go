package models

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
)

// GrantStatus is the review state of a grant application.
type GrantStatus string

const (
	GrantSubmitted   GrantStatus = "submitted"
	GrantUnderReview GrantStatus = "under_review"
	GrantApproved    GrantStatus = "approved"
	GrantRejected    GrantStatus = "rejected"
)

// GrantStatuses lists every declared grant status in display order.
var GrantStatuses = []GrantStatus{GrantSubmitted, GrantUnderReview, GrantApproved, GrantRejected}

func (s GrantStatus) Valid() bool {
	switch s {
	case GrantSubmitted, GrantUnderReview, GrantApproved, GrantRejected:
		return true
	}
	return false
}

func (s GrantStatus) Label() string {
	switch s {
	case GrantSubmitted:
		return "Submitted"
	case GrantUnderReview:
		return "Under review"
	case GrantApproved:
		return "Approved"
	case GrantRejected:
		return "Rejected"
	}
	return "Unknown"
}

// Final reports whether no further review is expected for the grant.
func (s GrantStatus) Final() bool {
	switch s {
	case GrantApproved, GrantRejected:
		return true
	case GrantSubmitted, GrantUnderReview:
		return false
	}
	return false
}

func ParseGrantStatus(s string) (GrantStatus, error) {
	return parseEnum[GrantStatus]("status", s)
}

func (s *GrantStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("status", data, s)
}

func (s *GrantStatus) Scan(src interface{}) error {
	return scanEnum("status", src, s)
}

func (s GrantStatus) Value() (driver.Value, error) {
	return enumDriverValue("status", s)
}

// Grant is a funding application owned by the profile that submitted it.
type Grant struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title" validate:"required,max=300"`
	Description        *string        `json:"description"`
	Category           string         `json:"category" validate:"required"`
	FundingAmount      float64        `json:"funding_amount" validate:"gte=0"`
	Duration           string         `json:"duration" validate:"required"`
	Status             GrantStatus    `json:"status" validate:"enum"`
	SubmitterID        string         `json:"submitter_id"`
	Funder             string         `json:"funder" validate:"required"`
	StartDate          *Date          `json:"start_date"`
	EndDate            *Date          `json:"end_date"`
	Department         *string        `json:"department"`
	Collaborators      pq.StringArray `json:"collaborators"`
	StudentInvolvement bool           `json:"student_involvement"`
	ReportSubmitted    bool           `json:"report_submitted"`
	AgreementSigned    bool           `json:"agreement_signed"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (g *Grant) checkRanges() []FieldError {
	return checkDateOrder("start_date", g.StartDate, "end_date", g.EndDate)
}

// GrantFilter narrows a grant listing. Empty fields are ignored.
type GrantFilter struct {
	Status      *GrantStatus
	Category    string
	SubmitterID string
	Search      string
}

// FundingTotals aggregates requested and awarded amounts.
type FundingTotals struct {
	Requested float64 `json:"requested"`
	Approved  float64 `json:"approved"`
}

// DashboardSummary is the payload of the dashboard view.
type DashboardSummary struct {
	StatusCounts         map[GrantStatus]int `json:"status_counts"`
	Funding              FundingTotals       `json:"funding"`
	UpcomingDeliverables []Deliverable       `json:"upcoming_deliverables"`
}
