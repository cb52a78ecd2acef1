package models

import (
	"time"

	"github.com/lib/pq"
)

// FundingCall is an open call for proposals. It is not owned by any grant.
type FundingCall struct {
	ID          string         `json:"id"`
	Title       string         `json:"title" validate:"required"`
	Funder      string         `json:"funder" validate:"required"`
	Description string         `json:"description"`
	Category    pq.StringArray `json:"category" validate:"required,min=1"`
	Deadline    Date           `json:"deadline" validate:"required"`
	Eligibility *string        `json:"eligibility"`
	Link        *string        `json:"link" validate:"omitempty,url"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Open reports whether the call still accepts proposals on today.
func (c FundingCall) Open(today Date) bool {
	return !c.Deadline.Before(today.Time)
}

// FundingCallFilter narrows the public listing.
type FundingCallFilter struct {
	Category string
	OpenOnly bool
}
