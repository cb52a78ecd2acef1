package models

import (
	"database/sql/driver"
	"time"
)

// Recommendation is the reviewer's verdict on a grant.
type Recommendation string

const (
	RecommendApprove Recommendation = "approve"
	RecommendReject  Recommendation = "reject"
	RecommendRevise  Recommendation = "revise"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendApprove, RecommendReject, RecommendRevise:
		return true
	}
	return false
}

func (r Recommendation) Label() string {
	switch r {
	case RecommendApprove:
		return "Approve"
	case RecommendReject:
		return "Reject"
	case RecommendRevise:
		return "Revise and resubmit"
	}
	return "Unknown"
}

func ParseRecommendation(s string) (Recommendation, error) {
	return parseEnum[Recommendation]("recommendation", s)
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("recommendation", data, r)
}

func (r *Recommendation) Scan(src interface{}) error {
	return scanEnum("recommendation", src, r)
}

func (r Recommendation) Value() (driver.Value, error) {
	return enumDriverValue("recommendation", r)
}

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one reviewer's assessment of a grant.
type Review struct {
	ID             string         `json:"id"`
	GrantID        string         `json:"grant_id" validate:"required"`
	ReviewerID     string         `json:"reviewer_id" validate:"required"`
	Rating         int            `json:"rating" validate:"min=1,max=5"`
	Comments       string         `json:"comments"`
	Recommendation Recommendation `json:"recommendation" validate:"enum"`
	CreatedAt      time.Time      `json:"created_at"`
}
