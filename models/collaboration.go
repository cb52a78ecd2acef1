package models

import (
	"database/sql/driver"
	"time"
)

// PartnerType is the kind of organisation a grant collaborates with.
type PartnerType string

const (
	PartnerAcademic      PartnerType = "academic"
	PartnerIndustry      PartnerType = "industry"
	PartnerGovernment    PartnerType = "government"
	PartnerNonProfit     PartnerType = "non_profit"
	PartnerInternational PartnerType = "international"
)

func (p PartnerType) Valid() bool {
	switch p {
	case PartnerAcademic, PartnerIndustry, PartnerGovernment, PartnerNonProfit, PartnerInternational:
		return true
	}
	return false
}

func (p PartnerType) Label() string {
	switch p {
	case PartnerAcademic:
		return "Academic"
	case PartnerIndustry:
		return "Industry"
	case PartnerGovernment:
		return "Government"
	case PartnerNonProfit:
		return "Non-profit"
	case PartnerInternational:
		return "International"
	}
	return "Unknown"
}

func (p *PartnerType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("partner_type", data, p)
}

func (p *PartnerType) Scan(src interface{}) error {
	return scanEnum("partner_type", src, p)
}

func (p PartnerType) Value() (driver.Value, error) {
	return enumDriverValue("partner_type", p)
}

// Collaboration records an external partner on a grant.
type Collaboration struct {
	ID               string      `json:"id"`
	GrantID          string      `json:"grant_id" validate:"required"`
	PartnerName      string      `json:"partner_name" validate:"required"`
	PartnerType      PartnerType `json:"partner_type" validate:"enum"`
	ContributionType string      `json:"contribution_type" validate:"required"`
	StartDate        *Date       `json:"start_date"`
	EndDate          *Date       `json:"end_date"`
	CreatedAt        time.Time   `json:"created_at"`
}

func (c *Collaboration) checkRanges() []FieldError {
	return checkDateOrder("start_date", c.StartDate, "end_date", c.EndDate)
}
