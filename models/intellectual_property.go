package models

import (
	"database/sql/driver"
	"time"
)

// IPType is the legal form of a piece of intellectual property.
type IPType string

const (
	IPPatent      IPType = "patent"
	IPCopyright   IPType = "copyright"
	IPTrademark   IPType = "trademark"
	IPTradeSecret IPType = "trade_secret"
)

func (t IPType) Valid() bool {
	switch t {
	case IPPatent, IPCopyright, IPTrademark, IPTradeSecret:
		return true
	}
	return false
}

func (t IPType) Label() string {
	switch t {
	case IPPatent:
		return "Patent"
	case IPCopyright:
		return "Copyright"
	case IPTrademark:
		return "Trademark"
	case IPTradeSecret:
		return "Trade secret"
	}
	return "Unknown"
}

func (t *IPType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("type", data, t)
}

func (t *IPType) Scan(src interface{}) error {
	return scanEnum("type", src, t)
}

func (t IPType) Value() (driver.Value, error) {
	return enumDriverValue("type", t)
}

// IPStatus tracks a filing through registration.
type IPStatus string

const (
	IPPending    IPStatus = "pending"
	IPApproved   IPStatus = "approved"
	IPRegistered IPStatus = "registered"
)

func (s IPStatus) Valid() bool {
	switch s {
	case IPPending, IPApproved, IPRegistered:
		return true
	}
	return false
}

func (s IPStatus) Label() string {
	switch s {
	case IPPending:
		return "Pending"
	case IPApproved:
		return "Approved"
	case IPRegistered:
		return "Registered"
	}
	return "Unknown"
}

func (s *IPStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("status", data, s)
}

func (s *IPStatus) Scan(src interface{}) error {
	return scanEnum("status", src, s)
}

func (s IPStatus) Value() (driver.Value, error) {
	return enumDriverValue("status", s)
}

// IntellectualProperty is the persisted row. It never carries joined data.
type IntellectualProperty struct {
	ID              string    `json:"id"`
	GrantID         string    `json:"grant_id" validate:"required"`
	Title           string    `json:"title" validate:"required"`
	Type            IPType    `json:"type" validate:"enum"`
	Status          IPStatus  `json:"status" validate:"enum"`
	FilingDate      *Date     `json:"filing_date"`
	ApprovalDate    *Date     `json:"approval_date"`
	ReferenceNumber *string   `json:"reference_number"`
	CreatedAt       time.Time `json:"created_at"`
}

func (ip *IntellectualProperty) checkRanges() []FieldError {
	return checkDateOrder("filing_date", ip.FilingDate, "approval_date", ip.ApprovalDate)
}

// GrantTitle is the projection of a grant joined onto other rows.
type GrantTitle struct {
	Title string `json:"title"`
}

// IntellectualPropertyView is the read-only hydrated shape returned by the
// joined listing. Write paths accept IntellectualProperty only.
type IntellectualPropertyView struct {
	IntellectualProperty
	Grants *GrantTitle `json:"grants,omitempty"`
}
