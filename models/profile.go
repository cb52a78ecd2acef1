package models

import (
	"database/sql/driver"
	"time"
)

// Role decides what a profile may see and change.
type Role string

const (
	RoleResearcher         Role = "researcher"
	RoleAdmin              Role = "admin"
	RoleReviewer           Role = "reviewer"
	RoleInstitutionalAdmin Role = "institutional_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleResearcher, RoleAdmin, RoleReviewer, RoleInstitutionalAdmin:
		return true
	}
	return false
}

func (r Role) Label() string {
	switch r {
	case RoleResearcher:
		return "Researcher"
	case RoleAdmin:
		return "Administrator"
	case RoleReviewer:
		return "Reviewer"
	case RoleInstitutionalAdmin:
		return "Institutional administrator"
	}
	return "Unknown"
}

// SeesAllGrants reports whether the role reads grants beyond its own.
func (r Role) SeesAllGrants() bool {
	switch r {
	case RoleAdmin, RoleReviewer, RoleInstitutionalAdmin:
		return true
	case RoleResearcher:
		return false
	}
	return false
}

// Administers reports whether the role manages shared records such as
// funding calls and other users' profiles.
func (r Role) Administers() bool {
	switch r {
	case RoleAdmin, RoleInstitutionalAdmin:
		return true
	case RoleResearcher, RoleReviewer:
		return false
	}
	return false
}

func ParseRole(s string) (Role, error) {
	return parseEnum[Role]("role", s)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("role", data, r)
}

func (r *Role) Scan(src interface{}) error {
	return scanEnum("role", src, r)
}

func (r Role) Value() (driver.Value, error) {
	return enumDriverValue("role", r)
}

// Profile is the application-side record of an auth identity. ID equals the
// identity's user id.
type Profile struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name" validate:"required,max=200"`
	Role        Role      `json:"role" validate:"enum"`
	Institution *string   `json:"institution"`
	Department  *string   `json:"department"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
