package models

import (
	"database/sql/driver"
	"time"
)

type DeliverableStatus string

const (
	DeliverablePending   DeliverableStatus = "pending"
	DeliverableCompleted DeliverableStatus = "completed"
	DeliverableOverdue   DeliverableStatus = "overdue"
)

func (s DeliverableStatus) Valid() bool {
	switch s {
	case DeliverablePending, DeliverableCompleted, DeliverableOverdue:
		return true
	}
	return false
}

func (s DeliverableStatus) Label() string {
	switch s {
	case DeliverablePending:
		return "Pending"
	case DeliverableCompleted:
		return "Completed"
	case DeliverableOverdue:
		return "Overdue"
	}
	return "Unknown"
}

func (s *DeliverableStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("status", data, s)
}

func (s *DeliverableStatus) Scan(src interface{}) error {
	return scanEnum("status", src, s)
}

func (s DeliverableStatus) Value() (driver.Value, error) {
	return enumDriverValue("status", s)
}

// Deliverable is an output a grant owes by its due date.
type Deliverable struct {
	ID          string            `json:"id"`
	GrantID     string            `json:"grant_id" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Description *string           `json:"description"`
	DueDate     Date              `json:"due_date" validate:"required"`
	Status      DeliverableStatus `json:"status" validate:"enum"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Reconcile returns the status the deliverable should carry on today.
// Only pending deliverables move; completed and overdue stay put.
func (d Deliverable) Reconcile(today Date) DeliverableStatus {
	switch d.Status {
	case DeliverablePending:
		if d.DueDate.Before(today.Time) {
			return DeliverableOverdue
		}
		return DeliverablePending
	case DeliverableCompleted, DeliverableOverdue:
		return d.Status
	}
	return d.Status
}
