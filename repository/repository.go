package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned by mutations whose target row does not exist.
// Single-row reads return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Table names one of the persisted entity tables.
type Table string

const (
	TableGrants               Table = "grants"
	TableDocuments            Table = "documents"
	TableReviews              Table = "reviews"
	TableProfiles             Table = "profiles"
	TableIntellectualProperty Table = "intellectual_property"
	TableCollaborations       Table = "collaborations"
	TableDeliverables         Table = "deliverables"
	TableFundingCalls         Table = "funding_calls"
)

func (t Table) Valid() bool {
	switch t {
	case TableGrants, TableDocuments, TableReviews, TableProfiles,
		TableIntellectualProperty, TableCollaborations, TableDeliverables, TableFundingCalls:
		return true
	}
	return false
}

// grantOwned reports whether rows of t hang off a grant.
func (t Table) grantOwned() bool {
	switch t {
	case TableDocuments, TableReviews, TableIntellectualProperty, TableCollaborations, TableDeliverables:
		return true
	case TableGrants, TableProfiles, TableFundingCalls:
		return false
	}
	return false
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// DeleteRow removes the row id from table.
func DeleteRow(ctx context.Context, db DBTX, table Table, id string) error {
	if !table.Valid() {
		return fmt.Errorf("delete from unknown table %q", table)
	}
	res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}
	return checkAffected(res, table)
}

// Ownership identifies the grant a child row belongs to and who submitted it.
type Ownership struct {
	GrantID     string
	SubmitterID string
}

// OwnerOf resolves the owning grant of a grant-owned row. It returns
// (nil, nil) when the row does not exist.
func OwnerOf(ctx context.Context, db DBTX, table Table, id string) (*Ownership, error) {
	if !table.grantOwned() {
		return nil, fmt.Errorf("table %q is not grant-owned", table)
	}
	query := fmt.Sprintf(`SELECT g.id, g.submitter_id FROM %s t JOIN grants g ON g.id = t.grant_id WHERE t.id = $1`, table)

	var o Ownership
	err := db.QueryRowContext(ctx, query, id).Scan(&o.GrantID, &o.SubmitterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving owner of %s row: %w", table, err)
	}
	return &o, nil
}

func checkAffected(res sql.Result, table Table) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows on %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
