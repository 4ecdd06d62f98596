package certificate

import (
	"context"
	"fmt"

	"github.com/relabs-tech/certify/core/csql"
)

// Record is the persistent issuance record, one per identity. It is created on
// the first successful issuance and never updated or deleted.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	CreatedAt int64  `json:"created_at"` // epoch milliseconds
}

// Ledger tracks which identities have been issued a certificate and when.
type Ledger interface {
	// HasIssued reports whether a record exists for id. This is a point lookup.
	HasIssued(ctx context.Context, id string) (bool, error)
	// RecordIssuance inserts rec unless a record for its id already exists.
	// The first recorded timestamp sticks.
	RecordIssuance(ctx context.Context, rec Record) error
}

// PostgresLedger is the postgres implementation of the issuance ledger.
type PostgresLedger struct {
	db *csql.DB
}

// MustNewPostgresLedger creates the certificate relation (if it does not exist)
// and returns the ledger. It panics if the relation cannot be created.
func MustNewPostgresLedger(db *csql.DB) *PostgresLedger {
	_, err := db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s."certificate"
(certificate_id varchar NOT NULL,
name varchar NOT NULL,
grade varchar NOT NULL,
created_at bigint NOT NULL,
PRIMARY KEY (certificate_id)
);`, db.Schema))
	if err != nil {
		panic(err)
	}
	return &PostgresLedger{db: db}
}

// HasIssued reports whether a certificate record exists for id.
func (l *PostgresLedger) HasIssued(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT exists(SELECT 1 FROM %s."certificate" WHERE certificate_id=$1);`, l.db.Schema),
		id).Scan(&exists)
	if err != nil {
		return false, newError(KindLedgerUnavailable, err)
	}
	return exists, nil
}

// RecordIssuance inserts rec. The insert is conditional on the identity not
// being recorded yet, so concurrent first issuances cannot clobber each other's
// timestamp.
func (l *PostgresLedger) RecordIssuance(ctx context.Context, rec Record) error {
	_, err := l.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s."certificate"(certificate_id,name,grade,created_at)
VALUES($1,$2,$3,$4) ON CONFLICT (certificate_id) DO NOTHING;`, l.db.Schema),
		rec.ID, rec.Name, rec.Grade, rec.CreatedAt)
	if err != nil {
		return newError(KindLedgerUnavailable, err)
	}
	return nil
}
