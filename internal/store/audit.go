package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ShareRecord is one issued share link as remembered by the audit log. The
// token itself is never stored; only issuance metadata is.
type ShareRecord struct {
	TokenID     string    `json:"tokenId"`
	Subject     string    `json:"subject"`
	IsAnonymous bool      `json:"isAnonymous"`
	ExpiresIn   string    `json:"expiresIn"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AuditLog records issued share links and lists them back per subject.
type AuditLog interface {
	RecordIssued(ctx context.Context, record *ShareRecord) error
	ListBySubject(ctx context.Context, subject string, limit int) ([]ShareRecord, error)
	Close()
}

var _ AuditLog = (*PostgresAudit)(nil)

// PostgresAudit is the pgx-backed audit log.
type PostgresAudit struct {
	pool *pgxpool.Pool
}

// NewPostgresAudit wraps an initialized connection pool.
func NewPostgresAudit(pool *pgxpool.Pool) *PostgresAudit {
	return &PostgresAudit{pool: pool}
}

func (a *PostgresAudit) RecordIssued(ctx context.Context, record *ShareRecord) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO share_links (token_id, subject, is_anonymous, expires_in, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.TokenID,
		record.Subject,
		record.IsAnonymous,
		record.ExpiresIn,
		record.CreatedAt,
		record.ExpiresAt,
	)
	return err
}

func (a *PostgresAudit) ListBySubject(ctx context.Context, subject string, limit int) ([]ShareRecord, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT token_id, subject, is_anonymous, expires_in, created_at, expires_at
		 FROM share_links
		 WHERE subject = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		subject, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ShareRecord{}
	for rows.Next() {
		var record ShareRecord
		if err := rows.Scan(
			&record.TokenID,
			&record.Subject,
			&record.IsAnonymous,
			&record.ExpiresIn,
			&record.CreatedAt,
			&record.ExpiresAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (a *PostgresAudit) Close() {
	a.pool.Close()
}
