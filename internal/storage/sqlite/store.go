// Package sqlite provides the SQLite-backed claim store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid"
	_ "modernc.org/sqlite"

	"github.com/kumandra/claimd/pkg/claim"
)

const schema = `
CREATE TABLE IF NOT EXISTS claims (
  id            TEXT PRIMARY KEY,
  ctype_id      INTEGER NOT NULL CHECK (ctype_id >= 0),
  subject       TEXT NOT NULL CHECK (subject <> ''),
  attester      TEXT NOT NULL CHECK (attester <> ''),
  name          TEXT NOT NULL CHECK (name <> ''),
  property_uri  TEXT NOT NULL CHECK (property_uri <> ''),
  property_hash TEXT NOT NULL CHECK (property_hash <> ''),
  created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_claims_subject ON claims (subject);
CREATE INDEX IF NOT EXISTS idx_claims_attester ON claims (attester);
`

// Store persists claims in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the claim database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Insert validates and persists a new claim under a fresh ULID.
func (s *Store) Insert(ctx context.Context, c claim.Claim) (claim.Claim, error) {
	if err := c.Validate(); err != nil {
		return claim.Claim{}, fmt.Errorf("%w: %v", claim.ErrInvalidClaim, err)
	}

	now := time.Now()
	entropy := rand.New(rand.NewSource(now.UnixNano()))
	c.ID = ulid.MustNew(ulid.Timestamp(now), entropy).String()

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO claims (id, ctype_id, subject, attester, name, property_uri, property_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.CTypeID,
		c.To,
		c.Attester,
		c.Name,
		c.PropertyURI,
		c.PropertyHash,
		now.UTC().UnixMilli(),
	)
	if err != nil {
		return claim.Claim{}, fmt.Errorf("insert claim: %w", err)
	}
	return c, nil
}

// FindBySubject returns all claims with the given subject.
func (s *Store) FindBySubject(ctx context.Context, to string) ([]claim.Claim, error) {
	return s.findByField(ctx, "subject", to)
}

// FindByAttester returns all claims with the given attester.
func (s *Store) FindByAttester(ctx context.Context, attester string) ([]claim.Claim, error) {
	return s.findByField(ctx, "attester", attester)
}

func (s *Store) findByField(ctx context.Context, column, value string) ([]claim.Claim, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, ctype_id, subject, attester, name, property_uri, property_hash
		 FROM claims WHERE `+column+` = ? ORDER BY id`,
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("query claims by %s: %w", column, err)
	}
	defer rows.Close()

	out := []claim.Claim{}
	for rows.Next() {
		var c claim.Claim
		if err := rows.Scan(&c.ID, &c.CTypeID, &c.To, &c.Attester, &c.Name, &c.PropertyURI, &c.PropertyHash); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}
	return out, nil
}

// FindByID returns the claim with the given id, or nil if absent.
func (s *Store) FindByID(ctx context.Context, id string) (*claim.Claim, error) {
	var c claim.Claim
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, ctype_id, subject, attester, name, property_uri, property_hash
		 FROM claims WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.CTypeID, &c.To, &c.Attester, &c.Name, &c.PropertyURI, &c.PropertyHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query claim by id: %w", err)
	}
	return &c, nil
}

// DeleteByID removes the claim and reports whether a row was deleted.
func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete claim: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete claim: %w", err)
	}
	return n > 0, nil
}
