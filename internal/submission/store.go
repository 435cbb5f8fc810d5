// internal/submission/store.go
//
// SQL persistence for submissions.
//
// Context
// -------
// Two tables with the same shape back the two kinds (`contactos` and
// `demo_requests`).  Inserts assign the server timestamp with
// UTC_TIMESTAMP() inside the statement, so it is the database clock — not
// any client clock — that orders the feed.  The metadata record is stored
// as one JSON document; the row carries the fields the list and export
// read directly.
//
// These helpers accept *sqlx.DB and perform simple parameterised queries.
// They are thin; callers wrap them (pipeline, admin handlers).

package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a delete touches no row.
var ErrNotFound = errors.New("submission not found")

// Store wraps the database handle.
type Store struct {
	db *sqlx.DB
}

// NewStore returns a Store over db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const insertColumns = `nombre, email, mensaje, telefono, codigo_pais,
	tiene_whatsapp, empresa, metadata, fecha_servidor`

// Insert persists one submission of the given kind and returns the
// store-assigned ID.  The metadata record is serialized inline; a record
// is never stored without one.
func (s *Store) Insert(ctx context.Context, kind Kind, sub *Submission) (int64, error) {
	table := kind.Table()
	if table == "" {
		return 0, fmt.Errorf("submission: unknown kind %q", kind)
	}

	metaJSON, err := json.Marshal(sub.Meta)
	if err != nil {
		return 0, fmt.Errorf("submission: marshal metadata: %w", err)
	}

	q := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`,
		table, insertColumns)

	res, err := s.db.ExecContext(ctx, q,
		sub.Name, sub.Email, sub.Message, sub.Phone, sub.CountryCode,
		sub.HasWhatsApp, sub.Company, metaJSON)
	if err != nil {
		return 0, fmt.Errorf("submission: insert %s: %w", table, err)
	}
	return res.LastInsertId()
}

const selectColumns = `id, nombre, email, mensaje, telefono, codigo_pais,
	tiene_whatsapp, empresa, metadata, fecha_servidor`

// ListKind returns every row of one kind, newest server timestamp first.
// NULL server timestamps sort last here; the merged feed re-orders them by
// client timestamp.
func (s *Store) ListKind(ctx context.Context, kind Kind) ([]Submission, error) {
	table := kind.Table()
	if table == "" {
		return nil, fmt.Errorf("submission: unknown kind %q", kind)
	}

	q := fmt.Sprintf(`SELECT %s FROM %s ORDER BY fecha_servidor DESC`, selectColumns, table)

	rows, err := s.db.QueryxContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("submission: list %s: %w", table, err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.StructScan(&sub); err != nil {
			return nil, err
		}
		sub.Kind = kind
		if len(sub.MetaJSON) > 0 {
			// Unreadable metadata degrades to an empty record rather
			// than hiding the submission from the operator.
			_ = json.Unmarshal(sub.MetaJSON, &sub.Meta)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Delete removes one row by (kind, id).  Exactly-one semantics: zero
// affected rows reports ErrNotFound, and other submissions are untouched.
func (s *Store) Delete(ctx context.Context, kind Kind, id int64) error {
	table := kind.Table()
	if table == "" {
		return fmt.Errorf("submission: unknown kind %q", kind)
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("submission: delete %s/%d: %w", table, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
