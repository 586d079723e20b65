package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
)

// PutRecord inserts a basis record into the store.
// Uses ON CONFLICT(uuid) DO NOTHING for idempotency - records are
// append-only and a duplicate UUID is silently ignored.
func (s *Store) PutRecord(ctx context.Context, rec *basis.Record) error {
	if err := putRecordTx(ctx, s.db, rec); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// execer covers *sql.DB and *sql.Tx for write helpers shared between
// standalone calls and transactions.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putRecordTx(ctx context.Context, ex execer, rec *basis.Record) error {
	meta, err := marshalMeta(rec)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO records
		(uuid, element, kind, filename, md5, content, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO NOTHING
	`,
		rec.UUID,
		rec.Element,
		string(rec.Kind),
		rec.Filename,
		rec.MD5,
		rec.Content,
		meta,
	)
	return err
}

// CreateFamily persists a family and all its memberships atomically.
//
// The family row is inserted first as the claim on the label: a UNIQUE
// violation means the label is taken and the whole call fails with
// ALREADY_EXISTS before any record or membership is written. On any later
// failure the transaction rolls back, so no partial family is ever visible
// to readers.
func (s *Store) CreateFamily(ctx context.Context, fam *family.Family) error {
	provenance, err := marshalProvenance(fam.Provenance)
	if err != nil {
		return fmt.Errorf("create family: %w", err)
	}
	configs, err := marshalOrbitalConfigurations(fam.OrbitalConfigurations())
	if err != nil {
		return fmt.Errorf("create family: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create family: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Claim the label. ON CONFLICT DO NOTHING + rows-affected check instead
	// of letting the constraint error surface, so the taken-label case maps
	// to a typed error rather than a driver error string.
	result, err := tx.ExecContext(ctx, `
		INSERT INTO families (label, description, provenance, orbital_configurations)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(label) DO NOTHING
	`, string(fam.Label), fam.Description, provenance, configs)
	if err != nil {
		return fmt.Errorf("create family: insert family: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create family: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return basis.NewAlreadyExists(string(fam.Label))
	}

	familyID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create family: last insert id: %w", err)
	}

	for position, entry := range fam.Entries() {
		if err := putRecordTx(ctx, tx, entry.Record); err != nil {
			return fmt.Errorf("create family: put record for %s: %w", entry.Element, err)
		}
		if err := insertMembership(ctx, tx, familyID, entry.Element, entry.Record.UUID, position); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create family: commit: %w", err)
	}

	return nil
}

func insertMembership(ctx context.Context, ex execer, familyID int64, element, recordUUID string, position int) error {
	result, err := ex.ExecContext(ctx, `
		INSERT INTO memberships (family_id, record_uuid, element, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(family_id, element) DO NOTHING
	`, familyID, recordUUID, element, position)
	if err != nil {
		return fmt.Errorf("insert membership for %s: %w", element, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert membership for %s: rows affected: %w", element, err)
	}
	if rowsAffected == 0 {
		return basis.NewDuplicateElement(element, "")
	}
	return nil
}

// AddMembership adds a record to an existing family.
//
// Fails with NOT_FOUND if the family does not exist and DUPLICATE_ELEMENT
// if the family already covers the record's element. The record itself is
// upserted in the same transaction.
func (s *Store) AddMembership(ctx context.Context, label family.Label, rec *basis.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add membership: begin tx: %w", err)
	}
	defer tx.Rollback()

	familyID, err := familyIDByLabel(ctx, tx, label)
	if err != nil {
		return err
	}

	var next sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT MAX(position) + 1 FROM memberships WHERE family_id = ?
	`, familyID).Scan(&next)
	if err != nil {
		return fmt.Errorf("add membership: next position: %w", err)
	}

	if err := putRecordTx(ctx, tx, rec); err != nil {
		return fmt.Errorf("add membership: put record: %w", err)
	}
	if err := insertMembership(ctx, tx, familyID, rec.Element, rec.UUID, int(next.Int64)); err != nil {
		if basis.IsCode(err, basis.CodeDuplicateElement) {
			return basis.NewDuplicateElement(rec.Element, string(label))
		}
		return err
	}

	// The stored recommendation set cannot cover the new element, so it is
	// dropped; ResolveFamily rejects a set that does not match the element
	// set exactly.
	if _, err := tx.ExecContext(ctx, `
		UPDATE families SET orbital_configurations = NULL
		WHERE id = ? AND orbital_configurations IS NOT NULL
	`, familyID); err != nil {
		return fmt.Errorf("add membership: drop orbital configurations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add membership: commit: %w", err)
	}
	return nil
}

// RemoveMembership removes the membership for one element from a family.
// The referenced record is left in place; records are shared.
// Fails with NOT_FOUND if the family or the membership does not exist.
func (s *Store) RemoveMembership(ctx context.Context, label family.Label, element string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("remove membership: begin tx: %w", err)
	}
	defer tx.Rollback()

	familyID, err := familyIDByLabel(ctx, tx, label)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM memberships WHERE family_id = ? AND element = ?
	`, familyID, element)
	if err != nil {
		return fmt.Errorf("remove membership: delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove membership: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return basis.NewNotFound("no basis for element to remove", element, string(label))
	}

	if err := pruneOrbitalConfiguration(ctx, tx, familyID, element); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("remove membership: commit: %w", err)
	}
	return nil
}

// pruneOrbitalConfiguration drops the removed element's entry from the
// family's stored orbital configurations, keeping the exact-element-set
// invariant ResolveFamily re-applies. The last remaining entry clears the
// column.
func pruneOrbitalConfiguration(ctx context.Context, tx *sql.Tx, familyID int64, element string) error {
	var raw sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT orbital_configurations FROM families WHERE id = ?
	`, familyID).Scan(&raw)
	if err != nil {
		return fmt.Errorf("remove membership: read orbital configurations: %w", err)
	}

	configs, err := unmarshalOrbitalConfigurations(raw)
	if err != nil {
		return err
	}
	if _, exists := configs[element]; !exists {
		return nil
	}
	delete(configs, element)
	if len(configs) == 0 {
		configs = nil
	}

	serialized, err := marshalOrbitalConfigurations(configs)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE families SET orbital_configurations = ? WHERE id = ?
	`, serialized, familyID); err != nil {
		return fmt.Errorf("remove membership: update orbital configurations: %w", err)
	}
	return nil
}

// DeleteFamily removes a family and its memberships. Member records are
// never deleted; they may be referenced by other families.
// Fails with NOT_FOUND if no family has the label.
func (s *Store) DeleteFamily(ctx context.Context, label family.Label) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM families WHERE label = ?
	`, string(label))
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete family: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return basis.NewNotFound("no family with the label", "", string(label))
	}
	return nil
}

// SaveOrbitalConfigurations replaces the stored orbital configurations of a
// family. Fails with NOT_FOUND if no family has the label.
func (s *Store) SaveOrbitalConfigurations(ctx context.Context, label family.Label, configs map[string]family.OrbitalConfiguration) error {
	serialized, err := marshalOrbitalConfigurations(configs)
	if err != nil {
		return fmt.Errorf("save orbital configurations: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE families SET orbital_configurations = ? WHERE label = ?
	`, serialized, string(label))
	if err != nil {
		return fmt.Errorf("save orbital configurations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save orbital configurations: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return basis.NewNotFound("no family with the label", "", string(label))
	}
	return nil
}

// queryRower covers *sql.DB and *sql.Tx for read helpers used inside writes.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func familyIDByLabel(ctx context.Context, q queryRower, label family.Label) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		SELECT id FROM families WHERE label = ?
	`, string(label)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, basis.NewNotFound("no family with the label", "", string(label))
	}
	if err != nil {
		return 0, fmt.Errorf("resolve family id: %w", err)
	}
	return id, nil
}
