package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
)

// FamilySummary is the registry projection of a family: enough to list and
// filter without loading record payloads.
type FamilySummary struct {
	Label     family.Label
	Source    string
	Version   string
	Tier      string
	Count     int
	CreatedAt time.Time
}

// Filter narrows a ListFamilies call. Zero fields match everything.
type Filter struct {
	// Name matches the first label segment (the source name).
	Name string

	// Version matches the second label segment.
	Version string

	// LabelPrefix matches labels by prefix.
	LabelPrefix string
}

// matches applies the filter to a label.
func (f Filter) matches(label family.Label) bool {
	if f.Name != "" && label.Source() != f.Name {
		return false
	}
	if f.Version != "" && label.Version() != f.Version {
		return false
	}
	if f.LabelPrefix != "" && !strings.HasPrefix(string(label), f.LabelPrefix) {
		return false
	}
	return true
}

// ListFamilies returns summaries of all families matching the filter,
// ordered by label. Read-only; returns an empty slice (not nil) when
// nothing matches.
func (s *Store) ListFamilies(ctx context.Context, filter Filter) ([]FamilySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.label, f.created_at, COUNT(m.element)
		FROM families f
		LEFT JOIN memberships m ON m.family_id = f.id
		GROUP BY f.id
		ORDER BY f.label COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query families: %w", err)
	}
	defer rows.Close()

	summaries := []FamilySummary{}
	for rows.Next() {
		var (
			label     string
			createdAt string
			count     int
		)
		if err := rows.Scan(&label, &createdAt, &count); err != nil {
			return nil, fmt.Errorf("scan family summary: %w", err)
		}

		l := family.Label(label)
		if !filter.matches(l) {
			continue
		}

		summaries = append(summaries, FamilySummary{
			Label:     l,
			Source:    l.Source(),
			Version:   l.Version(),
			Tier:      l.Tier(),
			Count:     count,
			CreatedAt: parseStoredTime(createdAt),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate families: %w", err)
	}

	return summaries, nil
}

// HasFamily reports whether any family has the exact label.
func (s *Store) HasFamily(ctx context.Context, label family.Label) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM families WHERE label = ?
	`, string(label)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check family: %w", err)
	}
	return count > 0, nil
}

// ResolveFamily loads the full family with the exact label, records in
// stored position order.
//
// Fails with NOT_FOUND if no family has the label. The UNIQUE constraint
// should make duplicate labels impossible, but the registry defends against
// a corrupted store: more than one matching row fails with AMBIGUOUS.
func (s *Store) ResolveFamily(ctx context.Context, label family.Label) (*family.Family, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, provenance, orbital_configurations
		FROM families
		WHERE label = ?
	`, string(label))
	if err != nil {
		return nil, fmt.Errorf("query family: %w", err)
	}
	defer rows.Close()

	var (
		ids          []int64
		description  string
		provenance   string
		orbitalsJSON sql.NullString
	)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id, &description, &provenance, &orbitalsJSON); err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family rows: %w", err)
	}

	if len(ids) == 0 {
		return nil, basis.NewNotFound("no family with the label", "", string(label))
	}
	if len(ids) > 1 {
		return nil, basis.NewAmbiguous(string(label), len(ids))
	}

	entries, err := s.readMemberships(ctx, ids[0])
	if err != nil {
		return nil, err
	}

	fam, err := family.New(label, entries, nil)
	if err != nil {
		return nil, fmt.Errorf("reconstruct family `%s`: %w", label, err)
	}
	fam.Description = description

	if fam.Provenance, err = unmarshalProvenance(provenance); err != nil {
		return nil, err
	}

	configs, err := unmarshalOrbitalConfigurations(orbitalsJSON)
	if err != nil {
		return nil, err
	}
	if configs != nil {
		if err := fam.SetOrbitalConfigurations(configs); err != nil {
			return nil, fmt.Errorf("reconstruct family `%s`: %w", label, err)
		}
	}

	return fam, nil
}

// readMemberships loads the (element, record) pairs of a family in stored
// position order.
func (s *Store) readMemberships(ctx context.Context, familyID int64) ([]family.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.element, r.uuid, r.element, r.kind, r.filename, r.md5, r.content, r.meta
		FROM memberships m
		JOIN records r ON r.uuid = m.record_uuid
		WHERE m.family_id = ?
		ORDER BY m.position ASC
	`, familyID)
	if err != nil {
		return nil, fmt.Errorf("query memberships: %w", err)
	}
	defer rows.Close()

	var entries []family.Entry
	for rows.Next() {
		var (
			element string
			rec     basis.Record
			kind    string
			meta    sql.NullString
		)
		if err := rows.Scan(&element, &rec.UUID, &rec.Element, &kind, &rec.Filename, &rec.MD5, &rec.Content, &meta); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		rec.Kind = basis.Kind(kind)
		if err := unmarshalMeta(&rec, meta); err != nil {
			return nil, err
		}
		entries = append(entries, family.Entry{Element: element, Record: &rec})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return entries, nil
}

// GetRecord retrieves a single record by UUID.
// Fails with NOT_FOUND if the record does not exist.
func (s *Store) GetRecord(ctx context.Context, uuid string) (*basis.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uuid, element, kind, filename, md5, content, meta
		FROM records
		WHERE uuid = ?
	`, uuid)

	rec, err := scanRecordRow(row)
	if err == sql.ErrNoRows {
		return nil, basis.NewNotFound(fmt.Sprintf("no record with uuid `%s`", uuid), "", "")
	}
	return rec, err
}

// FindRecordByMD5 looks up an existing record with the same kind and
// content digest, for import-time deduplication. Returns (nil, nil) when
// no such record exists.
func (s *Store) FindRecordByMD5(ctx context.Context, kind basis.Kind, md5 string) (*basis.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uuid, element, kind, filename, md5, content, meta
		FROM records
		WHERE kind = ? AND md5 = ?
		ORDER BY uuid ASC
		LIMIT 1
	`, string(kind), md5)

	rec, err := scanRecordRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func scanRecordRow(row *sql.Row) (*basis.Record, error) {
	var (
		rec  basis.Record
		kind string
		meta sql.NullString
	)
	err := row.Scan(&rec.UUID, &rec.Element, &kind, &rec.Filename, &rec.MD5, &rec.Content, &meta)
	if err != nil {
		return nil, err
	}
	rec.Kind = basis.Kind(kind)
	if err := unmarshalMeta(&rec, meta); err != nil {
		return nil, err
	}
	return &rec, nil
}

// parseStoredTime parses the store's RFC3339-with-milliseconds timestamps.
// A zero time is returned for unparseable values rather than failing a
// listing over a cosmetic column.
func parseStoredTime(value string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05.999Z", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
