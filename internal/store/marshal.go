package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
)

// marshalMeta serializes a record's kind-specific metadata, or NULL when
// the record carries none.
func marshalMeta(rec *basis.Record) (sql.NullString, error) {
	if rec.PAO == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(rec.PAO)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal record meta: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalMeta restores the kind-specific metadata onto a record.
func unmarshalMeta(rec *basis.Record, meta sql.NullString) error {
	if !meta.Valid || rec.Kind != basis.KindPAO {
		return nil
	}
	var pao basis.PAOMeta
	if err := json.Unmarshal([]byte(meta.String), &pao); err != nil {
		return fmt.Errorf("unmarshal record meta: %w", err)
	}
	rec.PAO = &pao
	return nil
}

// marshalProvenance serializes a family's provenance map. An empty map
// serializes to "{}" so the column is never NULL.
func marshalProvenance(provenance map[string]string) (string, error) {
	if provenance == nil {
		provenance = map[string]string{}
	}
	data, err := json.Marshal(provenance)
	if err != nil {
		return "", fmt.Errorf("marshal provenance: %w", err)
	}
	return string(data), nil
}

func unmarshalProvenance(data string) (map[string]string, error) {
	provenance := map[string]string{}
	if data == "" {
		return provenance, nil
	}
	if err := json.Unmarshal([]byte(data), &provenance); err != nil {
		return nil, fmt.Errorf("unmarshal provenance: %w", err)
	}
	return provenance, nil
}

// marshalOrbitalConfigurations serializes the per-element shell counts, or
// NULL when the family has none.
func marshalOrbitalConfigurations(configs map[string]family.OrbitalConfiguration) (sql.NullString, error) {
	if configs == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(configs)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal orbital configurations: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalOrbitalConfigurations(data sql.NullString) (map[string]family.OrbitalConfiguration, error) {
	if !data.Valid {
		return nil, nil
	}
	var configs map[string]family.OrbitalConfiguration
	if err := json.Unmarshal([]byte(data.String), &configs); err != nil {
		return nil, fmt.Errorf("unmarshal orbital configurations: %w", err)
	}
	return configs, nil
}
