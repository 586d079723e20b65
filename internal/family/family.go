package family

import (
	"sort"

	"github.com/roach88/basiskit/internal/basis"
)

// Entry pairs an element key with its basis record. Families are built from
// entry slices rather than maps so the caller's ordering is preserved.
type Entry struct {
	Element string
	Record  *basis.Record
}

// Family is a labelled collection of basis records, at most one per
// element. Iteration follows insertion order for reproducibility of
// downstream calculation input generation.
type Family struct {
	// Label uniquely names the family within the registry.
	Label Label

	// Description is free-form human text.
	Description string

	// Provenance records how the family was produced: source name, version,
	// tier, archive location, installer version.
	Provenance map[string]string

	elements       []string
	records        map[string]*basis.Record
	orbitalConfigs map[string]OrbitalConfiguration
}

// New validates and assembles a family from the full entry set.
//
// The whole input is validated before any state is built: a duplicate
// element fails with DUPLICATE_ELEMENT, an entry whose record declares a
// different element than its key fails with ELEMENT_MISMATCH, and in either
// case no family is returned.
func New(label Label, entries []Entry, provenance map[string]string) (*Family, error) {
	fam := &Family{
		Label:      label,
		Provenance: provenance,
		records:    make(map[string]*basis.Record, len(entries)),
	}
	if fam.Provenance == nil {
		fam.Provenance = map[string]string{}
	}

	for _, entry := range entries {
		if err := fam.validateEntry(entry.Element, entry.Record); err != nil {
			return nil, err
		}
		fam.elements = append(fam.elements, entry.Element)
		fam.records[entry.Element] = entry.Record
	}

	return fam, nil
}

// validateEntry checks the exclusivity and element-match invariants for a
// single prospective entry against the current state.
func (f *Family) validateEntry(element string, rec *basis.Record) error {
	if !basis.ValidElement(element) {
		return basis.NewInvalidElement(element)
	}
	if _, exists := f.records[element]; exists {
		return basis.NewDuplicateElement(element, string(f.Label))
	}
	if rec.Element != element {
		return basis.NewElementMismatch(element, rec.Element)
	}
	return nil
}

// Add appends a record for an element not yet covered by the family.
// Fails with DUPLICATE_ELEMENT or ELEMENT_MISMATCH; the family is unchanged
// on failure. Stored orbital configurations are dropped: a recommendation
// set that no longer covers every element is not served partially.
func (f *Family) Add(element string, rec *basis.Record) error {
	if err := f.validateEntry(element, rec); err != nil {
		return err
	}
	f.elements = append(f.elements, element)
	f.records[element] = rec
	f.orbitalConfigs = nil
	return nil
}

// Remove drops the record for an element. Fails with NOT_FOUND if the
// family has no record for it. Removing a membership never destroys the
// record itself; records are shared between families.
func (f *Family) Remove(element string) error {
	if _, exists := f.records[element]; !exists {
		return basis.NewNotFound("no basis for element to remove", element, string(f.Label))
	}
	delete(f.records, element)
	for i, e := range f.elements {
		if e == element {
			f.elements = append(f.elements[:i], f.elements[i+1:]...)
			break
		}
	}
	delete(f.orbitalConfigs, element)
	return nil
}

// GetBasis returns the record for an element.
// Fails with NOT_FOUND if the family has no record for it.
func (f *Family) GetBasis(element string) (*basis.Record, error) {
	rec, exists := f.records[element]
	if !exists {
		return nil, basis.NewNotFound("family does not contain a basis for the element", element, string(f.Label))
	}
	return rec, nil
}

// GetBases returns the records for every requested element, all or nothing.
//
// If any element lacks coverage the call fails with MISSING_ELEMENTS
// carrying the exact sorted missing set; a partial mapping is never
// returned. Duplicate requested elements are collapsed.
func (f *Family) GetBases(elements []string) (map[string]*basis.Record, error) {
	found := make(map[string]*basis.Record, len(elements))
	var missing []string

	for _, element := range elements {
		if _, seen := found[element]; seen {
			continue
		}
		rec, exists := f.records[element]
		if !exists {
			missing = append(missing, element)
			continue
		}
		found[element] = rec
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		missing = dedupSorted(missing)
		return nil, basis.NewMissingElements(string(f.Label), missing)
	}

	return found, nil
}

// GetBasesForStructure derives the required element set from a structure's
// composition and delegates to GetBases with identical all-or-nothing
// semantics.
func (f *Family) GetBasesForStructure(s *Structure) (map[string]*basis.Record, error) {
	return f.GetBases(s.ElementSet())
}

// IsComplete reports whether the family covers every element of the
// reference set. Pure check, no side effects.
func (f *Family) IsComplete(reference []string) bool {
	for _, element := range reference {
		if _, exists := f.records[element]; !exists {
			return false
		}
	}
	return true
}

// Elements returns the covered element symbols in insertion order.
func (f *Family) Elements() []string {
	return append([]string(nil), f.elements...)
}

// Count returns the number of basis records in the family.
func (f *Family) Count() int {
	return len(f.elements)
}

// Entries returns the (element, record) pairs in insertion order.
func (f *Family) Entries() []Entry {
	entries := make([]Entry, 0, len(f.elements))
	for _, element := range f.elements {
		entries = append(entries, Entry{Element: element, Record: f.records[element]})
	}
	return entries
}

func dedupSorted(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}
