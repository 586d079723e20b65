package basis

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

// Kind tags the concrete basis representation a record carries.
//
// The set of kinds is closed: persistence and parsing dispatch on the tag
// rather than on subtypes. KindPAO is the pseudo-atomic-orbital format
// shipped with OpenMX distributions and served by the Basis Set Exchange.
type Kind string

const (
	// KindUnknown is the zero value and is rejected at construction.
	KindUnknown Kind = ""

	// KindPAO identifies the pseudo-atomic-orbital basis format.
	KindPAO Kind = "pao"
)

// Valid reports whether the kind is a member of the closed kind set.
func (k Kind) Valid() bool {
	return k == KindPAO
}

// Record is the basis-function data for one chemical element.
//
// A Record is immutable once constructed. The Content payload is stored but
// never interpreted beyond the kind-specific metadata parse performed at
// construction time.
type Record struct {
	// UUID is the opaque store identifier, a time-sortable UUIDv7.
	UUID string

	// Element is the IUPAC symbol of the element the basis describes.
	Element string

	// Kind tags the basis representation.
	Kind Kind

	// Filename is the name of the source file the record was built from.
	Filename string

	// Content is the raw, format-specific basis payload.
	Content []byte

	// MD5 is the hex digest of Content.
	MD5 string

	// PAO holds the parsed metadata for KindPAO records, nil otherwise.
	PAO *PAOMeta
}

// regexFilenameElement matches the ELEMENT.EXTENSION filename convention.
var regexFilenameElement = regexp.MustCompile(`^([A-Za-z]{1,2})\.\w+`)

// NewRecord constructs a basis record for a known target element.
//
// The element must belong to the periodic-table symbol set and, for kinds
// with parseable content, must match the element declared inside the
// content. Fails with an INVALID_ELEMENT, PARSE_ERROR or ELEMENT_MISMATCH
// error accordingly.
func NewRecord(element string, kind Kind, filename string, content []byte) (*Record, error) {
	if !ValidElement(element) {
		return nil, NewInvalidElement(element)
	}

	rec, err := newRecord(kind, filename, content)
	if err != nil {
		return nil, err
	}

	if rec.Element != "" && rec.Element != element {
		return nil, NewElementMismatch(element, rec.Element)
	}
	rec.Element = element

	return rec, nil
}

// NewRecordFromFile constructs a basis record discovering the element from
// the content, falling back to the ELEMENT.EXTENSION filename convention
// when the content does not declare one. A filename that carries an element
// symbol disagreeing with the content is a PARSE_ERROR.
func NewRecordFromFile(kind Kind, filename string, content []byte) (*Record, error) {
	rec, err := newRecord(kind, filename, content)
	if err != nil {
		return nil, err
	}

	if match := regexFilenameElement.FindStringSubmatch(filename); match != nil && ValidElement(match[1]) {
		if rec.Element == "" {
			rec.Element = match[1]
		} else if rec.Element != match[1] {
			return nil, NewParseError(filename,
				"content declares element `"+rec.Element+"` but filename says `"+match[1]+"`")
		}
	}

	if rec.Element == "" {
		return nil, NewParseError(filename, "could not determine the element from the content or the filename")
	}
	if !ValidElement(rec.Element) {
		return nil, NewInvalidElement(rec.Element)
	}

	return rec, nil
}

// newRecord builds the kind-dispatched part of a record. The element is
// filled in from parsed content where the kind supports it and left empty
// otherwise.
func newRecord(kind Kind, filename string, content []byte) (*Record, error) {
	if !kind.Valid() {
		return nil, NewParseError(filename, "unknown basis kind `"+string(kind)+"`")
	}

	rec := &Record{
		UUID:     uuid.Must(uuid.NewV7()).String(),
		Kind:     kind,
		Filename: filename,
		Content:  append([]byte(nil), content...),
		MD5:      ContentMD5(content),
	}

	if kind == KindPAO {
		meta, element, err := ParsePAO(string(content))
		if err != nil {
			return nil, NewParseError(filename, err.Error())
		}
		rec.PAO = &meta
		rec.Element = element
	}

	return rec, nil
}

// ContentMD5 returns the hex MD5 digest of a basis payload. MD5 matches the
// checksums published alongside the upstream basis distributions.
func ContentMD5(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}
