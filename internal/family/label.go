package family

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Label names a basis family. The conventional form is
// "<Source>/<Version>/<Tier>", but free-form labels are accepted for
// user-supplied overrides.
//
// Labels are compared for uniqueness by the registry, so they are
// normalized to NFC at construction: two labels that render identically
// must not denote two families.
type Label string

// NewLabel validates and NFC-normalizes a label string.
func NewLabel(s string) (Label, error) {
	normalized := norm.NFC.String(strings.TrimSpace(s))
	if normalized == "" {
		return "", fmt.Errorf("label must not be empty")
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == "" {
			return "", fmt.Errorf("label `%s` contains an empty segment", normalized)
		}
	}
	return Label(normalized), nil
}

// FormatLabel composes the conventional three-segment label.
func FormatLabel(source, version, tier string) (Label, error) {
	return NewLabel(source + "/" + version + "/" + tier)
}

// Source returns the first label segment, or the whole label for
// single-segment labels.
func (l Label) Source() string {
	return l.segment(0)
}

// Version returns the second label segment, or "" if absent.
func (l Label) Version() string {
	return l.segment(1)
}

// Tier returns the third label segment, or "" if absent.
func (l Label) Tier() string {
	return l.segment(2)
}

func (l Label) segment(i int) string {
	parts := strings.Split(string(l), "/")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

func (l Label) String() string {
	return string(l)
}
