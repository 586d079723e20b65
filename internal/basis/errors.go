package basis

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a failure of one of the basis-set invariants or of the
// import pipeline.
//
// Every multi-step operation in this module either fully commits or commits
// nothing, so an Error is always a hard stop: callers never retry
// internally and never observe partial state alongside one.
//
// Error includes structured fields for diagnostics so the CLI can name the
// offending element(s) or label without parsing the message.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Element identifies the offending element symbol, if any.
	Element string

	// Label identifies the affected family, if any.
	Label string

	// Missing lists every uncovered element for MISSING_ELEMENTS errors.
	Missing []string

	// Err is the wrapped underlying error, if any.
	Err error
}

// ErrorCode categorizes basis-set errors.
type ErrorCode string

const (
	// CodeInvalidElement indicates a symbol outside the periodic table.
	CodeInvalidElement ErrorCode = "INVALID_ELEMENT"

	// CodeDuplicateElement indicates two records for the same element.
	CodeDuplicateElement ErrorCode = "DUPLICATE_ELEMENT"

	// CodeElementMismatch indicates a record stored under the wrong element key.
	CodeElementMismatch ErrorCode = "ELEMENT_MISMATCH"

	// CodeNotFound indicates a missing record, family or membership.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeMissingElements indicates a lookup over elements without full coverage.
	CodeMissingElements ErrorCode = "MISSING_ELEMENTS"

	// CodeSourceUnavailable indicates the remote basis source could not be read.
	CodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"

	// CodeParseError indicates basis file content that could not be understood.
	CodeParseError ErrorCode = "PARSE_ERROR"

	// CodeAlreadyExists indicates a family label that is already taken.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeAmbiguous indicates a label matching more than one stored family.
	CodeAmbiguous ErrorCode = "AMBIGUOUS"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: %s (missing=%s)", e.Code, e.Message, strings.Join(e.Missing, ","))
	case e.Element != "" && e.Label != "":
		return fmt.Sprintf("%s: %s (element=%s, label=%s)", e.Code, e.Message, e.Element, e.Label)
	case e.Element != "":
		return fmt.Sprintf("%s: %s (element=%s)", e.Code, e.Message, e.Element)
	case e.Label != "":
		return fmt.Sprintf("%s: %s (label=%s)", e.Code, e.Message, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from an error.
// Returns the empty code if the error is not a basis Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsCode reports whether err carries the given code, unwrapping as needed.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewInvalidElement creates an Error for a symbol outside the periodic table.
func NewInvalidElement(symbol string) *Error {
	return &Error{
		Code:    CodeInvalidElement,
		Message: fmt.Sprintf("`%s` is not a valid element symbol", symbol),
		Element: symbol,
	}
}

// NewDuplicateElement creates an Error for a second record of the same element.
func NewDuplicateElement(element, label string) *Error {
	return &Error{
		Code:    CodeDuplicateElement,
		Message: fmt.Sprintf("element `%s` already has a basis record", element),
		Element: element,
		Label:   label,
	}
}

// NewElementMismatch creates an Error for a record whose declared element
// differs from the key it is stored under.
func NewElementMismatch(key, declared string) *Error {
	return &Error{
		Code:    CodeElementMismatch,
		Message: fmt.Sprintf("record declares element `%s` but is keyed under `%s`", declared, key),
		Element: key,
	}
}

// NewNotFound creates an Error for a missing entity.
func NewNotFound(message, element, label string) *Error {
	return &Error{Code: CodeNotFound, Message: message, Element: element, Label: label}
}

// NewMissingElements creates an Error listing every element lacking coverage.
// The missing slice is stored as given; callers sort it for stable output.
func NewMissingElements(label string, missing []string) *Error {
	return &Error{
		Code:    CodeMissingElements,
		Message: fmt.Sprintf("family `%s` has no basis for %d of the requested elements", label, len(missing)),
		Label:   label,
		Missing: missing,
	}
}

// NewSourceUnavailable creates an Error for a failed retrieval.
func NewSourceUnavailable(location string, err error) *Error {
	return &Error{
		Code:    CodeSourceUnavailable,
		Message: fmt.Sprintf("could not retrieve `%s`", location),
		Err:     err,
	}
}

// NewParseError creates an Error for unparseable basis content.
func NewParseError(filename, detail string) *Error {
	message := detail
	if filename != "" {
		message = fmt.Sprintf("failed to parse `%s`: %s", filename, detail)
	}
	return &Error{Code: CodeParseError, Message: message}
}

// NewAlreadyExists creates an Error for a taken family label.
func NewAlreadyExists(label string) *Error {
	return &Error{
		Code:    CodeAlreadyExists,
		Message: fmt.Sprintf("a basis family labelled `%s` already exists", label),
		Label:   label,
	}
}

// NewAmbiguous creates an Error for a label matching multiple families.
func NewAmbiguous(label string, count int) *Error {
	return &Error{
		Code:    CodeAmbiguous,
		Message: fmt.Sprintf("label `%s` matches %d families, expected exactly one", label, count),
		Label:   label,
	}
}
