package docmerge

import (
	"errors"
	"fmt"
)

// DocumentError represents an error during container load or save.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ParseError represents an error while decoding document XML.
type ParseError struct {
	What  string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error in %s: %v", e.What, e.Cause)
	}
	return fmt.Sprintf("parse error in %s", e.What)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error.
func NewParseError(what string, cause error) error {
	return &ParseError{
		What:  what,
		Cause: cause,
	}
}

// SectionNotFoundError reports a repeating section whose start marker
// does not exist in the scanned block sequence.
type SectionNotFoundError struct {
	Name string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("repeating section '%s' not found", e.Name)
}

// UnterminatedSectionError reports a start marker with no matching end
// marker at the same nesting depth. BlockIndex is the position of the
// offending start marker in its block sequence.
type UnterminatedSectionError struct {
	Name       string
	BlockIndex int
}

func (e *UnterminatedSectionError) Error() string {
	return fmt.Sprintf("repeating section '%s' starting at block %d has no end marker", e.Name, e.BlockIndex)
}

// OrphanEndMarkerError reports an end marker with no preceding start
// marker in its block sequence. BlockIndex is the position of the stray
// end marker.
type OrphanEndMarkerError struct {
	Name       string
	BlockIndex int
}

func (e *OrphanEndMarkerError) Error() string {
	return fmt.Sprintf("repeating section '%s' has an end marker at block %d with no start marker", e.Name, e.BlockIndex)
}

// UnresolvedFieldError reports a field that has no value in the data
// context. Only raised in strict mode.
type UnresolvedFieldError struct {
	Name string
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("field '%s' has no value in the data context", e.Name)
}

// IsSectionNotFound checks if an error is a missing-section error.
func IsSectionNotFound(err error) bool {
	var target *SectionNotFoundError
	return errors.As(err, &target)
}

// IsUnterminatedSection checks if an error is an unterminated-section error.
func IsUnterminatedSection(err error) bool {
	var target *UnterminatedSectionError
	return errors.As(err, &target)
}

// IsOrphanEndMarker checks if an error is an orphan-end-marker error.
func IsOrphanEndMarker(err error) bool {
	var target *OrphanEndMarkerError
	return errors.As(err, &target)
}

// IsDocumentError checks if an error is a document error.
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}
