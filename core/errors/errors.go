// Package errors provides standardized error types and helpers for the
// Plotloom codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds the document pipeline can raise.
var (
	// ErrParse indicates the document bytes are not well-formed XML.
	ErrParse = errors.New("parse error")
	// ErrSchema indicates a mandatory element is missing from the document.
	ErrSchema = errors.New("schema error")
	// ErrLocked indicates the authoring application holds the project open.
	ErrLocked = errors.New("project locked")
	// ErrIO indicates a filesystem failure on read, write or rename.
	ErrIO = errors.New("io error")
)

// ParseError reports malformed XML with the offending file path.
type ParseError struct {
	Path string // Path of the document, empty when parsing raw bytes
	Err  error  // Underlying decoder error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cannot process file %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot process document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// SchemaError reports a missing mandatory element.
type SchemaError struct {
	Element string // Element that was expected (e.g. "PROJECT", "ID")
	Path    string // Document path, if known
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("missing mandatory element %s in %q", e.Element, e.Path)
	}
	return fmt.Sprintf("missing mandatory element %s", e.Element)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// LockedError reports that the lock marker for a project file exists.
type LockedError struct {
	Path string // Path of the locked project file
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%q seems to be open in the authoring application, close it first", e.Path)
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// IOError reports a filesystem failure with operation context.
type IOError struct {
	Op   string // Operation that failed (e.g. "write", "backup", "restore")
	Path string // Path involved
	Err  error  // Underlying error, if any
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot %s %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("cannot %s %q", e.Op, e.Path)
}

func (e *IOError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrIO
}

// Is lets IOError match ErrIO even when it wraps a concrete cause.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// IsParse returns true if err is a parse failure.
func IsParse(err error) bool { return errors.Is(err, ErrParse) }

// IsSchema returns true if err is a schema violation.
func IsSchema(err error) bool { return errors.Is(err, ErrSchema) }

// IsLocked returns true if err means the project is locked.
func IsLocked(err error) bool { return errors.Is(err, ErrLocked) }

// IsIO returns true if err is a filesystem failure.
func IsIO(err error) bool { return errors.Is(err, ErrIO) }
