package models

import (
	"errors"
	"fmt"
)

// Failure classes for a load. A *LoadError unwraps to exactly one of these.
var (
	ErrIO                = errors.New("i/o failure")
	ErrSyntax            = errors.New("invalid syntax")
	ErrResourceExhausted = errors.New("parser resources exhausted")
	ErrInvariant         = errors.New("loader invariant violated")
	ErrReentrant         = errors.New("loader is already loading")
	ErrUnknown           = errors.New("unknown parser failure")
)

// LoadError is the fatal error returned by the OBJ and MTL entry points.
type LoadError struct {
	Kind error  // One of the Err* sentinels above
	Path string // File being parsed, if known
	Line int    // 1-based source line, 0 if not applicable
	Err  error  // Underlying cause
}

func (e *LoadError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if loc == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", loc, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newLoadError(kind error, path string, line int, err error) *LoadError {
	return &LoadError{Kind: kind, Path: path, Line: line, Err: err}
}

// syntaxErrorf builds a syntax failure for the given source location.
func syntaxErrorf(path string, line int, format string, args ...any) *LoadError {
	return newLoadError(ErrSyntax, path, line, fmt.Errorf(format, args...))
}

// asLoadError classifies an arbitrary error, leaving existing LoadErrors intact.
func asLoadError(kind error, path string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return newLoadError(kind, path, 0, err)
}
