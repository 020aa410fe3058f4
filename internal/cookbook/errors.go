package cookbook

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation on a Cookbook after Close.
var ErrClosed = errors.New("cookbook is closed")

// ErrEmptyName is returned by Add for a meal whose name is empty or blank.
var ErrEmptyName = errors.New("meal name must not be empty")

// IOError reports a failure to open, read or write the backing file.
type IOError struct {
	Op   string // "open", "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// DeserializationError reports a backing file whose contents are not a valid
// list of meals. The catalog cannot be trusted and nothing is loaded.
type DeserializationError struct {
	Path string
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("json (de)serialization error in %s: %v", e.Path, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// DuplicateMealError is returned by Add when a meal with the same name exists.
type DuplicateMealError struct {
	Name string
}

func (e *DuplicateMealError) Error() string {
	return fmt.Sprintf("error adding meal: '%s' already exists", e.Name)
}

// MealNotFoundError is returned by Info when no meal has the requested name.
type MealNotFoundError struct {
	Name string
}

func (e *MealNotFoundError) Error() string {
	return fmt.Sprintf("meal '%s' does not exist", e.Name)
}

// InvalidSearchPatternError is reserved for pattern syntax beyond plain
// substrings. Search never returns it today.
type InvalidSearchPatternError struct {
	Pattern string
}

func (e *InvalidSearchPatternError) Error() string {
	return fmt.Sprintf("invalid search pattern: '%s'", e.Pattern)
}
