// Package cookbook holds the meal catalog: an ordered, name-unique list of meals
// loaded in full from a JSON file and written back in full on commit.
package cookbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cookbook/internal/logger"
)

// Cookbook is the in-memory catalog bound to a backing file.
// It is not safe for concurrent use; one process owns the file at a time.
type Cookbook struct {
	book   []Meal // Meals in insertion order; names are unique
	path   string // Backing JSON file, as passed to Connect
	closed bool   // Set by Close; every later operation fails with ErrClosed
}

// Connect reads the whole backing file at path and returns a Cookbook bound to it.
// The file must already exist (see EnsureFile) and hold a JSON array of meals.
func Connect(path string) (*Cookbook, error) {
	logger.Debug("connecting to cookbook", "path", path)

	// Read the file in full; the catalog is never loaded partially.
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	// Reject the whole file on any malformed entry.
	book, err := decode(raw)
	if err != nil {
		return nil, &DeserializationError{Path: path, Err: err}
	}

	logger.Debug("cookbook loaded", "path", path, "meals", len(book))
	return &Cookbook{book: book, path: path}, nil
}

// Path returns the backing file this cookbook loads from and commits to.
func (c *Cookbook) Path() string {
	return c.path
}

// Add appends meal if no existing entry has the same name and returns the
// number of meals after insertion. Nothing is written to disk until Commit.
func (c *Cookbook) Add(meal Meal) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if strings.TrimSpace(meal.Name) == "" {
		return 0, ErrEmptyName
	}
	// Names are compared exactly, so "toast" and "Toast" are different meals.
	if _, ok := c.find(meal.Name); ok {
		logger.Debug("rejecting duplicate meal", "name", meal.Name)
		return 0, &DuplicateMealError{Name: meal.Name}
	}

	// Store a private copy so the caller's tag slice stays theirs.
	c.book = append(c.book, meal.clone())
	logger.Info("meal added", "name", meal.Name, "tags", meal.Tags, "count", len(c.book))
	return len(c.book), nil
}

// Search returns, in catalog order, every meal whose name contains pattern
// as a literal, case-sensitive substring. An empty pattern matches everything.
// The result is never nil.
func (c *Cookbook) Search(pattern string) ([]Meal, error) {
	if c.closed {
		return nil, ErrClosed
	}

	matches := []Meal{}
	for _, m := range c.book {
		if strings.Contains(m.Name, pattern) {
			matches = append(matches, m.clone())
		}
	}
	logger.Debug("search complete", "pattern", pattern, "matches", len(matches))
	return matches, nil
}

// Info returns a copy of the meal whose name equals name exactly.
func (c *Cookbook) Info(name string) (Meal, error) {
	if c.closed {
		return Meal{}, ErrClosed
	}
	i, ok := c.find(name)
	if !ok {
		return Meal{}, &MealNotFoundError{Name: name}
	}
	return c.book[i].clone(), nil
}

// List returns a copy of every meal in insertion order, or nil once closed.
func (c *Cookbook) List() []Meal {
	if c.closed {
		return nil
	}
	out := make([]Meal, len(c.book))
	for i, m := range c.book {
		out[i] = m.clone()
	}
	return out
}

// Commit rewrites the backing file with the full catalog. The new contents are
// written to a temporary file next to it and renamed into place, so readers
// see either the old or the new catalog, never a partial one.
func (c *Cookbook) Commit() error {
	if c.closed {
		return ErrClosed
	}
	return c.commit()
}

// Close commits the catalog and marks the cookbook closed. A failed commit is
// logged, not returned; call Commit first when the write must succeed.
// Calling Close more than once is a no-op.
func (c *Cookbook) Close() {
	if c.closed {
		return
	}
	// Close has no error result, so a failed write can only be logged.
	if err := c.commit(); err != nil {
		logger.Error("error committing cookbook", "path", c.path, "error", err)
	}
	c.closed = true
}

func (c *Cookbook) commit() error {
	data, err := encode(c.book)
	if err != nil {
		// Only reachable if Meal grows a field json cannot encode.
		return &DeserializationError{Path: c.path, Err: err}
	}

	logger.Debug("writing cookbook", "path", c.path, "meals", len(c.book), "bytes", len(data))
	if err := writeFileAtomic(c.path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: c.path, Err: err}
	}
	return nil
}

func (c *Cookbook) find(name string) (int, bool) {
	for i, m := range c.book {
		if m.Name == name {
			return i, true
		}
	}
	return -1, false
}

// decode parses a backing file. A null document is an empty catalog and a meal
// without tags gets an empty tag list. A blank or repeated name rejects the
// whole file.
func decode(raw []byte) ([]Meal, error) {
	var book []Meal
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil, err
	}
	if book == nil {
		book = []Meal{}
	}

	// Enforce the same rules Add does, plus fill in missing tags.
	seen := make(map[string]bool, len(book))
	for i := range book {
		if strings.TrimSpace(book[i].Name) == "" {
			return nil, fmt.Errorf("meal at index %d has an empty name", i)
		}
		if seen[book[i].Name] {
			return nil, fmt.Errorf("meal '%s' appears more than once", book[i].Name)
		}
		seen[book[i].Name] = true
		if book[i].Tags == nil {
			book[i].Tags = []string{}
		}
	}
	return book, nil
}

// encode renders the catalog as indented JSON with a trailing newline.
func encode(book []Meal) ([]byte, error) {
	if book == nil {
		book = []Meal{}
	}
	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// writeFileAtomic replaces the file at path with data via a temp file and a
// rename. A symlinked path is resolved first so the link stays in place and
// its target is rewritten. An existing file keeps its mode; perm is only used
// when the file is created.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		target = path
	}
	if info, statErr := os.Stat(target); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	// Remove the temp file on any failure before the rename.
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	// CreateTemp always uses 0600.
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
