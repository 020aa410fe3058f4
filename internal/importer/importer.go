// Package importer reads meal lists from JSON or YAML files, plain, compressed
// or packed inside an archive, so they can be merged into a cookbook.
package importer

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data
	"gopkg.in/yaml.v3"

	"cookbook/internal/cookbook"
	"cookbook/internal/logger"
)

// ErrNoMealFile is returned when an archive holds no .json, .yaml or .yml member.
var ErrNoMealFile = errors.New("no meal file found in archive")

// ReadMeals loads every meal described by the file at src. The format is chosen
// from the file name:
//   - .json, .yaml, .yml: read directly
//   - .gz, .bz2, .xz wrapping one of the above (e.g. meals.json.xz)
//   - .zip, .7z, .tar, .tar.gz, .tgz, .tar.bz2, .tar.xz: the first meal file inside is used
func ReadMeals(src string) ([]cookbook.Meal, error) {
	name := strings.ToLower(src)

	switch {
	case strings.HasSuffix(name, ".zip"):
		logger.Debug("import source is a zip archive", "path", src)
		return readZip(src)
	case strings.HasSuffix(name, ".7z"):
		logger.Debug("import source is a 7z archive", "path", src)
		return read7z(src)
	case strings.HasSuffix(name, ".tar"), strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tar.xz"):
		logger.Debug("import source is a tar archive", "path", src)
		return readTar(src)
	case strings.HasSuffix(name, ".gz"), strings.HasSuffix(name, ".bz2"), strings.HasSuffix(name, ".xz"):
		logger.Debug("import source is a compressed file", "path", src)
		return readCompressed(src)
	case isMealFile(name):
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return decodeMeals(name, f)
	default:
		return nil, fmt.Errorf("unsupported import format: %s", src)
	}
}

// readCompressed handles a single compressed meal file such as meals.yaml.gz.
func readCompressed(src string) ([]cookbook.Meal, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.ToLower(src)
	r, inner, err := decompress(f, name)
	if err != nil {
		return nil, err
	}
	if !isMealFile(inner) {
		return nil, fmt.Errorf("unsupported import format: %s", src)
	}
	return decodeMeals(inner, r)
}

// decompress wraps r according to the compression suffix of name and returns
// the name with that suffix removed. Unknown suffixes pass r through.
func decompress(r io.Reader, name string) (io.Reader, string, error) {
	switch {
	case strings.HasSuffix(name, ".tgz"):
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, "", err
		}
		return gr, strings.TrimSuffix(name, ".tgz") + ".tar", nil
	case strings.HasSuffix(name, ".gz"):
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, "", err
		}
		return gr, strings.TrimSuffix(name, ".gz"), nil
	case strings.HasSuffix(name, ".bz2"):
		return bzip2.NewReader(r), strings.TrimSuffix(name, ".bz2"), nil
	case strings.HasSuffix(name, ".xz"):
		xzr, err := xz.NewReader(r, 0)
		if err != nil {
			return nil, "", err
		}
		return xzr, strings.TrimSuffix(name, ".xz"), nil
	}
	return r, name, nil
}

// readTar handles tar and compressed tar variants
func readTar(src string) ([]cookbook.Meal, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, _, err := decompress(f, strings.ToLower(src))
	if err != nil {
		return nil, err
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg || !isMealMember(hdr.Name) {
			continue
		}
		logger.Debug("reading meals from tar member", "member", hdr.Name)
		return decodeMeals(hdr.Name, tr)
	}
	return nil, fmt.Errorf("%s: %w", src, ErrNoMealFile)
}

// readZip uses the first meal file in a .zip archive
func readZip(src string) ([]cookbook.Meal, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isMealMember(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		logger.Debug("reading meals from zip member", "member", f.Name)
		meals, err := decodeMeals(f.Name, rc)
		rc.Close()
		return meals, err
	}
	return nil, fmt.Errorf("%s: %w", src, ErrNoMealFile)
}

// read7z uses the first meal file in a .7z archive via the sevenzip library
func read7z(src string) ([]cookbook.Meal, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isMealMember(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		logger.Debug("reading meals from 7z member", "member", f.Name)
		meals, err := decodeMeals(f.Name, rc)
		rc.Close()
		return meals, err
	}
	return nil, fmt.Errorf("%s: %w", src, ErrNoMealFile)
}

// mealList is the wrapped form of an import file: a document with a
// top-level "meals" key. Meals is a pointer so a missing key can be told
// apart from an empty list.
type mealList struct {
	Meals *[]cookbook.Meal `json:"meals" yaml:"meals"`
}

// decodeMeals parses r as JSON or YAML depending on name. Either format may be
// a bare list of meals or a document with a top-level "meals" key.
func decodeMeals(name string, r io.Reader) ([]cookbook.Meal, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	unmarshal := yaml.Unmarshal
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		unmarshal = json.Unmarshal
	}

	var meals []cookbook.Meal
	if err := unmarshal(raw, &meals); err != nil {
		// Not a list; try the wrapped form.
		var wrapped mealList
		if werr := unmarshal(raw, &wrapped); werr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, werr)
		}
		if wrapped.Meals == nil {
			return nil, fmt.Errorf("failed to parse %s: expected a list of meals or a top-level \"meals\" list", name)
		}
		meals = *wrapped.Meals
	}

	out := make([]cookbook.Meal, 0, len(meals))
	for i, m := range meals {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("%s: meal at index %d has an empty name", name, i)
		}
		out = append(out, cookbook.NewMeal(m.Name, m.Tags))
	}
	return out, nil
}

// isMealFile reports whether name has an extension decodeMeals understands.
func isMealFile(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// isMealMember is isMealFile for archive entries; macOS resource forks and
// dotfiles are skipped.
func isMealMember(name string) bool {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(name, "__MACOSX/") {
		return false
	}
	return isMealFile(base)
}
