package cookbook_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookbook/internal/cookbook"
	"cookbook/internal/logger"
)

// ---- helpers ---------------------------------------------------------------

// writeCatalog writes content to a fresh file and returns its path.
func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cookbook.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func connect(t *testing.T, content string) *cookbook.Cookbook {
	t.Helper()
	cb, err := cookbook.Connect(writeCatalog(t, content))
	require.NoError(t, err)
	return cb
}

func names(meals []cookbook.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}

// ---- Connect ---------------------------------------------------------------

func TestConnect_EmptyCatalog(t *testing.T) {
	cb := connect(t, "[]")

	assert.Empty(t, cb.List())
	assert.NotNil(t, cb.List())
}

func TestConnect_MissingTagsBecomeEmpty(t *testing.T) {
	cb := connect(t, `[{"name": "Toast"}, {"name": "Soup", "tags": null}]`)

	got := cb.List()
	require.Len(t, got, 2)
	assert.Equal(t, []string{}, got[0].Tags)
	assert.Equal(t, []string{}, got[1].Tags)
}

func TestConnect_MissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope.json")

	_, err := cookbook.Connect(p)

	var ioErr *cookbook.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
	assert.Equal(t, p, ioErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConnect_InvalidContents(t *testing.T) {
	cases := map[string]string{
		"zero bytes":     "",
		"garbage":        "{oops",
		"object":         `{"name": "Toast"}`,
		"wrong types":    `[{"name": 3}]`,
		"duplicate name": `[{"name": "Toast"}, {"name": "Toast"}]`,
		"empty name":     `[{"name": "", "tags": []}]`,
		"blank name":     `[{"name": "Toast"}, {"name": "   "}]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := cookbook.Connect(writeCatalog(t, content))

			var decErr *cookbook.DeserializationError
			require.ErrorAs(t, err, &decErr)
		})
	}
}

// ---- Add -------------------------------------------------------------------

func TestAdd_EmptyNameIsRejected(t *testing.T) {
	cb := connect(t, `[{"name": "Toast"}]`)

	for _, name := range []string{"", "  ", "\t\n"} {
		_, err := cb.Add(cookbook.NewMeal(name, []string{"x"}))
		assert.ErrorIs(t, err, cookbook.ErrEmptyName, "name %q", name)
	}
	assert.Equal(t, []string{"Toast"}, names(cb.List()))
}

func TestAdd_ReturnsCountAfterInsertion(t *testing.T) {
	cb := connect(t, "[]")

	n, err := cb.Add(cookbook.NewMeal("Pancakes", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = cb.Add(cookbook.NewMeal("Waffles", []string{"sweet"}))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []string{"Pancakes", "Waffles"}, names(cb.List()))
}

func TestAdd_DuplicateLeavesCatalogUnchanged(t *testing.T) {
	cb := connect(t, `[{"name": "Pancakes", "tags": ["sweet"]}]`)
	before := cb.List()

	_, err := cb.Add(cookbook.NewMeal("Pancakes", []string{"savory"}))

	var dup *cookbook.DuplicateMealError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Pancakes", dup.Name)
	assert.Equal(t, before, cb.List())
}

func TestAdd_NamesAreCaseSensitive(t *testing.T) {
	cb := connect(t, "[]")

	_, err := cb.Add(cookbook.NewMeal("pasta", nil))
	require.NoError(t, err)
	_, err = cb.Add(cookbook.NewMeal("Pasta", nil))
	require.NoError(t, err)

	assert.Len(t, cb.List(), 2)
}

func TestAdd_UniquenessHoldsAcrossSequence(t *testing.T) {
	cb := connect(t, "[]")
	input := []string{"a", "b", "a", "c", "b", "b", "d", "a"}

	for _, name := range input {
		_, _ = cb.Add(cookbook.NewMeal(name, nil))

		seen := map[string]bool{}
		for _, m := range cb.List() {
			require.False(t, seen[m.Name], "duplicate %q after adding %q", m.Name, name)
			seen[m.Name] = true
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(cb.List()))
}

func TestAdd_CallerCannotMutateStoredTags(t *testing.T) {
	cb := connect(t, "[]")
	tags := []string{"vegan"}

	_, err := cb.Add(cookbook.NewMeal("Salad", tags))
	require.NoError(t, err)
	tags[0] = "changed"

	got, err := cb.Info("Salad")
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan"}, got.Tags)
}

// ---- Search ----------------------------------------------------------------

func TestSearch_SubstringMatchesInOrder(t *testing.T) {
	cb := connect(t, `[
		{"name": "Chicken Curry", "tags": []},
		{"name": "Pasta", "tags": []},
		{"name": "Curried Chickpeas", "tags": []}
	]`)

	got, err := cb.Search("Chick")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chicken Curry", "Curried Chickpeas"}, names(got))
}

func TestSearch_IsCaseSensitiveAndLiteral(t *testing.T) {
	cb := connect(t, `[{"name": "Pasta"}, {"name": "P.sta"}]`)

	got, err := cb.Search("pasta")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = cb.Search(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"P.sta"}, names(got))
}

func TestSearch_EmptyPatternMatchesAll(t *testing.T) {
	cb := connect(t, `[{"name": "B"}, {"name": "A"}, {"name": "C"}]`)

	got, err := cb.Search("")
	require.NoError(t, err)
	assert.Equal(t, cb.List(), got)
}

func TestSearch_NoMatchIsEmptyNotNil(t *testing.T) {
	cb := connect(t, `[{"name": "Pasta"}]`)

	got, err := cb.Search("zzz")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_MembershipEqualsContains(t *testing.T) {
	cb := connect(t, `[{"name": "abc"}, {"name": "bcd"}, {"name": "cde"}, {"name": "a"}]`)
	patterns := []string{"", "a", "b", "bc", "cd", "e", "abcd", "x"}

	for _, p := range patterns {
		got, err := cb.Search(p)
		require.NoError(t, err)

		want := []string{}
		for _, m := range cb.List() {
			if strings.Contains(m.Name, p) {
				want = append(want, m.Name)
			}
		}
		assert.Equal(t, want, names(got), "pattern %q", p)
	}
}

// ---- Info ------------------------------------------------------------------

func TestInfo_ExactMatchOnly(t *testing.T) {
	cb := connect(t, `[{"name": "Curried Chickpeas", "tags": ["vegan"]}]`)

	got, err := cb.Info("Curried Chickpeas")
	require.NoError(t, err)
	assert.Equal(t, cookbook.NewMeal("Curried Chickpeas", []string{"vegan"}), got)

	for _, name := range []string{"Curried", "curried chickpeas", "Curried Chickpeas ", ""} {
		_, err := cb.Info(name)
		var nf *cookbook.MealNotFoundError
		require.ErrorAs(t, err, &nf, "name %q", name)
		assert.Equal(t, name, nf.Name)
	}
}

func TestInfo_ReturnsCopy(t *testing.T) {
	cb := connect(t, `[{"name": "Soup", "tags": ["hot"]}]`)

	got, err := cb.Info("Soup")
	require.NoError(t, err)
	got.Tags[0] = "cold"

	again, err := cb.Info("Soup")
	require.NoError(t, err)
	assert.Equal(t, []string{"hot"}, again.Tags)
}

// ---- List ------------------------------------------------------------------

func TestList_IsIdempotentAndIsolated(t *testing.T) {
	cb := connect(t, `[{"name": "A", "tags": ["x"]}, {"name": "B", "tags": []}]`)

	first := cb.List()
	first[0].Name = "mutated"
	first[0].Tags[0] = "mutated"

	assert.Equal(t, cb.List(), cb.List())
	assert.Equal(t, []string{"A", "B"}, names(cb.List()))
	assert.Equal(t, []string{"x"}, cb.List()[0].Tags)
}

// ---- Commit / Close --------------------------------------------------------

func TestCommit_RoundTrip(t *testing.T) {
	p := writeCatalog(t, "[]")
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)

	_, err = cb.Add(cookbook.NewMeal("Omelette", []string{"eggs", "quick"}))
	require.NoError(t, err)
	_, err = cb.Add(cookbook.NewMeal("Bread", nil))
	require.NoError(t, err)
	before := cb.List()

	require.NoError(t, cb.Commit())

	again, err := cookbook.Connect(p)
	require.NoError(t, err)
	assert.Equal(t, before, again.List())
}

func TestCommit_PrettyPrintedJSON(t *testing.T) {
	p := writeCatalog(t, "[]")
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)
	_, err = cb.Add(cookbook.NewMeal("Toast", nil))
	require.NoError(t, err)

	require.NoError(t, cb.Commit())

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"name\": \"Toast\",\n    \"tags\": []\n  }\n]\n", string(raw))

	var decoded []cookbook.Meal
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, cb.List(), decoded)
}

func TestCommit_EmptyCatalogWritesEmptyArray(t *testing.T) {
	p := writeCatalog(t, "null")
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)

	require.NoError(t, cb.Commit())

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestCommit_LeavesNoTempFiles(t *testing.T) {
	p := writeCatalog(t, "[]")
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)

	require.NoError(t, cb.Commit())
	require.NoError(t, cb.Commit())

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cookbook.json", entries[0].Name())
}

func TestCommit_FollowsSymlinkAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0o600))
	require.NoError(t, os.Chmod(target, 0o600))
	link := filepath.Join(dir, "cookbook.json")
	require.NoError(t, os.Symlink(target, link))

	cb, err := cookbook.Connect(link)
	require.NoError(t, err)
	_, err = cb.Add(cookbook.NewMeal("Toast", nil))
	require.NoError(t, err)
	require.NoError(t, cb.Commit())

	linfo, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, linfo.Mode()&os.ModeSymlink, "link was replaced by a regular file")

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := cookbook.Connect(target)
	require.NoError(t, err)
	assert.Equal(t, []string{"Toast"}, names(again.List()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCommit_NewFileGetsDefaultMode(t *testing.T) {
	p := writeCatalog(t, "[]")
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)
	require.NoError(t, os.Remove(p))

	require.NoError(t, cb.Commit())

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCommit_WriteFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sub", "cookbook.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("[]"), 0o644))
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Dir(p)))
	err = cb.Commit()

	var ioErr *cookbook.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
}

func TestClose_PersistsChanges(t *testing.T) {
	p := writeCatalog(t, "[]")
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)
	_, err = cb.Add(cookbook.NewMeal("Stew", []string{"slow"}))
	require.NoError(t, err)

	cb.Close()

	again, err := cookbook.Connect(p)
	require.NoError(t, err)
	assert.Equal(t, []cookbook.Meal{cookbook.NewMeal("Stew", []string{"slow"})}, again.List())
}

func TestClose_FailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, slog.LevelDebug)
	t.Cleanup(func() { logger.Init(logger.Options{}) })

	dir := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, "cookbook.json")
	require.NoError(t, os.WriteFile(p, []byte("[]"), 0o644))
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	assert.NotPanics(t, cb.Close)
	assert.Contains(t, buf.String(), "error committing cookbook")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestClose_OperationsFailAfterwards(t *testing.T) {
	cb := connect(t, `[{"name": "Toast"}]`)
	cb.Close()

	_, err := cb.Add(cookbook.NewMeal("Jam", nil))
	assert.ErrorIs(t, err, cookbook.ErrClosed)
	_, err = cb.Search("")
	assert.ErrorIs(t, err, cookbook.ErrClosed)
	_, err = cb.Info("Toast")
	assert.ErrorIs(t, err, cookbook.ErrClosed)
	assert.ErrorIs(t, cb.Commit(), cookbook.ErrClosed)
	assert.Nil(t, cb.List())

	assert.NotPanics(t, cb.Close)
}

// ---- EnsureFile ------------------------------------------------------------

func TestEnsureFile_CreatesEmptyCatalog(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "dir", "cookbook.json")

	require.NoError(t, cookbook.EnsureFile(p))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))

	cb, err := cookbook.Connect(p)
	require.NoError(t, err)
	assert.Empty(t, cb.List())
}

func TestEnsureFile_KeepsExistingFile(t *testing.T) {
	p := writeCatalog(t, `[{"name": "Toast"}]`)

	require.NoError(t, cookbook.EnsureFile(p))

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, `[{"name": "Toast"}]`, string(raw))
}

// ---- Scenario --------------------------------------------------------------

func TestCookbook_CurriedChickpeasScenario(t *testing.T) {
	p := writeCatalog(t, "[]")
	cb, err := cookbook.Connect(p)
	require.NoError(t, err)
	assert.Empty(t, cb.List())

	meal := cookbook.NewMeal("Curried Chickpeas", []string{"vegan"})
	n, err := cb.Add(meal)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []cookbook.Meal{meal}, cb.List())

	_, err = cb.Add(meal)
	var dup *cookbook.DuplicateMealError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Curried Chickpeas", dup.Name)

	got, err := cb.Search("Curr")
	require.NoError(t, err)
	assert.Equal(t, []cookbook.Meal{meal}, got)

	got, err = cb.Search("zzz")
	require.NoError(t, err)
	assert.Empty(t, got)

	info, err := cb.Info("Curried Chickpeas")
	require.NoError(t, err)
	assert.Equal(t, meal, info)

	_, err = cb.Info("Pasta")
	var nf *cookbook.MealNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Pasta", nf.Name)

	require.NoError(t, cb.Commit())
	again, err := cookbook.Connect(p)
	require.NoError(t, err)
	assert.Equal(t, []cookbook.Meal{meal}, again.List())
}
