package sourcecfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/basiskit/internal/family"
)

func writeCUE(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "sources.cue", `
source: mirror: {
	url_template:    "https://mirror.example.org/pao{version}/{element}/{element}.pao"
	versions:        ["19"]
	default_version: "19"
	tiers:           ["standard-soft"]
	default_tier:    "standard-soft"
	elements:        ["H", "He"]
	orbital_configurations: {
		H:  [2, 1, 0, 0]
		He: [2, 0, 0, 0]
	}
}
`)

	r := NewRegistry()
	require.NoError(t, r.LoadDir(dir))

	d, err := r.Resolve("mirror")
	require.NoError(t, err)
	assert.True(t, d.PerElement())
	assert.Equal(t, []string{"H", "He"}, d.Elements)
	assert.Equal(t, family.OrbitalConfiguration{2, 1, 0, 0}, d.OrbitalConfigurations["H"])
}

func TestLoadDir_MultipleSources(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "sources.cue", `
source: {
	one: url_template: "https://example.org/one.tar.gz"
	two: url_template: "https://example.org/two.tar.gz"
}
`)

	r := NewRegistry()
	require.NoError(t, r.LoadDir(dir))

	// The map key becomes the descriptor name through the schema.
	for _, name := range []string{"one", "two"} {
		d, err := r.Resolve(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name)
	}
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	r := NewRegistry()
	err := r.LoadDir(filepath.Join(t.TempDir(), "absent"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadDir_NoCUEFiles(t *testing.T) {
	r := NewRegistry()
	err := r.LoadDir(t.TempDir())

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadDir_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "sources.cue", `
source: bad: {
	url_template: 42
}
`)

	r := NewRegistry()
	err := r.LoadDir(dir)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadDir_InvalidDescriptor(t *testing.T) {
	dir := t.TempDir()
	// Schema-valid but fails descriptor validation: per-element with no
	// element list.
	writeCUE(t, dir, "sources.cue", `
source: bad: {
	url_template: "https://example.org/{element}.pao"
}
`)

	r := NewRegistry()
	err := r.LoadDir(dir)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeInvalid, loadErr.Code)

	// A failed load leaves the registry untouched.
	_, resolveErr := r.Resolve("bad")
	assert.Error(t, resolveErr)
}
