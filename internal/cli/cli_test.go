package cli

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
	"github.com/roach88/basiskit/internal/store"
)

func paoContent(t *testing.T, element string) []byte {
	t.Helper()

	z, ok := basis.AtomicNumber(element)
	require.True(t, ok, "unknown element %s", element)

	return []byte(fmt.Sprintf(`AtomSpecies %d
valence.electron 2.0
radial.cutoff.pao 6.0
max.occupied.N 2
maxL.pao 2
num.pao 4
`, z))
}

func testRecord(t *testing.T, element string) *basis.Record {
	t.Helper()
	rec, err := basis.NewRecord(element, basis.KindPAO, element+".pao", paoContent(t, element))
	require.NoError(t, err)
	return rec
}

// seedStore populates a database with two families for the read commands.
func seedStore(t *testing.T, path string) {
	t.Helper()

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := t.Context()

	bse, err := family.New(mustLabel(t, "BSE/1/sto-3g"), []family.Entry{
		{Element: "H", Record: testRecord(t, "H")},
		{Element: "He", Record: testRecord(t, "He")},
	}, map[string]string{"source": "bse"})
	require.NoError(t, err)
	require.NoError(t, st.CreateFamily(ctx, bse))

	openmx, err := family.New(mustLabel(t, "OpenMX/19/standard-soft"), []family.Entry{
		{Element: "H", Record: testRecord(t, "H")},
		{Element: "C", Record: testRecord(t, "C")},
	}, map[string]string{"source": "openmx"})
	require.NoError(t, err)
	require.NoError(t, openmx.SetOrbitalConfigurations(map[string]family.OrbitalConfiguration{
		"H": {2, 1, 0, 0},
		"C": {2, 2, 1, 0},
	}))
	require.NoError(t, st.CreateFamily(ctx, openmx))
}

func mustLabel(t *testing.T, s string) family.Label {
	t.Helper()
	label, err := family.NewLabel(s)
	require.NoError(t, err)
	return label
}

// runCommand executes the CLI with the given args, capturing stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand_Golden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")
	seedStore(t, path)

	out, err := runCommand(t, "list", "--db", path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list", []byte(out))
}

func TestListCommand_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")

	out, err := runCommand(t, "list", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no basis set families installed")
}

func TestListCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")
	seedStore(t, path)

	out, err := runCommand(t, "list", "--db", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   []struct {
			Label    string `json:"label"`
			Elements int    `json:"elements"`
			Source   string `json:"source"`
			Version  string `json:"version"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "BSE/1/sto-3g", resp.Data[0].Label)
	assert.Equal(t, 2, resp.Data[0].Elements)
	assert.Equal(t, "OpenMX", resp.Data[1].Source)
	assert.Equal(t, "19", resp.Data[1].Version)
}

func TestListCommand_Filtered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")
	seedStore(t, path)

	out, err := runCommand(t, "list", "--db", path, "--name", "OpenMX")
	require.NoError(t, err)
	assert.Contains(t, out, "OpenMX/19/standard-soft")
	assert.NotContains(t, out, "BSE/1/sto-3g")
}

func TestShowCommand_Golden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")
	seedStore(t, path)

	out, err := runCommand(t, "show", "OpenMX/19/standard-soft", "--db", path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "show", []byte(out))
}

func TestShowCommand_WithoutConfigurations_Golden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")
	seedStore(t, path)

	out, err := runCommand(t, "show", "BSE/1/sto-3g", "--db", path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "show_no_configs", []byte(out))
}

func TestShowCommand_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")
	seedStore(t, path)

	out, err := runCommand(t, "show", "GPAW/1/default", "--db", path)
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, GetExitCode(err))
	assert.Contains(t, out, "NOT_FOUND")
}

func TestShowCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basis.db")
	seedStore(t, path)

	out, err := runCommand(t, "show", "OpenMX/19/standard-soft", "--db", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Label   string `json:"label"`
			Records []struct {
				Element              string `json:"element"`
				Filename             string `json:"filename"`
				MD5                  string `json:"md5"`
				OrbitalConfiguration string `json:"orbital_configuration"`
			} `json:"records"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "OpenMX/19/standard-soft", resp.Data.Label)
	require.Len(t, resp.Data.Records, 2)
	assert.Equal(t, "C", resp.Data.Records[0].Element)
	assert.Equal(t, "s2p2d1f0", resp.Data.Records[0].OrbitalConfiguration)
	assert.Equal(t, basis.ContentMD5(paoContent(t, "C")), resp.Data.Records[0].MD5)
}

// writeArchive builds a tar.gz of PAO files on disk for offline installs.
func writeArchive(t *testing.T, path string, elements ...string) {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, element := range elements {
		content := paoContent(t, element)
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     element + ".pao",
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestInstallCommand_FromArchive(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "basis.db")
	archive := filepath.Join(dir, "sto-3g.tar.gz")
	writeArchive(t, archive, "H", "He")

	out, err := runCommand(t, "install", "bse", "--db", db, "--archive", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "installed `BSE/1/sto-3g` containing 2 elements")

	out, err = runCommand(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "BSE/1/sto-3g")
}

func TestInstallCommand_LabelOverride(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "basis.db")
	archive := filepath.Join(dir, "minimal.tar.gz")
	writeArchive(t, archive, "H")

	out, err := runCommand(t, "install", "bse", "--db", db, "--archive", archive, "--label", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "installed `minimal` containing 1 elements")
}

func TestInstallCommand_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "basis.db")
	archive := filepath.Join(dir, "sto-3g.tar.gz")
	writeArchive(t, archive, "H")

	_, err := runCommand(t, "install", "bse", "--db", db, "--archive", archive)
	require.NoError(t, err)

	out, err := runCommand(t, "install", "bse", "--db", db, "--archive", archive)
	require.Error(t, err)
	assert.Equal(t, ExitAlreadyExists, GetExitCode(err))
	assert.Contains(t, out, "ALREADY_EXISTS")
}

func TestInstallCommand_UnknownSource(t *testing.T) {
	db := filepath.Join(t.TempDir(), "basis.db")

	_, err := runCommand(t, "install", "gpaw", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInstallCommand_InvalidTier(t *testing.T) {
	db := filepath.Join(t.TempDir(), "basis.db")

	_, err := runCommand(t, "install", "openmx", "--db", db, "--tier", "extreme")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "tier")
}

func TestInstallCommand_SourceFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "basis.db")
	archive := filepath.Join(dir, "custom.tar.gz")
	writeArchive(t, archive, "H")

	descriptor := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(descriptor, []byte(`
name: custom
url_template: "https://example.org/custom-{version}.tar.gz"
default_version: "1"
default_tier: "base"
`), 0o644))

	out, err := runCommand(t, "install", "custom",
		"--db", db, "--archive", archive, "--source-file", descriptor)
	require.NoError(t, err)
	assert.Contains(t, out, "installed `custom/1/base` containing 1 elements")
}

func TestFamilyAddAndRemove(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "basis.db")
	seedStore(t, db)

	basisFile := filepath.Join(dir, "Li.pao")
	require.NoError(t, os.WriteFile(basisFile, paoContent(t, "Li"), 0o644))

	out, err := runCommand(t, "family", "add", "BSE/1/sto-3g", basisFile, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "added basis for `Li` to `BSE/1/sto-3g`")

	// A second add for the same element hits the exclusivity invariant.
	_, err = runCommand(t, "family", "add", "BSE/1/sto-3g", basisFile, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitDuplicateElement, GetExitCode(err))

	out, err = runCommand(t, "family", "remove", "BSE/1/sto-3g", "Li", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "removed basis for `Li` from `BSE/1/sto-3g`")

	_, err = runCommand(t, "family", "remove", "BSE/1/sto-3g", "Li", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, GetExitCode(err))
}

func TestFamilyEdit_ConfiguredFamilyStaysResolvable(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "basis.db")
	seedStore(t, db)

	// The seeded OpenMX family carries orbital configurations; edits must
	// keep it resolvable.
	out, err := runCommand(t, "family", "remove", "OpenMX/19/standard-soft", "C", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "removed basis for `C`")

	out, err = runCommand(t, "show", "OpenMX/19/standard-soft", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "s2p1d1f0", "surviving element keeps its configuration")
	assert.NotContains(t, out, "s2p2d1f0")

	basisFile := filepath.Join(dir, "Li.pao")
	require.NoError(t, os.WriteFile(basisFile, paoContent(t, "Li"), 0o644))

	out, err = runCommand(t, "family", "add", "OpenMX/19/standard-soft", basisFile, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "added basis for `Li`")

	out, err = runCommand(t, "show", "OpenMX/19/standard-soft", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Li.pao")
	assert.NotContains(t, out, "ORBITAL CONFIGURATION", "recommendations are dropped once incomplete")
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := runCommand(t, "list", "--db", filepath.Join(t.TempDir(), "basis.db"), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
