package family

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/basiskit/internal/basis"
)

func TestSetOrbitalConfigurations(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H", "C"), nil)
	require.NoError(t, err)

	configs := map[string]OrbitalConfiguration{
		"H": {2, 1, 0, 0},
		"C": {2, 2, 1, 0},
	}
	require.NoError(t, fam.SetOrbitalConfigurations(configs))

	stored := fam.OrbitalConfigurations()
	assert.Equal(t, configs, stored)

	// The returned map is a copy.
	stored["H"] = OrbitalConfiguration{9, 9, 9, 9}
	assert.Equal(t, OrbitalConfiguration{2, 1, 0, 0}, fam.OrbitalConfigurations()["H"])
}

func TestSetOrbitalConfigurations_ExtraElement(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H"), nil)
	require.NoError(t, err)

	err = fam.SetOrbitalConfigurations(map[string]OrbitalConfiguration{
		"H":  {2, 1, 0, 0},
		"He": {2, 0, 0, 0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in family")
}

func TestSetOrbitalConfigurations_AbsentElement(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H", "He"), nil)
	require.NoError(t, err)

	err = fam.SetOrbitalConfigurations(map[string]OrbitalConfiguration{
		"H": {2, 1, 0, 0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not defined for all elements")
}

func TestSetOrbitalConfigurations_NegativeShellCount(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H"), nil)
	require.NoError(t, err)

	err = fam.SetOrbitalConfigurations(map[string]OrbitalConfiguration{
		"H": {2, -1, 0, 0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid orbital configuration")
}

func TestRecommendedOrbitalConfigurations(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H", "C", "O"), nil)
	require.NoError(t, err)

	require.NoError(t, fam.SetOrbitalConfigurations(map[string]OrbitalConfiguration{
		"H": {2, 1, 0, 0},
		"C": {2, 2, 1, 0},
		"O": {3, 2, 1, 0},
	}))

	configs, err := fam.RecommendedOrbitalConfigurations([]string{"C", "H"})
	require.NoError(t, err)
	assert.Len(t, configs, 2)
	assert.Equal(t, OrbitalConfiguration{2, 2, 1, 0}, configs["C"])
}

func TestRecommendedOrbitalConfigurations_AllOrNothing(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H"), nil)
	require.NoError(t, err)

	require.NoError(t, fam.SetOrbitalConfigurations(map[string]OrbitalConfiguration{
		"H": {2, 1, 0, 0},
	}))

	configs, err := fam.RecommendedOrbitalConfigurations([]string{"H", "N", "C"})
	require.Error(t, err)
	assert.Nil(t, configs)

	var domainErr *basis.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, basis.CodeMissingElements, domainErr.Code)
	assert.Equal(t, []string{"C", "N"}, domainErr.Missing)
}

func TestAdd_DropsOrbitalConfigurations(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H"), nil)
	require.NoError(t, err)

	require.NoError(t, fam.SetOrbitalConfigurations(map[string]OrbitalConfiguration{
		"H": {2, 1, 0, 0},
	}))

	require.NoError(t, fam.Add("He", testRecord(t, "He")))
	assert.Nil(t, fam.OrbitalConfigurations(), "a set not covering every element must not be served")
}

func TestRemove_DropsOrbitalConfiguration(t *testing.T) {
	fam, err := New(mustLabel(t, "test/1/a"), testEntries(t, "H", "He"), nil)
	require.NoError(t, err)

	require.NoError(t, fam.SetOrbitalConfigurations(map[string]OrbitalConfiguration{
		"H":  {2, 1, 0, 0},
		"He": {2, 0, 0, 0},
	}))

	require.NoError(t, fam.Remove("He"))
	_, exists := fam.OrbitalConfigurations()["He"]
	assert.False(t, exists)
}
