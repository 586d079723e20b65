package basis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementSymbols_Count(t *testing.T) {
	assert.Len(t, ElementSymbols, 118)
}

func TestValidElement(t *testing.T) {
	for _, symbol := range []string{"H", "He", "C", "Fe", "U", "Og"} {
		assert.True(t, ValidElement(symbol), "symbol %s should be valid", symbol)
	}

	for _, symbol := range []string{"", "Aa", "h", "HE", "X", "Uuo", "1"} {
		assert.False(t, ValidElement(symbol), "symbol %s should be invalid", symbol)
	}
}

func TestAtomicNumber(t *testing.T) {
	z, ok := AtomicNumber("H")
	require.True(t, ok)
	assert.Equal(t, 1, z)

	z, ok = AtomicNumber("C")
	require.True(t, ok)
	assert.Equal(t, 6, z)

	z, ok = AtomicNumber("Og")
	require.True(t, ok)
	assert.Equal(t, 118, z)

	_, ok = AtomicNumber("Xx")
	assert.False(t, ok)
}

func TestElementFromAtomicNumber(t *testing.T) {
	symbol, err := ElementFromAtomicNumber(26)
	require.NoError(t, err)
	assert.Equal(t, "Fe", symbol)

	_, err = ElementFromAtomicNumber(0)
	assert.Error(t, err)

	_, err = ElementFromAtomicNumber(119)
	assert.Error(t, err)
}

func TestElementFromAtomicNumber_RoundTrip(t *testing.T) {
	for i, symbol := range ElementSymbols {
		z, ok := AtomicNumber(symbol)
		require.True(t, ok)
		require.Equal(t, i+1, z)

		back, err := ElementFromAtomicNumber(z)
		require.NoError(t, err)
		require.Equal(t, symbol, back)
	}
}
