package family

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/basiskit/internal/basis"
)

func TestNewStructure(t *testing.T) {
	s, err := NewStructure("O", "H", "H")
	require.NoError(t, err)
	assert.Equal(t, []string{"O", "H", "H"}, s.Sites())
}

func TestNewStructure_InvalidElement(t *testing.T) {
	_, err := NewStructure("O", "Hh")
	require.Error(t, err)
	assert.Equal(t, basis.CodeInvalidElement, basis.CodeOf(err))
}

func TestStructure_ElementSet(t *testing.T) {
	s, err := NewStructure("C", "H", "H", "O", "H", "C")
	require.NoError(t, err)

	// Distinct elements in first-appearance order.
	assert.Equal(t, []string{"C", "H", "O"}, s.ElementSet())
}

func TestStructure_Empty(t *testing.T) {
	s, err := NewStructure()
	require.NoError(t, err)
	assert.Empty(t, s.Sites())
	assert.Empty(t, s.ElementSet())
}
