package family

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestNewLabel(t *testing.T) {
	label, err := NewLabel("OpenMX/19/standard-soft")
	require.NoError(t, err)
	assert.Equal(t, "OpenMX", label.Source())
	assert.Equal(t, "19", label.Version())
	assert.Equal(t, "standard-soft", label.Tier())
}

func TestNewLabel_Trimmed(t *testing.T) {
	label, err := NewLabel("  custom-label \n")
	require.NoError(t, err)
	assert.Equal(t, Label("custom-label"), label)
}

func TestNewLabel_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "a//b", "/leading", "trailing/"} {
		_, err := NewLabel(s)
		assert.Error(t, err, "label %q should be rejected", s)
	}
}

func TestNewLabel_NFCNormalization(t *testing.T) {
	// "e" followed by a combining acute accent normalizes to the
	// precomposed code point.
	decomposed := "cafe\u0301/1/a"
	precomposed := "caf\u00e9/1/a"

	label, err := NewLabel(decomposed)
	require.NoError(t, err)

	assert.Equal(t, Label(precomposed), label)
	assert.True(t, norm.NFC.IsNormalString(string(label)))
}

func TestFormatLabel(t *testing.T) {
	label, err := FormatLabel("OpenMX", "19", "quick-hard")
	require.NoError(t, err)
	assert.Equal(t, Label("OpenMX/19/quick-hard"), label)

	_, err = FormatLabel("OpenMX", "", "quick-hard")
	assert.Error(t, err)
}

func TestLabel_SegmentsAbsent(t *testing.T) {
	label, err := NewLabel("flat-label")
	require.NoError(t, err)
	assert.Equal(t, "flat-label", label.Source())
	assert.Equal(t, "", label.Version())
	assert.Equal(t, "", label.Tier())
}
