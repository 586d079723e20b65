package basis

import (
	"fmt"
	"regexp"
	"strconv"
)

// PAOMeta holds the metadata parsed from a basis file in PAO
// (pseudo-atomic-orbital) format.
type PAOMeta struct {
	// ZValence is the number of valence electrons the basis was generated for.
	ZValence int `json:"z_valence"`

	// RCutoff is the radial cutoff in Bohr.
	RCutoff float64 `json:"r_cutoff"`

	// MaxOccN is the maximum occupied principal quantum number n.
	MaxOccN int `json:"max_occ_n"`

	// MaxL is the maximum orbital angular momentum l.
	MaxL int `json:"max_l"`

	// NumPAO is the number of pseudo-atomic orbitals.
	NumPAO int `json:"num_pao"`
}

const patternFloat = `[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`

// PAO files are keyword-value lines; keywords are matched case-insensitively.
// The occupied-N keyword tolerates the "ocupied" misspelling shipped in some
// OpenMX distributions.
var (
	regexAtomicNumber = regexp.MustCompile(`(?i)\s*AtomSpecies\s*(?P<atomic_number>\d{1,3})\s*`)
	regexZValence     = regexp.MustCompile(`(?i)\s*valence\.electron\s*(?P<z_valence>` + patternFloat + `)\s*`)
	regexRCutoff      = regexp.MustCompile(`(?i)\s*radial\.cutoff\.pao\s*(?P<r_cutoff>` + patternFloat + `)\s*`)
	regexMaxOccN      = regexp.MustCompile(`(?i)\s*max\.oc{1,2}upied\.N\s*(?P<max_occ_n>\d+)\s*`)
	regexMaxL         = regexp.MustCompile(`(?i)\s*maxL\.pao\s*(?P<max_l>\d+)\s*`)
	regexNumPAO       = regexp.MustCompile(`(?i)\s*num\.pao\s*(?P<num_pao>\d+)\s*`)
)

// ParsePAO extracts the element symbol and the PAO metadata from the decoded
// content of a PAO file. The element is derived from the AtomSpecies atomic
// number resolved against the periodic table.
func ParsePAO(content string) (PAOMeta, string, error) {
	var meta PAOMeta

	element, err := parsePAOElement(content)
	if err != nil {
		return meta, "", err
	}

	if meta.ZValence, err = parsePAOZValence(content); err != nil {
		return meta, "", err
	}
	if meta.RCutoff, err = parsePAORCutoff(content); err != nil {
		return meta, "", err
	}
	if meta.MaxOccN, err = parsePAOInt(content, regexMaxOccN, "maximum occupied N"); err != nil {
		return meta, "", err
	}
	if meta.MaxL, err = parsePAOInt(content, regexMaxL, "maximum L"); err != nil {
		return meta, "", err
	}
	if meta.NumPAO, err = parsePAOInt(content, regexNumPAO, "number of PAOs"); err != nil {
		return meta, "", err
	}

	return meta, element, nil
}

// parsePAOElement determines the element symbol from the AtomSpecies line.
func parsePAOElement(content string) (string, error) {
	match := regexAtomicNumber.FindStringSubmatch(content)
	if match == nil {
		return "", fmt.Errorf("could not parse the element from the PAO content")
	}

	z, err := strconv.Atoi(match[1])
	if err != nil {
		return "", fmt.Errorf("parsed value for the atomic number `%s` is not a valid number: %w", match[1], err)
	}

	element, err := ElementFromAtomicNumber(z)
	if err != nil {
		return "", fmt.Errorf("parsed value for the atomic number `%d` is not a known element: %w", z, err)
	}

	return element, nil
}

// parsePAOZValence parses the valence electron count. The file stores it as
// a float but it must be integral.
func parsePAOZValence(content string) (int, error) {
	match := regexZValence.FindStringSubmatch(content)
	if match == nil {
		return 0, fmt.Errorf("could not parse the Z valence from the PAO content")
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parsed value for the Z valence `%s` is not a valid number: %w", match[1], err)
	}
	if value != float64(int(value)) {
		return 0, fmt.Errorf("parsed value for the Z valence `%s` is not an integer", match[1])
	}

	return int(value), nil
}

func parsePAORCutoff(content string) (float64, error) {
	match := regexRCutoff.FindStringSubmatch(content)
	if match == nil {
		return 0, fmt.Errorf("could not parse the radial cutoff from the PAO content")
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parsed value for the radial cutoff `%s` is not a valid number: %w", match[1], err)
	}

	return value, nil
}

func parsePAOInt(content string, re *regexp.Regexp, what string) (int, error) {
	match := re.FindStringSubmatch(content)
	if match == nil {
		return 0, fmt.Errorf("could not parse the %s from the PAO content", what)
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("parsed value for the %s `%s` is not a valid number: %w", what, match[1], err)
	}

	return value, nil
}
