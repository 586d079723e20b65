package family

import "github.com/roach88/basiskit/internal/basis"

// Structure is a minimal composition of atomic sites, the consumer-side
// shape a family resolves bases against. It carries element symbols only;
// positions and cells belong to the calculation layer.
type Structure struct {
	sites []string
}

// NewStructure builds a structure from the element symbol of each site.
// Fails with INVALID_ELEMENT on symbols outside the periodic table.
func NewStructure(symbols ...string) (*Structure, error) {
	for _, symbol := range symbols {
		if !basis.ValidElement(symbol) {
			return nil, basis.NewInvalidElement(symbol)
		}
	}
	return &Structure{sites: append([]string(nil), symbols...)}, nil
}

// Sites returns the per-site element symbols in order.
func (s *Structure) Sites() []string {
	return append([]string(nil), s.sites...)
}

// ElementSet returns the distinct elements in first-appearance order.
func (s *Structure) ElementSet() []string {
	seen := make(map[string]bool, len(s.sites))
	var elements []string
	for _, symbol := range s.sites {
		if !seen[symbol] {
			seen[symbol] = true
			elements = append(elements, symbol)
		}
	}
	return elements
}
