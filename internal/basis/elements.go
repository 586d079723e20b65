package basis

import "fmt"

// ElementSymbols lists the IUPAC symbols of the 118 known elements,
// indexed by atomic number minus one.
var ElementSymbols = [...]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf",
	"Es", "Fm", "Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// atomicNumbers maps element symbols to atomic numbers.
var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(ElementSymbols))
	for i, symbol := range ElementSymbols {
		m[symbol] = i + 1
	}
	return m
}()

// ValidElement reports whether symbol belongs to the fixed periodic-table
// symbol set. Symbols are case-sensitive ("he" is not an element).
func ValidElement(symbol string) bool {
	_, ok := atomicNumbers[symbol]
	return ok
}

// AtomicNumber returns the atomic number for an element symbol.
func AtomicNumber(symbol string) (int, bool) {
	z, ok := atomicNumbers[symbol]
	return z, ok
}

// ElementFromAtomicNumber resolves an atomic number to its element symbol.
func ElementFromAtomicNumber(z int) (string, error) {
	if z < 1 || z > len(ElementSymbols) {
		return "", fmt.Errorf("atomic number %d is outside the known periodic table", z)
	}
	return ElementSymbols[z-1], nil
}
