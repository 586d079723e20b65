package sourcecfg

// openmxElements lists the elements covered by the OpenMX 2019 PAO
// distribution.
var openmxElements = []string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
}

// builtinSources are the descriptors shipped with the tool.
//
// The OpenMX distribution publishes one PAO file per element, so its
// template carries {element} and the importer fetches each element
// separately. The original two-axis configuration (protocol x hardness) is
// folded into a single tier selector so one flag covers both.
var builtinSources = []Descriptor{
	{
		Name:           "openmx",
		URLTemplate:    "https://t-ozaki.issp.u-tokyo.ac.jp/vps_pao20{version}/{element}/{element}.pao",
		Versions:       []string{"13", "19"},
		DefaultVersion: "19",
		Tiers: []string{
			"quick-soft", "quick-hard",
			"standard-soft", "standard-hard",
			"precise-soft", "precise-hard",
		},
		DefaultTier:   "standard-soft",
		LabelTemplate: "OpenMX/{version}/{tier}",
		Elements:      openmxElements,
	},
	{
		Name:           "bse",
		URLTemplate:    "https://www.basissetexchange.org/download/{tier}/{version}/archive.tar.gz",
		DefaultVersion: "1",
		DefaultTier:    "sto-3g",
		LabelTemplate:  "BSE/{version}/{tier}",
		// Element set discovered from the archive contents.
	},
}
