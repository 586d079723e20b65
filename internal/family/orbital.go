package family

import (
	"fmt"
	"sort"

	"github.com/roach88/basiskit/internal/basis"
)

// OrbitalConfiguration is the recommended number of shells per angular
// momentum channel (s, p, d, f) for one element. The maximum supported
// angular momentum is 3.
type OrbitalConfiguration [4]int

// SetOrbitalConfigurations stores recommended orbital configurations for
// the family's elements.
//
// The configuration keys must match the family's element set exactly in
// both directions: a configuration for an uncovered element and a covered
// element without a configuration are distinct errors. Shell counts must be
// non-negative.
func (f *Family) SetOrbitalConfigurations(configs map[string]OrbitalConfiguration) error {
	var extra, absent []string

	for element := range configs {
		if _, exists := f.records[element]; !exists {
			extra = append(extra, element)
		}
	}
	for _, element := range f.elements {
		if _, exists := configs[element]; !exists {
			absent = append(absent, element)
		}
	}

	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("orbital configurations defined for elements not in family `%s`: %v", f.Label, extra)
	}
	if len(absent) > 0 {
		sort.Strings(absent)
		return fmt.Errorf("orbital configurations not defined for all elements of family `%s`: %v", f.Label, absent)
	}

	for element, config := range configs {
		for _, n := range config {
			if n < 0 {
				return fmt.Errorf("invalid orbital configuration for element %s: %v", element, config)
			}
		}
	}

	f.orbitalConfigs = make(map[string]OrbitalConfiguration, len(configs))
	for element, config := range configs {
		f.orbitalConfigs[element] = config
	}
	return nil
}

// OrbitalConfigurations returns a copy of the stored configurations, or nil
// if none have been set.
func (f *Family) OrbitalConfigurations() map[string]OrbitalConfiguration {
	if f.orbitalConfigs == nil {
		return nil
	}
	out := make(map[string]OrbitalConfiguration, len(f.orbitalConfigs))
	for element, config := range f.orbitalConfigs {
		out[element] = config
	}
	return out
}

// RecommendedOrbitalConfigurations returns the configurations for the
// requested elements, all or nothing: any element without a configuration
// fails the whole call with MISSING_ELEMENTS.
func (f *Family) RecommendedOrbitalConfigurations(elements []string) (map[string]OrbitalConfiguration, error) {
	found := make(map[string]OrbitalConfiguration, len(elements))
	var missing []string

	for _, element := range elements {
		if _, seen := found[element]; seen {
			continue
		}
		config, exists := f.orbitalConfigs[element]
		if !exists {
			missing = append(missing, element)
			continue
		}
		found[element] = config
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, basis.NewMissingElements(string(f.Label), dedupSorted(missing))
	}

	return found, nil
}
