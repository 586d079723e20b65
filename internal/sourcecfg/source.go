package sourcecfg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/basiskit/internal/basis"
	"github.com/roach88/basiskit/internal/family"
)

// Descriptor configures one installable basis source.
//
// URLTemplate supports the placeholders {version}, {tier} and {element}.
// A template containing {element} is fetched once per requested element
// (each fetch yielding one raw basis file); a template without it is
// fetched once and treated as a tar.gz archive of basis files.
type Descriptor struct {
	Name           string   `json:"name" yaml:"name"`
	URLTemplate    string   `json:"url_template" yaml:"url_template"`
	Kind           string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Versions       []string `json:"versions,omitempty" yaml:"versions,omitempty"`
	DefaultVersion string   `json:"default_version,omitempty" yaml:"default_version,omitempty"`
	Tiers          []string `json:"tiers,omitempty" yaml:"tiers,omitempty"`
	DefaultTier    string   `json:"default_tier,omitempty" yaml:"default_tier,omitempty"`

	// LabelTemplate defaults to "{name}/{version}/{tier}".
	LabelTemplate string `json:"label_template,omitempty" yaml:"label_template,omitempty"`

	// Elements is the element set the source covers. Empty means the set is
	// discovered from the fetched archive contents.
	Elements []string `json:"elements,omitempty" yaml:"elements,omitempty"`

	// OrbitalConfigurations optionally carries recommended per-element
	// shell counts (s, p, d, f) echoed onto installed families.
	OrbitalConfigurations map[string]family.OrbitalConfiguration `json:"orbital_configurations,omitempty" yaml:"orbital_configurations,omitempty"`
}

// BasisKind returns the record kind the source produces, defaulting to PAO.
func (d Descriptor) BasisKind() basis.Kind {
	if d.Kind == "" {
		return basis.KindPAO
	}
	return basis.Kind(d.Kind)
}

// PerElement reports whether the source is fetched one file per element
// rather than as a single archive.
func (d Descriptor) PerElement() bool {
	return strings.Contains(d.URLTemplate, "{element}")
}

// ExpandURL resolves the URL template for a version, tier and element.
func (d Descriptor) ExpandURL(version, tier, element string) string {
	r := strings.NewReplacer(
		"{version}", version,
		"{tier}", tier,
		"{element}", element,
		"{name}", d.Name,
	)
	return r.Replace(d.URLTemplate)
}

// FormatLabel composes the family label for a version and tier.
func (d Descriptor) FormatLabel(version, tier string) (family.Label, error) {
	template := d.LabelTemplate
	if template == "" {
		template = "{name}/{version}/{tier}"
	}
	r := strings.NewReplacer("{name}", d.Name, "{version}", version, "{tier}", tier)
	return family.NewLabel(r.Replace(template))
}

// ValidVersion reports whether the version is allowed for this source.
// A descriptor without a version list accepts any version.
func (d Descriptor) ValidVersion(version string) bool {
	if len(d.Versions) == 0 {
		return true
	}
	for _, v := range d.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// ValidTier reports whether the tier is allowed for this source.
// A descriptor without a tier list accepts any tier.
func (d Descriptor) ValidTier(tier string) bool {
	if len(d.Tiers) == 0 {
		return true
	}
	for _, t := range d.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// validate checks the structural requirements of a descriptor.
func (d Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("source descriptor must have a name")
	}
	if d.URLTemplate == "" {
		return fmt.Errorf("source descriptor `%s` must have a url_template", d.Name)
	}
	if !d.BasisKind().Valid() {
		return fmt.Errorf("source descriptor `%s` has unknown kind `%s`", d.Name, d.Kind)
	}
	if d.PerElement() && len(d.Elements) == 0 {
		return fmt.Errorf("source descriptor `%s` fetches per element and must list its elements", d.Name)
	}
	for _, element := range d.Elements {
		if !basis.ValidElement(element) {
			return basis.NewInvalidElement(element)
		}
	}
	if d.DefaultVersion != "" && !d.ValidVersion(d.DefaultVersion) {
		return fmt.Errorf("source descriptor `%s` default version `%s` is not in its version list", d.Name, d.DefaultVersion)
	}
	if d.DefaultTier != "" && !d.ValidTier(d.DefaultTier) {
		return fmt.Errorf("source descriptor `%s` default tier `%s` is not in its tier list", d.Name, d.DefaultTier)
	}
	return nil
}

// Registry maps source names to descriptors.
type Registry struct {
	sources map[string]Descriptor
}

// NewRegistry returns a registry populated with the built-in sources.
func NewRegistry() *Registry {
	r := &Registry{sources: map[string]Descriptor{}}
	for _, d := range builtinSources {
		r.sources[d.Name] = d
	}
	return r
}

// Register adds or replaces a descriptor after validating it.
func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.sources[d.Name] = d
	return nil
}

// Resolve returns the descriptor for a source name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	d, ok := r.sources[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown source `%s` (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return d, nil
}

// Names returns the registered source names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
