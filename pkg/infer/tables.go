package infer

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

// Cooling is a fan profile: whether cooling is on and the fan speed range in percent.
type Cooling struct {
	Enabled int `json:"enabled" yaml:"enabled"`
	MinFan  int `json:"min_fan" yaml:"min_fan"`
	MaxFan  int `json:"max_fan" yaml:"max_fan"`
}

// MaterialSettings are the table values for one material.
type MaterialSettings struct {
	FirstLayerOffset   *int     `json:"first_layer_offset,omitempty" yaml:"first_layer_offset,omitempty"`
	MaxVolumetricSpeed *float64 `json:"max_volumetric_speed,omitempty" yaml:"max_volumetric_speed,omitempty"`
	Cooling            *Cooling `json:"cooling,omitempty" yaml:"cooling,omitempty"`
}

// Fallbacks for materials missing from a table.
const (
	DefaultFirstLayerOffset   = 10
	DefaultMaxVolumetricSpeed = 10.0
)

// DefaultCooling applies to materials without a cooling entry.
var DefaultCooling = Cooling{Enabled: 1, MinFan: 50, MaxFan: 100}

// Tables maps upper-cased material names to print settings. A Tables value
// is never modified after construction; accessors return copies.
type Tables struct {
	materials map[string]MaterialSettings
	soluble   map[string]bool
}

// tablesFile is the on-disk layout read by LoadTables.
type tablesFile struct {
	Materials map[string]MaterialSettings `yaml:"materials"`
	Soluble   []string                    `yaml:"soluble"`
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

// DefaultTables returns the built-in material tables.
func DefaultTables() Tables {
	return Tables{
		materials: map[string]MaterialSettings{
			"PLA":   {FirstLayerOffset: intp(10), MaxVolumetricSpeed: floatp(15), Cooling: &Cooling{1, 100, 100}},
			"PETG":  {FirstLayerOffset: intp(5), MaxVolumetricSpeed: floatp(10), Cooling: &Cooling{1, 50, 80}},
			"ABS":   {FirstLayerOffset: intp(10), MaxVolumetricSpeed: floatp(12), Cooling: &Cooling{0, 0, 0}},
			"ASA":   {FirstLayerOffset: intp(10), MaxVolumetricSpeed: floatp(12), Cooling: &Cooling{0, 0, 0}},
			"PC":    {FirstLayerOffset: intp(10), MaxVolumetricSpeed: floatp(10)},
			"TPU":   {FirstLayerOffset: intp(0), MaxVolumetricSpeed: floatp(4), Cooling: &Cooling{1, 30, 60}},
			"NYLON": {FirstLayerOffset: intp(10), MaxVolumetricSpeed: floatp(8), Cooling: &Cooling{0, 0, 0}},
		},
		soluble: map[string]bool{"PVA": true, "BVOH": true, "HIPS": true},
	}
}

// LoadTables reads a YAML file and overlays it on the defaults. Entries
// replace fields of an existing material or add new materials; a soluble
// list, when present, replaces the default set.
//
//	materials:
//	  PCTG:
//	    first_layer_offset: 5
//	    max_volumetric_speed: 9
//	    cooling: {enabled: 1, min_fan: 30, max_fan: 60}
//	soluble: [PVA, BVOH, HIPS, BUTENEDIOL]
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, errors.WrapIO("read", path, err)
	}

	var file tablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tables{}, errors.WrapParse("yaml", path, err)
	}

	tables := DefaultTables()
	for name, override := range file.Materials {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			return Tables{}, errors.NewValidationError("materials", name, "material name is empty")
		}
		merged := tables.materials[key]
		if override.FirstLayerOffset != nil {
			merged.FirstLayerOffset = override.FirstLayerOffset
		}
		if override.MaxVolumetricSpeed != nil {
			if *override.MaxVolumetricSpeed <= 0 {
				return Tables{}, errors.NewValidationError("max_volumetric_speed", *override.MaxVolumetricSpeed, key+": must be positive")
			}
			merged.MaxVolumetricSpeed = override.MaxVolumetricSpeed
		}
		if override.Cooling != nil {
			merged.Cooling = override.Cooling
		}
		tables.materials[key] = merged
	}

	if file.Soluble != nil {
		tables.soluble = make(map[string]bool, len(file.Soluble))
		for _, m := range file.Soluble {
			tables.soluble[strings.ToUpper(strings.TrimSpace(m))] = true
		}
	}

	return tables, nil
}

// FirstLayerOffset returns the first-layer nozzle offset for a material.
func (t Tables) FirstLayerOffset(material string) int {
	if s, ok := t.materials[material]; ok && s.FirstLayerOffset != nil {
		return *s.FirstLayerOffset
	}
	return DefaultFirstLayerOffset
}

// MaxVolumetricSpeed returns the volumetric speed limit for a material in mm³/s.
func (t Tables) MaxVolumetricSpeed(material string) float64 {
	if s, ok := t.materials[material]; ok && s.MaxVolumetricSpeed != nil {
		return *s.MaxVolumetricSpeed
	}
	return DefaultMaxVolumetricSpeed
}

// Cooling returns the fan profile for a material.
func (t Tables) Cooling(material string) Cooling {
	if s, ok := t.materials[material]; ok && s.Cooling != nil {
		return *s.Cooling
	}
	return DefaultCooling
}

// IsSoluble reports whether a material dissolves in water or a solvent.
func (t Tables) IsSoluble(material string) bool {
	return t.soluble[material]
}

// Materials returns the names of all materials with table entries, sorted.
func (t Tables) Materials() []string {
	return slices.Sorted(maps.Keys(t.materials))
}

// Soluble returns the soluble materials, sorted.
func (t Tables) Soluble() []string {
	return slices.Sorted(maps.Keys(t.soluble))
}

// Material returns a copy of the table entry for a material with defaults resolved.
func (t Tables) Material(material string) ResolvedMaterial {
	return ResolvedMaterial{
		Material:           material,
		FirstLayerOffset:   t.FirstLayerOffset(material),
		MaxVolumetricSpeed: t.MaxVolumetricSpeed(material),
		Cooling:            t.Cooling(material),
		Soluble:            t.IsSoluble(material),
	}
}

// ResolvedMaterial is a material's settings with defaults filled in.
type ResolvedMaterial struct {
	Material           string  `json:"material" yaml:"material"`
	FirstLayerOffset   int     `json:"first_layer_offset" yaml:"first_layer_offset"`
	MaxVolumetricSpeed float64 `json:"max_volumetric_speed" yaml:"max_volumetric_speed"`
	Cooling            Cooling `json:"cooling" yaml:"cooling"`
	Soluble            bool    `json:"soluble" yaml:"soluble"`
}
