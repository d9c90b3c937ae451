// Package bundle reads user filament presets from a PrusaSlicer config
// bundle and imports them into Spoolman as vendors and filaments.
package bundle

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// SectionPrefix marks filament presets in a config bundle.
const SectionPrefix = "filament:"

// generatedPrefixes mark preset names written by Spoolman integrations, ours included.
var generatedPrefixes = []string{"spoolman_", strings.ToLower(constants.ProfilePrefix)}

// Preset is one user filament preset.
type Preset struct {
	Section  string
	Name     string
	Vendor   string
	Material string
	ColorHex string

	Diameter    *float64
	Density     *float64
	Cost        *float64
	SpoolWeight *float64
	NozzleTemp  *float64
	BedTemp     *float64

	// Warnings list values that could not be converted; those fields are left unset.
	Warnings []string
}

// Skip is a preset section that was not imported.
type Skip struct {
	Section string
	Reason  string
}

// Bundle is the parsed content of a config bundle.
type Bundle struct {
	Presets []Preset
	Skipped []Skip
}

// ParseFile reads a config bundle from disk.
func ParseFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defer func() { _ = f.Close() }()

	b, err := Parse(f)
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, err
	}
	return b, nil
}

// Parse reads filament presets from a config bundle. Presets missing a
// vendor or material, and presets generated by Spoolman integrations, are
// reported in Skipped.
func Parse(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "bundle", err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, errors.WrapParse("ini", "", err)
	}

	b := &Bundle{}
	for _, section := range file.Sections() {
		if !strings.HasPrefix(section.Name(), SectionPrefix) {
			continue
		}
		preset, reason := parseSection(section)
		if reason != "" {
			b.Skipped = append(b.Skipped, Skip{Section: section.Name(), Reason: reason})
			continue
		}
		b.Presets = append(b.Presets, preset)
	}
	return b, nil
}

func parseSection(section *ini.Section) (Preset, string) {
	name := strings.TrimSpace(strings.TrimPrefix(section.Name(), SectionPrefix))
	lower := strings.ToLower(name)
	for _, prefix := range generatedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return Preset{}, "generated by a Spoolman integration"
		}
	}
	if name == "" {
		return Preset{}, "empty preset name"
	}

	if !section.HasKey("filament_vendor") {
		return Preset{}, "missing filament_vendor"
	}
	if !section.HasKey("filament_type") {
		return Preset{}, "missing filament_type"
	}
	vendor := strings.TrimSpace(section.Key("filament_vendor").String())
	if vendor == "" {
		return Preset{}, "empty filament_vendor"
	}

	p := Preset{
		Section:  section.Name(),
		Name:     name,
		Vendor:   vendor,
		Material: strings.TrimSpace(section.Key("filament_type").String()),
		ColorHex: strings.ReplaceAll(firstValue(section.Key("filament_colour").String()), "#", ""),
	}

	p.Density = p.number(section, "filament_density")
	p.Diameter = p.number(section, "filament_diameter")
	p.NozzleTemp = p.number(section, "temperature")
	p.BedTemp = p.number(section, "bed_temperature")
	p.Cost = p.number(section, "filament_cost")
	p.SpoolWeight = p.number(section, "filament_spool_weight")

	return p, ""
}

// number reads a numeric key. A missing or blank key is nil; a value that
// does not convert is nil plus a warning.
func (p *Preset) number(section *ini.Section, key string) *float64 {
	if !section.HasKey(key) {
		return nil
	}
	raw := firstValue(section.Key(key).String())
	n := spoolman.ParseNumber(raw)
	if n.Malformed {
		p.Warnings = append(p.Warnings, fmt.Sprintf("[%s] cannot convert %s = %q", p.Name, key, raw))
		return nil
	}
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// firstValue returns the first entry of a per-extruder list such as "215;220".
func firstValue(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// Payload builds the Spoolman request body for the preset.
func (p Preset) Payload(vendorID int) spoolman.FilamentPayload {
	return spoolman.FilamentPayload{
		Name:         p.Name,
		Material:     p.Material,
		VendorID:     vendorID,
		Diameter:     p.Diameter,
		Density:      p.Density,
		Price:        p.Cost,
		SpoolWeight:  p.SpoolWeight,
		ExtruderTemp: roundTemp(p.NozzleTemp),
		BedTemp:      roundTemp(p.BedTemp),
		ColorHex:     p.ColorHex,
	}
}

func roundTemp(v *float64) *int {
	if v == nil {
		return nil
	}
	t := int(math.Round(*v))
	return &t
}
