// Package spoolman models the Spoolman inventory API and provides a client
// for the endpoints spoolsync reads from and writes to.
package spoolman

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Vendor is a filament manufacturer.
type Vendor struct {
	ID   int    `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// Filament is the product-level record shared by all spools of the same filament.
type Filament struct {
	ID            int     `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string  `json:"name" yaml:"name"`
	Material      string  `json:"material" yaml:"material"`
	Vendor        *Vendor `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Diameter      Number  `json:"diameter" yaml:"diameter"`
	ColorHex      string  `json:"color_hex" yaml:"color_hex"`
	Price         Number  `json:"price" yaml:"price"`
	Density       Number  `json:"density" yaml:"density"`
	Weight        Number  `json:"weight" yaml:"weight"`
	SpoolWeight   Number  `json:"spool_weight" yaml:"spool_weight"`
	ArticleNumber string  `json:"article_number" yaml:"article_number"`
	Comment       string  `json:"comment" yaml:"comment"`

	ExtruderTemp Number `json:"settings_extruder_temp" yaml:"settings_extruder_temp"`
	BedTemp      Number `json:"settings_bed_temp" yaml:"settings_bed_temp"`

	// Optional per-filament overrides. When absent here they are looked up
	// in Extra under the same key.
	FirstLayerExtruderTemp Number   `json:"settings_first_layer_extruder_temp" yaml:"settings_first_layer_extruder_temp"`
	FirstLayerBedTemp      Number   `json:"settings_first_layer_bed_temp" yaml:"settings_first_layer_bed_temp"`
	MaxVolumetricSpeed     Number   `json:"max_volumetric_speed" yaml:"max_volumetric_speed"`
	CoolingProfile         []Number `json:"cooling_profile,omitempty" yaml:"cooling_profile,omitempty"`
	Soluble                Flag     `json:"soluble" yaml:"soluble"`

	// Extra holds Spoolman extra fields; values are JSON-encoded strings.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Override keys shared by top-level fields and Extra.
const (
	KeyFirstLayerExtruderTemp = "settings_first_layer_extruder_temp"
	KeyFirstLayerBedTemp      = "settings_first_layer_bed_temp"
	KeyMaxVolumetricSpeed     = "max_volumetric_speed"
	KeyCoolingProfile         = "cooling_profile"
	KeySoluble                = "soluble"
)

// Spool is one physical roll tracked by Spoolman.
type Spool struct {
	ID              int       `json:"id" yaml:"id"`
	Archived        bool      `json:"archived" yaml:"archived"`
	Filament        *Filament `json:"filament" yaml:"filament"`
	InitialWeight   Number    `json:"initial_weight" yaml:"initial_weight"`
	RemainingWeight Number    `json:"remaining_weight" yaml:"remaining_weight"`
	UsedWeight      Number    `json:"used_weight" yaml:"used_weight"`
	RemainingLength Number    `json:"remaining_length" yaml:"remaining_length"`
	LotNumber       string    `json:"lot_nr" yaml:"lot_nr"`
	Location        string    `json:"location" yaml:"location"`
}

// FilamentOrEmpty returns the embedded filament, or an empty one when the record has none.
func (s Spool) FilamentOrEmpty() Filament {
	if s.Filament == nil {
		return Filament{}
	}
	return *s.Filament
}

// VendorName returns the vendor name, or "" when no vendor is attached.
func (f Filament) VendorName() string {
	if f.Vendor == nil {
		return ""
	}
	return f.Vendor.Name
}

// NumberOverride resolves a numeric override, preferring the top-level field over Extra.
func (f Filament) NumberOverride(key string) Number {
	var top Number
	switch key {
	case KeyFirstLayerExtruderTemp:
		top = f.FirstLayerExtruderTemp
	case KeyFirstLayerBedTemp:
		top = f.FirstLayerBedTemp
	case KeyMaxVolumetricSpeed:
		top = f.MaxVolumetricSpeed
	}
	if top.Valid {
		return top
	}
	raw, ok := f.Extra[key]
	if !ok {
		return top
	}
	var n Number
	_ = n.UnmarshalJSON([]byte(raw))
	return n
}

// CoolingOverride resolves the cooling triplet override. It returns nil
// unless exactly three valid numbers are supplied.
func (f Filament) CoolingOverride() []float64 {
	profile := f.CoolingProfile
	if len(profile) == 0 {
		if raw, ok := f.Extra[KeyCoolingProfile]; ok {
			_ = json.Unmarshal([]byte(raw), &profile)
		}
	}
	if len(profile) != 3 {
		return nil
	}
	out := make([]float64, 3)
	for i, n := range profile {
		if !n.Valid {
			return nil
		}
		out[i] = n.Value
	}
	return out
}

// SolubleOverride resolves the soluble flag override.
func (f Filament) SolubleOverride() Flag {
	if f.Soluble.Valid {
		return f.Soluble
	}
	if raw, ok := f.Extra[KeySoluble]; ok {
		var flag Flag
		_ = flag.UnmarshalJSON([]byte(raw))
		return flag
	}
	return Flag{}
}

// Warnings lists numeric fields whose values could not be converted.
// The record is still usable; those fields fall back to their defaults.
func (s Spool) Warnings() []string {
	var out []string
	check := func(field string, n Number) {
		if n.Malformed {
			out = append(out, fmt.Sprintf("%s: cannot convert %q to a number", field, n.Raw))
		}
	}

	check("initial_weight", s.InitialWeight)
	check("remaining_weight", s.RemainingWeight)
	check("used_weight", s.UsedWeight)
	check("remaining_length", s.RemainingLength)

	f := s.FilamentOrEmpty()
	check("filament.diameter", f.Diameter)
	check("filament.price", f.Price)
	check("filament.density", f.Density)
	check("filament.weight", f.Weight)
	check("filament.spool_weight", f.SpoolWeight)
	check("filament.settings_extruder_temp", f.ExtruderTemp)
	check("filament.settings_bed_temp", f.BedTemp)
	for _, key := range []string{KeyFirstLayerExtruderTemp, KeyFirstLayerBedTemp, KeyMaxVolumetricSpeed} {
		check("filament."+key, f.NumberOverride(key))
	}
	return out
}

// Active returns the spools that are not archived, in ascending id order.
func Active(spools []Spool) []Spool {
	active := make([]Spool, 0, len(spools))
	for _, s := range spools {
		if !s.Archived {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}

// NormalizeKey is the case-insensitive lookup key Spoolman names are matched by.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
