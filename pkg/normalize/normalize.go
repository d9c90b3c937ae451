// Package normalize turns raw Spoolman records into safe, canonical values
// ready for inference and rendering. Nothing here fails: absent or
// malformed fields fall back to fixed defaults.
package normalize

import (
	"math"
	"regexp"
	"strings"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// Temperature ranges accepted by the slicer.
const (
	MinNozzleTemp = 170
	MaxNozzleTemp = 350
	MinBedTemp    = 0
	MaxBedTemp    = 120
)

// Defaults applied when a field is absent.
const (
	DefaultNozzleTemp = 220
	DefaultBedTemp    = 60
	DefaultMaterial   = "PLA"
	DefaultDiameter   = 1.75
	DefaultDensity    = 1.24
	DefaultColour     = "#808080"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.\- ]`)

// SafeINI makes s safe for a single-line INI value.
func SafeINI(s string) string {
	return strings.NewReplacer(`"`, "'", "\n", " ", "\r", " ").Replace(s)
}

// SafeFilename replaces every character outside [A-Za-z0-9_.- ] with an underscore.
func SafeFilename(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ClampNozzle limits a nozzle temperature to the slicer's accepted range.
func ClampNozzle(v int) int {
	return ClampInt(v, MinNozzleTemp, MaxNozzleTemp)
}

// ClampBed limits a bed temperature to the slicer's accepted range.
func ClampBed(v int) int {
	return ClampInt(v, MinBedTemp, MaxBedTemp)
}

// Attributes are the normalized fields of one spool.
type Attributes struct {
	SpoolID int

	// Display text, INI-safe.
	Name          string
	Vendor        string
	VendorSafe    string
	Material      string
	ArticleNumber string
	LotNumber     string
	Location      string
	Comment       string

	// Colour is "#rrggbb", or DefaultColour when the record has no hex code.
	Colour   string
	ColorHex string

	NozzleTemp int
	BedTemp    int

	Diameter    float64
	Density     float64
	Price       float64
	Weight      float64
	SpoolWeight float64

	InitialWeight   float64
	RemainingWeight float64
	UsedWeight      float64
	RemainingLength float64

	// Explicit per-filament values that win over material tables.
	FirstLayerNozzle   *int
	FirstLayerBed      *int
	MaxVolumetricSpeed *float64
	Cooling            []float64
	Soluble            *bool
}

// Normalize resolves a spool into Attributes.
func Normalize(spool spoolman.Spool) Attributes {
	f := spool.FilamentOrEmpty()

	vendor := f.VendorName()
	if vendor == "" {
		vendor = constants.DefaultVendor
	}
	vendor = SafeINI(vendor)

	material := strings.ToUpper(SafeINI(f.Material))
	if material == "" {
		material = DefaultMaterial
	}

	hex := strings.TrimPrefix(strings.TrimSpace(f.ColorHex), "#")
	colour := DefaultColour
	if hex != "" {
		colour = "#" + SafeINI(hex)
	}

	attrs := Attributes{
		SpoolID:       spool.ID,
		Name:          SafeINI(f.Name),
		Vendor:        vendor,
		VendorSafe:    SafeFilename(vendor),
		Material:      material,
		ArticleNumber: SafeINI(f.ArticleNumber),
		LotNumber:     SafeINI(spool.LotNumber),
		Location:      SafeINI(spool.Location),
		Comment:       SafeINI(f.Comment),
		Colour:        colour,
		ColorHex:      hex,

		NozzleTemp: ClampNozzle(truncate(f.ExtruderTemp.OrNonZero(DefaultNozzleTemp))),
		BedTemp:    ClampBed(truncate(f.BedTemp.OrNonZero(DefaultBedTemp))),

		Diameter:    f.Diameter.Or(DefaultDiameter),
		Density:     f.Density.OrNonZero(DefaultDensity),
		Price:       f.Price.Or(0),
		Weight:      f.Weight.Or(0),
		SpoolWeight: f.SpoolWeight.Or(0),

		InitialWeight:   spool.InitialWeight.Or(0),
		RemainingWeight: spool.RemainingWeight.Or(0),
		UsedWeight:      spool.UsedWeight.Or(0),
		RemainingLength: spool.RemainingLength.Or(0),

		Cooling: f.CoolingOverride(),
	}

	if n := f.NumberOverride(spoolman.KeyFirstLayerExtruderTemp); n.Valid {
		v := ClampNozzle(truncate(n.Value))
		attrs.FirstLayerNozzle = &v
	}
	if n := f.NumberOverride(spoolman.KeyFirstLayerBedTemp); n.Valid {
		v := ClampBed(truncate(n.Value))
		attrs.FirstLayerBed = &v
	}
	if n := f.NumberOverride(spoolman.KeyMaxVolumetricSpeed); n.Valid && n.Value > 0 {
		v := n.Value
		attrs.MaxVolumetricSpeed = &v
	}
	if flag := f.SolubleOverride(); flag.Valid {
		v := flag.Value
		attrs.Soluble = &v
	}

	return attrs
}

// truncate converts toward zero, saturating instead of overflowing.
func truncate(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int(math.Trunc(v))
}
