// Package profile builds PrusaSlicer filament profile names and documents
// for spools.
package profile

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/normalize"
)

// HeaderPrefix starts the generated comment line prepended to every profile.
const HeaderPrefix = "# Generated by " + constants.AppName

// TimestampLayout formats the generated-at header.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

var spoolIDSuffix = regexp.MustCompile(`_ID(\d+)$`)

// Document is the rendered profile for one spool.
type Document struct {
	Filename string
	Name     string
	SpoolID  int
	// Body excludes the generated header and is what Hash covers.
	Body string
	Hash string
}

// Name returns the profile name for the given identity parts.
func Name(vendorSafe, material, colorShort string, spoolID int) string {
	return normalize.SafeFilename(fmt.Sprintf("%s%s_%s_%s_ID%d",
		constants.ProfilePrefix, vendorSafe, material, colorShort, spoolID))
}

// Filename returns the profile file name for the given identity parts.
func Filename(vendorSafe, material, colorShort string, spoolID int) string {
	return Name(vendorSafe, material, colorShort, spoolID) + constants.ProfileExtension
}

// IsManaged reports whether a file name belongs to a profile this tool generates.
func IsManaged(filename string) bool {
	return strings.HasPrefix(filename, constants.ProfilePrefix) &&
		strings.HasSuffix(filename, constants.ProfileExtension)
}

// SpoolIDFromFilename extracts the spool id from a managed file name.
func SpoolIDFromFilename(filename string) (int, bool) {
	if !IsManaged(filename) {
		return 0, false
	}
	m := spoolIDSuffix.FindStringSubmatch(strings.TrimSuffix(filename, constants.ProfileExtension))
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Render produces the profile document. The same inputs always yield the
// same filename and body.
func Render(attrs normalize.Attributes, color infer.Color, settings infer.Settings) Document {
	name := Name(attrs.VendorSafe, attrs.Material, color.ShortName, attrs.SpoolID)

	soluble := 0
	if settings.Soluble {
		soluble = 1
	}

	var b strings.Builder
	w := func(key string, value any) {
		fmt.Fprintf(&b, "%s = %s\n", key, formatValue(value))
	}
	blank := func() { b.WriteByte('\n') }

	w("bed_temperature", attrs.BedTemp)
	w("first_layer_bed_temperature", settings.FirstLayerBed)
	w("temperature", attrs.NozzleTemp)
	w("first_layer_temperature", settings.FirstLayerNozzle)
	blank()
	w("filament_type", attrs.Material)
	w("filament_diameter", attrs.Diameter)
	w("filament_colour", attrs.Colour)
	w("filament_cost", settings.Cost.PerKg)
	w("filament_density", attrs.Density)
	w("filament_vendor", attrs.Vendor)
	w("filament_spool_weight", attrs.SpoolWeight)
	w("filament_soluble", soluble)
	w("filament_max_volumetric_speed", settings.MaxVolumetricSpeed)
	blank()
	w("cooling", settings.Cooling.Enabled)
	w("min_fan_speed", settings.Cooling.MinFan)
	w("max_fan_speed", settings.Cooling.MaxFan)
	blank()
	w("filament_notes", `"`+Notes(attrs, settings.Cost)+`"`)
	w("filament_settings_id", `"`+name+`"`)
	blank()
	fmt.Fprintf(&b, "inherits = %s %s", constants.BaseProfileVendor, attrs.Material)

	body := b.String()
	return Document{
		Filename: name + constants.ProfileExtension,
		Name:     name,
		SpoolID:  attrs.SpoolID,
		Body:     body,
		Hash:     Hash(body),
	}
}

// Notes builds the single-line filament_notes value.
func Notes(attrs normalize.Attributes, cost infer.Cost) string {
	fields := []string{
		"Vendor:" + attrs.Vendor,
		"Article:" + attrs.ArticleNumber,
		"Lot:" + attrs.LotNumber,
		"Location:" + attrs.Location,
		"Filament:" + formatFloat(attrs.Weight) + "g",
		"Spool:" + formatFloat(attrs.SpoolWeight) + "g",
		"Initial:" + formatFloat(attrs.InitialWeight) + "g",
		"Remaining:" + formatFloat(attrs.RemainingWeight) + "g",
		"Used:" + formatFloat(attrs.UsedWeight) + "g",
		"Length:" + strconv.Itoa(int(attrs.RemainingLength)) + "mm",
		"Price:" + formatFloat(attrs.Price) + "Kc",
		"Price/g:" + strconv.FormatFloat(cost.PerGram, 'f', 4, 64) + "Kc",
		"Price/kg:" + strconv.FormatFloat(cost.PerKg, 'f', 2, 64) + "Kc",
		"Comment:" + attrs.Comment,
	}
	return strings.Join(fields, " | ")
}

// Bytes returns the file content: a generated-at header followed by the body.
func (d Document) Bytes(at time.Time) []byte {
	return []byte(Header(at) + "\n\n" + d.Body + "\n")
}

// Header returns the generated-at comment line.
func Header(at time.Time) string {
	return HeaderPrefix + " on " + at.UTC().Format(TimestampLayout)
}

// Hash returns the hex MD5 digest of a document body.
func Hash(body string) string {
	sum := md5.Sum([]byte(body))
	return hex.EncodeToString(sum[:])
}

// HashContent hashes file content the way Render hashes a body: generated
// header lines are dropped and surrounding blank lines trimmed, so a file
// written by Document.Bytes hashes equal to its Document.
func HashContent(raw []byte) string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, HeaderPrefix) {
			continue
		}
		lines = append(lines, line)
	}
	return Hash(strings.Trim(strings.Join(lines, "\n"), "\n"))
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
