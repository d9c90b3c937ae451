package infer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Multicolor types.
const (
	Dual      = "dual"
	Tri       = "tri"
	Multi     = "multi"
	Gradient  = "gradient"
	Rainbow   = "rainbow"
	Chameleon = "chameleon"
)

// Unknown is the color name used when nothing could be inferred.
const Unknown = "Unknown"

// Color describes the color of a filament as inferred from its name.
type Color struct {
	DisplayName    string   `json:"display_name" yaml:"display_name"`
	ShortName      string   `json:"short_name" yaml:"short_name"`
	Multicolor     bool     `json:"multicolor" yaml:"multicolor"`
	MulticolorType string   `json:"multicolor_type,omitempty" yaml:"multicolor_type,omitempty"`
	Colors         []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Effects        []string `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// Scan is the state rules read and update while scanning one name.
type Scan struct {
	// Name is the lower-cased filament name.
	Name string

	MulticolorType string
	// Keyword is the text that set MulticolorType.
	Keyword string
	Effects []string
	Colors  []string
}

// Rule is one step of color extraction. Match inspects the scan, Apply
// records what the rule found.
type Rule struct {
	Name  string
	Match func(*Scan) bool
	Apply func(*Scan)
}

// ColorRules holds the ordered rules for each extraction phase. Within
// Multicolor and Colors the first matching rule wins; every matching
// Effects rule contributes.
type ColorRules struct {
	Multicolor []Rule
	Effects    []Rule
	Colors     []Rule
}

// titleCase upper-cases the first letter of each word. A Caser keeps state,
// so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// BasicColors are the color words recognized in names, in lookup order.
var BasicColors = []string{
	"white", "black", "blue", "red", "green", "yellow", "orange", "silver",
	"gold", "brown", "purple", "pink", "gray", "grey", "transparent", "clear",
	"natural", "beige", "violet", "cyan", "magenta", "bronze", "copper",
}

var colorAliases = map[string]string{
	"grey":        "gray",
	"transparent": "clear",
}

type keyword struct {
	pattern string
	label   string
}

var multicolorKeywords = []keyword{
	{`dual[- ]?colou?r`, Dual},
	{`tri[- ]?colou?r`, Tri},
	{`multi[- ]?colou?r`, Multi},
	{`gradient`, Gradient},
	{`transition`, Gradient},
	{`coextruded`, Dual},
	{`rainbow`, Rainbow},
	{`chameleon`, Chameleon},
}

var effectKeywords = []keyword{
	{`silk`, "Silk"},
	{`galaxy`, "Galaxy"},
	{`pearl`, "Pearl"},
	{`metallic`, "Metallic"},
	{`matte`, "Matte"},
	{`glossy`, "Glossy"},
	{`luminous`, "Luminous"},
	{`glowing`, "Glowing"},
	{`pure`, "Pure"},
	{`sparkle`, "Sparkle"},
	{`glitter`, "Glitter"},
	{`marble`, "Marble"},
	{`wood`, "Wood"},
	{`carbon`, "Carbon"},
	{`glow[- ]in[- ](?:the[- ])?dark|glow in dark|gitd`, "Glow"},
	{`fluorescent`, "Fluorescent"},
}

var (
	basicColorPattern = `(?:` + strings.Join(BasicColors, "|") + `)`
	singleColorRe     = regexp.MustCompile(`\b` + basicColorPattern + `\b`)
	colorSequenceRe   = regexp.MustCompile(`\b` + basicColorPattern + `\b(?:(?:\s*[-/&]\s*|\s+)\b` + basicColorPattern + `\b)+`)
)

// DefaultColorRules returns the built-in rule set.
func DefaultColorRules() ColorRules {
	rules := ColorRules{}

	for _, kw := range multicolorKeywords {
		re := regexp.MustCompile(kw.pattern)
		label := kw.label
		rules.Multicolor = append(rules.Multicolor, Rule{
			Name:  "multicolor:" + kw.pattern,
			Match: func(s *Scan) bool { return re.MatchString(s.Name) },
			Apply: func(s *Scan) {
				s.MulticolorType = label
				s.Keyword = re.FindString(s.Name)
			},
		})
	}

	for _, kw := range effectKeywords {
		re := regexp.MustCompile(`\b(?:` + kw.pattern + `)\b`)
		label := kw.label
		rules.Effects = append(rules.Effects, Rule{
			Name: "effect:" + strings.ToLower(label),
			Match: func(s *Scan) bool {
				if s.MulticolorType != "" && (strings.EqualFold(label, s.MulticolorType) || strings.EqualFold(label, s.Keyword)) {
					return false
				}
				return re.MatchString(s.Name)
			},
			Apply: func(s *Scan) { s.Effects = append(s.Effects, label) },
		})
	}

	rules.Colors = []Rule{
		{
			Name:  "color:sequence",
			Match: func(s *Scan) bool { return colorSequenceRe.MatchString(s.Name) },
			Apply: func(s *Scan) {
				seq := colorSequenceRe.FindString(s.Name)
				s.Colors = uniqueColors(singleColorRe.FindAllString(seq, -1))
			},
		},
		{
			Name:  "color:single",
			Match: func(s *Scan) bool { return singleColorRe.MatchString(s.Name) },
			Apply: func(s *Scan) {
				s.Colors = uniqueColors([]string{singleColorRe.FindString(s.Name)})
			},
		},
	}

	return rules
}

// uniqueColors canonicalizes aliases, title-cases and drops repeats, keeping order.
func uniqueColors(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if alias, ok := colorAliases[w]; ok {
			w = alias
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, titleCase(w))
	}
	return out
}

// Extract infers a color description from a filament name.
// It returns Unknown names when nothing matched; see ColorFromHex for the fallback.
func (r ColorRules) Extract(name string) Color {
	scan := &Scan{Name: strings.ToLower(name)}

	firstMatch(r.Multicolor, scan)
	for _, rule := range r.Effects {
		if rule.Match(scan) {
			rule.Apply(scan)
		}
	}
	firstMatch(r.Colors, scan)

	if scan.MulticolorType == "" && len(scan.Colors) >= 2 {
		switch len(scan.Colors) {
		case 2:
			scan.MulticolorType = Dual
		case 3:
			scan.MulticolorType = Tri
		default:
			scan.MulticolorType = Multi
		}
	}

	return scan.assemble()
}

func firstMatch(rules []Rule, scan *Scan) {
	for _, rule := range rules {
		if rule.Match(scan) {
			rule.Apply(scan)
			return
		}
	}
}

func (s *Scan) assemble() Color {
	c := Color{
		Multicolor:     s.MulticolorType != "",
		MulticolorType: s.MulticolorType,
		Colors:         s.Colors,
		Effects:        s.Effects,
	}

	parts := append([]string{}, s.Effects...)
	if c.Multicolor {
		parts = append(parts, titleCase(s.MulticolorType))
	}
	if len(s.Colors) > 0 {
		sep := " "
		if c.Multicolor {
			sep = "-"
		}
		parts = append(parts, strings.Join(s.Colors, sep))
	}

	if len(parts) == 0 {
		c.DisplayName, c.ShortName = Unknown, Unknown
		return c
	}

	short := make([]string, len(parts))
	for i, p := range parts {
		short[i] = strings.ReplaceAll(p, " ", "")
	}
	c.DisplayName = strings.Join(parts, " ")
	c.ShortName = strings.Join(short, "_")
	return c
}

// ColorFromHex names a color from its hex code using fixed heuristics.
// The checks run in order, so a code ending in "ff" is always Blue.
func ColorFromHex(hex string) Color {
	h := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(hex)), "#")

	var name string
	switch {
	case h == "":
		name = Unknown
	case strings.HasSuffix(h, "ff"):
		name = "Blue"
	case strings.HasPrefix(h, "ff"):
		name = "Red"
	case strings.Contains(h, "00ff00"):
		name = "Green"
	case strings.Contains(h, "ffff00"):
		name = "Yellow"
	case h == "000000" || h == "00000000":
		name = "Black"
	case h == "ffffff" || h == "ffffff00":
		name = "White"
	default:
		name = "HEX_" + h
	}
	return Color{DisplayName: name, ShortName: name}
}

// ResolveColor extracts a color from name and falls back to the hex code.
func (r ColorRules) ResolveColor(name, hex string) Color {
	c := r.Extract(name)
	if c.DisplayName == Unknown {
		return ColorFromHex(hex)
	}
	return c
}
