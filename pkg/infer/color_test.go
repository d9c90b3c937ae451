package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	rules := DefaultColorRules()

	tests := []struct {
		name       string
		input      string
		display    string
		short      string
		multicolor string
		colors     []string
	}{
		{
			name:    "effect and color",
			input:   "Prusament PLA Galaxy Black",
			display: "Galaxy Black",
			short:   "Galaxy_Black",
			colors:  []string{"Black"},
		},
		{
			name:       "explicit dual with effect",
			input:      "ERYONE - Silk PLA Dual-Color Red Green - PLA",
			display:    "Silk Dual Red-Green",
			short:      "Silk_Dual_Red-Green",
			multicolor: Dual,
			colors:     []string{"Red", "Green"},
		},
		{
			name:       "rainbow without colors",
			input:      "SUNLU Rainbow PLA",
			display:    "Rainbow",
			short:      "Rainbow",
			multicolor: Rainbow,
		},
		{
			name:       "auto promoted dual",
			input:      "Geeetech Black/White PLA",
			display:    "Dual Black-White",
			short:      "Dual_Black-White",
			multicolor: Dual,
			colors:     []string{"Black", "White"},
		},
		{
			name:       "auto promoted tri with aliases",
			input:      "Silk Red & Grey - Transparent",
			display:    "Silk Tri Red-Gray-Clear",
			short:      "Silk_Tri_Red-Gray-Clear",
			multicolor: Tri,
			colors:     []string{"Red", "Gray", "Clear"},
		},
		{
			name:       "four colors become multi",
			input:      "Red Green Blue Yellow",
			display:    "Multi Red-Green-Blue-Yellow",
			short:      "Multi_Red-Green-Blue-Yellow",
			multicolor: Multi,
			colors:     []string{"Red", "Green", "Blue", "Yellow"},
		},
		{
			name:       "transition is gradient",
			input:      "Transition Blue-Purple",
			display:    "Gradient Blue-Purple",
			short:      "Gradient_Blue-Purple",
			multicolor: Gradient,
			colors:     []string{"Blue", "Purple"},
		},
		{
			name:       "coextruded is dual",
			input:      "Coextruded Gold Silver Silk",
			display:    "Silk Dual Gold-Silver",
			short:      "Silk_Dual_Gold-Silver",
			multicolor: Dual,
			colors:     []string{"Gold", "Silver"},
		},
		{
			name:    "repeated color is single",
			input:   "Red red edition",
			display: "Red",
			short:   "Red",
			colors:  []string{"Red"},
		},
		{
			name:    "glow in the dark",
			input:   "PLA Glow-in-the-Dark Green",
			display: "Glow Green",
			short:   "Glow_Green",
			colors:  []string{"Green"},
		},
		{
			name:    "effects keep table order",
			input:   "Matte Silk Pearl White",
			display: "Silk Pearl Matte White",
			short:   "Silk_Pearl_Matte_White",
			colors:  []string{"White"},
		},
		{
			name:    "whole words only",
			input:   "Redline Goldenrod",
			display: Unknown,
			short:   Unknown,
		},
		{
			name:    "nothing recognizable",
			input:   "Prusament PETG",
			display: Unknown,
			short:   Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := rules.Extract(tt.input)
			assert.Equal(t, tt.display, c.DisplayName)
			assert.Equal(t, tt.short, c.ShortName)
			assert.Equal(t, tt.multicolor != "", c.Multicolor)
			assert.Equal(t, tt.multicolor, c.MulticolorType)
			if tt.colors == nil {
				assert.Empty(t, c.Colors)
			} else {
				assert.Equal(t, tt.colors, c.Colors)
			}
		})
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"0000ff", "Blue"},
		{"#0000FF", "Blue"},
		{"ff0000", "Red"},
		{"00ff00", "Green"},
		{"ffff00", "Red"},
		{"a0ffff00", "Yellow"},
		{"000000", "Black"},
		{"00000000", "Black"},
		{"ffffff", "Blue"},
		{"3d3e3d", "HEX_3d3e3d"},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c := ColorFromHex(tt.hex)
			assert.Equal(t, tt.want, c.DisplayName)
			assert.Equal(t, tt.want, c.ShortName)
			assert.False(t, c.Multicolor)
		})
	}
}

func TestResolveColor(t *testing.T) {
	rules := DefaultColorRules()

	assert.Equal(t, "Blue", rules.ResolveColor("Mystery filament", "0000ff").DisplayName)
	assert.Equal(t, Unknown, rules.ResolveColor("Mystery filament", "").DisplayName)
	assert.Equal(t, "Galaxy Black", rules.ResolveColor("Galaxy Black", "ffffff").DisplayName)
}

func TestRulesAreData(t *testing.T) {
	rules := DefaultColorRules()
	require.Len(t, rules.Multicolor, 8)
	assert.Equal(t, "effect:silk", rules.Effects[0].Name)

	t.Run("single rule in isolation", func(t *testing.T) {
		scan := &Scan{Name: "pla dual color"}
		rule := rules.Multicolor[0]
		require.True(t, rule.Match(scan))
		rule.Apply(scan)
		assert.Equal(t, Dual, scan.MulticolorType)
		assert.Equal(t, "dual color", scan.Keyword)
	})

	t.Run("custom rule set", func(t *testing.T) {
		custom := ColorRules{Colors: []Rule{{
			Name:  "always teal",
			Match: func(*Scan) bool { return true },
			Apply: func(s *Scan) { s.Colors = []string{"Teal"} },
		}}}
		assert.Equal(t, "Teal", custom.Extract("anything").DisplayName)
	})
}
