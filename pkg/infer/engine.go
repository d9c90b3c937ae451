// Package infer derives color descriptions and material-dependent print
// settings from normalized filament attributes.
package infer

import (
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/normalize"
)

// Settings are the print parameters derived for one spool.
type Settings struct {
	FirstLayerNozzle   int     `json:"first_layer_nozzle" yaml:"first_layer_nozzle"`
	FirstLayerBed      int     `json:"first_layer_bed" yaml:"first_layer_bed"`
	MaxVolumetricSpeed float64 `json:"max_volumetric_speed" yaml:"max_volumetric_speed"`
	Cooling            Cooling `json:"cooling" yaml:"cooling"`
	Soluble            bool    `json:"soluble" yaml:"soluble"`
	Cost               Cost    `json:"cost" yaml:"cost"`
}

// Engine combines color rules and material tables.
type Engine struct {
	tables Tables
	rules  ColorRules
}

// Option configures an Engine.
type Option func(*Engine)

// WithColorRules replaces the built-in color rules.
func WithColorRules(rules ColorRules) Option {
	return func(e *Engine) { e.rules = rules }
}

// New creates an engine over the given tables.
func New(tables Tables, opts ...Option) *Engine {
	e := &Engine{tables: tables, rules: DefaultColorRules()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns the engine's material tables.
func (e *Engine) Tables() Tables {
	return e.tables
}

// Color infers the color of a filament from its name, then its hex code.
func (e *Engine) Color(attrs normalize.Attributes) Color {
	return e.rules.ResolveColor(attrs.Name, attrs.ColorHex)
}

// Settings derives print settings. Values set explicitly on the filament
// always win over the material tables.
func (e *Engine) Settings(attrs normalize.Attributes) Settings {
	m := e.tables.Material(attrs.Material)

	s := Settings{
		FirstLayerNozzle:   normalize.ClampNozzle(attrs.NozzleTemp + m.FirstLayerOffset),
		FirstLayerBed:      attrs.BedTemp,
		MaxVolumetricSpeed: m.MaxVolumetricSpeed,
		Cooling:            m.Cooling,
		Soluble:            m.Soluble,
		Cost:               CostOf(attrs.Price, attrs.Weight),
	}

	if attrs.FirstLayerNozzle != nil {
		s.FirstLayerNozzle = *attrs.FirstLayerNozzle
	}
	if attrs.FirstLayerBed != nil {
		s.FirstLayerBed = *attrs.FirstLayerBed
	}
	if attrs.MaxVolumetricSpeed != nil {
		s.MaxVolumetricSpeed = *attrs.MaxVolumetricSpeed
	}
	if len(attrs.Cooling) == 3 {
		s.Cooling = Cooling{
			Enabled: int(attrs.Cooling[0]),
			MinFan:  int(attrs.Cooling[1]),
			MaxFan:  int(attrs.Cooling[2]),
		}
	}
	if attrs.Soluble != nil {
		s.Soluble = *attrs.Soluble
	}

	return s
}
