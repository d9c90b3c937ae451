package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/normalize"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

func TestSettingsFromTables(t *testing.T) {
	engine := New(DefaultTables())

	attrs := normalize.Normalize(spoolman.Spool{
		ID: 1,
		Filament: &spoolman.Filament{
			Material:     "petg",
			ExtruderTemp: spoolman.Num(240),
			BedTemp:      spoolman.Num(85),
			Price:        spoolman.Num(500),
			Weight:       spoolman.Num(1000),
		},
	})

	s := engine.Settings(attrs)
	assert.Equal(t, 245, s.FirstLayerNozzle)
	assert.Equal(t, 85, s.FirstLayerBed)
	assert.Equal(t, 10.0, s.MaxVolumetricSpeed)
	assert.Equal(t, Cooling{1, 50, 80}, s.Cooling)
	assert.False(t, s.Soluble)
	assert.Equal(t, Cost{PerGram: 0.5, PerKg: 500}, s.Cost)
}

func TestSettingsExplicitValuesWin(t *testing.T) {
	engine := New(DefaultTables())

	attrs := normalize.Normalize(spoolman.Spool{
		ID: 2,
		Filament: &spoolman.Filament{
			Material:               "PVA",
			ExtruderTemp:           spoolman.Num(200),
			FirstLayerExtruderTemp: spoolman.Num(205),
			FirstLayerBedTemp:      spoolman.Num(65),
			MaxVolumetricSpeed:     spoolman.Num(3.5),
			CoolingProfile:         []spoolman.Number{spoolman.Num(0), spoolman.Num(10), spoolman.Num(20)},
			Soluble:                spoolman.Flag{Value: false, Valid: true},
		},
	})

	s := engine.Settings(attrs)
	assert.Equal(t, 205, s.FirstLayerNozzle)
	assert.Equal(t, 65, s.FirstLayerBed)
	assert.Equal(t, 3.5, s.MaxVolumetricSpeed)
	assert.Equal(t, Cooling{0, 10, 20}, s.Cooling)
	assert.False(t, s.Soluble, "explicit false overrides the soluble table")
}

func TestSettingsDefaults(t *testing.T) {
	engine := New(DefaultTables())
	s := engine.Settings(normalize.Normalize(spoolman.Spool{ID: 3, Filament: &spoolman.Filament{Material: "pva"}}))

	assert.Equal(t, 230, s.FirstLayerNozzle)
	assert.Equal(t, 60, s.FirstLayerBed)
	assert.Equal(t, DefaultMaxVolumetricSpeed, s.MaxVolumetricSpeed)
	assert.Equal(t, DefaultCooling, s.Cooling)
	assert.True(t, s.Soluble)
	assert.Equal(t, Cost{}, s.Cost)
}

func TestFirstLayerNozzleIsClamped(t *testing.T) {
	engine := New(DefaultTables())
	attrs := normalize.Normalize(spoolman.Spool{Filament: &spoolman.Filament{ExtruderTemp: spoolman.Num(345)}})
	assert.Equal(t, 350, engine.Settings(attrs).FirstLayerNozzle)
}

func TestEngineColor(t *testing.T) {
	engine := New(DefaultTables())

	attrs := normalize.Normalize(spoolman.Spool{Filament: &spoolman.Filament{Name: "Nameless", ColorHex: "#0000ff"}})
	assert.Equal(t, "Blue", engine.Color(attrs).DisplayName)

	custom := New(DefaultTables(), WithColorRules(ColorRules{}))
	attrs = normalize.Normalize(spoolman.Spool{Filament: &spoolman.Filament{Name: "Galaxy Black"}})
	assert.Equal(t, Unknown, custom.Color(attrs).DisplayName)
}
