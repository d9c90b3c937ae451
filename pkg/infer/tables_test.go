package infer

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		material string
		offset   int
		speed    float64
		cooling  Cooling
		soluble  bool
	}{
		{"PLA", 10, 15, Cooling{1, 100, 100}, false},
		{"PETG", 5, 10, Cooling{1, 50, 80}, false},
		{"ABS", 10, 12, Cooling{0, 0, 0}, false},
		{"ASA", 10, 12, Cooling{0, 0, 0}, false},
		{"PC", 10, 10, DefaultCooling, false},
		{"TPU", 0, 4, Cooling{1, 30, 60}, false},
		{"NYLON", 10, 8, Cooling{0, 0, 0}, false},
		{"PVA", 10, 10, DefaultCooling, true},
		{"UNOBTAINIUM", 10, 10, DefaultCooling, false},
	}

	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			assert.Equal(t, tt.offset, tables.FirstLayerOffset(tt.material))
			assert.Equal(t, tt.speed, tables.MaxVolumetricSpeed(tt.material))
			assert.Equal(t, tt.cooling, tables.Cooling(tt.material))
			assert.Equal(t, tt.soluble, tables.IsSoluble(tt.material))
		})
	}

	assert.Equal(t, []string{"ABS", "ASA", "NYLON", "PC", "PETG", "PLA", "TPU"}, tables.Materials())
	assert.Equal(t, []string{"BVOH", "HIPS", "PVA"}, tables.Soluble())
}

func TestDefaultTablesAreIndependent(t *testing.T) {
	a := DefaultTables()
	b := DefaultTables()
	a.materials["PLA"] = MaterialSettings{}
	assert.Equal(t, 15.0, b.MaxVolumetricSpeed("PLA"))
}

func writeTables(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTables(t *testing.T) {
	path := writeTables(t, `
materials:
  pla:
    max_volumetric_speed: 21
  PCTG:
    first_layer_offset: 5
    cooling: {enabled: 1, min_fan: 30, max_fan: 60}
soluble: [pva]
`)

	tables, err := LoadTables(path)
	require.NoError(t, err)

	assert.Equal(t, 21.0, tables.MaxVolumetricSpeed("PLA"))
	assert.Equal(t, 10, tables.FirstLayerOffset("PLA"), "unset fields keep the default")
	assert.Equal(t, Cooling{1, 100, 100}, tables.Cooling("PLA"))

	assert.Equal(t, 5, tables.FirstLayerOffset("PCTG"))
	assert.Equal(t, DefaultMaxVolumetricSpeed, tables.MaxVolumetricSpeed("PCTG"))
	assert.Equal(t, Cooling{1, 30, 60}, tables.Cooling("PCTG"))

	assert.True(t, tables.IsSoluble("PVA"))
	assert.False(t, tables.IsSoluble("HIPS"))
}

func TestLoadTablesErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
		var ioErr *errors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadTables(writeTables(t, "materials: [unclosed"))
		var parseErr *errors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("non-positive speed", func(t *testing.T) {
		_, err := LoadTables(writeTables(t, "materials:\n  PLA:\n    max_volumetric_speed: 0\n"))
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestCostOf(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		weight  float64
		perGram float64
		perKg   float64
	}{
		{"zero weight", 500, 0, 0, 0},
		{"negative weight", 500, -1, 0, 0},
		{"one kilogram", 500, 1000, 0.5, 500},
		{"750 grams", 600, 750, 0.8, 800},
		{"free", 0, 1000, 0, 0},
		{"nan price", math.NaN(), 1000, 0, 0},
		{"nan weight", 500, math.NaN(), 0, 0},
		{"infinite weight", 500, math.Inf(1), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CostOf(tt.price, tt.weight)
			assert.Equal(t, tt.perGram, c.PerGram)
			assert.Equal(t, tt.perKg, c.PerKg)
		})
	}
}
