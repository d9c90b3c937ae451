package tables

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
)

func run(t *testing.T, app appcontext.Interface, args ...string) []infer.ResolvedMaterial {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Execute(app, args, &buf))

	var got []infer.ResolvedMaterial
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	return got
}

func jsonApp() *appcontext.Mock {
	return &appcontext.Mock{OutputFormatFunc: func() string { return "json" }}
}

func TestTables_All(t *testing.T) {
	got := run(t, jsonApp())

	var names []string
	for _, m := range got {
		names = append(names, m.Material)
	}
	assert.Contains(t, names, "PLA")
	assert.Contains(t, names, "PVA")
	assert.IsNonDecreasing(t, names)
}

func TestTables_Selected(t *testing.T) {
	got := run(t, jsonApp(), "petg", "unobtainium")
	require.Len(t, got, 2)

	assert.Equal(t, "PETG", got[0].Material)
	assert.Equal(t, 5, got[0].FirstLayerOffset)

	assert.Equal(t, "UNOBTAINIUM", got[1].Material)
	assert.Equal(t, infer.DefaultFirstLayerOffset, got[1].FirstLayerOffset)
	assert.Equal(t, infer.DefaultCooling, got[1].Cooling)
}

func TestTables_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("materials:\n  PCTG:\n    max_volumetric_speed: 9\n"), 0o644))

	app := jsonApp()
	app.EngineFunc = func() (*infer.Engine, error) {
		tables, err := infer.LoadTables(path)
		if err != nil {
			return nil, err
		}
		return infer.New(tables), nil
	}

	got := run(t, app, "pctg")
	require.Len(t, got, 1)
	assert.Equal(t, 9.0, got[0].MaxVolumetricSpeed)
}

func TestTables_Table(t *testing.T) {
	app := &appcontext.Mock{OutputFormatFunc: func() string { return "table" }}
	var buf bytes.Buffer
	require.NoError(t, Execute(app, []string{"abs"}, &buf))
	assert.Contains(t, buf.String(), "ABS")
	assert.Contains(t, buf.String(), "off")
}
