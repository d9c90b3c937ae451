package inspect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/profile"
)

const sampleProfile = `# Generated by spoolsync
# 2026-01-02 03:04:05 UTC

filament_settings_id = "Prusament PLA Galaxy Black"
filament_type = PLA
temperature = 215
`

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	name := "SM_Prusament_PLA_Galaxy Black_ID42.ini"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sampleProfile), 0o644))

	app := &appcontext.Mock{
		OutputDirFunc:    func() string { return dir },
		OutputFormatFunc: func() string { return "json" },
	}

	t.Run("bare name resolves in output dir", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Execute(app, name, &buf))

		var fields []profile.Field
		require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
		require.Len(t, fields, 3)
		assert.Equal(t, profile.Field{Key: "filament_settings_id", Value: "Prusament PLA Galaxy Black"}, fields[0])
		assert.Equal(t, profile.Field{Key: "temperature", Value: "215"}, fields[2])
	})

	t.Run("missing file", func(t *testing.T) {
		err := Execute(app, "SM_missing_ID1.ini", &bytes.Buffer{})
		var ioErr *errors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, filepath.Join(dir, "SM_missing_ID1.ini"), ioErr.Path)
	})
}
