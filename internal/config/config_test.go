package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "psxdisasm.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.DataCatalogs)
	assert.Empty(t, cfg.FuncCatalogs)

	table, err := cfg.ForceTable()
	assert.NoError(t, err)
	assert.Equal(t, directive.DefaultForceTable().Ranges(), table.Ranges())
}

//nolint:funlen // test functions can be long
func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     string
		check   func(t *testing.T, path string, cfg Analysis)
	}{
		{
			name: "catalogs resolved relative to the file",
			content: `
data_catalogs: [game_data.yaml, /abs/foreign_data.yaml]
func_catalogs: [funcs.yaml]
`,
			check: func(t *testing.T, path string, cfg Analysis) {
				t.Helper()
				dir := filepath.Dir(path)
				assert.Equal(t, []string{filepath.Join(dir, "game_data.yaml"), "/abs/foreign_data.yaml"}, cfg.DataCatalogs)
				assert.Equal(t, []string{filepath.Join(dir, "funcs.yaml")}, cfg.FuncCatalogs)
				assert.Equal(t, Default().ForceDecode, cfg.ForceDecode)
			},
		},
		{
			name: "force ranges replace the defaults",
			content: `
force_decode:
  - start: 0x80020000
    end: 0x80020010
    shape: bbh
  - start: 0x80030000
    shape: W
`,
			check: func(t *testing.T, _ string, cfg Analysis) {
				t.Helper()
				table, err := cfg.ForceTable()
				assert.NoError(t, err)
				ranges := table.Ranges()
				assert.Equal(t, 2, len(ranges))
				assert.Equal(t, pos.Pos(0x80020010), ranges[0].End)
				assert.Equal(t, directive.ShapeBBH, ranges[0].Shape)
				assert.True(t, ranges[1].Unbounded)
			},
		},
		{
			name:    "empty force table",
			content: "force_decode: []\n",
			check: func(t *testing.T, _ string, cfg Analysis) {
				t.Helper()
				assert.Empty(t, cfg.ForceDecode)
			},
		},
		{
			name:    "unknown shape",
			content: "force_decode: [{start: 0x80020000, end: 0x80020004, shape: WW}]\n",
			err:     "unsupported force-decode shape",
		},
		{
			name:    "inverted range",
			content: "force_decode: [{start: 0x80020004, end: 0x80020000, shape: W}]\n",
			err:     "is not after start",
		},
		{
			name:    "unknown key",
			content: "catalogs: [a.yaml]\n",
			err:     "parsing config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			cfg, err := Load(path)
			if tt.err != "" {
				assert.ErrorContains(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			tt.check(t, path, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
	assert.NotNil(t, CreateLogger(false, false))
}
