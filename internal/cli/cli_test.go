package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/assert"
)

//nolint:funlen // test functions can be long
func TestParseFlags_DisasmOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Disassembler
	}{
		{
			name: "default flags",
			args: []string{"prog", "test.exe"},
			want: options.NewDisassembler(),
		},
		{
			name: "nohexcomments flag",
			args: []string{"prog", "--nohexcomments", "test.exe"},
			want: options.Disassembler{
				BaseAddress: options.DefaultBaseAddress, Heuristics: true, OffsetComments: true,
			},
		},
		{
			name: "nooffsets flag",
			args: []string{"prog", "--nooffsets", "test.exe"},
			want: options.Disassembler{
				BaseAddress: options.DefaultBaseAddress, Heuristics: true, HexComments: true,
			},
		},
		{
			name: "binary with base address",
			args: []string{"prog", "--binary", "--base", "0x80020000", "test.bin"},
			want: options.Disassembler{
				Binary: true, BaseAddress: 0x80020000, Heuristics: true, HexComments: true, OffsetComments: true,
			},
		},
		{
			name: "no heuristics",
			args: []string{"prog", "--noheuristics", "--nohexcomments", "--nooffsets", "test.exe"},
			want: options.Disassembler{BaseAddress: options.DefaultBaseAddress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_ProgramOptions(t *testing.T) {
	opts, _, err := ParseArgs([]string{
		"-o", "out.asm", "-c", "cfg.yaml", "-q",
		"--data-catalog", "a.yaml", "--data-catalog", "b.yaml",
		"--func-catalog", "f.yaml", "--tree", "--funcs", "--data", "--verify",
		"--export-data", "data_out.yaml",
		"game.exe",
	})
	assert.NoError(t, err)
	assert.Equal(t, "game.exe", opts.Input)
	assert.Equal(t, "out.asm", opts.Output)
	assert.Equal(t, "cfg.yaml", opts.Config)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, opts.DataCatalog)
	assert.Equal(t, []string{"f.yaml"}, opts.FuncCatalog)
	assert.Equal(t, "data_out.yaml", opts.ExportData)
	assert.True(t, opts.Quiet)
	assert.True(t, opts.Tree)
	assert.True(t, opts.FuncReport)
	assert.True(t, opts.DataReport)
	assert.True(t, opts.Verify)
}

func TestParseArgs_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "no input", args: nil},
		{name: "help", args: []string{"--help"}},
		{name: "unknown flag", args: []string{"--unknown", "a.exe"}, msg: "unknown flag: --unknown"},
		{name: "two inputs", args: []string{"a.exe", "b.exe"}, msg: "accepts at most 1 arg(s), received 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseArgs(tt.args)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
			assert.Equal(t, tt.msg, usageErr.Error())
			assert.Contains(t, usageErr.cmd.UsageString(), "psxdisasm [options] <file to disassemble>")
		})
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		expectError bool
	}{
		{
			name: "no conflict",
			opts: options.Program{},
		},
		{
			name: "binary with base address",
			opts: options.Program{Flags: options.Flags{Binary: true, BaseAddress: 0x80020000}},
		},
		{
			name:        "base address without binary",
			opts:        options.Program{Flags: options.Flags{BaseAddress: 0x80020000}},
			expectError: true,
		},
		{
			name:        "unaligned base address",
			opts:        options.Program{Flags: options.Flags{Binary: true, BaseAddress: 0x80020002}},
			expectError: true,
		},
		{
			name: "export in batch mode",
			opts: options.Program{
				Parameters: options.Parameters{Batch: "*.exe", ExportFuncs: "funcs.yaml"},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptions(tt.opts)
			if tt.expectError {
				assert.True(t, err != nil)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateDisasmOptions(t *testing.T) {
	got := createDisasmOptions(options.Program{Flags: options.Flags{Binary: true}})
	assert.True(t, got.Binary)
	assert.Equal(t, pos.Pos(options.DefaultBaseAddress), got.BaseAddress)
}
