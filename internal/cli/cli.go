// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments and returns program and disassembler options.
func ParseArgs(arguments []string) (options.Program, options.Disassembler, error) {
	var opts options.Program
	var args []string
	ran := false

	cmd := newCommand(func(_ *cobra.Command, positional []string) error {
		args = positional
		ran = true
		return nil
	})
	readOptionFlags(cmd.Flags(), &opts)
	readOutputFlags(cmd.Flags(), &opts)
	if arguments == nil {
		arguments = []string{}
	}
	cmd.SetArgs(arguments)

	if err := cmd.Execute(); err != nil {
		return opts, options.Disassembler{}, &UsageError{cmd: cmd, msg: err.Error()}
	}
	if !ran || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, options.Disassembler{}, &UsageError{cmd: cmd}
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	if err := validateOptions(opts); err != nil {
		return opts, options.Disassembler{}, err
	}

	return opts, createDisasmOptions(opts), nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	cmd *cobra.Command
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage of the command.
func (e *UsageError) ShowUsage() {
	fmt.Print(e.cmd.UsageString())
	fmt.Println()
}

func newCommand(run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "psxdisasm [options] <file to disassemble>",
		Short:         "PlayStation executable disassembler",
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	// usage is printed by the caller
	cmd.SetHelpFunc(func(*cobra.Command, []string) {})
	return cmd
}

// validateOptions checks option combinations.
func validateOptions(opts options.Program) error {
	if opts.Batch != "" && (opts.ExportData != "" || opts.ExportFuncs != "") {
		return errors.New("catalog export is not supported in batch mode")
	}
	if opts.BaseAddress != 0 && !opts.Binary {
		return errors.New("a base address can only be used with binary input")
	}
	if opts.Binary && !pos.Pos(opts.BaseAddress).IsWordAligned() {
		return fmt.Errorf("base address %s is not word aligned", pos.Pos(opts.BaseAddress))
	}
	return nil
}

// createDisasmOptions creates disassembler options based on program options
func createDisasmOptions(opts options.Program) options.Disassembler {
	disasmOptions := options.NewDisassembler()
	disasmOptions.Binary = opts.Binary
	if opts.BaseAddress != 0 {
		disasmOptions.BaseAddress = pos.Pos(opts.BaseAddress)
	}
	disasmOptions.Heuristics = !opts.NoHeuristics
	disasmOptions.HexComments = !opts.NoHexComments
	disasmOptions.OffsetComments = !opts.NoOffsets
	return disasmOptions
}

func readOptionFlags(flags *pflag.FlagSet, opts *options.Program) {
	flags.StringVarP(&opts.Input, "input", "i", "", "name of the input PS-X EXE file")
	flags.StringVarP(&opts.Output, "output", "o", "", "name of the output .asm file, printed on console if no name given")
	flags.StringVarP(&opts.Config, "config", "c", "", "analysis config file with catalogs and force-decode ranges")
	flags.StringSliceVar(&opts.DataCatalog, "data-catalog", nil, "known data catalog file, can be repeated")
	flags.StringSliceVar(&opts.FuncCatalog, "func-catalog", nil, "known function catalog file, can be repeated")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .asm file naming, for example *.exe")
	flags.StringVar(&opts.ExportData, "export-data", "", "write the final data table to the given catalog file")
	flags.StringVar(&opts.ExportFuncs, "export-funcs", "", "write the final function table to the given catalog file")
	flags.BoolVar(&opts.Binary, "binary", false, "read input file as raw binary file without any header")
	flags.Uint32Var(&opts.BaseAddress, "base", 0, "load address of a raw binary (default 0x80010000)")
	flags.BoolVar(&opts.NoHeuristics, "noheuristics", false, "only use the known data and function catalogs")
	flags.BoolVar(&opts.Verify, "verify", false, "verify that the decoded items encode back to the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "perform operations quietly")
}

func readOutputFlags(flags *pflag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output instruction words as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output positions in comments")
	flags.BoolVar(&opts.Tree, "tree", false, "print the data region tree")
	flags.BoolVar(&opts.FuncReport, "funcs", false, "print the function table")
	flags.BoolVar(&opts.DataReport, "data", false, "print the data table")
}
