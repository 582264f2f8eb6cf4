// Package pipeline orchestrates the analysis and listing workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/psxdisasm/internal/catalog"
	"github.com/retroenv/psxdisasm/internal/config"
	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/detector"
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/heuristics"
	"github.com/retroenv/psxdisasm/internal/inst"
	"github.com/retroenv/psxdisasm/internal/loader"
	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/program"
	"github.com/retroenv/psxdisasm/internal/verification"
	"github.com/retroenv/psxdisasm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete analysis workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	catalog  *catalog.Loader
}

// New creates a new analysis pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		catalog:  catalog.New(logger),
	}
}

// Execute runs the complete pipeline. The listing is written to listing, the
// requested reports to reportWriter.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, disasmOpts options.Disassembler,
	listing, reportWriter io.Writer) (*program.Program, error) {

	// Detect input format
	disasmOpts.Binary = p.detector.Detect(opts, disasmOpts) == detector.Binary

	exe, err := p.loader.Load(opts, disasmOpts)
	if err != nil {
		return nil, fmt.Errorf("loading executable: %w", err)
	}

	return p.ExecuteWithExecutable(ctx, exe, opts, disasmOpts, listing, reportWriter)
}

// ExecuteWithExecutable runs the pipeline with a pre-loaded executable.
func (p *Pipeline) ExecuteWithExecutable(ctx context.Context, exe *loader.Executable, opts options.Program,
	disasmOpts options.Disassembler, listing, reportWriter io.Writer) (*program.Program, error) {

	app, err := p.Analyze(ctx, exe, opts, disasmOpts)
	if err != nil {
		return nil, fmt.Errorf("analyzing: %w", err)
	}

	p.printInfo(opts, app)

	w := writer.New(p.logger, app, listing, writer.Options{
		HexComments:    disasmOpts.HexComments,
		OffsetComments: disasmOpts.OffsetComments,
	})
	if err := w.Write(ctx); err != nil {
		return nil, fmt.Errorf("writing listing: %w", err)
	}

	if err := p.writeReports(opts, app, reportWriter); err != nil {
		return nil, err
	}
	if err := p.exportCatalogs(opts, app); err != nil {
		return nil, err
	}

	if opts.Verify {
		if err := verification.VerifyOutput(ctx, p.logger, opts, app); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return app, nil
}

// Analyze builds the data and function tables of the executable. The known catalogs
// are loaded first, the executable is then decoded once with them to discover
// heuristic data regions and functions. Known entries always win over discovered ones.
func (p *Pipeline) Analyze(ctx context.Context, exe *loader.Executable, opts options.Program,
	disasmOpts options.Disassembler) (*program.Program, error) {

	cfg, err := p.loadConfig(opts)
	if err != nil {
		return nil, err
	}
	force, err := cfg.ForceTable()
	if err != nil {
		return nil, fmt.Errorf("creating force-decode table: %w", err)
	}

	dataTable, knownFuncs, err := p.loadCatalogs(cfg, opts)
	if err != nil {
		return nil, err
	}

	if !disasmOpts.Heuristics {
		return program.New(exe, dataTable, knownFuncs, force), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	decoder := &inst.Decoder{Data: dataTable, Funcs: knownFuncs, Force: force}
	items, err := decoder.Iter(exe.Start, exe.Code).Collect()
	if err != nil {
		return nil, fmt.Errorf("decoding executable: %w", err)
	}

	r := exe.Range()
	found := heuristics.Data(r, items)
	if err := dataTable.Extend(found); err != nil {
		p.logger.Debug("Rejected heuristic data", log.Err(err))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discovering functions: %w", err)
	}
	funcTable := knownFuncs.Merge(heuristics.Functions(r, items, knownFuncs, dataTable))

	p.logger.Debug("Analysis complete",
		log.Int("items", len(items)),
		log.Int("data", dataTable.Len()),
		log.Int("functions", funcTable.Len()))

	return program.New(exe, dataTable, funcTable, force), nil
}

func (p *Pipeline) loadConfig(opts options.Program) (config.Analysis, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Analysis{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadCatalogs loads the catalogs of the config followed by the ones passed as options.
func (p *Pipeline) loadCatalogs(cfg config.Analysis, opts options.Program) (*data.Table, *funcs.Table, error) {
	dataPaths := append(append([]string{}, cfg.DataCatalogs...), opts.DataCatalog...)
	knownData, err := p.catalog.LoadData(dataPaths...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading data catalogs: %w", err)
	}

	dataTable := data.NewTable()
	if err := dataTable.Extend(knownData); err != nil {
		p.logger.Warn("Skipping conflicting known data", log.Err(err))
	}

	funcPaths := append(append([]string{}, cfg.FuncCatalogs...), opts.FuncCatalog...)
	knownFuncs, err := p.catalog.LoadFuncs(funcPaths...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading function catalogs: %w", err)
	}

	return dataTable, knownFuncs, nil
}

func (p *Pipeline) writeReports(opts options.Program, app *program.Program, w io.Writer) error {
	if opts.Tree {
		if err := writer.WriteTree(w, app.Data); err != nil {
			return err
		}
	}
	if opts.FuncReport {
		if err := writer.WriteFuncReport(w, app.Funcs); err != nil {
			return fmt.Errorf("writing function report: %w", err)
		}
	}
	if opts.DataReport {
		if err := writer.WriteDataReport(w, app.Data); err != nil {
			return fmt.Errorf("writing data report: %w", err)
		}
	}
	return nil
}

// exportCatalogs writes the final tables as catalog files that can be loaded again.
func (p *Pipeline) exportCatalogs(opts options.Program, app *program.Program) error {
	if opts.ExportData != "" {
		err := exportFile(opts.ExportData, func(w io.Writer) error {
			return catalog.WriteData(w, app.Data.All())
		})
		if err != nil {
			return fmt.Errorf("exporting data catalog: %w", err)
		}
	}
	if opts.ExportFuncs != "" {
		err := exportFile(opts.ExportFuncs, func(w io.Writer) error {
			return catalog.WriteFuncs(w, app.Funcs.All())
		})
		if err != nil {
			return fmt.Errorf("exporting function catalog: %w", err)
		}
	}
	return nil
}

func exportFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file '%s': %w", path, err)
	}
	return nil
}

// printInfo prints information about the executable being processed.
func (p *Pipeline) printInfo(opts options.Program, app *program.Program) {
	if opts.Quiet {
		return
	}

	exe := app.Exe
	format := "PS-X EXE"
	if exe.Header == nil {
		format = "raw binary"
	}
	p.logger.Info("Processing executable",
		log.String("file", opts.Input),
		log.String("format", format),
		log.String("code", exe.Range().String()),
		log.String("entry", exe.Entry().String()),
	)
	p.logger.Info("Analysis result",
		log.Int("functions", app.Funcs.Len()),
		log.Int("data", app.Data.Len()),
	)

	if _, ok := app.Funcs.GetContaining(exe.Entry()); !ok && app.Funcs.Len() > 0 {
		p.logger.Warn("Entry point is not inside of a function", log.String("entry", exe.Entry().String()))
	}
}
