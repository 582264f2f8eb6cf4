// Package writer implements the assembly listing and report writing functionality.
package writer

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/inst"
	"github.com/retroenv/psxdisasm/internal/inst/directive"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/program"
	"github.com/retroenv/retrogolib/log"
)

const dataBytesPerLine = 16

const separator = "##########"

type lineWriterFunc func(line string, start pos.Pos, byteCount int) error

// Writer writes the assembly listing of a program.
type Writer struct {
	logger  *log.Logger
	app     *program.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	HexComments    bool // instruction bytes of code lines
	OffsetComments bool // position of every line
}

// New creates a new writer.
func New(logger *log.Logger, app *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		logger:  logger,
		app:     app,
		options: options,
		writer:  writer,
	}
}

// Write writes the comment header followed by all items of the program.
func (w *Writer) Write(ctx context.Context) error {
	if err := w.WriteCommentHeader(); err != nil {
		return err
	}

	items := w.app.Items()
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}

		item, ok := items.Next()
		if !ok {
			return nil
		}

		var err error
		switch item.Kind {
		case program.FuncItem:
			err = w.writeFunc(item)
		case program.DataItem:
			err = w.writeData(item)
		default:
			err = w.writeInsts(item.Insts, nil)
		}
		if err != nil {
			return fmt.Errorf("writing %s item at %s: %w", item.Kind, item.Range.Start, err)
		}
	}
}

// WriteCommentHeader writes the executable header values and table sizes as comments to the output.
func (w *Writer) WriteCommentHeader() error {
	exe := w.app.Exe
	lines := []string{
		fmt.Sprintf("Code range: %s", exe.Range()),
		fmt.Sprintf("Entry point: %s", exe.Entry()),
	}
	if h := exe.Header; h != nil {
		lines = append(lines,
			fmt.Sprintf("Initial gp: %#x", h.GP0),
			fmt.Sprintf("Initial sp: %#x + %#x", h.InitialSPBase, h.InitialSPOffset),
		)
		if h.MemfillSize > 0 {
			lines = append(lines, fmt.Sprintf("Memfill: %#x bytes at %#x", h.MemfillSize, h.MemfillStart))
		}
		if h.Marker != "" {
			lines = append(lines, fmt.Sprintf("Marker: %s", h.Marker))
		}
	}
	lines = append(lines, fmt.Sprintf("Functions: %d, data regions: %d", w.app.Funcs.Len(), w.app.Data.Len()))

	for _, line := range lines {
		if _, err := fmt.Fprintf(w.writer, "# %s\n", line); err != nil {
			return fmt.Errorf("writing comment header: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w *Writer) writeFunc(item program.Item) error {
	fn := item.Func
	if err := w.writeItemHeader(fn.Name, fn.Signature, fn.Desc); err != nil {
		return err
	}
	if err := w.writeInsts(item.Insts, &fn); err != nil {
		return err
	}
	return w.writeItemFooter()
}

func (w *Writer) writeData(item program.Item) error {
	d := item.Data
	if err := w.writeItemHeader(d.Name, d.Type.String(), d.Desc); err != nil {
		return err
	}
	if err := w.writeInsts(item.Insts, nil); err != nil {
		return err
	}
	return w.writeItemFooter()
}

func (w *Writer) writeItemHeader(name, signature, desc string) error {
	if _, err := fmt.Fprintf(w.writer, "\n%s\n%s:\n", separator, name); err != nil {
		return fmt.Errorf("writing item header: %w", err)
	}
	if signature != "" {
		if _, err := fmt.Fprintf(w.writer, "# %s\n", signature); err != nil {
			return fmt.Errorf("writing signature: %w", err)
		}
	}
	return w.writeCommentLines(desc)
}

func (w *Writer) writeItemFooter() error {
	if _, err := fmt.Fprintf(w.writer, "%s\n\n", separator); err != nil {
		return fmt.Errorf("writing item footer: %w", err)
	}
	return nil
}

func (w *Writer) writeCommentLines(comment string) error {
	if comment == "" {
		return nil
	}
	for _, line := range strings.Split(comment, "\n") {
		if _, err := fmt.Fprintf(w.writer, "# %s\n", line); err != nil {
			return fmt.Errorf("writing comment: %w", err)
		}
	}
	return nil
}

// writeInsts writes all items of the iterator. Consecutive bytes are bundled into lines,
// instructions in a branch delay slot are prefixed with `+`.
func (w *Writer) writeInsts(it *inst.DecodeIter, fn *funcs.Func) error {
	resolver := labelResolver{logger: w.logger, app: w.app, fn: fn}

	var pending []byte
	var pendingStart pos.Pos
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		err := w.BundleDataWrites(pending, pendingStart, nil)
		pending = pending[:0]
		return err
	}

	var prev inst.Inst
	for {
		p, ins, ok := it.Next()
		if !ok {
			break
		}

		inline := ""
		if fn != nil {
			inline = fn.InlineComments[p]
			if _, ok := fn.Labels[p]; ok || fn.Comments[p] != "" || inline != "" {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := w.writeLabel(p, fn); err != nil {
			return err
		}

		if dir, isDir := ins.(inst.Directive); isDir && inline == "" {
			if b, isByte := dir.Directive.(directive.Db); isByte {
				if len(pending) == 0 {
					pendingStart = p
				}
				pending = append(pending, byte(b))
				prev = ins
				continue
			}
		}
		if err := flush(); err != nil {
			return err
		}

		code := inst.Text(p, ins, resolver)
		if prev != nil && inst.ExpectsDelaySlot(prev) {
			code = "+ " + code
		}
		if err := w.writeCodeLine(code, w.comment(p, ins, inline)); err != nil {
			return err
		}
		prev = ins
	}

	if err := flush(); err != nil {
		return err
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	return nil
}

// writeLabel writes the block comment and the label of a function position.
func (w *Writer) writeLabel(p pos.Pos, fn *funcs.Func) error {
	if fn == nil {
		return nil
	}
	if err := w.writeCommentLines(fn.Comments[p]); err != nil {
		return err
	}
	if label, ok := fn.Labels[p]; ok {
		if _, err := fmt.Fprintf(w.writer, "\t.%s:\n", label); err != nil {
			return fmt.Errorf("writing label: %w", err)
		}
	}
	return nil
}

func (w *Writer) writeCodeLine(code, comment string) error {
	if comment == "" {
		if _, err := fmt.Fprintf(w.writer, "\t%s\n", code); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	} else {
		if _, err := fmt.Fprintf(w.writer, "\t%-30s # %s\n", code, comment); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}

// comment returns the line comment of an item at p.
func (w *Writer) comment(p pos.Pos, ins inst.Inst, inline string) string {
	var parts []string
	if w.options.OffsetComments {
		parts = append(parts, p.String())
	}
	if _, isDir := ins.(inst.Directive); w.options.HexComments && !isDir {
		var buf bytes.Buffer
		if err := ins.Write(&buf); err == nil {
			parts = append(parts, hex.EncodeToString(buf.Bytes()))
		}
	}
	if inline != "" {
		parts = append(parts, strings.ReplaceAll(inline, "\n", `\n`))
	}
	return strings.Join(parts, "  ")
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w *Writer) BundleDataWrites(data []byte, start pos.Pos, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		buf.WriteString("db ")
		for j := range toWrite {
			if j > 0 {
				buf.WriteString(", ")
			}
			if _, err := fmt.Fprintf(buf, "0x%02x", data[i+j]); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
		}
		line := buf.String()
		linePos := start.Add(uint32(i))

		if lineWriter != nil {
			if err := lineWriter(line, linePos, toWrite); err != nil {
				return fmt.Errorf("writing data line using custom writer: %w", err)
			}
		} else {
			comment := ""
			if w.options.OffsetComments {
				comment = linePos.String()
			}
			if err := w.writeCodeLine(line, comment); err != nil {
				return fmt.Errorf("writing data line: %w", err)
			}
		}

		i += toWrite
		remaining -= toWrite
	}

	return nil
}
