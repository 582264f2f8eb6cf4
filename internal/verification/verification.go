// Package verification verifies that the decoded items encode back to the input file.
package verification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/psxdisasm/internal/loader"
	"github.com/retroenv/psxdisasm/internal/options"
	"github.com/retroenv/psxdisasm/internal/program"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput verifies that encoding all items of the program recreates the exact
// code of the input file and that its header parses to the same values.
func VerifyOutput(ctx context.Context, logger *log.Logger, options options.Program, app *program.Program) error {
	if options.Input == "" {
		return errors.New("can not verify without input file")
	}

	source, err := os.ReadFile(options.Input)
	if err != nil {
		return fmt.Errorf("reading source file for comparison: %w", err)
	}

	return VerifyBytes(ctx, logger, source, app)
}

// VerifyBytes verifies the program against the file contents it was loaded from.
func VerifyBytes(ctx context.Context, logger *log.Logger, source []byte, app *program.Program) error {
	code := source
	if h := app.Exe.Header; h != nil {
		header, err := loader.ParseHeader(source)
		if err != nil {
			return fmt.Errorf("parsing source header: %w", err)
		}
		if header != *h {
			return errors.New("header mismatch")
		}
		end := min(uint64(loader.HeaderSize)+uint64(h.Size), uint64(len(source)))
		code = source[loader.HeaderSize:end]
	}

	encoded, err := Encode(ctx, app)
	if err != nil {
		return err
	}

	if err := checkBufferEqual(logger, code, encoded); err != nil {
		return fmt.Errorf("code mismatch: %w", err)
	}
	return nil
}

// Encode encodes all items of the program in order.
func Encode(ctx context.Context, app *program.Program) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.Grow(len(app.Exe.Code))

	items := app.Items()
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("encoding items: %w", err)
		}

		item, ok := items.Next()
		if !ok {
			return buf.Bytes(), nil
		}

		for {
			p, ins, ok := item.Insts.Next()
			if !ok {
				break
			}
			if err := ins.Write(buf); err != nil {
				return nil, fmt.Errorf("encoding item at %s: %w", p, err)
			}
		}
		if err := item.Insts.Err(); err != nil {
			return nil, fmt.Errorf("decoding %s item at %s: %w", item.Kind, item.Range.Start, err)
		}
	}
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
