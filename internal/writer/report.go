package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/funcs"
)

// WriteTree writes the hierarchy of the data regions.
func WriteTree(w io.Writer, table *data.Table) error {
	if _, err := io.WriteString(w, table.Tree()); err != nil {
		return fmt.Errorf("writing data tree: %w", err)
	}
	return nil
}

// WriteFuncReport writes a table of all functions.
func WriteFuncReport(w io.Writer, table *funcs.Table) error {
	t := newTable(w, "Name", "Start", "End", "Size", "Labels", "Kind", "Signature")
	for _, f := range table.All() {
		t.Append([]string{
			f.Name,
			f.StartPos.String(),
			f.EndPos.String(),
			fmt.Sprintf("%#x", f.Size()),
			strconv.Itoa(len(f.Labels)),
			f.Kind.String(),
			f.Signature,
		})
	}
	t.SetFooter([]string{"", "", "", "", "", "Total", strconv.Itoa(table.Len())})
	t.Render()
	return nil
}

// WriteDataReport writes a table of all data regions, nested regions are indented.
func WriteDataReport(w io.Writer, table *data.Table) error {
	t := newTable(w, "Name", "Pos", "Type", "Size", "Kind")
	table.Walk(func(depth int, d data.Data) bool {
		t.Append([]string{
			strings.Repeat("  ", depth) + d.Name,
			d.Pos.String(),
			d.Type.String(),
			fmt.Sprintf("%#x", d.Size()),
			d.Kind.String(),
		})
		return true
	})
	t.SetFooter([]string{"", "", "", "Total", strconv.Itoa(table.Len())})
	t.Render()
	return nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}
