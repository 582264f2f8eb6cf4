package writer

import (
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/program"
	"github.com/retroenv/retrogolib/log"
)

var _ arg.LabelResolver = labelResolver{}

// labelResolver names target positions relative to the function currently written.
type labelResolver struct {
	logger *log.Logger
	app    *program.Program
	fn     *funcs.Func
}

// PosLabel returns, in order of preference, a label of the current function, a label of
// another function, a function plus offset or a data region plus offset.
func (r labelResolver) PosLabel(p pos.Pos) (string, int64, bool) {
	if r.fn != nil {
		if label, ok := r.fn.Labels[p]; ok {
			return "." + label, 0, true
		}
	}

	if f, ok := r.app.Funcs.GetContaining(p); ok {
		if label, ok := f.Labels[p]; ok {
			return f.Name + "." + label, 0, true
		}
		if p != f.StartPos && f.Kind == funcs.Known && r.logger != nil {
			r.logger.Warn("Target inside of function has no label",
				log.String("pos", p.String()),
				log.String("func", f.Name))
		}
		return f.Name, int64(p - f.StartPos), true
	}

	if d, ok := r.app.Data.GetContaining(p); ok {
		return d.Name, int64(p - d.Pos), true
	}
	return "", 0, false
}
