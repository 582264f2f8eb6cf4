// Package catalog loads the known data and function catalogs of an executable.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/psxdisasm/internal/data"
	"github.com/retroenv/psxdisasm/internal/funcs"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/retrogolib/log"
	"gopkg.in/yaml.v2"
)

// dataRecord is a single entry of a data catalog.
type dataRecord struct {
	Name string `yaml:"name"`
	Desc string `yaml:"desc,omitempty"`
	Pos  uint32 `yaml:"pos"`
	Ty   string `yaml:"ty"`
	Kind string `yaml:"kind,omitempty"`
}

// funcRecord is a single entry of a function catalog.
type funcRecord struct {
	Name           string            `yaml:"name"`
	Signature      string            `yaml:"signature,omitempty"`
	Desc           string            `yaml:"desc,omitempty"`
	InlineComments map[uint32]string `yaml:"inline_comments,omitempty"`
	Comments       map[uint32]string `yaml:"comments,omitempty"`
	Labels         map[uint32]string `yaml:"labels,omitempty"`
	StartPos       uint32            `yaml:"start_pos"`
	EndPos         uint32            `yaml:"end_pos"`
	Kind           string            `yaml:"kind,omitempty"`
}

// Loader reads catalog files. Records that can not be used are logged and skipped.
type Loader struct {
	logger *log.Logger
}

// New returns a new catalog loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// LoadData reads the data catalog files in order and returns all usable records.
func (l *Loader) LoadData(paths ...string) ([]data.Data, error) {
	var items []data.Data
	for _, path := range paths {
		var records []dataRecord
		if err := readFile(path, &records); err != nil {
			return nil, err
		}

		for _, rec := range records {
			d, err := rec.toData()
			if err != nil {
				l.logger.Warn("Skipping data catalog record",
					log.String("file", path),
					log.String("name", rec.Name),
					log.Err(err))
				continue
			}
			items = append(items, d)
		}
	}
	return items, nil
}

// LoadFuncs reads the function catalog files in order and returns a table of all usable
// records. A record conflicting with an earlier one is skipped.
func (l *Loader) LoadFuncs(paths ...string) (*funcs.Table, error) {
	table := funcs.NewTable()
	for _, path := range paths {
		var records []funcRecord
		if err := readFile(path, &records); err != nil {
			return nil, err
		}

		for _, rec := range records {
			f, err := rec.toFunc()
			if err == nil {
				err = table.Insert(f)
			}
			if err != nil {
				l.logger.Warn("Skipping function catalog record",
					log.String("file", path),
					log.String("name", rec.Name),
					log.Err(err))
			}
		}
	}
	return table, nil
}

// WriteData writes data regions in the catalog format.
func WriteData(w io.Writer, items []data.Data) error {
	records := make([]dataRecord, 0, len(items))
	for _, d := range items {
		records = append(records, dataRecord{
			Name: d.Name,
			Desc: d.Desc,
			Pos:  uint32(d.Pos),
			Ty:   d.Type.String(),
			Kind: d.Kind.String(),
		})
	}
	return writeYAML(w, records)
}

// WriteFuncs writes functions in the catalog format.
func WriteFuncs(w io.Writer, items []funcs.Func) error {
	records := make([]funcRecord, 0, len(items))
	for _, f := range items {
		records = append(records, funcRecord{
			Name:           f.Name,
			Signature:      f.Signature,
			Desc:           f.Desc,
			InlineComments: fromPosMap(f.InlineComments),
			Comments:       fromPosMap(f.Comments),
			Labels:         fromPosMap(f.Labels),
			StartPos:       uint32(f.StartPos),
			EndPos:         uint32(f.EndPos),
			Kind:           f.Kind.String(),
		})
	}
	return writeYAML(w, records)
}

func readFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parsing catalog file '%s': %w", path, err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling catalog: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

var errUnknownKind = errors.New("unknown kind")

func (r dataRecord) toData() (data.Data, error) {
	if r.Name == "" {
		return data.Data{}, errors.New("missing name")
	}
	ty, err := data.ParseType(r.Ty)
	if err != nil {
		return data.Data{}, fmt.Errorf("parsing type: %w", err)
	}

	kind := data.Known
	switch strings.ToLower(r.Kind) {
	case "", "known":
	case "heuristics":
		kind = data.Heuristics
	default:
		return data.Data{}, fmt.Errorf("%w '%s'", errUnknownKind, r.Kind)
	}

	d := data.New(r.Name, r.Desc, pos.Pos(r.Pos), ty, kind)
	if !pos.Pos(r.Pos).IsAlignedTo(ty.Align()) {
		return data.Data{}, fmt.Errorf("position %s is not aligned to %d", d.Pos, ty.Align())
	}
	return d, nil
}

func (r funcRecord) toFunc() (funcs.Func, error) {
	if r.Name == "" {
		return funcs.Func{}, errors.New("missing name")
	}

	kind := funcs.Known
	switch strings.ToLower(r.Kind) {
	case "", "known":
	case "heuristics":
		kind = funcs.Heuristics
	default:
		return funcs.Func{}, fmt.Errorf("%w '%s'", errUnknownKind, r.Kind)
	}

	return funcs.Func{
		Name:           r.Name,
		Signature:      r.Signature,
		Desc:           r.Desc,
		InlineComments: toPosMap(r.InlineComments),
		Comments:       toPosMap(r.Comments),
		Labels:         toPosMap(r.Labels),
		StartPos:       pos.Pos(r.StartPos),
		EndPos:         pos.Pos(r.EndPos),
		Kind:           kind,
	}, nil
}

func toPosMap(m map[uint32]string) map[pos.Pos]string {
	result := make(map[pos.Pos]string, len(m))
	for p, s := range m {
		result[pos.Pos(p)] = s
	}
	return result
}

func fromPosMap(m map[pos.Pos]string) map[uint32]string {
	if len(m) == 0 {
		return nil
	}
	result := make(map[uint32]string, len(m))
	for p, s := range m {
		result[uint32(p)] = s
	}
	return result
}
