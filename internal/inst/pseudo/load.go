package pseudo

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/inst/basic"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var (
	_ Inst = LoadImm{}
	_ Inst = Load{}
	_ Inst = Store{}
)

// LoadImmKind is the source shape of a load immediate.
type LoadImmKind uint8

// Load immediate kinds.
const (
	// Address is `lui` + `addiu`, the value is an address.
	Address LoadImmKind = iota
	// Word is `lui` + `ori`.
	Word
	// HalfWordSigned is `addiu $r, $zr, imm`.
	HalfWordSigned
	// HalfWordUnsigned is `ori $r, $zr, imm`.
	HalfWordUnsigned
)

// LoadImm loads a constant into a register.
type LoadImm struct {
	Dst   register.Register
	Kind  LoadImmKind
	Value uint32
}

func decodeLoadImm(lui basic.Lui, next basic.Inst) (Inst, bool) {
	alu, ok := next.(basic.AluImm)
	if !ok || alu.Dst != lui.Dst || alu.Lhs != lui.Dst {
		return nil, false
	}

	switch alu.Kind {
	case basic.AddImmUnsigned:
		return LoadImm{Dst: lui.Dst, Kind: Address, Value: joinHiLo(lui.Value, alu.Value)}, true
	case basic.OrImm:
		return LoadImm{Dst: lui.Dst, Kind: Word, Value: uint32(lui.Value)<<16 | uint32(alu.Value)}, true
	default:
		return nil, false
	}
}

func decodeLoadHalfWord(alu basic.AluImm) (Inst, bool) {
	if alu.Lhs != register.Zr {
		return nil, false
	}
	switch alu.Kind {
	case basic.AddImmUnsigned:
		return LoadImm{Dst: alu.Dst, Kind: HalfWordSigned, Value: uint32(int32(alu.SignedValue()))}, true
	case basic.OrImm:
		return LoadImm{Dst: alu.Dst, Kind: HalfWordUnsigned, Value: uint32(alu.Value)}, true
	default:
		return nil, false
	}
}

// Basics returns the basic instructions.
func (i LoadImm) Basics() []basic.Inst {
	switch i.Kind {
	case Address:
		hi, lo := splitHiLo(i.Value)
		return []basic.Inst{
			basic.Lui{Dst: i.Dst, Value: hi},
			basic.AluImm{Dst: i.Dst, Lhs: i.Dst, Kind: basic.AddImmUnsigned, Value: lo},
		}
	case Word:
		return []basic.Inst{
			basic.Lui{Dst: i.Dst, Value: uint16(i.Value >> 16)},
			basic.AluImm{Dst: i.Dst, Lhs: i.Dst, Kind: basic.OrImm, Value: uint16(i.Value)},
		}
	case HalfWordSigned:
		return []basic.Inst{basic.AluImm{Dst: i.Dst, Lhs: register.Zr, Kind: basic.AddImmUnsigned, Value: uint16(i.Value)}}
	default:
		return []basic.Inst{basic.AluImm{Dst: i.Dst, Lhs: register.Zr, Kind: basic.OrImm, Value: uint16(i.Value)}}
	}
}

// Size returns the size in bytes.
func (i LoadImm) Size() uint32 {
	return uint32(len(i.Basics())) * basic.Size
}

// Mnemonic returns the assembler mnemonic.
func (i LoadImm) Mnemonic() string {
	if i.Kind == Address {
		return "la"
	}
	return "li"
}

// Args returns the rendered arguments.
func (i LoadImm) Args(pos.Pos) []arg.Arg {
	switch i.Kind {
	case Address:
		return []arg.Arg{arg.Reg(i.Dst), arg.Tgt(pos.Pos(i.Value))}
	case HalfWordSigned:
		return []arg.Arg{arg.Reg(i.Dst), arg.Lit(int64(int32(i.Value)))}
	default:
		return []arg.Arg{arg.Reg(i.Dst), arg.Lit(int64(i.Value))}
	}
}

func (LoadImm) isPseudo() {}

// Load reads memory at an absolute address, `lui $r, hi` + `l* $r, lo($r)`.
type Load struct {
	Value  register.Register
	Target pos.Pos
	Kind   basic.LoadKind
}

func decodeLoad(lui basic.Lui, next basic.Inst) (Inst, bool) {
	load, ok := next.(basic.Load)
	if !ok || load.Addr != lui.Dst || load.Value != lui.Dst {
		return nil, false
	}
	return Load{
		Value:  load.Value,
		Target: pos.Pos(joinHiLo(lui.Value, uint16(load.Offset))),
		Kind:   load.Kind,
	}, true
}

// Basics returns the basic instructions.
func (i Load) Basics() []basic.Inst {
	hi, lo := splitHiLo(uint32(i.Target))
	return []basic.Inst{
		basic.Lui{Dst: i.Value, Value: hi},
		basic.Load{Value: i.Value, Addr: i.Value, Offset: int16(lo), Kind: i.Kind},
	}
}

// Size returns the size in bytes.
func (Load) Size() uint32 {
	return 2 * basic.Size
}

// Mnemonic returns the assembler mnemonic.
func (i Load) Mnemonic() string {
	return basic.Load{Kind: i.Kind}.Mnemonic()
}

// Args returns the rendered arguments.
func (i Load) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Value), arg.Tgt(i.Target)}
}

func (Load) isPseudo() {}

// Store writes memory at an absolute address, `lui $at, hi` + `s* $r, lo($at)`.
type Store struct {
	Value  register.Register
	Target pos.Pos
	Kind   basic.StoreKind
}

func decodeStore(lui basic.Lui, next basic.Inst) (Inst, bool) {
	store, ok := next.(basic.Store)
	if !ok || lui.Dst != register.At || store.Addr != register.At {
		return nil, false
	}
	return Store{
		Value:  store.Value,
		Target: pos.Pos(joinHiLo(lui.Value, uint16(store.Offset))),
		Kind:   store.Kind,
	}, true
}

// Basics returns the basic instructions.
func (i Store) Basics() []basic.Inst {
	hi, lo := splitHiLo(uint32(i.Target))
	return []basic.Inst{
		basic.Lui{Dst: register.At, Value: hi},
		basic.Store{Value: i.Value, Addr: register.At, Offset: int16(lo), Kind: i.Kind},
	}
}

// Size returns the size in bytes.
func (Store) Size() uint32 {
	return 2 * basic.Size
}

// Mnemonic returns the assembler mnemonic.
func (i Store) Mnemonic() string {
	return basic.Store{Kind: i.Kind}.Mnemonic()
}

// Args returns the rendered arguments.
func (i Store) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Value), arg.Tgt(i.Target)}
}

func (Store) isPseudo() {}
