package basic

import (
	"github.com/retroenv/psxdisasm/internal/inst/arg"
	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

var _ Inst = Lui{}
var _ Inst = Load{}
var _ Inst = Store{}

const (
	luiPrimary   = 0x0f
	loadPrimary  = 0x20
	storePrimary = 0x28
)

// Lui loads a 16 bit immediate into the upper half of a register.
type Lui struct {
	Dst   register.Register
	Value uint16
}

func decodeLui(r raw) (Inst, bool) {
	if r.primary() != luiPrimary || r.s() != register.Zr {
		return nil, false
	}
	return Lui{Dst: r.t(), Value: r.imm16()}, true
}

// Encode returns the raw instruction word.
func (i Lui) Encode() uint32 {
	return encodeI(luiPrimary, register.Zr, i.Dst, i.Value)
}

// Mnemonic returns the assembler mnemonic.
func (Lui) Mnemonic() string {
	return "lui"
}

// Args returns the rendered arguments.
func (i Lui) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Dst), arg.Lit(int64(i.Value))}
}

// ModifiesReg returns whether the instruction writes the register.
func (i Lui) ModifiesReg(r register.Register) bool {
	return i.Dst == r
}

func (Lui) isBasic() {}

// LoadKind is the width and extension of a memory load.
type LoadKind uint8

// Load kinds, the value is the low 3 bits of the primary opcode.
const (
	LoadByte LoadKind = iota
	LoadHalfWord
	LoadWordLeft
	LoadWord
	LoadByteUnsigned
	LoadHalfWordUnsigned
	LoadWordRight
)

var loadMnemonics = [...]string{"lb", "lh", "lwl", "lw", "lbu", "lhu", "lwr"}

// Size returns the number of bytes accessed by an aligned load of this kind.
func (k LoadKind) Size() uint32 {
	switch k {
	case LoadByte, LoadByteUnsigned:
		return 1
	case LoadHalfWord, LoadHalfWordUnsigned:
		return 2
	default:
		return 4
	}
}

// Load reads memory at Addr + Offset into Value.
type Load struct {
	Value  register.Register
	Addr   register.Register
	Offset int16
	Kind   LoadKind
}

func decodeLoad(r raw) (Inst, bool) {
	p := r.primary()
	if p < loadPrimary || p > loadPrimary+uint32(LoadWordRight) {
		return nil, false
	}
	return Load{
		Value:  r.t(),
		Addr:   r.s(),
		Offset: int16(r.imm16()),
		Kind:   LoadKind(p - loadPrimary),
	}, true
}

// Encode returns the raw instruction word.
func (i Load) Encode() uint32 {
	return encodeI(loadPrimary+uint32(i.Kind), i.Addr, i.Value, uint16(i.Offset))
}

// Mnemonic returns the assembler mnemonic.
func (i Load) Mnemonic() string {
	return loadMnemonics[i.Kind]
}

// Args returns the rendered arguments.
func (i Load) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Value), arg.RegOffset(i.Addr, int64(i.Offset))}
}

// ModifiesReg returns whether the instruction writes the register.
func (i Load) ModifiesReg(r register.Register) bool {
	return i.Value == r
}

func (Load) isBasic() {}

// StoreKind is the width of a memory store.
type StoreKind uint8

// Store kinds, the value is the low 3 bits of the primary opcode.
const (
	StoreByte      StoreKind = 0
	StoreHalfWord  StoreKind = 1
	StoreWordLeft  StoreKind = 2
	StoreWord      StoreKind = 3
	StoreWordRight StoreKind = 6
)

var storeMnemonics = map[StoreKind]string{
	StoreByte:      "sb",
	StoreHalfWord:  "sh",
	StoreWordLeft:  "swl",
	StoreWord:      "sw",
	StoreWordRight: "swr",
}

// Size returns the number of bytes accessed by an aligned store of this kind.
func (k StoreKind) Size() uint32 {
	switch k {
	case StoreByte:
		return 1
	case StoreHalfWord:
		return 2
	default:
		return 4
	}
}

// Store writes Value to memory at Addr + Offset.
type Store struct {
	Value  register.Register
	Addr   register.Register
	Offset int16
	Kind   StoreKind
}

func decodeStore(r raw) (Inst, bool) {
	p := r.primary()
	if p < storePrimary || p > storePrimary+uint32(StoreWordRight) {
		return nil, false
	}
	kind := StoreKind(p - storePrimary)
	if _, ok := storeMnemonics[kind]; !ok {
		return nil, false
	}
	return Store{
		Value:  r.t(),
		Addr:   r.s(),
		Offset: int16(r.imm16()),
		Kind:   kind,
	}, true
}

// Encode returns the raw instruction word.
func (i Store) Encode() uint32 {
	return encodeI(storePrimary+uint32(i.Kind), i.Addr, i.Value, uint16(i.Offset))
}

// Mnemonic returns the assembler mnemonic.
func (i Store) Mnemonic() string {
	return storeMnemonics[i.Kind]
}

// Args returns the rendered arguments.
func (i Store) Args(pos.Pos) []arg.Arg {
	return []arg.Arg{arg.Reg(i.Value), arg.RegOffset(i.Addr, int64(i.Offset))}
}

// ModifiesReg returns whether the instruction writes the register.
func (Store) ModifiesReg(register.Register) bool {
	return false
}

func (Store) isBasic() {}
