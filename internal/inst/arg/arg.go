// Package arg contains the instruction arguments used to render any instruction kind.
package arg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/psxdisasm/internal/pos"
	"github.com/retroenv/psxdisasm/internal/register"
)

// Kind of an instruction argument.
type Kind uint8

// Argument kinds.
const (
	Register Kind = iota
	RegisterOffset
	Literal
	Target
	String
)

// Arg is a single instruction argument.
type Arg struct {
	Kind     Kind
	Register register.Register
	Value    int64
	Target   pos.Pos
	Text     string
}

// LabelResolver resolves a position to a label and the offset of the position from it.
type LabelResolver interface {
	PosLabel(p pos.Pos) (string, int64, bool)
}

// Reg returns a register argument.
func Reg(r register.Register) Arg {
	return Arg{Kind: Register, Register: r}
}

// RegOffset returns an offset(register) argument.
func RegOffset(r register.Register, offset int64) Arg {
	return Arg{Kind: RegisterOffset, Register: r, Value: offset}
}

// Lit returns a literal argument.
func Lit(value int64) Arg {
	return Arg{Kind: Literal, Value: value}
}

// Tgt returns a target position argument.
func Tgt(p pos.Pos) Arg {
	return Arg{Kind: Target, Target: p}
}

// Str returns a string argument.
func Str(s string) Arg {
	return Arg{Kind: String, Text: s}
}

// Format renders the argument, using the resolver for target positions if it is set.
func (a Arg) Format(resolver LabelResolver) string {
	switch a.Kind {
	case Register:
		return a.Register.String()

	case RegisterOffset:
		if a.Value == 0 {
			return a.Register.String()
		}
		return fmt.Sprintf("%s(%s)", SignedHex(a.Value), a.Register)

	case Literal:
		return SignedHex(a.Value)

	case Target:
		if resolver != nil {
			if label, offset, ok := resolver.PosLabel(a.Target); ok {
				if offset == 0 {
					return label
				}
				return fmt.Sprintf("%s+%s", label, SignedHex(offset))
			}
		}
		return a.Target.String()

	case String:
		return strconv.Quote(a.Text)

	default:
		return "?"
	}
}

// SignedHex formats a value as hex with an explicit minus sign for negative values.
func SignedHex(value int64) string {
	if value < 0 {
		return fmt.Sprintf("-%#x", -value)
	}
	return fmt.Sprintf("%#x", value)
}

// Join renders a mnemonic with its arguments.
func Join(mnemonic string, args []Arg, resolver LabelResolver) string {
	if len(args) == 0 {
		return mnemonic
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Format(resolver)
	}
	return mnemonic + " " + strings.Join(parts, ", ")
}
