// Package register contains the general purpose registers of the R3000 CPU.
package register

import (
	"fmt"
	"strconv"
	"strings"
)

// Register is one of the 32 general purpose registers.
type Register uint8

// Registers in encoding order.
const (
	Zr Register = iota
	At
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	Gp
	Sp
	Fp
	Ra
)

// Count is the number of general purpose registers.
const Count = 32

var names = [Count]string{
	"$zr", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

var aliases = map[string]Register{
	"$zero": Zr,
	"$s8":   Fp,
}

// New returns the register for a 5 bit register index.
func New(idx uint32) (Register, bool) {
	if idx >= Count {
		return 0, false
	}
	return Register(idx), true
}

// FromBits returns the register encoded in the 5 bits of raw starting at shift.
func FromBits(raw uint32, shift uint) Register {
	return Register((raw >> shift) & 0x1f)
}

// Idx returns the encoding index of the register.
func (r Register) Idx() uint32 {
	return uint32(r)
}

// String returns the assembler name of the register.
func (r Register) String() string {
	if r >= Count {
		return fmt.Sprintf("$invalid%d", uint8(r))
	}
	return names[r]
}

// Parse parses a register name. Besides the canonical names it accepts
// $zero, $s8 and the numeric form $r<n>.
func Parse(name string) (Register, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Register(i), nil
		}
	}
	if r, ok := aliases[name]; ok {
		return r, nil
	}
	if idx, ok := strings.CutPrefix(name, "$r"); ok {
		i, err := strconv.ParseUint(idx, 10, 8)
		if err == nil && i < Count {
			return Register(i), nil
		}
	}
	return 0, fmt.Errorf("unknown register '%s'", name)
}
