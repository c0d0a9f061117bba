// Package ir implements the typed three-address intermediate representation
// and the middle-end passes (CFG construction, data-flow analysis, dominance,
// local value numbering, SSA construction/destruction, dead code elimination)
// that operate on it.
package ir

import (
	"fmt"
	"math"
)

// Op is the fixed instruction algebra. The same opcode space is shared by
// value operations (which produce a result) and effect operations (which do
// not); which set an opcode belongs to is fixed by its use in an Instruction.
type Op string

const (
	OpID     Op = "id"
	OpAdd    Op = "add"
	OpSub    Op = "sub"
	OpMul    Op = "mul"
	OpDiv    Op = "div"
	OpEq     Op = "eq"
	OpLt     Op = "lt"
	OpLe     Op = "le"
	OpGt     Op = "gt"
	OpGe     Op = "ge"
	OpAnd    Op = "and"
	OpOr     Op = "or"
	OpNot    Op = "not"
	OpFAdd   Op = "fadd"
	OpFSub   Op = "fsub"
	OpFMul   Op = "fmul"
	OpFDiv   Op = "fdiv"
	OpPtrAdd Op = "ptradd"
	OpAlloc  Op = "alloc"
	OpLoad   Op = "load"
	OpCall   Op = "call"
	OpPhi    Op = "phi"

	OpBranch Op = "branch"
	OpJump   Op = "jump"
	OpReturn Op = "return"
	OpStore  Op = "store"
	OpFree   Op = "free"
	OpPrint  Op = "print"
)

// commutative reports whether op's two operands may be freely swapped
// without changing the result, a property LVN exploits to canonicalize
// operand order before looking values up in its table.
func commutative(op Op) bool {
	switch op {
	case OpAdd, OpMul, OpFAdd, OpFMul, OpEq, OpAnd, OpOr:
		return true
	default:
		return false
	}
}

func isTerminatorOp(op Op) bool {
	return op == OpBranch || op == OpJump || op == OpReturn
}

// TypeKind enumerates the IR's type universe.
type TypeKind int

const (
	TInt TypeKind = iota
	TBool
	TFloat
	TChar
	TPointer
)

// Type is the typed value universe: Int, Bool, Float, Char, or Pointer(Type).
// Pointer is the only recursive case, so Elem is nil for every other kind.
type Type struct {
	Kind TypeKind
	Elem *Type // non-nil only when Kind == TPointer
}

func (t Type) String() string {
	switch t.Kind {
	case TInt:
		return "int"
	case TBool:
		return "bool"
	case TFloat:
		return "float"
	case TChar:
		return "char"
	case TPointer:
		if t.Elem == nil {
			return "ptr<?>"
		}
		return "ptr<" + t.Elem.String() + ">"
	default:
		return "?"
	}
}

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == TPointer {
		if t.Elem == nil || o.Elem == nil {
			return t.Elem == o.Elem
		}
		return t.Elem.Equal(*o.Elem)
	}
	return true
}

// DefaultLiteral returns the zero value prescribed for a type when an SSA
// phi incoming edge is "undefined" at destruction time.
func DefaultLiteral(t Type) Literal {
	switch t.Kind {
	case TBool:
		return Literal{Kind: LitBool, Bool: false}
	case TFloat:
		return Literal{Kind: LitFloat, Float: 0}
	case TChar:
		return Literal{Kind: LitChar, Char: 0}
	case TPointer:
		return Literal{Kind: LitInt, Int: 0}
	default:
		return Literal{Kind: LitInt, Int: 0}
	}
}

// LiteralKind tags the payload carried by a Literal.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitBool
	LitFloat
	LitChar
)

// Literal is the typed value universe's concrete payload. Float equality and
// hashing compare IEEE bit patterns rather than IEEE float equality, so that
// NaN compares equal to itself inside the LVN value table (see §4.5 of the
// design: the table needs a total equivalence, not IEEE semantics).
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Bool  bool
	Float float64
	Char  rune
}

func IntLiteral(v int64) Literal     { return Literal{Kind: LitInt, Int: v} }
func BoolLiteral(v bool) Literal     { return Literal{Kind: LitBool, Bool: v} }
func FloatLiteral(v float64) Literal { return Literal{Kind: LitFloat, Float: v} }
func CharLiteral(v rune) Literal     { return Literal{Kind: LitChar, Char: v} }

// Equal compares literals structurally, using the float's bit pattern so
// that NaN == NaN, matching the spec's hashing/equality contract.
func (l Literal) Equal(o Literal) bool {
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case LitInt:
		return l.Int == o.Int
	case LitBool:
		return l.Bool == o.Bool
	case LitFloat:
		return math.Float64bits(l.Float) == math.Float64bits(o.Float)
	case LitChar:
		return l.Char == o.Char
	default:
		return false
	}
}

func (l Literal) hashKey() any {
	switch l.Kind {
	case LitInt:
		return [2]any{LitInt, l.Int}
	case LitBool:
		return [2]any{LitBool, l.Bool}
	case LitFloat:
		return [2]any{LitFloat, math.Float64bits(l.Float)}
	case LitChar:
		return [2]any{LitChar, l.Char}
	default:
		return [2]any{LitInt, int64(0)}
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("%d", l.Int)
	case LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	case LitFloat:
		return fmt.Sprintf("%g", l.Float)
	case LitChar:
		return quoteChar(l.Char)
	default:
		return "?"
	}
}

// quoteChar renders r as a single-quoted char literal in the textual IR
// syntax, escaping the handful of runes that would otherwise break the
// lexer's Char token (an unescaped quote, backslash, or control byte):
// DefaultLiteral's zero value for TChar is the NUL rune, so this must
// round-trip rune 0 as text, not emit it raw.
func quoteChar(r rune) string {
	switch r {
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\r':
		return `'\r'`
	case 0:
		return `'\0'`
	default:
		return "'" + string(r) + "'"
	}
}

// InstrKind distinguishes the three Instruction shapes the data model
// defines: a typed constant, a value-producing operation, or a side
// effecting operation with no destination.
type InstrKind int

const (
	IKConstant InstrKind = iota
	IKValue
	IKEffect
)

// Instruction is a tagged variant over the three shapes described in the
// data model. Only the fields relevant to Kind are meaningful; accessor
// helpers below give per-variant semantics with no-op setters on variants
// lacking the field, so passes can treat instructions uniformly.
type Instruction struct {
	Kind InstrKind

	// Constant
	Dest    string
	Type    Type
	Literal Literal

	// Value operation / Effect
	Op     Op
	Args   []string
	Funcs  []string
	Labels []string
}

func NewConstant(dest string, t Type, lit Literal) Instruction {
	return Instruction{Kind: IKConstant, Dest: dest, Type: t, Literal: lit}
}

func NewValue(dest string, t Type, op Op, args []string) Instruction {
	return Instruction{Kind: IKValue, Dest: dest, Type: t, Op: op, Args: args}
}

func NewEffect(op Op, args []string) Instruction {
	return Instruction{Kind: IKEffect, Op: op, Args: args}
}

// GetDest returns the instruction's destination variable and whether it has
// one. Effect instructions never have a destination.
func (i *Instruction) GetDest() (string, bool) {
	switch i.Kind {
	case IKConstant, IKValue:
		return i.Dest, true
	default:
		return "", false
	}
}

// SetDest rewrites the destination; a no-op on Effect instructions.
func (i *Instruction) SetDest(name string) {
	switch i.Kind {
	case IKConstant, IKValue:
		i.Dest = name
	}
}

// GetArgs returns the operand variable names, or nil if the variant carries
// none (Constant instructions never do).
func (i *Instruction) GetArgs() []string {
	switch i.Kind {
	case IKValue, IKEffect:
		return i.Args
	default:
		return nil
	}
}

// SetArgs rewrites the operand list; a no-op on Constant instructions.
func (i *Instruction) SetArgs(args []string) {
	switch i.Kind {
	case IKValue, IKEffect:
		i.Args = args
	}
}

// GetType returns the static type carried by Constant/Value instructions.
func (i *Instruction) GetType() (Type, bool) {
	switch i.Kind {
	case IKConstant, IKValue:
		return i.Type, true
	default:
		return Type{}, false
	}
}

// IsTerminator reports whether this instruction ends a basic block.
func (i *Instruction) IsTerminator() bool {
	return i.Kind == IKEffect && isTerminatorOp(i.Op)
}

// Function is a typed function: a name, typed arguments, an optional return
// type, and a flat instruction list prior to block formation.
type Function struct {
	Name    string
	Args    []Param
	RetType *Type
	Code    []CodeItem
}

type Param struct {
	Name string
	Type Type
}

// CodeItem is either a Label or an Instruction, the flat unit the block
// former consumes.
type CodeItem struct {
	IsLabel bool
	Label   string
	Instr   Instruction
}

func Lbl(name string) CodeItem      { return CodeItem{IsLabel: true, Label: name} }
func Instr(in Instruction) CodeItem { return CodeItem{IsLabel: false, Instr: in} }

// Program is the parsed/consumed input IR: a set of functions.
type Program struct {
	Functions []Function
}
