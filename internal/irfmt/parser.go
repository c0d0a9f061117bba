package irfmt

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"github.com/Enochen/bril-optimizations/internal/ir"
)

var irParser = participle.MustBuild[astProgram](
	participle.Lexer(irLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseError is a parse failure that carries the line/column participle
// stopped at, so callers can render a caret at the real offending position
// instead of guessing. Mirrors the participle.Error shape the reference's
// grammar/parser.go and cmd/kanso-cli/main.go type-assert for.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parse reads the textual IR surface syntax and produces an ir.Program.
// Malformed input surfaces as an error before any pass runs, per §7.1. A
// failure from the underlying grammar is returned as a *ParseError carrying
// its source position; anything else is wrapped as a plain error.
func Parse(source string) (*ir.Program, error) {
	tree, err := irParser.ParseString("", source)
	if err != nil {
		if pe, ok := err.(participle.Error); ok {
			pos := pe.Position()
			return nil, &ParseError{Line: pos.Line, Column: pos.Column, Msg: pe.Message()}
		}
		return nil, fmt.Errorf("parse IR: %w", err)
	}
	return lower(tree), nil
}

func lower(tree *astProgram) *ir.Program {
	prog := &ir.Program{}
	for _, fn := range tree.Functions {
		prog.Functions = append(prog.Functions, lowerFunction(fn))
	}
	return prog
}

func lowerFunction(fn *astFunction) ir.Function {
	out := ir.Function{Name: fn.Name}
	for _, p := range fn.Params {
		out.Args = append(out.Args, ir.Param{Name: p.Name, Type: lowerType(&p.Type)})
	}
	if fn.RetType != nil {
		t := lowerType(fn.RetType)
		out.RetType = &t
	}
	for _, item := range fn.Items {
		if item.Label != nil {
			out.Code = append(out.Code, ir.Lbl(item.Label.Name))
			continue
		}
		out.Code = append(out.Code, ir.Instr(lowerInstr(item.Instr)))
	}
	return out
}

func lowerType(t *astType) ir.Type {
	switch t.Name {
	case "int":
		return ir.Type{Kind: ir.TInt}
	case "bool":
		return ir.Type{Kind: ir.TBool}
	case "float":
		return ir.Type{Kind: ir.TFloat}
	case "char":
		return ir.Type{Kind: ir.TChar}
	case "ptr":
		var elem *ir.Type
		if t.Elem != nil {
			e := lowerType(t.Elem)
			elem = &e
		}
		return ir.Type{Kind: ir.TPointer, Elem: elem}
	default:
		return ir.Type{Kind: ir.TInt}
	}
}

func lowerLiteral(l *astLiteral) ir.Literal {
	switch {
	case l.Float != nil:
		return ir.FloatLiteral(*l.Float)
	case l.Int != nil:
		return ir.IntLiteral(*l.Int)
	case l.Bool != nil:
		return ir.BoolLiteral(*l.Bool == "true")
	case l.Char != nil:
		return ir.CharLiteral(unquoteChar(*l.Char))
	default:
		return ir.IntLiteral(0)
	}
}

// unquoteChar decodes a Char token's text (quotes included, e.g. "'a'" or
// "'\n'") into the rune it denotes. The escape set matches the lexer's Char
// rule exactly: \\, \', \n, \t, \r, \0.
func unquoteChar(raw string) rune {
	inner := raw[1 : len(raw)-1]
	if len(inner) == 2 && inner[0] == '\\' {
		switch inner[1] {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case 'r':
			return '\r'
		case '0':
			return 0
		case '\\':
			return '\\'
		case '\'':
			return '\''
		}
	}
	for _, r := range inner {
		return r
	}
	return 0
}

func lowerInstr(in *astInstr) ir.Instruction {
	if in.Assign != nil {
		a := in.Assign
		if a.Literal != nil {
			return ir.NewConstant(a.Dest, lowerType(&a.Type), lowerLiteral(a.Literal))
		}
		instr := ir.NewValue(a.Dest, lowerType(&a.Type), ir.Op(a.Op.Name), a.Op.Args)
		instr.Funcs = a.Op.Funcs
		instr.Labels = a.Op.Labels
		return instr
	}
	e := in.Effect
	instr := ir.NewEffect(ir.Op(e.Name), e.Args)
	instr.Funcs = e.Funcs
	instr.Labels = e.Labels
	return instr
}
