package irfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Enochen/bril-optimizations/internal/ir"
)

// jsonProgram/jsonFunction/jsonInstr mirror the upstream Bril JSON
// convention this IR is modeled on: a flat "instrs" array per function
// where each element is either {"label": ...} or an instruction object.
type jsonProgram struct {
	Functions []jsonFunction `json:"functions"`
}

type jsonFunction struct {
	Name    string          `json:"name"`
	Args    []jsonParam     `json:"args,omitempty"`
	Type    *string         `json:"type,omitempty"`
	Instrs  []jsonCodeItem  `json:"instrs"`
}

type jsonParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type jsonCodeItem struct {
	Label   string   `json:"label,omitempty"`
	Dest    string   `json:"dest,omitempty"`
	Type    string   `json:"type,omitempty"`
	Op      string   `json:"op,omitempty"`
	Value   any      `json:"value,omitempty"`
	Args    []string `json:"args,omitempty"`
	Funcs   []string `json:"funcs,omitempty"`
	Labels  []string `json:"labels,omitempty"`
}

// LoadJSON reads a program encoded in the Bril-style JSON convention from r.
func LoadJSON(r io.Reader) (*ir.Program, error) {
	var jp jsonProgram
	if err := json.NewDecoder(r).Decode(&jp); err != nil {
		return nil, fmt.Errorf("decode IR JSON: %w", err)
	}
	prog := &ir.Program{}
	for _, jf := range jp.Functions {
		fn := ir.Function{Name: jf.Name}
		for _, a := range jf.Args {
			fn.Args = append(fn.Args, ir.Param{Name: a.Name, Type: typeFromString(a.Type)})
		}
		if jf.Type != nil {
			t := typeFromString(*jf.Type)
			fn.RetType = &t
		}
		for _, item := range jf.Instrs {
			if item.Label != "" {
				fn.Code = append(fn.Code, ir.Lbl(item.Label))
				continue
			}
			fn.Code = append(fn.Code, ir.Instr(instrFromJSON(item)))
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

// WriteJSON encodes program in the same convention LoadJSON consumes.
func WriteJSON(w io.Writer, program *ir.Program) error {
	jp := jsonProgram{}
	for _, fn := range program.Functions {
		jf := jsonFunction{Name: fn.Name}
		for _, a := range fn.Args {
			jf.Args = append(jf.Args, jsonParam{Name: a.Name, Type: a.Type.String()})
		}
		if fn.RetType != nil {
			s := fn.RetType.String()
			jf.Type = &s
		}
		for _, item := range fn.Code {
			if item.IsLabel {
				jf.Instrs = append(jf.Instrs, jsonCodeItem{Label: item.Label})
				continue
			}
			jf.Instrs = append(jf.Instrs, instrToJSON(&item.Instr))
		}
		jp.Functions = append(jp.Functions, jf)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jp)
}

func typeFromString(s string) ir.Type {
	switch s {
	case "bool":
		return ir.Type{Kind: ir.TBool}
	case "float":
		return ir.Type{Kind: ir.TFloat}
	case "char":
		return ir.Type{Kind: ir.TChar}
	default:
		return ir.Type{Kind: ir.TInt}
	}
}

func instrFromJSON(item jsonCodeItem) ir.Instruction {
	if item.Op == "const" {
		lit := literalFromJSON(item.Type, item.Value)
		return ir.NewConstant(item.Dest, typeFromString(item.Type), lit)
	}
	if item.Dest != "" {
		instr := ir.NewValue(item.Dest, typeFromString(item.Type), ir.Op(item.Op), item.Args)
		instr.Funcs = item.Funcs
		instr.Labels = item.Labels
		return instr
	}
	instr := ir.NewEffect(ir.Op(item.Op), item.Args)
	instr.Funcs = item.Funcs
	instr.Labels = item.Labels
	return instr
}

func literalFromJSON(typ string, v any) ir.Literal {
	switch typ {
	case "bool":
		b, _ := v.(bool)
		return ir.BoolLiteral(b)
	case "float":
		f, _ := v.(float64)
		return ir.FloatLiteral(f)
	case "char":
		s, _ := v.(string)
		if len(s) > 0 {
			return ir.CharLiteral([]rune(s)[0])
		}
		return ir.CharLiteral(0)
	default:
		f, _ := v.(float64)
		return ir.IntLiteral(int64(f))
	}
}

func instrToJSON(instr *ir.Instruction) jsonCodeItem {
	switch instr.Kind {
	case ir.IKConstant:
		return jsonCodeItem{Dest: instr.Dest, Type: instr.Type.String(), Op: "const", Value: literalToJSON(instr.Literal)}
	case ir.IKValue:
		return jsonCodeItem{
			Dest: instr.Dest, Type: instr.Type.String(), Op: string(instr.Op),
			Args: instr.Args, Funcs: instr.Funcs, Labels: instr.Labels,
		}
	default:
		return jsonCodeItem{Op: string(instr.Op), Args: instr.Args, Funcs: instr.Funcs, Labels: instr.Labels}
	}
}

func literalToJSON(l ir.Literal) any {
	switch l.Kind {
	case ir.LitBool:
		return l.Bool
	case ir.LitFloat:
		return l.Float
	case ir.LitChar:
		return string(l.Char)
	default:
		return l.Int
	}
}
