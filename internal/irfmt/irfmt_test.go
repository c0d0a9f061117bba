package irfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Enochen/bril-optimizations/internal/ir"
)

const sampleSource = `@main(n: int): int {
  x: int = const 1;
  y: int = const 2;
  cond: bool = lt x y;
  branch cond .then .else;
.then:
  z: int = add x y;
  jump .done;
.else:
  z: int = id x;
  jump .done;
.done:
  print z;
  ret: int = id z;
  return;
}
`

func TestParseProducesExpectedShape(t *testing.T) {
	prog, err := Parse(sampleSource)
	assert.NoError(t, err)
	if !assert.Len(t, prog.Functions, 1) {
		return
	}
	fn := prog.Functions[0]
	assert.Equal(t, "main", fn.Name)
	if assert.Len(t, fn.Args, 1) {
		assert.Equal(t, "n", fn.Args[0].Name)
		assert.Equal(t, ir.TInt, fn.Args[0].Type.Kind)
	}
	if assert.NotNil(t, fn.RetType) {
		assert.Equal(t, ir.TInt, fn.RetType.Kind)
	}

	var labels []string
	for _, item := range fn.Code {
		if item.IsLabel {
			labels = append(labels, item.Label)
		}
	}
	assert.Equal(t, []string{"then", "else", "done"}, labels)
}

func TestParseRejectsMalformedIR(t *testing.T) {
	_, err := Parse("@main( { return; }")
	assert.Error(t, err)
}

// TestParseErrorCarriesRealPosition guards the clihelpers.Fatal/ErrorReporter
// wiring: a malformed-IR failure must surface a *ParseError with the actual
// line/column participle stopped at, not a bare wrapped string.
func TestParseErrorCarriesRealPosition(t *testing.T) {
	_, err := Parse("@main(n: int): int {\n  x: int = const\n}\n")
	if !assert.Error(t, err) {
		return
	}
	pe, ok := err.(*ParseError)
	if !assert.True(t, ok, "expected *ParseError, got %T", err) {
		return
	}
	assert.Equal(t, 3, pe.Line)
	assert.NotEmpty(t, pe.Msg)
}

func TestCharLiteralRoundTrip(t *testing.T) {
	src := "@main(): char {\n" +
		"  a: char = const 'x';\n" +
		"  b: char = const '\\n';\n" +
		"  c: char = const '\\0';\n" +
		"  c2: char = const '\\'';\n" +
		"  return;\n" +
		"}\n"

	prog, err := Parse(src)
	assert.NoError(t, err)
	fn := prog.Functions[0]

	assert.Equal(t, ir.CharLiteral('x'), fn.Code[0].Instr.Literal)
	assert.Equal(t, ir.CharLiteral('\n'), fn.Code[1].Instr.Literal)
	assert.Equal(t, ir.CharLiteral(0), fn.Code[2].Instr.Literal)
	assert.Equal(t, ir.CharLiteral('\''), fn.Code[3].Instr.Literal)

	printed := Print(prog)
	reparsed, err := Parse(printed)
	assert.NoError(t, err)
	assert.Equal(t, prog, reparsed)
}

// TestParsePrintRoundTrip exercises re-parsing Print's own output: the
// second parse must describe the same function shape as the first.
func TestParsePrintRoundTrip(t *testing.T) {
	prog, err := Parse(sampleSource)
	assert.NoError(t, err)

	printed := Print(prog)
	reparsed, err := Parse(printed)
	assert.NoError(t, err)

	assert.Equal(t, prog, reparsed)
}

func TestJSONRoundTrip(t *testing.T) {
	prog, err := Parse(sampleSource)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, WriteJSON(&buf, prog))

	loaded, err := LoadJSON(&buf)
	assert.NoError(t, err)
	assert.Equal(t, prog, loaded)
}

func TestLoadJSONParsesLiteralKinds(t *testing.T) {
	src := `{"functions":[{"name":"f","instrs":[
		{"dest":"a","op":"const","type":"int","value":7},
		{"dest":"b","op":"const","type":"bool","value":true},
		{"dest":"c","op":"const","type":"float","value":1.5},
		{"op":"print","args":["a","b","c"]}
	]}]}`
	prog, err := LoadJSON(bytes.NewBufferString(src))
	assert.NoError(t, err)
	if !assert.Len(t, prog.Functions, 1) {
		return
	}
	fn := prog.Functions[0]
	assert.Equal(t, int64(7), fn.Code[0].Instr.Literal.Int)
	assert.Equal(t, true, fn.Code[1].Instr.Literal.Bool)
	assert.Equal(t, 1.5, fn.Code[2].Instr.Literal.Float)
}
