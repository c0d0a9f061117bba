package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorPointsAtRealPosition(t *testing.T) {
	source := "@main(n: int): int {\n  x: int = const\n}\n"
	reporter := NewErrorReporter("<stdin>", source)

	out := reporter.FormatError(CompilerError{
		Level:    Error,
		Code:     ErrorMalformedIR,
		Message:  "malformed IR",
		Position: Position{Line: 2, Column: 18},
		Length:   1,
		Notes:    []string{"unexpected token"},
	})

	assert.Contains(t, out, "E0100")
	assert.Contains(t, out, "<stdin>:2:18")
	assert.Contains(t, out, "  x: int = const")
	assert.Contains(t, out, "note: unexpected token")

	lines := strings.Split(out, "\n")
	var markerLine string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			markerLine = l
		}
	}
	if assert.NotEmpty(t, markerLine, "expected a caret marker line") {
		assert.Greater(t, strings.Index(markerLine, "^"), strings.Index(markerLine, "│"))
	}
}

func TestFormatErrorRendersSuggestionsAndHelp(t *testing.T) {
	reporter := NewErrorReporter("<stdin>", "jump .nowhere;\n")

	out := reporter.FormatError(CompilerError{
		Level:   Error,
		Code:    ErrorUnresolvedLabel,
		Message: "CFG construction failed",
		Position: Position{
			Line:   1,
			Column: 6,
		},
		Length: 8,
		Suggestions: []Suggestion{
			{Message: "did you mean .somewhere?"},
		},
		HelpText: "every jump/branch target must resolve to a label in the function",
	})

	assert.Contains(t, out, "help")
	assert.Contains(t, out, "did you mean .somewhere?")
	assert.Contains(t, out, "help: every jump/branch target must resolve to a label in the function")
}

func TestLineNumberWidthHasAFloor(t *testing.T) {
	assert.Equal(t, 3, lineNumberWidth(1))
	assert.Equal(t, 3, lineNumberWidth(42))
	assert.Equal(t, 4, lineNumberWidth(1000))
}
