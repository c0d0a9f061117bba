package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// levelColors maps each severity to the color its header, gutter markers,
// and caret are rendered in.
var levelColors = map[ErrorLevel]func(...interface{}) string{
	Error:   color.New(color.FgRed, color.Bold).SprintFunc(),
	Warning: color.New(color.FgYellow, color.Bold).SprintFunc(),
	Note:    color.New(color.FgBlue, color.Bold).SprintFunc(),
	Help:    color.New(color.FgGreen, color.Bold).SprintFunc(),
}

func colorFor(level ErrorLevel) func(...interface{}) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors[Error]
}

// Position locates a point in the IR's textual surface syntax: the same
// 1-based line/column pair irfmt.ParseError carries off a participle parse
// failure.
type Position struct {
	Line   int
	Column int
}

// CompilerError represents a structured error with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0100
	Message     string       // Primary error message
	Position    Position     // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string   // Description of the suggestion
	Replacement string   // Suggested replacement text (optional)
	Position    Position // Position to apply the fix (optional)
	Length      int      // Length of text to replace (optional)
}

// ErrorReporter renders CompilerErrors as boxed, gutter-annotated reports
// against one source buffer, in the style of rustc's diagnostics.
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError renders err as a header line, a `-->` location line, a gutter
// with up to one line of context on either side of the offending line, and
// any suggestions/notes/help text attached to err.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	levelColor := colorFor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var b strings.Builder

	if err.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", levelColor(string(err.Level)), err.Code, err.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(string(err.Level)), err.Message)
	}

	gutter := lineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", gutter)

	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column)
	fmt.Fprintf(&b, "%s %s\n", indent, dim("│"))

	er.writeContextLine(&b, gutter, err.Position.Line-1, dim)

	if err.Position.Line > 0 && err.Position.Line <= len(er.lines) {
		er.writeSourceLine(&b, gutter, err.Position.Line, er.lines[err.Position.Line-1], bold, dim)
		fmt.Fprintf(&b, "%s %s %s\n", indent, dim("│"), caret(err.Position.Column, err.Length, levelColor))
	}

	er.writeContextLine(&b, gutter, err.Position.Line+1, dim)

	er.writeSuggestions(&b, indent, dim, err.Suggestions)

	noteColor := color.New(color.FgBlue).SprintFunc()
	for _, note := range err.Notes {
		fmt.Fprintf(&b, "%s %s %s %s\n", indent, dim("│"), noteColor("note:"), note)
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(&b, "%s %s %s %s\n", indent, dim("│"), helpColor("help:"), err.HelpText)
	}

	b.WriteString("\n")
	return b.String()
}

// writeContextLine prints line n as dimmed gutter context, if it exists.
// Used for the one line of lead-in/lead-out around the offending line.
func (er *ErrorReporter) writeContextLine(b *strings.Builder, gutter, n int, dim func(...interface{}) string) {
	if n < 1 || n > len(er.lines) {
		return
	}
	fmt.Fprintf(b, "%s %s %s\n", dim(fmt.Sprintf("%*d", gutter, n)), dim("│"), er.lines[n-1])
}

// writeSourceLine prints the offending line itself, bolded.
func (er *ErrorReporter) writeSourceLine(b *strings.Builder, gutter, n int, content string, bold, dim func(...interface{}) string) {
	fmt.Fprintf(b, "%s %s %s\n", bold(fmt.Sprintf("%*d", gutter, n)), dim("│"), content)
}

func (er *ErrorReporter) writeSuggestions(b *strings.Builder, indent string, dim func(...interface{}) string, suggestions []Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	suggestionColor := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(b, "%s %s\n", indent, dim("│"))
	for i, s := range suggestions {
		if i == 0 {
			fmt.Fprintf(b, "%s %s %s: %s\n", indent, suggestionColor("help"), suggestionColor("try"), s.Message)
		} else {
			fmt.Fprintf(b, "%s %s %s\n", indent, suggestionColor("    "), s.Message)
		}
		if s.Replacement == "" {
			continue
		}
		fmt.Fprintf(b, "%s %s\n", indent, dim("│"))
		replacement := strings.ReplaceAll(s.Replacement, "\n", fmt.Sprintf("\n%s %s ", indent, dim("│")))
		fmt.Fprintf(b, "%s %s %s\n", indent, suggestionColor("│"), suggestionColor(replacement))
	}
}

// caret builds the underline marker for a span starting at column (1-based)
// spanning length runes, colored for level.
func caret(column, length int, levelColor func(...interface{}) string) string {
	if length <= 0 {
		length = 1
	}
	if column < 1 {
		column = 1
	}
	spaces := strings.Repeat(" ", column-1)
	return spaces + levelColor(strings.Repeat("^", length))
}

// lineNumberWidth returns the gutter width for line n, with a floor wide
// enough to keep 3-digit line numbers from shifting the box each line.
func lineNumberWidth(n int) int {
	width := len(fmt.Sprintf("%d", n))
	if width < 3 {
		return 3
	}
	return width
}
