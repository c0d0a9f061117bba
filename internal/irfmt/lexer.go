// Package irfmt is the IR's textual surface syntax: a participle-driven
// parser and a printer that round-trip the ir package's data model to and
// from a flat, Bril-like text form, plus a JSON codec for the same model.
package irfmt

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// irLexer tokenizes the textual IR form. Numbers come before identifiers,
// identifiers before bare punctuation (there are no operator rules). Char
// sits before Ident/Punct since the leading quote isn't otherwise claimed
// by any rule.
var irLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Int", `[0-9]+`, nil},
		{"Char", `'(\\[\\'ntr0]|[^'\\])'`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Punct", `[:;,(){}@.]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
