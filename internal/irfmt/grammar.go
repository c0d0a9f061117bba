package irfmt

// This file defines the participle grammar for the textual IR surface
// syntax:
//
//	@name(arg: type, ...): rettype {
//	  .label:
//	  dest: type = const 1;
//	  dest: type = add a b;
//	  branch cond .then .else;
//	}

type astProgram struct {
	Functions []*astFunction `@@*`
}

type astFunction struct {
	Name    string        `"@" @Ident`
	Params  []*astParam   `"(" (@@ ("," @@)*)? ")"`
	RetType *astType      `(":" @@)?`
	Items   []*astItem    `"{" @@* "}"`
}

type astParam struct {
	Name string   `@Ident`
	Type astType  `":" @@`
}

type astType struct {
	Name string   `@("int" | "bool" | "float" | "char" | "ptr")`
	Elem *astType `("<" @@ ">")?`
}

type astItem struct {
	Label *astLabel `( @@`
	Instr *astInstr ` | @@ )`
}

type astLabel struct {
	Name string `"." @Ident ":"`
}

type astInstr struct {
	Assign *astAssign `( @@`
	Effect *astOpCall ` | @@ ) ";"`
}

type astAssign struct {
	Dest    string     `@Ident ":"`
	Type    astType    `@@ "="`
	Literal *astLiteral `( "const" @@`
	Op      *astOpCall  ` | @@ )`
}

type astOpCall struct {
	Name   string   `@Ident`
	Args   []string `(@Ident)*`
	Funcs  []string `("@" @Ident)*`
	Labels []string `("." @Ident)*`
}

type astLiteral struct {
	Float *float64 `( @Float`
	Int   *int64   ` | @Int`
	Bool  *string  ` | @("true" | "false")`
	Char  *string  ` | @Char )`
}
