package ir

import "fmt"

// ValueKind tags the three shapes a value-numbering Value can take.
type ValueKind int

const (
	VKOperation ValueKind = iota
	VKConstant
	VKUnknown
)

// Value is the LVN value-table payload. Operation references its operands
// by value-number index rather than by variable name, which is what makes
// redundant computations detectable regardless of the names involved.
// Unknown covers inputs the current block did not itself produce: function
// arguments, values defined upstream, or the always-fresh results of
// alloc/call.
type Value struct {
	Kind ValueKind

	// Operation
	OpType Type
	Op     Op
	Args   []int

	// Constant
	Literal Literal

	// Unknown
	Name string
}

func (v Value) hashKey() any {
	switch v.Kind {
	case VKOperation:
		args := fmt.Sprint(v.Args)
		return fmt.Sprintf("op:%v:%s:%s", v.OpType, v.Op, args)
	case VKConstant:
		return fmt.Sprintf("const:%v", v.Literal.hashKey())
	case VKUnknown:
		return fmt.Sprintf("unk:%s", v.Name)
	default:
		return "?"
	}
}

// canonicalize sorts the operand indices of a commutative operation so that
// `add a b` and `add b a` hash identically.
func (v Value) canonicalize() Value {
	if v.Kind == VKOperation && commutative(v.Op) && len(v.Args) == 2 && v.Args[0] > v.Args[1] {
		v.Args = []int{v.Args[1], v.Args[0]}
	}
	return v
}

type tableEntry struct {
	value     Value
	variables []string // variables[0] is the current canonical binding
}

// Table is the per-block value-numbering table of §3/§4.5.
type Table struct {
	entries    []tableEntry
	valueIndex map[any]int
	cloud      map[string]int // variable -> entry index, the live binding env
}

func newTable() *Table {
	return &Table{valueIndex: map[any]int{}, cloud: map[string]int{}}
}

// lookup returns the table index of value v, if already registered.
func (t *Table) lookup(v Value) (int, bool) {
	idx, ok := t.valueIndex[v.hashKey()]
	return idx, ok
}

// register inserts v under a fresh entry with the given initial canonical
// variable, returning its index. It always appends a new entry, even if v
// is already present (valueIndex then points at the new one); callers that
// want to reuse an existing value check lookup first and use addAlias.
func (t *Table) register(v Value, canonical string) int {
	idx := len(t.entries)
	t.entries = append(t.entries, tableEntry{value: v, variables: []string{canonical}})
	t.valueIndex[v.hashKey()] = idx
	return idx
}

func (t *Table) canonicalVar(idx int) string {
	return t.entries[idx].variables[0]
}

func (t *Table) addAlias(idx int, name string) {
	t.entries[idx].variables = append(t.entries[idx].variables, name)
}

func (t *Table) bind(variable string, idx int) {
	t.cloud[variable] = idx
}

// resolveVar returns the canonical variable name currently standing in for
// variable, falling back to variable itself if the table has no binding
// (an outside-the-function-or-block read, §7.3).
func (t *Table) resolveVar(variable string) string {
	idx, ok := t.cloud[variable]
	if !ok {
		return variable
	}
	return t.canonicalVar(idx)
}

// ApplyLVN runs local value numbering over a single block, per §4.5. It
// rewrites args to canonical names, folds/simplifies constants, commons
// redundant computations via `id` rewrites, and renames non-final writes to
// a destination so the last write keeps the original name.
func ApplyLVN(b *Block) {
	t := newTable()

	// Setup: outside variables (read before any local def) are registered
	// as Unknown and bound immediately, so SSA-style args flow through
	// uniformly (resolved Open Question iii).
	defined := map[string]bool{}
	for _, instr := range b.Instrs {
		for _, a := range instr.GetArgs() {
			if !defined[a] {
				if _, ok := t.cloud[a]; !ok {
					v := Value{Kind: VKUnknown, Name: a}
					idx := t.register(v, a)
					t.bind(a, idx)
				}
			}
		}
		if d, ok := instr.GetDest(); ok {
			defined[d] = true
		}
	}

	// Determine, for each destination, the index of its last write so
	// earlier writes can be safely renamed to lvn_temp_k.
	lastWrite := map[string]int{}
	for i, instr := range b.Instrs {
		if d, ok := instr.GetDest(); ok {
			lastWrite[d] = i
		}
	}

	tempCounter := 0
	freshTemp := func() string {
		name := fmt.Sprintf("lvn_temp_%d", tempCounter)
		tempCounter++
		return name
	}

	out := make([]Instruction, 0, len(b.Instrs))
	for i := range b.Instrs {
		instr := b.Instrs[i]
		origArgs := instr.GetArgs()

		// Step 1: rewrite args to canonical names.
		if args := instr.GetArgs(); args != nil {
			newArgs := make([]string, len(args))
			for j, a := range args {
				newArgs[j] = t.resolveVar(a)
			}
			instr.SetArgs(newArgs)
		}

		dest, hasDest := instr.GetDest()
		if !hasDest {
			out = append(out, instr)
			continue
		}

		// Step 3: calls are canonicalized but never commoned (resolved
		// Open Question ii) — side effects mean repeating the call is
		// never safe, however equal its apparent value-number key is.
		if instr.Kind == IKValue && instr.Op == OpCall {
			v := Value{Kind: VKUnknown, Name: dest}
			idx := t.register(v, dest)
			finalName := dest
			if i != lastWrite[dest] {
				finalName = freshTemp()
				t.entries[idx].variables[0] = finalName
			}
			instr.SetDest(finalName)
			t.bind(dest, idx)
			out = append(out, instr)
			continue
		}

		var value Value
		switch instr.Kind {
		case IKConstant:
			value = Value{Kind: VKConstant, Literal: instr.Literal}
		case IKValue:
			if instr.Op == OpAlloc {
				value = Value{Kind: VKUnknown, Name: dest}
			} else {
				// Value numbers come from the original operand names: the
				// rewritten canonical names may be lvn_temp_k, which are
				// never bound in the cloud.
				idxArgs := make([]int, len(origArgs))
				for j, a := range origArgs {
					idxArgs[j] = t.cloud[a]
				}
				value = Value{Kind: VKOperation, OpType: instr.Type, Op: instr.Op, Args: idxArgs}.canonicalize()
			}
		default:
			out = append(out, instr)
			continue
		}

		// Step 4/5: fold to a constant, simplify to an existing operand's
		// value number (an algebraic identity — valid whether or not that
		// operand is itself constant), or fall back to plain lookup/common.
		// preexisting tracks whether idx names a table entry that already
		// had a canonical variable bound before this instruction, which is
		// what decides whether we keep computing under dest or rewrite to
		// `id canonical`.
		var idx int
		preexisting := false
		handled := false
		if value.Kind == VKOperation {
			if lit, ok := foldConstant(t, value); ok {
				cv := Value{Kind: VKConstant, Literal: lit}
				instr = NewConstant(dest, instr.Type, lit)
				if existing, ok := t.lookup(cv); ok {
					idx, preexisting = existing, true
				} else {
					idx = t.register(cv, dest)
				}
				handled = true
			} else if opIdx, ok := identityIndex(t, value); ok {
				idx, preexisting = opIdx, true
				handled = true
			}
		}
		if !handled {
			if existing, ok := t.lookup(value); ok {
				idx, preexisting = existing, true
			} else {
				idx = t.register(value, dest)
			}
		}

		canonical := t.canonicalVar(idx)
		finalName := dest
		if i != lastWrite[dest] {
			finalName = freshTemp()
		}
		if preexisting && canonical != dest {
			instr = NewValue(finalName, instr.Type, OpID, []string{canonical})
			t.addAlias(idx, finalName)
		} else {
			instr.SetDest(finalName)
			if finalName != dest {
				t.entries[idx].variables[0] = finalName
			}
		}
		t.bind(dest, idx)
		out = append(out, instr)
	}

	b.Instrs = out
}

// foldConstant applies the fold rules of §4.5 that produce a constant
// literal outright: full constant-constant arithmetic/comparison, the
// "absorbing element" rules that hold regardless of the other operand
// (x*0, 0*x → 0; false and x → false; true or x → true), x/x → 1 and
// reflexive eq. Division/float-division by equal operands folding to 1 is
// a deliberate, documented inaccuracy inherited from the spec (wrong for
// zero/NaN/infinite operands) — not a bug to be fixed here.
func foldConstant(t *Table, v Value) (Literal, bool) {
	operand := func(i int) (Value, bool) {
		if i < 0 || i >= len(v.Args) {
			return Value{}, false
		}
		idx := v.Args[i]
		if idx < 0 || idx >= len(t.entries) {
			return Value{}, false
		}
		return t.entries[idx].value, true
	}
	asConst := func(i int) (Literal, bool) {
		val, ok := operand(i)
		if !ok || val.Kind != VKConstant {
			return Literal{}, false
		}
		return val.Literal, true
	}
	sameOperand := func() bool {
		return len(v.Args) == 2 && v.Args[0] == v.Args[1]
	}

	switch v.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		a, aok := asConst(0)
		b, bok := asConst(1)
		if aok && bok && a.Kind == LitInt && b.Kind == LitInt {
			switch v.Op {
			case OpAdd:
				return IntLiteral(a.Int + b.Int), true
			case OpSub:
				return IntLiteral(a.Int - b.Int), true
			case OpMul:
				return IntLiteral(a.Int * b.Int), true
			case OpDiv:
				if b.Int == 0 {
					return Literal{}, false
				}
				return IntLiteral(a.Int / b.Int), true
			}
		}
		if v.Op == OpMul && ((aok && a.Kind == LitInt && a.Int == 0) || (bok && b.Kind == LitInt && b.Int == 0)) {
			return IntLiteral(0), true
		}
		if v.Op == OpDiv && sameOperand() {
			return IntLiteral(1), true
		}

	case OpFAdd, OpFSub, OpFMul, OpFDiv:
		a, aok := asConst(0)
		b, bok := asConst(1)
		if aok && bok && a.Kind == LitFloat && b.Kind == LitFloat {
			switch v.Op {
			case OpFAdd:
				return FloatLiteral(a.Float + b.Float), true
			case OpFSub:
				return FloatLiteral(a.Float - b.Float), true
			case OpFMul:
				return FloatLiteral(a.Float * b.Float), true
			case OpFDiv:
				if b.Float == 0 {
					return Literal{}, false
				}
				return FloatLiteral(a.Float / b.Float), true
			}
		}
		if v.Op == OpFDiv && sameOperand() {
			// Deliberate inaccuracy: see §9 — wrong for NaN/Inf operands.
			return FloatLiteral(1), true
		}

	case OpEq, OpLt, OpLe, OpGt, OpGe:
		if sameOperand() && v.Op == OpEq {
			return BoolLiteral(true), true
		}
		a, aok := asConst(0)
		b, bok := asConst(1)
		if aok && bok && a.Kind == LitInt && b.Kind == LitInt {
			switch v.Op {
			case OpEq:
				return BoolLiteral(a.Int == b.Int), true
			case OpLt:
				return BoolLiteral(a.Int < b.Int), true
			case OpLe:
				return BoolLiteral(a.Int <= b.Int), true
			case OpGt:
				return BoolLiteral(a.Int > b.Int), true
			case OpGe:
				return BoolLiteral(a.Int >= b.Int), true
			}
		}

	case OpAnd:
		a, aok := asConst(0)
		b, bok := asConst(1)
		if aok && a.Kind == LitBool && !a.Bool {
			return BoolLiteral(false), true
		}
		if bok && b.Kind == LitBool && !b.Bool {
			return BoolLiteral(false), true
		}

	case OpOr:
		a, aok := asConst(0)
		b, bok := asConst(1)
		if aok && a.Kind == LitBool && a.Bool {
			return BoolLiteral(true), true
		}
		if bok && b.Kind == LitBool && b.Bool {
			return BoolLiteral(true), true
		}

	case OpNot:
		a, aok := asConst(0)
		if aok && a.Kind == LitBool {
			return BoolLiteral(!a.Bool), true
		}
	}

	return Literal{}, false
}

// identityIndex applies the algebraic identities of §4.5 that leave the
// value congruent to one of its own operands — x+0, 0+x, x-0, x*1, 1*x,
// x/1, ptradd x 0, ptradd 0 x, true and x, x and true, false or x, x or
// false, and id x — returning the table index of the operand to adopt.
// Unlike foldConstant, these hold even when that operand is not itself a
// constant, so the result can't be expressed as a Literal; the caller
// adopts the operand's existing canonical variable instead.
func identityIndex(t *Table, v Value) (int, bool) {
	if v.Op == OpID && len(v.Args) == 1 {
		return v.Args[0], true
	}
	if len(v.Args) != 2 {
		return 0, false
	}
	entry := func(i int) Value {
		idx := v.Args[i]
		if idx < 0 || idx >= len(t.entries) {
			return Value{}
		}
		return t.entries[idx].value
	}
	isZero := func(i int) bool {
		e := entry(i)
		if e.Kind != VKConstant {
			return false
		}
		switch e.Literal.Kind {
		case LitInt:
			return e.Literal.Int == 0
		case LitFloat:
			return e.Literal.Float == 0
		default:
			return false
		}
	}
	isOne := func(i int) bool {
		e := entry(i)
		if e.Kind != VKConstant {
			return false
		}
		switch e.Literal.Kind {
		case LitInt:
			return e.Literal.Int == 1
		case LitFloat:
			return e.Literal.Float == 1
		default:
			return false
		}
	}
	isBool := func(i int, want bool) bool {
		e := entry(i)
		return e.Kind == VKConstant && e.Literal.Kind == LitBool && e.Literal.Bool == want
	}

	a, b := v.Args[0], v.Args[1]
	switch v.Op {
	case OpAdd, OpFAdd:
		if isZero(0) {
			return b, true
		}
		if isZero(1) {
			return a, true
		}
	case OpSub, OpFSub:
		if isZero(1) {
			return a, true
		}
	case OpMul, OpFMul:
		if isOne(0) {
			return b, true
		}
		if isOne(1) {
			return a, true
		}
	case OpDiv, OpFDiv:
		if isOne(1) {
			return a, true
		}
	case OpPtrAdd:
		if isZero(0) {
			return b, true
		}
		if isZero(1) {
			return a, true
		}
	case OpAnd:
		if isBool(0, true) {
			return b, true
		}
		if isBool(1, true) {
			return a, true
		}
	case OpOr:
		if isBool(0, false) {
			return b, true
		}
		if isBool(1, false) {
			return a, true
		}
	}
	return 0, false
}
