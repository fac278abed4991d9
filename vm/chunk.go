package vm

import (
	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
)

// PatternSlot names one variable a compiled pattern binds and the local
// slot it was pre-allocated at compile time (see Compiler.declarePatternLocals).
type PatternSlot struct {
	Name string
	Slot int
}

// Instr is one decoded instruction. Operands are carried as plain struct
// fields rather than packed into a byte stream: the spec freezes the
// opcode table's *stack effect*, not a wire encoding, and there is no
// teacher precedent (or need, absent a persisted bytecode format) for byte
// packing here.
type Instr struct {
	Op   Op
	A    int         // const index / local slot / jump target / arg count, depending on Op
	B    int         // secondary int operand (MakeClosure's ncaps, Match's strict flag)
	Name string      // LoadGlobal/StoreGlobal/MethodCall's name operand
	Tok  token.Token // BinOp/UnOp's operator
	Pos  token.Pos
}

// Proto is a compiled function body: its code, constant pool, and nested
// closure prototypes (Protos), addressed from MakeClosure by index.
type Proto struct {
	Name      string
	NumParams int
	CapSlots  []int // destination local slot for each captured upvalue, in pop order
	Locals    int    // total local slots required (params + captures + lets)
	Code      []Instr
	Consts    []value.Value
	Protos    []*Proto

	// Patterns holds one entry per OpMatch instruction whose A operand
	// indexes into it (non-binding-only `let` destructuring and match-arm
	// patterns); PatternSlots[i] is the compile-time name->slot map for
	// Patterns[i], used by the Machine to build a runtime Binder without
	// re-walking the pattern (see frameBinder in vm.go).
	Patterns     []ast.Pattern
	PatternSlots [][]PatternSlot
}
