package vm

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/interp"
	"github.com/ruchy-lang/ruchy/token"
	"github.com/ruchy-lang/ruchy/value"
)

// DefaultRecursionLimit mirrors interp.DefaultRecursionLimit (spec 4.4.2):
// the VM enforces CALL_DEPTH independently of the tree-walker, since the
// two execution strategies never share a Go call stack.
const DefaultRecursionLimit = 1000

// frame is one activation record: the Proto being executed, its local
// slots (params, captures, then let-bound locals), and the program
// counter.
type frame struct {
	proto  *Proto
	locals []value.Value
	pc     int
}

// frameBinder adapts a frame's pre-resolved local slots to interp.Binder,
// so interp.MatchPattern/BindPattern bind directly into VM locals instead
// of an *interp.Environment — the same pattern-matching code runs
// unmodified over either execution strategy (spec 4.4.3's parity
// invariant).
type frameBinder struct {
	fr    *frame
	slots map[string]int
}

func (b *frameBinder) Define(name string, v value.Value, _ bool, _ token.Pos) {
	if slot, ok := b.slots[name]; ok {
		b.fr.locals[slot] = v
	}
}

func slotMap(slots []PatternSlot) map[string]int {
	m := make(map[string]int, len(slots))
	for _, s := range slots {
		m[s.Name] = s.Slot
	}
	return m
}

// Machine executes compiled Protos over an explicit operand stack. It
// shares the tree-walker's value model, operator table (ApplyBinaryOp,
// ApplyUnaryOp), method dispatch (CallMethod, including user impl blocks),
// and pattern matcher (MatchPattern) by delegating to the *interp.Interpreter
// it was built with, rather than re-implementing any of them — the
// grounding for spec 4.4.3's "parity with the tree-walker is a
// property-level invariant".
type Machine struct {
	rt             *interp.Interpreter
	globals        *interp.Environment
	RecursionLimit int
	depth          int
	stack          []value.Value
}

// NewMachine builds a Machine sharing rt's method/impl tables and globals'
// top-level bindings (typically the *Environment interp.RunModule
// returned for the same program).
func NewMachine(rt *interp.Interpreter, globals *interp.Environment) *Machine {
	return &Machine{rt: rt, globals: globals, RecursionLimit: DefaultRecursionLimit}
}

func (m *Machine) effectiveLimit() int {
	if m.RecursionLimit > 0 {
		return m.RecursionLimit
	}
	return DefaultRecursionLimit
}

func (m *Machine) push(v value.Value) { m.stack = append(m.stack, v) }

func (m *Machine) pop() value.Value {
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func (m *Machine) popN(n int) []value.Value {
	if n == 0 {
		return nil
	}
	out := make([]value.Value, n)
	copy(out, m.stack[len(m.stack)-n:])
	m.stack = m.stack[:len(m.stack)-n]
	return out
}

// Run invokes proto as a fresh top-level call, observing the same
// CALL_DEPTH guard a Call instruction does.
func (m *Machine) Run(proto *Proto, args []value.Value) (value.Value, error) {
	return m.callProto(proto, nil, args)
}

// makeClosureValue wraps a compiled Proto plus its captured upvalues as an
// ordinary value.Native, per spec 4.4.3's "captured scope refs". Because
// Native is already how the tree-walker's Call/CallMethod invoke any host
// function, a VM closure is transparently callable from tree-walking code
// (and vice versa for builtins) without either side special-casing the
// other's closure representation.
func (m *Machine) makeClosureValue(proto *Proto, caps []value.Value) value.Value {
	return value.FromNative(&value.Native{
		Name: proto.Name,
		Fn: func(args []value.Value) (value.Value, error) {
			return m.callProto(proto, caps, args)
		},
	})
}

func (m *Machine) callProto(proto *Proto, caps, args []value.Value) (value.Value, error) {
	if len(args) != proto.NumParams {
		return value.Unit(), interp.NewError(interp.KindArityMismatch, token.NoPos, "expected %d argument(s), got %d", proto.NumParams, len(args))
	}
	m.depth++
	defer func() { m.depth-- }()
	if m.depth > m.effectiveLimit() {
		return value.Unit(), interp.NewRecursionLimitExceeded(token.NoPos, m.depth, m.effectiveLimit())
	}

	fr := &frame{proto: proto, locals: make([]value.Value, proto.Locals)}
	for i, slot := range proto.CapSlots {
		if i < len(caps) {
			fr.locals[slot] = caps[i]
		}
	}
	for i := 0; i < proto.NumParams; i++ {
		fr.locals[i] = args[i]
	}
	return m.exec(fr)
}

// exec runs fr's instruction stream to completion (an OpReturn), per the
// frozen opcode table of spec section 4.4.3.
func (m *Machine) exec(fr *frame) (value.Value, error) {
	for {
		if fr.pc >= len(fr.proto.Code) {
			return value.Unit(), fmt.Errorf("vm: instruction stream ended without Return")
		}
		in := fr.proto.Code[fr.pc]
		fr.pc++

		switch in.Op {
		case OpLoadConst:
			m.push(fr.proto.Consts[in.A])
		case OpLoadLocal:
			m.push(fr.locals[in.A])
		case OpStoreLocal:
			fr.locals[in.A] = m.pop()
		case OpLoadGlobal:
			v, ok := m.globals.Lookup(in.Name)
			if !ok {
				return value.Unit(), interp.NewError(interp.KindNameResolution, in.Pos, "undefined name %q", in.Name)
			}
			m.push(v)
		case OpStoreGlobal:
			v := m.pop()
			if err := m.globals.Assign(in.Name, v, in.Pos); err != nil {
				return value.Unit(), err
			}
		case OpMakeList:
			m.push(value.ListOf(m.popN(in.A)))
		case OpMakeTuple:
			m.push(value.TupleOf(m.popN(in.A)))
		case OpMakeMap:
			kv := m.popN(in.A)
			mp := value.NewMap()
			for i := 0; i < len(kv); i += 2 {
				mp.Set(value.Display(kv[i]), kv[i+1])
			}
			m.push(value.FromMap(mp))
		case OpMakeClosure:
			proto := fr.proto.Protos[in.A]
			caps := m.popN(in.B)
			m.push(m.makeClosureValue(proto, caps))
		case OpCall:
			args := m.popN(in.A)
			fn := m.pop()
			v, err := m.rt.Call(fn, args, in.Pos)
			if err != nil {
				return value.Unit(), err
			}
			m.push(v)
		case OpMethodCall:
			args := m.popN(in.A)
			recv := m.pop()
			if in.Name == "__index__" {
				v, err := interp.IndexValue(recv, args[0], in.Pos)
				if err != nil {
					return value.Unit(), err
				}
				m.push(v)
				continue
			}
			v, err := m.rt.CallMethod(recv, in.Name, args, in.Pos)
			if err != nil {
				return value.Unit(), err
			}
			m.push(v)
		case OpReturn:
			return m.pop(), nil
		case OpPop:
			m.pop()
		case OpJump:
			fr.pc = in.A
		case OpJumpIfFalse:
			v := m.pop()
			if v.Kind() != value.KindBool {
				return value.Unit(), interp.NewError(interp.KindTypeError, in.Pos, "condition must be Bool")
			}
			if !v.Bool() {
				fr.pc = in.A
			}
		case OpBinOp:
			r := m.pop()
			l := m.pop()
			v, err := interp.ApplyBinaryOp(in.Tok, l, r, in.Pos)
			if err != nil {
				return value.Unit(), err
			}
			m.push(v)
		case OpUnOp:
			x := m.pop()
			v, err := interp.ApplyUnaryOp(in.Tok, x, in.Pos)
			if err != nil {
				return value.Unit(), err
			}
			m.push(v)
		case OpMatch:
			v := m.pop()
			pat := fr.proto.Patterns[in.A]
			binder := &frameBinder{fr: fr, slots: slotMap(fr.proto.PatternSlots[in.A])}
			ok, err := m.rt.MatchPattern(binder, pat, v)
			if err != nil {
				return value.Unit(), err
			}
			if in.B == 1 {
				if !ok {
					return value.Unit(), interp.NewError(interp.KindPatternMatchFailed, in.Pos, "pattern does not match value")
				}
				m.push(value.Unit())
			} else {
				m.push(value.Bool(ok))
			}
		case OpThrow:
			return value.Unit(), interp.NewError(interp.KindNonExhaustiveMatch, in.Pos, "%s", in.Name)
		case OpPropagateErr:
			// Reserved: `?` is currently only lowered through ReturnExpr at
			// the AST level (see interp.Eval's ReturnExpr case), so no
			// compiler pass emits this yet.
		case OpFor:
			return value.Unit(), interp.NewError(interp.KindUnsupportedFeature, in.Pos, "for-loops are not yet lowered by the bytecode compiler")
		default:
			return value.Unit(), fmt.Errorf("vm: unhandled opcode %s", in.Op)
		}
	}
}
