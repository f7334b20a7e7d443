package nfa

import "github.com/GregorR/sfjit/internal/sparse"

// traceHit is one slot-bearing position reached by a trace, together
// with the highest ID tag value accumulated on the path that reached
// it.
type traceHit struct {
	pos   int
	idAcc int32
}

type traceFrame struct {
	pos   int
	idAcc int32
}

// tracer is the reusable epsilon-closure walker. It carries its own
// scratch memoization state rather than the Machine, since a Machine is
// shared read-only across match sessions while a trace's visited set is
// scoped to a single session's single step.
//
// touched is a sparse.SparseSet over program positions: a trace visits
// a small, varying subset of a (potentially large) program each step,
// so clearing marks between traces needs to cost time proportional to
// what was visited, not to the program's length.
type tracer struct {
	marks   []int32
	touched *sparse.SparseSet
	stack   []traceFrame
	hits    []traceHit
}

func newTracer(progLen int) *tracer {
	t := &tracer{
		marks:   make([]int32, progLen),
		touched: sparse.NewSparseSet(uint32(progLen)),
	}
	for i := range t.marks {
		t.marks[i] = -1
	}
	return t
}

func (t *tracer) clear() {
	t.touched.Iter(func(p uint32) { t.marks[p] = -1 })
	t.touched.Clear()
	t.hits = t.hits[:0]
	t.stack = t.stack[:0]
}

func (t *tracer) mark(pos int, idAcc int32) {
	t.touched.Insert(uint32(pos))
	t.marks[pos] = idAcc
}

// Trace computes the set of slot-bearing positions reachable from
// start without consuming a character, honoring Branch, Jump and ID.
// The caller is responsible for passing start one past whatever
// slot-bearing position it just left.
func (t *tracer) Trace(prog []Instruction, slots []int32, start int) []traceHit {
	t.clear()
	t.stack = append(t.stack, traceFrame{pos: start, idAcc: 0})
	for len(t.stack) > 0 {
		f := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.walk(prog, slots, f.pos, f.idAcc)
	}
	return t.hits
}

func (t *tracer) walk(prog []Instruction, slots []int32, pos int, idAcc int32) {
	for {
		if pos < 0 || pos >= len(prog) {
			return
		}
		if t.marks[pos] != -1 && t.marks[pos] >= idAcc {
			return
		}
		switch prog[pos].Kind {
		case Branch:
			t.mark(pos, idAcc)
			t.stack = append(t.stack, traceFrame{pos: int(prog[pos].Value), idAcc: idAcc})
			pos++
		case Jump:
			pos = int(prog[pos].Value)
		case ID:
			if prog[pos].Value > idAcc {
				idAcc = prog[pos].Value
			}
			pos++
		case RngStart:
			t.mark(pos, idAcc)
			pos = skipClass(prog, pos)
		default:
			t.mark(pos, idAcc)
			t.hits = append(t.hits, traceHit{pos: pos, idAcc: idAcc})
			return
		}
	}
}

func skipClass(prog []Instruction, pos int) int {
	for prog[pos].Kind != RngEnd {
		pos++
	}
	return pos
}
