package nfa

import (
	"fmt"
	"io"
)

// Flags is the bit mask accepted by Compile and recorded on the
// resulting Machine.
type Flags uint32

const (
	// MatchBegin anchors every match at input position 0.
	MatchBegin Flags = 1 << iota
	// MatchEnd requires the match to reach End on the last consumed
	// character.
	MatchEnd
	// Newline excludes '\n' and '\r' from '.' and from inverted
	// character classes.
	Newline
	// NonGreedy prefers the shortest match over the longest, and
	// combined with MatchBegin accepts the first match found.
	NonGreedy
	// IDCheck is set internally by the search-state analyzer whenever
	// the pattern contains an id tag with a value greater than zero.
	IDCheck
	// Verbose is a diagnostics flag recorded on the Machine; it has no
	// effect on matching. Machine.Describe writes its dump whether or
	// not it is set.
	Verbose
)

// Machine is a compiled, immutable program. It has no mutable state of
// its own and may be shared across goroutines; per-session state lives
// on Match.
type Machine struct {
	Pattern string
	Flags   Flags

	Program []Instruction
	Slots   []int32 // per program position: term slot index, or -1
	SlotPos []int32 // per term slot index: program position
	T       int32

	Classes       []CharClass // indexed by the RngEnd slot it belongs to
	MaxClassWidth int

	// BeginClosure holds the program positions reachable from Begin's
	// own epsilon closure, computed once at compile time. It drives
	// both the fast-forward predicate scan and the "only the begin
	// closure is active" eligibility check.
	BeginClosure     []int
	beginClosureSlot []bool
}

func (m *Machine) isBeginClosureSlot(slot int32) bool {
	if int(slot) >= len(m.beginClosureSlot) {
		return false
	}
	return m.beginClosureSlot[slot]
}

// CompileOptions configures Compile. Use DefaultCompileOptions as a
// base and layer WithFlags / WithMaxProgramSize over it.
type CompileOptions struct {
	Flags          Flags
	MaxProgramSize int
}

// CompileOption mutates a CompileOptions in place.
type CompileOption func(*CompileOptions)

// WithFlags sets the parse/match flags for Compile.
func WithFlags(f Flags) CompileOption {
	return func(o *CompileOptions) { o.Flags = f }
}

// WithMaxProgramSize overrides the program-size ceiling enforced during
// compilation. Zero disables the ceiling.
func WithMaxProgramSize(n int) CompileOption {
	return func(o *CompileOptions) { o.MaxProgramSize = n }
}

// DefaultCompileOptions returns the baseline options Compile starts
// from before applying the supplied CompileOption values.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{MaxProgramSize: 65536}
}

// Compile parses and builds pattern into a Machine. The returned error,
// if any, wraps either ErrInvalidRegex or ErrMemoryError.
func Compile(pattern string, opts ...CompileOption) (*Machine, error) {
	cfg := DefaultCompileOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	terms, flags, _, err := Parse(pattern, cfg.Flags, cfg.MaxProgramSize)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	prog, err := Build(terms)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	if cfg.MaxProgramSize > 0 && len(prog) > cfg.MaxProgramSize {
		return nil, &CompileError{Pattern: pattern, Err: &SizeError{Limit: cfg.MaxProgramSize, Needed: len(prog)}}
	}
	a := analyze(prog)
	if a.idCheck {
		flags |= IDCheck
	}
	m := &Machine{
		Pattern:       pattern,
		Flags:         flags,
		Program:       prog,
		Slots:         a.slots,
		SlotPos:       a.slotPos,
		T:             a.t,
		Classes:       a.classes,
		MaxClassWidth: a.maxClassWidth,
	}
	seedTracer := newTracer(len(prog))
	hits := seedTracer.Trace(prog, a.slots, 1)
	m.beginClosureSlot = make([]bool, a.t)
	for _, h := range hits {
		m.BeginClosure = append(m.BeginClosure, h.pos)
		m.beginClosureSlot[a.slots[h.pos]] = true
	}
	return m, nil
}

// MustCompile is like Compile but panics on error; it is meant for
// tests and for patterns known at compile time.
func MustCompile(pattern string, opts ...CompileOption) *Machine {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Describe writes a human-readable dump of the compiled program, slot
// map and class table to w. It is intended for use behind the Verbose
// flag; it is never called from the match hot path.
func (m *Machine) Describe(w io.Writer) {
	fmt.Fprintf(w, "pattern=%q flags=%#x T=%d maxClassWidth=%d\n", m.Pattern, m.Flags, m.T, m.MaxClassWidth)
	for i, ins := range m.Program {
		fmt.Fprintf(w, "%4d: %-10s %d", i, ins.Kind, ins.Value)
		if s := m.Slots[i]; s >= 0 {
			fmt.Fprintf(w, "  slot=%d", s)
			if ins.Kind == RngEnd {
				c := m.Classes[s]
				fmt.Fprintf(w, " class{invert=%v chars=%q ranges=%v}", c.Invert, c.Chars, c.Ranges)
			}
		}
		fmt.Fprintln(w)
	}
}
