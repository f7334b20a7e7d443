// Package nfa builds and executes the flat-program regex matcher: a
// parser turns a pattern into a linear term stack, a transition builder
// lowers that into a flat program of typed instructions with resolved
// branch/jump edges, a search-state analyzer assigns term slots, and a
// match engine walks the program character by character over two
// alternating state vectors.
//
// Unlike a Thompson-NFA-with-state-graph engine, the program here is a
// single flat array: every control edge (branch, loop-back, jump over an
// alternative) is an absolute index into that array, not a pointer to a
// heap-allocated state. This keeps compiled machines cheap to share
// across goroutines (see Machine) and keeps match state (see Match) as a
// pair of flat, reusable buffers.
package nfa

import "fmt"

// Kind identifies the role of a Term (parser output) or Instruction
// (program output). The two share the same numbering for every kind
// that survives from parsing into the final program; Branch and Jump
// only ever appear in a compiled program, never in the parser's term
// stack, and OpenBr/CloseBr/Select/Star/Plus/Question only ever appear
// in the term stack, consumed entirely by the transition builder.
type Kind uint8

const (
	// Begin is the sentinel that opens every program; it is slot-bearing
	// but consumes no input.
	Begin Kind = iota
	// End is the sentinel that closes every program; slot-bearing,
	// consumes no input.
	End
	// Char matches a single literal character. Value holds the code point.
	Char
	// ID annotates the path with a non-POSIX "{n!}" priority tag. Value
	// holds the tag. Epsilon-only.
	ID
	// RngStart opens a character class. Value is 1 if the class is
	// negated ("[^...]"), 0 otherwise. Epsilon-only.
	RngStart
	// RngEnd closes a character class; this is the slot-bearing
	// position representing "consumed one character accepted by the
	// class opened at the matching RngStart".
	RngEnd
	// RngChar is a single member of a character class. Value holds the
	// code point. Epsilon-only.
	RngChar
	// RngLeft is the low end of a character-class range member. Value
	// holds the code point.
	RngLeft
	// RngRight is the high end of a character-class range member,
	// always immediately following the matching RngLeft. Value holds
	// the code point.
	RngRight
	// OpenBr is a parser-only grouping marker, "(".
	OpenBr
	// CloseBr is a parser-only grouping marker, ")".
	CloseBr
	// Select is a parser-only alternation marker, "|".
	Select
	// Star is a parser-only iterator marker, "*".
	Star
	// Plus is a parser-only iterator marker, "+".
	Plus
	// Question is a parser-only iterator marker, "?".
	Question
	// Branch is a program-only non-deterministic fork. Value is the
	// absolute program index of the alternate path; the fallthrough
	// (preferred) path is the next instruction.
	Branch
	// Jump is a program-only unconditional goto. Value is the absolute
	// target program index.
	Jump
)

func (k Kind) String() string {
	switch k {
	case Begin:
		return "Begin"
	case End:
		return "End"
	case Char:
		return "Char"
	case ID:
		return "ID"
	case RngStart:
		return "RngStart"
	case RngEnd:
		return "RngEnd"
	case RngChar:
		return "RngChar"
	case RngLeft:
		return "RngLeft"
	case RngRight:
		return "RngRight"
	case OpenBr:
		return "OpenBr"
	case CloseBr:
		return "CloseBr"
	case Select:
		return "Select"
	case Star:
		return "Star"
	case Plus:
		return "Plus"
	case Question:
		return "Question"
	case Branch:
		return "Branch"
	case Jump:
		return "Jump"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Term is one entry of the parser's linear term stack.
type Term struct {
	Kind  Kind
	Value int32
}

// Instruction is one entry of the compiled flat program. It reuses
// Term's shape: Value is the character code for Char/Rng*, the tag for
// ID, the invert flag for RngStart, or the absolute target index for
// Branch/Jump.
type Instruction struct {
	Kind  Kind
	Value int32
}

// IsIterator reports whether k is one of the postfix iterator markers.
func (k Kind) IsIterator() bool {
	return k == Star || k == Plus || k == Question
}
