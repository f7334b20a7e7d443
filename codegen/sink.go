// Package codegen is the optional second backend: instead of walking a
// compiled program with the interpreter in nfa.Match, it emits a
// self-contained Go source function that scans the same program natively,
// as a backtracker whose results can differ from nfa.Match's (see
// Generate).
//
// The two backends agree on the portable abstract machine a compiled
// program targets (move a register, combine two operands, branch on a
// condition, jump, label a program point, enter a frame, return) but
// realize it differently: nfa.Match is that machine's interpreter, and
// Generator in this package is a Sink that renders it as Go source via
// jennifer instead of executing it directly.
package codegen

// Label identifies a program point a Sink can jump or branch to.
type Label int

// Operand is anything a Sink's emit methods can consume as a value: a
// jennifer expression, in Generator's case.
type Operand interface{}

// Sink is the abstract code-generation target a compiled program is
// lowered onto. nfa.Match implements the same operations informally, as
// Go control flow over its own state vectors; Generator implements them
// literally, each call appending one emitted statement.
type Sink interface {
	// EmitMove assigns src to dst.
	EmitMove(dst, src Operand)
	// EmitOp2 assigns the result of applying op to a and b to dst.
	EmitOp2(op string, dst, a, b Operand)
	// EmitBranchIf jumps to target if cond holds.
	EmitBranchIf(cond Operand, target Label)
	// EmitIJump jumps to target unconditionally.
	EmitIJump(target Label)
	// EmitLabel marks the current emission point as target.
	EmitLabel(target Label)
	// EmitEnter marks the start of a callable frame.
	EmitEnter()
	// EmitReturn exits the current frame with the given values.
	EmitReturn(values ...Operand)
	// GenerateCode renders everything emitted so far as source text.
	GenerateCode() (string, error)
	// LabelAddr reports the program-point index a Label was created for.
	LabelAddr(l Label) int
}
