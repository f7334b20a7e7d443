// Package sfjit compiles POSIX-like regular expressions into a flat NFA
// program and matches them against a byte stream one character at a
// time, without ever generating native code.
//
// The design is split into two layers: the nfa package does the actual
// work (parsing, building, the character-at-a-time match engine), and
// this package is a thin convenience wrapper around it, in the shape of
// stdlib's regexp: Compile, MustCompile, Match, Find, FindIndex.
//
// Beyond the stdlib-shaped convenience methods, the underlying streaming
// session is exposed directly as Match, for callers who want to feed
// input in chunks rather than handing over one full []byte: BeginMatch,
// ContinueMatch, GetResult, IsMatchFinished, Reset.
//
// Supported syntax: literal characters, "." (optionally excluding
// newline), character classes with negation and ranges, the anchors "^"
// and "$", the iterators "*" "+" "?" and bounded "{m,n}", alternation
// "|", grouping "(...)", and the non-standard id-tag extension "{n!}".
// Not supported: Unicode classes beyond single-codepoint literals and
// ranges, backreferences, lookaround, capturing groups.
package sfjit

import (
	"io"

	"github.com/GregorR/sfjit/nfa"
)

// Flags is the bit mask accepted by Compile.
type Flags = nfa.Flags

// Flag values, re-exported from nfa for callers who only import the
// root package.
const (
	MatchBegin = nfa.MatchBegin
	MatchEnd   = nfa.MatchEnd
	Newline    = nfa.Newline
	NonGreedy  = nfa.NonGreedy
	IDCheck    = nfa.IDCheck
	Verbose    = nfa.Verbose
)

// CompileOption configures Compile; see WithFlags and WithMaxProgramSize.
type CompileOption = nfa.CompileOption

// WithFlags sets the flags a pattern is compiled with.
func WithFlags(f Flags) CompileOption { return nfa.WithFlags(f) }

// WithMaxProgramSize overrides the program-size ceiling enforced at
// compile time. Zero disables the ceiling.
func WithMaxProgramSize(n int) CompileOption { return nfa.WithMaxProgramSize(n) }

// Regex is a compiled pattern. It holds no mutable state and is safe
// for concurrent use; each scan over it gets its own Match.
type Regex struct {
	m *nfa.Machine
}

// Regexp is an alias for Regex, for drop-in compatibility with code
// written against stdlib regexp's naming.
type Regexp = Regex

// Compile compiles pattern into a Regex.
func Compile(pattern string, opts ...CompileOption) (*Regex, error) {
	m, err := nfa.Compile(pattern, opts...)
	if err != nil {
		return nil, err
	}
	return &Regex{m: m}, nil
}

// MustCompile is like Compile but panics if pattern fails to compile.
func MustCompile(pattern string, opts ...CompileOption) *Regex {
	return &Regex{m: nfa.MustCompile(pattern, opts...)}
}

// String returns the source pattern r was compiled from.
func (r *Regex) String() string { return r.m.Pattern }

// Describe writes a diagnostic dump of the compiled program to w.
func (r *Regex) Describe(w io.Writer) { r.m.Describe(w) }

// BeginMatch starts a new streaming scan session over r.
func (r *Regex) BeginMatch() *Match { return &Match{mt: nfa.BeginMatch(r.m)} }

// Match is a streaming scan session over a Regex. It is not safe for
// concurrent use.
type Match struct {
	mt *nfa.Match
}

// Reset re-seeds m for a fresh scan without reallocating.
func (m *Match) Reset() { m.mt.Reset() }

// ContinueMatch advances the session by chunk, as if chunk had been
// appended to every chunk already fed to this session.
func (m *Match) ContinueMatch(chunk []byte) { m.mt.ContinueMatch(chunk) }

// GetResult reports the best match found so far. begin is -1 if no
// match has been accepted yet.
func (m *Match) GetResult() (begin, end int, id int32) { return m.mt.GetResult() }

// IsMatchFinished reports whether no further input could change the
// result of GetResult.
func (m *Match) IsMatchFinished() bool { return m.mt.IsMatchFinished() }

// Match reports whether b contains a match for r.
func (r *Regex) Match(b []byte) bool {
	begin, _, _ := r.scan(b)
	return begin != -1
}

// Find returns the leftmost match in b, or nil if there is none.
func (r *Regex) Find(b []byte) []byte {
	begin, end, _ := r.scan(b)
	if begin == -1 {
		return nil
	}
	return b[begin:end]
}

// FindIndex returns the [begin, end) byte range of the leftmost match
// in b, or nil if there is none.
func (r *Regex) FindIndex(b []byte) []int {
	begin, end, _ := r.scan(b)
	if begin == -1 {
		return nil
	}
	return []int{begin, end}
}

// FindID is like FindIndex but also returns the id tag accumulated
// along the matched path.
func (r *Regex) FindID(b []byte) (begin, end int, id int32) {
	return r.scan(b)
}

func (r *Regex) scan(b []byte) (begin, end int, id int32) {
	mt := r.BeginMatch()
	mt.ContinueMatch(b)
	return mt.GetResult()
}
