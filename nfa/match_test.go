package nfa

import "testing"

// TestScenarios pins the concrete pattern/input/result triples a
// complete implementation of this engine must reproduce exactly.
func TestScenarios(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		flags     Flags
		input     string
		wantBegin int
		wantEnd   int
		wantID    int32
	}{
		{"alternation star", "a(b|c)*d", 0, "abbcdxx", 0, 5, 0},
		{"anchored both ends match", "^foo$", MatchBegin | MatchEnd, "foo", 0, 3, 0},
		{"negated class", "[^abc]+", 0, "abxyzab", 2, 5, 0},
		{"bounded repeat greedy", "a{2,4}", 0, "aaaaaa", 0, 4, 0},
		{"bounded repeat non-greedy", "a{2,4}", NonGreedy, "aaaaaa", 0, 2, 0},
		{"id tag", "(ab){3!}", 0, "ababab", 0, 6, 3},
		{"dot excludes newline", "a.*b", Newline, "ax\nyb", -1, 0, 0},
		{"dot includes newline", "a.*b", 0, "ax\nyb", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustCompile(tt.pattern, WithFlags(tt.flags))
			mt := BeginMatch(m)
			mt.ContinueMatch([]byte(tt.input))
			begin, end, id := mt.GetResult()
			if begin != tt.wantBegin {
				t.Errorf("begin = %d, want %d", begin, tt.wantBegin)
			}
			if tt.wantBegin == -1 {
				return
			}
			if end != tt.wantEnd {
				t.Errorf("end = %d, want %d", end, tt.wantEnd)
			}
			if id != tt.wantID {
				t.Errorf("id = %d, want %d", id, tt.wantID)
			}
		})
	}
}

func TestAnchoredMismatchRejected(t *testing.T) {
	m := MustCompile("^foo$", WithFlags(MatchBegin|MatchEnd))
	mt := BeginMatch(m)
	mt.ContinueMatch([]byte("foox"))
	begin, _, _ := mt.GetResult()
	if begin != -1 {
		t.Errorf("GetResult() begin = %d, want -1", begin)
	}
}

// TestStreamingEquivalence checks property 4 from the testable
// properties: any way of splitting input into chunks produces the same
// result as feeding it in one call.
func TestStreamingEquivalence(t *testing.T) {
	m := MustCompile("a(b|c)*d")
	input := "xxabbcdxx"

	whole := BeginMatch(m)
	whole.ContinueMatch([]byte(input))
	wantBegin, wantEnd, wantID := whole.GetResult()

	for split := 0; split <= len(input); split++ {
		chunked := BeginMatch(m)
		chunked.ContinueMatch([]byte(input[:split]))
		chunked.ContinueMatch([]byte(input[split:]))
		begin, end, id := chunked.GetResult()
		if begin != wantBegin || end != wantEnd || id != wantID {
			t.Errorf("split at %d: got (%d,%d,%d), want (%d,%d,%d)", split, begin, end, id, wantBegin, wantEnd, wantID)
		}
	}
}

// TestIdempotentReset checks property 5: Reset followed by the same
// input sequence matches a fresh BeginMatch fed the same sequence.
func TestIdempotentReset(t *testing.T) {
	m := MustCompile("[0-9]+")
	input := []byte("abc123def")

	mt := BeginMatch(m)
	mt.ContinueMatch([]byte("throwaway 456"))
	mt.Reset()
	mt.ContinueMatch(input)
	gotBegin, gotEnd, gotID := mt.GetResult()

	fresh := BeginMatch(m)
	fresh.ContinueMatch(input)
	wantBegin, wantEnd, wantID := fresh.GetResult()

	if gotBegin != wantBegin || gotEnd != wantEnd || gotID != wantID {
		t.Errorf("after Reset(): got (%d,%d,%d), want (%d,%d,%d)", gotBegin, gotEnd, gotID, wantBegin, wantEnd, wantID)
	}
}

// TestCompileFreeIdempotence checks property 6: compiling the same
// pattern twice produces machines that agree on every input.
func TestCompileFreeIdempotence(t *testing.T) {
	inputs := []string{"abbcdxx", "xxabd", "nomatch", ""}
	for _, in := range inputs {
		m1 := MustCompile("a(b|c)*d")
		m2 := MustCompile("a(b|c)*d")

		mt1 := BeginMatch(m1)
		mt1.ContinueMatch([]byte(in))
		b1, e1, id1 := mt1.GetResult()

		mt2 := BeginMatch(m2)
		mt2.ContinueMatch([]byte(in))
		b2, e2, id2 := mt2.GetResult()

		if b1 != b2 || e1 != e2 || id1 != id2 {
			t.Errorf("input %q: machine 1 = (%d,%d,%d), machine 2 = (%d,%d,%d)", in, b1, e1, id1, b2, e2, id2)
		}
	}
}

// TestDoubleBufferCleanliness checks property 1: at rest between steps,
// cur (the buffer step last read from) carries no active slot, because
// step clears it once nxt is produced; the next step's produce target
// therefore starts empty.
func TestDoubleBufferCleanliness(t *testing.T) {
	m := MustCompile("a(b|c)*d")
	mt := BeginMatch(m)
	mt.ContinueMatch([]byte("xxabbcdxx"))
	for s := int32(0); s < m.T; s++ {
		if mt.cur.active[s] {
			t.Errorf("cur.active[%d] = true at rest, want false", s)
		}
	}
}

// TestChainConsistency checks property 2: walking head through next
// visits exactly the slots marked active, with no cycles. nxt, not
// cur, is the buffer holding the live threads between step calls.
func TestChainConsistency(t *testing.T) {
	m := MustCompile("a(b|c)*d")
	mt := BeginMatch(m)
	mt.ContinueMatch([]byte("xxab"))

	seen := map[int32]bool{}
	count := 0
	for s := mt.nxt.head; s != -1; s = mt.nxt.next[s] {
		if seen[s] {
			t.Fatalf("nxt chain cycles back to slot %d", s)
		}
		seen[s] = true
		count++
		if count > int(m.T)+1 {
			t.Fatal("nxt chain longer than T+1, must be cyclic")
		}
	}
	for s := int32(0); s < m.T; s++ {
		if mt.nxt.active[s] != seen[s] {
			t.Errorf("active[%d] = %v, chain membership = %v", s, mt.nxt.active[s], seen[s])
		}
	}
}

func TestNoMatch(t *testing.T) {
	m := MustCompile("xyz")
	mt := BeginMatch(m)
	mt.ContinueMatch([]byte("abcdef"))
	begin, _, _ := mt.GetResult()
	if begin != -1 {
		t.Errorf("GetResult() begin = %d, want -1", begin)
	}
}

func TestEmptyPattern(t *testing.T) {
	m := MustCompile("")
	mt := BeginMatch(m)
	mt.ContinueMatch([]byte("anything"))
	begin, end, _ := mt.GetResult()
	if begin != 0 || end != 0 {
		t.Errorf("GetResult() = (%d, %d), want (0, 0)", begin, end)
	}
}
