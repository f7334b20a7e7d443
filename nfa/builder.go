package nfa

import "github.com/GregorR/sfjit/internal/conv"

// Build lowers a parsed term stack into a flat program: Begin, the
// compiled body, End. Every Branch/Jump in the body is resolved to an
// absolute program index.
//
// Internally each grammar fragment (a class, a group, a whole
// alternation) is built with its Branch/Jump targets stored as deltas
// relative to the instruction's own position within that fragment.
// A delta is invariant under concatenation: sliding a fragment to a new
// base offset shifts the branch instruction and its target by the same
// amount, so fragments can be appended to each other with no fixup.
// Deltas only need to be converted to absolute indices once, in a single
// linear pass over the finished program.
func Build(terms []Term) ([]Instruction, error) {
	body, i, err := buildSequence(terms, 0)
	if err != nil {
		return nil, err
	}
	alts := [][]Instruction{body}
	for i < len(terms) && terms[i].Kind == Select {
		var seq []Instruction
		seq, i, err = buildSequence(terms, i+1)
		if err != nil {
			return nil, err
		}
		alts = append(alts, seq)
	}
	body = combineAlternatives(alts)
	if i != len(terms) {
		return nil, &SyntaxError{Pos: 0, Message: "unmatched ')'"}
	}
	prog := make([]Instruction, 0, len(body)+2)
	prog = append(prog, Instruction{Begin, 0})
	prog = append(prog, body...)
	prog = append(prog, Instruction{End, 0})
	resolveDeltas(prog, 1, len(body))
	return prog, nil
}

func resolveDeltas(prog []Instruction, base, length int) {
	for idx := base; idx < base+length; idx++ {
		if prog[idx].Kind == Branch || prog[idx].Kind == Jump {
			prog[idx].Value += int32(conv.IntToUint32(idx))
		}
	}
}

func buildSequence(terms []Term, i int) ([]Instruction, int, error) {
	var frag []Instruction
	for i < len(terms) {
		switch terms[i].Kind {
		case CloseBr, Select:
			return frag, i, nil
		}
		factor, ni, err := buildFactor(terms, i)
		if err != nil {
			return nil, ni, err
		}
		frag = append(frag, factor...)
		i = ni
	}
	return frag, i, nil
}

func buildFactor(terms []Term, i int) ([]Instruction, int, error) {
	atom, i, err := buildAtom(terms, i)
	if err != nil {
		return nil, i, err
	}
	if i < len(terms) {
		switch terms[i].Kind {
		case Star:
			return wrapStar(atom), i + 1, nil
		case Plus:
			return wrapPlus(atom), i + 1, nil
		case Question:
			return wrapQuestion(atom), i + 1, nil
		}
	}
	return atom, i, nil
}

func buildAtom(terms []Term, i int) ([]Instruction, int, error) {
	if i >= len(terms) {
		return nil, i, &SyntaxError{Pos: 0, Message: "unexpected end of pattern"}
	}
	switch terms[i].Kind {
	case Char:
		return []Instruction{{Char, terms[i].Value}}, i + 1, nil
	case RngStart:
		return buildClass(terms, i)
	case OpenBr:
		return buildGroup(terms, i)
	default:
		return nil, i, &SyntaxError{Pos: 0, Message: "unexpected term " + terms[i].Kind.String()}
	}
}

func buildClass(terms []Term, i int) ([]Instruction, int, error) {
	frag := []Instruction{{RngStart, terms[i].Value}}
	i++
	for i < len(terms) && terms[i].Kind != RngEnd {
		frag = append(frag, Instruction{terms[i].Kind, terms[i].Value})
		i++
	}
	if i >= len(terms) {
		return nil, i, &SyntaxError{Pos: 0, Message: "unterminated character class"}
	}
	frag = append(frag, Instruction{RngEnd, 0})
	return frag, i + 1, nil
}

func buildGroup(terms []Term, i int) ([]Instruction, int, error) {
	i++ // consume OpenBr
	var alts [][]Instruction
	seq, i, err := buildSequence(terms, i)
	if err != nil {
		return nil, i, err
	}
	alts = append(alts, seq)
	for i < len(terms) && terms[i].Kind == Select {
		i++
		seq, i, err = buildSequence(terms, i)
		if err != nil {
			return nil, i, err
		}
		alts = append(alts, seq)
	}
	if i >= len(terms) || terms[i].Kind != CloseBr {
		return nil, i, &SyntaxError{Pos: 0, Message: "unbalanced '('"}
	}
	i++
	frag := combineAlternatives(alts)
	if i < len(terms) && terms[i].Kind == ID {
		frag = append(frag, Instruction{ID, terms[i].Value})
		i++
	}
	return frag, i, nil
}

// combineAlternatives builds the Branch/Jump cascade for a|b|...|z,
// trying each alternative in order and merging every arm at a shared
// exit point.
func combineAlternatives(alts [][]Instruction) []Instruction {
	if len(alts) == 1 {
		return alts[0]
	}
	var frag []Instruction
	var jumps []int
	for idx, alt := range alts {
		if idx == len(alts)-1 {
			frag = append(frag, alt...)
			break
		}
		branchSelf := len(frag)
		frag = append(frag, Instruction{Branch, 0})
		frag = append(frag, alt...)
		jumpSelf := len(frag)
		frag = append(frag, Instruction{Jump, 0})
		jumps = append(jumps, jumpSelf)
		nextStart := len(frag)
		frag[branchSelf].Value = int32(nextStart - branchSelf)
	}
	end := len(frag)
	for _, jp := range jumps {
		frag[jp].Value = int32(end - jp)
	}
	return frag
}

// wrapStar builds: Branch(skip body) body Branch(loop back to body).
func wrapStar(body []Instruction) []Instruction {
	frag := make([]Instruction, 0, len(body)+2)
	frag = append(frag, Instruction{Branch, 0})
	bodyStart := len(frag)
	frag = append(frag, body...)
	loopBranch := len(frag)
	frag = append(frag, Instruction{Branch, 0})
	exit := len(frag)
	frag[0].Value = int32(exit - 0)
	frag[loopBranch].Value = int32(bodyStart - loopBranch)
	return frag
}

// wrapPlus builds: body Branch(loop back to body start).
func wrapPlus(body []Instruction) []Instruction {
	frag := make([]Instruction, 0, len(body)+1)
	frag = append(frag, body...)
	branchSelf := len(frag)
	frag = append(frag, Instruction{Branch, 0})
	frag[branchSelf].Value = int32(0 - branchSelf)
	return frag
}

// wrapQuestion builds: Branch(skip body) body.
func wrapQuestion(body []Instruction) []Instruction {
	frag := make([]Instruction, 0, len(body)+1)
	frag = append(frag, Instruction{Branch, 0})
	frag = append(frag, body...)
	end := len(frag)
	frag[0].Value = int32(end - 0)
	return frag
}
