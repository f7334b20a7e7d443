package nfa

import "github.com/GregorR/sfjit/internal/conv"

// ByteRange is an inclusive pair of code units, one member of a
// character class.
type ByteRange struct {
	Lo, Hi byte
}

// CharClass is the fully expanded membership test for one compiled
// character class, keyed by the term slot index of its RngEnd.
type CharClass struct {
	Invert bool
	Chars  []byte
	Ranges []ByteRange
}

// Contains reports whether ch satisfies the class, honoring Invert.
func (c *CharClass) Contains(ch byte) bool {
	in := false
	for _, m := range c.Chars {
		if m == ch {
			in = true
			break
		}
	}
	if !in {
		for _, r := range c.Ranges {
			if ch >= r.Lo && ch <= r.Hi {
				in = true
				break
			}
		}
	}
	if c.Invert {
		return !in
	}
	return in
}

// analysis is the search-state analyzer's output: a single forward
// pass over a compiled program.
type analysis struct {
	slots         []int32 // per program position: term slot index, or -1
	slotPos       []int32 // per term slot index: program position
	t             int32
	classes       []CharClass
	maxClassWidth int
	idCheck       bool
}

func analyze(prog []Instruction) *analysis {
	a := &analysis{slots: make([]int32, len(prog))}
	classByIdx := map[int32]CharClass{}
	var next int32
	for i := 0; i < len(prog); i++ {
		switch prog[i].Kind {
		case Begin, End, Char:
			a.slots[i] = next
			a.slotPos = append(a.slotPos, int32(conv.IntToUint32(i)))
			next++
		case RngStart:
			a.slots[i] = -1
			cls := CharClass{Invert: prog[i].Value != 0}
			width := 1
			j := i + 1
			for prog[j].Kind != RngEnd {
				a.slots[j] = -1
				switch prog[j].Kind {
				case RngChar:
					cls.Chars = append(cls.Chars, byte(prog[j].Value))
					width++
					j++
				case RngLeft:
					lo := byte(prog[j].Value)
					hi := byte(prog[j+1].Value)
					cls.Ranges = append(cls.Ranges, ByteRange{lo, hi})
					a.slots[j+1] = -1
					width += 2
					j += 2
				default:
					j++
				}
			}
			width++ // the RngEnd itself
			if width > a.maxClassWidth {
				a.maxClassWidth = width
			}
			a.slots[j] = next
			a.slotPos = append(a.slotPos, int32(conv.IntToUint32(j)))
			classByIdx[next] = cls
			next++
			i = j
		case ID:
			a.slots[i] = -1
			if prog[i].Value > 0 {
				a.idCheck = true
			}
		default:
			a.slots[i] = -1
		}
	}
	a.t = next
	a.classes = make([]CharClass, a.t)
	for idx, cls := range classByIdx {
		a.classes[idx] = cls
	}
	return a
}
