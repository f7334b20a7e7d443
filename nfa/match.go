package nfa

// stateVector is one of the two alternating T-wide buffers a Match
// steps between. Slots are linked into a singly linked active chain
// rooted at head; -1 marks both an inactive slot's link and an empty
// chain.
type stateVector struct {
	active []bool
	next   []int32
	start  []int32
	id     []int32
	head   int32
}

func newStateVector(t int32) *stateVector {
	sv := &stateVector{
		active: make([]bool, t),
		next:   make([]int32, t),
		start:  make([]int32, t),
		id:     make([]int32, t),
		head:   -1,
	}
	for i := range sv.next {
		sv.next[i] = -1
	}
	return sv
}

func (sv *stateVector) resetAll() {
	for s, next := sv.head, int32(-1); s != -1; s = next {
		next = sv.next[s]
		sv.active[s] = false
		sv.next[s] = -1
	}
	sv.head = -1
}

func (sv *stateVector) insertFront(slot int32) {
	sv.next[slot] = sv.head
	sv.head = slot
	sv.active[slot] = true
}

func (sv *stateVector) deactivate(slot int32) {
	if !sv.active[slot] {
		return
	}
	sv.active[slot] = false
	if sv.head == slot {
		sv.head = sv.next[slot]
		sv.next[slot] = -1
		return
	}
	for p := sv.head; p != -1; p = sv.next[p] {
		if sv.next[p] == slot {
			sv.next[p] = sv.next[slot]
			break
		}
	}
	sv.next[slot] = -1
}

// Match is one scan session over a Machine. It owns its two state
// vectors and its tracer's scratch memoization; it is not safe for
// concurrent use.
type Match struct {
	machine *Machine
	cur     *stateVector
	nxt     *stateVector
	tracer  *tracer

	index     int32
	bestBegin int32
	bestEnd   int32
	bestID    int32
	fastQuit  bool
}

// BeginMatch allocates and seeds a new Match over m.
func BeginMatch(m *Machine) *Match {
	mt := &Match{
		machine:   m,
		cur:       newStateVector(m.T),
		nxt:       newStateVector(m.T),
		tracer:    newTracer(len(m.Program)),
		bestBegin: -1,
	}
	mt.seed()
	return mt
}

// Reset re-seeds mt for a fresh scan without reallocating its state
// vectors.
func (mt *Match) Reset() {
	mt.index = 0
	mt.bestBegin = -1
	mt.bestEnd = 0
	mt.bestID = 0
	mt.fastQuit = false
	mt.seed()
}

// seed activates the begin closure into nxt, not cur: step's first act
// is to swap cur and nxt, so the buffer step will read from is whatever
// sits in nxt going in.
func (mt *Match) seed() {
	mt.cur.resetAll()
	mt.nxt.resetAll()
	mt.activateClosure(mt.nxt, 0)
}

func (mt *Match) activateClosure(sv *stateVector, start int32) {
	m := mt.machine
	hits := mt.tracer.Trace(m.Program, m.Slots, 1)
	for _, h := range hits {
		mt.insertThread(sv, m.Slots[h.pos], start, h.idAcc)
	}
}

// insertThread is the cond-tran insert routine: merge a newly reached
// slot into sv, respecting greedy/non-greedy priority and, on a tie,
// the id tag.
func (mt *Match) insertThread(sv *stateVector, slot, start, id int32) {
	if !sv.active[slot] {
		sv.insertFront(slot)
		sv.start[slot] = start
		sv.id[slot] = id
		return
	}
	nonGreedy := mt.machine.Flags&NonGreedy != 0
	cur := sv.start[slot]
	better := false
	switch {
	case start == cur:
		better = mt.machine.Flags&IDCheck != 0 && id > sv.id[slot]
	case nonGreedy:
		better = start > cur
	default:
		better = start < cur
	}
	if better {
		sv.start[slot] = start
		sv.id[slot] = id
	}
}

func predicateMatches(m *Machine, pos int, ch byte) bool {
	switch m.Program[pos].Kind {
	case Char:
		return byte(m.Program[pos].Value) == ch
	case RngEnd:
		cls := &m.Classes[m.Slots[pos]]
		return cls.Contains(ch)
	default:
		return false
	}
}

// ContinueMatch advances the session by the bytes in data, as if they
// were appended to every chunk already consumed in this session.
func (mt *Match) ContinueMatch(data []byte) {
	m := mt.machine
	i := 0
	for i < len(data) {
		if mt.fastQuit {
			return
		}
		if m.Flags&MatchBegin == 0 && mt.onlyBeginClosureActive() {
			if mt.bestBegin != -1 {
				// No thread besides a fresh start remains alive, and a
				// fresh start can never beat an already-accepted
				// leftmost match.
				mt.fastQuit = true
				return
			}
			mt.acceptZeroWidth()
			skip := mt.fastForwardScan(data[i:])
			mt.index += int32(skip)
			i += skip
			if i >= len(data) {
				// The live threads are all fresh starts; move their start
				// to the skipped-to index for the next chunk.
				for s := mt.nxt.head; s != -1; s = mt.nxt.next[s] {
					mt.nxt.start[s] = mt.index
				}
				return
			}
			mt.nxt.resetAll()
			mt.activateClosure(mt.nxt, mt.index)
		}
		mt.step(data[i])
		i++
	}
}

func (mt *Match) onlyBeginClosureActive() bool {
	m := mt.machine
	count := 0
	for s := mt.nxt.head; s != -1; s = mt.nxt.next[s] {
		// A thread that started before the current index is not a fresh
		// start, even when it sits on a begin-closure slot.
		if !m.isBeginClosureSlot(s) || mt.nxt.start[s] != mt.index {
			return false
		}
		count++
	}
	return count == len(m.BeginClosure)
}

// acceptZeroWidth records a match the begin closure already reaches
// with no character consumed, before fastForwardScan has a chance to
// skip past it: fastForwardScan only ever looks for a predicate match,
// so a closure that reaches End on its own (as in "" or "a*") would
// otherwise be skipped over entirely on an input with no predicate hit
// anywhere. It does not prune sibling threads in nxt: a longer match
// starting at the same position, found later, still wins on greedy.
func (mt *Match) acceptZeroWidth() {
	m := mt.machine
	endSlot := m.T - 1
	if !mt.nxt.active[endSlot] {
		return
	}
	begin := mt.nxt.start[endSlot]
	if m.Flags&MatchBegin != 0 {
		begin = 0
	}
	if mt.bestBegin == -1 || begin <= mt.bestBegin {
		mt.bestBegin, mt.bestEnd, mt.bestID = begin, mt.index, mt.nxt.id[endSlot]
	}
	mt.nxt.deactivate(endSlot)
}

// fastForwardScan returns the number of leading bytes of data rejected
// by every predicate reachable from Begin's epsilon closure.
func (mt *Match) fastForwardScan(data []byte) int {
	m := mt.machine
	for i, ch := range data {
		for _, pos := range m.BeginClosure {
			if predicateMatches(m, pos, ch) {
				return i
			}
		}
	}
	return len(data)
}

// step consumes one character, per the algorithm in the match engine
// design: swap buffers, resolve any match completed by the prior step,
// then advance every live thread through ch.
func (mt *Match) step(ch byte) {
	m := mt.machine
	mt.cur, mt.nxt = mt.nxt, mt.cur
	endSlot := m.T - 1

	if mt.cur.active[endSlot] && m.Flags&MatchEnd == 0 {
		mt.updateBest(mt.cur.start[endSlot], mt.index, mt.cur.id[endSlot])
	}
	mt.cur.deactivate(endSlot)
	mt.index++

	if mt.cur.head == -1 && (m.Flags&MatchBegin != 0 || mt.bestBegin != -1) {
		mt.fastQuit = true
		mt.nxt.resetAll()
		return
	}

	mt.nxt.resetAll()

	for s := mt.cur.head; s != -1; s = mt.cur.next[s] {
		pos := int(m.SlotPos[s])
		if !predicateMatches(m, pos, ch) {
			continue
		}
		hits := mt.tracer.Trace(m.Program, m.Slots, pos+1)
		for _, h := range hits {
			id := h.idAcc
			if mt.cur.id[s] > id {
				id = mt.cur.id[s]
			}
			mt.insertThread(mt.nxt, m.Slots[h.pos], mt.cur.start[s], id)
		}
	}

	if m.Flags&MatchBegin == 0 {
		mt.activateClosure(mt.nxt, mt.index)
	}
	mt.cur.resetAll()
}

func (mt *Match) updateBest(begin, end, id int32) {
	m := mt.machine
	if m.Flags&MatchBegin != 0 {
		begin = 0
	}
	prevBest := mt.bestBegin
	if prevBest != -1 && begin > prevBest {
		return
	}
	mt.bestBegin, mt.bestEnd, mt.bestID = begin, end, id
	if m.Flags&NonGreedy != 0 && m.Flags&MatchBegin != 0 {
		mt.fastQuit = true
		return
	}
	if prevBest == -1 || begin < prevBest {
		mt.pruneWorseThan(begin)
	}
}

// pruneWorseThan deactivates every thread in the current chain that can
// no longer produce a match better than begin.
func (mt *Match) pruneWorseThan(begin int32) {
	nonGreedy := mt.machine.Flags&NonGreedy != 0
	sv := mt.cur
	for s, next := sv.head, int32(-1); s != -1; s = next {
		next = sv.next[s]
		kill := sv.start[s] > begin
		if nonGreedy {
			kill = sv.start[s] >= begin
		}
		if kill {
			sv.deactivate(s)
		}
	}
}

// GetResult reports the best match found so far: begin is -1 if no
// match has been accepted. With MatchEnd set, a non-(-1) begin is only
// honored if the most recently consumed character actually reached
// End.
//
// A completion reached by the character just consumed hasn't gone
// through updateBest yet: that happens at the top of the following
// step, and there may be no following step (end of input, or a
// zero-width match before any byte is consumed at all). GetResult
// accounts for that by also considering whatever is currently live in
// nxt, with the same begin-priority rule updateBest applies.
func (mt *Match) GetResult() (begin, end int, id int32) {
	m := mt.machine
	endSlot := m.T - 1
	b, e, i := mt.bestBegin, mt.bestEnd, mt.bestID
	if mt.nxt.active[endSlot] {
		nb := mt.nxt.start[endSlot]
		if m.Flags&MatchBegin != 0 {
			nb = 0
		}
		if b == -1 || nb <= b {
			b, e, i = nb, mt.index, mt.nxt.id[endSlot]
		}
	}
	if b == -1 {
		return -1, 0, 0
	}
	if m.Flags&MatchEnd != 0 && !mt.nxt.active[endSlot] {
		return -1, 0, 0
	}
	return int(b), int(e), i
}

// IsMatchFinished reports whether no further input can change the
// result of GetResult.
func (mt *Match) IsMatchFinished() bool {
	return mt.fastQuit
}
