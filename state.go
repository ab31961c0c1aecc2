package dictomaton

// transition is an outgoing edge of a state under construction. The target
// is an index into the builder's state arena.
type transition struct {
	ch rune
	to int
}

// mutableState is a slot of the builder arena.
//
// A state is building while it lies on the frontier (the path of the last
// added word). Building states may gain edges, change the target of their
// last edge and become final. Once a state is put in the register it is
// frozen and never changes again, so its signature stays valid for as long
// as it is registered.
type mutableState struct {
	edges  []transition // ascending by ch
	final  bool
	frozen bool
}

func (s *mutableState) addEdge(ch rune, to int) {
	must(!s.frozen, "addEdge on frozen state")
	must(len(s.edges) == 0 || s.edges[len(s.edges)-1].ch < ch, "edges must be added in ascending order")
	s.edges = append(s.edges, transition{ch: ch, to: to})
}

// setLastTarget redirects the edge with the highest character. During
// construction only this edge can lead to an unregistered state.
func (s *mutableState) setLastTarget(to int) {
	must(!s.frozen, "setLastTarget on frozen state")
	s.edges[len(s.edges)-1].to = to
}

func (s *mutableState) setFinal() {
	must(!s.frozen, "setFinal on frozen state")
	s.final = true
}

func (s *mutableState) reset() {
	s.edges = s.edges[:0]
	s.final = false
	s.frozen = false
}

const fnvPrime = 0x01000193

func mixHash(h uint32, v uint32) uint32 {
	for i := 0; i < 4; i++ {
		h = (h * fnvPrime) ^ (v & 0xff)
		v >>= 8
	}
	return h
}

// signature hashes finality and the (character, target index) pairs. Targets
// are compared by identity, so the hash never looks past the direct
// successors of the state.
func (s *mutableState) signature() uint32 {
	h := uint32(fnvPrime)
	if s.final {
		h = mixHash(h, 1)
	} else {
		h = mixHash(h, 0)
	}
	for _, e := range s.edges {
		h = mixHash(h, uint32(e.ch))
		h = mixHash(h, uint32(e.to))
	}
	return h
}

func (s *mutableState) equivalent(other *mutableState) bool {
	if s.final != other.final || len(s.edges) != len(other.edges) {
		return false
	}
	for i, e := range s.edges {
		if e != other.edges[i] {
			return false
		}
	}
	return true
}

// register is the set of canonical states, bucketed by signature.
type register struct {
	buckets map[uint32][]int
	size    int
	hits    int
}

func newRegister() *register {
	return &register{buckets: make(map[uint32][]int)}
}

// replaceOrRegister returns the canonical state equivalent to states[id].
// If there is none, states[id] is frozen and becomes canonical itself, and
// found is false.
func (r *register) replaceOrRegister(states []mutableState, id int) (canonical int, found bool) {
	s := &states[id]
	h := s.signature()
	for _, c := range r.buckets[h] {
		if states[c].equivalent(s) {
			r.hits++
			return c, true
		}
	}
	s.frozen = true
	r.buckets[h] = append(r.buckets[h], id)
	r.size++
	return id, false
}
