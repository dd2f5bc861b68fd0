package copyelim

import "github.com/bits-and-blooms/bitset"

// State is one pending-copy bitmask per variable, plus a distinguished
// invalid/default value used as the fixpoint engine's Bottom — the "no
// information has reached this block yet" placeholder, distinct from the
// all-empty Initial state that seeds Entry.
type State struct {
	masks []*bitset.BitSet
	valid bool
}

func initialState(numVars int) State {
	masks := make([]*bitset.BitSet, numVars)
	for i := range masks {
		masks[i] = bitset.New(0)
	}
	return State{masks: masks, valid: true}
}

func (s State) clone() State {
	if !s.valid {
		return s
	}
	masks := make([]*bitset.BitSet, len(s.masks))
	for i, m := range s.masks {
		masks[i] = m.Clone()
	}
	return State{masks: masks, valid: true}
}

func equalStates(a, b State) bool {
	if a.valid != b.valid {
		return false
	}
	if !a.valid {
		return true
	}
	if len(a.masks) != len(b.masks) {
		return false
	}
	for i := range a.masks {
		if !a.masks[i].Equal(b.masks[i]) {
			return false
		}
	}
	return true
}

// mergeStates is the lattice join: pointwise bitwise union, with the
// invalid/Bottom state acting as the identity.
func mergeStates(a, b State) State {
	if !a.valid {
		return b
	}
	if !b.valid {
		return a
	}
	out := make([]*bitset.BitSet, len(a.masks))
	for i := range a.masks {
		out[i] = a.masks[i].Union(b.masks[i])
	}
	return State{masks: out, valid: true}
}

// withValue returns a state identical to s except that variable v's mask is
// replaced with m. Returns s unchanged if v's mask already equals m.
func (s State) withValue(v int, m *bitset.BitSet) State {
	if s.masks[v].Equal(m) {
		return s
	}
	out := s.clone()
	out.masks[v] = m
	return out
}

// withCopyAssignment records that copy id c establishes aliasing between
// target variable t and source variable v: t's previous aliases are
// dropped (t is being reassigned, so nothing that used to alias it survives
// through t), while v keeps its prior aliases and gains c (v still refers
// to the same value, now shared with one more peer). Returns s unchanged if
// already in this form.
func (s State) withCopyAssignment(t, v int, c uint) State {
	if s.masks[t].Count() == 1 && s.masks[t].Test(c) && s.masks[v].Test(c) {
		return s
	}
	out := s.clone()
	out.masks[t] = bitset.New(0).Set(c)
	nv := out.masks[v].Clone()
	nv.Set(c)
	out.masks[v] = nv
	return out
}
