package copyelim

import "github.com/embervm/emberc/ir"

// extract assembles the final result: the surviving return-copy candidates,
// unioned with every registered copy whose id never made it into needed.
func extract(w *walker) *Result {
	removable := make(map[*ir.Copy]bool, len(w.survivingReturnCopies))
	for c := range w.survivingReturnCopies {
		removable[c] = true
	}

	w.index.Each(func(id uint, node *ir.Copy) {
		if !w.needed.Test(id) {
			removable[node] = true
		}
	})

	return &Result{
		Removable: removable,
		Stats: Stats{
			Registered:       w.index.Len(),
			Removed:          len(removable),
			ReturnCandidates: len(w.returnCandidates),
			ReturnRemoved:    len(w.survivingReturnCopies),
		},
	}
}
