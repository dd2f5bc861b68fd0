// Package flow gives the analysis a read-only view of a routine's variable
// universe: how many local variables it has, how a name maps to a dense
// index, which ones are reference-bound, and which are auto-globals.
// Building this view (from symbol tables, scope resolution, and whatever
// else the front end tracks) is out of scope; copyelim only ever queries it.
package flow

// Context is the read-only collaborator copyelim.Analyze needs. It is
// immutable for the lifetime of one analysis run.
type Context interface {
	// NumVars returns the number of local variables known to the
	// routine; variable indices are in [0, NumVars()).
	NumVars() int
	// Index resolves a static variable name to its dense index. ok is
	// false for names the routine never declares.
	Index(name string) (idx int, ok bool)
	// IsReference reports whether the variable at idx is ever
	// reference-bound (`=&`) anywhere in the routine. This analysis
	// treats any reference-bound variable conservatively: every access
	// to it that might change it marks every pending copy in the routine
	// needed; a plain read of it has no effect.
	IsReference(idx int) bool
	// IsAutoGlobal reports whether name is an implicit, routine-wide
	// auto-global (e.g. a superglobal) rather than an ordinary local.
	// Auto-globals are excluded from the analysis entirely: they never
	// qualify as a direct variable for assignment-copy purposes.
	IsAutoGlobal(name string) bool
}

// MapContext is a straightforward Context backed by a name->index map,
// sufficient for hand-built routines in tests and the demo CLI.
type MapContext struct {
	names       []string
	index       map[string]int
	references  map[int]bool
	autoGlobals map[string]bool
}

// NewMapContext builds a Context over the given variable names, in index
// order. Use Reference and AutoGlobal to mark names afterward.
func NewMapContext(names ...string) *MapContext {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return &MapContext{
		names:       names,
		index:       idx,
		references:  make(map[int]bool),
		autoGlobals: make(map[string]bool),
	}
}

// Reference marks name as reference-bound. It panics if name was not
// passed to NewMapContext, since that would indicate a builder bug rather
// than routine data.
func (c *MapContext) Reference(name string) *MapContext {
	i, ok := c.index[name]
	if !ok {
		panic("flow: Reference of unknown variable " + name)
	}
	c.references[i] = true
	return c
}

// AutoGlobal marks name as an auto-global. Auto-globals need not also be
// passed to NewMapContext, since they are excluded from the indexed
// variable universe entirely.
func (c *MapContext) AutoGlobal(name string) *MapContext {
	c.autoGlobals[name] = true
	return c
}

func (c *MapContext) NumVars() int { return len(c.names) }

func (c *MapContext) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

func (c *MapContext) IsReference(idx int) bool { return c.references[idx] }

func (c *MapContext) IsAutoGlobal(name string) bool { return c.autoGlobals[name] }
