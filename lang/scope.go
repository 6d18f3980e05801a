package lang

import (
	"iter"
	"maps"
	"slices"
)

// ScopeID is a handle to a scope frame in an [Environment] arena. Handles
// stay valid for the lifetime of the arena.
type ScopeID int

// RootScope is the handle of the global scope of every [Environment].
const RootScope ScopeID = 0

// scope is one frame of the arena. A parent handle is meaningful only when
// hasParent is set; the root has none.
type scope struct {
	values    map[string]Value
	parent    ScopeID
	hasParent bool
}

// Environment is an arena of lexical scopes plus the handle of the active
// one. Frames are only ever appended, and every parent handle refers to a
// frame with a lower index, so the chain from any frame ends at the root.
//
// An Environment is not safe for concurrent use.
type Environment struct {
	scopes []scope
	active ScopeID
}

// NewEnvironment returns an arena holding only the active root scope.
func NewEnvironment() *Environment {
	return &Environment{
		scopes: []scope{{values: map[string]Value{}}},
		active: RootScope,
	}
}

// Active returns the handle of the active scope.
func (e *Environment) Active() ScopeID { return e.active }

// Len returns the number of frames allocated in the arena.
func (e *Environment) Len() int { return len(e.scopes) }

// Parent returns the enclosing scope of id. The second result is false for
// the root scope and for handles not in the arena.
func (e *Environment) Parent(id ScopeID) (ScopeID, bool) {
	if !e.valid(id) {
		return 0, false
	}

	s := e.scopes[id]

	return s.parent, s.hasParent
}

// Enter allocates a child of the active scope, makes it active and returns
// the previously active handle for use with [Environment.Leave].
func (e *Environment) Enter() ScopeID {
	prev := e.active

	e.scopes = append(e.scopes, scope{
		values:    map[string]Value{},
		parent:    prev,
		hasParent: true,
	})
	e.active = ScopeID(len(e.scopes) - 1)

	return prev
}

// Leave makes prev the active scope. Frames are not deallocated.
// Handles not in the arena are ignored.
func (e *Environment) Leave(prev ScopeID) {
	if e.valid(prev) {
		e.active = prev
	}
}

// Define binds name in the active scope, replacing any binding of the same
// name in that scope. Enclosing scopes are never touched.
func (e *Environment) Define(name string, v Value) {
	e.scopes[e.active].values[name] = v
}

// Get searches the active scope and then each enclosing scope outward,
// returning the nearest binding of name.
func (e *Environment) Get(name string) (Value, bool) {
	for id := range e.chain() {
		if v, ok := e.scopes[id].values[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Assign replaces the nearest existing binding of name. It reports false,
// creating nothing, when name is not bound in any visible scope.
func (e *Environment) Assign(name string, v Value) bool {
	for id := range e.chain() {
		if _, ok := e.scopes[id].values[name]; ok {
			e.scopes[id].values[name] = v

			return true
		}
	}

	return false
}

// Names returns the sorted names visible from the active scope.
func (e *Environment) Names() []string {
	seen := map[string]struct{}{}

	for id := range e.chain() {
		for name := range e.scopes[id].values {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// chain yields the active handle followed by each ancestor up to the root.
func (e *Environment) chain() iter.Seq[ScopeID] {
	return func(yield func(ScopeID) bool) {
		id, ok := e.active, true

		for ok {
			if !yield(id) {
				return
			}

			id, ok = e.Parent(id)
		}
	}
}

func (e *Environment) valid(id ScopeID) bool {
	return id >= 0 && int(id) < len(e.scopes)
}
