package evaluator

// ScopeID addresses a live frame in an Environment.
type ScopeID int

type frame struct {
	store  map[string]Value
	parent *frame
}

// Captured is a frame held by a lambda. It outlives the arena slot it was
// opened in and is collected with the last lambda referring to it.
type Captured struct {
	f *frame
}

// Environment is an arena of lexical frames. Frames opened by a call are
// dropped in bulk when it returns; frames captured by lambdas stay
// reachable through their parent links only.
type Environment struct {
	frames []*frame
}

func NewEnvironment() *Environment {
	return &Environment{frames: []*frame{{store: make(map[string]Value)}}}
}

// Global is the frame of top-level bindings.
func (e *Environment) Global() ScopeID { return 0 }

// Push opens a frame enclosed by parent.
func (e *Environment) Push(parent ScopeID) ScopeID {
	return e.push(e.frames[parent])
}

// PushCaptured opens a frame enclosed by a captured frame.
func (e *Environment) PushCaptured(parent Captured) ScopeID {
	return e.push(parent.f)
}

func (e *Environment) push(parent *frame) ScopeID {
	e.frames = append(e.frames, &frame{store: make(map[string]Value), parent: parent})
	return ScopeID(len(e.frames) - 1)
}

// Capture returns a handle to id that stays valid after Release.
func (e *Environment) Capture(id ScopeID) Captured {
	return Captured{f: e.frames[id]}
}

// Mark returns the current arena height for Release.
func (e *Environment) Mark() int { return len(e.frames) }

// Release drops the arena slots opened since mark. The global frame is
// never released.
func (e *Environment) Release(mark int) {
	if mark < 1 {
		mark = 1
	}
	if mark < len(e.frames) {
		for i := mark; i < len(e.frames); i++ {
			e.frames[i] = nil
		}
		e.frames = e.frames[:mark]
	}
}

func (e *Environment) Get(id ScopeID, name string) (Value, bool) {
	for f := e.frames[id]; f != nil; f = f.parent {
		if v, ok := f.store[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set defines name in frame id.
func (e *Environment) Set(id ScopeID, name string, v Value) {
	e.frames[id].store[name] = v
}

// Update assigns to the nearest frame defining name.
func (e *Environment) Update(id ScopeID, name string, v Value) bool {
	for f := e.frames[id]; f != nil; f = f.parent {
		if _, ok := f.store[name]; ok {
			f.store[name] = v
			return true
		}
	}
	return false
}

// Len is the number of arena slots in use.
func (e *Environment) Len() int { return len(e.frames) }
