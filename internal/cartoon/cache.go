package cartoon

// meshState tracks one segment's mesh through its build cycle.
type meshState uint8

const (
	meshInvalid meshState = iota
	meshBuilding
	meshReady
)

func (s meshState) String() string {
	switch s {
	case meshBuilding:
		return "building"
	case meshReady:
		return "ready"
	}
	return "invalid"
}

// segmentKey is everything besides the chain geometry and the style that a
// segment mesh depends on. A cached mesh whose key no longer matches is
// rebuilt.
type segmentKey struct {
	kind                   segmentKind
	madBeg, madMid, madEnd int
	cap0, cap1             bool
}

// chainCache holds the segment meshes of one chain, indexed by residue.
type chainCache struct {
	meshes []*Mesh
	states []meshState
	keys   []segmentKey
	// failed marks segments whose last build failed under keys[i]; they
	// are not retried until invalidated or the key changes.
	failed []bool
	// unDrawn marks segments whose fallback drawing failed and was logged.
	unDrawn []bool
}

func newChainCache(n int) *chainCache {
	c := &chainCache{}
	c.resize(n)
	return c
}

// resize makes room for n segments, dropping everything if the count
// changed.
func (c *chainCache) resize(n int) {
	if len(c.states) == n {
		return
	}
	c.meshes = make([]*Mesh, n)
	c.states = make([]meshState, n)
	c.keys = make([]segmentKey, n)
	c.failed = make([]bool, n)
	c.unDrawn = make([]bool, n)
}

// invalidate marks every mesh stale.
func (c *chainCache) invalidate() {
	for i := range c.states {
		c.meshes[i] = nil
		c.states[i] = meshInvalid
		c.failed[i] = false
		c.unDrawn[i] = false
	}
}

// ready returns the cached mesh for segment i if it was built under key.
func (c *chainCache) ready(i int, key segmentKey) (*Mesh, bool) {
	if c.states[i] != meshReady || c.keys[i] != key {
		return nil, false
	}
	return c.meshes[i], true
}

// skip reports whether segment i already failed under key.
func (c *chainCache) skip(i int, key segmentKey) bool {
	return c.failed[i] && c.keys[i] == key
}

func (c *chainCache) begin(i int, key segmentKey) {
	c.meshes[i] = nil
	c.states[i] = meshBuilding
	c.keys[i] = key
	c.failed[i] = false
}

func (c *chainCache) finish(i int, m *Mesh) {
	c.meshes[i] = m
	c.states[i] = meshReady
}

func (c *chainCache) fail(i int) {
	c.meshes[i] = nil
	c.states[i] = meshInvalid
	c.failed[i] = true
}

// readyMesh returns segment i's mesh if it is ready, regardless of key.
func (c *chainCache) readyMesh(i int) *Mesh {
	if i < 0 || i >= len(c.states) || c.states[i] != meshReady {
		return nil
	}
	return c.meshes[i]
}

// markUnDrawn records a fallback failure of segment i and reports whether
// it is the first since the last invalidation.
func (c *chainCache) markUnDrawn(i int) bool {
	first := !c.unDrawn[i]
	c.unDrawn[i] = true
	return first
}
