package cartoon

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/biocartoon/internal/bio"
	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/logger"
)

// FrameStats counts what the last Render call did.
type FrameStats struct {
	Segments     int // visible segments considered
	Culled       int // segments entirely off screen
	MeshesBuilt  int
	MeshesReused int
	Fallbacks    int // segments drawn without a mesh
	Failures     int // mesh builds that failed this call
	Triangles    int // mesh triangles submitted
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. The default is the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithTessellator sets the tessellator whose scratch pool the renderer
// uses.
func WithTessellator(t *Tessellator) Option {
	return func(r *Renderer) { r.tess = t }
}

// Renderer draws polymer chains as cartoons and caches their segment
// meshes between frames. The cache is dropped whenever a style change
// affects geometry; camera changes only reproject.
//
// A Renderer may be shared between goroutines; calls are serialized.
type Renderer struct {
	mu     sync.Mutex
	styles StyleState
	log    *zap.Logger
	tess   *Tessellator
	chains map[PolymerModel]*chainCache
	style  Style
	synced bool
	stats  FrameStats
}

// NewRenderer creates a renderer that reads its style from styles at the
// start of every Render call.
func NewRenderer(styles StyleState, opts ...Option) *Renderer {
	r := &Renderer{
		styles: styles,
		tess:   defaultTessellator,
		chains: make(map[PolymerModel]*chainCache),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Named("cartoon")
	}
	return r
}

// Sync takes a fresh style snapshot and drops every cached mesh if the
// change affects geometry. It reports whether the cache was dropped.
// Render calls it first, so callers only need it to observe the cache.
func (r *Renderer) Sync() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sync()
}

func (r *Renderer) sync() bool {
	st := r.styles.Style().Normalize()
	invalidate := !r.synced || st.Invalidates(r.style)
	r.style = st
	r.synced = true
	if invalidate {
		for _, c := range r.chains {
			c.invalidate()
		}
		r.log.Debug("mesh cache invalidated",
			zap.Stringer("mode", st.Mode),
			zap.Int("hermite_level", st.HermiteLevel),
			zap.Float32("aspect_ratio", st.AspectRatio))
	}
	return invalidate
}

// Style returns the normalized style of the last Sync or Render.
func (r *Renderer) Style() Style {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.style
}

// Stats returns the counters of the last Render call.
func (r *Renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// MeshReady reports whether segment i of chain has a current mesh.
func (r *Renderer) MeshReady(chain PolymerModel, i int) bool {
	return r.Mesh(chain, i) != nil
}

// Mesh returns the current mesh of segment i of chain, or nil. The mesh
// is shared with the cache and must not be modified.
func (r *Renderer) Mesh(chain PolymerModel, i int) *Mesh {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chains[chain]
	if !ok {
		return nil
	}
	return c.readyMesh(i)
}

// Forget drops the cached meshes of chain. Call it after the chain's
// geometry changes.
func (r *Renderer) Forget(chain PolymerModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chains, chain)
}

// Render draws chain through proj onto rast. Segment failures fall back to
// simpler drawing and are logged; only invalid arguments return an error.
func (r *Renderer) Render(chain PolymerModel, proj *camera.Projector, rast Rasterizer) error {
	if chain == nil || proj == nil || rast == nil {
		return errors.New("cartoon: nil chain, projector or rasterizer")
	}
	if chain.ResidueCount() < 2 {
		return fmt.Errorf("chain %s: %w", chain.ChainID(), bio.ErrTooFewResidues)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync()
	r.stats = FrameStats{}

	s := r.tess.acquire()
	defer r.tess.release(s)

	p := newPass(chain, r.style, proj, rast, s)
	c, ok := r.chains[chain]
	if !ok {
		c = newChainCache(p.count)
		r.chains[chain] = c
	}
	c.resize(p.count)

	// Meshes are drawn after all segments so that seams with segments built
	// later in the pass are reconciled first.
	var meshes []int
	for i := 0; i <= p.last; i++ {
		if !p.visible[i] {
			continue
		}
		seg := p.plan(i)
		r.stats.Segments++
		if !p.inView(&seg) {
			r.stats.Culled++
			continue
		}
		if p.useMesh(&seg) && r.mesh(p, c, &seg) != nil {
			meshes = append(meshes, i)
			continue
		}
		r.stats.Fallbacks++
		rast.SetColor(chain.Color(i))
		if err := p.drawFallback(&seg); err != nil && c.markUnDrawn(i) {
			r.log.Warn("segment not drawn",
				zap.String("chain", chain.ChainID()),
				zap.Int("segment", i),
				zap.Error(err))
		}
	}
	for _, i := range meshes {
		rast.SetColor(chain.Color(i))
		r.stats.Triangles += p.drawMesh(c.meshes[i])
	}
	return nil
}

// mesh returns the mesh for seg, building it if the cached one is stale. It
// returns nil if the segment cannot have a mesh.
func (r *Renderer) mesh(p *pass, c *chainCache, seg *segment) *Mesh {
	key := seg.key()
	if m, ok := c.ready(seg.i, key); ok {
		r.stats.MeshesReused++
		return m
	}
	if c.skip(seg.i, key) {
		return nil
	}

	c.begin(seg.i, key)
	m, err := r.build(p, seg)
	if err != nil {
		c.fail(seg.i)
		r.stats.Failures++
		// Failed keys are skipped until invalidation, so this logs once.
		fields := []zap.Field{
			zap.String("chain", p.model.ChainID()),
			zap.Int("segment", seg.i),
			zap.Stringer("kind", seg.kind),
			zap.Error(err),
		}
		if errors.Is(err, errSegmentPanic) {
			r.log.Error("segment mesh panicked", fields...)
		} else {
			r.log.Warn("segment mesh failed", fields...)
		}
		return nil
	}
	c.finish(seg.i, m)
	r.stats.MeshesBuilt++
	prev, next := seg.i-1, seg.i+1
	if p.cyclic {
		prev, next = seg.prev, seg.next
	}
	r.reconcile(p, c, prev, seg.i)
	r.reconcile(p, c, seg.i, next)
	return m
}

var errSegmentPanic = errors.New("panic in segment geometry")

// build tessellates one segment. A panic in the geometry code is returned
// as an error so one bad segment cannot take down the frame.
func (r *Renderer) build(p *pass, seg *segment) (m *Mesh, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m, err = nil, fmt.Errorf("%w: %v", errSegmentPanic, rec)
		}
	}()
	if seg.kind == kindArrow {
		in := p.arrowheadInput(seg)
		return buildSegmentMesh(ptr(in.segment()), p.s)
	}
	return buildSegmentMesh(ptr(p.segmentInput(seg)), p.s)
}

func ptr[T any](v T) *T { return &v }

// reconcile averages the seam normals where segment a ends and segment b
// begins, when both meshes are ready and continue the same structure run
// without a cap. On cyclic chains b may wrap around to 0.
func (r *Renderer) reconcile(p *pass, c *chainCache, a, b int) {
	if a < 0 || b >= p.count || a == b {
		return
	}
	ma, mb := c.readyMesh(a), c.readyMesh(b)
	if ma == nil || mb == nil {
		return
	}
	ka, kb := c.keys[a], c.keys[b]
	if ka.kind == kindArrow || kb.kind == kindArrow || ka.cap1 || kb.cap0 {
		return
	}
	if p.runs[a] != p.runs[b] {
		return
	}
	ReconcileSeam(ma, mb, ma.SidesPerRing)
}
