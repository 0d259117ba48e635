// Package cache implements the GPU-value cache: the animatable CSS
// property values (opacity, transform scalars) that run on their own
// interpolation clock rather than being recomputed by cascade+layout every
// frame, per spec §5's "the GPU-value cache (animatable CSS properties) is
// owned by the coordinator; display-list building reads a snapshot."
// Grounded on azul-layout's solver2/caching.rs gpu_value_cache.synchronize
// step, reimplemented on top of github.com/tanema/gween's Tween instead of
// a bespoke interpolator.
package cache

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"vellum/pkg/html"
)

// animated is one in-flight interpolation: a gween.Tween plus the value it
// last produced, so Opacity/Transform can return a value even on a frame
// where Tick hasn't run yet.
type animated struct {
	tween *gween.Tween
	value float32
	done  bool
}

// GpuValueCache owns the per-node animated opacity and transform values.
// It is not safe for concurrent use — per spec §5, it's mutated only by
// the single frame-owning thread.
type GpuValueCache struct {
	opacity   map[*html.Node]*animated
	transform map[*html.Node][]*animated
}

// NewGpuValueCache creates an empty cache.
func NewGpuValueCache() *GpuValueCache {
	return &GpuValueCache{
		opacity:   make(map[*html.Node]*animated),
		transform: make(map[*html.Node][]*animated),
	}
}

// AnimateOpacity starts or retargets n's opacity transition from its
// current value to to over duration seconds, easing with fn.
func (c *GpuValueCache) AnimateOpacity(n *html.Node, from, to float64, duration float32, fn ease.TweenFunc) {
	if cur, ok := c.opacity[n]; ok {
		from = float64(cur.value)
	}
	c.opacity[n] = &animated{tween: gween.New(float32(from), float32(to), duration, fn), value: float32(from)}
}

// AnimateTransformScalar starts or retargets the animation on the idx'th
// scalar of n's transform function list (e.g. a `translate(x, y)`'s x is
// index 0), mirroring css.Transform.Values' flat layout.
func (c *GpuValueCache) AnimateTransformScalar(n *html.Node, idx int, from, to float64, duration float32, fn ease.TweenFunc) {
	slots := c.transform[n]
	for len(slots) <= idx {
		slots = append(slots, nil)
	}
	if cur := slots[idx]; cur != nil {
		from = float64(cur.value)
	}
	slots[idx] = &animated{tween: gween.New(float32(from), float32(to), duration, fn), value: float32(from)}
	c.transform[n] = slots
}

// Tick advances every live tween by dt seconds and returns the set of
// nodes whose GPU value changed this frame — this package's analog of
// caching.rs's GpuEventChanges, consumed by the coordinator to decide
// whether a repaint is needed without a full relayout.
func (c *GpuValueCache) Tick(dt float32) []*html.Node {
	var changed []*html.Node
	for n, a := range c.opacity {
		if a.done {
			continue
		}
		v, finished := a.tween.Update(dt)
		a.value = v
		a.done = finished
		changed = append(changed, n)
	}
	for n, slots := range c.transform {
		touched := false
		for _, a := range slots {
			if a == nil || a.done {
				continue
			}
			v, finished := a.tween.Update(dt)
			a.value = v
			a.done = finished
			touched = true
		}
		if touched {
			changed = append(changed, n)
		}
	}
	return changed
}

// Opacity returns n's current animated opacity, or ok=false if nothing is
// tracked for it (the caller should fall back to the cascaded value).
func (c *GpuValueCache) Opacity(n *html.Node) (value float64, ok bool) {
	a, ok := c.opacity[n]
	if !ok {
		return 0, false
	}
	return float64(a.value), true
}

// TransformScalars returns n's current animated transform scalar values,
// or nil if nothing is tracked. Indices with no active animation hold the
// zero value; the caller overlays them onto the cascaded transform list.
func (c *GpuValueCache) TransformScalars(n *html.Node) []float64 {
	slots, ok := c.transform[n]
	if !ok {
		return nil
	}
	out := make([]float64, len(slots))
	for i, a := range slots {
		if a != nil {
			out[i] = float64(a.value)
		}
	}
	return out
}

// Snapshot returns a read-only copy of every node's current opacity, for
// display-list building to read without racing the next Tick, per spec
// §5's "display-list building reads a snapshot."
func (c *GpuValueCache) Snapshot() map[*html.Node]float64 {
	out := make(map[*html.Node]float64, len(c.opacity))
	for n, a := range c.opacity {
		out[n] = float64(a.value)
	}
	return out
}

// GC drops every finished tween so Tick's map iteration doesn't grow
// without bound across a long-running session.
func (c *GpuValueCache) GC() {
	for n, a := range c.opacity {
		if a.done {
			delete(c.opacity, n)
		}
	}
	for n, slots := range c.transform {
		allDone := true
		for _, a := range slots {
			if a != nil && !a.done {
				allDone = false
				break
			}
		}
		if allDone {
			delete(c.transform, n)
		}
	}
}
