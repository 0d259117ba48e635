package resource

import "vellum/pkg/text"

// FallbackChain names, for one font request, a preferred face plus a
// general fallback list and a per-script priority list, mirroring
// azul-layout's FontFallbackChain (layout/src/text3/fallback.rs):
// primary + fallbacks + script_specific.
type FallbackChain struct {
	Primary        FontDescriptor
	Fallbacks      []FontDescriptor
	ScriptSpecific map[string][]FontDescriptor
	cache          *FontCache
	index          *FontIndex
}

// FallbackManager builds and memoizes fallback chains per font request,
// the Go analogue of FontManager.build_fallback_chain's
// `self.fallback_chains` memo table.
type FallbackManager struct {
	cache   *FontCache
	index   *FontIndex
	built   map[string]*FallbackChain
}

// NewFallbackManager creates a manager backed by cache/index.
func NewFallbackManager(cache *FontCache, index *FontIndex) *FallbackManager {
	return &FallbackManager{cache: cache, index: index, built: make(map[string]*FallbackChain)}
}

// Build returns the fallback chain for primary, constructing and
// memoizing it on first request. Faces are tried in the order given by
// facesInOrder: primary, then script-specific, then general fallbacks.
func (fm *FallbackManager) Build(primary FontDescriptor, generalFallbacks []FontDescriptor, scriptFallbacks map[string][]FontDescriptor) *FallbackChain {
	key := fontIndexKey(primary)
	if c, ok := fm.built[key]; ok {
		return c
	}
	chain := &FallbackChain{
		Primary:        primary,
		Fallbacks:      generalFallbacks,
		ScriptSpecific: scriptFallbacks,
		cache:          fm.cache,
		index:          fm.index,
	}
	fm.built[key] = chain
	return chain
}

// facesInOrder returns the descriptor list to try for a cluster tagged
// with script: the primary face, the script-specific list (if any), then
// the general fallbacks.
func (c *FallbackChain) facesInOrder(script string) []FontDescriptor {
	order := make([]FontDescriptor, 0, 1+len(c.Fallbacks)+2)
	order = append(order, c.Primary)
	if sf, ok := c.ScriptSpecific[script]; ok {
		order = append(order, sf...)
	}
	order = append(order, c.Fallbacks...)
	return order
}

// Covers reports whether every cluster in clusters finds a glyph in some
// face of the chain, resolving each cluster's script via
// text.DominantScript. It returns the per-cluster chosen descriptor
// (zero value for clusters that hit tofu).
func (c *FallbackChain) Covers(clusters []text.Cluster) ([]FontDescriptor, bool) {
	chosen := make([]FontDescriptor, len(clusters))
	covers := true
	for i, cl := range clusters {
		script := text.DominantScript(cl.Text)
		found := false
		for _, fd := range c.facesInOrder(script) {
			entry, ok := c.index.Lookup(fd)
			if !ok {
				continue
			}
			rec, err := c.cache.Get(fd, entry.Path)
			if err != nil {
				continue
			}
			rs := []rune(cl.Text)
			if len(rs) > 0 && rec.Shaper.HasGlyph(rs[0]) {
				chosen[i] = fd
				found = true
				break
			}
		}
		if !found {
			covers = false
		}
	}
	return chosen, covers
}
