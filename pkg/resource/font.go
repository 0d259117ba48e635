package resource

import (
	"container/list"
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"

	"vellum/pkg/text"
)

// FontDescriptor identifies a font by the tuple spec §3 keys Font Records
// on: family, weight, style (slant), and face index within the file (for
// TTC/OTC collections).
type FontDescriptor struct {
	Family string
	Weight int // CSS numeric weight, 400 = normal, 700 = bold
	Italic bool
	Index  int
}

// FontRecord is a parsed font, reference-shared across every node that
// uses it: parsed tables, cmap, glyph outlines and the shaping state
// derived from them (via pkg/text.Shaper).
type FontRecord struct {
	Descriptor FontDescriptor
	Path       string
	TTF        *truetype.Font
	Shaper     *text.Shaper
}

// SystemFontEntry is one row of the system-font index: a family/weight/
// slant tuple mapped to the file path and face index that satisfies it,
// plus the per-script fallback priority list to consult when this face
// lacks a glyph.
type SystemFontEntry struct {
	Descriptor      FontDescriptor
	Path            string
	ScriptFallbacks map[string][]FontDescriptor
}

// FontIndex is the memoized system-font lookup table: family/weight/slant
// to path+face index, built once and consulted on every font resolution.
type FontIndex struct {
	mu      sync.RWMutex
	entries map[string]SystemFontEntry
}

func fontIndexKey(d FontDescriptor) string {
	return fmt.Sprintf("%s|%d|%v|%d", d.Family, d.Weight, d.Italic, d.Index)
}

// NewFontIndex creates an empty system-font index.
func NewFontIndex() *FontIndex {
	return &FontIndex{entries: make(map[string]SystemFontEntry)}
}

// Register adds or replaces a system-font entry.
func (fi *FontIndex) Register(entry SystemFontEntry) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.entries[fontIndexKey(entry.Descriptor)] = entry
}

// Lookup returns the system-font entry for a descriptor, if registered.
func (fi *FontIndex) Lookup(d FontDescriptor) (SystemFontEntry, bool) {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	e, ok := fi.entries[fontIndexKey(d)]
	return e, ok
}

// FontCache parses Font Records on first use and evicts the least-recently
// used entry once the cache exceeds its capacity — the memory-pressure
// watermark spec §4.2 calls for. There is no LRU implementation anywhere
// in the example corpus to ground this on (no go.mod in the pack pulls in
// an LRU library), so this is hand-rolled atop stdlib container/list, the
// same structure the standard library's own net/http connection-reuse
// pools use internally.
type FontCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type fontCacheEntry struct {
	key    string
	record *FontRecord
}

// NewFontCache creates a cache holding at most capacity parsed fonts.
func NewFontCache(capacity int) *FontCache {
	if capacity <= 0 {
		capacity = 32
	}
	return &FontCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns a cached FontRecord for descriptor/path, parsing it from disk
// on first use.
func (fc *FontCache) Get(d FontDescriptor, path string) (*FontRecord, error) {
	key := fontIndexKey(d) + "|" + path

	fc.mu.Lock()
	if el, ok := fc.items[key]; ok {
		fc.ll.MoveToFront(el)
		rec := el.Value.(*fontCacheEntry).record
		fc.mu.Unlock()
		return rec, nil
	}
	fc.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", path, err)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	rec := &FontRecord{
		Descriptor: d,
		Path:       path,
		TTF:        ttf,
		Shaper:     text.NewShaper(ttf),
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if el, ok := fc.items[key]; ok {
		fc.ll.MoveToFront(el)
		return el.Value.(*fontCacheEntry).record, nil
	}
	el := fc.ll.PushFront(&fontCacheEntry{key: key, record: rec})
	fc.items[key] = el
	fc.evictLocked()
	return rec, nil
}

func (fc *FontCache) evictLocked() {
	for fc.ll.Len() > fc.capacity {
		back := fc.ll.Back()
		if back == nil {
			return
		}
		fc.ll.Remove(back)
		delete(fc.items, back.Value.(*fontCacheEntry).key)
	}
}

// Len reports the number of fonts currently resident.
func (fc *FontCache) Len() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.ll.Len()
}
