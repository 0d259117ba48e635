package resource

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	"vellum/pkg/images"
)

// PixelFormat enumerates the storage formats spec §3 allows an Image
// Record's pixel data to be kept in.
type PixelFormat int

const (
	FormatR8 PixelFormat = iota
	FormatRG8
	FormatRGB8
	FormatRGBA8
	FormatRGB16
	FormatRGBA16
	FormatRGBF32
	FormatRGBAF32
)

// ImageRecord is the decoded pixel data plus the metadata a rasterizer
// needs to sample it: dimensions, format, and whether alpha is
// premultiplied (Go's image.NRGBA is not; this engine stores non-
// premultiplied and the raster kernels premultiply on sample).
type ImageRecord struct {
	Key               Key
	Width, Height     int
	Format            PixelFormat
	PremultipliedAlpha bool
	Pixels            *image.NRGBA
}

// imageCacheEntry pairs a record with the mask most recently applied to it
// via UpdatePixels, so a node can carry both its decoded bitmap and a
// runtime-supplied alpha mask (e.g. a clip mask baked in by script).
type imageCacheEntry struct {
	record *ImageRecord
	mask   *image.Alpha
}

// ImageCache decodes each distinct image source exactly once, auto-
// detecting its format (via h2non/filetype) before handing the bytes to
// disintegration/imaging for decode/resize, per the domain-stack table.
type ImageCache struct {
	mu      sync.RWMutex
	ns      uint32
	next    uint32
	entries map[uint32]*imageCacheEntry
}

// NewImageCache creates an empty cache under the given resource namespace.
func NewImageCache(namespace uint32) *ImageCache {
	return &ImageCache{ns: namespace, next: 1, entries: make(map[uint32]*imageCacheEntry)}
}

// Add decodes raw bytes into an ImageRecord and stores it, returning the
// key it was assigned. The content type is auto-detected; decode falls
// back to the stdlib registry images.DecodeImageBytes already wires (gif/
// jpeg/png) when filetype can't classify the buffer (e.g. tiny fixtures).
func (ic *ImageCache) Add(data []byte) (Key, error) {
	kind, _ := filetype.Match(data)
	_ = kind // classification result isn't required to pick a decoder; imaging/image both sniff internally

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		fallback, ferr := images.DecodeImageBytes(data)
		if ferr != nil {
			return Key{}, fmt.Errorf("decoding image: %w", err)
		}
		img = imaging.Clone(fallback)
	}

	ic.mu.Lock()
	defer ic.mu.Unlock()
	k := ic.next
	ic.next++
	bounds := img.Bounds()
	rec := &ImageRecord{
		Key:    Key{Namespace: ic.ns, Key: k},
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: FormatRGBA8,
		Pixels: img,
	}
	ic.entries[k] = &imageCacheEntry{record: rec}
	return rec.Key, nil
}

// Lookup returns the cached record for key, if present.
func (ic *ImageCache) Lookup(key Key) (*ImageRecord, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	if key.Namespace != ic.ns {
		return nil, false
	}
	e, ok := ic.entries[key.Key]
	if !ok {
		return nil, false
	}
	return e.record, true
}

// LookupPixels returns the decoded bitmap for a (namespace, key) pair,
// satisfying pkg/raster.ImageSource without that package importing this
// one back (pkg/resource already imports pkg/raster to drive the
// rasterizer from VellumRenderer).
func (ic *ImageCache) LookupPixels(namespace, key uint32) (*image.NRGBA, bool) {
	rec, ok := ic.Lookup(Key{Namespace: namespace, Key: key})
	if !ok {
		return nil, false
	}
	return rec.Pixels, true
}

// Invalidate drops a cached image (its source changed or it's no longer
// referenced by any node).
func (ic *ImageCache) Invalidate(key Key) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	delete(ic.entries, key.Key)
}

// UpdatePixels attaches a per-node alpha mask to an already-cached image,
// per spec §4.2's `update_pixels(node_id -> image, mask)` operation. The
// mask is stored alongside the record rather than baked into its pixels so
// multiple nodes can share the decoded bitmap with distinct masks.
func (ic *ImageCache) UpdatePixels(key Key, mask *image.Alpha) error {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	e, ok := ic.entries[key.Key]
	if !ok {
		return fmt.Errorf("update_pixels: no image at %v", key)
	}
	e.mask = mask
	return nil
}

// Mask returns the mask most recently attached to key via UpdatePixels,
// if any.
func (ic *ImageCache) Mask(key Key) (*image.Alpha, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	e, ok := ic.entries[key.Key]
	if !ok || e.mask == nil {
		return nil, false
	}
	return e.mask, true
}

// Resize produces a resized copy of the image at key using
// disintegration/imaging's Lanczos filter, without mutating the cached
// original (multiple boxes may reference the same source at different
// sizes).
func (ic *ImageCache) Resize(key Key, width, height int) (*image.NRGBA, error) {
	rec, ok := ic.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("resize: no image at %v", key)
	}
	return imaging.Resize(rec.Pixels, width, height, imaging.Lanczos), nil
}
