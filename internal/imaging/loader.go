package imaging

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// ImageCache provides thread-safe caching of decoded pixel grids to avoid
// redundant disk reads.
//
// The cache stores grids keyed by their file path. Once a file is loaded,
// subsequent Load() calls for the same path return the cached grid without
// disk I/O. Cached grids are shared and must not be modified; the carving
// package never modifies its inputs.
//
// # Memory Management
//
// Cached grids remain in memory until explicitly removed via Evict() or Clear().
// Files larger than the configured pixel limit are rejected before decoding.
//
// # Example Usage
//
//	cache := imaging.NewImageCache(0)
//	grid, err := cache.Load("/path/to/photo.png")
//	if err != nil {
//	    return err
//	}
//	carved, err := carving.Crop(grid, mask, 40)
type ImageCache struct {
	mu        sync.RWMutex
	grids     map[string]*carving.Grid
	maxPixels int
}

// NewImageCache creates an empty cache that rejects images with more than
// maxPixels pixels. A non-positive limit means carving.MaxGridPixels.
func NewImageCache(maxPixels int) *ImageCache {
	if maxPixels <= 0 || maxPixels > carving.MaxGridPixels {
		maxPixels = carving.MaxGridPixels
	}
	return &ImageCache{
		grids:     make(map[string]*carving.Grid),
		maxPixels: maxPixels,
	}
}

// MaxPixels returns the largest image the cache will decode.
func (c *ImageCache) MaxPixels() int {
	return c.maxPixels
}

// Load retrieves a grid from the cache or decodes it from disk if not cached.
//
// Supported formats are those of github.com/disintegration/imaging: PNG, JPEG,
// GIF, BMP and TIFF. JPEG EXIF orientation is applied, so the grid is upright
// as a viewer would display it.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a supported image
//   - Returns carving.ErrAllocation if the image exceeds the pixel limit
func (c *ImageCache) Load(path string) (*carving.Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	if err := c.checkSize(path); err != nil {
		return nil, err
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	g, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g, nil
}

// checkSize reads only the image header and rejects oversized images.
func (c *ImageCache) checkSize(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("image %s has no pixels", path)
	}
	if cfg.Width > c.maxPixels/cfg.Height {
		return fmt.Errorf("%w: %s is %dx%d, limit is %d pixels",
			carving.ErrAllocation, path, cfg.Width, cfg.Height, c.maxPixels)
	}
	return nil
}

// Clear removes all grids from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*carving.Grid)
	c.mu.Unlock()
}

// Evict removes a specific grid from the cache by its path.
//
// If the path is not in the cache, this method does nothing. Call Evict after
// a file changes on disk so the next Load sees the new content.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// MaxRemovable is the largest column count a crop may remove (Width-1).
	MaxRemovable int `json:"max_removable"`
}

// GetDimensions returns the dimensions of an image. The image is loaded into
// the cache if not already present.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	g, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{
		Width:        g.Width,
		Height:       g.Height,
		MaxRemovable: g.Width - 1,
	}, nil
}

// LoadMask loads a mask for an image of the given size. An empty path yields
// an all-neutral mask. The mask must match the image dimensions exactly.
func LoadMask(cache *ImageCache, path string, width, height int) (*carving.Grid, error) {
	if path == "" {
		return NeutralMask(width, height)
	}
	mask, err := cache.Load(path)
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	if mask.Width != width || mask.Height != height {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d",
			carving.ErrDimensionMismatch, width, height, mask.Width, mask.Height)
	}
	return mask, nil
}
