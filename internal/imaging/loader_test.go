package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// createTestImage creates a solid-colour PNG file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestPNG(t, img)
}

// createTestImageWithPattern creates a PNG with four coloured quadrants:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func createTestImageWithPattern(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255}
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255}
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255}
			} else {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return writeTestPNG(t, img)
}

func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache(0)
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.grids == nil {
		t.Fatal("NewImageCache did not initialize grids map")
	}
	if cache.MaxPixels() != carving.MaxGridPixels {
		t.Errorf("MaxPixels: got %d, want %d", cache.MaxPixels(), carving.MaxGridPixels)
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})
	defer os.Remove(imgPath)

	g1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if g1.Width != 100 || g1.Height != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", g1.Width, g1.Height)
	}
	if p := g1.At(10, 10); p != (carving.Pixel{R: 255}) {
		t.Errorf("pixel: got %+v, want pure red", p)
	}

	g2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if g1 != g2 {
		t.Error("second Load did not return cached grid")
	}
}

func TestImageCache_Load_Pattern(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImageWithPattern(t, 20, 10)
	defer os.Remove(imgPath)

	g, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want carving.Pixel
	}{
		{"top-left", 2, 2, carving.Pixel{R: 255}},
		{"top-right", 15, 2, carving.Pixel{G: 255}},
		{"bottom-left", 2, 8, carving.Pixel{B: 255}},
		{"bottom-right", 15, 8, carving.Pixel{R: 255, G: 255, B: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.At(tt.x, tt.y); got != tt.want {
				t.Errorf("At(%d,%d): got %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache(0)
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache(0)

	tmpFile, err := os.CreateTemp("", "invalid-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.WriteString("not an image")
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if _, err := cache.Load(tmpFile.Name()); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_Load_OverLimit(t *testing.T) {
	cache := NewImageCache(100)
	imgPath := createTestImage(t, 20, 10, color.RGBA{1, 2, 3, 255})
	defer os.Remove(imgPath)

	_, err := cache.Load(imgPath)
	if !errors.Is(err, carving.ErrAllocation) {
		t.Errorf("got %v, want ErrAllocation", err)
	}
}

func TestImageCache_Clear(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})
	defer os.Remove(imgPath)

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Clear()

	cache.mu.RLock()
	count := len(cache.grids)
	cache.mu.RUnlock()

	if count != 0 {
		t.Errorf("Clear did not empty cache: %d grids remain", count)
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})
	defer os.Remove(imgPath)

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(imgPath)

	cache.mu.RLock()
	_, exists := cache.grids[imgPath]
	cache.mu.RUnlock()

	if exists {
		t.Error("Evict did not remove grid from cache")
	}

	// Should not panic
	cache.Evict("/nonexistent/path")
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})
	defer os.Remove(imgPath)

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache(0)
	imgPath := createTestImage(t, 300, 200, color.RGBA{100, 100, 100, 255})
	defer os.Remove(imgPath)

	dims, err := GetDimensions(cache, imgPath)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}

	if dims.Width != 300 {
		t.Errorf("Width: got %d, want 300", dims.Width)
	}
	if dims.Height != 200 {
		t.Errorf("Height: got %d, want 200", dims.Height)
	}
	if dims.MaxRemovable != 299 {
		t.Errorf("MaxRemovable: got %d, want 299", dims.MaxRemovable)
	}
}

func TestGetDimensions_NonExistent(t *testing.T) {
	cache := NewImageCache(0)
	if _, err := GetDimensions(cache, "/nonexistent/image.png"); err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}

func TestLoadMask(t *testing.T) {
	cache := NewImageCache(0)
	maskPath := createTestImage(t, 30, 20, color.RGBA{255, 0, 0, 255})
	defer os.Remove(maskPath)

	t.Run("empty path is neutral", func(t *testing.T) {
		mask, err := LoadMask(cache, "", 12, 7)
		if err != nil {
			t.Fatalf("LoadMask failed: %v", err)
		}
		if mask.Width != 12 || mask.Height != 7 {
			t.Errorf("dimensions: got %dx%d, want 12x7", mask.Width, mask.Height)
		}
		for i, p := range mask.Pix {
			if carving.ClassifyMask(p) != carving.MaskNeutral {
				t.Fatalf("Pix[%d] is not neutral: %+v", i, p)
			}
		}
	})

	t.Run("matching file", func(t *testing.T) {
		mask, err := LoadMask(cache, maskPath, 30, 20)
		if err != nil {
			t.Fatalf("LoadMask failed: %v", err)
		}
		if carving.ClassifyMask(mask.At(0, 0)) != carving.MaskRemove {
			t.Errorf("mask pixel: got %+v, want removal paint", mask.At(0, 0))
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := LoadMask(cache, maskPath, 31, 20)
		if !errors.Is(err, carving.ErrDimensionMismatch) {
			t.Errorf("got %v, want ErrDimensionMismatch", err)
		}
	})
}
