package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// EncodedImage contains a grid encoded as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes a grid as base64 PNG, optionally rescaled.
//
// A scale other than 1 (and greater than 0) resizes the preview with a
// Lanczos filter; the grid itself is untouched. Width and Height report the
// encoded size. A scaled size above maxPixels fails with
// carving.ErrAllocation; maxPixels <= 0 means carving.MaxGridPixels.
func EncodePNG(g *carving.Grid, scale float64, maxPixels int) (*EncodedImage, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if maxPixels <= 0 || maxPixels > carving.MaxGridPixels {
		maxPixels = carving.MaxGridPixels
	}

	var img image.Image = ToNRGBA(g)
	if scale != 1.0 && scale > 0 {
		fw := max(1, float64(g.Width)*scale)
		fh := max(1, float64(g.Height)*scale)
		if fw*fh > float64(maxPixels) {
			return nil, fmt.Errorf("%w: preview %.0fx%.0f exceeds %d pixels",
				carving.ErrAllocation, fw, fh, maxPixels)
		}
		img = imaging.Resize(img, int(fw), int(fh), imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveGrid writes a grid to path. The format follows the file extension
// (.png, .jpg, .gif, .bmp, .tif).
func SaveGrid(g *carving.Grid, path string) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := imaging.Save(ToNRGBA(g), path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
