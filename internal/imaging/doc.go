// Package imaging connects the carving engine to image files and to viewers.
//
// It decodes files into carving.Grid values, encodes grids back to PNG (as
// files or base64 strings for MCP clients), builds masks from rectangles, and
// renders diagnostic views: seam overlays and energy heatmaps.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Colour Handling
//
// Grids hold 8-bit RGB. Decoded images are converted through an NRGBA copy and
// their alpha channel is dropped, so translucent pixels keep their straight
// (un-premultiplied) colour.
//
// # Masks
//
// Masks follow the carving package convention: pixels whose red channel exceeds
// green by more than 200 are removed first, pixels whose green exceeds red by
// more than 200 are protected. MaskFromRegions paints pure red and pure green.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached grids are shared
// between callers and must be treated as read-only; every function in this
// package that returns a modified grid returns a copy.
package imaging
