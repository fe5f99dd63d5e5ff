// Package carving implements content-aware width reduction by seam carving.
//
// An image is reduced one column at a time. Each iteration scores every pixel
// (ComputeEnergy), finds the connected top-to-bottom path of least cumulative
// score (FindMinSeam) and deletes that path from the pixel grid (RemoveSeam).
// Crop drives the three stages for a requested number of columns.
//
// # Masks
//
// A mask is a Grid painted by the user. Only the red-minus-green difference of
// each mask pixel is read:
//   - R-G > 200: the pixel is forced out (ForceRemoveEnergy)
//   - R-G < -200: the pixel is protected (ForceKeepEnergy)
//   - otherwise the gradient energy of the image pixel is used
//
// The mask keeps the size of the original image for a whole crop run. Column x
// of the narrowed image always reads column x of the mask, so masked areas
// drift to the right relative to the content as columns to their left are
// removed. Callers that need exact tracking should carve in small steps and
// repaint the mask between runs.
//
// # Ownership
//
// No function in this package mutates the grids it is given. Every stage
// returns a freshly allocated grid or map, so a Crop result can be handed to a
// display layer while the input stays valid.
//
// # Concurrency
//
// Energy scoring and the per-row shift in RemoveSeam run row-parallel. The
// seam search and the re-pack pass are sequential, as are the iterations of a
// crop run. Results are deterministic.
package carving
