package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
	"github.com/ironsheep/seamcarve-mcp/internal/imaging"
)

// carveOpts holds the command-line flags for the carve command.
type carveOpts struct {
	image  string // input image path
	mask   string // optional mask path
	pixels int    // columns to remove
	out    string // output path; format follows the extension
	seams  string // optional path for the source with removed seams painted
}

func newCarveCmd() *cobra.Command {
	var opts carveOpts

	cmd := &cobra.Command{
		Use:   "carve",
		Short: "Remove vertical seams from an image file",
		Example: `  seamcarve-mcp carve --image photo.png --pixels 120 --out narrow.png
  seamcarve-mcp carve --image photo.png --mask mask.png --pixels 40 --out narrow.png --seams seams.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCarve(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "input image")
	cmd.Flags().StringVarP(&opts.mask, "mask", "m", "", "mask image (red removes, green protects)")
	cmd.Flags().IntVarP(&opts.pixels, "pixels", "p", 0, "number of columns to remove")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output image")
	cmd.Flags().StringVar(&opts.seams, "seams", "", "write the input with removed seams painted to this path")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("pixels")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runCarve(cmd *cobra.Command, opts carveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	if filepath.Clean(opts.out) == filepath.Clean(opts.image) {
		return errors.New("refusing to overwrite the input image")
	}

	cache := imaging.NewImageCache(cfg.MaxPixels)
	img, err := cache.Load(opts.image)
	if err != nil {
		return err
	}
	mask, err := imaging.LoadMask(cache, opts.mask, img.Width, img.Height)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	cropper := &carving.Cropper{
		Logger:     logger,
		Sequential: cfg.SequentialEnergy,
		Observer: func(k int, seam carving.Seam) {
			if (k+1)%100 == 0 {
				logger.Infof("Removed %d of %d seams", k+1, opts.pixels)
			}
		},
	}
	res, err := cropper.RunContext(ctx, img, mask, opts.pixels)
	if err != nil {
		return err
	}
	if err := imaging.SaveGrid(res.Grid, opts.out); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Carved %s to %dx%d", opts.image, res.Grid.Width, res.Grid.Height))

	if opts.seams != "" {
		projected, err := carving.ProjectSeams(img.Width, res.Seams)
		if err != nil {
			return err
		}
		overlay, err := imaging.SeamOverlay(img, projected, cfg.OverlayColor)
		if err != nil {
			return err
		}
		if err := imaging.SaveGrid(overlay, opts.seams); err != nil {
			return err
		}
		logger.Info("Wrote seam overlay", "path", opts.seams, "seams", len(projected))
	}

	fmt.Fprintln(cmd.OutOrStdout(), opts.out)
	return nil
}
