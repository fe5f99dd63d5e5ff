package imaging

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
)

// Heatmap palette. Low energy is dark blue, high energy pale yellow; masked
// pixels use the same red/green convention as the mask itself.
var (
	heatLow      = colorful.Color{R: 0.0, G: 0.0, B: 0.2}
	heatHigh     = colorful.Color{R: 1.0, G: 0.88, B: 0.4}
	forcedRemove = carving.Pixel{R: 255}
	forcedKeep   = carving.Pixel{G: 255}
)

// EnergyStats summarises an energy map.
//
// Gradient statistics exclude pixels overridden by the mask, which are
// counted separately.
type EnergyStats struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	ForcedRemove int     `json:"forced_remove"`
	ForcedKeep   int     `json:"forced_keep"`
}

// ComputeEnergyStats returns summary statistics for e.
func ComputeEnergyStats(e *carving.EnergyMap) (*EnergyStats, error) {
	if e == nil || len(e.Values) != e.Width*e.Height {
		return nil, fmt.Errorf("%w: malformed energy map", carving.ErrInvalidArgument)
	}

	stats := &EnergyStats{Width: e.Width, Height: e.Height}
	gradients := make([]float64, 0, len(e.Values))
	for _, v := range e.Values {
		switch v {
		case carving.ForceRemoveEnergy:
			stats.ForcedRemove++
		case carving.ForceKeepEnergy:
			stats.ForcedKeep++
		default:
			gradients = append(gradients, float64(v))
		}
	}
	if len(gradients) == 0 {
		return stats, nil
	}

	sort.Float64s(gradients)
	stats.Min = floats.Min(gradients)
	stats.Max = floats.Max(gradients)
	stats.Median = stat.Quantile(0.5, stat.Empirical, gradients, nil)
	if len(gradients) == 1 {
		stats.Mean = gradients[0]
		return stats, nil
	}
	stats.Mean, stats.StdDev = stat.MeanStdDev(gradients, nil)
	return stats, nil
}

// EnergyHeatmap renders an energy map as an RGB grid.
//
// Gradient energy is normalised against the largest gradient in the map and
// square-root scaled so that faint structure stays visible, then blended from
// dark blue to pale yellow in HCL space. Forced-remove pixels are pure red,
// protected pixels pure green.
func EnergyHeatmap(e *carving.EnergyMap) (*carving.Grid, error) {
	if e == nil || len(e.Values) != e.Width*e.Height {
		return nil, fmt.Errorf("%w: malformed energy map", carving.ErrInvalidArgument)
	}
	out, err := carving.NewGrid(e.Width, e.Height)
	if err != nil {
		return nil, err
	}

	var peak int64
	for _, v := range e.Values {
		if v != carving.ForceKeepEnergy && v > peak {
			peak = v
		}
	}

	for i, v := range e.Values {
		switch {
		case v == carving.ForceRemoveEnergy:
			out.Pix[i] = forcedRemove
		case v == carving.ForceKeepEnergy:
			out.Pix[i] = forcedKeep
		default:
			t := 0.0
			if peak > 0 {
				t = math.Sqrt(float64(v) / float64(peak))
			}
			r, g, b := heatLow.BlendHcl(heatHigh, t).Clamped().RGB255()
			out.Pix[i] = carving.Pixel{R: r, G: g, B: b}
		}
	}
	return out, nil
}
