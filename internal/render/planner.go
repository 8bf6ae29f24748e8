// Package render plans and performs rasterization of PDF pages for OCR.
//
// The planner picks a render scale that keeps each page raster under a pixel
// ceiling while never dropping below a DPI that Tesseract can still read. The
// rasterizer renders pages through MuPDF into single-channel grayscale images.
package render

import "math"

const (
	// PointsPerInch is the native resolution of PDF user space.
	PointsPerInch = 72.0

	// MinDPI is the quality floor for OCR. When a page is so large that even
	// MinDPI exceeds the pixel ceiling, the floor wins.
	MinDPI = 120.0

	// minAreaIn2 keeps degenerate pages from dividing by zero.
	minAreaIn2 = 1e-6

	// roundOutEpsilon matches the tolerance MuPDF applies when it rounds a
	// scaled page rectangle out to whole pixels.
	roundOutEpsilon = 0.001
)

// Geometry is a page size in PDF points (1/72 inch).
type Geometry struct {
	Width  float64
	Height float64
}

// Plan describes how a single page will be rasterized.
type Plan struct {
	// Scale is applied to the page's 72 DPI coordinate space.
	Scale float64

	// EffectiveDPI is Scale * 72.
	EffectiveDPI float64

	// PixelWidth and PixelHeight are the expected raster dimensions, rounded
	// out to whole pixels.
	PixelWidth  int
	PixelHeight int

	// ExceedsCeiling is set when the DPI floor forced a raster larger than
	// the requested pixel ceiling.
	ExceedsCeiling bool
}

// PlanZoom returns the scale factor to render a page of the given size so
// that the raster stays under maxPixels, clamped to [MinDPI, requestedDPI].
func PlanZoom(widthPt, heightPt, requestedDPI, maxPixels float64) float64 {
	widthIn := widthPt / PointsPerInch
	heightIn := heightPt / PointsPerInch
	area := math.Max(widthIn*heightIn, minAreaIn2)

	maxDPI := math.Sqrt(maxPixels / area)
	target := math.Min(requestedDPI, maxDPI)
	target = math.Max(target, MinDPI)

	return target / PointsPerInch
}

// NewPlan computes the full render plan for a page.
func NewPlan(g Geometry, requestedDPI, maxPixels int) Plan {
	scale := PlanZoom(g.Width, g.Height, float64(requestedDPI), float64(maxPixels))
	w := g.Width * scale
	h := g.Height * scale

	return Plan{
		Scale:          scale,
		EffectiveDPI:   scale * PointsPerInch,
		PixelWidth:     int(math.Ceil(w - roundOutEpsilon)),
		PixelHeight:    int(math.Ceil(h - roundOutEpsilon)),
		ExceedsCeiling: w*h > float64(maxPixels)*(1+1e-9),
	}
}
