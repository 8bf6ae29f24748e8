package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const a4Width, a4Height = 595.0, 842.0

func effectiveDPI(scale float64) float64 {
	return scale * PointsPerInch
}

func TestPlanZoom_RequestedDPIFitsCeiling(t *testing.T) {
	scale := PlanZoom(a4Width, a4Height, 300, 25_000_000)
	assert.InDelta(t, 300.0/72.0, scale, 1e-9)
}

func TestPlanZoom_CeilingLowersDPI(t *testing.T) {
	// A4 at 300 DPI is ~8.7M pixels; a 4M ceiling must pull the DPI down.
	scale := PlanZoom(a4Width, a4Height, 300, 4_000_000)
	dpi := effectiveDPI(scale)

	assert.Less(t, dpi, 300.0)
	assert.GreaterOrEqual(t, dpi, MinDPI)

	pixels := (a4Width * scale) * (a4Height * scale)
	assert.InDelta(t, 4_000_000, pixels, 1)
}

func TestPlanZoom_FloorDominatesLowRequestedDPI(t *testing.T) {
	scale := PlanZoom(a4Width, a4Height, 72, 25_000_000)
	assert.InDelta(t, MinDPI, effectiveDPI(scale), 1e-9)
}

func TestPlanZoom_FloorOverridesCeilingForHugePages(t *testing.T) {
	// 10m x 10m poster: the ceiling alone would allow only a few DPI.
	const side = 10 / 0.0254 * 72
	scale := PlanZoom(side, side, 300, 25_000_000)
	assert.InDelta(t, MinDPI, effectiveDPI(scale), 1e-9)

	plan := NewPlan(Geometry{Width: side, Height: side}, 300, 25_000_000)
	assert.True(t, plan.ExceedsCeiling)
}

func TestPlanZoom_DegeneratePage(t *testing.T) {
	scale := PlanZoom(0, 0, 300, 25_000_000)
	assert.False(t, math.IsNaN(scale))
	assert.False(t, math.IsInf(scale, 0))
	assert.InDelta(t, 300.0/72.0, scale, 1e-9)
}

func TestPlanZoom_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		w := 1 + rng.Float64()*5000
		h := 1 + rng.Float64()*5000
		requested := 50 + rng.Float64()*550
		ceiling := 1e5 + rng.Float64()*1e8

		dpi := effectiveDPI(PlanZoom(w, h, requested, ceiling))

		assert.GreaterOrEqual(t, dpi, MinDPI-1e-9)
		if requested >= MinDPI {
			assert.LessOrEqual(t, dpi, requested+1e-9)
		} else {
			assert.InDelta(t, MinDPI, dpi, 1e-9)
		}

		scale := dpi / PointsPerInch
		pixels := (w * scale) * (h * scale)
		if dpi > MinDPI+1e-9 {
			assert.LessOrEqual(t, pixels, ceiling*(1+1e-9))
		}
	}
}

func TestNewPlan(t *testing.T) {
	plan := NewPlan(Geometry{Width: a4Width, Height: a4Height}, 300, 25_000_000)

	assert.InDelta(t, 300.0, plan.EffectiveDPI, 1e-9)
	assert.Equal(t, 2480, plan.PixelWidth)
	assert.Equal(t, 3509, plan.PixelHeight)
	assert.False(t, plan.ExceedsCeiling)
}
