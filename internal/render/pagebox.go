package render

import (
	"math"
	"os"

	"github.com/ledongthuc/pdf"
)

// pageBoxes reads page boxes in fractional points from the page tree.
// MuPDF reports page bounds truncated to whole points.
type pageBoxes struct {
	file   *os.File
	reader *pdf.Reader
}

// openPageBoxes returns nil when the page tree cannot be parsed; callers fall
// back to the MuPDF bounds.
func openPageBoxes(path string) *pageBoxes {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil
	}
	return &pageBoxes{file: f, reader: r}
}

// Geometry returns the visible size of a 1-based page: the crop box clipped
// to the media box, with width and height swapped for quarter-turn rotations.
func (b *pageBoxes) Geometry(page int) (g Geometry, ok bool) {
	if b == nil {
		return Geometry{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			g, ok = Geometry{}, false
		}
	}()

	p := b.reader.Page(page)
	if p.V.IsNull() {
		return Geometry{}, false
	}

	media, ok := readBox(inherited(p.V, "MediaBox"))
	if !ok {
		return Geometry{}, false
	}
	if crop, ok := readBox(inherited(p.V, "CropBox")); ok {
		media = media.intersect(crop)
	}

	w, h := media.x1-media.x0, media.y1-media.y0
	if w <= 0 || h <= 0 {
		return Geometry{}, false
	}
	if rot := ((inherited(p.V, "Rotate").Int64() % 360) + 360) % 360; rot == 90 || rot == 270 {
		w, h = h, w
	}
	return Geometry{Width: w, Height: h}, true
}

func (b *pageBoxes) Close() error {
	if b == nil {
		return nil
	}
	return b.file.Close()
}

type box struct{ x0, y0, x1, y1 float64 }

func readBox(v pdf.Value) (box, bool) {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return box{}, false
	}
	a, b, c, d := v.Index(0).Float64(), v.Index(1).Float64(), v.Index(2).Float64(), v.Index(3).Float64()
	return box{
		x0: math.Min(a, c), y0: math.Min(b, d),
		x1: math.Max(a, c), y1: math.Max(b, d),
	}, true
}

func (b box) intersect(o box) box {
	return box{
		x0: math.Max(b.x0, o.x0), y0: math.Max(b.y0, o.y0),
		x1: math.Min(b.x1, o.x1), y1: math.Min(b.y1, o.y1),
	}
}

func inherited(v pdf.Value, key string) pdf.Value {
	for ; !v.IsNull(); v = v.Key("Parent") {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
	}
	return pdf.Value{}
}

// agrees reports whether g is within a point of the truncated MuPDF bounds.
func (g Geometry) agrees(width, height int) bool {
	return math.Abs(g.Width-float64(width)) <= 1 && math.Abs(g.Height-float64(height)) <= 1
}
