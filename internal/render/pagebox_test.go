package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTreePDF writes a one-page PDF without content whose Pages and Page
// dictionaries carry the given extra entries.
func writeTreePDF(t *testing.T, pagesExtra, pageExtra string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 " + pagesExtra + " >>",
		"<< /Type /Page /Parent 2 0 R " + pageExtra + " >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "tree.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestPageBoxes_Geometry(t *testing.T) {
	tests := []struct {
		name       string
		pagesExtra string
		pageExtra  string
		want       Geometry
	}{
		{
			name:       "inherited fractional media box",
			pagesExtra: "/MediaBox [0 0 595.3 841.9]",
			want:       Geometry{Width: 595.3, Height: 841.9},
		},
		{
			name:      "crop box clipped to media box",
			pageExtra: "/MediaBox [0 0 612 792] /CropBox [36.5 -10 650 720.25]",
			want:      Geometry{Width: 575.5, Height: 720.25},
		},
		{
			name:       "quarter turn swaps sides",
			pagesExtra: "/MediaBox [0 0 595.3 841.9] /Rotate -270",
			want:       Geometry{Width: 841.9, Height: 595.3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes := openPageBoxes(writeTreePDF(t, tt.pagesExtra, tt.pageExtra))
			require.NotNil(t, boxes)
			defer boxes.Close()

			g, ok := boxes.Geometry(1)
			require.True(t, ok)
			assert.InDelta(t, tt.want.Width, g.Width, 1e-9)
			assert.InDelta(t, tt.want.Height, g.Height, 1e-9)
		})
	}
}

func TestPageBoxes_Unavailable(t *testing.T) {
	boxes := openPageBoxes(writeTreePDF(t, "", ""))
	require.NotNil(t, boxes)
	defer boxes.Close()

	_, ok := boxes.Geometry(1)
	assert.False(t, ok, "no media box")

	_, ok = boxes.Geometry(2)
	assert.False(t, ok, "page outside the tree")

	var missing *pageBoxes
	_, ok = missing.Geometry(1)
	assert.False(t, ok)
	assert.NoError(t, missing.Close())

	assert.Nil(t, openPageBoxes(filepath.Join(t.TempDir(), "absent.pdf")))
}

func TestGeometry_AgreesWithTruncatedBounds(t *testing.T) {
	g := Geometry{Width: 595.3, Height: 841.9}
	assert.True(t, g.agrees(595, 841))
	assert.False(t, g.agrees(612, 792))
}

func TestNewPlan_FractionalGeometryMatchesRaster(t *testing.T) {
	// A4 at 300 DPI rasterizes to 2481x3508.
	plan := NewPlan(Geometry{Width: 595.3, Height: 841.9}, 300, 25_000_000)
	assert.Equal(t, 2481, plan.PixelWidth)
	assert.Equal(t, 3508, plan.PixelHeight)
}
