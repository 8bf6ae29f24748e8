package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

// ErrPageOutOfRange is returned for page indexes outside the document.
var ErrPageOutOfRange = errors.New("page index out of range")

// Document is an open PDF that can be measured and rasterized page by page.
// Page indexes are 0-based.
type Document interface {
	PageCount() int
	PageSize(index int) (Geometry, error)
	Render(index int, scale float64) (*image.Gray, error)
	Close() error
}

// Opener opens a PDF document for rasterization.
type Opener func(path string) (Document, error)

// FitzDocument rasterizes pages with MuPDF.
type FitzDocument struct {
	doc   *fitz.Document
	boxes *pageBoxes
}

// OpenFitz opens path with MuPDF. It satisfies Opener.
func OpenFitz(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &FitzDocument{doc: doc, boxes: openPageBoxes(path)}, nil
}

func (d *FitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// PageSize returns the page size in points. Fractional sizes come from the
// page tree; MuPDF's whole-point bounds are used when the two disagree.
func (d *FitzDocument) PageSize(index int) (Geometry, error) {
	if index < 0 || index >= d.doc.NumPage() {
		return Geometry{}, fmt.Errorf("page %d: %w", index+1, ErrPageOutOfRange)
	}
	rect, err := d.doc.Bound(index)
	if err != nil {
		return Geometry{}, fmt.Errorf("page %d: failed to read bounds: %w", index+1, err)
	}
	if g, ok := d.boxes.Geometry(index + 1); ok && g.agrees(rect.Dx(), rect.Dy()) {
		return g, nil
	}
	return Geometry{Width: float64(rect.Dx()), Height: float64(rect.Dy())}, nil
}

// Render rasterizes a page at scale*72 DPI into a grayscale image.
func (d *FitzDocument) Render(index int, scale float64) (*image.Gray, error) {
	if index < 0 || index >= d.doc.NumPage() {
		return nil, fmt.Errorf("page %d: %w", index+1, ErrPageOutOfRange)
	}
	rgba, err := d.doc.ImageDPI(index, scale*PointsPerInch)
	if err != nil {
		return nil, fmt.Errorf("page %d: failed to render: %w", index+1, err)
	}
	return ToGray(rgba), nil
}

func (d *FitzDocument) Close() error {
	d.boxes.Close()
	return d.doc.Close()
}

// ToGray flattens img onto a white background and converts it to a single
// 8-bit channel.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, image.White, image.Point{}, draw.Src)
	draw.Draw(gray, b, img, b.Min, draw.Over)
	return gray
}

// EncodePNG encodes a raster for engines that take image bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// PagePNGPath returns dir/page_<page>.png for a 1-based page number.
func PagePNGPath(dir string, page int) string {
	return filepath.Join(dir, fmt.Sprintf("page_%d.png", page))
}

// SavePNG writes the raster of a 1-based page into dir, creating it if needed.
func SavePNG(img image.Image, dir string, page int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	path := PagePNGPath(dir, page)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
