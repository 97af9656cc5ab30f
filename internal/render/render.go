// Package render draws a course map with its markers to PNG, honoring the
// editor's current pan and zoom transform.
package render

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/mfujita/mapnotes/internal/canvas"
	"github.com/mfujita/mapnotes/internal/domain"
	"github.com/mfujita/mapnotes/internal/imagedata"
)

const (
	markerRadius = 6.0
	labelOffset  = 10.0
)

// AnnotatedMap renders the course image at the given scale and pan offset
// with one labelled disc per marker. The output canvas is sized to fit the
// transformed image.
func AnnotatedMap(course domain.Course, markers []domain.Marker, scale float64, offset canvas.Point) ([]byte, error) {
	img, err := imagedata.Decode(course.ImageDataURL)
	if err != nil {
		return nil, fmt.Errorf("failed to decode course image: %w", err)
	}
	bounds := img.Bounds()
	nativeW, nativeH := bounds.Dx(), bounds.Dy()

	outW := int(math.Ceil(math.Max(offset.X, 0) + float64(nativeW)*scale))
	outH := int(math.Ceil(math.Max(offset.Y, 0) + float64(nativeH)*scale))
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	dc := gg.NewContext(outW, outH)
	dc.SetRGB(0.08, 0.09, 0.12)
	dc.Clear()

	dc.Push()
	dc.Translate(offset.X, offset.Y)
	dc.Scale(scale, scale)
	dc.DrawImage(img, 0, 0)
	dc.Pop()

	dc.SetFontFace(basicfont.Face7x13)
	for _, m := range markers {
		pos := canvas.MarkerScreenPosition(offset, scale, m, nativeW, nativeH)

		r, g, b := markerColor(m.Type)
		dc.SetRGB(r, g, b)
		dc.DrawCircle(pos.X, pos.Y, markerRadius*scale)
		dc.Fill()

		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(string(m.Type), pos.X, pos.Y-labelOffset*scale, 0.5, 0)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode rendered map: %w", err)
	}
	return buf.Bytes(), nil
}

func markerColor(t domain.MarkerType) (r, g, b float64) {
	switch t {
	case domain.MarkerItemBox:
		return 0.95, 0.65, 0.15
	case domain.MarkerShortcut:
		return 0.95, 0.85, 0.20
	case domain.MarkerHazard:
		return 0.90, 0.25, 0.20
	case domain.MarkerCoin:
		return 0.95, 0.80, 0.45
	case domain.MarkerBoost:
		return 0.25, 0.70, 0.95
	}
	return 0.6, 0.6, 0.6
}
