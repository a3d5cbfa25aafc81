package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// RasterSurface is a software Surface backed by an *image.RGBA.
// Output is deterministic: drawing the same frame into the same geometry
// produces identical pixels.
type RasterSurface struct {
	img    *image.RGBA
	scale  float64
	interp xdraw.Interpolator
}

// NewRasterSurface creates an empty surface using bilinear scaling.
func NewRasterSurface() *RasterSurface {
	return &RasterSurface{
		img:    image.NewRGBA(image.Rectangle{}),
		scale:  1,
		interp: xdraw.ApproxBiLinear,
	}
}

// SetInterpolator swaps the scaling kernel (e.g. xdraw.NearestNeighbor for
// the terminal preview).
func (s *RasterSurface) SetInterpolator(interp xdraw.Interpolator) {
	if interp != nil {
		s.interp = interp
	}
}

// Resize implements Surface. The new store is fully transparent.
func (s *RasterSurface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// SetScale implements Surface.
func (s *RasterSurface) SetScale(scale float64) {
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	s.scale = scale
}

// FillRect implements Surface.
func (s *RasterSurface) FillRect(r DrawRect, c color.Color) {
	draw.Draw(s.img, s.toDevice(r), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawFrame implements Surface.
func (s *RasterSurface) DrawFrame(frame image.Image, r DrawRect) {
	if frame == nil {
		return
	}
	dr := s.toDevice(r)
	if dr.Empty() {
		return
	}
	s.interp.Scale(s.img, dr, frame, frame.Bounds(), xdraw.Over, nil)
}

// Image returns the backing store.
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

// Scale returns the current logical→physical scale.
func (s *RasterSurface) Scale() float64 {
	return s.scale
}

// toDevice converts a logical rectangle to backing-store pixels.
func (s *RasterSurface) toDevice(r DrawRect) image.Rectangle {
	x0 := int(math.Round(r.X * s.scale))
	y0 := int(math.Round(r.Y * s.scale))
	x1 := int(math.Round(r.Right() * s.scale))
	y1 := int(math.Round(r.Bottom() * s.scale))
	return image.Rect(x0, y0, x1, y1).Intersect(s.img.Bounds())
}
