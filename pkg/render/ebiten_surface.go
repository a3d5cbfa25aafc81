package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EbitenSurface is a GPU Surface: an offscreen *ebiten.Image that persists
// between ticks and is blitted to the screen by the scene.
//
// Frames should already be *ebiten.Image (see game.ResourceManager.ToEbitenFrames);
// any other image.Image is converted once and cached.
type EbitenSurface struct {
	backing   *ebiten.Image
	scale     float64
	converted map[image.Image]*ebiten.Image
}

// NewEbitenSurface creates a surface with no backing store yet.
func NewEbitenSurface() *EbitenSurface {
	return &EbitenSurface{
		scale:     1,
		converted: make(map[image.Image]*ebiten.Image),
	}
}

// Resize implements Surface. Reusing a same-sized store clears it, matching
// the semantics of reassigning a canvas' width.
func (s *EbitenSurface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if s.backing != nil {
		b := s.backing.Bounds()
		if b.Dx() == width && b.Dy() == height {
			s.backing.Clear()
			return
		}
		s.backing.Deallocate()
	}
	s.backing = ebiten.NewImage(width, height)
}

// SetScale implements Surface.
func (s *EbitenSurface) SetScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.scale = scale
}

// FillRect implements Surface.
func (s *EbitenSurface) FillRect(r DrawRect, c color.Color) {
	if s.backing == nil {
		return
	}
	vector.DrawFilledRect(s.backing,
		float32(r.X*s.scale), float32(r.Y*s.scale),
		float32(r.Width*s.scale), float32(r.Height*s.scale),
		c, false)
}

// DrawFrame implements Surface.
func (s *EbitenSurface) DrawFrame(frame image.Image, r DrawRect) {
	if s.backing == nil || frame == nil {
		return
	}

	img, ok := frame.(*ebiten.Image)
	if !ok {
		if img, ok = s.converted[frame]; !ok {
			img = ebiten.NewImageFromImage(frame)
			s.converted[frame] = img
		}
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width/float64(b.Dx()), r.Height/float64(b.Dy()))
	op.GeoM.Translate(r.X, r.Y)
	op.GeoM.Scale(s.scale, s.scale)
	op.Filter = ebiten.FilterLinear
	s.backing.DrawImage(img, op)
}

// Image returns the backing store, nil before the first Resize.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.backing
}

// Release frees the backing store and converted frames.
func (s *EbitenSurface) Release() {
	if s.backing != nil {
		s.backing.Deallocate()
		s.backing = nil
	}
	for k, img := range s.converted {
		img.Deallocate()
		delete(s.converted, k)
	}
}
