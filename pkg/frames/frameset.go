package frames

import (
	"fmt"
	"image"
)

// FrameSet is the ordered, gap-free sequence of decoded frames.
// Index i holds frame i+1 of the resource sequence regardless of the
// order in which the fetches completed.
type FrameSet struct {
	images []image.Image
}

// NewFrameSet wraps images into a FrameSet.
// Every slot must be populated; a nil entry is reported as an error.
func NewFrameSet(images []image.Image) (FrameSet, error) {
	for i, img := range images {
		if img == nil {
			return FrameSet{}, fmt.Errorf("frame %d is missing", i)
		}
	}
	owned := make([]image.Image, len(images))
	copy(owned, images)
	return FrameSet{images: owned}, nil
}

// Len returns the number of frames.
func (fs FrameSet) Len() int {
	return len(fs.images)
}

// At returns frame i, or false when i is outside 0..Len()-1.
func (fs FrameSet) At(i int) (image.Image, bool) {
	if i < 0 || i >= len(fs.images) {
		return nil, false
	}
	return fs.images[i], true
}

// Images returns a copy of the ordered frame slice.
func (fs FrameSet) Images() []image.Image {
	out := make([]image.Image, len(fs.images))
	copy(out, fs.images)
	return out
}

// Map returns a new FrameSet with fn applied to every frame, keeping order.
// Hosts use it to convert decoded frames into their native texture type.
func (fs FrameSet) Map(fn func(index int, img image.Image) image.Image) FrameSet {
	out := make([]image.Image, len(fs.images))
	for i, img := range fs.images {
		out[i] = fn(i, img)
	}
	return FrameSet{images: out}
}
