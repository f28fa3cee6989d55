package ui

import "github.com/chewxy/math32"

// Normalized screen extents. Whichever raw axis is relatively longer is
// stretched; the other is held at its normalized size.
const (
	NormalizedWidth  float32 = 1280
	NormalizedHeight float32 = 960
)

// Safe-zone margins in normalized units.
const (
	SafeZoneX float32 = 64
	SafeZoneY float32 = 48
)

// Screen is the render target the screen() pseudo-element describes.
type Screen struct {
	RawWidth  int
	RawHeight int
}

func (s Screen) aspect() float32 {
	if s.RawWidth <= 0 || s.RawHeight <= 0 {
		return NormalizedWidth / NormalizedHeight
	}
	return float32(s.RawWidth) / float32(s.RawHeight)
}

func (s Screen) wide() bool {
	return s.aspect() >= NormalizedWidth/NormalizedHeight
}

// Width is the screen width in normalized units.
func (s Screen) Width() float32 {
	if s.wide() {
		return math32.Round(NormalizedHeight * s.aspect())
	}
	return NormalizedWidth
}

// Height is the screen height in normalized units.
func (s Screen) Height() float32 {
	if s.wide() {
		return NormalizedHeight
	}
	return math32.Round(NormalizedWidth / s.aspect())
}

// CropX is the horizontal safe-zone margin.
func (s Screen) CropX() float32 { return SafeZoneX }

// CropY is the vertical safe-zone margin.
func (s Screen) CropY() float32 { return SafeZoneY }
