package types

import (
	"fmt"
	"image"
)

// MaxDim is the largest mask dimension the wire format can carry.
// Heights and widths are serialized as 16-bit fields.
const MaxDim = 65535

// Foreground and Background are the pixel values a decoded mask uses.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

// Mask is a rectangular binary pixel mask in row-major order with the
// origin at the top-left. Pixel values follow either the {0,1} or the
// {0,255} convention; Binarized collapses both into {0,1} using the
// single documented rule: when any value exceeds 1, a pixel is foreground
// iff its value exceeds 127.
type Mask struct {
	Height int     `json:"height"`
	Width  int     `json:"width"`
	Pix    []uint8 `json:"pix"`
}

// NewMask creates an all-background mask of the given dimensions.
func NewMask(height, width int) (*Mask, error) {
	if err := checkDims(height, width); err != nil {
		return nil, err
	}
	return &Mask{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width),
	}, nil
}

// NewMaskFromPix creates a mask over an existing row-major pixel buffer.
// The buffer is not copied; the mask takes ownership.
func NewMaskFromPix(height, width int, pix []uint8) (*Mask, error) {
	m := &Mask{Height: height, Width: width, Pix: pix}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func checkDims(height, width int) error {
	if height < 0 || width < 0 {
		return fmt.Errorf("mask dimensions must be non-negative, got %dx%d", height, width)
	}
	if height > MaxDim || width > MaxDim {
		return fmt.Errorf("mask dimensions %dx%d exceed the maximum of %d", height, width, MaxDim)
	}
	return nil
}

// Validate checks the mask invariants: non-negative dimensions that fit
// the 16-bit wire fields, and a pixel buffer of exactly height*width values.
func (m *Mask) Validate() error {
	if err := checkDims(m.Height, m.Width); err != nil {
		return err
	}
	if len(m.Pix) != m.Height*m.Width {
		return fmt.Errorf("pixel buffer has %d values, expected %d for %dx%d",
			len(m.Pix), m.Height*m.Width, m.Height, m.Width)
	}
	return nil
}

// Len returns the number of pixels in the mask.
func (m *Mask) Len() int {
	return m.Height * m.Width
}

// At returns the pixel value at the given row and column.
func (m *Mask) At(row, col int) uint8 {
	return m.Pix[row*m.Width+col]
}

// Set assigns the pixel value at the given row and column.
func (m *Mask) Set(row, col int, v uint8) {
	m.Pix[row*m.Width+col] = v
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Mask{Height: m.Height, Width: m.Width, Pix: pix}
}

// Binarized returns a new {0,1} pixel buffer for the mask. When every
// value is already 0 or 1 the buffer is copied as-is; otherwise values
// above 127 map to 1 and the rest to 0.
func (m *Mask) Binarized() []uint8 {
	out := make([]uint8, len(m.Pix))
	wide := false
	for _, v := range m.Pix {
		if v > 1 {
			wide = true
			break
		}
	}
	if !wide {
		copy(out, m.Pix)
		return out
	}
	for i, v := range m.Pix {
		if v > 127 {
			out[i] = 1
		}
	}
	return out
}

// ForegroundCount returns the number of foreground pixels under the
// mask's binarization rule.
func (m *Mask) ForegroundCount() int {
	count := 0
	for _, v := range m.Binarized() {
		if v != 0 {
			count++
		}
	}
	return count
}

// Coverage returns the fraction of the mask that is foreground, in the
// [0,1] range. A zero-pixel mask has coverage 0.
func (m *Mask) Coverage() float64 {
	if m.Len() == 0 {
		return 0
	}
	return float64(m.ForegroundCount()) / float64(m.Len())
}

// ToGray renders the mask as a grayscale image, copying pixel values
// verbatim from the mask buffer.
func (m *Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for row := 0; row < m.Height; row++ {
		copy(img.Pix[row*img.Stride:row*img.Stride+m.Width], m.Pix[row*m.Width:(row+1)*m.Width])
	}
	return img
}

// FromGray builds a mask from a grayscale image, copying pixel values
// verbatim.
func FromGray(img *image.Gray) *Mask {
	bounds := img.Bounds()
	height, width := bounds.Dy(), bounds.Dx()
	pix := make([]uint8, height*width)
	for row := 0; row < height; row++ {
		off := (bounds.Min.Y-img.Rect.Min.Y+row)*img.Stride + (bounds.Min.X - img.Rect.Min.X)
		copy(pix[row*width:(row+1)*width], img.Pix[off:off+width])
	}
	return &Mask{Height: height, Width: width, Pix: pix}
}

// Rect is a pixel-space rectangle within a mask.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Area returns the area of the rectangle.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Box represents a normalized bounding box with coordinates in [0,1] range
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}
