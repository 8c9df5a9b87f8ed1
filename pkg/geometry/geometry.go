// Package geometry provides bounding-box extraction, multi-mask
// combination, and shape operations over binary masks.
package geometry

import (
	"errors"
	"fmt"

	"github.com/menta2k/segmask/pkg/types"
)

// ErrNoMasks is returned by Combine when given no masks.
var ErrNoMasks = errors.New("no masks to combine")

// ErrShapeMismatch is returned by Combine when the input masks do not
// share identical dimensions.
var ErrShapeMismatch = errors.New("masks have mismatched shapes")

// BoundingRect returns the smallest pixel-space rectangle enclosing all
// foreground pixels. ok is false when the mask has no foreground.
func BoundingRect(m *types.Mask) (types.Rect, bool) {
	minRow, minCol := m.Height, m.Width
	maxRow, maxCol := -1, -1

	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			if m.At(row, col) == 0 {
				continue
			}
			if row < minRow {
				minRow = row
			}
			if row > maxRow {
				maxRow = row
			}
			if col < minCol {
				minCol = col
			}
			if col > maxCol {
				maxCol = col
			}
		}
	}

	if maxRow < 0 {
		return types.Rect{}, false
	}
	return types.Rect{
		X:      minCol,
		Y:      minRow,
		Width:  maxCol - minCol + 1,
		Height: maxRow - minRow + 1,
	}, true
}

// BoundingBox returns the normalized bounding box of the mask's
// foreground. A mask with no foreground pixels yields the full-frame box
// (0,0,1,1) so callers always receive a usable region.
func BoundingBox(m *types.Mask) types.Box {
	r, ok := BoundingRect(m)
	if !ok {
		return types.Box{X: 0, Y: 0, W: 1, H: 1}
	}
	return types.Box{
		X: float64(r.X) / float64(m.Width),
		Y: float64(r.Y) / float64(m.Height),
		W: float64(r.Width) / float64(m.Width),
		H: float64(r.Height) / float64(m.Height),
	}
}

// Combine merges masks into one by weighted majority vote: a pixel is
// foreground in the result iff the weighted sum of its binarized values
// strictly exceeds half the total weight, so an exact tie resolves to
// background. A nil weights slice assigns every mask weight 1.0. All
// masks must share identical dimensions.
func Combine(masks []*types.Mask, weights []float64) (*types.Mask, error) {
	if len(masks) == 0 {
		return nil, ErrNoMasks
	}
	if weights == nil {
		weights = make([]float64, len(masks))
		for i := range weights {
			weights[i] = 1.0
		}
	}
	if len(weights) != len(masks) {
		return nil, fmt.Errorf("got %d weights for %d masks", len(weights), len(masks))
	}

	height, width := masks[0].Height, masks[0].Width
	for i, m := range masks[1:] {
		if m.Height != height || m.Width != width {
			return nil, fmt.Errorf("%w: mask 0 is %dx%d, mask %d is %dx%d",
				ErrShapeMismatch, height, width, i+1, m.Height, m.Width)
		}
	}

	totalWeight := 0.0
	for _, w := range weights {
		totalWeight += w
	}
	threshold := 0.5 * totalWeight

	sums := make([]float64, height*width)
	for i, m := range masks {
		for j, v := range m.Binarized() {
			sums[j] += float64(v) * weights[i]
		}
	}

	pix := make([]uint8, height*width)
	for i, sum := range sums {
		if sum > threshold {
			pix[i] = types.Foreground
		}
	}
	return &types.Mask{Height: height, Width: width, Pix: pix}, nil
}

// Crop extracts the sub-mask under r, clamped to the mask bounds. Pairs
// with BoundingRect to trim a mask to its foreground extent.
func Crop(m *types.Mask, r types.Rect) (*types.Mask, error) {
	x0, y0 := r.X, r.Y
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	x1, y1 := r.X+r.Width, r.Y+r.Height
	if x1 > m.Width {
		x1 = m.Width
	}
	if y1 > m.Height {
		y1 = m.Height
	}
	if x1 < x0 || y1 < y0 {
		return nil, fmt.Errorf("rect (%d,%d %dx%d) lies outside the %dx%d mask",
			r.X, r.Y, r.Width, r.Height, m.Height, m.Width)
	}

	width, height := x1-x0, y1-y0
	pix := make([]uint8, height*width)
	for row := 0; row < height; row++ {
		src := (y0+row)*m.Width + x0
		copy(pix[row*width:(row+1)*width], m.Pix[src:src+width])
	}
	return &types.Mask{Height: height, Width: width, Pix: pix}, nil
}
