package geometry

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/menta2k/segmask/pkg/types"
)

// Resize scales a mask to the target dimensions using nearest-neighbor
// sampling, which preserves the mask's binary pixel values.
func Resize(m *types.Mask, width, height int) (*types.Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("target dimensions must be positive, got %dx%d", height, width)
	}
	if height > types.MaxDim || width > types.MaxDim {
		return nil, fmt.Errorf("target dimensions %dx%d exceed the maximum of %d", height, width, types.MaxDim)
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("cannot resize a zero-pixel mask")
	}

	resized := imaging.Resize(m.ToGray(), width, height, imaging.NearestNeighbor)

	pix := make([]uint8, height*width)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			// NRGBA of a grayscale source has R == G == B.
			pix[row*width+col] = resized.Pix[row*resized.Stride+col*4]
		}
	}
	return &types.Mask{Height: height, Width: width, Pix: pix}, nil
}
