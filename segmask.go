// Package segmask provides the binary mask wire codec and mask geometry
// utilities used between an image-segmentation backend and its callers.
//
// A segmentation model produces rectangular binary pixel masks. This
// package serializes those masks into a compact, text-safe transport form
// (run-length encoding, zlib compression, base64) and reverses the
// process, and offers the geometry helpers a segmentation pipeline needs
// around that representation: normalized bounding boxes, weighted
// multi-mask combination, cropping, and resizing.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"github.com/menta2k/segmask"
//		"github.com/menta2k/segmask/pkg/types"
//	)
//
//	func main() {
//		toolkit := segmask.New()
//
//		// Build a mask with a foreground block
//		mask, err := types.NewMask(100, 100)
//		if err != nil {
//			log.Fatal(err)
//		}
//		for row := 20; row < 60; row++ {
//			for col := 30; col < 70; col++ {
//				mask.Set(row, col, types.Foreground)
//			}
//		}
//
//		// Serialize for transport and reconstruct
//		encoded, err := toolkit.Encode(mask)
//		if err != nil {
//			log.Fatal(err)
//		}
//		decoded, err := toolkit.Decode(encoded)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		box := toolkit.BoundingBox(decoded)
//		fmt.Printf("foreground box: (%.2f, %.2f) %.2fx%.2f\n", box.X, box.Y, box.W, box.H)
//	}
//
// The package consists of two main components:
//
// 1. Codec (pkg/rle): run-length encodes masks for transport and decodes
// them back, tolerating truncated run arrays and splitting runs too long
// for a single 16-bit length field.
//
// 2. Geometry (pkg/geometry): computes normalized bounding boxes,
// combines masks by weighted majority vote, and crops or resizes masks
// while preserving their binary values.
//
// Both components are pure functions over their inputs with no shared
// state, so concurrent callers need no coordination.
package segmask

import (
	"github.com/menta2k/segmask/pkg/geometry"
	"github.com/menta2k/segmask/pkg/rle"
	"github.com/menta2k/segmask/pkg/types"
)

// Version of the segmask library
const Version = "1.0.0"

// Toolkit provides a high-level interface over the mask codec and
// geometry operations.
type Toolkit struct {
	codec *rle.Codec
}

// New creates a new Toolkit with default configuration.
func New() *Toolkit {
	return &Toolkit{
		codec: rle.New(),
	}
}

// NewWithConfig creates a new Toolkit with custom codec configuration.
func NewWithConfig(codecConfig rle.Config) *Toolkit {
	return &Toolkit{
		codec: rle.NewWithConfig(codecConfig),
	}
}

// Encode serializes a mask to its base64 transport string.
func (t *Toolkit) Encode(m *types.Mask) (string, error) {
	return t.codec.Encode(m)
}

// Decode reconstructs a mask from its base64 transport string.
func (t *Toolkit) Decode(s string) (*types.Mask, error) {
	return t.codec.Decode(s)
}

// BoundingBox returns the normalized bounding box of the mask's
// foreground, or the full frame when the mask is empty.
func (t *Toolkit) BoundingBox(m *types.Mask) types.Box {
	return geometry.BoundingBox(m)
}

// BoundingRect returns the pixel-space bounding rectangle of the mask's
// foreground; ok is false when there is none.
func (t *Toolkit) BoundingRect(m *types.Mask) (types.Rect, bool) {
	return geometry.BoundingRect(m)
}

// Combine merges masks by weighted majority vote. A nil weights slice
// assigns every mask weight 1.0.
func (t *Toolkit) Combine(masks []*types.Mask, weights []float64) (*types.Mask, error) {
	return geometry.Combine(masks, weights)
}

// Crop extracts the sub-mask under a rectangle, clamped to the mask.
func (t *Toolkit) Crop(m *types.Mask, r types.Rect) (*types.Mask, error) {
	return geometry.Crop(m, r)
}

// Resize scales a mask to the target dimensions with nearest-neighbor
// sampling.
func (t *Toolkit) Resize(m *types.Mask, width, height int) (*types.Mask, error) {
	return geometry.Resize(m, width, height)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
