// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inference

import (
	"bytes"
	"fmt"
	"image"

	// Register the decoders for the formats users actually attach.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// =============================================================================
// IMAGE DECODING + FEATURE EXTRACTION
// =============================================================================

// DecodeImage decodes the raw bytes of an image, resizes it to a square of
// the given edge length with nearest-neighbor sampling, and returns a flat
// luminance feature vector with every value normalized into [0, 1].
//
// Empty or undecodable data fails with ErrDecode.
func DecodeImage(data []byte, edge int) ([]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrDecode)
	}
	if edge <= 0 {
		return nil, fmt.Errorf("invalid target edge %d", edge)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrDecode)
	}

	features := make([]float64, edge*edge)
	for y := 0; y < edge; y++ {
		// Nearest-neighbor: map each target pixel back to its source pixel.
		srcY := bounds.Min.Y + y*height/edge
		for x := 0; x < edge; x++ {
			srcX := bounds.Min.X + x*width/edge
			r, g, b, _ := img.At(srcX, srcY).RGBA()

			// RGBA returns 16-bit channels; average to luminance and
			// normalize by the channel maximum.
			lum := (float64(r) + float64(g) + float64(b)) / 3.0
			features[y*edge+x] = lum / 65535.0
		}
	}
	return features, nil
}
