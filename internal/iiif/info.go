package iiif

import "math/big"

// ImageInfo is the subset of an Image API info.json response that the
// presentation layer needs.
type ImageInfo struct {
	URI     string
	Context any
	Profile any
	Width   int
	Height  int
}

// AspectRatio returns width/height as an exact rational. Thumbnail heights
// are derived with integer arithmetic on this ratio so repeated requests
// produce identical pixel dimensions.
func (i ImageInfo) AspectRatio() *big.Rat {
	return big.NewRat(int64(i.Width), int64(i.Height))
}

// scaledHeight returns floor(width / ratio).
func scaledHeight(width int, ratio *big.Rat) int {
	h := new(big.Rat).SetInt64(int64(width))
	h.Quo(h, ratio)
	return int(new(big.Int).Quo(h.Num(), h.Denom()).Int64())
}
