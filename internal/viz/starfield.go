package viz

import (
	"image"
	"image/color"
	"math/rand/v2"
)

// Starfield renders count white pixels scattered over a black w x h image.
// The same seed always yields the same sky.
func Starfield(w, h, count int, seed uint64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return img
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := 0; i < count; i++ {
		img.SetGray(rng.IntN(w), rng.IntN(h), color.Gray{Y: 0xff})
	}
	return img
}
