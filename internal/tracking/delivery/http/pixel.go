package http

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// transparentPixel is a 1x1 fully transparent PNG.
var transparentPixel = mustEncodePixel()

func mustEncodePixel() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
