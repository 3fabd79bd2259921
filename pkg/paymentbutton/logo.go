package paymentbutton

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaleToHeight resizes src to height h preserving its aspect ratio.
// A nil source or non-positive height returns nil.
func ScaleToHeight(src image.Image, h int) image.Image {
	if src == nil || h <= 0 {
		return nil
	}
	sb := src.Bounds()
	if sb.Dy() <= 0 || sb.Dx() <= 0 {
		return nil
	}
	if sb.Dy() == h {
		return src
	}

	w := (sb.Dx()*h + sb.Dy()/2) / sb.Dy()
	if w < 1 {
		w = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}
