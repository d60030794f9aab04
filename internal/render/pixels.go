package render

import (
	"image"
	"image/color"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Image renders cells of a w×h grid at the given pixel scale.
func Image(cells []uint8, w, h, scale int, palette []color.RGBA) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := make([]byte, 4*w*h)
	fillPaletteRGBA(src, cells, palette)
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h*scale; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w*scale]
		srcRow := src[(y/scale)*4*w : (y/scale+1)*4*w]
		for x := 0; x < w*scale; x++ {
			copy(row[4*x:4*x+4], srcRow[4*(x/scale):4*(x/scale)+4])
		}
	}
	return img
}
