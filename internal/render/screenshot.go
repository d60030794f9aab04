package render

import (
	"image/color"
	"image/png"
	"os"
)

// SavePNG writes the cells as a PNG at path.
func SavePNG(path string, cells []uint8, w, h, scale int, palette []color.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, Image(cells, w, h, scale, palette)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
