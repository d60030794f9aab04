package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFillPaletteRGBAClampsIndices(t *testing.T) {
	buf := make([]byte, 12)
	palette := []color.RGBA{{1, 2, 3, 4}, {5, 6, 7, 8}}
	fillPaletteRGBA(buf, []uint8{0, 1, 9}, palette)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 5, 6, 7, 8}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf = %v, want %v", buf, want)
		}
	}
}

func TestFillPaletteRGBAEmptyPalette(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	fillPaletteRGBA(buf, []uint8{1}, nil)
	for _, b := range buf {
		if b != 0 {
			t.Fatalf("buf = %v, want cleared", buf)
		}
	}
}

func TestPaletteCoversEveryState(t *testing.T) {
	cases := map[string]int{
		"life":        2,
		"wireworld":   4,
		"bml":         3,
		"briansbrain": 3,
		"nasch":       1 + 4*6,
		"unknown":     5,
	}
	for sim, n := range cases {
		if got := len(Palette(sim, n)); got != n {
			t.Fatalf("Palette(%q) has %d colours, want %d", sim, got, n)
		}
	}
}

func TestTrafficPaletteBrightensWithSpeed(t *testing.T) {
	p := Palette("nasch", 1+4*3)
	slow, fast := p[1], p[3]
	if fast.B <= slow.B {
		t.Fatalf("east-bound fast car %v should be brighter than slow %v", fast, slow)
	}
	if p[0] != road {
		t.Fatalf("empty cell colour = %v", p[0])
	}
}

func TestImageScalesCells(t *testing.T) {
	img := Image([]uint8{0, 1, 1, 0}, 2, 2, 3, []color.RGBA{black, white})
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 6 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if img.RGBAAt(4, 1) != white || img.RGBAAt(1, 1) != black || img.RGBAAt(2, 5) != white {
		t.Fatal("scaled pixels do not match their cells")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot0.png")
	if err := SavePNG(path, []uint8{0, 1, 2}, 3, 1, 2, Palette("bml", 3)); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{0x0a, 0xff, 0x10, 0xff}); got != "#0aff10" {
		t.Fatalf("Hex = %q", got)
	}
}
