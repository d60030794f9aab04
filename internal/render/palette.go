package render

import (
	"fmt"
	"image/color"
)

var (
	black  = color.RGBA{0x00, 0x00, 0x00, 0xff}
	white  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	road   = color.RGBA{0xf2, 0xf2, 0xee, 0xff}
	red    = color.RGBA{0xd6, 0x2d, 0x20, 0xff}
	blue   = color.RGBA{0x1f, 0x5f, 0xd6, 0xff}
	yellow = color.RGBA{0xf0, 0xc0, 0x1c, 0xff}
	cyan   = color.RGBA{0x3c, 0xc8, 0xf0, 0xff}
)

// headingHues colour NaSch cars by direction: east, south, west, north.
var headingHues = [4]color.RGBA{
	{0x1f, 0x5f, 0xd6, 0xff},
	{0xd6, 0x2d, 0x20, 0xff},
	{0x2e, 0xa0, 0x4a, 0xff},
	{0xe0, 0x8a, 0x10, 0xff},
}

// Palette returns one colour per state index for the named simulation. Unknown
// simulations get a grey ramp.
func Palette(sim string, states int) []color.RGBA {
	switch sim {
	case "life", "elementary":
		return []color.RGBA{black, white}
	case "wireworld":
		return []color.RGBA{black, yellow, red, cyan}
	case "bml":
		return []color.RGBA{road, red, blue}
	case "briansbrain":
		return []color.RGBA{black, white, blue}
	case "nasch":
		return trafficPalette(states)
	}
	return greyRamp(states)
}

// trafficPalette expects Empty followed by four equal runs of speeds, one per
// heading. Faster cars are drawn brighter.
func trafficPalette(states int) []color.RGBA {
	speeds := (states - 1) / len(headingHues)
	if speeds <= 0 || 1+speeds*len(headingHues) != states {
		return greyRamp(states)
	}
	out := make([]color.RGBA, 0, states)
	out = append(out, road)
	for _, hue := range headingHues {
		for v := 0; v < speeds; v++ {
			out = append(out, shade(hue, 0.45+0.55*float64(v)/float64(max(speeds-1, 1))))
		}
	}
	return out
}

func greyRamp(states int) []color.RGBA {
	if states <= 1 {
		return []color.RGBA{black}
	}
	out := make([]color.RGBA, states)
	for i := range out {
		v := uint8(i * 255 / (states - 1))
		out[i] = color.RGBA{v, v, v, 0xff}
	}
	return out
}

func shade(c color.RGBA, f float64) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(min(float64(v)*f, 255)) }
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}

// Hex formats a colour as #rrggbb for terminal styling.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
