package charts

import (
	"image/color"
	"strings"
)

// DefaultColor is used for bars without a color of their own
const DefaultColor = "steelblue"

var named = map[string]color.RGBA{
	"steelblue": {R: 70, G: 130, B: 180, A: 255},
	"skyblue":   {R: 135, G: 206, B: 235, A: 255},
	"indianred": {R: 205, G: 92, B: 92, A: 255},
	"seagreen":  {R: 46, G: 139, B: 87, A: 255},
	"orange":    {R: 255, G: 165, B: 0, A: 255},
	"gold":      {R: 255, G: 215, B: 0, A: 255},
	"orchid":    {R: 218, G: 112, B: 214, A: 255},
	"slategray": {R: 112, G: 128, B: 144, A: 255},
	"tomato":    {R: 255, G: 99, B: 71, A: 255},
	"teal":      {R: 0, G: 128, B: 128, A: 255},
}

var palette = []string{"steelblue", "orange", "seagreen", "indianred", "orchid", "gold", "teal", "slategray", "skyblue", "tomato"}

// namedColor resolves a color name, falling back to fallback
func namedColor(name, fallback string) color.Color {
	if c, ok := named[strings.ToLower(name)]; ok {
		return c
	}
	return named[fallback]
}

// Palette returns the i-th categorical color, cycling
func Palette(i int) color.Color {
	return named[PaletteName(i)]
}

// PaletteName returns the name of the i-th categorical color
func PaletteName(i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
