package state

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
)

// Swatch is a named pen color offered by the toolbar.
type Swatch struct {
	Name  string
	Color color.NRGBA
}

// Palette is the fixed set of pen colors, in toolbar order.
var Palette = []Swatch{
	{Name: "black", Color: color.NRGBA{A: 255}},
	{Name: "red", Color: color.NRGBA{R: 255, A: 255}},
	{Name: "green", Color: color.NRGBA{G: 255, A: 255}},
	{Name: "blue", Color: color.NRGBA{B: 255, A: 255}},
	{Name: "yellow", Color: color.NRGBA{R: 255, G: 255, A: 255}},
}

// ParseColor accepts a palette name or a "#rgb"/"#rrggbb"/"#rrggbbaa" hex value.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, sw := range Palette {
		if sw.Name == s {
			return sw.Color, nil
		}
	}
	if s == "white" {
		return Background, nil
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 6, 8:
	default:
		return nil, fmt.Errorf("unknown color %q", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return nil, fmt.Errorf("unknown color %q", s)
		}
	}
	return color.NRGBAModel.Convert(gg.Hex(hex).Color()), nil
}

// ColorHex formats c as "#rrggbb", the form the browser client sends.
func ColorHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
