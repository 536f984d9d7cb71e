package core

import (
	"fmt"
	"strconv"
)

// Color is a cell color as a "#rrggbb" hex string.
// The empty string means the terminal default.
type Color string

// Colors used by the arena beyond the snakes' own colors.
const (
	ColorDefault Color = ""
	ColorBlack   Color = "#000000"
	ColorWhite   Color = "#ffffff"
	ColorFood    Color = "#ffcc00"
	ColorTile    Color = "#2b2b45"
	ColorHUD     Color = "#e5e5e5"
)

// Blend mixes c toward o by t, where 0 keeps c and 1 gives o.
// If either color is not "#rrggbb", c is returned unchanged.
func (c Color) Blend(o Color, t float64) Color {
	r1, g1, b1, ok1 := c.rgb()
	r2, g2, b2, ok2 := o.rgb()
	if !ok1 || !ok2 {
		return c
	}
	t = min(max(t, 0), 1)
	mix := func(a, b int) int {
		return Clamp(int(float64(a)+float64(b-a)*t+0.5), 0, 255)
	}
	return Color(fmt.Sprintf("#%02x%02x%02x", mix(r1, r2), mix(g1, g2), mix(b1, b2)))
}

func (c Color) rgb() (r, g, b int, ok bool) {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
