package field

import "image/color"

// Fade scales the alpha of c by alpha (0..1).
func Fade(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(float64(c.A)*alpha + 0.5)
	return c
}
