// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextLine is one horizontally centred line of placeholder text. Y is the
// baseline in output pixels; Scale multiplies the 7x13 bitmap font.
type TextLine struct {
	Text  string
	Y     int
	Scale int
	Color color.Color
}

// Placeholder renders a diagonal gradient from one colour to another with
// centred text lines and returns it PNG-encoded.
func Placeholder(width, height int, from, to color.RGBA, lines []TextLine) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("placeholder: invalid size %dx%d", width, height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	span := float64(width + height - 2)
	if span <= 0 {
		span = 1
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := float64(x+y) / span
			dst.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 255,
			})
		}
	}

	face := basicfont.Face7x13
	for _, line := range lines {
		if line.Text == "" {
			continue
		}
		scale := max(1, line.Scale)
		c := line.Color
		if c == nil {
			c = color.White
		}

		// Draw at 1x on a transparent canvas, then scale it up onto dst.
		adv := font.MeasureString(face, line.Text).Ceil()
		small := image.NewRGBA(image.Rect(0, 0, adv, face.Height))
		d := &font.Drawer{
			Dst:  small,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.P(0, face.Ascent),
		}
		d.DrawString(line.Text)

		w, h := adv*scale, face.Height*scale
		x0 := (width - w) / 2
		y0 := line.Y - face.Ascent*scale
		draw.NearestNeighbor.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), small, small.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("placeholder: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
