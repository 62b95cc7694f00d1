// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"time"

	"brandshot/internal/imaging"
)

const (
	demoSide         = 1024
	demoPromptRunes  = 50
	demoRevisedLabel = "[DEMO MODE] "
)

var (
	demoFrom = color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff}
	demoTo   = color.RGBA{R: 0x76, G: 0x4b, B: 0xa2, A: 0xff}
)

// DemoImage renders the demo placeholder for prompt as an inline PNG.
func DemoImage(prompt, size string, now time.Time) (*Image, error) {
	shown := prompt
	if r := []rune(prompt); len(r) > demoPromptRunes {
		shown = string(r[:demoPromptRunes]) + "..."
	}

	png, err := imaging.Placeholder(demoSide, demoSide, demoFrom, demoTo, []imaging.TextLine{
		{Text: "DEMO IMAGE", Y: 400, Scale: 5},
		{Text: "Generated for:", Y: 460, Scale: 3, Color: color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}},
		{Text: shown, Y: 520, Scale: 2},
		{Text: "Provider quota exceeded - using demo mode", Y: 600, Scale: 2, Color: color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}},
	})
	if err != nil {
		return nil, fmt.Errorf("render demo image: %w", err)
	}

	return &Image{
		Locator:       "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		RevisedPrompt: demoRevisedLabel + prompt,
		Metadata: Metadata{
			Model:     "demo-mode",
			Size:      size,
			Quality:   "demo",
			Timestamp: now.UTC(),
			Demo:      true,
		},
	}, nil
}
