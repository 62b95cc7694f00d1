// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import "strings"

const (
	maxPromptRunes    = 1000
	styleWordLimit    = 10
	paletteLimit      = 3
	feedbackWordLimit = 15
)

// FallbackPrompt enhances a raw prompt without any provider call: style
// guide words, palette colours, and feedback are appended, followed by
// fixed quality descriptors. The result never exceeds 1000 runes.
func FallbackPrompt(rawPrompt string, gc Context, feedback string) string {
	var sb strings.Builder
	sb.WriteString(rawPrompt)

	if words := strings.Fields(gc.StyleGuide); len(words) > 0 {
		sb.WriteString(", ")
		sb.WriteString(strings.Join(firstN(words, styleWordLimit), " "))
		sb.WriteString(" style")
	}

	if len(gc.Palette) > 0 {
		sb.WriteString(", ")
		sb.WriteString(strings.Join(firstN(gc.Palette, paletteLimit), ", "))
		sb.WriteString(" colors")
	}

	if words := strings.Fields(feedback); len(words) > 0 {
		sb.WriteString(", ")
		sb.WriteString(strings.Join(firstN(words, feedbackWordLimit), " "))
	}

	sb.WriteString(", high quality, professional")

	out := sb.String()
	if r := []rune(out); len(r) > maxPromptRunes {
		out = string(r[:maxPromptRunes-3]) + "..."
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
