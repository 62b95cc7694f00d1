// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"brandshot/internal/models"
)

func TestFallbackPromptScenario(t *testing.T) {
	got := FallbackPrompt("A red bicycle", testContext(), "")
	want := "A red bicycle, Bold pop-art style with primary colors style, high quality, professional"
	if got != want {
		t.Errorf("FallbackPrompt:\n got %q\nwant %q", got, want)
	}
}

func TestFallbackPrompt(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		palette  []string
		feedback string
		want     string
	}{
		{
			name: "no context",
			want: "cat, high quality, professional",
		},
		{
			name:  "style guide limited to ten words",
			style: "one two three four five six seven eight nine ten eleven twelve",
			want:  "cat, one two three four five six seven eight nine ten style, high quality, professional",
		},
		{
			name:    "palette limited to three colors",
			palette: []string{"red", "green", "blue", "black"},
			want:    "cat, red, green, blue colors, high quality, professional",
		},
		{
			name:     "feedback limited to fifteen words",
			feedback: "a b c d e f g h i j k l m n o p q",
			want:     "cat, a b c d e f g h i j k l m n o, high quality, professional",
		},
		{
			name:     "blank feedback ignored",
			feedback: "   ",
			want:     "cat, high quality, professional",
		},
		{
			name:     "all parts in order",
			style:    "Minimal",
			palette:  []string{"#fff"},
			feedback: "more contrast",
			want:     "cat, Minimal style, #fff colors, more contrast, high quality, professional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := Context{StyleGuide: tt.style, Palette: tt.palette}
			if got := FallbackPrompt("cat", gc, tt.feedback); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestFallbackPromptTruncates(t *testing.T) {
	raw := strings.Repeat("é", 1200)
	got := FallbackPrompt(raw, Context{}, "")
	if n := utf8.RuneCountInString(got); n != 1000 {
		t.Errorf("rune count = %d, want 1000", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated prompt should end with ...")
	}
	if !strings.HasPrefix(got, strings.Repeat("é", 997)) {
		t.Error("truncated prompt should keep the first 997 runes")
	}
}

func TestOptimizeFallsBackOnQuotaAndAuth(t *testing.T) {
	for _, err := range []error{errQuota, errAuth} {
		text := &fakeText{errs: []error{err}}
		o := NewOptimizer(text)

		got, gotErr := o.Optimize(context.Background(), "A red bicycle", testContext(), nil, "", nil)
		if gotErr != nil {
			t.Fatalf("Optimize(%v): unexpected error %v", err, gotErr)
		}
		want := "A red bicycle, Bold pop-art style with primary colors style, high quality, professional"
		if got != want {
			t.Errorf("Optimize(%v) = %q, want %q", err, got, want)
		}
		if text.calls != 1 {
			t.Errorf("provider calls = %d, want 1 (fallback itself must not call)", text.calls)
		}
	}
}

func TestOptimizeOtherErrorsFail(t *testing.T) {
	for _, err := range []error{errServer, errPlain} {
		o := NewOptimizer(&fakeText{errs: []error{err}})
		_, gotErr := o.Optimize(context.Background(), "x", testContext(), nil, "", nil)
		if gotErr == nil {
			t.Fatalf("Optimize(%v): expected error", err)
		}
		if !strings.HasPrefix(gotErr.Error(), "optimization failed: ") {
			t.Errorf("error = %q", gotErr)
		}
	}

	o := NewOptimizer(&fakeText{errs: []error{errServer}})
	_, err := o.Optimize(context.Background(), "x", testContext(), nil, "", nil)
	if err.Error() != "optimization failed: The server had an error" {
		t.Errorf("error = %q", err)
	}
}

func TestOptimizeSendsPromptsAndTrims(t *testing.T) {
	text := &fakeText{reply: "  A vivid red bicycle, pop-art  \n"}
	o := NewOptimizer(text)

	got, err := o.Optimize(context.Background(), "A red bicycle", testContext(), nil, "brighter", nil)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if got != "A vivid red bicycle, pop-art" {
		t.Errorf("result not trimmed: %q", got)
	}

	req := text.requests[0]
	if req.MaxTokens != 1000 || req.Temperature != 0.7 {
		t.Errorf("MaxTokens=%d Temperature=%v", req.MaxTokens, req.Temperature)
	}
	wantUser := "Raw prompt to optimize: \"A red bicycle\"\n\nPrevious feedback to incorporate: \"brighter\""
	if req.User != wantUser {
		t.Errorf("user prompt = %q", req.User)
	}
	if !strings.Contains(req.System, "- Style Guide: Bold pop-art style with primary colors") {
		t.Errorf("system prompt missing style guide:\n%s", req.System)
	}
}

func TestUserPromptWithoutFeedback(t *testing.T) {
	if got := UserPrompt("cat", "  "); got != `Raw prompt to optimize: "cat"` {
		t.Errorf("UserPrompt = %q", got)
	}
}

func TestSystemPromptOrderAndOmissions(t *testing.T) {
	gc := testContext()
	gc.CampaignType = models.CampaignTypeSeasonal
	gc.TargetAudience = "Teens"
	gc.ImageRequirements = []string{"No text", "Centered"}
	gc.ImageSpecifications = models.ImageSpecifications{AspectRatio: "16:9", Format: "PNG"}
	gc.Palette = []string{"red", "blue"}
	gc.SloganTemplates = []string{"Spring into {x}", "Fresh {y}"}
	gc.ProjectReferenceImages = []models.ReferenceImage{{Name: "logo", Description: "flat logo"}}

	sys := SystemPrompt(gc, nil, nil)

	order := []string{
		"PROJECT CONTEXT:",
		"- Project: Acme",
		"- Style Guide: Bold pop-art",
		`- Project Reference Images: "logo" (flat logo)`,
		"CAMPAIGN CONTEXT:",
		"- Campaign: Spring",
		"- Description: Spring sale",
		"- Campaign Type: Seasonal",
		"- Target Audience: Teens",
		"- Image Requirements: No text; Centered",
		"- Image Specifications: Aspect Ratio: 16:9, Format: PNG",
		"- Color Palette: red, blue",
		"- Slogan Templates: Spring into {x}; Fresh {y}",
		"Guidelines:",
		"Return only the optimized prompt, no additional commentary.",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(sys, s)
		if i < 0 {
			t.Fatalf("system prompt missing %q:\n%s", s, sys)
		}
		if i < last {
			t.Errorf("%q out of order", s)
		}
		last = i
	}

	for _, absent := range []string{"Resolution:", "PINNED REFERENCE", "UPLOADED REFERENCE", "Campaign Reference Images"} {
		if strings.Contains(sys, absent) {
			t.Errorf("system prompt should omit %q", absent)
		}
	}

	if strings.Contains(SystemPrompt(testContext(), nil, nil), "Campaign Type:") {
		t.Error("campaign type Other must be omitted")
	}
}

func TestSystemPromptPinnedNumbering(t *testing.T) {
	pinned := []models.Reference{
		{Caption: "hero", FinalPrompt: "first prompt", Tier: models.TierProject},
		{Caption: "banner", FinalPrompt: "second prompt", Tier: models.TierCampaign},
		{Caption: "story", FinalPrompt: "third prompt", Tier: models.TierCampaign},
	}
	sys := SystemPrompt(testContext(), pinned, nil)

	want := "PINNED REFERENCE EXAMPLES (use these as style/quality references):\n" +
		"1. hero: \"first prompt\"\n" +
		"2. banner: \"second prompt\"\n" +
		"3. story: \"third prompt\""
	if !strings.Contains(sys, want) {
		t.Errorf("pinned block not found in:\n%s", sys)
	}
}

func TestSystemPromptUploadedImages(t *testing.T) {
	imgs := []models.ReferenceImage{
		{Name: "Mood", Description: "warm light", Tags: []string{"warm", "soft"}, Notes: "evening"},
		{Name: "Bare"},
	}
	sys := SystemPrompt(testContext(), nil, imgs)

	want := "UPLOADED REFERENCE IMAGES (consider these visual styles and themes):\n" +
		"1. \"Mood\": warm light [Tags: warm, soft] (Notes: evening)\n" +
		"2. \"Bare\""
	if !strings.Contains(sys, want) {
		t.Errorf("uploaded block not found in:\n%s", sys)
	}
}
