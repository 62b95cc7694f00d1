// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brandshot/internal/ai"
	"brandshot/internal/models"
)

const (
	optimizeMaxTokens   = 1000
	optimizeTemperature = 0.7
)

// Completer is the text-completion side of a provider. *ai.Registry
// satisfies it.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// StepError reports which pipeline step failed, carrying the provider's
// message. Error() reads "<step> failed: <message>".
type StepError struct {
	Step    string
	Message string
	Err     error
}

func (e *StepError) Error() string { return e.Step + " failed: " + e.Message }

func (e *StepError) Unwrap() error { return e.Err }

// Optimizer rewrites raw prompts into detailed image prompts.
type Optimizer struct {
	text Completer
}

// NewOptimizer creates an optimizer backed by the given text provider.
func NewOptimizer(text Completer) *Optimizer {
	return &Optimizer{text: text}
}

// Optimize asks the text provider for an enhanced prompt. Quota and
// authentication failures fall back to a local template; any other provider
// error is returned as an optimization failure.
func (o *Optimizer) Optimize(ctx context.Context, rawPrompt string, gc Context, pinned []models.Reference, feedback string, refImages []models.ReferenceImage) (string, error) {
	out, err := o.text.Complete(ctx, ai.CompletionRequest{
		System:      SystemPrompt(gc, pinned, refImages),
		User:        UserPrompt(rawPrompt, feedback),
		MaxTokens:   optimizeMaxTokens,
		Temperature: optimizeTemperature,
	})
	if err != nil {
		if ai.IsQuotaOrAuth(err) {
			slog.Warn("prompt optimizer using fallback", "error", err)
			return FallbackPrompt(rawPrompt, gc, feedback), nil
		}
		return "", &StepError{Step: "optimization", Message: ai.Message(err), Err: err}
	}
	return strings.TrimSpace(out), nil
}

// SystemPrompt builds the instruction block for the optimizer. Sections
// appear in a fixed order and absent fields are left out entirely.
func SystemPrompt(gc Context, pinned []models.Reference, refImages []models.ReferenceImage) string {
	var sb strings.Builder

	sb.WriteString("You are an expert AI image generation prompt optimizer. ")
	sb.WriteString("Your task is to enhance user prompts for DALL-E 3 image generation.\n\n")

	sb.WriteString("PROJECT CONTEXT:\n")
	fmt.Fprintf(&sb, "- Project: %s\n", gc.ProjectName)
	fmt.Fprintf(&sb, "- Style Guide: %s", gc.StyleGuide)
	if len(gc.ProjectReferenceImages) > 0 {
		fmt.Fprintf(&sb, "\n- Project Reference Images: %s", describeImages(gc.ProjectReferenceImages))
	}

	sb.WriteString("\n\nCAMPAIGN CONTEXT:\n")
	fmt.Fprintf(&sb, "- Campaign: %s\n", gc.CampaignName)
	fmt.Fprintf(&sb, "- Description: %s", gc.CampaignDescription)
	if gc.CampaignType != "" && gc.CampaignType != models.CampaignTypeOther {
		fmt.Fprintf(&sb, "\n- Campaign Type: %s", gc.CampaignType)
	}
	if gc.TargetAudience != "" {
		fmt.Fprintf(&sb, "\n- Target Audience: %s", gc.TargetAudience)
	}
	if len(gc.ImageRequirements) > 0 {
		fmt.Fprintf(&sb, "\n- Image Requirements: %s", strings.Join(gc.ImageRequirements, "; "))
	}
	if specs := describeSpecs(gc.ImageSpecifications); specs != "" {
		fmt.Fprintf(&sb, "\n- Image Specifications: %s", specs)
	}
	if len(gc.Palette) > 0 {
		fmt.Fprintf(&sb, "\n- Color Palette: %s", strings.Join(gc.Palette, ", "))
	}
	if len(gc.SloganTemplates) > 0 {
		fmt.Fprintf(&sb, "\n- Slogan Templates: %s", strings.Join(gc.SloganTemplates, "; "))
	}
	if len(gc.CampaignReferenceImages) > 0 {
		fmt.Fprintf(&sb, "\n- Campaign Reference Images: %s", describeImages(gc.CampaignReferenceImages))
	}

	if len(pinned) > 0 {
		sb.WriteString("\n\nPINNED REFERENCE EXAMPLES (use these as style/quality references):")
		for i, ref := range pinned {
			if ref.FinalPrompt == "" {
				continue
			}
			fmt.Fprintf(&sb, "\n%d. %s: %q", i+1, ref.Caption, ref.FinalPrompt)
		}
	}

	if len(refImages) > 0 {
		sb.WriteString("\n\nUPLOADED REFERENCE IMAGES (consider these visual styles and themes):")
		for i, img := range refImages {
			fmt.Fprintf(&sb, "\n%d. %q", i+1, img.Name)
			if img.Description != "" {
				fmt.Fprintf(&sb, ": %s", img.Description)
			}
			if len(img.Tags) > 0 {
				fmt.Fprintf(&sb, " [Tags: %s]", strings.Join(img.Tags, ", "))
			}
			if img.Notes != "" {
				fmt.Fprintf(&sb, " (Notes: %s)", img.Notes)
			}
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(guidelines)
	return sb.String()
}

const guidelines = `Guidelines:
- Enhance the prompt while maintaining the user's core intent
- Incorporate relevant project style guide elements
- Use campaign context to inform the visual direction
- Consider the uploaded reference images for style and thematic inspiration
- If color palette is specified, include relevant colors
- Respect image requirements and specifications
- Make prompts specific and detailed for better results
- Include technical quality descriptors (high resolution, professional, etc.)
- Ensure the prompt works well with DALL-E 3's capabilities
- Keep the enhanced prompt under 1000 characters

Return only the optimized prompt, no additional commentary.`

// UserPrompt is the user turn sent with the system prompt.
func UserPrompt(rawPrompt, feedback string) string {
	s := fmt.Sprintf("Raw prompt to optimize: %q", rawPrompt)
	if strings.TrimSpace(feedback) != "" {
		s += fmt.Sprintf("\n\nPrevious feedback to incorporate: %q", feedback)
	}
	return s
}

func describeImages(imgs []models.ReferenceImage) string {
	parts := make([]string, len(imgs))
	for i, img := range imgs {
		parts[i] = fmt.Sprintf("%q (%s)", img.Name, img.Description)
	}
	return strings.Join(parts, ", ")
}

func describeSpecs(s models.ImageSpecifications) string {
	var specs []string
	if s.AspectRatio != "" {
		specs = append(specs, "Aspect Ratio: "+s.AspectRatio)
	}
	if s.Resolution != "" {
		specs = append(specs, "Resolution: "+s.Resolution)
	}
	if s.Format != "" {
		specs = append(specs, "Format: "+s.Format)
	}
	return strings.Join(specs, ", ")
}
