// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// GenerationSettings describes the provider parameters that produced an image.
type GenerationSettings struct {
	Model   string `json:"model"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Demo    bool   `json:"demo,omitempty"`
}

// GenerationLog is written next to every stored asset so a result can be
// traced back to the prompts that produced it.
type GenerationLog struct {
	Timestamp          time.Time          `json:"timestamp"`
	RawPrompt          string             `json:"rawPrompt"`
	ImprovedPrompt     string             `json:"improvedPrompt"`
	RevisedPrompt      string             `json:"revisedPrompt,omitempty"`
	ImagePath          string             `json:"imagePath"`
	Status             RequestStatus      `json:"status"`
	Feedback           string             `json:"feedback,omitempty"`
	Attempt            int                `json:"attempt"`
	GenerationSettings GenerationSettings `json:"generationSettings"`
}
