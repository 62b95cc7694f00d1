// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Tier scopes an approved reference to a whole project or a single campaign.
type Tier string

const (
	TierProject  Tier = "project"
	TierCampaign Tier = "campaign"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierProject || t == TierCampaign
}

// Reference records an approved generation result. Pinned references are
// fed back into prompt optimization for later requests.
type Reference struct {
	RequestID   string    `json:"requestId"`
	ImagePath   string    `json:"imagePath"`
	FinalPrompt string    `json:"finalPrompt"`
	Caption     string    `json:"caption,omitempty"`
	Pinned      bool      `json:"pinned"`
	Tier        Tier      `json:"tier"`
	Created     time.Time `json:"created"`
}

// Validate checks the fields every approval must carry.
func (r *Reference) Validate() error {
	var v validator
	v.required("requestId", r.RequestID)
	v.required("imagePath", r.ImagePath)
	v.required("finalPrompt", r.FinalPrompt)
	if r.Tier != "" && !r.Tier.Valid() {
		v.add("tier %q is not recognized", r.Tier)
	}
	return v.err()
}

// pinned filters refs down to the pinned entries, preserving order.
func pinned(refs []Reference) []Reference {
	out := []Reference{}
	for _, r := range refs {
		if r.Pinned {
			out = append(out, r)
		}
	}
	return out
}

// PinnedOf returns the pinned entries of refs in order.
func PinnedOf(refs []Reference) []Reference {
	return pinned(refs)
}
