// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// CampaignType categorizes a campaign. CampaignTypeOther is the default and
// is left out of generation context.
type CampaignType string

const (
	CampaignTypeAnniversary    CampaignType = "Anniversary"
	CampaignTypeProductLaunch  CampaignType = "Product Launch"
	CampaignTypeSeasonal       CampaignType = "Seasonal"
	CampaignTypeBrandAwareness CampaignType = "Brand Awareness"
	CampaignTypeEvent          CampaignType = "Event"
	CampaignTypeOther          CampaignType = "Other"
)

// Recurrence describes how often a campaign repeats.
type Recurrence string

const (
	RecurrenceOneTime   Recurrence = "one-time"
	RecurrenceWeekly    Recurrence = "weekly"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

var campaignTypes = map[CampaignType]bool{
	CampaignTypeAnniversary:    true,
	CampaignTypeProductLaunch:  true,
	CampaignTypeSeasonal:       true,
	CampaignTypeBrandAwareness: true,
	CampaignTypeEvent:          true,
	CampaignTypeOther:          true,
}

var recurrences = map[Recurrence]bool{
	RecurrenceOneTime:   true,
	RecurrenceWeekly:    true,
	RecurrenceMonthly:   true,
	RecurrenceQuarterly: true,
	RecurrenceYearly:    true,
}

// ImageSpecifications is the structured output format requested for a
// campaign's images. Empty fields are omitted from prompts.
type ImageSpecifications struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	Format      string `json:"format,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// IsZero reports whether no specification field is set.
func (s ImageSpecifications) IsZero() bool {
	return s == ImageSpecifications{}
}

// Campaign belongs to exactly one project and is identified by its name
// within that project.
type Campaign struct {
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	CampaignType        CampaignType        `json:"campaignType"`
	Recurrence          Recurrence          `json:"recurrence"`
	TargetAudience      string              `json:"targetAudience,omitempty"`
	ImageRequirements   []string            `json:"imageRequirements"`
	ImageSpecifications ImageSpecifications `json:"imageSpecifications"`
	StartDate           string              `json:"startDate,omitempty"`
	EndDate             string              `json:"endDate,omitempty"`
	Palette             []string            `json:"palette"`
	SloganTemplates     []string            `json:"sloganTemplates"`
	ReferenceImages     []ReferenceImage    `json:"referenceImages"`
	Created             time.Time           `json:"created"`
	Updated             time.Time           `json:"updated"`
}

// Validate checks required fields, enumerations, and date formats.
func (c *Campaign) Validate() error {
	if err := ValidateName("campaign", c.Name); err != nil {
		return err
	}
	var v validator
	v.required("description", c.Description)
	if c.CampaignType != "" && !campaignTypes[c.CampaignType] {
		v.add("campaignType %q is not recognized", c.CampaignType)
	}
	if c.Recurrence != "" && !recurrences[c.Recurrence] {
		v.add("recurrence %q is not recognized", c.Recurrence)
	}
	v.date("startDate", c.StartDate)
	v.date("endDate", c.EndDate)
	v.dateRange(c.StartDate, c.EndDate)
	return v.err()
}

// Prepare fills defaults for a newly created campaign.
func (c *Campaign) Prepare(now time.Time) {
	if c.CampaignType == "" {
		c.CampaignType = CampaignTypeOther
	}
	if c.Recurrence == "" {
		c.Recurrence = RecurrenceOneTime
	}
	if c.StartDate == "" {
		c.StartDate = now.Format(DateLayout)
	}
	if c.ImageRequirements == nil {
		c.ImageRequirements = []string{}
	}
	if c.Palette == nil {
		c.Palette = []string{}
	}
	if c.SloganTemplates == nil {
		c.SloganTemplates = []string{}
	}
	if c.ReferenceImages == nil {
		c.ReferenceImages = []ReferenceImage{}
	}
	c.Created = now
	c.Updated = now
}

// Touch records a mutation.
func (c *Campaign) Touch(now time.Time) {
	c.Updated = advance(c.Updated, now)
}
