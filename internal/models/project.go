// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ClientContact holds optional contact details for a project's client.
type ClientContact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Project is the top-level grouping for a client's campaigns. The name is
// its identity and never changes once the project is created.
type Project struct {
	Name            string           `json:"name"`
	ClientName      string           `json:"clientName"`
	ClientContact   ClientContact    `json:"clientContact"`
	Description     string           `json:"description"`
	StyleGuide      string           `json:"styleGuide"`
	StartDate       string           `json:"startDate,omitempty"`
	EndDate         string           `json:"endDate,omitempty"`
	References      []string         `json:"references"`
	ApprovedImages  []Reference      `json:"approvedImages"`
	ReferenceImages []ReferenceImage `json:"referenceImages"`
	Created         time.Time        `json:"created"`
	Updated         time.Time        `json:"updated"`
}

// Validate checks required fields and date formats.
func (p *Project) Validate() error {
	if err := ValidateName("project", p.Name); err != nil {
		return err
	}
	var v validator
	v.required("clientName", p.ClientName)
	v.required("description", p.Description)
	v.required("styleGuide", p.StyleGuide)
	v.date("startDate", p.StartDate)
	v.date("endDate", p.EndDate)
	v.dateRange(p.StartDate, p.EndDate)
	for i, ref := range p.ApprovedImages {
		if err := ref.Validate(); err != nil {
			v.add("approvedImages[%d]: %v", i, err)
		}
	}
	return v.err()
}

// Prepare fills defaults for a newly created project: empty collections,
// a start date of today, and both timestamps set to now.
func (p *Project) Prepare(now time.Time) {
	if p.StartDate == "" {
		p.StartDate = now.Format(DateLayout)
	}
	if p.References == nil {
		p.References = []string{}
	}
	if p.ApprovedImages == nil {
		p.ApprovedImages = []Reference{}
	}
	if p.ReferenceImages == nil {
		p.ReferenceImages = []ReferenceImage{}
	}
	for i := range p.ApprovedImages {
		p.ApprovedImages[i].Tier = TierProject
	}
	p.Created = now
	p.Updated = now
}

// Touch records a mutation.
func (p *Project) Touch(now time.Time) {
	p.Updated = advance(p.Updated, now)
}

// PinnedReferences returns the project-tier approvals flagged as pinned,
// in collection order.
func (p *Project) PinnedReferences() []Reference {
	return pinned(p.ApprovedImages)
}
