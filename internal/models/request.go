// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a generation request.
type RequestStatus string

const (
	RequestStatusPending       RequestStatus = "Pending"
	RequestStatusGenerating    RequestStatus = "Generating"
	RequestStatusSucceeded     RequestStatus = "Succeeded"
	RequestStatusNeedsFeedback RequestStatus = "Needs Feedback"
	RequestStatusFailed        RequestStatus = "Failed"
)

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusGenerating, RequestStatusSucceeded,
		RequestStatusNeedsFeedback, RequestStatusFailed:
		return true
	}
	return false
}

// Request is a single image-generation ask within a campaign.
type Request struct {
	ID               uuid.UUID     `json:"id"`
	RawPrompt        string        `json:"rawPrompt"`
	Status           RequestStatus `json:"status"`
	Feedback         string        `json:"feedback,omitempty"`
	ApprovedExamples []string      `json:"approvedExamples"`
	Created          time.Time     `json:"created"`
	Updated          time.Time     `json:"updated"`
}

// NewRequest creates a Pending request with a fresh id.
func NewRequest(rawPrompt string, now time.Time) *Request {
	return &Request{
		ID:               uuid.New(),
		RawPrompt:        rawPrompt,
		Status:           RequestStatusPending,
		ApprovedExamples: []string{},
		Created:          now,
		Updated:          now,
	}
}

// Validate checks required fields and the status value.
func (r *Request) Validate() error {
	var v validator
	v.required("rawPrompt", r.RawPrompt)
	if !r.Status.Valid() {
		v.add("status %q is not recognized", r.Status)
	}
	return v.err()
}

// SetStatus moves the request to s. Users may set any known status by hand
// (typically Needs Feedback); generation drives the rest through
// BeginGeneration and FinishGeneration.
func (r *Request) SetStatus(s RequestStatus, now time.Time) error {
	if !s.Valid() {
		return &ValidationError{Problems: []string{"status " + string(s) + " is not recognized"}}
	}
	r.Status = s
	r.Updated = advance(r.Updated, now)
	return nil
}

// BeginGeneration enters Generating from any prior state.
func (r *Request) BeginGeneration(now time.Time) {
	r.Status = RequestStatusGenerating
	r.Updated = advance(r.Updated, now)
}

// FinishGeneration records the outcome of a generation run.
func (r *Request) FinishGeneration(success bool, now time.Time) {
	if success {
		r.Status = RequestStatusSucceeded
	} else {
		r.Status = RequestStatusFailed
	}
	r.Updated = advance(r.Updated, now)
}

// Touch records a mutation.
func (r *Request) Touch(now time.Time) {
	r.Updated = advance(r.Updated, now)
}
