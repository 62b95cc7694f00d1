// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for project and campaign ranges.
const DateLayout = "2006-01-02"

// ValidationError collects every problem found in a user-supplied document.
// It is never retried and maps to 400 Bad Request at the HTTP layer.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// validator accumulates problems while a document is checked field by field.
type validator struct {
	problems []string
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.problems = append(v.problems, fmt.Sprintf("%s is required", field))
	}
}

func (v *validator) date(field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		v.problems = append(v.problems, fmt.Sprintf("%s must be a YYYY-MM-DD date", field))
	}
}

func (v *validator) dateRange(start, end string) {
	s, err1 := time.Parse(DateLayout, start)
	e, err2 := time.Parse(DateLayout, end)
	if err1 == nil && err2 == nil && e.Before(s) {
		v.problems = append(v.problems, "endDate must not be before startDate")
	}
}

func (v *validator) add(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

// ValidateName checks that a project or campaign name is usable as a
// storage path segment.
func ValidateName(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Problems: []string{kind + " name is required"}}
	case name == "." || name == "..":
		return &ValidationError{Problems: []string{kind + " name must not be a relative path"}}
	case strings.ContainsAny(name, `/\`):
		return &ValidationError{Problems: []string{kind + " name must not contain path separators"}}
	}
	return nil
}

// SplitTags turns a comma separated tag string into a trimmed list,
// dropping empty entries.
func SplitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// advance returns now, or prev when the clock went backwards, so that
// update timestamps never decrease.
func advance(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
