// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// Error is a classified provider failure. StatusCode is the HTTP status
// when the provider answered; Code and Type carry the provider's own error
// identifiers (e.g. "insufficient_quota", "image_generation_user_error").
type Error struct {
	Provider   string
	StatusCode int
	Code       string
	Type       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsQuotaOrAuth reports whether err is a rate limit, an authentication
// failure, or an explicit insufficient-quota condition. These trigger the
// local prompt fallback.
func IsQuotaOrAuth(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusUnauthorized ||
		e.Code == "insufficient_quota" ||
		e.Type == "insufficient_quota"
}

// IsQuotaExceeded reports whether err is a rate limit or quota condition.
func IsQuotaExceeded(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests ||
		e.Code == "insufficient_quota" ||
		e.Type == "insufficient_quota"
}

// IsDemoEligible reports whether err allows substituting a demo image:
// rate limit, bad request, insufficient quota, or the provider's image
// generation user error.
func IsDemoEligible(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusBadRequest ||
		e.Code == "insufficient_quota" ||
		e.Type == "insufficient_quota" ||
		e.Type == "image_generation_user_error" ||
		e.Code == "image_generation_user_error"
}

// Message returns the provider's own message for err, or err's text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// fromOpenAI classifies an error returned by the go-openai client.
func fromOpenAI(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		var code string
		switch c := apiErr.Code.(type) {
		case nil:
		case string:
			code = c
		default:
			code = fmt.Sprint(c)
		}
		return &Error{
			Provider:   provider,
			StatusCode: apiErr.HTTPStatusCode,
			Code:       code,
			Type:       apiErr.Type,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := http.StatusText(reqErr.HTTPStatusCode)
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &Error{Provider: provider, StatusCode: reqErr.HTTPStatusCode, Message: msg, Err: err}
	}
	return &Error{Provider: provider, Message: err.Error(), Err: err}
}
